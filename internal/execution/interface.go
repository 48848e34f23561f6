package execution

import (
	"context"

	"mmclient/internal/domain"
)

// Execution defines the interface for order submission. Both calls are
// fire-and-forget from the sequencer's point of view: no fill or ack is
// awaited.
type Execution interface {
	// SubmitOrder sends a new order to the exchange.
	SubmitOrder(ctx context.Context, order domain.Order) error

	// CompleteStep signals that this step's decision cycle is done.
	CompleteStep(ctx context.Context, step uint64) error
}
