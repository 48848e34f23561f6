package execution

import (
	"context"
	"log/slog"

	"mmclient/internal/domain"
)

// MockExecution is a safe implementation that only logs orders.
type MockExecution struct{}

func NewMockExecution() *MockExecution {
	return &MockExecution{}
}

func (m *MockExecution) SubmitOrder(ctx context.Context, order domain.Order) error {
	slog.Info("MOCK EXECUTION: Submit Order",
		slog.String("id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("price", order.PriceMicros.String()),
		slog.Int64("qty", order.Qty),
	)
	return nil
}

func (m *MockExecution) CompleteStep(ctx context.Context, step uint64) error {
	slog.Info("MOCK EXECUTION: Step Done", slog.Uint64("step", step))
	return nil
}
