package strategy

import (
	"mmclient/internal/domain"
)

// Strategy defines the interface for trading logic.
type Strategy interface {
	// OnMarketUpdate is called once per market snapshot. It returns the
	// number of orders written to the 'out' buffer (0 or 1 for the
	// quoter). Zero-Alloc: caller provides the 'out' slice.
	OnMarketUpdate(snap domain.Snapshot, out []domain.Order) int

	// OnOrderUpdate is called when a fill arrives from the gateway.
	OnOrderUpdate(fill domain.Fill)
}
