package domain

import "mmclient/pkg/quant"

// Side of an order or fill.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order is a single order intent produced by the strategy. The engine
// assigns the ID just before submission.
type Order struct {
	ID          string
	Side        Side
	PriceMicros quant.PriceMicros
	Qty         int64
}

// Fill is one (possibly partial) execution reported by the gateway.
type Fill struct {
	OrderID     string
	Side        Side
	Qty         int64
	PriceMicros quant.PriceMicros
	RecvUnixM   int64
}
