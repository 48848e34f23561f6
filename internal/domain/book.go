package domain

import (
	"mmclient/pkg/quant"
	"mmclient/pkg/safe"
)

// Book owns the exposure state of the single traded instrument:
// signed inventory, cash flow, mark-to-market PnL and the in-flight
// (pending) quantities reserved by submitted orders.
//
// Book is NOT self-locking. It is owned by the sequencer and must only
// be touched from its loop.
type Book struct {
	Inventory   int64             // signed net position; positive = long
	CashMicros  int64             // cumulative cash flow from fills
	PnLMicros   int64             // CashMicros + Inventory*mid, recomputed per fill
	PendingBuy  int64             // reserved, not yet reconciled buy qty
	PendingSell int64             // reserved, not yet reconciled sell qty
	LastMid     quant.PriceMicros // mid used in the last PnL recompute

	prevInventory int64
}

// ApplyFill mutates inventory and cash flow for one fill and recomputes
// PnL against the given mid. A BUY adds inventory and pays cash; a SELL
// removes inventory and receives cash.
func (b *Book) ApplyFill(f Fill, midMicros quant.PriceMicros) {
	notional := safe.SafeMul(f.Qty, int64(f.PriceMicros))
	switch f.Side {
	case SideBuy:
		b.Inventory = safe.SafeAdd(b.Inventory, f.Qty)
		b.CashMicros = safe.SafeSub(b.CashMicros, notional)
	case SideSell:
		b.Inventory = safe.SafeSub(b.Inventory, f.Qty)
		b.CashMicros = safe.SafeAdd(b.CashMicros, notional)
	default:
		return
	}
	b.MarkToMarket(midMicros)
}

// MarkToMarket recomputes PnL = cash + inventory*mid. Idempotent.
func (b *Book) MarkToMarket(midMicros quant.PriceMicros) {
	b.LastMid = midMicros
	b.PnLMicros = safe.SafeAdd(b.CashMicros, safe.SafeMul(b.Inventory, int64(midMicros)))
}

// ReconcilePending infers how much outstanding intent was consumed by
// fills since the last call, from the inventory delta: inventory grew
// => buys filled, shrank => sells filled. Decrements are clamped at
// zero; pending quantities never go negative.
//
// This conflates concurrent orders' fills on purpose; see DESIGN.md for
// the per-order-tracking alternative that was not taken.
func (b *Book) ReconcilePending() {
	delta := safe.SafeSub(b.Inventory, b.prevInventory)
	switch {
	case delta > 0:
		b.PendingBuy = safe.ClampSub(b.PendingBuy, delta)
	case delta < 0:
		b.PendingSell = safe.ClampSub(b.PendingSell, -delta)
	}
	b.prevInventory = b.Inventory
}

// ReserveBuy records qty as in-flight buy exposure.
func (b *Book) ReserveBuy(qty int64) {
	b.PendingBuy = safe.SafeAdd(b.PendingBuy, qty)
}

// ReserveSell records qty as in-flight sell exposure.
func (b *Book) ReserveSell(qty int64) {
	b.PendingSell = safe.SafeAdd(b.PendingSell, qty)
}

// BuyCapacity is how much more the book may buy before inventory plus
// in-flight buys would breach maxInventory. Floored at zero.
func (b *Book) BuyCapacity(maxInventory int64) int64 {
	return safe.Clamp0(maxInventory - b.Inventory - b.PendingBuy)
}

// SellCapacity is how much more the book may sell before inventory
// minus in-flight sells would breach -maxInventory. Floored at zero.
func (b *Book) SellCapacity(maxInventory int64) int64 {
	return safe.Clamp0(b.Inventory + maxInventory - b.PendingSell)
}
