package strategy

import (
	"mmclient/internal/domain"
	"mmclient/pkg/quant"
	"mmclient/pkg/safe"
)

// Config holds the quoter's tunables. There are no hidden globals: one
// Config, one Book, one Quoter per session.
type Config struct {
	// MaxInventory is the absolute inventory ceiling the sizing aims
	// for. Async fills can overshoot it transiently.
	MaxInventory int64
	// LotSize is the lot the candidate quantity is truncated down to.
	LotSize int64
	// EdgePerUnit converts price edge into a size signal: candidate
	// qty = floor(edge * EdgePerUnit) with edge in whole price units.
	EdgePerUnit int64
	// WarmupSteps disables trading while the reference windows fill.
	WarmupSteps uint64
	// ImproveMicros is subtracted from (added to) the touch when
	// quoting a primary sell (buy).
	ImproveMicros quant.PriceMicros
	// SweepMicros prices the fallback order through the far touch so
	// it fills immediately.
	SweepMicros quant.PriceMicros
	// FloorMicros bounds the fallback sell price from below. It is
	// not derived from market data, which is why it lives in config
	// and not in code.
	FloorMicros quant.PriceMicros
	// FallbackQty caps the liquidity-taking fallback order.
	FallbackQty int64
}

// DefaultConfig returns the stock parameter set.
func DefaultConfig() Config {
	return Config{
		MaxInventory:  2000,
		LotSize:       100,
		EdgePerUnit:   50,
		WarmupSteps:   3,
		ImproveMicros: 100_000,       // 0.1
		SweepMicros:   10_000_000,    // 10
		FloorMicros:   1_000_000_000, // 1000
		FallbackQty:   100,
	}
}

// Quoter is the per-tick decision engine. On each snapshot it
// reconciles in-flight exposure, compares the touch against the
// trailing fill references and emits at most one order.
//
// Two engine states matter: warmup (step below WarmupSteps, always
// no-op) and armed. The transition is irreversible and driven purely
// by the step counter.
type Quoter struct {
	cfg  Config
	book *domain.Book

	// bidWin holds recent SELL fill prices (executions against the
	// bid), askWin recent BUY fill prices. Current-tick fills only
	// land here after the decision that produced them.
	bidWin *RefWindow
	askWin *RefWindow
}

// NewQuoter wires the quoter to its exposure book.
func NewQuoter(cfg Config, book *domain.Book) *Quoter {
	return &Quoter{
		cfg:    cfg,
		book:   book,
		bidWin: NewRefWindow(),
		askWin: NewRefWindow(),
	}
}

// OnMarketUpdate runs one decision cycle. It writes at most one order
// into out and returns the count. The sell trigger has exclusive
// priority: if it fires (primary or fallback), the buy trigger is not
// evaluated this tick.
func (q *Quoter) OnMarketUpdate(snap domain.Snapshot, out []domain.Order) int {
	q.book.ReconcilePending()

	if snap.Step < q.cfg.WarmupSteps {
		return 0
	}

	if avgBid := q.bidWin.AverageMicros(); snap.BidMicros > avgBid {
		return q.quoteSell(snap, avgBid, out)
	}
	if avgAsk := q.askWin.AverageMicros(); snap.AskMicros < avgAsk {
		return q.quoteBuy(snap, avgAsk, out)
	}
	return 0
}

// OnOrderUpdate records the fill price into the side's reference
// window. SELL fills trade against the bid and feed the bid window,
// BUY fills feed the ask window.
func (q *Quoter) OnOrderUpdate(fill domain.Fill) {
	switch fill.Side {
	case domain.SideSell:
		q.bidWin.Record(fill.PriceMicros)
	case domain.SideBuy:
		q.askWin.Record(fill.PriceMicros)
	}
}

// quoteSell handles bid > avgBid: quote a passive sell sized against
// capacity, visible depth and edge. If sizing collapses to zero, take
// a small marketable buy instead.
func (q *Quoter) quoteSell(snap domain.Snapshot, avgBid quant.PriceMicros, out []domain.Order) int {
	cand := safe.Min3(
		q.book.SellCapacity(q.cfg.MaxInventory),
		snap.BestBidQty(),
		q.edgeQty(snap.BidMicros, avgBid),
	)
	cand = quant.RoundDownToLot(cand, q.cfg.LotSize)
	if cand > 0 {
		q.book.ReserveSell(cand)
		out[0] = domain.Order{
			Side:        domain.SideSell,
			PriceMicros: snap.BidMicros - q.cfg.ImproveMicros,
			Qty:         cand,
		}
		return 1
	}

	qty := safe.Min(q.cfg.FallbackQty, q.book.BuyCapacity(q.cfg.MaxInventory))
	if qty <= 0 {
		return 0
	}
	q.book.ReserveBuy(qty)
	out[0] = domain.Order{
		Side:        domain.SideBuy,
		PriceMicros: snap.AskMicros + q.cfg.SweepMicros,
		Qty:         qty,
	}
	return 1
}

// quoteBuy is the mirror of quoteSell for ask < avgAsk.
func (q *Quoter) quoteBuy(snap domain.Snapshot, avgAsk quant.PriceMicros, out []domain.Order) int {
	cand := safe.Min3(
		q.book.BuyCapacity(q.cfg.MaxInventory),
		snap.BestAskQty(),
		q.edgeQty(avgAsk, snap.AskMicros),
	)
	cand = quant.RoundDownToLot(cand, q.cfg.LotSize)
	if cand > 0 {
		q.book.ReserveBuy(cand)
		out[0] = domain.Order{
			Side:        domain.SideBuy,
			PriceMicros: snap.AskMicros + q.cfg.ImproveMicros,
			Qty:         cand,
		}
		return 1
	}

	qty := safe.Min(q.cfg.FallbackQty, q.book.SellCapacity(q.cfg.MaxInventory))
	if qty <= 0 {
		return 0
	}
	q.book.ReserveSell(qty)
	price := snap.BidMicros - q.cfg.SweepMicros
	if price < q.cfg.FloorMicros {
		price = q.cfg.FloorMicros
	}
	out[0] = domain.Order{
		Side:        domain.SideSell,
		PriceMicros: price,
		Qty:         qty,
	}
	return 1
}

// edgeQty converts a positive price deviation into a raw size signal:
// floor(|hi - lo| * EdgePerUnit) with the deviation in price units.
func (q *Quoter) edgeQty(hi, lo quant.PriceMicros) int64 {
	dev := safe.SafeSub(int64(hi), int64(lo))
	return safe.SafeDiv(safe.SafeMul(dev, q.cfg.EdgePerUnit), quant.PriceScale)
}
