package domain

import "mmclient/pkg/quant"

// Level is one depth level of the book.
type Level struct {
	PriceMicros quant.PriceMicros
	Qty         int64
}

// Snapshot is one immutable market picture, produced once per
// simulation step by the feed.
// Fields are ordered for cache-line efficiency: hot fields first.
type Snapshot struct {
	BidMicros quant.PriceMicros
	AskMicros quant.PriceMicros
	Step      uint64
	Bids      []Level
	Asks      []Level
}

// MidMicros derives the mark price: average of both sides when present,
// the single present side otherwise, zero for "no market".
func (s *Snapshot) MidMicros() quant.PriceMicros {
	switch {
	case s.BidMicros > 0 && s.AskMicros > 0:
		return (s.BidMicros + s.AskMicros) / 2
	case s.BidMicros > 0:
		return s.BidMicros
	case s.AskMicros > 0:
		return s.AskMicros
	default:
		return 0
	}
}

// BestBidQty returns the quantity resting at the top bid level, 0 if
// the bid book is empty.
func (s *Snapshot) BestBidQty() int64 {
	if len(s.Bids) == 0 {
		return 0
	}
	return s.Bids[0].Qty
}

// BestAskQty returns the quantity resting at the top ask level, 0 if
// the ask book is empty.
func (s *Snapshot) BestAskQty() int64 {
	if len(s.Asks) == 0 {
		return 0
	}
	return s.Asks[0].Qty
}
