package domain

import (
	"testing"

	"mmclient/pkg/quant"
)

func TestSnapshotMid(t *testing.T) {
	cases := []struct {
		name     string
		bid, ask quant.PriceMicros
		want     quant.PriceMicros
	}{
		{"both sides", 100_000_000, 102_000_000, 101_000_000},
		{"bid only", 100_000_000, 0, 100_000_000},
		{"ask only", 0, 102_000_000, 102_000_000},
		{"no market", 0, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := Snapshot{BidMicros: c.bid, AskMicros: c.ask}
			if got := s.MidMicros(); got != c.want {
				t.Errorf("MidMicros() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestSnapshotBestQty(t *testing.T) {
	s := Snapshot{
		Bids: []Level{{PriceMicros: 100_000_000, Qty: 500}, {PriceMicros: 99_000_000, Qty: 900}},
	}
	if got := s.BestBidQty(); got != 500 {
		t.Errorf("BestBidQty = %d, want 500", got)
	}
	if got := s.BestAskQty(); got != 0 {
		t.Errorf("BestAskQty = %d, want 0 (empty side)", got)
	}
}
