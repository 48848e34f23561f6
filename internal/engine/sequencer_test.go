package engine_test

import (
	"context"
	"testing"
	"time"

	"mmclient/internal/domain"
	"mmclient/internal/engine"
	"mmclient/internal/event"
	"mmclient/internal/execution"
	"mmclient/internal/strategy"
	"mmclient/pkg/quant"
)

const px = quant.PriceMicros(1_000_000)

func pushSnap(t *testing.T, inbox chan<- event.Event, seq *uint64, step uint64, bid, ask quant.PriceMicros, bidQty, askQty int64) {
	t.Helper()
	ev := event.AcquireMarketUpdateEvent()
	ev.Seq = quant.NextSeq(seq)
	ev.Ts = quant.TimeStamp(time.Now().UnixMicro())
	ev.Snapshot.Step = step
	ev.Snapshot.BidMicros = bid
	ev.Snapshot.AskMicros = ask
	if bidQty > 0 {
		ev.Snapshot.Bids = append(ev.Snapshot.Bids, domain.Level{PriceMicros: bid, Qty: bidQty})
	}
	if askQty > 0 {
		ev.Snapshot.Asks = append(ev.Snapshot.Asks, domain.Level{PriceMicros: ask, Qty: askQty})
	}
	select {
	case inbox <- ev:
	case <-time.After(time.Second):
		t.Fatal("inbox send timed out")
	}
}

// waitFor polls the summary until cond holds or the deadline passes.
func waitFor(t *testing.T, seq *engine.Sequencer, cond func(engine.Summary) bool) engine.Summary {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sum := seq.Summary(); cond(sum) {
			return sum
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached; summary: %+v", seq.Summary())
	return engine.Summary{}
}

// End-to-end loop: scripted snapshots through the real quoter with the
// paper gateway feeding fills back into the same inbox.
func TestSequencerEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	book := &domain.Book{}
	quoter := strategy.NewQuoter(strategy.DefaultConfig(), book)

	var seqCounter uint64
	seq := engine.NewSequencer(256, book, quoter, nil)
	paper := execution.NewPaperExecution(seq.Inbox(), &seqCounter)
	seq.SetExecution(paper)

	go seq.Run(ctx)

	// Warmup: steps 0..2 never emit, whatever the book looks like.
	for step := uint64(0); step < 3; step++ {
		pushSnap(t, seq.Inbox(), &seqCounter, step, 105*px, 106*px, 500, 500)
	}
	time.Sleep(20 * time.Millisecond)
	if sum := seq.Summary(); sum.OrdersSent != 0 {
		t.Fatalf("warmup emitted %d orders", sum.OrdersSent)
	}

	// Step 3: armed. Zero-seeded bid reference makes bid=105 a sell
	// trigger: min(capacity 2000, depth 500, edge 105*50) -> SELL 500
	// @ 104.9, filled at once by the paper gateway.
	pushSnap(t, seq.Inbox(), &seqCounter, 3, 105*px, 106*px, 500, 500)
	sum := waitFor(t, seq, func(s engine.Summary) bool { return s.Fills == 1 })
	if sum.OrdersSent != 1 {
		t.Fatalf("orders = %d, want 1", sum.OrdersSent)
	}
	if sum.Inventory != -500 {
		t.Fatalf("inventory = %d, want -500", sum.Inventory)
	}

	// Step 4: avgBid is now 104.9/3, still far below the touch ->
	// another SELL 500 (capacity 1500 after reconcile, depth 500).
	pushSnap(t, seq.Inbox(), &seqCounter, 4, 105*px, 106*px, 500, 500)
	sum = waitFor(t, seq, func(s engine.Summary) bool { return s.Fills == 2 })
	if sum.OrdersSent != 2 {
		t.Fatalf("orders = %d, want 2", sum.OrdersSent)
	}
	if sum.Inventory != -1000 {
		t.Fatalf("inventory = %d, want -1000", sum.Inventory)
	}

	// PnL identity: cash from two 500-lot sells @ 104.9 marked against
	// mid 105.5 = 2*500*104.9 - 1000*105.5, in micros.
	wantPnL := int64(2*500*104_900_000) - 1000*105_500_000
	if sum.PnLMicros != wantPnL {
		t.Fatalf("pnl = %d, want %d", sum.PnLMicros, wantPnL)
	}

	fills := paper.Fills()
	if len(fills) != 2 {
		t.Fatalf("paper fills = %d, want 2", len(fills))
	}
	for _, f := range fills {
		if f.Side != domain.SideSell || f.Qty != 500 || f.PriceMicros != 105*px-100_000 {
			t.Errorf("unexpected fill %+v", f)
		}
		if f.OrderID == "" {
			t.Error("fill missing order id")
		}
	}

	// Latency aggregates observed something; advisory only.
	if sum.TickGap.Count == 0 {
		t.Error("tick gap latency never observed")
	}
	if sum.FillLag.Count != 2 {
		t.Errorf("fill lag count = %d, want 2", sum.FillLag.Count)
	}
}

// Summary must be safe to poll from another goroutine while the loop
// is processing: every field it reads, including the latency
// aggregates, is written under the same lock. Meaningful under -race.
func TestSequencerSummaryConcurrentWithLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	book := &domain.Book{}
	quoter := strategy.NewQuoter(strategy.DefaultConfig(), book)

	var seqCounter uint64
	seq := engine.NewSequencer(256, book, quoter, nil)
	paper := execution.NewPaperExecution(seq.Inbox(), &seqCounter)
	seq.SetExecution(paper)

	go seq.Run(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				_ = seq.Summary()
			}
		}
	}()

	// 200 snapshots exercise both tick-gap and fill-lag writes while
	// the poller reads.
	for step := uint64(0); step < 200; step++ {
		pushSnap(t, seq.Inbox(), &seqCounter, step, 105*px, 106*px, 500, 500)
	}
	waitFor(t, seq, func(s engine.Summary) bool { return s.TickGap.Count >= 199 })

	cancel()
	<-done
}

func TestSequencerGatewayStatusDoesNotDisturbState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	book := &domain.Book{}
	quoter := strategy.NewQuoter(strategy.DefaultConfig(), book)
	seq := engine.NewSequencer(16, book, quoter, execution.NewMockExecution())
	go seq.Run(ctx)

	seq.Inbox() <- &event.GatewayStatusEvent{Kind: event.StatusAuthenticated}
	seq.Inbox() <- &event.GatewayStatusEvent{Kind: event.StatusError, Message: "order rejected"}

	time.Sleep(10 * time.Millisecond)
	sum := seq.Summary()
	if sum.OrdersSent != 0 || sum.Fills != 0 || sum.Inventory != 0 {
		t.Errorf("status events mutated trading state: %+v", sum)
	}
}
