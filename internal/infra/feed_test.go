package infra

import (
	"context"
	"testing"

	"mmclient/internal/event"
)

func TestFeedWorkerDecodesSnapshot(t *testing.T) {
	inbox := make(chan event.Event, 4)
	var seq uint64
	w := NewFeedWorker("ws://unused", inbox, &seq)

	frame := `{"step":7,"bid":"104.95","ask":"105.05",` +
		`"bid_levels":[{"price":"104.95","qty":300}],` +
		`"ask_levels":[{"price":"105.05","qty":450}]}`
	w.OnMessage(context.Background(), []byte(frame))

	if len(inbox) != 1 {
		t.Fatalf("inbox len = %d, want 1", len(inbox))
	}
	ev, ok := (<-inbox).(*event.MarketUpdateEvent)
	if !ok {
		t.Fatal("expected MarketUpdateEvent")
	}
	snap := ev.Snapshot
	if snap.Step != 7 {
		t.Errorf("step = %d, want 7", snap.Step)
	}
	if snap.BidMicros != 104_950_000 || snap.AskMicros != 105_050_000 {
		t.Errorf("bid/ask = %d/%d", snap.BidMicros, snap.AskMicros)
	}
	if snap.BestBidQty() != 300 || snap.BestAskQty() != 450 {
		t.Errorf("depth = %d/%d, want 300/450", snap.BestBidQty(), snap.BestAskQty())
	}
	event.ReleaseMarketUpdateEvent(ev)
}

func TestFeedWorkerIgnoresSentinel(t *testing.T) {
	inbox := make(chan event.Event, 4)
	var seq uint64
	w := NewFeedWorker("ws://unused", inbox, &seq)

	w.OnMessage(context.Background(), []byte(`{"type":"connected"}`))

	if len(inbox) != 0 {
		t.Errorf("sentinel produced %d events, want 0", len(inbox))
	}
}

func TestFeedWorkerSkipsMalformedFrames(t *testing.T) {
	inbox := make(chan event.Event, 4)
	var seq uint64
	w := NewFeedWorker("ws://unused", inbox, &seq)

	cases := []string{
		`not json at all`,
		`{"bid":"104.95","ask":"105.05"}`,            // no step
		`{"step":3,"bid":"oops","ask":"105.05"}`,     // bad bid
		`{"step":3,"bid":"104.95","ask":"105.05","bid_levels":[{"price":"x","qty":1}]}`, // bad level
	}
	for _, c := range cases {
		w.OnMessage(context.Background(), []byte(c))
	}

	if len(inbox) != 0 {
		t.Errorf("malformed frames produced %d events, want 0", len(inbox))
	}
}

func TestFeedWorkerDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan event.Event, 1)
	var seq uint64
	w := NewFeedWorker("ws://unused", inbox, &seq)

	frame := `{"step":1,"bid":"100.0","ask":"101.0"}`
	w.OnMessage(context.Background(), []byte(frame))
	w.OnMessage(context.Background(), []byte(`{"step":2,"bid":"100.0","ask":"101.0"}`))

	if len(inbox) != 1 {
		t.Fatalf("inbox len = %d, want 1", len(inbox))
	}
	ev := (<-inbox).(*event.MarketUpdateEvent)
	if ev.Snapshot.Step != 1 {
		t.Errorf("kept step = %d, want the first snapshot", ev.Snapshot.Step)
	}
	event.ReleaseMarketUpdateEvent(ev)
}

func TestFeedWorkerEmptyLevelsAllowed(t *testing.T) {
	inbox := make(chan event.Event, 4)
	var seq uint64
	w := NewFeedWorker("ws://unused", inbox, &seq)

	w.OnMessage(context.Background(), []byte(`{"step":9,"bid":"0","ask":"105.05"}`))

	ev := (<-inbox).(*event.MarketUpdateEvent)
	if ev.Snapshot.BestBidQty() != 0 {
		t.Errorf("BestBidQty = %d, want 0 without depth", ev.Snapshot.BestBidQty())
	}
	event.ReleaseMarketUpdateEvent(ev)
}
