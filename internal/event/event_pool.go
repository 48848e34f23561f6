package event

import "sync"

// Market snapshots arrive every step; pooling them keeps the feed
// hotpath allocation-free. Level slices keep their capacity across
// reuse.
var marketUpdatePool = sync.Pool{
	New: func() any {
		return &MarketUpdateEvent{}
	},
}

// AcquireMarketUpdateEvent returns a reset event from the pool.
func AcquireMarketUpdateEvent() *MarketUpdateEvent {
	return marketUpdatePool.Get().(*MarketUpdateEvent)
}

// ReleaseMarketUpdateEvent resets and returns an event to the pool.
// The caller must not touch the event afterwards.
func ReleaseMarketUpdateEvent(ev *MarketUpdateEvent) {
	ev.Seq = 0
	ev.Ts = 0
	ev.Snapshot.Step = 0
	ev.Snapshot.BidMicros = 0
	ev.Snapshot.AskMicros = 0
	ev.Snapshot.Bids = ev.Snapshot.Bids[:0]
	ev.Snapshot.Asks = ev.Snapshot.Asks[:0]
	marketUpdatePool.Put(ev)
}

// Warmup pre-populates the pool so the first ticks do not allocate.
func Warmup() {
	events := make([]*MarketUpdateEvent, 0, 64)
	for i := 0; i < 64; i++ {
		events = append(events, AcquireMarketUpdateEvent())
	}
	for _, ev := range events {
		ReleaseMarketUpdateEvent(ev)
	}
}
