package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"mmclient/internal/domain"
	"mmclient/internal/event"
	"mmclient/pkg/quant"
)

// wireLevel is one depth level as the feed serializes it.
type wireLevel struct {
	Price json.Number `json:"price"`
	Qty   int64       `json:"qty"`
}

// feedMessage covers both snapshot frames and the connection
// confirmation sentinel. Prices stay json.Number until the fixed-point
// conversion.
type feedMessage struct {
	Type      string      `json:"type"`
	Step      *uint64     `json:"step"`
	Bid       json.Number `json:"bid"`
	Ask       json.Number `json:"ask"`
	BidLevels []wireLevel `json:"bid_levels"`
	AskLevels []wireLevel `json:"ask_levels"`
}

// FeedWorker consumes the market data push channel and turns snapshot
// frames into pooled MarketUpdateEvents. Malformed frames are logged
// and skipped; they never take the consumer down.
type FeedWorker struct {
	worker *SocketWorker
	url    string
	inbox  chan<- event.Event
	seq    *uint64
}

// NewFeedWorker creates the market feed adapter.
func NewFeedWorker(url string, inbox chan<- event.Event, seq *uint64) *FeedWorker {
	w := &FeedWorker{url: url, inbox: inbox, seq: seq}
	w.worker = NewSocketWorker(w)
	return w
}

// ID returns the worker identifier.
func (w *FeedWorker) ID() string { return "FEED" }

// GetURL returns the feed endpoint (token rides in the query string).
func (w *FeedWorker) GetURL() string { return w.url }

// Connect starts the websocket connection.
func (w *FeedWorker) Connect(ctx context.Context) error {
	return w.worker.Start(ctx)
}

// Disconnect terminates the connection.
func (w *FeedWorker) Disconnect() {
	w.worker.Stop()
}

// Closed signals loss of the feed channel.
func (w *FeedWorker) Closed() <-chan struct{} {
	return w.worker.Closed()
}

// OnConnect is a no-op: the feed authenticates via the URL token and
// confirms with a sentinel frame we ignore.
func (w *FeedWorker) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	return nil
}

// OnMessage handles one inbound frame.
func (w *FeedWorker) OnMessage(ctx context.Context, msg []byte) {
	var frame feedMessage
	if err := json.Unmarshal(msg, &frame); err != nil {
		slog.Warn("Feed: malformed message skipped", slog.Any("error", err))
		return
	}
	if frame.Type != "" {
		// Connection-confirmation sentinel (or anything else tagged).
		slog.Debug("Feed: status frame ignored", slog.String("type", frame.Type))
		return
	}
	if frame.Step == nil {
		slog.Warn("Feed: frame without step skipped")
		return
	}

	ev := event.AcquireMarketUpdateEvent()
	if ok := w.decodeSnapshot(&frame, &ev.Snapshot); !ok {
		event.ReleaseMarketUpdateEvent(ev)
		return
	}
	ev.Seq = quant.NextSeq(w.seq)
	ev.Ts = quant.TimeStamp(time.Now().UnixMicro())

	select {
	case w.inbox <- ev:
	default:
		// Inbox full: drop the stale snapshot, return it to the pool.
		slog.Warn("Feed: inbox full, snapshot dropped", slog.Uint64("step", *frame.Step))
		event.ReleaseMarketUpdateEvent(ev)
	}
}

func (w *FeedWorker) decodeSnapshot(frame *feedMessage, snap *domain.Snapshot) bool {
	bid, err := quant.ParsePriceMicros(frame.Bid)
	if err != nil {
		slog.Warn("Feed: bad bid skipped", slog.Any("error", err))
		return false
	}
	ask, err := quant.ParsePriceMicros(frame.Ask)
	if err != nil {
		slog.Warn("Feed: bad ask skipped", slog.Any("error", err))
		return false
	}

	snap.Step = *frame.Step
	snap.BidMicros = bid
	snap.AskMicros = ask
	for _, lvl := range frame.BidLevels {
		p, err := quant.ParsePriceMicros(lvl.Price)
		if err != nil {
			slog.Warn("Feed: bad bid level skipped", slog.Any("error", err))
			return false
		}
		snap.Bids = append(snap.Bids, domain.Level{PriceMicros: p, Qty: lvl.Qty})
	}
	for _, lvl := range frame.AskLevels {
		p, err := quant.ParsePriceMicros(lvl.Price)
		if err != nil {
			slog.Warn("Feed: bad ask level skipped", slog.Any("error", err))
			return false
		}
		snap.Asks = append(snap.Asks, domain.Level{PriceMicros: p, Qty: lvl.Qty})
	}
	return true
}
