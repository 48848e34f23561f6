package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mmclient/internal/domain"
	"mmclient/internal/event"
	"mmclient/internal/execution"
	"mmclient/internal/strategy"
	"mmclient/pkg/quant"
)

// Sequencer is the core single-threaded event processor. Both inbound
// streams (market snapshots, gateway responses) funnel into one inbox
// consumed by one goroutine; only the fields Summary exposes to other
// goroutines are written under mu.
type Sequencer struct {
	inbox chan event.Event

	book     *domain.Book
	strategy strategy.Strategy
	exec     execution.Execution

	ordersSent int64
	fillsSeen  int64
	lastMid    quant.PriceMicros

	tickGap  Latency // step-completion signal -> next snapshot
	fillLag  Latency // order submission -> matching fill
	lastDone time.Time
	submitAt map[string]time.Time

	out [1]domain.Order

	// mu guards everything Summary reads: counters, lastMid, the book
	// totals and the latency aggregates. The loop takes it on writes;
	// loop-private state (submitAt, lastDone, out) stays outside it.
	mu sync.RWMutex
}

// Submission timestamps kept only for lag measurement. Entries whose
// order never fills (gateway rejection, lost frames) are swept once
// they are clearly dead.
const (
	submitAtHighWater = 1024
	submitAtStale     = 30 * time.Second
)

// NewSequencer creates a sequencer around the given collaborators.
func NewSequencer(inboxSize int, book *domain.Book, strat strategy.Strategy, exec execution.Execution) *Sequencer {
	return &Sequencer{
		inbox:    make(chan event.Event, inboxSize),
		book:     book,
		strategy: strat,
		exec:     exec,
		submitAt: make(map[string]time.Time),
	}
}

// SetExecution wires the execution boundary after construction. The
// paper gateway needs the inbox before it can be built, so the cycle is
// broken here. Must be called before Run.
func (s *Sequencer) SetExecution(exec execution.Execution) {
	s.exec = exec
}

// Inbox returns the event channel. External workers send events here.
func (s *Sequencer) Inbox() chan<- event.Event {
	return s.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (single-thread hotpath)")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case ev := <-s.inbox:
			s.processEvent(ctx, ev)
		}
	}
}

func (s *Sequencer) processEvent(ctx context.Context, ev event.Event) {
	switch e := ev.(type) {
	case *event.MarketUpdateEvent:
		s.handleMarketUpdate(ctx, e)
		event.ReleaseMarketUpdateEvent(e)
	case *event.OrderUpdateEvent:
		s.handleOrderUpdate(e)
	case *event.GatewayStatusEvent:
		s.handleGatewayStatus(e)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}
}

func (s *Sequencer) handleMarketUpdate(ctx context.Context, e *event.MarketUpdateEvent) {
	now := time.Now()

	snap := e.Snapshot
	s.mu.Lock()
	if !s.lastDone.IsZero() {
		s.tickGap.Observe(now.Sub(s.lastDone))
	}
	s.lastMid = snap.MidMicros()
	s.mu.Unlock()

	if len(s.submitAt) > submitAtHighWater {
		s.sweepSubmitAt(now)
	}

	n := s.strategy.OnMarketUpdate(snap, s.out[:])
	if n > 0 {
		order := s.out[0]
		order.ID = uuid.NewString()

		// Fire-and-forget: the step is signalled complete without
		// waiting for an ack or fill.
		if err := s.exec.SubmitOrder(ctx, order); err != nil {
			slog.Error("Order submission failed",
				slog.String("id", order.ID), slog.Any("error", err))
		} else {
			s.mu.Lock()
			s.ordersSent++
			s.mu.Unlock()
			s.submitAt[order.ID] = now
			slog.Info("ORDER",
				slog.Uint64("step", snap.Step),
				slog.String("id", order.ID),
				slog.String("side", string(order.Side)),
				slog.String("price", order.PriceMicros.String()),
				slog.Int64("qty", order.Qty))
		}
	}

	if err := s.exec.CompleteStep(ctx, snap.Step); err != nil {
		slog.Error("Step-completion signal failed",
			slog.Uint64("step", snap.Step), slog.Any("error", err))
	}
	s.lastDone = time.Now()
}

func (s *Sequencer) handleOrderUpdate(e *event.OrderUpdateEvent) {
	fill := e.Fill

	var lag time.Duration
	hasLag := false
	if at, ok := s.submitAt[fill.OrderID]; ok {
		lag = time.Since(at)
		hasLag = true
		delete(s.submitAt, fill.OrderID)
	}

	s.mu.Lock()
	s.book.ApplyFill(fill, s.lastMid)
	s.fillsSeen++
	if hasLag {
		s.fillLag.Observe(lag)
	}
	s.mu.Unlock()

	s.strategy.OnOrderUpdate(fill)

	slog.Info("FILL",
		slog.String("id", fill.OrderID),
		slog.String("side", string(fill.Side)),
		slog.String("price", fill.PriceMicros.String()),
		slog.Int64("qty", fill.Qty),
		slog.Int64("inventory", s.book.Inventory),
		slog.String("pnl", quant.PriceMicros(s.book.PnLMicros).String()))
}

func (s *Sequencer) handleGatewayStatus(e *event.GatewayStatusEvent) {
	switch e.Kind {
	case event.StatusAuthenticated:
		slog.Info("Gateway authenticated")
	case event.StatusError:
		// Gateway rejected something. The order is assumed dead but the
		// pending reservation is not rolled back; reconciliation via
		// inventory deltas is the only release path. The rejected
		// submission will never fill, so drop stale lag entries now.
		slog.Warn("Gateway error", slog.String("message", e.Message))
		s.sweepSubmitAt(time.Now())
	case event.StatusClosed:
		slog.Warn("Gateway channel closed", slog.String("message", e.Message))
	}
}

// sweepSubmitAt drops lag entries old enough that a fill can no longer
// be expected. Loop-goroutine only; submitAt needs no lock.
func (s *Sequencer) sweepSubmitAt(now time.Time) {
	for id, at := range s.submitAt {
		if now.Sub(at) > submitAtStale {
			delete(s.submitAt, id)
		}
	}
}

// Summary is the terminal run report.
type Summary struct {
	OrdersSent int64
	Fills      int64
	Inventory  int64
	PnLMicros  int64
	TickGap    Stats
	FillLag    Stats
}

// Summary returns the current run totals (external read).
func (s *Sequencer) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		OrdersSent: s.ordersSent,
		Fills:      s.fillsSeen,
		Inventory:  s.book.Inventory,
		PnLMicros:  s.book.PnLMicros,
		TickGap:    s.tickGap.Stats(),
		FillLag:    s.fillLag.Stats(),
	}
}

// LogSummary writes the terminal summary as one structured line.
func (s *Sequencer) LogSummary() {
	sum := s.Summary()
	slog.Info("RUN SUMMARY",
		slog.Int64("orders_sent", sum.OrdersSent),
		slog.Int64("fills", sum.Fills),
		slog.Int64("inventory", sum.Inventory),
		slog.String("pnl", quant.PriceMicros(sum.PnLMicros).String()),
		slog.String("tick_gap", sum.TickGap.String()),
		slog.String("fill_lag", sum.FillLag.String()))
}
