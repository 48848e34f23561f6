package execution

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mmclient/internal/domain"
	"mmclient/internal/event"
	"mmclient/pkg/quant"
)

// PaperExecution simulates the order gateway: every submitted order
// fills immediately and completely at its own limit price, and the fill
// is pushed back into the sequencer inbox as an OrderUpdateEvent, the
// same path a live gateway uses. Drives offline replays and the
// end-to-end engine tests.
type PaperExecution struct {
	inbox chan<- event.Event
	seq   *uint64

	mu    sync.Mutex
	fills []domain.Fill
}

// NewPaperExecution wires the simulator to the sequencer inbox.
func NewPaperExecution(inbox chan<- event.Event, seq *uint64) *PaperExecution {
	return &PaperExecution{inbox: inbox, seq: seq}
}

// SubmitOrder fills the order at once and reports it back.
func (p *PaperExecution) SubmitOrder(ctx context.Context, order domain.Order) error {
	now := time.Now().UnixMicro()
	fill := domain.Fill{
		OrderID:     order.ID,
		Side:        order.Side,
		Qty:         order.Qty,
		PriceMicros: order.PriceMicros,
		RecvUnixM:   now,
	}

	p.mu.Lock()
	p.fills = append(p.fills, fill)
	p.mu.Unlock()

	slog.Debug("PAPER EXECUTION: Order Filled",
		slog.String("id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("price", order.PriceMicros.String()),
		slog.Int64("qty", order.Qty))

	ev := &event.OrderUpdateEvent{
		BaseEvent: event.BaseEvent{Seq: quant.NextSeq(p.seq), Ts: quant.TimeStamp(now)},
		Fill:      fill,
	}
	// SubmitOrder is called from the sequencer loop itself, so the
	// send must not block the consumer. Spill to a goroutine when the
	// inbox is momentarily full.
	select {
	case p.inbox <- ev:
	default:
		go func() {
			select {
			case p.inbox <- ev:
			case <-ctx.Done():
			}
		}()
	}
	return nil
}

// CompleteStep is a no-op for the simulator.
func (p *PaperExecution) CompleteStep(ctx context.Context, step uint64) error {
	return nil
}

// Fills returns a copy of all simulated fills.
func (p *PaperExecution) Fills() []domain.Fill {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Fill, len(p.fills))
	copy(out, p.fills)
	return out
}
