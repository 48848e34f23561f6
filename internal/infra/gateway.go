package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"mmclient/internal/domain"
	"mmclient/internal/event"
	"mmclient/pkg/quant"
)

// orderFrame is the outbound order submission.
type orderFrame struct {
	OrderID string      `json:"order_id"`
	Side    domain.Side `json:"side"`
	Price   json.Number `json:"price"`
	Qty     int64       `json:"qty"`
}

// doneFrame signals completion of one decision cycle.
type doneFrame struct {
	Action string `json:"action"`
	Step   uint64 `json:"step"`
}

// authFrame presents the session token after connecting.
type authFrame struct {
	Token string `json:"token"`
}

// gatewayMessage covers all inbound gateway frames.
type gatewayMessage struct {
	Type    string      `json:"type"`
	OrderID string      `json:"order_id"`
	Side    domain.Side `json:"side"`
	Qty     int64       `json:"qty"`
	Price   json.Number `json:"price"`
	Message string      `json:"message"`
}

// GatewayWorker owns the bidirectional order channel. Outbound it
// implements execution.Execution (order submissions and the DONE
// signal); inbound it routes FILL and ERROR frames into the sequencer
// inbox. Unknown frame types are ignored.
type GatewayWorker struct {
	worker  *SocketWorker
	url     string
	token   string
	inbox   chan<- event.Event
	seq     *uint64
	limiter *RateLimiter
}

// NewGatewayWorker creates the order gateway adapter.
func NewGatewayWorker(url, token string, inbox chan<- event.Event, seq *uint64, limiter *RateLimiter) *GatewayWorker {
	w := &GatewayWorker{url: url, token: token, inbox: inbox, seq: seq, limiter: limiter}
	w.worker = NewSocketWorker(w)
	return w
}

// ID returns the worker identifier.
func (w *GatewayWorker) ID() string { return "GATEWAY" }

// GetURL returns the gateway endpoint.
func (w *GatewayWorker) GetURL() string { return w.url }

// Connect starts the websocket connection.
func (w *GatewayWorker) Connect(ctx context.Context) error {
	return w.worker.Start(ctx)
}

// Disconnect terminates the connection.
func (w *GatewayWorker) Disconnect() {
	w.worker.Stop()
}

// Closed signals loss of the gateway channel.
func (w *GatewayWorker) Closed() <-chan struct{} {
	return w.worker.Closed()
}

// OnConnect presents the session token. The AUTHENTICATED confirmation
// arrives asynchronously and is not awaited.
func (w *GatewayWorker) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	b, err := json.Marshal(authFrame{Token: w.token})
	if err != nil {
		return err
	}
	return w.worker.Write(websocket.TextMessage, b)
}

// OnMessage dispatches one inbound gateway frame.
func (w *GatewayWorker) OnMessage(ctx context.Context, msg []byte) {
	var frame gatewayMessage
	if err := json.Unmarshal(msg, &frame); err != nil {
		slog.Warn("Gateway: malformed message skipped", slog.Any("error", err))
		return
	}

	switch frame.Type {
	case "AUTHENTICATED":
		w.pushStatus(ctx, event.StatusAuthenticated, "")
	case "FILL":
		price, err := quant.ParsePriceMicros(frame.Price)
		if err != nil {
			slog.Warn("Gateway: bad fill price skipped", slog.Any("error", err))
			return
		}
		now := time.Now().UnixMicro()
		ev := &event.OrderUpdateEvent{
			BaseEvent: event.BaseEvent{Seq: quant.NextSeq(w.seq), Ts: quant.TimeStamp(now)},
			Fill: domain.Fill{
				OrderID:     frame.OrderID,
				Side:        frame.Side,
				Qty:         frame.Qty,
				PriceMicros: price,
				RecvUnixM:   now,
			},
		}
		// Fills must not be dropped; block until the sequencer takes it.
		select {
		case w.inbox <- ev:
		case <-ctx.Done():
		}
	case "ERROR":
		w.pushStatus(ctx, event.StatusError, frame.Message)
	default:
		slog.Debug("Gateway: frame ignored", slog.String("type", frame.Type))
	}
}

func (w *GatewayWorker) pushStatus(ctx context.Context, kind event.StatusKind, message string) {
	ev := &event.GatewayStatusEvent{
		BaseEvent: event.BaseEvent{Seq: quant.NextSeq(w.seq), Ts: quant.TimeStamp(time.Now().UnixMicro())},
		Kind:      kind,
		Message:   message,
	}
	select {
	case w.inbox <- ev:
	case <-ctx.Done():
	}
}

// SubmitOrder sends one order frame. Fire-and-forget: no ack awaited.
func (w *GatewayWorker) SubmitOrder(ctx context.Context, order domain.Order) error {
	if order.Qty <= 0 {
		return fmt.Errorf("order qty must be positive, got %d", order.Qty)
	}
	if w.limiter != nil {
		w.limiter.Wait()
	}

	b, err := json.Marshal(orderFrame{
		OrderID: order.ID,
		Side:    order.Side,
		Price:   order.PriceMicros.Num(),
		Qty:     order.Qty,
	})
	if err != nil {
		return err
	}
	return w.worker.Write(websocket.TextMessage, b)
}

// CompleteStep sends the DONE signal for one step.
func (w *GatewayWorker) CompleteStep(ctx context.Context, step uint64) error {
	b, err := json.Marshal(doneFrame{Action: "DONE", Step: step})
	if err != nil {
		return err
	}
	return w.worker.Write(websocket.TextMessage, b)
}
