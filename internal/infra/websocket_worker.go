package infra

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketHandler defines channel-specific logic for the SocketWorker.
type WebSocketHandler interface {
	GetURL() string
	OnConnect(ctx context.Context, conn *websocket.Conn) error
	OnMessage(ctx context.Context, msg []byte)
	ID() string
}

// SocketWorker manages one websocket push channel: bounded dial
// retries with backoff, read timeouts, thread-safe writes and a ping
// loop. A transport error after connect does not reconnect: the
// channel is marked closed and the orchestrator ends the run.
type SocketWorker struct {
	handler WebSocketHandler
	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	closedOnce sync.Once
	closed     chan struct{}

	ReadTimeout  time.Duration
	PingInterval time.Duration
	DialRetries  int
}

// NewSocketWorker creates a worker around a channel handler.
func NewSocketWorker(handler WebSocketHandler) *SocketWorker {
	return &SocketWorker{
		handler:      handler,
		closed:       make(chan struct{}),
		ReadTimeout:  60 * time.Second,
		PingInterval: 30 * time.Second,
		DialRetries:  3,
	}
}

// Start dials the endpoint and launches the read loop. A failure to
// establish the initial connection is returned to the caller.
func (w *SocketWorker) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	var lastErr error
	for retry := 0; retry <= w.DialRetries; retry++ {
		if retry > 0 {
			delay := CalculateBackoff(retry - 1)
			slog.Warn("WS dial failed, retrying",
				"id", w.handler.ID(), "err", lastErr, "retry", retry, "delay", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if lastErr = w.connect(ctx); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return fmt.Errorf("connect %s: %w", w.handler.ID(), lastErr)
	}

	if err := w.handler.OnConnect(ctx, w.currentConn()); err != nil {
		w.close()
		return fmt.Errorf("OnConnect %s: %w", w.handler.ID(), err)
	}

	w.wg.Add(1)
	go w.process(ctx)
	if w.PingInterval > 0 {
		w.wg.Add(1)
		go w.pingLoop(ctx)
	}

	slog.Info("WS connected", "id", w.handler.ID())
	return nil
}

// Stop terminates the worker.
func (w *SocketWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.close()
	w.wg.Wait()
}

// Closed is signalled once when the channel is lost; the run must not
// continue without either stream.
func (w *SocketWorker) Closed() <-chan struct{} {
	return w.closed
}

// Write sends one message. Serialized: gorilla connections allow only
// one concurrent writer.
func (w *SocketWorker) Write(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	c := w.currentConn()
	if c == nil {
		return fmt.Errorf("ws %s not connected", w.handler.ID())
	}
	return c.WriteMessage(msgType, data)
}

func (w *SocketWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.handler.GetURL(), nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	return nil
}

func (w *SocketWorker) process(ctx context.Context) {
	defer w.wg.Done()
	for {
		c := w.currentConn()
		if c == nil {
			w.markClosed()
			return
		}

		c.SetReadDeadline(time.Now().Add(w.ReadTimeout))
		_, msg, err := c.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("WS read error", "id", w.handler.ID(), "err", err)
			}
			w.close()
			w.markClosed()
			return
		}

		w.handler.OnMessage(ctx, msg)
	}
}

func (w *SocketWorker) pingLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.closed:
			return
		case <-ticker.C:
			c := w.currentConn()
			if c == nil {
				return
			}
			deadline := time.Now().Add(5 * time.Second)
			if err := c.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				slog.Warn("WS ping error", "id", w.handler.ID(), "err", err)
				return
			}
		}
	}
}

func (w *SocketWorker) currentConn() *websocket.Conn {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.conn
}

func (w *SocketWorker) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

func (w *SocketWorker) markClosed() {
	w.closedOnce.Do(func() {
		close(w.closed)
	})
}
