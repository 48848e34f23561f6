package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mmclient/internal/app"
	"mmclient/internal/domain"
	"mmclient/internal/engine"
	"mmclient/internal/infra"
	"mmclient/internal/strategy"
)

func main() {
	var flags app.Flags
	flag.StringVar(&flags.ConfigPath, "config", "", "path to YAML config file")
	flag.StringVar(&flags.Team, "team", "", "team name")
	flag.StringVar(&flags.Password, "password", "", "team password (prefer MM_PASSWORD)")
	flag.StringVar(&flags.Scenario, "scenario", "", "scenario name")
	flag.StringVar(&flags.Host, "host", "", "exchange host, e.g. localhost:8080")
	flag.BoolVar(&flags.Secure, "secure", false, "use https/wss transports")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "secure" {
			flags.SecureSet = true
		}
	})

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(flags); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Session Registration (HTTP)
	if err := bootstrap.Register(ctx); err != nil {
		slog.Error("❌ Registration failed", slog.Any("error", err))
		os.Exit(1)
	}
	token := bootstrap.Session.Token

	// 4. Sequencer (The Hotpath Loop)
	book := &domain.Book{}
	quoter := strategy.NewQuoter(cfg.StrategyConfig(), book)
	seq := engine.NewSequencer(1024, book, quoter, nil)

	nextSeq := uint64(1)

	// 5. Order Gateway (bidirectional channel)
	limiter := infra.NewRateLimiter(cfg.Gateway.OrderRateLimit, cfg.Gateway.OrderRatePerS)
	gateway := infra.NewGatewayWorker(cfg.GatewayURL(token), token, seq.Inbox(), &nextSeq, limiter)
	if err := gateway.Connect(ctx); err != nil {
		slog.Error("❌ Gateway connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer gateway.Disconnect()
	seq.SetExecution(gateway)
	slog.InfoContext(ctx, "✅ GatewayWorker started")

	go seq.Run(ctx)
	slog.InfoContext(ctx, "✅ Sequencer (Hotpath) started")

	// 6. Market Feed (read-only channel)
	feed := infra.NewFeedWorker(cfg.FeedURL(token), seq.Inbox(), &nextSeq)
	if err := feed.Connect(ctx); err != nil {
		slog.Error("❌ Feed connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer feed.Disconnect()
	slog.InfoContext(ctx, "✅ FeedWorker started")

	slog.InfoContext(ctx, "✨ Client fully operational. Press Ctrl+C to exit.")

	// Either channel dropping ends the run; state would silently
	// diverge from the exchange otherwise.
	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "👋 Shutting down gracefully...")
	case <-feed.Closed():
		slog.Error("Feed channel lost, terminating run")
	case <-gateway.Closed():
		slog.Error("Gateway channel lost, terminating run")
	}

	stop()
	seq.LogSummary()
}
