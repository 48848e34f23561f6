package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"mmclient/internal/domain"
	"mmclient/internal/engine"
	"mmclient/internal/event"
	"mmclient/internal/execution"
	"mmclient/internal/infra"
	"mmclient/internal/strategy"
)

// replay feeds recorded feed frames (one JSON object per line) through
// the full decision path with simulated immediate fills. Useful for
// strategy tuning without a live exchange.
func main() {
	file := flag.String("file", "", "path to recorded feed frames, one JSON per line")
	config := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -file frames.jsonl [-config config.yaml]")
		os.Exit(2)
	}

	event.Warmup()

	cfg, err := infra.LoadConfig(*config)
	if err != nil {
		slog.Error("❌ Config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(infra.NewLogger(cfg))

	f, err := os.Open(*file)
	if err != nil {
		slog.Error("❌ Cannot open frames file", slog.Any("error", err))
		os.Exit(1)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	book := &domain.Book{}
	quoter := strategy.NewQuoter(cfg.StrategyConfig(), book)
	seq := engine.NewSequencer(1024, book, quoter, nil)

	nextSeq := uint64(1)
	paper := execution.NewPaperExecution(seq.Inbox(), &nextSeq)
	seq.SetExecution(paper)

	go seq.Run(ctx)

	// The feed decoder handles the wire format; no live socket needed.
	feed := infra.NewFeedWorker("", seq.Inbox(), &nextSeq)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	frames := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		feed.OnMessage(ctx, line)
		frames++
	}
	if err := scanner.Err(); err != nil {
		slog.Error("❌ Read failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Drain: wait for the totals to stop moving before reporting.
	last := seq.Summary()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		cur := seq.Summary()
		if cur == last {
			break
		}
		last = cur
	}
	cancel()

	slog.Info("Replay complete", slog.Int("frames", frames))
	seq.LogSummary()
}
