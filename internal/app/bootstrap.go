package app

import (
	"context"
	"log/slog"

	"mmclient/internal/event"
	"mmclient/internal/infra"
)

// Flags carries the CLI overrides. Empty values leave the config
// untouched so the file/env layers still apply.
type Flags struct {
	ConfigPath string
	Team       string
	Password   string
	Scenario   string
	Host       string
	Secure     bool
	SecureSet  bool
}

// Bootstrap orchestrates the client startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Session infra.Session
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: pool warmup, config
// resolution and logger setup. Network work happens in Register.
func (b *Bootstrap) Initialize(flags Flags) error {
	slog.Info("🚀 Bootstrapping market-making client...")

	// 0. Runtime Warmup (GC Optimization)
	event.Warmup()
	slog.Info("🔥 Event Pool Warmed up")

	// 1. Load Config (file, then env, then flags)
	cfg, err := infra.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err // Let main handle the error
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	infra.PrintBanner(cfg)
	return nil
}

// Register obtains the session token from the exchange. Both websocket
// channels authenticate with it.
func (b *Bootstrap) Register(ctx context.Context) error {
	registrar := infra.NewRegistrar(b.Config)
	sess, err := registrar.Register(ctx,
		b.Config.Session.Team, b.Config.Session.Password, b.Config.Session.Scenario)
	if err != nil {
		return err
	}
	b.Session = sess
	slog.Info("✅ Session registered", slog.String("run_id", sess.RunID))
	return nil
}

func applyFlags(cfg *infra.Config, flags Flags) {
	if flags.Team != "" {
		cfg.Session.Team = flags.Team
	}
	if flags.Password != "" {
		cfg.Session.Password = flags.Password
	}
	if flags.Scenario != "" {
		cfg.Session.Scenario = flags.Scenario
	}
	if flags.Host != "" {
		cfg.Session.Host = flags.Host
	}
	if flags.SecureSet {
		cfg.Session.Secure = flags.Secure
	}
}
