package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mmclient/internal/strategy"
	"mmclient/pkg/quant"
)

// Config holds the full client configuration. Values come from the
// YAML file, then environment variables, then CLI flags, in that
// precedence order (flags win).
type Config struct {
	Session struct {
		Team     string `yaml:"team"`
		Password string `yaml:"password"`
		Scenario string `yaml:"scenario"`
		Host     string `yaml:"host"`
		Secure   bool   `yaml:"secure"`
	} `yaml:"session"`

	Trading struct {
		MaxInventory int64   `yaml:"max_inventory"`
		LotSize      int64   `yaml:"lot_size"`
		EdgePerUnit  int64   `yaml:"edge_per_unit"`
		WarmupSteps  uint64  `yaml:"warmup_steps"`
		Improve      float64 `yaml:"improve"`
		SweepOffset  float64 `yaml:"sweep_offset"`
		FloorPrice   float64 `yaml:"floor_price"`
		FallbackQty  int64   `yaml:"fallback_qty"`
	} `yaml:"trading"`

	Gateway struct {
		OrderRateLimit int     `yaml:"order_rate_limit"` // burst size
		OrderRatePerS  float64 `yaml:"order_rate_per_s"`
	} `yaml:"gateway"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns a config pre-filled with the stock trading
// parameters; session identity must still be supplied.
func DefaultConfig() *Config {
	cfg := &Config{}
	sc := strategy.DefaultConfig()
	cfg.Trading.MaxInventory = sc.MaxInventory
	cfg.Trading.LotSize = sc.LotSize
	cfg.Trading.EdgePerUnit = sc.EdgePerUnit
	cfg.Trading.WarmupSteps = sc.WarmupSteps
	cfg.Trading.Improve = sc.ImproveMicros.Float()
	cfg.Trading.SweepOffset = sc.SweepMicros.Float()
	cfg.Trading.FloorPrice = sc.FloorMicros.Float()
	cfg.Trading.FallbackQty = sc.FallbackQty
	cfg.Gateway.OrderRateLimit = 10
	cfg.Gateway.OrderRatePerS = 50
	cfg.Logging.Level = "info"
	return cfg
}

// LoadConfig reads an optional YAML file over the defaults and applies
// environment overrides. An empty path yields pure defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overrideWithEnv(cfg)
	return cfg, nil
}

// overrideWithEnv lets secrets stay out of the config file.
func overrideWithEnv(cfg *Config) {
	if pw := os.Getenv("MM_PASSWORD"); pw != "" {
		cfg.Session.Password = pw
	}
	if team := os.Getenv("MM_TEAM"); team != "" {
		cfg.Session.Team = team
	}
}

// Validate checks the merged configuration. Called after flag overrides
// have been applied.
func (c *Config) Validate() error {
	if c.Session.Team == "" {
		return fmt.Errorf("team name is required")
	}
	if c.Session.Scenario == "" {
		return fmt.Errorf("scenario name is required")
	}
	if c.Session.Host == "" {
		return fmt.Errorf("exchange host is required")
	}
	if c.Trading.MaxInventory <= 0 {
		return fmt.Errorf("max_inventory must be positive")
	}
	if c.Trading.LotSize <= 0 {
		return fmt.Errorf("lot_size must be positive")
	}
	return nil
}

// StrategyConfig converts the trading section into quoter parameters.
func (c *Config) StrategyConfig() strategy.Config {
	return strategy.Config{
		MaxInventory:  c.Trading.MaxInventory,
		LotSize:       c.Trading.LotSize,
		EdgePerUnit:   c.Trading.EdgePerUnit,
		WarmupSteps:   c.Trading.WarmupSteps,
		ImproveMicros: quant.ToPriceMicros(c.Trading.Improve),
		SweepMicros:   quant.ToPriceMicros(c.Trading.SweepOffset),
		FloorMicros:   quant.ToPriceMicros(c.Trading.FloorPrice),
		FallbackQty:   c.Trading.FallbackQty,
	}
}

// RegisterURL is the HTTP registration endpoint.
func (c *Config) RegisterURL() string {
	return fmt.Sprintf("%s://%s/register", c.httpScheme(), c.Session.Host)
}

// FeedURL is the market feed websocket endpoint.
func (c *Config) FeedURL(token string) string {
	return fmt.Sprintf("%s://%s/feed?token=%s", c.wsScheme(), c.Session.Host, token)
}

// GatewayURL is the order gateway websocket endpoint.
func (c *Config) GatewayURL(token string) string {
	return fmt.Sprintf("%s://%s/gateway?token=%s", c.wsScheme(), c.Session.Host, token)
}

func (c *Config) httpScheme() string {
	if c.Session.Secure {
		return "https"
	}
	return "http"
}

func (c *Config) wsScheme() string {
	if c.Session.Secure {
		return "wss"
	}
	return "ws"
}
