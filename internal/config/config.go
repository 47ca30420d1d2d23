package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Pod struct {
		Account  string `yaml:"account"`
		Owner    string `yaml:"owner"`
		Manager  string `yaml:"manager"`
		Decimals uint8  `yaml:"decimals"`
	} `yaml:"pod"`
	Assets struct {
		Underlying string `yaml:"underlying"`
		Ticket     string `yaml:"ticket"`
		Reward     string `yaml:"reward"`
		Share      string `yaml:"share"`
	} `yaml:"assets"`
	YieldSource struct {
		Mode       string `yaml:"mode"` // "local" or "http"
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		ExitFeeBps int64  `yaml:"exit_fee_bps"` // local mode only
	} `yaml:"yield_source"`
	Faucet struct {
		Mode    string `yaml:"mode"` // "local" or "http"
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"faucet"`
	Schedule struct {
		BatchCron  string `yaml:"batch_cron"`
		DropCron   string `yaml:"drop_cron"`
		StatusCron string `yaml:"status_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Notifier struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"notifier"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("POD_ACCOUNT"); v != "" {
		cfg.Pod.Account = v
	}
	if v := os.Getenv("POD_OWNER"); v != "" {
		cfg.Pod.Owner = v
	}
	if v := os.Getenv("POD_MANAGER"); v != "" {
		cfg.Pod.Manager = v
	}
	if v := os.Getenv("YIELD_SOURCE_BASE_URL"); v != "" {
		cfg.YieldSource.Mode = "http"
		cfg.YieldSource.BaseURL = v
	}
	if v := os.Getenv("YIELD_SOURCE_API_KEY"); v != "" {
		cfg.YieldSource.APIKey = v
	}
	if v := os.Getenv("FAUCET_BASE_URL"); v != "" {
		cfg.Faucet.Mode = "http"
		cfg.Faucet.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("EXIT_FEE_BPS"); v != "" {
		if bps, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.YieldSource.ExitFeeBps = bps
		}
	}
	if v := os.Getenv("CRON_BATCH"); v != "" {
		cfg.Schedule.BatchCron = v
	}
	if v := os.Getenv("CRON_DROP"); v != "" {
		cfg.Schedule.DropCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("NOTIFIER_WEBHOOK_URL"); v != "" {
		cfg.Notifier.WebhookURL = v
	}

	// Defaults
	if cfg.Pod.Account == "" {
		cfg.Pod.Account = "pod"
	}
	if cfg.Pod.Owner == "" {
		cfg.Pod.Owner = "owner"
	}
	if cfg.Pod.Manager == "" {
		cfg.Pod.Manager = "manager"
	}
	if cfg.Pod.Decimals == 0 {
		cfg.Pod.Decimals = 6
	}
	if cfg.Assets.Underlying == "" {
		cfg.Assets.Underlying = "USDC"
	}
	if cfg.Assets.Ticket == "" {
		cfg.Assets.Ticket = "pUSDC"
	}
	if cfg.Assets.Reward == "" {
		cfg.Assets.Reward = "POOL"
	}
	if cfg.Assets.Share == "" {
		cfg.Assets.Share = "podUSDC"
	}
	if cfg.YieldSource.Mode == "" {
		cfg.YieldSource.Mode = "local"
	}
	if cfg.Faucet.Mode == "" {
		cfg.Faucet.Mode = "local"
	}
	if cfg.Schedule.BatchCron == "" {
		cfg.Schedule.BatchCron = "0 0 * * * *" // hourly
	}
	if cfg.Schedule.DropCron == "" {
		cfg.Schedule.DropCron = "0 30 * * * *" // hourly, offset from batch
	}
	if cfg.Schedule.StatusCron == "" {
		cfg.Schedule.StatusCron = "0 0 8 * * *" // daily
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/podvault.db"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Pod.Account == "" {
		return fmt.Errorf("pod.account is required")
	}
	if c.Pod.Owner == "" {
		return fmt.Errorf("pod.owner is required")
	}
	if c.Assets.Underlying == "" || c.Assets.Ticket == "" || c.Assets.Share == "" {
		return fmt.Errorf("assets.underlying, assets.ticket and assets.share are required")
	}
	if c.YieldSource.Mode == "http" && c.YieldSource.BaseURL == "" {
		return fmt.Errorf("yield_source.base_url is required in http mode")
	}
	if c.Faucet.Mode == "http" && c.Faucet.BaseURL == "" {
		return fmt.Errorf("faucet.base_url is required in http mode")
	}
	if c.YieldSource.ExitFeeBps < 0 || c.YieldSource.ExitFeeBps > 10_000 {
		return fmt.Errorf("yield_source.exit_fee_bps must be within [0, 10000]")
	}
	return nil
}
