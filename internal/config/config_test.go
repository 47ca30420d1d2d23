package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pod.Account != "pod" || cfg.Pod.Decimals != 6 {
		t.Errorf("unexpected pod defaults: %+v", cfg.Pod)
	}
	if cfg.Assets.Underlying != "USDC" || cfg.Assets.Share != "podUSDC" {
		t.Errorf("unexpected asset defaults: %+v", cfg.Assets)
	}
	if cfg.YieldSource.Mode != "local" {
		t.Errorf("yield source mode %q, want local", cfg.YieldSource.Mode)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen addr %q, want :8080", cfg.Server.ListenAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
pod:
  account: vault-1
yield_source:
  mode: local
  exit_fee_bps: 50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YIELD_SOURCE_BASE_URL", "https://pool.example.com")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pod.Account != "vault-1" {
		t.Errorf("account %q, want vault-1", cfg.Pod.Account)
	}
	// A base URL in the environment forces http mode.
	if cfg.YieldSource.Mode != "http" || cfg.YieldSource.BaseURL != "https://pool.example.com" {
		t.Errorf("yield source %+v, want http mode with env base url", cfg.YieldSource)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("listen addr %q, want :9090", cfg.Server.ListenAddr)
	}
}

func TestValidateRejectsBadFeeBps(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.YieldSource.ExitFeeBps = 10_001
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for exit_fee_bps > 10000")
	}
}

func TestValidateRequiresBaseURLInHTTPMode(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.YieldSource.Mode = "http"
	cfg.YieldSource.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for http mode without base url")
	}
}
