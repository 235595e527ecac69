package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		URL:        "http://localhost:8545",
		PrivateKey: "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		FromChain:  1,
		ToChain:    1,
		FromToken:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		ToToken:    "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Amount:     "1000000",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config with private key",
			mutate: func(c *Config) {},
		},
		{
			name: "valid config with mnemonic",
			mutate: func(c *Config) {
				c.PrivateKey = ""
				c.Mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
			},
		},
		{
			name:   "valid websocket url",
			mutate: func(c *Config) { c.URL = "ws://localhost:8546" },
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.URL = "" },
			wantErr: true,
			errMsg:  "url is required",
		},
		{
			name:    "invalid url format",
			mutate:  func(c *Config) { c.URL = "invalid-url" },
			wantErr: true,
			errMsg:  "url must be a valid HTTP or WebSocket URL",
		},
		{
			name:    "invalid base url",
			mutate:  func(c *Config) { c.BaseURL = "ftp://wheelx.fi" },
			wantErr: true,
			errMsg:  "base-url must be a valid HTTP URL",
		},
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.PrivateKey = "" },
			wantErr: true,
			errMsg:  "either private-key or mnemonic is required",
		},
		{
			name:    "invalid private key format",
			mutate:  func(c *Config) { c.PrivateKey = "invalid-key" },
			wantErr: true,
			errMsg:  "private-key must be a valid 64-character hex string",
		},
		{
			name:    "missing tokens",
			mutate:  func(c *Config) { c.FromToken = "" },
			wantErr: true,
			errMsg:  "from-token and to-token are required",
		},
		{
			name:    "invalid recipient address",
			mutate:  func(c *Config) { c.ToAddress = "0x123" },
			wantErr: true,
			errMsg:  "to-address must be a valid 40-character hex address",
		},
		{
			name:    "missing amount",
			mutate:  func(c *Config) { c.Amount = "" },
			wantErr: true,
			errMsg:  "amount is required",
		},
		{
			name:    "slippage out of range",
			mutate:  func(c *Config) { c.Slippage = 10001 },
			wantErr: true,
			errMsg:  "slippage must be between 0 and 10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err, tt.errMsg)
				}
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validConfig()
	cfg.MetricsEnabled = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	if cfg.PollInterval != 1*time.Second {
		t.Errorf("Expected default poll interval of 1s, got %v", cfg.PollInterval)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Errorf("Expected default timeout of 5m, got %v", cfg.Timeout)
	}
	if cfg.Confirmations != 1 {
		t.Errorf("Expected default confirmations of 1, got %d", cfg.Confirmations)
	}
	if cfg.BaseFeeMultiplier != 2 {
		t.Errorf("Expected default base fee multiplier of 2, got %d", cfg.BaseFeeMultiplier)
	}
	if cfg.MetricsPort != 9090 {
		t.Errorf("Expected default metrics port of 9090, got %d", cfg.MetricsPort)
	}
}

func TestConfig_ExplicitValuesKept(t *testing.T) {
	cfg := validConfig()
	cfg.PollInterval = 3 * time.Second
	cfg.Timeout = 10 * time.Minute
	cfg.Confirmations = 6
	cfg.BaseFeeMultiplier = 3

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	if cfg.PollInterval != 3*time.Second {
		t.Errorf("poll interval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.Timeout != 10*time.Minute {
		t.Errorf("timeout = %v, want 10m", cfg.Timeout)
	}
	if cfg.Confirmations != 6 {
		t.Errorf("confirmations = %d, want 6", cfg.Confirmations)
	}
	if cfg.BaseFeeMultiplier != 3 {
		t.Errorf("base fee multiplier = %d, want 3", cfg.BaseFeeMultiplier)
	}
}

func TestLoadFile(t *testing.T) {
	content := `
url = "http://localhost:8545"
base_url = "https://staging.wheelx.fi"
private_key = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
from_chain = 1
to_chain = 56
from_token = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
to_token = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
amount = "1000000"
slippage = 50
confirmations = 3
metrics = true
metrics_port = 9191
`
	path := filepath.Join(t.TempDir(), "wheelx.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	var cfg Config
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.BaseURL != "https://staging.wheelx.fi" {
		t.Errorf("base URL = %q", cfg.BaseURL)
	}
	if cfg.ToChain != 56 {
		t.Errorf("to chain = %d, want 56", cfg.ToChain)
	}
	if cfg.Confirmations != 3 {
		t.Errorf("confirmations = %d, want 3", cfg.Confirmations)
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics should be enabled")
	}
	if cfg.MetricsPort != 9191 {
		t.Errorf("metrics port = %d, want 9191", cfg.MetricsPort)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config failed validation: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	var cfg Config
	if err := LoadFile("/nonexistent/wheelx.toml", &cfg); err == nil {
		t.Error("LoadFile() succeeded on a missing file")
	}
}
