package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the wheelx CLI.
type Config struct {
	// Pricing service
	BaseURL string `toml:"base_url"`

	// RPC connection
	URL string `toml:"url"`

	// Account configuration
	PrivateKey   string `toml:"private_key"`
	Mnemonic     string `toml:"mnemonic"`
	AccountIndex uint64 `toml:"account_index"`

	// Swap parameters
	FromChain uint64 `toml:"from_chain"`
	ToChain   uint64 `toml:"to_chain"`
	FromToken string `toml:"from_token"`
	ToToken   string `toml:"to_token"`
	ToAddress string `toml:"to_address"`
	Amount    string `toml:"amount"`
	Slippage  int    `toml:"slippage"`

	// Execution overrides
	GasLimit uint64 `toml:"gas_limit"`

	// Confirmation policy
	PollInterval      time.Duration `toml:"poll_interval"`
	Timeout           time.Duration `toml:"timeout"`
	Confirmations     uint64        `toml:"confirmations"`
	BaseFeeMultiplier int64         `toml:"base_fee_multiplier"`

	// Prometheus metrics
	MetricsEnabled bool `toml:"metrics"`
	MetricsPort    int  `toml:"metrics_port"`
}

var (
	httpRegex    = regexp.MustCompile(`^https?://`)
	wsRegex      = regexp.MustCompile(`^wss?://`)
	hexKeyRegex  = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
	addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// LoadFile merges values from a TOML config file into the config. Values
// already set by flags keep precedence because cobra applies flags after the
// file is loaded.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	// Validate URL
	if c.URL == "" {
		return errors.New("url is required")
	}
	if !httpRegex.MatchString(c.URL) && !wsRegex.MatchString(c.URL) {
		return errors.New("url must be a valid HTTP or WebSocket URL")
	}

	if c.BaseURL != "" && !httpRegex.MatchString(c.BaseURL) {
		return errors.New("base-url must be a valid HTTP URL")
	}

	// Validate account credentials
	if c.PrivateKey == "" && c.Mnemonic == "" {
		return errors.New("either private-key or mnemonic is required")
	}
	if c.PrivateKey != "" && !hexKeyRegex.MatchString(c.PrivateKey) {
		return errors.New("private-key must be a valid 64-character hex string")
	}

	// Validate swap parameters
	if c.FromToken == "" || c.ToToken == "" {
		return errors.New("from-token and to-token are required")
	}
	if c.ToAddress != "" && !addressRegex.MatchString(c.ToAddress) {
		return errors.New("to-address must be a valid 40-character hex address with 0x prefix")
	}
	if c.Amount == "" {
		return errors.New("amount is required")
	}
	if c.Slippage < 0 || c.Slippage > 10000 {
		return errors.New("slippage must be between 0 and 10000 basis points")
	}

	// Apply confirmation policy defaults
	if c.PollInterval == 0 {
		c.PollInterval = 1 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Minute
	}
	if c.Confirmations == 0 {
		c.Confirmations = 1
	}
	if c.BaseFeeMultiplier <= 0 {
		c.BaseFeeMultiplier = 2
	}

	// Set default metrics port
	if c.MetricsEnabled && c.MetricsPort == 0 {
		c.MetricsPort = 9090
	}

	return nil
}
