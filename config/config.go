// Package config holds client configuration for the Meridian SDK.
//
// Configuration resolves in three layers: per-network defaults, MERIDIAN_*
// environment variables, and explicit caller overrides.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// NetworkType identifies which Meridian network a client targets.
type NetworkType string

const (
	Devnet  NetworkType = "devnet"
	Testnet NetworkType = "testnet"
	Mainnet NetworkType = "mainnet"
)

// Config holds client runtime configuration.
type Config struct {
	Network   NetworkType `envconfig:"MERIDIAN_NETWORK" default:"devnet"`
	NodeURL   string      `envconfig:"MERIDIAN_NODE_URL"`
	FaucetURL string      `envconfig:"MERIDIAN_FAUCET_URL"`

	// ChainID zero means fetch from the node on first use.
	ChainID uint8 `envconfig:"MERIDIAN_CHAIN_ID"`

	// Confirmation polling. PollPeriodMS is the fixed poll interval;
	// PollTimeoutMS bounds the wait for one transaction.
	PollPeriodMS  int `envconfig:"MERIDIAN_POLL_PERIOD_MS" default:"500"`
	PollTimeoutMS int `envconfig:"MERIDIAN_POLL_TIMEOUT_MS" default:"10000"`

	// Gas defaults for built transactions.
	MaxGasAmount uint64 `envconfig:"MERIDIAN_MAX_GAS" default:"100000"`
	GasUnitPrice uint64 `envconfig:"MERIDIAN_GAS_PRICE" default:"100"`

	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `envconfig:"MERIDIAN_LOG_LEVEL" default:"info"`
	JSON  bool   `envconfig:"MERIDIAN_LOG_JSON" default:"false"`
}

// FromEnv builds a config from environment variables layered over the
// defaults of the selected network.
func FromEnv() (*Config, error) {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	cfg := Default(env.Network)
	if env.NodeURL != "" {
		cfg.NodeURL = env.NodeURL
	}
	if env.FaucetURL != "" {
		cfg.FaucetURL = env.FaucetURL
	}
	if env.ChainID != 0 {
		cfg.ChainID = env.ChainID
	}
	cfg.PollPeriodMS = env.PollPeriodMS
	cfg.PollTimeoutMS = env.PollTimeoutMS
	cfg.MaxGasAmount = env.MaxGasAmount
	cfg.GasUnitPrice = env.GasUnitPrice
	cfg.Log = env.Log
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
