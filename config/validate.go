package config

import "fmt"

// Validate checks a config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Network {
	case Devnet, Testnet, Mainnet:
	default:
		return fmt.Errorf("network must be %q, %q, or %q", Devnet, Testnet, Mainnet)
	}
	if cfg.NodeURL == "" {
		return fmt.Errorf("node URL must not be empty")
	}
	if cfg.PollPeriodMS <= 0 {
		return fmt.Errorf("poll period must be positive, got %d", cfg.PollPeriodMS)
	}
	if cfg.PollTimeoutMS <= 0 {
		return fmt.Errorf("poll timeout must be positive, got %d", cfg.PollTimeoutMS)
	}
	if cfg.PollPeriodMS >= cfg.PollTimeoutMS {
		return fmt.Errorf("poll period %dms must be shorter than timeout %dms", cfg.PollPeriodMS, cfg.PollTimeoutMS)
	}
	if cfg.MaxGasAmount == 0 {
		return fmt.Errorf("max gas amount must be positive")
	}
	if cfg.GasUnitPrice == 0 {
		return fmt.Errorf("gas unit price must be positive")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn, or error")
	}
	return nil
}
