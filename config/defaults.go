package config

// DefaultDevnet returns the default configuration for devnet. Devnet
// resets periodically and has a faucet.
func DefaultDevnet() *Config {
	return &Config{
		Network:       Devnet,
		NodeURL:       "https://devnet.meridian-chain.net",
		FaucetURL:     "https://faucet.devnet.meridian-chain.net",
		PollPeriodMS:  500,
		PollTimeoutMS: 10000,
		MaxGasAmount:  100_000,
		GasUnitPrice:  100,
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet. Testnet
// does not reset; its faucet is rate limited.
func DefaultTestnet() *Config {
	cfg := DefaultDevnet()
	cfg.Network = Testnet
	cfg.NodeURL = "https://testnet.meridian-chain.net"
	cfg.FaucetURL = "https://faucet.testnet.meridian-chain.net"
	cfg.ChainID = 2
	return cfg
}

// DefaultMainnet returns the default configuration for mainnet. There is
// no faucet: mainnet coins are real assets.
func DefaultMainnet() *Config {
	cfg := DefaultDevnet()
	cfg.Network = Mainnet
	cfg.NodeURL = "https://mainnet.meridian-chain.net"
	cfg.FaucetURL = ""
	cfg.ChainID = 1
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Mainnet:
		return DefaultMainnet()
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultDevnet()
	}
}
