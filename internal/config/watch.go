package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	Config
	Interval     time.Duration
	Out          string
	PGDSN        string
	MetricsAddr  string
	MaxRetries   int
	RetryBackoff time.Duration
	MaxTicks     int
}

// LoadWatch merges config file, environment variables, and flags into WatchConfig.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("dex-key", DefaultDexKey)
		v.SetDefault("chain-id", uint64(1))
		v.SetDefault("side", "sell")
		v.SetDefault("max-concurrency", 8)
		v.SetDefault("log-level", "info")
		v.SetDefault("interval", 12*time.Second)
		v.SetDefault("out", "./data/quotes.jsonl")
		v.SetDefault("max-retries", 3)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
	})
	if err != nil {
		return WatchConfig{}, err
	}

	connectors, err := parseConnectors(v)
	if err != nil {
		return WatchConfig{}, err
	}

	cfg := WatchConfig{
		Config: Config{
			RPCURL:         v.GetString("rpc"),
			DexKey:         strings.ToLower(v.GetString("dex-key")),
			ChainID:        v.GetUint64("chain-id"),
			From:           v.GetString("from"),
			To:             v.GetString("to"),
			Side:           v.GetString("side"),
			Amounts:        getStringSlice(v, "amounts"),
			MaxConcurrency: v.GetInt("max-concurrency"),
			LogLevel:       v.GetString("log-level"),
			Connectors:     connectors,
		},
		Interval:     v.GetDuration("interval"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		MetricsAddr:  v.GetString("metrics-addr"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		MaxTicks:     v.GetInt("max-ticks"),
	}

	return cfg, nil
}
