package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "IBAMM"

// Config holds configuration values for the one-shot commands (pools, quote, encode).
type Config struct {
	RPCURL         string
	DexKey         string
	ChainID        uint64
	From           string
	To             string
	Side           string
	Amounts        []string
	SrcAmount      string
	DestAmount     string
	MinDestAmount  string
	BlockNumber    uint64
	MaxConcurrency int
	LogLevel       string
	Connectors     Connectors
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("dex-key", DefaultDexKey)
		v.SetDefault("chain-id", uint64(1))
		v.SetDefault("side", "sell")
		v.SetDefault("max-concurrency", 8)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return Config{}, err
	}

	connectors, err := parseConnectors(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		DexKey:         strings.ToLower(v.GetString("dex-key")),
		ChainID:        v.GetUint64("chain-id"),
		From:           v.GetString("from"),
		To:             v.GetString("to"),
		Side:           v.GetString("side"),
		Amounts:        getStringSlice(v, "amounts"),
		SrcAmount:      v.GetString("src-amount"),
		DestAmount:     v.GetString("dest-amount"),
		MinDestAmount:  v.GetString("min-dest-amount"),
		BlockNumber:    v.GetUint64("block"),
		MaxConcurrency: v.GetInt("max-concurrency"),
		LogLevel:       v.GetString("log-level"),
		Connectors:     connectors,
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(v *viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
