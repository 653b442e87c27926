package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ibammConnector/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "ibamm",
		Short:        "ibAMM router connector",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	dexesCmd := &cobra.Command{
		Use:   "dexes",
		Short: "List configured dex keys and their networks",
		RunE:  runDexes,
	}
	dexesCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(dexesCmd)

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "Print the pool identifiers able to trade a pair",
		RunE:  runPools,
	}
	addPairFlags(poolsCmd.Flags())
	root.AddCommand(poolsCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a batch of amounts against the router",
		RunE:  runQuote,
	}
	addPairFlags(quoteCmd.Flags())
	quoteCmd.Flags().StringSlice("amounts", nil, "amounts in base units (comma-separated)")
	quoteCmd.Flags().Uint64("block", 0, "block to quote at, 0 means latest")
	quoteCmd.Flags().Int("max-concurrency", 8, "maximum concurrent quote calls")
	root.AddCommand(quoteCmd)

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a direct router swap",
		RunE:  runEncode,
	}
	addPairFlags(encodeCmd.Flags())
	encodeCmd.Flags().String("src-amount", "", "source amount in base units")
	encodeCmd.Flags().String("dest-amount", "", "destination amount in base units")
	encodeCmd.Flags().String("min-dest-amount", "", "minimum destination amount for sells")
	root.AddCommand(encodeCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Quote a pair on every new block and record snapshots",
		RunE:  runWatch,
	}
	addPairFlags(watchCmd.Flags())
	watchCmd.Flags().StringSlice("amounts", nil, "amounts in base units (comma-separated)")
	watchCmd.Flags().Int("max-concurrency", 8, "maximum concurrent quote calls")
	watchCmd.Flags().Duration("interval", 12*time.Second, "polling interval")
	watchCmd.Flags().String("out", "./data/quotes.jsonl", "output JSONL path")
	watchCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	watchCmd.Flags().String("metrics-addr", "", "optional metrics listen address (e.g. :9090)")
	watchCmd.Flags().Int("max-retries", 3, "maximum retry attempts per tick")
	watchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	watchCmd.Flags().Int("max-ticks", 0, "stop after this many ticks, 0 runs until interrupted")
	root.AddCommand(watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPairFlags(flags *pflag.FlagSet) {
	flags.String("rpc", "", "RPC URL")
	flags.String("dex-key", config.DefaultDexKey, "connector dex key")
	flags.Uint64("chain-id", 1, "network id of the connector record")
	flags.String("from", "", "source token address")
	flags.String("to", "", "destination token address")
	flags.String("side", "sell", "trade side (sell, buy)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
