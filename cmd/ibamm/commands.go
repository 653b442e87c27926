package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ibammConnector/internal/config"
	"ibammConnector/internal/model"
)

type quoteOutput struct {
	Exchange      string      `json:"exchange"`
	Pool          string      `json:"pool"`
	Side          string      `json:"side"`
	From          model.Token `json:"from"`
	To            model.Token `json:"to"`
	BlockNumber   uint64      `json:"block_number"`
	Unit          string      `json:"unit"`
	UnitFormatted string      `json:"unit_formatted"`
	Amounts       []string    `json:"amounts"`
	Prices        []string    `json:"prices"`
	GasCost       uint64      `json:"gas_cost"`
}

type encodeOutput struct {
	Simple  model.SimpleExchangeParam  `json:"simple"`
	Adapter model.AdapterExchangeParam `json:"adapter"`
}

func loadCommand(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func runDexes(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return writeJSON(cmd.OutOrStdout(), cfg.Connectors.DexKeysWithNetwork())
}

func runPools(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	pools, err := sess.connector.GetPoolIdentifiers(ctx, sess.from, sess.to, sess.side, 0)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), pools)
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	amounts, err := parseAmounts(cfg.Amounts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	blockNumber, err := resolveBlock(ctx, sess.client, cfg.BlockNumber)
	if err != nil {
		return err
	}

	prices, err := sess.connector.GetPricesVolume(ctx, sess.from, sess.to, amounts, sess.side, blockNumber, nil)
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		return fmt.Errorf("pair %s -> %s is not tradable for %s", sess.from.Address.Hex(), sess.to.Address.Hex(), sess.side)
	}

	outDecimals := sess.to.Decimals
	if sess.side == model.SideBuy {
		outDecimals = sess.from.Decimals
	}

	out := make([]quoteOutput, 0, len(prices))
	for _, pool := range prices {
		out = append(out, quoteOutput{
			Exchange:      pool.Exchange,
			Pool:          sess.connector.PoolIdentifier(),
			Side:          sess.side.String(),
			From:          sess.from,
			To:            sess.to,
			BlockNumber:   blockNumber,
			Unit:          pool.Unit.String(),
			UnitFormatted: model.FormatAmount(pool.Unit, outDecimals),
			Amounts:       model.AmountStrings(amounts),
			Prices:        model.AmountStrings(pool.Prices),
			GasCost:       pool.GasCost,
		})
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func runEncode(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	srcAmount, err := parseAmount("src amount", cfg.SrcAmount)
	if err != nil {
		return err
	}
	destAmount, err := parseAmount("dest amount", cfg.DestAmount)
	if err != nil {
		return err
	}
	minDestAmount, err := parseAmount("min dest amount", cfg.MinDestAmount)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	params := model.SwapParams{
		SrcToken:      sess.from.Address,
		DestToken:     sess.to.Address,
		SrcAmount:     srcAmount,
		DestAmount:    destAmount,
		MinDestAmount: minDestAmount,
		Side:          sess.side,
	}

	simple, err := sess.connector.GetSimpleParam(ctx, params)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), encodeOutput{
		Simple:  simple,
		Adapter: sess.connector.GetAdapterParam(params),
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
