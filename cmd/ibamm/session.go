package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"ibammConnector/internal/chain"
	"ibammConnector/internal/config"
	"ibammConnector/internal/dex"
	"ibammConnector/internal/dex/ibamm"
	"ibammConnector/internal/model"
)

const tokenCacheSize = 256

type latestBlockSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// session bundles what every pair command needs: a chain client, a connector
// and the resolved pair.
type session struct {
	client    *chain.Client
	connector *ibamm.IbAmm
	from      model.Token
	to        model.Token
	side      model.Side
}

func (s *session) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func openSession(ctx context.Context, cfg config.Config, logger *zap.Logger) (*session, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	record, ok := cfg.Connectors.Lookup(cfg.DexKey, cfg.ChainID)
	if !ok {
		return nil, fmt.Errorf("no connector configured for %s on chain %d", cfg.DexKey, cfg.ChainID)
	}

	side, err := model.ParseSide(cfg.Side)
	if err != nil {
		return nil, err
	}
	fromAddr, err := parseTokenAddress("from", cfg.From)
	if err != nil {
		return nil, err
	}
	toAddr, err := parseTokenAddress("to", cfg.To)
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	chainID, err := client.GetChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != cfg.ChainID {
		client.Close()
		return nil, fmt.Errorf("rpc serves chain %s, connector record is for chain %d", chainID, cfg.ChainID)
	}

	connector, err := ibamm.New(ibamm.Config{
		Network:        cfg.ChainID,
		DexKey:         cfg.DexKey,
		Connector:      record,
		MaxConcurrency: cfg.MaxConcurrency,
	}, client, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	cache := dex.NewTokenMetaCache(tokenCacheSize)
	from, err := dex.ResolveToken(ctx, client, cache, fromAddr, logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve from token: %w", err)
	}
	to, err := dex.ResolveToken(ctx, client, cache, toAddr, logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve to token: %w", err)
	}

	return &session{
		client:    client,
		connector: connector,
		from:      from,
		to:        to,
		side:      side,
	}, nil
}

// resolveBlock pins a quote to the requested block, or to the current head when none is given.
func resolveBlock(ctx context.Context, blocks latestBlockSource, requested uint64) (uint64, error) {
	if requested > 0 {
		return requested, nil
	}
	latest, err := blocks.LatestBlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest block: %w", err)
	}
	return latest, nil
}

func parseTokenAddress(field, input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, fmt.Errorf("%s token is required", field)
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid %s token address: %s", field, input)
	}
	return common.HexToAddress(input), nil
}

func parseAmount(field, input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s: %s", field, input)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("%s must not be negative: %s", field, input)
	}
	return value, nil
}

func parseAmounts(inputs []string) ([]*big.Int, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("at least one amount is required")
	}
	out := make([]*big.Int, 0, len(inputs))
	for i, input := range inputs {
		value, err := parseAmount(fmt.Sprintf("amounts[%d]", i), input)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, fmt.Errorf("amounts[%d] is empty", i)
		}
		out = append(out, value)
	}
	return out, nil
}
