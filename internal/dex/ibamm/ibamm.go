package ibamm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ibammConnector/internal/chain"
	"ibammConnector/internal/config"
	"ibammConnector/internal/dex"
	"ibammConnector/internal/metrics"
	"ibammConnector/internal/model"
)

// GasCost is a flat estimate for a router swap; it is not measured on chain.
const GasCost uint64 = 200_000

const defaultMaxConcurrency = 8

// DexKeys lists the keys this connector is registered under.
var DexKeys = []string{config.DefaultDexKey}

// Config configures one connector instance.
type Config struct {
	Network        uint64
	DexKey         string
	Connector      config.ConnectorConfig
	MaxConcurrency int
}

// IbAmm prices and encodes swaps against the ibAMM router. The pool only
// trades input anchor -> ib token (BUY) and ib token -> output anchor (SELL).
type IbAmm struct {
	network        uint64
	dexKey         string
	router         common.Address
	inputAnchor    common.Address
	outputAnchor   common.Address
	ibTokens       map[common.Address]string
	poolIdentifier string
	maxConcurrency int

	quoter    QuoteSource
	routerABI abi.ABI
	logger    *zap.Logger
}

var _ dex.Connector = (*IbAmm)(nil)

// New builds a connector that quotes through eth_call on the given chain client.
func New(cfg Config, caller chain.Caller, logger *zap.Logger) (*IbAmm, error) {
	router, err := parseAddress("router", cfg.Connector.Router)
	if err != nil {
		return nil, err
	}
	quoter, err := NewRouterQuoter(router, caller)
	if err != nil {
		return nil, err
	}
	return NewWithQuoteSource(cfg, quoter, logger)
}

// NewWithQuoteSource builds a connector over an arbitrary quote source.
func NewWithQuoteSource(cfg Config, quoter QuoteSource, logger *zap.Logger) (*IbAmm, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if quoter == nil {
		return nil, fmt.Errorf("%w: quote source is nil", ErrInvalidConfig)
	}

	dexKey := strings.ToLower(strings.TrimSpace(cfg.DexKey))
	if dexKey == "" {
		return nil, fmt.Errorf("%w: dex key is required", ErrInvalidConfig)
	}

	router, err := parseAddress("router", cfg.Connector.Router)
	if err != nil {
		return nil, err
	}
	inputAnchor, err := parseAddress("input anchor", cfg.Connector.InputAnchor)
	if err != nil {
		return nil, err
	}
	outputAnchor, err := parseAddress("output anchor", cfg.Connector.OutputAnchor)
	if err != nil {
		return nil, err
	}

	if len(cfg.Connector.Tokens) == 0 {
		return nil, fmt.Errorf("%w: ib token list is empty", ErrInvalidConfig)
	}
	ibTokens := make(map[common.Address]string, len(cfg.Connector.Tokens))
	for i, token := range cfg.Connector.Tokens {
		addr, err := parseAddress(fmt.Sprintf("tokens[%d]", i), token.Address)
		if err != nil {
			return nil, err
		}
		if addr == inputAnchor || addr == outputAnchor {
			return nil, fmt.Errorf("%w: tokens[%d] %s is an anchor", ErrInvalidConfig, i, addr.Hex())
		}
		ibTokens[addr] = token.Symbol
	}

	routerABI, err := RouterABI()
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	return &IbAmm{
		network:        cfg.Network,
		dexKey:         dexKey,
		router:         router,
		inputAnchor:    inputAnchor,
		outputAnchor:   outputAnchor,
		ibTokens:       ibTokens,
		poolIdentifier: fmt.Sprintf("%s_%s", dexKey, strings.ToLower(router.Hex())),
		maxConcurrency: maxConcurrency,
		quoter:         quoter,
		routerABI:      routerABI,
		logger:         logger.Named(dexKey),
	}, nil
}

func parseAddress(field, input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("%w: invalid %s address: %s", ErrInvalidConfig, field, input)
	}
	addr := common.HexToAddress(input)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s is the zero address", ErrInvalidConfig, field)
	}
	return addr, nil
}

// PoolIdentifier returns the fixed identifier of the single pool this connector exposes.
func (d *IbAmm) PoolIdentifier() string {
	return d.poolIdentifier
}

// Router returns the router contract address.
func (d *IbAmm) Router() common.Address {
	return d.router
}

func (d *IbAmm) HasConstantPriceLargeAmounts() bool {
	return false
}

// InitializePricing is a no-op: quotes are read from the router on demand.
func (d *IbAmm) InitializePricing(ctx context.Context, blockNumber uint64) error {
	return nil
}

// GetAdapters returns nil; the connector is only reachable through direct calls.
func (d *IbAmm) GetAdapters(side model.Side) []model.Adapter {
	return nil
}

// PoolExists reports whether the pool can trade from -> to on side.
// BUY needs from == input anchor and to an ib token; SELL needs
// to == output anchor and from an ib token.
func (d *IbAmm) PoolExists(from, to model.Token, side model.Side) bool {
	return d.eligible(from.Address, to.Address, side)
}

func (d *IbAmm) eligible(from, to common.Address, side model.Side) bool {
	if from == to {
		return false
	}

	switch side {
	case model.SideBuy:
		return from == d.inputAnchor && d.isIbToken(to)
	case model.SideSell:
		return to == d.outputAnchor && d.isIbToken(from)
	default:
		return false
	}
}

func (d *IbAmm) isIbToken(addr common.Address) bool {
	_, ok := d.ibTokens[addr]
	return ok
}

func (d *IbAmm) GetPoolIdentifiers(ctx context.Context, from, to model.Token, side model.Side, blockNumber uint64) ([]string, error) {
	if !d.PoolExists(from, to, side) {
		return []string{}, nil
	}
	return []string{d.poolIdentifier}, nil
}

// GetPricesVolume quotes amounts against the router. It returns nil when
// limitPools excludes this pool or the pair is not tradable. Any failed
// lookup fails the whole batch.
func (d *IbAmm) GetPricesVolume(
	ctx context.Context,
	from, to model.Token,
	amounts []*big.Int,
	side model.Side,
	blockNumber uint64,
	limitPools []string,
) (model.ExchangePrices, error) {
	sideLabel := side.String()

	if limitPools != nil && !containsPool(limitPools, d.poolIdentifier) {
		metrics.QuoteRequests.WithLabelValues(d.dexKey, sideLabel, metrics.StatusAbstain).Inc()
		return nil, nil
	}
	if !d.PoolExists(from, to, side) {
		metrics.QuoteRequests.WithLabelValues(d.dexKey, sideLabel, metrics.StatusIneligible).Inc()
		return nil, nil
	}

	for i, amount := range amounts {
		if amount == nil || amount.Sign() < 0 {
			metrics.QuoteRequests.WithLabelValues(d.dexKey, sideLabel, metrics.StatusError).Inc()
			return nil, fmt.Errorf("%w: amounts[%d] = %v", ErrInvalidAmount, i, amount)
		}
	}

	token := from
	if side == model.SideBuy {
		token = to
	}
	unitAmount := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(token.Decimals)), nil)

	start := time.Now()
	results, err := d.quoteBatch(ctx, token.Address, unitAmount, amounts, side, blockNumber)
	metrics.QuoteDuration.WithLabelValues(d.dexKey, sideLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(d.dexKey, sideLabel, metrics.StatusError).Inc()
		d.logger.Warn("quote batch failed",
			zap.String("side", sideLabel),
			zap.String("token", token.Address.Hex()),
			zap.Uint64("block_number", blockNumber),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.QuoteRequests.WithLabelValues(d.dexKey, sideLabel, metrics.StatusOK).Inc()

	d.logger.Debug("quote batch complete",
		zap.String("side", sideLabel),
		zap.String("token", token.Address.Hex()),
		zap.Int("amounts", len(amounts)),
		zap.Uint64("block_number", blockNumber),
		zap.Duration("elapsed", time.Since(start)),
	)

	return model.ExchangePrices{
		{
			Exchange:      d.dexKey,
			Unit:          results[0],
			Prices:        results[1:],
			PoolAddresses: []string{d.poolIdentifier},
			GasCost:       GasCost,
		},
	}, nil
}

// quoteBatch prices unitAmount followed by amounts. Slot i of the result
// always belongs to request i, whatever order the lookups finish in.
func (d *IbAmm) quoteBatch(
	ctx context.Context,
	token common.Address,
	unitAmount *big.Int,
	amounts []*big.Int,
	side model.Side,
	blockNumber uint64,
) ([]*big.Int, error) {
	var (
		quote    func(context.Context, common.Address, *big.Int, uint64) (*big.Int, error)
		function string
	)
	switch side {
	case model.SideBuy:
		quote, function = d.quoter.BuyQuote, FunctionBuyQuote
	case model.SideSell:
		quote, function = d.quoter.SellQuote, FunctionSellQuote
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSide, side)
	}

	requests := make([]*big.Int, 0, len(amounts)+1)
	requests = append(requests, unitAmount)
	requests = append(requests, amounts...)
	results := make([]*big.Int, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxConcurrency)

	for i, amount := range requests {
		if amount.Sign() == 0 {
			results[i] = new(big.Int)
			continue
		}
		i, amount := i, amount
		g.Go(func() error {
			out, err := quote(gctx, token, amount, blockNumber)
			if err != nil {
				return &QuoteCallError{Function: function, Token: token, Index: i - 1, Amount: amount, Err: err}
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func containsPool(pools []string, id string) bool {
	for _, p := range pools {
		if strings.EqualFold(p, id) {
			return true
		}
	}
	return false
}

// GetTopPoolsForToken returns no pools; the connector does not rank liquidity.
func (d *IbAmm) GetTopPoolsForToken(ctx context.Context, token common.Address, limit int) ([]model.PoolLiquidity, error) {
	return []model.PoolLiquidity{}, nil
}
