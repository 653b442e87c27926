package watch

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"ibammConnector/internal/dex"
	"ibammConnector/internal/dex/ibamm"
	"ibammConnector/internal/metrics"
	"ibammConnector/internal/model"
	"ibammConnector/internal/storage"
)

// BlockSource resolves the block a tick quotes against.
type BlockSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// RunConfig holds runtime settings for the watcher.
type RunConfig struct {
	ChainID      uint64
	From         model.Token
	To           model.Token
	Side         model.Side
	Amounts      []*big.Int
	Interval     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxTicks stops the loop after that many ticks; zero runs until ctx is done.
	MaxTicks int
}

// Runner periodically quotes a pair and records snapshots.
type Runner struct {
	cfg       RunConfig
	connector dex.Connector
	blocks    BlockSource
	storage   storage.Storage
	logger    *zap.Logger
	lastBlock uint64
	now       func() time.Time
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, connector dex.Connector, blocks BlockSource, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		connector: connector,
		blocks:    blocks,
		storage:   storageSink,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the watch loop until ctx is cancelled or MaxTicks is reached.
func (r *Runner) Run(ctx context.Context) error {
	if r.connector == nil {
		return fmt.Errorf("connector is nil")
	}
	if r.blocks == nil {
		return fmt.Errorf("block source is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if len(r.cfg.Amounts) == 0 {
		return fmt.Errorf("at least one amount is required")
	}

	pools, err := r.connector.GetPoolIdentifiers(ctx, r.cfg.From, r.cfg.To, r.cfg.Side, 0)
	if err != nil {
		return fmt.Errorf("pool identifiers: %w", err)
	}
	if len(pools) == 0 {
		return fmt.Errorf("pair %s -> %s is not tradable for %s", r.cfg.From.Address.Hex(), r.cfg.To.Address.Hex(), r.cfg.Side)
	}

	if err := r.connector.InitializePricing(ctx, 0); err != nil {
		return fmt.Errorf("initialize pricing: %w", err)
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	ticks := 0
	for {
		if err := r.tick(ctx, pools); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("tick failed", zap.Error(err))
		}
		ticks++
		if r.cfg.MaxTicks > 0 && ticks >= r.cfg.MaxTicks {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) tick(ctx context.Context, pools []string) error {
	var blockNumber uint64
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, nil, func(ctx context.Context) error {
		var err error
		blockNumber, err = r.blocks.LatestBlockNumber(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("latest block: %w", err)
	}
	if blockNumber == r.lastBlock {
		r.logger.Debug("block unchanged, skipping", zap.Uint64("block_number", blockNumber))
		return nil
	}

	var prices model.ExchangePrices
	err = withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, ibamm.IsRetryable, func(ctx context.Context) error {
		var err error
		prices, err = r.connector.GetPricesVolume(ctx, r.cfg.From, r.cfg.To, r.cfg.Amounts, r.cfg.Side, blockNumber, pools)
		if err != nil {
			r.logger.Warn("quote failed", zap.Error(err), zap.Uint64("block_number", blockNumber))
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("quote block %d: %w", blockNumber, err)
	}
	if len(prices) == 0 {
		return fmt.Errorf("connector abstained at block %d", blockNumber)
	}

	ts, err := r.blocks.BlockTimestamp(ctx, blockNumber)
	if err != nil {
		r.logger.Debug("block timestamp unavailable", zap.Uint64("block_number", blockNumber), zap.Error(err))
		ts = 0
	}

	snapshots := make([]model.QuoteSnapshot, 0, len(prices))
	for _, pool := range prices {
		snapshots = append(snapshots, r.buildSnapshot(pool, blockNumber, ts))
	}

	if err := r.storage.PutSnapshotBatch(ctx, snapshots); err != nil {
		return fmt.Errorf("store snapshots: %w", err)
	}
	r.lastBlock = blockNumber
	metrics.LastQuotedBlock.Set(float64(blockNumber))

	r.logger.Info("quote recorded",
		zap.Uint64("block_number", blockNumber),
		zap.String("unit", snapshots[0].UnitFormatted),
		zap.Int("prices", len(snapshots[0].Prices)),
	)
	return nil
}

func (r *Runner) buildSnapshot(pool model.PoolPrices, blockNumber, ts uint64) model.QuoteSnapshot {
	poolID := ""
	if len(pool.PoolAddresses) > 0 {
		poolID = pool.PoolAddresses[0]
	}

	// SELL prices are in the destination token, BUY prices in the source token
	outDecimals := r.cfg.To.Decimals
	if r.cfg.Side == model.SideBuy {
		outDecimals = r.cfg.From.Decimals
	}

	return model.QuoteSnapshot{
		ChainID:        r.cfg.ChainID,
		Exchange:       pool.Exchange,
		PoolIdentifier: poolID,
		Side:           r.cfg.Side,
		SrcToken:       r.cfg.From.Address.Hex(),
		DestToken:      r.cfg.To.Address.Hex(),
		SrcSymbol:      r.cfg.From.Symbol,
		DestSymbol:     r.cfg.To.Symbol,
		BlockNumber:    blockNumber,
		Timestamp:      ts,
		Amounts:        model.AmountStrings(r.cfg.Amounts),
		Unit:           model.AmountStrings([]*big.Int{pool.Unit})[0],
		UnitFormatted:  model.FormatAmount(pool.Unit, outDecimals),
		Prices:         model.AmountStrings(pool.Prices),
		GasCost:        pool.GasCost,
		RecordedAt:     r.now().UTC().Format(time.RFC3339Nano),
	}
}
