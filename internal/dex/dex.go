package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"ibammConnector/internal/model"
)

// Connector is the operation set every exchange integration exposes to the
// aggregator host.
type Connector interface {
	// HasConstantPriceLargeAmounts reports whether quotes are independent of size.
	HasConstantPriceLargeAmounts() bool

	InitializePricing(ctx context.Context, blockNumber uint64) error
	GetAdapters(side model.Side) []model.Adapter
	GetPoolIdentifiers(ctx context.Context, from, to model.Token, side model.Side, blockNumber uint64) ([]string, error)

	// GetPricesVolume returns nil prices when the connector abstains.
	GetPricesVolume(ctx context.Context, from, to model.Token, amounts []*big.Int, side model.Side, blockNumber uint64, limitPools []string) (model.ExchangePrices, error)

	GetAdapterParam(params model.SwapParams) model.AdapterExchangeParam
	GetSimpleParam(ctx context.Context, params model.SwapParams) (model.SimpleExchangeParam, error)
	GetTopPoolsForToken(ctx context.Context, token common.Address, limit int) ([]model.PoolLiquidity, error)
}
