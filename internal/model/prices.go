package model

import "math/big"

// PoolPrices is the quote a connector offers for one pool.
// Prices[i] is the output for the i-th requested amount.
type PoolPrices struct {
	Exchange      string     `json:"exchange"`
	Unit          *big.Int   `json:"unit"`
	Prices        []*big.Int `json:"prices"`
	PoolAddresses []string   `json:"pool_addresses"`
	GasCost       uint64     `json:"gas_cost"`
}

// ExchangePrices is the full answer of a connector for one request.
type ExchangePrices []PoolPrices

// PoolLiquidity describes a pool's depth for a token.
type PoolLiquidity struct {
	Exchange        string  `json:"exchange"`
	Address         string  `json:"address"`
	ConnectorTokens []Token `json:"connector_tokens"`
	LiquidityUSD    float64 `json:"liquidity_usd"`
}

// Adapter names an on-chain adapter contract and the index of this exchange in it.
type Adapter struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}
