package ibamm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"ibammConnector/internal/chain"
	"ibammConnector/internal/dex"
	"ibammConnector/internal/metrics"
)

// QuoteSource prices one amount of a token against the router.
// A zero blockNumber means latest.
type QuoteSource interface {
	BuyQuote(ctx context.Context, token common.Address, amount *big.Int, blockNumber uint64) (*big.Int, error)
	SellQuote(ctx context.Context, token common.Address, amount *big.Int, blockNumber uint64) (*big.Int, error)
}

// RouterQuoter reads quotes from the router contract with eth_call.
type RouterQuoter struct {
	router    common.Address
	caller    chain.Caller
	routerABI abi.ABI
}

var _ QuoteSource = (*RouterQuoter)(nil)

func NewRouterQuoter(router common.Address, caller chain.Caller) (*RouterQuoter, error) {
	if caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	parsed, err := RouterABI()
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	return &RouterQuoter{router: router, caller: caller, routerABI: parsed}, nil
}

func (q *RouterQuoter) BuyQuote(ctx context.Context, token common.Address, amount *big.Int, blockNumber uint64) (*big.Int, error) {
	return q.quote(ctx, FunctionBuyQuote, token, amount, blockNumber)
}

func (q *RouterQuoter) SellQuote(ctx context.Context, token common.Address, amount *big.Int, blockNumber uint64) (*big.Int, error) {
	return q.quote(ctx, FunctionSellQuote, token, amount, blockNumber)
}

func (q *RouterQuoter) quote(ctx context.Context, method string, token common.Address, amount *big.Int, blockNumber uint64) (*big.Int, error) {
	out, err := q.call(ctx, method, token, amount, blockNumber)
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	metrics.QuoteCalls.WithLabelValues(method, status).Inc()
	return out, err
}

func (q *RouterQuoter) call(ctx context.Context, method string, token common.Address, amount *big.Int, blockNumber uint64) (*big.Int, error) {
	data, err := q.routerABI.Pack(method, token, amount)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	var blockPtr *big.Int
	if blockNumber > 0 {
		blockPtr = new(big.Int).SetUint64(blockNumber)
	}

	msg := ethereum.CallMsg{To: &q.router, Data: data}
	resp, err := q.caller.CallContract(ctx, msg, blockPtr)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := q.routerABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s return size %d", method, len(values))
	}
	return dex.AsBigInt(values[0])
}
