package ibamm

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ibammConnector/internal/model"
)

// routerCaller emulates the router contract: buy_quote doubles, sell_quote halves.
type routerCaller struct {
	mu      sync.Mutex
	lastTo  common.Address
	blocks  []*big.Int
	err     error
	garbage bool
}

func (c *routerCaller) CallContract(_ context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.mu.Lock()
	c.lastTo = *msg.To
	c.blocks = append(c.blocks, blockNumber)
	c.mu.Unlock()
	if c.garbage {
		return []byte{0x01, 0x02}, nil
	}

	parsed, err := RouterABI()
	if err != nil {
		return nil, err
	}
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	amount := args[1].(*big.Int)

	switch method.Name {
	case FunctionBuyQuote:
		return method.Outputs.Pack(new(big.Int).Mul(amount, big.NewInt(2)))
	case FunctionSellQuote:
		return method.Outputs.Pack(new(big.Int).Div(amount, big.NewInt(2)))
	}
	return nil, errors.New("unexpected method " + method.Name)
}

func TestRouterQuoterRoundTrip(t *testing.T) {
	router := common.HexToAddress(testRouter)
	caller := &routerCaller{}
	quoter, err := NewRouterQuoter(router, caller)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := quoter.BuyQuote(ctx, ibEUR.Address, big.NewInt(21), 0)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(42).Cmp(out))
	require.Equal(t, router, caller.lastTo)
	require.Nil(t, caller.blocks[0])

	out, err = quoter.SellQuote(ctx, ibEUR.Address, big.NewInt(42), 19_000_000)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(21).Cmp(out))
	require.Equal(t, uint64(19_000_000), caller.blocks[1].Uint64())
}

func TestRouterQuoterErrors(t *testing.T) {
	router := common.HexToAddress(testRouter)
	ctx := context.Background()

	reverted := errors.New("execution reverted")
	quoter, err := NewRouterQuoter(router, &routerCaller{err: reverted})
	require.NoError(t, err)
	_, err = quoter.SellQuote(ctx, ibEUR.Address, big.NewInt(1), 0)
	require.ErrorIs(t, err, reverted)

	quoter, err = NewRouterQuoter(router, &routerCaller{garbage: true})
	require.NoError(t, err)
	_, err = quoter.BuyQuote(ctx, ibEUR.Address, big.NewInt(1), 0)
	require.Error(t, err)

	_, err = NewRouterQuoter(router, nil)
	require.Error(t, err)
}

func TestNewQuotesThroughChainCaller(t *testing.T) {
	caller := &routerCaller{}
	conn, err := New(Config{DexKey: "ibamm", Network: 1, Connector: testConnectorConfig()}, caller, zap.NewNop())
	require.NoError(t, err)

	prices, err := conn.GetPricesVolume(context.Background(), dai, ibEUR, []*big.Int{big.NewInt(0), big.NewInt(500)}, model.SideBuy, 0, []string{testPoolID})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Zero(t, prices[0].Prices[0].Sign())
	require.Equal(t, 0, big.NewInt(1000).Cmp(prices[0].Prices[1]))
	require.Equal(t, 0, e18(2).Cmp(prices[0].Unit))
	require.Equal(t, common.HexToAddress(testRouter), caller.lastTo)
}
