package dex

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type erc20Caller struct {
	decimals uint8
	symbol   string
	calls    int
	fail     bool
}

func (c *erc20Caller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("execution reverted")
	}
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, err
	}
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "decimals":
		return method.Outputs.Pack(c.decimals)
	case "symbol":
		return method.Outputs.Pack(c.symbol)
	case "name":
		return method.Outputs.Pack(c.symbol + " token")
	}
	return nil, errors.New("unexpected method")
}

func TestResolveTokenCachesMetadata(t *testing.T) {
	caller := &erc20Caller{decimals: 18, symbol: "IBEUR"}
	cache := NewTokenMetaCache(4)
	addr := common.HexToAddress("0x96E61422b6A9bA0e068B6c5ADd4fFaBC6a4aae27")

	token, err := ResolveToken(context.Background(), caller, cache, addr, zap.NewNop())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if token.Decimals != 18 || token.Symbol != "IBEUR" || token.Name != "IBEUR token" || token.Address != addr {
		t.Fatalf("token mismatch: %+v", token)
	}
	callsAfterFirst := caller.calls

	if _, err := ResolveToken(context.Background(), caller, cache, addr, zap.NewNop()); err != nil {
		t.Fatalf("resolve cached: %v", err)
	}
	if caller.calls != callsAfterFirst {
		t.Fatalf("expected cached lookup, calls %d -> %d", callsAfterFirst, caller.calls)
	}
}

func TestResolveTokenPropagatesDecimalsFailure(t *testing.T) {
	caller := &erc20Caller{fail: true}
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	if _, err := ResolveToken(context.Background(), caller, NewTokenMetaCache(0), addr, nil); err == nil {
		t.Fatalf("expected error when decimals call fails")
	}
}

func TestAsBigInt(t *testing.T) {
	src := big.NewInt(42)
	got, err := AsBigInt(src)
	if err != nil {
		t.Fatalf("as big int: %v", err)
	}
	got.SetInt64(7)
	if src.Int64() != 42 {
		t.Fatalf("AsBigInt must copy its input")
	}
	if _, err := AsBigInt("42"); err == nil {
		t.Fatalf("expected error for string input")
	}
}
