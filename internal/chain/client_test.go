package chain

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

type headerService struct {
	mu    sync.Mutex
	calls int
}

func (s *headerService) GetBlockByNumber(number hexutil.Uint64, _ bool) *types.Header {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return &types.Header{
		Number:     new(big.Int).SetUint64(uint64(number)),
		Difficulty: new(big.Int),
		Time:       1_700_000_000 + uint64(number),
	}
}

func TestBlockTimestampCachesHeaders(t *testing.T) {
	service := &headerService{}
	server := rpc.NewServer()
	if err := server.RegisterName("eth", service); err != nil {
		t.Fatalf("register service: %v", err)
	}
	defer server.Stop()

	client := newClient(rpc.DialInProc(server))
	defer client.Close()

	for i := 0; i < 2; i++ {
		ts, err := client.BlockTimestamp(context.Background(), 100)
		if err != nil {
			t.Fatalf("block timestamp: %v", err)
		}
		if ts != 1_700_000_100 {
			t.Fatalf("timestamp mismatch: %d", ts)
		}
	}
	if service.calls != 1 {
		t.Fatalf("expected one header lookup, got %d", service.calls)
	}
}
