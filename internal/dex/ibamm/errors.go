package ibamm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// revertErrorCode is the JSON-RPC code nodes use for a reverted eth_call.
const revertErrorCode = 3

var (
	ErrInvalidConfig   = errors.New("invalid connector config")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnsupportedSide = errors.New("unsupported side")
	ErrNotEligible     = errors.New("pair is not tradable on this pool")
	// ErrMinOutRequired is returned when a SELL is encoded without a slippage guard.
	ErrMinOutRequired = errors.New("min dest amount is required for sell")
)

// QuoteCallError reports a failed router quote lookup within a batch.
// Index is -1 for the unit amount request.
type QuoteCallError struct {
	Function string
	Token    common.Address
	Index    int
	Amount   *big.Int
	Err      error
}

func (e *QuoteCallError) Error() string {
	return fmt.Sprintf("%s(%s, %s) at index %d: %v", e.Function, e.Token.Hex(), e.Amount, e.Index, e.Err)
}

func (e *QuoteCallError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a quote error may clear on a second attempt.
// Input errors and reverted calls are permanent: quotes are pinned to a block,
// so the same call reverts again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNotEligible),
		errors.Is(err, ErrUnsupportedSide),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return !isReverted(err)
}

func isReverted(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}
