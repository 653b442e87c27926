package ibamm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

type jsonRPCError struct {
	code    int
	message string
}

func (e *jsonRPCError) Error() string  { return e.message }
func (e *jsonRPCError) ErrorCode() int { return e.code }

func TestIsRetryable(t *testing.T) {
	callErr := func(err error) error {
		return &QuoteCallError{Function: FunctionSellQuote, Index: -1, Amount: big.NewInt(1), Err: err}
	}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transport", callErr(errors.New("dial tcp: connection refused")), true},
		{"server error", callErr(&jsonRPCError{code: -32000, message: "header not found"}), true},
		{"revert message", callErr(errors.New("call sell_quote: execution reverted")), false},
		{"revert code", callErr(&jsonRPCError{code: 3, message: "reverted: paused"}), false},
		{"invalid amount", fmt.Errorf("%w: amounts[0] = -1", ErrInvalidAmount), false},
		{"not eligible", ErrNotEligible, false},
		{"cancelled", callErr(context.Canceled), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}
