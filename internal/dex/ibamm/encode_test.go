package ibamm

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"ibammConnector/internal/model"
)

func decodeCall(t *testing.T, data []byte) (string, []interface{}) {
	t.Helper()
	parsed, err := RouterABI()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)

	method, err := parsed.MethodById(data[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	return method.Name, args
}

func TestGetSimpleParamBuyScenario(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})
	destAmount := big.NewInt(987654321)

	param, err := conn.GetSimpleParam(context.Background(), model.SwapParams{
		SrcToken:   dai.Address,
		DestToken:  ibEUR.Address,
		SrcAmount:  e18(1),
		DestAmount: destAmount,
		Side:       model.SideBuy,
	})
	require.NoError(t, err)

	name, args := decodeCall(t, param.CallData)
	require.Equal(t, FunctionBuy, name)
	require.Len(t, args, 3)
	require.Equal(t, ibEUR.Address, args[0].(common.Address))
	require.Equal(t, 0, destAmount.Cmp(args[1].(*big.Int)))
	require.Equal(t, 0, destAmount.Cmp(args[2].(*big.Int)))

	require.Equal(t, conn.Router(), param.Callee)
	require.Equal(t, dai.Address, param.SrcToken)
	require.Equal(t, ibEUR.Address, param.DestToken)
	require.Equal(t, 0, e18(1).Cmp(param.SrcAmount))
	require.Equal(t, 0, destAmount.Cmp(param.DestAmount))
	require.Zero(t, param.Value.Sign())
	require.Zero(t, param.NetworkFee.Sign())
}

func TestGetSimpleParamSellUsesCallerGuard(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})
	minOut := big.NewInt(2_990_000)

	param, err := conn.GetSimpleParam(context.Background(), model.SwapParams{
		SrcToken:      ibEUR.Address,
		DestToken:     mim.Address,
		SrcAmount:     e18(1),
		DestAmount:    big.NewInt(3_000_000),
		MinDestAmount: minOut,
		Side:          model.SideSell,
	})
	require.NoError(t, err)

	name, args := decodeCall(t, param.CallData)
	require.Equal(t, FunctionSell, name)
	require.Equal(t, ibEUR.Address, args[0].(common.Address))
	require.Equal(t, 0, e18(1).Cmp(args[1].(*big.Int)))
	require.Equal(t, 0, minOut.Cmp(args[2].(*big.Int)))
}

func TestGetSimpleParamSellRequiresGuard(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})

	_, err := conn.GetSimpleParam(context.Background(), model.SwapParams{
		SrcToken:   ibEUR.Address,
		DestToken:  mim.Address,
		SrcAmount:  e18(1),
		DestAmount: big.NewInt(3_000_000),
		Side:       model.SideSell,
	})
	require.ErrorIs(t, err, ErrMinOutRequired)
}

func TestGetSimpleParamSellAcceptsExplicitZeroGuard(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})

	param, err := conn.GetSimpleParam(context.Background(), model.SwapParams{
		SrcToken:      ibEUR.Address,
		DestToken:     mim.Address,
		SrcAmount:     e18(1),
		DestAmount:    big.NewInt(3_000_000),
		MinDestAmount: new(big.Int),
		Side:          model.SideSell,
	})
	require.NoError(t, err)

	_, args := decodeCall(t, param.CallData)
	require.Zero(t, args[2].(*big.Int).Sign())
}

func TestGetSimpleParamRejectsIneligiblePair(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})
	ctx := context.Background()

	_, err := conn.GetSimpleParam(ctx, model.SwapParams{
		SrcToken:   ibEUR.Address,
		DestToken:  dai.Address,
		SrcAmount:  e18(1),
		DestAmount: e18(1),
		Side:       model.SideBuy,
	})
	require.ErrorIs(t, err, ErrNotEligible)

	_, err = conn.GetSimpleParam(ctx, model.SwapParams{
		SrcToken:      dai.Address,
		DestToken:     ibEUR.Address,
		SrcAmount:     e18(1),
		DestAmount:    e18(1),
		MinDestAmount: e18(1),
		Side:          model.SideSell,
	})
	require.ErrorIs(t, err, ErrNotEligible)
}

func TestGetSimpleParamRejectsMissingAmounts(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})

	_, err := conn.GetSimpleParam(context.Background(), model.SwapParams{
		SrcToken:  dai.Address,
		DestToken: ibEUR.Address,
		SrcAmount: e18(1),
		Side:      model.SideBuy,
	})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestGetAdapterParamIsInert(t *testing.T) {
	conn := newTestConnector(t, &fakeQuoteSource{})

	param := conn.GetAdapterParam(model.SwapParams{
		SrcToken:   dai.Address,
		DestToken:  ibEUR.Address,
		SrcAmount:  e18(1),
		DestAmount: e18(1),
		Side:       model.SideBuy,
	})
	require.Equal(t, conn.Router(), param.TargetExchange)
	require.Empty(t, param.Payload)
	require.Zero(t, param.NetworkFee.Sign())
}
