package ibamm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"ibammConnector/internal/model"
)

// GetAdapterParam returns an inert payload: adapter routing is not supported
// for this exchange, only direct calls.
func (d *IbAmm) GetAdapterParam(params model.SwapParams) model.AdapterExchangeParam {
	return model.AdapterExchangeParam{
		TargetExchange: d.router,
		Payload:        hexutil.Bytes{},
		NetworkFee:     new(big.Int),
	}
}

// GetSimpleParam encodes a direct router call.
//
// BUY calls buy(destToken, destAmount, destAmount): the output is exact so
// the guard equals the amount. SELL calls sell(srcToken, srcAmount,
// minDestAmount) and requires the caller to supply minDestAmount.
func (d *IbAmm) GetSimpleParam(ctx context.Context, params model.SwapParams) (model.SimpleExchangeParam, error) {
	if !d.eligible(params.SrcToken, params.DestToken, params.Side) {
		return model.SimpleExchangeParam{}, fmt.Errorf("%w: %s -> %s (%s)", ErrNotEligible, params.SrcToken.Hex(), params.DestToken.Hex(), params.Side)
	}
	if params.SrcAmount == nil || params.SrcAmount.Sign() < 0 {
		return model.SimpleExchangeParam{}, fmt.Errorf("%w: src amount %v", ErrInvalidAmount, params.SrcAmount)
	}
	if params.DestAmount == nil || params.DestAmount.Sign() < 0 {
		return model.SimpleExchangeParam{}, fmt.Errorf("%w: dest amount %v", ErrInvalidAmount, params.DestAmount)
	}

	var (
		function string
		callArgs []interface{}
	)
	switch params.Side {
	case model.SideBuy:
		function = FunctionBuy
		callArgs = []interface{}{params.DestToken, params.DestAmount, params.DestAmount}
	case model.SideSell:
		if params.MinDestAmount == nil {
			return model.SimpleExchangeParam{}, ErrMinOutRequired
		}
		if params.MinDestAmount.Sign() < 0 {
			return model.SimpleExchangeParam{}, fmt.Errorf("%w: min dest amount %v", ErrInvalidAmount, params.MinDestAmount)
		}
		if params.MinDestAmount.Sign() == 0 {
			d.logger.Warn("sell encoded with zero min dest amount",
				zap.String("src_token", params.SrcToken.Hex()),
				zap.String("src_amount", params.SrcAmount.String()),
			)
		}
		function = FunctionSell
		callArgs = []interface{}{params.SrcToken, params.SrcAmount, params.MinDestAmount}
	default:
		return model.SimpleExchangeParam{}, fmt.Errorf("%w: %s", ErrUnsupportedSide, params.Side)
	}

	data, err := d.routerABI.Pack(function, callArgs...)
	if err != nil {
		return model.SimpleExchangeParam{}, fmt.Errorf("pack %s: %w", function, err)
	}

	return model.SimpleExchangeParam{
		SrcToken:   params.SrcToken,
		DestToken:  params.DestToken,
		SrcAmount:  new(big.Int).Set(params.SrcAmount),
		DestAmount: new(big.Int).Set(params.DestAmount),
		Callee:     d.router,
		CallData:   data,
		Value:      new(big.Int),
		NetworkFee: new(big.Int),
	}, nil
}
