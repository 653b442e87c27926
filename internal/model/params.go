package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SwapParams are the finalized trade amounts the host asks a connector to encode.
type SwapParams struct {
	SrcToken   common.Address
	DestToken  common.Address
	SrcAmount  *big.Int
	DestAmount *big.Int
	// MinDestAmount is the slippage guard for SELL. It must be set by the
	// caller; BUY uses DestAmount.
	MinDestAmount *big.Int
	Side          Side
}

// AdapterExchangeParam is the payload for the host's adapter routing path.
type AdapterExchangeParam struct {
	TargetExchange common.Address `json:"target_exchange"`
	Payload        hexutil.Bytes  `json:"payload"`
	NetworkFee     *big.Int       `json:"network_fee"`
}

// SimpleExchangeParam is a direct call against the exchange contract.
type SimpleExchangeParam struct {
	SrcToken   common.Address `json:"src_token"`
	DestToken  common.Address `json:"dest_token"`
	SrcAmount  *big.Int       `json:"src_amount"`
	DestAmount *big.Int       `json:"dest_amount"`
	Callee     common.Address `json:"callee"`
	CallData   hexutil.Bytes  `json:"call_data"`
	Value      *big.Int       `json:"value"`
	NetworkFee *big.Int       `json:"network_fee"`
}
