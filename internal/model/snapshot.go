package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// QuoteSnapshot is one recorded quote batch for a pool.
type QuoteSnapshot struct {
	ChainID        uint64   `json:"chain_id"`
	Exchange       string   `json:"exchange"`
	PoolIdentifier string   `json:"pool_identifier"`
	Side           Side     `json:"side"`
	SrcToken       string   `json:"src_token"`
	DestToken      string   `json:"dest_token"`
	SrcSymbol      string   `json:"src_symbol,omitempty"`
	DestSymbol     string   `json:"dest_symbol,omitempty"`
	BlockNumber    uint64   `json:"block_number"`
	Timestamp      uint64   `json:"timestamp"`
	Amounts        []string `json:"amounts"`
	Unit           string   `json:"unit"`
	UnitFormatted  string   `json:"unit_formatted"`
	Prices         []string `json:"prices"`
	GasCost        uint64   `json:"gas_cost"`
	RecordedAt     string   `json:"recorded_at"`
}

// FormatAmount renders a smallest-unit amount as a decimal string.
func FormatAmount(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// AmountStrings converts amounts to base-10 strings, keeping order.
func AmountStrings(values []*big.Int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			out = append(out, "0")
			continue
		}
		out = append(out, v.String())
	}
	return out
}
