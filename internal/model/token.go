package model

import "github.com/ethereum/go-ethereum/common"

// Token is an asset handed to the connector by the host.
type Token struct {
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol,omitempty"`
	Name     string         `json:"name,omitempty"`
}
