package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDexKey is the connector key used when none is configured.
const DefaultDexKey = "ibamm"

// IbToken is a tradable intermediate asset of the pool.
type IbToken struct {
	Address string `mapstructure:"address"`
	Symbol  string `mapstructure:"symbol"`
}

// ConnectorConfig is the static per-network record of one connector deployment.
type ConnectorConfig struct {
	DexKey       string    `mapstructure:"dex-key"`
	ChainID      uint64    `mapstructure:"chain-id"`
	Router       string    `mapstructure:"router"`
	InputAnchor  string    `mapstructure:"input-anchor"`
	OutputAnchor string    `mapstructure:"output-anchor"`
	Tokens       []IbToken `mapstructure:"tokens"`
}

// DexNetworks lists the networks a dex key is deployed on.
type DexNetworks struct {
	Key      string
	Networks []uint64
}

// Connectors is the set of configured connector deployments.
type Connectors []ConnectorConfig

// Lookup returns the record for a dex key on a network.
func (c Connectors) Lookup(dexKey string, chainID uint64) (ConnectorConfig, bool) {
	for _, item := range c {
		if strings.EqualFold(item.DexKey, dexKey) && item.ChainID == chainID {
			return item, true
		}
	}
	return ConnectorConfig{}, false
}

// DexKeysWithNetwork groups configured networks by dex key, sorted by key.
func (c Connectors) DexKeysWithNetwork() []DexNetworks {
	byKey := make(map[string][]uint64)
	for _, item := range c {
		key := strings.ToLower(item.DexKey)
		byKey[key] = append(byKey[key], item.ChainID)
	}

	out := make([]DexNetworks, 0, len(byKey))
	for key, networks := range byKey {
		sort.Slice(networks, func(i, j int) bool { return networks[i] < networks[j] })
		out = append(out, DexNetworks{Key: key, Networks: networks})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func parseConnectors(v *viper.Viper) (Connectors, error) {
	if !v.IsSet("connectors") {
		return nil, nil
	}

	var items []ConnectorConfig
	if err := v.UnmarshalKey("connectors", &items); err != nil {
		return nil, fmt.Errorf("parse connectors: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	out := make(Connectors, 0, len(items))
	for i, item := range items {
		item.DexKey = strings.ToLower(strings.TrimSpace(item.DexKey))
		if item.DexKey == "" {
			item.DexKey = DefaultDexKey
		}
		if item.ChainID == 0 {
			return nil, fmt.Errorf("connectors[%d]: chain-id is required", i)
		}
		id := fmt.Sprintf("%s:%d", item.DexKey, item.ChainID)
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("connectors[%d]: duplicate entry for %s", i, id)
		}
		seen[id] = struct{}{}

		item.Router = strings.TrimSpace(item.Router)
		item.InputAnchor = strings.TrimSpace(item.InputAnchor)
		item.OutputAnchor = strings.TrimSpace(item.OutputAnchor)
		for j := range item.Tokens {
			item.Tokens[j].Address = strings.TrimSpace(item.Tokens[j].Address)
			item.Tokens[j].Symbol = strings.TrimSpace(item.Tokens[j].Symbol)
		}
		out = append(out, item)
	}
	return out, nil
}
