package model

import (
	"fmt"
	"strings"
)

// Side is the swap direction requested by the host.
type Side uint8

const (
	// SideSell quotes an exact input amount.
	SideSell Side = iota
	// SideBuy quotes an exact output amount.
	SideBuy
)

func (s Side) String() string {
	switch s {
	case SideSell:
		return "SELL"
	case SideBuy:
		return "BUY"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// ParseSide parses "buy" or "sell" in any case.
func ParseSide(input string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "sell":
		return SideSell, nil
	case "buy":
		return SideBuy, nil
	default:
		return 0, fmt.Errorf("unsupported side: %q", input)
	}
}

// MarshalText encodes the side as its upper-case name.
func (s Side) MarshalText() ([]byte, error) {
	if s != SideSell && s != SideBuy {
		return nil, fmt.Errorf("unsupported side: %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
