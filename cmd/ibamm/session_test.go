package main

import (
	"context"
	"errors"
	"testing"
)

type headSource struct {
	head  uint64
	err   error
	calls int
}

func (h *headSource) LatestBlockNumber(context.Context) (uint64, error) {
	h.calls++
	return h.head, h.err
}

func TestResolveBlock(t *testing.T) {
	head := &headSource{head: 19_000_000}

	got, err := resolveBlock(context.Background(), head, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 19_000_000 {
		t.Fatalf("expected head block, got %d", got)
	}

	got, err = resolveBlock(context.Background(), head, 18_500_000)
	if err != nil || got != 18_500_000 {
		t.Fatalf("requested block mismatch: %d, %v", got, err)
	}
	if head.calls != 1 {
		t.Fatalf("explicit block must not query the head, calls %d", head.calls)
	}

	if _, err := resolveBlock(context.Background(), &headSource{err: errors.New("timeout")}, 0); err == nil {
		t.Fatalf("expected head lookup error")
	}
}

func TestParseAmount(t *testing.T) {
	value, err := parseAmount("src amount", " 1000000000000000000000 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.String() != "1000000000000000000000" {
		t.Fatalf("value mismatch: %s", value)
	}

	value, err = parseAmount("min dest amount", "")
	if err != nil || value != nil {
		t.Fatalf("empty input should be unset, got %v, %v", value, err)
	}

	if _, err := parseAmount("src amount", "-1"); err == nil {
		t.Fatalf("expected negative amount error")
	}
	if _, err := parseAmount("src amount", "1e18"); err == nil {
		t.Fatalf("expected malformed amount error")
	}
}

func TestParseAmounts(t *testing.T) {
	amounts, err := parseAmounts([]string{"0", "5", "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(amounts) != 3 || amounts[0].Sign() != 0 || amounts[2].Int64() != 10 {
		t.Fatalf("amounts mismatch: %v", amounts)
	}

	if _, err := parseAmounts(nil); err == nil {
		t.Fatalf("expected missing amounts error")
	}
}

func TestParseTokenAddress(t *testing.T) {
	addr, err := parseTokenAddress("from", "0x96e61422b6a9ba0e068b6c5add4ffabc6a4aae27")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Hex() != "0x96E61422b6A9bA0e068B6c5ADd4fFaBC6a4aae27" {
		t.Fatalf("address mismatch: %s", addr.Hex())
	}
	if _, err := parseTokenAddress("to", "not-an-address"); err == nil {
		t.Fatalf("expected invalid address error")
	}
	if _, err := parseTokenAddress("to", ""); err == nil {
		t.Fatalf("expected missing address error")
	}
}
