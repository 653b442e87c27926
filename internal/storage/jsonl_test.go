package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ibammConnector/internal/model"
)

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quotes.jsonl")
	sink := NewJsonlStorage(path)
	ctx := context.Background()

	first := model.QuoteSnapshot{ChainID: 1, BlockNumber: 100, Side: model.SideSell, Prices: []string{"0", "3"}}
	second := model.QuoteSnapshot{ChainID: 1, BlockNumber: 101, Side: model.SideBuy, Prices: []string{"2"}}

	if err := sink.PutSnapshotBatch(ctx, []model.QuoteSnapshot{first}); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := sink.PutSnapshotBatch(ctx, []model.QuoteSnapshot{second}); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if err := sink.PutSnapshotBatch(ctx, nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var got []model.QuoteSnapshot
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var snap model.QuoteSnapshot
		if err := json.Unmarshal(scanner.Bytes(), &snap); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		got = append(got, snap)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].BlockNumber != 100 || got[1].BlockNumber != 101 || got[1].Side != model.SideBuy {
		t.Fatalf("snapshot mismatch: %+v", got)
	}
}

type failingSink struct{ calls int }

func (f *failingSink) PutSnapshotBatch(context.Context, []model.QuoteSnapshot) error {
	f.calls++
	return errors.New("sink down")
}

func TestMultiWritesAllSinks(t *testing.T) {
	failing := &failingSink{}
	path := filepath.Join(t.TempDir(), "quotes.jsonl")
	multi := Multi{failing, nil, NewJsonlStorage(path)}

	err := multi.PutSnapshotBatch(context.Background(), []model.QuoteSnapshot{{ChainID: 1}})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if failing.calls != 1 {
		t.Fatalf("failing sink calls: %d", failing.calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("jsonl sink should still be written: %v", err)
	}
}
