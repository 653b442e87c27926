package storage

import (
	"context"
	"errors"

	"ibammConnector/internal/model"
)

// Storage defines a sink for quote snapshots.
type Storage interface {
	PutSnapshotBatch(ctx context.Context, snapshots []model.QuoteSnapshot) error
}

// Multi writes every batch to each sink in order and joins their errors.
type Multi []Storage

func (m Multi) PutSnapshotBatch(ctx context.Context, snapshots []model.QuoteSnapshot) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutSnapshotBatch(ctx, snapshots); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
