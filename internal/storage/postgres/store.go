package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ibammConnector/internal/metrics"
	"ibammConnector/internal/model"
)

// Schema creates the quote_snapshots table.
const Schema = `
CREATE TABLE IF NOT EXISTS quote_snapshots (
	chain_id        BIGINT      NOT NULL,
	pool_identifier TEXT        NOT NULL,
	side            TEXT        NOT NULL,
	block_number    BIGINT      NOT NULL,
	exchange        TEXT        NOT NULL,
	src_token       TEXT        NOT NULL,
	dest_token      TEXT        NOT NULL,
	src_symbol      TEXT        NOT NULL DEFAULT '',
	dest_symbol     TEXT        NOT NULL DEFAULT '',
	block_ts        BIGINT      NOT NULL,
	amounts         TEXT[]      NOT NULL,
	unit            NUMERIC     NOT NULL,
	prices          TEXT[]      NOT NULL,
	gas_cost        BIGINT      NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pool_identifier, side, block_number)
)`

// Store provides Postgres persistence for quote snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// PutSnapshotBatch upserts snapshots keyed by chain, pool, side and block.
func (s *Store) PutSnapshotBatch(ctx context.Context, snapshots []model.QuoteSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO quote_snapshots (
				chain_id, pool_identifier, side, block_number, exchange, src_token, dest_token,
				src_symbol, dest_symbol, block_ts, amounts, unit, prices, gas_cost, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
			ON CONFLICT (chain_id, pool_identifier, side, block_number)
			DO UPDATE SET
				block_ts = EXCLUDED.block_ts,
				amounts = EXCLUDED.amounts,
				unit = EXCLUDED.unit,
				prices = EXCLUDED.prices,
				gas_cost = EXCLUDED.gas_cost,
				updated_at = now()
		`,
			int64(snap.ChainID),
			snap.PoolIdentifier,
			snap.Side.String(),
			int64(snap.BlockNumber),
			snap.Exchange,
			snap.SrcToken,
			snap.DestToken,
			snap.SrcSymbol,
			snap.DestSymbol,
			int64(snap.Timestamp),
			snap.Amounts,
			snap.Unit,
			snap.Prices,
			int64(snap.GasCost),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	metrics.SnapshotsRecorded.WithLabelValues("postgres").Add(float64(len(snapshots)))
	return nil
}
