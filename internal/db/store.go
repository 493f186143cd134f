package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freedom_case_2/callemail/internal/models"
)

// Store keeps records in Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS call_emails (
	id         BIGINT PRIMARY KEY,
	number     TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT '',
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) NextID(ctx context.Context, seq string) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, seq).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id int64) (models.CallEmail, error) {
	var doc []byte
	err := s.Pool.QueryRow(ctx, `SELECT doc FROM call_emails WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CallEmail{}, ErrNotFound
		}
		return models.CallEmail{}, err
	}
	var rec models.CallEmail
	if err := json.Unmarshal(doc, &rec); err != nil {
		return models.CallEmail{}, fmt.Errorf("decode call_email %d: %w", id, err)
	}
	return rec, nil
}

func (s *Store) Put(ctx context.Context, rec models.CallEmail) error {
	if rec.ID == nil {
		return errors.New("put call_email: record has no id")
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	status := ""
	if rec.Status != nil {
		status = rec.Status.ID
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO call_emails (id, number, status, doc, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (id) DO UPDATE SET
				number = EXCLUDED.number,
				status = EXCLUDED.status,
				doc = EXCLUDED.doc,
				updated_at = EXCLUDED.updated_at
		`, *rec.ID, rec.Number, status, doc)
		return err
	})
}
