package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/freedom_case_2/callemail/internal/models"
)

// SQLiteStore keeps records in a single SQLite file as JSON documents.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "callemail.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Writes serialise on the file lock anyway.
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS counters (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS call_emails (
			id         INTEGER PRIMARY KEY,
			number     TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT '',
			doc        BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) NextID(ctx context.Context, seq string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = value + 1
		RETURNING value
	`, seq).Scan(&id)
	return id, err
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (models.CallEmail, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM call_emails WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (s *SQLiteStore) Put(ctx context.Context, rec models.CallEmail) error {
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO call_emails (id, number, status, doc, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			number = excluded.number,
			status = excluded.status,
			doc = excluded.doc,
			updated_at = excluded.updated_at
	`, *rec.ID, rec.Number, status, doc)
	return err
}
