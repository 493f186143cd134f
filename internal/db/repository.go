package db

import (
	"context"
	"errors"
	"strings"

	"github.com/freedom_case_2/callemail/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Sequence names handed to NextID.
const (
	SeqCallEmail = "call_email"
	SeqLocation  = "location"
	SeqEmailUser = "email_user"
	SeqAddress   = "address"
)

// Repository persists call/email records as whole documents.
type Repository interface {
	NextID(ctx context.Context, seq string) (int64, error)
	Get(ctx context.Context, id int64) (models.CallEmail, error)
	Put(ctx context.Context, rec models.CallEmail) error
	Ping(ctx context.Context) error
	Close()
}

// Open picks a repository from the database URL: empty keeps records in
// memory, a sqlite: or file: prefix opens a SQLite file and anything else is
// handed to pgx.
func Open(ctx context.Context, databaseURL string) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch {
	case databaseURL == "":
		repo = NewMemory()
	case strings.HasPrefix(databaseURL, "sqlite:"):
		repo, err = openSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite:"))
	case strings.HasPrefix(databaseURL, "file:"):
		repo, err = openSQLite(ctx, databaseURL)
	default:
		repo, err = openPostgres(ctx, databaseURL)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func openSQLite(ctx context.Context, dsn string) (Repository, error) {
	s, err := NewSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(ctx context.Context, url string) (Repository, error) {
	s, err := New(ctx, url)
	if err != nil {
		return nil, err
	}
	return s, nil
}
