// Package sqlite persists the token store and the dashboard cookie jar in a
// single SQLite state file, so a credential survives process restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nabdaotp/dashboard/pkg/cryptox"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"
	_ "modernc.org/sqlite"
)

var _ tokenstore.Storage = (*Store)(nil)

type Store struct {
	db     *sql.DB
	dsn    string
	sealer *cryptox.Sealer
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Store)

// WithSealer encrypts every stored value. Values that fail to decrypt read as
// absent.
func WithSealer(s *cryptox.Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithClock overrides time.Now for cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

func NewStore(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		dsn:    dsn,
		logger: slogx.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open creates the parent directory of path, opens the state file and applies
// migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	s, err := NewStore(dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	if err := s.ApplyMigrations(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to apply state migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	value, err := s.open(stored)
	if err != nil {
		s.logger.WarnContext(ctx, "state file: unreadable value, treating as absent", "key", key, "err", err)
		return "", false, nil
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	stored, err := s.seal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, stored, s.now().Unix(),
	)
	return err
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) seal(value string) (string, error) {
	if s.sealer == nil {
		return value, nil
	}
	sealed, err := s.sealer.Seal([]byte(value))
	if err != nil {
		return "", fmt.Errorf("failed to seal value: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Store) open(stored string) (string, error) {
	if s.sealer == nil {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", err
	}
	plain, err := s.sealer.Open(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
