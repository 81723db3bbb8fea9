package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect holds the statements one SQL engine needs for the kv_store
// table. Placeholders and upsert syntax differ between engines.
type Dialect struct {
	Name   string // configuration name
	Driver string // database/sql driver name
	Create string
	Select string
	Upsert string
	Remove string
}

var (
	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		Create: `CREATE TABLE IF NOT EXISTS kv_store (
  k VARCHAR(191) NOT NULL PRIMARY KEY,
  v LONGBLOB NOT NULL,
  updated_at DATETIME NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Select: "SELECT v FROM kv_store WHERE k = ?",
		Upsert: "INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)",
		Remove: "DELETE FROM kv_store WHERE k = ?",
	}
	Postgres = Dialect{
		Name:   "postgres",
		Driver: "pgx",
		Create: `CREATE TABLE IF NOT EXISTS kv_store (
  k TEXT PRIMARY KEY,
  v BYTEA NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
		Select: "SELECT v FROM kv_store WHERE k = $1",
		Upsert: "INSERT INTO kv_store (k, v, updated_at) VALUES ($1, $2, $3) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at",
		Remove: "DELETE FROM kv_store WHERE k = $1",
	}
	SQLite = Dialect{
		Name:   "sqlite3",
		Driver: "sqlite3",
		Create: `CREATE TABLE IF NOT EXISTS kv_store (
  k TEXT PRIMARY KEY,
  v BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL
)`,
		Select: "SELECT v FROM kv_store WHERE k = ?",
		Upsert: "INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at",
		Remove: "DELETE FROM kv_store WHERE k = ?",
	}
)

// DialectByName maps a configuration name to its dialect.
func DialectByName(name string) (Dialect, bool) {
	for _, d := range []Dialect{MySQL, Postgres, SQLite} {
		if d.Name == name {
			return d, true
		}
	}
	return Dialect{}, false
}

// SQL keeps values in a single two-column table.
type SQL struct {
	db   *sql.DB
	d    Dialect
	owns bool
	now  func() time.Time
}

// NewSQL wraps an open database. The caller keeps ownership of db.
func NewSQL(db *sql.DB, d Dialect) *SQL {
	return &SQL{db: db, d: d, now: time.Now}
}

// Migrate creates the kv_store table when missing.
func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.d.Create); err != nil {
		return fmt.Errorf("kvstore: migrate %s: %w", s.d.Name, err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, s.d.Select, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.d.Upsert, key, value, s.now().UTC())
	return err
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.d.Remove, key)
	return err
}

func (s *SQL) Close() error {
	if s.owns {
		return s.db.Close()
	}
	return nil
}
