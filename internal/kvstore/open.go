package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Oloap008/Trello-Clone/internal/database"
)

// Config selects and configures a backend.
type Config struct {
	Backend string // memory | file | redis | mysql | postgres | sqlite3
	Dir     string // file backend directory
	DSN     string // SQL data source name
	Prefix  string // redis key prefix
}

// ErrNoRedis is returned when the redis backend is selected but no client
// could be created.
var ErrNoRedis = errors.New("kvstore: redis backend selected but redis is unavailable")

// Open builds the backend named by cfg.Backend. rdb is only used by the
// redis backend and may be nil otherwise.
func Open(ctx context.Context, cfg Config, rdb *redis.Client) (Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		dir := cfg.Dir
		if dir == "" {
			dir = "data"
		}
		return NewFile(dir)
	case "redis":
		if rdb == nil {
			return nil, ErrNoRedis
		}
		return NewRedis(rdb, cfg.Prefix), nil
	}

	d, ok := DialectByName(cfg.Backend)
	if !ok {
		return nil, fmt.Errorf("kvstore: unknown backend %q", cfg.Backend)
	}
	db, err := database.Open(ctx, d.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s: %w", d.Name, err)
	}
	s := NewSQL(db, d)
	s.owns = true
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
