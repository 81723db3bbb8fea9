package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Value is a typed handle on one key. It has a loaded lifecycle: nothing
// is written until Load has completed, so a default that is still being
// set up can never overwrite what is already stored.
type Value[T any] struct {
	b   Backend
	key string
	log *slog.Logger

	mu     sync.Mutex
	loaded bool
}

func NewValue[T any](b Backend, key string, log *slog.Logger) *Value[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Value[T]{b: b, key: key, log: log.With("key", key)}
}

func (v *Value[T]) Key() string { return v.key }

// Loaded reports whether Load has completed.
func (v *Value[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Load reads the stored value. When the key is absent or its contents
// cannot be decoded, def is written and returned instead. A nil def means
// the key stays absent. When the backend cannot be read at all, def is
// returned together with the error and nothing is written, so the stored
// value survives a transient outage. Load marks the value loaded in every
// case except that one.
func (v *Value[T]) Load(ctx context.Context, def *T) (*T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, ok, err := v.b.Get(ctx, v.key)
	if err != nil {
		v.log.Error("kvstore: read failed", "err", err)
		return def, fmt.Errorf("kvstore: load %q: %w", v.key, err)
	}
	v.loaded = true
	if !ok {
		v.write(ctx, def)
		return def, nil
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		v.log.Warn("kvstore: stored value unreadable, using default", "err", err)
		v.write(ctx, def)
		return def, nil
	}
	return out, nil
}

// Write serializes val and stores it, or removes the key when val is nil.
// Writes issued before Load completes are dropped. Failures are logged.
func (v *Value[T]) Write(ctx context.Context, val *T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		v.log.Debug("kvstore: write before load ignored")
		return
	}
	v.write(ctx, val)
}

func (v *Value[T]) write(ctx context.Context, val *T) {
	if val == nil {
		if err := v.b.Delete(ctx, v.key); err != nil {
			v.log.Error("kvstore: delete failed", "err", err)
		}
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		v.log.Error("kvstore: encode failed", "err", err)
		return
	}
	if err := v.b.Set(ctx, v.key, raw); err != nil {
		v.log.Error("kvstore: write failed", "err", err)
	}
}
