// Package kvstore provides the key-value storage adapter that the content
// repository persists into. Three backends share one interface: an in-memory
// map (tests and ephemeral runs), a bbolt file, and a table in the application
// SQLite database.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a flat key-value store with prefix listing.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Pinger is implemented by stores that can verify their backing storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GetJSON loads key and decodes it into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// Probe checks that the store accepts writes by setting and deleting a scratch key.
func Probe(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
	}
	const probeKey = "__probe__"
	if err := s.Set(ctx, probeKey, []byte("ok")); err != nil {
		return fmt.Errorf("probe write: %w", err)
	}
	if err := s.Delete(ctx, probeKey); err != nil {
		return fmt.Errorf("probe delete: %w", err)
	}
	return nil
}

// prefixEnd returns the smallest string greater than every string with the
// given prefix. ok is false when no such bound exists (empty or all 0xff).
func prefixEnd(prefix string) (end string, ok bool) {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1]), true
		}
	}
	return "", false
}
