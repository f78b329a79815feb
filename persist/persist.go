// Package persist mirrors a typed value into a key-value backend.
//
// A State session loads its value once at construction and writes through on
// every Set. Unreadable stored data is never surfaced to the caller: it is
// logged and the initial value is used instead. Backends are passed
// explicitly at construction; there is no package-level default store.
package persist

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/BurntSushi/toml"
)

// Store is the key-value persistence boundary. Implementations serialize
// values as strings; absence is reported via the bool, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Codec converts between typed values and their stored representation.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// JSON encodes state as JSON. Works for any value json can handle.
var JSON Codec = jsonCodec{}

type tomlCodec struct{}

func (tomlCodec) Marshal(v any) ([]byte, error)      { return toml.Marshal(v) }
func (tomlCodec) Unmarshal(data []byte, v any) error { return toml.Unmarshal(data, v) }

// TOML encodes state as TOML. Only struct and map values are representable
// at the top level.
var TOML Codec = tomlCodec{}

// StateConfig carries optional State settings. Codec defaults to JSON and
// Logger to a no-op logger.
type StateConfig struct {
	Codec  Codec
	Logger *slog.Logger
}

// State keeps one typed value synchronized with a Store entry.
type State[T any] struct {
	mu      sync.Mutex
	store   Store
	codec   Codec
	key     string
	initial T
	current T
	log     *slog.Logger
}

// NewState loads the value stored under key, falling back to initial when
// the key is absent or the stored data cannot be read or decoded. Fallback
// is logged, never returned.
func NewState[T any](ctx context.Context, store Store, key string, initial T, cfg StateConfig) *State[T] {
	codec := cfg.Codec
	if codec == nil {
		codec = JSON
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &State[T]{store: store, codec: codec, key: key, initial: initial, current: initial, log: log}

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		log.Warn("persisted state unreadable, using initial value", "key", key, "err", err)
		return s
	}
	if !ok {
		return s
	}
	var v T
	if err := codec.Unmarshal([]byte(raw), &v); err != nil {
		log.Warn("persisted state undecodable, using initial value", "key", key, "err", err)
		return s
	}
	s.current = v
	return s
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set updates the current value and writes it through to the store. The
// in-memory value is updated even when the write fails.
func (s *State[T]) Set(ctx context.Context, v T) error {
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()

	data, err := s.codec.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.key, string(data))
}

// Reset deletes the stored entry and restores the initial value.
func (s *State[T]) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.current = s.initial
	s.mu.Unlock()
	return s.store.Delete(ctx, s.key)
}
