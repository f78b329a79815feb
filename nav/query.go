package nav

import (
	"io"
	"log/slog"
)

// QueryState mirrors one typed value into a single query parameter.
// Decode failures follow the same recovery policy as persisted state:
// logged, swallowed, initial value used.
type QueryState[T any] struct {
	backend Backend
	param   string
	initial T
	decode  func(string) (T, error)
	encode  func(T) string
	log     *slog.Logger
}

// QueryStateConfig carries the codec pair for a query parameter.
type QueryStateConfig[T any] struct {
	Decode func(string) (T, error)
	Encode func(T) string
	Logger *slog.Logger
}

// NewQueryState binds param on backend to a typed value.
func NewQueryState[T any](backend Backend, param string, initial T, cfg QueryStateConfig[T]) *QueryState[T] {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &QueryState[T]{
		backend: backend,
		param:   param,
		initial: initial,
		decode:  cfg.Decode,
		encode:  cfg.Encode,
		log:     log,
	}
}

// Get reads the parameter from the current location. Absent or undecodable
// values yield the initial value.
func (q *QueryState[T]) Get() T {
	loc := q.backend.Location()
	if !loc.Query.Has(q.param) {
		return q.initial
	}
	v, err := q.decode(loc.Query.Get(q.param))
	if err != nil {
		q.log.Warn("query param undecodable, using initial value", "param", q.param, "err", err)
		return q.initial
	}
	return v
}

// Set writes the encoded value into the current location's query, replacing
// the current history entry.
func (q *QueryState[T]) Set(v T) error {
	loc := q.backend.Location()
	loc.Query.Set(q.param, q.encode(v))
	return q.backend.Replace(loc)
}

// Unset removes the parameter from the current location.
func (q *QueryState[T]) Unset() error {
	loc := q.backend.Location()
	loc.Query.Del(q.param)
	return q.backend.Replace(loc)
}
