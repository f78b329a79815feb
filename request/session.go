package request

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Phase is the lifecycle state of a Session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Policy decides what Submit does while an operation is already pending.
type Policy int

const (
	// Supersede cancels the in-flight operation and starts the new one.
	Supersede Policy = iota
	// Ignore drops Submit calls while an operation is pending.
	Ignore
)

// Snapshot is an immutable view of session state. When Phase is PhaseDone
// exactly one of OK/Err is set; both are unset otherwise. Seq increases by
// one per transition, so observers can order snapshots.
type Snapshot[V any] struct {
	Phase Phase
	Value V
	OK    bool
	Err   error
	Seq   uint64
}

// Config carries optional session settings.
type Config[V any] struct {
	Policy   Policy
	Observer func(Snapshot[V]) // called after every transition, outside the session lock
	Logger   *slog.Logger
}

// Session drives submissions of one operation through the
// Idle -> Pending -> Done lifecycle. All methods are safe for concurrent
// use; a mutex serializes transitions.
type Session[I, V any] struct {
	mu       sync.Mutex
	id       string
	op       func(ctx context.Context, in I) (V, error)
	policy   Policy
	observer func(Snapshot[V])
	log      *slog.Logger

	phase  Phase
	value  V
	ok     bool
	err    error
	seq    uint64
	gen    uint64 // bumped whenever the active controller becomes stale
	handle *Handle
	closed bool
}

// New constructs an idle session around op.
func New[I, V any](op func(ctx context.Context, in I) (V, error), cfg Config[V]) *Session[I, V] {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session[I, V]{
		id:       uuid.NewString(),
		op:       op,
		policy:   cfg.Policy,
		observer: cfg.Observer,
		log:      log,
	}
}

// ID returns the session identifier, unique per construction.
func (s *Session[I, V]) ID() string { return s.id }

// Policy returns the submit-while-pending policy this session was built with.
func (s *Session[I, V]) Policy() Policy { return s.policy }

// Snapshot returns the current state.
func (s *Session[I, V]) Snapshot() Snapshot[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session[I, V]) snapshotLocked() Snapshot[V] {
	return Snapshot[V]{Phase: s.phase, Value: s.value, OK: s.ok, Err: s.err, Seq: s.seq}
}

// Submit starts the operation with the given input. While pending, behavior
// follows the session policy: Supersede cancels the in-flight operation
// first, Ignore drops the call and returns false. Submit never blocks on the
// operation and never returns an error; failures surface via state.
func (s *Session[I, V]) Submit(in I) bool {
	s.mu.Lock()
	if s.closed || s.op == nil {
		s.mu.Unlock()
		return false
	}
	if s.phase == PhasePending {
		if s.policy == Ignore {
			s.mu.Unlock()
			return false
		}
		s.handle.Cancel(ErrSuperseded)
	}
	s.startLocked(in)
	snap := s.snapshotLocked()
	obs := s.observer
	s.mu.Unlock()

	if obs != nil {
		obs(snap)
	}
	return true
}

// startLocked moves the session to Pending and launches a fresh controller.
// Outcomes from controllers of earlier generations are discarded.
func (s *Session[I, V]) startLocked(in I) {
	s.gen++
	gen := s.gen
	var zero V
	s.phase = PhasePending
	s.value = zero
	s.ok = false
	s.err = nil
	s.seq++

	op := s.op
	s.handle = Run(context.Background(), func(ctx context.Context) (V, error) {
		return op(ctx, in)
	}, func(out Outcome[V]) {
		s.settle(gen, out)
	})
}

func (s *Session[I, V]) settle(gen uint64, out Outcome[V]) {
	s.mu.Lock()
	if gen != s.gen || s.phase != PhasePending {
		s.mu.Unlock()
		s.log.Debug("discarding stale outcome", "session", s.id, "gen", gen)
		return
	}
	s.phase = PhaseDone
	if out.Err != nil {
		s.err = out.Err
		s.ok = false
	} else {
		s.value = out.Value
		s.ok = true
	}
	s.seq++
	snap := s.snapshotLocked()
	obs := s.observer
	s.mu.Unlock()

	if obs != nil {
		obs(snap)
	}
}

// Abort requests cancellation of the in-flight operation. The reason (or
// ErrAborted when nil) arrives in the eventual Done snapshot's Err. Outside
// Pending this is a no-op.
func (s *Session[I, V]) Abort(reason error) {
	s.mu.Lock()
	h := s.handle
	pending := s.phase == PhasePending
	s.mu.Unlock()
	if pending && h != nil {
		h.Cancel(reason)
	}
}

// SetOperation rebinds the session to a new operation. Any in-flight work is
// cancelled and the session resets to Idle with result and error cleared.
func (s *Session[I, V]) SetOperation(op func(ctx context.Context, in I) (V, error)) {
	s.mu.Lock()
	if s.handle != nil && s.phase == PhasePending {
		s.handle.Cancel(ErrAborted)
	}
	s.gen++
	s.op = op
	var zero V
	s.phase = PhaseIdle
	s.value = zero
	s.ok = false
	s.err = nil
	s.seq++
	snap := s.snapshotLocked()
	obs := s.observer
	s.mu.Unlock()

	if obs != nil {
		obs(snap)
	}
}

// Close tears the session down, cancelling any in-flight operation. Further
// Submit calls are dropped. Close is idempotent.
func (s *Session[I, V]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	h := s.handle
	s.mu.Unlock()
	if h != nil {
		h.Cancel(ErrAborted)
	}
}
