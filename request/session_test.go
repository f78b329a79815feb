package request

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func greet(ctx context.Context, name string) (string, error) {
	select {
	case <-time.After(10 * time.Millisecond):
		return "Hello, " + name, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// recorder collects snapshots and signals each Done transition.
type recorder[V any] struct {
	mu    sync.Mutex
	snaps []Snapshot[V]
	done  chan Snapshot[V]
}

func newRecorder[V any]() *recorder[V] {
	return &recorder[V]{done: make(chan Snapshot[V], 8)}
}

func (r *recorder[V]) observe(s Snapshot[V]) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
	if s.Phase == PhaseDone {
		r.done <- s
	}
}

func (r *recorder[V]) waitDone(t *testing.T) Snapshot[V] {
	t.Helper()
	select {
	case s := <-r.done:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("session never reached done")
		panic("unreachable")
	}
}

func (r *recorder[V]) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Phase, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Phase
	}
	return out
}

func TestSessionInitialState(t *testing.T) {
	t.Parallel()
	s := New(greet, Config[string]{})
	defer s.Close()

	snap := s.Snapshot()
	if snap.Phase != PhaseIdle || snap.OK || snap.Err != nil {
		t.Fatalf("fresh session not idle/empty: %+v", snap)
	}
	if s.ID() == "" {
		t.Fatalf("session must carry an id")
	}
}

func TestSessionSubmitLifecycle(t *testing.T) {
	t.Parallel()
	rec := newRecorder[string]()
	s := New(greet, Config[string]{Observer: rec.observe})
	defer s.Close()

	if !s.Submit("Alice") {
		t.Fatalf("submit while idle must be accepted")
	}
	if got := s.Snapshot().Phase; got != PhasePending {
		t.Fatalf("phase after submit = %v, want pending", got)
	}

	done := rec.waitDone(t)
	if !done.OK || done.Err != nil {
		t.Fatalf("want success, got %+v", done)
	}
	if done.Value != "Hello, Alice" {
		t.Fatalf("value = %q", done.Value)
	}

	want := []Phase{PhasePending, PhaseDone}
	got := rec.phases()
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transition %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSessionOperationFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("backend down")
	rec := newRecorder[string]()
	s := New(func(ctx context.Context, in string) (string, error) {
		return "", boom
	}, Config[string]{Observer: rec.observe})
	defer s.Close()

	s.Submit("x")
	done := rec.waitDone(t)
	if done.OK || !errors.Is(done.Err, boom) {
		t.Fatalf("want failure with boom, got %+v", done)
	}
}

func TestSessionAbortWhilePending(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	rec := newRecorder[string]()
	s := New(func(ctx context.Context, in string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	}, Config[string]{Observer: rec.observe})
	defer s.Close()

	s.Submit("x")
	<-started
	reason := errors.New("changed my mind")
	s.Abort(reason)

	done := rec.waitDone(t)
	if done.OK || !errors.Is(done.Err, reason) {
		t.Fatalf("want abort with reason, got %+v", done)
	}
}

func TestSessionAbortAfterDoneIsNoop(t *testing.T) {
	t.Parallel()
	rec := newRecorder[string]()
	s := New(greet, Config[string]{Observer: rec.observe})
	defer s.Close()

	s.Submit("Bob")
	before := rec.waitDone(t)
	s.Abort(errors.New("too late"))

	after := s.Snapshot()
	if after.Seq != before.Seq || after.Err != nil || after.Value != before.Value {
		t.Fatalf("abort after done changed state: before %+v after %+v", before, after)
	}
}

func TestSessionAbortWhileIdleIsNoop(t *testing.T) {
	t.Parallel()
	s := New(greet, Config[string]{})
	defer s.Close()
	s.Abort(nil)
	if snap := s.Snapshot(); snap.Phase != PhaseIdle || snap.Seq != 0 {
		t.Fatalf("abort while idle changed state: %+v", snap)
	}
}

func TestSessionIgnorePolicy(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	release := make(chan struct{})
	rec := newRecorder[string]()
	s := New(func(ctx context.Context, in string) (string, error) {
		close(started)
		select {
		case <-release:
			return in, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, Config[string]{Policy: Ignore, Observer: rec.observe})
	defer s.Close()

	if !s.Submit("first") {
		t.Fatalf("first submit rejected")
	}
	<-started
	if s.Submit("second") {
		t.Fatalf("submit while pending must be ignored")
	}
	close(release)

	done := rec.waitDone(t)
	if done.Value != "first" {
		t.Fatalf("value = %q, want the first submission's result", done.Value)
	}
}

func TestSessionSupersedePolicy(t *testing.T) {
	t.Parallel()
	firstStarted := make(chan struct{})
	firstCancelled := make(chan struct{})
	rec := newRecorder[string]()
	var once sync.Once
	s := New(func(ctx context.Context, in string) (string, error) {
		if in == "slow" {
			once.Do(func() { close(firstStarted) })
			<-ctx.Done()
			close(firstCancelled)
			return "", ctx.Err()
		}
		return "fast result", nil
	}, Config[string]{Policy: Supersede, Observer: rec.observe})
	defer s.Close()

	s.Submit("slow")
	<-firstStarted
	s.Submit("fast")

	done := rec.waitDone(t)
	if !done.OK || done.Value != "fast result" {
		t.Fatalf("superseding submit must win: %+v", done)
	}
	select {
	case <-firstCancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("superseded operation was not cancelled")
	}
	select {
	case extra := <-rec.done:
		t.Fatalf("stale controller settled the session: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionSetOperationResets(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	cancelled := make(chan struct{})
	s := New(func(ctx context.Context, in string) (string, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	}, Config[string]{})

	s.Submit("x")
	<-started
	s.SetOperation(greet)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("rebinding must cancel in-flight work")
	}
	snap := s.Snapshot()
	if snap.Phase != PhaseIdle || snap.OK || snap.Err != nil {
		t.Fatalf("rebinding must reset to idle: %+v", snap)
	}

	// The rebound operation serves the next submit.
	rec := make(chan struct{})
	go func() {
		for s.Snapshot().Phase != PhaseDone {
			time.Sleep(time.Millisecond)
		}
		close(rec)
	}()
	s.Submit("Carol")
	select {
	case <-rec:
	case <-time.After(2 * time.Second):
		t.Fatalf("rebound operation never completed")
	}
	if got := s.Snapshot().Value; got != "Hello, Carol" {
		t.Fatalf("value = %q", got)
	}
	s.Close()
}

func TestSessionCloseDropsSubmit(t *testing.T) {
	t.Parallel()
	s := New(greet, Config[string]{})
	s.Close()
	s.Close() // idempotent
	if s.Submit("x") {
		t.Fatalf("submit after close must be dropped")
	}
}

func TestSessionResubmitAfterDone(t *testing.T) {
	t.Parallel()
	rec := newRecorder[string]()
	s := New(greet, Config[string]{Observer: rec.observe})
	defer s.Close()

	s.Submit("Dan")
	rec.waitDone(t)
	s.Submit("Erin")

	pending := s.Snapshot()
	if pending.Err != nil || pending.OK {
		t.Fatalf("resubmit must clear result and error: %+v", pending)
	}
	done := rec.waitDone(t)
	if done.Value != "Hello, Erin" {
		t.Fatalf("value = %q", done.Value)
	}
}
