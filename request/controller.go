package request

import (
	"context"
	"errors"
)

// ErrAborted is the terminal error reported when an in-flight operation is
// cancelled without an explicit reason.
var ErrAborted = errors.New("request: aborted")

// ErrSuperseded is the cancellation reason used when a later Submit replaces
// an in-flight operation under the Supersede policy.
var ErrSuperseded = errors.New("request: superseded")

// Operation is a unit of asynchronous work. It must observe ctx and return
// promptly once cancellation is requested.
type Operation[V any] func(ctx context.Context) (V, error)

// Outcome is the single terminal result of a Run call. Exactly one of
// Value/Err is meaningful: Err is nil on success. Aborted is true when the
// outcome was produced by cancellation rather than by the operation itself.
type Outcome[V any] struct {
	Value   V
	Err     error
	Aborted bool
}

// Handle controls one in-flight operation started by Run.
type Handle struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// Cancel requests cancellation with the given reason. A nil reason reports
// ErrAborted. Calling Cancel repeatedly, or after the outcome has been
// delivered, has no effect.
func (h *Handle) Cancel(reason error) {
	if reason == nil {
		reason = ErrAborted
	}
	h.cancel(reason)
}

// Done is closed once the terminal outcome has been delivered.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Run starts op on its own goroutine and delivers exactly one Outcome to
// deliver. Cancellation wins over natural completion when it is observed
// first; an operation that has already resolved wins over a late Cancel.
func Run[V any](ctx context.Context, op Operation[V], deliver func(Outcome[V])) *Handle {
	ctx, cancel := context.WithCancelCause(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	type result struct {
		value V
		err   error
	}
	resolved := make(chan result, 1)

	go func() {
		v, err := op(ctx)
		resolved <- result{value: v, err: err}
	}()

	go func() {
		defer close(h.done)
		defer cancel(nil)

		// An already-resolved operation beats a simultaneous cancellation.
		select {
		case r := <-resolved:
			deliver(settle(r.value, r.err))
			return
		default:
		}
		select {
		case r := <-resolved:
			deliver(settle(r.value, r.err))
		case <-ctx.Done():
			deliver(Outcome[V]{Err: abortReason(ctx), Aborted: true})
		}
	}()
	return h
}

func settle[V any](v V, err error) Outcome[V] {
	if err != nil {
		return Outcome[V]{Err: err}
	}
	return Outcome[V]{Value: v}
}

// abortReason maps a cancelled context to the error carried by the abort
// outcome. Plain context.Canceled (no explicit cause) becomes ErrAborted.
func abortReason(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil || errors.Is(cause, context.Canceled) {
		return ErrAborted
	}
	return cause
}
