// Package request runs cancellable asynchronous operations through an
// Idle -> Pending -> Done lifecycle.
//
// Run wraps a single operation with a cancellation token and delivers
// exactly one terminal outcome: success, failure, or abort. Session layers a
// state machine on top: Submit starts work, Abort cancels it cooperatively,
// and observers are notified on every transition. Submit-while-pending
// behavior is an explicit per-session Policy (Supersede or Ignore), never
// inferred.
//
// Failures and aborts are never raised from Submit or Abort; callers observe
// them through snapshots.
package request
