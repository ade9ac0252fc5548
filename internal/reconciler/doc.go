// Package reconciler maps resource lifecycle events to idempotent file
// operations.
//
// # Overview
//
// The reconciler consumes ResourceEvents produced by the watch collaborator,
// gates them through the selector predicates, and dispatches in-scope events
// to the file store: create, update and resume events converge the on-disk
// files to the resource's data, delete events remove them.
//
// # Architecture
//
//   - ResourceEvent: the transient event type flowing through the system
//   - Reconciler: explicit dispatch table from event type to file operation
//   - workQueue: deduplicating queue keyed by identity, so the same identity
//     is never reconciled concurrently and re-queues coalesce to the newest
//     event, while distinct identities proceed in parallel
//   - Manager: pumps events into the queue and runs the worker pool
//
// Cancellation of an in-flight operation is benign: the file store's
// atomic-replace semantics guarantee no partial file is visible, and a later
// resync snapshot restores convergence.
package reconciler
