package reconciler

import (
	"context"

	"k8s.io/apimachinery/pkg/types"

	"configmirror/internal/selector"
)

// EventType describes what happened to a watched resource.
type EventType string

const (
	// EventCreate indicates a new resource was created.
	EventCreate EventType = "create"

	// EventUpdate indicates an existing resource was modified.
	EventUpdate EventType = "update"

	// EventDelete indicates a resource was deleted.
	EventDelete EventType = "delete"

	// EventResume indicates the resource was re-listed after a watch
	// (re)connection. Treated as an update: content is converged.
	EventResume EventType = "resume"
)

// ResourceEvent is a single resource lifecycle event. Events are transient:
// produced by the watcher, consumed synchronously by the reconciler, never
// persisted.
type ResourceEvent struct {
	// Kind is the watched resource kind the event belongs to.
	Kind selector.ResourceKind

	// Namespace and Name identify the resource within its kind.
	Namespace string
	Name      string

	// Type describes the lifecycle transition.
	Type EventType

	// Labels is the resource's label map. May be nil; the selector treats
	// missing labels as not satisfied.
	Labels map[string]string

	// Data holds the resource's payload entries, one file per entry.
	Data map[string][]byte
}

// Identity returns the namespace/name pair identifying the resource.
func (e ResourceEvent) Identity() types.NamespacedName {
	return types.NamespacedName{Namespace: e.Namespace, Name: e.Name}
}

// DataKeys returns the entry keys carried by the event. Used as removal
// hints on delete, where the file mapping may be empty after a restart.
func (e ResourceEvent) DataKeys() []string {
	keys := make([]string, 0, len(e.Data))
	for key := range e.Data {
		keys = append(keys, key)
	}
	return keys
}

// FileStore is the contract the reconciler requires from the file layer.
// Both operations must be idempotent and must keep atomic-replace semantics
// under cancellation.
type FileStore interface {
	// Write materializes one file per data entry for the identity.
	Write(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName, data map[string][]byte) error

	// Remove deletes every file mapped to the identity. Absent files are
	// success, not failure.
	Remove(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName, keyHints []string) error
}

// EventSink receives notifications about completed file operations, used to
// emit cluster-visible lifecycle events when event logging is enabled.
type EventSink interface {
	RecordSynced(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName)
	RecordRemoved(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName)
}
