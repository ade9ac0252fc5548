package reconciler

import (
	"context"
	"errors"
	"fmt"

	"configmirror/internal/selector"
	"configmirror/pkg/logging"
)

// handlerFunc processes a single in-scope event.
type handlerFunc func(ctx context.Context, event ResourceEvent) error

// Reconciler decides, for every incoming event, whether the resource is in
// scope and which file operation restores consistency. It holds no state
// beyond the filesystem itself.
type Reconciler struct {
	selection selector.Config
	store     FileStore
	sink      EventSink

	// handlers is the explicit dispatch table from event type to file
	// operation, built once at construction.
	handlers map[EventType]handlerFunc
}

// New creates a Reconciler. sink may be nil when cluster event logging is
// disabled.
func New(selection selector.Config, store FileStore, sink EventSink) *Reconciler {
	r := &Reconciler{
		selection: selection,
		store:     store,
		sink:      sink,
	}
	r.handlers = map[EventType]handlerFunc{
		EventCreate: r.handleWrite,
		EventUpdate: r.handleWrite,
		EventResume: r.handleWrite,
		EventDelete: r.handleDelete,
	}
	return r
}

// Apply processes a single event. Out-of-scope events are no-ops. A
// cancelled in-flight operation is logged and not surfaced as an error;
// convergence is restored by a later resync. Filesystem errors propagate.
func (r *Reconciler) Apply(ctx context.Context, event ResourceEvent) error {
	if !r.selection.InScope(event.Kind, event.Labels) {
		logging.Debug("Reconciler", "Skipping out-of-scope %s event for %s %s/%s",
			event.Type, event.Kind, event.Namespace, event.Name)
		return nil
	}

	handler, ok := r.handlers[event.Type]
	if !ok {
		logging.Warn("Reconciler", "No handler for event type %q, ignoring %s %s/%s",
			event.Type, event.Kind, event.Namespace, event.Name)
		return nil
	}

	if err := handler(ctx, event); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Info("Reconciler", "Operation cancelled for %s %s/%s",
				event.Kind, event.Namespace, event.Name)
			return nil
		}
		return fmt.Errorf("failed to reconcile %s %s/%s: %w",
			event.Kind, event.Namespace, event.Name, err)
	}

	return nil
}

// ApplySnapshot converges every identity listed in a resync snapshot.
// Failures for individual identities are logged and do not block the rest of
// the snapshot; a cancelled context stops processing.
func (r *Reconciler) ApplySnapshot(ctx context.Context, events []ResourceEvent) error {
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			logging.Info("Reconciler", "Resync processing cancelled after partial convergence")
			return nil
		}
		if err := r.Apply(ctx, event); err != nil {
			logging.Error("Reconciler", err, "Resync failed for %s %s/%s",
				event.Kind, event.Namespace, event.Name)
		}
	}
	return nil
}

func (r *Reconciler) handleWrite(ctx context.Context, event ResourceEvent) error {
	if err := r.store.Write(ctx, event.Kind, event.Identity(), event.Data); err != nil {
		return err
	}

	logging.Debug("Reconciler", "Wrote %d files for %s %s/%s (%s)",
		len(event.Data), event.Kind, event.Namespace, event.Name, event.Type)

	if r.sink != nil {
		r.sink.RecordSynced(ctx, event.Kind, event.Identity())
	}
	return nil
}

func (r *Reconciler) handleDelete(ctx context.Context, event ResourceEvent) error {
	if err := r.store.Remove(ctx, event.Kind, event.Identity(), event.DataKeys()); err != nil {
		return err
	}

	logging.Debug("Reconciler", "Removed files for %s %s/%s",
		event.Kind, event.Namespace, event.Name)

	if r.sink != nil {
		r.sink.RecordRemoved(ctx, event.Kind, event.Identity())
	}
	return nil
}
