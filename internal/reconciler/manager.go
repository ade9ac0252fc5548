package reconciler

import (
	"context"
	"sync"

	"configmirror/pkg/logging"
)

const defaultWorkerCount = 2

// Manager pumps resource events into the work queue and runs the worker
// pool that applies them through the Reconciler.
type Manager struct {
	reconciler  *Reconciler
	queue       *workQueue
	workerCount int

	wg sync.WaitGroup
}

// NewManager creates a Manager with the given worker count. Zero or
// negative falls back to the default.
func NewManager(reconciler *Reconciler, workerCount int) *Manager {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &Manager{
		reconciler:  reconciler,
		queue:       newWorkQueue(),
		workerCount: workerCount,
	}
}

// Run consumes events until the context is cancelled or the channel closes,
// then drains the workers. It always returns nil: shutdown is not an error.
func (m *Manager) Run(ctx context.Context, events <-chan ResourceEvent) error {
	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}
	logging.Info("ReconcileManager", "Started with %d workers", m.workerCount)

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return nil

		case event, ok := <-events:
			if !ok {
				m.shutdown()
				return nil
			}
			m.queue.Add(event)
		}
	}
}

func (m *Manager) shutdown() {
	m.queue.Shutdown()
	m.wg.Wait()
	logging.Info("ReconcileManager", "Stopped")
}

// worker applies queued events. Errors are logged; there is no retry loop,
// convergence for a failed identity is restored by a later event or resync.
func (m *Manager) worker(ctx context.Context, id int) {
	defer m.wg.Done()

	logging.Debug("ReconcileManager", "Worker %d started", id)

	for {
		event, ok := m.queue.Get(ctx)
		if !ok {
			logging.Debug("ReconcileManager", "Worker %d shutting down", id)
			return
		}

		if err := m.reconciler.Apply(ctx, event); err != nil {
			logging.Error("ReconcileManager", err, "Reconciliation failed for %s %s/%s",
				event.Kind, event.Namespace, event.Name)
		}
		m.queue.Done(event)
	}
}
