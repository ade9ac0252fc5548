package reconciler

import (
	"context"
	"sync"
)

// eventKey generates a unique key for an event's identity.
// Identities are unique within a kind, so the kind is part of the key.
func eventKey(event ResourceEvent) string {
	return string(event.Kind) + "/" + event.Namespace + "/" + event.Name
}

// workQueue is a deduplicating work queue keyed by identity.
//
// An identity appears at most once in the queue; re-adding replaces the
// queued event with the newer one (level-triggered coalescing). An identity
// currently being processed is marked dirty instead and re-queued when its
// processing finishes, so the same identity is never reconciled by two
// workers concurrently and events for one identity apply in delivery order.
type workQueue struct {
	mu sync.Mutex

	// queue holds events in FIFO order
	queue []ResourceEvent

	// processing tracks identities currently being processed
	processing map[string]bool

	// dirty holds the newest event for identities that changed while
	// being processed
	dirty map[string]ResourceEvent

	// cond is used for blocking Get operations
	cond *sync.Cond

	// shuttingDown indicates the queue is stopping
	shuttingDown bool
}

// newWorkQueue creates an empty queue.
func newWorkQueue() *workQueue {
	q := &workQueue{
		queue:      make([]ResourceEvent, 0),
		processing: make(map[string]bool),
		dirty:      make(map[string]ResourceEvent),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add adds or updates an event in the queue.
func (q *workQueue) Add(event ResourceEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shuttingDown {
		return
	}

	key := eventKey(event)

	// If already being processed, keep the newest event for reprocessing
	if q.processing[key] {
		q.dirty[key] = event
		return
	}

	// Replace an already-queued event for the same identity
	for i, existing := range q.queue {
		if eventKey(existing) == key {
			q.queue[i] = event
			return
		}
	}

	q.queue = append(q.queue, event)
	q.cond.Signal()
}

// Get retrieves the next event, blocking if necessary. The boolean result
// is false when the context is cancelled or the queue has shut down empty.
func (q *workQueue) Get(ctx context.Context) (ResourceEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.queue) == 0 && !q.shuttingDown {
		select {
		case <-ctx.Done():
			return ResourceEvent{}, false
		default:
		}

		// A helper goroutine races context cancellation against a normal
		// wakeup from Add/Shutdown. Closing done ensures it exits either
		// way.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.cond.Broadcast()
				q.mu.Unlock()
			case <-done:
			}
		}()

		q.cond.Wait()
		close(done)

		select {
		case <-ctx.Done():
			return ResourceEvent{}, false
		default:
		}
	}

	if q.shuttingDown && len(q.queue) == 0 {
		return ResourceEvent{}, false
	}

	event := q.queue[0]
	q.queue = q.queue[1:]

	q.processing[eventKey(event)] = true
	return event, true
}

// Done marks an event's identity as no longer processing, re-queueing the
// newest event if the identity went dirty in the meantime.
func (q *workQueue) Done(event ResourceEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := eventKey(event)
	delete(q.processing, key)

	if dirtyEvent, ok := q.dirty[key]; ok {
		delete(q.dirty, key)
		q.queue = append(q.queue, dirtyEvent)
		q.cond.Signal()
	}
}

// Len returns the queue length.
func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Shutdown stops the queue.
func (q *workQueue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuttingDown = true
	q.cond.Broadcast()
}
