package queuecore

import (
	"container/heap"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// pendingItem is one entry in the pending-task heap. seq breaks ties
// among equal priorities in FIFO-ish but explicitly unspecified order —
// callers must not rely on it.
type pendingItem struct {
	task *Task
	seq  uint64
}

// pendingHeap is a container/heap min-heap ordered by priority, with seq
// as an unspecified-per-contract tiebreaker.
type pendingHeap []*pendingItem

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].task.priority != h[j].task.priority {
		return h[i].task.priority < h[j].task.priority
	}
	return h[i].seq < h[j].seq
}
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x any)   { *h = append(*h, x.(*pendingItem)) }
func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue is a named container of pending Tasks and completed Results.
// The pending collection is a container/heap priority queue guarded by
// pendingMu; the results map is guarded by a separate mutex so that
// snapshot reads of results never block a concurrent enqueue/dequeue.
type Queue struct {
	id   uuid.UUID
	name string

	pendingMu sync.Mutex
	pending   pendingHeap
	seq       atomic.Uint64

	resultsMu sync.Mutex
	results   map[uuid.UUID]*Result

	enqueued atomic.Int64
	dequeued atomic.Int64
}

// newQueue constructs an empty Queue with the given identifier and name.
func newQueue(id uuid.UUID, name string) *Queue {
	return &Queue{
		id:      id,
		name:    name,
		results: make(map[uuid.UUID]*Result),
	}
}

// ID returns the queue's unique identifier.
func (q *Queue) ID() uuid.UUID { return q.id }

// Name returns the queue's display name.
func (q *Queue) Name() string { return q.name }

// Enqueue inserts task into the pending collection. Returns false
// without mutating state if task is nil. Does not alter task.status.
// Enqueue of a task whose identifier already appears in the pending
// collection is permitted — the collection holds duplicates by identity.
func (q *Queue) Enqueue(task *Task) bool {
	if task == nil {
		return false
	}
	q.pendingMu.Lock()
	heap.Push(&q.pending, &pendingItem{task: task, seq: q.seq.Inc()})
	q.pendingMu.Unlock()
	q.enqueued.Inc()
	return true
}

// Dequeue atomically removes and returns the task with the lowest
// priority, or nil if the collection is empty. Two concurrent callers
// never observe the same Task.
func (q *Queue) Dequeue() *Task {
	q.pendingMu.Lock()
	if q.pending.Len() == 0 {
		q.pendingMu.Unlock()
		return nil
	}
	item := heap.Pop(&q.pending).(*pendingItem)
	q.pendingMu.Unlock()
	q.dequeued.Inc()
	return item.task
}

// AddResult stores result keyed by its TaskID, overwriting any prior
// entry for that key. Returns false without mutating state if result is
// nil. A result for a taskID with no corresponding pending Task is
// explicitly permitted.
func (q *Queue) AddResult(result *Result) bool {
	if result == nil || result.TaskID == uuid.Nil {
		return false
	}
	q.resultsMu.Lock()
	q.results[result.TaskID] = result
	q.resultsMu.Unlock()
	return true
}

// GetResult returns the stored result for taskID, or nil if none exists.
func (q *Queue) GetResult(taskID uuid.UUID) *Result {
	q.resultsMu.Lock()
	defer q.resultsMu.Unlock()
	return q.results[taskID]
}

// TaskCount returns the number of pending tasks.
func (q *Queue) TaskCount() int {
	q.pendingMu.Lock()
	defer q.pendingMu.Unlock()
	return q.pending.Len()
}

// ResultCount returns the number of stored results.
func (q *Queue) ResultCount() int {
	q.resultsMu.Lock()
	defer q.resultsMu.Unlock()
	return len(q.results)
}

// HasPending reports whether any task is pending.
func (q *Queue) HasPending() bool {
	return q.TaskCount() > 0
}

// EnqueueCount returns the lifetime number of successful enqueues.
func (q *Queue) EnqueueCount() int64 { return q.enqueued.Load() }

// DequeueCount returns the lifetime number of successful dequeues.
func (q *Queue) DequeueCount() int64 { return q.dequeued.Load() }

// SnapshotTasks returns a point-in-time copy of the pending tasks, in no
// particular order. Used by the snapshot engine; does not tear under
// concurrent enqueue/dequeue.
func (q *Queue) SnapshotTasks() []*Task {
	q.pendingMu.Lock()
	defer q.pendingMu.Unlock()
	out := make([]*Task, len(q.pending))
	for i, item := range q.pending {
		out[i] = item.task
	}
	return out
}

// SnapshotResults returns a point-in-time copy of the stored results, in
// no particular order.
func (q *Queue) SnapshotResults() []*Result {
	q.resultsMu.Lock()
	defer q.resultsMu.Unlock()
	out := make([]*Result, 0, len(q.results))
	for _, r := range q.results {
		out = append(out, r)
	}
	return out
}
