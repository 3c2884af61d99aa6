// Package queuecore implements the in-memory priority task queue: the
// Task and Result records, the per-queue pending collection and result
// map, and the process-wide queue registry.
package queuecore

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Status is a Task's lifecycle state. Transitions are advisory — the
// core never enforces a DAG over them.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Task is a unit of work: a fresh identifier, an opaque payload, a
// priority (lower is more urgent) and a mutable status. Equality is by
// identifier only; ordering (used by Queue's pending collection) is a
// separate concern keyed on Priority — the two are deliberately
// inconsistent, so a Task can be located by identity regardless of
// where a priority comparator would place it.
type Task struct {
	id       uuid.UUID
	params   string
	priority int64
	status   atomic.String
}

// New creates a Task with a fresh identifier and status PENDING.
func New(params string, priority int64) *Task {
	t := &Task{
		id:       uuid.New(),
		params:   params,
		priority: priority,
	}
	t.status.Store(string(StatusPending))
	return t
}

// Restore creates a Task carrying a caller-supplied identifier and
// status, for use by the snapshot load path.
func Restore(id uuid.UUID, params string, priority int64, status Status) *Task {
	t := &Task{
		id:       id,
		params:   params,
		priority: priority,
	}
	t.status.Store(string(status))
	return t
}

// ID returns the task's unique identifier.
func (t *Task) ID() uuid.UUID { return t.id }

// Params returns the task's opaque payload, possibly empty.
func (t *Task) Params() string { return t.params }

// Priority returns the task's priority; lower values are more urgent.
func (t *Task) Priority() int64 { return t.priority }

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status { return Status(t.status.Load()) }

// SetStatus atomically updates the task's lifecycle state. Any
// transition from any state is permitted.
func (t *Task) SetStatus(s Status) { t.status.Store(string(s)) }

// Equal reports whether two tasks share an identifier. Two Tasks with
// identical priorities are never equal unless their identifiers match.
func (t *Task) Equal(other *Task) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.id == other.id
}

// Compare orders two tasks by priority ascending: sign(a.priority -
// b.priority). It is not consistent with Equal and must not be used to
// deduplicate tasks.
func Compare(a, b *Task) int {
	switch {
	case a.priority < b.priority:
		return -1
	case a.priority > b.priority:
		return 1
	default:
		return 0
	}
}
