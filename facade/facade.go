// Package facade wraps the queue registry with input validation and
// error translation, forming the stable boundary the HTTP adapter maps
// to status codes.
package facade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/skyscape-labs/queueservice/queuecore"
)

// Sentinel error kinds. The HTTP boundary checks these with errors.Is;
// wrapping with pkg/errors preserves a human-readable cause while
// keeping the kind matchable.
var (
	// ErrInvalidArgument: a required field is absent, whitespace-only
	// where disallowed, or structurally malformed.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound: the referenced queue or result does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPreconditionFailed: the request is well-formed but violates an
	// operation precondition (e.g. a result with no task id).
	ErrPreconditionFailed = errors.New("precondition failed")
)

// QueueStatus is the aggregate view of a Queue returned by Status.
type QueueStatus struct {
	ID                    uuid.UUID
	Name                  string
	PendingTaskCount      int
	CompletedResultCount  int
	HasPendingTasks       bool
}

// QueueSummary is the enumeration view of a Queue returned by List.
type QueueSummary struct {
	ID            uuid.UUID
	Name          string
	TaskCount     int
	ResultCount   int
}

// Facade validates inputs, resolves queue-ids against a Registry, and
// translates absence/argument errors into the taxonomy above.
type Facade struct {
	registry *queuecore.Registry
}

// New wraps registry in a Facade.
func New(registry *queuecore.Registry) *Facade {
	return &Facade{registry: registry}
}

// CreateQueue rejects absent or whitespace-only names and trims
// surrounding whitespace before creating the queue.
func (f *Facade) CreateQueue(name string) (*queuecore.Queue, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "queue name must not be blank")
	}
	return f.registry.Create(name), nil
}

// EnqueueTask rejects an absent queueID; reports ErrNotFound if the
// queue does not exist. On success the task is inserted pending.
func (f *Facade) EnqueueTask(queueID uuid.UUID, params string, priority int64) (*queuecore.Task, error) {
	if queueID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidArgument, "queue id is required")
	}
	q := f.registry.Get(queueID)
	if q == nil {
		return nil, errors.Wrapf(ErrNotFound, "queue %s", queueID)
	}
	task := queuecore.New(params, priority)
	q.Enqueue(task)
	return task, nil
}

// DequeueTask rejects an absent queueID; reports ErrNotFound if the
// queue does not exist. If a task is returned, its status is flipped to
// IN_PROGRESS before returning. A nil task with a nil error indicates an
// empty queue.
func (f *Facade) DequeueTask(queueID uuid.UUID) (*queuecore.Task, error) {
	if queueID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidArgument, "queue id is required")
	}
	q := f.registry.Get(queueID)
	if q == nil {
		return nil, errors.Wrapf(ErrNotFound, "queue %s", queueID)
	}
	task := q.Dequeue()
	if task == nil {
		return nil, nil
	}
	task.SetStatus(queuecore.StatusInProgress)
	return task, nil
}

// SubmitResult rejects an absent queueID; reports ErrNotFound if the
// queue does not exist and ErrPreconditionFailed if taskID is absent.
func (f *Facade) SubmitResult(queueID, taskID uuid.UUID, output string, status queuecore.ResultStatus) (*queuecore.Result, error) {
	if queueID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidArgument, "queue id is required")
	}
	q := f.registry.Get(queueID)
	if q == nil {
		return nil, errors.Wrapf(ErrNotFound, "queue %s", queueID)
	}
	if taskID == uuid.Nil {
		return nil, errors.Wrap(ErrPreconditionFailed, "result task id is required")
	}
	result := queuecore.NewResult(taskID, output, status)
	q.AddResult(result)
	return result, nil
}

// GetResult rejects an absent queueID or taskID; reports ErrNotFound if
// the queue does not exist. A nil result with a nil error indicates no
// stored result for taskID.
func (f *Facade) GetResult(queueID, taskID uuid.UUID) (*queuecore.Result, error) {
	if queueID == uuid.Nil || taskID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidArgument, "queue id and task id are required")
	}
	q := f.registry.Get(queueID)
	if q == nil {
		return nil, errors.Wrapf(ErrNotFound, "queue %s", queueID)
	}
	return q.GetResult(taskID), nil
}

// Status returns the aggregate view of a queue's pending and result
// counts.
func (f *Facade) Status(queueID uuid.UUID) (*QueueStatus, error) {
	if queueID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidArgument, "queue id is required")
	}
	q := f.registry.Get(queueID)
	if q == nil {
		return nil, errors.Wrapf(ErrNotFound, "queue %s", queueID)
	}
	return &QueueStatus{
		ID:                   q.ID(),
		Name:                 q.Name(),
		PendingTaskCount:     q.TaskCount(),
		CompletedResultCount: q.ResultCount(),
		HasPendingTasks:      q.HasPending(),
	}, nil
}

// List enumerates every queue currently in the registry.
func (f *Facade) List() []QueueSummary {
	all := f.registry.All()
	out := make([]QueueSummary, 0, len(all))
	for _, q := range all {
		out = append(out, QueueSummary{
			ID:          q.ID(),
			Name:        q.Name(),
			TaskCount:   q.TaskCount(),
			ResultCount: q.ResultCount(),
		})
	}
	return out
}

// RemoveQueue deletes a queue from the registry. Reports ErrNotFound if
// it does not exist.
func (f *Facade) RemoveQueue(queueID uuid.UUID) error {
	if queueID == uuid.Nil {
		return errors.Wrap(ErrInvalidArgument, "queue id is required")
	}
	if !f.registry.Remove(queueID) {
		return errors.Wrapf(ErrNotFound, "queue %s", queueID)
	}
	return nil
}

// ClearAll empties the registry and returns the number of queues
// removed.
func (f *Facade) ClearAll() int {
	return f.registry.Clear()
}
