package httpapi

import (
	"github.com/google/uuid"

	"github.com/skyscape-labs/queueservice/facade"
	"github.com/skyscape-labs/queueservice/queuecore"
)

type taskJSON struct {
	ID       uuid.UUID `json:"id"`
	Params   string    `json:"params"`
	Priority int64     `json:"priority"`
	Status   string    `json:"status"`
}

func taskToJSON(t *queuecore.Task) taskJSON {
	return taskJSON{
		ID:       t.ID(),
		Params:   t.Params(),
		Priority: t.Priority(),
		Status:   string(t.Status()),
	}
}

type resultJSON struct {
	TaskID    uuid.UUID `json:"taskId"`
	Output    string    `json:"output"`
	Status    string    `json:"status"`
	Timestamp queuecore.LocalTime `json:"timestamp"`
}

func resultToJSON(r *queuecore.Result) resultJSON {
	return resultJSON{
		TaskID:    r.TaskID,
		Output:    r.Output,
		Status:    string(r.Status),
		Timestamp: r.Timestamp,
	}
}

type queueJSON struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	TaskCount   int       `json:"taskCount"`
	ResultCount int       `json:"resultCount"`
}

func queueSummaryToJSON(qs facade.QueueSummary) queueJSON {
	return queueJSON{
		ID:          qs.ID,
		Name:        qs.Name,
		TaskCount:   qs.TaskCount,
		ResultCount: qs.ResultCount,
	}
}

type statusJSON struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	PendingTaskCount     int       `json:"pendingTaskCount"`
	CompletedResultCount int       `json:"completedResultCount"`
	HasPendingTasks      bool      `json:"hasPendingTasks"`
}

func statusToJSON(qs *facade.QueueStatus) statusJSON {
	return statusJSON{
		ID:                   qs.ID,
		Name:                 qs.Name,
		PendingTaskCount:     qs.PendingTaskCount,
		CompletedResultCount: qs.CompletedResultCount,
		HasPendingTasks:      qs.HasPendingTasks,
	}
}
