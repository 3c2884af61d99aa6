package queuecore

import (
	"time"

	"github.com/google/uuid"
)

// ResultStatus is the outcome a worker reports for a completed task.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "SUCCESS"
	ResultFailure ResultStatus = "FAILURE"
)

// wireTimeLayout matches the service's local date-time without a zone
// offset, e.g. "2024-01-01T12:00:00".
const wireTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a time.Time that (de)serializes as an ISO-8601 local
// date-time without an offset, dropping sub-second precision.
type LocalTime time.Time

func (lt LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(lt).Format(wireTimeLayout) + `"`), nil
}

func (lt *LocalTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	// Strip surrounding quotes.
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse(wireTimeLayout, s)
	if err != nil {
		return err
	}
	*lt = LocalTime(t)
	return nil
}

func (lt LocalTime) Time() time.Time { return time.Time(lt) }

// Result is the outcome record for one Task, keyed by the Task's
// identifier. Immutable after construction; a later submission with the
// same TaskID overwrites the prior Result rather than producing a
// second record.
type Result struct {
	TaskID    uuid.UUID
	Output    string
	Status    ResultStatus
	Timestamp LocalTime
}

// NewResult creates a Result stamped with the current instant.
func NewResult(taskID uuid.UUID, output string, status ResultStatus) *Result {
	return &Result{
		TaskID:    taskID,
		Output:    output,
		Status:    status,
		Timestamp: LocalTime(time.Now()),
	}
}

// RestoreResult creates a Result carrying a caller-supplied timestamp,
// for use by the snapshot load path.
func RestoreResult(taskID uuid.UUID, output string, status ResultStatus, timestamp time.Time) *Result {
	return &Result{
		TaskID:    taskID,
		Output:    output,
		Status:    status,
		Timestamp: LocalTime(timestamp),
	}
}
