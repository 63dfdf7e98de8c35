package eo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/example/go-eoget/eo/model"
)

// TaskState enumerates the lifecycle states of an asynchronous export task.
type TaskState string

const (
	TaskPending   TaskState = "PENDING"
	TaskRunning   TaskState = "RUNNING"
	TaskCompleted TaskState = "COMPLETED"
	TaskFailed    TaskState = "FAILED"
)

// String returns the underlying string value.
func (s TaskState) String() string {
	return string(s)
}

// TaskStatus is a point-in-time snapshot of an export task.
type TaskStatus struct {
	ID             string
	State          TaskState
	Error          string
	DestinationURI string
}

// Done reports whether the task reached a terminal state.
func (s TaskStatus) Done() bool {
	return s.State == TaskCompleted || s.State == TaskFailed
}

// TaskHandle references an asynchronous export job on the imagery service.
// The client never polls it on the caller's behalf.
type TaskHandle struct {
	client *Client
	id     string
}

// Task returns a handle for the given export task identifier.
func (c *Client) Task(id string) *TaskHandle {
	return &TaskHandle{client: c, id: id}
}

// ID returns the remote task identifier.
func (t *TaskHandle) ID() string {
	return t.id
}

// Status fetches the task's current state from the service.
func (t *TaskHandle) Status(ctx context.Context) (TaskStatus, error) {
	if t == nil || t.client == nil {
		return TaskStatus{}, fmt.Errorf("eo: nil task handle")
	}
	if t.id == "" {
		return TaskStatus{}, fmt.Errorf("eo: task ID is required")
	}

	var status model.TaskStatus
	endpoint := tasksEndpoint + "/" + url.PathEscape(t.id)
	if err := t.client.getJSON(ctx, endpoint, &status); err != nil {
		return TaskStatus{}, err
	}
	return TaskStatus{
		ID:             status.ID,
		State:          parseTaskState(status.State),
		Error:          status.Error,
		DestinationURI: status.DestinationURI,
	}, nil
}

func parseTaskState(raw string) TaskState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "QUEUED", "SUBMITTED":
		return TaskPending
	case "RUNNING", "ACTIVE":
		return TaskRunning
	case "COMPLETED", "SUCCEEDED":
		return TaskCompleted
	case "FAILED", "CANCELLED", "ERROR":
		return TaskFailed
	default:
		return TaskState(raw)
	}
}
