package rpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/organize/tasktracker/internal/task"
)

// TaskClient calls the task service on behalf of the submission service.
type TaskClient struct {
	c *Client
}

func NewTaskClient(baseURL string, timeout time.Duration, retry RetryPolicy) *TaskClient {
	return &TaskClient{c: NewClient("task-service", baseURL, timeout, retry)}
}

func (t *TaskClient) Get(ctx context.Context, id int64, credential string) (*task.Task, error) {
	var out task.Task
	if err := t.c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), credential, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TaskClient) Complete(ctx context.Context, id int64, credential string) (*task.Task, error) {
	var out task.Task
	if err := t.c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d/complete", id), credential, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
