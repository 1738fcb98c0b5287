package googlecloud

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
)

const KindTask = "Task"

// ErrNotFound is returned by GetTask when the key does not exist.
var ErrNotFound = errors.New("entity not found")

func taskKey(id string) *datastore.Key {
	return datastore.NameKey(KindTask, id, nil)
}

// PutTask inserts or replaces the task stored under task.ID.
func (c *Client) PutTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if _, err := c.ds.Put(ctx, taskKey(task.ID), task); err != nil {
		return fmt.Errorf("failed to put task %s: %w", task.ID, err)
	}
	return nil
}

// GetTask retrieves a task by ID, deleted or not.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.ds.Get(ctx, taskKey(id), &task); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	task.ID = id
	return &task, nil
}

// ListActiveTasks returns the tasks not flagged as deleted, newest first.
// An empty status lists every column.
// Filtering by status together with the order needs a composite index on
// (deleted, status, -created_at).
func (c *Client) ListActiveTasks(ctx context.Context, status string) ([]Task, error) {
	query := datastore.NewQuery(KindTask).Filter("deleted =", false)
	if status != "" {
		query = query.Filter("status =", status)
	}
	query = query.Order("-created_at")

	var tasks []Task
	keys, err := c.ds.GetAll(ctx, query, &tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	for i, key := range keys {
		tasks[i].ID = key.Name
	}
	return tasks, nil
}

// DeleteTask removes the entity. Deleting a missing key is not an error.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.ds.Delete(ctx, taskKey(id)); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
