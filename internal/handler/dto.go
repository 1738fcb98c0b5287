package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

const (
	// DueDateLayout is dd/MM/yyyy HH:mm, used for due dates in both directions.
	DueDateLayout = "02/01/2006 15:04"
	// CreatedAtLayout is dd/MM/yyyy HH:mm:ss, output only.
	CreatedAtLayout = "02/01/2006 15:04:05"
)

// DateFormatError reports a due date that does not follow DueDateLayout.
type DateFormatError struct {
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q, expected dd/MM/yyyy HH:mm", e.Value)
}

func (e *DateFormatError) Unwrap() error {
	return e.Err
}

// DueDateTime is a wall-clock date-time without zone, kept in UTC.
// JSON null and "" both decode to the zero value.
type DueDateTime struct {
	time.Time
}

func (d *DueDateTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &DateFormatError{Value: string(b), Err: err}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.ParseInLocation(DueDateLayout, s, time.UTC)
	if err != nil {
		return &DateFormatError{Value: s, Err: err}
	}
	d.Time = t
	return nil
}

func (d DueDateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(DueDateLayout))
}

type CreateTaskRequest struct {
	Title       string      `json:"title" validate:"notblank"`
	Description string      `json:"description"`
	DueDate     DueDateTime `json:"dueDate" validate:"required"`
	Priority    *string     `json:"priority"`
}

// UpdateTaskRequest carries a partial update; a nil field is left unchanged.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     *DueDateTime `json:"dueDate"`
}

type TaskResponse struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     DueDateTime         `json:"dueDate"`
	CreatedAt   string              `json:"createdAt"`
}

func NewTaskResponse(t *domain.Task, loc *time.Location) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     DueDateTime{t.DueDate},
		CreatedAt:   t.CreatedAt.In(loc).Format(CreatedAtLayout),
	}
}

func NewTaskResponses(tasks []domain.Task, loc *time.Location) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i], loc))
	}
	return out
}
