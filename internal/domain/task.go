package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	StatusTodo  TaskStatus = "TODO"
	StatusDoing TaskStatus = "DOING"
	StatusDone  TaskStatus = "DONE"
)

// TaskStatuses lists every status in board order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusDoing, StatusDone}

// ParseTaskStatus converts the wire value into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid task status %q", s)
	}
	return st, nil
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// TaskPriority is informational only.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// ParseTaskPriority converts the wire value into a TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	p := TaskPriority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid task priority %q", s)
	}
	return p, nil
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single Kanban card.
//
// ID and CreatedAt are stamped by NewTask and never change afterwards. Title and
// DueDate must only be changed through SetTitle and SetDueDate so that a task
// never holds a blank title or a missing due date.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     time.Time
	CreatedAt   time.Time
	Deleted     bool
}

// NewTask builds a fresh task. The status is always TODO; an empty priority
// defaults to MEDIUM.
func NewTask(title, description string, dueDate time.Time, priority TaskPriority) (*Task, error) {
	return RestoreTask(uuid.New(), title, description, StatusTodo, priority, dueDate, time.Now().UTC(), false)
}

// RestoreTask rebuilds a task from stored values, applying the same checks and
// defaults as NewTask.
func RestoreTask(id uuid.UUID, title, description string, status TaskStatus, priority TaskPriority,
	dueDate, createdAt time.Time, deleted bool) (*Task, error) {
	t := &Task{
		ID:          id,
		Description: description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   createdAt,
		Deleted:     deleted,
	}
	if err := t.SetTitle(title); err != nil {
		return nil, err
	}
	if err := t.SetDueDate(dueDate); err != nil {
		return nil, err
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return t, nil
}

// SetTitle trims and stores the title.
func (t *Task) SetTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &ValidationError{Field: "title", Message: "título é obrigatório"}
	}
	t.Title = trimmed
	return nil
}

func (t *Task) SetDescription(description string) {
	t.Description = description
}

// MoveTo places the task in another column. Any status may move to any other.
func (t *Task) MoveTo(status TaskStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("status inválido: %q", status)}
	}
	t.Status = status
	return nil
}

// SetPriority ignores the empty priority.
func (t *Task) SetPriority(priority TaskPriority) {
	if priority != "" {
		t.Priority = priority
	}
}

func (t *Task) SetDueDate(dueDate time.Time) error {
	if dueDate.IsZero() {
		return &ValidationError{Field: "dueDate", Message: "data limite é obrigatória"}
	}
	t.DueDate = dueDate
	return nil
}

// DeleteLogical flags the task as deleted. The flag never reverts.
func (t *Task) DeleteLogical() {
	t.Deleted = true
}

// Validate re-checks the invariants on a task that may have been assembled by hand.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return &ValidationError{Field: "id", Message: "id é obrigatório"}
	}
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Message: "título é obrigatório"}
	}
	if t.DueDate.IsZero() {
		return &ValidationError{Field: "dueDate", Message: "data limite é obrigatória"}
	}
	return nil
}

// TaskFilter narrows a listing. A nil Status lists every column.
type TaskFilter struct {
	Status *TaskStatus
}

// TaskRepository persists tasks. Every read excludes logically deleted tasks,
// including FindByID.
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]Task, error)
	DeletePhysical(ctx context.Context, id uuid.UUID) error
}
