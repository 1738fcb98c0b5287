package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/pkg/googlecloud"
)

// entityStore is the subset of googlecloud.Client used by the datastore repository.
type entityStore interface {
	PutTask(ctx context.Context, task *googlecloud.Task) error
	GetTask(ctx context.Context, id string) (*googlecloud.Task, error)
	ListActiveTasks(ctx context.Context, status string) ([]googlecloud.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type datastoreTaskRepository struct {
	store entityStore
}

// NewDatastoreTaskRepository stores tasks as Datastore entities of kind Task.
func NewDatastoreTaskRepository(client *googlecloud.Client) domain.TaskRepository {
	return &datastoreTaskRepository{store: client}
}

func toEntity(t *domain.Task) *googlecloud.Task {
	return &googlecloud.Task{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate.UTC(),
		CreatedAt:   t.CreatedAt.UTC(),
		Deleted:     t.Deleted,
	}
}

func entityToDomain(e *googlecloud.Task) (*domain.Task, error) {
	rec := taskRecord{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Status:      e.Status,
		Priority:    e.Priority,
		DueDate:     e.DueDate,
		CreatedAt:   e.CreatedAt,
		Deleted:     e.Deleted,
	}
	return rec.toDomain()
}

func (r *datastoreTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	entity := toEntity(task)

	// created_at is written once
	existing, err := r.store.GetTask(ctx, entity.ID)
	switch {
	case err == nil:
		entity.CreatedAt = existing.CreatedAt
	case !errors.Is(err, googlecloud.ErrNotFound):
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.store.PutTask(ctx, entity); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *datastoreTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	entity, err := r.store.GetTask(ctx, id.String())
	if err != nil {
		if errors.Is(err, googlecloud.ErrNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if entity.Deleted {
		return nil, domain.ErrTaskNotFound
	}
	return entityToDomain(entity)
}

func (r *datastoreTaskRepository) FindAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var status string
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	entities, err := r.store.ListActiveTasks(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(entities))
	for i := range entities {
		t, err := entityToDomain(&entities[i])
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (r *datastoreTaskRepository) DeletePhysical(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteTask(ctx, id.String())
}
