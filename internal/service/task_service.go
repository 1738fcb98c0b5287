package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

// ErrTaskNotFound is returned when the id is unknown or the task was logically deleted.
var ErrTaskNotFound = errors.New("tarefa não encontrada")

// BadRequestError carries a domain validation failure back to the caller.
type BadRequestError struct {
	Message string
	Err     error
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    domain.TaskPriority
}

// UpdateTaskInput holds the fields of a partial update. Unset fields keep their current value.
type UpdateTaskInput struct {
	Title       domain.Optional[string]
	Description domain.Optional[string]
	Status      domain.Optional[domain.TaskStatus]
	Priority    domain.Optional[domain.TaskPriority]
	DueDate     domain.Optional[time.Time]
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*domain.Task, error)
	DeleteLogical(ctx context.Context, id uuid.UUID) error
	DeletePhysical(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	repo domain.TaskRepository
}

func NewTaskService(repo domain.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(in.Title, in.Description, in.DueDate, in.Priority)
	if err != nil {
		return nil, badRequest("Não foi possível criar a tarefa", err)
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.load(ctx, id)
}

func (s *taskService) List(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error) {
	return s.repo.FindAll(ctx, domain.TaskFilter{Status: status})
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(task, in); err != nil {
		return nil, badRequest("Não foi possível atualizar a tarefa", err)
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *taskService) DeleteLogical(ctx context.Context, id uuid.UUID) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	task.DeleteLogical()
	if err := s.repo.Save(ctx, task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *taskService) DeletePhysical(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePhysical(ctx, id)
}

func (s *taskService) load(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func applyUpdate(task *domain.Task, in UpdateTaskInput) error {
	if v, ok := in.Title.Get(); ok {
		if err := task.SetTitle(v); err != nil {
			return err
		}
	}
	if v, ok := in.Description.Get(); ok {
		task.SetDescription(v)
	}
	if v, ok := in.Status.Get(); ok {
		if err := task.MoveTo(v); err != nil {
			return err
		}
	}
	if v, ok := in.Priority.Get(); ok {
		task.SetPriority(v)
	}
	if v, ok := in.DueDate.Get(); ok {
		if err := task.SetDueDate(v); err != nil {
			return err
		}
	}
	return nil
}

func badRequest(prefix string, err error) error {
	return &BadRequestError{Message: prefix + ": " + err.Error(), Err: err}
}
