package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskRecord is the row layout of the tasks table.
type taskRecord struct {
	ID          string    `gorm:"primarykey;size:36"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"size:16;not null;index"`
	Priority    string    `gorm:"size:16;not null"`
	DueDate     time.Time `gorm:"column:due_date;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	Deleted     bool      `gorm:"not null;index"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func toRecord(t *domain.Task) *taskRecord {
	return &taskRecord{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		Deleted:     t.Deleted,
	}
}

func (r *taskRecord) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("stored task has invalid id %q: %w", r.ID, err)
	}
	t, err := domain.RestoreTask(id, r.Title, r.Description, domain.TaskStatus(r.Status),
		domain.TaskPriority(r.Priority), r.DueDate, r.CreatedAt, r.Deleted)
	if err != nil {
		return nil, fmt.Errorf("stored task %s is invalid: %w", r.ID, err)
	}
	return t, nil
}

// notDeleted is composed into every read so that logically deleted rows stay invisible.
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

func withStatus(status *domain.TaskStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", string(*status))
	}
}

// mutableColumns are rewritten when Save hits an existing id.
var mutableColumns = []string{"title", "description", "status", "priority", "due_date", "deleted"}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns a gorm backed domain.TaskRepository.
func NewTaskRepository(db *gorm.DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

// Migrate creates or updates the tasks table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		return fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	return nil
}

// Save inserts the task or overwrites the mutable columns of an existing row.
func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	rec := toRecord(task)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", task.ID, err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).Scopes(notDeleted).First(&rec, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task %s: %w", id, err)
	}
	return rec.toDomain()
}

// FindAll lists visible tasks, newest first.
func (r *taskRepository) FindAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var recs []taskRecord
	err := r.db.WithContext(ctx).
		Scopes(notDeleted, withStatus(filter.Status)).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(recs))
	for i := range recs {
		t, err := recs[i].toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// DeletePhysical removes the row whether or not it is logically deleted. A missing id is not an error.
func (r *taskRepository) DeletePhysical(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id.String()).Error; err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
