package repository

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/pkg/googlecloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEntityStore mimics the datastore client: GetTask sees deleted entities,
// ListActiveTasks does not.
type fakeEntityStore struct {
	entities map[string]googlecloud.Task
	getErr   error
}

func newFakeEntityStore() *fakeEntityStore {
	return &fakeEntityStore{entities: map[string]googlecloud.Task{}}
}

func (f *fakeEntityStore) PutTask(_ context.Context, task *googlecloud.Task) error {
	f.entities[task.ID] = *task
	return nil
}

func (f *fakeEntityStore) GetTask(_ context.Context, id string) (*googlecloud.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.entities[id]
	if !ok {
		return nil, googlecloud.ErrNotFound
	}
	return &e, nil
}

func (f *fakeEntityStore) ListActiveTasks(_ context.Context, status string) ([]googlecloud.Task, error) {
	var out []googlecloud.Task
	for _, e := range f.entities {
		if e.Deleted || (status != "" && e.Status != status) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEntityStore) DeleteTask(_ context.Context, id string) error {
	delete(f.entities, id)
	return nil
}

func TestDatastoreTaskRepository(t *testing.T) {
	ctx := context.Background()
	store := newFakeEntityStore()
	repo := &datastoreTaskRepository{store: store}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	task := newTask(t, "Datastore", base)
	require.NoError(t, repo.Save(ctx, task))
	assert.Equal(t, "TODO", store.entities[task.ID.String()].Status)

	t.Run("UpdateKeepsCreatedAt", func(t *testing.T) {
		changed := *task
		require.NoError(t, changed.MoveTo(domain.StatusDone))
		changed.CreatedAt = base.Add(time.Hour)
		require.NoError(t, repo.Save(ctx, &changed))

		found, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDone, found.Status)
		assert.True(t, base.Equal(found.CreatedAt))
	})

	t.Run("FilterByStatus", func(t *testing.T) {
		other := newTask(t, "Outra", base.Add(time.Minute))
		require.NoError(t, repo.Save(ctx, other))

		done := domain.StatusDone
		tasks, err := repo.FindAll(ctx, domain.TaskFilter{Status: &done})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.ID, tasks[0].ID)

		all, err := repo.FindAll(ctx, domain.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, other.ID, all[0].ID)
	})

	t.Run("SoftDeletedIsHidden", func(t *testing.T) {
		found, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		found.DeleteLogical()
		require.NoError(t, repo.Save(ctx, found))

		_, err = repo.FindByID(ctx, task.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.Contains(t, store.entities, task.ID.String())
	})

	t.Run("DeletePhysical", func(t *testing.T) {
		require.NoError(t, repo.DeletePhysical(ctx, task.ID))
		assert.NotContains(t, store.entities, task.ID.String())
		require.NoError(t, repo.DeletePhysical(ctx, uuid.New()))
	})

	t.Run("StoreFailure", func(t *testing.T) {
		store.getErr = errors.New("unavailable")
		defer func() { store.getErr = nil }()

		_, err := repo.FindByID(ctx, uuid.New())
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrTaskNotFound)
		assert.Error(t, repo.Save(ctx, newTask(t, "x", base)))
	})
}
