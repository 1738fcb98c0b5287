package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	due := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	t.Run("Defaults", func(t *testing.T) {
		task, err := domain.NewTask("  Título  ", "Descrição", due, "")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, "Título", task.Title)
		assert.Equal(t, "Descrição", task.Description)
		assert.Equal(t, domain.StatusTodo, task.Status)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Equal(t, due, task.DueDate)
		assert.False(t, task.CreatedAt.IsZero())
		assert.False(t, task.Deleted)
	})

	t.Run("KeepsPriority", func(t *testing.T) {
		task, err := domain.NewTask("A", "", due, domain.PriorityHigh)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		_, err := domain.NewTask("   ", "", due, "")
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "title", vErr.Field)
		assert.Equal(t, "título é obrigatório", vErr.Error())
	})

	t.Run("MissingDueDate", func(t *testing.T) {
		_, err := domain.NewTask("A", "", time.Time{}, "")
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "dueDate", vErr.Field)
	})
}

func TestTaskSetters(t *testing.T) {
	due := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	task, err := domain.NewTask("A", "", due, domain.PriorityLow)
	require.NoError(t, err)

	assert.Error(t, task.SetTitle(""))
	assert.Equal(t, "A", task.Title)

	assert.Error(t, task.SetDueDate(time.Time{}))
	assert.Equal(t, due, task.DueDate)

	// no transition graph: DONE can go straight back to TODO
	require.NoError(t, task.MoveTo(domain.StatusDone))
	require.NoError(t, task.MoveTo(domain.StatusTodo))
	assert.Equal(t, domain.StatusTodo, task.Status)

	err = task.MoveTo("ARCHIVED")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
	assert.Contains(t, vErr.Message, "inválido")
	assert.Equal(t, domain.StatusTodo, task.Status)

	task.SetPriority("")
	assert.Equal(t, domain.PriorityLow, task.Priority)

	task.DeleteLogical()
	assert.True(t, task.Deleted)
}

func TestParseEnums(t *testing.T) {
	for _, s := range domain.TaskStatuses {
		st, err := domain.ParseTaskStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, st)
	}
	_, err := domain.ParseTaskStatus("todo")
	assert.Error(t, err)

	for _, p := range domain.TaskPriorities {
		pr, err := domain.ParseTaskPriority(string(p))
		assert.NoError(t, err)
		assert.Equal(t, p, pr)
	}
	_, err = domain.ParseTaskPriority("URGENT")
	assert.Error(t, err)
}

func TestOptional(t *testing.T) {
	none := domain.None[string]()
	assert.False(t, none.IsSet())

	empty := domain.Some("")
	v, ok := empty.Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)

	assert.False(t, domain.FromPtr[int](nil).IsSet())
	n := 3
	got, ok := domain.FromPtr(&n).Get()
	assert.True(t, ok)
	assert.Equal(t, 3, got)
}
