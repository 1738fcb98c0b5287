package handler_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDateTime_JSON(t *testing.T) {
	var d handler.DueDateTime
	require.NoError(t, json.Unmarshal([]byte(`"05/02/2026 00:00"`), &d))
	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"05/02/2026 00:00"`, string(out))

	t.Run("EmptyAndNullAreZero", func(t *testing.T) {
		for _, raw := range []string{`""`, `"  "`, `null`} {
			var d handler.DueDateTime
			require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
			assert.True(t, d.IsZero(), raw)
		}
	})

	t.Run("WrongPattern", func(t *testing.T) {
		for _, raw := range []string{`"2026-02-05T00:00:00"`, `"32/01/2026 10:00"`, `"05/02/2026"`, `42`} {
			var d handler.DueDateTime
			err := json.Unmarshal([]byte(raw), &d)
			var dateErr *handler.DateFormatError
			assert.ErrorAs(t, err, &dateErr, raw)
		}
	})

	t.Run("ZeroMarshalsToNull", func(t *testing.T) {
		out, err := json.Marshal(handler.DueDateTime{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})
}

func TestNewTaskResponse(t *testing.T) {
	due := time.Date(2026, 2, 12, 10, 30, 0, 0, time.UTC)
	task, err := domain.NewTask("Título", "", due, domain.PriorityLow)
	require.NoError(t, err)
	task.CreatedAt = time.Date(2026, 1, 10, 2, 15, 9, 0, time.UTC)

	resp := handler.NewTaskResponse(task, saoPaulo)
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "`+task.ID.String()+`",
		"title": "Título",
		"description": "",
		"status": "TODO",
		"priority": "LOW",
		"dueDate": "12/02/2026 10:30",
		"createdAt": "09/01/2026 23:15:09"
	}`, string(out))
}

func TestRequestValidator(t *testing.T) {
	v := handler.NewRequestValidator()

	err := v.Validate(&handler.CreateTaskRequest{})
	var fields handler.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, handler.FieldErrors{
		"title":   "Título é obrigatório",
		"dueDate": "Data limite é obrigatória",
	}, fields)
	assert.Contains(t, fields.Error(), "dueDate")

	ok := &handler.CreateTaskRequest{
		Title:   "x",
		DueDate: handler.DueDateTime{Time: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	assert.NoError(t, v.Validate(ok))

	// update requests carry no constraints of their own
	assert.NoError(t, v.Validate(&handler.UpdateTaskRequest{}))
}
