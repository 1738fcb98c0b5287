package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	"github.com/locvowork/task_management_sample/apigateway/internal/service"
	"github.com/locvowork/task_management_sample/apigateway/internal/service/serviceutils"
)

// RequestBodyError reports a body that could not be decoded into the request shape.
type RequestBodyError struct {
	Err error
}

func (e *RequestBodyError) Error() string {
	return "malformed request body: " + e.Err.Error()
}

func (e *RequestBodyError) Unwrap() error {
	return e.Err
}

// EnumValueError reports a status or priority outside the accepted set.
type EnumValueError struct {
	Field    string
	Value    string
	Accepted []string
}

func (e *EnumValueError) Error() string {
	return fmt.Sprintf("Valor inválido para %s: '%s'. Valores aceitos: %s",
		e.Field, e.Value, strings.Join(e.Accepted, ", "))
}

type TaskHandler struct {
	svc service.TaskService
	loc *time.Location
}

// NewTaskHandler renders creation timestamps in loc.
func NewTaskHandler(svc service.TaskService, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskHandler{svc: svc, loc: loc}
}

func (h *TaskHandler) CreateHandler(c echo.Context) error {
	var req CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return err
	}

	task, err := h.svc.Create(c.Request().Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Time,
		Priority:    priority,
	})
	if err != nil {
		return err
	}
	logger.InfoLog(c.Request().Context(), "task %s created", task.ID)
	return serviceutils.ResponseSuccess(c, http.StatusOK, NewTaskResponse(task, h.loc))
}

func (h *TaskHandler) ListHandler(c echo.Context) error {
	var status *domain.TaskStatus
	if raw := c.QueryParam("status"); raw != "" {
		st, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return &EnumValueError{Field: "status", Value: raw, Accepted: statusNames()}
		}
		status = &st
	}

	tasks, err := h.svc.List(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, NewTaskResponses(tasks, h.loc))
}

func (h *TaskHandler) GetHandler(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, NewTaskResponse(task, h.loc))
}

func (h *TaskHandler) UpdateHandler(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var req UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	task, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, NewTaskResponse(task, h.loc))
}

func (h *TaskHandler) DeleteLogicalHandler(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLogical(c.Request().Context(), id); err != nil {
		return err
	}
	logger.InfoLog(c.Request().Context(), "task %s deleted logically", id)
	return c.NoContent(http.StatusOK)
}

// DeletePhysicalHandler answers 200 whether or not the task existed.
func (h *TaskHandler) DeletePhysicalHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusOK)
	}
	if err := h.svc.DeletePhysical(c.Request().Context(), id); err != nil {
		return err
	}
	logger.InfoLog(c.Request().Context(), "task %s deleted physically", id)
	return c.NoContent(http.StatusOK)
}

func (r UpdateTaskRequest) toInput() (service.UpdateTaskInput, error) {
	in := service.UpdateTaskInput{
		Title:       domain.FromPtr(r.Title),
		Description: domain.FromPtr(r.Description),
	}
	if r.Status != nil {
		st, err := domain.ParseTaskStatus(*r.Status)
		if err != nil {
			return in, &EnumValueError{Field: "status", Value: *r.Status, Accepted: statusNames()}
		}
		in.Status = domain.Some(st)
	}
	if r.Priority != nil {
		p, err := parsePriority(r.Priority)
		if err != nil {
			return in, err
		}
		in.Priority = domain.Some(p)
	}
	if r.DueDate != nil && !r.DueDate.IsZero() {
		in.DueDate = domain.Some(r.DueDate.Time)
	}
	return in, nil
}

// bindAndValidate decodes the JSON body and runs the struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var dateErr *DateFormatError
		if errors.As(err, &dateErr) {
			return dateErr
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return err
		}
		return &RequestBodyError{Err: err}
	}
	return c.Validate(req)
}

// taskID parses the path id. A malformed id can never match a task.
func taskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, service.ErrTaskNotFound
	}
	return id, nil
}

func parsePriority(raw *string) (domain.TaskPriority, error) {
	if raw == nil {
		return "", nil
	}
	p, err := domain.ParseTaskPriority(*raw)
	if err != nil {
		return "", &EnumValueError{Field: "priority", Value: *raw, Accepted: priorityNames()}
	}
	return p, nil
}

func statusNames() []string {
	names := make([]string, 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		names = append(names, string(s))
	}
	return names
}

func priorityNames() []string {
	names := make([]string, 0, len(domain.TaskPriorities))
	for _, p := range domain.TaskPriorities {
		names = append(names, string(p))
	}
	return names
}
