package serviceutils

import (
	"time"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the envelope shared by every error response.
type ErrorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func NewErrorBody(code int, title, msg, path string, fields map[string]string) ErrorBody {
	return ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     title,
		Message:   msg,
		Path:      path,
		Fields:    fields,
	}
}

func ResponseSuccess(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, data)
}

// ResponseError writes the error envelope for the current request path.
func ResponseError(c echo.Context, code int, title, msg string, fields map[string]string) error {
	body := NewErrorBody(code, title, msg, c.Request().URL.Path, fields)
	if c.Request().Method == echo.HEAD {
		return c.NoContent(code)
	}
	return c.JSON(code, body)
}
