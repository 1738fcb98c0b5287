package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	"github.com/locvowork/task_management_sample/apigateway/internal/service"
	"github.com/locvowork/task_management_sample/apigateway/internal/service/serviceutils"
)

const (
	titleValidation     = "Validação falhou"
	titleBadRequest     = "Requisição inválida"
	titleNotFound       = "Recurso não encontrado"
	titleMethodNotAllow = "Método não permitido"
	titleInternal       = "Erro interno"

	msgInvalidFields = "Existem campos inválidos na requisição"
	msgTaskNotFound  = "Tarefa não encontrada"
	msgRouteNotFound = "Rota não encontrada"
	msgBadDate       = "Formato de data inválido. Use o padrão dd/MM/yyyy HH:mm (ex.: 05/02/2026 00:00)."
	msgBadBody       = "Não foi possível ler o corpo da requisição. Verifique o JSON enviado."
	msgMethod        = "Este endpoint não aceita o método HTTP utilizado."
	msgInternal      = "Ocorreu um erro inesperado. Tente novamente."
)

// ErrorHandler is the echo.HTTPErrorHandler that turns every error into the shared error body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		fields   FieldErrors
		badReq   *service.BadRequestError
		dateErr  *DateFormatError
		bodyErr  *RequestBodyError
		enumErr  *EnumValueError
		httpErr  *echo.HTTPError
		writeErr error
	)

	switch {
	case errors.As(err, &fields):
		writeErr = serviceutils.ResponseError(c, http.StatusBadRequest, titleValidation, msgInvalidFields, fields)
	case errors.As(err, &badReq):
		writeErr = serviceutils.ResponseError(c, http.StatusBadRequest, titleBadRequest, badReq.Message, nil)
	case errors.Is(err, service.ErrTaskNotFound):
		writeErr = serviceutils.ResponseError(c, http.StatusNotFound, titleNotFound, msgTaskNotFound, nil)
	case errors.As(err, &dateErr):
		writeErr = serviceutils.ResponseError(c, http.StatusBadRequest, titleBadRequest, msgBadDate, nil)
	case errors.As(err, &bodyErr):
		writeErr = serviceutils.ResponseError(c, http.StatusBadRequest, titleBadRequest, msgBadBody, nil)
	case errors.As(err, &enumErr):
		writeErr = serviceutils.ResponseError(c, http.StatusBadRequest, titleBadRequest, enumErr.Error(), nil)
	case errors.As(err, &httpErr):
		writeErr = writeHTTPError(c, httpErr)
	default:
		writeErr = internalError(c, err)
	}

	if writeErr != nil {
		logger.ErrorLog(c.Request().Context(), "failed to write error response: %v", writeErr)
	}
}

func writeHTTPError(c echo.Context, he *echo.HTTPError) error {
	switch {
	case he.Code == http.StatusNotFound:
		return serviceutils.ResponseError(c, he.Code, titleNotFound, msgRouteNotFound, nil)
	case he.Code == http.StatusMethodNotAllowed:
		return serviceutils.ResponseError(c, he.Code, titleMethodNotAllow, msgMethod, nil)
	case he.Code >= http.StatusInternalServerError:
		return internalError(c, he)
	default:
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return serviceutils.ResponseError(c, he.Code, titleBadRequest, msg, nil)
	}
}

func internalError(c echo.Context, err error) error {
	req := c.Request()
	logger.ErrorLog(req.Context(), "unexpected error on %s %s: %v", req.Method, req.URL.Path, err)
	return serviceutils.ResponseError(c, http.StatusInternalServerError, titleInternal, msgInternal, nil)
}
