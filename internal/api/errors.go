package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/store"
)

// ErrorBody is the JSON shape of every error response. Message is a string,
// or a list of strings for validation failures.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
}

func badRequest(messages ...string) ErrorBody {
	return ErrorBody{
		StatusCode: http.StatusBadRequest,
		Message:    messages,
		Error:      http.StatusText(http.StatusBadRequest),
	}
}

func internalError() ErrorBody {
	return ErrorBody{StatusCode: http.StatusInternalServerError, Message: "Internal server error"}
}

// writeError maps an error kind to its response.
func (s *Server) writeError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, badRequest(verr.Msg))
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorBody{
			StatusCode: http.StatusNotFound,
			Message:    err.Error(),
			Error:      http.StatusText(http.StatusNotFound),
		})
	default:
		s.logger.Error("storage failure", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, internalError())
	}
}

// bindingMessages turns a body decoding or binding failure into the messages
// reported to the client.
func bindingMessages(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return msgs
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "completed":
			return []string{"completed must be a boolean value"}
		case "task":
			return []string{"task must be a string"}
		}
		return []string{fmt.Sprintf("%s has the wrong type", typeErr.Field)}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []string{"request body is not valid JSON"}
	}
	return []string{err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "max":
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func jsonName(field string) string {
	switch field {
	case "Task":
		return "task"
	case "Completed":
		return "completed"
	}
	return field
}
