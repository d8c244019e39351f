package api

import (
	"errors"
	"fmt"
	"net/http"

	geoerrors "github.com/geo-dev/geo/internal/errors"
	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/internal/store"
)

// HTTPError is an error with the status code sent to the client.
type HTTPError struct {
	Code    int    // HTTP status code
	Message string // message returned to the client
	Err     error  // optional underlying error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(err error) *HTTPError {
	msg := "bad request"
	if err != nil {
		msg = err.Error()
	}
	return &HTTPError{Code: http.StatusBadRequest, Message: msg, Err: err}
}

// BadRequestf creates a 400 Bad Request error with a formatted message.
func BadRequestf(format string, args ...any) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// classify maps an error onto a status code and client message.
func classify(err error) (int, errorBody) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{Error: he.Message}
	}

	body := errorBody{Error: err.Error(), Code: geoerrors.Code(err)}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: "not found"}
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, body
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, body
	}
	switch body.Code {
	case "E300", "E301", "E310":
		return http.StatusBadGateway, body
	}
	return http.StatusInternalServerError, errorBody{Error: "internal server error", Code: body.Code}
}
