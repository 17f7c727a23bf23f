// Package apierrors defines the service error taxonomy and its HTTP mapping.
// Client-facing errors serialize as {"detail": "..."} bodies.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError couples an HTTP status with a client-facing detail message.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Detail is the message returned to the client.
	Detail string
	// cause is the wrapped internal error, never sent to clients.
	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.cause)
	}
	return e.Detail
}

// Unwrap returns the wrapped cause.
func (e *APIError) Unwrap() error {
	return e.cause
}

// NewUpstreamFailure builds a 500 error surfacing the failure message of an
// embedding or chat model call.
func NewUpstreamFailure(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Detail: err.Error(), cause: err}
}

// Predefined service errors.
var (
	// ErrInvalidRequest rejects malformed or incomplete requests.
	ErrInvalidRequest = &APIError{Status: http.StatusBadRequest, Detail: "Session ID and question are required."}

	// ErrSessionNotFound rejects questions for unknown sessions.
	ErrSessionNotFound = &APIError{Status: http.StatusNotFound, Detail: "Session ID not found."}

	// ErrDocumentNotFound rejects inspection of unknown documents.
	ErrDocumentNotFound = &APIError{Status: http.StatusNotFound, Detail: "PDF not found"}

	// ErrQueryTimeout signals that answering exceeded the request deadline.
	ErrQueryTimeout = &APIError{Status: http.StatusRequestTimeout, Detail: "The request took too long to process. Please try again or simplify your question."}
)

// detailBody is the error response shape.
type detailBody struct {
	Detail string `json:"detail"`
}

// Respond writes an error as a JSON {"detail": ...} response.
// Unrecognized errors become opaque 500s so internals never leak.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, detailBody{Detail: apiErr.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, detailBody{Detail: "Internal server error."})
}
