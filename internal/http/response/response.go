// Package response implements the uniform JSON envelope shared by every
// endpoint: one shape for success, error and paginated payloads, stamped
// with the originating request id and a construction-time timestamp.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the per-request id. It is set
// by the request-id middleware before any other stage runs.
const RequestIDKey = "request_id"

// RequestID returns the id assigned to this request, or "" outside the
// middleware chain.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Envelope is the response body for all three shapes. Timestamp is unix
// milliseconds captured at construction; RequestID is always the value
// supplied by the caller, never regenerated here.
type Envelope struct {
	Success   bool         `json:"success"`
	Code      StatusCode   `json:"code"`
	Message   string       `json:"message"`
	Data      any          `json:"data,omitempty"`
	Version   string       `json:"version,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
	Path      string       `json:"path,omitempty"`
	Debug     string       `json:"debug,omitempty"`
	Timestamp int64        `json:"timestamp"`
	RequestID string       `json:"requestId"`
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Pagination carries the page window of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type pageData struct {
	List       any        `json:"list"`
	Pagination Pagination `json:"pagination"`
}

// PageOf computes pagination totals. A non-positive pageSize is clamped to 1
// rather than inheriting a division by zero; an empty result set has zero
// pages.
func PageOf(page, pageSize int, total int64) Pagination {
	if pageSize <= 0 {
		pageSize = 1
	}
	if page <= 0 {
		page = 1
	}
	var totalPages int64
	if total > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// NewSuccess builds the success envelope.
func NewSuccess(data any, message string, code StatusCode, version, requestID string) Envelope {
	return Envelope{
		Success:   true,
		Code:      code,
		Message:   message,
		Data:      data,
		Version:   version,
		Timestamp: time.Now().UnixMilli(),
		RequestID: requestID,
	}
}

// NewError builds the error envelope. debug carries the underlying failure
// message only; it must never contain a stack trace.
func NewError(message string, code StatusCode, fieldErrors []FieldError, path, debug, requestID string) Envelope {
	return Envelope{
		Success:   false,
		Code:      code,
		Message:   message,
		Errors:    fieldErrors,
		Path:      path,
		Debug:     debug,
		Timestamp: time.Now().UnixMilli(),
		RequestID: requestID,
	}
}

// NewPage builds the pagination envelope, nesting list and window under data.
func NewPage(list any, p Pagination, message string, code StatusCode, requestID string) Envelope {
	return Envelope{
		Success:   true,
		Code:      code,
		Message:   message,
		Data:      pageData{List: list, Pagination: p},
		Timestamp: time.Now().UnixMilli(),
		RequestID: requestID,
	}
}

// Success writes a success envelope. Business codes below CodeBoundary are
// used verbatim as the transport status.
func Success(c *gin.Context, data any, message string, code StatusCode) {
	c.JSON(code.httpStatus(http.StatusOK), NewSuccess(data, message, code, "", RequestID(c)))
}

// Error writes an error envelope with the request path filled in.
func Error(c *gin.Context, message string, code StatusCode, fieldErrors []FieldError, debug string) {
	c.JSON(code.httpStatus(http.StatusBadRequest), NewError(message, code, fieldErrors, c.Request.URL.Path, debug, RequestID(c)))
}

// Page writes a pagination envelope.
func Page(c *gin.Context, list any, p Pagination, message string) {
	c.JSON(http.StatusOK, NewPage(list, p, message, CodeSuccess, RequestID(c)))
}
