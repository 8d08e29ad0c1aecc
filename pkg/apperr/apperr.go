package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure so every service maps it to the same status code.
type Kind string

const (
	KindAuthentication Kind = "AUTHENTICATION_FAILED"
	KindNotAuthorized  Kind = "NOT_AUTHORIZED"
	KindNotFound       Kind = "NOT_FOUND"
	KindValidation     Kind = "VALIDATION_ERROR"
	KindConflict       Kind = "CONFLICT"
	KindRemoteCall     Kind = "REMOTE_CALL_FAILED"
	KindInternal       Kind = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Any *Error of the same Kind matches.
var (
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "authentication failed"}
	ErrNotAuthorized  = &Error{Kind: KindNotAuthorized, Message: "not authorized"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation     = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "conflict"}
	ErrRemoteCall     = &Error{Kind: KindRemoteCall, Message: "remote call failed"}
)

// Error is the typed failure returned by lifecycles, repositories and RPC clients.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func Authentication(format string, args ...interface{}) *Error {
	return newf(KindAuthentication, format, args...)
}

func NotAuthorized(format string, args ...interface{}) *Error {
	return newf(KindNotAuthorized, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// RemoteCall wraps a transport or downstream failure.
func RemoteCall(cause error, format string, args ...interface{}) *Error {
	e := newf(KindRemoteCall, format, args...)
	e.Cause = cause
	return e
}

// KindOf returns the Kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindRemoteCall:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus classifies a downstream HTTP status so the original caller sees the
// same failure the callee reported. It returns nil for 2xx.
func FromStatus(status int, message string) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, Message: message}
	case status == http.StatusForbidden:
		return &Error{Kind: KindNotAuthorized, Message: message}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: message}
	case status == http.StatusBadRequest:
		return &Error{Kind: KindValidation, Message: message}
	case status == http.StatusConflict:
		return &Error{Kind: KindConflict, Message: message}
	default:
		return &Error{Kind: KindRemoteCall, Message: fmt.Sprintf("%s (status %d)", message, status)}
	}
}

// Respond writes err as a JSON error body and aborts the gin chain.
// Internal errors are not echoed to the client.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	msg := err.Error()
	if kind == KindInternal {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(StatusCode(err), gin.H{"error": msg, "code": string(kind)})
}
