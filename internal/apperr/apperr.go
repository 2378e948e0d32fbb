package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindFormat
	KindPermission
	KindNotFound
	KindConflict
	KindValidation
	KindGateway
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindGateway:
		return "gateway"
	}
	return "internal"
}

// HTTPStatus maps a kind onto the response code handlers send.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindFormat:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindGateway:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error is an application error carrying a kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Kind-only targets for errors.Is.
var (
	ErrFormat     = &Error{Kind: KindFormat}
	ErrPermission = &Error{Kind: KindPermission}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrValidation = &Error{Kind: KindValidation}
	ErrGateway    = &Error{Kind: KindGateway}
)

func Format(msg string, err error) *Error     { return &Error{Kind: KindFormat, Message: msg, Err: err} }
func Permission(msg string) *Error            { return &Error{Kind: KindPermission, Message: msg} }
func NotFound(msg string) *Error              { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string, err error) *Error   { return &Error{Kind: KindConflict, Message: msg, Err: err} }
func Validation(msg string, err error) *Error { return &Error{Kind: KindValidation, Message: msg, Err: err} }
func Gateway(msg string, err error) *Error    { return &Error{Kind: KindGateway, Message: msg, Err: err} }
func Internal(msg string, err error) *Error   { return &Error{Kind: KindInternal, Message: msg, Err: err} }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
