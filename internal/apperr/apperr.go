// apperr.go
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindUpstream
)

// AppError es el error de negocio que los controllers traducen a HTTP.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *AppError      { return &AppError{Kind: KindValidation, Message: msg} }
func Unauthenticated(msg string) *AppError { return &AppError{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *AppError       { return &AppError{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *AppError        { return &AppError{Kind: KindNotFound, Message: msg} }

func Upstream(msg string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: msg, Err: err}
}

func Internal(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// From devuelve el AppError contenido en err, o uno interno genérico.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("error interno del servidor", err)
}

// Is compara el tipo de un error, útil en tests.
func Is(err error, k Kind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == k
}
