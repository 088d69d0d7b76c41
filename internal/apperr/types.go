// Package apperr define el error clasificado que comparten disk, managed y mount.
//
// Cada error lleva una Kind (taxonomía de fallas), un Code estable y el status
// HTTP con el que se expone en la superficie operativa.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind agrupa errores por origen.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindProtocol      Kind = "protocol"
	KindState         Kind = "state"
	KindTransport     Kind = "transport"
	KindStorage       Kind = "storage"
	KindMount         Kind = "mount"
	KindArgument      Kind = "argument"
	KindInternal      Kind = "internal"
)

// Error es el error estándar de la aplicación.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Detail     string
	HTTPStatus int
	Err        error // causa original, solo para logs
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Code, así las copias hechas con WithDetail/WithCause siguen
// matcheando contra el sentinel original.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New crea un Error sentinel.
func New(kind Kind, status int, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, HTTPStatus: status}
}

// WithDetail devuelve una COPIA con detalle adicional.
func (e *Error) WithDetail(format string, args ...any) *Error {
	n := *e
	n.Detail = fmt.Sprintf(format, args...)
	return &n
}

// WithCause devuelve una COPIA con la causa original.
func (e *Error) WithCause(err error) *Error {
	n := *e
	n.Err = err
	return &n
}

// ErrInternal se usa cuando un error no clasificado llega a la superficie HTTP.
var ErrInternal = New(KindInternal, http.StatusInternalServerError, "INTERNAL", "internal error")

// From convierte cualquier error en *Error conservando el original como causa.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return ErrInternal.WithCause(err)
}

// KindOf retorna la Kind del primer *Error en la cadena, o "" si no hay.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reporta si err pertenece a la Kind indicada.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// StatusOf retorna el status HTTP asociado a err (500 si no está clasificado).
func StatusOf(err error) int {
	return From(err).HTTPStatus
}
