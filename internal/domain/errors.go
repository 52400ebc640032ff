package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for the HTTP boundary. Services raise
// kinds; only the transport layer turns them into status codes.
type Kind int

const (
	KindValidation Kind = iota + 1 // bad or conflicting input -> 400
	KindNotFound                   // referenced entity absent -> 404
	KindAuth                       // credentials/token/inactive -> 401
	KindDatabase                   // unexpected persistence failure -> 500
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: "Validation error: " + msg} }

func NotFound(resource, id string) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s with id %s not found", resource, id)}
}

func Authentication(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

func Database(msg string, err error) error {
	return &Error{Kind: KindDatabase, Msg: "Database error: " + msg, Err: err}
}

// KindOf reports the kind of err, or 0 if err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// Wrap passes known domain errors through unchanged and wraps anything
// else as a database error, the repository-boundary policy.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return Database(msg, err)
}
