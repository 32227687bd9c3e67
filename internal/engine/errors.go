package engine

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindInvalidField Kind = "invalid_field"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindStore        Kind = "store"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidField = errors.New("invalid field")
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("not found")
	ErrStore        = errors.New("store failure")
)

var kindSentinels = map[Kind]error{
	KindValidation:   ErrValidation,
	KindInvalidField: ErrInvalidField,
	KindUnauthorized: ErrUnauthorized,
	KindNotFound:     ErrNotFound,
	KindStore:        ErrStore,
}

// Error is returned by every Service operation that fails. Op names the
// operation; Err carries the detail.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, kindSentinels[e.Kind])
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf reports the kind of an engine error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationError(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

func notFoundError(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// unauthorizedError names the denied action, e.g. "read" or "modify".
func unauthorizedError(op string, actor any, verb, target string) error {
	return &Error{Kind: KindUnauthorized, Op: op, Err: fmt.Errorf("actor %q may not %s %s", actor, verb, target)}
}
