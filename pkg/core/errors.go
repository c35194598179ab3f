package core

import "errors"

// Error kinds. Every error returned by Service wraps exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("i/o failure")
	ErrConflict   = errors.New("conflict")
)

// Error is the typed failure returned by Service operations.
// Msg is meant for humans and ends up verbatim in response envelopes.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(op, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: msg}
}

func notFoundError(op, msg string) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: msg}
}

func conflictError(op, msg string) error {
	return &Error{Kind: ErrConflict, Op: op, Msg: msg}
}

func ioError(op, msg string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Msg: msg, Err: err}
}

// KindOf reports which error kind err carries, nil if none.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrIO} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
