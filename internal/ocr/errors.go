package ocr

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	// KindConfig: unsupported engine tag or a backend that cannot be built
	// here. Never retryable.
	KindConfig Kind = iota + 1
	// KindDecode: the input could not be read as an image or document.
	KindDecode
	// KindBackend: the recognition or correction backend failed.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDecode:
		return "decode"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

var (
	ErrConfig  = &Error{Kind: KindConfig}
	ErrDecode  = &Error{Kind: KindDecode}
	ErrBackend = &Error{Kind: KindBackend}
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrDecode)
// works on wrapped errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func ConfigError(op string, err error) error  { return &Error{Kind: KindConfig, Op: op, Err: err} }
func DecodeError(op string, err error) error  { return &Error{Kind: KindDecode, Op: op, Err: err} }
func BackendError(op string, err error) error { return &Error{Kind: KindBackend, Op: op, Err: err} }

// KindOf returns the kind carried by err, or 0 when err has none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Retryable reports whether err is a backend failure that might succeed on
// a later attempt. Cancellation is never retryable.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return KindOf(err) == KindBackend
}
