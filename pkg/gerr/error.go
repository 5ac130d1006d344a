package gerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is Gwen's classified error type. Every error raised by the core
// carries a Kind so the step engine and reporters can branch on it without
// string-matching messages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a classified error with no underlying cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, preserving it as the Cause so
// errors.Is/As still see through to it.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a *Error,
// otherwise returns Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Multi aggregates independent errors raised while processing a batch of
// otherwise-unrelated units (e.g. one per feature unit during stream
// assembly), matching the teacher's InitializationError aggregate.
type Multi struct {
	Errs []error
}

func (m *Multi) Add(err error) {
	if err != nil {
		m.Errs = append(m.Errs, err)
	}
}

func (m *Multi) IsEmpty() bool { return len(m.Errs) == 0 }

func (m *Multi) Error() string {
	if len(m.Errs) == 0 {
		return "no errors"
	}
	if len(m.Errs) == 1 {
		return m.Errs[0].Error()
	}
	msg := fmt.Sprintf("%d errors occurred:\n", len(m.Errs))
	for i, e := range m.Errs {
		msg += fmt.Sprintf("  [%d] %v\n", i+1, e)
	}
	return msg
}

func (m *Multi) Unwrap() error {
	if len(m.Errs) == 0 {
		return nil
	}
	return m.Errs[0]
}

// ErrOrNil returns m as an error if it has any entries, otherwise nil.
func (m *Multi) ErrOrNil() error {
	if m.IsEmpty() {
		return nil
	}
	return m
}
