// Package apperr defines the three error kinds every failure in the
// request pipeline collapses into. Validation and repo construct them,
// use cases pass them through untouched, and the HTTP layer is the only
// place they are mapped to status codes.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidArgs = errors.New("invalid arguments")
	ErrInternal    = errors.New("internal error")
)

// invalidArgsError keeps the individual validation messages so the HTTP
// layer can surface all of them.
type invalidArgsError struct {
	messages []string
}

func (e *invalidArgsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidArgs, strings.Join(e.messages, ", "))
}

func (e *invalidArgsError) Is(target error) bool { return target == ErrInvalidArgs }

// NotFound builds a NotFound error with a formatted message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgs builds an InvalidArgs error from one or more messages.
func InvalidArgs(messages ...string) error {
	return &invalidArgsError{messages: messages}
}

// Internal builds an Internal error with a formatted message.
func Internal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// Wrap classifies an arbitrary error as Internal unless it already
// belongs to the taxonomy.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgs) || errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %s", ErrInternal, err.Error())
}

// Messages returns the individual validation messages for an InvalidArgs
// error, or the error text as a single message otherwise.
func Messages(err error) []string {
	var ia *invalidArgsError
	if errors.As(err, &ia) {
		return ia.messages
	}
	return []string{err.Error()}
}
