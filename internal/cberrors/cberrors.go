// Package cberrors has the error type returned by command operations that
// need to report a problem to whoever ran the command.
package cberrors

import (
	"errors"
	"fmt"
)

// operationError is an error caused by a command operation that could not be
// completed. It carries a message meant for the player who ran the command as
// well as a more technical message for logs.
type operationError struct {
	msg   string
	human string
	wrap  error
}

func (e *operationError) Error() string {
	return e.msg
}

// UserMessage is the message shown to players.
func (e *operationError) UserMessage() string {
	return e.human
}

// Unwrap gives the error that the operationError wraps, if it wraps one.
func (e *operationError) Unwrap() error {
	return e.wrap
}

// Operation returns a new error that has both the message to show the player
// and the technical description of the error.
func Operation(user, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got OperationError(%q)", user)
	}
	return &operationError{
		msg:   technical,
		human: user,
	}
}

// Operationf returns a new error with a message to show to the player built
// from a format string and an automatically generated Error() description.
func Operationf(userFormat string, a ...interface{}) error {
	return Operation(fmt.Sprintf(userFormat, a...), "")
}

// WrapOperation returns a new error that has both the message to show the
// player and the technical description of the error, and that wraps the given
// error.
func WrapOperation(e error, user, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got OperationError(%q): %v", user, e)
	}
	return &operationError{
		msg:   technical,
		human: user,
		wrap:  e,
	}
}

// WrapOperationf is WrapOperation with a format string for the player
// message.
func WrapOperationf(e error, userFormat string, a ...interface{}) error {
	return WrapOperation(e, fmt.Sprintf(userFormat, a...), "")
}

// UserMessage gets the message to display to players for the given error. If
// err or anything it wraps carries a user message, that is returned.
// Otherwise, err.Error() is returned.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
