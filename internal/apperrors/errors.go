package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. The taxonomy is closed:
// handlers switch over it exhaustively.
type Kind int

const (
	KindValidation Kind = iota // malformed input, rejected before any state mutation
	KindNotFound               // unknown session
	KindNotReady               // query against a session that is not ready
	KindConflict               // indexing already in progress for the session
	KindIngestion              // ingestion run failed, terminal for the session
	KindUpstream               // embedding/LLM/vector-store call failed
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func NotReady(message string) *Error {
	return New(KindNotReady, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Ingestion(message string, err error) *Error {
	return Wrap(KindIngestion, message, err)
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

// KindOf reports the classification of err, or ok=false for plain errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
