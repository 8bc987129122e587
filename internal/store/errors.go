package store

import (
	"errors"
	"fmt"
)

// Kind names an entity collection.
type Kind string

const (
	KindUser         Kind = "user"
	KindProject      Kind = "project"
	KindTask         Kind = "task"
	KindSubTask      Kind = "subtask"
	KindFile         Kind = "file"
	KindMilestone    Kind = "milestone"
	KindMessage      Kind = "message"
	KindNotification Kind = "notification"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func notFound(kind Kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}
