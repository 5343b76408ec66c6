package notes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrInvalidID    = errors.New("invalid note ID")
	ErrInvalidNote  = errors.New("invalid note")
)

// ValidationError describes a malformed note. It matches ErrInvalidNote
// under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid note: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidNote
}

func validateNote(n *Note) error {
	if n == nil {
		return &ValidationError{Field: "note", Reason: "is nil"}
	}
	if n.Updated.IsZero() {
		return &ValidationError{Field: "updated", Reason: "is required"}
	}
	if n.Text == "" {
		return &ValidationError{Field: "text", Reason: "is required"}
	}
	if strings.ContainsRune(n.Text, 0) {
		return &ValidationError{Field: "text", Reason: "contains a NUL byte"}
	}
	return nil
}
