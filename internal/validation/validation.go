// Package validation holds the record form rules shared by the client form,
// the record store and the ledger service.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
)

const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MaxValue             = 999_999_999
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

// Error collects every failed rule so a form can show them all at once.
// It matches common.ErrValidationFailed with errors.Is.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return common.ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *Error) Is(target error) bool {
	return target == common.ErrValidationFailed
}

// Message returns the message for field, or "".
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

type collector struct {
	fields []FieldError
}

func (c *collector) add(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

func (c *collector) record(name, description string, value uint64) {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		c.add("name", "name is required")
	case n > MaxNameLength:
		c.add("name", "name must not exceed 50 characters")
	}

	switch n := utf8.RuneCountInString(description); {
	case n == 0:
		c.add("description", "description is required")
	case n > MaxDescriptionLength:
		c.add("description", "description must not exceed 200 characters")
	}

	if value > MaxValue {
		c.add("value", "value is too large")
	}
}

// Create validates the fields of a new record.
func Create(name, description string, value uint64) error {
	var c collector
	c.record(name, description, value)
	return c.err()
}

// Update validates the fields of an edit, including the target id.
func Update(id int64, name, description string, value uint64) error {
	var c collector
	if id < 1 {
		c.add("id", "invalid id")
	}
	c.record(name, description, value)
	return c.err()
}
