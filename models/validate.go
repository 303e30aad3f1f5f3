// ABOUTME: Identity validation for records handed to the scoring engines
// ABOUTME: Wraps go-playground/validator field errors into a distinguishable ValidationError
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMissingIdentity is returned when a record lacks the field that identifies it.
var ErrMissingIdentity = errors.New("record is missing its identity field")

var validate = validator.New()

// ValidationError describes a structurally invalid record.
type ValidationError struct {
	Record string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Record, e.Field, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrMissingIdentity).
func (e *ValidationError) Unwrap() error {
	return ErrMissingIdentity
}

// ValidateAccount checks that the account carries an id.
func ValidateAccount(a *Account) error {
	if a == nil {
		return &ValidationError{Record: "account", Field: "record", Reason: "is nil"}
	}
	return validateRecord("account", a)
}

// ValidateConnection checks that the connection carries a name.
func ValidateConnection(c *Connection) error {
	if c == nil {
		return &ValidationError{Record: "connection", Field: "record", Reason: "is nil"}
	}
	return validateRecord("connection", c)
}

// ValidateConnectionRecord checks that a provider connection record carries its ids.
func ValidateConnectionRecord(r *ConnectionRecord) error {
	if r == nil {
		return &ValidationError{Record: "connection record", Field: "record", Reason: "is nil"}
	}
	return validateRecord("connection record", r)
}

// ValidateProfile checks that a provider profile carries an id.
func ValidateProfile(p *ProfileRecord) error {
	if p == nil {
		return &ValidationError{Record: "profile", Field: "record", Reason: "is nil"}
	}
	return validateRecord("profile", p)
}

func validateRecord(record string, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %s: %w", record, err)
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Record: record,
		Field:  toSnake(fe.Field()),
		Reason: formatReason(fe),
	}
}

func formatReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func toSnake(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(field[i-1] >= 'A' && field[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
