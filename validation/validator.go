package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kbukum/voicemention/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects failures from chained checks on loose values, such
// as path parameters, that have no struct to carry tags.
type Validator struct {
	failed []FieldError
}

func New() *Validator {
	return &Validator{}
}

// check records message against field unless ok.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.failed = append(v.failed, FieldError{Field: field, Message: message})
	}
	return v
}

func (v *Validator) HasErrors() bool      { return len(v.failed) > 0 }
func (v *Validator) Errors() []FieldError { return v.failed }

// Validate is nil when every check passed.
func (v *Validator) Validate() error {
	if len(v.failed) == 0 {
		return nil
	}
	return fieldsError(v.failed)
}

func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

// RequiredID rejects the zero id. Chat ids may be negative.
func (v *Validator) RequiredID(field string, value int64) *Validator {
	return v.check(value != 0, field, "is required")
}

// RequiredUUID accepts any parseable UUID except the nil one.
func (v *Validator) RequiredUUID(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.check(false, field, "is required")
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return v.check(false, field, "must be a valid UUID")
	}
	return v.check(parsed != uuid.Nil, field, "must not be empty")
}

// MaxRunes counts characters, not bytes.
func (v *Validator) MaxRunes(field, value string, limit int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= limit, field, fmt.Sprintf("must be %d characters or less", limit))
}

func (v *Validator) Custom(ok bool, field, message string) *Validator {
	return v.check(ok, field, message)
}

// fieldsError builds one INVALID_INPUT error naming every field.
func fieldsError(fields []FieldError) error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}
