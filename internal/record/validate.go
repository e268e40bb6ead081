package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names used as keys in ValidationError.Fields.
const (
	FieldFirstName = "FirstName"
	FieldLastName  = "LastName"
	FieldPhone     = "Phone"
	FieldGender    = "Gender"
	FieldBirthdate = "Birthdate"
)

// FieldOrder is the order fields appear in the form.
var FieldOrder = []string{FieldFirstName, FieldLastName, FieldPhone, FieldGender, FieldBirthdate}

var requiredMessages = map[string]string{
	FieldFirstName: "Enter first name",
	FieldLastName:  "Enter last name",
	FieldPhone:     "Enter phone number",
	FieldGender:    "Select gender",
	FieldBirthdate: "Enter birthdate",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the fields that blocked a submission, keyed by
// field name, with the message to show next to each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}

// Message returns the message for field, or "".
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

// Validate checks that every required field is present. It returns a
// *ValidationError when any are empty.
func (f Fields) Validate() error {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate record: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := requiredMessages[fe.Field()]
		if !ok {
			msg = fe.Tag()
		}
		out.Fields[fe.Field()] = msg
	}
	return out
}
