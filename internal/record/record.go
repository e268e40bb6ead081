// Package record defines the person record managed by recorddeck and the
// presence checks applied to it before anything is sent to the API.
package record

import "strings"

// Fields holds the editable values of a record. Phone is kept as a digit
// string so an untouched form field can be told apart from zero.
type Fields struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"required"`
	Gender    Gender `validate:"required"`
	Birthdate string `validate:"required"`
}

// Record is one entry of the remote collection. ID is assigned by the API
// and never changes.
type Record struct {
	ID string
	Fields
}

// Normalize returns a copy with surrounding whitespace removed from every
// text value.
func (f Fields) Normalize() Fields {
	return Fields{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Phone:     strings.TrimSpace(f.Phone),
		Gender:    Gender(strings.TrimSpace(string(f.Gender))),
		Birthdate: strings.TrimSpace(f.Birthdate),
	}
}

// IsZero reports whether no field has a value.
func (f Fields) IsZero() bool {
	return f == Fields{}
}

// FindByID returns the record with the given id.
func FindByID(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
