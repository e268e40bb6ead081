package crud

import (
	"errors"

	"recorddeck/internal/record"
)

// State is the modal state.
type State int

const (
	Closed State = iota
	OpenCreate
	OpenEdit
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case OpenCreate:
		return "OpenCreate"
	case OpenEdit:
		return "OpenEdit"
	default:
		return "Unknown"
	}
}

var (
	ErrModalOpen   = errors.New("modal already open")
	ErrModalClosed = errors.New("modal not open")
	ErrInFlight    = errors.New("submission already in flight")
)

// Submission is a validated form ready to be sent. It is only meaningful
// to the controller that issued it.
type Submission struct {
	Op     Op
	ID     string // record id for OpUpdate
	Fields record.Fields
	token  uint64
}

// Controller tracks which record, if any, the form is editing. The editing
// record is set exactly when the state is OpenEdit.
type Controller struct {
	state     State
	editing   *record.Record
	values    record.Fields
	errs      *record.ValidationError
	submitErr error
	inFlight  bool
	token     uint64
}

// NewController returns a closed controller.
func NewController() *Controller {
	return &Controller{}
}

// OpenCreate opens an empty form.
func (c *Controller) OpenCreate() error {
	if c.state != Closed {
		return ErrModalOpen
	}
	c.reset()
	c.state = OpenCreate
	c.token++
	return nil
}

// OpenEdit opens the form pre-populated from r.
func (c *Controller) OpenEdit(r record.Record) error {
	if c.state != Closed {
		return ErrModalOpen
	}
	c.reset()
	c.state = OpenEdit
	c.editing = &r
	c.values = r.Fields
	c.token++
	return nil
}

// Cancel closes the form and discards its values. An in-flight submission
// is forgotten; its eventual Resolve is ignored.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = Closed
	c.editing = nil
	c.values = record.Fields{}
	c.errs = nil
	c.submitErr = nil
	c.inFlight = false
}

// Submit stores values and, if every required field is present, marks the
// form in flight and returns the submission to send. A *record.ValidationError
// leaves the form open with per-field messages.
func (c *Controller) Submit(values record.Fields) (Submission, error) {
	if c.state == Closed {
		return Submission{}, ErrModalClosed
	}
	if c.inFlight {
		return Submission{}, ErrInFlight
	}
	c.values = values
	if err := values.Validate(); err != nil {
		var verr *record.ValidationError
		if errors.As(err, &verr) {
			c.errs = verr
		}
		return Submission{}, err
	}
	c.errs = nil
	c.submitErr = nil
	c.inFlight = true

	sub := Submission{Op: OpCreate, Fields: values.Normalize(), token: c.token}
	if c.state == OpenEdit {
		sub.Op = OpUpdate
		sub.ID = c.editing.ID
	}
	return sub, nil
}

// Resolve records the outcome of sub. Success closes the form; failure
// keeps it open with values intact and the error available via SubmitErr.
// Reports false when sub no longer belongs to the open form.
func (c *Controller) Resolve(sub Submission, err error) bool {
	if c.state == Closed || !c.inFlight || sub.token != c.token {
		return false
	}
	c.inFlight = false
	if err != nil {
		c.submitErr = err
		return true
	}
	c.reset()
	return true
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the form is showing.
func (c *Controller) IsOpen() bool { return c.state != Closed }

// Editing returns the record being edited.
func (c *Controller) Editing() (record.Record, bool) {
	if c.editing == nil {
		return record.Record{}, false
	}
	return *c.editing, true
}

// Values returns the current form values.
func (c *Controller) Values() record.Fields { return c.values }

// FieldErrors returns the messages from the last failed validation, or nil.
func (c *Controller) FieldErrors() *record.ValidationError { return c.errs }

// SubmitErr returns the error of the last failed submission.
func (c *Controller) SubmitErr() error { return c.submitErr }

// InFlight reports whether a submission is awaiting its result.
func (c *Controller) InFlight() bool { return c.inFlight }

// Title returns the modal heading for noun, e.g. "Update Student".
func (c *Controller) Title(noun string) string {
	if c.state == OpenEdit {
		return "Update " + noun
	}
	return "Create " + noun
}

// SubmitLabel returns the submit button text.
func (c *Controller) SubmitLabel() string {
	if c.state == OpenEdit {
		return "Update"
	}
	return "Submit"
}
