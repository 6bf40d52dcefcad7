package appointment

import "github.com/campuscare/counselling-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted:
		return true
	case StatusScheduled:
		return false
	}
	return false
}

// ===============================
// Session Mode
// ===============================

type Mode string

const (
	ModeVideo    Mode = "VIDEO"
	ModePhone    Mode = "PHONE"
	ModeInPerson Mode = "IN_PERSON"
	ModeHelpline Mode = "HELPLINE"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeVideo, ModePhone, ModeInPerson, ModeHelpline:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
