package domain

import "errors"

// Booking rejection reasons. The strings are part of the API contract and
// surfaced verbatim in error responses.
var (
	// ErrOutsideBusinessHours: the requested start does not fall inside any
	// business-hours window for the specialist on that weekday.
	ErrOutsideBusinessHours = errors.New("Requested time is outside of business hours.")

	// ErrSlotConflict: an existing appointment overlaps the requested slot.
	// Found by the read-side availability check before the insert.
	ErrSlotConflict = errors.New("Time slot is already booked.")

	// ErrSlotTaken: the insert itself was rejected by the storage-level
	// exclusion constraint because a concurrent request won the slot between
	// our availability check and our write. Distinct from ErrSlotConflict so
	// clients can re-prompt instead of assuming user error.
	ErrSlotTaken = errors.New("Time slot was just taken by another booking.")

	ErrNotFound = errors.New("not found")

	// ErrAccountInUse: the user row is still referenced by appointment
	// history, which is kept for the other party's records.
	ErrAccountInUse = errors.New("account has appointment history and cannot be deleted")

	// ErrDuplicateReview: the appointment already carries a review. Enforced
	// by a partial unique index so concurrent submissions cannot double up.
	ErrDuplicateReview = errors.New("this appointment has already been reviewed")
)

// ValidationError marks a malformed or incomplete request, as opposed to a
// well-formed one refused by a booking rule.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) *ValidationError { return &ValidationError{Msg: msg} }
