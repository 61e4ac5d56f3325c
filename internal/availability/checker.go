package availability

import (
	"time"

	"github.com/glambook/glambook-api/internal/domain"
)

// Check decides whether the slot [start, end) may be booked for a specialist.
// windows are the specialist's business-hours entries (any weekday; entries
// for other weekdays are ignored), existing the appointments already on the
// book. Both times must be UTC; callers normalize before reaching here.
//
// Returns nil when the slot is bookable, domain.ErrOutsideBusinessHours or
// domain.ErrSlotConflict otherwise. Read-only: the storage-level exclusion
// constraint is what makes the subsequent insert race-safe, this check only
// gives callers a friendly rejection before they pay for a write.
func Check(windows []domain.BusinessHours, existing []domain.Appointment, start, end time.Time) error {
	if !WithinBusinessHours(windows, start) {
		return domain.ErrOutsideBusinessHours
	}
	if ConflictsAny(existing, start, end) {
		return domain.ErrSlotConflict
	}
	return nil
}

// WithinBusinessHours reports whether start falls inside at least one window
// for its weekday. Comparison is minute-granular and half-open: a start equal
// to the open minute is inside, a start equal to the close minute is not.
func WithinBusinessHours(windows []domain.BusinessHours, start time.Time) bool {
	weekday := int(start.Weekday())
	minute := start.Hour()*60 + start.Minute()

	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		if minute >= w.OpenMinute && minute < w.CloseMinute {
			return true
		}
	}
	return false
}

// ConflictsAny reports whether [start, end] overlaps any live appointment.
// The comparison is inclusive on both endpoints: back-to-back slots that
// share an endpoint conflict. Cancelled appointments never block a slot.
func ConflictsAny(existing []domain.Appointment, start, end time.Time) bool {
	for _, a := range existing {
		if a.Status == domain.AppointmentCancelled {
			continue
		}
		if Overlaps(a.StartTime, a.EndTime, start, end) {
			return true
		}
	}
	return false
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect,
// endpoints included: aStart <= bEnd && aEnd >= bStart.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
