package mailer

import (
	"time"

	"github.com/glambook/glambook-api/internal/domain"
)

// Mailer sends booking lifecycle mail. Implementations must be safe for
// concurrent use; callers treat send failures as non-fatal.
type Mailer interface {
	SendBookingConfirmation(toEmail, toName string, appt *domain.Appointment) error
	SendCancellationNotice(toEmail, toName string, appt *domain.Appointment) error
}

func formatSlot(appt *domain.Appointment) string {
	const layout = "Mon, 02 Jan 2006 15:04"
	return appt.StartTime.UTC().Format(layout) + " - " + appt.EndTime.UTC().Format(layout+" MST")
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}
