package mailer

import (
	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/pkg/logger"
)

// DevMailer logs the mail instead of sending it. Used when EMAIL_DEV_MODE
// is on or no MailerSend key is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendBookingConfirmation(toEmail, toName string, appt *domain.Appointment) error {
	logger.Info("[DEV MAIL] Booking confirmation",
		"to", toEmail,
		"name", toName,
		"appointment_id", appt.ID,
		"slot", formatSlot(appt),
	)
	return nil
}

func (d *DevMailer) SendCancellationNotice(toEmail, toName string, appt *domain.Appointment) error {
	logger.Info("[DEV MAIL] Cancellation notice",
		"to", toEmail,
		"name", toName,
		"appointment_id", appt.ID,
		"slot", formatSlot(appt),
	)
	return nil
}
