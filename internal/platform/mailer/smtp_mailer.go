package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/glambook/glambook-api/internal/domain"
)

// SMTPMailer targets Mailpit in development or a plain SMTP relay. For
// authenticated production sending use the MailerSend client instead.
type SMTPMailer struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		From: strings.TrimSpace(from),
		User: strings.TrimSpace(user),
		Pass: strings.TrimSpace(pass),
	}
}

func (s *SMTPMailer) SendBookingConfirmation(toEmail, toName string, appt *domain.Appointment) error {
	subject := "Your GlamBook appointment is booked"
	text := fmt.Sprintf("Hi %s, your appointment is booked for %s.", toName, formatSlot(appt))
	html := fmt.Sprintf(`<p>Hi %s,</p><p>Your appointment is booked for <b>%s</b>.</p>`, toName, formatSlot(appt))
	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendCancellationNotice(toEmail, toName string, appt *domain.Appointment) error {
	subject := "Your GlamBook appointment was cancelled"
	text := fmt.Sprintf("Hi %s, your appointment on %s has been cancelled.", toName, formatDate(appt.StartTime))
	html := fmt.Sprintf(`<p>Hi %s,</p><p>Your appointment on <b>%s</b> has been cancelled.</p>`, toName, formatDate(appt.StartTime))
	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	return smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes())
}
