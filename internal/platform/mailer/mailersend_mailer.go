package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/glambook/glambook-api/internal/domain"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSendClient) send(toEmail, toName, subject, text, html string) error {
	if !m.enabled {
		return errors.New("mailer disabled (missing MAILERSEND_API_KEY or EMAIL_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (m *MailerSendClient) SendBookingConfirmation(toEmail, toName string, appt *domain.Appointment) error {
	subject := "Your GlamBook appointment is booked"
	text := fmt.Sprintf("Hi %s, your appointment is booked for %s.", toName, formatSlot(appt))
	html := fmt.Sprintf(`<p>Hi %s,</p><p>Your appointment is booked for <b>%s</b>.</p>`, toName, formatSlot(appt))
	return m.send(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendCancellationNotice(toEmail, toName string, appt *domain.Appointment) error {
	subject := "Your GlamBook appointment was cancelled"
	text := fmt.Sprintf("Hi %s, your appointment on %s has been cancelled.", toName, formatDate(appt.StartTime))
	html := fmt.Sprintf(`<p>Hi %s,</p><p>Your appointment on <b>%s</b> has been cancelled.</p>`, toName, formatDate(appt.StartTime))
	return m.send(toEmail, toName, subject, text, html)
}
