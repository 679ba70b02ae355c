package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
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

func (m *MailerSendClient) SendRSVPNotification(toEmail, toName, guestName, status string, companions int) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("%s has responded to your invitation", guestName)
	html := fmt.Sprintf(`
		<h2>New RSVP</h2>
		<p>Hi %s,</p>
		<p><strong>%s</strong> responded: <strong>%s</strong></p>
		<p>Companions: <strong>%d</strong></p>
	`, toName, guestName, status, companions)

	text := fmt.Sprintf("%s responded: %s (companions: %d)", guestName, status, companions)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendEventCreatedEmail(toEmail, toName, eventTitle, publicLink string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Your event %q is live", eventTitle)
	html := fmt.Sprintf(`
		<h2>Your event is ready</h2>
		<p>Hi %s,</p>
		<p>Share this link with your guests so they can RSVP:</p>
		<p><a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Invitation Page</a></p>
	`, toName, publicLink)

	text := fmt.Sprintf("Your event %q is live. Share this RSVP link with your guests: %s", eventTitle, publicLink)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
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

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
