package mailer

import (
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

// DevMailer logs instead of sending. Default outside production.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendRSVPNotification(toEmail, toName, guestName, status string, companions int) error {
	logger.Info("[DEV MAIL] RSVP notification",
		"to", toEmail,
		"host", toName,
		"guest", guestName,
		"status", status,
		"companions", companions,
	)
	return nil
}

func (d *DevMailer) SendEventCreatedEmail(toEmail, toName, eventTitle, publicLink string) error {
	logger.Info("[DEV MAIL] Event created",
		"to", toEmail,
		"host", toName,
		"event", eventTitle,
		"public_link", publicLink,
	)
	return nil
}
