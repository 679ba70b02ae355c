package mailer

// Service notifies hosts about registry activity. Guest-facing messaging
// (WhatsApp, push) is handled by an external collaborator off the event bus;
// only host email lives here.
type Service interface {
	SendRSVPNotification(toEmail, toName, guestName, status string, companions int) error
	SendEventCreatedEmail(toEmail, toName, eventTitle, publicLink string) error
}
