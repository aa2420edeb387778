package notification

import "context"

// NotificationData is a fully rendered message for one recipient.
type NotificationData struct {
	To      string // Recipient address
	Subject string
	Text    string // Plain text body, optional when Html is set
	Html    string // HTML body, optional when Text is set
}

// Notifier delivers a rendered message. Send blocks until the message has
// been handed to the transport or the context is done.
type Notifier interface {
	Send(ctx context.Context, notification NotificationData) error
}
