// Package notification delivers rendered messages to an external address.
//
// Notifier is the single interface; EmailNotifier sends over SMTP with
// go-mail, LogNotifier logs the message for local development, and
// MockNotifier records messages for tests.
//
//	notifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
//	    Host: "smtp.example.com",
//	    Port: 587,
//	    TLS:  true,
//	    From: "noreply@example.com",
//	})
//	if err != nil {
//	    return err
//	}
//	err = notifier.Send(ctx, notification.NotificationData{
//	    To:      "a@x.com",
//	    Subject: "Verify your email",
//	    Html:    "<p>...</p>",
//	})
//
// Rendering subjects and bodies from templates is the job of pkg/notice.
package notification
