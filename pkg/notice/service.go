package notice

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/tendant/simple-account/pkg/notification"
)

const VerifyEmailSubject = "Verify your email"

//go:embed templates/*
var templateFiles embed.FS

var (
	verifyEmailHtml = htmltemplate.Must(htmltemplate.ParseFS(templateFiles, "templates/email/verify_email.html"))
	verifyEmailText = texttemplate.Must(texttemplate.ParseFS(templateFiles, "templates/email/verify_email.txt"))
)

type verifyEmailData struct {
	VerificationLink string
	ExpiryHours      string
}

// VerificationLink joins the public verify endpoint and a raw token.
func VerificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/" + token
}

// VerificationNotice renders the verification email for one recipient.
func VerificationNotice(to, link string, expiry time.Duration) (notification.NotificationData, error) {
	data := verifyEmailData{
		VerificationLink: link,
		ExpiryHours:      fmt.Sprintf("%.0f", expiry.Hours()),
	}

	var html bytes.Buffer
	if err := verifyEmailHtml.Execute(&html, data); err != nil {
		return notification.NotificationData{}, fmt.Errorf("failed to render html template: %w", err)
	}

	var text bytes.Buffer
	if err := verifyEmailText.Execute(&text, data); err != nil {
		return notification.NotificationData{}, fmt.Errorf("failed to render text template: %w", err)
	}

	return notification.NotificationData{
		To:      to,
		Subject: VerifyEmailSubject,
		Text:    text.String(),
		Html:    html.String(),
	}, nil
}
