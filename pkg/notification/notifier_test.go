package notification

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockNotifier(t *testing.T) {
	m := &MockNotifier{}
	require.NoError(t, m.Send(context.Background(), NotificationData{To: "a@x.com", Subject: "s"}))
	require.Len(t, m.Sent(), 1)
	assert.Equal(t, "a@x.com", m.Sent()[0].To)

	m.Err = errors.New("smtp down")
	assert.Error(t, m.Send(context.Background(), NotificationData{To: "b@x.com"}))
	assert.Len(t, m.Sent(), 1)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Send(context.Background(), NotificationData{
		To:      "a@x.com",
		Subject: "Verify your email",
		Text:    "http://localhost/verify/secret-token",
		Html:    "<a href=\"http://localhost/verify/secret-token\">verify</a>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "Verify your email")
	assert.NotContains(t, buf.String(), "secret-token")

	assert.Error(t, n.Send(context.Background(), NotificationData{}))
}

func TestEmailNotifier_Validation(t *testing.T) {
	n, err := NewEmailNotifier(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@example.com"})
	require.NoError(t, err)

	err = n.Send(context.Background(), NotificationData{Subject: "no recipient", Text: "x"})
	assert.Error(t, err)

	err = n.Send(context.Background(), NotificationData{To: "a@x.com", Subject: "no body"})
	assert.Error(t, err)
}
