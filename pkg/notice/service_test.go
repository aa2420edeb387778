package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationLink(t *testing.T) {
	assert.Equal(t, "http://localhost:2024/api/auth/verify/abc", VerificationLink("http://localhost:2024/api/auth/verify/", "abc"))
	assert.Equal(t, "http://localhost:2024/api/auth/verify/abc", VerificationLink("http://localhost:2024/api/auth/verify", "abc"))
}

func TestVerificationNotice(t *testing.T) {
	link := "http://localhost:2024/api/auth/verify/eyJhbGciOiJIUzI1NiJ9.e30.sig"

	n, err := VerificationNotice("a@x.com", link, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", n.To)
	assert.Equal(t, VerifyEmailSubject, n.Subject)
	assert.Contains(t, n.Html, `href="`+link+`"`)
	assert.Contains(t, n.Text, link)
	assert.Contains(t, n.Text, "24 hours")
}
