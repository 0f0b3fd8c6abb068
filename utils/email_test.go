package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetPasswordTemplate(t *testing.T) {
	link := "http://localhost:5173/reset-password?token=abc123"
	html := ResetPasswordTemplate(link)

	assert.Contains(t, html, link)
	assert.Contains(t, html, "Password Reset Request")
	assert.Contains(t, html, "expire in 1 hour")
}
