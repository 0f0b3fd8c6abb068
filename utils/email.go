// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, textContent, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPasswordResetEmail sends the password reset link to the user.
func (es *EmailService) SendPasswordResetEmail(toEmail, resetLink string) error {
	subject := "Password Reset Request"
	textContent := fmt.Sprintf("Click this link to reset your password: %s", resetLink)
	return es.SendEmail(toEmail, subject, textContent, ResetPasswordTemplate(resetLink))
}

// ResetPasswordTemplate renders the HTML body of the reset email.
func ResetPasswordTemplate(resetLink string) string {
	return fmt.Sprintf(`
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #333;">Password Reset Request</h2>
    <p>You have requested to reset your password. Click the link below to proceed:</p>
    <a href="%s"
       style="display: inline-block; padding: 10px 20px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0;">
      Reset Password
    </a>
    <p>If you did not request this password reset, please ignore this email.</p>
    <p>This link will expire in 1 hour.</p>
    <hr style="border: 1px solid #eee; margin: 20px 0;">
    <p style="color: #666; font-size: 12px;">This is an automated message, please do not reply.</p>
  </div>`, resetLink)
}
