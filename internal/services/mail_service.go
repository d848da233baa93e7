package services

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Mailer sends outbound mail. Satisfied by MailService; tests substitute a
// recording fake.
type Mailer interface {
	SendPasswordReset(ctx context.Context, recipient, resetURL string) error
}

// MailService delivers transactional mail through Resend.
type MailService struct {
	client *resend.Client
	sender string
}

// NewMailService creates a new MailService
func NewMailService(apiKey, sender string) *MailService {
	return &MailService{
		client: resend.NewClient(apiKey),
		sender: sender,
	}
}

// SendPasswordReset sends the reset link to the recipient. A delivery failure
// is returned as an error and must never be reported to the caller as success.
func (m *MailService) SendPasswordReset(ctx context.Context, recipient, resetURL string) error {
	params := &resend.SendEmailRequest{
		From:    m.sender,
		To:      []string{recipient},
		Subject: "Password Reset Request",
		Html: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; color: #333;">
			  <p>Hi,</p>
			  <p>You requested a password reset for your account. Click the button below to reset your password. The link will expire in <strong>10 minutes</strong>.</p>
			  <p><a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 15px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
			  <p>If you did not request this, please ignore this email.</p>
			</div>`, resetURL),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
