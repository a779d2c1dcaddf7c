package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers transactional mail through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("InternMatch", from),
	}
}

// SendWelcome greets a newly registered user.
func (m *SendGridMailer) SendWelcome(ctx context.Context, email, username string) error {
	subject := "Welcome to InternMatch"
	to := mail.NewEmail(username, email)

	plainTextContent := fmt.Sprintf("Hi %s, your account is ready. Log in to browse the latest opportunities.", username)
	htmlContent := fmt.Sprintf("<p>Hi <strong>%s</strong>, your account is ready. Log in to browse the latest opportunities.</p>",
		html.EscapeString(username))

	message := mail.NewSingleEmail(m.from, subject, to, plainTextContent, htmlContent)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("send welcome email: sendgrid status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
