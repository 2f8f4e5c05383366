package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/validation"
	"github.com/resend/resend-go/v2"
)

// EmailService sends notification emails through Resend.
// In development nothing leaves the process: the rendered email is logged instead.
type EmailService struct {
	client    *resend.Client
	renderer  *emailRenderer
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) (*EmailService, error) {
	renderer, err := newEmailRenderer()
	if err != nil {
		return nil, err
	}

	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		renderer:  renderer,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}, nil
}

func (s *EmailService) SendGoalNotification(ctx context.Context, recipient *model.User, n *model.Notification, goal *model.Goal) error {
	err := validation.ValidateEmail(recipient.Email)
	if err != nil {
		return fmt.Errorf("recipient %s: %w", recipient.ID, err)
	}

	email, err := s.renderer.render(n.Type, newEmailData(s.appName, s.appURL, recipient, n, goal))
	if err != nil {
		return err
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", n.Type, "to", recipient.Email, "subject", email.Subject, "goal_id", goal.ID)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{recipient.Email},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Tags: []resend.Tag{
			{Name: "notification_type", Value: string(n.Type)},
		},
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent", "type", n.Type, "to", recipient.Email, "email_id", sent.Id)
	return nil
}
