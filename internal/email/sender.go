package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// Sender abstracts email delivery so the notifier and handlers never depend
// on the Resend client directly.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type resendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) Sender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *resendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
