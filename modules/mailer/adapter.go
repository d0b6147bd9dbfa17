package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// MailerPort defines the interface other modules use to send email.
type MailerPort interface {
	SendVerification(ctx context.Context, recipient, token string) error
}

// MailerAdapter implements MailerPort using the service container.
type MailerAdapter struct {
	container mono.ServiceContainer
}

// NewMailerAdapter creates a new MailerAdapter.
func NewMailerAdapter(container mono.ServiceContainer) *MailerAdapter {
	return &MailerAdapter{
		container: container,
	}
}

// SendVerification asks the mailer module to deliver a verification email.
func (a *MailerAdapter) SendVerification(ctx context.Context, recipient, token string) error {
	req := SendVerificationRequest{Recipient: recipient, Token: token}
	var resp SendVerificationResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"send-verification",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("send-verification request failed: %w", err)
	}

	if !resp.Sent {
		return errors.New(resp.Error)
	}
	return nil
}
