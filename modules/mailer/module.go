package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SendVerificationRequest asks the mailer to deliver a verification email.
type SendVerificationRequest struct {
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
}

// SendVerificationResponse reports the outcome of a delivery attempt.
// Failures are reported in the response body, not as errors, so callers can
// log them without the request failing.
type SendVerificationResponse struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// MailerModule provides outbound email as a request-reply service.
type MailerModule struct {
	sender *Sender
	config Config
}

// Compile-time interface checks.
var _ mono.Module = (*MailerModule)(nil)
var _ mono.ServiceProviderModule = (*MailerModule)(nil)

// NewModule creates a new MailerModule with configuration from the environment.
func NewModule() *MailerModule {
	return &MailerModule{
		config: LoadConfig(),
	}
}

// Name returns the module name.
func (m *MailerModule) Name() string {
	return "mailer"
}

// Start initializes the mailer module.
func (m *MailerModule) Start(_ context.Context) error {
	m.sender = NewSender(m.config)

	if m.config.Host == "" {
		log.Println("[mailer] Module started without SMTP transport (EMAIL_HOST not set); sends will be reported as failed")
	} else {
		log.Printf("[mailer] Module started (relay: %s:%s)", m.config.Host, m.config.Port)
	}
	return nil
}

// Stop shuts down the module.
func (m *MailerModule) Stop(_ context.Context) error {
	log.Println("[mailer] Module stopped")
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *MailerModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "send-verification", json.Unmarshal, json.Marshal, m.handleSendVerification,
	); err != nil {
		return fmt.Errorf("failed to register send-verification service: %w", err)
	}

	log.Printf("[mailer] Registered services: send-verification")
	return nil
}

// handleSendVerification delivers a verification email.
func (m *MailerModule) handleSendVerification(_ context.Context, req SendVerificationRequest, _ *mono.Msg) (SendVerificationResponse, error) {
	if req.Recipient == "" || req.Token == "" {
		return SendVerificationResponse{Sent: false, Error: "recipient and token are required"}, nil
	}

	if err := m.sender.SendVerification(req.Recipient, req.Token); err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			log.Printf("[mailer] Failed to send verification email to %s: %v", req.Recipient, err)
		}
		return SendVerificationResponse{Sent: false, Error: err.Error()}, nil
	}

	return SendVerificationResponse{Sent: true}, nil
}
