// Package mailer sends account verification emails over SMTP.
// Sending is best-effort by contract: callers log failures and move on,
// since verification can always be performed manually.
package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"mime/quotedprintable"
	"net/smtp"
	"net/url"
	"os"
	"strings"
	"text/template"
)

// ErrNotConfigured is returned when no SMTP host has been configured.
var ErrNotConfigured = errors.New("smtp transport not configured")

// Config holds SMTP and website settings for outbound email.
type Config struct {
	Host         string
	Port         string
	Username     string
	Password     string
	WebsiteName  string
	WebsiteHost  string
	WebsiteEmail string
}

// LoadConfig loads mailer configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Host:         os.Getenv("EMAIL_HOST"),
		Port:         getenvDefault("EMAIL_PORT", "587"),
		Username:     os.Getenv("EMAIL_HOST_USER"),
		Password:     os.Getenv("EMAIL_HOST_PASSWORD"),
		WebsiteName:  getenvDefault("WEBSITE_NAME", "Todo App"),
		WebsiteHost:  getenvDefault("WEBSITE_HOST", "http://localhost:3000"),
		WebsiteEmail: os.Getenv("WEBSITE_EMAIL"),
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Sender composes and sends verification messages.
type Sender struct {
	config Config
}

// NewSender creates a new Sender with the given configuration.
func NewSender(config Config) *Sender {
	return &Sender{
		config: config,
	}
}

// VerificationURL builds the redemption link embedded in the email.
func (s *Sender) VerificationURL(token string) string {
	return s.config.WebsiteHost + "/account/verify/?token=" + url.QueryEscape(token)
}

// SendVerification composes the verification message for the given token and
// sends it to the recipient.
func (s *Sender) SendVerification(recipient, token string) error {
	link := s.VerificationURL(token)

	text, err := renderTemplate(verificationText, s.config.WebsiteName, link)
	if err != nil {
		return fmt.Errorf("failed to render text body: %w", err)
	}
	html, err := renderTemplate(verificationHTML, s.config.WebsiteName, link)
	if err != nil {
		return fmt.Errorf("failed to render html body: %w", err)
	}

	msg, err := s.ComposeMessage(recipient, "Email Verification", text, html)
	if err != nil {
		return fmt.Errorf("failed to compose message: %w", err)
	}

	return s.send(recipient, msg)
}

// ComposeMessage builds a multipart/alternative message with plain text and
// HTML sections, both quoted-printable encoded.
func (s *Sender) ComposeMessage(recipient, subject, text, html string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.WebsiteName, s.config.Username)
	fmt.Fprintf(&buf, "To: %s\r\n", recipient)
	if s.config.WebsiteEmail != "" {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", s.config.WebsiteEmail)
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: multipart/alternative; boundary=\"SECTION\"\r\n")
	buf.WriteString("\r\n")

	sections := []struct {
		contentType string
		body        string
	}{
		{"text/plain", text},
		{"text/html", html},
	}

	for _, section := range sections {
		buf.WriteString("--SECTION\r\n")
		fmt.Fprintf(&buf, "Content-Type: %s; charset=\"utf-8\"\r\n", section.contentType)
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
		buf.WriteString("Content-Disposition: inline\r\n")
		buf.WriteString("\r\n")

		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(section.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	buf.WriteString("--SECTION--\r\n")

	return buf.Bytes(), nil
}

// send delivers the message through the configured SMTP relay.
// STARTTLS is negotiated when the server advertises it.
func (s *Sender) send(recipient string, msg []byte) error {
	if s.config.Host == "" {
		return ErrNotConfigured
	}

	addr := s.config.Host + ":" + s.config.Port
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	return smtp.SendMail(addr, auth, s.config.Username, []string{recipient}, msg)
}

// renderTemplate executes one of the verification body templates.
func renderTemplate(tmpl *template.Template, websiteName, link string) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, struct {
		WebsiteName string
		URL         string
	}{
		WebsiteName: websiteName,
		URL:         link,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var verificationText = template.Must(template.New("verification_text").Parse(
	`Hi,

Thanks for signing up for {{.WebsiteName}}! Please confirm your email address
by opening the link below:

{{.URL}}

If you did not create this account, you can safely ignore this message.
`))

var verificationHTML = template.Must(template.New("verification_html").Parse(
	`<html>
<body>
<p>Hi,</p>
<p>Thanks for signing up for {{.WebsiteName}}! Please confirm your email
address by clicking the link below:</p>
<p><a href="{{.URL}}">Verify my email</a></p>
<p>If you did not create this account, you can safely ignore this message.</p>
</body>
</html>
`))
