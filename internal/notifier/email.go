package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/mail"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/pkg/config"
)

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	Host       string   `yaml:"host"`       // SMTP server host
	Port       int      `yaml:"port"`       // 465 for implicit TLS, 587 for STARTTLS
	Username   string   `yaml:"username"`   // optional
	Password   string   `yaml:"password"`   // optional
	From       string   `yaml:"from"`       // "Name <address>" or a bare address
	Recipients []string `yaml:"recipients"` // defaults to the current user's email
	BaseURL    string   `yaml:"base_url"`   // prefix for notification links
}

// Validate validates the email configuration.
func (c *EmailConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SMTP port is required")
	}
	if c.From == "" {
		return fmt.Errorf("from address is required")
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", c.From, err)
	}
	for _, r := range c.Recipients {
		if _, err := mail.ParseAddress(r); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", r, err)
		}
	}
	return nil
}

// EmailNotifier mails notifications to the workspace user.
type EmailNotifier struct {
	config     EmailConfig
	templates  *Templates
	recipients func() []string
	dial       func() (gomail.SendCloser, error)
}

// NewEmailNotifier creates a new email notifier. recipients, when non-nil,
// supplies the addresses used when the config lists none.
func NewEmailNotifier(cfg EmailConfig, recipients func() []string) (*EmailNotifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}
	if len(cfg.Recipients) == 0 && recipients == nil {
		return nil, fmt.Errorf("invalid email config: at least one recipient is required")
	}

	templates, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &EmailNotifier{
		config:     cfg,
		templates:  templates,
		recipients: recipients,
		dial:       dialer.Dial,
	}, nil
}

// Name returns "email".
func (e *EmailNotifier) Name() string {
	return ChannelEmail
}

// Send mails n to the configured recipients. The connection is opened per
// notification; ctx is checked before dialing.
func (e *EmailNotifier) Send(ctx context.Context, n *models.Notification) error {
	rcpts := e.rcpts()
	if len(rcpts) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg, err := e.message(n, rcpts)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := e.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer s.Close()

	if err := gomail.Send(s, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// message renders n as a plain text message with an HTML alternative.
func (e *EmailNotifier) message(n *models.Notification, rcpts []string) (*gomail.Message, error) {
	data := NotificationToTemplateData(n, e.config.BaseURL)

	htmlBody, err := e.templates.RenderHTML(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	plainBody, err := e.templates.RenderPlain(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to render plain template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.config.From)
	m.SetHeader("To", rcpts...)
	m.SetHeader("Subject", fmt.Sprintf("[%s] CollabHub: %s", strings.ToUpper(string(n.Type)), n.Title))
	m.SetHeader("X-Mailer", config.UserAgent())
	m.SetHeader("Auto-Submitted", "auto-generated")
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m, nil
}

func (e *EmailNotifier) rcpts() []string {
	if len(e.config.Recipients) > 0 {
		return e.config.Recipients
	}
	if e.recipients != nil {
		return e.recipients()
	}
	return nil
}

// Close is a no-op; connections do not outlive Send.
func (e *EmailNotifier) Close() error {
	return nil
}
