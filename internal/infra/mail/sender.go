package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// ErrNotConfigured is returned when no SMTP host (or no admin address for
// internal alerts) has been set.
var ErrNotConfigured = errors.New("mail: not configured")

type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	FromName   string
	AdminEmail string
	Agency     string
}

// Dialer is the part of *gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers every email the back office produces over SMTP.
type Sender struct {
	cfg    Config
	dialer Dialer
	logger *slog.Logger
}

func NewSender(cfg Config, logger *slog.Logger) *Sender {
	var d Dialer
	if cfg.Host != "" {
		d = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return NewSenderWithDialer(cfg, d, logger)
}

func NewSenderWithDialer(cfg Config, d Dialer, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Agency == "" {
		cfg.Agency = "Agency"
	}
	return &Sender{cfg: cfg, dialer: d, logger: logger}
}

func (s *Sender) Configured() bool {
	return s != nil && s.dialer != nil
}

// Send delivers a rendered outreach message.
func (s *Sender) Send(ctx context.Context, msg entity.Message) error {
	return s.deliver(ctx, msg.To, msg.Subject, msg.Body)
}

func (s *Sender) SendWelcome(ctx context.Context, email string) error {
	body, err := render(templateWelcome, welcomeData{Agency: s.cfg.Agency, Email: email})
	if err != nil {
		return err
	}
	return s.deliver(ctx, email, fmt.Sprintf("Welcome to the %s newsletter", s.cfg.Agency), body)
}

// NotifyNewLead emails the admin address about a freshly captured lead.
func (s *Sender) NotifyNewLead(ctx context.Context, lead entity.Lead) error {
	if s.cfg.AdminEmail == "" {
		return fmt.Errorf("%w: %w: no admin address", entity.ErrSendFailed, ErrNotConfigured)
	}
	body, err := render(templateLeadAlert, leadAlertData{Agency: s.cfg.Agency, Lead: lead})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New lead from %s (%s)", lead.Name, lead.Source)
	return s.deliverWithReplyTo(ctx, s.cfg.AdminEmail, subject, body, lead.Email)
}

// SendStaleLeadDigest emails the admin address the leads that have been
// waiting longer than olderThan. An empty list sends nothing.
func (s *Sender) SendStaleLeadDigest(ctx context.Context, leads []entity.Lead, olderThan time.Duration) error {
	if len(leads) == 0 {
		return nil
	}
	if s.cfg.AdminEmail == "" {
		return fmt.Errorf("%w: %w: no admin address", entity.ErrSendFailed, ErrNotConfigured)
	}
	body, err := render(templateDigest, digestData{Agency: s.cfg.Agency, Age: humanize(olderThan), Leads: leads})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%d lead(s) still waiting for a reply", len(leads))
	return s.deliver(ctx, s.cfg.AdminEmail, subject, body)
}

func (s *Sender) deliver(ctx context.Context, to, subject, body string) error {
	return s.deliverWithReplyTo(ctx, to, subject, body, "")
}

func (s *Sender) deliverWithReplyTo(ctx context.Context, to, subject, body, replyTo string) error {
	if !s.Configured() {
		return fmt.Errorf("%w: %w", entity.ErrSendFailed, ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	if s.cfg.FromName != "" {
		m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	} else {
		m.SetHeader("From", s.cfg.From)
	}
	m.SetHeader("To", to)
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Warn("smtp send failed", "to", to, "error", err)
		return fmt.Errorf("%w: %v", entity.ErrSendFailed, err)
	}
	return nil
}

func humanize(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return d.String()
}
