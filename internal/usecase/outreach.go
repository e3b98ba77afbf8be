package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// DefaultOutreachDelay spaces bulk sends to stay under provider rate limits.
const DefaultOutreachDelay = 5 * time.Second

// OutreachDispatcher renders outreach emails and delivers them one at a time.
type OutreachDispatcher struct {
	sender MessageSender
	agency string
	from   string
	logger *slog.Logger
}

func NewOutreachDispatcher(sender MessageSender, agency, senderName string, logger *slog.Logger) *OutreachDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutreachDispatcher{
		sender: sender,
		agency: agency,
		from:   senderName,
		logger: logger,
	}
}

// Render builds the message a recipient would receive.
func (d *OutreachDispatcher) Render(templateName string, r entity.Recipient) (entity.Message, error) {
	tmpl, err := lookupOutreachTemplate(templateName)
	if err != nil {
		return entity.Message{}, err
	}
	return d.render(tmpl, r)
}

func (d *OutreachDispatcher) render(tmpl outreachTemplate, r entity.Recipient) (entity.Message, error) {
	data := OutreachData{
		Name:    strings.TrimSpace(r.Name),
		Company: strings.TrimSpace(r.Company),
		Agency:  d.agency,
		Sender:  d.from,
	}
	if data.Name == "" {
		data.Name = fallbackName
	}
	if data.Company == "" {
		data.Company = fallbackCompany
	}

	subject, body, err := tmpl.render(data)
	if err != nil {
		return entity.Message{}, err
	}
	return entity.Message{To: strings.TrimSpace(r.Email), Subject: subject, Body: body}, nil
}

// SendOne delivers a single outreach email. Delivery failures are reported
// in the result, not as an error.
func (d *OutreachDispatcher) SendOne(ctx context.Context, templateName string, r entity.Recipient) (entity.OutreachResult, error) {
	tmpl, err := lookupOutreachTemplate(templateName)
	if err != nil {
		return entity.OutreachResult{}, err
	}
	if !isValidEmail(strings.TrimSpace(r.Email)) {
		return entity.OutreachResult{}, invalidInput([]ValidationError{{"email", "is invalid"}})
	}
	return d.deliver(ctx, tmpl, r), nil
}

// SendBulk delivers to every recipient in order, waiting delay between
// consecutive recipients. An unknown template fails the batch before any
// send. One recipient's failure never stops the batch.
//
// If ctx is cancelled the remaining recipients are reported as failed and
// ctx.Err() is returned alongside the full result list.
func (d *OutreachDispatcher) SendBulk(ctx context.Context, recipients []entity.Recipient, templateName string, delay time.Duration) ([]entity.OutreachResult, error) {
	tmpl, err := lookupOutreachTemplate(templateName)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, invalidInput([]ValidationError{{"leads", "at least one recipient is required"}})
	}
	if delay < 0 {
		return nil, invalidInput([]ValidationError{{"delay", "must not be negative"}})
	}

	d.logger.Info("outreach batch started", "template", templateName, "recipients", len(recipients), "delay", delay)

	results := make([]entity.OutreachResult, 0, len(recipients))
	for i, r := range recipients {
		if err := ctx.Err(); err != nil {
			results = appendCancelled(results, recipients[i:], err)
			return results, err
		}

		results = append(results, d.deliver(ctx, tmpl, r))

		if i < len(recipients)-1 {
			if err := sleep(ctx, delay); err != nil {
				results = appendCancelled(results, recipients[i+1:], err)
				return results, err
			}
		}
	}

	sent := CountSent(results)
	d.logger.Info("outreach batch finished", "template", templateName, "sent", sent, "failed", len(results)-sent)
	return results, nil
}

func (d *OutreachDispatcher) deliver(ctx context.Context, tmpl outreachTemplate, r entity.Recipient) entity.OutreachResult {
	email := strings.TrimSpace(r.Email)
	if !isValidEmail(email) {
		return entity.OutreachResult{Email: r.Email, Success: false, Error: "invalid email address"}
	}

	msg, err := d.render(tmpl, r)
	if err != nil {
		return entity.OutreachResult{Email: email, Success: false, Error: err.Error()}
	}

	if d.sender == nil {
		return entity.OutreachResult{Email: email, Success: false, Error: entity.ErrSendFailed.Error() + ": no sender configured"}
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("outreach send failed", "email", email, "error", err)
		return entity.OutreachResult{Email: email, Success: false, Error: err.Error()}
	}

	d.logger.Debug("outreach sent", "email", email)
	return entity.OutreachResult{Email: email, Success: true}
}

// CountSent returns the number of successful results.
func CountSent(results []entity.OutreachResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

func appendCancelled(results []entity.OutreachResult, rest []entity.Recipient, cause error) []entity.OutreachResult {
	msg := "not sent: " + cause.Error()
	if errors.Is(cause, context.Canceled) {
		msg = "not sent: batch cancelled"
	}
	for _, r := range rest {
		results = append(results, entity.OutreachResult{Email: r.Email, Success: false, Error: msg})
	}
	return results
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("outreach wait: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
