package usecase

import (
	"context"
	"log/slog"
	"time"
)

const DefaultStaleLeadAge = 72 * time.Hour

// StaleLeadDigest collects leads still in status new past a cutoff and hands
// them to a DigestSender in one message.
type StaleLeadDigest struct {
	leads     *LeadService
	sender    DigestSender
	olderThan time.Duration
	logger    *slog.Logger
}

func NewStaleLeadDigest(leads *LeadService, sender DigestSender, olderThan time.Duration, logger *slog.Logger) *StaleLeadDigest {
	if olderThan <= 0 {
		olderThan = DefaultStaleLeadAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StaleLeadDigest{leads: leads, sender: sender, olderThan: olderThan, logger: logger}
}

// Run sends one digest and returns how many leads it listed. Nothing is sent
// when no lead qualifies.
func (d *StaleLeadDigest) Run(ctx context.Context) (int, error) {
	stale, err := d.leads.Stale(ctx, d.olderThan)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		d.logger.Debug("no stale leads")
		return 0, nil
	}
	if d.sender == nil {
		d.logger.Warn("stale leads found but no digest sender configured", "count", len(stale))
		return len(stale), nil
	}
	if err := d.sender.SendStaleLeadDigest(ctx, stale, d.olderThan); err != nil {
		return 0, err
	}
	d.logger.Info("stale lead digest sent", "count", len(stale))
	return len(stale), nil
}
