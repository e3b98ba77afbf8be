package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// LeadNotifier raises the "new lead" alert for the sales team.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead entity.Lead) error
}

// WelcomeSender greets a new or returning newsletter subscriber.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email string) error
}

// MessageSender delivers one rendered message.
type MessageSender interface {
	Send(ctx context.Context, msg entity.Message) error
}

// ChatCompleter returns the assistant reply for a conversation.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}

// DigestSender reports leads nobody has followed up on.
type DigestSender interface {
	SendStaleLeadDigest(ctx context.Context, leads []entity.Lead, olderThan time.Duration) error
}
