package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

const DefaultSubscriberSource = "website"

const (
	ReasonSubscribed        = "subscribed"
	ReasonReactivated       = "reactivated"
	ReasonAlreadySubscribed = "already subscribed"
	ReasonUnsubscribed      = "unsubscribed"
	ReasonNotFound          = "not found"
)

// SubscriptionResult reports how a subscribe or unsubscribe request was
// resolved. A false Success is an expected outcome, not an error.
type SubscriptionResult struct {
	Success    bool                         `json:"success"`
	Reason     string                       `json:"message"`
	Subscriber *entity.NewsletterSubscriber `json:"subscriber,omitempty"`
}

// SubscriberService manages the newsletter list. Subscribers are never
// deleted; unsubscribing flips their status.
type SubscriberService struct {
	store   entity.RecordStore[entity.NewsletterSubscriber]
	welcome WelcomeSender
	effects *SideEffects
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

func NewSubscriberService(store entity.RecordStore[entity.NewsletterSubscriber], welcome WelcomeSender, effects *SideEffects, logger *slog.Logger) *SubscriberService {
	if logger == nil {
		logger = slog.Default()
	}
	if effects == nil {
		effects = NewSideEffects(logger)
	}
	return &SubscriberService{
		store:   store,
		welcome: welcome,
		effects: effects,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SubscriberService) List(ctx context.Context) ([]entity.NewsletterSubscriber, error) {
	subs, err := s.store.Load(ctx)
	if err != nil {
		return nil, storageError("load subscribers", err)
	}
	return subs, nil
}

// Active returns only subscribers whose status is active.
func (s *SubscriberService) Active(ctx context.Context) ([]entity.NewsletterSubscriber, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]entity.NewsletterSubscriber, 0, len(subs))
	for _, sub := range subs {
		if sub.Status == entity.SubscriberActive {
			active = append(active, sub)
		}
	}
	return active, nil
}

func (s *SubscriberService) Subscribe(ctx context.Context, email, source string) (SubscriptionResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return SubscriptionResult{}, invalidInput([]ValidationError{{"email", "is required"}})
	}
	if !isValidEmail(email) {
		return SubscriptionResult{}, invalidInput([]ValidationError{{"email", "is invalid"}})
	}
	if source == "" {
		source = DefaultSubscriberSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.store.Load(ctx)
	if err != nil {
		return SubscriptionResult{}, storageError("load subscribers", err)
	}

	now := s.now().UTC()
	var result SubscriptionResult

	if idx := indexByEmail(subs, email); idx >= 0 {
		if subs[idx].Status == entity.SubscriberActive {
			return SubscriptionResult{Success: false, Reason: ReasonAlreadySubscribed}, nil
		}
		subs[idx].Status = entity.SubscriberActive
		subs[idx].SubscribedAt = now
		sub := subs[idx]
		result = SubscriptionResult{Success: true, Reason: ReasonReactivated, Subscriber: &sub}
	} else {
		sub := entity.NewsletterSubscriber{
			ID: timestampID(now, func(id string) bool {
				for _, existing := range subs {
					if existing.ID == id {
						return true
					}
				}
				return false
			}),
			Email:        email,
			SubscribedAt: now,
			Status:       entity.SubscriberActive,
			Source:       source,
		}
		subs = append(subs, sub)
		result = SubscriptionResult{Success: true, Reason: ReasonSubscribed, Subscriber: &sub}
	}

	if err := s.store.Save(ctx, subs); err != nil {
		return SubscriptionResult{}, storageError("save subscribers", err)
	}

	s.logger.Info("newsletter subscription", "email", email, "result", result.Reason)

	if s.welcome != nil {
		s.effects.Go(ctx, "welcome", email, func(ctx context.Context) error {
			return s.welcome.SendWelcome(ctx, email)
		})
	}

	return result, nil
}

func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) (SubscriptionResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return SubscriptionResult{}, invalidInput([]ValidationError{{"email", "is required"}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.store.Load(ctx)
	if err != nil {
		return SubscriptionResult{}, storageError("load subscribers", err)
	}

	idx := indexByEmail(subs, email)
	if idx < 0 {
		return SubscriptionResult{Success: false, Reason: ReasonNotFound}, nil
	}

	subs[idx].Status = entity.SubscriberUnsubscribed
	if err := s.store.Save(ctx, subs); err != nil {
		return SubscriptionResult{}, storageError("save subscribers", err)
	}

	s.logger.Info("newsletter unsubscribe", "email", email)
	sub := subs[idx]
	return SubscriptionResult{Success: true, Reason: ReasonUnsubscribed, Subscriber: &sub}, nil
}

func indexByEmail(subs []entity.NewsletterSubscriber, email string) int {
	for i, sub := range subs {
		if normalizeEmail(sub.Email) == email {
			return i
		}
	}
	return -1
}
