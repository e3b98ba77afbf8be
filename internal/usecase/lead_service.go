package usecase

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// LeadInput is the payload for creating a lead. Empty Source means manual
// entry and empty Status means new.
type LeadInput struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone,omitempty"`
	Company  string            `json:"company,omitempty"`
	Service  string            `json:"service,omitempty"`
	Message  string            `json:"message,omitempty"`
	Budget   string            `json:"budget,omitempty"`
	Timeline string            `json:"timeline,omitempty"`
	Source   entity.LeadSource `json:"source,omitempty"`
	Status   entity.LeadStatus `json:"status,omitempty"`
}

// LeadUpdate overrides only the fields that are set. ID, CreatedAt and
// UpdatedAt are never taken from the caller.
type LeadUpdate struct {
	ID       string             `json:"id"`
	Name     *string            `json:"name,omitempty"`
	Email    *string            `json:"email,omitempty"`
	Phone    *string            `json:"phone,omitempty"`
	Company  *string            `json:"company,omitempty"`
	Service  *string            `json:"service,omitempty"`
	Message  *string            `json:"message,omitempty"`
	Budget   *string            `json:"budget,omitempty"`
	Timeline *string            `json:"timeline,omitempty"`
	Source   *entity.LeadSource `json:"source,omitempty"`
	Status   *entity.LeadStatus `json:"status,omitempty"`
}

// Apply merges u onto lead field by field.
func (u LeadUpdate) Apply(lead entity.Lead) entity.Lead {
	setString(&lead.Name, u.Name)
	setString(&lead.Email, u.Email)
	setString(&lead.Phone, u.Phone)
	setString(&lead.Company, u.Company)
	setString(&lead.Service, u.Service)
	setString(&lead.Message, u.Message)
	setString(&lead.Budget, u.Budget)
	setString(&lead.Timeline, u.Timeline)
	if u.Source != nil {
		lead.Source = *u.Source
	}
	if u.Status != nil {
		lead.Status = *u.Status
	}
	return lead
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// LeadService manages sales prospects.
type LeadService struct {
	store    entity.RecordStore[entity.Lead]
	notifier LeadNotifier
	effects  *SideEffects
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewLeadService(store entity.RecordStore[entity.Lead], notifier LeadNotifier, effects *SideEffects, logger *slog.Logger) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}
	if effects == nil {
		effects = NewSideEffects(logger)
	}
	return &LeadService{
		store:    store,
		notifier: notifier,
		effects:  effects,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *LeadService) List(ctx context.Context) ([]entity.Lead, error) {
	leads, err := s.store.Load(ctx)
	if err != nil {
		return nil, storageError("load leads", err)
	}
	return leads, nil
}

func (s *LeadService) Create(ctx context.Context, input LeadInput) (entity.Lead, error) {
	lead := entity.Lead{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		Company:  strings.TrimSpace(input.Company),
		Service:  strings.TrimSpace(input.Service),
		Message:  strings.TrimSpace(input.Message),
		Budget:   strings.TrimSpace(input.Budget),
		Timeline: strings.TrimSpace(input.Timeline),
		Source:   input.Source,
		Status:   input.Status,
	}
	if lead.Source == "" {
		lead.Source = entity.LeadSourceManual
	}
	if lead.Status == "" {
		lead.Status = entity.LeadStatusNew
	}
	if errs := ValidateLead(lead); len(errs) > 0 {
		return entity.Lead{}, invalidInput(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.store.Load(ctx)
	if err != nil {
		return entity.Lead{}, storageError("load leads", err)
	}

	now := s.now().UTC()
	lead.ID = timestampID(now, func(id string) bool {
		for _, l := range leads {
			if l.ID == id {
				return true
			}
		}
		return false
	})
	lead.CreatedAt = now
	lead.UpdatedAt = now
	leads = append(leads, lead)

	if err := s.store.Save(ctx, leads); err != nil {
		return entity.Lead{}, storageError("save leads", err)
	}

	s.logger.Info("lead created", "id", lead.ID, "source", lead.Source)

	if s.notifier != nil {
		s.effects.Go(ctx, "lead-alert", lead.Email, func(ctx context.Context) error {
			return s.notifier.NotifyNewLead(ctx, lead)
		})
	}

	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, update LeadUpdate) (entity.Lead, error) {
	if update.ID == "" {
		return entity.Lead{}, invalidInput([]ValidationError{{"id", "is required"}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.store.Load(ctx)
	if err != nil {
		return entity.Lead{}, storageError("load leads", err)
	}

	idx := -1
	for i, l := range leads {
		if l.ID == update.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entity.Lead{}, notFound("lead", update.ID)
	}

	existing := leads[idx]
	lead := update.Apply(existing)
	if errs := ValidateLead(lead); len(errs) > 0 {
		return entity.Lead{}, invalidInput(errs)
	}
	lead.UpdatedAt = nextAfter(existing.UpdatedAt, s.now().UTC())
	leads[idx] = lead

	if err := s.store.Save(ctx, leads); err != nil {
		return entity.Lead{}, storageError("save leads", err)
	}

	if lead.Status != existing.Status {
		s.logger.Info("lead status changed", "id", lead.ID, "from", existing.Status, "to", lead.Status)
	}
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.store.Load(ctx)
	if err != nil {
		return storageError("load leads", err)
	}

	kept := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(leads) {
		return notFound("lead", id)
	}

	if err := s.store.Save(ctx, kept); err != nil {
		return storageError("save leads", err)
	}

	s.logger.Info("lead deleted", "id", id)
	return nil
}

// Stale returns leads still in status new that were created more than
// olderThan ago, oldest first.
func (s *LeadService) Stale(ctx context.Context, olderThan time.Duration) ([]entity.Lead, error) {
	leads, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().Add(-olderThan)
	var stale []entity.Lead
	for _, l := range leads {
		if l.Status == entity.LeadStatusNew && l.CreatedAt.Before(cutoff) {
			stale = append(stale, l)
		}
	}
	slices.SortStableFunc(stale, func(a, b entity.Lead) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return stale, nil
}
