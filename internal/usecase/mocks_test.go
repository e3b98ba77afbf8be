package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) NotifyNewLead(ctx context.Context, lead entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockWelcomeSender struct {
	mock.Mock
}

func (m *MockWelcomeSender) SendWelcome(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) Send(ctx context.Context, msg entity.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// brokenStore fails every Load or Save with ErrStorageUnavailable.
type brokenStore[T any] struct {
	failLoad bool
	failSave bool
	records  []T
}

func (s *brokenStore[T]) Load(ctx context.Context) ([]T, error) {
	if s.failLoad {
		return nil, fmt.Errorf("%w: disk on fire", entity.ErrStorageUnavailable)
	}
	return append([]T(nil), s.records...), nil
}

func (s *brokenStore[T]) Save(ctx context.Context, records []T) error {
	if s.failSave {
		return fmt.Errorf("%w: disk full", entity.ErrStorageUnavailable)
	}
	s.records = records
	return nil
}

// stepClock advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock(start time.Time, step time.Duration) *stepClock {
	return &stepClock{t: start, step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockDigestSender struct {
	mock.Mock
}

func (m *MockDigestSender) SendStaleLeadDigest(ctx context.Context, leads []entity.Lead, olderThan time.Duration) error {
	args := m.Called(ctx, leads, olderThan)
	return args.Error(0)
}
