package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (p *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return p.err
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewLead(ctx context.Context, lead entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// ackRecorder stands in for the broker side of a delivery.
type ackRecorder struct {
	mu       sync.Mutex
	acks     []uint64
	nacks    []uint64
	requeued []bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks = append(a.nacks, tag)
	a.requeued = append(a.requeued, requeue)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeConsumer struct {
	msgs chan amqp.Delivery
	err  error
}

func (c *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.msgs, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProducerPublishesLeadEvent(t *testing.T) {
	pub := &fakePublisher{}
	p := NewLeadEventProducer(pub)
	p.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	lead := entity.Lead{ID: "1772442000000", Name: "Ana", Email: "ana@acme.io", Source: entity.LeadSourceChatbot}
	require.NoError(t, p.NotifyNewLead(context.Background(), lead))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKeyLeadCreated, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var event LeadEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &event))
	assert.Equal(t, EventLeadCreated, event.Type)
	assert.Equal(t, pub.msg.MessageId, event.EventID)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, lead.ID, event.Lead.ID)
	assert.Equal(t, lead.Email, event.Lead.Email)
}

func TestProducerWrapsPublishError(t *testing.T) {
	p := NewLeadEventProducer(&fakePublisher{err: amqp.ErrClosed})
	err := p.NotifyNewLead(context.Background(), entity.Lead{Email: "ana@acme.io"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorkerHandle(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyNewLead", mock.Anything, mock.MatchedBy(func(l entity.Lead) bool {
		return l.Email == "ana@acme.io"
	})).Return(nil).Once()

	w := NewLeadAlertWorker(nil, notifier, quietLogger())

	body, _ := json.Marshal(LeadEvent{EventID: "e1", Type: EventLeadCreated, Lead: entity.Lead{Email: "ana@acme.io"}})
	require.NoError(t, w.handle(context.Background(), body))

	assert.ErrorIs(t, w.handle(context.Background(), []byte("{not json")), errMalformed)

	body, _ = json.Marshal(LeadEvent{EventID: "e2", Type: EventLeadCreated})
	assert.ErrorIs(t, w.handle(context.Background(), body), errMalformed)

	body, _ = json.Marshal(LeadEvent{EventID: "e3", Type: "lead.deleted"})
	assert.NoError(t, w.handle(context.Background(), body))

	notifier.AssertExpectations(t)
}

func TestWorkerAcksAndNacks(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyNewLead", mock.Anything, mock.MatchedBy(func(l entity.Lead) bool {
		return l.Email == "fail@acme.io"
	})).Return(errors.New("smtp down"))
	notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(nil)

	acker := &ackRecorder{}
	msgs := make(chan amqp.Delivery, 3)
	delivery := func(tag uint64, email string) amqp.Delivery {
		body, _ := json.Marshal(LeadEvent{Type: EventLeadCreated, Lead: entity.Lead{Email: email}})
		return amqp.Delivery{Acknowledger: acker, DeliveryTag: tag, Body: body}
	}
	msgs <- delivery(1, "ok@acme.io")
	msgs <- delivery(2, "fail@acme.io")
	msgs <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 3, Body: []byte("garbage")}
	close(msgs)

	w := NewLeadAlertWorker(&fakeConsumer{msgs: msgs}, notifier, quietLogger())
	err := w.Start(context.Background())
	require.Error(t, err, "closed channel stops the worker")

	assert.Equal(t, []uint64{1}, acker.acks)
	assert.Equal(t, []uint64{2, 3}, acker.nacks)
	assert.Equal(t, []bool{false, false}, acker.requeued)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	w := NewLeadAlertWorker(&fakeConsumer{msgs: make(chan amqp.Delivery)}, new(MockNotifier), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerConsumeError(t *testing.T) {
	w := NewLeadAlertWorker(&fakeConsumer{err: amqp.ErrClosed}, new(MockNotifier), quietLogger())
	assert.ErrorIs(t, w.Start(context.Background()), amqp.ErrClosed)
}
