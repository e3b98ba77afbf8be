package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

var errMalformed = errors.New("malformed lead event")

// LeadNotifier delivers the alert once the event has been consumed.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead entity.Lead) error
}

// Consumer is satisfied by *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type LeadAlertWorker struct {
	ch       Consumer
	notifier LeadNotifier
	logger   *slog.Logger
}

func NewLeadAlertWorker(ch Consumer, notifier LeadNotifier, logger *slog.Logger) *LeadAlertWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadAlertWorker{ch: ch, notifier: notifier, logger: logger}
}

// Start consumes QueueName until ctx is done or the delivery channel closes.
// Failed and malformed messages are nacked without requeue and end up in
// the dead-letter queue.
func (w *LeadAlertWorker) Start(ctx context.Context) error {
	msgs, err := w.ch.Consume(QueueName, "lead-alert-worker", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.logger.Info("lead alert worker started", "queue", QueueName)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("lead alert worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.process(ctx, d)
		}
	}
}

func (w *LeadAlertWorker) process(ctx context.Context, d amqp.Delivery) {
	if err := w.handle(ctx, d.Body); err != nil {
		w.logger.Warn("lead alert failed", "message_id", d.MessageId, "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			w.logger.Error("nack failed", "error", nackErr)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		w.logger.Error("ack failed", "error", err)
	}
}

func (w *LeadAlertWorker) handle(ctx context.Context, body []byte) error {
	var event LeadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	switch event.Type {
	case EventLeadCreated:
		if event.Lead.Email == "" {
			return fmt.Errorf("%w: lead without email", errMalformed)
		}
		w.logger.Info("sending lead alert", "lead_id", event.Lead.ID, "event_id", event.EventID)
		return w.notifier.NotifyNewLead(ctx, event.Lead)
	default:
		// Unknown types are acked so they do not pile up.
		w.logger.Warn("ignoring unknown event type", "type", event.Type)
		return nil
	}
}
