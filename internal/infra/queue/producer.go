package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

const EventLeadCreated = "lead.created"

// LeadEvent is the message body published for every new lead.
type LeadEvent struct {
	EventID    string      `json:"event_id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Lead       entity.Lead `json:"lead"`
}

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// LeadEventProducer turns new-lead alerts into RabbitMQ messages so the
// email goes out from the worker instead of the request path.
type LeadEventProducer struct {
	pub Publisher
	now func() time.Time
}

func NewLeadEventProducer(pub Publisher) *LeadEventProducer {
	return &LeadEventProducer{pub: pub, now: time.Now}
}

func (p *LeadEventProducer) NotifyNewLead(ctx context.Context, lead entity.Lead) error {
	event := LeadEvent{
		EventID:    uuid.NewString(),
		Type:       EventLeadCreated,
		OccurredAt: p.now().UTC(),
		Lead:       lead,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode lead event: %w", err)
	}

	err = p.pub.PublishWithContext(ctx,
		ExchangeName,
		RoutingKeyLeadCreated,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead event: %w", err)
	}
	return nil
}
