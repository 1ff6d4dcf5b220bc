package messaging

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is published whenever an entity changes in a way other systems care
// about (dashboards, notification jobs).
type Event struct {
	Type       string    `json:"type"`   // e.g. "assignment.saved", "student.created"
	Entity     string    `json:"entity"` // collection name
	EntityID   int       `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(eventType, entity string, entityID int) Event {
	return Event{
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher is what domain services depend on; the NATS producer implements
// it. Services treat a nil publisher as "events disabled".
type Publisher interface {
	Publish(event Event) error
}

type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewProducer(url string, subject string, logger *slog.Logger) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
	}, nil
}

func (p *Producer) Publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", "error", err)
		return err
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Error("failed to publish event to NATS", "error", err, "type", event.Type)
		return err
	}

	p.logger.Info("event published", "subject", p.subject, "type", event.Type, "entity_id", event.EntityID)
	return nil
}

func (p *Producer) Close() error {
	p.conn.Close()
	return nil
}
