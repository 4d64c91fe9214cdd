// Package service provides the publisher that ships domain events to
// RabbitMQ.  Publishing is best effort: errors are returned so callers can
// log them, but they never interrupt the request that produced the event.
package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/tenant-notes/internal/queue"
)

// EventPublisher ships a NoteEvent to whatever transport backs it.
type EventPublisher interface {
    Publish(ctx context.Context, ev q.NoteEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.NoteEvent) error { return nil }

// NewEvent fills in the id and timestamp of an event.
func NewEvent(typ, tenantSlug string, userID uint64) q.NoteEvent {
    return q.NoteEvent{
        ID:         uuid.NewString(),
        Type:       typ,
        TenantSlug: tenantSlug,
        UserID:     userID,
        OccurredAt: time.Now().UTC(),
    }
}

// AMQPPublisher publishes events to the durable notes.events queue.  A new
// connection is dialled per event, which keeps the publisher stateless at
// the cost of throughput.
type AMQPPublisher struct {
    URL string
}

// defaultDialTimeout applies when ctx carries no deadline.
const defaultDialTimeout = 5 * time.Second

// dialTimeout derives the connect and handshake timeout from ctx so a broker
// that accepts TCP but never answers cannot outlast the caller's deadline.
func dialTimeout(ctx context.Context) time.Duration {
    deadline, ok := ctx.Deadline()
    if !ok {
        return defaultDialTimeout
    }
    if d := time.Until(deadline); d > 0 {
        return d
    }
    return time.Millisecond
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish marshals ev and publishes it as a persistent message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.NoteEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(dialTimeout(ctx)),
    })
    if err != nil {
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.QueueName, // name
        true,        // durable
        false,       // autoDelete
        false,       // exclusive
        false,       // noWait
        nil,         // args
    ); err != nil {
        return err
    }

    return ch.PublishWithContext(ctx,
        "",          // default exchange
        q.QueueName, // routing key = queue name
        false,       // mandatory
        false,       // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            MessageId:    ev.ID,
            Type:         ev.Type,
            Timestamp:    ev.OccurredAt,
            Body:         body,
        },
    )
}
