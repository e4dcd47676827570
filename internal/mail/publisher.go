package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends a registration mail towards the delivery worker.
type Publisher interface {
	PublishRegistration(ctx context.Context, m RegistrationMail) error
}

// QueuePublisher publishes persistent JSON messages to the registration
// queue. Connections are short-lived: one dial per publish keeps the
// dispatcher robust against broker restarts between ticks.
type QueuePublisher struct {
	url string
}

// NewQueuePublisher creates a publisher for the given AMQP URL.
func NewQueuePublisher(url string) *QueuePublisher {
	return &QueuePublisher{url: url}
}

// PublishRegistration declares the durable queue (idempotent) and
// publishes the mail as a persistent message.
func (p *QueuePublisher) PublishRegistration(ctx context.Context, m RegistrationMail) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		RegistrationQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		RegistrationQueue, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}
