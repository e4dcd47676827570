package mail

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Consumer reads registration mails off the queue and delivers them
// through a Notifier. Runs in the mailworker binary.
type Consumer struct {
	url      string
	notifier Notifier
	log      zerolog.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewConsumer creates a consumer for the given AMQP URL.
func NewConsumer(url string, n Notifier, log zerolog.Logger) *Consumer {
	return &Consumer{url: url, notifier: n, log: log}
}

// Connect dials the broker and declares the durable queue.
func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(RegistrationQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}
	c.conn = conn
	c.ch = ch
	return nil
}

// Run consumes until the context is cancelled. Delivery failures are
// nacked with requeue so the broker redelivers.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.Consume(RegistrationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handle(d)
		}
	}
}

func (c *Consumer) handle(d amqp.Delivery) {
	var m RegistrationMail
	if err := json.Unmarshal(d.Body, &m); err != nil {
		c.log.Error().Err(err).Msg("malformed registration mail, dropping")
		_ = d.Nack(false, false)
		return
	}
	if err := c.notifier.Notify(m.Email, m.Subject(), m.Body()); err != nil {
		c.log.Error().Err(err).Str("to", m.Email).Msg("mail delivery failed, requeueing")
		_ = d.Nack(false, true)
		return
	}
	c.log.Info().Str("to", m.Email).Uint("user_id", m.UserID).Msg("registration mail delivered")
	_ = d.Ack(false)
}

// Close shuts down the channel and connection.
func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
