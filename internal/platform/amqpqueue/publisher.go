// Package amqpqueue implements the jobs.Publisher interface on top of a
// RabbitMQ topic exchange.
package amqpqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"

	"github.com/phrazzld/cloudtask-api/internal/config"
	"github.com/phrazzld/cloudtask-api/internal/jobs"
)

// Publisher publishes notification messages to a durable topic exchange.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *slog.Logger
}

var _ jobs.Publisher = (*Publisher)(nil)

// NewPublisher connects to the broker, opens a channel and declares the
// configured topic exchange.
// If logger is nil, a default logger will be used.
func NewPublisher(cfg config.QueueConfig, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp091.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger.With(slog.String("component", "amqp_publisher")),
	}, nil
}

// Publish implements jobs.Publisher. Messages are persistent so they
// survive a broker restart.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %q: %w", p.exchange, err)
	}

	p.logger.Debug("message published",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", routingKey))
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
