// Package notify publishes committed balance changes to RabbitMQ.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/warp/labour-ledger/ledger"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements ledger.Notifier over a durable direct exchange.
type Publisher struct {
	conn       *amqp091.Connection
	ch         channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

var _ ledger.Notifier = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url, exchange, routingKey string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, routingKey, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.With("component", "notify"),
	}
}

// BalanceChanged publishes one persistent JSON message per committed change.
func (p *Publisher) BalanceChanged(ctx context.Context, change ledger.BalanceChange) error {
	msg := NewBalanceChangedMessage(change)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			MessageId:    string(change.EventID),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish balance change: %w", err)
	}

	p.logger.DebugContext(ctx, "published balance change",
		"labour_id", change.LabourID,
		"operation", change.Operation,
		"exchange", p.exchange,
		"routing_key", p.routingKey)
	return nil
}

func (p *Publisher) Close() error {
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
