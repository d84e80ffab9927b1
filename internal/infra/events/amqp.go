package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/streadway/amqp"
)

const (
	DefaultExchange   = "analysis_events"
	RoutingKeyCreated = "analysis.created"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	open     func() (channel, error)
	exchange string
}

// Dial connects to the broker and declares a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare exchange %s: %w", exchange, err)
	}
	p := &Publisher{conn: conn, exchange: exchange}
	p.open = func() (channel, error) { return conn.Channel() }
	return p, nil
}

// PublishCreated sends an analysis.created message. A channel is opened per publish.
func (p *Publisher) PublishCreated(ctx context.Context, ev analysis.CreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := p.open()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.Publish(
		p.exchange, // exchange
		RoutingKeyCreated,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    string(ev.AnalysisID),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
