package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ExchangeName is the topic exchange entry events are published to.
const ExchangeName = "gym.entry.events"

// Publisher forwards serialized events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// channelOpener dials the broker and returns a channel with the exchange
// declared, plus a func closing the underlying connection.
type channelOpener func() (publishChannel, func() error, error)

// RabbitMQPublisher publishes events to RabbitMQ. A closed channel or
// connection is redialed on the next Publish.
type RabbitMQPublisher struct {
	open      channelOpener
	channel   publishChannel
	closeConn func() error
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewRabbitMQPublisher dials url and declares the exchange.
func NewRabbitMQPublisher(url string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	return newRabbitMQPublisher(dialExchange(url), logger)
}

func newRabbitMQPublisher(open channelOpener, logger *zap.Logger) (*RabbitMQPublisher, error) {
	p := &RabbitMQPublisher{open: open, logger: logger}
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	logger.Info("rabbitmq publisher connected", zap.String("exchange", ExchangeName))
	return p, nil
}

func dialExchange(url string) channelOpener {
	return func() (publishChannel, func() error, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open channel: %w", err)
		}

		if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("declare exchange: %w", err)
		}
		return ch, conn.Close, nil
	}
}

func (p *RabbitMQPublisher) connectLocked() error {
	ch, closeConn, err := p.open()
	if err != nil {
		return err
	}
	p.channel, p.closeConn = ch, closeConn
	return nil
}

func (p *RabbitMQPublisher) dropLocked() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.channel, p.closeConn = nil, nil
}

// Publish sends a persistent JSON message with the given routing key.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.dropLocked()
		if err := p.connectLocked(); err != nil {
			p.logger.Error("rabbitmq reconnect failed", zap.Error(err))
			return err
		}
		p.logger.Info("rabbitmq publisher reconnected", zap.String("exchange", ExchangeName))
	}

	err := p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		if errors.Is(err, amqp.ErrClosed) || p.channel.IsClosed() {
			p.dropLocked()
		}
		p.logger.Error("failed to publish entry event", zap.String("routing_key", routingKey), zap.Error(err))
		return err
	}
	return nil
}

// Close closes the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			p.logger.Warn("error closing channel", zap.Error(err))
		}
	}
	if p.closeConn != nil {
		if err := p.closeConn(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	p.channel, p.closeConn = nil, nil
	return errors.Join(errs...)
}
