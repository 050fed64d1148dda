// Package rabbit mirrors committed order status-change events onto a RabbitMQ direct
// exchange so external consumers can follow the order stream. The in-process event bus
// remains the source subscribers inside this service use; the mirror is additive and a
// publish failure never fails the command that produced the event.
package rabbit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the durable direct exchange order events are mirrored to.
const ExchangeName = "order_events"

const (
	reconnectBackoffInitial = time.Second
	reconnectBackoffMax     = 30 * time.Second
	publishTimeout          = 5 * time.Second
)

// Client is a RabbitMQ connector that reconnects in the background when the
// connection or the publish channel drops.
type Client struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	pubChan *amqp.Channel

	closed    chan struct{}
	reconnect chan struct{}
}

// Connect dials RabbitMQ, declares the exchange and starts the reconnect watcher.
func Connect(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if url == "" {
		return nil, errors.New("rabbit: url is required")
	}
	if logger == nil {
		return nil, errors.New("rabbit: logger is required")
	}

	client := &Client{
		url:       url,
		logger:    logger.With("component", "rabbit"),
		closed:    make(chan struct{}),
		reconnect: make(chan struct{}, 1),
	}

	if err := client.connectOnce(); err != nil {
		return nil, fmt.Errorf("rabbit: initial connect: %w", err)
	}

	go client.watch()

	return client, nil
}

// Publish sends one persistent JSON message to the order events exchange.
func (c *Client) Publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.RLock()
	conn := c.conn
	ch := c.pubChan
	c.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return errors.New("rabbit: connection is not open")
	}
	if ch == nil || ch.IsClosed() {
		return errors.New("rabbit: publish channel is not open")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(ctx,
		ExchangeName, routingKey, false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

// Close stops the watcher and closes the channel and connection.
func (c *Client) Close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubChan != nil {
		_ = c.pubChan.Close()
		c.pubChan = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) connectOnce() error {
	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	// consumers declare and bind their own queues; only the exchange lives here
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	if c.pubChan != nil {
		_ = c.pubChan.Close()
	}
	c.pubChan = ch
	c.mu.Unlock()

	go func() {
		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-c.closed:
			return
		case <-connClosed:
		case <-chClosed:
		}
		select {
		case c.reconnect <- struct{}{}:
		default:
		}
	}()

	c.logger.Info("connected", "exchange", ExchangeName)
	return nil
}

func (c *Client) watch() {
	backoff := reconnectBackoffInitial
	for {
		select {
		case <-c.closed:
			return
		case <-c.reconnect:
			for {
				select {
				case <-c.closed:
					return
				default:
				}

				if err := c.connectOnce(); err == nil {
					backoff = reconnectBackoffInitial
					break
				} else {
					c.logger.Error("reconnect failed", "error", err, "retry_in", backoff)
				}

				time.Sleep(backoff)
				backoff *= 2
				if backoff > reconnectBackoffMax {
					backoff = reconnectBackoffMax
				}
			}
		}
	}
}
