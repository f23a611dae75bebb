package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// Queue carrying account-lifecycle events. The HTTP side publishes, a
// consumer goroutine in main turns events into outgoing email.
const userEventsQueue = "user_events"

// Event types.
const (
	EventUserRegistered = "user.registered"
	EventUserDeleted    = "user.deleted"
)

// UserEvent is one account-lifecycle event on the wire.
type UserEvent struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the
// user-events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		userEventsQueue, // name
		true,            // durable (persists messages across broker restarts)
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", userEventsQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared", userEventsQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishUserEvent publishes one account-lifecycle event, marshaled to JSON.
func (c *Client) PublishUserEvent(event UserEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	err = c.channel.Publish(
		"",              // exchange: default exchange
		userEventsQueue, // routing key: the queue name
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish user event: %w", err)
	}

	log.Printf(" [x] Sent user event: %s", body)
	return nil
}

// NotifyWelcome implements services.Notifier by publishing a registration
// event for the mail consumer.
func (c *Client) NotifyWelcome(email, name string) error {
	return c.PublishUserEvent(UserEvent{Type: EventUserRegistered, Email: email, Name: name})
}

// NotifyCancellation implements services.Notifier by publishing a deletion
// event for the mail consumer.
func (c *Client) NotifyCancellation(email, name string) error {
	return c.PublishUserEvent(UserEvent{Type: EventUserDeleted, Email: email, Name: name})
}

// ConsumeUserEvents registers a consumer on the user-events queue and feeds
// each decoded event to messageHandler on a background goroutine. Messages
// are acked on success and nacked back onto the queue on handler error.
func (c *Client) ConsumeUserEvents(messageHandler func(event UserEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		userEventsQueue, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: manual acknowledgement
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			var event UserEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				log.Printf("Dropping malformed user event %d: %v", msg.DeliveryTag, err)
				// Malformed payloads never become valid; don't requeue.
				if nackErr := msg.Nack(false, false); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if err := messageHandler(event); err != nil {
				log.Printf("Error processing user event %d: %v", msg.DeliveryTag, err)
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
			} else {
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
				}
			}
		}
	}()

	return nil
}
