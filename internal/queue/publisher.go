package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const bookingConfirmedQueue = "booking.confirmed"

// Publisher pushes domain events onto RabbitMQ. Publishing is best
// effort: every error is logged and returned so callers can choose to
// ignore failures without interrupting the request flow.
type Publisher struct {
	url    string
	logger *log.Logger
}

// NewPublisher returns a Publisher dialing the given AMQP URL. A nil
// *Publisher is valid and publishes nothing.
func NewPublisher(url string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{url: url, logger: logger}
}

// PublishBookingConfirmed sends event to the booking.confirmed queue as a
// persistent JSON message. The queue is declared durable on every call so
// publishing is safe against broker restarts and cold starts.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	if p == nil {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		bookingConfirmedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		p.logger.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", bookingConfirmedQueue, false, false, pub); err != nil {
		p.logger.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
