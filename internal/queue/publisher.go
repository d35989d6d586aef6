package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventsQueueName is the durable queue carrying trigger events from the
// web application to the automation worker
const EventsQueueName = "automation_events"

// TriggerEventJob is the wire form of one business event awaiting dispatch
type TriggerEventJob struct {
	Event       string            `json:"event"`
	LeadID      string            `json:"lead_id,omitempty"`
	CustomerID  string            `json:"customer_id,omitempty"`
	TriggeredBy string            `json:"triggered_by,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
}

// Publisher publishes trigger events to RabbitMQ
type Publisher struct {
	conn      *Connection
	queueName string
}

// NewPublisher creates a new publisher and declares the durable queue
func NewPublisher(conn *Connection, queueName string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{conn: conn, queueName: queueName}, nil
}

// PublishEvent publishes a trigger event job to the queue
func (p *Publisher) PublishEvent(job *TriggerEventJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if job.Event == "" {
		return errors.New("event name cannot be empty")
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.Publish(
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish trigger event: %w", err)
	}

	return nil
}

// Close closes the publisher (no-op, connection managed externally)
func (p *Publisher) Close() error {
	return nil
}
