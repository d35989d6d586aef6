package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventHandler processes one trigger event. A returned error requeues the
// delivery once; a redelivered event that fails again is dropped so a
// poison message cannot wedge the queue.
type EventHandler func(job *TriggerEventJob) error

// Consumer consumes trigger events from RabbitMQ
type Consumer struct {
	conn      *Connection
	queueName string
	handler   EventHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewConsumer creates a new consumer instance
func NewConsumer(conn *Connection, queueName string, handler EventHandler) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	// Same settings as the publisher: durable, non-auto-delete
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

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start starts consuming trigger events from the queue
func (c *Consumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	// One event at a time; dispatch is DB-bound, prefetching buys nothing
	err = ch.Qos(1, 0, false)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual acknowledgement)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				log.Println("Consumer stopping...")
				return
			case d, ok := <-msgs:
				if !ok {
					log.Println("Delivery channel closed")
					return
				}

				if err := c.processDelivery(d); err != nil {
					log.Printf("Error processing trigger event: %v", err)
					// Requeue once; drop on redelivery to avoid poison loops
					d.Nack(false, !d.Redelivered)
				} else {
					d.Ack(false)
				}
			}
		}
	}()

	log.Printf("Consumer started, listening on queue: %s", c.queueName)
	return nil
}

// Stop stops consuming gracefully, waiting for the in-flight event
func (c *Consumer) Stop() error {
	close(c.stopChan)

	select {
	case <-c.doneChan:
		return nil
	case <-time.After(30 * time.Second):
		return errors.New("timed out waiting for consumer to stop")
	}
}

// processDelivery parses and handles one delivery
func (c *Consumer) processDelivery(d amqp.Delivery) error {
	var job TriggerEventJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		// A malformed body will never parse; ack it away via nil error path
		log.Printf("Dropping malformed trigger event: %v", err)
		return nil
	}

	return c.handler(&job)
}
