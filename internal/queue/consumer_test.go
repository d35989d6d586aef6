package queue

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsumerValidation(t *testing.T) {
	handler := func(job *TriggerEventJob) error { return nil }

	_, err := NewConsumer(nil, EventsQueueName, handler)
	require.Error(t, err)

	_, err = NewConsumer(&Connection{}, "", handler)
	require.Error(t, err)

	_, err = NewConsumer(&Connection{}, EventsQueueName, nil)
	require.Error(t, err)
}

func TestProcessDeliveryInvokesHandler(t *testing.T) {
	var received *TriggerEventJob
	c := &Consumer{handler: func(job *TriggerEventJob) error {
		received = job
		return nil
	}}

	body := []byte(`{"event": "lead_created", "lead_id": "lead-1", "data": {"email": "dana@example.com"}}`)
	require.NoError(t, c.processDelivery(amqp.Delivery{Body: body}))

	require.NotNil(t, received)
	assert.Equal(t, "lead_created", received.Event)
	assert.Equal(t, "lead-1", received.LeadID)
	assert.Equal(t, "dana@example.com", received.Data["email"])
}

func TestProcessDeliveryDropsMalformedBody(t *testing.T) {
	c := &Consumer{handler: func(job *TriggerEventJob) error {
		t.Fatal("handler must not run for a malformed body")
		return nil
	}}

	// A body that will never parse is acked away, not requeued forever
	assert.NoError(t, c.processDelivery(amqp.Delivery{Body: []byte("not json")}))
}

func TestProcessDeliveryPropagatesHandlerError(t *testing.T) {
	handlerErr := errors.New("dispatch failed")
	c := &Consumer{handler: func(job *TriggerEventJob) error {
		return handlerErr
	}}

	err := c.processDelivery(amqp.Delivery{Body: []byte(`{"event": "lead_created"}`)})
	assert.ErrorIs(t, err, handlerErr)
}
