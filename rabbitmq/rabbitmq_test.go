package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/ziflex/lecho/v3"
)

type fakeAMQP struct {
	declared   []string
	published  []amqp.Publishing
	routingKey string
	failWith   error
}

func (f *fakeAMQP) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.routingKey = key
	body := make([]byte, len(msg.Body))
	copy(body, msg.Body)
	msg.Body = body
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeAMQP) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeAMQP) Close() error { return nil }

func TestPublishEvent(t *testing.T) {
	fake := &fakeAMQP{}
	client, err := NewClient(fake, WithMintExchange("test_mint"))
	assert.NoError(t, err)

	payload := map[string]interface{}{"type": "mint.issued", "id": 1}
	assert.NoError(t, client.PublishEvent(context.Background(), "mint.issued", payload))
	// The exchange is declared once, lazily.
	assert.NoError(t, client.PublishEvent(context.Background(), "mint.issued", payload))

	assert.Equal(t, []string{"test_mint:topic"}, fake.declared)
	assert.Len(t, fake.published, 2)
	assert.Equal(t, "mint.issued", fake.routingKey)
	assert.Equal(t, contentTypeJSON, fake.published[0].ContentType)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(fake.published[0].Body, &decoded))
	assert.Equal(t, "mint.issued", decoded["type"])
}

func TestReconnectionLoopSurvivesRepeatedDisconnects(t *testing.T) {
	first := make(chan *amqp.Error)
	second := make(chan *amqp.Error)

	client := &defaultAMQPClient{
		logger:          lecho.New(os.Stdout, lecho.WithLevel(log.INFO)),
		notifyCloseChan: first,
	}
	var dials int32
	client.dial = func() error {
		// A successful dial installs a fresh notify channel, exactly like
		// connect does.
		if atomic.AddInt32(&dials, 1) == 1 {
			client.notifyCloseChan = second
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		client.reconnectionLoop()
		close(done)
	}()

	first <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "broker restart"}
	// A second disconnect arrives on the replacement channel; the loop must
	// still be watching and dial again.
	second <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "broker restart"}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&dials) == 2 }, time.Second, 10*time.Millisecond)

	// Graceful close stops the loop.
	close(second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconnection loop did not stop after shutdown")
	}
}

func TestPublishEventError(t *testing.T) {
	fake := &fakeAMQP{failWith: errors.New("broker gone")}
	client, err := NewClient(fake)
	assert.NoError(t, err)

	assert.Error(t, client.PublishEvent(context.Background(), "mint.issued", struct{}{}))
}
