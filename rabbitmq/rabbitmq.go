package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of
// heap memory: instead of allocating fresh buffers for every published event
// we reuse them across publishes.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const contentTypeJSON = "application/json"

// Client publishes minting lifecycle events (issuances, registry changes,
// metadata updates) to a topic exchange, keyed by event type.
type Client interface {
	PublishEvent(ctx context.Context, routingKey string, payload interface{}) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqp AMQPClient

	logger *lecho.Logger

	mintExchange string

	declareOnce sync.Once
	declareErr  error
}

type ClientOption = func(client *DefaultClient)

func WithMintExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.mintExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqp: amqpClient,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),
		mintExchange: "minthub_mint",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqp.Close() }

func (client *DefaultClient) declareExchange() error {
	client.declareOnce.Do(func() {
		client.declareErr = client.amqp.ExchangeDeclare(
			client.mintExchange,
			// topic allows routing events to different queues based on a routing key
			"topic",
			// Durable and Non-Auto-Deleted exchanges will survive server restarts
			// and remain declared when there are no remaining bindings.
			true,
			false,
			// Non-Internal exchanges accept direct publishing
			false,
			// Nowait: we want a server response confirming the declare
			false,
			nil,
		)
	})
	return client.declareErr
}

func (client *DefaultClient) PublishEvent(ctx context.Context, routingKey string, payload interface{}) error {
	if err := client.declareExchange(); err != nil {
		captureErr(client.logger, err)
		return err
	}

	buf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(buf)
	buf.Reset()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return err
	}

	err := client.amqp.PublishWithContext(ctx,
		client.mintExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        buf.Bytes(),
		},
	)
	if err != nil {
		captureErr(client.logger, err)
		return err
	}

	client.logger.Debugf("Successfully published %s event to rabbitmq", routingKey)

	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
