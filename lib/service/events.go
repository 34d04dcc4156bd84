package service

import (
	"context"

	"github.com/getsentry/sentry-go"

	"github.com/avatarlabs/minthub.go/common"
)

type MintIssuedEvent struct {
	ID             int64  `json:"id"`
	Payer          string `json:"payer"`
	Instrument     string `json:"instrument"`
	AmountTendered string `json:"amount_tendered"`
	UsdValuePaid   string `json:"usd_value_paid"`
	PaymentTxRef   string `json:"payment_tx_ref"`
}

type WebpageUpdatedEvent struct {
	URI string `json:"uri"`
}

type TokenSupportAddedEvent struct {
	Instrument string `json:"instrument"`
	Feed       string `json:"feed"`
}

// publishEvent fans the event out to in-process subscribers and, when
// configured, to the RabbitMQ exchange. Publishing happens after commit, so a
// slow or broken broker can never undo an issuance; broker errors are logged
// and reported, not propagated.
func (svc *MinthubService) publishEvent(ctx context.Context, eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload}
	svc.EventPubSub.Publish(eventType, event)
	svc.EventPubSub.Publish(common.EventTopicAll, event)

	if svc.RabbitMQClient != nil {
		if err := svc.RabbitMQClient.PublishEvent(ctx, eventType, event); err != nil {
			sentry.CaptureException(err)
			svc.Logger.Errorf("Failed to publish %s event to rabbitmq: %v", eventType, err)
		}
	}
}
