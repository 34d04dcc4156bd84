package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/lib/service"
)

// EventStreamController : Event stream controller struct
type EventStreamController struct {
	svc *service.MinthubService
}

func NewEventStreamController(svc *service.MinthubService) *EventStreamController {
	return &EventStreamController{svc: svc}
}

type StreamEventWrapper struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// StreamEvents godoc
// @Summary      Stream service events
// @Description  Streams issuance and admin events over a websocket
// @Tags         Events
// @Success      200
// @Router       /v2/events [get]
func (controller *EventStreamController) StreamEvents(c echo.Context) error {
	// Buffered so a client that falls behind drops events instead of
	// stalling the publisher.
	eventChan := make(chan service.Event, 16)
	subId, err := controller.svc.EventPubSub.Subscribe(common.EventTopicAll, eventChan)
	if err != nil {
		return err
	}
	upgrader := websocket.Upgrader{}
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		controller.svc.EventPubSub.Unsubscribe(subId, common.EventTopicAll)
		return err
	}
	defer ws.Close()

	//start listening for close messages
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, _, err := ws.ReadMessage()
			if err != nil {
				return
			}
		}
	}()

	//start with keepalive message
	err = ws.WriteJSON(&StreamEventWrapper{Type: "keepalive"})
	if err != nil {
		controller.svc.Logger.Error(err)
		controller.svc.EventPubSub.Unsubscribe(subId, common.EventTopicAll)
		return err
	}
SocketLoop:
	for {
		select {
		case <-done:
			break SocketLoop
		case <-ticker.C:
			err := ws.WriteJSON(&StreamEventWrapper{Type: "keepalive"})
			if err != nil {
				controller.svc.Logger.Error(err)
				break SocketLoop
			}
		case event := <-eventChan:
			err := ws.WriteJSON(&StreamEventWrapper{
				Type:    event.Type,
				Payload: event.Payload,
			})
			if err != nil {
				controller.svc.Logger.Error(err)
				break SocketLoop
			}
		}
	}
	controller.svc.EventPubSub.Unsubscribe(subId, common.EventTopicAll)
	return nil
}
