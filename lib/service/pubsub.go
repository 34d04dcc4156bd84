package service

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// Event is what subscribers receive: the event kind plus a kind-specific
// payload (see events.go).
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan Event
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan Event)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan Event) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan Event)
	}
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	subId = hex.EncodeToString(idBytes)
	ps.subs[topic][subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		// A subscriber that stopped draining its channel must not stall the
		// publisher (Publish runs on the mint path); drop the event instead.
		select {
		case ch <- msg:
		default:
		}
	}
}
