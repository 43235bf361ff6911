// Package realtime fans server events out to websocket clients, optionally
// relayed through Redis pub/sub so every API instance sees every event.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

// Event is the frame pushed to clients.
type Event struct {
	Type enums.RealtimeEventType `json:"type"`
	Data json.RawMessage         `json:"data,omitempty"`
	At   time.Time               `json:"at"`
}

// Publisher delivers events to every connected client.
type Publisher interface {
	Publish(ctx context.Context, eventType enums.RealtimeEventType, data any) error
}

// NewEvent encodes data into an event stamped with at.
func NewEvent(eventType enums.RealtimeEventType, data any, at time.Time) (Event, error) {
	evt := Event{Type: eventType, At: at.UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
		}
		evt.Data = raw
	}
	return evt, nil
}

func encode(evt Event) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return payload, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, enums.RealtimeEventType, any) error { return nil }
