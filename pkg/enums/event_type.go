package enums

import "fmt"

// EventType classifies calendar events.
type EventType string

const (
	EventTypeGeneral     EventType = "general"
	EventTypeHarvest     EventType = "harvest"
	EventTypePlanting    EventType = "planting"
	EventTypeMeeting     EventType = "meeting"
	EventTypeDelivery    EventType = "delivery"
	EventTypeMarket      EventType = "market"
	EventTypeTraining    EventType = "training"
	EventTypeMaintenance EventType = "maintenance"
)

// EventTypeInfo is the display metadata of an event type.
type EventTypeInfo struct {
	Type  EventType `json:"type"`
	Label string    `json:"label"`
	Color string    `json:"color"`
	Icon  string    `json:"icon"`
}

var eventTypeCatalog = []EventTypeInfo{
	{Type: EventTypeGeneral, Label: "General", Color: "#6c757d", Icon: "📋"},
	{Type: EventTypeHarvest, Label: "Harvest", Color: "#28a745", Icon: "🌾"},
	{Type: EventTypePlanting, Label: "Planting", Color: "#20c997", Icon: "🌱"},
	{Type: EventTypeMeeting, Label: "Meeting", Color: "#007bff", Icon: "🤝"},
	{Type: EventTypeDelivery, Label: "Delivery", Color: "#ffc107", Icon: "🚚"},
	{Type: EventTypeMarket, Label: "Market Day", Color: "#fd7e14", Icon: "🛒"},
	{Type: EventTypeTraining, Label: "Training", Color: "#6f42c1", Icon: "📚"},
	{Type: EventTypeMaintenance, Label: "Maintenance", Color: "#dc3545", Icon: "🔧"},
}

// EventTypes returns the display catalog in presentation order.
func EventTypes() []EventTypeInfo {
	out := make([]EventTypeInfo, len(eventTypeCatalog))
	copy(out, eventTypeCatalog)
	return out
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventType.
func (e EventType) IsValid() bool {
	_, ok := e.Info()
	return ok
}

// Info returns the display metadata for the type.
func (e EventType) Info() (EventTypeInfo, bool) {
	for _, info := range eventTypeCatalog {
		if info.Type == e {
			return info, true
		}
	}
	return EventTypeInfo{}, false
}

// ParseEventType converts raw input into an EventType.
func ParseEventType(value string) (EventType, error) {
	candidate := EventType(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
