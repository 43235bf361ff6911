package enums

// RealtimeEventType names the frames pushed over the websocket channel.
type RealtimeEventType string

const (
	RealtimeChatMessageCreated RealtimeEventType = "chat.message.created"
	RealtimeChatMessageDeleted RealtimeEventType = "chat.message.deleted"
	RealtimeChatCleared        RealtimeEventType = "chat.cleared"
	RealtimeChatPruned         RealtimeEventType = "chat.pruned"
	RealtimePresenceUpdated    RealtimeEventType = "presence.updated"
	RealtimeHeartbeat          RealtimeEventType = "heartbeat"
)

// String implements fmt.Stringer.
func (r RealtimeEventType) String() string {
	return string(r)
}
