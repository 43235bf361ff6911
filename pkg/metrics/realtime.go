package metrics

import "github.com/prometheus/client_golang/prometheus"

// RealtimeMetrics tracks the websocket hub and the community features fed by it.
type RealtimeMetrics struct {
	connections prometheus.Gauge
	events      *prometheus.CounterVec
	dropped     prometheus.Counter
	online      prometheus.Gauge
	messages    prometheus.Counter
}

// NewRealtimeMetrics registers the realtime collectors on reg. A nil registerer
// yields a no-op recorder.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	if reg == nil {
		return &RealtimeMetrics{}
	}
	m := &RealtimeMetrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_connections",
			Help:      "Open websocket connections.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_total",
			Help:      "Events broadcast to websocket clients by type.",
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_dropped_clients_total",
			Help:      "Clients disconnected because their send buffer was full.",
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "presence_online_users",
			Help:      "Users seen within the presence window at the last load.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Chat messages accepted.",
		}),
	}
	reg.MustRegister(m.connections, m.events, m.dropped, m.online, m.messages)
	return m
}

func (m *RealtimeMetrics) ConnectionOpened() {
	if m == nil || m.connections == nil {
		return
	}
	m.connections.Inc()
}

func (m *RealtimeMetrics) ConnectionClosed() {
	if m == nil || m.connections == nil {
		return
	}
	m.connections.Dec()
}

func (m *RealtimeMetrics) EventBroadcast(eventType string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func (m *RealtimeMetrics) ClientDropped() {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.Inc()
}

func (m *RealtimeMetrics) SetOnlineUsers(n int) {
	if m == nil || m.online == nil {
		return
	}
	m.online.Set(float64(n))
}

func (m *RealtimeMetrics) ChatMessageSent() {
	if m == nil || m.messages == nil {
		return
	}
	m.messages.Inc()
}
