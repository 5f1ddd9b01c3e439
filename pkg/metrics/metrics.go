package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_sessions_active",
			Help: "Open websocket sessions on this node",
		},
	)

	SessionsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_sessions_closed_total",
			Help: "Closed websocket sessions",
		},
		[]string{"reason"}, // "client", "heartbeat", "slow_consumer", "shutdown"
	)

	// Business metrics
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_messages_sent_total",
			Help: "Messages persisted",
		},
		[]string{"kind"},
	)

	ChatsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_chats_created_total",
			Help: "Chats created",
		},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_notifications_created_total",
			Help: "Notifications persisted",
		},
		[]string{"type"},
	)

	NotificationsPushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_notifications_pushed_total",
			Help: "Notifications pushed to at least one live handle",
		},
	)

	// Ingress metrics
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_consumed_total",
			Help: "Domain events consumed",
		},
		[]string{"driver", "result"}, // result: "ok", "malformed", "failed"
	)

	RelayPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_relay_published_total",
			Help: "Envelopes published to the redis relay",
		},
	)

	// Infrastructure metrics
	StorageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "realtime_storage_latency_seconds",
			Help:    "Mongo operation latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op"},
	)
)
