package repository

import (
	"time"

	"talent_realtime_service/pkg/metrics"
)

// mongo collection names
const (
	ChatsCollection         = "chats"
	MessagesCollection      = "chat_messages"
	NotificationsCollection = "notifications"
	CountersCollection      = "counters"
)

// observe record mongo op latency, use as defer observe("op")()
func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.StorageLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
