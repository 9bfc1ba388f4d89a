package ws

import (
	"time"

	"github.com/eadcode/OnlineDatingApp/internal/observability"
)

const wsRoutingKey = "ws_events.chats"

type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	UserAgent   string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func wsEnvelope(event string, chatID int, info ConnInfo, elapsed time.Duration, reason string) observability.EventEnvelope {
	return observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"kind":        chatKind,
				"resource_id": chatID,
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": elapsed.Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":    info.UserID,
				"device_id":  info.DeviceID,
				"ip":         info.IP,
				"user_agent": info.UserAgent,
			},
		},
	}
}
