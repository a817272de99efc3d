package web

import (
	"encoding/json"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/tracker"
)

// WSEvent represents a structured WebSocket message
type WSEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ApplicationEventMessage encodes event as a WSEvent.
func ApplicationEventMessage(event tracker.Event) []byte {
	b, err := json.Marshal(WSEvent{Type: event.Type, Payload: event})
	if err != nil {
		logger.Get().Error().Err(err).Msg("marshal websocket event")
		return nil
	}
	return b
}

// BroadcastApplicationEvent implements tracker.Broadcaster.
func (h *Hub) BroadcastApplicationEvent(event tracker.Event) {
	if msg := ApplicationEventMessage(event); msg != nil {
		h.Broadcast(msg)
	}
}
