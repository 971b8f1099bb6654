package ws

import (
	"encoding/json"
	"time"
)

// Event is a board change notification pushed to team subscribers.
type Event struct {
	Type       string `json:"type"`
	TeamID     string `json:"team_id"`
	ResourceID string `json:"resource_id"`
	OccurredAt string `json:"occurred_at"`
}

// Publish broadcasts an event to the team's stream. A nil hub is a no-op so
// services can be constructed without streaming in tests.
func (h *Hub) Publish(eventType, teamID, resourceID string) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Event{
		Type:       eventType,
		TeamID:     teamID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}
	h.Broadcast(teamID, payload)
}
