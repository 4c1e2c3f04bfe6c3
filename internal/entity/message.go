package entity

import "time"

// HistoryEntry is one confirmed outbound message. The history is
// append-only and written only after an adapter reports success.
type HistoryEntry struct {
	ContactID string    `json:"contact_id"`
	SentAt    time.Time `json:"sent_at"`
	Message   string    `json:"message"`
	Channel   Channel   `json:"channel"`
}
