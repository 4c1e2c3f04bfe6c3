package entity

import (
	"time"

	"github.com/google/uuid"
)

type FollowupStatus string

const (
	FollowupPending   FollowupStatus = "pending"
	FollowupCompleted FollowupStatus = "completed"
	FollowupCancelled FollowupStatus = "cancelled"
)

// Followup is a scheduled re-engagement with a previously contacted lead.
// At most one pending followup may exist per contact at a time.
type Followup struct {
	ID              string         `json:"id"`
	ContactID       string         `json:"contact_id"`
	ContactName     string         `json:"contact_name"`
	Phone           string         `json:"phone,omitempty"`
	SourceURL       string         `json:"source_url,omitempty"`
	DueAt           time.Time      `json:"due_at"`
	Message         string         `json:"message,omitempty"` // empty until composed
	Status          FollowupStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	LastContactedAt time.Time      `json:"last_contacted_at"`
	UserReplied     bool           `json:"user_replied"`
}

// NewFollowup creates a pending followup due graceInterval after the
// initial contact.
func NewFollowup(contactID, contactName, phone, sourceURL string, contactedAt time.Time, grace time.Duration) *Followup {
	return &Followup{
		ID:              uuid.New().String(),
		ContactID:       contactID,
		ContactName:     contactName,
		Phone:           phone,
		SourceURL:       sourceURL,
		DueAt:           contactedAt.Add(grace),
		Status:          FollowupPending,
		CreatedAt:       contactedAt,
		LastContactedAt: contactedAt,
		UserReplied:     false,
	}
}

// IsTerminal reports whether the followup can no longer change status.
func (f *Followup) IsTerminal() bool {
	return f.Status == FollowupCompleted || f.Status == FollowupCancelled
}
