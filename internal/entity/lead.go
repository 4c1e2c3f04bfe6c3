package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Channel is one concrete contact mechanism.
type Channel string

const (
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelMessenger Channel = "messenger"
)

// Lead is one candidate outreach opportunity derived from an ingested post.
type Lead struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"` // post id, unique across re-ingestion
	ContactID   string    `json:"contact_id"`
	ContactName string    `json:"contact_name"`
	BodyText    string    `json:"body_text"`
	SourceURL   string    `json:"source_url,omitempty"`
	Contacted   bool      `json:"contacted"`
	PhoneHint   string    `json:"phone_hint,omitempty"` // normalized, leading +
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewLead(sourceID, contactID, contactName, bodyText, sourceURL, phoneHint string) (*Lead, error) {
	lead := &Lead{
		ID:          uuid.New().String(),
		SourceID:    sourceID,
		ContactID:   contactID,
		ContactName: contactName,
		BodyText:    bodyText,
		SourceURL:   sourceURL,
		Contacted:   false,
		PhoneHint:   phoneHint,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.SourceID == "" {
		return errors.New("source_id is required")
	}
	if l.ContactID == "" {
		return errors.New("contact_id is required")
	}
	if l.BodyText == "" {
		return errors.New("body_text is required")
	}
	return nil
}
