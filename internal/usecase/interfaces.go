package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// Purpose tags which kind of outreach text the generator should write.
// Initial and follow-up composition share one capability instead of two
// near-identical code paths.
type Purpose string

const (
	PurposeInitial  Purpose = "initial"
	PurposeFollowup Purpose = "followup"
)

type LeadRepositoryInterface interface {
	FindUncontacted(ctx context.Context) ([]*entity.Lead, error)
	MarkContacted(ctx context.Context, leadID string) error
	UpdatePhone(ctx context.Context, leadID, phone string) error
}

type FollowupRepositoryInterface interface {
	Create(ctx context.Context, f *entity.Followup) error
	// FindActiveByContact returns the pending followup for a contact, or
	// nil when there is none.
	FindActiveByContact(ctx context.Context, contactID string) (*entity.Followup, error)
	FindPending(ctx context.Context) ([]*entity.Followup, error)
	Cancel(ctx context.Context, followupID string) error
	Complete(ctx context.Context, followupID, message string, at time.Time) error
	MarkReplied(ctx context.Context, contactID string) error
}

type HistoryRepositoryInterface interface {
	Append(ctx context.Context, e entity.HistoryEntry) error
	// Recent returns the most recent n entries in chronological order.
	Recent(ctx context.Context, contactID string, n int) ([]entity.HistoryEntry, error)
}

// ChannelAdapter drives one concrete contact mechanism. Send blocks for
// the whole delivery attempt and returns false for ordinary delivery
// failure; misconfiguration surfaces when the adapter is constructed.
type ChannelAdapter interface {
	Name() entity.Channel
	Send(ctx context.Context, target, message string) bool
}

// TextGenerator composes ready-to-send outreach text from the contact's
// message history and the post being answered.
type TextGenerator interface {
	Compose(ctx context.Context, purpose Purpose, history []entity.HistoryEntry, contextText string) (string, error)
}

type AlertSenderInterface interface {
	Send(subject, body string) error
}
