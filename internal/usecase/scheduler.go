package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

// FollowupScheduler creates followups after a successful initial
// contact and later finds, composes and sends the ones that are due.
//
// Unlike initial contact there is no cross-channel fallback here: a
// followup without a phone number is a failed attempt and the record
// stays pending for a future pass.
type FollowupScheduler struct {
	Followups FollowupRepositoryInterface
	History   HistoryRepositoryInterface
	Composer  *MessageComposer
	Phone     ChannelAdapter
	Grace     time.Duration
}

func NewFollowupScheduler(
	followups FollowupRepositoryInterface,
	history HistoryRepositoryInterface,
	composer *MessageComposer,
	phone ChannelAdapter,
	grace time.Duration,
) *FollowupScheduler {
	return &FollowupScheduler{
		Followups: followups,
		History:   history,
		Composer:  composer,
		Phone:     phone,
		Grace:     grace,
	}
}

// Schedule creates a pending followup due Grace after the initial
// contact. If the contact already has a pending followup this is a
// no-op that returns the existing record, so unresolved followups never
// stack for the same contact.
func (s *FollowupScheduler) Schedule(ctx context.Context, contactID, contactName, phone, sourceURL string, contactedAt time.Time) (*entity.Followup, error) {
	if contactID == "" {
		return nil, &DomainError{Code: "EMPTY_CONTACT_ID", Message: "contact_id é obrigatório"}
	}

	existing, err := s.Followups.FindActiveByContact(ctx, contactID)
	if err != nil {
		return nil, &TechnicalError{Code: "FOLLOWUP_STORE", Message: "erro ao consultar followups", Cause: err}
	}
	if existing != nil {
		log.Printf("[SCHEDULER] contact %s já tem followup pendente (%s), mantendo", contactID, existing.ID)
		return existing, nil
	}

	f := entity.NewFollowup(contactID, contactName, phone, sourceURL, contactedAt, s.Grace)
	if err := s.Followups.Create(ctx, f); err != nil {
		return nil, &TechnicalError{Code: "FOLLOWUP_STORE", Message: "erro ao criar followup", Cause: err}
	}

	middleware.RecordFollowupCreated()
	log.Printf("[SCHEDULER] followup %s criado para %s, vence em %s", f.ID, contactID, f.DueAt.Format(time.RFC3339))
	return f, nil
}

// RegisterReply flags the contact's pending followup as answered; the
// next due-check sweep cancels it.
func (s *FollowupScheduler) RegisterReply(ctx context.Context, contactID string) error {
	if contactID == "" {
		return &DomainError{Code: "EMPTY_CONTACT_ID", Message: "contact_id é obrigatório"}
	}
	if err := s.Followups.MarkReplied(ctx, contactID); err != nil {
		return &TechnicalError{Code: "FOLLOWUP_STORE", Message: "erro ao registrar resposta", Cause: err}
	}
	log.Printf("[SCHEDULER] resposta registrada para %s", contactID)
	return nil
}

// Due returns the followups ready for processing at now. Before
// selecting, it sweeps: every pending followup whose user already
// replied is cancelled, whether or not it is due. The sweep runs on
// every call so stale entries are retired even if never touched again.
func (s *FollowupScheduler) Due(ctx context.Context, now time.Time) ([]*entity.Followup, error) {
	pending, err := s.Followups.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-s.Grace)
	var due []*entity.Followup

	for _, f := range pending {
		if f.UserReplied {
			if err := s.Followups.Cancel(ctx, f.ID); err != nil {
				log.Printf("[SCHEDULER] erro ao cancelar followup %s: %v", f.ID, err)
				continue
			}
			f.Status = entity.FollowupCancelled
			middleware.RecordFollowupCancelled()
			log.Printf("[SCHEDULER] followup %s cancelado: %s respondeu", f.ID, f.ContactID)
			continue
		}
		if !f.CreatedAt.After(cutoff) {
			due = append(due, f)
		}
	}

	return due, nil
}

// Process composes and sends one due followup over the phone channel.
// Returns true only when the message was confirmed sent and the record
// transitioned to completed.
func (s *FollowupScheduler) Process(ctx context.Context, f *entity.Followup, now time.Time) bool {
	if f.IsTerminal() {
		return false
	}

	if f.Phone == "" {
		// No fallback for followups. Counted as failed, record stays
		// pending for the next sweep. No generator call for a record
		// that cannot be sent.
		log.Printf("[SCHEDULER] followup %s sem telefone, permanece pendente", f.ID)
		return false
	}

	message := s.Composer.Compose(ctx, PurposeFollowup, f.ContactID, "Follow-up for post: "+f.SourceURL)

	if !s.Phone.Send(ctx, f.Phone, message) {
		middleware.RecordSendFailure(string(s.Phone.Name()))
		log.Printf("[SCHEDULER] envio do followup %s para %s falhou", f.ID, f.Phone)
		return false
	}

	if err := s.Followups.Complete(ctx, f.ID, message, now); err != nil {
		log.Printf("[SCHEDULER] erro ao concluir followup %s: %v", f.ID, err)
	} else {
		f.Status = entity.FollowupCompleted
		f.Message = message
		f.LastContactedAt = now
	}

	if err := s.History.Append(ctx, entity.HistoryEntry{
		ContactID: f.ContactID,
		SentAt:    now,
		Message:   message,
		Channel:   s.Phone.Name(),
	}); err != nil {
		log.Printf("[SCHEDULER] erro ao gravar histórico de %s: %v", f.ContactID, err)
	}

	middleware.RecordMessageSent(string(s.Phone.Name()), string(PurposeFollowup))
	middleware.RecordFollowupCompleted()
	return true
}

// CycleResult summarizes one due-check-and-process cycle.
type CycleResult struct {
	Total  int
	Sent   int
	Failed int
}

// RunCycle runs the sweep, then processes each due followup with
// per-record error containment.
func (s *FollowupScheduler) RunCycle(ctx context.Context, now time.Time) CycleResult {
	due, err := s.Due(ctx, now)
	if err != nil {
		log.Printf("[SCHEDULER] erro ao buscar followups pendentes: %v", err)
		return CycleResult{}
	}

	result := CycleResult{Total: len(due)}
	log.Printf("[SCHEDULER] %d followup(s) vencido(s)", len(due))

	for _, f := range due {
		if ctx.Err() != nil {
			break
		}
		if s.Process(ctx, f, now) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	if result.Total > 0 {
		log.Printf("[SCHEDULER] ciclo concluído: total=%d enviados=%d falhas=%d", result.Total, result.Sent, result.Failed)
	}
	return result
}
