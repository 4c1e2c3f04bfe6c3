package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/extract"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

// channelAttempt records one delivery attempt inside a single dispatch.
// Never persisted; only decides fallback ordering.
type channelAttempt struct {
	channel entity.Channel
	target  string
	sent    bool
}

// Dispatcher picks the channel order for one lead, attempts delivery
// and, only after a confirmed send, applies the persistent side
// effects: contacted flag, resolved phone, message history and the
// followup hand-off.
type Dispatcher struct {
	Leads     LeadRepositoryInterface
	History   HistoryRepositoryInterface
	Scheduler *FollowupScheduler
	Phone     ChannelAdapter // tried first whenever a phone is known
	Social    ChannelAdapter // fallback
}

func NewDispatcher(
	leads LeadRepositoryInterface,
	history HistoryRepositoryInterface,
	scheduler *FollowupScheduler,
	phone ChannelAdapter,
	social ChannelAdapter,
) *Dispatcher {
	return &Dispatcher{
		Leads:     leads,
		History:   history,
		Scheduler: scheduler,
		Phone:     phone,
		Social:    social,
	}
}

// Attempt tries the phone channel first when a number is known, then
// the social channel. The first success wins. Both failing leaves the
// lead uncontacted and eligible for the next pass.
func (d *Dispatcher) Attempt(ctx context.Context, lead *entity.Lead, message string, now time.Time) (bool, entity.Channel) {
	phone := lead.PhoneHint
	if phone == "" {
		if candidates := extract.Numbers(lead.BodyText); len(candidates) > 0 {
			phone = candidates[0]
		}
	}

	var attempts []channelAttempt

	if phone != "" {
		sent := d.Phone.Send(ctx, phone, message)
		attempts = append(attempts, channelAttempt{d.Phone.Name(), phone, sent})
		if !sent {
			middleware.RecordSendFailure(string(d.Phone.Name()))
			log.Printf("[DISPATCHER] %s falhou para %s, tentando %s", d.Phone.Name(), lead.ContactID, d.Social.Name())
		}
	}

	if len(attempts) == 0 || !attempts[len(attempts)-1].sent {
		sent := d.Social.Send(ctx, lead.ContactID, message)
		attempts = append(attempts, channelAttempt{d.Social.Name(), lead.ContactID, sent})
		if !sent {
			middleware.RecordSendFailure(string(d.Social.Name()))
		}
	}

	last := attempts[len(attempts)-1]
	if !last.sent {
		log.Printf("[DISPATCHER] todos os canais falharam para lead %s (contact %s)", lead.ID, lead.ContactID)
		return false, ""
	}

	// Side effects only after the adapter confirmed success. A store
	// write failure here is logged and retried naturally: the record is
	// picked up again on the next pass.
	if err := d.Leads.MarkContacted(ctx, lead.ID); err != nil {
		log.Printf("[DISPATCHER] erro ao marcar lead %s como contatado: %v", lead.ID, err)
	} else {
		lead.Contacted = true
	}

	if phone != "" && lead.PhoneHint == "" && last.channel == d.Phone.Name() {
		if err := d.Leads.UpdatePhone(ctx, lead.ID, phone); err != nil {
			log.Printf("[DISPATCHER] erro ao salvar telefone do lead %s: %v", lead.ID, err)
		} else {
			lead.PhoneHint = phone
		}
	}

	if err := d.History.Append(ctx, entity.HistoryEntry{
		ContactID: lead.ContactID,
		SentAt:    now,
		Message:   message,
		Channel:   last.channel,
	}); err != nil {
		log.Printf("[DISPATCHER] erro ao gravar histórico de %s: %v", lead.ContactID, err)
	}

	if _, err := d.Scheduler.Schedule(ctx, lead.ContactID, lead.ContactName, phone, lead.SourceURL, now); err != nil {
		log.Printf("[DISPATCHER] erro ao agendar followup para %s: %v", lead.ContactID, err)
	}

	middleware.RecordMessageSent(string(last.channel), string(PurposeInitial))
	return true, last.channel
}
