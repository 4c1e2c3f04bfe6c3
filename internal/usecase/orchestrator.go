package usecase

import (
	"context"
	"log"
	"time"
)

// Orchestrator drives the outreach loop: one strictly sequential pass
// over uncontacted leads followed by the followup cycle, then sleep.
// Adapter calls block the whole loop on purpose: concurrent sends from
// a shared channel session would trip platform abuse detection.
type Orchestrator struct {
	Leads      LeadRepositoryInterface
	Dispatcher *Dispatcher
	Scheduler  *FollowupScheduler
	Composer   *MessageComposer
	Alerts     AlertSenderInterface

	Interval time.Duration

	// Optional local-time gate for followup processing, "HH:MM". When
	// set, the followup cycle runs at most once per calendar day, on the
	// first pass inside the window.
	WindowStart string
	WindowEnd   string

	lastWindowDay string
	lastAlertDay  string
}

func NewOrchestrator(
	leads LeadRepositoryInterface,
	dispatcher *Dispatcher,
	scheduler *FollowupScheduler,
	composer *MessageComposer,
	alerts AlertSenderInterface,
	interval time.Duration,
	windowStart, windowEnd string,
) *Orchestrator {
	return &Orchestrator{
		Leads:       leads,
		Dispatcher:  dispatcher,
		Scheduler:   scheduler,
		Composer:    composer,
		Alerts:      alerts,
		Interval:    interval,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}
}

// RunPass executes one iteration: lead outreach with per-pass dedup,
// then the followup cycle. One failing record never aborts the pass.
func (o *Orchestrator) RunPass(ctx context.Context, now time.Time) {
	leads, err := o.Leads.FindUncontacted(ctx)
	if err != nil {
		log.Printf("[ORCHESTRATOR] erro ao consultar leads: %v", err)
		o.alert(now, "Outreach: lead store query failed", err.Error())
	} else {
		log.Printf("[ORCHESTRATOR] %d lead(s) não contatado(s)", len(leads))

		// Per-pass dedup: two leads from the same contact must not
		// produce two sends in one pass. Transient, never persisted.
		messaged := make(map[string]bool)

		for _, lead := range leads {
			if ctx.Err() != nil {
				return
			}
			if messaged[lead.ContactID] {
				log.Printf("[ORCHESTRATOR] pulando lead %s: contact %s já recebeu mensagem neste passe", lead.ID, lead.ContactID)
				continue
			}

			message := o.Composer.Compose(ctx, PurposeInitial, lead.ContactID, lead.BodyText)

			sent, channel := o.Dispatcher.Attempt(ctx, lead, message, now)
			if sent {
				messaged[lead.ContactID] = true
				log.Printf("[ORCHESTRATOR] ✅ lead %s contatado via %s", lead.ID, channel)
			} else {
				log.Printf("[ORCHESTRATOR] lead %s fica para o próximo passe", lead.ID)
			}
		}
	}

	if ctx.Err() != nil {
		return
	}

	if o.followupsAllowed(now) {
		o.Scheduler.RunCycle(ctx, now)
	}
}

// Run polls until the context is cancelled. Interruption is honored at
// the iteration boundary; a send already in flight cannot be cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	log.Printf("🔁 Orchestrator iniciado (intervalo %s)", o.Interval)

	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()

	o.RunPass(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Orchestrator encerrado")
			return
		case <-ticker.C:
			o.RunPass(ctx, time.Now())
		}
	}
}

// followupsAllowed applies the optional daily window: once per calendar
// day, inside [WindowStart, WindowEnd]. A window with start > end spans
// midnight (22:00 a 02:00 cobre a madrugada). Without a window every
// pass runs the cycle.
func (o *Orchestrator) followupsAllowed(now time.Time) bool {
	if o.WindowStart == "" || o.WindowEnd == "" {
		return true
	}

	day := now.Format("2006-01-02")
	if o.lastWindowDay == day {
		return false
	}

	hm := now.Format("15:04")
	var inWindow bool
	if o.WindowStart <= o.WindowEnd {
		inWindow = hm >= o.WindowStart && hm <= o.WindowEnd
	} else {
		inWindow = hm >= o.WindowStart || hm <= o.WindowEnd
	}
	if !inWindow {
		return false
	}

	o.lastWindowDay = day
	return true
}

// alert sends an operational e-mail, at most once per day.
func (o *Orchestrator) alert(now time.Time, subject, body string) {
	if o.Alerts == nil {
		return
	}
	day := now.Format("2006-01-02")
	if o.lastAlertDay == day {
		return
	}
	if err := o.Alerts.Send(subject, body); err != nil {
		log.Printf("[ORCHESTRATOR] erro ao enviar alerta: %v", err)
		return
	}
	o.lastAlertDay = day
}
