package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// In-memory fakes. The multi-pass properties (idempotence, dedup, the
// end-to-end scenario) need state that survives across calls, which is
// awkward with call-level mocks.

type memLeadRepo struct {
	leads    []*entity.Lead
	failFind bool
}

func (m *memLeadRepo) FindUncontacted(ctx context.Context) ([]*entity.Lead, error) {
	if m.failFind {
		return nil, errors.New("store offline")
	}
	var out []*entity.Lead
	for _, l := range m.leads {
		if !l.Contacted {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLeadRepo) MarkContacted(ctx context.Context, leadID string) error {
	for _, l := range m.leads {
		if l.ID == leadID {
			l.Contacted = true
			return nil
		}
	}
	return entity.ErrLeadNotFound
}

func (m *memLeadRepo) UpdatePhone(ctx context.Context, leadID, phone string) error {
	for _, l := range m.leads {
		if l.ID == leadID {
			l.PhoneHint = phone
			return nil
		}
	}
	return entity.ErrLeadNotFound
}

type memFollowupRepo struct {
	items           []*entity.Followup
	failMarkReplied bool
}

func (m *memFollowupRepo) Create(ctx context.Context, f *entity.Followup) error {
	clone := *f
	m.items = append(m.items, &clone)
	return nil
}

func (m *memFollowupRepo) FindActiveByContact(ctx context.Context, contactID string) (*entity.Followup, error) {
	for _, f := range m.items {
		if f.ContactID == contactID && f.Status == entity.FollowupPending {
			return f, nil
		}
	}
	return nil, nil
}

func (m *memFollowupRepo) FindPending(ctx context.Context) ([]*entity.Followup, error) {
	var out []*entity.Followup
	for _, f := range m.items {
		if f.Status == entity.FollowupPending {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFollowupRepo) Cancel(ctx context.Context, followupID string) error {
	for _, f := range m.items {
		if f.ID == followupID {
			if f.Status != entity.FollowupPending {
				return entity.ErrTerminalStatus
			}
			f.Status = entity.FollowupCancelled
			return nil
		}
	}
	return entity.ErrFollowupNotFound
}

func (m *memFollowupRepo) Complete(ctx context.Context, followupID, message string, at time.Time) error {
	for _, f := range m.items {
		if f.ID == followupID {
			if f.Status != entity.FollowupPending {
				return entity.ErrTerminalStatus
			}
			f.Status = entity.FollowupCompleted
			f.Message = message
			f.LastContactedAt = at
			return nil
		}
	}
	return entity.ErrFollowupNotFound
}

func (m *memFollowupRepo) MarkReplied(ctx context.Context, contactID string) error {
	if m.failMarkReplied {
		return errors.New("store offline")
	}
	for _, f := range m.items {
		if f.ContactID == contactID && f.Status == entity.FollowupPending {
			f.UserReplied = true
		}
	}
	return nil
}

type memHistoryRepo struct {
	entries []entity.HistoryEntry
	failAll bool
}

func (m *memHistoryRepo) Append(ctx context.Context, e entity.HistoryEntry) error {
	if m.failAll {
		return errors.New("store offline")
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistoryRepo) Recent(ctx context.Context, contactID string, n int) ([]entity.HistoryEntry, error) {
	if m.failAll {
		return nil, errors.New("store offline")
	}
	var all []entity.HistoryEntry
	for _, e := range m.entries {
		if e.ContactID == contactID {
			all = append(all, e)
		}
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (m *memHistoryRepo) forContact(contactID string) []entity.HistoryEntry {
	var out []entity.HistoryEntry
	for _, e := range m.entries {
		if e.ContactID == contactID {
			out = append(out, e)
		}
	}
	return out
}

// stubChannel records every attempt. A shared attemptLog across stubs
// captures cross-channel ordering.
type stubChannel struct {
	name       entity.Channel
	succeed    bool
	targets    []string
	attemptLog *[]string
}

func (s *stubChannel) Name() entity.Channel { return s.name }

func (s *stubChannel) Send(ctx context.Context, target, message string) bool {
	s.targets = append(s.targets, target)
	if s.attemptLog != nil {
		*s.attemptLog = append(*s.attemptLog, string(s.name))
	}
	return s.succeed
}

type stubGenerator struct {
	text     string
	err      error
	purposes []Purpose
	history  [][]entity.HistoryEntry
}

func (s *stubGenerator) Compose(ctx context.Context, purpose Purpose, history []entity.HistoryEntry, contextText string) (string, error) {
	s.purposes = append(s.purposes, purpose)
	s.history = append(s.history, history)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubGenerator) composeCalls(p Purpose) int {
	n := 0
	for _, got := range s.purposes {
		if got == p {
			n++
		}
	}
	return n
}

type stubAlerts struct {
	subjects []string
}

func (s *stubAlerts) Send(subject, body string) error {
	s.subjects = append(s.subjects, subject)
	return nil
}

// newTestKit wires a full core with succeeding channels and a fixed
// generator, the common starting point for most tests.
type testKit struct {
	leads      *memLeadRepo
	followups  *memFollowupRepo
	history    *memHistoryRepo
	phone      *stubChannel
	social     *stubChannel
	generator  *stubGenerator
	alerts     *stubAlerts
	attemptLog []string

	composer     *MessageComposer
	scheduler    *FollowupScheduler
	dispatcher   *Dispatcher
	orchestrator *Orchestrator
}

func newTestKit(grace time.Duration) *testKit {
	k := &testKit{
		leads:     &memLeadRepo{},
		followups: &memFollowupRepo{},
		history:   &memHistoryRepo{},
		generator: &stubGenerator{text: "Hello, I saw your post."},
		alerts:    &stubAlerts{},
	}
	k.phone = &stubChannel{name: entity.ChannelWhatsApp, succeed: true, attemptLog: &k.attemptLog}
	k.social = &stubChannel{name: entity.ChannelMessenger, succeed: true, attemptLog: &k.attemptLog}

	k.composer = NewMessageComposer(k.generator, k.history, 3)
	k.scheduler = NewFollowupScheduler(k.followups, k.history, k.composer, k.phone, grace)
	k.dispatcher = NewDispatcher(k.leads, k.history, k.scheduler, k.phone, k.social)
	k.orchestrator = NewOrchestrator(k.leads, k.dispatcher, k.scheduler, k.composer, k.alerts, time.Minute, "", "")
	return k
}

func (k *testKit) addLead(sourceID, contactID, body string) *entity.Lead {
	lead, err := entity.NewLead(sourceID, contactID, "User "+contactID, body, "https://posts/"+sourceID, "")
	if err != nil {
		panic(err)
	}
	k.leads.leads = append(k.leads.leads, lead)
	return lead
}
