package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

func TestDispatcherPhoneChannelFirst(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	lead := k.addLead("p1", "u1", "Call me at 555-123-4567")
	now := time.Now()

	sent, channel := k.dispatcher.Attempt(ctx, lead, "hello", now)

	assert.True(t, sent)
	assert.Equal(t, entity.ChannelWhatsApp, channel)
	assert.Equal(t, []string{"+5551234567"}, k.phone.targets)
	assert.Empty(t, k.social.targets, "social channel must not be tried after a phone success")
}

func TestDispatcherFallbackOrdering(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	k.phone.succeed = false
	lead := k.addLead("p1", "u1", "Call me at 555-123-4567")

	sent, channel := k.dispatcher.Attempt(ctx, lead, "hello", time.Now())

	assert.True(t, sent)
	assert.Equal(t, entity.ChannelMessenger, channel)
	// exactly two attempts, phone then social
	assert.Equal(t, []string{"whatsapp", "messenger"}, k.attemptLog)
	assert.Equal(t, []string{"u1"}, k.social.targets)
}

func TestDispatcherNoPhoneSkipsPhoneChannel(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	lead := k.addLead("p1", "u1", "no contact info in this post")

	sent, channel := k.dispatcher.Attempt(ctx, lead, "hello", time.Now())

	assert.True(t, sent)
	assert.Equal(t, entity.ChannelMessenger, channel)
	assert.Empty(t, k.phone.targets)
}

func TestDispatcherSideEffectsOnSuccess(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	lead := k.addLead("p1", "u1", "Call me at 555-123-4567")
	now := time.Now()

	sent, _ := k.dispatcher.Attempt(ctx, lead, "hello", now)
	require.True(t, sent)

	// contacted flag
	assert.True(t, lead.Contacted)
	// resolved phone persisted since the lead had none
	assert.Equal(t, "+5551234567", lead.PhoneHint)
	// history appended with the channel used
	history := k.history.forContact("u1")
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Message)
	assert.Equal(t, entity.ChannelWhatsApp, history[0].Channel)
	assert.True(t, history[0].SentAt.Equal(now))
	// followup handed off
	f, err := k.followups.FindActiveByContact(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "+5551234567", f.Phone)
	assert.True(t, f.DueAt.Equal(now.Add(24*time.Hour)))
}

func TestDispatcherNoSideEffectsWhenAllChannelsFail(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	k.phone.succeed = false
	k.social.succeed = false
	lead := k.addLead("p1", "u1", "Call me at 555-123-4567")

	sent, channel := k.dispatcher.Attempt(ctx, lead, "hello", time.Now())

	assert.False(t, sent)
	assert.Empty(t, string(channel))
	assert.False(t, lead.Contacted, "failed send must leave the lead eligible for retry")
	assert.Empty(t, lead.PhoneHint)
	assert.Empty(t, k.history.entries)
	assert.Empty(t, k.followups.items)
}

func TestDispatcherKeepsExistingPhoneHint(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	lead := k.addLead("p1", "u1", "no numbers here")
	lead.PhoneHint = "+551199998888"

	sent, channel := k.dispatcher.Attempt(ctx, lead, "hello", time.Now())

	assert.True(t, sent)
	assert.Equal(t, entity.ChannelWhatsApp, channel)
	assert.Equal(t, []string{"+551199998888"}, k.phone.targets)
	assert.Equal(t, "+551199998888", lead.PhoneHint)
}

func TestDispatcherDoesNotPersistPhoneWhenSocialWon(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	k.phone.succeed = false
	lead := k.addLead("p1", "u1", "Call me at 555-123-4567")

	sent, _ := k.dispatcher.Attempt(ctx, lead, "hello", time.Now())

	require.True(t, sent)
	assert.Empty(t, lead.PhoneHint)
	// the followup still carries the resolved number for later use
	f, _ := k.followups.FindActiveByContact(ctx, "u1")
	require.NotNil(t, f)
	assert.Equal(t, "+5551234567", f.Phone)
}
