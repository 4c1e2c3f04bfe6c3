package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

func TestComposerReturnsGeneratedText(t *testing.T) {
	k := newTestKit(24 * time.Hour)
	k.generator.text = "  Hi, about your post...  "

	got := k.composer.Compose(context.Background(), PurposeInitial, "u1", "post text")

	assert.Equal(t, "Hi, about your post...", got)
	assert.Equal(t, []Purpose{PurposeInitial}, k.generator.purposes)
}

func TestComposerFallsBackOnGeneratorError(t *testing.T) {
	k := newTestKit(24 * time.Hour)
	k.generator.err = errors.New("rate limited")

	initial := k.composer.Compose(context.Background(), PurposeInitial, "u1", "post text")
	followup := k.composer.Compose(context.Background(), PurposeFollowup, "u1", "ctx")

	assert.Equal(t, FallbackMessage(PurposeInitial), initial)
	assert.Equal(t, FallbackMessage(PurposeFollowup), followup)
	assert.NotEqual(t, initial, followup)
}

func TestComposerFallsBackOnEmptyResponse(t *testing.T) {
	k := newTestKit(24 * time.Hour)
	k.generator.text = "   "

	got := k.composer.Compose(context.Background(), PurposeFollowup, "u1", "ctx")

	assert.Equal(t, FallbackMessage(PurposeFollowup), got)
}

func TestComposerPassesRecentHistoryChronologically(t *testing.T) {
	ctx := context.Background()
	k := newTestKit(24 * time.Hour)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, k.history.Append(ctx, entity.HistoryEntry{
			ContactID: "u1",
			SentAt:    base.Add(time.Duration(i) * time.Hour),
			Message:   string(rune('a' + i)),
			Channel:   entity.ChannelWhatsApp,
		}))
	}

	k.composer.Compose(ctx, PurposeFollowup, "u1", "ctx")

	require.Len(t, k.generator.history, 1)
	passed := k.generator.history[0]
	require.Len(t, passed, 3, "only the most recent entries go to the generator")
	assert.Equal(t, "c", passed[0].Message)
	assert.Equal(t, "e", passed[2].Message)
}

func TestComposerToleratesHistoryFailure(t *testing.T) {
	k := newTestKit(24 * time.Hour)
	k.history.failAll = true
	k.generator.text = "still composed"

	got := k.composer.Compose(context.Background(), PurposeInitial, "u1", "post")

	assert.Equal(t, "still composed", got)
	require.Len(t, k.generator.history, 1)
	assert.Empty(t, k.generator.history[0])
}
