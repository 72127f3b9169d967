package transcript

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderForPromptEmpty(t *testing.T) {
	store := NewStore()

	assert.Equal(t, "", store.RenderForPrompt())
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, slices.Collect(store.RenderForDisplay()))
}

func TestAppendKeepsOrder(t *testing.T) {
	store := NewStore()
	store.Append("Hi, how are you?", "I'm great, thanks for asking!")
	store.Append("Want to grab lunch?", "Sure, noon works.")

	exchanges := store.Exchanges()
	require.Len(t, exchanges, 2)
	assert.Equal(t, "Hi, how are you?", exchanges[0].IncomingMessage)
	assert.Equal(t, "I'm great, thanks for asking!", exchanges[0].Reply)
	assert.Equal(t, "Want to grab lunch?", exchanges[1].IncomingMessage)
	assert.False(t, exchanges[0].CreatedAt.IsZero())
}

func TestRenderForPromptFormat(t *testing.T) {
	store := NewStore()
	store.Append("Hi", "Hello there")
	store.Append("Lunch?", "Sure")

	want := "Message Received: Hi\nMy Response: Hello there\nMessage Received: Lunch?\nMy Response: Sure"
	assert.Equal(t, want, store.RenderForPrompt())
}

func TestRenderForDisplayAlternatesLabels(t *testing.T) {
	store := NewStore()
	store.Append("Hi", "Hello there")
	store.Append("Lunch?", "Sure")

	segments := slices.Collect(store.RenderForDisplay())
	assert.Equal(t, []Segment{
		{Label: ReceivedLabel, Text: "Hi"},
		{Label: ResponseLabel, Text: "Hello there"},
		{Label: ReceivedLabel, Text: "Lunch?"},
		{Label: ResponseLabel, Text: "Sure"},
	}, segments)
}

func TestRenderForDisplayStopsEarly(t *testing.T) {
	store := NewStore()
	store.Append("Hi", "Hello there")
	store.Append("Lunch?", "Sure")

	var seen []Segment
	for seg := range store.RenderForDisplay() {
		seen = append(seen, seg)
		if len(seen) == 3 {
			break
		}
	}
	assert.Len(t, seen, 3)
}

func TestRendersAreIdempotent(t *testing.T) {
	store := NewStore()
	store.Append("Hi", "Hello there")

	assert.Equal(t, store.RenderForPrompt(), store.RenderForPrompt())
	assert.Equal(t, slices.Collect(store.RenderForDisplay()), slices.Collect(store.RenderForDisplay()))
}

func TestExchangesReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Append("Hi", "Hello there")

	exchanges := store.Exchanges()
	exchanges[0].Reply = "mutated"

	assert.Equal(t, "Hello there", store.Exchanges()[0].Reply)
}

func TestAppendStampsCreatedAt(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore()
	store.now = func() time.Time { return fixed }

	store.Append("Hi", "Hello")

	assert.Equal(t, fixed, store.Exchanges()[0].CreatedAt)
}
