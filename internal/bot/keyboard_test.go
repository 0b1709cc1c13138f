package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/tripdata"
)

// Telegram rejects callback data longer than 64 bytes.
func assertCallbackData(t *testing.T, kb *tgbotapi.InlineKeyboardMarkup) {
	t.Helper()
	require.NotNil(t, kb)
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			require.NotNil(t, b.CallbackData)
			assert.LessOrEqual(t, len(*b.CallbackData), 64, *b.CallbackData)
		}
	}
}

func TestPermissionKeyboard(t *testing.T) {
	assert.Nil(t, permissionKeyboard(domain.PermissionUnavailable))

	kb := permissionKeyboard(domain.PermissionDefault)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "perm:grant", *kb.InlineKeyboard[0][0].CallbackData)

	kb = permissionKeyboard(domain.PermissionGranted)
	assert.Equal(t, "perm:deny", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestReminderKeyboardsFitCallbackLimit(t *testing.T) {
	id := uuid.NewString()
	reminders := []domain.FlightReminder{{ID: id, Type: domain.FlightDeparture, FlightNumber: "LA800"}}

	assertCallbackData(t, reminderListKeyboard(reminders))

	lead := leadTimeKeyboard(id, 120)
	assertCallbackData(t, &lead)
	assert.Equal(t, "• 2 horas", lead.InlineKeyboard[0][2].Text)

	del := confirmDeleteKeyboard(id)
	assertCallbackData(t, &del)
	assert.Equal(t, "confirm_del:"+id, *del.InlineKeyboard[0][0].CallbackData)
}

func TestChecklistKeyboards(t *testing.T) {
	for i := range tripdata.Luggage {
		assertCallbackData(t, luggageKeyboard(tripdata.Luggage, i, nil))
	}
	for i := range tripdata.Itinerary {
		assertCallbackData(t, itineraryKeyboard(tripdata.Itinerary, i, map[string]bool{domain.ItineraryKey(i, 0): true}))
	}

	kb := itineraryKeyboard(tripdata.Itinerary, 0, map[string]bool{"0-0": true})
	assert.Contains(t, kb.InlineKeyboard[0][0].Text, "✅")
	assert.Equal(t, "trip:0:0-0", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "info:0-0", *kb.InlineKeyboard[0][1].CallbackData)
}

func TestNavRow(t *testing.T) {
	first := navRow("bagcat", 0, 3)
	require.Len(t, first, 2)
	assert.Equal(t, "1/3", first[0].Text)
	assert.Equal(t, "bagcat:1", *first[1].CallbackData)

	middle := navRow("bagcat", 1, 3)
	assert.Len(t, middle, 3)

	last := navRow("tripday", 2, 3)
	require.Len(t, last, 2)
	assert.Equal(t, "tripday:1", *last[0].CallbackData)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Casaco", truncate("Casaco", 10))
	assert.Equal(t, "Protetor…", truncate("Protetor solar fator 50", 9))
}
