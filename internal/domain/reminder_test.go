package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flightAt(t *testing.T, minutes int) FlightReminder {
	t.Helper()
	at, err := time.Parse(time.RFC3339, "2025-12-25T18:00:00Z")
	require.NoError(t, err)
	return FlightReminder{
		ID:              "r1",
		Type:            FlightDeparture,
		FlightNumber:    "LA800",
		DateTime:        at,
		ReminderMinutes: minutes,
	}
}

func TestFlightReminder_IsDue(t *testing.T) {
	r := flightAt(t, 30)

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"before window", "2025-12-25T17:29:59Z", false},
		{"window opens", "2025-12-25T17:30:00Z", true},
		{"inside window", "2025-12-25T17:40:00Z", true},
		{"last instant", "2025-12-25T17:59:59Z", true},
		{"flight time", "2025-12-25T18:00:00Z", false},
		{"after flight", "2025-12-25T19:00:00Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, err := time.Parse(time.RFC3339, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.IsDue(now))
		})
	}
}

func TestFlightReminder_ZeroLeadTimeNeverDue(t *testing.T) {
	r := flightAt(t, 0)
	assert.False(t, r.IsDue(r.DateTime))
	assert.False(t, r.IsDue(r.DateTime.Add(-time.Second)))
}

func TestFlightReminder_TriggerAt(t *testing.T) {
	r := flightAt(t, 180)
	assert.Equal(t, "2025-12-25T15:00:00Z", r.TriggerAt().Format(time.RFC3339))
}

func TestFlightReminder_SameTrigger(t *testing.T) {
	a := flightAt(t, 30)
	b := a
	b.Notified = true
	assert.True(t, a.SameTrigger(b))

	b.ReminderMinutes = 60
	assert.False(t, a.SameTrigger(b))
}

func TestReminderDraft_Validate(t *testing.T) {
	at := time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC)

	assert.NoError(t, ReminderDraft{Type: FlightArrival, FlightNumber: "JJ8000", DateTime: at}.Validate())
	assert.ErrorIs(t, ReminderDraft{Type: "layover", FlightNumber: "JJ8000", DateTime: at}.Validate(), ErrInvalidReminder)
	assert.ErrorIs(t, ReminderDraft{Type: FlightArrival, FlightNumber: "  ", DateTime: at}.Validate(), ErrInvalidReminder)
	assert.ErrorIs(t, ReminderDraft{Type: FlightArrival, FlightNumber: "JJ8000"}.Validate(), ErrInvalidReminder)
	assert.ErrorIs(t, ReminderDraft{Type: FlightArrival, FlightNumber: "JJ8000", DateTime: at, ReminderMinutes: -1}.Validate(), ErrInvalidReminder)
}

func TestReminderPatch_ApplyKeepsIdentity(t *testing.T) {
	r := flightAt(t, 30)
	r.Notified = true

	number := " LA801 "
	minutes := 120
	patch := ReminderPatch{FlightNumber: &number, ReminderMinutes: &minutes}
	require.NoError(t, patch.Validate())
	patch.Apply(&r)

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "LA801", r.FlightNumber)
	assert.Equal(t, 120, r.ReminderMinutes)
	assert.True(t, r.Notified)
}

func TestParseFlightType(t *testing.T) {
	ft, ok := ParseFlightType("Partida")
	assert.True(t, ok)
	assert.Equal(t, FlightDeparture, ft)

	ft, ok = ParseFlightType("chegada")
	assert.True(t, ok)
	assert.Equal(t, FlightArrival, ft)

	_, ok = ParseFlightType("escala")
	assert.False(t, ok)
}

func TestNewFlightNotification(t *testing.T) {
	r := flightAt(t, 30)
	n := NewFlightNotification(r, time.UTC)

	assert.Equal(t, "r1", n.ReminderID)
	assert.Equal(t, "🛫 Saída: LA800", n.Title)
	assert.Equal(t, "Horário programado: 25/12/2025 18:00", n.Body)

	santiago := time.FixedZone("CLT", -3*3600)
	n = NewFlightNotification(r, santiago)
	assert.Equal(t, "Horário programado: 25/12/2025 15:00", n.Body)
}

func TestParsePermission(t *testing.T) {
	assert.Equal(t, PermissionGranted, ParsePermission("granted"))
	assert.Equal(t, PermissionDenied, ParsePermission("denied"))
	assert.Equal(t, PermissionDefault, ParsePermission("unavailable"))
	assert.Equal(t, PermissionDefault, ParsePermission(""))
	assert.True(t, PermissionGranted.Granted())
	assert.False(t, PermissionDefault.Granted())
}

func TestProgressQuotes(t *testing.T) {
	p := NewProgress(4, 1)
	assert.InDelta(t, 25.0, p.Percent, 0.001)
	assert.Equal(t, itineraryQuotes[1], p.ItineraryQuote())
	assert.Equal(t, "Faltam 3 itens.", p.LuggageQuote())

	done := NewProgress(4, 4)
	assert.Equal(t, itineraryQuotes[4], done.ItineraryQuote())
	assert.Equal(t, "Tudo pronto para a viagem!", done.LuggageQuote())

	assert.Zero(t, NewProgress(0, 0).Percent)
}
