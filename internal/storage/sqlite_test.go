package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "db", "tripbot.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	at := time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC)
	in := []domain.FlightReminder{{
		ID: "a", Type: domain.FlightDeparture, FlightNumber: "LA800", DateTime: at, ReminderMinutes: 30,
	}}
	require.NoError(t, s.Save(KeyFlightReminders, in))

	var out []domain.FlightReminder
	require.True(t, s.Load(KeyFlightReminders, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "LA800", out[0].FlightNumber)
	assert.True(t, out[0].DateTime.Equal(at))

	// Save replaces the whole collection
	require.NoError(t, s.Save(KeyFlightReminders, []domain.FlightReminder{}))
	out = nil
	require.True(t, s.Load(KeyFlightReminders, &out))
	assert.Empty(t, out)
}

func TestStorage_LoadMissingKey(t *testing.T) {
	s := newTestStorage(t)

	var out []domain.FlightReminder
	assert.False(t, s.Load(KeyFlightReminders, &out))
	assert.Nil(t, out)

	_, err := s.Get("nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_LoadCorruptBlob(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Put(KeyLuggageChecklist, []byte("{not json")))

	saved := map[string]bool{"keep": true}
	assert.False(t, s.Load(KeyLuggageChecklist, &saved))
	assert.Equal(t, map[string]bool{"keep": true}, saved)
}

func TestStorage_KeysAreIndependent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Save(KeyNotificationPerm, "granted"))
	require.NoError(t, s.Save(KeyItineraryProgress, map[string]bool{"0-1": true}))

	var perm string
	require.True(t, s.Load(KeyNotificationPerm, &perm))
	assert.Equal(t, "granted", perm)

	var progress map[string]bool
	require.True(t, s.Load(KeyItineraryProgress, &progress))
	assert.True(t, progress["0-1"])
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripbot.db")

	s, err := New(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Save(KeyNotificationPerm, "denied"))
	require.NoError(t, s.Close())

	s, err = New(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	var perm string
	require.True(t, s.Load(KeyNotificationPerm, &perm))
	assert.Equal(t, "denied", perm)
}

func TestStorage_TripItems(t *testing.T) {
	s := newTestStorage(t)

	item := &domain.TripItem{
		ID:       "t1",
		Category: domain.CategoryTickets,
		Title:    "Passagem LA800",
		Date:     "2025-12-25",
		FileName: "boarding.pdf",
		FileType: "application/pdf",
		FileData: "data:application/pdf;base64,AAAA",
	}
	require.NoError(t, s.CreateTripItem(item))
	require.NoError(t, s.CreateTripItem(&domain.TripItem{ID: "t2", Category: domain.CategoryReservations, Title: "Hotel"}))

	got, err := s.GetTripItem("t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *item, *got)

	items, err := s.ListTripItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t1", items[0].ID)

	got.Title = "Passagem LA801"
	require.NoError(t, s.UpdateTripItem(got))
	got, err = s.GetTripItem("t1")
	require.NoError(t, err)
	assert.Equal(t, "Passagem LA801", got.Title)

	require.NoError(t, s.DeleteTripItem("t1"))
	got, err = s.GetTripItem("t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
