package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhate/tripbot/config"
	"github.com/tazhate/tripbot/internal/clients/caldav"
	"github.com/tazhate/tripbot/internal/clients/gemini"
	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/obs"
	"github.com/tazhate/tripbot/internal/service"
	"github.com/tazhate/tripbot/internal/storage"
	"github.com/tazhate/tripbot/internal/tripdata"
	"go.uber.org/zap"
)

type testEnv struct {
	srv *httptest.Server
	svc service.Services
}

// newTestEnv wires the real services over a temporary database. gem, when
// set, answers the Gemini generateContent calls.
func newTestEnv(t *testing.T, gem http.HandlerFunc) *testEnv {
	t.Helper()
	log := zap.NewNop()

	store, err := storage.New(filepath.Join(t.TempDir(), "tripbot.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		ServerPort:   "0",
		Timezone:     time.UTC,
		Users:        map[string]string{"Deco": "Deco", "Rafa": "Rafa"},
		BRLToCLPRate: 175,
	}

	geminiClient := gemini.NewClient("", "")
	if gem != nil {
		g := httptest.NewServer(gem)
		t.Cleanup(g.Close)
		geminiClient = gemini.NewClient("test-key", "")
		geminiClient.SetBaseURL(g.URL)
	}

	reminders := service.NewReminderService(store, cfg.Timezone, log)
	assistant := service.NewAssistantService(geminiClient, tripdata.Itinerary, cfg.Timezone, log)
	svc := service.Services{
		Reminders:     reminders,
		Permission:    service.NewPermissionService(store, true, log),
		Luggage:       service.NewLuggageService(store, tripdata.Luggage, log),
		Itinerary:     service.NewItineraryService(store, tripdata.Itinerary, log),
		TripItems:     service.NewTripItemService(store, log),
		Currency:      service.NewCurrencyService(cfg.BRLToCLPRate, nil, log),
		Assistant:     assistant,
		Calendar:      service.NewCalendarService(reminders, caldav.NewClient("", "", ""), cfg.Timezone, log),
		LuggageData:   tripdata.Luggage,
		ItineraryData: tripdata.Itinerary,
	}

	server := New(cfg, svc, log, WithHealth(store), WithMetrics(obs.NewRegistry()))
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, Response) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	req.SetBasicAuth("Deco", "Deco")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out Response
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

// decode re-marshals the envelope data into dst.
func decode(t *testing.T, data any, dst any) {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, dst))
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, err := http.Get(e.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(e.srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, err := http.Get(e.srv.URL + "/api/reminders")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("WWW-Authenticate"))

	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/api/reminders", nil)
	req.SetBasicAuth("Deco", "wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, out := e.do(t, http.MethodPost, "/api/login", map[string]string{"username": "Rafa", "password": "Rafa"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)

	resp, out = e.do(t, http.MethodPost, "/api/login", map[string]string{"username": "Rafa", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, out.Success)
}

func TestRemindersCRUD(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, out := e.do(t, http.MethodPost, "/api/reminders", map[string]any{
		"type": "departure", "flightNumber": "la800", "dateTime": "2025-12-25T18:00:00Z", "reminderMinutes": 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.FlightReminder
	decode(t, out.Data, &created)
	assert.Equal(t, "LA800", created.FlightNumber)
	assert.Equal(t, 30, created.ReminderMinutes)
	assert.False(t, created.Notified)

	// Wall clock form with the default lead time
	resp, out = e.do(t, http.MethodPost, "/api/reminders", map[string]any{
		"type": "chegada", "flightNumber": "JJ8000", "dateTime": "2025-12-20T09:15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var second domain.FlightReminder
	decode(t, out.Data, &second)
	assert.Equal(t, domain.DefaultLeadTime, second.ReminderMinutes)
	assert.Equal(t, domain.FlightArrival, second.Type)

	_, out = e.do(t, http.MethodGet, "/api/reminders", nil)
	var list []domain.FlightReminder
	decode(t, out.Data, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "JJ8000", list[0].FlightNumber, "ordered by flight time")

	e.svc.Reminders.MarkNotified(created.ID)
	resp, out = e.do(t, http.MethodPut, "/api/reminders/"+created.ID, map[string]any{"reminderMinutes": 60})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated domain.FlightReminder
	decode(t, out.Data, &updated)
	assert.Equal(t, 60, updated.ReminderMinutes)
	assert.False(t, updated.Notified)
	assert.Equal(t, "LA800", updated.FlightNumber)

	resp, _ = e.do(t, http.MethodGet, "/api/reminders/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPut, "/api/reminders/missing", map[string]any{"reminderMinutes": 60})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodDelete, "/api/reminders/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodDelete, "/api/reminders/missing", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, e.svc.Reminders.List(), 1)
}

func TestCreateReminderValidation(t *testing.T) {
	e := newTestEnv(t, nil)

	for _, body := range []map[string]any{
		{"type": "layover", "flightNumber": "LA800", "dateTime": "2025-12-25T18:00:00Z"},
		{"type": "departure", "flightNumber": "", "dateTime": "2025-12-25T18:00:00Z"},
		{"type": "departure", "flightNumber": "LA800", "dateTime": "amanhã"},
		{"type": "departure", "flightNumber": "LA800"},
		{"type": "departure", "flightNumber": "LA800", "dateTime": "2025-12-25T18:00:00Z", "reminderMinutes": -1},
	} {
		resp, out := e.do(t, http.MethodPost, "/api/reminders", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.False(t, out.Success)
	}
	assert.Empty(t, e.svc.Reminders.List())
}

func TestExportICS(t *testing.T) {
	e := newTestEnv(t, nil)
	e.do(t, http.MethodPost, "/api/reminders", map[string]any{
		"type": "departure", "flightNumber": "LA800", "dateTime": "2025-12-25T18:00:00Z", "reminderMinutes": 180,
	})

	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/api/reminders.ics", nil)
	req.SetBasicAuth("Deco", "Deco")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, "text/calendar; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "BEGIN:VALARM")
	assert.Contains(t, string(body), "-PT180M")
}

func TestPermissionEndpoints(t *testing.T) {
	e := newTestEnv(t, nil)

	_, out := e.do(t, http.MethodGet, "/api/notifications/permission", nil)
	assert.Equal(t, map[string]any{"permission": "default"}, out.Data)

	_, out = e.do(t, http.MethodPost, "/api/notifications/permission", map[string]string{"action": "request"})
	assert.Equal(t, map[string]any{"permission": "granted"}, out.Data)
	assert.True(t, e.svc.Permission.Permission().Granted())

	resp, _ := e.do(t, http.MethodPost, "/api/notifications/permission", map[string]string{"action": "maybe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChecklistEndpoints(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, out := e.do(t, http.MethodPost, "/api/luggage/0-0-0/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled struct {
		Checked  bool            `json:"checked"`
		Progress domain.Progress `json:"progress"`
	}
	decode(t, out.Data, &toggled)
	assert.True(t, toggled.Checked)
	assert.Equal(t, 1, toggled.Progress.Completed)

	resp, _ = e.do(t, http.MethodPost, "/api/luggage/99-0-0/toggle", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, out = e.do(t, http.MethodGet, "/api/luggage", nil)
	var luggage checklistResponse
	decode(t, out.Data, &luggage)
	assert.True(t, luggage.Checked["0-0-0"])

	e.do(t, http.MethodDelete, "/api/luggage", nil)
	assert.Zero(t, e.svc.Luggage.Progress().Completed)

	resp, _ = e.do(t, http.MethodPost, "/api/itinerary/0-0/toggle", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, e.svc.Itinerary.IsChecked("0-0"))

	resp, _ = e.do(t, http.MethodGet, "/api/itinerary/999/route", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTripItemEndpoints(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, out := e.do(t, http.MethodPost, "/api/trip-items", map[string]string{
		"category": "documentos", "title": "Passaporte",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item domain.TripItem
	decode(t, out.Data, &item)

	resp, _ = e.do(t, http.MethodPost, "/api/trip-items", map[string]string{"category": "x", "title": "y"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, out = e.do(t, http.MethodPut, "/api/trip-items/"+item.ID, map[string]string{"description": "Válido até 2030"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, out.Data, &item)
	assert.Equal(t, "Válido até 2030", item.Description)

	resp, _ = e.do(t, http.MethodPut, "/api/trip-items/missing", map[string]string{"description": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, out = e.do(t, http.MethodGet, "/api/trip-items/"+item.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.TripItem
	decode(t, out.Data, &got)
	assert.Equal(t, "Passaporte", got.Title)

	resp, _ = e.do(t, http.MethodGet, "/api/trip-items/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, out = e.do(t, http.MethodGet, "/api/trip-items?category=reservas", nil)
	assert.Equal(t, []any{}, out.Data)

	e.do(t, http.MethodDelete, "/api/trip-items/"+item.ID, nil)
	_, out = e.do(t, http.MethodGet, "/api/trip-items", nil)
	assert.Equal(t, []any{}, out.Data)
}

func TestCurrencyEndpoints(t *testing.T) {
	e := newTestEnv(t, nil)

	_, out := e.do(t, http.MethodGet, "/api/currency/convert?amount=17500&from=CLP", nil)
	data := out.Data.(map[string]any)
	assert.Equal(t, "100.00", data["result"])

	_, out = e.do(t, http.MethodGet, "/api/currency/convert?amount=abc&from=BRL", nil)
	assert.Equal(t, "", out.Data.(map[string]any)["result"])

	resp, _ := e.do(t, http.MethodGet, "/api/currency/convert?amount=1&from=USD", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, out = e.do(t, http.MethodGet, "/api/currency/rate", nil)
	var rate domain.ExchangeRate
	decode(t, out.Data, &rate)
	assert.Equal(t, 175.0, rate.BRLToCLP)
	assert.False(t, rate.Live)
}

func TestAssistantNotConfigured(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, _ := e.do(t, http.MethodPost, "/api/assistant/chat", map[string]string{"message": "oi"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/api/flights/LA800/status", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/api/calendar/sync", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAssistantEndpoints(t *testing.T) {
	e := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var req gemini.GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)

		text := "Experimente o Mercado Central."
		if req.GenerationConfig != nil {
			text = `{"airline":"LATAM","flightNumber":"LA800","status":"Pousou",` +
				`"departure":{"airport":"Guarulhos","iata":"GRU","scheduledTime":"08:00"},` +
				`"arrival":{"airport":"Santiago","iata":"SCL","scheduledTime":"12:00"}}`
		}
		json.NewEncoder(w).Encode(gemini.GenerateResponse{Candidates: []gemini.Candidate{{Content: gemini.ModelText(text)}}})
	})

	resp, out := e.do(t, http.MethodPost, "/api/assistant/chat", map[string]string{"message": "Onde almoçar?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"role": "model", "text": "Experimente o Mercado Central."}, out.Data)
	assert.Len(t, e.svc.Assistant.History("web:Deco"), 2)

	resp, _ = e.do(t, http.MethodPost, "/api/assistant/chat", map[string]string{"message": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	e.do(t, http.MethodDelete, "/api/assistant/chat/web:Deco", nil)
	assert.Empty(t, e.svc.Assistant.History("web:Deco"))

	resp, out = e.do(t, http.MethodGet, "/api/flights/la800/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out.Data.(map[string]any)
	assert.Equal(t, 100.0, data["progress"])
}
