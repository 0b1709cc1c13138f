package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/service"
	"go.uber.org/zap"
)

// reminderRequest accepts the reminder form. dateTime is RFC 3339 or a
// wall-clock "2006-01-02T15:04" in the configured timezone.
type reminderRequest struct {
	Type            *string `json:"type"`
	FlightNumber    *string `json:"flightNumber"`
	DateTime        *string `json:"dateTime"`
	ReminderMinutes *int    `json:"reminderMinutes"`
}

func (s *Server) parseDateTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", v, s.cfg.Timezone)
	if err != nil {
		return time.Time{}, errors.New("invalid dateTime, use RFC 3339 or YYYY-MM-DDTHH:MM")
	}
	return t, nil
}

func (req reminderRequest) patch(s *Server) (domain.ReminderPatch, error) {
	var p domain.ReminderPatch
	if req.Type != nil {
		t, ok := domain.ParseFlightType(*req.Type)
		if !ok {
			return p, errors.New("type must be departure or arrival")
		}
		p.Type = &t
	}
	if req.FlightNumber != nil {
		f := strings.ToUpper(strings.TrimSpace(*req.FlightNumber))
		p.FlightNumber = &f
	}
	if req.DateTime != nil {
		t, err := s.parseDateTime(*req.DateTime)
		if err != nil {
			return p, err
		}
		p.DateTime = &t
	}
	p.ReminderMinutes = req.ReminderMinutes
	return p, nil
}

// GET /api/reminders - reminders ordered by flight time
func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, s.svc.Reminders.Sorted())
}

// POST /api/reminders - create reminder
func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	p, err := req.patch(s)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := domain.ReminderDraft{ReminderMinutes: domain.DefaultLeadTime}
	if p.Type != nil {
		draft.Type = *p.Type
	}
	if p.FlightNumber != nil {
		draft.FlightNumber = *p.FlightNumber
	}
	if p.DateTime != nil {
		draft.DateTime = *p.DateTime
	}
	if p.ReminderMinutes != nil {
		draft.ReminderMinutes = *p.ReminderMinutes
	}

	rem, err := s.svc.Reminders.Add(draft)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonCreated(w, rem)
}

func (s *Server) getReminder(w http.ResponseWriter, r *http.Request) {
	rem, ok := s.svc.Reminders.Get(r.PathValue("id"))
	if !ok {
		s.jsonError(w, "Reminder not found", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, rem)
}

// PUT /api/reminders/{id} - partial update; the reminder fires again
func (s *Server) updateReminder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := req.patch(s)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.svc.Reminders.Update(id, p); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rem, ok := s.svc.Reminders.Get(id)
	if !ok {
		s.jsonError(w, "Reminder not found", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, rem)
}

// DELETE /api/reminders/{id} - unknown ids succeed as well
func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	s.svc.Reminders.Delete(r.PathValue("id"))
	s.jsonResponse(w, map[string]string{"message": "Reminder deleted"})
}

// GET /api/reminders.ics - calendar export with alarms
func (s *Server) exportReminders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="voos.ics"`)
	if err := s.svc.Calendar.ExportICS(w); err != nil {
		s.log.Error("export ics", zap.Error(err))
	}
}

func (s *Server) getPermission(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, map[string]domain.Permission{"permission": s.svc.Permission.Permission()})
}

// POST /api/notifications/permission {"action":"request"|"deny"}
func (s *Server) setPermission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var p domain.Permission
	switch req.Action {
	case "request", "grant":
		p = s.svc.Permission.Request()
	case "deny":
		p = s.svc.Permission.Deny()
	default:
		s.jsonError(w, "action must be request or deny", http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, map[string]domain.Permission{"permission": p})
}

type checklistResponse struct {
	Progress domain.Progress `json:"progress"`
	Quote    string          `json:"quote"`
	Checked  map[string]bool `json:"checked"`
	Data     interface{}     `json:"data"`
}

func (s *Server) getLuggage(w http.ResponseWriter, r *http.Request) {
	p := s.svc.Luggage.Progress()
	s.jsonResponse(w, checklistResponse{
		Progress: p,
		Quote:    p.LuggageQuote(),
		Checked:  s.svc.Luggage.Checked(),
		Data:     s.svc.LuggageData,
	})
}

func (s *Server) toggleLuggage(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, s.svc.Luggage, r.PathValue("key"))
}

func (s *Server) resetLuggage(w http.ResponseWriter, r *http.Request) {
	s.svc.Luggage.Reset()
	s.jsonResponse(w, s.svc.Luggage.Progress())
}

func (s *Server) getItinerary(w http.ResponseWriter, r *http.Request) {
	p := s.svc.Itinerary.Progress()
	s.jsonResponse(w, checklistResponse{
		Progress: p,
		Quote:    p.ItineraryQuote(),
		Checked:  s.svc.Itinerary.Checked(),
		Data:     s.svc.ItineraryData,
	})
}

func (s *Server) toggleItinerary(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, s.svc.Itinerary, r.PathValue("key"))
}

func (s *Server) toggle(w http.ResponseWriter, p *service.ProgressService, key string) {
	checked, err := p.Toggle(key)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownItem) {
			s.jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, map[string]interface{}{
		"key":      key,
		"checked":  checked,
		"progress": p.Progress(),
	})
}

func (s *Server) itineraryDay(w http.ResponseWriter, r *http.Request) (domain.ItineraryDay, bool) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil || day < 0 || day >= len(s.svc.ItineraryData) {
		s.jsonError(w, "Day not found", http.StatusNotFound)
		return domain.ItineraryDay{}, false
	}
	return s.svc.ItineraryData[day], true
}

// GET /api/itinerary/{day}/route - Google Maps directions through the day's stops
func (s *Server) itineraryRoute(w http.ResponseWriter, r *http.Request) {
	day, ok := s.itineraryDay(w, r)
	if !ok {
		return
	}
	u := day.DirectionsURL()
	if u == "" {
		s.jsonError(w, "Day has no located stops", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, map[string]string{"url": u})
}

func (s *Server) placeInfo(w http.ResponseWriter, r *http.Request) {
	day, ok := s.itineraryDay(w, r)
	if !ok {
		return
	}
	event, err := strconv.Atoi(r.PathValue("event"))
	if err != nil || event < 0 || event >= len(day.Events) {
		s.jsonError(w, "Event not found", http.StatusNotFound)
		return
	}
	ev := day.Events[event]

	info, err := s.svc.Assistant.PlaceInfo(r.Context(), ev.Description, ev.Location)
	if err != nil {
		s.assistantError(w, err)
		return
	}
	s.jsonResponse(w, info)
}

// GET /api/trip-items?category=documentos
func (s *Server) listTripItems(w http.ResponseWriter, r *http.Request) {
	var (
		items []*domain.TripItem
		err   error
	)
	if c := r.URL.Query().Get("category"); c != "" {
		items, err = s.svc.TripItems.ListByCategory(domain.TripCategory(c))
	} else {
		items, err = s.svc.TripItems.List()
	}
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*domain.TripItem{}
	}
	s.jsonResponse(w, items)
}

func (s *Server) createTripItem(w http.ResponseWriter, r *http.Request) {
	var req domain.TripItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	item, err := s.svc.TripItems.Add(req)
	if err != nil {
		s.tripItemError(w, err)
		return
	}
	s.jsonCreated(w, item)
}

func (s *Server) getTripItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.TripItems.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if item == nil {
		s.jsonError(w, "Item not found", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, item)
}

func (s *Server) updateTripItem(w http.ResponseWriter, r *http.Request) {
	var patch domain.TripItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	item, err := s.svc.TripItems.Update(r.PathValue("id"), patch)
	if err != nil {
		s.tripItemError(w, err)
		return
	}
	if item == nil {
		s.jsonError(w, "Item not found", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, item)
}

func (s *Server) deleteTripItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.TripItems.Delete(r.PathValue("id")); err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, map[string]string{"message": "Item deleted"})
}

func (s *Server) tripItemError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidTripItem) {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonError(w, err.Error(), http.StatusInternalServerError)
}

// GET /api/currency/convert?amount=10.000&from=CLP
func (s *Server) convertCurrency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, ok := service.ParseCurrency(q.Get("from"))
	if !ok {
		s.jsonError(w, "from must be CLP or BRL", http.StatusBadRequest)
		return
	}

	amount := service.ParseAmount(q.Get("amount"))
	out, err := s.svc.Currency.Convert(amount, from)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, map[string]interface{}{
		"amount": amount,
		"from":   from,
		"result": out,
		"rate":   s.svc.Currency.Rate(),
	})
}

func (s *Server) exchangeRate(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, s.svc.Currency.LiveRate(r.Context()))
}

func (s *Server) flightStatus(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.Assistant.FlightStatus(r.Context(), r.PathValue("number"))
	if err != nil {
		s.assistantError(w, err)
		return
	}
	s.jsonResponse(w, map[string]interface{}{
		"flight":   info,
		"progress": info.Progress(),
	})
}

// POST /api/assistant/chat {"session":"…","message":"…"}
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Session string `json:"session"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Session == "" {
		user, _, _ := r.BasicAuth()
		req.Session = "web:" + user
	}

	reply, err := s.svc.Assistant.Chat(r.Context(), req.Session, req.Message)
	if err != nil {
		s.assistantError(w, err)
		return
	}
	s.jsonResponse(w, domain.ChatMessage{Role: "model", Text: reply})
}

func (s *Server) resetChat(w http.ResponseWriter, r *http.Request) {
	s.svc.Assistant.Reset(r.PathValue("session"))
	s.jsonResponse(w, domain.ChatMessage{Role: "model", Text: s.svc.Assistant.Greeting()})
}

func (s *Server) syncCalendar(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Calendar.Sync(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrCalendarNotConfigured) {
			s.jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.log.Error("calendar sync", zap.Error(err))
		s.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.jsonResponse(w, res)
}

func (s *Server) assistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		s.jsonError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, domain.ErrInvalidReminder), errors.Is(err, service.ErrEmptyMessage):
		s.jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Warn("assistant request", zap.Error(err))
		s.jsonError(w, err.Error(), http.StatusBadGateway)
	}
}
