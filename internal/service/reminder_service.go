package service

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/storage"
	"go.uber.org/zap"
)

// Store persists whole JSON collections under a key. Load never fails; it
// reports false when there is nothing usable to load.
type Store interface {
	Load(key string, dst any) bool
	Save(key string, value any) error
}

// ReminderService owns the flight reminder collection. Every mutation is
// applied in memory first and then the whole collection is persisted.
type ReminderService struct {
	mu        sync.RWMutex
	store     Store
	log       *zap.Logger
	timezone  *time.Location
	reminders []domain.FlightReminder
	newID     func() string
}

func NewReminderService(s Store, tz *time.Location, log *zap.Logger) *ReminderService {
	svc := &ReminderService{
		store:    s,
		log:      log.Named("reminders"),
		timezone: tz,
		newID:    uuid.NewString,
	}

	var saved []domain.FlightReminder
	if s.Load(storage.KeyFlightReminders, &saved) {
		svc.reminders = saved
	}
	return svc
}

// List returns a copy of the reminders in stored order.
func (s *ReminderService) List() []domain.FlightReminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FlightReminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// Sorted returns the reminders ordered by flight time.
func (s *ReminderService) Sorted() []domain.FlightReminder {
	out := s.List()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}

func (s *ReminderService) Get(id string) (domain.FlightReminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.reminders[i], true
	}
	return domain.FlightReminder{}, false
}

// Find resolves a full id or an unambiguous id prefix.
func (s *ReminderService) Find(ref string) (domain.FlightReminder, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.FlightReminder{}, false
	}
	if r, ok := s.Get(ref); ok {
		return r, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.FlightReminder
	for i := range s.reminders {
		if strings.HasPrefix(s.reminders[i].ID, ref) {
			if found != nil {
				return domain.FlightReminder{}, false
			}
			found = &s.reminders[i]
		}
	}
	if found == nil {
		return domain.FlightReminder{}, false
	}
	return *found, true
}

func (s *ReminderService) Add(draft domain.ReminderDraft) (domain.FlightReminder, error) {
	if err := draft.Validate(); err != nil {
		return domain.FlightReminder{}, err
	}

	r := domain.FlightReminder{
		ID:              s.newID(),
		Type:            draft.Type,
		FlightNumber:    strings.TrimSpace(draft.FlightNumber),
		DateTime:        draft.DateTime.UTC(),
		ReminderMinutes: draft.ReminderMinutes,
		Notified:        false,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reminders = append(s.reminders, r)
	s.persist()

	s.log.Info("reminder added", zap.String("id", r.ID), zap.String("flight", r.FlightNumber),
		zap.Time("trigger_at", r.TriggerAt()))
	return r, nil
}

// Update merges patch into the reminder and makes it pending again. An unknown
// id is a no-op.
func (s *ReminderService) Update(id string, patch domain.ReminderPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	updated := s.reminders[i]
	patch.Apply(&updated)
	updated.Notified = false
	s.reminders[i] = updated
	s.persist()

	s.log.Info("reminder updated", zap.String("id", id), zap.Time("trigger_at", updated.TriggerAt()))
	return nil
}

func (s *ReminderService) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.reminders = append(s.reminders[:i:i], s.reminders[i+1:]...)
	s.persist()

	s.log.Info("reminder deleted", zap.String("id", id))
}

// MarkNotified flags the reminder as notified without touching anything else.
func (s *ReminderService) MarkNotified(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.reminders[i].Notified = true
	s.persist()
}

// MarkNotifiedIfUnchanged flags the reminder only if it is still pending with
// the same trigger fields as snapshot. It returns whether the flag was set.
func (s *ReminderService) MarkNotifiedIfUnchanged(snapshot domain.FlightReminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(snapshot.ID)
	if i < 0 {
		return false
	}
	current := s.reminders[i]
	if current.Notified || !current.SameTrigger(snapshot) {
		return false
	}
	s.reminders[i].Notified = true
	s.persist()
	return true
}

// persist must be called with mu held.
func (s *ReminderService) persist() {
	if err := s.store.Save(storage.KeyFlightReminders, s.reminders); err != nil {
		s.log.Warn("save reminders", zap.Int("count", len(s.reminders)), zap.Error(err))
	}
}

func (s *ReminderService) indexOf(id string) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ReminderService) FormatReminderList(reminders []domain.FlightReminder, now time.Time) string {
	if len(reminders) == 0 {
		return "Nenhum lembrete de voo adicionado."
	}

	var sb strings.Builder
	for _, r := range reminders {
		status := "🔔"
		switch {
		case r.IsPast(now):
			status = "✔️"
		case r.Notified:
			status = "🔕"
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s: %s</b> <code>%s</code>\n", status, r.Type.Label(), html.EscapeString(r.FlightNumber), shortID(r.ID)))
		sb.WriteString(fmt.Sprintf("    %s · lembrete às %s\n",
			r.DateTime.In(s.timezone).Format("02/01 15:04"),
			r.TriggerAt().In(s.timezone).Format("15:04")))
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
