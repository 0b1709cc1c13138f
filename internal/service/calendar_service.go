package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/tazhate/tripbot/internal/clients/caldav"
	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

var ErrCalendarNotConfigured = errors.New("CalDAV not configured")

// flightBlock is how long a flight event lasts in the calendar.
const flightBlock = time.Hour

// CalendarClient is the CalDAV side of the mirror.
type CalendarClient interface {
	IsConfigured() bool
	ListUIDs(ctx context.Context, calendarPath string) ([]string, error)
	PutEvent(ctx context.Context, calendarPath string, event *caldav.Event) error
	DeleteEvent(ctx context.Context, calendarPath, uid string) error
}

// ReminderLister provides the reminders to mirror.
type ReminderLister interface {
	Sorted() []domain.FlightReminder
}

// CalendarService mirrors flight reminders into a calendar, either as an ICS
// download or by pushing them to a CalDAV server.
type CalendarService struct {
	reminders ReminderLister
	client    CalendarClient
	timezone  *time.Location
	log       *zap.Logger
	now       func() time.Time
}

func NewCalendarService(reminders ReminderLister, client CalendarClient, tz *time.Location, log *zap.Logger) *CalendarService {
	if tz == nil {
		tz = time.UTC
	}
	return &CalendarService{
		reminders: reminders,
		client:    client,
		timezone:  tz,
		log:       log.Named("calendar"),
		now:       time.Now,
	}
}

// IsConfigured returns true if CalDAV sync is available
func (s *CalendarService) IsConfigured() bool {
	return s.client != nil && s.client.IsConfigured()
}

func (s *CalendarService) event(r domain.FlightReminder) *caldav.Event {
	n := domain.NewFlightNotification(r, s.timezone)
	return &caldav.Event{
		UID:         r.ID,
		Summary:     n.Title,
		Description: n.Body,
		StartTime:   r.DateTime,
		EndTime:     r.DateTime.Add(flightBlock),
		Alarms:      []caldav.Alarm{{MinutesBefore: r.ReminderMinutes, Description: n.Title}},
	}
}

// ExportICS writes every reminder as a VEVENT with a VALARM at its lead time.
func (s *CalendarService) ExportICS(w io.Writer) error {
	cal := caldav.NewCalendar()
	stamp := s.now()
	for _, r := range s.reminders.Sorted() {
		cal.Children = append(cal.Children, caldav.EventComponent(s.event(r), stamp))
	}
	if err := caldav.Encode(w, cal); err != nil {
		return fmt.Errorf("encode ics: %w", err)
	}
	return nil
}

// SyncResult contains sync operation results
type SyncResult struct {
	Pushed  int      `json:"pushed"`
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors,omitempty"`
}

// Sync pushes every reminder to the CalDAV calendar and removes events whose
// reminder no longer exists. Reminder ids are the event UIDs.
func (s *CalendarService) Sync(ctx context.Context) (*SyncResult, error) {
	if !s.IsConfigured() {
		return nil, ErrCalendarNotConfigured
	}

	result := &SyncResult{}
	keep := make(map[string]struct{})

	for _, r := range s.reminders.Sorted() {
		keep[r.ID] = struct{}{}
		if err := s.client.PutEvent(ctx, "", s.event(r)); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Pushed++
	}

	uids, err := s.client.ListUIDs(ctx, "")
	if err != nil {
		return result, fmt.Errorf("list calendar events: %w", err)
	}
	for _, uid := range uids {
		if _, ok := keep[uid]; ok {
			continue
		}
		// Events not created from a reminder are left alone.
		if _, err := uuid.Parse(uid); err != nil {
			continue
		}
		if err := s.client.DeleteEvent(ctx, "", uid); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Deleted++
	}

	s.log.Info("calendar synced",
		zap.Int("pushed", result.Pushed), zap.Int("deleted", result.Deleted), zap.Int("errors", len(result.Errors)))
	return result, nil
}

func FormatSyncResult(r *SyncResult) string {
	msg := fmt.Sprintf("📆 Calendário sincronizado\nEnviados: %d\nRemovidos: %d", r.Pushed, r.Deleted)
	if len(r.Errors) > 0 {
		msg += fmt.Sprintf("\nErros: %d", len(r.Errors))
	}
	return msg
}
