package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type FlightType string

const (
	FlightDeparture FlightType = "departure"
	FlightArrival   FlightType = "arrival"
)

// LeadTimeOptions are the lead times offered by the reminder forms, in minutes.
var LeadTimeOptions = []int{30, 60, 120, 180, 240}

// DefaultLeadTime is preselected in the forms.
const DefaultLeadTime = 180

var ErrInvalidReminder = errors.New("invalid flight reminder")

// FlightReminder is persisted as one JSON array of all reminders.
type FlightReminder struct {
	ID              string     `json:"id"`
	Type            FlightType `json:"type"`
	FlightNumber    string     `json:"flightNumber"`
	DateTime        time.Time  `json:"dateTime"`
	ReminderMinutes int        `json:"reminderMinutes"`
	Notified        bool       `json:"notified"`
}

// ReminderDraft holds the user-editable fields of a new reminder.
type ReminderDraft struct {
	Type            FlightType `json:"type"`
	FlightNumber    string     `json:"flightNumber"`
	DateTime        time.Time  `json:"dateTime"`
	ReminderMinutes int        `json:"reminderMinutes"`
}

// ReminderPatch carries a partial update. Nil fields are left untouched.
type ReminderPatch struct {
	Type            *FlightType `json:"type,omitempty"`
	FlightNumber    *string     `json:"flightNumber,omitempty"`
	DateTime        *time.Time  `json:"dateTime,omitempty"`
	ReminderMinutes *int        `json:"reminderMinutes,omitempty"`
}

func (t FlightType) Valid() bool {
	return t == FlightDeparture || t == FlightArrival
}

// Label returns the name shown to the family.
func (t FlightType) Label() string {
	switch t {
	case FlightDeparture:
		return "Saída"
	case FlightArrival:
		return "Chegada"
	default:
		return string(t)
	}
}

func (t FlightType) Emoji() string {
	if t == FlightArrival {
		return "🛬"
	}
	return "🛫"
}

// ParseFlightType accepts the stored values and the Portuguese labels.
func ParseFlightType(s string) (FlightType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "departure", "saida", "saída", "partida":
		return FlightDeparture, true
	case "arrival", "chegada":
		return FlightArrival, true
	}
	return "", false
}

func (d ReminderDraft) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidReminder, d.Type)
	}
	if strings.TrimSpace(d.FlightNumber) == "" {
		return fmt.Errorf("%w: flight number is required", ErrInvalidReminder)
	}
	if d.DateTime.IsZero() {
		return fmt.Errorf("%w: date and time are required", ErrInvalidReminder)
	}
	if d.ReminderMinutes < 0 {
		return fmt.Errorf("%w: negative lead time", ErrInvalidReminder)
	}
	return nil
}

func (p ReminderPatch) Validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidReminder, *p.Type)
	}
	if p.FlightNumber != nil && strings.TrimSpace(*p.FlightNumber) == "" {
		return fmt.Errorf("%w: flight number is required", ErrInvalidReminder)
	}
	if p.DateTime != nil && p.DateTime.IsZero() {
		return fmt.Errorf("%w: date and time are required", ErrInvalidReminder)
	}
	if p.ReminderMinutes != nil && *p.ReminderMinutes < 0 {
		return fmt.Errorf("%w: negative lead time", ErrInvalidReminder)
	}
	return nil
}

// Apply merges the patch into r. It does not touch ID or Notified.
func (p ReminderPatch) Apply(r *FlightReminder) {
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.FlightNumber != nil {
		r.FlightNumber = strings.TrimSpace(*p.FlightNumber)
	}
	if p.DateTime != nil {
		r.DateTime = p.DateTime.UTC()
	}
	if p.ReminderMinutes != nil {
		r.ReminderMinutes = *p.ReminderMinutes
	}
}

// TriggerAt is the instant the reminder becomes eligible to fire.
func (r FlightReminder) TriggerAt() time.Time {
	return r.DateTime.Add(-time.Duration(r.ReminderMinutes) * time.Minute)
}

// IsDue reports whether now falls in [TriggerAt, DateTime).
func (r FlightReminder) IsDue(now time.Time) bool {
	return !now.Before(r.TriggerAt()) && now.Before(r.DateTime)
}

// IsPast reports whether the flight time has been reached.
func (r FlightReminder) IsPast(now time.Time) bool {
	return !now.Before(r.DateTime)
}

// SameTrigger reports whether o has the same user-editable fields as r.
func (r FlightReminder) SameTrigger(o FlightReminder) bool {
	return r.Type == o.Type &&
		r.FlightNumber == o.FlightNumber &&
		r.DateTime.Equal(o.DateTime) &&
		r.ReminderMinutes == o.ReminderMinutes
}

// Notification is a one-shot message produced for a due reminder.
type Notification struct {
	ReminderID string
	Title      string
	Body       string
	Icon       string
}

// NewFlightNotification builds the notification for r, showing times in loc.
func NewFlightNotification(r FlightReminder, loc *time.Location) Notification {
	if loc == nil {
		loc = time.UTC
	}
	return Notification{
		ReminderID: r.ID,
		Title:      fmt.Sprintf("%s %s: %s", r.Type.Emoji(), r.Type.Label(), r.FlightNumber),
		Body:       fmt.Sprintf("Horário programado: %s", r.DateTime.In(loc).Format("02/01/2006 15:04")),
		Icon:       "/icons/plane.png",
	}
}
