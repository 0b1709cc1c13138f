package caldav

import "time"

// Calendar is a collection on the CalDAV server
type Calendar struct {
	Path        string
	DisplayName string
}

// Event is a timed calendar entry
type Event struct {
	UID         string // also the object file name
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Alarms      []Alarm
}

// Alarm fires a display alert before the event starts.
type Alarm struct {
	MinutesBefore int
	Description   string
}
