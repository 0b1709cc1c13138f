package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnknownItem = errors.New("unknown checklist item")

// ChecklistItem is a single thing to pack.
type ChecklistItem struct {
	Name string `json:"name"`
}

type ChecklistSubcategory struct {
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

// ChecklistCategory groups subcategories, e.g. one per family member.
type ChecklistCategory struct {
	Title         string                 `json:"title"`
	Subcategories []ChecklistSubcategory `json:"subcategories"`
}

// LuggageKey identifies an item by its position, "c-s-i".
func LuggageKey(category, subcategory, item int) string {
	return fmt.Sprintf("%d-%d-%d", category, subcategory, item)
}

// LuggageKeys lists every item key of the given categories.
func LuggageKeys(categories []ChecklistCategory) []string {
	var keys []string
	for c, cat := range categories {
		for s, sub := range cat.Subcategories {
			for i := range sub.Items {
				keys = append(keys, LuggageKey(c, s, i))
			}
		}
	}
	return keys
}

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lng)
}

type ItineraryEvent struct {
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Location    *Location `json:"location,omitempty"`
}

type ItineraryDay struct {
	Day    string           `json:"day"`
	Date   string           `json:"date"`
	Title  string           `json:"title"`
	Events []ItineraryEvent `json:"events"`
}

// ItineraryKey identifies an event by its position, "d-e".
func ItineraryKey(day, event int) string {
	return fmt.Sprintf("%d-%d", day, event)
}

func ItineraryKeys(days []ItineraryDay) []string {
	var keys []string
	for d, day := range days {
		for e := range day.Events {
			keys = append(keys, ItineraryKey(d, e))
		}
	}
	return keys
}

const directionsBaseURL = "https://www.google.com/maps/dir/?api=1"

// DirectionsURL returns a Google Maps route through the day's located events,
// or "" when none has coordinates.
func (d ItineraryDay) DirectionsURL() string {
	var locs []Location
	for _, e := range d.Events {
		if e.Location != nil {
			locs = append(locs, *e.Location)
		}
	}
	if len(locs) == 0 {
		return ""
	}
	if len(locs) == 1 {
		return directionsBaseURL + "&destination=" + locs[0].String()
	}

	var sb strings.Builder
	sb.WriteString(directionsBaseURL)
	sb.WriteString("&origin=" + locs[0].String())
	sb.WriteString("&destination=" + locs[len(locs)-1].String())
	if len(locs) > 2 {
		points := make([]string, 0, len(locs)-2)
		for _, l := range locs[1 : len(locs)-1] {
			points = append(points, l.String())
		}
		sb.WriteString("&waypoints=" + url.QueryEscape(strings.Join(points, "|")))
	}
	sb.WriteString("&travelmode=driving")
	return sb.String()
}

// Progress summarizes a checklist.
type Progress struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Percent   float64 `json:"percent"`
}

func NewProgress(total, completed int) Progress {
	p := Progress{Total: total, Completed: completed}
	if total > 0 {
		p.Percent = float64(completed) / float64(total) * 100
	}
	return p
}

func (p Progress) Remaining() int {
	return p.Total - p.Completed
}

// LuggageQuote is the line shown under the luggage progress bar.
func (p Progress) LuggageQuote() string {
	if p.Percent >= 100 {
		return "Tudo pronto para a viagem!"
	}
	return fmt.Sprintf("Faltam %d itens.", p.Remaining())
}

var itineraryQuotes = []string{
	"Uma grande aventura te espera em Santiago!",
	"Criando memórias que vão durar para sempre.",
	"Aproveitando cada momento desta viagem incrível!",
	"Quase lá! A melhor parte ainda está por vir.",
	"Roteiro completo! Uma viagem para guardar no coração.",
}

// ItineraryQuote changes every 25% of the itinerary.
func (p Progress) ItineraryQuote() string {
	switch {
	case p.Percent >= 100:
		return itineraryQuotes[4]
	case p.Percent >= 75:
		return itineraryQuotes[3]
	case p.Percent >= 50:
		return itineraryQuotes[2]
	case p.Percent >= 25:
		return itineraryQuotes[1]
	default:
		return itineraryQuotes[0]
	}
}
