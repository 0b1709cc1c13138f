package domain

import "strings"

type FlightEndpoint struct {
	Airport       string `json:"airport"`
	IATA          string `json:"iata"`
	Terminal      string `json:"terminal,omitempty"`
	Gate          string `json:"gate,omitempty"`
	ScheduledTime string `json:"scheduledTime"`
	ActualTime    string `json:"actualTime,omitempty"`
}

// FlightInfo is the live status of a flight as reported by the assistant.
type FlightInfo struct {
	Airline      string         `json:"airline"`
	FlightNumber string         `json:"flightNumber"`
	Status       string         `json:"status"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
}

// Progress estimates how far along the flight is, 0-100, from the status text.
func (f FlightInfo) Progress() int {
	s := strings.ToLower(f.Status)
	switch {
	case containsAny(s, "pousou", "landed", "chegou", "arrived"):
		return 100
	case containsAny(s, "em voo", "in air"):
		return 50
	case containsAny(s, "decolou", "departed"):
		return 20
	case containsAny(s, "atrasado", "delayed"):
		return 10
	case containsAny(s, "no portão", "at gate"):
		return 5
	}
	return 0
}

// StatusEmoji marks on time, delayed and cancelled flights.
func (f FlightInfo) StatusEmoji() string {
	s := strings.ToLower(f.Status)
	switch {
	case containsAny(s, "horário", "on time"):
		return "🟢"
	case containsAny(s, "atrasado", "delayed"):
		return "🟡"
	case containsAny(s, "cancelado", "cancelled"):
		return "🔴"
	}
	return "🔵"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExchangeRate is the CLP price of one BRL.
type ExchangeRate struct {
	BRLToCLP float64 `json:"brlToClp"`
	Source   string  `json:"source"`
	Date     string  `json:"date,omitempty"`
	Live     bool    `json:"live"`
}

type Link struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// PlaceInfo is a tourist tip about an itinerary stop.
type PlaceInfo struct {
	Text  string `json:"text"`
	Links []Link `json:"links"`
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
