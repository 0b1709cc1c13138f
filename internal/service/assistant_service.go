package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/tazhate/tripbot/internal/clients/gemini"
	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("assistant is not configured")
	ErrEmptyMessage  = errors.New("empty message")
)

const (
	maxHistory = 20
	greeting   = "Olá! 👋 Sou seu assistente de viagem para o Chile. Como posso ajudar?"
)

// Santiago city centre, used for maps grounding.
var santiagoCenter = gemini.LatLng{Latitude: -33.4489, Longitude: -70.6693}

// Generator is the part of the Gemini client the assistant uses.
type Generator interface {
	IsConfigured() bool
	Generate(ctx context.Context, req *gemini.GenerateRequest) (*gemini.GenerateResponse, error)
	GenerateJSON(ctx context.Context, prompt string, schema *gemini.Schema, dst any) error
}

// AssistantService answers travel questions. Each chat session keeps its own
// bounded history.
type AssistantService struct {
	client    Generator
	itinerary []domain.ItineraryDay
	timezone  *time.Location
	log       *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string][]gemini.Content
}

func NewAssistantService(client Generator, itinerary []domain.ItineraryDay, tz *time.Location, log *zap.Logger) *AssistantService {
	if tz == nil {
		tz = time.UTC
	}
	return &AssistantService{
		client:    client,
		itinerary: itinerary,
		timezone:  tz,
		log:       log.Named("assistant"),
		now:       time.Now,
		sessions:  make(map[string][]gemini.Content),
	}
}

func (s *AssistantService) Enabled() bool {
	return s.client != nil && s.client.IsConfigured()
}

func (s *AssistantService) Greeting() string {
	return greeting
}

// Reset forgets a session's history.
func (s *AssistantService) Reset(session string) {
	s.mu.Lock()
	delete(s.sessions, session)
	s.mu.Unlock()
}

// History returns the turns recorded for session.
func (s *AssistantService) History(session string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, 0, len(s.sessions[session]))
	for _, c := range s.sessions[session] {
		text := ""
		for _, p := range c.Parts {
			text += p.Text
		}
		out = append(out, domain.ChatMessage{Role: c.Role, Text: text})
	}
	return out
}

// Chat sends text within session and returns the answer.
func (s *AssistantService) Chat(ctx context.Context, session, text string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	history := append([]gemini.Content(nil), s.sessions[session]...)
	s.mu.Unlock()

	contents := append(history, gemini.UserText(text))
	resp, err := s.client.Generate(ctx, &gemini.GenerateRequest{
		Contents:          contents,
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: s.systemInstruction()}}},
	})
	if err != nil {
		s.log.Error("assistant chat", zap.String("session", session), zap.Error(err))
		return "", fmt.Errorf("assistant chat: %w", err)
	}
	answer := resp.Text()

	s.mu.Lock()
	h := append(s.sessions[session], gemini.UserText(text), gemini.ModelText(answer))
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	s.sessions[session] = h
	s.mu.Unlock()

	return answer, nil
}

func (s *AssistantService) systemInstruction() string {
	type dayContext struct {
		Day    string `json:"day"`
		Date   string `json:"date"`
		Title  string `json:"title"`
		Events string `json:"events"`
	}
	days := make([]dayContext, 0, len(s.itinerary))
	for _, d := range s.itinerary {
		events := make([]string, 0, len(d.Events))
		for _, e := range d.Events {
			events = append(events, e.Time+" - "+e.Description)
		}
		days = append(days, dayContext{Day: d.Day, Date: d.Date, Title: d.Title, Events: strings.Join(events, ", ")})
	}
	ctxJSON, _ := json.MarshalIndent(days, "", "  ")

	return fmt.Sprintf("Você é um assistente de viagens amigável e prestativo para uma viagem a Santiago, Chile. "+
		"A data de hoje é %s. O roteiro da viagem é o seguinte: \n\n%s\n\n"+
		"Responda em português do Brasil, de forma concisa e útil. Use formatação simples quando apropriado.",
		s.now().In(s.timezone).Format("02/01/2006"), ctxJSON)
}

var flightStatusSchema = func() *gemini.Schema {
	endpoint := func(desc string) *gemini.Schema {
		return &gemini.Schema{
			Type:        "OBJECT",
			Description: desc,
			Properties: map[string]*gemini.Schema{
				"airport":       {Type: "STRING", Description: "Nome do aeroporto"},
				"iata":          {Type: "STRING", Description: "Código IATA do aeroporto"},
				"terminal":      {Type: "STRING", Description: "Terminal"},
				"gate":          {Type: "STRING", Description: "Portão"},
				"scheduledTime": {Type: "STRING", Description: "Horário programado (HH:MM)"},
				"actualTime":    {Type: "STRING", Description: "Horário real ou estimado (HH:MM)"},
			},
			Required: []string{"airport", "iata", "scheduledTime"},
		}
	}
	return &gemini.Schema{
		Type: "OBJECT",
		Properties: map[string]*gemini.Schema{
			"airline":      {Type: "STRING", Description: "Nome da companhia aérea"},
			"flightNumber": {Type: "STRING", Description: "Número do voo"},
			"status":       {Type: "STRING", Description: "Status atual do voo em português"},
			"departure":    endpoint("Informações de partida"),
			"arrival":      endpoint("Informações de chegada"),
		},
		Required: []string{"airline", "flightNumber", "status", "departure", "arrival"},
	}
}()

// FlightStatus looks up the live status of a flight.
func (s *AssistantService) FlightStatus(ctx context.Context, flightNumber string) (*domain.FlightInfo, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}
	flightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	if flightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", domain.ErrInvalidReminder)
	}

	prompt := fmt.Sprintf("Com base nas informações de voo mais recentes disponíveis publicamente, forneça os detalhes do voo %s. "+
		"Sua resposta deve ser um objeto JSON que corresponda exatamente ao schema fornecido. "+
		"Priorize a precisão em tempo real para status, portões e horários.", flightNumber)

	var info domain.FlightInfo
	if err := s.client.GenerateJSON(ctx, prompt, flightStatusSchema, &info); err != nil {
		s.log.Warn("flight status lookup", zap.String("flight", flightNumber), zap.Error(err))
		return nil, fmt.Errorf("flight status: %w", err)
	}
	return &info, nil
}

// PlaceInfo returns practical tips about an itinerary stop with map sources.
func (s *AssistantService) PlaceInfo(ctx context.Context, description string, near *domain.Location) (*domain.PlaceInfo, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}

	at := santiagoCenter
	if near != nil {
		at = gemini.LatLng{Latitude: near.Lat, Longitude: near.Lng}
	}

	prompt := fmt.Sprintf("Forneça informações úteis para um turista sobre \"%s\" em Santiago, Chile, em português do Brasil. "+
		"Seja conciso e foque em dicas práticas como horários de funcionamento, melhores épocas para visitar ou atrações próximas.", description)

	resp, err := s.client.Generate(ctx, &gemini.GenerateRequest{
		Contents:   []gemini.Content{gemini.UserText(prompt)},
		Tools:      []gemini.Tool{{GoogleMaps: &struct{}{}}},
		ToolConfig: &gemini.ToolConfig{RetrievalConfig: &gemini.RetrievalConfig{LatLng: &at}},
	})
	if err != nil {
		return nil, fmt.Errorf("place info: %w", err)
	}

	info := &domain.PlaceInfo{Text: resp.Text()}
	for _, src := range resp.Sources() {
		info.Links = append(info.Links, domain.Link{URI: src.URI, Title: src.Title})
	}
	return info, nil
}

var exchangeRateSchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"brlToClp": {Type: "NUMBER", Description: "Quantos pesos chilenos vale 1 real"},
		"source":   {Type: "STRING", Description: "Fonte da cotação"},
		"date":     {Type: "STRING", Description: "Data da cotação (AAAA-MM-DD)"},
	},
	Required: []string{"brlToClp"},
}

// ExchangeRate asks for today's BRL to CLP rate.
func (s *AssistantService) ExchangeRate(ctx context.Context) (*domain.ExchangeRate, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}

	var rate domain.ExchangeRate
	prompt := "Qual é a cotação atual do real brasileiro (BRL) em pesos chilenos (CLP)? Responda com um objeto JSON."
	if err := s.client.GenerateJSON(ctx, prompt, exchangeRateSchema, &rate); err != nil {
		return nil, fmt.Errorf("exchange rate: %w", err)
	}
	if rate.Source == "" {
		rate.Source = "Gemini"
	}
	return &rate, nil
}

// FormatFlightInfo renders a status card for Telegram.
func FormatFlightInfo(f *domain.FlightInfo) string {
	var sb strings.Builder
	esc := html.EscapeString
	sb.WriteString(fmt.Sprintf("✈️ <b>%s %s</b>\n", esc(f.Airline), esc(f.FlightNumber)))
	sb.WriteString(fmt.Sprintf("%s %s\n\n", f.StatusEmoji(), esc(f.Status)))

	endpoint := func(label string, e domain.FlightEndpoint) {
		sb.WriteString(fmt.Sprintf("<b>%s:</b> %s (%s)\n", label, esc(e.Airport), esc(e.IATA)))
		if e.Terminal != "" || e.Gate != "" {
			sb.WriteString(fmt.Sprintf("Terminal %s · Portão %s\n", esc(dash(e.Terminal)), esc(dash(e.Gate))))
		}
		sb.WriteString("Programado: " + esc(e.ScheduledTime))
		if e.ActualTime != "" && e.ActualTime != e.ScheduledTime {
			sb.WriteString(" → " + esc(e.ActualTime))
		}
		sb.WriteString("\n")
	}
	endpoint("Partida", f.Departure)
	sb.WriteString("\n")
	endpoint("Chegada", f.Arrival)

	sb.WriteString(fmt.Sprintf("\nProgresso: %d%%", f.Progress()))
	return sb.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
