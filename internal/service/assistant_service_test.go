package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhate/tripbot/internal/clients/gemini"
	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	configured bool
	requests   []*gemini.GenerateRequest
	reply      *gemini.GenerateResponse
	json       string
	err        error
}

func (f *fakeGenerator) IsConfigured() bool { return f.configured }

func (f *fakeGenerator) Generate(_ context.Context, req *gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.reply != nil {
		return f.reply, nil
	}
	n := len(f.requests)
	return &gemini.GenerateResponse{Candidates: []gemini.Candidate{{Content: gemini.ModelText(fmt.Sprintf("resposta %d", n))}}}, nil
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, _ string, _ *gemini.Schema, dst any) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.json), dst)
}

func newTestAssistant(gen *fakeGenerator) *AssistantService {
	a := NewAssistantService(gen, testItinerary, time.UTC, zap.NewNop())
	a.now = func() time.Time { return flightTime }
	return a
}

func TestAssistant_NotConfigured(t *testing.T) {
	a := newTestAssistant(&fakeGenerator{})
	ctx := context.Background()

	assert.False(t, a.Enabled())
	_, err := a.Chat(ctx, "s", "oi")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = a.FlightStatus(ctx, "LA800")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = a.PlaceInfo(ctx, "Cerro", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = a.ExchangeRate(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAssistant_ChatKeepsHistory(t *testing.T) {
	gen := &fakeGenerator{configured: true}
	a := newTestAssistant(gen)
	ctx := context.Background()

	reply, err := a.Chat(ctx, "tg:1", "Onde almoçar?")
	require.NoError(t, err)
	assert.Equal(t, "resposta 1", reply)

	_, err = a.Chat(ctx, "tg:1", "E jantar?")
	require.NoError(t, err)

	second := gen.requests[1]
	require.Len(t, second.Contents, 3)
	assert.Equal(t, "Onde almoçar?", second.Contents[0].Parts[0].Text)
	assert.Equal(t, "model", second.Contents[1].Role)
	assert.Equal(t, "E jantar?", second.Contents[2].Parts[0].Text)

	require.NotNil(t, second.SystemInstruction)
	system := second.SystemInstruction.Parts[0].Text
	assert.Contains(t, system, "25/12/2025")
	assert.Contains(t, system, "Concha y Toro")

	history := a.History("tg:1")
	require.Len(t, history, 4)
	assert.Equal(t, domain.ChatMessage{Role: "model", Text: "resposta 2"}, history[3])
	assert.Empty(t, a.History("tg:2"))

	a.Reset("tg:1")
	assert.Empty(t, a.History("tg:1"))
}

func TestAssistant_HistoryIsBounded(t *testing.T) {
	a := newTestAssistant(&fakeGenerator{configured: true})
	for i := 0; i < maxHistory; i++ {
		_, err := a.Chat(context.Background(), "web:Deco", fmt.Sprintf("pergunta %d", i))
		require.NoError(t, err)
	}

	history := a.History("web:Deco")
	assert.Len(t, history, maxHistory)
	assert.Equal(t, "pergunta 19", history[maxHistory-2].Text)
}

func TestAssistant_ChatErrors(t *testing.T) {
	gen := &fakeGenerator{configured: true}
	a := newTestAssistant(gen)

	_, err := a.Chat(context.Background(), "s", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, gen.requests)

	gen.err = errors.New("503")
	_, err = a.Chat(context.Background(), "s", "oi")
	assert.Error(t, err)
	assert.Empty(t, a.History("s"))
}

func TestAssistant_FlightStatus(t *testing.T) {
	gen := &fakeGenerator{configured: true, json: `{
		"airline": "LATAM", "flightNumber": "LA800", "status": "Atrasado",
		"departure": {"airport": "Guarulhos", "iata": "GRU", "terminal": "3", "scheduledTime": "08:00", "actualTime": "08:40"},
		"arrival": {"airport": "Arturo Merino Benítez", "iata": "SCL", "scheduledTime": "12:00"}
	}`}
	a := newTestAssistant(gen)

	info, err := a.FlightStatus(context.Background(), " la800 ")
	require.NoError(t, err)
	assert.Equal(t, "LATAM", info.Airline)
	assert.Equal(t, 10, info.Progress())

	card := FormatFlightInfo(info)
	assert.Contains(t, card, "✈️ <b>LATAM LA800</b>")
	assert.Contains(t, card, "🟡 Atrasado")
	assert.Contains(t, card, "Terminal 3 · Portão -")
	assert.Contains(t, card, "Programado: 08:00 → 08:40")
	assert.Contains(t, card, "Progresso: 10%")

	_, err = a.FlightStatus(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidReminder)
}

func TestAssistant_PlaceInfoUsesMapsGrounding(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: &gemini.GenerateResponse{Candidates: []gemini.Candidate{{
		Content: gemini.ModelText("Abre às 9h."),
		GroundingMetadata: &gemini.GroundingMetadata{GroundingChunks: []gemini.GroundingChunk{
			{Maps: &gemini.GroundingSource{URI: "https://maps.google.com/?cid=7", Title: "Cerro San Cristóbal"}},
		}},
	}}}}
	a := newTestAssistant(gen)

	info, err := a.PlaceInfo(context.Background(), "Cerro San Cristóbal", &domain.Location{Lat: -33.42, Lng: -70.63})
	require.NoError(t, err)
	assert.Equal(t, "Abre às 9h.", info.Text)
	assert.Equal(t, []domain.Link{{URI: "https://maps.google.com/?cid=7", Title: "Cerro San Cristóbal"}}, info.Links)

	req := gen.requests[0]
	require.Len(t, req.Tools, 1)
	assert.NotNil(t, req.Tools[0].GoogleMaps)
	assert.Equal(t, -33.42, req.ToolConfig.RetrievalConfig.LatLng.Latitude)

	_, err = a.PlaceInfo(context.Background(), "Centro", nil)
	require.NoError(t, err)
	assert.Equal(t, santiagoCenter, *gen.requests[1].ToolConfig.RetrievalConfig.LatLng)
}

func TestAssistant_ExchangeRate(t *testing.T) {
	a := newTestAssistant(&fakeGenerator{configured: true, json: `{"brlToClp": 171.2}`})

	rate, err := a.ExchangeRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 171.2, rate.BRLToCLP)
	assert.Equal(t, "Gemini", rate.Source)
}
