package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/storage"
	"go.uber.org/zap"
)

// ProgressService keeps the checked state of a fixed checklist, persisted as a
// map from item key to checked flag.
type ProgressService struct {
	mu      sync.RWMutex
	store   Store
	log     *zap.Logger
	key     string
	order   []string
	known   map[string]struct{}
	checked map[string]bool
}

func newProgressService(s Store, key string, keys []string, log *zap.Logger) *ProgressService {
	p := &ProgressService{
		store:   s,
		log:     log,
		key:     key,
		order:   keys,
		known:   make(map[string]struct{}, len(keys)),
		checked: make(map[string]bool),
	}
	for _, k := range keys {
		p.known[k] = struct{}{}
	}

	var saved map[string]bool
	if s.Load(key, &saved) {
		for k, v := range saved {
			if _, ok := p.known[k]; ok {
				p.checked[k] = v
			}
		}
	}
	return p
}

// NewLuggageService tracks the packing list.
func NewLuggageService(s Store, categories []domain.ChecklistCategory, log *zap.Logger) *ProgressService {
	return newProgressService(s, storage.KeyLuggageChecklist, domain.LuggageKeys(categories), log.Named("luggage"))
}

// NewItineraryService tracks visited itinerary events.
func NewItineraryService(s Store, days []domain.ItineraryDay, log *zap.Logger) *ProgressService {
	return newProgressService(s, storage.KeyItineraryProgress, domain.ItineraryKeys(days), log.Named("itinerary"))
}

// Toggle flips the item and returns its new state.
func (p *ProgressService) Toggle(key string) (bool, error) {
	if _, ok := p.known[key]; !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownItem, key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.checked[key] = !p.checked[key]
	p.persist()
	return p.checked[key], nil
}

func (p *ProgressService) IsChecked(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checked[key]
}

// Checked returns a copy of the checked map.
func (p *ProgressService) Checked() map[string]bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]bool, len(p.checked))
	for k, v := range p.checked {
		out[k] = v
	}
	return out
}

func (p *ProgressService) Progress() domain.Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()

	completed := 0
	for _, v := range p.checked {
		if v {
			completed++
		}
	}
	return domain.NewProgress(len(p.order), completed)
}

func (p *ProgressService) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.checked = make(map[string]bool)
	p.persist()
}

func (p *ProgressService) persist() {
	if err := p.store.Save(p.key, p.checked); err != nil {
		p.log.Warn("save checklist progress", zap.String("key", p.key), zap.Error(err))
	}
}

// FormatLuggageCategory renders one category of the packing list.
func (p *ProgressService) FormatLuggageCategory(categories []domain.ChecklistCategory, index int) string {
	if index < 0 || index >= len(categories) {
		return "Categoria não encontrada"
	}
	cat := categories[index]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧳 <b>%s</b>\n", cat.Title))
	for s, sub := range cat.Subcategories {
		sb.WriteString(fmt.Sprintf("\n<i>%s</i>\n", sub.Title))
		for i, item := range sub.Items {
			status := "⬜"
			if p.IsChecked(domain.LuggageKey(index, s, i)) {
				status = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", status, item.Name))
		}
	}
	return sb.String()
}

// FormatProgress renders the progress bar line with its quote.
func FormatProgress(p domain.Progress, quote string) string {
	const width = 10
	filled := int(p.Percent / 100 * width)
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %.0f%% (%d/%d)\n%s", bar, p.Percent, p.Completed, p.Total, quote)
}

// FormatItineraryDay renders one day with checked events.
func (p *ProgressService) FormatItineraryDay(days []domain.ItineraryDay, index int) string {
	if index < 0 || index >= len(days) {
		return "Dia não encontrado"
	}
	day := days[index]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>%s – %s</b>\n<i>%s</i>\n\n", day.Day, day.Date, day.Title))
	for e, ev := range day.Events {
		status := "⬜"
		if p.IsChecked(domain.ItineraryKey(index, e)) {
			status = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n", status, ev.Time, ev.Description))
	}
	if u := day.DirectionsURL(); u != "" {
		sb.WriteString(fmt.Sprintf("\n🗺 <a href=\"%s\">Rota do dia</a>", u))
	}
	return sb.String()
}
