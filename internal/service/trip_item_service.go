package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

// TripItemStore is the record store for trip items.
type TripItemStore interface {
	CreateTripItem(t *domain.TripItem) error
	GetTripItem(id string) (*domain.TripItem, error)
	ListTripItems() ([]*domain.TripItem, error)
	UpdateTripItem(t *domain.TripItem) error
	DeleteTripItem(id string) error
}

type TripItemService struct {
	store TripItemStore
	log   *zap.Logger
}

func NewTripItemService(s TripItemStore, log *zap.Logger) *TripItemService {
	return &TripItemService{store: s, log: log.Named("trip_items")}
}

func (s *TripItemService) List() ([]*domain.TripItem, error) {
	return s.store.ListTripItems()
}

func (s *TripItemService) ListByCategory(category domain.TripCategory) ([]*domain.TripItem, error) {
	items, err := s.store.ListTripItems()
	if err != nil {
		return nil, fmt.Errorf("list trip items: %w", err)
	}
	var out []*domain.TripItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *TripItemService) Get(id string) (*domain.TripItem, error) {
	return s.store.GetTripItem(id)
}

func (s *TripItemService) Add(item domain.TripItem) (*domain.TripItem, error) {
	item.Title = strings.TrimSpace(item.Title)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.ID = uuid.NewString()

	if err := s.store.CreateTripItem(&item); err != nil {
		return nil, fmt.Errorf("create trip item: %w", err)
	}
	s.log.Info("trip item added", zap.String("id", item.ID), zap.String("category", string(item.Category)))
	return &item, nil
}

// Update merges patch into the item. An unknown id is a no-op and returns nil.
func (s *TripItemService) Update(id string, patch domain.TripItemPatch) (*domain.TripItem, error) {
	item, err := s.store.GetTripItem(id)
	if err != nil {
		return nil, fmt.Errorf("get trip item: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	patch.Apply(item)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTripItem(item); err != nil {
		return nil, fmt.Errorf("update trip item: %w", err)
	}
	return item, nil
}

func (s *TripItemService) Delete(id string) error {
	if err := s.store.DeleteTripItem(id); err != nil {
		return fmt.Errorf("delete trip item: %w", err)
	}
	return nil
}

func (s *TripItemService) FormatTripItems(items []*domain.TripItem) string {
	if len(items) == 0 {
		return "Nada salvo ainda."
	}

	var sb strings.Builder
	for _, it := range items {
		clip := ""
		if it.HasAttachment() {
			clip = " 📎"
		}
		sb.WriteString(fmt.Sprintf("• <b>%s</b>%s", html.EscapeString(it.Title), clip))
		if it.Date != "" {
			sb.WriteString(" — " + html.EscapeString(it.Date))
		}
		sb.WriteString("\n")
		if it.Description != "" {
			sb.WriteString("  " + html.EscapeString(it.Description) + "\n")
		}
	}
	return sb.String()
}
