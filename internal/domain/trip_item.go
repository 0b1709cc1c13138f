package domain

import (
	"errors"
	"fmt"
	"strings"
)

type TripCategory string

const (
	CategoryDocuments    TripCategory = "documentos"
	CategoryReservations TripCategory = "reservas"
	CategoryTickets      TripCategory = "ingressos"
	CategoryContacts     TripCategory = "contatos"
)

var TripCategories = []TripCategory{CategoryDocuments, CategoryReservations, CategoryTickets, CategoryContacts}

var ErrInvalidTripItem = errors.New("invalid trip item")

func (c TripCategory) Valid() bool {
	for _, known := range TripCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c TripCategory) Title() string {
	switch c {
	case CategoryDocuments:
		return "Documentos"
	case CategoryReservations:
		return "Reservas"
	case CategoryTickets:
		return "Ingressos"
	case CategoryContacts:
		return "Contatos"
	}
	return string(c)
}

// TripItem is a document, booking, ticket or contact saved for the trip.
// FileData holds an optional attachment as a data URL.
type TripItem struct {
	ID          string       `json:"id"`
	Category    TripCategory `json:"category"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	FileData    string       `json:"fileData,omitempty"`
	FileName    string       `json:"fileName,omitempty"`
	FileType    string       `json:"fileType,omitempty"`
}

// TripItemPatch is a partial update of a TripItem.
type TripItemPatch struct {
	Category    *TripCategory `json:"category,omitempty"`
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Date        *string       `json:"date,omitempty"`
	FileData    *string       `json:"fileData,omitempty"`
	FileName    *string       `json:"fileName,omitempty"`
	FileType    *string       `json:"fileType,omitempty"`
}

func (t TripItem) Validate() error {
	if !t.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidTripItem, t.Category)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTripItem)
	}
	return nil
}

func (p TripItemPatch) Apply(t *TripItem) {
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.FileData != nil {
		t.FileData = *p.FileData
	}
	if p.FileName != nil {
		t.FileName = *p.FileName
	}
	if p.FileType != nil {
		t.FileType = *p.FileType
	}
}

func (t TripItem) HasAttachment() bool {
	return t.FileData != ""
}
