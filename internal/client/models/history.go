// Package models defines the client-side records of the ScanKeeper CLI.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/payload"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

// Source tells how a history record came to be.
type Source string

const (
	SourceScanned   Source = "scanned"
	SourceGenerated Source = "generated"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceScanned, SourceGenerated:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown history source %q", s)
}

// HistoryItem is one persisted scan or generation event. Only the raw text
// and its display type are authoritative; the classification is rebuilt on
// demand.
type HistoryItem struct {
	ID          uuid.UUID
	RawText     string
	DisplayType string
	Kind        payload.Kind
	Symbology   payload.Symbology
	Source      Source
	CreatedAt   time.Time
	// Synced is set once the server has accepted the record.
	Synced bool
}

// NewHistoryItem records res with a fresh id.
func NewHistoryItem(res payload.Result, source Source, now time.Time) *HistoryItem {
	return &HistoryItem{
		ID:          uuid.New(),
		RawText:     res.RawText,
		DisplayType: res.DisplayType,
		Kind:        res.Kind,
		Symbology:   res.Symbology,
		Source:      source,
		CreatedAt:   now.UTC(),
	}
}

// ToWire converts the item for PushHistory.
func (h *HistoryItem) ToWire() rpc.HistoryItem {
	return rpc.HistoryItem{
		ID:          h.ID.String(),
		RawText:     h.RawText,
		DisplayType: h.DisplayType,
		Kind:        string(h.Kind),
		Symbology:   string(h.Symbology),
		Source:      string(h.Source),
		CreatedAt:   h.CreatedAt,
	}
}

// FromWire converts an item listed by the server. The result is marked
// synced since the server already holds it.
func FromWire(w rpc.HistoryItem) (*HistoryItem, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("history item id %q: %w", w.ID, err)
	}
	source, err := ParseSource(w.Source)
	if err != nil {
		return nil, err
	}
	kind, ok := payload.ParseKind(w.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown payload kind %q", w.Kind)
	}
	sym, _ := payload.ParseSymbology(w.Symbology)

	display := w.DisplayType
	if display == "" {
		display = kind.DisplayType()
	}
	return &HistoryItem{
		ID:          id,
		RawText:     w.RawText,
		DisplayType: display,
		Kind:        kind,
		Symbology:   sym,
		Source:      source,
		CreatedAt:   w.CreatedAt.UTC(),
		Synced:      true,
	}, nil
}
