package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scankeeper/internal/actions"
	"github.com/dmitrijs2005/scankeeper/internal/client/models"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

// Scan is the outcome of interpreting one scanned or generated code.
type Scan struct {
	Result  payload.Result
	Actions []actions.Action
	Item    *models.HistoryItem
	// Recorded is false when the code repeated the previous history item.
	Recorded bool
}

// CodeService plays the scanner and generator roles: it turns raw text
// into a classification with actions, turns field values into payloads,
// and records both in the history.
type CodeService struct {
	registry *payload.Registry
	history  HistoryService
}

func NewCodeService(registry *payload.Registry, history HistoryService) *CodeService {
	if registry == nil {
		registry = payload.Default()
	}
	return &CodeService{registry: registry, history: history}
}

func (s *CodeService) Kinds() []payload.Kind { return s.registry.Kinds() }

func (s *CodeService) Schema(kind payload.Kind) (payload.Schema, bool) {
	return s.registry.Schema(kind)
}

// Scan classifies raw as delivered by a scanner with symbology sym.
// Blank raw text is classified but not recorded.
func (s *CodeService) Scan(ctx context.Context, raw string, sym payload.Symbology) (*Scan, error) {
	res := s.registry.ClassifyScan(raw, sym)
	out := &Scan{Result: res, Actions: actions.Select(res)}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	item, recorded, err := s.history.Record(ctx, res, models.SourceScanned)
	if err != nil {
		return nil, err
	}
	out.Item, out.Recorded = item, recorded
	return out, nil
}

// Generate encodes values as kind. When sym is set the payload must also
// fit that barcode format.
func (s *CodeService) Generate(ctx context.Context, kind payload.Kind, values payload.Values, sym payload.Symbology) (string, *Scan, error) {
	text, err := s.registry.Encode(kind, values)
	if err != nil {
		return "", nil, err
	}
	if sym != payload.SymbologyNone {
		if err := payload.ValidateForSymbology(sym, text); err != nil {
			return "", nil, fmt.Errorf("%s: %w", sym.DisplayName(), err)
		}
	}

	res := s.registry.ClassifyScan(text, sym)
	item, recorded, err := s.history.Record(ctx, res, models.SourceGenerated)
	if err != nil {
		return "", nil, err
	}
	return text, &Scan{Result: res, Actions: actions.Select(res), Item: item, Recorded: recorded}, nil
}
