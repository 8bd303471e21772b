package services

import (
	"github.com/dmitrijs2005/scankeeper/internal/actions"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
	"github.com/dmitrijs2005/scankeeper/internal/server/metrics"
)

// CodeService serves Encode and Classify for both transports.
type CodeService struct {
	registry *payload.Registry
}

func NewCodeService(registry *payload.Registry) *CodeService {
	if registry == nil {
		registry = payload.Default()
	}
	return &CodeService{registry: registry}
}

// Encode returns the canonical payload for req. Field problems come back
// as *payload.ValidationError.
func (s *CodeService) Encode(req *rpc.EncodeRequest) (*rpc.EncodeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &payload.ValidationError{Field: "kind", Reason: err.Error()}
	}

	// Unrecognized kinds share one metric label; the raw value still
	// reaches the registry for its error message.
	kind, ok := payload.ParseKind(req.Kind)
	label := string(kind)
	if !ok {
		kind, label = payload.Kind(req.Kind), string(payload.KindUnknown)
	}

	out, err := s.encode(kind, req)
	metrics.ObserveEncode(label, err)
	if err != nil {
		return nil, err
	}
	return &rpc.EncodeResponse{Payload: out, Kind: kind, DisplayType: kind.DisplayType()}, nil
}

func (s *CodeService) encode(kind payload.Kind, req *rpc.EncodeRequest) (string, error) {
	var sym payload.Symbology
	if req.Symbology != "" {
		var ok bool
		if sym, ok = payload.ParseSymbology(req.Symbology); !ok {
			return "", &payload.ValidationError{Field: "symbology", Reason: "unknown barcode format " + req.Symbology}
		}
	}

	out, err := s.registry.Encode(kind, req.Values)
	if err != nil {
		return "", err
	}
	if sym != payload.SymbologyNone {
		if err := payload.ValidateForSymbology(sym, out); err != nil {
			return "", err
		}
	}
	return out, nil
}

// Classify never fails; an unrecognized symbology tag is dropped.
func (s *CodeService) Classify(req *rpc.ClassifyRequest) *rpc.ClassifyResponse {
	sym, _ := payload.ParseSymbology(req.Symbology)
	res := s.registry.ClassifyScan(req.RawText, sym)
	metrics.ObserveClassification(string(res.Kind))
	return &rpc.ClassifyResponse{Result: res, Actions: actions.Select(res)}
}
