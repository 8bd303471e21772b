package rpc

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/scankeeper/internal/actions"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

// MaxPushBatch bounds the number of history items in one PushHistory call.
const MaxPushBatch = 500

var (
	ErrEmptyKind     = errors.New("kind is required")
	ErrEmptyBatch    = errors.New("no history items")
	ErrBatchTooLarge = errors.New("too many history items")
	ErrMissingID     = errors.New("history item id is required")
)

type PingResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"server_time"`
}

type EncodeRequest struct {
	Kind   string            `json:"kind"`
	Values map[string]string `json:"values"`
	// Symbology, when set, additionally checks that the payload fits the
	// barcode format.
	Symbology string `json:"symbology,omitempty"`
}

func (r *EncodeRequest) Validate() error {
	if r == nil || r.Kind == "" {
		return ErrEmptyKind
	}
	return nil
}

type EncodeResponse struct {
	Payload     string       `json:"payload"`
	Kind        payload.Kind `json:"kind"`
	DisplayType string       `json:"display_type"`
}

type ClassifyRequest struct {
	RawText   string `json:"raw_text"`
	Symbology string `json:"symbology,omitempty"`
}

type ClassifyResponse struct {
	Result  payload.Result   `json:"result"`
	Actions []actions.Action `json:"actions"`
}

// HistoryItem is the wire form of one scan or generation event.
type HistoryItem struct {
	ID          string    `json:"id"`
	RawText     string    `json:"raw_text"`
	DisplayType string    `json:"display_type"`
	Kind        string    `json:"kind"`
	Symbology   string    `json:"symbology,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

type PushHistoryRequest struct {
	Items []HistoryItem `json:"items"`
}

func (r *PushHistoryRequest) Validate() error {
	switch {
	case r == nil || len(r.Items) == 0:
		return ErrEmptyBatch
	case len(r.Items) > MaxPushBatch:
		return ErrBatchTooLarge
	}
	for _, it := range r.Items {
		if it.ID == "" {
			return ErrMissingID
		}
	}
	return nil
}

type PushHistoryResponse struct {
	Accepted []string `json:"accepted"`
}

type ListHistoryRequest struct {
	// Limit of 0 means the server default.
	Limit int `json:"limit,omitempty"`
}

type ListHistoryResponse struct {
	Items []HistoryItem `json:"items"`
}
