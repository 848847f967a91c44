package types

import (
	"time"

	"github.com/tradenote/tradenote-api/internal/extractor"
	"gorm.io/gorm"
)

// TradeNote is one persisted voice note: the raw transcript plus
// whatever the extractor recovered from it. The extracted fields are
// embedded as sparse columns; HasTrade records the validity-gate
// outcome so "no trade" notes stay queryable.
type TradeNote struct {
	gorm.Model   `json:"-"`
	NoteID       string                `gorm:"uniqueIndex" json:"note_id"`
	ClientID     string                `json:"client_id"`
	Transcript   string                `json:"transcript"`
	HasTrade     bool                  `json:"has_trade"`
	Summary      string                `json:"summary,omitempty"`
	ExtractorRev int                   `json:"-"`
	Trade        extractor.TradeRecord `gorm:"embedded;embeddedPrefix:trade_" json:"-"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TradeRecord returns the extracted record, or nil when the note did
// not mention a trade.
func (n *TradeNote) TradeRecord() *extractor.TradeRecord {
	if !n.HasTrade {
		return nil
	}
	return &n.Trade
}

// NoteRequest is the body for note ingestion and extraction preview.
type NoteRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// NoteResponse is the API shape of a stored note. Trade is omitted
// entirely when no trade was detected, keeping the output sparse.
type NoteResponse struct {
	NoteID     string                 `json:"note_id"`
	ClientID   string                 `json:"client_id"`
	Transcript string                 `json:"transcript"`
	HasTrade   bool                   `json:"has_trade"`
	Trade      *extractor.TradeRecord `json:"trade,omitempty"`
	Summary    string                 `json:"summary,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// NewNoteResponse converts a stored note to its API shape.
func NewNoteResponse(n *TradeNote) *NoteResponse {
	return &NoteResponse{
		NoteID:     n.NoteID,
		ClientID:   n.ClientID,
		Transcript: n.Transcript,
		HasTrade:   n.HasTrade,
		Trade:      n.TradeRecord(),
		Summary:    n.Summary,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// ExtractResponse is the result of a stateless extraction preview.
type ExtractResponse struct {
	HasTrade bool                   `json:"has_trade"`
	Trade    *extractor.TradeRecord `json:"trade,omitempty"`
	Summary  string                 `json:"summary,omitempty"`
}

// SummaryResponse carries just the one-line summary of a stored note.
type SummaryResponse struct {
	NoteID   string `json:"note_id"`
	HasTrade bool   `json:"has_trade"`
	Summary  string `json:"summary,omitempty"`
}
