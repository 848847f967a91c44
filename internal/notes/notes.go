package notes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tradenote/tradenote-api/internal/auth"
	"github.com/tradenote/tradenote-api/internal/extractor"
	"github.com/tradenote/tradenote-api/internal/types"
	"github.com/tradenote/tradenote-api/pkg/response"
	"gorm.io/gorm"
)

// Service handles voice trade-note ingestion and retrieval. Extraction
// runs inline at ingestion time; the stored note carries both the raw
// transcript and the extracted fields.
type Service struct {
	db *Database
}

// NewService creates a notes service on the given database connection.
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// GetDB exposes the notes database, used by the background processor.
func (s *Service) GetDB() *Database {
	return s.db
}

// CreateNote extracts the transcript and persists the note with
// idempotency support: a repeated key returns the previously stored
// note unchanged.
func (s *Service) CreateNote(note *types.TradeNote, idempotencyKey string) error {
	record, err := s.db.GetIdempotencyRecord(idempotencyKey)
	if err == nil && record != nil && record.ResourceID != "" && record.ExpiresAt.After(time.Now()) {
		existing, err := s.db.GetNote(record.ResourceID)
		if err != nil {
			return err
		}
		if existing != nil {
			*note = *existing
			return nil
		}
	}

	note.NoteID = uuid.New().String()
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	applyExtraction(note)

	return s.db.CreateNoteWithIdempotency(note, idempotencyKey)
}

// GetNoteByNoteIDAndClientID retrieves a note scoped to its owner.
func (s *Service) GetNoteByNoteIDAndClientID(noteID, clientID string) (*types.TradeNote, error) {
	return s.db.GetNoteByNoteIDAndClientID(noteID, clientID)
}

// ListNotes returns all notes owned by the client, newest first.
func (s *Service) ListNotes(clientID string) ([]types.TradeNote, error) {
	return s.db.ListNotesByClientID(clientID)
}

// Preview runs extraction without storing anything.
func (s *Service) Preview(transcript string) *types.ExtractResponse {
	rec := extractor.Extract(transcript)
	return &types.ExtractResponse{
		HasTrade: rec != nil,
		Trade:    rec,
		Summary:  extractor.Summarize(rec),
	}
}

// applyExtraction runs the extractor over the note's transcript and
// stamps the result plus the pattern revision it was produced under.
func applyExtraction(note *types.TradeNote) {
	rec := extractor.Extract(note.Transcript)
	if rec != nil {
		note.HasTrade = true
		note.Trade = *rec
		note.Summary = extractor.Summarize(rec)
	} else {
		note.HasTrade = false
		note.Trade = extractor.TradeRecord{}
		note.Summary = ""
	}
	note.ExtractorRev = extractor.Revision
}

// GinHandlers contains HTTP handlers for note endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for note endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// CreateNoteHandler handles POST requests to ingest a transcript.
// Requires a valid JWT token and an idempotency key in headers.
func (h *GinHandlers) CreateNoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader("Idempotency-Key")
		if idempotencyKey == "" {
			response.BadRequest(c, "Idempotency-Key header is required")
			return
		}

		clientID := c.GetString("clientID")
		if clientID == "" {
			response.Unauthorized(c, "Invalid client ID in token")
			return
		}

		var req types.NoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		note := types.TradeNote{
			ClientID:   clientID,
			Transcript: req.Transcript,
		}
		if err := h.service.CreateNote(&note, idempotencyKey); err != nil {
			response.InternalError(c, err.Error())
			return
		}

		response.Success(c, types.NewNoteResponse(&note))
	}
}

// GetNoteHandler handles GET requests for a single note.
// URL parameter: note_id
func (h *GinHandlers) GetNoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get("claims")
		if !exists {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}
		clientID := auth.GetClientID(claims)
		if clientID == "" {
			response.Unauthorized(c, "Invalid client ID in token")
			return
		}

		noteID := c.Param("note_id")
		if noteID == "" {
			response.BadRequest(c, "Note ID is required")
			return
		}

		note, err := h.service.GetNoteByNoteIDAndClientID(noteID, clientID)
		if err != nil || note == nil {
			response.NotFound(c, "Note not found")
			return
		}

		response.Success(c, types.NewNoteResponse(note))
	}
}

// ListNotesHandler handles GET requests for the caller's notes.
func (h *GinHandlers) ListNotesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetString("clientID")
		if clientID == "" {
			response.Unauthorized(c, "Invalid client ID in token")
			return
		}

		stored, err := h.service.ListNotes(clientID)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}

		resp := make([]*types.NoteResponse, 0, len(stored))
		for i := range stored {
			resp = append(resp, types.NewNoteResponse(&stored[i]))
		}
		response.Success(c, resp)
	}
}

// GetSummaryHandler handles GET requests for a note's one-line summary.
// URL parameter: note_id
func (h *GinHandlers) GetSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetString("clientID")
		if clientID == "" {
			response.Unauthorized(c, "Invalid client ID in token")
			return
		}

		note, err := h.service.GetNoteByNoteIDAndClientID(c.Param("note_id"), clientID)
		if err != nil || note == nil {
			response.NotFound(c, "Note not found")
			return
		}

		response.Success(c, types.SummaryResponse{
			NoteID:   note.NoteID,
			HasTrade: note.HasTrade,
			Summary:  note.Summary,
		})
	}
}

// PreviewHandler handles POST requests for stateless extraction:
// nothing is stored, the caller just sees what the extractor would do.
func (h *GinHandlers) PreviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.NoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		response.Success(c, h.service.Preview(req.Transcript))
	}
}
