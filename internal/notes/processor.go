package notes

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tradenote/tradenote-api/internal/extractor"
)

const staleBatchSize = 100

// Processor re-runs extraction over notes that were stored under an
// older pattern revision, so vocabulary and correction-table updates
// reach the journal without a manual backfill.
type Processor struct {
	db           *Database
	processDelay time.Duration
}

func NewProcessor(db *Database) *Processor {
	return &Processor{
		db:           db,
		processDelay: 5 * time.Minute,
	}
}

// Start begins the re-extraction loop and blocks until the context is
// cancelled.
func (p *Processor) Start(ctx context.Context) {
	logger := log.With().Str("component", "note_processor").Logger()
	logger.Info().Int("revision", extractor.Revision).Msg("starting note processor")

	ticker := time.NewTicker(p.processDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down note processor")
			return
		case <-ticker.C:
			if err := p.processStaleNotes(); err != nil {
				logger.Error().Err(err).Msg("failed to reprocess stale notes")
			}
		}
	}
}

func (p *Processor) processStaleNotes() error {
	logger := log.With().Str("component", "note_processor").Logger()

	stale, err := p.db.GetStaleNotes(extractor.Revision, staleBatchSize)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	logger.Info().Int("stale_count", len(stale)).Msg("reprocessing notes from older revision")

	for i := range stale {
		note := &stale[i]
		applyExtraction(note)
		note.UpdatedAt = time.Now()
		if err := p.db.UpdateNote(note); err != nil {
			logger.Error().
				Err(err).
				Str("note_id", note.NoteID).
				Msg("failed to update reprocessed note")
			continue
		}
		logger.Debug().
			Str("note_id", note.NoteID).
			Bool("has_trade", note.HasTrade).
			Msg("note reprocessed")
	}

	return nil
}
