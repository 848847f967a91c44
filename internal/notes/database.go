package notes

import (
	"errors"
	"time"

	"github.com/tradenote/tradenote-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetNote(noteID string) (*types.TradeNote, error) {
	var note types.TradeNote
	if err := d.db.Where("note_id = ?", noteID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (d *Database) GetNoteByNoteIDAndClientID(noteID, clientID string) (*types.TradeNote, error) {
	var note types.TradeNote
	if err := d.db.Where("note_id = ? AND client_id = ?", noteID, clientID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (d *Database) ListNotesByClientID(clientID string) ([]types.TradeNote, error) {
	var notes []types.TradeNote
	if err := d.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *Database) UpdateNote(note *types.TradeNote) error {
	return d.db.Save(note).Error
}

// GetStaleNotes returns notes extracted by an older pattern revision,
// oldest first, capped at limit.
func (d *Database) GetStaleNotes(currentRev, limit int) ([]types.TradeNote, error) {
	var notes []types.TradeNote
	err := d.db.Where("extractor_rev < ?", currentRev).
		Order("updated_at ASC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetIdempotencyRecord retrieves an idempotency record by key. A miss
// returns an empty record, not an error.
func (d *Database) GetIdempotencyRecord(key string) (*IdempotencyRecord, error) {
	var record IdempotencyRecord
	if err := d.db.Where("idempotency_key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &record, nil
		}
		return nil, err
	}
	return &record, nil
}

// CreateNoteWithIdempotency stores the note and its idempotency record
// in a single transaction.
func (d *Database) CreateNoteWithIdempotency(note *types.TradeNote, idempotencyKey string) error {
	tx := d.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(note).Error; err != nil {
		tx.Rollback()
		return err
	}

	record := IdempotencyRecord{
		IdempotencyKey: idempotencyKey,
		ResourceID:     note.NoteID,
		ResourceType:   "note",
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
