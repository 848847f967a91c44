package database

import (
	"github.com/tradenote/tradenote-api/internal/notes"
	"github.com/tradenote/tradenote-api/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the sqlite database at the given path and migrates
// the schema.
func NewDatabase(path string) (*gorm.DB, error) {
	if path == "" {
		path = "tradenotes.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&types.TradeNote{},
		&notes.IdempotencyRecord{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
