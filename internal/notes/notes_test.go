package notes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tradenote/tradenote-api/internal/extractor"
	"github.com/tradenote/tradenote-api/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One shared in-memory database per test, so pooled connections
	// all see the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&types.TradeNote{}, &IdempotencyRecord{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestCreateNote_ExtractsAndStores(t *testing.T) {
	svc := NewService(setupTestDB(t))

	note := types.TradeNote{
		ClientID:   "client-1",
		Transcript: "Open Long BTC USDT, 500 USD, stop loss at 86,000",
	}
	if err := svc.CreateNote(&note, "idem-1"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	if note.NoteID == "" {
		t.Error("expected a note ID")
	}
	if !note.HasTrade {
		t.Fatal("expected a trade to be detected")
	}
	if note.Trade.Ticker != "BTC/USDT" {
		t.Errorf("ticker = %q, want BTC/USDT", note.Trade.Ticker)
	}
	if note.Trade.StopLoss == nil || *note.Trade.StopLoss != 86000 {
		t.Errorf("stopLoss = %v, want 86000", note.Trade.StopLoss)
	}
	if note.Summary == "" {
		t.Error("expected a summary")
	}
	if note.ExtractorRev != extractor.Revision {
		t.Errorf("extractorRev = %d, want %d", note.ExtractorRev, extractor.Revision)
	}

	stored, err := svc.GetNoteByNoteIDAndClientID(note.NoteID, "client-1")
	if err != nil {
		t.Fatalf("GetNoteByNoteIDAndClientID: %v", err)
	}
	if stored == nil {
		t.Fatal("note not found after create")
	}
	if stored.Trade.Ticker != "BTC/USDT" {
		t.Errorf("stored ticker = %q, want BTC/USDT", stored.Trade.Ticker)
	}
}

func TestCreateNote_Idempotency(t *testing.T) {
	svc := NewService(setupTestDB(t))

	first := types.TradeNote{ClientID: "client-1", Transcript: "Buy AAPL"}
	if err := svc.CreateNote(&first, "idem-key"); err != nil {
		t.Fatalf("first CreateNote: %v", err)
	}

	second := types.TradeNote{ClientID: "client-1", Transcript: "Buy AAPL"}
	if err := svc.CreateNote(&second, "idem-key"); err != nil {
		t.Fatalf("second CreateNote: %v", err)
	}

	if first.NoteID != second.NoteID {
		t.Errorf("idempotent create returned a different note: %q vs %q", first.NoteID, second.NoteID)
	}

	all, err := svc.ListNotes("client-1")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("stored notes = %d, want 1", len(all))
	}
}

func TestCreateNote_NoTradeStillStored(t *testing.T) {
	svc := NewService(setupTestDB(t))

	note := types.TradeNote{ClientID: "client-1", Transcript: "The weather is nice"}
	if err := svc.CreateNote(&note, "idem-2"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	if note.HasTrade {
		t.Error("no trade should be detected")
	}
	if note.Summary != "" {
		t.Errorf("summary = %q, want empty", note.Summary)
	}
	if note.TradeRecord() != nil {
		t.Error("TradeRecord() should be nil for a no-trade note")
	}
}

func TestGetNote_ClientScoping(t *testing.T) {
	svc := NewService(setupTestDB(t))

	note := types.TradeNote{ClientID: "client-1", Transcript: "Buy AAPL"}
	if err := svc.CreateNote(&note, "idem-3"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	other, err := svc.GetNoteByNoteIDAndClientID(note.NoteID, "client-2")
	if err != nil {
		t.Fatalf("GetNoteByNoteIDAndClientID: %v", err)
	}
	if other != nil {
		t.Error("note must not be visible to another client")
	}
}

func TestListNotes_PerClient(t *testing.T) {
	svc := NewService(setupTestDB(t))

	for i, tc := range []struct{ client, text, key string }{
		{"client-1", "Buy AAPL", "k1"},
		{"client-1", "Selling TSLA", "k2"},
		{"client-2", "Long NVDA", "k3"},
	} {
		note := types.TradeNote{ClientID: tc.client, Transcript: tc.text}
		if err := svc.CreateNote(&note, tc.key); err != nil {
			t.Fatalf("CreateNote %d: %v", i, err)
		}
	}

	notes, err := svc.ListNotes("client-1")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("client-1 notes = %d, want 2", len(notes))
	}
}

func TestPreview_StoresNothing(t *testing.T) {
	svc := NewService(setupTestDB(t))

	resp := svc.Preview("Buy AAPL stop loss at $140")
	if !resp.HasTrade {
		t.Fatal("expected a trade in the preview")
	}
	if resp.Trade.StopLoss == nil || *resp.Trade.StopLoss != 140 {
		t.Errorf("stopLoss = %v, want 140", resp.Trade.StopLoss)
	}
	if resp.Summary == "" {
		t.Error("expected a summary")
	}

	all, err := svc.ListNotes("")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("preview stored %d notes, want 0", len(all))
	}
}

func TestProcessor_ReprocessesStaleNotes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	note := types.TradeNote{ClientID: "client-1", Transcript: "Stopplers at 92000"}
	if err := svc.CreateNote(&note, "idem-4"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	// Simulate a note written by an older pattern revision with a
	// stale extraction result.
	if err := db.Model(&types.TradeNote{}).
		Where("note_id = ?", note.NoteID).
		Updates(map[string]interface{}{"extractor_rev": 0, "has_trade": false, "summary": ""}).Error; err != nil {
		t.Fatalf("downgrade note: %v", err)
	}

	p := NewProcessor(svc.GetDB())
	if err := p.processStaleNotes(); err != nil {
		t.Fatalf("processStaleNotes: %v", err)
	}

	refreshed, err := svc.GetNoteByNoteIDAndClientID(note.NoteID, "client-1")
	if err != nil || refreshed == nil {
		t.Fatalf("fetch reprocessed note: %v", err)
	}
	if refreshed.ExtractorRev != extractor.Revision {
		t.Errorf("extractorRev = %d, want %d", refreshed.ExtractorRev, extractor.Revision)
	}
	if !refreshed.HasTrade {
		t.Error("reprocessing should have detected the trade again")
	}
	if refreshed.Trade.StopLoss == nil || *refreshed.Trade.StopLoss != 92000 {
		t.Errorf("stopLoss = %v, want 92000", refreshed.Trade.StopLoss)
	}
}
