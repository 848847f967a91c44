package extractor

// Revision identifies the current vocabulary/pattern generation. Notes
// persisted under an older revision are candidates for re-extraction.
const Revision = 1

// TradeRecord is the sparse result of extracting a single spoken trade
// idea. Every field is optional; absent fields are omitted from JSON
// output. Action and TradeType are always set together (buy/long,
// sell/short) or not at all.
type TradeRecord struct {
	Ticker    string `json:"ticker,omitempty"`
	Action    string `json:"action,omitempty"`     // "buy" or "sell"
	TradeType string `json:"trade_type,omitempty"` // "long" or "short"

	Price      *float64 `json:"price,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`

	// BreakEven is the spoken break-even price, if one was given.
	// MoveToBreakEven is set when break-even was mentioned as an
	// instruction ("move stop to break even") without a price.
	BreakEven       *float64 `json:"break_even,omitempty"`
	MoveToBreakEven bool     `json:"move_to_break_even,omitempty"`

	Quantity     *float64 `json:"quantity,omitempty"`
	PositionSize *float64 `json:"position_size,omitempty"`

	Exchange   string   `json:"exchange,omitempty"`
	Timeframe  string   `json:"timeframe,omitempty"`
	Leverage   *int     `json:"leverage,omitempty"`
	Indicators []string `json:"indicators,omitempty" gorm:"serializer:json"`
}

// hasSubstance reports whether the record carries at least one field
// that counts as evidence a trade was actually mentioned. An indicator
// or timeframe alone does not qualify.
func (r *TradeRecord) hasSubstance() bool {
	return r.Ticker != "" ||
		r.Action != "" ||
		r.Price != nil ||
		r.Quantity != nil ||
		r.StopLoss != nil ||
		r.TakeProfit != nil ||
		r.PositionSize != nil
}

// compact applies the validity gate and normalizes the record to its
// sparse form. Returns nil when no qualifying field was detected.
func (r *TradeRecord) compact() *TradeRecord {
	if r == nil || !r.hasSubstance() {
		return nil
	}
	if len(r.Indicators) == 0 {
		r.Indicators = nil
	}
	return r
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
