package extractor

import "testing"

func TestSummarize_BasicStockTrade(t *testing.T) {
	rec := &TradeRecord{
		Action:   "buy",
		Ticker:   "AAPL",
		Quantity: floatPtr(100),
		Price:    floatPtr(150),
	}
	got := Summarize(rec)
	want := "Buy AAPL 100 shares at $150.00"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_FullRecord(t *testing.T) {
	rec := &TradeRecord{
		Action:          "buy",
		TradeType:       "long",
		Ticker:          "BTC/USDT",
		Exchange:        "Binance",
		Timeframe:       "4h",
		PositionSize:    floatPtr(500),
		Leverage:        intPtr(10),
		Price:           floatPtr(86200),
		StopLoss:        floatPtr(86000),
		TakeProfit:      floatPtr(94000),
		MoveToBreakEven: true,
		Indicators:      []string{"RSI", "MACD"},
	}
	got := Summarize(rec)
	want := "Long BTC/USDT on Binance (4h) $500.00 position 10x at $86,200 • SL $86,000 • Target $94,000 • move to break even • RSI, MACD"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_TickerWithoutDirection(t *testing.T) {
	rec := &TradeRecord{Ticker: "AAPL", StopLoss: floatPtr(140)}
	got := Summarize(rec)
	want := "Trade AAPL • SL $140.00"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_BreakEvenPrice(t *testing.T) {
	rec := &TradeRecord{
		TradeType: "long",
		Ticker:    "ETH/USDT",
		BreakEven: floatPtr(2500),
	}
	got := Summarize(rec)
	want := "Long ETH/USDT • BE $2,500"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_Nil(t *testing.T) {
	if got := Summarize(nil); got != "" {
		t.Errorf("Summarize(nil) = %q, want empty", got)
	}
}

func TestSummarize_RoundTripFromExtract(t *testing.T) {
	rec := Extract("Open Long BTC USDT, 500 USD, stop loss at 86,000, take profit at 94,000 USD.")
	if rec == nil {
		t.Fatal("expected a record")
	}
	got := Summarize(rec)
	want := "Long BTC/USDT $500.00 position • SL $86,000 • Target $94,000"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct{ in, want string }{
		{"150.00", "150.00"},
		{"86000", "86,000"},
		{"1234567.89", "1,234,567.89"},
		{"999", "999"},
		{"1000", "1,000"},
	}
	for _, tc := range cases {
		if got := groupThousands(tc.in); got != tc.want {
			t.Errorf("groupThousands(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{150, "150.00"},
		{86000, "86,000"},
		{86000.5, "86,000.5"},
		{9.5, "9.50"},
	}
	for _, tc := range cases {
		if got := formatMoney(tc.in); got != tc.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
