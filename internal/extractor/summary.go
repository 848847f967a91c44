package extractor

import (
	"fmt"
	"strconv"
	"strings"
)

// Summarize renders a record as a single human-readable line, e.g.
// "Long BTC/USDT on Binance (4h) $500 position at $86,200 • SL $86,000
// • Target $94,000 • RSI, MACD". Absent fields contribute nothing.
func Summarize(rec *TradeRecord) string {
	if rec == nil {
		return ""
	}

	var parts []string
	dir := displayDirection(rec)
	switch {
	case rec.Ticker != "" && dir != "":
		parts = append(parts, dir+" "+rec.Ticker)
	case rec.Ticker != "":
		parts = append(parts, "Trade "+rec.Ticker)
	case dir != "":
		parts = append(parts, dir)
	}
	if rec.Exchange != "" {
		parts = append(parts, "on "+rec.Exchange)
	}
	if rec.Timeframe != "" {
		parts = append(parts, "("+rec.Timeframe+")")
	}
	if rec.Quantity != nil {
		parts = append(parts, formatCount(*rec.Quantity)+" shares")
	}
	if rec.PositionSize != nil {
		parts = append(parts, "$"+formatMoney(*rec.PositionSize)+" position")
	}
	if rec.Leverage != nil {
		parts = append(parts, fmt.Sprintf("%dx", *rec.Leverage))
	}
	if rec.Price != nil {
		parts = append(parts, "at $"+formatMoney(*rec.Price))
	}
	line := strings.Join(parts, " ")

	var extras []string
	if rec.StopLoss != nil {
		extras = append(extras, "SL $"+formatMoney(*rec.StopLoss))
	}
	if rec.TakeProfit != nil {
		extras = append(extras, "Target $"+formatMoney(*rec.TakeProfit))
	}
	if rec.BreakEven != nil {
		extras = append(extras, "BE $"+formatMoney(*rec.BreakEven))
	} else if rec.MoveToBreakEven {
		extras = append(extras, "move to break even")
	}
	if len(rec.Indicators) > 0 {
		extras = append(extras, strings.Join(rec.Indicators, ", "))
	}
	if len(extras) > 0 {
		if line != "" {
			line += " • "
		}
		line += strings.Join(extras, " • ")
	}
	return line
}

// displayDirection prefers the trade type ("Long") over the bare action
// word ("Buy") when both are present.
func displayDirection(rec *TradeRecord) string {
	if rec.TradeType != "" {
		return capitalize(rec.TradeType)
	}
	return capitalize(rec.Action)
}

// formatMoney renders a price-like value with thousands separators.
// Values below 1000 get forced two-decimal places; larger values keep
// only the decimals the source number actually had.
func formatMoney(v float64) string {
	if v < 1000 {
		return groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
	}
	return groupThousands(strconv.FormatFloat(v, 'f', -1, 64))
}

// formatCount renders share/contract counts without forced decimals.
func formatCount(v float64) string {
	return groupThousands(strconv.FormatFloat(v, 'f', -1, 64))
}

func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}
