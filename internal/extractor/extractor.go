// Package extractor recovers structured trade fields from noisy
// speech-to-text transcripts of a trader talking through a position.
// It is a pure function over immutable lookup tables: layered pattern
// matching with domain heuristics that correct for common
// speech-recognition errors. A field that cannot be recovered is simply
// absent; Extract never fails.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Extract runs the full detection pipeline over a transcript and
// returns the sparse trade record, or nil when the text does not
// mention a trade at all (the validity gate: at least one of ticker,
// action, price, quantity, stop loss, take profit or position size must
// be present).
func Extract(text string) *TradeRecord {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Detection runs over an uppercased, ASR-corrected copy. The raw
	// text is kept for the generic ticker tier, which needs to know
	// which tokens were genuinely spoken in uppercase.
	norm := normalize(text)

	rec := &TradeRecord{}
	detectAction(norm, rec)
	detectExchange(norm, rec)
	detectTimeframe(norm, rec)
	detectIndicators(norm, rec)
	detectLeverage(norm, rec)
	detectTicker(norm, text, rec)
	detectPrice(norm, rec)
	detectQuantity(norm, rec)
	detectPositionSize(norm, rec)
	detectStopLoss(norm, rec)
	detectTakeProfit(norm, rec)
	detectBreakEven(norm, rec)

	return rec.compact()
}

// normalize uppercases the transcript and folds known speech-to-text
// mangles ("Stopplers", "MHCD") into their canonical phrases so the
// detectors only ever see one spelling.
func normalize(text string) string {
	norm := strings.ToUpper(text)
	for _, c := range asrCorrections {
		norm = c.re.ReplaceAllString(norm, c.replacement)
	}
	return norm
}

// detectAction sets action and trade type as a pair. Buy cues are
// checked before sell cues; the first to match wins.
func detectAction(norm string, rec *TradeRecord) {
	switch {
	case buyCueRe.MatchString(norm):
		rec.Action, rec.TradeType = "buy", "long"
	case sellCueRe.MatchString(norm):
		rec.Action, rec.TradeType = "sell", "short"
	}
}

func detectExchange(norm string, rec *TradeRecord) {
	for _, name := range knownExchanges {
		if strings.Contains(norm, strings.ToUpper(name)) {
			rec.Exchange = capitalize(name)
			return
		}
	}
}

func detectTimeframe(norm string, rec *TradeRecord) {
	for _, tf := range timeframeVariants {
		if strings.Contains(norm, tf.phrase) {
			rec.Timeframe = tf.code
			return
		}
	}
}

// detectIndicators records every vocabulary entry that matches, not
// just the first, deduplicated by canonical name in insertion order.
func detectIndicators(norm string, rec *TradeRecord) {
	seen := make(map[string]bool)
	for _, ind := range indicatorVocabulary {
		if seen[ind.canonical] || !ind.re.MatchString(norm) {
			continue
		}
		seen[ind.canonical] = true
		rec.Indicators = append(rec.Indicators, ind.canonical)
	}
}

// detectLeverage accepts the first match in [1,125]; an out-of-range
// hit rejects the pattern and the next one is tried.
func detectLeverage(norm string, rec *TradeRecord) {
	for _, re := range leveragePatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > 125 {
			continue
		}
		rec.Leverage = intPtr(n)
		return
	}
}

// detectTicker runs the four-tier cascade: spoken pair phrases, crypto
// names, symbolic crypto pairs, stock symbols, and finally a generic
// uppercase token adjacent to a trading cue. Each tier is attempted
// only when the previous found nothing.
func detectTicker(norm, raw string, rec *TradeRecord) {
	if t := spokenPairTicker(norm); t != "" {
		rec.Ticker = t
		return
	}
	if t := cryptoNameTicker(norm); t != "" {
		rec.Ticker = t
		return
	}
	if t := symbolicPairTicker(norm); t != "" {
		rec.Ticker = t
		return
	}
	if m := stockTickerRe.FindStringSubmatch(norm); m != nil {
		rec.Ticker = m[1]
		return
	}
	rec.Ticker = genericTicker(raw)
}

func spokenPairTicker(norm string) string {
	for _, sp := range spokenPairs {
		if strings.Contains(norm, sp.phrase) {
			return sp.pair
		}
	}
	return ""
}

// cryptoNameTicker resolves a spoken coin name. A quote-currency word
// attached to the name wins; otherwise a quote word anywhere else in
// the text is combined with it; otherwise the bare ticker is returned.
func cryptoNameTicker(norm string) string {
	for i, cn := range cryptoNames {
		m := cryptoNameRes[i].FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		if m[1] != "" {
			return cn.ticker + "/" + m[1]
		}
		if q := looseQuoteRe.FindStringSubmatch(norm); q != nil {
			return cn.ticker + "/" + q[1]
		}
		return cn.ticker
	}
	return ""
}

// symbolicPairTicker normalizes "BTC USDT", "BTC/USDT", "BTC-USDT" and
// "BTCUSDT" to BASE/QUOTE form.
func symbolicPairTicker(norm string) string {
	for _, re := range []*regexp.Regexp{pairSepRe, pairJoinedRe} {
		if m := re.FindStringSubmatch(norm); m != nil && m[1] != m[2] {
			return m[1] + "/" + m[2]
		}
	}
	return ""
}

func genericTicker(raw string) string {
	for _, re := range genericTickerPatterns {
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			if !excludedWords[m[1]] {
				return m[1]
			}
		}
	}
	return ""
}

// detectPrice finds the entry price. Each candidate is checked against
// the 20 characters immediately preceding it: if that window mentions a
// stop or target keyword the candidate is discarded, which keeps "stop
// loss at 140" from being read as an entry.
func detectPrice(norm string, rec *TradeRecord) {
	for _, re := range pricePatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(norm, -1) {
			window := norm[max(0, loc[0]-20):loc[0]]
			if containsAny(window, priceExclusions) {
				continue
			}
			if v, ok := parseNumber(norm[loc[2]:loc[3]]); ok {
				rec.Price = floatPtr(v)
				return
			}
		}
	}
}

func detectQuantity(norm string, rec *TradeRecord) {
	for i, re := range quantityPatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		// "buy 500 USDT" is a notional, not a share count.
		if i == 1 && len(m) > 2 && quantityCurrencyWords[strings.Trim(m[2], ".")] {
			continue
		}
		if v, ok := parseNumberInRange(m[1], 0, 1_000_000, false); ok {
			rec.Quantity = floatPtr(v)
			return
		}
	}
}

func detectPositionSize(norm string, rec *TradeRecord) {
	for _, re := range positionSizePatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		if v, ok := parseNumberInRange(m[1], 10, 10_000_000, true); ok {
			rec.PositionSize = floatPtr(v)
			return
		}
	}
}

func detectStopLoss(norm string, rec *TradeRecord) {
	for _, re := range stopLossPatterns {
		if m := re.FindStringSubmatch(norm); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				rec.StopLoss = floatPtr(v)
				return
			}
		}
	}
}

func detectTakeProfit(norm string, rec *TradeRecord) {
	for _, re := range takeProfitPatterns {
		if m := re.FindStringSubmatch(norm); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				rec.TakeProfit = floatPtr(v)
				return
			}
		}
	}
}

// detectBreakEven prefers an explicit price; a bare "move to break
// even" instruction sets the sentinel flag instead.
func detectBreakEven(norm string, rec *TradeRecord) {
	if m := breakEvenPriceRe.FindStringSubmatch(norm); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			rec.BreakEven = floatPtr(v)
			return
		}
	}
	if breakEvenCueRe.MatchString(norm) {
		rec.MoveToBreakEven = true
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
