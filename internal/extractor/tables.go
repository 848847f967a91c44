package extractor

import (
	"regexp"
	"strings"
)

// All tables below are compiled once at package init and never mutated,
// so Extract is safe for concurrent use.

// num matches a comma-grouped decimal number ("86,000", "150.25").
const num = `(\d[\d,]*(?:\.\d+)?)`

// asrCorrections rewrites known speech-to-text mangles before any
// detection runs. Order matters: longer variants first.
var asrCorrections = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\bSTOPPLERS\b`), "STOP LOSS"},
	{regexp.MustCompile(`\bSTOPPERS\b`), "STOP LOSS"},
	{regexp.MustCompile(`\bSTOP\s+PLUS\b`), "STOP LOSS"},
	{regexp.MustCompile(`\bSTOPPER\b`), "STOP LOSS"},
	{regexp.MustCompile(`\bS\.L\.?`), "STOP LOSS"},
	{regexp.MustCompile(`\bS\s+L\b`), "STOP LOSS"},
	{regexp.MustCompile(`\bMHCD\b`), "MACD"},
	{regexp.MustCompile(`\bMCD\b`), "MACD"},
	{regexp.MustCompile(`\bMAC\s+D\b`), "MACD"},
}

// Buy cues are checked before sell cues; the first alternation to match
// decides both action and trade type.
var (
	buyCueRe  = regexp.MustCompile(`\b(?:BUY|BUYING|BOUGHT|GOING\s+LONG|OPENING\s+LONG|OPEN\s+LONG|LONG)\b`)
	sellCueRe = regexp.MustCompile(`\b(?:SELL|SELLING|SOLD|GOING\s+SHORT|OPENING\s+SHORT|OPEN\s+SHORT|SHORT|CLOSING|CLOSE)\b`)
)

// knownExchanges is matched as a case-insensitive substring, in order.
var knownExchanges = []string{
	"Binance", "Coinbase", "Kraken", "Bybit", "OKX", "KuCoin",
	"Bitfinex", "Gemini", "Huobi", "Gate.io", "Bitget", "MEXC",
	"Crypto.com",
}

// timeframeVariants maps spoken and written phrasings to canonical
// codes. Most specific phrasing first: the fifteen-minute group must
// precede the five-minute group because "15 MIN" contains "5 MIN".
var timeframeVariants = []struct {
	phrase string
	code   string
}{
	{"FIFTEEN MINUTES", "15m"}, {"15 MINUTES", "15m"}, {"15-MINUTE", "15m"}, {"15 MIN", "15m"},
	{"FIVE MINUTES", "5m"}, {"5 MINUTES", "5m"}, {"5-MINUTE", "5m"}, {"5 MIN", "5m"},
	{"ONE MINUTE", "1m"}, {"1 MINUTE", "1m"}, {"1-MINUTE", "1m"}, {"1 MIN", "1m"},
	{"FOUR HOURS", "4h"}, {"FOUR HOUR", "4h"}, {"4 HOURS", "4h"}, {"4 HOUR", "4h"}, {"4-HOUR", "4h"}, {"4H", "4h"},
	{"ONE HOUR", "1h"}, {"1 HOUR", "1h"}, {"1-HOUR", "1h"}, {"HOURLY", "1h"}, {"1H", "1h"},
	{"DAILY", "1D"}, {"ONE DAY", "1D"}, {"1 DAY", "1D"}, {"1D", "1D"},
	{"WEEKLY", "1W"}, {"ONE WEEK", "1W"}, {"1 WEEK", "1W"}, {"1W", "1W"},
	{"MONTHLY", "1M"}, {"ONE MONTH", "1M"}, {"1 MONTH", "1M"},
}

// indicatorVocabulary is tested entry by entry; every match is kept,
// deduplicated by canonical name in insertion order. The MACD ASR
// variants are already folded in by asrCorrections.
var indicatorVocabulary = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\bRSI\b`), "RSI"},
	{regexp.MustCompile(`\bMACD\b`), "MACD"},
	{regexp.MustCompile(`\bEMA\b`), "EMA"},
	{regexp.MustCompile(`\bSMA\b`), "SMA"},
	{regexp.MustCompile(`\bVWAP\b`), "VWAP"},
	{regexp.MustCompile(`\bATR\b`), "ATR"},
	{regexp.MustCompile(`\bBOLLINGER\s+BANDS\b`), "Bollinger Bands"},
	{regexp.MustCompile(`\bBOLLINGER\b`), "Bollinger Bands"},
	{regexp.MustCompile(`\bSTOCHASTIC\b`), "Stochastic"},
	{regexp.MustCompile(`\bFIBONACCI\b`), "Fibonacci"},
	{regexp.MustCompile(`\bICHIMOKU\b`), "Ichimoku"},
	{regexp.MustCompile(`\bADX\b`), "ADX"},
	{regexp.MustCompile(`\bCCI\b`), "CCI"},
	{regexp.MustCompile(`\bWILLIAMS\b`), "Williams %R"},
}

var leveragePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,3})X\s+LEVERAGE\b`),
	regexp.MustCompile(`\bLEVERAGE\s+(?:OF\s+)?(\d{1,3})X?\b`),
	regexp.MustCompile(`\b(?:WITH|USING)\s+(\d{1,3})X\b`),
	regexp.MustCompile(`\b(\d{1,3})X\s+(?:LONG|SHORT|POSITION)\b`),
}

// spokenPairs are literal phrasings a speaker uses for a full pair.
// Exact listed phrases only; everything else falls through to the
// name and symbol tiers.
var spokenPairs = []struct {
	phrase string
	pair   string
}{
	{"BITCOIN TETHER", "BTC/USDT"},
	{"ETHEREUM TETHER", "ETH/USDT"},
	{"SOLANA TETHER", "SOL/USDT"},
	{"BITCOIN US DOLLAR", "BTC/USD"},
	{"ETHEREUM US DOLLAR", "ETH/USD"},
	{"BITCOIN DOLLAR", "BTC/USD"},
}

// cryptoNames maps spoken coin names to tickers, in lookup order.
var cryptoNames = []struct {
	name   string
	ticker string
}{
	{"BITCOIN", "BTC"},
	{"ETHEREUM", "ETH"},
	{"SOLANA", "SOL"},
	{"CARDANO", "ADA"},
	{"RIPPLE", "XRP"},
	{"DOGECOIN", "DOGE"},
	{"POLKADOT", "DOT"},
	{"AVALANCHE", "AVAX"},
	{"CHAINLINK", "LINK"},
	{"LITECOIN", "LTC"},
	{"POLYGON", "MATIC"},
	{"BINANCE COIN", "BNB"},
}

// cryptoNameRes pairs each coin name with a pattern that also captures
// an optionally attached quote-currency word.
var cryptoNameRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(cryptoNames))
	for i, cn := range cryptoNames {
		name := strings.ReplaceAll(cn.name, " ", `\s+`)
		res[i] = regexp.MustCompile(`\b` + name + `(?:\s+(USDT|USDC|USD|BUSD|EUR|BTC|ETH))?\b`)
	}
	return res
}()

// looseQuoteRe finds a quote-currency word anywhere in the text, used
// when a coin name appears without one attached. BTC and ETH are
// deliberately excluded here so a base mention elsewhere in the
// sentence is never misread as a quote currency.
var looseQuoteRe = regexp.MustCompile(`\b(USDT|USDC|USD|BUSD|EUR)\b`)

const (
	cryptoTokenAlt = `BTC|ETH|SOL|ADA|XRP|DOGE|DOT|AVAX|LINK|LTC|MATIC|BNB|ATOM|UNI|XLM|NEAR|APT|ARB|OP|INJ|SUI|SHIB|PEPE`
	quoteTokenAlt  = `USDT|USDC|BUSD|USD|EUR|BTC|ETH`
)

// Symbolic pair forms: spaced/slashed/hyphenated and concatenated.
var (
	pairSepRe    = regexp.MustCompile(`\b(` + cryptoTokenAlt + `)\s*[/\-\s]\s*(` + quoteTokenAlt + `)\b`)
	pairJoinedRe = regexp.MustCompile(`\b(` + cryptoTokenAlt + `)(` + quoteTokenAlt + `)\b`)
)

var stockTickerRe = regexp.MustCompile(`\b(AAPL|MSFT|GOOGL|GOOG|AMZN|META|TSLA|NVDA|AMD|INTC|NFLX|DIS|BA|JPM|WMT|KO|PFE|XOM|SPY|QQQ|IWM|DIA|GLD|SLV|COIN|PLTR|SOFI|GME|AMC)\b`)

// genericTickerPatterns run over the raw (non-uppercased) transcript:
// the candidate itself must be genuinely uppercase, the surrounding cue
// may be any case.
var genericTickerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?i:buy|buying|sell|selling|long|short|trade|trading)\s+\$?([A-Z]{2,5})\b`),
	regexp.MustCompile(`\b([A-Z]{2,5})\s+(?i:at|price)\b`),
	regexp.MustCompile(`\b([A-Z]{2,5})\s*@`),
	regexp.MustCompile(`\b(?i:ticker)\s+(?:(?i:is)\s+)?([A-Z]{2,5})\b`),
	regexp.MustCompile(`\$([A-Z]{2,5})\b`),
}

// excludedWords are 2-5 letter uppercase tokens that look like tickers
// but never are: common words, currency codes and trading jargon.
var excludedWords = map[string]bool{
	"THE": true, "AND": true, "FOR": true, "WITH": true, "THIS": true,
	"THAT": true, "FROM": true, "HAVE": true, "WILL": true, "YOUR": true,
	"JUST": true, "LIKE": true, "SOME": true, "WHAT": true, "WHEN": true,
	"NOW": true, "NEW": true, "ALL": true, "ONE": true, "TWO": true,
	"TEN": true, "ARE": true, "WAS": true, "NOT": true, "BUT": true,
	"OUT": true, "GET": true, "GOT": true, "CAN": true, "ITS": true,
	"USD": true, "USDT": true, "USDC": true, "BUSD": true, "EUR": true,
	"GBP": true, "JPY": true,
	"BUY": true, "SELL": true, "LONG": true, "SHORT": true, "STOP": true,
	"LOSS": true, "TAKE": true, "TP": true, "SL": true, "BE": true,
	"PRICE": true, "ENTRY": true, "SIZE": true, "RISK": true, "LOT": true,
	"LOTS": true, "UNIT": true, "UNITS": true, "SHARE": true, "OPEN": true,
	"CLOSE": true, "MOVE": true, "HIGH": true, "LOW": true, "OVER": true,
	"UNDER": true, "NEAR": true, "ABOVE": true, "BELOW": true,
	"LEVEL": true, "CHART": true, "TREND": true, "TRADE": true,
	"SETUP": true, "GOING": true, "ABOUT": true, "DAILY": true,
	"WEEK": true, "DAY": true, "HOUR": true, "MIN": true,
}

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:PRICE|ENTRY|ENTER|AT)\s+(?:OF\s+)?(?:IS\s+)?\$?\s?` + num),
	regexp.MustCompile(`\$` + num),
	regexp.MustCompile(`\b(?:BUY|SELL|LONG|SHORT)\s+(?:AT\s+)?\$?\s?` + num),
}

// priceExclusions poison a price candidate when they appear in the 20
// characters immediately before the match ("stop loss at 140" is not an
// entry).
var priceExclusions = []string{"STOP", "LOSS", "TARGET", "TAKE PROFIT", "PROFIT", "TP", "SL"}

var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(num + `\s+(?:SHARES|CONTRACTS|LOTS|UNITS)\b`),
	regexp.MustCompile(`\b(?:BUY|SELL|LONG|SHORT)\s+` + num + `(?:\s+([A-Z.]+))?`),
	regexp.MustCompile(`\bQUANTITY\s+(?:OF\s+)?` + num),
}

// quantityCurrencyWords reject a "<verb> <N>" quantity match when the
// number is really a notional ("buy 500 USDT").
var quantityCurrencyWords = map[string]bool{
	"USD": true, "USDT": true, "USDC": true, "BUSD": true, "EUR": true,
	"DOLLARS": true, "BUCKS": true,
}

var positionSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(num + `\s+(?:USD|USDT|DOLLARS|BUCKS)\b(?:\s+(?:POSITION|SIZE|WORTH))?`),
	regexp.MustCompile(`\bPOSITION\s+(?:SIZE\s+)?(?:OF\s+)?\$?\s?` + num + `(?:\s+(?:USD|USDT|DOLLARS))?`),
	regexp.MustCompile(`\bSIZE\s+(?:OF\s+)?\$?\s?` + num + `(?:\s+(?:USD|USDT|DOLLARS))?`),
}

var stopLossPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bSTOP\s+LOSS\s+(?:AT\s+|@\s*|IS\s+|OF\s+)?\$?\s?` + num),
	regexp.MustCompile(`\bSTOP\s+(?:AT\s+|@\s*)\$?\s?` + num),
	regexp.MustCompile(`\bSL\s+(?:AT\s+|@\s*|IS\s+)?\$?\s?` + num),
	regexp.MustCompile(`\b(?:SET|PUT)\s+(?:A\s+)?STOP\s+(?:AT\s+)?\$?\s?` + num),
}

var takeProfitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:TAKE\s+PROFIT|TP)\s+(?:AT\s+|@\s*|IS\s+)?\$?\s?` + num),
	regexp.MustCompile(`\bTARGET\s+(?:AT\s+|@\s*|IS\s+|OF\s+)?\$?\s?` + num),
	regexp.MustCompile(`\bPROFIT\s+(?:AT\s+|@\s*)?\$?\s?` + num),
}

var (
	breakEvenPriceRe = regexp.MustCompile(`\b(?:BREAK\s+EVEN|BREAKEVEN|B\s+E)\s+(?:AT\s+|@\s*|IS\s+)?\$?\s?` + num)
	breakEvenCueRe   = regexp.MustCompile(`\b(?:MOVE|MOVED|MOVING)\s+(?:STOP\s+)?(?:TO\s+)?(?:BREAK\s*EVEN|B\s+E)\b`)
)
