package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	minNotes      = 20
	maxNotes      = 120
	numWorkers    = 5
	serverAddress = "http://localhost:8080"

	apiKey    = "test-api-key"
	apiSecret = "test-api-secret"
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// transcriptCase is one synthetic spoken note plus whether the
// extractor is expected to find a trade in it.
type transcriptCase struct {
	text      string
	wantTrade bool
}

var (
	cryptoPairs = []string{"BTC USDT", "ETHUSDT", "SOL-USDC", "bitcoin tether"}
	stocks      = []string{"AAPL", "TSLA", "NVDA", "MSFT", "AMZN"}
	exchanges   = []string{"Binance", "Bybit", "Kraken"}
)

// randomTranscript fabricates a spoken trade note, occasionally with
// the speech-to-text mangles the extractor is built to absorb, and
// occasionally with no trade at all.
func randomTranscript() transcriptCase {
	switch rand.Intn(6) {
	case 0:
		return transcriptCase{
			text: fmt.Sprintf("Open Long %s, %d USD, stop loss at %d, take profit at %d.",
				cryptoPairs[rand.Intn(len(cryptoPairs))],
				100+rand.Intn(900),
				80000+rand.Intn(5000),
				90000+rand.Intn(5000)),
			wantTrade: true,
		}
	case 1:
		return transcriptCase{
			text: fmt.Sprintf("Buy %d shares of %s at $%d",
				10+rand.Intn(490),
				stocks[rand.Intn(len(stocks))],
				50+rand.Intn(400)),
			wantTrade: true,
		}
	case 2:
		return transcriptCase{
			text: fmt.Sprintf("Selling %s on %s, 4-hour chart, RSI looks overbought",
				stocks[rand.Intn(len(stocks))],
				exchanges[rand.Intn(len(exchanges))]),
			wantTrade: true,
		}
	case 3:
		// ASR typo: "Stopplers" should still land as a stop loss
		return transcriptCase{
			text:      fmt.Sprintf("Stopplers at %d on the long", 85000+rand.Intn(3000)),
			wantTrade: true,
		}
	case 4:
		return transcriptCase{
			text: fmt.Sprintf("Going long %s with %dx, moving stop to break even",
				cryptoPairs[rand.Intn(len(cryptoPairs))],
				2+rand.Intn(20)),
			wantTrade: true,
		}
	default:
		return transcriptCase{
			text:      "Remember to review the MACD settings later, nothing to do today",
			wantTrade: false,
		}
	}
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
}

func (rs *routeStats) addDuration(d time.Duration) {
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

// calculate computes min, max, mean, median, p95 and p99 durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))
	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// simulationClient handles HTTP communication with the trade-note API
type simulationClient struct {
	baseURL   string
	authToken string
	client    *http.Client

	mu    sync.Mutex
	stats map[string]*routeStats

	mismatches int
}

func newSimulationClient() (*simulationClient, error) {
	sc := &simulationClient{
		baseURL: serverAddress,
		client:  &http.Client{Timeout: 10 * time.Second},
		stats: map[string]*routeStats{
			"auth":    {name: "Authentication"},
			"create":  {name: "Create Note"},
			"get":     {name: "Get Note"},
			"summary": {name: "Get Summary"},
		},
	}

	token, err := sc.authenticate()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	sc.authToken = token

	return sc, nil
}

func (sc *simulationClient) record(route string, start time.Time, failed bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	rs := sc.stats[route]
	rs.addDuration(time.Since(start))
	if failed {
		rs.failures++
	}
}

// authenticate performs API authentication and returns a JWT token
func (sc *simulationClient) authenticate() (string, error) {
	start := time.Now()

	body, err := json.Marshal(map[string]string{
		"api_key":    apiKey,
		"api_secret": apiSecret,
	})
	if err != nil {
		return "", err
	}

	resp, err := sc.client.Post(
		fmt.Sprintf("%s/api/v1/auth/token", sc.baseURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	if err != nil {
		sc.record("auth", start, true)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		sc.record("auth", start, true)
		return "", fmt.Errorf("authentication failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Token string `json:"jwt_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		sc.record("auth", start, true)
		return "", err
	}
	sc.record("auth", start, false)

	return result.Data.Token, nil
}

func (sc *simulationClient) doJSON(method, url string, payload interface{}) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sc.authToken))
	req.Header.Set("Content-Type", "application/json")
	if method == "POST" {
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, respBody, nil
}

// createNote posts a transcript and returns the stored note ID together
// with the extraction outcome.
func (sc *simulationClient) createNote(transcript string) (noteID string, hasTrade bool, err error) {
	start := time.Now()
	failed := true
	defer func() { sc.record("create", start, failed) }()

	resp, respBody, err := sc.doJSON("POST", fmt.Sprintf("%s/api/v1/notes", sc.baseURL), map[string]string{
		"transcript": transcript,
	})
	if err != nil {
		return "", false, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", false, fmt.Errorf("create note failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data struct {
			NoteID   string `json:"note_id"`
			HasTrade bool   `json:"has_trade"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	if result.Data.NoteID == "" {
		return "", false, fmt.Errorf("no note ID in response: %s", string(respBody))
	}

	failed = false
	return result.Data.NoteID, result.Data.HasTrade, nil
}

func (sc *simulationClient) getNote(noteID string) error {
	start := time.Now()
	failed := true
	defer func() { sc.record("get", start, failed) }()

	resp, respBody, err := sc.doJSON("GET", fmt.Sprintf("%s/api/v1/notes/%s", sc.baseURL, noteID), nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get note failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	failed = false
	return nil
}

func (sc *simulationClient) getSummary(noteID string) (string, error) {
	start := time.Now()
	failed := true
	defer func() { sc.record("summary", start, failed) }()

	resp, respBody, err := sc.doJSON("GET", fmt.Sprintf("%s/api/v1/notes/%s/summary", sc.baseURL, noteID), nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get summary failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data struct {
			Summary string `json:"summary"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	failed = false
	return result.Data.Summary, nil
}

// runNote pushes one synthetic transcript through the full flow
func (sc *simulationClient) runNote(tc transcriptCase) {
	noteID, hasTrade, err := sc.createNote(tc.text)
	if err != nil {
		log.Error().Err(err).Str("transcript", tc.text).Msg("create note failed")
		return
	}

	if hasTrade != tc.wantTrade {
		sc.mu.Lock()
		sc.mismatches++
		sc.mu.Unlock()
		log.Warn().
			Str("transcript", tc.text).
			Bool("has_trade", hasTrade).
			Bool("expected", tc.wantTrade).
			Msg("extraction outcome differs from expectation")
	}

	if err := sc.getNote(noteID); err != nil {
		log.Error().Err(err).Str("note_id", noteID).Msg("get note failed")
		return
	}

	summary, err := sc.getSummary(noteID)
	if err != nil {
		log.Error().Err(err).Str("note_id", noteID).Msg("get summary failed")
		return
	}

	log.Debug().
		Str("note_id", noteID).
		Str("summary", summary).
		Msg("note processed")
}

// printStats reports per-route latency statistics
func (sc *simulationClient) printStats() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, rs := range sc.stats {
		if rs.totalCalls == 0 {
			continue
		}
		min, max, mean, median, p95, p99 := rs.calculate()
		log.Info().
			Str("route", rs.name).
			Int("calls", rs.totalCalls).
			Int("failures", rs.failures).
			Dur("min", min).
			Dur("max", max).
			Dur("mean", mean).
			Dur("median", median).
			Dur("p95", p95).
			Dur("p99", p99).
			Msg("route statistics")
	}
	log.Info().Int("mismatches", sc.mismatches).Msg("extraction expectation mismatches")
}

func main() {
	sc, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize simulation client")
	}

	total := minNotes + rand.Intn(maxNotes-minNotes+1)
	log.Info().Int("notes", total).Int("workers", numWorkers).Msg("starting simulation")

	jobs := make(chan transcriptCase, total)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tc := range jobs {
				sc.runNote(tc)
			}
		}()
	}

	for i := 0; i < total; i++ {
		jobs <- randomTranscript()
	}
	close(jobs)
	wg.Wait()

	sc.printStats()
	log.Info().Msg("simulation complete")
}
