package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/acordafut/standings-engine/internal/domain/league"
	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/platform/logging"
	"github.com/acordafut/standings-engine/internal/usecase"
)

type memStore struct {
	mu     sync.Mutex
	texts  map[string]string
	tokens map[string]string
	puts   int
}

func (s *memStore) Get(_ context.Context, path string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.texts[path]
	if !ok {
		return "", "", fmt.Errorf("%w: path=%s", usecase.ErrNotFound, path)
	}
	return text, s.tokens[path], nil
}

func (s *memStore) Put(_ context.Context, path, text, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[path] = text
	s.puts++
	token := fmt.Sprintf("token-%d", s.puts)
	s.tokens[path] = token
	return token, nil
}

type memFetcher struct {
	rows []usecase.ReferenceRow
	err  error
}

func (f *memFetcher) Fetch(context.Context, string) ([]usecase.ReferenceRow, error) {
	return f.rows, f.err
}

func newTestRouter(t *testing.T, store *memStore, fetcher usecase.ReferenceFetcher) http.Handler {
	t.Helper()

	leagues := league.Registry{
		"premierleague": {
			Key:       "premierleague",
			Name:      "Premier League",
			StorePath: "data/tabelas/premierleague.txt",
			RefSlug:   "premier-league-table",
			TeamCount: 20,
			ModeAware: true,
		},
	}
	parser := result.NewParser(result.Abbreviations{
		"LIV": "Liverpool",
		"ARS": "Arsenal",
	})

	logger := logging.NewNop()
	handler := NewHandler(
		leagues,
		usecase.NewResultService(parser, logger),
		usecase.NewUpdateService(leagues, parser, store, nil, logger),
		usecase.NewValidationService(leagues, store, fetcher, nil, logger, 2),
		logger,
	)
	return NewRouter(handler, logger, []string{"*"})
}

func seededStore() *memStore {
	return &memStore{
		texts: map[string]string{
			"data/tabelas/premierleague.txt": strings.Join([]string{
				"Liverpool 25 18 4 3 56 21 35 58",
				"Arsenal 25 16 6 3 52 22 30 54",
			}, "\n"),
		},
		tokens: map[string]string{"data/tabelas/premierleague.txt": "token-0"},
	}
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v body=%s", err, rec.Body.String())
	}
	return rec, envelope
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{})
	rec, envelope := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if envelope["data"].(map[string]any)["status"] != "ok" {
		t.Fatalf("unexpected body: %v", envelope)
	}
}

func TestHandler_ParseResults(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/results/parse",
		`{"text":"LIV 2-1 ARS\ngarbage line\n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, envelope)
	}

	data := envelope["data"].(map[string]any)
	if data["skipped"].(float64) != 1 {
		t.Fatalf("expected 1 skipped line, got %v", data["skipped"])
	}
	results := data["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected 1 parsed result, got %d", len(results))
	}
	first := results[0].(map[string]any)
	if first["homeTeam"] != "Liverpool" || first["status"] != "normal" {
		t.Fatalf("unexpected result: %v", first)
	}
}

func TestHandler_ParseResults_BadPayload(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{})
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/results/parse", `{"unknown":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_ValidateResults(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/results/validate",
		`{"lines":["LIV 2-1 ARS","XXX 2-1 ARS"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	items := envelope["data"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(items))
	}
	if items[0].(map[string]any)["valid"] != true || items[1].(map[string]any)["valid"] != false {
		t.Fatalf("unexpected validation output: %v", items)
	}
}

func TestHandler_GetTable_WithZonesAndConfirmations(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{})
	rec, envelope := doRequest(t, router, http.MethodGet,
		"/v1/leagues/premierleague/table?confirmed_champion=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, envelope)
	}

	data := envelope["data"].(map[string]any)
	rows := data["rows"].([]any)
	first := rows[0].(map[string]any)
	if first["name"] != "Liverpool" || first["zone"] != "champion" || first["zoneConfirmed"] != true {
		t.Fatalf("unexpected first row: %v", first)
	}
}

func TestHandler_GetTable_UnknownLeague(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{})
	rec, _ := doRequest(t, router, http.MethodGet, "/v1/leagues/nowhere/table", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_ApplyResults(t *testing.T) {
	t.Parallel()

	store := seededStore()
	router := newTestRouter(t, store, &memFetcher{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/leagues/premierleague/results",
		`{"results":"ARS 1-0 LIV"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, envelope)
	}

	data := envelope["data"].(map[string]any)
	if data["applied"].(float64) != 1 {
		t.Fatalf("expected 1 applied, got %v", data["applied"])
	}
	if store.puts != 1 {
		t.Fatalf("expected a persist, got %d", store.puts)
	}

	rows := data["rows"].([]any)
	first := rows[0].(map[string]any)
	if first["name"] != "Liverpool" || first["points"].(float64) != 58 {
		t.Fatalf("unexpected leader after update: %v", first)
	}
	second := rows[1].(map[string]any)
	if second["name"] != "Arsenal" || second["points"].(float64) != 57 {
		t.Fatalf("unexpected runner-up after update: %v", second)
	}
}

func TestHandler_ApplyResults_DryRun(t *testing.T) {
	t.Parallel()

	store := seededStore()
	router := newTestRouter(t, store, &memFetcher{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/leagues/premierleague/results",
		`{"results":"ARS 1-0 LIV","dry_run":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, envelope)
	}
	if store.puts != 0 {
		t.Fatalf("expected no persist on dry-run, got %d", store.puts)
	}
}

func TestHandler_GetDivergences_Degrades(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededStore(), &memFetcher{err: errors.New("upstream down")})
	rec, _ := doRequest(t, router, http.MethodGet, "/v1/leagues/premierleague/divergences", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandler_ScanDivergences(t *testing.T) {
	t.Parallel()

	fetcher := &memFetcher{rows: []usecase.ReferenceRow{
		{Name: "Liverpool", Games: 25, Wins: 18, Draws: 4, Losses: 3, GoalsFor: 56, GoalsAgainst: 21, GoalDifference: 35, Points: 58},
		{Name: "Arsenal", Games: 25, Wins: 16, Draws: 6, Losses: 3, GoalsFor: 52, GoalsAgainst: 22, GoalDifference: 30, Points: 54},
	}}
	router := newTestRouter(t, seededStore(), fetcher)
	rec, envelope := doRequest(t, router, http.MethodGet, "/v1/divergences", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	reports := envelope["data"].([]any)
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	report := reports[0].(map[string]any)
	if report["league"] != "premierleague" || report["checked"].(float64) != 2 {
		t.Fatalf("unexpected report: %v", report)
	}
}
