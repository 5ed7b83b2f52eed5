package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/acordafut/standings-engine/internal/domain/league"
	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/platform/logging"
)

type stubStore struct {
	mu     sync.Mutex
	texts  map[string]string
	tokens map[string]string
	puts   int
	getErr error
	putErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		texts:  make(map[string]string),
		tokens: make(map[string]string),
	}
}

func (s *stubStore) Get(_ context.Context, path string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", "", s.getErr
	}
	text, ok := s.texts[path]
	if !ok {
		return "", "", errors.New("path not found")
	}
	return text, s.tokens[path], nil
}

func (s *stubStore) Put(_ context.Context, path, text, token, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	if current := s.tokens[path]; current != token {
		return "", errors.New("change token mismatch")
	}
	s.texts[path] = text
	s.puts++
	newToken := fmt.Sprintf("token-%d", s.puts)
	s.tokens[path] = newToken
	return newToken, nil
}

func testLeagues() league.Registry {
	return league.Registry{
		"testleague": {
			Key:       "testleague",
			Name:      "Test League",
			StorePath: "data/tabelas/testleague.txt",
			RefSlug:   "test-league-table",
			TeamCount: 4,
		},
	}
}

func testParser() *result.Parser {
	return result.NewParser(result.Abbreviations{
		"ALP": "Alpha",
		"BRA": "Bravo",
		"CHA": "Charlie",
		"DEL": "Delta",
	})
}

func newTestUpdateService(store *stubStore) *UpdateService {
	return NewUpdateService(testLeagues(), testParser(), store, nil, logging.NewNop())
}

func seedTable(store *stubStore) {
	store.texts["data/tabelas/testleague.txt"] = strings.Join([]string{
		"Alpha 1 1 0 0 2 0 2 3",
		"Bravo 1 0 1 0 1 1 0 1",
		"Charlie 1 0 1 0 1 1 0 1",
		"Delta 1 0 0 1 0 2 -2 0",
	}, "\n")
	store.tokens["data/tabelas/testleague.txt"] = "token-0"
}

func TestUpdateService_Update_AppliesAndPersists(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	seedTable(store)
	svc := newTestUpdateService(store)

	report, err := svc.Update(context.Background(), UpdateInput{
		League:  "testleague",
		Results: "BRA 3-0 DEL\nCHA vs ALP\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Applied != 1 {
		t.Fatalf("expected 1 applied result, got %d", report.Applied)
	}
	if report.Token != "token-1" {
		t.Fatalf("expected new change token, got %q", report.Token)
	}
	if store.puts != 1 {
		t.Fatalf("expected one persist, got %d", store.puts)
	}

	if report.Rows[0].Name != "Bravo" || report.Rows[0].Points != 4 {
		t.Fatalf("expected Bravo on top with 4 points, got %+v", report.Rows[0])
	}
	if !strings.HasPrefix(store.texts["data/tabelas/testleague.txt"], "Bravo 2 1 1 0 4 1 3 4") {
		t.Fatalf("unexpected persisted text:\n%s", store.texts["data/tabelas/testleague.txt"])
	}
}

func TestUpdateService_Update_DryRunDoesNotPersist(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	seedTable(store)
	svc := newTestUpdateService(store)

	report, err := svc.Update(context.Background(), UpdateInput{
		League:  "testleague",
		Results: "BRA 3-0 DEL",
		DryRun:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.DryRun || report.Token != "token-0" {
		t.Fatalf("expected dry-run with unchanged token, got %+v", report)
	}
	if store.puts != 0 {
		t.Fatalf("expected no persist, got %d", store.puts)
	}
	if report.Rows[0].Name != "Bravo" {
		t.Fatalf("expected would-be table in report, got %+v", report.Rows[0])
	}
}

func TestUpdateService_Update_UnparseableLinesBecomeWarnings(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	seedTable(store)
	svc := newTestUpdateService(store)

	report, err := svc.Update(context.Background(), UpdateInput{
		League:  "testleague",
		Results: "BRA 3-0 DEL\nnot a result line\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Skipped != 1 {
		t.Fatalf("expected 1 skipped line, got %d", report.Skipped)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "did not match") {
		t.Fatalf("expected a shortfall warning, got %v", report.Warnings)
	}
}

func TestUpdateService_Update_DuplicateInSmallBatchFails(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	seedTable(store)
	svc := newTestUpdateService(store)

	// Two decisive results for a 4-team league is within the heuristic
	// threshold, so a repeated team is rejected.
	_, err := svc.Update(context.Background(), UpdateInput{
		League:  "testleague",
		Results: "BRA 3-0 DEL\nDEL 1-0 ALP",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.puts != 0 {
		t.Fatalf("expected no persist on rejected batch, got %d", store.puts)
	}
}

func TestUpdateService_Update_UnknownLeague(t *testing.T) {
	t.Parallel()

	svc := newTestUpdateService(newStubStore())
	_, err := svc.Update(context.Background(), UpdateInput{League: "nowhere", Results: "BRA 3-0 DEL"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateService_Update_NothingParseable(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	seedTable(store)
	svc := newTestUpdateService(store)

	_, err := svc.Update(context.Background(), UpdateInput{
		League:  "testleague",
		Results: "garbage\nmore garbage",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateService_Update_NotesAreDisplayOnly(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	seedTable(store)
	svc := newTestUpdateService(store)

	report, err := svc.Update(context.Background(), UpdateInput{
		League:  "testleague",
		Results: "BRA 3-0 DEL",
		Notes:   map[string]string{"Delta": "-10 pts", "Ghost": "x"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var deltaNote string
	for _, row := range report.Rows {
		if row.Name == "Delta" {
			deltaNote = row.Note
		}
	}
	if deltaNote != "-10 pts" {
		t.Fatalf("expected note on Delta row, got %q", deltaNote)
	}
	if strings.Contains(store.texts["data/tabelas/testleague.txt"], "-10 pts") {
		t.Fatalf("note leaked into persisted text")
	}

	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "Ghost") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected warning for unknown note target, got %v", report.Warnings)
	}
}

func TestUpdateService_GetTable_AnnotatesZones(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.texts["data/tabelas/premierleague.txt"] = strings.Join([]string{
		"Alpha 1 1 0 0 2 0 2 3",
		"Bravo 1 0 1 0 1 1 0 1",
	}, "\n")
	store.tokens["data/tabelas/premierleague.txt"] = "token-0"

	leagues := league.Registry{
		"premierleague": {
			Key:       "premierleague",
			Name:      "Premier League",
			StorePath: "data/tabelas/premierleague.txt",
			TeamCount: 20,
			ModeAware: true,
		},
	}
	svc := NewUpdateService(leagues, testParser(), store, nil, logging.NewNop())

	view, err := svc.GetTable(context.Background(), "premierleague", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Rows[0].Zone != "champion" {
		t.Fatalf("expected champion zone at position 1, got %+v", view.Rows[0])
	}
}
