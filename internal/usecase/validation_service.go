package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/xrash/smetrics"

	"github.com/acordafut/standings-engine/internal/domain/league"
	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/domain/standings"
	"github.com/acordafut/standings-engine/internal/platform/cache"
	"github.com/acordafut/standings-engine/internal/platform/logging"
)

// matchThreshold is the minimum JaroWinkler similarity for a computed team
// name to be considered the same club as a reference row.
const matchThreshold = 0.85

// ReferenceRow is one row of an externally published standings table.
type ReferenceRow struct {
	Name           string
	Games          int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// ReferenceFetcher retrieves the published table for a league slug.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, slug string) ([]ReferenceRow, error)
}

// FieldDiff is one stat that disagrees between computed and reference rows.
type FieldDiff struct {
	Field     string
	Computed  int
	Reference int
}

// Divergence reports one computed team whose reference counterpart is
// missing or disagrees on at least one stat.
type Divergence struct {
	Team        string
	MatchedName string
	Similarity  float64
	Fields      []FieldDiff
}

// Missing reports whether no reference row matched the team at all.
func (d Divergence) Missing() bool {
	return d.MatchedName == ""
}

// DivergenceReport is the comparison outcome for one league.
type DivergenceReport struct {
	League  string
	Source  string
	Checked int
	// Degraded is set when the reference source was unreachable; the report
	// then carries no divergences rather than failing the whole scan.
	Degraded    bool
	Divergences []Divergence
}

// DuplicateTeams returns, sorted, the teams that appear in more than one
// decisive result of a batch.
func DuplicateTeams(results []result.Result) []string {
	counts := make(map[string]int, len(results)*2)
	for _, item := range results {
		if !result.IsDecisive(item.Status) {
			continue
		}
		counts[item.HomeTeam]++
		counts[item.AwayTeam]++
	}

	out := make([]string, 0)
	for name, n := range counts {
		if n > 1 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateBatch applies the duplicate heuristic: repeated teams are an error
// only in a small batch (at most half a round), where a repeat almost
// certainly means a typo. A large batch legitimately repeats teams because it
// spans a full round plus midweek fixtures.
func ValidateBatch(results []result.Result, teamCount int) (bool, []string) {
	duplicates := DuplicateTeams(results)
	if len(duplicates) == 0 {
		return true, nil
	}

	decisive := 0
	for _, item := range results {
		if result.IsDecisive(item.Status) {
			decisive++
		}
	}
	if teamCount > 0 && decisive <= teamCount/2 {
		return false, duplicates
	}
	return true, duplicates
}

type ValidationService struct {
	leagues league.Registry
	store   standings.Store
	fetcher ReferenceFetcher
	cache   *cache.Store
	logger  *logging.Logger
	workers int
}

func NewValidationService(
	leagues league.Registry,
	store standings.Store,
	fetcher ReferenceFetcher,
	cacheStore *cache.Store,
	logger *logging.Logger,
	workers int,
) *ValidationService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &ValidationService{
		leagues: leagues,
		store:   store,
		fetcher: fetcher,
		cache:   cacheStore,
		logger:  logger,
		workers: workers,
	}
}

// CompareLeague checks one league's computed table against its reference
// source. An unreachable reference is a dependency failure, not a divergence.
func (s *ValidationService) CompareLeague(ctx context.Context, leagueKey string) (DivergenceReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ValidationService.CompareLeague")
	defer span.End()

	leagueKey = strings.TrimSpace(leagueKey)
	lg, ok := s.leagues.Get(leagueKey)
	if !ok {
		return DivergenceReport{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueKey)
	}

	text, _, err := s.store.Get(ctx, lg.StorePath)
	if err != nil {
		return DivergenceReport{}, fmt.Errorf("load table %s: %w", lg.Key, err)
	}
	table := standings.NewTable(s.logger)
	table.Load(text)
	if table.Len() == 0 {
		return DivergenceReport{}, fmt.Errorf("%w: stored table for %s is empty", ErrNotFound, lg.Key)
	}

	reference, err := s.reference(ctx, lg)
	if err != nil {
		return DivergenceReport{}, fmt.Errorf("%w: fetch reference %s: %v",
			ErrDependencyUnavailable, lg.RefSlug, err)
	}

	report := DivergenceReport{
		League:      lg.Key,
		Source:      lg.RefSlug,
		Checked:     table.Len(),
		Divergences: Compare(table.Rows(), reference),
	}
	return report, nil
}

// ScanAll compares every registered league concurrently. Leagues whose
// reference fetch fails come back degraded instead of failing the scan.
func (s *ValidationService) ScanAll(ctx context.Context) ([]DivergenceReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ValidationService.ScanAll")
	defer span.End()

	keys := s.leagues.Keys()
	if len(keys) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("start worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports = make([]DivergenceReport, 0, len(keys))
	)
	for _, key := range keys {
		key := key
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			report, err := s.CompareLeague(ctx, key)
			if err != nil {
				s.logger.WarnContext(ctx, "reference comparison degraded",
					"league", key, "error", err)
				report = DivergenceReport{League: key, Degraded: true}
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			reports = append(reports, DivergenceReport{League: key, Degraded: true})
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].League < reports[j].League })
	return reports, nil
}

func (s *ValidationService) reference(ctx context.Context, lg league.League) ([]ReferenceRow, error) {
	load := func(ctx context.Context) (any, error) {
		return s.fetcher.Fetch(ctx, lg.RefSlug)
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]ReferenceRow), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "reference:"+lg.RefSlug, load)
	if err != nil {
		return nil, err
	}
	return value.([]ReferenceRow), nil
}

// Compare matches computed rows against reference rows by fuzzy name and
// reports every stat disagreement. Exact name matches short-circuit; ties on
// similarity break toward the lexicographically smaller candidate so repeated
// runs stay deterministic.
func Compare(computed []standings.TeamStanding, reference []ReferenceRow) []Divergence {
	out := make([]Divergence, 0)
	for _, row := range computed {
		match, similarity, found := bestMatch(row.Name, reference)
		if !found {
			out = append(out, Divergence{Team: row.Name})
			continue
		}

		fields := diffFields(row, match)
		if len(fields) == 0 {
			continue
		}
		out = append(out, Divergence{
			Team:        row.Name,
			MatchedName: match.Name,
			Similarity:  similarity,
			Fields:      fields,
		})
	}
	return out
}

func bestMatch(name string, reference []ReferenceRow) (ReferenceRow, float64, bool) {
	var (
		best     ReferenceRow
		bestSim  float64
		anyFound bool
	)
	for _, candidate := range reference {
		if strings.EqualFold(name, candidate.Name) {
			return candidate, 1, true
		}
		sim := smetrics.JaroWinkler(strings.ToLower(name), strings.ToLower(candidate.Name), 0.7, 4)
		if sim > bestSim || (sim == bestSim && anyFound && candidate.Name < best.Name) {
			best = candidate
			bestSim = sim
			anyFound = true
		}
	}
	if !anyFound || bestSim < matchThreshold {
		return ReferenceRow{}, 0, false
	}
	return best, bestSim, true
}

func diffFields(row standings.TeamStanding, ref ReferenceRow) []FieldDiff {
	pairs := []struct {
		field    string
		computed int
		ref      int
	}{
		{"games", row.Games, ref.Games},
		{"wins", row.Wins, ref.Wins},
		{"draws", row.Draws, ref.Draws},
		{"losses", row.Losses, ref.Losses},
		{"goals_for", row.GoalsFor, ref.GoalsFor},
		{"goals_against", row.GoalsAgainst, ref.GoalsAgainst},
		{"goal_difference", row.GoalDifference, ref.GoalDifference},
		{"points", row.Points, ref.Points},
	}

	out := make([]FieldDiff, 0)
	for _, pair := range pairs {
		if pair.computed != pair.ref {
			out = append(out, FieldDiff{Field: pair.field, Computed: pair.computed, Reference: pair.ref})
		}
	}
	return out
}
