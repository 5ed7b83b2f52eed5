package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/acordafut/standings-engine/internal/domain/league"
	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/domain/standings"
	"github.com/acordafut/standings-engine/internal/domain/zone"
	"github.com/acordafut/standings-engine/internal/platform/cache"
	"github.com/acordafut/standings-engine/internal/platform/logging"
)

// UpdateInput is one batch of results to fold into a league table.
type UpdateInput struct {
	League  string
	Results string
	Message string
	// Notes are display-only annotations keyed by team name (points
	// deductions and the like). They never reach the persisted text.
	Notes  map[string]string
	DryRun bool
}

// UpdateReport describes what an update did (or would do, under dry-run).
type UpdateReport struct {
	League   string
	Applied  int
	Skipped  int
	Warnings []string
	Rows     []standings.TeamStanding
	Token    string
	DryRun   bool
}

// TableRow is a standings row plus its resolved zone, for rendering.
type TableRow struct {
	standings.TeamStanding
	Zone          string
	ZoneConfirmed bool
	Decoration    string
}

// TableView is the zone-annotated current table of one league.
type TableView struct {
	League   string
	Name     string
	MaxGames int
	Rows     []TableRow
}

type storedTable struct {
	text  string
	token string
}

// UpdateService owns the load, apply, sort, persist cycle. Writers are
// serialized per league key so two concurrent updates can never race on the
// same stored table.
type UpdateService struct {
	leagues league.Registry
	parser  *result.Parser
	store   standings.Store
	cache   *cache.Store
	logger  *logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUpdateService(
	leagues league.Registry,
	parser *result.Parser,
	store standings.Store,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *UpdateService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UpdateService{
		leagues: leagues,
		parser:  parser,
		store:   store,
		cache:   cacheStore,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// GetTable returns the current table for a league, zone-annotated. The mode
// label only affects leagues that carry remappable European sub-zones.
func (s *UpdateService) GetTable(ctx context.Context, leagueKey, mode string, confirmations zone.Confirmations) (TableView, error) {
	ctx, span := startUsecaseSpan(ctx, "UpdateService.GetTable")
	defer span.End()

	lg, err := s.league(leagueKey)
	if err != nil {
		return TableView{}, err
	}

	stored, err := s.loadStored(ctx, lg)
	if err != nil {
		return TableView{}, err
	}

	table := standings.NewTable(s.logger)
	table.Load(stored.text)
	if table.Len() == 0 {
		return TableView{}, fmt.Errorf("%w: stored table for %s is empty", ErrNotFound, lg.Key)
	}

	return s.view(lg, table, mode, confirmations), nil
}

// Update runs the full cycle: load the stored table, parse the batch, apply
// decisive results, sort, and persist. Dry-run stops short of persisting and
// returns the would-be table.
func (s *UpdateService) Update(ctx context.Context, in UpdateInput) (UpdateReport, error) {
	ctx, span := startUsecaseSpan(ctx, "UpdateService.Update")
	defer span.End()

	lg, err := s.league(in.League)
	if err != nil {
		return UpdateReport{}, err
	}

	lock := s.leagueLock(lg.Key)
	lock.Lock()
	defer lock.Unlock()

	text, token, err := s.store.Get(ctx, lg.StorePath)
	if err != nil {
		return UpdateReport{}, fmt.Errorf("load table %s: %w", lg.Key, err)
	}

	table := standings.NewTable(s.logger)
	table.Load(text)
	if table.Len() == 0 {
		return UpdateReport{}, fmt.Errorf("%w: stored table for %s is empty", ErrNotFound, lg.Key)
	}

	report := UpdateReport{
		League: lg.Key,
		DryRun: in.DryRun,
		Token:  token,
	}

	total := result.CountNonBlank(in.Results)
	parsed := s.parser.ParseBlock(in.Results)
	if len(parsed) == 0 {
		return UpdateReport{}, fmt.Errorf("%w: no parseable result lines", ErrInvalidInput)
	}
	report.Skipped = total - len(parsed)
	if report.Skipped > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d line(s) did not match any known notation", report.Skipped))
	}

	ok, duplicates := ValidateBatch(parsed, lg.TeamCount)
	if !ok {
		return UpdateReport{}, fmt.Errorf("%w: duplicate teams in batch: %s",
			ErrInvalidInput, strings.Join(duplicates, ", "))
	}
	if len(duplicates) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("teams with more than one result in batch: %s", strings.Join(duplicates, ", ")))
	}

	decisive := 0
	for _, item := range parsed {
		if result.IsDecisive(item.Status) {
			decisive++
		}
	}

	applyErrs := table.ApplyResults(parsed)
	report.Warnings = append(report.Warnings, applyErrs...)
	report.Applied = decisive - len(applyErrs)

	table.Sort()
	for name, note := range in.Notes {
		if !table.SetNote(name, note) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("note for unknown team: %s", name))
		}
	}
	report.Rows = table.Rows()

	if in.DryRun {
		s.logger.InfoContext(ctx, "dry-run table update",
			"league", lg.Key, "applied", report.Applied, "warnings", len(report.Warnings))
		return report, nil
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		message = fmt.Sprintf("update %s standings", lg.Key)
	}

	newToken, err := s.store.Put(ctx, lg.StorePath, table.Text(), token, message)
	if err != nil {
		return UpdateReport{}, fmt.Errorf("persist table %s: %w", lg.Key, err)
	}
	report.Token = newToken

	if s.cache != nil {
		s.cache.Delete(ctx, tableCacheKey(lg.Key))
	}

	s.logger.InfoContext(ctx, "table updated",
		"league", lg.Key, "applied", report.Applied, "skipped", report.Skipped,
		"warnings", len(report.Warnings))

	return report, nil
}

func (s *UpdateService) league(key string) (league.League, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return league.League{}, fmt.Errorf("%w: league key is required", ErrInvalidInput)
	}
	lg, ok := s.leagues.Get(key)
	if !ok {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, key)
	}
	return lg, nil
}

func (s *UpdateService) leagueLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *UpdateService) loadStored(ctx context.Context, lg league.League) (storedTable, error) {
	load := func(ctx context.Context) (any, error) {
		text, token, err := s.store.Get(ctx, lg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("load table %s: %w", lg.Key, err)
		}
		return storedTable{text: text, token: token}, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return storedTable{}, err
		}
		return value.(storedTable), nil
	}

	value, err := s.cache.GetOrLoad(ctx, tableCacheKey(lg.Key), load)
	if err != nil {
		return storedTable{}, err
	}
	return value.(storedTable), nil
}

func (s *UpdateService) view(lg league.League, table *standings.Table, mode string, confirmations zone.Confirmations) TableView {
	cfg, hasZones := zone.DefaultConfig(lg.Key)
	if hasZones && lg.ModeAware {
		cfg = zone.ApplyMode(cfg, mode)
	}

	rows := table.Rows()
	out := TableView{
		League:   lg.Key,
		Name:     lg.Name,
		MaxGames: table.MaxGames(),
		Rows:     make([]TableRow, 0, len(rows)),
	}
	for _, row := range rows {
		annotated := TableRow{TeamStanding: row}
		if hasZones {
			if res, ok := zone.Resolve(row.Position, confirmations, cfg); ok {
				annotated.Zone = res.Zone
				annotated.ZoneConfirmed = res.Confirmed
				annotated.Decoration = res.Decoration
			}
		}
		out.Rows = append(out.Rows, annotated)
	}
	return out
}

func tableCacheKey(league string) string {
	return "table:" + league
}
