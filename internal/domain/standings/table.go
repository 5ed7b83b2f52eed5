package standings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/platform/logging"
)

const statColumns = 8

// Table owns the ordered collection of team standings for one league during
// one update cycle. It is not safe for concurrent use; callers serialize
// writers per league key.
type Table struct {
	rows   []*TeamStanding
	byName map[string]*TeamStanding
	logger *logging.Logger
}

func NewTable(logger *logging.Logger) *Table {
	if logger == nil {
		logger = logging.Default()
	}
	return &Table{
		byName: make(map[string]*TeamStanding),
		logger: logger,
	}
}

// Load replaces the table contents with rows parsed from table text. Each
// line is `<name...> J V E D GF GA SG P`: the trailing 8 whitespace-separated
// tokens are the statistics, everything before them is the team name, so
// names may contain spaces. Lines with fewer than 9 tokens or non-numeric
// statistics are skipped with a diagnostic, never fatally.
func (t *Table) Load(text string) {
	t.rows = t.rows[:0]
	t.byName = make(map[string]*TeamStanding)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	for idx, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < statColumns+1 {
			if strings.TrimSpace(line) != "" {
				t.logger.Warn("skip malformed table line", "line_number", idx+1, "line", line)
			}
			continue
		}

		stats := parts[len(parts)-statColumns:]
		name := strings.Join(parts[:len(parts)-statColumns], " ")

		values := make([]int, statColumns)
		valid := true
		for i, raw := range stats {
			value, err := strconv.Atoi(raw)
			if err != nil {
				t.logger.Warn("skip table line with non-numeric stat", "line_number", idx+1, "token", raw)
				valid = false
				break
			}
			values[i] = value
		}
		if !valid {
			continue
		}

		row := &TeamStanding{
			Name:         name,
			Position:     len(t.rows) + 1,
			Games:        values[0],
			Wins:         values[1],
			Draws:        values[2],
			Losses:       values[3],
			GoalsFor:     values[4],
			GoalsAgainst: values[5],
			Points:       values[7],
		}
		// Stored goal difference (values[6]) is ignored: it is always re-derived.
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst

		t.rows = append(t.rows, row)
		t.byName[name] = row
	}
}

// Len returns the number of teams in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Find returns the standing for a team name, if present.
func (t *Table) Find(name string) (TeamStanding, bool) {
	row, ok := t.byName[name]
	if !ok {
		return TeamStanding{}, false
	}
	return *row, true
}

// Rows returns a copy of the current rows in table order.
func (t *Table) Rows() []TeamStanding {
	out := make([]TeamStanding, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, *row)
	}
	return out
}

// SetNote attaches a display-only note to a team row.
func (t *Table) SetNote(name, note string) bool {
	row, ok := t.byName[name]
	if !ok {
		return false
	}
	row.Note = note
	return true
}

// ApplyResult applies one final score to the table. It returns false when
// either team is not in the roster; the table is left untouched in that case.
// Applying the same result twice double-counts, so callers must not replay.
func (t *Table) ApplyResult(homeTeam, awayTeam string, homeScore, awayScore int) bool {
	home, ok := t.byName[homeTeam]
	if !ok {
		return false
	}
	away, ok := t.byName[awayTeam]
	if !ok {
		return false
	}

	home.Games++
	away.Games++

	home.GoalsFor += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsFor += awayScore
	away.GoalsAgainst += homeScore

	switch {
	case homeScore > awayScore:
		home.Wins++
		home.Points += 3
		away.Losses++
	case homeScore < awayScore:
		away.Wins++
		away.Points += 3
		home.Losses++
	default:
		home.Draws++
		away.Draws++
		home.Points++
		away.Points++
	}

	t.recompute(home)
	t.recompute(away)
	return true
}

// ApplyResults applies a batch of parsed results. Non-decisive statuses
// (future, vs, postponed, abandoned) never touch the table. Penalties and
// extra time count on the primary score only. Lookup failures are collected
// and returned; processing continues past them.
func (t *Table) ApplyResults(results []result.Result) []string {
	var errs []string

	for _, item := range results {
		if !result.IsDecisive(item.Status) {
			continue
		}
		if item.HomeScore == nil || item.AwayScore == nil {
			errs = append(errs, fmt.Sprintf("missing score: %s vs %s", item.HomeTeam, item.AwayTeam))
			continue
		}
		if !t.ApplyResult(item.HomeTeam, item.AwayTeam, *item.HomeScore, *item.AwayScore) {
			errs = append(errs, fmt.Sprintf("team not found: %s vs %s", item.HomeTeam, item.AwayTeam))
		}
	}

	return errs
}

// Sort orders the table by points, then goal difference, then goals for, all
// descending, with an ascending name tiebreak for a deterministic total
// order. Positions are reassigned 1..N afterwards.
func (t *Table) Sort() {
	sort.SliceStable(t.rows, func(i, j int) bool {
		a, b := t.rows[i], t.rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Name < b.Name
	})

	for idx, row := range t.rows {
		row.Position = idx + 1
	}
}

// Text serializes the table back to its text format, one team per line, in
// current order.
func (t *Table) Text() string {
	lines := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		lines = append(lines, fmt.Sprintf("%s %d %d %d %d %d %d %d %d",
			row.Name, row.Games, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.GoalDifference, row.Points))
	}
	return strings.Join(lines, "\n")
}

// MaxGames returns the highest games-played count of any team.
func (t *Table) MaxGames() int {
	max := 0
	for _, row := range t.rows {
		if row.Games > max {
			max = row.Games
		}
	}
	return max
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.logger)
	out.rows = make([]*TeamStanding, 0, len(t.rows))
	for _, row := range t.rows {
		copied := *row
		out.rows = append(out.rows, &copied)
		out.byName[copied.Name] = &copied
	}
	return out
}

func (t *Table) recompute(row *TeamStanding) {
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
}
