package league

import "strings"

// League describes one supported competition: where its table text lives in
// the store, which reference source slug validates it, and how many teams it
// carries (used by the duplicate-team heuristic).
type League struct {
	Key       string
	Name      string
	StorePath string
	RefSlug   string
	TeamCount int
	// ModeAware marks leagues whose European sub-zones can be remapped by a
	// table mode (only the top tier).
	ModeAware bool
}

// Registry indexes leagues by key.
type Registry map[string]League

func (r Registry) Get(key string) (League, bool) {
	item, ok := r[strings.TrimSpace(key)]
	return item, ok
}

// Keys returns the league keys in sorted order so fan-out and logs stay
// deterministic.
func (r Registry) Keys() []string {
	out := make([]string, 0, len(r))
	for key := range r {
		out = append(out, key)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// DefaultRegistry returns the built-in English league pyramid.
func DefaultRegistry() Registry {
	leagues := []League{
		{
			Key:       "premierleague",
			Name:      "Premier League",
			StorePath: "data/tabelas/premierleague.txt",
			RefSlug:   "premier-league-table",
			TeamCount: 20,
			ModeAware: true,
		},
		{
			Key:       "championship",
			Name:      "Championship",
			StorePath: "data/tabelas/championship.txt",
			RefSlug:   "championship-table",
			TeamCount: 24,
		},
		{
			Key:       "leagueone",
			Name:      "League One",
			StorePath: "data/tabelas/leagueone.txt",
			RefSlug:   "league-1-table",
			TeamCount: 24,
		},
		{
			Key:       "leaguetwo",
			Name:      "League Two",
			StorePath: "data/tabelas/leaguetwo.txt",
			RefSlug:   "league-2-table",
			TeamCount: 24,
		},
		{
			Key:       "nationalleague",
			Name:      "National League",
			StorePath: "data/tabelas/nationalleague.txt",
			RefSlug:   "national-league-table",
			TeamCount: 24,
		},
	}

	out := make(Registry, len(leagues))
	for _, item := range leagues {
		out[item.Key] = item
	}
	return out
}
