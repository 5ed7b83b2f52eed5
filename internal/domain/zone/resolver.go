package zone

import "strings"

// precedence is the fixed order confirmation flags are checked in: if an
// operator sets contradictory flags for one position, the highest wins and
// the rest are ignored.
var precedence = []string{Champion, UCL, UEL, UECL, Relegation}

// ApplyMode recomputes the European sub-zone bands of a config according to
// a table mode label. Mode labels are matched by substring (the UI sends
// human-readable labels like "G8 Europeu (5 UCL + 2 UEL + 1 UECL)"). An
// unrecognized label leaves the config unchanged. Only the top-tier English
// config carries these sub-zones; for other configs this is a no-op because
// the zone names are absent.
func ApplyMode(cfg Config, mode string) Config {
	if strings.TrimSpace(mode) == "" {
		return cfg
	}

	out := cfg.Clone()
	switch {
	case strings.Contains(mode, "G6"):
		setPositions(out, UCL, []int{1, 2, 3, 4, 5})
		setPositions(out, UEL, []int{6})
		setPositions(out, UECL, nil)
	case strings.Contains(mode, "G7") && strings.Contains(mode, "1 UEL + 1 UECL"):
		setPositions(out, UCL, []int{1, 2, 3, 4, 5})
		setPositions(out, UEL, []int{6})
		setPositions(out, UECL, []int{7})
	case strings.Contains(mode, "G7") && strings.Contains(mode, "2 UEL"):
		setPositions(out, UCL, []int{1, 2, 3, 4, 5})
		setPositions(out, UEL, []int{6, 7})
		setPositions(out, UECL, nil)
	case strings.Contains(mode, "G8"):
		setPositions(out, UCL, []int{1, 2, 3, 4, 5})
		setPositions(out, UEL, []int{6, 7})
		setPositions(out, UECL, []int{8})
	default:
		return cfg
	}
	return out
}

// Resolve decides which zone a table position belongs to. Confirmation flags
// win over positional defaults, checked in precedence order. With no flags
// set the position's default band applies. A position outside every band is
// a neutral mid-table row, not an error.
func Resolve(position int, confirmations Confirmations, cfg Config) (Resolution, bool) {
	if flags, ok := confirmations[position]; ok && flags.any() {
		for _, name := range precedence {
			if !flagSet(flags, name) {
				continue
			}
			band, ok := cfg[name]
			if !ok {
				continue
			}
			return Resolution{
				Zone:       name,
				Confirmed:  true,
				Decoration: band.ConfirmedDecoration,
			}, true
		}
	}

	return resolveDefault(position, cfg)
}

func resolveDefault(position int, cfg Config) (Resolution, bool) {
	for _, name := range orderedNames(cfg) {
		if cfg.contains(name, position) {
			return Resolution{
				Zone:       name,
				Decoration: cfg[name].Decoration,
			}, true
		}
	}
	return Resolution{}, false
}

// orderedNames walks the known precedence names first so lookup order stays
// deterministic, then any remaining league-specific bands.
func orderedNames(cfg Config) []string {
	out := make([]string, 0, len(cfg))
	seen := make(map[string]bool, len(cfg))
	for _, name := range []string{Champion, UCL, UEL, UECL, Promotion, Playoff, Relegation} {
		if _, ok := cfg[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	extra := make([]string, 0, len(cfg))
	for name := range cfg {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	// map iteration order is random; keep extras stable.
	for i := 1; i < len(extra); i++ {
		for j := i; j > 0 && extra[j] < extra[j-1]; j-- {
			extra[j], extra[j-1] = extra[j-1], extra[j]
		}
	}
	return append(out, extra...)
}

func setPositions(cfg Config, name string, positions []int) {
	band, ok := cfg[name]
	if !ok {
		return
	}
	band.Positions = positions
	cfg[name] = band
}

func flagSet(flags Flags, name string) bool {
	switch name {
	case Champion:
		return flags.Champion
	case UCL:
		return flags.UCL
	case UEL:
		return flags.UEL
	case UECL:
		return flags.UECL
	case Relegation:
		return flags.Relegated
	default:
		return false
	}
}
