package zone

// Zone names, in confirmation precedence order.
const (
	Champion   = "champion"
	UCL        = "ucl"
	UEL        = "uel"
	UECL       = "uecl"
	Promotion  = "promotion"
	Playoff    = "playoff"
	Relegation = "relegation"
)

// Band is one named outcome band: the table positions it covers plus the
// rendering decoration ids the graphics layer resolves (opaque here).
type Band struct {
	Positions           []int
	Decoration          string
	ConfirmedDecoration string
}

// Config maps zone names to their bands for one league.
type Config map[string]Band

// Clone returns a deep copy so mode remapping never mutates shared defaults.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for name, band := range c {
		positions := make([]int, len(band.Positions))
		copy(positions, band.Positions)
		band.Positions = positions
		out[name] = band
	}
	return out
}

func (c Config) contains(name string, position int) bool {
	band, ok := c[name]
	if !ok {
		return false
	}
	for _, p := range band.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// Flags are the caller-supplied confirmation booleans for one table position.
// They are explicit per-request input, never ambient state.
type Flags struct {
	Champion  bool
	UCL       bool
	UEL       bool
	UECL      bool
	Relegated bool
}

func (f Flags) any() bool {
	return f.Champion || f.UCL || f.UEL || f.UECL || f.Relegated
}

// Confirmations maps table positions to confirmation flags.
type Confirmations map[int]Flags

// Resolution is the outcome of resolving one position.
type Resolution struct {
	Zone       string
	Confirmed  bool
	Decoration string
}
