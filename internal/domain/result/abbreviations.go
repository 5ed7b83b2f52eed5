package result

// Abbreviations maps 3-letter team codes to full team names.
type Abbreviations map[string]string

// Resolve returns the full team name for a code. Unknown codes resolve to
// themselves: operators can use raw names immediately without registering
// them first.
func (a Abbreviations) Resolve(code string) string {
	if name, ok := a[code]; ok {
		return name
	}
	return code
}

// Name returns the full team name for a code, without the identity fallback.
func (a Abbreviations) Name(code string) (string, bool) {
	name, ok := a[code]
	return name, ok
}

// Abbreviation reverse-looks-up the code for a full team name.
func (a Abbreviations) Abbreviation(teamName string) (string, bool) {
	for code, name := range a {
		if name == teamName {
			return code, true
		}
	}
	return "", false
}

// Known reports whether the code is registered.
func (a Abbreviations) Known(code string) bool {
	_, ok := a[code]
	return ok
}
