package result

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Result line notations, matched in order so that the more specific forms
// (penalty shootout, extra time) are never captured by the plain-score one.
// Team codes are uppercase; status keywords are case-insensitive.
var (
	penaltiesPattern = regexp.MustCompile(`^([A-Z]{3})\s+(\d+)\s*-\s*(\d+)\s*\(\s*(\d+)\s*-\s*(\d+)\s*\)\s+([A-Z]{3})$`)
	extraTimePattern = regexp.MustCompile(`^([A-Z]{3})\s+(\d+)\s*-\s*(\d+)\s*\(\s*(?i:pro\.?)\s*\)\s+([A-Z]{3})$`)
	normalPattern    = regexp.MustCompile(`^([A-Z]{3})\s+(\d+)\s*-\s*(\d+)\s+([A-Z]{3})$`)
	futurePattern    = regexp.MustCompile(`^([A-Z]{3})\s+(?i:D)\s*-\s*(?i:D)\s+([A-Z]{3})$`)
	vsPattern        = regexp.MustCompile(`^([A-Z]{3})\s+(?i:vs\.?)\s+([A-Z]{3})$`)
	postponedPattern = regexp.MustCompile(`^([A-Z]{3})\s+(?i:ADI\.?)\s+([A-Z]{3})$`)
	abandonedPattern = regexp.MustCompile(`^([A-Z]{3})\s+(?i:ABD\.?)\s+([A-Z]{3})$`)
)

const extraTimeNote = "Finalizado após prorrogação"

// Parser converts result lines like "POR 1-0 SOU" into structured records.
type Parser struct {
	abbrs Abbreviations
}

func NewParser(abbrs Abbreviations) *Parser {
	if abbrs == nil {
		abbrs = Abbreviations{}
	}
	return &Parser{abbrs: abbrs}
}

func (p *Parser) Abbreviations() Abbreviations {
	return p.abbrs
}

// ParseLine parses a single result line. The second return value is false
// when the line matches no known notation; callers skip such lines.
func (p *Parser) ParseLine(line string) (Result, bool) {
	line = strings.TrimSpace(line)

	if m := penaltiesPattern.FindStringSubmatch(line); m != nil {
		out := p.newResult(m[1], m[6], StatusPenalties)
		out.HomeScore = atoiPtr(m[2])
		out.AwayScore = atoiPtr(m[3])
		out.PenaltyHomeScore = atoiPtr(m[4])
		out.PenaltyAwayScore = atoiPtr(m[5])
		out.Note = fmt.Sprintf("Pênaltis: %s-%s", m[4], m[5])
		return out, true
	}

	if m := extraTimePattern.FindStringSubmatch(line); m != nil {
		out := p.newResult(m[1], m[4], StatusExtraTime)
		out.HomeScore = atoiPtr(m[2])
		out.AwayScore = atoiPtr(m[3])
		out.Note = extraTimeNote
		return out, true
	}

	if m := normalPattern.FindStringSubmatch(line); m != nil {
		out := p.newResult(m[1], m[4], StatusNormal)
		out.HomeScore = atoiPtr(m[2])
		out.AwayScore = atoiPtr(m[3])
		return out, true
	}

	if m := futurePattern.FindStringSubmatch(line); m != nil {
		return p.newResult(m[1], m[2], StatusFuture), true
	}

	if m := vsPattern.FindStringSubmatch(line); m != nil {
		return p.newResult(m[1], m[2], StatusVs), true
	}

	if m := postponedPattern.FindStringSubmatch(line); m != nil {
		return p.newResult(m[1], m[2], StatusPostponed), true
	}

	if m := abandonedPattern.FindStringSubmatch(line); m != nil {
		return p.newResult(m[1], m[2], StatusAbandoned), true
	}

	return Result{}, false
}

// ParseBlock parses a block of result lines, one per line. Blank lines are
// skipped and unparseable lines are dropped silently; callers that care about
// shortfall compare len(results) against the non-blank line count.
func (p *Parser) ParseBlock(text string) []Result {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]Result, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if parsed, ok := p.ParseLine(line); ok {
			out = append(out, parsed)
		}
	}

	return out
}

// CountNonBlank returns the number of non-blank lines in a result block,
// for shortfall checks against ParseBlock output.
func CountNonBlank(text string) int {
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// ValidateLine is the strict form used for UI feedback: it accepts the plain
// score notation only and requires both codes to be registered abbreviations.
// This is intentionally narrower than ParseLine, which tolerates unknown
// codes and the full notation set.
func (p *Parser) ValidateLine(line string) (bool, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, "empty result line"
	}

	m := normalPattern.FindStringSubmatch(line)
	if m == nil {
		return false, fmt.Sprintf("invalid format: %q, expected: ABV 1-0 XYZ", line)
	}

	if !p.abbrs.Known(m[1]) {
		return false, fmt.Sprintf("unknown abbreviation %q", m[1])
	}
	if !p.abbrs.Known(m[4]) {
		return false, fmt.Sprintf("unknown abbreviation %q", m[4])
	}

	return true, "valid"
}

func (p *Parser) newResult(homeAbbr, awayAbbr, status string) Result {
	return Result{
		HomeAbbr: homeAbbr,
		AwayAbbr: awayAbbr,
		HomeTeam: p.abbrs.Resolve(homeAbbr),
		AwayTeam: p.abbrs.Resolve(awayAbbr),
		Status:   status,
	}
}

func atoiPtr(raw string) *int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
