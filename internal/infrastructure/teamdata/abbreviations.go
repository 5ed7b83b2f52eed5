package teamdata

import (
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/acordafut/standings-engine/internal/domain/result"
)

// Seed returns the built-in code-to-name mapping for the English pyramid.
// Operators can extend or override it with a JSON file (see Load).
func Seed() result.Abbreviations {
	return result.Abbreviations{
		"ARS": "Arsenal",
		"AVL": "Aston Villa",
		"BOU": "AFC Bournemouth",
		"BRE": "Brentford",
		"BHA": "Brighton & Hove Albion",
		"BUR": "Burnley",
		"CHE": "Chelsea",
		"CRY": "Crystal Palace",
		"EVE": "Everton",
		"FUL": "Fulham",
		"IPS": "Ipswich Town",
		"LEI": "Leicester City",
		"LIV": "Liverpool",
		"MCI": "Manchester City",
		"MUN": "Manchester United",
		"NEW": "Newcastle United",
		"NFO": "Nottingham Forest",
		"SOU": "Southampton",
		"TOT": "Tottenham Hotspur",
		"WHU": "West Ham United",
		"WOL": "Wolverhampton Wanderers",

		"BLA": "Blackburn Rovers",
		"BRC": "Bristol City",
		"CAR": "Cardiff City",
		"COV": "Coventry City",
		"DER": "Derby County",
		"HUL": "Hull City",
		"LEE": "Leeds United",
		"LUT": "Luton Town",
		"MID": "Middlesbrough",
		"MIL": "Millwall",
		"NOR": "Norwich City",
		"OXF": "Oxford United",
		"PLY": "Plymouth Argyle",
		"PNE": "Preston North End",
		"POR": "Portsmouth",
		"QPR": "Queens Park Rangers",
		"SHU": "Sheffield United",
		"SHW": "Sheffield Wednesday",
		"STO": "Stoke City",
		"SUN": "Sunderland",
		"SWA": "Swansea City",
		"WAT": "Watford",
		"WBA": "West Bromwich Albion",
	}
}

// Load returns the seed mapping, optionally overlaid with a JSON file of the
// form {"ABC": "Full Name"}. File entries win over the seed so operators can
// rename or add clubs without a rebuild.
func Load(path string) (result.Abbreviations, error) {
	out := Seed()
	if strings.TrimSpace(path) == "" {
		return out, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read abbreviations file: %w", err)
	}

	var overlay map[string]string
	if err := sonic.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("decode abbreviations file: %w", err)
	}

	for code, name := range overlay {
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if code == "" || name == "" {
			return nil, fmt.Errorf("abbreviations file has an empty code or name")
		}
		out[code] = name
	}
	return out, nil
}
