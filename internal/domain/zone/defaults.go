package zone

import "fmt"

// DefaultConfig returns the built-in zone configuration for a league key.
// The top tier carries European sub-zones (remappable via ApplyMode); the
// EFL tiers and the National League carry promotion/playoff bands instead.
func DefaultConfig(league string) (Config, bool) {
	switch league {
	case "premierleague":
		return Config{
			Champion:   band("premierleague", Champion, 1),
			UCL:        band("premierleague", UCL, 1, 2, 3, 4, 5),
			UEL:        band("premierleague", UEL, 6),
			UECL:       band("premierleague", UECL),
			Relegation: band("premierleague", Relegation, 18, 19, 20),
		}, true
	case "championship":
		return Config{
			Champion:   band("championship", Champion, 1),
			Promotion:  band("championship", Promotion, 1, 2),
			Playoff:    band("championship", Playoff, 3, 4, 5, 6),
			Relegation: band("championship", Relegation, 22, 23, 24),
		}, true
	case "leagueone":
		return Config{
			Champion:   band("leagueone", Champion, 1),
			Promotion:  band("leagueone", Promotion, 1, 2),
			Playoff:    band("leagueone", Playoff, 3, 4, 5, 6),
			Relegation: band("leagueone", Relegation, 21, 22, 23, 24),
		}, true
	case "leaguetwo":
		return Config{
			Champion:   band("leaguetwo", Champion, 1),
			Promotion:  band("leaguetwo", Promotion, 1, 2, 3),
			Playoff:    band("leaguetwo", Playoff, 4, 5, 6, 7),
			Relegation: band("leaguetwo", Relegation, 23, 24),
		}, true
	case "nationalleague":
		return Config{
			Champion:   band("nationalleague", Champion, 1),
			Promotion:  band("nationalleague", Promotion, 1),
			Playoff:    band("nationalleague", Playoff, 2, 3, 4, 5, 6, 7),
			Relegation: band("nationalleague", Relegation, 21, 22, 23, 24),
		}, true
	default:
		return nil, false
	}
}

func band(league, name string, positions ...int) Band {
	return Band{
		Positions:           positions,
		Decoration:          fmt.Sprintf("%s-rect-%s", league, name),
		ConfirmedDecoration: fmt.Sprintf("%s-rect-%s-confirmed", league, name),
	}
}
