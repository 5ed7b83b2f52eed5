package result

const (
	StatusNormal    = "normal"
	StatusFuture    = "future"
	StatusVs        = "vs"
	StatusPostponed = "postponed"
	StatusAbandoned = "abandoned"
	StatusPenalties = "penalties"
	StatusExtraTime = "extra_time"
)

// Result is one parsed fixture outcome.
//
// HomeScore/AwayScore are meaningful only for decisive statuses; they are nil
// for future, vs, postponed and abandoned fixtures. Note carries display-only
// text (penalty score, extra-time marker) and never feeds the table.
type Result struct {
	HomeAbbr string
	AwayAbbr string
	HomeTeam string
	AwayTeam string

	HomeScore *int
	AwayScore *int

	PenaltyHomeScore *int
	PenaltyAwayScore *int

	Status string
	Note   string
}

// IsDecisive reports whether the result carries a final primary score that
// affects standings. A penalty shootout settles the tie, not the aggregate,
// so penalties and extra_time count on the primary score only.
func IsDecisive(status string) bool {
	switch status {
	case StatusNormal, StatusPenalties, StatusExtraTime:
		return true
	default:
		return false
	}
}
