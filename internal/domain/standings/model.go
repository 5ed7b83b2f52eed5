package standings

// TeamStanding is one row of a league table.
//
// Position is recomputed on every sort and is not identity. GoalDifference is
// derived from GoalsFor/GoalsAgainst and recomputed centrally after any
// mutation; it is never written independently. Note is display-only text
// (e.g. an administrative points deduction) and is never serialized into the
// table text.
type TeamStanding struct {
	Name           string
	Position       int
	Games          int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Note           string
}
