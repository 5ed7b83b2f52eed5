package skysports

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/acordafut/standings-engine/internal/usecase"
)

// parseStandings extracts rows from a standings page. The page carries one
// table with columns #, Team, Pl, W, D, L, F, A, GD, Pts; rows that do not
// fit that shape (dividers, ad rows) are skipped.
func parseStandings(raw []byte) ([]usecase.ReferenceRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	selection := doc.Find("table.standing-table__table tbody tr")
	if selection.Length() == 0 {
		selection = doc.Find("table tbody tr")
	}

	out := make([]usecase.ReferenceRow, 0, 24)
	selection.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
			return strings.Join(strings.Fields(cell.Text()), " ")
		})
		if len(cells) < 10 {
			return
		}

		stats, ok := parseStats(cells[2:10])
		if !ok {
			return
		}

		name := cells[1]
		if name == "" {
			return
		}
		out = append(out, usecase.ReferenceRow{
			Name:           name,
			Games:          stats[0],
			Wins:           stats[1],
			Draws:          stats[2],
			Losses:         stats[3],
			GoalsFor:       stats[4],
			GoalsAgainst:   stats[5],
			GoalDifference: stats[6],
			Points:         stats[7],
		})
	})

	if len(out) == 0 {
		return nil, fmt.Errorf("no standings rows found")
	}
	return out, nil
}

func parseStats(cells []string) ([8]int, bool) {
	var out [8]int
	for i, cell := range cells {
		value, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return out, false
		}
		out[i] = value
	}
	return out, true
}
