package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	poolNumRe   = regexp.MustCompile(`Pool\s+#?(\d+)`)
	poolStripRe = regexp.MustCompile(`(?i)strip\s+([A-Z]\d+)`)
	victoryRe   = regexp.MustCompile(`^V(\d+)`)
	defeatRe    = regexp.MustCompile(`^D(\d+)`)
)

// ParsePoolDetail parses a single pool's scoresheet fragment into the
// roster and the bouts derived from the score matrix.
//
// The matrix cell for fencer i against fencer j holds a victory marker
// ("V5") or defeat marker ("D3") with that fencer's own touches. Bouts are
// derived from the upper triangle only so each unordered pair appears once.
func ParsePoolDetail(html, poolID string) (*PoolDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("pool markup unreadable: %v", err)}
	}

	numText := doc.Find("h4.poolNum").First().Text()
	numMatch := poolNumRe.FindStringSubmatch(numText)
	if numMatch == nil {
		return nil, &ParseError{Msg: "pool number header (h4.poolNum) not found"}
	}
	poolNumber, _ := strconv.Atoi(numMatch[1])

	var strip *string
	if m := poolStripRe.FindStringSubmatch(doc.Find("span.poolStripTime").First().Text()); m != nil {
		s := strings.ToUpper(m[1])
		strip = &s
	}

	rows := doc.Find("tr.poolRow")
	if rows.Length() == 0 {
		return nil, &ParseError{Msg: "no fencer rows (tr.poolRow) in pool markup"}
	}

	var fencers []Fencer
	var fencerRows []*goquery.Selection
	rows.Each(func(_ int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find("span.poolCompName").First().Text())
		if name == "" {
			return
		}

		f := Fencer{
			Name: name,
			Club: strings.TrimSpace(row.Find("span.poolAffil").First().Text()),
		}

		stats := row.Find("td.poolResult")
		if stats.Length() >= 5 {
			f.Victories = strings.TrimSpace(stats.Eq(0).Text())
			f.Ratio = strings.TrimSpace(stats.Eq(1).Text())
			f.TouchesScored = strings.TrimSpace(stats.Eq(2).Text())
			f.TouchesReceived = strings.TrimSpace(stats.Eq(3).Text())
			f.Indicator = strings.TrimSpace(stats.Eq(4).Text())
		}

		fencers = append(fencers, f)
		fencerRows = append(fencerRows, row)
	})

	if len(fencers) == 0 {
		return nil, &ParseError{Msg: "pool roster rows carry no fencer names"}
	}

	matrix := buildScoreMatrix(fencerRows, len(fencers))
	bouts := deriveBouts(fencers, matrix)

	return &PoolDetail{
		PoolID:     poolID,
		PoolNumber: poolNumber,
		Strip:      strip,
		Fencers:    fencers,
		Bouts:      bouts,
	}, nil
}

// buildScoreMatrix returns matrix[i][j] = the raw cell text for fencer i
// against fencer j, or "" when the cell is empty or missing. The diagonal
// is not rendered as a score cell, so the column walk skips i==j without
// consuming a cell.
func buildScoreMatrix(rows []*goquery.Selection, n int) [][]string {
	matrix := make([][]string, n)
	for i, row := range rows {
		matrix[i] = make([]string, n)
		cells := row.Find("td.poolScore")

		cellIdx := 0
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if cellIdx < cells.Length() {
				cell := cells.Eq(cellIdx)
				if !cell.HasClass("poolScoreFill") {
					matrix[i][j] = strings.TrimSpace(cell.Find("span").First().Text())
				}
			}
			cellIdx++
		}
	}
	return matrix
}

// parseScoreCell reads V/D notation. The returned touches are the cell
// owner's own score; victory reports which marker was present.
func parseScoreCell(text string) (touches *int, victory bool, ok bool) {
	if text == "" {
		return nil, false, false
	}
	if m := victoryRe.FindStringSubmatch(text); m != nil {
		t, _ := strconv.Atoi(m[1])
		return &t, true, true
	}
	if m := defeatRe.FindStringSubmatch(text); m != nil {
		t, _ := strconv.Atoi(m[1])
		return &t, false, true
	}
	return nil, false, false
}

func deriveBouts(fencers []Fencer, matrix [][]string) []Bout {
	n := len(fencers)
	bouts := make([]Bout, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			bout := Bout{
				FencerA: fencers[i].Name,
				FencerB: fencers[j].Name,
				Status:  BoutIncomplete,
			}

			touchesA, victoryA, okA := parseScoreCell(matrix[i][j])
			touchesB, victoryB, okB := parseScoreCell(matrix[j][i])

			switch {
			case okA && okB:
				if victoryA == victoryB {
					// Two victories or two defeats for one bout is
					// inconsistent upstream data.
					break
				}
				bout.ScoreA = touchesA
				bout.ScoreB = touchesB
				bout.Status = BoutComplete
				if victoryA {
					bout.Winner = WinnerA
				} else {
					bout.Winner = WinnerB
				}
			case okA:
				bout.ScoreA = touchesA
				if victoryA {
					bout.Winner = WinnerA
					bout.Status = BoutComplete
				} else {
					bout.Winner = WinnerB
				}
			case okB:
				bout.ScoreB = touchesB
				if victoryB {
					bout.Winner = WinnerB
					bout.Status = BoutComplete
				} else {
					bout.Winner = WinnerA
				}
			}

			bouts = append(bouts, bout)
		}
	}
	return bouts
}
