package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tableOfRe     = regexp.MustCompile(`Table of (\d+)`)
	seedRe        = regexp.MustCompile(`\((\d+)\)`)
	matchScoreRe  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	matchStripRe  = regexp.MustCompile(`(?i)Strip\s+([A-Z]?\d+)`)
	matchTimeRe   = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:AM|PM)?)`)
	canonicRounds = []string{"F", "SF", "8", "16", "32", "64", "128", "256"}
)

// ParseTableau parses an elimination bracket page. Match nodes occupy a
// three-row band per column: the top fencer cell, a score cell, and the
// bottom fencer cell. Malformed individual matches degrade to pending with
// unresolved fields; only a missing bracket container aborts the parse.
func ParseTableau(html, eventID, roundID string) (*Tableau, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("tableau markup unreadable: %v", err)}
	}

	table := doc.Find("table.elimTableau").First()
	if table.Length() == 0 {
		return nil, &ParseError{Msg: "bracket table (table.elimTableau) not found"}
	}

	var rows []*goquery.Selection
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		rows = append(rows, row)
	})
	if len(rows) == 0 {
		return nil, &ParseError{Msg: "bracket table has no rows"}
	}

	labels := headerRoundLabels(rows[0])

	// First data row after the header band.
	start := 0
	maxCols := 0
	for start < len(rows) && rows[start].Find("th").Length() > 0 {
		start++
	}
	for _, row := range rows[start:] {
		if n := row.Find("td").Length(); n > maxCols {
			maxCols = n
		}
	}
	if len(labels) == 0 {
		labels = roundNamesForColumns(maxCols)
	}

	var matches []TableauMatch
	for ri := start; ri < len(rows); ri++ {
		cells := rows[ri].Find("td")
		cells.Each(func(col int, cell *goquery.Selection) {
			if !cell.HasClass("tbb") {
				return
			}
			hasFencer := cell.Find("span.tseed").Length() > 0 || cell.Find("span.tcln").Length() > 0
			isBye := isByeCell(cell)
			if !hasFencer && !isBye {
				return
			}

			m := TableauMatch{Status: MatchPending}
			if col < len(labels) {
				m.Round = labels[col]
			}
			if hasFencer {
				m.SeedA, m.NameA, m.ClubA = extractFencerCell(cell)
			}

			scorePresent := false
			if ri+1 < len(rows) {
				sc := cellAt(rows[ri+1], col)
				if sc != nil && (sc.Find("span.tsco").Length() > 0 || sc.HasClass("tscoref")) {
					scorePresent = true
					applyScoreCell(&m, sc)
				}
			}

			byeB := false
			if ri+2 < len(rows) {
				bc := cellAt(rows[ri+2], col)
				if bc != nil && bc.HasClass("tbbr") {
					if isByeCell(bc) {
						byeB = true
					} else {
						m.SeedB, m.NameB, m.ClubB = extractFencerCell(bc)
					}
				}
			}

			switch {
			case isBye && m.NameB != "":
				// Top slot is the bye: the bottom fencer advances.
				m.Winner = WinnerB
				m.Status = MatchComplete
			case byeB && m.NameA != "":
				m.Winner = WinnerA
				m.Status = MatchComplete
			case m.Status != MatchComplete && scorePresent && m.NameA != "" && m.NameB != "":
				m.Status = MatchInProgress
			}

			matches = append(matches, m)
		})
	}

	return &Tableau{EventID: eventID, RoundID: roundID, Matches: matches}, nil
}

func headerRoundLabels(headerRow *goquery.Selection) []string {
	var labels []string
	headerRow.Find("th").Each(func(_ int, th *goquery.Selection) {
		text := strings.TrimSpace(th.Text())
		switch {
		case tableOfRe.MatchString(text):
			labels = append(labels, tableOfRe.FindStringSubmatch(text)[1])
		case strings.Contains(text, "Semi") || strings.Contains(text, "SF"):
			labels = append(labels, "SF")
		case strings.Contains(text, "Final") || strings.Contains(text, "Gold"):
			labels = append(labels, "F")
		}
	})
	return labels
}

// roundNamesForColumns maps a column count onto the tail of the canonical
// round sequence, largest table first. Three columns yield ["8","SF","F"].
func roundNamesForColumns(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(canonicRounds) {
		n = len(canonicRounds)
	}
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = canonicRounds[n-1-i]
	}
	return labels
}

func cellAt(row *goquery.Selection, col int) *goquery.Selection {
	cells := row.Find("td")
	if col >= cells.Length() {
		return nil
	}
	return cells.Eq(col)
}

func isByeCell(cell *goquery.Selection) bool {
	return strings.Contains(strings.ToUpper(cell.Text()), "BYE")
}

func extractFencerCell(cell *goquery.Selection) (seed *int, name, club string) {
	if m := seedRe.FindStringSubmatch(cell.Find("span.tseed").First().Text()); m != nil {
		n, _ := strconv.Atoi(m[1])
		seed = &n
	}

	last := strings.TrimSpace(cell.Find("span.tcln").First().Text())
	first := strings.TrimSpace(cell.Find("span.tcfn").First().Text())
	parts := make([]string, 0, 2)
	if last != "" {
		parts = append(parts, last)
	}
	if first != "" {
		parts = append(parts, first)
	}
	name = strings.Join(parts, " ")

	// The affiliation span nests flag-icon spans whose text must not leak
	// into the club name.
	if aff := cell.Find("span.tcaff").First(); aff.Length() > 0 {
		clone := aff.Clone()
		clone.Find("span").Remove()
		club = strings.Join(strings.Fields(clone.Text()), " ")
	}
	return seed, name, club
}

func applyScoreCell(m *TableauMatch, cell *goquery.Selection) {
	span := cell.Find("span.tsco").First()
	if span.Length() == 0 {
		return
	}
	text := textWithNewlines(span)

	if sm := matchScoreRe.FindStringSubmatch(text); sm != nil {
		a, _ := strconv.Atoi(sm[1])
		b, _ := strconv.Atoi(sm[2])
		m.ScoreA = &a
		m.ScoreB = &b
		m.Status = MatchComplete
		switch {
		case a > b:
			m.Winner = WinnerA
		case b > a:
			m.Winner = WinnerB
		}
	}

	if sm := matchStripRe.FindStringSubmatch(text); sm != nil {
		m.Strip = sm[1]
	}
	if tm := matchTimeRe.FindStringSubmatch(text); tm != nil {
		m.Time = strings.TrimSpace(tm[1])
	}

	if ref := span.Find("span.tref").First(); ref.Length() > 0 {
		note := ref.Text()
		note = matchTimeRe.ReplaceAllString(note, "")
		note = matchStripRe.ReplaceAllString(note, "")
		m.Note = strings.TrimSpace(note)
	}
}

// textWithNewlines joins a selection's direct text and child texts with
// newlines so line-oriented patterns do not match across segments.
func textWithNewlines(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if t := strings.TrimSpace(node.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}
