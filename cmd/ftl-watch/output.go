package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Remco28/fencer-schedules/pkg/bulk"
	"github.com/Remco28/fencer-schedules/pkg/parser"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteBundle renders a pools bundle.
func WriteBundle(w io.Writer, bundle *bulk.Bundle, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, bundle)
	}

	fmt.Fprintf(w, "Event %s, round %s: %d pool(s)\n", bundle.EventID, bundle.RoundID, len(bundle.Pools))
	for _, pool := range bundle.Pools {
		strip := "unassigned"
		if pool.Strip != nil {
			strip = *pool.Strip
		}
		fmt.Fprintf(w, "\nPool %d (strip %s)\n", pool.PoolNumber, strip)
		for _, fencer := range pool.Fencers {
			line := "  " + fencer.Name
			if fencer.Club != "" {
				line += " (" + fencer.Club + ")"
			}
			if fencer.Indicator != "" {
				line += "  ind " + fencer.Indicator
			}
			fmt.Fprintln(w, line)
		}

		complete := 0
		for _, bout := range pool.Bouts {
			if bout.Status == parser.BoutComplete {
				complete++
			}
		}
		fmt.Fprintf(w, "  bouts: %d/%d complete\n", complete, len(pool.Bouts))
	}

	if len(bundle.Results) > 0 {
		fmt.Fprintf(w, "\nResults (%d fencers):\n", len(bundle.Results))
		for _, r := range bundle.Results {
			place := "-"
			if r.Place != nil {
				place = fmt.Sprintf("%d", *r.Place)
			}
			fmt.Fprintf(w, "  %4s  %-30s V%d/M%d  %s\n", place, r.Name, r.Victories, r.Matches, r.Status)
		}
	}
	return nil
}

// WriteTableau renders an elimination bracket.
func WriteTableau(w io.Writer, tableau *parser.Tableau, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, tableau)
	}

	fmt.Fprintf(w, "Event %s, DE round %s: %d match(es)\n", tableau.EventID, tableau.RoundID, len(tableau.Matches))
	for _, m := range tableau.Matches {
		nameA := m.NameA
		if nameA == "" {
			nameA = "(bye)"
		}
		nameB := m.NameB
		if nameB == "" {
			nameB = "(bye)"
		}

		score := ""
		if m.ScoreA != nil && m.ScoreB != nil {
			score = fmt.Sprintf(" %d-%d", *m.ScoreA, *m.ScoreB)
		}

		extra := ""
		if m.Strip != "" {
			extra += " strip " + m.Strip
		}
		if m.Time != "" {
			extra += " at " + m.Time
		}

		fmt.Fprintf(w, "  [%s] %s vs %s%s (%s)%s\n", m.Round, nameA, nameB, score, m.Status, extra)
	}
	return nil
}

// WriteSearch renders fencer search matches.
func WriteSearch(w io.Writer, result *bulk.SearchResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if len(result.Matches) == 0 {
		fmt.Fprintf(w, "No fencers matching %q.\n", result.Query)
		return nil
	}

	fmt.Fprintf(w, "%d match(es) for %q:\n", len(result.Matches), result.Query)
	for _, m := range result.Matches {
		switch m.Source {
		case bulk.SourcePool:
			strip := "unassigned"
			if m.Strip != nil {
				strip = *m.Strip
			}
			pool := "-"
			if m.PoolNumber != nil {
				pool = fmt.Sprintf("%d", *m.PoolNumber)
			}
			fmt.Fprintf(w, "  %s: pool %s, strip %s\n", m.Name, pool, strip)
		case bulk.SourceResults:
			place := "-"
			if m.Place != nil {
				place = fmt.Sprintf("%d", *m.Place)
			}
			fmt.Fprintf(w, "  %s: place %s, status %s\n", m.Name, place, m.Status)
		}
	}
	return nil
}
