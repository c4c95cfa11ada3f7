package bulk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Remco28/fencer-schedules/pkg/parser"
)

// Match sources.
const (
	SourcePool    = "pool"
	SourceResults = "results"
)

// SearchMatch is one hit from a fencer search. Pool-roster hits carry the
// pool number, strip, and roster fields; results hits carry placement and
// advancement fields.
type SearchMatch struct {
	Name       string                   `json:"name"`
	Source     string                   `json:"source"`
	PoolNumber *int                     `json:"pool_number"`
	Strip      *string                  `json:"strip"`
	Club       string                   `json:"club,omitempty"`
	Indicator  string                   `json:"indicator,omitempty"`
	Place      *int                     `json:"place,omitempty"`
	Victories  *int                     `json:"victories,omitempty"`
	Matches    *int                     `json:"matches,omitempty"`
	Status     parser.AdvancementStatus `json:"status"`
}

// SearchResult is the response for one fencer query.
type SearchResult struct {
	Query   string        `json:"query"`
	Matches []SearchMatch `json:"matches"`
}

// SearchFencer finds fencers whose name contains the query, matched
// case-insensitively across pool rosters and, when the round has closed,
// the results records. Duplicate hits for the same fencer and source are
// collapsed.
func (f *Fetcher) SearchFencer(ctx context.Context, eventID, roundID, query string, force bool) (*SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("search query is required")
	}

	bundle, err := f.poolsBundle(ctx, eventID, roundID, force, false)
	if err != nil {
		return nil, err
	}

	// Results are optional: mid-round they do not exist yet and the
	// roster matches still stand on their own.
	results, err := f.FetchPoolResults(ctx, eventID, roundID, force)
	if err != nil {
		var notYet *NotYetAvailableError
		if !errors.As(err, &notYet) {
			return nil, err
		}
		results = nil
	}

	matches := []SearchMatch{}
	seen := make(map[string]struct{})

	for pi := range bundle.Pools {
		pool := &bundle.Pools[pi]
		for _, fencer := range pool.Fencers {
			if !strings.Contains(strings.ToLower(fencer.Name), q) {
				continue
			}
			key := strings.ToLower(fencer.Name) + "|pool|" + strconv.Itoa(pool.PoolNumber)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			poolNumber := pool.PoolNumber
			matches = append(matches, SearchMatch{
				Name:       fencer.Name,
				Source:     SourcePool,
				PoolNumber: &poolNumber,
				Strip:      pool.Strip,
				Club:       fencer.Club,
				Indicator:  fencer.Indicator,
				Status:     parser.StatusUnknown,
			})
		}
	}

	for _, record := range results {
		if !strings.Contains(strings.ToLower(record.Name), q) {
			continue
		}
		key := strings.ToLower(record.Name) + "|results"
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		victories := record.Victories
		recordMatches := record.Matches
		matches = append(matches, SearchMatch{
			Name:      record.Name,
			Source:    SourceResults,
			Club:      record.ClubPrimary,
			Place:     record.Place,
			Victories: &victories,
			Matches:   &recordMatches,
			Status:    record.Status,
		})
	}

	return &SearchResult{Query: query, Matches: matches}, nil
}
