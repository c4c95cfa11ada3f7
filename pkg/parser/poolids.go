package parser

import (
	"regexp"
	"strings"
)

var (
	idsArrayRe = regexp.MustCompile(`(?s)var\s+ids\s*=\s*\[(.*?)\];`)
	hexIDRe    = regexp.MustCompile(`["']([A-Fa-f0-9]{32})["']`)
)

// ParsePoolIDs extracts the pool identifiers embedded in the pool-scores
// listing page. The page carries them in an inline script as a quoted
// string array. Identifiers are uppercased and deduplicated, keeping the
// first occurrence's position.
func ParsePoolIDs(html, roundID string) (*PoolIDList, error) {
	arr := idsArrayRe.FindStringSubmatch(html)
	if arr == nil {
		return nil, &ParseError{Msg: "pool id array not found in listing page"}
	}

	matches := hexIDRe.FindAllStringSubmatch(arr[1], -1)
	if len(matches) == 0 {
		return nil, &ParseError{Msg: "pool id array contains no identifiers"}
	}

	seen := make(map[string]struct{}, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := strings.ToUpper(m[1])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return &PoolIDList{RoundID: roundID, PoolIDs: ids}, nil
}
