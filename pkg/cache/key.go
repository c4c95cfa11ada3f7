// Package cache provides TTL caching for raw upstream payloads with an
// in-memory default and an optional Redis backend. Values are cached as
// fetched bodies; parsing happens on the way out and is idempotent, so a
// cached payload re-parses to the same records every time.
package cache

import "strings"

// Kind names the payload family a key refers to.
type Kind string

const (
	KindPoolIDs     Kind = "pool_ids"
	KindPoolHTML    Kind = "pool_html"
	KindPoolResults Kind = "pool_results"
	KindTableau     Kind = "tableau"
)

// Key identifies one cached payload. PoolID is set only for KindPoolHTML.
type Key struct {
	Kind    Kind
	EventID string
	RoundID string
	PoolID  string
}

// String renders the storage key. The ftl prefix namespaces entries in
// shared Redis databases.
func (k Key) String() string {
	parts := []string{"ftl", string(k.Kind), k.EventID, k.RoundID}
	if k.PoolID != "" {
		parts = append(parts, k.PoolID)
	}
	return strings.Join(parts, ":")
}
