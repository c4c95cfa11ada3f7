package cache

import "time"

// Entry is one cached payload: the raw body as fetched from the upstream
// and the time it was fetched. The JSON tags are the Redis storage codec.
type Entry struct {
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Expired reports whether the entry's age exceeds ttl at the given time.
func (e *Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) >= ttl
}

// Age returns how long ago the entry was fetched.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}
