package client

import "fmt"

// DefaultBaseURL is the public FencingTimeLive host.
const DefaultBaseURL = "https://www.fencingtimelive.com"

// DefaultUserAgent identifies requests as a regular browser. The upstream
// serves different (sometimes empty) markup to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PoolScoresPath is the listing page carrying the round's pool id array.
func PoolScoresPath(eventID, roundID string) string {
	return fmt.Sprintf("/pools/scores/%s/%s", eventID, roundID)
}

// PoolDetailPath is a single pool's scoresheet fragment. The dbut flag
// requests the variant that includes the bout score matrix.
func PoolDetailPath(eventID, roundID, poolID string) string {
	return fmt.Sprintf("/pools/scores/%s/%s/%s?dbut=true", eventID, roundID, poolID)
}

// PoolResultsPath is the JSON results feed, available after the round
// closes.
func PoolResultsPath(eventID, roundID string) string {
	return fmt.Sprintf("/pools/results/data/%s/%s", eventID, roundID)
}

// TableauPath is the elimination bracket page for a DE round.
func TableauPath(eventID, roundID string) string {
	return fmt.Sprintf("/tableaus/scores/%s/%s", eventID, roundID)
}
