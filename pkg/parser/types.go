package parser

// Winner identifies which side of a bout or tableau match won.
type Winner string

const (
	// WinnerA means the first-listed fencer won.
	WinnerA Winner = "A"

	// WinnerB means the second-listed fencer won.
	WinnerB Winner = "B"

	// WinnerUnknown means the outcome cannot be derived from the payload.
	WinnerUnknown Winner = ""
)

// BoutStatus describes whether a pool bout has been fenced.
type BoutStatus string

const (
	BoutComplete   BoutStatus = "complete"
	BoutIncomplete BoutStatus = "incomplete"
)

// MatchStatus describes the lifecycle of a tableau match.
type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchComplete   MatchStatus = "complete"
)

// AdvancementStatus is the normalization of the free-text prediction field
// on the pool-results endpoint.
type AdvancementStatus string

const (
	StatusAdvanced   AdvancementStatus = "advanced"
	StatusEliminated AdvancementStatus = "eliminated"
	StatusUnknown    AdvancementStatus = "unknown"
)

// PoolIDList is the set of pool identifiers discovered on the pool-scores
// listing page for one round.
type PoolIDList struct {
	RoundID string   `json:"round_id"`
	PoolIDs []string `json:"pool_ids"`
}

// Fencer is one roster entry on a pool scoresheet. The statistics columns
// are kept as displayed (e.g. indicator "+14"); they are empty strings when
// the column is absent. Pool markup carries no seeding; seeds appear only
// on the tableau.
type Fencer struct {
	Name            string `json:"name"`
	Club            string `json:"club,omitempty"`
	Victories       string `json:"victories,omitempty"`
	Ratio           string `json:"ratio,omitempty"`
	TouchesScored   string `json:"touches_scored,omitempty"`
	TouchesReceived string `json:"touches_received,omitempty"`
	Indicator       string `json:"indicator,omitempty"`
}

// Bout is one pool bout derived from the score matrix. Scores are nil when
// the matrix does not reveal them.
type Bout struct {
	FencerA string     `json:"fencer_a"`
	FencerB string     `json:"fencer_b"`
	ScoreA  *int       `json:"score_a"`
	ScoreB  *int       `json:"score_b"`
	Winner  Winner     `json:"winner"`
	Status  BoutStatus `json:"status"`
}

// PoolDetail is one parsed pool scoresheet.
type PoolDetail struct {
	PoolID     string   `json:"pool_id"`
	PoolNumber int      `json:"pool_number"`
	Strip      *string  `json:"strip"`
	Fencers    []Fencer `json:"fencers"`
	Bouts      []Bout   `json:"bouts"`
}

// PoolResult is one fencer's row from the pool-results endpoint, available
// once the round has closed. Optional numerics are nil when the upstream
// omits them.
type PoolResult struct {
	FencerID        string            `json:"fencer_id"`
	Name            string            `json:"name"`
	ClubPrimary     string            `json:"club_primary,omitempty"`
	ClubSecondary   string            `json:"club_secondary,omitempty"`
	Division        string            `json:"division,omitempty"`
	Country         string            `json:"country,omitempty"`
	Place           *int              `json:"place"`
	Victories       int               `json:"victories"`
	Matches         int               `json:"matches"`
	VictoryRatio    *float64          `json:"victory_ratio"`
	TouchesScored   *int              `json:"touches_scored"`
	TouchesReceived *int              `json:"touches_received"`
	Indicator       *int              `json:"indicator"`
	Tie             *bool             `json:"tie"`
	PredictionRaw   string            `json:"prediction_raw,omitempty"`
	Status          AdvancementStatus `json:"status"`
}

// TableauMatch is one node of the elimination bracket.
type TableauMatch struct {
	Round  string      `json:"round"`
	SeedA  *int        `json:"seed_a"`
	NameA  string      `json:"name_a,omitempty"`
	ClubA  string      `json:"club_a,omitempty"`
	SeedB  *int        `json:"seed_b"`
	NameB  string      `json:"name_b,omitempty"`
	ClubB  string      `json:"club_b,omitempty"`
	ScoreA *int        `json:"score_a"`
	ScoreB *int        `json:"score_b"`
	Winner Winner      `json:"winner"`
	Status MatchStatus `json:"status"`
	Strip  string      `json:"strip,omitempty"`
	Time   string      `json:"time,omitempty"`
	Note   string      `json:"note,omitempty"`
}

// Tableau is the parsed elimination bracket for one round.
type Tableau struct {
	EventID string         `json:"event_id"`
	RoundID string         `json:"round_id"`
	Matches []TableauMatch `json:"matches"`
}
