package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// resultRecord mirrors the upstream field names. Required fields are
// pointers so a missing key is distinguishable from a zero value.
type resultRecord struct {
	ID              *string  `json:"id"`
	Name            *string  `json:"name"`
	Victories       *int     `json:"v"`
	Matches         *int     `json:"m"`
	ClubPrimary     string   `json:"club1"`
	ClubSecondary   string   `json:"club2"`
	Division        string   `json:"div"`
	Country         string   `json:"country"`
	Place           *int     `json:"place"`
	VictoryRatio    *float64 `json:"vm"`
	TouchesScored   *int     `json:"ts"`
	TouchesReceived *int     `json:"tr"`
	Indicator       flexInt  `json:"ind"`
	Tie             *bool    `json:"tie"`
	Prediction      string   `json:"prediction"`
}

// flexInt tolerates the indicator arriving as a JSON number or as a
// display string like "+14". Non-numeric values decode to nil rather than
// failing the record.
type flexInt struct {
	Value *int
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "+"))
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	f.Value = &n
	return nil
}

// ParsePoolResults decodes the results endpoint's JSON array and validates
// every record. Input order is preserved.
func ParsePoolResults(raw []byte) ([]PoolResult, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &ValidationError{Index: -1, Msg: fmt.Sprintf("payload is not a JSON array: %v", err), Err: err}
	}
	return ParsePoolResultRecords(records)
}

// ParsePoolResultRecords validates an already-decoded record sequence.
// An empty sequence wraps ErrEmptyResults; rounds publish results only
// after closing, so emptiness usually means "not posted yet".
func ParsePoolResultRecords(records []json.RawMessage) ([]PoolResult, error) {
	if len(records) == 0 {
		return nil, &ValidationError{Index: -1, Msg: ErrEmptyResults.Error(), Err: ErrEmptyResults}
	}

	results := make([]PoolResult, 0, len(records))
	for i, rec := range records {
		var r resultRecord
		if err := json.Unmarshal(rec, &r); err != nil {
			return nil, &ValidationError{Index: i, Msg: fmt.Sprintf("record %d is not an object: %v", i, err), Err: err}
		}

		switch {
		case r.ID == nil:
			return nil, &ValidationError{Index: i, Field: "id"}
		case r.Name == nil:
			return nil, &ValidationError{Index: i, Field: "name"}
		case r.Victories == nil:
			return nil, &ValidationError{Index: i, Field: "v"}
		case r.Matches == nil:
			return nil, &ValidationError{Index: i, Field: "m"}
		}

		prediction := strings.TrimSpace(r.Prediction)

		results = append(results, PoolResult{
			FencerID:        strings.TrimSpace(*r.ID),
			Name:            strings.TrimSpace(*r.Name),
			ClubPrimary:     strings.TrimSpace(r.ClubPrimary),
			ClubSecondary:   strings.TrimSpace(r.ClubSecondary),
			Division:        strings.TrimSpace(r.Division),
			Country:         strings.TrimSpace(r.Country),
			Place:           r.Place,
			Victories:       *r.Victories,
			Matches:         *r.Matches,
			VictoryRatio:    r.VictoryRatio,
			TouchesScored:   r.TouchesScored,
			TouchesReceived: r.TouchesReceived,
			Indicator:       r.Indicator.Value,
			Tie:             r.Tie,
			PredictionRaw:   prediction,
			Status:          normalizeStatus(prediction),
		})
	}
	return results, nil
}

// normalizeStatus maps the free-text advancement field onto the closed
// status set. Anything non-empty that is not "advanced" means the fencer
// did not move on, whatever phrasing the upstream used.
func normalizeStatus(prediction string) AdvancementStatus {
	switch {
	case prediction == "":
		return StatusUnknown
	case strings.EqualFold(prediction, "advanced"):
		return StatusAdvanced
	default:
		return StatusEliminated
	}
}
