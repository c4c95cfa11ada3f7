// Package parser turns raw FencingTimeLive payloads into structured
// tournament records. It contains four independent parsers, one per upstream
// payload shape: the pool-identifier listing, a single pool's scoresheet,
// the pool-results JSON, and the elimination tableau.
//
// All parsers are pure functions of their input: parsing the same payload
// twice yields field-for-field identical output. Structural failures surface
// as *ParseError, well-formed payloads with missing required fields as
// *ValidationError.
package parser
