// Package comparison contrasts quadratic voting with one-person-one-vote:
// it splits a budget by each method's tally and measures how unequal the splits are.
package comparison

import (
	"time"

	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
)

// Voting methods and the MoreEqual verdicts
const (
	MethodQV   = "qv"
	MethodOPOV = "opov"
	Tie        = "tie"
)

// Options controls how a report is built
type Options struct {
	Budget          float64 // Total budget split between candidates
	StrongThreshold float64 // Vote value counted as a strong preference
}

// Allocation is one candidate's slice of the budget under a method
type Allocation struct {
	Index   int     `json:"index" msgpack:"index"`
	Title   string  `json:"title" msgpack:"title"`
	Votes   float64 `json:"votes" msgpack:"votes"`
	Amount  float64 `json:"amount" msgpack:"amount"`
	Percent float64 `json:"percent" msgpack:"percent"`
}

// MethodResult is a method's allocations plus the inequality statistics of them
type MethodResult struct {
	Method      string              `json:"method" msgpack:"method"`
	TotalVotes  float64             `json:"total_votes" msgpack:"total_votes"`
	Allocations []Allocation        `json:"allocations" msgpack:"allocations"`
	Summary     *inequality.Summary `json:"summary" msgpack:"summary"`
}

// Row lines up one candidate under both methods. Diffs are QV minus OPOV.
type Row struct {
	Index       int     `json:"index" msgpack:"index"`
	Title       string  `json:"title" msgpack:"title"`
	QVVotes     float64 `json:"qv_votes" msgpack:"qv_votes"`
	OPOVVotes   float64 `json:"opov_votes" msgpack:"opov_votes"`
	QVBudget    float64 `json:"qv_budget" msgpack:"qv_budget"`
	OPOVBudget  float64 `json:"opov_budget" msgpack:"opov_budget"`
	QVPercent   float64 `json:"qv_percent" msgpack:"qv_percent"`
	OPOVPercent float64 `json:"opov_percent" msgpack:"opov_percent"`
	BudgetDiff  float64 `json:"budget_diff" msgpack:"budget_diff"`
	PercentDiff float64 `json:"percent_diff" msgpack:"percent_diff"`
}

// Report is the full comparison of one election
type Report struct {
	ID              string               `json:"id" msgpack:"id"`
	ElectionID      string               `json:"election_id" msgpack:"election_id"`
	ElectionName    string               `json:"election_name" msgpack:"election_name"`
	Budget          float64              `json:"budget" msgpack:"budget"`
	StrongThreshold float64              `json:"strong_threshold" msgpack:"strong_threshold"`
	CreatedAt       time.Time            `json:"created_at" msgpack:"created_at"`
	QV              MethodResult         `json:"qv" msgpack:"qv"`
	OPOV            MethodResult         `json:"opov" msgpack:"opov"`
	Rows            []Row                `json:"rows" msgpack:"rows"`
	BuriedVoices    []voting.BuriedVoice `json:"buried_voices" msgpack:"buried_voices"`
	MoreEqual       string               `json:"more_equal" msgpack:"more_equal"`
}

// ReportInfo is the list view of a stored report
type ReportInfo struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	CreatedAt  time.Time `json:"created_at"`
}
