package comparison

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
)

// giniTieTolerance is how close two Gini coefficients must be to call a tie
const giniTieTolerance = 1e-9

// AllocateBudget splits budget in proportion to votes. Candidates without
// votes get nothing. A tally with no votes returns inequality.ErrInvalidInput.
func AllocateBudget(tally []voting.CandidateVotes, budget float64) ([]Allocation, error) {
	if budget <= 0 || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return nil, fmt.Errorf("%w: budget must be positive and finite, got %v", inequality.ErrInvalidInput, budget)
	}

	total := voting.TotalVotes(tally)
	if total <= 0 {
		return nil, fmt.Errorf("%w: no votes to allocate", inequality.ErrInvalidInput)
	}

	allocations := make([]Allocation, len(tally))
	for i, cv := range tally {
		allocations[i] = Allocation{
			Index:   cv.Index,
			Title:   cv.Title,
			Votes:   cv.Votes,
			Amount:  cv.Votes / total * budget,
			Percent: cv.Votes / total * 100,
		}
	}
	return allocations, nil
}

// BuildReport tallies e under both methods, allocates the budget and measures
// the inequality of each allocation. The report is not persisted and has no ID.
func BuildReport(e *voting.Election, opts Options, analyzer *inequality.Service) (*Report, error) {
	qv, err := methodResult(MethodQV, voting.TallyQV(e), opts.Budget, analyzer)
	if err != nil {
		return nil, fmt.Errorf("quadratic voting: %w", err)
	}
	opov, err := methodResult(MethodOPOV, voting.TallyOPOV(e), opts.Budget, analyzer)
	if err != nil {
		return nil, fmt.Errorf("one-person-one-vote: %w", err)
	}

	return &Report{
		ElectionID:      e.ID,
		ElectionName:    e.Name,
		Budget:          opts.Budget,
		StrongThreshold: opts.StrongThreshold,
		QV:              *qv,
		OPOV:            *opov,
		Rows:            buildRows(qv.Allocations, opov.Allocations),
		BuriedVoices:    voting.BuriedVoices(e, opts.StrongThreshold),
		MoreEqual:       moreEqual(qv.Summary.Gini, opov.Summary.Gini),
	}, nil
}

func methodResult(method string, tally []voting.CandidateVotes, budget float64, analyzer *inequality.Service) (*MethodResult, error) {
	allocations, err := AllocateBudget(tally, budget)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(allocations))
	amounts := make([]float64, len(allocations))
	for i, a := range allocations {
		labels[i] = a.Title
		amounts[i] = a.Amount
	}
	set, err := inequality.NewAllocationSet(labels, amounts)
	if err != nil {
		return nil, err
	}

	summary, err := analyzer.Analyze(set, true)
	if err != nil {
		return nil, err
	}

	return &MethodResult{
		Method:      method,
		TotalVotes:  voting.TotalVotes(tally),
		Allocations: allocations,
		Summary:     summary,
	}, nil
}

// buildRows pairs allocations by candidate and orders them by QV votes, highest first
func buildRows(qv, opov []Allocation) []Row {
	rows := make([]Row, len(qv))
	for i, q := range qv {
		o := opov[i]
		rows[i] = Row{
			Index:       q.Index,
			Title:       q.Title,
			QVVotes:     q.Votes,
			OPOVVotes:   o.Votes,
			QVBudget:    q.Amount,
			OPOVBudget:  o.Amount,
			QVPercent:   q.Percent,
			OPOVPercent: o.Percent,
			BudgetDiff:  q.Amount - o.Amount,
			PercentDiff: q.Percent - o.Percent,
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].QVVotes > rows[j].QVVotes
	})
	return rows
}

func moreEqual(qvGini, opovGini float64) string {
	switch {
	case math.Abs(qvGini-opovGini) <= giniTieTolerance:
		return Tie
	case qvGini < opovGini:
		return MethodQV
	default:
		return MethodOPOV
	}
}
