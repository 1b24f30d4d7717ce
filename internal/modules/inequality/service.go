package inequality

import (
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/qvlens/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	// giniTolerance is the relative disagreement allowed between the two Gini forms.
	giniTolerance = 1e-9
	// giniScaleFloor keeps near-zero coefficients from turning round-off into a large ratio.
	giniScaleFloor = 1e-6
)

// Service computes allocation statistics and logs them
type Service struct {
	log zerolog.Logger
}

// NewService creates a new inequality service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "inequality").Logger(),
	}
}

// Analyze computes shares, the Lorenz curve and both Gini forms for set.
// Nothing is returned unless every statistic succeeds.
func (s *Service) Analyze(set AllocationSet, sortAscending bool) (*Summary, error) {
	shares, err := ComputeShares(set)
	if err != nil {
		return nil, err
	}

	lorenz, err := ComputeLorenzCurve(set, sortAscending)
	if err != nil {
		return nil, err
	}

	gini, err := ComputeGiniCoefficient(set)
	if err != nil {
		return nil, err
	}

	closedForm, err := GiniClosedForm(set)
	if err != nil {
		return nil, err
	}

	if diff := formulas.RelativeDiff(gini, closedForm, giniScaleFloor); diff > giniTolerance {
		s.log.Warn().
			Float64("gini", gini).
			Float64("gini_closed_form", closedForm).
			Float64("relative_diff", diff).
			Msg("Gini forms disagree")
	}

	summary := &Summary{
		Count:          set.Len(),
		Total:          floats.Sum(set.Amounts()),
		Shares:         shares,
		Lorenz:         lorenz,
		LorenzSorted:   sortAscending,
		Gini:           gini,
		GiniClosedForm: closedForm,
	}

	s.log.Debug().
		Int("count", summary.Count).
		Float64("total", summary.Total).
		Float64("gini", summary.Gini).
		Msg("Allocation analyzed")

	return summary, nil
}
