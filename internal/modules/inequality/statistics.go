package inequality

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ComputeShares returns amount/total for each entity, in input order.
func ComputeShares(set AllocationSet) ([]Share, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	total := floats.Sum(set.Amounts())
	shares := make([]Share, len(set.Entities))
	for i, e := range set.Entities {
		shares[i] = Share{
			Label:    e.Label,
			Amount:   e.Amount,
			Fraction: e.Amount / total,
		}
	}
	return shares, nil
}

// ComputeLorenzCurve returns N+1 points from (0,0) to (1,1).
// With sortAscending the amounts are stably sorted ascending first, which is the
// standard convention; false keeps the given order for display purposes only.
func ComputeLorenzCurve(set AllocationSet, sortAscending bool) ([]LorenzPoint, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	amounts := set.Amounts()
	if sortAscending {
		sortStable(amounts)
	}
	return lorenzPoints(amounts), nil
}

// ComputeGiniCoefficient integrates the ascending Lorenz curve with the
// trapezoidal rule: G = 1 - Σ (x_i - x_{i-1})(y_i + y_{i-1}).
func ComputeGiniCoefficient(set AllocationSet) (float64, error) {
	if err := set.Validate(); err != nil {
		return 0, err
	}

	amounts := set.Amounts()
	sortStable(amounts)
	points := lorenzPoints(amounts)

	area := 0.0
	for i := 1; i < len(points); i++ {
		dx := points[i].Population - points[i-1].Population
		area += dx * (points[i].Allocation + points[i-1].Allocation)
	}
	return unitInterval(1 - area)
}

// GiniClosedForm computes the Gini coefficient for equally spaced population
// fractions: G = (N + 1 - 2 Σ (N+1-i) a_i / total) / N over ascending amounts.
func GiniClosedForm(set AllocationSet) (float64, error) {
	if err := set.Validate(); err != nil {
		return 0, err
	}

	amounts := set.Amounts()
	sortStable(amounts)

	n := float64(len(amounts))
	total := floats.Sum(amounts)
	// Weight shares, not amounts, so large finite totals cannot overflow.
	weighted := 0.0
	for i, a := range amounts {
		weighted += (n - float64(i)) * (a / total)
	}
	return unitInterval((n + 1 - 2*weighted) / n)
}

// lorenzPoints assumes a validated, already ordered amount slice.
func lorenzPoints(amounts []float64) []LorenzPoint {
	n := len(amounts)
	cumulative := floats.CumSum(make([]float64, n), amounts)
	total := cumulative[n-1]

	points := make([]LorenzPoint, n+1)
	points[0] = LorenzPoint{}
	for i := 1; i <= n; i++ {
		points[i] = LorenzPoint{
			Population: float64(i) / float64(n),
			Allocation: cumulative[i-1] / total,
		}
	}
	// Pin the endpoint; cumulative division can land a ulp short of 1.
	points[n] = LorenzPoint{Population: 1, Allocation: 1}
	return points
}

func sortStable(amounts []float64) {
	sort.SliceStable(amounts, func(i, j int) bool {
		return amounts[i] < amounts[j]
	})
}

// unitInterval clamps round-off into [0,1]. NaN means the input degenerated.
func unitInterval(v float64) (float64, error) {
	switch {
	case math.IsNaN(v):
		return 0, fmt.Errorf("%w: gini coefficient is not a number", ErrInvalidInput)
	case v < 0:
		return 0, nil
	case v > 1:
		return 1, nil
	}
	return v, nil
}
