// Package inequality computes allocation shares, Lorenz curves and Gini coefficients.
package inequality

import (
	"fmt"
	"math"
)

// Entity is one allocation recipient, e.g. a project and its budget.
type Entity struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// AllocationSet is an ordered sequence of entities whose distribution is analyzed.
// The zero value is an empty (invalid) set.
type AllocationSet struct {
	Entities []Entity `json:"entities"`
}

// NewAllocationSet pairs labels with amounts. Missing labels are generated.
func NewAllocationSet(labels []string, amounts []float64) (AllocationSet, error) {
	if len(labels) > len(amounts) {
		return AllocationSet{}, fmt.Errorf("%w: %d labels for %d amounts", ErrInvalidInput, len(labels), len(amounts))
	}

	entities := make([]Entity, len(amounts))
	for i, amount := range amounts {
		label := fmt.Sprintf("entity_%d", i)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		entities[i] = Entity{Label: label, Amount: amount}
	}
	return AllocationSet{Entities: entities}, nil
}

// FromAmounts builds a set with generated labels.
func FromAmounts(amounts ...float64) AllocationSet {
	set, _ := NewAllocationSet(nil, amounts)
	return set
}

// Len returns the number of entities
func (s AllocationSet) Len() int {
	return len(s.Entities)
}

// Amounts returns a copy of the amounts in input order
func (s AllocationSet) Amounts() []float64 {
	amounts := make([]float64, len(s.Entities))
	for i, e := range s.Entities {
		amounts[i] = e.Amount
	}
	return amounts
}

// Validate checks the set can carry shares and a Gini coefficient.
func (s AllocationSet) Validate() error {
	if len(s.Entities) == 0 {
		return fmt.Errorf("%w: allocation set is empty", ErrInvalidInput)
	}

	total := 0.0
	for i, e := range s.Entities {
		if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			return fmt.Errorf("%w: amount for %q (index %d) is not finite", ErrInvalidInput, e.Label, i)
		}
		if e.Amount < 0 {
			return fmt.Errorf("%w: amount for %q (index %d) is negative: %v", ErrInvalidInput, e.Label, i, e.Amount)
		}
		total += e.Amount
	}

	if math.IsInf(total, 0) {
		return fmt.Errorf("%w: total allocation overflows float64", ErrInvalidInput)
	}
	if total <= 0 {
		return fmt.Errorf("%w: total allocation must be positive, got %v", ErrInvalidInput, total)
	}
	return nil
}

// Share is an entity's fraction of the total
type Share struct {
	Label    string  `json:"label" msgpack:"label"`
	Amount   float64 `json:"amount" msgpack:"amount"`
	Fraction float64 `json:"fraction" msgpack:"fraction"`
}

// Percent returns the share as a percentage
func (s Share) Percent() float64 {
	return s.Fraction * 100
}

// LorenzPoint is one (cumulative population, cumulative allocation) sample.
type LorenzPoint struct {
	Population float64 `json:"population" msgpack:"population"`
	Allocation float64 `json:"allocation" msgpack:"allocation"`
}

// Summary bundles every statistic for one allocation set.
type Summary struct {
	Count          int           `json:"count" msgpack:"count"`
	Total          float64       `json:"total" msgpack:"total"`
	Shares         []Share       `json:"shares" msgpack:"shares"`
	Lorenz         []LorenzPoint `json:"lorenz" msgpack:"lorenz"`
	LorenzSorted   bool          `json:"lorenz_sorted" msgpack:"lorenz_sorted"`
	Gini           float64       `json:"gini" msgpack:"gini"`
	GiniClosedForm float64       `json:"gini_closed_form" msgpack:"gini_closed_form"`
}
