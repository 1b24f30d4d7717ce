package voting

import (
	"fmt"
	"math"

	"github.com/aristath/qvlens/pkg/formulas"
)

// Band boundaries for preference intensity
const (
	mediumIntensity = 4.0
	strongIntensity = 7.0
)

// IntensityBands counts positive votes by strength: weak 1-3, medium 4-6, strong 7+
type IntensityBands struct {
	Weak   int `json:"weak"`
	Medium int `json:"medium"`
	Strong int `json:"strong"`
}

func (b *IntensityBands) add(value float64) {
	switch {
	case value >= strongIntensity:
		b.Strong++
	case value >= mediumIntensity:
		b.Medium++
	default:
		b.Weak++
	}
}

// CandidateIntensity describes how strongly one candidate was supported.
// Counts[v-1] is the number of ballots that gave the candidate value v.
type CandidateIntensity struct {
	Index    int            `json:"index"`
	Title    string         `json:"title"`
	Counts   []int          `json:"counts"`
	Positive int            `json:"positive"`
	Mean     float64        `json:"mean"`
	StdDev   float64        `json:"std_dev"`
	Median   float64        `json:"median"`
	Bands    IntensityBands `json:"bands"`
}

// Intensity is the candidate by vote-value matrix of an election
type Intensity struct {
	MaxIntensity int                  `json:"max_intensity"`
	Candidates   []CandidateIntensity `json:"candidates"`
	Overall      IntensityBands       `json:"overall"`
}

// IntensityDistribution buckets every positive vote by rounded value 1..maxIntensity.
// Values above maxIntensity fall into the last bucket.
func IntensityDistribution(e *Election, maxIntensity int) (*Intensity, error) {
	if maxIntensity < 1 {
		return nil, fmt.Errorf("max intensity must be at least 1, got %d", maxIntensity)
	}

	values := make([][]float64, len(e.Candidates))
	result := &Intensity{
		MaxIntensity: maxIntensity,
		Candidates:   make([]CandidateIntensity, len(e.Candidates)),
	}
	for i, c := range e.Candidates {
		result.Candidates[i] = CandidateIntensity{
			Index:  i,
			Title:  c.DisplayTitle(),
			Counts: make([]int, maxIntensity),
		}
	}

	for _, b := range e.Ballots {
		for idx, value := range b.Votes {
			if value <= 0 || idx < 0 || idx >= len(e.Candidates) {
				continue
			}
			bucket := int(math.Round(value))
			if bucket < 1 {
				bucket = 1
			}
			if bucket > maxIntensity {
				bucket = maxIntensity
			}

			ci := &result.Candidates[idx]
			ci.Counts[bucket-1]++
			ci.Positive++
			ci.Bands.add(value)
			result.Overall.add(value)
			values[idx] = append(values[idx], value)
		}
	}

	for i := range result.Candidates {
		ci := &result.Candidates[i]
		if len(values[i]) == 0 {
			continue
		}
		ci.Mean = formulas.Mean(values[i])
		ci.StdDev = formulas.StdDev(values[i])
		ci.Median = formulas.Median(values[i])
	}
	return result, nil
}
