package voting

import "github.com/aristath/qvlens/pkg/formulas"

// TallyQV sums each candidate's positive votes. Zero and negative values are ignored.
func TallyQV(e *Election) []CandidateVotes {
	tally := newTally(e)
	for _, b := range e.Ballots {
		for idx, value := range b.Votes {
			if value <= 0 || idx < 0 || idx >= len(tally) {
				continue
			}
			tally[idx].Votes += value
			tally[idx].Count++
		}
	}

	for i := range tally {
		if tally[i].Count > 0 {
			tally[i].Average = formulas.Round(tally[i].Votes/float64(tally[i].Count), 2)
		}
	}
	return tally
}

// TallyOPOV simulates one-person-one-vote: each ballot's single vote goes to
// the candidate it rated highest. A tie between k candidates gives each 1/k.
// Ballots without a positive vote are not counted.
func TallyOPOV(e *Election) []CandidateVotes {
	tally := newTally(e)
	for _, b := range e.Ballots {
		winners := topCandidates(b, len(tally))
		if len(winners) == 0 {
			continue
		}
		share := 1.0 / float64(len(winners))
		for _, idx := range winners {
			tally[idx].Votes += share
			tally[idx].Count++
		}
	}
	return tally
}

// topCandidates returns, in index order, every candidate sharing the ballot's highest positive value
func topCandidates(b Ballot, n int) []int {
	best := 0.0
	var winners []int
	for idx := 0; idx < n; idx++ {
		value, ok := b.Votes[idx]
		if !ok || value <= 0 {
			continue
		}
		switch {
		case value > best:
			best = value
			winners = append(winners[:0], idx)
		case value == best:
			winners = append(winners, idx)
		}
	}
	return winners
}

func newTally(e *Election) []CandidateVotes {
	tally := make([]CandidateVotes, len(e.Candidates))
	for i, c := range e.Candidates {
		tally[i] = CandidateVotes{Index: i, Title: c.DisplayTitle()}
	}
	return tally
}
