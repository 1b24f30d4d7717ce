package voting

// BuriedVoice counts, for one candidate, strong preferences that a
// one-person-one-vote ballot would not have carried.
type BuriedVoice struct {
	Index       int     `json:"index" msgpack:"index"`
	Title       string  `json:"title" msgpack:"title"`
	StrongVotes int     `json:"strong_votes" msgpack:"strong_votes"`
	MaxVotes    int     `json:"max_votes" msgpack:"max_votes"`
	BuriedVotes int     `json:"buried_votes" msgpack:"buried_votes"`
	BuriedRatio float64 `json:"buried_ratio" msgpack:"buried_ratio"` // BuriedVotes / StrongVotes
}

// BuriedVoices compares strong votes (value >= threshold) with each voter's top choice.
// The top choice is the first candidate, in index order, holding the ballot's
// strictly highest positive value. A strong vote for any other candidate is buried.
func BuriedVoices(e *Election, threshold float64) []BuriedVoice {
	result := make([]BuriedVoice, len(e.Candidates))
	for i, c := range e.Candidates {
		result[i] = BuriedVoice{Index: i, Title: c.DisplayTitle()}
	}

	for _, b := range e.Ballots {
		top := firstTopCandidate(b, len(result))
		if top >= 0 {
			result[top].MaxVotes++
		}

		for idx, value := range b.Votes {
			if idx < 0 || idx >= len(result) || value < threshold {
				continue
			}
			result[idx].StrongVotes++
			if idx != top {
				result[idx].BuriedVotes++
			}
		}
	}

	for i := range result {
		if result[i].StrongVotes > 0 {
			result[i].BuriedRatio = float64(result[i].BuriedVotes) / float64(result[i].StrongVotes)
		}
	}
	return result
}

// firstTopCandidate returns -1 when the ballot has no positive vote
func firstTopCandidate(b Ballot, n int) int {
	best, top := 0.0, -1
	for idx := 0; idx < n; idx++ {
		if value, ok := b.Votes[idx]; ok && value > best {
			best, top = value, idx
		}
	}
	return top
}
