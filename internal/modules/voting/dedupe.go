package voting

// DeduplicateBallots keeps only the last ballot of each voter. Surviving
// ballots stay in their original order. It returns the kept ballots and
// the number removed.
func DeduplicateBallots(ballots []Ballot) ([]Ballot, int) {
	last := make(map[string]int, len(ballots))
	for i, b := range ballots {
		last[b.VoterID] = i
	}

	kept := make([]Ballot, 0, len(last))
	for i, b := range ballots {
		if last[b.VoterID] == i {
			kept = append(kept, b)
		}
	}
	return kept, len(ballots) - len(kept)
}
