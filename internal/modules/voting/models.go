// Package voting holds imported ballot data and the per-method tallies derived from it.
package voting

import "time"

// Candidate is one project on the ballot.
// Index is the candidate's position in the election and the key used by ballots.
type Candidate struct {
	Index       int    `json:"index" msgpack:"index"`
	Title       string `json:"title" msgpack:"title"`
	TitleEN     string `json:"title_en,omitempty" msgpack:"title_en"`
	Description string `json:"description,omitempty" msgpack:"description"`
}

// DisplayTitle prefers the English title when one is known
func (c Candidate) DisplayTitle() string {
	if c.TitleEN != "" {
		return c.TitleEN
	}
	return c.Title
}

// Ballot is one voter's submission. Votes maps candidate index to vote value;
// candidates the voter skipped are absent.
type Ballot struct {
	ID      string          `json:"id"`
	VoterID string          `json:"voter_id"`
	Votes   map[int]float64 `json:"votes"`
}

// Election is an imported set of candidates and ballots
type Election struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Candidates []Candidate `json:"candidates"`
	Ballots    []Ballot    `json:"ballots"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Titles returns display titles in candidate index order
func (e *Election) Titles() []string {
	titles := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		titles[i] = c.DisplayTitle()
	}
	return titles
}

// ElectionInfo is the list view of an election
type ElectionInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Candidates int       `json:"candidates"`
	Ballots    int       `json:"ballots"`
	CreatedAt  time.Time `json:"created_at"`
}

// CandidateVotes is one candidate's tally under a voting method
type CandidateVotes struct {
	Index   int     `json:"index" msgpack:"index"`
	Title   string  `json:"title" msgpack:"title"`
	Votes   float64 `json:"votes" msgpack:"votes"`
	Count   int     `json:"count" msgpack:"count"`     // Ballots that contributed
	Average float64 `json:"average" msgpack:"average"` // QV only, rounded to 2 places
}

// TotalVotes sums Votes across candidates
func TotalVotes(tally []CandidateVotes) float64 {
	total := 0.0
	for _, cv := range tally {
		total += cv.Votes
	}
	return total
}
