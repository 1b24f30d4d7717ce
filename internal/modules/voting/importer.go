package voting

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// flexString accepts JSON strings and numbers, since exported ballot IDs come in both forms
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*s = flexString(num.String())
	return nil
}

type electionFile struct {
	Candidates []struct {
		Title       string `json:"title"`
		TitleEN     string `json:"title_en"`
		Description string `json:"description"`
	} `json:"candidates"`
	Votes []struct {
		ID    flexString `json:"id"`
		Voter flexString `json:"voter"`
		Votes []struct {
			Candidate int     `json:"candidate"`
			Vote      float64 `json:"vote"`
		} `json:"votes"`
	} `json:"votes"`
}

// ParseElectionJSON reads an election export:
// {"candidates":[{"title","description"}], "votes":[{"id","voter","votes":[{"candidate","vote"}]}]}
func ParseElectionJSON(r io.Reader) (*Election, error) {
	var file electionFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: failed to decode election JSON: %v", ErrInvalidElection, err)
	}

	e := &Election{
		Candidates: make([]Candidate, len(file.Candidates)),
		Ballots:    make([]Ballot, 0, len(file.Votes)),
	}
	for i, c := range file.Candidates {
		e.Candidates[i] = Candidate{
			Index:       i,
			Title:       c.Title,
			TitleEN:     c.TitleEN,
			Description: c.Description,
		}
	}

	for i, v := range file.Votes {
		ballot := Ballot{
			ID:      string(v.ID),
			VoterID: string(v.Voter),
			Votes:   make(map[int]float64, len(v.Votes)),
		}
		for _, cv := range v.Votes {
			ballot.Votes[cv.Candidate] = cv.Vote
		}
		if ballot.ID == "" {
			ballot.ID = strconv.Itoa(i)
		}
		e.Ballots = append(e.Ballots, ballot)
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseCSV reads the two-file CSV export: votes (voter_id,vote_id,candidate_0..)
// and candidates (candidate_id,title,title_en,description). Empty vote cells are skipped.
func ParseCSV(votesR, candidatesR io.Reader) (*Election, error) {
	candidates, err := parseCandidatesCSV(candidatesR)
	if err != nil {
		return nil, err
	}

	ballots, err := parseVotesCSV(votesR)
	if err != nil {
		return nil, err
	}

	e := &Election{Candidates: candidates, Ballots: ballots}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func parseCandidatesCSV(r io.Reader) ([]Candidate, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: candidates CSV: %v", ErrInvalidElection, err)
	}

	cols := headerIndex(records[0])
	idCol, ok := cols["candidate_id"]
	if !ok {
		return nil, fmt.Errorf("%w: candidates CSV has no candidate_id column", ErrInvalidElection)
	}
	titleCol, ok := cols["title"]
	if !ok {
		return nil, fmt.Errorf("%w: candidates CSV has no title column", ErrInvalidElection)
	}

	candidates := make([]Candidate, 0, len(records)-1)
	seen := make(map[int]bool)
	for line, rec := range records[1:] {
		idx, err := strconv.Atoi(strings.TrimSpace(field(rec, idCol)))
		if err != nil {
			return nil, fmt.Errorf("%w: candidates CSV line %d: bad candidate_id %q", ErrInvalidElection, line+2, field(rec, idCol))
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: candidates CSV line %d: duplicate candidate_id %d", ErrInvalidElection, line+2, idx)
		}
		seen[idx] = true

		c := Candidate{Index: idx, Title: field(rec, titleCol)}
		if col, ok := cols["title_en"]; ok {
			c.TitleEN = field(rec, col)
		}
		if col, ok := cols["description"]; ok {
			c.Description = field(rec, col)
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Index < candidates[j].Index })
	for i, c := range candidates {
		if c.Index != i {
			return nil, fmt.Errorf("%w: candidate ids must run 0..%d, missing %d", ErrInvalidElection, len(candidates)-1, i)
		}
	}
	return candidates, nil
}

func parseVotesCSV(r io.Reader) ([]Ballot, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: votes CSV: %v", ErrInvalidBallot, err)
	}

	cols := headerIndex(records[0])
	voterCol, ok := cols["voter_id"]
	if !ok {
		return nil, fmt.Errorf("%w: votes CSV has no voter_id column", ErrInvalidBallot)
	}
	idCol, hasID := cols["vote_id"]

	candidateCols := make(map[int]int)
	for name, col := range cols {
		suffix, found := strings.CutPrefix(name, "candidate_")
		if !found {
			continue
		}
		idx, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, fmt.Errorf("%w: votes CSV column %q is not a candidate index", ErrInvalidBallot, name)
		}
		candidateCols[idx] = col
	}

	ballots := make([]Ballot, 0, len(records)-1)
	for line, rec := range records[1:] {
		ballot := Ballot{
			VoterID: strings.TrimSpace(field(rec, voterCol)),
			Votes:   make(map[int]float64),
		}
		if hasID {
			ballot.ID = strings.TrimSpace(field(rec, idCol))
		}
		if ballot.ID == "" {
			ballot.ID = strconv.Itoa(line)
		}

		for idx, col := range candidateCols {
			cell := strings.TrimSpace(field(rec, col))
			if cell == "" {
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: votes CSV line %d: bad value %q for candidate %d", ErrInvalidBallot, line+2, cell, idx)
			}
			ballot.Votes[idx] = value
		}
		ballots = append(ballots, ballot)
	}
	return ballots, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header row")
	}
	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return records, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func field(rec []string, col int) string {
	if col < len(rec) {
		return rec[col]
	}
	return ""
}

// Validate checks candidates are present and every ballot references them with finite values
func (e *Election) Validate() error {
	if len(e.Candidates) == 0 {
		return fmt.Errorf("%w: election has no candidates", ErrInvalidElection)
	}
	for i, c := range e.Candidates {
		if c.Index != i {
			return fmt.Errorf("%w: candidate %q has index %d at position %d", ErrInvalidElection, c.Title, c.Index, i)
		}
	}

	for i, b := range e.Ballots {
		if b.VoterID == "" {
			return fmt.Errorf("%w: ballot %d has no voter", ErrInvalidBallot, i)
		}
		for idx, value := range b.Votes {
			if idx < 0 || idx >= len(e.Candidates) {
				return fmt.Errorf("%w: ballot %q votes for unknown candidate %d", ErrInvalidBallot, b.ID, idx)
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return fmt.Errorf("%w: ballot %q has a non-finite vote for candidate %d", ErrInvalidBallot, b.ID, idx)
			}
		}
	}
	return nil
}
