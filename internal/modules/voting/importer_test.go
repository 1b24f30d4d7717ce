package voting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const electionJSON = `{
  "candidates": [
    {"title": "ちばユースセンターPRISM", "description": "youth"},
    {"title": "JINEN TRAVEL", "title_en": "JINEN TRAVEL", "description": "travel"}
  ],
  "votes": [
    {"id": 101, "voter": "alice", "votes": [{"candidate": 0, "vote": 3}, {"candidate": 1, "vote": 1}]},
    {"id": "102", "voter": "bob", "votes": [{"candidate": 1, "vote": 4}]}
  ]
}`

func TestParseElectionJSON(t *testing.T) {
	e, err := ParseElectionJSON(strings.NewReader(electionJSON))
	require.NoError(t, err)

	require.Len(t, e.Candidates, 2)
	assert.Equal(t, "ちばユースセンターPRISM", e.Candidates[0].DisplayTitle())
	assert.Equal(t, "JINEN TRAVEL", e.Candidates[1].TitleEN)
	assert.Equal(t, 1, e.Candidates[1].Index)

	require.Len(t, e.Ballots, 2)
	assert.Equal(t, "101", e.Ballots[0].ID)
	assert.Equal(t, "alice", e.Ballots[0].VoterID)
	assert.Equal(t, map[int]float64{0: 3, 1: 1}, e.Ballots[0].Votes)
	assert.Equal(t, "102", e.Ballots[1].ID)
}

func TestParseElectionJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"malformed", `{"candidates": [`, ErrInvalidElection},
		{"no candidates", `{"candidates": [], "votes": []}`, ErrInvalidElection},
		{"unknown candidate", `{"candidates": [{"title": "a"}], "votes": [{"id": 1, "voter": "x", "votes": [{"candidate": 3, "vote": 1}]}]}`, ErrInvalidBallot},
		{"missing voter", `{"candidates": [{"title": "a"}], "votes": [{"id": 1, "votes": [{"candidate": 0, "vote": 1}]}]}`, ErrInvalidBallot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseElectionJSON(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseCSV(t *testing.T) {
	votes := "\ufeffvoter_id,vote_id,candidate_0,candidate_1\n" +
		"alice,1,3,\n" +
		"bob,2,,4\n"
	candidates := "candidate_id,title,title_en,description\n" +
		"1,ビオ田んぼ,Bio Rice Field,rice\n" +
		"0,パラ旅応援団,Para Travel Support Team,travel\n"

	e, err := ParseCSV(strings.NewReader(votes), strings.NewReader(candidates))
	require.NoError(t, err)

	require.Len(t, e.Candidates, 2)
	assert.Equal(t, "Para Travel Support Team", e.Candidates[0].DisplayTitle())
	assert.Equal(t, "Bio Rice Field", e.Candidates[1].DisplayTitle())

	require.Len(t, e.Ballots, 2)
	assert.Equal(t, "alice", e.Ballots[0].VoterID)
	assert.Equal(t, map[int]float64{0: 3}, e.Ballots[0].Votes)
	assert.Equal(t, map[int]float64{1: 4}, e.Ballots[1].Votes)
}

func TestParseCSV_Errors(t *testing.T) {
	candidates := "candidate_id,title\n0,a\n"

	tests := []struct {
		name       string
		votes      string
		candidates string
		wantErr    error
	}{
		{"bad value", "voter_id,vote_id,candidate_0\nx,1,lots\n", candidates, ErrInvalidBallot},
		{"column beyond candidates", "voter_id,vote_id,candidate_5\nx,1,2\n", candidates, ErrInvalidBallot},
		{"no voter column", "vote_id,candidate_0\n1,2\n", candidates, ErrInvalidBallot},
		{"gap in candidate ids", "voter_id,candidate_0\nx,1\n", "candidate_id,title\n0,a\n2,b\n", ErrInvalidElection},
		{"empty candidates file", "voter_id\n", "", ErrInvalidElection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.votes), strings.NewReader(tt.candidates))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
