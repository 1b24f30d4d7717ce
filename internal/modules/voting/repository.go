package voting

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aristath/qvlens/internal/database"
	"github.com/rs/zerolog"
)

// Repository handles election database operations
// Database: elections.db (elections, candidates, ballots tables)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new election repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "voting").Logger(),
	}
}

// Create stores an election with its candidates and ballots in one transaction
func (r *Repository) Create(e *Election) error {
	if e.ID == "" {
		return fmt.Errorf("election ID is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO elections (id, name, created_at) VALUES (?, ?, ?)",
			e.ID, e.Name, e.CreatedAt.Unix(),
		); err != nil {
			return fmt.Errorf("failed to insert election: %w", err)
		}

		candStmt, err := tx.Prepare(`
			INSERT INTO candidates (election_id, idx, title, title_en, description)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare candidate insert: %w", err)
		}
		defer candStmt.Close()

		for _, c := range e.Candidates {
			if _, err := candStmt.Exec(e.ID, c.Index, c.Title, c.TitleEN, c.Description); err != nil {
				return fmt.Errorf("failed to insert candidate %d: %w", c.Index, err)
			}
		}

		ballotStmt, err := tx.Prepare(`
			INSERT INTO ballots (election_id, seq, ballot_id, voter_id, votes)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare ballot insert: %w", err)
		}
		defer ballotStmt.Close()

		for seq, b := range e.Ballots {
			votesJSON, err := encodeVotes(b.Votes)
			if err != nil {
				return fmt.Errorf("failed to encode ballot %s: %w", b.ID, err)
			}
			if _, err := ballotStmt.Exec(e.ID, seq, b.ID, b.VoterID, votesJSON); err != nil {
				return fmt.Errorf("failed to insert ballot %s: %w", b.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Debug().
		Str("election_id", e.ID).
		Int("candidates", len(e.Candidates)).
		Int("ballots", len(e.Ballots)).
		Msg("Election stored")
	return nil
}

// Get loads a full election. Returns ErrElectionNotFound if the ID is unknown.
func (r *Repository) Get(id string) (*Election, error) {
	e := &Election{ID: id}
	var createdAt int64
	err := r.db.QueryRow("SELECT name, created_at FROM elections WHERE id = ?", id).Scan(&e.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrElectionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()

	if e.Candidates, err = r.candidates(id); err != nil {
		return nil, err
	}
	if e.Ballots, err = r.ballots(id); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) candidates(electionID string) ([]Candidate, error) {
	rows, err := r.db.Query(`
		SELECT idx, title, title_en, description
		FROM candidates
		WHERE election_id = ?
		ORDER BY idx
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.Index, &c.Title, &c.TitleEN, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

func (r *Repository) ballots(electionID string) ([]Ballot, error) {
	rows, err := r.db.Query(`
		SELECT ballot_id, voter_id, votes
		FROM ballots
		WHERE election_id = ?
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	var ballots []Ballot
	for rows.Next() {
		var b Ballot
		var votesJSON string
		if err := rows.Scan(&b.ID, &b.VoterID, &votesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		if b.Votes, err = decodeVotes(votesJSON); err != nil {
			return nil, fmt.Errorf("failed to decode ballot %s: %w", b.ID, err)
		}
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ballots: %w", err)
	}
	return ballots, nil
}

// List returns every election, newest first
func (r *Repository) List() ([]ElectionInfo, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.name, e.created_at,
			(SELECT COUNT(*) FROM candidates c WHERE c.election_id = e.id),
			(SELECT COUNT(*) FROM ballots b WHERE b.election_id = e.id)
		FROM elections e
		ORDER BY e.created_at DESC, e.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := make([]ElectionInfo, 0)
	for rows.Next() {
		var info ElectionInfo
		var createdAt int64
		if err := rows.Scan(&info.ID, &info.Name, &createdAt, &info.Candidates, &info.Ballots); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		info.CreatedAt = time.Unix(createdAt, 0).UTC()
		elections = append(elections, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elections: %w", err)
	}
	return elections, nil
}

// Delete removes an election and everything stored under it
func (r *Repository) Delete(id string) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		// Child rows are deleted explicitly so connections without foreign_keys behave the same
		if _, err := tx.Exec("DELETE FROM ballots WHERE election_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete ballots: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM candidates WHERE election_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete candidates: %w", err)
		}

		result, err := tx.Exec("DELETE FROM elections WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete election: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrElectionNotFound, id)
		}
		return nil
	})
}

// encodeVotes stores votes as a JSON object keyed by candidate index
func encodeVotes(votes map[int]float64) (string, error) {
	keyed := make(map[string]float64, len(votes))
	for idx, value := range votes {
		keyed[strconv.Itoa(idx)] = value
	}
	data, err := json.Marshal(keyed)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeVotes(data string) (map[int]float64, error) {
	var keyed map[string]float64
	if err := json.Unmarshal([]byte(data), &keyed); err != nil {
		return nil, err
	}
	votes := make(map[int]float64, len(keyed))
	for key, value := range keyed {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("bad candidate key %q", key)
		}
		votes[idx] = value
	}
	return votes, nil
}
