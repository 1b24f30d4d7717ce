package comparison

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Repository stores comparison reports as msgpack blobs
// Database: cache.db (reports table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new report repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "comparison").Logger(),
	}
}

// Save stores a report, replacing any report with the same ID
func (r *Repository) Save(report *Report) error {
	if report.ID == "" {
		return fmt.Errorf("report ID is required")
	}

	payload, err := msgpack.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT OR REPLACE INTO reports (id, election_id, created_at, payload)
		VALUES (?, ?, ?, ?)
	`, report.ID, report.ElectionID, report.CreatedAt.UnixNano(), payload)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	r.log.Debug().
		Str("report_id", report.ID).
		Str("election_id", report.ElectionID).
		Int("bytes", len(payload)).
		Msg("Report saved")
	return nil
}

// Get returns a report by ID
func (r *Repository) Get(id string) (*Report, error) {
	return r.scanOne(r.db.QueryRow("SELECT payload FROM reports WHERE id = ?", id), id)
}

// Latest returns the most recent report of an election
func (r *Repository) Latest(electionID string) (*Report, error) {
	row := r.db.QueryRow(`
		SELECT payload FROM reports
		WHERE election_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, electionID)
	return r.scanOne(row, "latest for election "+electionID)
}

func (r *Repository) scanOne(row *sql.Row, what string) (*Report, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, what)
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	return decodeReport(payload)
}

// ListByElection returns an election's reports, newest first
func (r *Repository) ListByElection(electionID string) ([]ReportInfo, error) {
	rows, err := r.db.Query(`
		SELECT id, election_id, created_at FROM reports
		WHERE election_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]ReportInfo, 0)
	for rows.Next() {
		var info ReportInfo
		var createdAt int64
		if err := rows.Scan(&info.ID, &info.ElectionID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		info.CreatedAt = time.Unix(0, createdAt).UTC()
		reports = append(reports, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

// ElectionIDs returns every election that has at least one report
func (r *Repository) ElectionIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT election_id FROM reports ORDER BY election_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query report elections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan election ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report elections: %w", err)
	}
	return ids, nil
}

// Prune keeps the newest keep reports of an election and deletes the rest
func (r *Repository) Prune(electionID string, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	result, err := r.db.Exec(`
		DELETE FROM reports
		WHERE election_id = ?
		AND id NOT IN (
			SELECT id FROM reports
			WHERE election_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
	`, electionID, electionID, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByElection removes every report of an election
func (r *Repository) DeleteByElection(electionID string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM reports WHERE election_id = ?", electionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	return result.RowsAffected()
}

func decodeReport(payload []byte) (*Report, error) {
	var report Report
	if err := msgpack.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	report.CreatedAt = report.CreatedAt.UTC()
	return &report, nil
}
