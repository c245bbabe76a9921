package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission kinds.
const (
	KindSingle = "single"
	KindBatch  = "batch"
)

// Submission statuses.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Submission is one recorded upload attempt.
type Submission struct {
	ID           string
	Kind         string
	Filenames    []string
	Status       string
	SoftScore    float64
	Sessions     int
	HardErrors   int
	SoftDetails  int
	Token        string
	ErrorMessage string
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// CreateSubmission records a new pending submission and returns its id.
func (s *Store) CreateSubmission(kind string, filenames []string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO submissions (id, kind, filenames, status)
		VALUES (?, ?, ?, ?)
	`, id, kind, strings.Join(filenames, ","), StatusPending)
	if err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}
	return id, nil
}

// CompleteSubmission marks a submission done with its result metrics.
// Batch submissions have no score or token; zero values are stored.
func (s *Store) CompleteSubmission(id string, softScore float64, sessions, hardErrors, softDetails int, token string) error {
	_, err := s.db.Exec(`
		UPDATE submissions SET
			status = ?,
			soft_score = ?,
			sessions = ?,
			hard_errors = ?,
			soft_details = ?,
			token = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusDone, softScore, sessions, hardErrors, softDetails, token, id)
	if err != nil {
		return fmt.Errorf("failed to complete submission: %w", err)
	}
	return nil
}

// FailSubmission marks a submission failed with the user-visible message.
func (s *Store) FailSubmission(id, message string) error {
	_, err := s.db.Exec(`
		UPDATE submissions SET
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, message, id)
	if err != nil {
		return fmt.Errorf("failed to fail submission: %w", err)
	}
	return nil
}

// RecentSubmissions lists the latest n submissions, newest first.
func (s *Store) RecentSubmissions(n int) ([]Submission, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, filenames, status,
		       COALESCE(soft_score, 0), COALESCE(sessions, 0),
		       COALESCE(hard_errors, 0), COALESCE(soft_details, 0),
		       COALESCE(token, ''), COALESCE(error_message, ''),
		       created_at, completed_at
		FROM submissions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var filenames string
		var completedAt sql.NullTime
		if err := rows.Scan(
			&sub.ID, &sub.Kind, &filenames, &sub.Status,
			&sub.SoftScore, &sub.Sessions, &sub.HardErrors, &sub.SoftDetails,
			&sub.Token, &sub.ErrorMessage,
			&sub.CreatedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if filenames != "" {
			sub.Filenames = strings.Split(filenames, ",")
		}
		if completedAt.Valid {
			sub.CompletedAt = completedAt.Time
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
