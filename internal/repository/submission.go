package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"grading_service/internal/domain"
)

var ErrNotFound = errors.New("not found")

const submissionColumns = `
	id, queue_submission_id, queue_submission_key, queue_name, location,
	course_id, student_id, student_response, submission_time, state,
	previous_grader_type, next_grader_type, posted_results, created_at, edited_at
`

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		submission.QueueSubmissionID,
		submission.QueueSubmissionKey,
		submission.QueueName,
		submission.Location,
		submission.CourseID,
		submission.StudentID,
		submission.StudentResponse,
		submission.SubmissionTime,
		submission.State,
		submission.PreviousGraderType,
		submission.NextGraderType,
		submission.PostedResults,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	submission.ID = id
	submission.CreatedAt = now
	submission.EditedAt = now
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// Claim transitions a submission from waiting to being-graded. The state
// check and the update run as one statement, so of N concurrent claimers
// exactly one sees true.
func (r *SubmissionRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE submissions
		SET state = $1, edited_at = $2
		WHERE id = $3 AND state = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.SubmissionStateBeingGraded,
		time.Now(),
		id,
		domain.SubmissionStateWaiting,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// RecordOutcome applies the post-grading routing to a submission, but only
// if it is still being graded. A false return means the row moved under us
// (an administrative rollback won the race) and was left untouched.
func (r *SubmissionRepository) RecordOutcome(
	ctx context.Context,
	id uuid.UUID,
	state domain.SubmissionState,
	previousGraderType, nextGraderType domain.GraderType,
) (bool, error) {
	query := `
		UPDATE submissions
		SET state = $1, previous_grader_type = $2, next_grader_type = $3, edited_at = $4
		WHERE id = $5 AND state = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		state,
		previousGraderType,
		nextGraderType,
		time.Now(),
		id,
		domain.SubmissionStateBeingGraded,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record outcome: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// Rollback unconditionally returns a submission to the waiting pool and
// clears the posted-results flag.
func (r *SubmissionRepository) Rollback(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE submissions
		SET state = $1, posted_results = FALSE, edited_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, domain.SubmissionStateWaiting, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to rollback submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SubmissionRepository) MarkPosted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE submissions SET posted_results = TRUE, edited_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark submission posted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// PeerCandidates returns the least-reviewed eligible submissions at a
// location, ascending by count of prior successful peer reviews. The
// requester's own work and anything they already graded are filtered out.
func (r *SubmissionRepository) PeerCandidates(
	ctx context.Context,
	location string,
	graderType domain.GraderType,
	graderID string,
	limit int,
) ([]domain.PeerCandidate, error) {
	query := `
		SELECT s.id, COUNT(g.id) AS review_count
		FROM submissions s
		LEFT JOIN grades g ON g.submission_id = s.id
			AND g.status = $1 AND g.grader_type IN ($2, $3)
		WHERE s.location = $4
		  AND s.state = $5
		  AND s.next_grader_type = $6
		  AND s.student_id <> $7
		  AND NOT EXISTS (
			SELECT 1 FROM grades pg
			WHERE pg.submission_id = s.id
			  AND pg.grader_id = $7
			  AND pg.status = $1
		  )
		GROUP BY s.id
		ORDER BY review_count ASC, s.submission_time ASC
		LIMIT $8
	`

	rows, err := r.db.QueryContext(ctx, query,
		domain.GraderStatusSuccess,
		domain.GraderTypePeer,
		domain.GraderTypeBackupPeer,
		location,
		domain.SubmissionStateWaiting,
		graderType,
		graderID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query peer candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []domain.PeerCandidate
	for rows.Next() {
		var c domain.PeerCandidate
		if err := rows.Scan(&c.SubmissionID, &c.ReviewCount); err != nil {
			return nil, fmt.Errorf("failed to scan peer candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return candidates, nil
}

// FirstEligible returns one waiting submission at a location routed to the
// given grader type, skipping the requester's own work and anything they
// already graded successfully.
func (r *SubmissionRepository) FirstEligible(
	ctx context.Context,
	location string,
	graderType domain.GraderType,
	graderID string,
) (*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		WHERE s.location = $1
		  AND s.state = $2
		  AND s.next_grader_type = $3
		  AND s.student_id <> $4
		  AND NOT EXISTS (
			SELECT 1 FROM grades pg
			WHERE pg.submission_id = s.id
			  AND pg.grader_id = $4
			  AND pg.status = $5
		  )
		ORDER BY s.submission_time ASC
		LIMIT 1
	`

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query,
		location,
		domain.SubmissionStateWaiting,
		graderType,
		graderID,
		domain.GraderStatusSuccess,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query eligible submission: %w", err)
	}

	return submission, nil
}

func (r *SubmissionRepository) DistinctLocations(ctx context.Context, courseID string) ([]string, error) {
	query := `SELECT DISTINCT location FROM submissions WHERE course_id = $1 ORDER BY location`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []string
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return locations, nil
}

// InstructorActivity counts instructor-finalized and pending-instructor
// submissions at a location. The selector compares the sum against the
// configured threshold.
func (r *SubmissionRepository) InstructorActivity(ctx context.Context, location string) (graded int, pending int, err error) {
	gradedQuery := `
		SELECT COUNT(*) FROM submissions
		WHERE location = $1 AND previous_grader_type = $2 AND state = $3
	`
	err = r.db.QueryRowContext(ctx, gradedQuery,
		location, domain.GraderTypeInstructor, domain.SubmissionStateFinalized,
	).Scan(&graded)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count instructor-graded submissions: %w", err)
	}

	pendingQuery := `
		SELECT COUNT(*) FROM submissions
		WHERE location = $1 AND next_grader_type = $2 AND state IN ($3, $4)
	`
	err = r.db.QueryRowContext(ctx, pendingQuery,
		location, domain.GraderTypeInstructor,
		domain.SubmissionStateBeingGraded, domain.SubmissionStateWaiting,
	).Scan(&pending)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count pending-instructor submissions: %w", err)
	}

	return graded, pending, nil
}

// FinalizedUnposted lists finalized submissions whose results have not yet
// been posted back to the queue.
func (r *SubmissionRepository) FinalizedUnposted(ctx context.Context, limit int) ([]*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE state = $1 AND posted_results = FALSE
		ORDER BY edited_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, domain.SubmissionStateFinalized, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unposted submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var submissions []*domain.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return submissions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	err := row.Scan(
		&s.ID,
		&s.QueueSubmissionID,
		&s.QueueSubmissionKey,
		&s.QueueName,
		&s.Location,
		&s.CourseID,
		&s.StudentID,
		&s.StudentResponse,
		&s.SubmissionTime,
		&s.State,
		&s.PreviousGraderType,
		&s.NextGraderType,
		&s.PostedResults,
		&s.CreatedAt,
		&s.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
