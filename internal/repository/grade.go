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

// GradeRepository is the append-only ledger of grading attempts. Rows are
// never updated or deleted.
type GradeRepository struct {
	db *sql.DB
}

func NewGradeRepository(db *sql.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

func (r *GradeRepository) Create(ctx context.Context, grade *domain.Grade) error {
	query := `
		INSERT INTO grades
			(id, submission_id, score, feedback, status, grader_id, grader_type, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		grade.SubmissionID,
		grade.Score,
		grade.Feedback,
		grade.Status,
		grade.GraderID,
		grade.GraderType,
		grade.Confidence,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}

	grade.ID = id
	grade.CreatedAt = now
	return nil
}

func (r *GradeRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*domain.Grade, error) {
	query := `
		SELECT id, submission_id, score, feedback, status, grader_id, grader_type, confidence, created_at
		FROM grades
		WHERE submission_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var grades []*domain.Grade
	for rows.Next() {
		var g domain.Grade
		err := rows.Scan(
			&g.ID,
			&g.SubmissionID,
			&g.Score,
			&g.Feedback,
			&g.Status,
			&g.GraderID,
			&g.GraderType,
			&g.Confidence,
			&g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return grades, nil
}

// SuccessfulPeerGraderIDs lists the identities that have successfully
// peer-reviewed a submission. Used by the selector's defense-in-depth
// re-check before a claim.
func (r *GradeRepository) SuccessfulPeerGraderIDs(ctx context.Context, submissionID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT grader_id FROM grades
		WHERE submission_id = $1 AND status = $2 AND grader_type IN ($3, $4)
	`

	rows, err := r.db.QueryContext(ctx, query,
		submissionID,
		domain.GraderStatusSuccess,
		domain.GraderTypePeer,
		domain.GraderTypeBackupPeer,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query peer graders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var graderIDs []string
	for rows.Next() {
		var graderID string
		if err := rows.Scan(&graderID); err != nil {
			return nil, fmt.Errorf("failed to scan grader id: %w", err)
		}
		graderIDs = append(graderIDs, graderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return graderIDs, nil
}

func (r *GradeRepository) CountSuccessfulPeer(ctx context.Context, submissionID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM grades
		WHERE submission_id = $1 AND status = $2 AND grader_type IN ($3, $4)
	`

	var count int
	err := r.db.QueryRowContext(ctx, query,
		submissionID,
		domain.GraderStatusSuccess,
		domain.GraderTypePeer,
		domain.GraderTypeBackupPeer,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count peer grades: %w", err)
	}

	return count, nil
}

// HasSuccessfulGrade reports whether the grader already has a successful
// grade of the given type on the submission. Guards against duplicate
// record calls for the same claim.
func (r *GradeRepository) HasSuccessfulGrade(
	ctx context.Context,
	submissionID uuid.UUID,
	graderID string,
	graderType domain.GraderType,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM grades
			WHERE submission_id = $1 AND grader_id = $2 AND grader_type = $3 AND status = $4
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		submissionID, graderID, graderType, domain.GraderStatusSuccess,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate grade: %w", err)
	}

	return exists, nil
}

// LatestSuccessful returns the most recent successful grade on a
// submission from any of the given grader types, or all types when none
// are given.
func (r *GradeRepository) LatestSuccessful(
	ctx context.Context,
	submissionID uuid.UUID,
	graderTypes ...domain.GraderType,
) (*domain.Grade, error) {
	query := `
		SELECT id, submission_id, score, feedback, status, grader_id, grader_type, confidence, created_at
		FROM grades
		WHERE submission_id = $1 AND status = $2
	`
	args := []interface{}{submissionID, domain.GraderStatusSuccess}

	if len(graderTypes) > 0 {
		query += " AND grader_type IN ("
		for i, graderType := range graderTypes {
			if i > 0 {
				query += ", "
			}
			query += fmt.Sprintf("$%d", len(args)+1)
			args = append(args, graderType)
		}
		query += ")"
	}
	query += " ORDER BY created_at DESC LIMIT 1"

	var g domain.Grade
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&g.ID,
		&g.SubmissionID,
		&g.Score,
		&g.Feedback,
		&g.Status,
		&g.GraderID,
		&g.GraderType,
		&g.Confidence,
		&g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest grade: %w", err)
	}

	return &g, nil
}
