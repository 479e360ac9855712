package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"grading_service/internal/domain"
)

var (
	// ErrNotFound means the referenced submission does not exist.
	ErrNotFound = errors.New("submission not found")
	// ErrNoneAvailable is the normal empty-pool result of a claim: nothing
	// eligible to grade right now. Callers must not treat it as a failure.
	ErrNoneAvailable = errors.New("no submission available")
	// ErrDuplicateGrade rejects a repeated grade from the same grader and
	// grader type on one submission.
	ErrDuplicateGrade = errors.New("duplicate grade for submission")
)

// ValidationError reports exactly which payload keys are missing or
// invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// SubmissionStore is the durable submission table. Claim and RecordOutcome
// are conditional single-statement updates, which is what keeps concurrent
// claimers from both winning.
type SubmissionStore interface {
	Create(ctx context.Context, submission *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	RecordOutcome(ctx context.Context, id uuid.UUID, state domain.SubmissionState, previousGraderType, nextGraderType domain.GraderType) (bool, error)
	Rollback(ctx context.Context, id uuid.UUID) error
	MarkPosted(ctx context.Context, id uuid.UUID) error
	PeerCandidates(ctx context.Context, location string, graderType domain.GraderType, graderID string, limit int) ([]domain.PeerCandidate, error)
	FirstEligible(ctx context.Context, location string, graderType domain.GraderType, graderID string) (*domain.Submission, error)
	DistinctLocations(ctx context.Context, courseID string) ([]string, error)
	InstructorActivity(ctx context.Context, location string) (graded int, pending int, err error)
	FinalizedUnposted(ctx context.Context, limit int) ([]*domain.Submission, error)
}

// GradeStore is the append-only grading ledger.
type GradeStore interface {
	Create(ctx context.Context, grade *domain.Grade) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*domain.Grade, error)
	SuccessfulPeerGraderIDs(ctx context.Context, submissionID uuid.UUID) ([]string, error)
	CountSuccessfulPeer(ctx context.Context, submissionID uuid.UUID) (int, error)
	HasSuccessfulGrade(ctx context.Context, submissionID uuid.UUID, graderID string, graderType domain.GraderType) (bool, error)
	LatestSuccessful(ctx context.Context, submissionID uuid.UUID, graderTypes ...domain.GraderType) (*domain.Grade, error)
}

// EventProducer publishes grading lifecycle events.
type EventProducer interface {
	Send(ctx context.Context, topic string, key string, message interface{}) error
}
