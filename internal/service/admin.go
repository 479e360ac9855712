package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grading_service/internal/domain"
	"grading_service/internal/repository"
	"grading_service/pkg/logger"
)

// AdminService hosts the corrective and diagnostic operations used by
// operational tooling.
type AdminService struct {
	submissions SubmissionStore
	grades      GradeStore
	log         *logger.Logger
}

func NewAdminService(submissions SubmissionStore, grades GradeStore, log *logger.Logger) *AdminService {
	return &AdminService{
		submissions: submissions,
		grades:      grades,
		log:         log,
	}
}

// Rollback forces a submission back to the waiting pool and clears the
// posted-results flag. Idempotent: rolling back a waiting submission is a
// no-op that still succeeds. When racing an in-flight claim, whichever
// write commits last wins; both orders leave a legal state.
func (s *AdminService) Rollback(ctx context.Context, id uuid.UUID) error {
	if err := s.submissions.Rollback(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.log.Info("submission rolled back to waiting pool",
		zap.String("submission_id", id.String()),
	)
	return nil
}

// Inspect returns a read-only snapshot of a submission, including the
// last successful instructor score and feedback when present. Never
// mutates.
func (s *AdminService) Inspect(ctx context.Context, id uuid.UUID) (*domain.SubmissionSnapshot, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	snapshot := &domain.SubmissionSnapshot{
		ID:             submission.ID,
		CourseID:       submission.CourseID,
		StudentID:      submission.StudentID,
		Location:       submission.Location,
		State:          submission.State,
		Response:       submission.StudentResponse,
		SubmissionTime: submission.SubmissionTime,
		PostedResults:  submission.PostedResults,
		CreatedAt:      submission.CreatedAt,
		EditedAt:       submission.EditedAt,
	}

	grade, err := s.grades.LatestSuccessful(ctx, id, domain.GraderTypeInstructor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return snapshot, nil
		}
		return nil, err
	}

	score := grade.Score
	feedback := grade.FeedbackText()
	snapshot.LastScore = &score
	snapshot.LastFeedback = &feedback
	return snapshot, nil
}
