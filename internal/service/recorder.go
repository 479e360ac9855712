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

// GradePayload is a grading result produced by any grader type.
type GradePayload struct {
	SubmissionID uuid.UUID
	Score        int
	Feedback     string
	Status       domain.GraderStatus
	GraderID     string
	GraderType   domain.GraderType
	Confidence   float64
}

type RecorderService struct {
	submissions SubmissionStore
	grades      GradeStore
	events      EventProducer
	routing     RoutingPolicy
	topic       string
	log         *logger.Logger
}

func NewRecorderService(
	submissions SubmissionStore,
	grades GradeStore,
	events EventProducer,
	routing RoutingPolicy,
	topic string,
	log *logger.Logger,
) *RecorderService {
	return &RecorderService{
		submissions: submissions,
		grades:      grades,
		events:      events,
		routing:     routing,
		topic:       topic,
		log:         log,
	}
}

// RecordGrade appends a grading attempt to the ledger and routes the
// submission to its next stage. Returns the external reference pair for
// queue correlation.
func (s *RecorderService) RecordGrade(ctx context.Context, payload GradePayload) (*domain.ExternalRef, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	submission, err := s.submissions.GetByID(ctx, payload.SubmissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	duplicate, err := s.grades.HasSuccessfulGrade(ctx, payload.SubmissionID, payload.GraderID, payload.GraderType)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateGrade
	}

	grade := &domain.Grade{
		SubmissionID: payload.SubmissionID,
		Score:        payload.Score,
		Feedback:     payload.Feedback,
		Status:       payload.Status,
		GraderID:     payload.GraderID,
		GraderType:   payload.GraderType,
		Confidence:   payload.Confidence,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, err
	}

	successfulPeers := 0
	if payload.GraderType.IsPeer() && payload.Status == domain.GraderStatusSuccess {
		successfulPeers, err = s.grades.CountSuccessfulPeer(ctx, payload.SubmissionID)
		if err != nil {
			return nil, err
		}
	}

	outcome := s.routing.Route(payload.GraderType, payload.Status, successfulPeers)

	applied, err := s.submissions.RecordOutcome(ctx, submission.ID, outcome.State, payload.GraderType, outcome.NextGraderType)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A rollback committed between the claim and this grade. The
		// ledger entry stays; the submission keeps its rolled-back state.
		s.log.Warn("submission state changed during grading, outcome not applied",
			zap.String("submission_id", submission.ID.String()),
			zap.String("grader_id", payload.GraderID),
		)
	}

	s.publishEvents(ctx, submission, grade, outcome, applied)

	return &domain.ExternalRef{
		QueueSubmissionID:  submission.QueueSubmissionID,
		QueueSubmissionKey: submission.QueueSubmissionKey,
	}, nil
}

func (s *RecorderService) publishEvents(
	ctx context.Context,
	submission *domain.Submission,
	grade *domain.Grade,
	outcome RouteOutcome,
	applied bool,
) {
	event := map[string]interface{}{
		"event":         "grade.recorded",
		"submission_id": submission.ID,
		"grader_id":     grade.GraderID,
		"grader_type":   grade.GraderType,
		"status":        grade.Status,
		"score":         grade.Score,
	}
	if err := s.events.Send(ctx, s.topic, submission.ID.String(), event); err != nil {
		s.log.Errorf("Failed to publish grade.recorded for submission %s: %v", submission.ID, err)
	}

	if !outcome.Finalized || !applied {
		return
	}

	finalized := map[string]interface{}{
		"event":         "submission.finalized",
		"submission_id": submission.ID,
		"location":      submission.Location,
		"course_id":     submission.CourseID,
		"grader_type":   grade.GraderType,
		"score":         grade.Score,
	}
	if err := s.events.Send(ctx, s.topic, submission.ID.String(), finalized); err != nil {
		s.log.Errorf("Failed to publish submission.finalized for submission %s: %v", submission.ID, err)
	}
}

func validatePayload(payload GradePayload) error {
	var missing []string
	if payload.SubmissionID == uuid.Nil {
		missing = append(missing, "submission_id")
	}
	if payload.GraderID == "" {
		missing = append(missing, "grader_id")
	}
	if !payload.GraderType.IsValid() {
		missing = append(missing, "grader_type")
	}
	if !payload.Status.IsValid() {
		missing = append(missing, "status")
	}
	if payload.Feedback == "" {
		missing = append(missing, "feedback")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
