package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"grading_service/internal/domain"
	"grading_service/internal/xqueue"
	"grading_service/pkg/logger"
)

// IngestService turns normalized queue objects into submissions waiting
// for their first grading pass.
type IngestService struct {
	submissions SubmissionStore
	events      EventProducer
	firstGrader domain.GraderType
	topic       string
	log         *logger.Logger
}

func NewIngestService(
	submissions SubmissionStore,
	events EventProducer,
	firstGrader domain.GraderType,
	topic string,
	log *logger.Logger,
) *IngestService {
	return &IngestService{
		submissions: submissions,
		events:      events,
		firstGrader: firstGrader,
		topic:       topic,
		log:         log,
	}
}

type queueHeader struct {
	SubmissionID  json.Number `json:"submission_id"`
	SubmissionKey string      `json:"submission_key"`
	QueueName     string      `json:"queue_name"`
}

type queueBody struct {
	Location        string `json:"location"`
	CourseID        string `json:"course_id"`
	StudentID       string `json:"student_id"`
	StudentResponse string `json:"student_response"`
	SubmissionTime  string `json:"submission_time"`
}

// Ingest creates a submission from a queue object. The new row starts in
// the waiting state routed to the configured first grader stage.
func (s *IngestService) Ingest(ctx context.Context, obj *xqueue.QueueObject) (*domain.Submission, error) {
	var header queueHeader
	if err := json.Unmarshal([]byte(obj.Header), &header); err != nil {
		return nil, fmt.Errorf("malformed queue header: %w", err)
	}
	var body queueBody
	if err := json.Unmarshal([]byte(obj.Body), &body); err != nil {
		return nil, fmt.Errorf("malformed queue body: %w", err)
	}

	var missing []string
	if header.SubmissionID.String() == "" {
		missing = append(missing, "submission_id")
	}
	if header.SubmissionKey == "" {
		missing = append(missing, "submission_key")
	}
	if body.Location == "" {
		missing = append(missing, "location")
	}
	if body.StudentID == "" {
		missing = append(missing, "student_id")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	submissionTime := time.Now()
	if body.SubmissionTime != "" {
		if parsed, err := time.Parse(time.RFC3339, body.SubmissionTime); err == nil {
			submissionTime = parsed
		}
	}

	submission := &domain.Submission{
		QueueSubmissionID:  header.SubmissionID.String(),
		QueueSubmissionKey: header.SubmissionKey,
		QueueName:          header.QueueName,
		Location:           body.Location,
		CourseID:           body.CourseID,
		StudentID:          body.StudentID,
		StudentResponse:    body.StudentResponse,
		SubmissionTime:     submissionTime,
		State:              domain.SubmissionStateWaiting,
		NextGraderType:     s.firstGrader,
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.log.Info("submission ingested",
		zap.String("submission_id", submission.ID.String()),
		zap.String("location", submission.Location),
		zap.String("queue_submission_id", submission.QueueSubmissionID),
	)

	event := map[string]interface{}{
		"event":         "submission.ingested",
		"submission_id": submission.ID,
		"location":      submission.Location,
		"course_id":     submission.CourseID,
	}
	if err := s.events.Send(ctx, s.topic, submission.ID.String(), event); err != nil {
		s.log.Errorf("Failed to publish submission.ingested for submission %s: %v", submission.ID, err)
	}

	return submission, nil
}
