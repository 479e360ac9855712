package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"grading_service/internal/domain"
	"grading_service/internal/repository"
	"grading_service/internal/xqueue"
	"grading_service/pkg/logger"
	"grading_service/pkg/retry"
)

// QueueClient is the producer side of the external queue exchange.
type QueueClient interface {
	PutResult(ctx context.Context, header, body string) error
}

// ResultsService posts finalized grading results back to the external
// queue and flips the posted flag on success.
type ResultsService struct {
	submissions SubmissionStore
	grades      GradeStore
	queue       QueueClient
	breaker     *retry.CircuitBreaker
	log         *logger.Logger
}

func NewResultsService(
	submissions SubmissionStore,
	grades GradeStore,
	queue QueueClient,
	log *logger.Logger,
) *ResultsService {
	return &ResultsService{
		submissions: submissions,
		grades:      grades,
		queue:       queue,
		breaker:     retry.NewCircuitBreaker(5, 30*time.Second),
		log:         log,
	}
}

// PostPending posts up to limit unposted finalized submissions. Returns
// how many were posted; transient queue failures stop the batch early and
// leave the rest for the next pass.
func (s *ResultsService) PostPending(ctx context.Context, limit int) (int, error) {
	submissions, err := s.submissions.FinalizedUnposted(ctx, limit)
	if err != nil {
		return 0, err
	}

	posted := 0
	for _, submission := range submissions {
		if err := s.postOne(ctx, submission); err != nil {
			if retry.IsRetriable(err) {
				return posted, err
			}
			s.log.Errorf("Failed to post results for submission %s: %v", submission.ID, err)
			continue
		}
		posted++
	}

	return posted, nil
}

func (s *ResultsService) postOne(ctx context.Context, submission *domain.Submission) error {
	grade, err := s.grades.LatestSuccessful(ctx, submission.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			// Finalized without any successful grade only happens after
			// manual intervention; report failure back to the queue.
			return s.putAndMark(ctx, submission, xqueue.ComposeReply(false, "no successful grade recorded"))
		}
		return err
	}

	content, err := json.Marshal(map[string]interface{}{
		"score":       grade.Score,
		"feedback":    grade.Feedback,
		"grader_type": grade.GraderType,
	})
	if err != nil {
		return err
	}

	return s.putAndMark(ctx, submission, xqueue.ComposeReply(true, string(content)))
}

func (s *ResultsService) putAndMark(ctx context.Context, submission *domain.Submission, body string) error {
	header, err := json.Marshal(map[string]string{
		"submission_id":  submission.QueueSubmissionID,
		"submission_key": submission.QueueSubmissionKey,
	})
	if err != nil {
		return err
	}

	_, err = retry.WithCircuitBreaker(ctx, s.breaker, 3, 500*time.Millisecond, func() (struct{}, error) {
		return struct{}{}, s.queue.PutResult(ctx, string(header), body)
	})
	if err != nil {
		return err
	}

	if err := s.submissions.MarkPosted(ctx, submission.ID); err != nil {
		return err
	}

	s.log.Info("posted results to queue",
		zap.String("submission_id", submission.ID.String()),
		zap.String("queue_submission_id", submission.QueueSubmissionID),
	)
	return nil
}
