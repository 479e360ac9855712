package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"grading_service/internal/domain"
	"grading_service/internal/repository"
	"grading_service/pkg/logger"
)

// peerCandidateWindow bounds the peer selection scan to the least-reviewed
// submissions. Eligible rows outside the window are not considered even
// when every candidate inside it is excluded; widening the window trades
// load for fairness.
const peerCandidateWindow = 50

type SelectorService struct {
	submissions         SubmissionStore
	grades              GradeStore
	instructorThreshold int
	log                 *logger.Logger
}

func NewSelectorService(
	submissions SubmissionStore,
	grades GradeStore,
	instructorThreshold int,
	log *logger.Logger,
) *SelectorService {
	return &SelectorService{
		submissions:         submissions,
		grades:              grades,
		instructorThreshold: instructorThreshold,
		log:                 log,
	}
}

// ClaimNext atomically claims one submission eligible for grading by the
// given grader type at a location. Returns ErrNoneAvailable when the pool
// is empty, which is an expected outcome of concurrent polling, not a
// failure.
func (s *SelectorService) ClaimNext(
	ctx context.Context,
	location string,
	graderType domain.GraderType,
	requesterID string,
) (*domain.Submission, error) {
	if !graderType.IsValid() {
		return nil, &ValidationError{Fields: []string{"grader_type"}}
	}
	if requesterID == "" {
		return nil, &ValidationError{Fields: []string{"requester_id"}}
	}

	if graderType.IsPeer() {
		return s.claimPeer(ctx, location, graderType, requesterID)
	}
	return s.claimFirstEligible(ctx, location, graderType, requesterID)
}

// ClaimNextForCourse claims one submission for an instructor anywhere in a
// course. A location is skipped once its combined instructor-graded and
// pending-instructor count reaches the threshold: enough human grades
// exist there to train the machine grader.
func (s *SelectorService) ClaimNextForCourse(
	ctx context.Context,
	courseID string,
	requesterID string,
) (*domain.Submission, error) {
	if requesterID == "" {
		return nil, &ValidationError{Fields: []string{"requester_id"}}
	}

	locations, err := s.submissions.DistinctLocations(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for _, location := range locations {
		graded, pending, err := s.submissions.InstructorActivity(ctx, location)
		if err != nil {
			return nil, err
		}
		if graded+pending >= s.instructorThreshold {
			continue
		}

		submission, err := s.claimFirstEligible(ctx, location, domain.GraderTypeInstructor, requesterID)
		if errors.Is(err, ErrNoneAvailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return submission, nil
	}

	return nil, ErrNoneAvailable
}

// claimPeer implements the load-balanced peer selection: take the
// least-reviewed candidates, scan them in ascending review-count order,
// re-check each against its successful grader set, and claim the first
// that passes. Excluded or lost candidates are popped without re-sorting
// the remainder.
func (s *SelectorService) claimPeer(
	ctx context.Context,
	location string,
	graderType domain.GraderType,
	requesterID string,
) (*domain.Submission, error) {
	candidates, err := s.submissions.PeerCandidates(ctx, location, graderType, requesterID, peerCandidateWindow)
	if err != nil {
		return nil, err
	}

	for len(candidates) > 0 {
		candidate := candidates[0]
		candidates = candidates[1:]

		// Review counts and grader history can diverge under concurrent
		// writes, so re-check the requester against the live grader set.
		previousGraders, err := s.grades.SuccessfulPeerGraderIDs(ctx, candidate.SubmissionID)
		if err != nil {
			return nil, err
		}
		if containsString(previousGraders, requesterID) {
			continue
		}

		claimed, err := s.submissions.Claim(ctx, candidate.SubmissionID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			// Another requester got there first; treat like an exclusion.
			continue
		}

		submission, err := s.submissions.GetByID(ctx, candidate.SubmissionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		s.log.Info("claimed submission for peer grading",
			zap.String("submission_id", submission.ID.String()),
			zap.String("location", location),
			zap.String("grader_id", requesterID),
			zap.Int("review_count", candidate.ReviewCount),
		)
		return submission, nil
	}

	return nil, ErrNoneAvailable
}

func (s *SelectorService) claimFirstEligible(
	ctx context.Context,
	location string,
	graderType domain.GraderType,
	requesterID string,
) (*domain.Submission, error) {
	for {
		submission, err := s.submissions.FirstEligible(ctx, location, graderType, requesterID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNoneAvailable
			}
			return nil, err
		}

		claimed, err := s.submissions.Claim(ctx, submission.ID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			// Lost the race on this row; the next query no longer sees it.
			continue
		}

		submission.State = domain.SubmissionStateBeingGraded

		s.log.Info("claimed submission",
			zap.String("submission_id", submission.ID.String()),
			zap.String("location", location),
			zap.String("grader_type", string(graderType)),
			zap.String("grader_id", requesterID),
		)
		return submission, nil
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
