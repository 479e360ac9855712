package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/repository"
)

// fakeStore is an in-memory, mutex-guarded implementation of both
// SubmissionStore and GradeStore. Conditional updates hold the lock for
// the whole check-and-set, mirroring the single-statement semantics of
// the SQL repositories.
type fakeStore struct {
	mu          sync.Mutex
	order       []uuid.UUID
	submissions map[uuid.UUID]*domain.Submission
	grades      []*domain.Grade
}

func newFakeStore() *fakeStore {
	return &fakeStore{submissions: make(map[uuid.UUID]*domain.Submission)}
}

func (f *fakeStore) Create(_ context.Context, submission *domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission.ID = uuid.New()
	now := time.Now()
	submission.CreatedAt = now
	submission.EditedAt = now
	if submission.SubmissionTime.IsZero() {
		submission.SubmissionTime = now
	}
	f.submissions[submission.ID] = submission
	f.order = append(f.order, submission.ID)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission, ok := f.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return submission, nil
}

func (f *fakeStore) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission, ok := f.submissions[id]
	if !ok || submission.State != domain.SubmissionStateWaiting {
		return false, nil
	}
	submission.State = domain.SubmissionStateBeingGraded
	submission.EditedAt = time.Now()
	return true, nil
}

func (f *fakeStore) RecordOutcome(
	_ context.Context,
	id uuid.UUID,
	state domain.SubmissionState,
	previousGraderType, nextGraderType domain.GraderType,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission, ok := f.submissions[id]
	if !ok || submission.State != domain.SubmissionStateBeingGraded {
		return false, nil
	}
	submission.State = state
	submission.PreviousGraderType = previousGraderType
	submission.NextGraderType = nextGraderType
	submission.EditedAt = time.Now()
	return true, nil
}

func (f *fakeStore) Rollback(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission, ok := f.submissions[id]
	if !ok {
		return repository.ErrNotFound
	}
	submission.State = domain.SubmissionStateWaiting
	submission.PostedResults = false
	submission.EditedAt = time.Now()
	return nil
}

func (f *fakeStore) MarkPosted(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission, ok := f.submissions[id]
	if !ok {
		return repository.ErrNotFound
	}
	submission.PostedResults = true
	submission.EditedAt = time.Now()
	return nil
}

func (f *fakeStore) PeerCandidates(
	_ context.Context,
	location string,
	graderType domain.GraderType,
	graderID string,
	limit int,
) ([]domain.PeerCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var candidates []domain.PeerCandidate
	times := make(map[uuid.UUID]time.Time)
	for _, id := range f.order {
		submission := f.submissions[id]
		if !f.eligibleLocked(submission, location, graderType, graderID) {
			continue
		}
		candidates = append(candidates, domain.PeerCandidate{
			SubmissionID: id,
			ReviewCount:  f.countPeerLocked(id),
		})
		times[id] = submission.SubmissionTime
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ReviewCount != candidates[j].ReviewCount {
			return candidates[i].ReviewCount < candidates[j].ReviewCount
		}
		return times[candidates[i].SubmissionID].Before(times[candidates[j].SubmissionID])
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (f *fakeStore) FirstEligible(
	_ context.Context,
	location string,
	graderType domain.GraderType,
	graderID string,
) (*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var best *domain.Submission
	for _, id := range f.order {
		submission := f.submissions[id]
		if !f.eligibleLocked(submission, location, graderType, graderID) {
			continue
		}
		if best == nil || submission.SubmissionTime.Before(best.SubmissionTime) {
			best = submission
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

func (f *fakeStore) DistinctLocations(_ context.Context, courseID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	var locations []string
	for _, id := range f.order {
		submission := f.submissions[id]
		if submission.CourseID != courseID || seen[submission.Location] {
			continue
		}
		seen[submission.Location] = true
		locations = append(locations, submission.Location)
	}
	sort.Strings(locations)
	return locations, nil
}

func (f *fakeStore) InstructorActivity(_ context.Context, location string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	graded, pending := 0, 0
	for _, submission := range f.submissions {
		if submission.Location != location {
			continue
		}
		if submission.PreviousGraderType == domain.GraderTypeInstructor &&
			submission.State == domain.SubmissionStateFinalized {
			graded++
		}
		if submission.NextGraderType == domain.GraderTypeInstructor &&
			(submission.State == domain.SubmissionStateWaiting || submission.State == domain.SubmissionStateBeingGraded) {
			pending++
		}
	}
	return graded, pending, nil
}

func (f *fakeStore) FinalizedUnposted(_ context.Context, limit int) ([]*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var submissions []*domain.Submission
	for _, id := range f.order {
		submission := f.submissions[id]
		if submission.State == domain.SubmissionStateFinalized && !submission.PostedResults {
			submissions = append(submissions, submission)
			if len(submissions) == limit {
				break
			}
		}
	}
	return submissions, nil
}

func (f *fakeStore) CreateGrade(_ context.Context, grade *domain.Grade) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	grade.ID = uuid.New()
	grade.CreatedAt = time.Now().Add(time.Duration(len(f.grades)) * time.Millisecond)
	f.grades = append(f.grades, grade)
	return nil
}

func (f *fakeStore) ListBySubmission(_ context.Context, submissionID uuid.UUID) ([]*domain.Grade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var grades []*domain.Grade
	for _, grade := range f.grades {
		if grade.SubmissionID == submissionID {
			grades = append(grades, grade)
		}
	}
	return grades, nil
}

func (f *fakeStore) SuccessfulPeerGraderIDs(_ context.Context, submissionID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	var graderIDs []string
	for _, grade := range f.grades {
		if grade.SubmissionID == submissionID &&
			grade.Status == domain.GraderStatusSuccess &&
			grade.GraderType.IsPeer() && !seen[grade.GraderID] {
			seen[grade.GraderID] = true
			graderIDs = append(graderIDs, grade.GraderID)
		}
	}
	return graderIDs, nil
}

func (f *fakeStore) CountSuccessfulPeer(_ context.Context, submissionID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countPeerLocked(submissionID), nil
}

func (f *fakeStore) HasSuccessfulGrade(
	_ context.Context,
	submissionID uuid.UUID,
	graderID string,
	graderType domain.GraderType,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, grade := range f.grades {
		if grade.SubmissionID == submissionID &&
			grade.GraderID == graderID &&
			grade.GraderType == graderType &&
			grade.Status == domain.GraderStatusSuccess {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LatestSuccessful(
	_ context.Context,
	submissionID uuid.UUID,
	graderTypes ...domain.GraderType,
) (*domain.Grade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.grades) - 1; i >= 0; i-- {
		grade := f.grades[i]
		if grade.SubmissionID != submissionID || grade.Status != domain.GraderStatusSuccess {
			continue
		}
		if len(graderTypes) == 0 {
			return grade, nil
		}
		for _, graderType := range graderTypes {
			if grade.GraderType == graderType {
				return grade, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) eligibleLocked(
	submission *domain.Submission,
	location string,
	graderType domain.GraderType,
	graderID string,
) bool {
	if submission.Location != location ||
		submission.State != domain.SubmissionStateWaiting ||
		submission.NextGraderType != graderType ||
		submission.StudentID == graderID {
		return false
	}
	for _, grade := range f.grades {
		if grade.SubmissionID == submission.ID &&
			grade.GraderID == graderID &&
			grade.Status == domain.GraderStatusSuccess {
			return false
		}
	}
	return true
}

func (f *fakeStore) countPeerLocked(submissionID uuid.UUID) int {
	count := 0
	for _, grade := range f.grades {
		if grade.SubmissionID == submissionID &&
			grade.Status == domain.GraderStatusSuccess &&
			grade.GraderType.IsPeer() {
			count++
		}
	}
	return count
}

// fakeGrades adapts fakeStore to the GradeStore interface, whose Create
// collides with SubmissionStore's.
type fakeGrades struct {
	*fakeStore
}

func (f fakeGrades) Create(ctx context.Context, grade *domain.Grade) error {
	return f.CreateGrade(ctx, grade)
}
