package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grading_service/internal/domain"
	"grading_service/internal/repository"
	"grading_service/internal/service"
	"grading_service/internal/service/mocks"
	"grading_service/internal/testutils"
	"grading_service/pkg/logger"
)

const eventsTopic = "grading.events"

type recorderFixture struct {
	ctrl        *gomock.Controller
	submissions *mocks.MockSubmissionStore
	grades      *mocks.MockGradeStore
	events      *testutils.MockEventProducer
	recorder    *service.RecorderService
}

func newRecorderFixture(t *testing.T, requiredPeerGrades int) *recorderFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &recorderFixture{
		ctrl:        ctrl,
		submissions: mocks.NewMockSubmissionStore(ctrl),
		grades:      mocks.NewMockGradeStore(ctrl),
		events:      new(testutils.MockEventProducer),
	}
	f.recorder = service.NewRecorderService(
		f.submissions,
		f.grades,
		f.events,
		service.NewRoutingPolicy(requiredPeerGrades),
		eventsTopic,
		logger.New(),
	)
	f.events.On("Send", mock.Anything, eventsTopic, mock.Anything, mock.Anything).Return(nil)
	return f
}

func validPayload(submissionID uuid.UUID, graderType domain.GraderType) service.GradePayload {
	return service.GradePayload{
		SubmissionID: submissionID,
		Score:        1,
		Feedback:     `{"feedback": "well argued"}`,
		Status:       domain.GraderStatusSuccess,
		GraderID:     "grader-1",
		GraderType:   graderType,
	}
}

func TestRecordGradeValidation(t *testing.T) {
	f := newRecorderFixture(t, 3)

	_, err := f.recorder.RecordGrade(context.Background(), service.GradePayload{})
	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t,
		[]string{"submission_id", "grader_id", "grader_type", "status", "feedback"},
		validationErr.Fields,
	)

	// A zero score is a legitimate grade, not a missing field.
	payload := validPayload(uuid.New(), domain.GraderTypePeer)
	payload.Score = 0
	payload.Feedback = ""
	_, err = f.recorder.RecordGrade(context.Background(), payload)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"feedback"}, validationErr.Fields)
}

func TestRecordGradeSubmissionNotFound(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(nil, repository.ErrNotFound)

	_, err := f.recorder.RecordGrade(context.Background(), validPayload(id, domain.GraderTypePeer))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRecordGradeRejectsDuplicate(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()
	submission := &domain.Submission{ID: id, State: domain.SubmissionStateBeingGraded}

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(submission, nil)
	f.grades.EXPECT().
		HasSuccessfulGrade(gomock.Any(), id, "grader-1", domain.GraderTypePeer).
		Return(true, nil)

	_, err := f.recorder.RecordGrade(context.Background(), validPayload(id, domain.GraderTypePeer))
	assert.ErrorIs(t, err, service.ErrDuplicateGrade)
	f.events.AssertNumberOfCalls(t, "Send", 0)
}

func TestRecordGradeInstructorSuccessFinalizes(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()
	submission := &domain.Submission{
		ID:                 id,
		QueueSubmissionID:  "42",
		QueueSubmissionKey: "key-42",
		State:              domain.SubmissionStateBeingGraded,
	}

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(submission, nil)
	f.grades.EXPECT().
		HasSuccessfulGrade(gomock.Any(), id, "grader-1", domain.GraderTypeInstructor).
		Return(false, nil)
	f.grades.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.submissions.EXPECT().
		RecordOutcome(gomock.Any(), id, domain.SubmissionStateFinalized, domain.GraderTypeInstructor, domain.GraderTypeInstructor).
		Return(true, nil)

	ref, err := f.recorder.RecordGrade(context.Background(), validPayload(id, domain.GraderTypeInstructor))
	require.NoError(t, err)
	assert.Equal(t, "42", ref.QueueSubmissionID)
	assert.Equal(t, "key-42", ref.QueueSubmissionKey)

	// grade.recorded plus submission.finalized.
	f.events.AssertNumberOfCalls(t, "Send", 2)
}

func TestRecordGradePeerBelowQuotaRequeues(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()
	submission := &domain.Submission{ID: id, State: domain.SubmissionStateBeingGraded}

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(submission, nil)
	f.grades.EXPECT().
		HasSuccessfulGrade(gomock.Any(), id, "grader-1", domain.GraderTypePeer).
		Return(false, nil)
	f.grades.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.grades.EXPECT().CountSuccessfulPeer(gomock.Any(), id).Return(1, nil)
	f.submissions.EXPECT().
		RecordOutcome(gomock.Any(), id, domain.SubmissionStateWaiting, domain.GraderTypePeer, domain.GraderTypePeer).
		Return(true, nil)

	_, err := f.recorder.RecordGrade(context.Background(), validPayload(id, domain.GraderTypePeer))
	require.NoError(t, err)
	f.events.AssertNumberOfCalls(t, "Send", 1)
}

func TestRecordGradePeerQuotaFinalizes(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()
	submission := &domain.Submission{ID: id, State: domain.SubmissionStateBeingGraded}

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(submission, nil)
	f.grades.EXPECT().
		HasSuccessfulGrade(gomock.Any(), id, "grader-1", domain.GraderTypeBackupPeer).
		Return(false, nil)
	f.grades.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.grades.EXPECT().CountSuccessfulPeer(gomock.Any(), id).Return(3, nil)
	f.submissions.EXPECT().
		RecordOutcome(gomock.Any(), id, domain.SubmissionStateFinalized, domain.GraderTypeBackupPeer, domain.GraderTypePeer).
		Return(true, nil)

	_, err := f.recorder.RecordGrade(context.Background(), validPayload(id, domain.GraderTypeBackupPeer))
	require.NoError(t, err)
	f.events.AssertNumberOfCalls(t, "Send", 2)
}

func TestRecordGradeFailureRequeuesSameStage(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()
	submission := &domain.Submission{ID: id, State: domain.SubmissionStateBeingGraded}

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(submission, nil)
	f.grades.EXPECT().
		HasSuccessfulGrade(gomock.Any(), id, "grader-1", domain.GraderTypeML).
		Return(false, nil)
	f.grades.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.submissions.EXPECT().
		RecordOutcome(gomock.Any(), id, domain.SubmissionStateWaiting, domain.GraderTypeML, domain.GraderTypeML).
		Return(true, nil)

	payload := validPayload(id, domain.GraderTypeML)
	payload.Status = domain.GraderStatusFailure
	payload.Feedback = `{"feedback": "grader crashed"}`

	_, err := f.recorder.RecordGrade(context.Background(), payload)
	require.NoError(t, err)
	f.events.AssertNumberOfCalls(t, "Send", 1)
}

func TestRecordGradeKeepsLedgerWhenOutcomeNotApplied(t *testing.T) {
	f := newRecorderFixture(t, 3)
	id := uuid.New()
	submission := &domain.Submission{ID: id, State: domain.SubmissionStateBeingGraded}

	f.submissions.EXPECT().GetByID(gomock.Any(), id).Return(submission, nil)
	f.grades.EXPECT().
		HasSuccessfulGrade(gomock.Any(), id, "grader-1", domain.GraderTypeInstructor).
		Return(false, nil)
	f.grades.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	// A rollback slipped in: the conditional update matches no row.
	f.submissions.EXPECT().
		RecordOutcome(gomock.Any(), id, domain.SubmissionStateFinalized, domain.GraderTypeInstructor, domain.GraderTypeInstructor).
		Return(false, nil)

	ref, err := f.recorder.RecordGrade(context.Background(), validPayload(id, domain.GraderTypeInstructor))
	require.NoError(t, err)
	require.NotNil(t, ref)

	// Only grade.recorded: the finalized event is suppressed.
	f.events.AssertNumberOfCalls(t, "Send", 1)
}
