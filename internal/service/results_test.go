package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grading_service/internal/domain"
	"grading_service/internal/service"
	"grading_service/internal/testutils"
	"grading_service/internal/xqueue"
	"grading_service/pkg/logger"
	"grading_service/pkg/retry"
)

func addFinalized(t *testing.T, store *fakeStore, queueID, queueKey string) *domain.Submission {
	t.Helper()
	submission := &domain.Submission{
		QueueSubmissionID:  queueID,
		QueueSubmissionKey: queueKey,
		Location:           "course/unit/problem1",
		CourseID:           "course-1",
		StudentID:          "student-a",
		SubmissionTime:     time.Now(),
		State:              domain.SubmissionStateFinalized,
		PreviousGraderType: domain.GraderTypeInstructor,
		NextGraderType:     domain.GraderTypeInstructor,
	}
	require.NoError(t, store.Create(context.Background(), submission))
	return submission
}

func TestPostPendingPostsAndMarks(t *testing.T) {
	store := newFakeStore()
	queue := new(testutils.MockQueueClient)
	results := service.NewResultsService(store, fakeGrades{store}, queue, logger.New())

	submission := addFinalized(t, store, "42", "key-42")
	require.NoError(t, store.CreateGrade(context.Background(), &domain.Grade{
		SubmissionID: submission.ID,
		Score:        3,
		Feedback:     `{"feedback": "nice"}`,
		Status:       domain.GraderStatusSuccess,
		GraderID:     "instructor-1",
		GraderType:   domain.GraderTypeInstructor,
	}))

	var gotHeader, gotBody string
	queue.On("PutResult", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotHeader = args.String(1)
			gotBody = args.String(2)
		}).
		Return(nil)

	posted, err := results.PostPending(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.True(t, submission.PostedResults)

	var header map[string]string
	require.NoError(t, json.Unmarshal([]byte(gotHeader), &header))
	assert.Equal(t, "42", header["submission_id"])
	assert.Equal(t, "key-42", header["submission_key"])

	returnCode, content := xqueue.ParseReply(gotBody)
	assert.Equal(t, xqueue.ReturnCodeSuccess, returnCode)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content), &result))
	assert.Equal(t, float64(3), result["score"])
	assert.Equal(t, "IN", result["grader_type"])
}

func TestPostPendingReportsMissingGrade(t *testing.T) {
	store := newFakeStore()
	queue := new(testutils.MockQueueClient)
	results := service.NewResultsService(store, fakeGrades{store}, queue, logger.New())

	// Finalized with no successful grade, e.g. after manual intervention.
	addFinalized(t, store, "42", "key-42")

	var gotBody string
	queue.On("PutResult", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotBody = args.String(2) }).
		Return(nil)

	posted, err := results.PostPending(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, posted)

	returnCode, content := xqueue.ParseReply(gotBody)
	assert.Equal(t, xqueue.ReturnCodeFailure, returnCode)
	assert.Equal(t, "no successful grade recorded", content)
}

func TestPostPendingSkipsAlreadyPosted(t *testing.T) {
	store := newFakeStore()
	queue := new(testutils.MockQueueClient)
	results := service.NewResultsService(store, fakeGrades{store}, queue, logger.New())

	submission := addFinalized(t, store, "42", "key-42")
	submission.PostedResults = true

	posted, err := results.PostPending(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 0, posted)
	queue.AssertNumberOfCalls(t, "PutResult", 0)
}

func TestPostPendingContinuesPastRejectedResult(t *testing.T) {
	store := newFakeStore()
	queue := new(testutils.MockQueueClient)
	results := service.NewResultsService(store, fakeGrades{store}, queue, logger.New())

	rejected := addFinalized(t, store, "41", "key-41")
	accepted := addFinalized(t, store, "42", "key-42")

	// The queue rejects the first result outright; that is not retriable
	// and must not stop the batch.
	queue.On("PutResult", mock.Anything, mock.MatchedBy(func(header string) bool {
		return json.Valid([]byte(header)) && containsQueueID(header, "41")
	}), mock.Anything).Return(errors.New("rejected by queue"))
	queue.On("PutResult", mock.Anything, mock.MatchedBy(func(header string) bool {
		return json.Valid([]byte(header)) && containsQueueID(header, "42")
	}), mock.Anything).Return(nil)

	posted, err := results.PostPending(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.False(t, rejected.PostedResults)
	assert.True(t, accepted.PostedResults)
}

func TestPostPendingStopsBatchOnTransientFailure(t *testing.T) {
	store := newFakeStore()
	queue := new(testutils.MockQueueClient)
	results := service.NewResultsService(store, fakeGrades{store}, queue, logger.New())

	unreachable := addFinalized(t, store, "41", "key-41")
	addFinalized(t, store, "42", "key-42")

	queue.On("PutResult", mock.Anything, mock.Anything, mock.Anything).
		Return(retry.ErrTransient)

	posted, err := results.PostPending(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, retry.IsRetriable(err))
	assert.Equal(t, 0, posted)
	assert.False(t, unreachable.PostedResults)
}

func containsQueueID(header, queueID string) bool {
	var decoded map[string]string
	if err := json.Unmarshal([]byte(header), &decoded); err != nil {
		return false
	}
	return decoded["submission_id"] == queueID
}
