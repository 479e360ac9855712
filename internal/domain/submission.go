package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one piece of student work moving through the grading
// pipeline. The (QueueSubmissionID, QueueSubmissionKey) pair correlates the
// row with the external queue that delivered it.
type Submission struct {
	ID                 uuid.UUID
	QueueSubmissionID  string
	QueueSubmissionKey string
	QueueName          string
	Location           string
	CourseID           string
	StudentID          string
	StudentResponse    string
	SubmissionTime     time.Time
	State              SubmissionState
	PreviousGraderType GraderType
	NextGraderType     GraderType
	PostedResults      bool
	CreatedAt          time.Time
	EditedAt           time.Time
}

// ExternalRef is the queue-side identity of a submission, returned from
// grade recording so callers can correlate results with the queue.
type ExternalRef struct {
	QueueSubmissionID  string
	QueueSubmissionKey string
}

// PeerCandidate is a selection-pool entry: a submission id with its count
// of prior successful peer reviews.
type PeerCandidate struct {
	SubmissionID uuid.UUID
	ReviewCount  int
}

// SubmissionSnapshot is the read-only view served by diagnostic tooling.
// LastScore and LastFeedback come from the most recent successful
// instructor grade, when one exists.
type SubmissionSnapshot struct {
	ID             uuid.UUID
	CourseID       string
	StudentID      string
	Location       string
	State          SubmissionState
	Response       string
	SubmissionTime time.Time
	PostedResults  bool
	LastScore      *int
	LastFeedback   *string
	CreatedAt      time.Time
	EditedAt       time.Time
}
