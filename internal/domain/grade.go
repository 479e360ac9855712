package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Grade is one grading attempt for a submission. Rows are append-only:
// the ledger ordered by CreatedAt is the authoritative grading history.
type Grade struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	Score        int
	Feedback     string
	Status       GraderStatus
	GraderID     string
	GraderType   GraderType
	Confidence   float64
	CreatedAt    time.Time
}

// FeedbackText extracts the "feedback" field from the structured feedback
// document. Returns the raw string when the document is not JSON.
func (g *Grade) FeedbackText() string {
	var doc struct {
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(g.Feedback), &doc); err != nil {
		return g.Feedback
	}
	return doc.Feedback
}
