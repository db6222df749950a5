package tasks

// OutcomeStatus is the terminal state of one pipeline run.
type OutcomeStatus string

const (
	OutcomePublished OutcomeStatus = "published"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome describes how a pipeline run ended. Every run produces exactly one.
type Outcome struct {
	Status     OutcomeStatus `json:"status"`
	DocumentID string        `json:"document_id,omitempty"`
	ItemCount  int           `json:"item_count,omitempty"`
	Message    string        `json:"message"`
}
