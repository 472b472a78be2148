package domain

// BulkCheckSummary is the outcome of a bulk availability run. A bulk run
// is never all-or-nothing: individual products fail without aborting the
// rest, and the summary carries the split.
type BulkCheckSummary struct {
	RunID     string             `json:"run_id"`
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Failures  []BulkCheckFailure `json:"failures,omitempty"`
}

// BulkCheckFailure is one failed item of a bulk run.
type BulkCheckFailure struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}
