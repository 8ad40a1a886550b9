// Package runs provides operations for managing evaluation runs in an
// Azure AI Foundry project.
package runs

// Run represents an evaluation run resource.
type Run struct {
	// ID is the unique identifier for the run.
	ID string `json:"id"`

	// DisplayName is the human-readable name of the run.
	DisplayName string `json:"displayName"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// Status is the lifecycle state reported by the service
	// (for example "running" or "completed").
	Status string `json:"status,omitempty"`

	// DatasetID is the hosted dataset the run was evaluated against, if any.
	DatasetID string `json:"datasetId,omitempty"`

	// Metrics holds the aggregate metrics reported when the run completed.
	// A nil value means the metric produced no data.
	Metrics map[string]*float64 `json:"metrics,omitempty"`

	// Properties are arbitrary key-value pairs attached to the run.
	Properties map[string]string `json:"properties,omitempty"`

	// CreatedAt is the service-assigned creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateParams contains parameters for creating an evaluation run.
type CreateParams struct {
	// DisplayName is the name of the run (required).
	DisplayName string `json:"displayName"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// DatasetID optionally links the run to a hosted dataset.
	DatasetID string `json:"datasetId,omitempty"`

	// Evaluators lists the evaluator names applied in this run.
	Evaluators []string `json:"evaluators,omitempty"`

	// Properties are arbitrary key-value pairs attached to the run.
	Properties map[string]string `json:"properties,omitempty"`
}

// Row is a single evaluated case uploaded to a run.
type Row struct {
	// ID identifies the row within the run. If empty the service
	// assigns one.
	ID string `json:"id,omitempty"`

	// Inputs holds the case fields the evaluators saw.
	Inputs map[string]interface{} `json:"inputs,omitempty"`

	// Results holds one entry per evaluator verdict for this row.
	Results []RowResult `json:"results,omitempty"`
}

// RowResult is one evaluator's verdict for a row.
type RowResult struct {
	// Evaluator is the name of the evaluator that produced this result.
	Evaluator string `json:"evaluator"`

	// Metric is the metric name the score is reported under.
	Metric string `json:"metric"`

	// Score is the numeric score, or nil if the evaluator failed.
	Score *float64 `json:"score,omitempty"`

	// Explanation is the evaluator's reasoning, if it produced one.
	Explanation string `json:"explanation,omitempty"`

	// Passed reports the threshold verdict, if one applies.
	Passed *bool `json:"passed,omitempty"`

	// Error describes the failure when the evaluator produced no score.
	Error string `json:"error,omitempty"`
}

// AddRowsParams contains rows to append to a run.
type AddRowsParams struct {
	Rows []Row `json:"rows"`
}

// AddRowsResponse reports how many rows the service accepted.
type AddRowsResponse struct {
	Inserted int `json:"inserted"`
}

// CompleteParams contains the final aggregates reported when a run finishes.
type CompleteParams struct {
	// Metrics holds per-metric means. A nil value records that the
	// metric produced no data.
	Metrics map[string]*float64 `json:"metrics,omitempty"`

	// RowCount is the number of cases evaluated.
	RowCount int `json:"rowCount"`

	// Status optionally overrides the terminal status. Defaults to
	// "completed" when empty.
	Status string `json:"status,omitempty"`
}

// ListParams contains parameters for listing runs.
type ListParams struct {
	// Limit is the maximum number of runs to return.
	Limit int

	// Skip is the number of runs to skip, for pagination.
	Skip int
}

// ListResponse represents one page of runs.
type ListResponse struct {
	// Value is the list of runs returned.
	Value []Run `json:"value"`

	// NextLink is the URL of the next page, or empty when exhausted.
	NextLink string `json:"nextLink,omitempty"`
}
