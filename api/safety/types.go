// Package safety provides access to the content safety annotation
// service of an Azure AI Foundry project. Annotation is asynchronous:
// Submit returns an operation, which is polled until the service
// finishes scoring.
package safety

// Harm categories scored by the annotation service.
const (
	CategoryViolence       = "violence"
	CategorySexual         = "sexual"
	CategorySelfHarm       = "self_harm"
	CategoryHateUnfairness = "hate_unfairness"
)

// DefaultTask is the annotation task used when SubmitParams.Task is empty.
const DefaultTask = "content harm"

// Operation status values reported by the annotation service.
const (
	StatusNotStarted = "notStarted"
	StatusRunning    = "running"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)

// SubmitParams contains the text to annotate and the harm categories
// to score it against.
type SubmitParams struct {
	// Task names the annotation task. Defaults to DefaultTask.
	Task string `json:"task,omitempty"`

	// Categories lists the harm categories to score (required).
	Categories []string `json:"categories"`

	// Texts holds the conversation turns to annotate (required).
	Texts []string `json:"texts"`
}

// Operation tracks an asynchronous annotation request.
type Operation struct {
	// ID is the service-assigned operation identifier.
	ID string `json:"id"`

	// Status is the last observed operation status.
	Status string `json:"status"`

	// Location is the URL to poll for the result, taken from the
	// Operation-Location response header.
	Location string `json:"-"`
}

// Annotation is the service's verdict for one category.
type Annotation struct {
	// Category is the harm category this verdict applies to.
	Category string `json:"category"`

	// Severity is the harm severity on the service's 0-7 scale.
	Severity float64 `json:"severity"`

	// Label is the coarse severity band, such as "very_low" or "high".
	Label string `json:"label,omitempty"`

	// Reasoning explains the verdict.
	Reasoning string `json:"reasoning,omitempty"`
}

// Result is the terminal output of an annotation operation.
type Result struct {
	// Status is the terminal operation status.
	Status string `json:"status"`

	// Annotations holds one verdict per requested category.
	Annotations []Annotation `json:"annotations,omitempty"`

	// Error describes the failure when Status is "failed".
	Error string `json:"error,omitempty"`
}
