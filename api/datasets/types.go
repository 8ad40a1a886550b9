package datasets

import "encoding/json"

// Dataset represents a hosted evaluation dataset in a project.
type Dataset struct {
	// ID is the unique identifier for the dataset.
	ID string `json:"id"`

	// Name is the human-readable name of the dataset.
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// RowCount is the number of rows the service holds for this dataset.
	RowCount int `json:"rowCount,omitempty"`

	// Tags are arbitrary key-value pairs attached to the dataset.
	Tags map[string]string `json:"tags,omitempty"`

	// CreatedAt is the service-assigned creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateParams contains parameters for creating a dataset.
type CreateParams struct {
	// Name is the name of the dataset (required).
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// Tags are arbitrary key-value pairs attached to the dataset.
	Tags map[string]string `json:"tags,omitempty"`
}

// AddRowsParams contains rows to append to a dataset. Each row is a
// flat JSON object of case fields such as query, response, context and
// ground_truth.
type AddRowsParams struct {
	Rows []map[string]interface{} `json:"rows"`
}

// AddRowsResponse reports how many rows the service accepted.
type AddRowsResponse struct {
	Inserted int `json:"inserted"`
}

// FetchRowsParams contains pagination controls for fetching dataset rows.
type FetchRowsParams struct {
	// Limit is the maximum number of rows per page.
	Limit int

	// Cursor resumes a previous fetch. Empty starts from the beginning.
	Cursor string
}

// FetchRowsResponse represents one page of dataset rows.
type FetchRowsResponse struct {
	// Rows holds the raw row objects in insertion order.
	Rows []json.RawMessage `json:"rows"`

	// Cursor fetches the next page, or empty when the dataset is
	// exhausted.
	Cursor string `json:"cursor,omitempty"`
}
