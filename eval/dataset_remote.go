package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/foundryeval/foundryeval-go/api/datasets"
)

// remotePageSize is the number of rows fetched per request.
const remotePageSize = 100

// RemoteDataset lazily pages through a dataset hosted in an Azure AI
// Foundry project.
type RemoteDataset struct {
	id     string
	name   string
	client *datasets.API

	rows      []json.RawMessage
	pos       int
	cursor    string
	exhausted bool
	index     int
}

// OpenRemote loads a hosted dataset by ID. Rows are fetched lazily in
// pages as the batch consumes them; only the dataset metadata is read
// up front.
func OpenRemote(ctx context.Context, client *datasets.API, id string) (*RemoteDataset, error) {
	if id == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}

	ds, err := client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading dataset: %w", err)
	}

	return &RemoteDataset{id: id, name: ds.Name, client: client}, nil
}

// Next returns the next case, fetching the next page when the buffer
// runs out. A row that is not a JSON object fails with a
// DataFormatError naming the row number.
func (d *RemoteDataset) Next() (Case, error) {
	if d.pos >= len(d.rows) && !d.exhausted {
		if err := d.fetchNextPage(); err != nil {
			return Case{}, err
		}
	}
	if d.pos >= len(d.rows) {
		return Case{}, io.EOF
	}

	raw := d.rows[d.pos]
	row := d.index + 1

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Case{}, &DataFormatError{Dataset: d.Name(), Line: row, Err: err}
	}
	if fields == nil {
		return Case{}, &DataFormatError{Dataset: d.Name(), Line: row, Err: fmt.Errorf("row is not a JSON object")}
	}

	c := Case{Index: d.index, Line: row, Fields: fields}
	if id, ok := fields["id"].(string); ok {
		c.ID = id
	}
	d.pos++
	d.index++
	return c, nil
}

// fetchNextPage retrieves the next page of rows from the project.
func (d *RemoteDataset) fetchNextPage() error {
	resp, err := d.client.FetchRows(context.Background(), d.id, datasets.FetchRowsParams{
		Limit:  remotePageSize,
		Cursor: d.cursor,
	})
	if err != nil {
		return fmt.Errorf("error fetching dataset rows: %w", err)
	}

	d.rows = resp.Rows
	d.pos = 0
	d.cursor = resp.Cursor

	if resp.Cursor == "" || len(resp.Rows) == 0 {
		d.exhausted = true
	}
	return nil
}

// Reset rewinds to the first row. Pages are refetched from the start.
func (d *RemoteDataset) Reset() error {
	d.rows = nil
	d.pos = 0
	d.cursor = ""
	d.exhausted = false
	d.index = 0
	return nil
}

// Name returns the hosted dataset name.
func (d *RemoteDataset) Name() string {
	if d.name != "" {
		return d.name
	}
	return "dataset " + d.id
}

// ID returns the hosted dataset ID.
func (d *RemoteDataset) ID() string {
	return d.id
}
