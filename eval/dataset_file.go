package eval

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RequiredColumns are the case columns every dataset record must
// carry. retrieved_results/context is optional; evaluators that need
// it fail per case instead.
var RequiredColumns = []string{"query", "response", "ground_truth"}

// OpenFile opens a dataset file by extension: .jsonl for one JSON
// object per line, .json for a top-level array of objects. Other
// extensions are rejected.
func OpenFile(path string) (Dataset, error) {
	switch filepath.Ext(path) {
	case ".jsonl":
		return OpenJSONL(path)
	case ".json":
		return openJSONArray(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .jsonl or .json)", filepath.Ext(path))
	}
}

// openJSONArray reads a whole .json file holding an array of case
// objects. Unlike JSONL there is no line-by-line laziness to preserve,
// so the file is parsed up front.
func openJSONArray(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, &DataFormatError{Dataset: path, Line: 1, Err: fmt.Errorf("file is not a JSON array: %w", err)}
	}

	cases := make([]Case, 0, len(records))
	for i, raw := range records {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, &DataFormatError{Dataset: path, Line: i + 1, Err: err}
		}
		if fields == nil {
			return nil, &DataFormatError{Dataset: path, Line: i + 1, Err: fmt.Errorf("record is not a JSON object")}
		}
		c := Case{Index: i, Line: i + 1, Fields: fields}
		if id, ok := fields["id"].(string); ok {
			c.ID = id
		}
		cases = append(cases, c)
	}

	return &namedCases{sliceCases: sliceCases{cases: cases}, name: path}, nil
}

// namedCases is a slice dataset that reports its source path.
type namedCases struct {
	sliceCases
	name string
}

func (n *namedCases) Name() string { return n.name }

// ValidateColumns scans a whole dataset checking that every record
// carries the given columns as non-empty strings, then rewinds it. The
// first violation wins and is reported as a DataFormatError naming the
// record's line. It returns the number of cases.
func ValidateColumns(d Dataset, columns ...string) (int, error) {
	if err := d.Reset(); err != nil {
		return 0, err
	}

	count := 0
	for {
		c, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		for _, col := range columns {
			if v, ok := c.Fields[col].(string); !ok || v == "" {
				return count, &DataFormatError{
					Dataset: d.Name(),
					Line:    c.Line,
					Err:     fmt.Errorf("record is missing required column %q", col),
				}
			}
		}
		count++
	}

	return count, d.Reset()
}
