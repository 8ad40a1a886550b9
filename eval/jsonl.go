package eval

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineBytes caps a single dataset record. Cases carrying long
// retrieved context fit comfortably under a megabyte.
const maxLineBytes = 1024 * 1024

// JSONLDataset reads evaluation cases from a JSONL file, one JSON
// object per line. Records are parsed lazily as the batch consumes
// them; use Validate to check the whole file up front.
type JSONLDataset struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	line    int
	index   int
}

// OpenJSONL opens a JSONL dataset file. The file stays open until
// Close is called.
func OpenJSONL(path string) (*JSONLDataset, error) {
	if path == "" {
		return nil, fmt.Errorf("dataset path is required")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}

	d := &JSONLDataset{path: path, file: file}
	d.resetScanner()
	return d, nil
}

func (d *JSONLDataset) resetScanner() {
	d.scanner = bufio.NewScanner(d.file)
	d.scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	d.line = 0
	d.index = 0
}

// Next returns the next case. Blank lines are skipped. A line that is
// not a JSON object fails with a DataFormatError naming the line.
func (d *JSONLDataset) Next() (Case, error) {
	for d.scanner.Scan() {
		d.line++
		raw := bytes.TrimSpace(d.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return Case{}, &DataFormatError{Dataset: d.path, Line: d.line, Err: err}
		}
		if fields == nil {
			return Case{}, &DataFormatError{Dataset: d.path, Line: d.line, Err: fmt.Errorf("record is not a JSON object")}
		}

		c := Case{Index: d.index, Line: d.line, Fields: fields}
		if id, ok := fields["id"].(string); ok {
			c.ID = id
		}
		d.index++
		return c, nil
	}

	if err := d.scanner.Err(); err != nil {
		return Case{}, fmt.Errorf("error reading dataset: %w", err)
	}
	return Case{}, io.EOF
}

// Reset rewinds to the beginning of the file.
func (d *JSONLDataset) Reset() error {
	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("error rewinding dataset: %w", err)
	}
	d.resetScanner()
	return nil
}

// Name returns the file path.
func (d *JSONLDataset) Name() string {
	return d.path
}

// Close closes the underlying file.
func (d *JSONLDataset) Close() error {
	return d.file.Close()
}

// Validate scans the whole file and fails on the first malformed
// record, so a bad dataset is caught before any case is scored. It
// returns the number of cases and leaves the dataset rewound.
func (d *JSONLDataset) Validate() (int, error) {
	if err := d.Reset(); err != nil {
		return 0, err
	}

	count := 0
	for {
		_, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		count++
	}

	if err := d.Reset(); err != nil {
		return count, err
	}
	return count, nil
}
