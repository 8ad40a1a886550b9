package eval

import "io"

// Dataset is a finite, restartable iterator over evaluation cases. It
// is commonly a JSONL file opened with [OpenJSONL], but can also be an
// in-memory slice or a dataset lazily fetched from an Azure AI Foundry
// project.
type Dataset interface {
	// Next returns the next case, or io.EOF after the last one.
	Next() (Case, error)

	// Reset rewinds the dataset so the next call to Next returns the
	// first case again.
	Reset() error

	// Name identifies the dataset in logs and error messages.
	Name() string
}

// NewDataset creates a Dataset from a slice of in-memory cases. The
// slice order defines each case's Index.
func NewDataset(cases []Case) Dataset {
	return &sliceCases{cases: cases}
}

// sliceCases implements the Dataset interface for a slice of cases.
type sliceCases struct {
	cases []Case
	index int
}

// Next returns the next case, or io.EOF if there are no more cases.
func (s *sliceCases) Next() (Case, error) {
	if s.index >= len(s.cases) {
		return Case{}, io.EOF
	}

	c := s.cases[s.index]
	c.Index = s.index
	if c.Line == 0 {
		c.Line = s.index + 1
	}
	s.index++
	return c, nil
}

// Reset rewinds to the first case.
func (s *sliceCases) Reset() error {
	s.index = 0
	return nil
}

// Name identifies in-memory cases in logs.
func (s *sliceCases) Name() string {
	return "memory"
}
