package eval

import "fmt"

// DataFormatError reports a dataset record that could not be parsed.
// It is fatal: the batch aborts instead of scoring a dataset that is
// not what the caller intended.
type DataFormatError struct {
	// Dataset identifies the source, usually a file path.
	Dataset string

	// Line is the 1-based line or row number of the bad record.
	Line int

	// Err is the underlying parse error.
	Err error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: line %d: %v", e.Dataset, e.Line, e.Err)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// InvocationError reports an evaluator that failed to produce a result
// for one case, for example a judge call that timed out. It fails the
// case for that evaluator only.
type InvocationError struct {
	Evaluator string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Evaluator, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// MalformedOutputError reports an evaluator reply that did not match
// the expected shape, such as a judge score outside its scale. The
// offending output is preserved for debugging.
type MalformedOutputError struct {
	Evaluator string
	Output    string
	Reason    string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s: malformed output: %s", e.Evaluator, e.Reason)
}
