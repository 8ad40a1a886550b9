package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Row is the scored result of one dataset case.
type Row struct {
	// Index is the 0-based dataset position of the case.
	Index int `json:"index"`

	// Line is the 1-based source line or row number of the case.
	Line int `json:"line,omitempty"`

	// ID is the case identifier, if the dataset provides one.
	ID string `json:"id,omitempty"`

	// Input is the case payload that was scored, including any fields
	// a target function added.
	Input map[string]any `json:"input"`

	// Results holds one entry per evaluator score or failure. Every
	// evaluator contributes at least one entry per case.
	Results []RowScore `json:"results"`
}

// RowScore is one evaluator's result for one case. Either Score or
// Error is set, never both.
type RowScore struct {
	Evaluator   string   `json:"evaluator"`
	Metric      string   `json:"metric,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Passed      *bool    `json:"passed,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Summary is the aggregated outcome of a batch evaluation. Its JSON
// encoding is the results artifact: an object with "metrics" and
// "rows".
type Summary struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id,omitempty"`

	// Metrics maps metric names to mean scores across all cases. A nil
	// value is an explicit "no data" marker, for example when the
	// dataset was empty or an evaluator failed on every case.
	Metrics map[string]*float64 `json:"metrics"`

	// Rows holds one entry per dataset case, in dataset order.
	Rows []Row `json:"rows"`

	// StudioURL is the hosted results page, set after a successful
	// upload.
	StudioURL string `json:"studio_url,omitempty"`

	// Console-only context, not part of the artifact.
	Name      string        `json:"-"`
	Threshold int           `json:"-"`
	Elapsed   time.Duration `json:"-"`
}

// summarize aggregates result rows into a summary. Means are computed
// over successful scores only; failures stay visible in the rows and
// in the failure count.
func summarize(name string, evaluators []Evaluator, rows []Row, threshold int) *Summary {
	type agg struct {
		sum     float64
		count   int
		passed  int
		gatable int
	}
	byMetric := make(map[string]*agg)
	scored := make(map[string]bool, len(evaluators))

	for _, row := range rows {
		for _, res := range row.Results {
			if res.Error != "" || res.Score == nil {
				continue
			}
			scored[res.Evaluator] = true
			a := byMetric[res.Metric]
			if a == nil {
				a = &agg{}
				byMetric[res.Metric] = a
			}
			a.sum += *res.Score
			a.count++
			if res.Passed != nil {
				a.gatable++
				if *res.Passed {
					a.passed++
				}
			}
		}
	}

	metrics := make(map[string]*float64, len(byMetric)+len(evaluators))
	for metric, a := range byMetric {
		mean := a.sum / float64(a.count)
		metrics[metric] = &mean
		if a.gatable > 0 {
			rate := float64(a.passed) / float64(a.gatable)
			metrics[metric+"_pass_rate"] = &rate
		}
	}

	// Evaluators that never produced a score still appear, with an
	// explicit null, so missing data is visible in the artifact.
	for _, ev := range evaluators {
		if !scored[ev.Name()] {
			metrics[ev.Name()] = nil
		}
	}

	if rows == nil {
		rows = []Row{}
	}

	return &Summary{
		Metrics:   metrics,
		Rows:      rows,
		Name:      name,
		Threshold: threshold,
	}
}

// Failures returns the number of failed result entries across all
// rows.
func (s *Summary) Failures() int {
	n := 0
	for _, row := range s.Rows {
		for _, res := range row.Results {
			if res.Error != "" {
				n++
			}
		}
	}
	return n
}

// MetricNames returns the metric names in sorted order.
func (s *Summary) MetricNames() []string {
	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFile writes the summary artifact as indented JSON, creating
// parent directories as needed.
func (s *Summary) WriteFile(path string) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding summary: %w", err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}
	return nil
}

// String renders the summary banner for printing on the console.
//
// The format it prints will change and shouldn't be relied on for
// programmatic use.
func (s *Summary) String() string {
	divider := strings.Repeat("=", 50)

	lines := []string{
		divider,
		"EVALUATION SUMMARY",
		divider,
	}
	if s.Name != "" {
		lines = append(lines, fmt.Sprintf("Run: %s", s.Name))
	}

	for _, metric := range s.MetricNames() {
		if v := s.Metrics[metric]; v != nil {
			lines = append(lines, fmt.Sprintf("%s: %.4f", metric, *v))
		} else {
			lines = append(lines, fmt.Sprintf("%s: no data", metric))
		}
	}

	if failures := s.Failures(); failures > 0 {
		lines = append(lines, fmt.Sprintf("Failures: %d", failures))
	}

	rowLine := fmt.Sprintf("Evaluated %d rows", len(s.Rows))
	if s.Elapsed > 0 {
		rowLine += fmt.Sprintf(" in %.1fs", s.Elapsed.Seconds())
	}
	lines = append(lines, rowLine)

	return strings.Join(lines, "\n")
}
