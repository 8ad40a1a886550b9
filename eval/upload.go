package eval

import (
	"context"
	"fmt"
	"strconv"

	"github.com/foundryeval/foundryeval-go/api"
	"github.com/foundryeval/foundryeval-go/api/runs"
	"github.com/foundryeval/foundryeval-go/logger"
)

// uploadBatchSize is the number of result rows sent per request.
const uploadBatchSize = 100

// Uploader publishes completed run summaries to an Azure AI Foundry
// project so results are browsable in the studio.
type Uploader struct {
	client *api.API
	log    logger.Logger
}

// NewUploader creates an uploader for a project API client.
func NewUploader(client *api.API, log logger.Logger) *Uploader {
	if log == nil {
		log = logger.Discard()
	}
	return &Uploader{client: client, log: log}
}

// Upload creates a hosted run from the summary, uploads its rows and
// metrics, and returns the run ID for building studio links.
func (u *Uploader) Upload(ctx context.Context, s *Summary) (string, error) {
	if s == nil {
		return "", fmt.Errorf("summary is required")
	}

	name := s.Name
	if name == "" {
		name = "evaluation"
	}

	run, err := u.client.Runs().Create(ctx, runs.CreateParams{
		DisplayName: name,
		Properties: map[string]string{
			"threshold": strconv.Itoa(s.Threshold),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error creating run: %w", err)
	}

	rows := toRunRows(s.Rows)
	for start := 0; start < len(rows); start += uploadBatchSize {
		end := min(start+uploadBatchSize, len(rows))
		if _, err := u.client.Runs().AddRows(ctx, run.ID, rows[start:end]); err != nil {
			return "", fmt.Errorf("error uploading rows: %w", err)
		}
	}

	if _, err := u.client.Runs().Complete(ctx, run.ID, runs.CompleteParams{
		Metrics:  s.Metrics,
		RowCount: len(s.Rows),
	}); err != nil {
		return "", fmt.Errorf("error completing run: %w", err)
	}

	u.log.Info("uploaded evaluation run", "run_id", run.ID, "rows", len(s.Rows))
	return run.ID, nil
}

// toRunRows converts summary rows to the run row wire shape.
func toRunRows(rows []Row) []runs.Row {
	out := make([]runs.Row, 0, len(rows))
	for _, row := range rows {
		r := runs.Row{ID: row.ID, Inputs: row.Input}
		for _, res := range row.Results {
			r.Results = append(r.Results, runs.RowResult{
				Evaluator:   res.Evaluator,
				Metric:      res.Metric,
				Score:       res.Score,
				Explanation: res.Explanation,
				Passed:      res.Passed,
				Error:       res.Error,
			})
		}
		out = append(out, r)
	}
	return out
}
