package eval_test

import (
	"context"
	"fmt"
	"log"

	"github.com/foundryeval/foundryeval-go/eval"
)

// Example demonstrates running a batch evaluation with an in-memory
// dataset and a custom evaluator.
func Example() {
	ctx := context.Background()

	dataset := eval.NewDataset([]eval.Case{
		{Fields: map[string]any{"query": "capital of France?", "response": "Paris", "ground_truth": "Paris"}},
		{Fields: map[string]any{"query": "capital of Japan?", "response": "Kyoto", "ground_truth": "Tokyo"}},
	})

	exactMatch := eval.NewEvaluator("exact_match", func(_ context.Context, c eval.Case) (eval.Scores, error) {
		if c.Field("response") == c.Field("ground_truth") {
			return eval.S(1.0), nil
		}
		return eval.S(0.0), nil
	})

	summary, err := eval.Run(ctx, eval.Opts{
		Dataset:    dataset,
		Evaluators: []eval.Evaluator{exactMatch},
		Quiet:      true,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("rows: %d\n", len(summary.Rows))
	fmt.Printf("exact_match: %.1f\n", *summary.Metrics["exact_match"])
	// Output:
	// rows: 2
	// exact_match: 0.5
}
