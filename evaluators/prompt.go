package evaluators

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tmc/langchaingo/prompts"

	"github.com/foundryeval/foundryeval-go/eval"
	"github.com/foundryeval/foundryeval-go/judge"
)

// gradingSystem is the shared system prompt for every judged metric.
// The output contract lives here so the per-metric templates only
// describe their rubric.
const gradingSystem = `You are an expert evaluator grading the output of an AI system. ` +
	`Follow the rubric exactly. Respond with a JSON object containing exactly two fields: ` +
	`"score" (an integer) and "explanation" (one or two sentences justifying the score). ` +
	`Do not include any other fields or text.`

// inputs are the well-known case columns a judged metric can consume.
// The context column accepts "retrieved_results" as an alias, matching
// the dataset contract.
type inputs struct {
	Query       string `mapstructure:"query"`
	Response    string `mapstructure:"response"`
	GroundTruth string `mapstructure:"ground_truth"`
	Context     string `mapstructure:"context"`
}

// decodeInputs maps case columns onto judge inputs.
func decodeInputs(c eval.Case) (*inputs, error) {
	fields := c.Fields
	if _, ok := fields["context"]; !ok {
		if rr, ok := fields["retrieved_results"]; ok {
			merged := make(map[string]any, len(fields)+1)
			for k, v := range fields {
				merged[k] = v
			}
			merged["context"] = rr
			fields = merged
		}
	}

	var in inputs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("error decoding case columns: %w", err)
	}
	return &in, nil
}

// column returns the named judge input.
func (in *inputs) column(name string) string {
	switch name {
	case "query":
		return in.Query
	case "response":
		return in.Response
	case "ground_truth":
		return in.GroundTruth
	case "context":
		return in.Context
	}
	return ""
}

// promptEvaluator grades one metric by rendering a rubric template and
// asking a judge model to score it on a bounded integer scale.
type promptEvaluator struct {
	name      string
	template  prompts.PromptTemplate
	requires  []string
	min, max  int
	threshold float64
	judge     judge.Client
}

// newPromptEvaluator builds a judged metric from its definition.
func newPromptEvaluator(def metricDef, j judge.Client, threshold float64) *promptEvaluator {
	return &promptEvaluator{
		name: def.name,
		template: prompts.PromptTemplate{
			Template:       def.template,
			InputVariables: def.inputs,
			TemplateFormat: prompts.TemplateFormatGoTemplate,
		},
		requires:  def.required,
		min:       scaleMin,
		max:       scaleMax,
		threshold: threshold,
		judge:     j,
	}
}

func (e *promptEvaluator) Name() string { return e.name }

// Evaluate renders the rubric for one case, asks the judge for a
// verdict and checks the reply against the metric's scale.
func (e *promptEvaluator) Evaluate(ctx context.Context, c eval.Case) (eval.Scores, error) {
	in, err := decodeInputs(c)
	if err != nil {
		return nil, &eval.InvocationError{Evaluator: e.name, Err: err}
	}
	for _, col := range e.requires {
		if in.column(col) == "" {
			return nil, &eval.InvocationError{
				Evaluator: e.name,
				Err:       fmt.Errorf("case is missing required column %q", col),
			}
		}
	}

	values := map[string]any{
		"query":        in.Query,
		"response":     in.Response,
		"ground_truth": in.GroundTruth,
		"context":      in.Context,
	}
	prompt, err := e.template.Format(values)
	if err != nil {
		return nil, &eval.InvocationError{Evaluator: e.name, Err: err}
	}

	resp, err := e.judge.Complete(ctx, judge.Request{
		System:       gradingSystem,
		Prompt:       prompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &eval.InvocationError{Evaluator: e.name, Err: err}
	}

	v, err := parseVerdict(e.name, resp.Text, e.min, e.max)
	if err != nil {
		return nil, err
	}

	passed := float64(*v.Score) >= e.threshold
	return eval.Scores{{
		Name:        e.name,
		Score:       float64(*v.Score),
		Explanation: v.Explanation,
		Passed:      &passed,
	}}, nil
}

// verdict is the only reply shape a judge is allowed to produce.
type verdict struct {
	Score       *int   `json:"score"`
	Explanation string `json:"explanation"`
}

// parseVerdict decodes a judge reply, rejecting extra fields, missing
// fields, trailing content and scores outside the metric's scale.
func parseVerdict(evaluator, text string, min, max int) (*verdict, error) {
	raw := stripFences(text)

	malformed := func(reason string) error {
		return &eval.MalformedOutputError{Evaluator: evaluator, Output: text, Reason: reason}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var v verdict
	if err := dec.Decode(&v); err != nil {
		return nil, malformed(fmt.Sprintf("reply is not a score/explanation object: %v", err))
	}
	if dec.More() {
		return nil, malformed("reply contains trailing content after the JSON object")
	}
	if v.Score == nil {
		return nil, malformed("reply is missing the score field")
	}
	if v.Explanation == "" {
		return nil, malformed("reply is missing the explanation field")
	}
	if *v.Score < min || *v.Score > max {
		return nil, malformed(fmt.Sprintf("score %d is outside the %d-%d scale", *v.Score, min, max))
	}
	return &v, nil
}

// stripFences removes a markdown code fence around a JSON reply. Some
// models wrap JSON in fences even when asked not to.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
