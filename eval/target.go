package eval

import "context"

// TargetFunc generates the output fields for a case before scoring,
// usually by calling the application under evaluation. The returned
// fields are merged into the case, overwriting dataset values, so a
// target typically returns {"response": ...} and, for RAG targets,
// {"context": ...}.
//
// Datasets that already carry recorded responses need no target.
type TargetFunc func(ctx context.Context, c Case) (map[string]any, error)

// T adapts a plain query-to-response function to a TargetFunc for the
// common case of a single text answer.
//
//	target := eval.T(func(ctx context.Context, query string) (string, error) {
//		return app.Answer(ctx, query)
//	})
func T(fn func(ctx context.Context, query string) (string, error)) TargetFunc {
	return func(ctx context.Context, c Case) (map[string]any, error) {
		response, err := fn(ctx, c.Field("query"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"response": response}, nil
	}
}
