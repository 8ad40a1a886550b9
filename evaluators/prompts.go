package evaluators

// Judged metrics score on a fixed 1-5 integer scale.
const (
	scaleMin = 1
	scaleMax = 5
)

// metricDef describes one judged metric: its rubric template, the
// template variables it renders and the case columns it cannot grade
// without. Templates use Go template syntax over the well-known judge
// inputs.
type metricDef struct {
	name     string
	template string
	inputs   []string
	required []string
}

var judgeInputs = []string{"query", "response", "ground_truth", "context"}

// retrievalDef grades the quality of retrieved context for a query.
var retrievalDef = metricDef{
	name: "retrieval",
	template: `Rate how well the retrieved context addresses the user's query on a scale of 1 to 5.

1: The context is unrelated to the query.
2: The context is loosely related but does not help answer the query.
3: The context partially covers the query; key information is missing.
4: The context covers the query with minor gaps or noise.
5: The context fully covers the query with relevant, focused passages.

Query:
{{.query}}

Retrieved context:
{{.context}}`,
	inputs:   judgeInputs,
	required: []string{"query", "context"},
}

// responseCompletenessDef grades response coverage of the ground truth.
var responseCompletenessDef = metricDef{
	name: "response_completeness",
	template: `Rate how completely the response covers the information in the ground truth on a scale of 1 to 5.

1: The response omits all of the ground truth information.
2: The response covers a small fraction of the ground truth.
3: The response covers about half of the ground truth.
4: The response covers most of the ground truth with minor omissions.
5: The response covers all information in the ground truth.

Ground truth:
{{.ground_truth}}

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"response", "ground_truth"},
}

// relevanceDef grades how well the response addresses the query.
var relevanceDef = metricDef{
	name: "relevance",
	template: `Rate how relevant the response is to the user's query on a scale of 1 to 5.

1: The response is unrelated to the query.
2: The response mentions the topic but does not address the query.
3: The response partially addresses the query.
4: The response addresses the query with minor digressions.
5: The response directly and fully addresses the query.

Query:
{{.query}}

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"query", "response"},
}

// coherenceDef grades the logical flow of the response.
var coherenceDef = metricDef{
	name: "coherence",
	template: `Rate the coherence of the response on a scale of 1 to 5. Coherence measures whether the response reads as one logically connected answer to the query.

1: The response is incoherent; sentences do not connect.
2: The response has frequent logical jumps or contradictions.
3: The response is mostly connected with occasional abrupt transitions.
4: The response flows logically with minor rough edges.
5: The response is a clear, logically ordered whole.

Query:
{{.query}}

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"query", "response"},
}

// fluencyDef grades the language quality of the response.
var fluencyDef = metricDef{
	name: "fluency",
	template: `Rate the fluency of the response on a scale of 1 to 5. Fluency measures grammar, word choice and readability, independent of factual content.

1: The response is unreadable or ungrammatical throughout.
2: The response has frequent errors that impede reading.
3: The response is understandable despite noticeable errors.
4: The response reads well with rare minor errors.
5: The response is polished, natural language.

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"response"},
}

// groundednessDef grades whether the response is supported by context.
var groundednessDef = metricDef{
	name: "groundedness",
	template: `Rate how well the response is grounded in the provided context on a scale of 1 to 5. Only information traceable to the context counts as grounded; outside knowledge does not.

1: The response is entirely unsupported by the context.
2: The response is mostly unsupported, with isolated grounded claims.
3: About half of the response's claims are supported by the context.
4: The response is supported with minor unsupported additions.
5: Every claim in the response follows from the context.

Context:
{{.context}}

Query:
{{.query}}

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"query", "response", "context"},
}

// similarityDef grades semantic equivalence with the ground truth.
var similarityDef = metricDef{
	name: "similarity",
	template: `Rate the semantic similarity between the response and the ground truth answer for the given query on a scale of 1 to 5.

1: The response and ground truth are unrelated.
2: The response and ground truth share the topic but disagree on the answer.
3: The response partially matches the ground truth.
4: The response matches the ground truth with minor differences.
5: The response and ground truth are semantically equivalent.

Query:
{{.query}}

Ground truth:
{{.ground_truth}}

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"query", "response", "ground_truth"},
}

// linguisticSimilarityDef is the custom prompt-template evaluator. Its
// rubric carries few-shot examples so small models grade consistently.
var linguisticSimilarityDef = metricDef{
	name: "linguistic_similarity",
	template: `Rate the linguistic similarity between the response and the ground truth answer on a scale of 1 to 5. Linguistic similarity measures whether the two answers express the same meaning in comparable wording; superficial phrasing differences that preserve meaning score high, while answers that diverge in meaning score low even when they share vocabulary.

1: The response expresses a different meaning from the ground truth.
2: The response overlaps in vocabulary but diverges in meaning.
3: The response conveys part of the ground truth's meaning.
4: The response conveys the ground truth's meaning with different emphasis or detail.
5: The response expresses the same meaning as the ground truth.

Examples:

Query: What is the capital of France?
Ground truth: The capital of France is Paris.
Response: Paris is the capital city of France.
Verdict: {"score": 5, "explanation": "Both answers state that Paris is the capital of France; only the word order differs."}

Query: When was the company founded?
Ground truth: The company was founded in 1998 in Helsinki.
Response: The company was founded in 1998.
Verdict: {"score": 4, "explanation": "The response conveys the founding year but omits the founding location mentioned in the ground truth."}

Query: Does the plan include support?
Ground truth: The basic plan does not include priority support.
Response: The basic plan includes priority support.
Verdict: {"score": 1, "explanation": "The response asserts the opposite of the ground truth despite nearly identical wording."}

Now grade this case.

Query:
{{.query}}

Ground truth:
{{.ground_truth}}

Response:
{{.response}}`,
	inputs:   judgeInputs,
	required: []string{"query", "response", "ground_truth"},
}
