package eval

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJSONL_ReadsCasesInOrder(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "data.jsonl", `{"query": "q1", "response": "r1", "ground_truth": "g1"}

{"id": "case-2", "query": "q2", "response": "r2", "ground_truth": "g2"}
`)

	d, err := OpenJSONL(path)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	first, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "q1", first.Field("query"))

	// The blank line is skipped but still counts for line numbers.
	second, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "case-2", second.ID)

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestJSONL_MalformedLine(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "data.jsonl", `{"query": "q1", "response": "r1", "ground_truth": "g1"}
not json at all
`)

	d, err := OpenJSONL(path)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	_, err = d.Next()
	require.NoError(t, err)

	_, err = d.Next()
	require.Error(t, err)

	var dfe *DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, 2, dfe.Line)
	assert.Equal(t, path, dfe.Dataset)
}

func TestJSONL_NonObjectLine(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "data.jsonl", `["not", "an", "object"]`)

	d, err := OpenJSONL(path)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	_, err = d.Next()
	var dfe *DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, 1, dfe.Line)
}

func TestJSONL_Reset(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "data.jsonl", `{"query": "q1"}
{"query": "q2"}
`)

	d, err := OpenJSONL(path)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	_, err = d.Next()
	require.NoError(t, err)

	require.NoError(t, d.Reset())

	c, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, "q1", c.Field("query"))
}

func TestJSONL_Validate(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "data.jsonl", `{"query": "q1"}
{"query": "q2"}
{"query": "q3"}
`)

	d, err := OpenJSONL(path)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	count, err := d.Validate()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Validate leaves the dataset rewound.
	c, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)
}

func TestJSONL_EmptyFile(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "data.jsonl", "")

	d, err := OpenJSONL(path)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}
