package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(constantEvaluator("beta", 1)))
	require.NoError(t, reg.Register(constantEvaluator("alpha", 1)))

	assert.Equal(t, []string{"alpha", "beta"}, reg.Names())

	ev, ok := reg.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", ev.Name())

	_, ok = reg.Get("gamma")
	assert.False(t, ok)
}

func TestRegistry_DuplicateName(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(constantEvaluator("alpha", 1)))

	err := reg.Register(constantEvaluator("alpha", 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Validation(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.Error(t, reg.Register(nil))
	require.Error(t, reg.Register(constantEvaluator("", 1)))
}

func TestRegistry_Select(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(constantEvaluator("beta", 1)))
	require.NoError(t, reg.Register(constantEvaluator("alpha", 1)))

	selected, err := reg.Select("beta", "alpha")
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "beta", selected[0].Name())
	assert.Equal(t, "alpha", selected[1].Name())

	// No names selects everything in name order.
	all, err := reg.Select()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name())

	_, err = reg.Select("gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown evaluator "gamma"`)
	assert.Contains(t, err.Error(), "alpha, beta")
}
