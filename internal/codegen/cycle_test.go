package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenegen/internal/testutil"
)

func TestAnalyzeTransformCyclesAcyclic(t *testing.T) {
	scene := testutil.NewScene("").
		Transform("t1", "a", "b", 0).
		Transform("t2", "b", "c", 1).
		Transform("t3", "a", "c", 2).
		Build()

	assert.Empty(t, AnalyzeTransformCycles(scene.Animations))
	assert.Empty(t, AnalyzeTransformCycles(nil))
}

func TestAnalyzeTransformCyclesSelfLoop(t *testing.T) {
	scene := testutil.NewScene("").Transform("t1", "a", "a", 0).Build()

	warnings := AnalyzeTransformCycles(scene.Animations)

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "a"}, warnings[0].Path)
	assert.Equal(t, WarnTransformCycle, warnings[0].Code)
}

func TestAnalyzeTransformCyclesThreeNodes(t *testing.T) {
	scene := testutil.NewScene("").
		Transform("t1", "x", "y", 0).
		Transform("t2", "y", "z", 1).
		Transform("t3", "z", "x", 2).
		Transform("t4", "z", "w", 3).
		Build()

	warnings := AnalyzeTransformCycles(scene.Animations)

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"x", "y", "z", "x"}, warnings[0].Path)
	assert.Equal(t, "x", warnings[0].Subject)
	assert.Equal(t, "transform cycle: x -> y -> z -> x", warnings[0].Message)
}

func TestAnalyzeTransformCyclesSeparateComponents(t *testing.T) {
	scene := testutil.NewScene("").
		Transform("t1", "a", "b", 0).
		Transform("t2", "b", "a", 0).
		Transform("t3", "c", "d", 0).
		Transform("t4", "d", "c", 0).
		Build()

	warnings := AnalyzeTransformCycles(scene.Animations)

	require.Len(t, warnings, 2)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
	assert.Equal(t, []string{"c", "d", "c"}, warnings[1].Path)
}
