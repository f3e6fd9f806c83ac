package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: circle_fades_in
description: "A circle is faded in"
scene:
  objects:
    - {id: c1, type: circle}
  animations:
    - {id: in, type: fade_in, target_objects: [c1]}
assertions:
  - type: category_count
    category: style
    count: 1
  - type: no_warnings
`

const failingScenario = `name: wrong_count
description: "Expects a shape that is not there"
scene:
  objects:
    - {id: t, type: text, text_content: hi}
assertions:
  - type: category_count
    category: shape
    count: 1
`

func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestCheckPasses(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"fade.yaml": passingScenario, "notes.txt": "ignored"})

	res := execute(testOptions(t), "", "check", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "✓ circle_fades_in")
	assert.Contains(t, res.out, "1 passed, 0 failed, 1 total")
}

func TestCheckFailures(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"a.yaml": passingScenario,
		"b.yml":  failingScenario,
		"c.yaml": "name: [broken",
	})

	res := execute(testOptions(t), "", "check", dir)
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.out, "✓ circle_fades_in")
	assert.Contains(t, res.out, "✗ wrong_count")
	assert.Contains(t, res.out, "  Assertion failed: category_count")
	assert.Contains(t, res.out, "✗ c.yaml")
	assert.Contains(t, res.out, "failed to load scenario")
	assert.Contains(t, res.out, "1 passed, 2 failed, 3 total")
}

func TestCheckFilterAndJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"fade.yaml":  passingScenario,
		"wrong.yaml": failingScenario,
	})

	res := execute(testOptions(t), "", "--format", "json", "check", dir, "--filter", "fa*")
	require.NoError(t, res.err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "circle_fades_in", resp.Data.Scenarios[0].Name)
	assert.True(t, resp.Data.Scenarios[0].Pass)
}

func TestCheckEmptyDir(t *testing.T) {
	res := execute(testOptions(t), "", "check", t.TempDir())
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No scenarios found.")
}

func TestCheckMissingDir(t *testing.T) {
	res := execute(testOptions(t), "", "check", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.out, ErrCodeNotFound)
}

func TestCheckBadFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"fade.yaml": passingScenario})

	res := execute(testOptions(t), "", "check", dir, "--filter", "[")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.out, "invalid filter pattern")
}
