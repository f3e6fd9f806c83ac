package cli

import (
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenegen/internal/compiler"
)

func TestValidateValidScene(t *testing.T) {
	res := execute(testOptions(t), "", "validate", testdata("valid.json"))
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "✓ Scene valid: 3 object(s), 3 animation(s)")
	assert.Contains(t, res.out, "id: ")
	assert.NotContains(t, res.out, "warning")
}

func TestValidateValidSceneJSON(t *testing.T) {
	res := execute(testOptions(t), "", "--format", "json", "validate", testdata("valid.yaml"))
	require.NoError(t, res.err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Len(t, resp.Data.SceneID, 64)
	assert.Equal(t, 3, resp.Data.Objects)
}

func TestValidateReportsWarnings(t *testing.T) {
	res := execute(testOptions(t), "", "validate", testdata("dangling.json"))
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "1 warning(s)")
	assert.Contains(t, res.out, "[REFERENTIAL_GAP]")
	assert.Contains(t, res.out, `"ghost"`)
}

func TestValidateInvalidScene(t *testing.T) {
	res := execute(testOptions(t), "", "validate", testdata("invalid.json"))
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.out, "✗ Validation failed")
	assert.Contains(t, res.out, "objects[0].id")
	assert.Contains(t, res.out, "settings.quality")
	assert.Contains(t, res.out, compiler.ErrMissingField)
}

func TestValidateInvalidSceneJSON(t *testing.T) {
	res := execute(testOptions(t), "", "--format", "json", "validate", testdata("invalid.json"))
	require.Error(t, res.err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.GreaterOrEqual(t, len(resp.Data.Errors), 3)
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.Code)
}

func TestValidateNoJSON(t *testing.T) {
	res := execute(testOptions(t), "I could not produce a scene.", "validate", "-")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.out, ErrCodeNoJSON)
}

func TestValidateStdinModelOutput(t *testing.T) {
	data, err := os.ReadFile(testdata("model_output.txt"))
	require.NoError(t, err)

	res := execute(testOptions(t), string(data), "validate", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "1 object(s), 1 animation(s)")
}

func TestValidateNonExistentFile(t *testing.T) {
	res := execute(testOptions(t), "", "validate", "/nonexistent/scene.json")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.err.Error(), ErrCodeNotFound)
	assert.Contains(t, res.out, "not found")
}

func TestValidateInvalidYAML(t *testing.T) {
	path := t.TempDir() + "/bad.yaml"
	require.NoError(t, os.WriteFile(path, []byte("objects: [unclosed"), 0o600))

	res := execute(testOptions(t), "", "validate", path)
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.out, "invalid YAML")
}
