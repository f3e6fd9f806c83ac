package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenegen/internal/config"
	"github.com/roach88/scenegen/internal/llm"
)

// echoGenerator answers with a one-text scene titled by the first line of
// its input.
func echoGenerator() *llm.FakeGenerator {
	return &llm.FakeGenerator{Respond: func(in string) (string, error) {
		title := strings.SplitN(in, "\n", 2)[0]
		return fmt.Sprintf(`{"settings": {"title": %q, "duration": 3},
			"objects": [{"id": "t", "type": "text", "text_content": %q}],
			"animations": [{"id": "w", "type": "write", "target_objects": ["t"]}]}`, title, title), nil
	}}
}

func writeDoc(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lecture.md")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestGenerateText(t *testing.T) {
	opts := testOptions(t)
	opts.NewGenerator = fakeFactory(echoGenerator())

	res := execute(opts, "", "generate", writeDoc(t, "Derivatives\n\nSlopes of tangents."))
	require.NoError(t, res.err)
	assert.Contains(t, res.out, `✓ Generated 1 scene(s) for "lecture" (3s total)`)
	assert.Contains(t, res.out, "1. Derivatives (1 object(s), 1 animation(s), 3s)")
}

func TestGenerateChunksAndStores(t *testing.T) {
	opts := testOptions(t)
	opts.Config.ChunkChars = 10
	opts.NewGenerator = fakeFactory(echoGenerator())

	doc := writeDoc(t, "Limits\n\nDerivatives\n\nIntegrals")
	res := execute(opts, "", "--format", "json", "generate", doc, "--title", "Calculus", "--store")
	require.NoError(t, res.err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Calculus", resp.Data.Title)
	assert.Equal(t, "fake", resp.Data.Model)
	assert.True(t, resp.Data.Stored)
	assert.Equal(t, 9.0, resp.Data.TotalDuration)
	require.Len(t, resp.Data.Scenes, 3)
	for i, want := range []string{"Limits", "Derivatives", "Integrals"} {
		assert.Equal(t, want, resp.Data.Scenes[i].Title)
		assert.Len(t, resp.Data.Scenes[i].SceneID, 64)
	}

	list := execute(opts, "", "scenes", "list")
	require.NoError(t, list.err)
	assert.Contains(t, list.out, "Limits")
	assert.Contains(t, list.out, "Integrals")
}

func TestGenerateRejectedOutput(t *testing.T) {
	opts := testOptions(t)
	opts.NewGenerator = fakeFactory(llm.NewFakeGenerator(`{"objects": [{"id": "x", "type": "hexagon"}]}`))

	res := execute(opts, "", "generate", "--retries", "1", writeDoc(t, "notes"))
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.out, "E103")
}

func TestGenerateModelError(t *testing.T) {
	opts := testOptions(t)
	gen := &llm.FakeGenerator{Respond: func(string) (string, error) { return "", errors.New("quota exceeded") }}
	opts.NewGenerator = fakeFactory(gen)

	res := execute(opts, "", "generate", "--retries", "1", writeDoc(t, "notes"))
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.out, ErrCodeGeneration)
	assert.Contains(t, res.out, "quota exceeded")
}

func TestGenerateMissingAPIKey(t *testing.T) {
	res := execute(testOptions(t), "", "generate", writeDoc(t, "notes"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.out, ErrCodeConfig)
	assert.Contains(t, res.out, config.EnvGoogleAPIKey)
}

func TestGenerateFactoryError(t *testing.T) {
	opts := testOptions(t)
	opts.NewGenerator = func(context.Context, *config.Config) (llm.Generator, error) {
		return nil, errors.New("no client")
	}

	res := execute(opts, "", "generate", writeDoc(t, "notes"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestGenerateMissingDocument(t *testing.T) {
	opts := testOptions(t)
	opts.NewGenerator = fakeFactory(echoGenerator())

	res := execute(opts, "", "generate", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.out, ErrCodeReadFailed)
}
