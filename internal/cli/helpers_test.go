package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/scenegen/internal/config"
	"github.com/roach88/scenegen/internal/llm"
)

// testOptions returns root options with a fixed configuration, so tests
// never read the process environment or a .env file.
func testOptions(t *testing.T) *RootOptions {
	t.Helper()
	return &RootOptions{Config: &config.Config{
		Model:       "test-model",
		Temperature: config.DefaultTemperature,
		DBPath:      filepath.Join(t.TempDir(), "scenes.db"),
		Workers:     2,
		ChunkChars:  config.DefaultChunkChars,
	}}
}

// fakeFactory serves gen to the generate command.
func fakeFactory(gen llm.Generator) GeneratorFactory {
	return func(context.Context, *config.Config) (llm.Generator, error) { return gen, nil }
}

type runResult struct {
	out    string
	errOut string
	err    error
}

// execute runs the root command with args and captures its output.
func execute(opts *RootOptions, stdin string, args ...string) runResult {
	cmd := newRootCommand(opts)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return runResult{out: out.String(), errOut: errOut.String(), err: err}
}

func testdata(name string) string {
	return filepath.Join("testdata", name)
}
