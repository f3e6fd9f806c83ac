package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/scenegen/internal/codegen"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output string // output file path
}

// BuildResult is one built scene.
type BuildResult struct {
	Path    string           `json:"path"`
	Context *codegen.Context `json:"context"`
	Stats   codegen.Stats    `json:"stats"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <scene-file>...",
		Short: "Build the emitter context for scene files",
		Long: `Validate scene files and build the emitter context for each: objects and
animations grouped by category, the timeline, dependency map,
transformation chains and warnings.

Text output is a summary per scene; --format json emits the full contexts.
With --output the contexts are also written to a file as a JSON array.
Identical scenes are built once.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runBuild(opts *BuildOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cache, err := codegen.NewCache(len(paths))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	results := make([]BuildResult, 0, len(paths))
	for _, path := range paths {
		scene, err := LoadScene(path, cmd.InOrStdin())
		if err != nil {
			return failLoad(formatter, err)
		}
		ctx, err := cache.Build(scene)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		formatter.VerboseLog("Built %s: %d timeline entries, %d warning(s)",
			path, len(ctx.Timeline), len(ctx.Warnings))
		results = append(results, BuildResult{Path: path, Context: ctx, Stats: ctx.Stats()})
	}
	formatter.VerboseLog("%d distinct scene(s)", cache.Len())

	if opts.Output != "" {
		if err := writeContexts(results, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputBuildSuccess(formatter, results, opts.Output)
}

// writeContexts writes the contexts as an indented JSON array.
func writeContexts(results []BuildResult, path string) error {
	contexts := make([]*codegen.Context, 0, len(results))
	for _, r := range results {
		contexts = append(contexts, r.Context)
	}
	data, err := json.MarshalIndent(contexts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal contexts: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func outputBuildSuccess(formatter *OutputFormatter, results []BuildResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(results)
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "# %s\n", r.Path)
		fmt.Fprint(formatter.Writer, strings.TrimRight(r.Context.Summary(), "\n")+"\n")
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote %d context(s) to %s\n", len(results), outputFile)
	}
	return nil
}
