package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scenegen/internal/compiler"
	"github.com/roach88/scenegen/internal/config"
	"github.com/roach88/scenegen/internal/llm"
	"github.com/roach88/scenegen/internal/pipeline"
	"github.com/roach88/scenegen/internal/source"
	"github.com/roach88/scenegen/internal/store"
)

// GeneratorFactory creates the model client for the generate command.
type GeneratorFactory func(ctx context.Context, cfg *config.Config) (llm.Generator, error)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Title    string
	Store    bool
	Database string
	Model    string
	Retries  int
}

// SceneResult is one generated scene in command output.
type SceneResult struct {
	Index      int     `json:"index"`
	SceneID    string  `json:"scene_id,omitempty"`
	Title      string  `json:"title"`
	Objects    int     `json:"objects"`
	Animations int     `json:"animations"`
	Duration   float64 `json:"duration"`
}

// GenerateResult is the output of the generate command.
type GenerateResult struct {
	Title         string        `json:"title"`
	Source        string        `json:"source"`
	Model         string        `json:"model"`
	Scenes        []SceneResult `json:"scenes"`
	TotalDuration float64       `json:"total_duration"`
	Stored        bool          `json:"stored"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <document>",
		Short: "Generate scenes from a PDF or text document",
		Long: `Generate scene descriptions from a document with a language model.

Long documents are split at paragraph boundaries and each chunk becomes
one scene; chunks are generated in parallel. Every model answer is
validated before it is accepted.

Requires GOOGLE_API_KEY (or GEMINI_API_KEY), read from the environment
or a .env file.

Examples:
  scenegen generate notes.md
  scenegen generate paper.pdf --title "Fourier Series" --store
  scenegen generate paper.pdf --store --db ./scenes.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "title for the scene set (default: file name)")
	cmd.Flags().BoolVar(&opts.Store, "store", false, "save scenes and generation records to the database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: $SCENEGEN_DB)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "model name (default: $SCENEGEN_MODEL)")
	cmd.Flags().IntVar(&opts.Retries, "retries", 3, "attempts per model call")

	return cmd
}

func newGeminiGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return llm.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.config()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}

	doc, err := source.Load(path)
	if err != nil {
		code := ErrCodeReadFailed
		if errors.Is(err, source.ErrNoText) {
			code = ErrCodeNoJSON
		}
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded %s (%s, %d page(s), %d chars)", doc.Path, doc.Kind, doc.Pages, len(doc.Text))

	factory := opts.NewGenerator
	if factory == nil {
		factory = newGeminiGenerator
	}
	gen, err := factory(ctx, cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	proc := &pipeline.Processor{
		Generator:  llm.WithRetry(gen, opts.Retries, 500*time.Millisecond),
		Logger:     newLogger(opts.RootOptions, cmd),
		Workers:    cfg.Workers,
		ChunkChars: cfg.ChunkChars,
	}

	if opts.Store {
		dbPath := opts.Database
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err), nil)
		}
		defer st.Close()
		proc.Store = st
	}

	ms, err := proc.ProcessDocument(ctx, doc, opts.Title)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			return formatter.Fail(ExitFailure, compileErrorCode(ce), err.Error(), validationErrors(ce))
		}
		return formatter.Fail(ExitFailure, ErrCodeGeneration, err.Error(), nil)
	}

	result := GenerateResult{
		Title:         ms.Title,
		Source:        doc.Path,
		Model:         gen.Name(),
		Scenes:        make([]SceneResult, 0, len(ms.Scenes)),
		TotalDuration: ms.TotalDuration,
		Stored:        opts.Store,
	}
	for i, s := range ms.Scenes {
		result.Scenes = append(result.Scenes, SceneResult{
			Index:      i,
			SceneID:    ms.SceneIDs[i],
			Title:      s.Settings.Title,
			Objects:    len(s.Objects),
			Animations: len(s.Animations),
			Duration:   s.Settings.Duration,
		})
	}

	return outputGenerateSuccess(formatter, result)
}

func outputGenerateSuccess(formatter *OutputFormatter, result GenerateResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Generated %d scene(s) for %q (%ss total)\n\n",
		len(result.Scenes), result.Title, formatSeconds(result.TotalDuration))
	for _, s := range result.Scenes {
		fmt.Fprintf(formatter.Writer, "  %d. %s (%d object(s), %d animation(s), %ss)",
			s.Index+1, s.Title, s.Objects, s.Animations, formatSeconds(s.Duration))
		if s.SceneID != "" {
			fmt.Fprintf(formatter.Writer, " %s", shortID(s.SceneID))
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}
