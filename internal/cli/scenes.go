package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/scenegen/internal/codegen"
	"github.com/roach88/scenegen/internal/ir"
	"github.com/roach88/scenegen/internal/store"
)

// ScenesOptions holds flags shared by the scenes subcommands.
type ScenesOptions struct {
	*RootOptions
	Database string
}

// SceneDetail is the output of scenes show.
type SceneDetail struct {
	ID          string             `json:"id"`
	Scene       json.RawMessage    `json:"scene"`
	Stats       codegen.Stats      `json:"stats"`
	Warnings    []codegen.Warning  `json:"warnings"`
	Generations []store.Generation `json:"generations"`
}

// NewScenesCommand creates the scenes command group.
func NewScenesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Browse stored scenes",
		Long: `Browse scenes saved by "generate --store".

Examples:
  scenegen scenes list
  scenegen scenes show 3fa9c1
  scenegen scenes show 3fa9c1 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: $SCENEGEN_DB)")

	cmd.AddCommand(newScenesListCommand(opts))
	cmd.AddCommand(newScenesShowCommand(opts))

	return cmd
}

func newScenesListCommand(opts *ScenesOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored scenes in insertion order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := opts.open()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}
			defer st.Close()

			list, err := st.ListScenes(commandContext(cmd))
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}

			if formatter.Format == "json" {
				return formatter.Success(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(formatter.Writer, "No scenes stored")
				return nil
			}
			for _, s := range list {
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Fprintf(formatter.Writer, "%s  %-32s  %3d obj  %3d anim  %6ss  %s\n",
					shortID(s.ID), title, s.Objects, s.Animations,
					formatSeconds(s.Duration), s.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newScenesShowCommand(opts *ScenesOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id-or-prefix>",
		Short:         "Show a stored scene with its analysis",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			ctx := commandContext(cmd)

			st, err := opts.open()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}
			defer st.Close()

			id, err := st.ResolveID(ctx, args[0])
			switch {
			case errors.Is(err, store.ErrNotFound):
				return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no scene matches %q", args[0]), nil)
			case errors.Is(err, store.ErrAmbiguous):
				return formatter.Fail(ExitCommandError, ErrCodeAmbiguous, fmt.Sprintf("%q matches several scenes", args[0]), nil)
			case err != nil:
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}

			scene, err := st.GetScene(ctx, id)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}
			gens, err := st.ListGenerations(ctx, id)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}

			built := codegen.Build(scene)

			if formatter.Format == "json" {
				data, err := ir.Encode(scene)
				if err != nil {
					return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
				}
				return formatter.Success(SceneDetail{
					ID:          id,
					Scene:       json.RawMessage(data),
					Stats:       built.Stats(),
					Warnings:    built.Warnings,
					Generations: gens,
				})
			}

			fmt.Fprintf(formatter.Writer, "id: %s\n", id)
			fmt.Fprint(formatter.Writer, built.Summary())
			fmt.Fprintf(formatter.Writer, "generations: %d\n", len(gens))
			for _, g := range gens {
				fmt.Fprintf(formatter.Writer, "  %s %s %s chunk=%d %s\n",
					g.CreatedAt.Format("2006-01-02 15:04:05"), g.Model, g.Source, g.ChunkIndex, g.Status)
			}
			return nil
		},
	}
}

func (o *ScenesOptions) open() (*store.Store, error) {
	path := o.Database
	if path == "" {
		cfg, err := o.config()
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// shortID abbreviates a content-addressed id for terminal output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func formatSeconds(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
