package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scenegen/internal/compiler"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <model-output>",
		Short: "Strip code fences and prose from model output",
		Long: `Print the JSON object found in raw model output, without validating it.
Useful for inspecting answers that fail validation. Use "-" to read
from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return failLoad(formatter, err)
			}

			text, err := compiler.ExtractJSON(string(data))
			if errors.Is(err, compiler.ErrNoJSON) {
				return formatter.Fail(ExitFailure, ErrCodeNoJSON, "no JSON object found in input", nil)
			}
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"json": text})
			}
			fmt.Fprintln(formatter.Writer, text)
			return nil
		},
	}

	return cmd
}
