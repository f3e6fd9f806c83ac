package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scenegen/internal/ir"
)

// HashResult is the content address of a scene.
type HashResult struct {
	SceneID   string `json:"scene_id"`
	IRVersion string `json:"ir_version"`
	Canonical string `json:"canonical,omitempty"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	var showCanonical bool

	cmd := &cobra.Command{
		Use:   "hash <scene-file>",
		Short: "Print the content-addressed id of a scene",
		Long: `Print the scene id: SHA-256 over the RFC 8785 canonical JSON of the
validated scene. Two files describing the same scene hash identically
regardless of key order, whitespace or number formatting.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			scene, err := LoadScene(args[0], cmd.InOrStdin())
			if err != nil {
				return failLoad(formatter, err)
			}
			id, err := ir.SceneID(scene)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
			}

			result := HashResult{SceneID: id, IRVersion: ir.IRVersion}
			if showCanonical {
				canonical, err := ir.CanonicalScene(scene)
				if err != nil {
					return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
				}
				result.Canonical = string(canonical)
			}

			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			fmt.Fprintln(formatter.Writer, result.SceneID)
			if showCanonical {
				fmt.Fprintln(formatter.Writer, result.Canonical)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCanonical, "canonical", false, "also print the canonical JSON")

	return cmd
}
