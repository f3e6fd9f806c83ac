package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scenegen/internal/codegen"
	"github.com/roach88/scenegen/internal/compiler"
	"github.com/roach88/scenegen/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                       `json:"valid"`
	SceneID    string                     `json:"scene_id,omitempty"`
	Objects    int                        `json:"objects"`
	Animations int                        `json:"animations"`
	Errors     []compiler.ValidationError `json:"errors,omitempty"`
	Warnings   []codegen.Warning          `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scene-file>",
		Short: "Validate a scene file",
		Long: `Validate a scene file (JSON, YAML or raw model output) against the
scene schema and report every violation.

A valid scene is also analyzed; analysis warnings (dangling references,
ambiguous or cyclic transforms) are reported but do not fail validation.
Use "-" to read from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	scene, err := LoadScene(path, cmd.InOrStdin())
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			return outputValidationErrors(formatter, validationErrors(ce))
		}
		return failLoad(formatter, err)
	}

	id, err := ir.SceneID(scene)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	formatter.VerboseLog("Scene %s decoded", id)

	result := ValidationResult{
		Valid:      true,
		SceneID:    id,
		Objects:    len(scene.Objects),
		Animations: len(scene.Animations),
		Warnings:   codegen.Build(scene).Warnings,
	}
	return outputValidateSuccess(formatter, result)
}

// validationErrors flattens a compile failure into coded issues.
func validationErrors(ce *compiler.CompileError) []compiler.ValidationError {
	if len(ce.Issues) > 0 {
		return ce.Issues
	}
	msg := ce.Message
	if ce.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, ce.Err)
	}
	return []compiler.ValidationError{{
		Field:   ce.Field,
		Message: msg,
		Code:    compileErrorCode(ce),
	}}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Scene valid: %d object(s), %d animation(s)\n",
		result.Objects, result.Animations)
	fmt.Fprintf(formatter.Writer, "  id: %s\n", result.SceneID)
	if len(result.Warnings) > 0 {
		fmt.Fprintf(formatter.Writer, "\n%d warning(s):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.Writer, "  %s\n", w)
		}
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		if err.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s %s: %s\n\n", err.Code, err.Field, err.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return failure
}
