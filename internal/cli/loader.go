package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/scenegen/internal/compiler"
	"github.com/roach88/scenegen/internal/ir"
)

// CLI error codes. Schema issue codes (E100-E109) come from the compiler.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Input could not be read
	ErrCodeNoJSON      = "E003" // No JSON object in model output
	ErrCodeDecode      = "E004" // Scene failed typed decode
	ErrCodeNotFound    = "E005" // Path or scene not found
	ErrCodeConfig      = "E006" // Missing or invalid configuration
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDatabase    = "E008" // Store error
	ErrCodeGeneration  = "E009" // Model call failed
	ErrCodeAmbiguous   = "E010" // Scene id prefix matches several scenes
)

// LoadError represents an error that occurred while reading a scene file.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading stdin: %v", err), Err: err}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}
	return data, nil
}

// isYAML reports whether path names a YAML scene file.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadScene reads and compiles a scene file. YAML files (.yaml, .yml) are
// accepted alongside JSON and raw model output.
// Read failures return *LoadError; invalid scenes return *compiler.CompileError.
func LoadScene(path string, stdin io.Reader) (*ir.SceneStructure, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return compiler.CompileSceneYAML(data)
	}
	return compiler.CompileScene(data)
}

// compileErrorCode maps a compile failure to a CLI error code.
func compileErrorCode(ce *compiler.CompileError) string {
	switch ce.Stage {
	case compiler.StageExtract:
		return ErrCodeNoJSON
	case compiler.StageSchema:
		if len(ce.Issues) > 0 {
			return ce.Issues[0].Code
		}
		return compiler.ErrSchemaOther
	case compiler.StageDecode:
		return ErrCodeDecode
	}
	return ErrCodeGeneric
}

// failLoad reports a LoadScene error. Read failures are command errors;
// invalid scenes are validation failures.
func failLoad(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return f.Fail(ExitCommandError, le.Code, le.Message, nil)
	}
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		var details any
		if len(ce.Issues) > 0 {
			details = ce.Issues
		}
		_ = f.Error(compileErrorCode(ce), ce.Error(), details)
		return WrapExitError(ExitFailure, "invalid scene", err)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
