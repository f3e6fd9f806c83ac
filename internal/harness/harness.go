package harness

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/scenegen/internal/codegen"
	"github.com/roach88/scenegen/internal/compiler"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Context is the built context, nil for rejection scenarios.
	Context *codegen.Context `json:"context,omitempty"`

	// Errors lists failed assertions. Empty if Pass is true.
	Errors []string `json:"errors"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run compiles the scenario's scene and evaluates its assertions.
//
// An error is returned only when the scenario cannot be executed: the scene
// file is unreadable, or a scene expected to compile was refused. Failed
// assertions are reported in the Result.
func Run(s *Scenario) (*Result, error) {
	raw, err := s.sceneSource()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: read scene: %w", s.Name, err)
	}

	result := NewResult()
	scene, err := compiler.CompileSceneYAML(raw)

	if s.Reject != "" {
		checkRejection(result, s, err)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result.Context = codegen.Build(scene)
	for _, msg := range EvaluateAssertions(result.Context, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func checkRejection(result *Result, s *Scenario, err error) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected %s rejection, scene compiled", s.Reject))
		return
	}

	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		result.AddError(fmt.Sprintf("expected compile error, got %v", err))
		return
	}
	if ce.Stage != s.Reject {
		result.AddError(fmt.Sprintf("expected %s rejection, got %s: %v", s.Reject, ce.Stage, err))
		return
	}

	var codes []string
	for _, issue := range ce.Issues {
		codes = append(codes, issue.Code)
	}
	for _, want := range s.RejectCodes {
		if !slices.Contains(codes, want) {
			result.AddError(fmt.Sprintf("expected issue %s, got %v", want, codes))
		}
	}
}
