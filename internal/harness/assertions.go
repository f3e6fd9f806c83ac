package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/scenegen/internal/codegen"
)

// AssertionError is returned when an assertion fails.
// It includes the scene summary to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Summary  string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Summary != "" {
		fmt.Fprintf(&buf, "\nContext:\n%s", e.Summary)
	}
	return buf.String()
}

func failure(c *codegen.Context, typ, expected, actual string) error {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Summary:  c.Summary(),
	}
}

func assertCategoryCount(c *codegen.Context, a Assertion) error {
	got := len(c.ObjectsIn(codegen.ObjectCategory(a.Category))) +
		len(c.AnimationsIn(codegen.AnimationCategory(a.Category)))
	if got != a.Count {
		return failure(c, a.Type,
			fmt.Sprintf("%d in %s", a.Count, a.Category),
			fmt.Sprintf("%d", got))
	}
	return nil
}

func assertCreationOrder(c *codegen.Context, a Assertion) error {
	var got []string
	for _, obj := range c.CreationOrder() {
		got = append(got, obj.ID)
	}
	if !slices.Equal(got, a.IDs) {
		return failure(c, a.Type, fmt.Sprintf("%v", a.IDs), fmt.Sprintf("%v", got))
	}
	return nil
}

func assertChain(c *codegen.Context, a Assertion) error {
	for _, chain := range c.TransformationChains {
		if slices.Equal(chain, a.IDs) {
			return nil
		}
	}
	return failure(c, a.Type,
		fmt.Sprintf("chain %v", a.IDs),
		fmt.Sprintf("chains %v", c.TransformationChains))
}

// assertTimelineOrder checks that the ids appear in the timeline in the given
// order. They need not be consecutive.
func assertTimelineOrder(c *codegen.Context, a Assertion) error {
	positions := make(map[string]int, len(c.Timeline))
	var order []string
	for i, ta := range c.Timeline {
		if _, ok := positions[ta.Animation.ID]; !ok {
			positions[ta.Animation.ID] = i
			order = append(order, ta.Animation.ID)
		}
	}

	for _, id := range a.IDs {
		if _, ok := positions[id]; !ok {
			return failure(c, a.Type,
				fmt.Sprintf("all animations present: %v", a.IDs),
				fmt.Sprintf("missing animation: %s", id))
		}
	}
	for i := 1; i < len(a.IDs); i++ {
		prev, curr := a.IDs[i-1], a.IDs[i]
		if positions[prev] >= positions[curr] {
			return failure(c, a.Type,
				fmt.Sprintf("animations in order: %v", a.IDs),
				fmt.Sprintf("timeline %v", order))
		}
	}
	return nil
}

func assertStartsAt(c *codegen.Context, a Assertion) error {
	for _, ta := range c.Timeline {
		if ta.Animation.ID != a.Subject {
			continue
		}
		if ta.Start != a.At {
			return failure(c, a.Type,
				fmt.Sprintf("%s starts at %g", a.Subject, a.At),
				fmt.Sprintf("starts at %g", ta.Start))
		}
		return nil
	}
	return failure(c, a.Type,
		fmt.Sprintf("%s starts at %g", a.Subject, a.At),
		"not in timeline")
}

func assertWarning(c *codegen.Context, a Assertion) error {
	for _, w := range c.Warnings {
		if string(w.Code) == a.Code && (a.Subject == "" || w.Subject == a.Subject) {
			return nil
		}
	}
	expected := a.Code
	if a.Subject != "" {
		expected += " for " + a.Subject
	}
	return failure(c, a.Type, expected, fmt.Sprintf("%d warning(s)", len(c.Warnings)))
}

func assertNoWarnings(c *codegen.Context, a Assertion) error {
	if len(c.Warnings) == 0 {
		return nil
	}
	var got []string
	for _, w := range c.Warnings {
		got = append(got, w.String())
	}
	return failure(c, a.Type, "no warnings", strings.Join(got, "; "))
}

func assertImports(c *codegen.Context, a Assertion) error {
	got := c.Imports()
	if !slices.Equal(got, a.IDs) {
		return failure(c, a.Type, fmt.Sprintf("%q", a.IDs), fmt.Sprintf("%q", got))
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the context.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(c *codegen.Context, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCategoryCount:
			err = assertCategoryCount(c, assertion)
		case AssertCreationOrder:
			err = assertCreationOrder(c, assertion)
		case AssertChain:
			err = assertChain(c, assertion)
		case AssertTimelineOrder:
			err = assertTimelineOrder(c, assertion)
		case AssertStartsAt:
			err = assertStartsAt(c, assertion)
		case AssertWarning:
			err = assertWarning(c, assertion)
		case AssertNoWarnings:
			err = assertNoWarnings(c, assertion)
		case AssertImports:
			err = assertImports(c, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
