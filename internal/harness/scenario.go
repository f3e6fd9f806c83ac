package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scenegen/internal/codegen"
	"github.com/roach88/scenegen/internal/compiler"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SceneFile is a YAML or JSON scene, resolved relative to the scenario
	// file by LoadScenario.
	SceneFile string `yaml:"scene_file,omitempty"`

	// Scene is an inline scene. Exactly one of Scene and SceneFile is set.
	Scene yaml.Node `yaml:"scene,omitempty"`

	// Reject is the compile stage expected to refuse the scene.
	Reject string `yaml:"reject,omitempty"`

	// RejectCodes must all appear among the schema issues of the refusal.
	RejectCodes []string `yaml:"reject_codes,omitempty"`

	// Assertions validate the built context.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates one property of a built context.
type Assertion struct {
	Type     string   `yaml:"type"`
	Category string   `yaml:"category,omitempty"` // category_count
	Count    int      `yaml:"count,omitempty"`    // category_count
	IDs      []string `yaml:"ids,omitempty"`      // creation_order, chain, timeline_order, imports
	Subject  string   `yaml:"subject,omitempty"`  // starts_at, warning
	At       float64  `yaml:"at,omitempty"`       // starts_at
	Code     string   `yaml:"code,omitempty"`     // warning
}

// Assertion type constants.
const (
	AssertCategoryCount = "category_count"
	AssertCreationOrder = "creation_order"
	AssertChain         = "chain"
	AssertTimelineOrder = "timeline_order"
	AssertStartsAt      = "starts_at"
	AssertWarning       = "warning"
	AssertNoWarnings    = "no_warnings"
	AssertImports       = "imports"
)

var rejectStages = []string{compiler.StageExtract, compiler.StageSchema, compiler.StageDecode}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.SceneFile != "" && !filepath.IsAbs(s.SceneFile) {
		s.SceneFile = filepath.Join(filepath.Dir(path), s.SceneFile)
	}
	if s.SceneFile != "" {
		if _, err := os.Stat(s.SceneFile); err != nil {
			return nil, fmt.Errorf("%s: scene file: %w", path, err)
		}
	}
	return s, nil
}

// ParseScenario decodes scenario YAML with strict field checking.
// SceneFile is left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// LoadDir loads every *.yaml scenario directly under dir, sorted by file
// name. Duplicate scenario names are rejected.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	seen := make(map[string]string, len(paths))
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("scenario %q defined in both %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// sceneSource returns the raw scene bytes.
func (s *Scenario) sceneSource() ([]byte, error) {
	if s.SceneFile != "" {
		return os.ReadFile(s.SceneFile)
	}
	return yaml.Marshal(&s.Scene)
}

func (s *Scenario) hasInlineScene() bool {
	return s.Scene.Kind != 0
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.SceneFile == "" && !s.hasInlineScene():
		return fmt.Errorf("one of scene or scene_file is required")
	case s.SceneFile != "" && s.hasInlineScene():
		return fmt.Errorf("scene and scene_file are mutually exclusive")
	}

	if s.Reject != "" {
		if !slices.Contains(rejectStages, s.Reject) {
			return fmt.Errorf("reject: unknown stage %q (want one of %v)", s.Reject, rejectStages)
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions cannot be combined with reject")
		}
		return nil
	}
	if len(s.RejectCodes) > 0 {
		return fmt.Errorf("reject_codes requires reject")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCategoryCount:
		if !knownCategory(a.Category) {
			return fmt.Errorf("assertions[%d]: unknown category %q", index, a.Category)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be >= 0", index)
		}
	case AssertCreationOrder, AssertChain, AssertTimelineOrder, AssertImports:
		if len(a.IDs) == 0 {
			return fmt.Errorf("assertions[%d]: ids is required for %s", index, a.Type)
		}
	case AssertStartsAt:
		if a.Subject == "" {
			return fmt.Errorf("assertions[%d]: subject is required for starts_at", index)
		}
	case AssertWarning:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for warning", index)
		}
	case AssertNoWarnings:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func knownCategory(name string) bool {
	for _, c := range codegen.ObjectCategories() {
		if string(c) == name {
			return true
		}
	}
	for _, c := range codegen.AnimationCategories() {
		if string(c) == name {
			return true
		}
	}
	return false
}
