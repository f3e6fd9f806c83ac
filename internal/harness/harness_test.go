package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			if s.Reject != "" {
				assert.Nil(t, result.Context)
			} else {
				assert.NotNil(t, result.Context)
			}
		})
	}
}

func TestLoadDirOrder(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"dangling_target", "morph_chain", "prose", "pythagoras", "unknown_type"}, names)
}

func TestLoadDirDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := "name: same\ndescription: d\nscene: {objects: []}\nassertions:\n  - type: no_warnings\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(body), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "same" defined in both`)
}

func TestLoadScenarioResolvesSceneFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/pythagoras.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "scenes", "pythagoras.yaml"), s.SceneFile)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario("testdata/broken/missing_assertions.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertions list is required")

	_, err = LoadScenario("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")

	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	body := "name: s\ndescription: d\nscene_file: missing.yaml\nassertions:\n  - type: no_warnings\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	_, err = LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene file")
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\nscene: {}\nassertions: [{type: no_warnings}]",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\nscene: {}\nassertions: [{type: no_warnings}]",
			want: "description is required",
		},
		{
			name: "no scene",
			yaml: "name: n\ndescription: d\nassertions: [{type: no_warnings}]",
			want: "one of scene or scene_file is required",
		},
		{
			name: "both scene sources",
			yaml: "name: n\ndescription: d\nscene: {}\nscene_file: x.yaml\nassertions: [{type: no_warnings}]",
			want: "mutually exclusive",
		},
		{
			name: "unknown field",
			yaml: "name: n\ndescription: d\nscene: {}\nassertion: [{type: no_warnings}]",
			want: "failed to parse YAML",
		},
		{
			name: "unknown assertion type",
			yaml: "name: n\ndescription: d\nscene: {}\nassertions: [{type: sparkles}]",
			want: `unknown assertion type "sparkles"`,
		},
		{
			name: "unknown category",
			yaml: "name: n\ndescription: d\nscene: {}\nassertions: [{type: category_count, category: image}]",
			want: `unknown category "image"`,
		},
		{
			name: "chain without ids",
			yaml: "name: n\ndescription: d\nscene: {}\nassertions: [{type: chain}]",
			want: "ids is required for chain",
		},
		{
			name: "starts_at without subject",
			yaml: "name: n\ndescription: d\nscene: {}\nassertions: [{type: starts_at, at: 1}]",
			want: "subject is required",
		},
		{
			name: "warning without code",
			yaml: "name: n\ndescription: d\nscene: {}\nassertions: [{type: warning}]",
			want: "code is required",
		},
		{
			name: "unknown reject stage",
			yaml: "name: n\ndescription: d\nscene: {}\nreject: render",
			want: `unknown stage "render"`,
		},
		{
			name: "reject with assertions",
			yaml: "name: n\ndescription: d\nscene: {}\nreject: schema\nassertions: [{type: no_warnings}]",
			want: "cannot be combined",
		},
		{
			name: "reject codes without reject",
			yaml: "name: n\ndescription: d\nscene: {}\nreject_codes: [E103]\nassertions: [{type: no_warnings}]",
			want: "reject_codes requires reject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

const circleScene = `
name: circles
description: d
scene:
  objects:
    - {id: c1, type: circle}
    - {id: c2, type: circle}
  animations:
    - {id: grow, type: transform, target_objects: [c1], from_object: c1, to_object: c2, delay: 1}
`

func TestRunReportsFailedAssertions(t *testing.T) {
	s, err := ParseScenario([]byte(circleScene + `
assertions:
  - type: chain
    ids: [c2, c1]
  - type: starts_at
    subject: grow
    at: 2
  - type: starts_at
    subject: missing
  - type: warning
    code: TRANSFORM_CYCLE
  - type: creation_order
    ids: [c1, c2]
  - type: category_count
    category: shape
    count: 2
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "Assertion failed: chain")
	assert.Contains(t, result.Errors[0], "chains [[c1 c2]]")
	assert.Contains(t, result.Errors[1], "starts at 1")
	assert.Contains(t, result.Errors[2], "not in timeline")
	assert.Contains(t, result.Errors[3], "TRANSFORM_CYCLE")
	assert.Contains(t, result.Errors[3], "Context:")
}

func TestRunTimelineOrder(t *testing.T) {
	s, err := ParseScenario([]byte(circleScene + `
    - {id: first, type: fade_in, target_objects: [c1], delay: 0}
assertions:
  - type: timeline_order
    ids: [grow, first]
  - type: timeline_order
    ids: [first, nope]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "timeline [first grow]")
	assert.Contains(t, result.Errors[1], "missing animation: nope")
}

func TestRunUnexpectedCompile(t *testing.T) {
	s, err := ParseScenario([]byte(circleScene + "reject: schema\n"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"expected schema rejection, scene compiled"}, result.Errors)
}

func TestRunWrongRejection(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong
description: d
scene:
  objects:
    - {id: h, type: hexagon}
reject: schema
reject_codes: [E104]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected issue E104")
}

func TestRunCompileFailure(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: refused
description: d
scene:
  objects:
    - {id: h, type: hexagon}
assertions:
  - type: no_warnings
`))
	require.NoError(t, err)

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario refused")
}
