package compiler

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/roach88/scenegen/internal/ir"
)

// CompileScene turns untrusted model output into a validated scene.
//
// The input goes through three gates: fence stripping (ExtractJSON), the CUE
// schema (ValidateSchema), then ir.Decode. Any failure returns a
// *CompileError carrying the offending fragment and the original cause; no
// partial scene is returned.
func CompileScene(raw []byte) (*ir.SceneStructure, error) {
	text, err := ExtractJSON(string(raw))
	if err != nil {
		return nil, &CompileError{
			Stage:    StageExtract,
			Message:  "no scene JSON in input",
			Fragment: ir.Fragment([]byte(text)),
			Err:      err,
		}
	}
	data := []byte(text)

	if issues := ValidateSchema(data); len(issues) > 0 {
		return nil, &CompileError{
			Stage:    StageSchema,
			Field:    issues[0].Field,
			Message:  fmt.Sprintf("%d schema violation(s)", len(issues)),
			Fragment: ir.Fragment(data),
			Issues:   issues,
			Err:      issues[0],
		}
	}

	scene, err := ir.Decode(data)
	if err != nil {
		ce := &CompileError{
			Stage:    StageDecode,
			Message:  "invalid scene",
			Fragment: ir.Fragment(data),
			Err:      err,
		}
		var se *ir.SchemaError
		if errors.As(err, &se) {
			ce.Field = se.Path
			if se.Fragment != "" {
				ce.Fragment = se.Fragment
			}
		}
		return nil, ce
	}

	return scene, nil
}

// CompileSceneYAML accepts a hand-written YAML scene file and runs it
// through the same gate as CompileScene.
func CompileSceneYAML(raw []byte) (*ir.SceneStructure, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &CompileError{
			Stage:    StageExtract,
			Message:  "invalid YAML",
			Fragment: ir.Fragment(raw),
			Err:      err,
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, &CompileError{
			Stage:    StageExtract,
			Message:  "YAML scene is not representable as JSON",
			Fragment: ir.Fragment(raw),
			Err:      err,
		}
	}

	return CompileScene(data)
}

// IsCompileError reports whether err is or wraps a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
