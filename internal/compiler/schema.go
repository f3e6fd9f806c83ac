package compiler

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/goccy/go-json"
)

// SchemaSource is the declarative scene schema, in CUE.
//
// It mirrors the rules ir.Decode enforces so untrusted input can be checked,
// with every problem listed, before a decode is attempted. Optional fields
// accept null because the decoder treats null as absent.
const SchemaSource = `
#Position: [number, number, number]

#Color: {
	name?: string | null
	hex?:  string | null
	rgb?:  #Position | null
	...
}

#Properties: {[string]: string | number | bool | [...number]}

#Quality:    "low_quality" | "medium_quality" | "high_quality"
#Resolution: "480p" | "720p" | "1080p" | "4k"

#ObjectType: "text" | "circle" | "square" | "rectangle" | "line" | "arrow" |
	"polygon" | "axes" | "graph" | "mathtext" | "formula" | "image" | "group"

#AnimationType: "create" | "write" | "draw_border_then_fill" | "fade_in" |
	"fade_out" | "transform" | "replace_transform" | "move_to" | "shift" |
	"rotate" | "scale" | "show_creation" | "uncreate" | "wiggle" | "indicate" |
	"flash" | "circumscribe"

#Settings: {
	title?:            string | null
	description?:      string | null
	duration?:         (number & >=0) | null
	background_color?: #Color | null
	camera_position?:  #Position | null
	quality?:          #Quality | null
	resolution?:       #Resolution | null
	...
}

#Object: {
	id!:           string
	type!:         #ObjectType
	properties?:   #Properties | null
	position?:     #Position | null
	color?:        #Color | null
	text_content?: string | null
	size?:         number | null
	opacity?:      (number & >=0 & <=1) | null
	layer?:        number | null
	...
}

#Animation: {
	id!:              string
	type!:            #AnimationType
	target_objects!:  [string, ...string]
	duration?:        (number & >=0) | null
	delay?:           (number & >=0) | null
	properties?:      #Properties | null
	easing?:          string | null
	from_object?:     string | null
	to_object?:       string | null
	target_position?: #Position | null
	offset?:          #Position | null
	...
}

#Scene: {
	settings?:   #Settings | null
	objects?:    [...#Object] | null
	animations?: [...#Animation] | null
	...
}
`

// Schema validation error codes (E100-E109)
const (
	ErrSchemaOther       = "E100" // any other schema violation
	ErrInvalidJSON       = "E101" // input is not a JSON object
	ErrMissingField      = "E102" // required field absent or empty
	ErrEnumValue         = "E103" // value outside an enumerated set
	ErrNumericRange      = "E104" // duration, delay or opacity out of range; fractional layer
	ErrArrayShape        = "E105" // coordinate or rgb array is not 3 numbers
	ErrPropertyShape     = "E106" // property bag value of an unsupported shape
	ErrSchemaUnavailable = "E109" // schema failed to compile
)

var (
	schemaOnce  sync.Once
	schemaMu    sync.Mutex
	schemaCtx   *cue.Context
	schemaScene cue.Value
	schemaErr   error
)

// sceneSchema compiles SchemaSource on first use. Callers must hold schemaMu.
func sceneSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(SchemaSource, cue.Filename("scene.cue"))
		if err := v.Err(); err != nil {
			schemaErr = formatCUEError(err)
			return
		}
		schemaScene = v.LookupPath(cue.ParsePath("#Scene"))
		if err := schemaScene.Err(); err != nil {
			schemaErr = formatCUEError(err)
		}
	})
	return schemaCtx, schemaScene, schemaErr
}

// ValidateSchema checks untrusted scene JSON against SchemaSource.
// Returns all errors found (does not fail-fast); an empty result means the
// input is schema-valid.
func ValidateSchema(data []byte) []ValidationError {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return []ValidationError{{
			Message: fmt.Sprintf("scene must be a JSON object: %v", err),
			Code:    ErrInvalidJSON,
		}}
	}
	if probe == nil {
		return []ValidationError{{
			Message: "scene must be a JSON object, got null",
			Code:    ErrInvalidJSON,
		}}
	}

	expr, err := cuejson.Extract("scene.json", data)
	if err != nil {
		return []ValidationError{{
			Message: err.Error(),
			Code:    ErrInvalidJSON,
		}}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	ctx, scene, err := sceneSchema()
	if err != nil {
		return []ValidationError{{
			Field:   "schema",
			Message: err.Error(),
			Code:    ErrSchemaUnavailable,
		}}
	}

	var issues []ValidationError
	v := scene.Unify(ctx.BuildExpr(expr))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		issues = schemaErrors(err)
	}
	for _, li := range layerIssues(probe["objects"]) {
		if !slices.ContainsFunc(issues, func(ve ValidationError) bool { return ve.Field == li.Field }) {
			issues = append(issues, li)
		}
	}
	return issues
}

// layerIssues reports object layers that are not whole numbers. The CUE
// schema admits any number for layer so that 1.0 passes; other shape
// problems in objects are left to CUE.
func layerIssues(raw json.RawMessage) []ValidationError {
	var objs []struct {
		Layer *float64 `json:"layer"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &objs) != nil {
		return nil
	}

	var out []ValidationError
	for i, o := range objs {
		if o.Layer == nil {
			continue
		}
		if l := *o.Layer; l != math.Trunc(l) || math.Abs(l) > math.MaxInt32 {
			out = append(out, ValidationError{
				Field:   fmt.Sprintf("objects[%d].layer", i),
				Message: fmt.Sprintf("layer %v is not a whole number", l),
				Code:    ErrNumericRange,
			})
		}
	}
	return out
}

// schemaErrors converts CUE errors to coded validation errors, keeping the
// first error reported for each field.
func schemaErrors(err error) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)

	for _, e := range errors.Errors(err) {
		path := e.Path()
		field := formatPath(path)
		if seen[field] {
			continue
		}
		seen[field] = true

		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		ve := ValidationError{
			Field:   field,
			Message: msg,
			Code:    classify(path, msg),
		}
		if pos := e.Position(); pos.IsValid() {
			ve.Line = pos.Line()
		}
		out = append(out, ve)
	}
	return out
}

// formatPath renders a CUE selector path as objects[0].id.
// Definition selectors such as #Scene are dropped.
func formatPath(path []string) string {
	var b strings.Builder
	for _, sel := range path {
		if strings.HasPrefix(sel, "#") {
			continue
		}
		if _, err := strconv.Atoi(sel); err == nil {
			b.WriteString("[" + sel + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}

var fieldCodes = map[string]string{
	"type":            ErrEnumValue,
	"quality":         ErrEnumValue,
	"resolution":      ErrEnumValue,
	"duration":        ErrNumericRange,
	"delay":           ErrNumericRange,
	"opacity":         ErrNumericRange,
	"position":        ErrArrayShape,
	"camera_position": ErrArrayShape,
	"target_position": ErrArrayShape,
	"offset":          ErrArrayShape,
	"rgb":             ErrArrayShape,
	"id":              ErrMissingField,
	"target_objects":  ErrMissingField,
}

func classify(path []string, msg string) string {
	for _, sel := range path {
		if sel == "properties" {
			return ErrPropertyShape
		}
	}
	if strings.Contains(msg, "required") {
		return ErrMissingField
	}

	for i := len(path) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(path[i]); err == nil {
			continue
		}
		if code, ok := fieldCodes[path[i]]; ok {
			return code
		}
		break
	}
	return ErrSchemaOther
}
