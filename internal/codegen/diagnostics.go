package codegen

import (
	"fmt"

	"github.com/roach88/scenegen/internal/ir"
)

// WarningCode classifies a non-fatal build diagnostic.
type WarningCode string

const (
	WarnDuplicateID        WarningCode = "DUPLICATE_ID"
	WarnUncategorized      WarningCode = "UNCATEGORIZED"
	WarnReferentialGap     WarningCode = "REFERENTIAL_GAP"
	WarnAmbiguousTransform WarningCode = "AMBIGUOUS_TRANSFORM"
	WarnTransformCycle     WarningCode = "TRANSFORM_CYCLE"
)

// Warning is a problem found while building a context. Warnings never stop
// a build; the emitter decides what to do with them.
type Warning struct {
	Code    WarningCode `json:"code"`
	Subject string      `json:"subject"`         // object or animation id
	Field   string      `json:"field,omitempty"` // e.g. "animations[2].to_object"
	Message string      `json:"message"`
	Path    []string    `json:"path,omitempty"` // cycle path, first id repeated at the end
}

func (w Warning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Code, w.Field, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// diagnose runs every check in a fixed order so the result is deterministic.
func diagnose(scene *ir.SceneStructure) []Warning {
	warnings := []Warning{}
	warnings = append(warnings, checkDuplicateIDs(scene)...)
	warnings = append(warnings, checkUncategorized(scene)...)
	warnings = append(warnings, checkReferences(scene)...)
	warnings = append(warnings, checkAmbiguousTransforms(scene.Animations)...)
	warnings = append(warnings, AnalyzeTransformCycles(scene.Animations)...)
	return warnings
}

func checkDuplicateIDs(scene *ir.SceneStructure) []Warning {
	var warnings []Warning

	objectIDs := make(map[string]bool)
	for i, obj := range scene.Objects {
		if objectIDs[obj.ID] {
			warnings = append(warnings, Warning{
				Code:    WarnDuplicateID,
				Subject: obj.ID,
				Field:   fmt.Sprintf("objects[%d].id", i),
				Message: fmt.Sprintf("duplicate object id %q", obj.ID),
			})
		}
		objectIDs[obj.ID] = true
	}

	animIDs := make(map[string]bool)
	for i, anim := range scene.Animations {
		if animIDs[anim.ID] {
			warnings = append(warnings, Warning{
				Code:    WarnDuplicateID,
				Subject: anim.ID,
				Field:   fmt.Sprintf("animations[%d].id", i),
				Message: fmt.Sprintf("duplicate animation id %q", anim.ID),
			})
		}
		animIDs[anim.ID] = true
	}

	return warnings
}

func checkUncategorized(scene *ir.SceneStructure) []Warning {
	var warnings []Warning

	for i, obj := range scene.Objects {
		if _, ok := ObjectCategoryOf(obj.Type); !ok {
			warnings = append(warnings, Warning{
				Code:    WarnUncategorized,
				Subject: obj.ID,
				Field:   fmt.Sprintf("objects[%d].type", i),
				Message: fmt.Sprintf("object type %q has no category; object %q is left out of category views", obj.Type, obj.ID),
			})
		}
	}

	for i, anim := range scene.Animations {
		if _, ok := AnimationCategoryOf(anim.Type); !ok {
			warnings = append(warnings, Warning{
				Code:    WarnUncategorized,
				Subject: anim.ID,
				Field:   fmt.Sprintf("animations[%d].type", i),
				Message: fmt.Sprintf("animation type %q has no category; animation %q is left out of category views and groups", anim.Type, anim.ID),
			})
		}
	}

	return warnings
}

func checkReferences(scene *ir.SceneStructure) []Warning {
	declared := make(map[string]bool, len(scene.Objects))
	for _, obj := range scene.Objects {
		declared[obj.ID] = true
	}

	var warnings []Warning
	gap := func(anim ir.AnimationStep, field, ref string) {
		warnings = append(warnings, Warning{
			Code:    WarnReferentialGap,
			Subject: anim.ID,
			Field:   field,
			Message: fmt.Sprintf("animation %q references undeclared object %q", anim.ID, ref),
		})
	}

	for i, anim := range scene.Animations {
		for j, target := range anim.TargetObjects {
			if !declared[target] {
				gap(anim, fmt.Sprintf("animations[%d].target_objects[%d]", i, j), target)
			}
		}
		if anim.FromObject != nil && *anim.FromObject != "" && !declared[*anim.FromObject] {
			gap(anim, fmt.Sprintf("animations[%d].from_object", i), *anim.FromObject)
		}
		if anim.ToObject != nil && *anim.ToObject != "" && !declared[*anim.ToObject] {
			gap(anim, fmt.Sprintf("animations[%d].to_object", i), *anim.ToObject)
		}
	}

	return warnings
}

func checkAmbiguousTransforms(anims []ir.AnimationStep) []Warning {
	var warnings []Warning
	first := make(map[string]string) // source -> animation id that set it

	for i, anim := range anims {
		from, to, ok := anim.TransformEdge()
		if !ok {
			continue
		}
		prev, seen := first[from]
		first[from] = anim.ID
		if !seen {
			continue
		}
		warnings = append(warnings, Warning{
			Code:    WarnAmbiguousTransform,
			Subject: anim.ID,
			Field:   fmt.Sprintf("animations[%d].from_object", i),
			Message: fmt.Sprintf("object %q is transformed by both %q and %q; chain uses %q -> %q", from, prev, anim.ID, from, to),
		})
	}

	return warnings
}
