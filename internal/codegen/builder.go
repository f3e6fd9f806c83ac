package codegen

import (
	"slices"

	"github.com/roach88/scenegen/internal/ir"
)

// Build derives the code-generation context for scene.
//
// Build does not mutate scene and always returns a usable Context; problems
// a consumer may care about are reported in Context.Warnings.
func Build(scene *ir.SceneStructure) *Context {
	ctx := &Context{
		SceneTitle:       scene.Settings.Title,
		SceneDescription: scene.Settings.Description,
		TotalDuration:    scene.Settings.Duration,
		BackgroundColor:  ResolveColor(scene.Settings.BackgroundColor),

		TextObjects:  []ir.SceneObject{},
		ShapeObjects: []ir.SceneObject{},
		MathObjects:  []ir.SceneObject{},
		LineObjects:  []ir.SceneObject{},
		GraphObjects: []ir.SceneObject{},

		CreationAnimations:       []ir.AnimationStep{},
		TransformationAnimations: []ir.AnimationStep{},
		MovementAnimations:       []ir.AnimationStep{},
		StyleAnimations:          []ir.AnimationStep{},
	}
	if ctx.SceneTitle == "" {
		ctx.SceneTitle = DefaultTitle
	}

	for _, obj := range scene.Objects {
		if cat, ok := ObjectCategoryOf(obj.Type); ok {
			ctx.addObject(cat, obj)
		}
	}

	for _, anim := range scene.Animations {
		if cat, ok := AnimationCategoryOf(anim.Type); ok {
			ctx.addAnimation(cat, anim)
		}
	}

	ctx.Timeline = buildTimeline(scene.Animations)
	ctx.DependencyMap = buildDependencyMap(scene)
	ctx.TransformationChains = buildChains(newSuccessors(scene.Animations))
	ctx.Warnings = diagnose(scene)

	return ctx
}

// buildTimeline pairs every animation with its delay and sorts by start
// time. Equal start times keep their input order.
func buildTimeline(anims []ir.AnimationStep) []TimedAnimation {
	timeline := make([]TimedAnimation, 0, len(anims))
	for _, anim := range anims {
		timeline = append(timeline, TimedAnimation{Start: anim.Delay, Animation: anim})
	}
	slices.SortStableFunc(timeline, func(a, b TimedAnimation) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return timeline
}
