package codegen

import "github.com/roach88/scenegen/internal/ir"

// DefaultTitle replaces an empty scene title.
const DefaultTitle = "Generated Scene"

// TimedAnimation pairs an animation with its resolved start time.
type TimedAnimation struct {
	Start     float64          `json:"start"`
	Animation ir.AnimationStep `json:"animation"`
}

// Context is the read-only, emitter-ready view of a scene.
//
// Every categorized object appears in exactly one object partition and every
// categorized animation in exactly one animation partition. Timeline holds
// every animation, categorized or not. Callers must not mutate a Context; a
// Cache may hand the same value to many callers.
type Context struct {
	SceneTitle       string  `json:"scene_title"`
	SceneDescription string  `json:"scene_description"`
	TotalDuration    float64 `json:"total_duration"`
	BackgroundColor  string  `json:"background_color"`

	TextObjects  []ir.SceneObject `json:"text_objects"`
	ShapeObjects []ir.SceneObject `json:"shape_objects"`
	MathObjects  []ir.SceneObject `json:"math_objects"`
	LineObjects  []ir.SceneObject `json:"line_objects"`
	GraphObjects []ir.SceneObject `json:"graph_objects"`

	CreationAnimations       []ir.AnimationStep `json:"creation_animations"`
	TransformationAnimations []ir.AnimationStep `json:"transformation_animations"`
	MovementAnimations       []ir.AnimationStep `json:"movement_animations"`
	StyleAnimations          []ir.AnimationStep `json:"style_animations"`

	Timeline             []TimedAnimation    `json:"timeline"`
	DependencyMap        map[string][]string `json:"dependency_map"`
	TransformationChains [][]string          `json:"transformation_chains"`

	Warnings []Warning `json:"warnings"`
}

// ObjectsIn returns the partition for category c.
func (c *Context) ObjectsIn(cat ObjectCategory) []ir.SceneObject {
	switch cat {
	case CategoryText:
		return c.TextObjects
	case CategoryShape:
		return c.ShapeObjects
	case CategoryMath:
		return c.MathObjects
	case CategoryLine:
		return c.LineObjects
	case CategoryGraph:
		return c.GraphObjects
	}
	return nil
}

// AnimationsIn returns the partition for category c.
func (c *Context) AnimationsIn(cat AnimationCategory) []ir.AnimationStep {
	switch cat {
	case CategoryCreation:
		return c.CreationAnimations
	case CategoryTransformation:
		return c.TransformationAnimations
	case CategoryMovement:
		return c.MovementAnimations
	case CategoryStyle:
		return c.StyleAnimations
	}
	return nil
}

func (c *Context) addObject(cat ObjectCategory, obj ir.SceneObject) {
	switch cat {
	case CategoryText:
		c.TextObjects = append(c.TextObjects, obj)
	case CategoryShape:
		c.ShapeObjects = append(c.ShapeObjects, obj)
	case CategoryMath:
		c.MathObjects = append(c.MathObjects, obj)
	case CategoryLine:
		c.LineObjects = append(c.LineObjects, obj)
	case CategoryGraph:
		c.GraphObjects = append(c.GraphObjects, obj)
	}
}

func (c *Context) addAnimation(cat AnimationCategory, anim ir.AnimationStep) {
	switch cat {
	case CategoryCreation:
		c.CreationAnimations = append(c.CreationAnimations, anim)
	case CategoryTransformation:
		c.TransformationAnimations = append(c.TransformationAnimations, anim)
	case CategoryMovement:
		c.MovementAnimations = append(c.MovementAnimations, anim)
	case CategoryStyle:
		c.StyleAnimations = append(c.StyleAnimations, anim)
	}
}
