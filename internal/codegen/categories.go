package codegen

import "github.com/roach88/scenegen/internal/ir"

// ObjectCategory groups object types for declaration.
type ObjectCategory string

const (
	CategoryText  ObjectCategory = "text"
	CategoryShape ObjectCategory = "shape"
	CategoryMath  ObjectCategory = "math"
	CategoryLine  ObjectCategory = "line"
	CategoryGraph ObjectCategory = "graph"
)

// AnimationCategory groups animation types for sequencing.
type AnimationCategory string

const (
	CategoryCreation       AnimationCategory = "creation"
	CategoryTransformation AnimationCategory = "transformation"
	CategoryMovement       AnimationCategory = "movement"
	CategoryStyle          AnimationCategory = "style"
)

// objectCategories maps each categorized object type to exactly one category.
// image and group are deliberately absent.
var objectCategories = map[ir.ObjectType]ObjectCategory{
	ir.ObjectText:      CategoryText,
	ir.ObjectMathText:  CategoryMath,
	ir.ObjectFormula:   CategoryMath,
	ir.ObjectCircle:    CategoryShape,
	ir.ObjectSquare:    CategoryShape,
	ir.ObjectRectangle: CategoryShape,
	ir.ObjectPolygon:   CategoryShape,
	ir.ObjectLine:      CategoryLine,
	ir.ObjectArrow:     CategoryLine,
	ir.ObjectAxes:      CategoryGraph,
	ir.ObjectGraph:     CategoryGraph,
}

// animationCategories maps each categorized animation type to exactly one
// category. uncreate is deliberately absent.
var animationCategories = map[ir.AnimationType]AnimationCategory{
	ir.AnimCreate:             CategoryCreation,
	ir.AnimWrite:              CategoryCreation,
	ir.AnimShowCreation:       CategoryCreation,
	ir.AnimDrawBorderThenFill: CategoryCreation,
	ir.AnimTransform:          CategoryTransformation,
	ir.AnimReplaceTransform:   CategoryTransformation,
	ir.AnimMoveTo:             CategoryMovement,
	ir.AnimShift:              CategoryMovement,
	ir.AnimFadeIn:             CategoryStyle,
	ir.AnimFadeOut:            CategoryStyle,
	ir.AnimScale:              CategoryStyle,
	ir.AnimRotate:             CategoryStyle,
	ir.AnimWiggle:             CategoryStyle,
	ir.AnimIndicate:           CategoryStyle,
	ir.AnimFlash:              CategoryStyle,
	ir.AnimCircumscribe:       CategoryStyle,
}

// ObjectCategoryOf returns the category of t, or false if t is uncategorized.
func ObjectCategoryOf(t ir.ObjectType) (ObjectCategory, bool) {
	c, ok := objectCategories[t]
	return c, ok
}

// AnimationCategoryOf returns the category of t, or false if t is uncategorized.
func AnimationCategoryOf(t ir.AnimationType) (AnimationCategory, bool) {
	c, ok := animationCategories[t]
	return c, ok
}

// ObjectCategories returns the categories in declaration order.
func ObjectCategories() []ObjectCategory {
	return []ObjectCategory{CategoryText, CategoryShape, CategoryMath, CategoryLine, CategoryGraph}
}

// AnimationCategories returns the categories in sequencing order.
func AnimationCategories() []AnimationCategory {
	return []AnimationCategory{CategoryCreation, CategoryTransformation, CategoryMovement, CategoryStyle}
}
