package ir

// ObjectType is the closed set of visual primitive kinds.
type ObjectType string

const (
	ObjectText      ObjectType = "text"
	ObjectCircle    ObjectType = "circle"
	ObjectSquare    ObjectType = "square"
	ObjectRectangle ObjectType = "rectangle"
	ObjectLine      ObjectType = "line"
	ObjectArrow     ObjectType = "arrow"
	ObjectPolygon   ObjectType = "polygon"
	ObjectAxes      ObjectType = "axes"
	ObjectGraph     ObjectType = "graph"
	ObjectMathText  ObjectType = "mathtext"
	ObjectFormula   ObjectType = "formula"
	ObjectImage     ObjectType = "image"
	ObjectGroup     ObjectType = "group"
)

var objectTypes = []ObjectType{
	ObjectText, ObjectCircle, ObjectSquare, ObjectRectangle, ObjectLine,
	ObjectArrow, ObjectPolygon, ObjectAxes, ObjectGraph, ObjectMathText,
	ObjectFormula, ObjectImage, ObjectGroup,
}

// AllObjectTypes returns every ObjectType in declaration order.
func AllObjectTypes() []ObjectType {
	return append([]ObjectType(nil), objectTypes...)
}

// Valid reports whether t is a member of the closed set.
func (t ObjectType) Valid() bool {
	for _, v := range objectTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t ObjectType) String() string { return string(t) }

// AnimationType is the closed set of animation verbs.
type AnimationType string

const (
	AnimCreate             AnimationType = "create"
	AnimWrite              AnimationType = "write"
	AnimDrawBorderThenFill AnimationType = "draw_border_then_fill"
	AnimFadeIn             AnimationType = "fade_in"
	AnimFadeOut            AnimationType = "fade_out"
	AnimTransform          AnimationType = "transform"
	AnimReplaceTransform   AnimationType = "replace_transform"
	AnimMoveTo             AnimationType = "move_to"
	AnimShift              AnimationType = "shift"
	AnimRotate             AnimationType = "rotate"
	AnimScale              AnimationType = "scale"
	AnimShowCreation       AnimationType = "show_creation"
	AnimUncreate           AnimationType = "uncreate"
	AnimWiggle             AnimationType = "wiggle"
	AnimIndicate           AnimationType = "indicate"
	AnimFlash              AnimationType = "flash"
	AnimCircumscribe       AnimationType = "circumscribe"
)

var animationTypes = []AnimationType{
	AnimCreate, AnimWrite, AnimDrawBorderThenFill, AnimFadeIn, AnimFadeOut,
	AnimTransform, AnimReplaceTransform, AnimMoveTo, AnimShift, AnimRotate,
	AnimScale, AnimShowCreation, AnimUncreate, AnimWiggle, AnimIndicate,
	AnimFlash, AnimCircumscribe,
}

// AllAnimationTypes returns every AnimationType in declaration order.
func AllAnimationTypes() []AnimationType {
	return append([]AnimationType(nil), animationTypes...)
}

// Valid reports whether t is a member of the closed set.
func (t AnimationType) Valid() bool {
	for _, v := range animationTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t AnimationType) String() string { return string(t) }

// IsTransform reports whether t links a source object to a destination
// object (transform or replace_transform).
func (t AnimationType) IsTransform() bool {
	return t == AnimTransform || t == AnimReplaceTransform
}

// Quality is the render quality tier.
type Quality string

const (
	QualityLow    Quality = "low_quality"
	QualityMedium Quality = "medium_quality"
	QualityHigh   Quality = "high_quality"
)

// Valid reports whether q is a known tier.
func (q Quality) Valid() bool {
	return q == QualityLow || q == QualityMedium || q == QualityHigh
}

// Resolution is the output resolution tag.
type Resolution string

const (
	Resolution480p  Resolution = "480p"
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution4K    Resolution = "4k"
)

// Valid reports whether r is a known resolution tag.
func (r Resolution) Valid() bool {
	switch r {
	case Resolution480p, Resolution720p, Resolution1080p, Resolution4K:
		return true
	}
	return false
}

// Position is a point in renderer coordinates. The zero value is the origin.
// Encoded as a 3-element array.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Slice returns the position as [x, y, z].
func (p Position) Slice() []float64 {
	return []float64{p.X, p.Y, p.Z}
}

// Color holds up to three representations of one color.
// Consumers pick Name, then Hex, then RGB, then a default.
type Color struct {
	Name *string   `json:"name"`
	Hex  *string   `json:"hex"`
	RGB  []float64 `json:"rgb"`
}

// IsZero reports whether no representation is set.
func (c Color) IsZero() bool {
	return c.Name == nil && c.Hex == nil && c.RGB == nil
}

// NamedColor returns a Color with only Name set.
func NamedColor(name string) Color {
	return Color{Name: &name}
}

// HexColor returns a Color with only Hex set.
func HexColor(hex string) Color {
	return Color{Hex: &hex}
}

// RGBColor returns a Color with only RGB set.
func RGBColor(r, g, b float64) Color {
	return Color{RGB: []float64{r, g, b}}
}

// SceneSettings holds scene-level metadata.
// Duration is in seconds and must be >= 0.
type SceneSettings struct {
	Title           string
	Description     string
	Duration        float64
	BackgroundColor Color
	CameraPosition  Position
	Quality         Quality
	Resolution      Resolution
}

// Decode defaults for absent fields.
const (
	DefaultSceneDuration     = 10.0
	DefaultAnimationDuration = 1.0
	DefaultOpacity           = 1.0
	DefaultEasing            = "smooth"
	DefaultBackgroundName    = "BLACK"
)

// DefaultSettings returns the settings used when a scene is constructed
// without explicit configuration.
func DefaultSettings() SceneSettings {
	return SceneSettings{
		Duration:        DefaultSceneDuration,
		BackgroundColor: NamedColor(DefaultBackgroundName),
		Quality:         QualityMedium,
		Resolution:      Resolution720p,
	}
}

// SceneObject is one visual entity.
//
// ID must be unique within a scene. TextContent is meaningful only for
// text, mathtext and formula objects. Opacity is in [0, 1]. Layer is the
// z-order and the creation-order tie-break.
type SceneObject struct {
	ID          string
	Type        ObjectType
	Properties  Properties
	Position    Position
	Color       *Color
	TextContent *string
	Size        *float64
	Opacity     float64
	Layer       int
}

// AnimationStep is one animation.
//
// TargetObjects must be non-empty; referential integrity with SceneObject.ID
// is the producer's responsibility. Delay is the scene-relative start offset.
// FromObject/ToObject apply to transforms, TargetPosition/Offset to movement.
type AnimationStep struct {
	ID             string
	Type           AnimationType
	TargetObjects  []string
	Duration       float64
	Delay          float64
	Properties     Properties
	Easing         string
	FromObject     *string
	ToObject       *string
	TargetPosition *Position
	Offset         *Position
}

// TransformEdge returns the source and destination of a transform
// animation. ok is false unless the step is a transform with both
// endpoints set to non-empty ids.
func (a AnimationStep) TransformEdge() (from, to string, ok bool) {
	if !a.Type.IsTransform() || a.FromObject == nil || a.ToObject == nil {
		return "", "", false
	}
	if *a.FromObject == "" || *a.ToObject == "" {
		return "", "", false
	}
	return *a.FromObject, *a.ToObject, true
}

// SceneStructure is the Scene-IR root. Slice order is insertion order and
// only matters as a stable tie-break; timing comes from AnimationStep.Delay.
type SceneStructure struct {
	Settings   SceneSettings
	Objects    []SceneObject
	Animations []AnimationStep
}

// NewScene returns an empty scene with default settings.
func NewScene() *SceneStructure {
	return &SceneStructure{Settings: DefaultSettings()}
}

// Ptr returns a pointer to v. Convenience for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
