package testutil

import "github.com/roach88/scenegen/internal/ir"

// SceneBuilder assembles scenes for tests with decode defaults applied, so a
// built scene equals what ir.Decode would produce for the same content.
type SceneBuilder struct {
	scene ir.SceneStructure
}

// NewScene starts a scene with decode-default settings and the given title.
func NewScene(title string) *SceneBuilder {
	return &SceneBuilder{scene: ir.SceneStructure{
		Settings: ir.SceneSettings{
			Title:      title,
			Duration:   ir.DefaultSceneDuration,
			Quality:    ir.QualityMedium,
			Resolution: ir.Resolution720p,
		},
	}}
}

// Duration sets the scene duration.
func (b *SceneBuilder) Duration(d float64) *SceneBuilder {
	b.scene.Settings.Duration = d
	return b
}

// Background sets the background color.
func (b *SceneBuilder) Background(c ir.Color) *SceneBuilder {
	b.scene.Settings.BackgroundColor = c
	return b
}

// Object adds an object of type t on layer 0.
func (b *SceneBuilder) Object(id string, t ir.ObjectType) *SceneBuilder {
	return b.LayeredObject(id, t, 0)
}

// LayeredObject adds an object of type t on the given layer.
func (b *SceneBuilder) LayeredObject(id string, t ir.ObjectType, layer int) *SceneBuilder {
	b.scene.Objects = append(b.scene.Objects, ir.SceneObject{
		ID:      id,
		Type:    t,
		Opacity: ir.DefaultOpacity,
		Layer:   layer,
	})
	return b
}

// Text adds a text object with content.
func (b *SceneBuilder) Text(id, content string) *SceneBuilder {
	b.scene.Objects = append(b.scene.Objects, ir.SceneObject{
		ID:          id,
		Type:        ir.ObjectText,
		TextContent: ir.Ptr(content),
		Opacity:     ir.DefaultOpacity,
	})
	return b
}

// Animate adds an animation of type t starting at delay.
func (b *SceneBuilder) Animate(id string, t ir.AnimationType, delay float64, targets ...string) *SceneBuilder {
	b.scene.Animations = append(b.scene.Animations, ir.AnimationStep{
		ID:            id,
		Type:          t,
		TargetObjects: targets,
		Duration:      ir.DefaultAnimationDuration,
		Delay:         delay,
		Easing:        ir.DefaultEasing,
	})
	return b
}

// Transform adds a transform animation from one object to another.
func (b *SceneBuilder) Transform(id, from, to string, delay float64) *SceneBuilder {
	return b.transform(id, ir.AnimTransform, from, to, delay)
}

// ReplaceTransform adds a replace_transform animation.
func (b *SceneBuilder) ReplaceTransform(id, from, to string, delay float64) *SceneBuilder {
	return b.transform(id, ir.AnimReplaceTransform, from, to, delay)
}

func (b *SceneBuilder) transform(id string, t ir.AnimationType, from, to string, delay float64) *SceneBuilder {
	b.scene.Animations = append(b.scene.Animations, ir.AnimationStep{
		ID:            id,
		Type:          t,
		TargetObjects: []string{from},
		Duration:      ir.DefaultAnimationDuration,
		Delay:         delay,
		Easing:        ir.DefaultEasing,
		FromObject:    ir.Ptr(from),
		ToObject:      ir.Ptr(to),
	})
	return b
}

// Build returns the scene. The builder must not be reused afterwards.
func (b *SceneBuilder) Build() *ir.SceneStructure {
	s := b.scene
	return &s
}
