package codegen

import (
	"cmp"
	"slices"

	"github.com/roach88/scenegen/internal/ir"
)

// Capability is a renderer module the generated program must import.
type Capability string

const (
	CapManim Capability = "manim"
	CapNumpy Capability = "numpy"
)

// Import returns the import statement for the capability.
func (c Capability) Import() string {
	switch c {
	case CapManim:
		return "from manim import *"
	case CapNumpy:
		return "import numpy as np"
	}
	return "import " + string(c)
}

// AnimationGroup is a set of animations sharing one start delay; an emitter
// plays each group together.
type AnimationGroup struct {
	Delay      float64            `json:"delay"`
	Animations []ir.AnimationStep `json:"animations"`
}

// Objects returns the object partitions concatenated in category order.
func (c *Context) Objects() []ir.SceneObject {
	var out []ir.SceneObject
	for _, cat := range ObjectCategories() {
		out = append(out, c.ObjectsIn(cat)...)
	}
	return out
}

// Animations returns the animation partitions concatenated in category order.
func (c *Context) Animations() []ir.AnimationStep {
	var out []ir.AnimationStep
	for _, cat := range AnimationCategories() {
		out = append(out, c.AnimationsIn(cat)...)
	}
	return out
}

// CreationOrder returns every categorized object sorted by (layer, id).
func (c *Context) CreationOrder() []ir.SceneObject {
	objs := c.Objects()
	slices.SortStableFunc(objs, func(a, b ir.SceneObject) int {
		if n := cmp.Compare(a.Layer, b.Layer); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return objs
}

// AnimationGroups buckets every categorized animation by exact delay.
// Groups are ordered by ascending delay; within a group, category order then
// input order is kept.
func (c *Context) AnimationGroups() []AnimationGroup {
	buckets := make(map[float64][]ir.AnimationStep)
	var delays []float64
	for _, anim := range c.Animations() {
		if _, ok := buckets[anim.Delay]; !ok {
			delays = append(delays, anim.Delay)
		}
		buckets[anim.Delay] = append(buckets[anim.Delay], anim)
	}
	slices.Sort(delays)

	groups := make([]AnimationGroup, 0, len(delays))
	for _, d := range delays {
		groups = append(groups, AnimationGroup{Delay: d, Animations: buckets[d]})
	}
	return groups
}

// RequiredCapabilities lists the renderer modules the scene needs. The
// renderer itself is always required; numeric support is added once when
// math or graph objects are present.
func (c *Context) RequiredCapabilities() []Capability {
	caps := []Capability{CapManim}
	if len(c.MathObjects) > 0 || len(c.GraphObjects) > 0 {
		caps = append(caps, CapNumpy)
	}
	return caps
}

// Imports returns the import statements for RequiredCapabilities.
func (c *Context) Imports() []string {
	caps := c.RequiredCapabilities()
	out := make([]string, 0, len(caps))
	for _, cp := range caps {
		out = append(out, cp.Import())
	}
	return out
}
