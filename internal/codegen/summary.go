package codegen

import (
	"fmt"
	"slices"
	"strings"
)

// Summary renders the context as deterministic plain text for terminals
// and golden tests.
func (c *Context) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "scene: %s\n", c.SceneTitle)
	if c.SceneDescription != "" {
		fmt.Fprintf(&b, "description: %s\n", c.SceneDescription)
	}
	fmt.Fprintf(&b, "duration: %ss\n", formatFloat(c.TotalDuration))
	fmt.Fprintf(&b, "background: %s\n", c.BackgroundColor)

	b.WriteString("imports:\n")
	for _, imp := range c.Imports() {
		fmt.Fprintf(&b, "  %s\n", imp)
	}

	b.WriteString("objects:\n")
	for _, obj := range c.CreationOrder() {
		cat, _ := ObjectCategoryOf(obj.Type)
		fmt.Fprintf(&b, "  %s %s/%s layer=%d\n", obj.ID, cat, obj.Type, obj.Layer)
	}

	b.WriteString("timeline:\n")
	for _, ta := range c.Timeline {
		fmt.Fprintf(&b, "  t=%s %s %s -> %s\n",
			formatFloat(ta.Start), ta.Animation.ID, ta.Animation.Type,
			strings.Join(ta.Animation.TargetObjects, ","))
	}

	b.WriteString("groups:\n")
	for _, g := range c.AnimationGroups() {
		ids := make([]string, 0, len(g.Animations))
		for _, a := range g.Animations {
			ids = append(ids, a.ID)
		}
		fmt.Fprintf(&b, "  t=%s %s\n", formatFloat(g.Delay), strings.Join(ids, ","))
	}

	b.WriteString("dependencies:\n")
	keys := make([]string, 0, len(c.DependencyMap))
	for k := range c.DependencyMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		deps := "-"
		if len(c.DependencyMap[k]) > 0 {
			deps = strings.Join(c.DependencyMap[k], ",")
		}
		fmt.Fprintf(&b, "  %s <- %s\n", k, deps)
	}

	b.WriteString("chains:\n")
	for _, chain := range c.TransformationChains {
		fmt.Fprintf(&b, "  %s\n", strings.Join(chain, " -> "))
	}

	if len(c.Warnings) > 0 {
		b.WriteString("warnings:\n")
		for _, w := range c.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}

	return b.String()
}

// Stats is a compact count view of a context.
type Stats struct {
	Objects    int            `json:"objects"`
	Animations int            `json:"animations"`
	ByCategory map[string]int `json:"by_category"`
	Chains     int            `json:"chains"`
	Groups     int            `json:"groups"`
	Warnings   int            `json:"warnings"`
	Imports    []string       `json:"imports"`
}

// Stats counts the categorized objects and animations of the context.
func (c *Context) Stats() Stats {
	s := Stats{
		ByCategory: make(map[string]int),
		Chains:     len(c.TransformationChains),
		Groups:     len(c.AnimationGroups()),
		Warnings:   len(c.Warnings),
		Imports:    c.Imports(),
	}
	for _, cat := range ObjectCategories() {
		n := len(c.ObjectsIn(cat))
		s.ByCategory[string(cat)] = n
		s.Objects += n
	}
	for _, cat := range AnimationCategories() {
		n := len(c.AnimationsIn(cat))
		s.ByCategory[string(cat)] = n
		s.Animations += n
	}
	return s
}
