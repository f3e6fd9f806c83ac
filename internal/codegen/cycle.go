package codegen

import (
	"fmt"
	"strings"

	"github.com/roach88/scenegen/internal/ir"
)

// AnalyzeTransformCycles reports cycles in the transform relation.
//
// Every transform or replace_transform with both endpoints set is an edge
// from its source object to its destination. Cycles are warnings, not
// errors: chain construction already stops at revisited nodes, but an
// emitter that replays the transforms will loop back to an earlier object.
//
// The algorithm:
//  1. Build the object graph in first-seen order
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop as a TRANSFORM_CYCLE
//
// An acyclic transform relation returns no warnings.
func AnalyzeTransformCycles(anims []ir.AnimationStep) []Warning {
	graph := buildTransformGraph(anims)
	if len(graph.nodes) == 0 {
		return nil
	}

	var warnings []Warning
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleWarning(scc, graph))
		}
	}
	return warnings
}

// transformGraph is an adjacency list with a stable node order.
type transformGraph struct {
	nodes []string
	rank  map[string]int
	edges map[string][]string
}

func buildTransformGraph(anims []ir.AnimationStep) *transformGraph {
	g := &transformGraph{
		rank:  make(map[string]int),
		edges: make(map[string][]string),
	}
	addNode := func(id string) {
		if _, ok := g.rank[id]; !ok {
			g.rank[id] = len(g.nodes)
			g.nodes = append(g.nodes, id)
		}
	}

	for _, anim := range anims {
		from, to, ok := anim.TransformEdge()
		if !ok {
			continue
		}
		addNode(from)
		addNode(to)
		g.edges[from] = append(g.edges[from], to)
	}
	return g
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, g *transformGraph) bool {
	for _, neighbor := range g.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in first-seen order so the result is deterministic.
func tarjanSCC(g *transformGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and emit an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func cycleWarning(scc []string, g *transformGraph) Warning {
	var path []string
	if len(scc) == 1 {
		path = []string{scc[0], scc[0]}
	} else {
		path = reconstructCyclePath(scc, g)
	}

	return Warning{
		Code:    WarnTransformCycle,
		Subject: path[0],
		Message: fmt.Sprintf("transform cycle: %s", strings.Join(path, " -> ")),
		Path:    path,
	}
}

// reconstructCyclePath builds a cycle path through an SCC.
//
// Strategy: start at the SCC member seen first in the scene, follow edges to
// other SCC members, continue until we return to the start node.
func reconstructCyclePath(scc []string, g *transformGraph) []string {
	sccSet := make(map[string]bool, len(scc))
	start := scc[0]
	for _, node := range scc {
		sccSet[node] = true
		if g.rank[node] < g.rank[start] {
			start = node
		}
	}

	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		found := false
		for _, neighbor := range g.edges[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				found = true
				break
			}
		}
		if !found {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
