package codegen

import "github.com/roach88/scenegen/internal/ir"

// buildDependencyMap maps every declared object id to the ids it was
// transformed from. Declared objects without transforms map to an empty
// list; duplicate edges are kept.
func buildDependencyMap(scene *ir.SceneStructure) map[string][]string {
	deps := make(map[string][]string, len(scene.Objects))
	for _, obj := range scene.Objects {
		deps[obj.ID] = []string{}
	}

	for _, anim := range scene.Animations {
		from, to, ok := anim.TransformEdge()
		if !ok {
			continue
		}
		if deps[to] == nil {
			deps[to] = []string{}
		}
		deps[to] = append(deps[to], from)
	}
	return deps
}

// successors is the one-to-one transform successor map. Keys keep
// first-seen order; a later transform from the same source replaces the
// earlier destination.
type successors struct {
	order []string
	next  map[string]string
}

func newSuccessors(anims []ir.AnimationStep) *successors {
	s := &successors{next: make(map[string]string)}
	for _, anim := range anims {
		from, to, ok := anim.TransformEdge()
		if !ok {
			continue
		}
		if _, seen := s.next[from]; !seen {
			s.order = append(s.order, from)
		}
		s.next[from] = to
	}
	return s
}

// buildChains walks the successor map from each unvisited source. A node is
// visited at most once over all walks, so cycles end the walk instead of
// looping. Only chains with more than one id are kept.
func buildChains(s *successors) [][]string {
	chains := [][]string{}
	visited := make(map[string]bool)

	for _, start := range s.order {
		if visited[start] {
			continue
		}
		chain := []string{start}
		visited[start] = true

		current := start
		for {
			next, ok := s.next[current]
			if !ok || visited[next] {
				break
			}
			chain = append(chain, next)
			visited[next] = true
			current = next
		}

		if len(chain) > 1 {
			chains = append(chains, chain)
		}
	}
	return chains
}
