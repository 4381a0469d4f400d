package world

import "slices"

// Pathfinder answers shortest-path queries over the water tiles plus the
// hub. Each solver owns one; its caches are never shared.
type Pathfinder struct {
	grid  *Grid
	paths map[[2]string][]string
	known map[[2]string]bool
}

// NewPathfinder creates a pathfinder with empty caches.
func NewPathfinder(g *Grid) *Pathfinder {
	return &Pathfinder{
		grid:  g,
		paths: make(map[[2]string][]string),
		known: make(map[[2]string]bool),
	}
}

// Grid returns the grid the pathfinder routes over.
func (p *Pathfinder) Grid() *Grid {
	return p.grid
}

// Path returns the shortest path from a to b, both ends included, or nil
// when b is unreachable. The target must be traversable; the source may be
// any tile. Ties are broken by expanding neighbours in id order.
func (p *Pathfinder) Path(a, b string) []string {
	key := [2]string{a, b}
	if p.known[key] {
		return slices.Clone(p.paths[key])
	}
	path := p.bfs(a, b)
	p.known[key] = true
	p.paths[key] = path
	return slices.Clone(path)
}

// Distance returns the number of moves from a to b.
func (p *Pathfinder) Distance(a, b string) (int, bool) {
	key := [2]string{a, b}
	if !p.known[key] {
		p.Path(a, b)
	}
	path := p.paths[key]
	if path == nil {
		return 0, false
	}
	return len(path) - 1, true
}

// WaterAccess returns the water tiles adjacent to id, sorted.
func (p *Pathfinder) WaterAccess(id string) []string {
	var out []string
	for _, n := range p.grid.Neighbours(id) {
		if n.IsWater() {
			out = append(out, n.ID)
		}
	}
	return out
}

// NearestAccess returns the water access of id closest to from, ties
// broken by lowest id.
func (p *Pathfinder) NearestAccess(from, id string) (string, int, bool) {
	best, bestDist, found := "", 0, false
	for _, w := range p.WaterAccess(id) {
		d, ok := p.Distance(from, w)
		if !ok {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = w, d, true
		}
	}
	return best, bestDist, found
}

// CachedPaths returns the number of memoized path queries.
func (p *Pathfinder) CachedPaths() int {
	return len(p.known)
}

func (p *Pathfinder) bfs(a, b string) []string {
	g := p.grid
	if g.Tile(a) == nil || !g.Traversable(b) {
		return nil
	}
	if a == b {
		return []string{a}
	}

	prev := map[string]string{a: ""}
	queue := []string{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nid := range g.Tile(cur).Neighbours {
			if _, seen := prev[nid]; seen || !g.Traversable(nid) {
				continue
			}
			prev[nid] = cur
			if nid == b {
				return unwind(prev, a, b)
			}
			queue = append(queue, nid)
		}
	}
	return nil
}

func unwind(prev map[string]string, a, b string) []string {
	path := []string{b}
	for cur := b; cur != a; {
		cur = prev[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
