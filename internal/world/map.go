package world

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
)

// Requirements is the minimum number of tiles of each task kind a colour
// must provide.
type Requirements map[Kind]int

// DefaultRequirements returns the per-colour minimums of a standard map.
func DefaultRequirements() Requirements {
	return Requirements{
		KindMonster:      2,
		KindOffering:     2,
		KindStatueSource: 1,
		KindStatueIsland: 3,
		KindTemple:       1,
	}
}

// GridOptions controls grid construction.
type GridOptions struct {
	// InferNeighbours rebuilds neighbour lists from coordinates.
	InferNeighbours bool
	Requirements    Requirements
}

// ValidationError lists every issue found while validating a grid.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid grid: " + strings.Join(e.Issues, "; ")
}

// Grid holds the complete hex map. It is immutable once NewGrid returns.
type Grid struct {
	tiles map[string]*Tile
	ids   []string // Sorted
	hubID string
	byPos map[HexCoord]string
}

// NewGrid builds, self-repairs and validates a grid. Tiles without a
// neighbour list (or all tiles when opts.InferNeighbours is set) get their
// neighbours derived from coordinates.
func NewGrid(tiles []*Tile, hubID string, opts GridOptions) (*Grid, error) {
	g := &Grid{
		tiles: make(map[string]*Tile, len(tiles)),
		hubID: hubID,
		byPos: make(map[HexCoord]string, len(tiles)),
	}

	infer := opts.InferNeighbours
	for _, t := range tiles {
		if t.ID == "" {
			return nil, errors.New("tile with empty id")
		}
		if _, dup := g.tiles[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tile id %q", t.ID)
		}
		g.tiles[t.ID] = t
		g.ids = append(g.ids, t.ID)
		g.byPos[t.Coord] = t.ID
		if t.Neighbours == nil {
			infer = true
		}
	}
	sort.Strings(g.ids)

	if infer {
		g.recomputeNeighbours()
	} else {
		for _, t := range tiles {
			sort.Strings(t.Neighbours)
		}
	}

	g.ensureTaskAccess()

	req := opts.Requirements
	if req == nil {
		req = DefaultRequirements()
	}
	if issues := g.Validate(req); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return g, nil
}

func (g *Grid) recomputeNeighbours() {
	for _, id := range g.ids {
		t := g.tiles[id]
		var ns []string
		for _, c := range t.Coord.Neighbors() {
			if nid, ok := g.byPos[c]; ok {
				ns = append(ns, nid)
			}
		}
		sort.Strings(ns)
		t.Neighbours = ns
	}
}

// ensureTaskAccess guarantees every land tile has an adjacent water tile,
// converting a land neighbour (or the tile itself) to water when needed.
func (g *Grid) ensureTaskAccess() {
	for _, id := range g.ids {
		t := g.tiles[id]
		if t.IsWater() {
			continue
		}
		neighbours := g.Neighbours(id)
		if slices.ContainsFunc(neighbours, (*Tile).IsWater) {
			continue
		}

		converted := false
		for _, n := range neighbours {
			if n.ID == g.hubID {
				continue
			}
			slog.Debug("converting land neighbour to water", "tile", id, "neighbour", n.ID, "kind", n.Kind)
			n.Kind = KindWater
			n.Colours = nil
			converted = true
			break
		}
		if converted || id == g.hubID {
			continue
		}

		slog.Debug("converting inaccessible tile to water", "tile", id, "kind", t.Kind)
		t.Kind = KindWater
		t.Colours = nil
	}
}

// Validate returns every structural issue with the grid.
func (g *Grid) Validate(req Requirements) []string {
	var issues []string

	switch {
	case g.hubID == "":
		issues = append(issues, "hub tile not set")
	case g.tiles[g.hubID] == nil:
		issues = append(issues, fmt.Sprintf("hub tile %s not found in grid", g.hubID))
	}

	for _, id := range g.ids {
		for _, nid := range g.tiles[id].Neighbours {
			if _, ok := g.tiles[nid]; !ok {
				issues = append(issues, fmt.Sprintf("tile %s references non-existent neighbour %s", id, nid))
			}
		}
	}

	if !g.waterConnected() {
		issues = append(issues, "water tiles not fully connected")
	}

	for _, colour := range g.AvailableColours() {
		counts := g.kindCounts(colour)
		for _, k := range TaskKinds {
			need := req[k]
			if counts[k] < need {
				issues = append(issues, fmt.Sprintf("colour '%s' has %d %s tiles; %d required", colour, counts[k], k, need))
			}
		}
	}

	return issues
}

// waterConnected checks that water tiles plus the hub form one component.
func (g *Grid) waterConnected() bool {
	var start string
	total := 0
	for _, id := range g.ids {
		if g.Traversable(id) {
			total++
			if start == "" {
				start = id
			}
		}
	}
	if total == 0 {
		return true
	}

	seen := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nid := range g.tiles[cur].Neighbours {
			if seen[nid] || !g.Traversable(nid) {
				continue
			}
			seen[nid] = true
			stack = append(stack, nid)
		}
	}
	return len(seen) == total
}

func (g *Grid) kindCounts(colour string) map[Kind]int {
	counts := make(map[Kind]int)
	for _, id := range g.ids {
		t := g.tiles[id]
		if t.HasColour(colour) {
			counts[t.Kind]++
		}
	}
	return counts
}

// Tile returns the tile with the given id, or nil.
func (g *Grid) Tile(id string) *Tile {
	return g.tiles[id]
}

// TileAt returns the tile at the given coordinate, or nil.
func (g *Grid) TileAt(c HexCoord) *Tile {
	return g.tiles[g.byPos[c]]
}

// HubID returns the start/end tile id.
func (g *Grid) HubID() string {
	return g.hubID
}

// IDs returns all tile ids in ascending order.
func (g *Grid) IDs() []string {
	return slices.Clone(g.ids)
}

// Len returns the number of tiles.
func (g *Grid) Len() int {
	return len(g.ids)
}

// Neighbours returns the tiles adjacent to id in id order.
func (g *Grid) Neighbours(id string) []*Tile {
	t := g.tiles[id]
	if t == nil {
		return nil
	}
	out := make([]*Tile, 0, len(t.Neighbours))
	for _, nid := range t.Neighbours {
		if n := g.tiles[nid]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Adjacent reports whether two tiles are neighbours.
func (g *Grid) Adjacent(a, b string) bool {
	t := g.tiles[a]
	return t != nil && t.IsNeighbour(b)
}

// Traversable reports whether a tile can be moved onto: water or the hub.
func (g *Grid) Traversable(id string) bool {
	if id == g.hubID {
		return g.tiles[id] != nil
	}
	t := g.tiles[id]
	return t != nil && t.IsWater()
}

// TilesByKind returns tiles of the given kind in id order.
func (g *Grid) TilesByKind(k Kind) []*Tile {
	var out []*Tile
	for _, id := range g.ids {
		if t := g.tiles[id]; t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// TilesByColour returns tiles tagged with colour in id order.
func (g *Grid) TilesByColour(colour string) []*Tile {
	var out []*Tile
	for _, id := range g.ids {
		if t := g.tiles[id]; t.HasColour(colour) {
			out = append(out, t)
		}
	}
	return out
}

// AvailableColours returns every colour tag on the grid, sorted.
func (g *Grid) AvailableColours() []string {
	set := make(map[string]struct{})
	for _, t := range g.tiles {
		for _, c := range t.Colours {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ColoursWithRequiredKinds returns colours providing at least one tile of
// every task kind, sorted.
func (g *Grid) ColoursWithRequiredKinds() []string {
	var out []string
	for _, colour := range g.AvailableColours() {
		counts := g.kindCounts(colour)
		complete := true
		for _, k := range TaskKinds {
			if counts[k] == 0 {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, colour)
		}
	}
	return out
}

// KindCounts returns how many tiles of each kind carry colour.
func (g *Grid) KindCounts(colour string) map[Kind]int {
	return g.kindCounts(colour)
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	water := 0
	for _, t := range g.tiles {
		if t.IsWater() {
			water++
		}
	}
	return fmt.Sprintf("Grid(tiles=%d, water=%d, land=%d, hub=%s)", len(g.ids), water, len(g.ids)-water, g.hubID)
}
