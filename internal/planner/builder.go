package planner

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

// Greedy preference tiers for the next tile of a cycle.
const (
	tierReady      = iota // A task on the tile fires on arrival
	tierDepsMet           // Dependencies done, cargo not yet right
	tierAny               // Anything still pending
	tierUnreachable
)

// builder walks cycles greedily, replaying task execution on the way so the
// choice of the next tile sees the cargo the agent will actually carry.
type builder struct {
	grid  *world.Grid
	paths *world.Pathfinder
	mgr   *tasks.Manager
	state *tasks.PlayerState
	route []string
}

func newBuilder(p *world.Pathfinder, mgr *tasks.Manager) *builder {
	mgr.Reset()
	hub := p.Grid().HubID()
	b := &builder{
		grid:  p.Grid(),
		paths: p,
		mgr:   mgr,
		state: tasks.NewPlayerState(hub),
		route: []string{hub},
	}
	b.mgr.ExecuteAdjacent(b.state)
	return b
}

func (b *builder) position() string {
	return b.route[len(b.route)-1]
}

// approach returns the shortest path from the current position to a water
// tile next to tileID, ties broken by the lowest access id.
func (b *builder) approach(tileID string) []string {
	cur := b.position()
	if b.grid.Adjacent(cur, tileID) && b.grid.Traversable(cur) {
		return []string{cur}
	}
	var best []string
	for _, w := range b.paths.WaterAccess(tileID) {
		path := b.paths.Path(cur, w)
		if path != nil && (best == nil || len(path) < len(best)) {
			best = path
		}
	}
	return best
}

// walk moves along path, firing tasks at every step.
func (b *builder) walk(path []string) {
	for _, id := range path[1:] {
		b.route = append(b.route, id)
		b.state.Move(id)
		b.mgr.ExecuteAdjacent(b.state)
	}
}

func (b *builder) unfinished(tileID string) bool {
	for _, t := range b.mgr.ForTile(tileID) {
		if t.Status != tasks.StatusCompleted {
			return true
		}
	}
	return false
}

func (b *builder) tier(tileID string) int {
	best := tierAny
	for _, t := range b.mgr.ForTile(tileID) {
		if t.Status == tasks.StatusCompleted {
			continue
		}
		if b.mgr.Ready(t, b.state) {
			return tierReady
		}
		if t.DependenciesMet(b.state.Completed) {
			best = tierDepsMet
		}
	}
	return best
}

// next picks the tile to head for: lowest tier first, then the shortest
// approach, then the lowest tile id. Tiles above maxTier are ignored.
func (b *builder) next(pending []string, maxTier int) (string, []string) {
	bestTile, bestTier := "", tierUnreachable
	var bestPath []string
	for _, id := range pending {
		tier := b.tier(id)
		if tier > maxTier || tier > bestTier {
			continue
		}
		path := b.approach(id)
		if path == nil {
			continue
		}
		if tier < bestTier || len(path) < len(bestPath) {
			bestTile, bestTier, bestPath = id, tier, path
		}
	}
	return bestTile, bestPath
}

// visit routes through the cycle's tiles. Each tile is approached once,
// unless revisit is set, in which case only ready tiles are considered and
// a tile stays pending while it has unfinished tasks. It returns false when
// nothing in the cycle could be reached.
func (b *builder) visit(c *Cycle, revisit bool) bool {
	pending := c.TileIDs()
	sort.Strings(pending)
	maxTier := tierAny
	if revisit {
		maxTier = tierReady
	}

	entered := false
	for {
		pending = slices.DeleteFunc(pending, func(id string) bool { return !b.unfinished(id) })
		if len(pending) == 0 {
			break
		}
		tile, path := b.next(pending, maxTier)
		if tile == "" {
			slog.Debug("cycle tiles left unvisited", "pending", pending)
			break
		}

		before := len(b.mgr.Pending())
		b.walk(path)
		if !entered {
			c.EntryIndex = len(b.route) - 1
			entered = true
		}
		if !revisit {
			pending = slices.DeleteFunc(pending, func(id string) bool { return id == tile })
		} else if len(b.mgr.Pending()) == before {
			break
		}
	}

	if !entered {
		for _, id := range c.TileIDs() {
			if b.unfinished(id) {
				return false
			}
		}
		// Everything fired while passing by on earlier legs.
		c.EntryIndex = len(b.route) - 1
	}
	c.ExitIndex = len(b.route) - 1
	c.EntryTile = b.route[c.EntryIndex]
	c.ExitTile = b.route[c.ExitIndex]
	c.InternalRoute = slices.Clone(b.route[c.EntryIndex : c.ExitIndex+1])
	c.TotalDistance = c.ExitIndex - c.EntryIndex
	return true
}

// build visits the cycles in order, then sweeps up tiles whose tasks could
// not fire on the first pass. The sweep becomes an extra trailing cycle.
func (b *builder) build(cycles []*Cycle) []*Cycle {
	var visited []*Cycle
	add := func(c *Cycle) {
		if n := len(visited); n > 0 {
			prev := visited[n-1]
			prev.ConnectorToNext = slices.Clone(b.route[prev.ExitIndex : c.EntryIndex+1])
		}
		visited = append(visited, c)
	}

	for _, c := range cycles {
		if b.visit(c, false) {
			add(c)
		} else {
			slog.Warn("cycle skipped, no task tile reachable", "tiles", c.TileIDs())
		}
	}

	var leftovers []*tasks.Task
	for _, id := range b.mgr.Pending() {
		leftovers = append(leftovers, b.mgr.Task(id))
	}
	if len(leftovers) > 0 {
		sweep := newCycle(leftovers)
		slog.Debug("revisiting tiles with unfinished tasks", "tasks", len(leftovers))
		if b.visit(sweep, true) {
			add(sweep)
		}
	}
	return visited
}
