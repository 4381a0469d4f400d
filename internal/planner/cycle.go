// Package planner builds the agent's route: task tiles are clustered into
// cycles, cycles are ordered by the cargo they produce and consume, each
// cycle is visited greedily, and the joined route is repaired, returned to
// the hub and mined for shrine detours.
package planner

import "github.com/talgya/oracle-route/internal/tasks"

// Cycle is a cluster of nearby tasks and the route segment that visits them.
// Index fields are -1 while the cycle is not located in the route.
type Cycle struct {
	Tasks           []*tasks.Task
	EntryTile       string
	ExitTile        string
	EntryIndex      int
	ExitIndex       int
	InternalRoute   []string // Route[EntryIndex : ExitIndex+1]
	ConnectorToNext []string // Previous exit through the next cycle's entry
	TotalDistance   int
}

func newCycle(ts []*tasks.Task) *Cycle {
	return &Cycle{Tasks: ts, EntryIndex: -1, ExitIndex: -1}
}

// Aligned reports whether the cycle was located in the final route.
func (c *Cycle) Aligned() bool {
	return c.EntryIndex >= 0
}

// TileIDs returns the distinct task tiles of the cycle in task order.
func (c *Cycle) TileIDs() []string {
	seen := make(map[string]bool, len(c.Tasks))
	var out []string
	for _, t := range c.Tasks {
		if !seen[t.TileID] {
			seen[t.TileID] = true
			out = append(out, t.TileID)
		}
	}
	return out
}

// Produces returns the cargo keys picked up inside the cycle.
func (c *Cycle) Produces() map[string]bool {
	return c.cargo(true)
}

// Requires returns the cargo keys delivered inside the cycle.
func (c *Cycle) Requires() map[string]bool {
	return c.cargo(false)
}

func (c *Cycle) cargo(pickups bool) map[string]bool {
	out := make(map[string]bool)
	for _, t := range c.Tasks {
		if key, pickup, ok := tasks.CargoKey(t); ok && pickup == pickups {
			out[key] = true
		}
	}
	return out
}
