package planner

import (
	"slices"

	"github.com/talgya/oracle-route/internal/world"
)

// realign relocates cycle boundaries in the final route. Each entry is
// searched forward from the previous cycle's exit, falling back to the
// first route tile on or next to one of the cycle's task tiles. Exits are
// searched forward from the entry, falling back to the last such tile.
// A cycle that cannot be found keeps an empty internal route.
func realign(g *world.Grid, cycles []*Cycle, route []string) {
	if len(route) == 0 {
		return
	}
	start := 0
	var prev *Cycle
	for _, c := range cycles {
		c.ConnectorToNext = nil

		entry := indexFrom(route, c.EntryTile, start)
		if entry < 0 {
			entry = taskIndex(g, route, c, start, false)
		}
		if entry < 0 {
			c.EntryIndex, c.ExitIndex = -1, -1
			c.InternalRoute = nil
			c.TotalDistance = 0
			continue
		}

		exit := indexFrom(route, c.ExitTile, entry)
		if exit < 0 {
			exit = taskIndex(g, route, c, entry, true)
		}
		if exit < entry {
			exit = entry
		}

		c.EntryIndex, c.ExitIndex = entry, exit
		c.InternalRoute = slices.Clone(route[entry : exit+1])
		c.TotalDistance = exit - entry
		if prev != nil && prev.ExitIndex <= entry {
			prev.ConnectorToNext = slices.Clone(route[prev.ExitIndex : entry+1])
		}
		prev = c
		start = exit
	}
}

func indexFrom(route []string, tile string, start int) int {
	if tile == "" {
		return -1
	}
	for i := max(0, start); i < len(route); i++ {
		if route[i] == tile {
			return i
		}
	}
	return -1
}

// taskIndex finds a route index on or adjacent to a task tile of c,
// scanning forward from start or backward down to it.
func taskIndex(g *world.Grid, route []string, c *Cycle, start int, backward bool) int {
	tiles := c.TileIDs()
	near := func(id string) bool {
		for _, t := range tiles {
			if id == t || g.Adjacent(id, t) {
				return true
			}
		}
		return false
	}
	start = max(0, start)
	if backward {
		for i := len(route) - 1; i >= start; i-- {
			if near(route[i]) {
				return i
			}
		}
		return -1
	}
	for i := start; i < len(route); i++ {
		if near(route[i]) {
			return i
		}
	}
	return -1
}
