package planner

import (
	"fmt"
	"slices"

	"github.com/talgya/oracle-route/internal/world"
)

// Repair makes every consecutive pair of the route adjacent. Consecutive
// duplicates are dropped. A non-hub land tile is never kept: it becomes a
// path to its nearest water access, or disappears when the route already
// stands next to it. Other gaps are bridged with the shortest path.
// Repairing a repaired route returns it unchanged.
func Repair(p *world.Pathfinder, route []string) ([]string, error) {
	if len(route) == 0 {
		return nil, nil
	}
	g := p.Grid()
	out := []string{route[0]}

	for _, next := range route[1:] {
		cur := out[len(out)-1]
		if next == cur {
			continue
		}

		if !g.Traversable(next) {
			if g.Adjacent(cur, next) {
				continue
			}
			access, _, ok := p.NearestAccess(cur, next)
			if !ok {
				return nil, fmt.Errorf("%w: no water access to %s from %s", ErrNoRoute, next, cur)
			}
			out = appendPath(out, p.Path(cur, access))
			continue
		}

		if g.Adjacent(cur, next) {
			out = append(out, next)
			continue
		}
		bridge := p.Path(cur, next)
		if bridge == nil {
			return nil, fmt.Errorf("%w: from %s to %s", ErrNoRoute, cur, next)
		}
		out = appendPath(out, bridge)
	}
	return out, nil
}

// ReturnToHub appends the shortest path from the route's end to the hub.
func ReturnToHub(p *world.Pathfinder, route []string) ([]string, error) {
	hub := p.Grid().HubID()
	if len(route) == 0 {
		return []string{hub}, nil
	}
	last := route[len(route)-1]
	if last == hub {
		return route, nil
	}
	back := p.Path(last, hub)
	if back == nil {
		return nil, fmt.Errorf("%w: cannot return from %s to hub %s", ErrNoRoute, last, hub)
	}
	return appendPath(route, back), nil
}

// finalize repairs the route, forces it back to the hub and repairs the
// seam the return leg may have introduced.
func finalize(p *world.Pathfinder, route []string) ([]string, error) {
	route, err := Repair(p, route)
	if err != nil {
		return nil, err
	}
	if route, err = ReturnToHub(p, route); err != nil {
		return nil, err
	}
	return Repair(p, route)
}

// appendPath extends route with path, sharing the joint tile.
func appendPath(route, path []string) []string {
	if len(path) == 0 {
		return route
	}
	if len(route) > 0 && route[len(route)-1] == path[0] {
		return append(route, path[1:]...)
	}
	return append(route, path...)
}

// combineDetour joins an outbound and a return path into the tiles to
// splice between their shared endpoints. Nil when either leg is missing.
func combineDetour(to, from []string) []string {
	if len(to) == 0 || len(from) == 0 {
		return nil
	}
	out := slices.Clone(to[1:])
	if len(from) > 1 {
		out = append(out, from[1:len(from)-1]...)
	}
	return out
}
