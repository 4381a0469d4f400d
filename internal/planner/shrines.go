package planner

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"

	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

// DefaultShrineQuota is the number of shrines a run must build.
const DefaultShrineQuota = 3

// ShrineOpportunity is a shrine detour that fits in the slack of one move.
type ShrineOpportunity struct {
	ShrineID        string `json:"shrine_id"`
	AccessTile      string `json:"access_tile"`
	Position        int    `json:"position"` // Route index the detour leaves from
	DetourCost      int    `json:"detour_cost"`
	WastedMovesUsed int    `json:"wasted_moves_used"`
}

// Efficiency is wasted moves used per extra move; +Inf for free detours.
func (o ShrineOpportunity) Efficiency() float64 {
	if o.DetourCost <= 0 {
		return math.Inf(1)
	}
	return float64(o.WastedMovesUsed) / float64(o.DetourCost)
}

// WastedMoves returns the unused budget of the turn holding route step i.
func WastedMoves(i int) int {
	return tasks.MovesPerTurn - (i%tasks.MovesPerTurn + 1)
}

// FindShrineOpportunities lists every shrine detour whose extra cost fits
// in the wasted moves of its step. Detours go through the shrine's water
// access nearest to the step's tile.
func FindShrineOpportunities(p *world.Pathfinder, route, shrines []string) []ShrineOpportunity {
	var opps []ShrineOpportunity
	for i := 0; i+1 < len(route); i++ {
		cur, next := route[i], route[i+1]
		direct, ok := p.Distance(cur, next)
		if !ok {
			continue
		}
		wasted := WastedMoves(i)
		for _, shrine := range shrines {
			access, to, ok := p.NearestAccess(cur, shrine)
			if !ok {
				continue
			}
			from, ok := p.Distance(access, next)
			if !ok {
				continue
			}
			detour := to + from - direct
			if detour > wasted {
				continue
			}
			opps = append(opps, ShrineOpportunity{
				ShrineID:        shrine,
				AccessTile:      access,
				Position:        i,
				DetourCost:      max(0, detour),
				WastedMovesUsed: min(wasted, to+from),
			})
		}
	}
	return opps
}

// SelectShrines picks up to quota opportunities by descending efficiency,
// then route position, then shrine id. Each shrine and each route position
// is used at most once.
func SelectShrines(opps []ShrineOpportunity, quota int) []ShrineOpportunity {
	ranked := slices.Clone(opps)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ea, eb := a.Efficiency(), b.Efficiency(); ea != eb {
			return ea > eb
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ShrineID < b.ShrineID
	})

	var selected []ShrineOpportunity
	usedShrine := make(map[string]bool)
	usedPos := make(map[int]bool)
	for _, o := range ranked {
		if len(selected) >= quota {
			break
		}
		if usedShrine[o.ShrineID] || usedPos[o.Position] {
			continue
		}
		selected = append(selected, o)
		usedShrine[o.ShrineID] = true
		usedPos[o.Position] = true
	}
	return selected
}

// insertShrines splices the selected detours into the route, highest
// position first so lower positions stay valid.
func insertShrines(p *world.Pathfinder, route []string, selected []ShrineOpportunity) ([]string, []string) {
	out := slices.Clone(route)
	ordered := slices.Clone(selected)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position > ordered[j].Position
	})

	var placed []string
	for _, o := range ordered {
		if o.Position+1 >= len(out) {
			continue
		}
		cur, next := out[o.Position], out[o.Position+1]
		detour := combineDetour(p.Path(cur, o.AccessTile), p.Path(o.AccessTile, next))
		if detour == nil {
			slog.Debug("shrine detour vanished", "shrine", o.ShrineID, "position", o.Position)
			continue
		}
		out = slices.Insert(out, o.Position+1, detour...)
		placed = append(placed, o.ShrineID)
	}
	return out, placed
}

// appendShrines adds out-and-back legs to the shrines nearest the route's
// end until need more are scheduled.
func appendShrines(p *world.Pathfinder, route, candidates, placed []string, need int) ([]string, []string) {
	if need <= 0 || len(route) == 0 {
		return route, nil
	}
	end := route[len(route)-1]

	type rankedShrine struct {
		id   string
		dist int
	}
	var ranked []rankedShrine
	for _, id := range candidates {
		if slices.Contains(placed, id) {
			continue
		}
		if _, d, ok := p.NearestAccess(end, id); ok {
			ranked = append(ranked, rankedShrine{id, d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].id < ranked[j].id
	})

	out := slices.Clone(route)
	var added []string
	for _, r := range ranked {
		if len(added) >= need {
			break
		}
		cur := out[len(out)-1]
		access, _, ok := p.NearestAccess(cur, r.id)
		if !ok {
			continue
		}
		out = appendPath(out, p.Path(cur, access))
		added = append(added, r.id)
	}
	return out, added
}

// OptimiseShrinePlacement schedules exactly quota shrines from candidates,
// absorbing detours into wasted moves first and appending dedicated legs for
// any shortfall. The returned route is repaired and ends at the hub.
func OptimiseShrinePlacement(p *world.Pathfinder, route, candidates []string, quota int) ([]string, []string, error) {
	if quota < 0 {
		return nil, nil, fmt.Errorf("%w: shrine quota must be non-negative, got %d", ErrConfig, quota)
	}
	if quota > len(candidates) {
		return nil, nil, fmt.Errorf("%w: only %d shrine tiles available but %d required", ErrConfig, len(candidates), quota)
	}
	if quota == 0 || len(route) == 0 {
		return route, nil, nil
	}

	opps := FindShrineOpportunities(p, route, candidates)
	selected := SelectShrines(opps, quota)
	out, placed := insertShrines(p, route, selected)
	out, err := Repair(p, out)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("shrine detours inserted", "opportunities", len(opps), "placed", len(placed))

	if short := quota - len(placed); short > 0 {
		var added []string
		out, added = appendShrines(p, out, candidates, placed, short)
		placed = append(placed, added...)
		slog.Debug("shrine shortfall appended", "needed", short, "added", len(added))
	}
	if out, err = finalize(p, out); err != nil {
		return nil, nil, err
	}

	if len(placed) < quota {
		return nil, nil, fmt.Errorf("%w: unable to schedule %d required shrine(s)", ErrConfig, quota-len(placed))
	}
	return out, placed, nil
}
