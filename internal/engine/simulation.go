// Package engine replays a planned route move by move, firing tasks and
// building shrines exactly as the agent would, and validates the end state.
package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

// Step actions.
const (
	ActionStart  = "start"
	ActionMove   = "move"
	ActionTask   = "task"
	ActionShrine = "shrine"
)

// Step is one entry of the simulation trace. Step 0 is the hub before the
// first move.
type Step struct {
	Number  int      `json:"step"`
	Tile    string   `json:"tile"`
	Action  string   `json:"action"`            // Last thing that happened: start, move, task, shrine
	Targets []string `json:"targets,omitempty"` // "temple:red@tile_012", "shrine@tile_040"
	Moves   int      `json:"moves"`
	Turn    int      `json:"turn"`
	Cargo   []string `json:"cargo"`
}

// Result is the outcome of one simulation. The trace is complete up to the
// point the simulation halted.
type Result struct {
	Success        bool               `json:"success"`
	TotalMoves     int                `json:"total_moves"`
	TotalTurns     int                `json:"total_turns"`
	Steps          []Step             `json:"steps"`
	CompletedTasks []string           `json:"completed_tasks"`
	ShrinesBuilt   []string           `json:"shrines_built"`
	Errors         []string           `json:"errors"`
	FinalState     *tasks.PlayerState `json:"-"`
}

// MaxCargo returns the largest cargo load seen in the trace.
func (r *Result) MaxCargo() int {
	n := 0
	for _, s := range r.Steps {
		n = max(n, len(s.Cargo))
	}
	return n
}

// Simulator replays routes against a task set. Clock hooks, when set,
// observe every step.
type Simulator struct {
	Clock Clock

	grid  *world.Grid
	mgr   *tasks.Manager
	quota int
}

// NewSimulator creates a simulator requiring quota shrines per run.
func NewSimulator(mgr *tasks.Manager, quota int) *Simulator {
	return &Simulator{grid: mgr.Grid(), mgr: mgr, quota: quota}
}

// Simulate resets every task and walks the route from the hub. Moves onto a
// non-adjacent or non-traversable tile halt the run. Violations are
// reported in Result.Errors, never as a Go error.
func (s *Simulator) Simulate(route, shrines []string) *Result {
	s.mgr.Reset()
	hub := s.grid.HubID()
	state := tasks.NewPlayerState(hub)
	planned := make(map[string]bool, len(shrines))
	for _, id := range shrines {
		planned[id] = true
	}
	s.Clock.Moves = 0
	res := &Result{FinalState: state}
	fail := func(format string, args ...any) {
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}

	switch {
	case len(route) == 0:
		fail("route is empty")
	case route[0] != hub:
		fail("route starts at %s, not at hub %s", route[0], hub)
	default:
		s.record(res, s.act(state, planned, 0, ActionStart))
		for i := 1; i < len(route); i++ {
			from, to := route[i-1], route[i]
			if !s.grid.Adjacent(from, to) {
				fail("step %d: illegal move from %s to non-adjacent %s", i, from, to)
				break
			}
			if !s.grid.Traversable(to) {
				kind := "unknown"
				if t := s.grid.Tile(to); t != nil {
					kind = t.Kind.String()
				}
				fail("step %d: illegal move onto %s tile %s", i, kind, to)
				break
			}
			state.Move(to)
			step := s.act(state, planned, i, ActionMove)
			if len(state.Cargo) > tasks.CargoCapacity {
				fail("step %d: cargo holds %d items", i, len(state.Cargo))
			}
			s.record(res, step)
		}
	}

	if state.Position != hub {
		fail("route ends at %s, not at hub %s", state.Position, hub)
	}
	if pending := s.mgr.Pending(); len(pending) > 0 {
		fail("%d task(s) not completed: %s", len(pending), strings.Join(pending, ", "))
	}
	for _, kind := range []tasks.ItemKind{tasks.ItemStatue, tasks.ItemOffering} {
		if state.HoldsKind(kind) {
			fail("cargo still holds %s: %s", kind, strings.Join(state.CargoSnapshot(), ", "))
		}
	}
	if len(state.Shrines) < s.quota {
		fail("built %d of %d required shrines", len(state.Shrines), s.quota)
	}

	res.Success = len(res.Errors) == 0
	res.TotalMoves = state.Moves
	res.TotalTurns = state.Turns()
	res.CompletedTasks = slices.Clone(state.CompletedOrder)
	res.ShrinesBuilt = slices.Clone(state.Shrines)

	if res.Success {
		slog.Info("simulation finished", "moves", res.TotalMoves, "turns", res.TotalTurns,
			"tasks", len(res.CompletedTasks), "shrines", len(res.ShrinesBuilt))
	} else {
		slog.Warn("simulation failed", "moves", res.TotalMoves, "errors", len(res.Errors), "first", res.Errors[0])
	}
	return res
}

func (s *Simulator) record(res *Result, step Step) {
	res.Steps = append(res.Steps, step)
	s.Clock.advance(step)
}

// act fires tasks and builds planned shrines around the agent's tile.
func (s *Simulator) act(state *tasks.PlayerState, planned map[string]bool, n int, action string) Step {
	step := Step{Number: n, Tile: state.Position, Action: action}

	for _, t := range s.mgr.ExecuteAdjacent(state) {
		step.Action = ActionTask
		step.Targets = append(step.Targets, fmt.Sprintf("%s:%s@%s", t.Kind, t.Colour, t.TileID))
	}
	for _, nb := range s.grid.Neighbours(state.Position) {
		if nb.Kind != world.KindShrine || !planned[nb.ID] || state.HasBuilt(nb.ID) {
			continue
		}
		state.BuildShrine(nb.ID)
		step.Action = ActionShrine
		step.Targets = append(step.Targets, "shrine@"+nb.ID)
	}

	step.Moves = state.Moves
	step.Turn = state.Turns()
	step.Cargo = state.CargoSnapshot()
	return step
}
