// Package report turns a planning outcome into the results document, the
// efficiency metrics and the human-readable summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/oracle-route/internal/engine"
	"github.com/talgya/oracle-route/internal/planner"
	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

// Input records what a run was asked to do.
type Input struct {
	Map          string     `json:"map"` // Path, or "generated"
	Seed         int64      `json:"seed,omitempty"`
	Colours      []string   `json:"colours"`
	ShrineQuota  int        `json:"max_shrines"`
	CustomCycles [][]string `json:"custom_cycles,omitempty"`
}

// RouteInfo is the final route with its cost.
type RouteInfo struct {
	Path       []string `json:"path"`
	TotalMoves int      `json:"total_moves"`
	TotalTurns int      `json:"total_turns"`
	Length     int      `json:"length"`
}

// TaskInfo lists selected and completed tasks.
type TaskInfo struct {
	Completed      []string `json:"completed"`
	CompletedTiles []string `json:"completed_tiles"`
	SelectedTiles  []string `json:"selected_tiles"`
	TotalSelected  int      `json:"total_selected"`
}

// ShrineInfo lists the shrines built and the route index each was built at.
type ShrineInfo struct {
	Built     []string       `json:"built"`
	Positions map[string]int `json:"positions"`
}

// Efficiency holds ratios describing how well the route uses its turns.
type Efficiency struct {
	MovesPerTurn     float64 `json:"moves_per_turn"`
	TasksPerTurn     float64 `json:"tasks_per_turn"`
	MovesPerTask     float64 `json:"moves_per_task"`
	TurnEfficiency   float64 `json:"turn_efficiency"`
	TaskDensity      float64 `json:"task_density"`
	ShrineEfficiency float64 `json:"shrine_efficiency"`
}

// Results is the exported document of one run.
type Results struct {
	RunID      string                 `json:"run_id"`
	CreatedAt  time.Time              `json:"created_at"`
	Input      Input                  `json:"input"`
	Route      RouteInfo              `json:"route"`
	Tasks      TaskInfo               `json:"tasks"`
	Shrines    ShrineInfo             `json:"shrines"`
	Statistics planner.Stats          `json:"statistics"`
	Efficiency Efficiency             `json:"efficiency_metrics"`
	Cycles     []planner.CycleSummary `json:"cycles"`
	Success    bool                   `json:"simulation_success"`
	Errors     []string               `json:"errors"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run_" + uuid.NewString()
}

// Metrics computes the efficiency ratios. Divisors are clamped to one so an
// empty route yields zeros rather than NaN.
func Metrics(moves, turns, tasksDone, shrines int) Efficiency {
	perTurn := float64(max(1, turns))
	e := Efficiency{
		MovesPerTurn:     float64(moves) / perTurn,
		TasksPerTurn:     float64(tasksDone) / perTurn,
		MovesPerTask:     float64(moves) / float64(max(1, tasksDone)),
		TaskDensity:      float64(tasksDone) / float64(max(1, moves)),
		ShrineEfficiency: float64(shrines) / perTurn,
	}
	if turns > 0 {
		e.TurnEfficiency = min(1, float64(moves)/float64(turns*tasks.MovesPerTurn))
	}
	return e
}

// Build assembles the results document for a finished outcome.
func Build(in Input, mgr *tasks.Manager, out *planner.Outcome) *Results {
	sim := out.Simulation
	r := &Results{
		RunID:     NewRunID(),
		CreatedAt: time.Now().UTC(),
		Input:     in,
		Route: RouteInfo{
			Path:       out.Route,
			TotalMoves: sim.TotalMoves,
			TotalTurns: sim.TotalTurns,
			Length:     len(out.Route),
		},
		Tasks: TaskInfo{
			Completed:     nonNil(sim.CompletedTasks),
			SelectedTiles: mgr.TaskTiles(),
			TotalSelected: len(mgr.Tasks()),
		},
		Shrines: ShrineInfo{
			Built:     nonNil(sim.ShrinesBuilt),
			Positions: shrinePositions(sim),
		},
		Statistics: out.Stats,
		Efficiency: Metrics(sim.TotalMoves, sim.TotalTurns, len(sim.CompletedTasks), len(sim.ShrinesBuilt)),
		Cycles:     out.Cycles,
		Success:    sim.Success,
		Errors:     nonNil(sim.Errors),
	}
	r.Tasks.CompletedTiles = []string{}
	for _, id := range sim.CompletedTasks {
		if t := mgr.Task(id); t != nil {
			r.Tasks.CompletedTiles = append(r.Tasks.CompletedTiles, t.TileID)
		}
	}
	return r
}

func shrinePositions(sim *engine.Result) map[string]int {
	pos := make(map[string]int, len(sim.ShrinesBuilt))
	for _, step := range sim.Steps {
		for _, target := range step.Targets {
			if id, ok := strings.CutPrefix(target, "shrine@"); ok {
				pos[id] = step.Number
			}
		}
	}
	return pos
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Export writes the results as indented JSON.
func Export(w io.Writer, r *Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ExportFile writes the results to path, creating parent directories.
func ExportFile(path string, r *Results) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results: %w", err)
	}
	defer f.Close()
	if err := Export(f, r); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// Summary formats a short human-readable account of the run.
func Summary(r *Results) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Route Summary (%s):\n", r.RunID)
	fmt.Fprintf(&b, "  Total moves: %s\n", humanize.Comma(int64(r.Route.TotalMoves)))
	fmt.Fprintf(&b, "  Total turns: %s\n", humanize.Comma(int64(r.Route.TotalTurns)))
	fmt.Fprintf(&b, "  Route length: %s positions\n", humanize.Comma(int64(r.Route.Length)))
	fmt.Fprintf(&b, "  Tasks completed: %d of %d\n", len(r.Tasks.Completed), r.Tasks.TotalSelected)
	fmt.Fprintf(&b, "  Shrines built: %d\n", len(r.Shrines.Built))

	if n := len(r.Tasks.Completed); n > 0 {
		shown := r.Tasks.Completed[:min(5, n)]
		fmt.Fprintf(&b, "  Completed tasks: %s\n", strings.Join(shown, ", "))
		if n > 5 {
			fmt.Fprintf(&b, "    ... and %d more\n", n-5)
		}
	}
	for _, id := range r.Shrines.Built {
		fmt.Fprintf(&b, "  Shrine %s built at the %s step\n", id, humanize.Ordinal(r.Shrines.Positions[id]))
	}

	e := r.Efficiency
	b.WriteString("Efficiency Metrics:\n")
	for _, m := range []struct {
		name  string
		value float64
	}{
		{"moves_per_turn", e.MovesPerTurn},
		{"tasks_per_turn", e.TasksPerTurn},
		{"moves_per_task", e.MovesPerTask},
		{"turn_efficiency", e.TurnEfficiency},
		{"task_density", e.TaskDensity},
		{"shrine_efficiency", e.ShrineEfficiency},
	} {
		fmt.Fprintf(&b, "  %s: %.3f\n", m.name, m.value)
	}

	if len(r.Errors) > 0 {
		b.WriteString("Warnings/Errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

// ColourReport describes the selected colours and how their tiles split by
// kind.
type ColourReport struct {
	Selected     []string                  `json:"selected_colours"`
	Available    []string                  `json:"available_colours"`
	Distribution map[string]map[string]int `json:"distribution"`
}

// Colours builds the colour assignment report for a grid.
func Colours(g *world.Grid, selected []string) ColourReport {
	rep := ColourReport{
		Selected:     selected,
		Available:    g.AvailableColours(),
		Distribution: make(map[string]map[string]int, len(selected)),
	}
	for _, c := range selected {
		dist := make(map[string]int)
		for _, t := range g.TilesByColour(c) {
			dist[t.Kind.String()]++
		}
		rep.Distribution[c] = dist
	}
	return rep
}

// String renders the colour report one colour per line, kinds sorted.
func (c ColourReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Colours: %s (of %s)\n", strings.Join(c.Selected, ", "), strings.Join(c.Available, ", "))
	for _, colour := range c.Selected {
		dist := c.Distribution[colour]
		kinds := make([]string, 0, len(dist))
		for k := range dist {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		parts := make([]string, len(kinds))
		for i, k := range kinds {
			parts[i] = fmt.Sprintf("%s=%d", k, dist[k])
		}
		fmt.Fprintf(&b, "  %s: %s\n", colour, strings.Join(parts, " "))
	}
	return b.String()
}
