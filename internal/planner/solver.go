package planner

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/talgya/oracle-route/internal/engine"
	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

// Options configures one planning run.
type Options struct {
	ShrineQuota              int
	ClusterDistanceThreshold int
	ClusterSizeCap           int
	CustomCycles             [][]string // Tile id groups; skips clustering when set

	// OnTurn observes the simulation at every completed turn.
	OnTurn func(turn int, step engine.Step)
}

// DefaultOptions returns the standard run settings.
func DefaultOptions() Options {
	return Options{
		ShrineQuota:              DefaultShrineQuota,
		ClusterDistanceThreshold: DefaultClusterDistanceThreshold,
		ClusterSizeCap:           DefaultClusterSizeCap,
	}
}

// Stats summarises a solved route.
type Stats struct {
	TotalMoves     int   `json:"total_moves"`
	TotalTurns     int   `json:"total_turns"`
	RouteLength    int   `json:"route_length"`
	CyclesFormed   int   `json:"cycles_formed"`
	TasksPerCycle  []int `json:"tasks_per_cycle"`
	CycleDistances []int `json:"cycle_distances"`
}

// CycleSummary describes one cycle of the last solve.
type CycleSummary struct {
	ID              int      `json:"cycle_id"`
	TaskCount       int      `json:"task_count"`
	Kinds           []string `json:"task_types"`
	Tiles           []string `json:"task_tiles"`
	Colours         []string `json:"cycle_colours"`
	EntryTile       string   `json:"entry_tile"`
	ExitTile        string   `json:"exit_tile"`
	SegmentDistance int      `json:"segment_distance"`
}

// Solver plans routes over one task set. Its path and hex-distance caches
// are private to the instance.
type Solver struct {
	grid      *world.Grid
	mgr       *tasks.Manager
	paths     *world.Pathfinder
	clusterer *Clusterer
	opts      Options
	cycles    []*Cycle
}

// NewSolver creates a solver for the manager's selected tasks.
func NewSolver(mgr *tasks.Manager, opts Options) *Solver {
	g := mgr.Grid()
	return &Solver{
		grid:      g,
		mgr:       mgr,
		paths:     world.NewPathfinder(g),
		clusterer: NewClusterer(g, opts.ClusterDistanceThreshold, opts.ClusterSizeCap),
		opts:      opts,
	}
}

// Pathfinder returns the solver's pathfinder.
func (s *Solver) Pathfinder() *world.Pathfinder {
	return s.paths
}

// Cycles returns the cycles of the last solve in route order.
func (s *Solver) Cycles() []*Cycle {
	return s.cycles
}

// Solve clusters the task tiles, orders the clusters by cargo dependencies
// and builds a repaired route from the hub back to the hub.
func (s *Solver) Solve() ([]string, Stats, error) {
	if len(s.mgr.Tasks()) == 0 {
		return s.emptyRoute()
	}

	clusters := s.clusterer.Cluster(s.mgr.TaskTiles())
	prelim := make([]*Cycle, 0, len(clusters))
	for _, tiles := range clusters {
		prelim = append(prelim, newCycle(s.tasksOn(tiles)))
	}
	ordered := OrderCycles(prelim)
	slog.Debug("cycles ordered", "cycles", len(ordered))

	return s.route(ordered)
}

// SolveWithCustomCycles builds the route through caller-given tile groups
// in the given order. Every tile must host a selected task.
func (s *Solver) SolveWithCustomCycles(groups [][]string) ([]string, Stats, error) {
	var cycles []*Cycle
	for _, group := range groups {
		var tiles []string
		for _, id := range group {
			if len(s.mgr.ForTile(id)) == 0 {
				return nil, Stats{}, fmt.Errorf("%w: tile %s is not a task tile of the selected colours", ErrConfig, id)
			}
			if !slices.Contains(tiles, id) {
				tiles = append(tiles, id)
			}
		}
		if len(tiles) > 0 {
			cycles = append(cycles, newCycle(s.tasksOn(tiles)))
		}
	}
	if len(cycles) == 0 {
		return s.emptyRoute()
	}
	return s.route(cycles)
}

// OptimiseShrinePlacement schedules quota shrines on the route.
func (s *Solver) OptimiseShrinePlacement(route []string, quota int) ([]string, []string, error) {
	return OptimiseShrinePlacement(s.paths, route, s.mgr.ShrineCandidates(), quota)
}

func (s *Solver) route(cycles []*Cycle) ([]string, Stats, error) {
	b := newBuilder(s.paths, s.mgr)
	s.cycles = b.build(cycles)
	s.mgr.Reset()

	route, err := finalize(s.paths, b.route)
	if err != nil {
		return nil, Stats{}, err
	}
	realign(s.grid, s.cycles, route)

	stats := s.Stats(route)
	slog.Info("route solved", "moves", stats.TotalMoves, "turns", stats.TotalTurns, "cycles", stats.CyclesFormed)
	return route, stats, nil
}

func (s *Solver) emptyRoute() ([]string, Stats, error) {
	s.cycles = nil
	route := []string{s.grid.HubID()}
	return route, s.Stats(route), nil
}

func (s *Solver) tasksOn(tiles []string) []*tasks.Task {
	var out []*tasks.Task
	for _, id := range tiles {
		out = append(out, s.mgr.ForTile(id)...)
	}
	return out
}

// Stats computes route statistics against the current cycles.
func (s *Solver) Stats(route []string) Stats {
	moves := max(0, len(route)-1)
	st := Stats{
		TotalMoves:     moves,
		TotalTurns:     tasks.TurnsFor(moves),
		RouteLength:    len(route),
		CyclesFormed:   len(s.cycles),
		TasksPerCycle:  []int{},
		CycleDistances: []int{},
	}
	for _, c := range s.cycles {
		st.TasksPerCycle = append(st.TasksPerCycle, len(c.Tasks))
		st.CycleDistances = append(st.CycleDistances, c.TotalDistance)
	}
	return st
}

// CycleSummaries describes the cycles of the last solve.
func (s *Solver) CycleSummaries() []CycleSummary {
	out := make([]CycleSummary, 0, len(s.cycles))
	for i, c := range s.cycles {
		sum := CycleSummary{
			ID:              i,
			TaskCount:       len(c.Tasks),
			EntryTile:       c.EntryTile,
			ExitTile:        c.ExitTile,
			SegmentDistance: c.TotalDistance,
		}
		colours := make(map[string]bool)
		for _, t := range c.Tasks {
			sum.Kinds = append(sum.Kinds, t.Kind.String())
			sum.Tiles = append(sum.Tiles, t.TileID)
			if t.Colour != "" {
				colours[t.Colour] = true
			}
		}
		for col := range colours {
			sum.Colours = append(sum.Colours, col)
		}
		sort.Strings(sum.Colours)
		out = append(out, sum)
	}
	return out
}
