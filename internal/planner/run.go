package planner

import (
	"fmt"
	"log/slog"

	"github.com/talgya/oracle-route/internal/engine"
	"github.com/talgya/oracle-route/internal/tasks"
)

// Outcome is everything one planning pass produces.
type Outcome struct {
	BaseRoute  []string // Before shrine detours
	Route      []string
	Shrines    []string
	Stats      Stats
	Cycles     []CycleSummary
	Simulation *engine.Result
}

// Run validates the configuration, solves (with custom cycles when given),
// schedules the shrine quota and simulates the result. Configuration
// problems are reported before any solving starts.
func Run(mgr *tasks.Manager, opts Options) (*Outcome, error) {
	if opts.ShrineQuota < 0 {
		return nil, fmt.Errorf("%w: shrine quota must be non-negative, got %d", ErrConfig, opts.ShrineQuota)
	}
	if n := len(mgr.ShrineCandidates()); opts.ShrineQuota > n {
		return nil, fmt.Errorf("%w: only %d shrine tiles available but %d required", ErrConfig, n, opts.ShrineQuota)
	}

	s := NewSolver(mgr, opts)
	var (
		route []string
		stats Stats
		err   error
	)
	if opts.CustomCycles != nil {
		route, stats, err = s.SolveWithCustomCycles(opts.CustomCycles)
	} else {
		route, stats, err = s.Solve()
	}
	if err != nil {
		return nil, err
	}

	final, shrines, err := s.OptimiseShrinePlacement(route, opts.ShrineQuota)
	if err != nil {
		return nil, err
	}
	slog.Info("shrines scheduled", "shrines", shrines, "moves", len(final)-1)

	sim := engine.NewSimulator(mgr, opts.ShrineQuota)
	sim.Clock.OnTurn = opts.OnTurn
	result := sim.Simulate(final, shrines)
	return &Outcome{
		BaseRoute:  route,
		Route:      final,
		Shrines:    shrines,
		Stats:      stats,
		Cycles:     s.CycleSummaries(),
		Simulation: result,
	}, nil
}
