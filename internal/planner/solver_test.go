package planner

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/testutil"
	"github.com/talgya/oracle-route/internal/world"
)

func TestSolveVisitsMonsterOfferingTemple(t *testing.T) {
	s := newScenario(t)
	hub := s.mgr.Grid().HubID()

	out, err := Run(s.mgr, Options{ShrineQuota: 0})
	require.NoError(t, err)

	sim := out.Simulation
	require.True(t, sim.Success, "errors: %v", sim.Errors)
	assert.Equal(t, []string{s.monster.ID, s.offering.ID, s.temple.ID}, sim.CompletedTasks)

	assert.Equal(t, hub, out.Route[0])
	assert.Equal(t, hub, out.Route[len(out.Route)-1])
	testutil.AssertConnected(t, s.mgr.Grid(), out.Route)
	assert.Equal(t, []string{
		testutil.ID(2, 0), testutil.ID(1, 0), testutil.ID(1, 1), testutil.ID(0, 2),
		testutil.ID(1, 2), testutil.ID(1, 3), testutil.ID(0, 4),
	}, out.Route[:7])

	assert.Equal(t, 11, out.Stats.TotalMoves)
	assert.Equal(t, 4, out.Stats.TotalTurns)
	assert.Equal(t, 2, out.Stats.CyclesFormed)
	assert.Equal(t, []int{2, 1}, out.Stats.TasksPerCycle)
	assert.Equal(t, []int{2, 0}, out.Stats.CycleDistances)

	require.Len(t, out.Cycles, 2)
	assert.Equal(t, testutil.ID(1, 0), out.Cycles[0].EntryTile)
	assert.Equal(t, testutil.ID(0, 2), out.Cycles[0].ExitTile)
	assert.Equal(t, []string{"monster", "offering"}, out.Cycles[0].Kinds)
	assert.Equal(t, []string{"red"}, out.Cycles[1].Colours)
}

func TestSolveIsDeterministic(t *testing.T) {
	a := newScenario(t)
	b := newScenario(t)

	ra, _, err := NewSolver(a.mgr, DefaultOptions()).Solve()
	require.NoError(t, err)
	rb, _, err := NewSolver(b.mgr, DefaultOptions()).Solve()
	require.NoError(t, err)

	if diff := cmp.Diff(ra, rb); diff != "" {
		t.Errorf("routes differ (-a +b):\n%s", diff)
	}
}

func TestSolveWithCustomCyclesRejectsUnknownTile(t *testing.T) {
	s := newScenario(t)
	solver := NewSolver(s.mgr, DefaultOptions())

	_, _, err := solver.SolveWithCustomCycles([][]string{{s.monster.TileID, testutil.ID(1, 5)}})
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorContains(t, err, testutil.ID(1, 5))

	_, err = Run(s.mgr, Options{CustomCycles: [][]string{{"t_99_99"}}})
	assert.ErrorContains(t, err, "t_99_99")
}

func TestSolveWithCustomCyclesOutOfDependencyOrder(t *testing.T) {
	s := newScenario(t)

	// The temple cluster comes first; the route must still finish the task set.
	out, err := Run(s.mgr, Options{CustomCycles: [][]string{
		{s.temple.TileID},
		{s.offering.TileID, s.monster.TileID, s.offering.TileID},
	}})
	require.NoError(t, err)

	assert.True(t, out.Simulation.Success, "errors: %v", out.Simulation.Errors)
	assert.ElementsMatch(t, []string{s.monster.ID, s.offering.ID, s.temple.ID}, out.Simulation.CompletedTasks)
	assert.GreaterOrEqual(t, out.Stats.CyclesFormed, 2)
}

func TestSolveWithCustomCyclesEmpty(t *testing.T) {
	s := newScenario(t)
	solver := NewSolver(s.mgr, DefaultOptions())

	route, stats, err := solver.SolveWithCustomCycles([][]string{{}})
	require.NoError(t, err)
	assert.Equal(t, []string{s.mgr.Grid().HubID()}, route)
	assert.Equal(t, 0, stats.TotalMoves)
	assert.Equal(t, 0, stats.CyclesFormed)
	assert.Empty(t, solver.CycleSummaries())
}

func TestRunOnGeneratedMaps(t *testing.T) {
	for _, seed := range []int64{7, 11, 23} {
		g, err := world.Generate(world.DefaultGenConfig(), rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		mgr := tasks.NewManager(g, nil)
		colours, err := tasks.PickColours(g.ColoursWithRequiredKinds(), nil)
		require.NoError(t, err)
		require.NoError(t, mgr.AssignColours(colours))
		require.NoError(t, mgr.SelectTasks())

		out, err := Run(mgr, DefaultOptions())
		require.NoError(t, err, "seed %d", seed)

		route := out.Route
		assert.Equal(t, g.HubID(), route[0], "seed %d", seed)
		assert.Equal(t, g.HubID(), route[len(route)-1], "seed %d", seed)
		testutil.AssertConnected(t, g, route)
		for _, id := range route {
			assert.True(t, g.Traversable(id), "seed %d: route crosses land tile %s", seed, id)
		}

		again, err := Repair(world.NewPathfinder(g), route)
		require.NoError(t, err)
		if diff := cmp.Diff(route, again); diff != "" {
			t.Errorf("seed %d: repair not idempotent:\n%s", seed, diff)
		}

		sim := out.Simulation
		assert.LessOrEqual(t, sim.MaxCargo(), tasks.CargoCapacity)
		assert.Len(t, out.Shrines, DefaultShrineQuota)
		sortedShrines := slices.Clone(out.Shrines)
		slices.Sort(sortedShrines)
		assert.Len(t, slices.Compact(sortedShrines), DefaultShrineQuota)

		// A delivery completes only after the pickup it depends on.
		for i, id := range sim.CompletedTasks {
			for _, dep := range mgr.Task(id).Dependencies {
				j := slices.Index(sim.CompletedTasks, dep)
				assert.True(t, j >= 0 && j < i, "seed %d: %s completed before %s", seed, id, dep)
			}
		}

		assert.Equal(t, len(out.BaseRoute)-1, out.Stats.TotalMoves)
		assert.Equal(t, tasks.TurnsFor(out.Stats.TotalMoves), out.Stats.TotalTurns)
		assert.Len(t, out.Stats.TasksPerCycle, out.Stats.CyclesFormed)
	}
}
