package planner

import (
	"testing"

	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/testutil"
	"github.com/talgya/oracle-route/internal/world"
)

// scenario is one red monster, offering and temple along the top row with
// the hub in the bottom-left corner.
var scenario = []string{
	"~M~O~T",
	"~~~~~~",
	"H~~~~~",
}

type scenarioTasks struct {
	mgr                       *tasks.Manager
	monster, offering, temple *tasks.Task
}

func newScenario(t *testing.T) scenarioTasks {
	t.Helper()
	g := testutil.Grid(t, scenario, nil, "red")
	m := tasks.NewManager(g, world.Requirements{})
	s := scenarioTasks{mgr: m}
	s.monster = addTask(m, testutil.ID(0, 1), world.KindMonster, "red")
	s.offering = addTask(m, testutil.ID(0, 3), world.KindOffering, "red")
	s.temple = addTask(m, testutil.ID(0, 5), world.KindTemple, "red", s.offering.ID)
	return s
}

func addTask(m *tasks.Manager, tile string, k world.Kind, colour string, deps ...string) *tasks.Task {
	t := &tasks.Task{
		ID:           tasks.TaskID(tile, k, colour),
		TileID:       tile,
		Kind:         k,
		Colour:       colour,
		Dependencies: deps,
	}
	m.Add(t)
	return t
}
