package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

func cycleOf(ts ...*tasks.Task) *Cycle {
	return newCycle(ts)
}

func task(tile string, k world.Kind, colour string) *tasks.Task {
	return &tasks.Task{ID: tasks.TaskID(tile, k, colour), TileID: tile, Kind: k, Colour: colour, MaxUses: 1}
}

func TestCycleDependencies(t *testing.T) {
	island := cycleOf(task("a", world.KindStatueIsland, "red"))
	mixed := cycleOf(task("b", world.KindStatueSource, "red"), task("c", world.KindTemple, "blue"))
	offering := cycleOf(task("d", world.KindOffering, "blue"), task("e", world.KindMonster, "blue"))

	deps := CycleDependencies([]*Cycle{island, mixed, offering})
	assert.Equal(t, [][]int{{1}, {2}, nil}, deps)

	ordered := OrderCycles([]*Cycle{island, mixed, offering})
	assert.Equal(t, []*Cycle{offering, mixed, island}, ordered)
}

func TestOrderCyclesProducersFirst(t *testing.T) {
	// Two consumers of the same producer keep ascending index order.
	temple := cycleOf(task("a", world.KindTemple, "red"))
	monster := cycleOf(task("b", world.KindMonster, "red"))
	island := cycleOf(task("c", world.KindStatueIsland, "red"))
	producer := cycleOf(task("d", world.KindOffering, "red"), task("e", world.KindStatueSource, "red"))

	ordered := OrderCycles([]*Cycle{temple, monster, island, producer})
	assert.Equal(t, []*Cycle{monster, producer, temple, island}, ordered)
}

func TestOrderCyclesCircularFallsBack(t *testing.T) {
	a := cycleOf(task("a", world.KindStatueSource, "red"), task("b", world.KindTemple, "blue"))
	b := cycleOf(task("c", world.KindOffering, "blue"), task("d", world.KindStatueIsland, "red"))

	in := []*Cycle{a, b}
	assert.Equal(t, [][]int{{1}, {0}}, CycleDependencies(in))
	assert.Equal(t, in, OrderCycles(in))
}

func TestCycleNeverDependsOnItself(t *testing.T) {
	self := cycleOf(task("a", world.KindStatueSource, "red"), task("b", world.KindStatueIsland, "red"))
	assert.Equal(t, [][]int{nil}, CycleDependencies([]*Cycle{self}))
	assert.Equal(t, map[string]bool{"statue:red": true}, self.Produces())
	assert.Equal(t, map[string]bool{"statue:red": true}, self.Requires())
	assert.Empty(t, OrderCycles(nil))
}
