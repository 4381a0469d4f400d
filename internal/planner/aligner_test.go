package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/oracle-route/internal/testutil"
)

func TestRealignFallsBackToTaskAdjacency(t *testing.T) {
	s := newScenario(t)
	g := s.mgr.Grid()
	route := []string{
		testutil.ID(2, 0), testutil.ID(1, 0), testutil.ID(1, 1), testutil.ID(0, 2), testutil.ID(1, 2),
	}

	first := newCycle(s.mgr.ForTile(s.monster.TileID))
	first.EntryTile = testutil.ID(1, 0)
	first.ExitTile = "replaced"

	lost := newCycle(s.mgr.ForTile(s.temple.TileID))
	lost.EntryTile = "replaced"
	lost.InternalRoute = []string{"stale"}

	realign(g, []*Cycle{first, lost}, route)

	assert.Equal(t, 1, first.EntryIndex)
	assert.Equal(t, 3, first.ExitIndex, "last route tile next to the monster")
	assert.Equal(t, route[1:4], first.InternalRoute)
	assert.Equal(t, 2, first.TotalDistance)
	assert.True(t, first.Aligned())

	assert.False(t, lost.Aligned())
	assert.Equal(t, -1, lost.ExitIndex)
	assert.Empty(t, lost.InternalRoute)
	assert.Nil(t, first.ConnectorToNext)
}

func TestRealignLinksConnectors(t *testing.T) {
	s := newScenario(t)
	route := []string{
		testutil.ID(2, 0), testutil.ID(1, 0), testutil.ID(1, 1), testutil.ID(0, 2),
		testutil.ID(1, 2), testutil.ID(1, 3), testutil.ID(0, 4),
	}

	a := newCycle(s.mgr.ForTile(s.monster.TileID))
	a.EntryTile, a.ExitTile = testutil.ID(1, 0), testutil.ID(1, 0)
	b := newCycle(s.mgr.ForTile(s.temple.TileID))
	b.EntryTile, b.ExitTile = testutil.ID(0, 4), testutil.ID(0, 4)

	realign(s.mgr.Grid(), []*Cycle{a, b}, route)

	assert.Equal(t, route[1:7], a.ConnectorToNext)
	assert.Equal(t, 6, b.EntryIndex)
	assert.Equal(t, 0, b.TotalDistance)
}
