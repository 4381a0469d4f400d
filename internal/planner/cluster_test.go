package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/oracle-route/internal/testutil"
)

// Monsters at columns 0, 2, 9, 14 and 16 of the top row.
var spread = []string{
	"M~M~~~~~~M~~~~M~M",
	"H~~~~~~~~~~~~~~~~",
}

func spreadTiles() []string {
	var ids []string
	for _, col := range []int{16, 0, 9, 2, 14} {
		ids = append(ids, testutil.ID(0, col))
	}
	return ids
}

func TestSeedCount(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 1, 2: 2, 3: 2, 5: 2, 8: 2, 9: 3, 16: 4, 17: 5} {
		assert.Equal(t, want, SeedCount(n), "n=%d", n)
	}
}

func TestClusterSeedsAndSingletons(t *testing.T) {
	g := testutil.Grid(t, spread, nil, "red")
	c := NewClusterer(g, 0, 0)

	got := c.Cluster(spreadTiles())

	// Column 9 is 7 away from both seed clusters.
	assert.Equal(t, [][]string{
		{testutil.ID(0, 0), testutil.ID(0, 2)},
		{testutil.ID(0, 16), testutil.ID(0, 14)},
		{testutil.ID(0, 9)},
	}, got)
}

func TestClusterRespectsSizeCap(t *testing.T) {
	g := testutil.Grid(t, spread, nil, "red")
	c := NewClusterer(g, 100, 2)

	got := c.Cluster(spreadTiles())

	assert.Equal(t, [][]string{
		{testutil.ID(0, 0), testutil.ID(0, 2)},
		{testutil.ID(0, 16), testutil.ID(0, 9)},
		{testutil.ID(0, 14)},
	}, got)
}

func TestClusterIsDeterministic(t *testing.T) {
	g := testutil.Grid(t, spread, nil, "red")
	a := NewClusterer(g, 0, 0).Cluster(spreadTiles())
	b := NewClusterer(g, 0, 0).Cluster([]string{
		testutil.ID(0, 2), testutil.ID(0, 14), testutil.ID(0, 0), testutil.ID(0, 9), testutil.ID(0, 16), testutil.ID(0, 2),
	})
	assert.Equal(t, a, b)
	assert.Nil(t, NewClusterer(g, 0, 0).Cluster(nil))
}

func TestClustererDistance(t *testing.T) {
	g := testutil.Grid(t, spread, nil, "red")
	c := NewClusterer(g, 0, 0)

	assert.Equal(t, 0, c.Distance(testutil.ID(0, 2), testutil.ID(0, 2)))
	assert.Equal(t, 14, c.Distance(testutil.ID(0, 2), testutil.ID(0, 16)))
	assert.Equal(t, 14, c.Distance(testutil.ID(0, 16), testutil.ID(0, 2)))
	assert.Equal(t, 1, c.Distance(testutil.ID(0, 0), testutil.ID(1, 0)))
	assert.Equal(t, unknownDistance, c.Distance(testutil.ID(0, 0), "missing"))
}
