package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/oracle-route/internal/testutil"
	"github.com/talgya/oracle-route/internal/world"
)

var repairRows = []string{
	"H~~~~",
	"~MM~~",
	"~~~~~",
}

func repairPaths(t *testing.T) *world.Pathfinder {
	t.Helper()
	return world.NewPathfinder(testutil.Grid(t, repairRows, nil, "red"))
}

func TestRepairBridgesGaps(t *testing.T) {
	p := repairPaths(t)
	hub := testutil.ID(0, 0)

	got, err := Repair(p, []string{hub, testutil.ID(0, 4)})
	require.NoError(t, err)

	assert.Len(t, got, 5)
	assert.Equal(t, hub, got[0])
	assert.Equal(t, testutil.ID(0, 4), got[len(got)-1])
	testutil.AssertConnected(t, p.Grid(), got)

	again, err := Repair(p, got)
	require.NoError(t, err)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("repair not idempotent (-first +second):\n%s", diff)
	}
}

func TestRepairReplacesLandTargets(t *testing.T) {
	p := repairPaths(t)

	got, err := Repair(p, []string{testutil.ID(0, 0), testutil.ID(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.ID(0, 0), testutil.ID(0, 1)}, got)

	// Already next to the land tile: it is simply dropped.
	got, err = Repair(p, []string{testutil.ID(0, 1), testutil.ID(1, 1), testutil.ID(0, 2)})
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.ID(0, 1), testutil.ID(0, 2)}, got)
}

func TestRepairDropsDuplicates(t *testing.T) {
	p := repairPaths(t)
	hub := testutil.ID(0, 0)

	got, err := Repair(p, []string{hub, hub, testutil.ID(0, 1), testutil.ID(0, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{hub, testutil.ID(0, 1)}, got)

	got, err = Repair(p, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepairUnknownTileIsFatal(t *testing.T) {
	p := repairPaths(t)

	_, err := Repair(p, []string{testutil.ID(0, 0), "nowhere"})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestReturnToHub(t *testing.T) {
	p := repairPaths(t)
	hub := testutil.ID(0, 0)

	got, err := ReturnToHub(p, []string{testutil.ID(2, 4)})
	require.NoError(t, err)
	assert.Equal(t, hub, got[len(got)-1])
	testutil.AssertConnected(t, p.Grid(), got)

	got, err = ReturnToHub(p, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{hub}, got)

	got, err = ReturnToHub(p, []string{hub})
	require.NoError(t, err)
	assert.Equal(t, []string{hub}, got)
}

func TestAppendPathAndCombineDetour(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, appendPath([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, []string{"a", "c", "d"}, appendPath([]string{"a"}, []string{"c", "d"}))
	assert.Equal(t, []string{"a"}, appendPath([]string{"a"}, nil))

	assert.Equal(t, []string{"x"}, combineDetour([]string{"a", "x"}, []string{"x", "b"}))
	assert.Equal(t, []string{"x", "y", "z"}, combineDetour([]string{"a", "x", "y"}, []string{"y", "z", "b"}))
	assert.Empty(t, combineDetour([]string{"a"}, []string{"a", "b"}))
	assert.NotNil(t, combineDetour([]string{"a"}, []string{"a", "b"}))
	assert.Nil(t, combineDetour(nil, []string{"a", "b"}))
}
