package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/oracle-route/internal/planner"
	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/testutil"
	"github.com/talgya/oracle-route/internal/world"
)

func planned(t *testing.T) (*tasks.Manager, *planner.Outcome) {
	t.Helper()
	g := testutil.Grid(t, []string{
		"~M~O~T",
		"~~~~~~",
		"H~~~~~",
	}, nil, "red")
	m := tasks.NewManager(g, world.Requirements{})
	add := func(row, col int, k world.Kind, deps ...string) string {
		id := tasks.TaskID(testutil.ID(row, col), k, "red")
		m.Add(&tasks.Task{ID: id, TileID: testutil.ID(row, col), Kind: k, Colour: "red", Dependencies: deps})
		return id
	}
	add(0, 1, world.KindMonster)
	off := add(0, 3, world.KindOffering)
	add(0, 5, world.KindTemple, off)

	out, err := planner.Run(m, planner.Options{})
	require.NoError(t, err)
	return m, out
}

func TestMetrics(t *testing.T) {
	e := Metrics(11, 4, 3, 0)
	assert.InDelta(t, 2.75, e.MovesPerTurn, 1e-9)
	assert.InDelta(t, 0.75, e.TasksPerTurn, 1e-9)
	assert.InDelta(t, 11.0/3, e.MovesPerTask, 1e-9)
	assert.InDelta(t, 11.0/12, e.TurnEfficiency, 1e-9)
	assert.InDelta(t, 3.0/11, e.TaskDensity, 1e-9)
	assert.Zero(t, e.ShrineEfficiency)

	assert.Equal(t, Efficiency{}, Metrics(0, 0, 0, 0))
	assert.Equal(t, 1.0, Metrics(3, 1, 0, 1).TurnEfficiency)
}

func TestBuild(t *testing.T) {
	m, out := planned(t)
	in := Input{Map: "test", Colours: []string{"red"}}

	r := Build(in, m, out)
	assert.True(t, strings.HasPrefix(r.RunID, "run_"))
	assert.NotEqual(t, r.RunID, Build(in, m, out).RunID)
	assert.True(t, r.Success)
	assert.Empty(t, r.Errors)
	assert.Equal(t, out.Route, r.Route.Path)
	assert.Equal(t, len(out.Route), r.Route.Length)
	assert.Equal(t, 11, r.Route.TotalMoves)
	assert.Equal(t, 3, r.Tasks.TotalSelected)
	assert.Equal(t, []string{testutil.ID(0, 1), testutil.ID(0, 3), testutil.ID(0, 5)}, r.Tasks.CompletedTiles)
	assert.Equal(t, r.Tasks.CompletedTiles, r.Tasks.SelectedTiles)
	assert.Empty(t, r.Shrines.Built)
	assert.Equal(t, Metrics(11, 4, 3, 0), r.Efficiency)
	assert.Len(t, r.Cycles, 2)
}

func TestExportFile(t *testing.T) {
	m, out := planned(t)
	r := Build(Input{Map: "test", Colours: []string{"red"}}, m, out)
	path := filepath.Join(t.TempDir(), "nested", "results.json")

	require.NoError(t, ExportFile(path, r))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"run_id", "input", "route", "tasks", "shrines", "statistics", "efficiency_metrics", "cycles", "simulation_success", "errors"} {
		assert.Contains(t, doc, key)
	}
	assert.Equal(t, true, doc["simulation_success"])
	assert.Equal(t, []any{}, doc["errors"])
}

func TestSummary(t *testing.T) {
	m, out := planned(t)
	r := Build(Input{}, m, out)

	s := Summary(r)
	assert.Contains(t, s, "Total moves: 11")
	assert.Contains(t, s, "Tasks completed: 3 of 3")
	assert.Contains(t, s, "turn_efficiency: 0.917")
	assert.NotContains(t, s, "Warnings/Errors")

	r.Route.TotalMoves = 1234
	r.Errors = []string{"route ends at x, not at hub y"}
	s = Summary(r)
	assert.Contains(t, s, "Total moves: 1,234")
	assert.Contains(t, s, "  - route ends at x, not at hub y")
}

func TestColours(t *testing.T) {
	g := testutil.Grid(t, []string{"MoT~", "H~~~"}, nil, "red", "blue")

	rep := Colours(g, []string{"red"})
	assert.Equal(t, []string{"blue", "red"}, rep.Available)
	assert.Equal(t, map[string]map[string]int{"red": {"monster": 1, "temple": 1}}, rep.Distribution)
	assert.Equal(t, "Colours: red (of blue, red)\n  red: monster=1 temple=1\n", rep.String())
}
