// Package testutil builds small hand-drawn grids for package tests.
//
// A layout is a list of rows; spaces are ignored. Legend:
//
//	~  water            H  hub (water)
//	M  monster          O  offering
//	S  statue source    I  statue island
//	T  temple           R  shrine
//
// Upper-case task letters carry the first colour, lower-case letters the
// second. Tile ids are "t_<row>_<col>" so id order is row-major.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/talgya/oracle-route/internal/world"
)

var legend = map[rune]world.Kind{
	'~': world.KindWater,
	'H': world.KindWater,
	'M': world.KindMonster,
	'O': world.KindOffering,
	'S': world.KindStatueSource,
	'I': world.KindStatueIsland,
	'T': world.KindTemple,
	'R': world.KindShrine,
}

// ID returns the tile id at row, col.
func ID(row, col int) string {
	return fmt.Sprintf("t_%02d_%02d", row, col)
}

// Tiles parses a layout into tiles and the hub id.
func Tiles(rows []string, colours ...string) ([]*world.Tile, string, error) {
	var tiles []*world.Tile
	hub := ""
	for r, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		for c, ch := range []rune(line) {
			kind, ok := legend[unicode.ToUpper(ch)]
			if !ok {
				return nil, "", fmt.Errorf("unknown layout rune %q at row %d col %d", ch, r, c)
			}
			t := &world.Tile{ID: ID(r, c), Kind: kind, Coord: world.HexCoord{Q: c, R: r}}
			if ch == 'H' {
				hub = t.ID
			}
			if kind != world.KindWater && kind != world.KindShrine {
				idx := 0
				if unicode.IsLower(ch) {
					idx = 1
				}
				if idx < len(colours) {
					t.Colours = []string{colours[idx]}
				}
			}
			tiles = append(tiles, t)
		}
	}
	return tiles, hub, nil
}

// Grid builds a validated grid from a layout, failing the test on error.
func Grid(t testing.TB, rows []string, req world.Requirements, colours ...string) *world.Grid {
	t.Helper()
	tiles, hub, err := Tiles(rows, colours...)
	require.NoError(t, err)
	if req == nil {
		req = world.Requirements{}
	}
	g, err := world.NewGrid(tiles, hub, world.GridOptions{InferNeighbours: true, Requirements: req})
	require.NoError(t, err)
	return g
}

// AssertConnected fails the test if consecutive route tiles are not adjacent.
func AssertConnected(t testing.TB, g *world.Grid, route []string) {
	t.Helper()
	for i := 1; i < len(route); i++ {
		require.Truef(t, g.Adjacent(route[i-1], route[i]),
			"route step %d: %s -> %s not adjacent", i, route[i-1], route[i])
	}
}
