// Package world provides the hex grid, tile kinds, and water-only pathfinding.
// Tiles are laid out in offset rows: coordinates are (column, row), and the
// six neighbours of a tile depend on the parity of its row.
package world

import "fmt"

// HexCoord represents a position on the hex grid as (column, row).
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Neighbour offsets by row parity.
var (
	evenRowOffsets = [6]HexCoord{
		{Q: -1, R: 0},
		{Q: 1, R: 0},
		{Q: -1, R: -1},
		{Q: 0, R: -1},
		{Q: -1, R: 1},
		{Q: 0, R: 1},
	}
	oddRowOffsets = [6]HexCoord{
		{Q: -1, R: 0},
		{Q: 1, R: 0},
		{Q: 0, R: -1},
		{Q: 1, R: -1},
		{Q: 0, R: 1},
		{Q: 1, R: 1},
	}
)

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	offsets := evenRowOffsets
	if h.R%2 != 0 {
		offsets = oddRowOffsets
	}
	var result [6]HexCoord
	for i, dir := range offsets {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// String formats the coordinate as "(q,r)".
func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// ManhattanDistance is the cheap coordinate distance used for clustering.
// It ignores terrain entirely and is not a travel distance.
func ManhattanDistance(a, b HexCoord) int {
	return abs(a.Q-b.Q) + abs(a.R-b.R)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
