// Example map generation using layered simplex noise.
// Noise ranks where land tiles go; the tile set itself is fixed so that six
// colours each provide a complete set of task kinds.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds example map generation parameters.
type GenConfig struct {
	Width    int // Columns
	Height   int // Rows
	Attempts int // Validation retries before giving up
}

// DefaultGenConfig returns the standard example map size.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:    12,
		Height:   10,
		Attempts: 60,
	}
}

// ExampleColours are the colours placed on generated maps.
var ExampleColours = []string{"red", "blue", "green", "yellow", "purple", "pink"}

// ExampleShrineCount is the number of shrine tiles on generated maps.
const ExampleShrineCount = 3

type tileSpec struct {
	kind    Kind
	colours []string
}

// exampleTileSpecs returns the land tiles of a generated map in placement
// order: 6 statue sources, 6 temples, 9 monsters, 6 offerings, 6 statue
// islands and the shrines.
func exampleTileSpecs() []tileSpec {
	c := ExampleColours
	var specs []tileSpec
	for _, colour := range c {
		specs = append(specs,
			tileSpec{KindStatueSource, []string{colour}},
			tileSpec{KindTemple, []string{colour}},
		)
	}
	for _, colour := range c {
		specs = append(specs, tileSpec{KindMonster, []string{colour}})
	}
	for i := 0; i < 3; i++ {
		specs = append(specs, tileSpec{KindMonster, []string{c[i], c[i+3]}})
	}
	for _, p := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 5}} {
		specs = append(specs, tileSpec{KindOffering, []string{c[p[0]], c[p[1]]}})
	}
	for _, t := range [][3]int{{0, 1, 2}, {0, 3, 4}, {0, 4, 5}, {1, 3, 5}, {1, 2, 4}, {2, 3, 5}} {
		specs = append(specs, tileSpec{KindStatueIsland, []string{c[t[0]], c[t[1]], c[t[2]]}})
	}
	for i := 0; i < ExampleShrineCount; i++ {
		specs = append(specs, tileSpec{kind: KindShrine})
	}
	return specs
}

// Generate creates a validated example map. All randomness comes from rng.
func Generate(cfg GenConfig, rng *rand.Rand) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("map dimensions must be positive")
	}
	specs := exampleTileSpecs()
	perColour := 0
	for _, n := range DefaultRequirements() {
		perColour += n
	}
	if minTiles := perColour*3 + ExampleShrineCount + 10; cfg.Width*cfg.Height <= minTiles {
		return nil, fmt.Errorf("map %dx%d too small for required task allocation", cfg.Width, cfg.Height)
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		noise := opensimplex.NewNormalized(rng.Int63())
		g, err := generateOnce(cfg, specs, noise)
		if err == nil {
			slog.Debug("example map generated", "attempt", attempt, "grid", g.String())
			return g, nil
		}
		slog.Warn("example map attempt failed validation", "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("unable to generate a valid example map after %d attempts", attempts)
}

type layout struct {
	width, height int
	land          map[int]tileSpec
	reserved      map[int]bool
}

func (l *layout) coord(idx int) HexCoord {
	return HexCoord{Q: idx % l.width, R: idx / l.width}
}

func (l *layout) index(c HexCoord) (int, bool) {
	if c.Q < 0 || c.R < 0 || c.Q >= l.width || c.R >= l.height {
		return 0, false
	}
	return c.R*l.width + c.Q, true
}

func (l *layout) neighbours(idx int) []int {
	var out []int
	for _, c := range l.coord(idx).Neighbors() {
		if n, ok := l.index(c); ok {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

func (l *layout) isLand(idx int) bool {
	_, ok := l.land[idx]
	return ok
}

// waterConnectedWithout checks that water stays connected if idx became land.
func (l *layout) waterConnectedWithout(idx int) bool {
	total := l.width * l.height
	start := -1
	count := 0
	for i := 0; i < total; i++ {
		if i == idx || l.isLand(i) {
			continue
		}
		count++
		if start < 0 {
			start = i
		}
	}
	if start < 0 {
		return false
	}
	seen := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range l.neighbours(cur) {
			if n == idx || l.isLand(n) || seen[n] {
				continue
			}
			seen[n] = true
			stack = append(stack, n)
		}
	}
	return len(seen) == count
}

func generateOnce(cfg GenConfig, specs []tileSpec, noise opensimplex.Noise) (*Grid, error) {
	l := &layout{
		width:    cfg.Width,
		height:   cfg.Height,
		land:     make(map[int]tileSpec),
		reserved: make(map[int]bool),
	}
	total := cfg.Width * cfg.Height
	center := (cfg.Height/2)*cfg.Width + cfg.Width/2

	// Keep the hub and its ring as open water.
	l.reserved[center] = true
	for _, n := range l.neighbours(center) {
		l.reserved[n] = true
	}

	// Rank candidate land positions by elevation noise.
	type candidate struct {
		idx  int
		elev float64
	}
	var ranked []candidate
	for i := 0; i < total; i++ {
		if l.reserved[i] {
			continue
		}
		c := l.coord(i)
		// Offset rows → cartesian: odd rows shift half a column.
		x := float64(c.Q) + 0.5*float64(c.R%2)
		y := float64(c.R) * math.Sqrt(3.0) / 2.0
		ranked = append(ranked, candidate{i, octaveNoise(noise, x, y, 3, 0.35, 0.5)})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].elev > ranked[b].elev
	})

	for _, spec := range specs {
		placed := false
		for _, cand := range ranked {
			idx := cand.idx
			if l.isLand(idx) || l.reserved[idx] {
				continue
			}
			access := -1
			for _, n := range l.neighbours(idx) {
				if !l.isLand(n) {
					access = n
					break
				}
			}
			if access < 0 || !l.waterConnectedWithout(idx) {
				continue
			}
			l.land[idx] = spec
			l.reserved[access] = true
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("no room for %s tile", spec.kind)
		}
	}

	tiles := make([]*Tile, 0, total)
	for i := 0; i < total; i++ {
		t := &Tile{ID: fmt.Sprintf("tile_%03d", i), Kind: KindWater, Coord: l.coord(i)}
		if spec, ok := l.land[i]; ok {
			t.Kind = spec.kind
			t.Colours = append([]string(nil), spec.colours...)
		}
		tiles = append(tiles, t)
	}

	g, err := NewGrid(tiles, fmt.Sprintf("tile_%03d", center), GridOptions{InferNeighbours: true})
	if err != nil {
		return nil, err
	}
	if got := len(g.ColoursWithRequiredKinds()); got < len(ExampleColours) {
		return nil, fmt.Errorf("insufficient eligible colours: %d (need %d)", got, len(ExampleColours))
	}
	return g, nil
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// KindCountsAll returns a summary of tile kind distribution.
func KindCountsAll(g *Grid) map[Kind]int {
	counts := make(map[Kind]int)
	for _, t := range g.tiles {
		counts[t.Kind]++
	}
	return counts
}
