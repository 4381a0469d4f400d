package planner

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/talgya/oracle-route/internal/world"
)

// Clustering defaults.
const (
	DefaultClusterDistanceThreshold = 6 // Max hex distance to the nearest member
	DefaultClusterSizeCap           = 8 // Max tiles per cluster
)

// unknownDistance stands in for pairs involving a tile missing from the grid.
const unknownDistance = 999

// Clusterer partitions task tiles into spatially coherent groups using hex
// distance on coordinates. It never consults water paths.
type Clusterer struct {
	grid      *world.Grid
	threshold int
	capacity  int
	cache     map[[2]string]int
}

// NewClusterer creates a clusterer. Non-positive limits use the defaults.
func NewClusterer(g *world.Grid, threshold, capacity int) *Clusterer {
	if threshold <= 0 {
		threshold = DefaultClusterDistanceThreshold
	}
	if capacity <= 0 {
		capacity = DefaultClusterSizeCap
	}
	return &Clusterer{
		grid:      g,
		threshold: threshold,
		capacity:  capacity,
		cache:     make(map[[2]string]int),
	}
}

// Distance returns the memoized hex distance between two tiles.
func (c *Clusterer) Distance(a, b string) int {
	if a == b {
		return 0
	}
	if b < a {
		a, b = b, a
	}
	key := [2]string{a, b}
	if d, ok := c.cache[key]; ok {
		return d
	}
	d := unknownDistance
	ta, tb := c.grid.Tile(a), c.grid.Tile(b)
	if ta != nil && tb != nil {
		d = world.ManhattanDistance(ta.Coord, tb.Coord)
	}
	c.cache[key] = d
	return d
}

// SeedCount returns how many seed clusters n tiles start with.
func SeedCount(n int) int {
	if n == 0 {
		return 0
	}
	return min(n, max(2, (n+3)/4))
}

// Cluster groups tile ids. Seed clusters come first in seed order, followed
// by singleton clusters for tiles no seed cluster could take.
func (c *Clusterer) Cluster(tileIDs []string) [][]string {
	ids := slices.Clone(tileIDs)
	sort.Strings(ids)
	ids = slices.Compact(ids)
	n := len(ids)
	if n == 0 {
		return nil
	}

	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := c.Distance(ids[i], ids[j])
			dist[i][j], dist[j][i] = d, d
		}
	}

	seeds := selectSeeds(dist, SeedCount(n))
	isSeed := make([]bool, n)
	members := make([][]int, len(seeds))
	for k, s := range seeds {
		isSeed[s] = true
		members[k] = []int{s}
	}

	var singletons [][]int
	for i := 0; i < n; i++ {
		if isSeed[i] {
			continue
		}
		best, bestDist := -1, 0
		for k, s := range seeds {
			if len(members[k]) >= c.capacity {
				continue
			}
			d := minDistance(dist, i, members[k])
			if d > c.threshold {
				continue
			}
			if best < 0 || d < bestDist || (d == bestDist && s < seeds[best]) {
				best, bestDist = k, d
			}
		}
		if best < 0 {
			singletons = append(singletons, []int{i})
			continue
		}
		members[best] = append(members[best], i)
	}

	out := make([][]string, 0, len(members)+len(singletons))
	for _, group := range append(members, singletons...) {
		tiles := make([]string, len(group))
		for j, idx := range group {
			tiles[j] = ids[idx]
		}
		out = append(out, tiles)
	}
	slog.Debug("tiles clustered", "tiles", n, "seeds", len(seeds), "singletons", len(singletons))
	return out
}

// selectSeeds picks index 0 and then, repeatedly, the index farthest from
// every chosen seed. Ties go to the lowest index.
func selectSeeds(dist [][]int, want int) []int {
	if want == 0 {
		return nil
	}
	seeds := []int{0}
	chosen := map[int]bool{0: true}
	for len(seeds) < want {
		best, bestDist := -1, -1
		for cand := range dist {
			if chosen[cand] {
				continue
			}
			if d := minDistance(dist, cand, seeds); d > bestDist {
				best, bestDist = cand, d
			}
		}
		if best < 0 {
			break
		}
		seeds = append(seeds, best)
		chosen[best] = true
	}
	return seeds
}

func minDistance(dist [][]int, i int, group []int) int {
	m := -1
	for _, j := range group {
		if m < 0 || dist[i][j] < m {
			m = dist[i][j]
		}
	}
	return m
}
