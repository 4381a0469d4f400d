package tasks

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sort"

	"github.com/talgya/oracle-route/internal/world"
)

// ColourCount is the number of colours selected for a run.
const ColourCount = 3

// Manager owns the task set of one run.
type Manager struct {
	grid         *world.Grid
	requirements world.Requirements
	colours      []string
	tasks        map[string]*Task
	ids          []string // Sorted
	byTile       map[string][]*Task
}

// NewManager creates a manager with no tasks. A nil requirements map uses
// the defaults.
func NewManager(g *world.Grid, req world.Requirements) *Manager {
	if req == nil {
		req = world.DefaultRequirements()
	}
	return &Manager{
		grid:         g,
		requirements: req,
		tasks:        make(map[string]*Task),
		byTile:       make(map[string][]*Task),
	}
}

// Grid returns the grid the tasks live on.
func (m *Manager) Grid() *world.Grid {
	return m.grid
}

// AssignColours sets the three colours of the run.
func (m *Manager) AssignColours(colours []string) error {
	if len(colours) != ColourCount {
		return fmt.Errorf("%w: exactly %d colours must be assigned, got %d", ErrConfig, ColourCount, len(colours))
	}
	seen := make(map[string]bool)
	for _, c := range colours {
		if seen[c] {
			return fmt.Errorf("%w: colour %q assigned twice", ErrConfig, c)
		}
		seen[c] = true

		counts := m.grid.KindCounts(c)
		for _, k := range world.TaskKinds {
			if need := m.requirements[k]; counts[k] < need {
				return fmt.Errorf("%w: colour %q has %d %s tiles; %d required", ErrConfig, c, counts[k], k, need)
			}
		}
	}
	m.colours = slices.Clone(colours)
	return nil
}

// Colours returns the assigned colours.
func (m *Manager) Colours() []string {
	return slices.Clone(m.colours)
}

// SelectTasks recreates the task set: for each colour and required kind the
// lowest-id tile of that kind and colour. Statue islands depend on the
// colour's statue source, temples on its offering.
func (m *Manager) SelectTasks() error {
	if len(m.colours) == 0 {
		return fmt.Errorf("%w: colours must be assigned before selecting tasks", ErrConfig)
	}
	m.tasks = make(map[string]*Task)
	m.byTile = make(map[string][]*Task)
	m.ids = nil

	for _, colour := range m.colours {
		picked := make(map[world.Kind]*Task)
		for _, k := range world.TaskKinds {
			if m.requirements[k] <= 0 {
				continue
			}
			tile := m.firstTile(k, colour)
			if tile == nil {
				return fmt.Errorf("%w: colour %q is missing a %s tile", ErrConfig, colour, k)
			}
			t := &Task{
				ID:      TaskID(tile.ID, k, colour),
				TileID:  tile.ID,
				Kind:    k,
				Colour:  colour,
				MaxUses: 1,
			}
			switch k {
			case world.KindStatueIsland:
				if src := picked[world.KindStatueSource]; src != nil {
					t.Dependencies = []string{src.ID}
				}
			case world.KindTemple:
				if off := picked[world.KindOffering]; off != nil {
					t.Dependencies = []string{off.ID}
				}
			}
			picked[k] = t
			m.add(t)
		}
	}
	sort.Strings(m.ids)

	slog.Debug("tasks selected", "colours", m.colours, "tasks", len(m.ids))
	return nil
}

func (m *Manager) firstTile(k world.Kind, colour string) *world.Tile {
	for _, t := range m.grid.TilesByKind(k) {
		if t.HasColour(colour) {
			return t
		}
	}
	return nil
}

// Add registers a task directly. Used for hand-built scenarios.
func (m *Manager) Add(t *Task) {
	if t.MaxUses == 0 {
		t.MaxUses = 1
	}
	m.add(t)
	sort.Strings(m.ids)
}

func (m *Manager) add(t *Task) {
	m.tasks[t.ID] = t
	m.ids = append(m.ids, t.ID)
	m.byTile[t.TileID] = append(m.byTile[t.TileID], t)
}

// Tasks returns all tasks in id order.
func (m *Manager) Tasks() []*Task {
	out := make([]*Task, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.tasks[id])
	}
	return out
}

// Task returns the task with id, or nil.
func (m *Manager) Task(id string) *Task {
	return m.tasks[id]
}

// ForTile returns the tasks hosted on a tile.
func (m *Manager) ForTile(tileID string) []*Task {
	return slices.Clone(m.byTile[tileID])
}

// TaskTiles returns the distinct task tile ids, sorted.
func (m *Manager) TaskTiles() []string {
	out := make([]string, 0, len(m.byTile))
	for id := range m.byTile {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CanExecute checks every precondition of a task without mutating state.
func (m *Manager) CanExecute(t *Task, state *PlayerState) bool {
	return m.grid.Adjacent(state.Position, t.TileID) && m.Ready(t, state)
}

// Ready is CanExecute without the adjacency check: the task would fire if
// the agent stood next to its tile now.
func (m *Manager) Ready(t *Task, state *PlayerState) bool {
	if t.Status == StatusCompleted || t.Remaining() <= 0 {
		return false
	}
	if !t.DependenciesMet(state.Completed) {
		return false
	}

	effect, item, err := KindEffect(t.Kind)
	if err != nil {
		return false
	}
	switch effect {
	case EffectPickup:
		if state.FreeSlots() <= 0 {
			return false
		}
		if tile := m.grid.Tile(t.TileID); tile == nil || !tile.HasColour(t.Colour) {
			return false
		}
	case EffectDeliver:
		if !state.HasItem(Item{Kind: item, Colour: t.Colour}) {
			return false
		}
	}
	return true
}

// Execute runs a task against the agent. A failed precondition returns
// false and leaves everything unchanged.
func (m *Manager) Execute(t *Task, state *PlayerState) bool {
	if !m.CanExecute(t, state) {
		return false
	}
	effect, item, _ := KindEffect(t.Kind)
	held := Item{Kind: item, Colour: t.Colour}
	switch effect {
	case EffectPickup:
		state.AddCargo(held)
	case EffectDeliver:
		state.RemoveCargo(held)
	}

	t.recordExecution()
	if t.Status == StatusCompleted {
		state.Completed[t.ID] = true
		state.CompletedOrder = append(state.CompletedOrder, t.ID)
	}
	return true
}

// ExecuteAdjacent fires every executable task on the land tiles around the
// agent, scanning neighbours in id order and repeating until nothing more
// fires. It returns the tasks executed, in order.
func (m *Manager) ExecuteAdjacent(state *PlayerState) []*Task {
	var fired []*Task
	for {
		progress := false
		for _, n := range m.grid.Neighbours(state.Position) {
			if n.IsWater() {
				continue
			}
			for _, t := range m.byTile[n.ID] {
				if m.Execute(t, state) {
					fired = append(fired, t)
					progress = true
				}
			}
		}
		if !progress {
			return fired
		}
	}
}

// Reset returns every task to pending.
func (m *Manager) Reset() {
	for _, t := range m.tasks {
		t.reset()
	}
}

// AllCompleted reports whether every task is completed.
func (m *Manager) AllCompleted() bool {
	for _, t := range m.tasks {
		if t.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// Pending returns the ids of tasks not yet completed.
func (m *Manager) Pending() []string {
	var out []string
	for _, id := range m.ids {
		if m.tasks[id].Status != StatusCompleted {
			out = append(out, id)
		}
	}
	return out
}

// ShrineCandidates returns shrine tiles that do not host a task.
func (m *Manager) ShrineCandidates() []string {
	var out []string
	for _, t := range m.grid.TilesByKind(world.KindShrine) {
		if len(m.byTile[t.ID]) == 0 {
			out = append(out, t.ID)
		}
	}
	return out
}

// PickColours chooses three colours from valid: a random sample when rng is
// non-nil, otherwise the first three in sorted order.
func PickColours(valid []string, rng *rand.Rand) ([]string, error) {
	if len(valid) < ColourCount {
		return nil, fmt.Errorf("%w: only %d colours provide every task kind (need %d)", ErrConfig, len(valid), ColourCount)
	}
	pool := slices.Clone(valid)
	sort.Strings(pool)
	if rng != nil {
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}
	return pool[:ColourCount], nil
}
