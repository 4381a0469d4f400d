// Package tasks models pickup/delivery tasks, the agent's cargo, and the
// rules that decide when a task may execute.
package tasks

import (
	"errors"
	"fmt"

	"github.com/talgya/oracle-route/internal/world"
)

// ErrConfig marks fatal configuration problems detected before solving.
var ErrConfig = errors.New("configuration error")

// Status of a task.
type Status uint8

const (
	StatusPending Status = iota
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Task is one unit of work bound to a land tile and a colour.
type Task struct {
	ID           string
	TileID       string
	Kind         world.Kind
	Colour       string
	Dependencies []string // Task ids that must complete first
	MaxUses      int
	Uses         int
	Status       Status
}

// TaskID formats the canonical id of a task.
func TaskID(tileID string, kind world.Kind, colour string) string {
	return fmt.Sprintf("%s:%s:%s", tileID, kind, colour)
}

// Remaining returns how many more times the task can execute.
func (t *Task) Remaining() int {
	return t.MaxUses - t.Uses
}

// DependenciesMet reports whether every dependency is in completed.
func (t *Task) DependenciesMet(completed map[string]bool) bool {
	for _, dep := range t.Dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

func (t *Task) recordExecution() {
	t.Uses++
	if t.Remaining() <= 0 {
		t.Status = StatusCompleted
	}
}

func (t *Task) reset() {
	t.Uses = 0
	t.Status = StatusPending
}

// Cargo effect of a kind.
type Effect uint8

const (
	EffectNone    Effect = iota // Adjacency only
	EffectPickup                // Adds one item, needs a free slot
	EffectDeliver               // Removes one matching item
)

// KindEffect returns the cargo effect and item kind for a task kind.
func KindEffect(k world.Kind) (Effect, ItemKind, error) {
	switch k {
	case world.KindMonster:
		return EffectNone, 0, nil
	case world.KindOffering:
		return EffectPickup, ItemOffering, nil
	case world.KindStatueSource:
		return EffectPickup, ItemStatue, nil
	case world.KindStatueIsland:
		return EffectDeliver, ItemStatue, nil
	case world.KindTemple:
		return EffectDeliver, ItemOffering, nil
	case world.KindWater, world.KindShrine:
		return EffectNone, 0, fmt.Errorf("%s tiles carry no tasks", k)
	default:
		return EffectNone, 0, fmt.Errorf("unknown kind %s", k)
	}
}

// CargoKey names the cargo a pickup produces or a delivery requires,
// e.g. "statue:red". ok is false for kinds without cargo.
func CargoKey(t *Task) (key string, pickup bool, ok bool) {
	effect, item, err := KindEffect(t.Kind)
	if err != nil || effect == EffectNone {
		return "", false, false
	}
	return item.String() + ":" + t.Colour, effect == EffectPickup, true
}
