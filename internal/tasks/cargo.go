package tasks

import (
	"fmt"
	"slices"
)

// CargoCapacity is the number of cargo slots the agent carries.
const CargoCapacity = 2

// MovesPerTurn is the movement budget of one turn.
const MovesPerTurn = 3

// ItemKind is something carried in a cargo slot.
type ItemKind uint8

const (
	ItemStatue ItemKind = iota
	ItemOffering
)

func (k ItemKind) String() string {
	switch k {
	case ItemStatue:
		return "statue"
	case ItemOffering:
		return "offering"
	default:
		return fmt.Sprintf("item(%d)", uint8(k))
	}
}

// Item occupies one cargo slot.
type Item struct {
	Kind   ItemKind `json:"kind"`
	Colour string   `json:"colour"`
}

func (i Item) String() string {
	return i.Kind.String() + ":" + i.Colour
}

// PlayerState is the travelling agent during a simulation.
type PlayerState struct {
	Position       string
	Moves          int
	Cargo          []Item
	Completed      map[string]bool
	CompletedOrder []string
	Shrines        []string
}

// NewPlayerState places a fresh agent on start.
func NewPlayerState(start string) *PlayerState {
	return &PlayerState{
		Position:  start,
		Completed: make(map[string]bool),
	}
}

// Turns is the number of turns consumed so far: ⌈moves/3⌉.
func (p *PlayerState) Turns() int {
	return TurnsFor(p.Moves)
}

// TurnsFor converts a move count into turns.
func TurnsFor(moves int) int {
	return (moves + MovesPerTurn - 1) / MovesPerTurn
}

// Move advances the agent one tile.
func (p *PlayerState) Move(to string) {
	p.Position = to
	p.Moves++
}

// FreeSlots returns the number of empty cargo slots.
func (p *PlayerState) FreeSlots() int {
	return CargoCapacity - len(p.Cargo)
}

// AddCargo stores an item; false when cargo is full.
func (p *PlayerState) AddCargo(item Item) bool {
	if p.FreeSlots() <= 0 {
		return false
	}
	p.Cargo = append(p.Cargo, item)
	return true
}

// RemoveCargo drops the first matching item; false when none is held.
func (p *PlayerState) RemoveCargo(item Item) bool {
	idx := slices.Index(p.Cargo, item)
	if idx < 0 {
		return false
	}
	p.Cargo = slices.Delete(p.Cargo, idx, idx+1)
	return true
}

// HasItem reports whether a matching item is held.
func (p *PlayerState) HasItem(item Item) bool {
	return slices.Contains(p.Cargo, item)
}

// HoldsKind reports whether any item of kind is held.
func (p *PlayerState) HoldsKind(kind ItemKind) bool {
	return slices.ContainsFunc(p.Cargo, func(i Item) bool { return i.Kind == kind })
}

// BuildShrine records a shrine as built.
func (p *PlayerState) BuildShrine(id string) {
	p.Shrines = append(p.Shrines, id)
}

// HasBuilt reports whether the shrine was built.
func (p *PlayerState) HasBuilt(id string) bool {
	return slices.Contains(p.Shrines, id)
}

// CargoSnapshot returns the held items as strings.
func (p *PlayerState) CargoSnapshot() []string {
	out := make([]string, len(p.Cargo))
	for i, item := range p.Cargo {
		out[i] = item.String()
	}
	return out
}
