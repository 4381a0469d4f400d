package engine

import (
	"fmt"

	"github.com/talgya/oracle-route/internal/tasks"
)

// Clock counts moves and fires layered callbacks: one per move and one each
// time a turn's move budget is used up.
type Clock struct {
	Moves int

	// Callbacks, populated during setup.
	OnMove func(step Step)           // Every move, including step 0
	OnTurn func(turn int, step Step) // Every MovesPerTurn moves
}

// Turn returns the turn the clock is in.
func (c *Clock) Turn() int {
	return tasks.TurnsFor(c.Moves)
}

// advance records a finished step and fires the callbacks.
func (c *Clock) advance(step Step) {
	c.Moves = step.Moves
	if c.OnMove != nil {
		c.OnMove(step)
	}
	if step.Moves > 0 && step.Moves%tasks.MovesPerTurn == 0 && c.OnTurn != nil {
		c.OnTurn(c.Turn(), step)
	}
}

// TurnTime returns a human-readable position in the turn schedule.
func TurnTime(moves int) string {
	if moves == 0 {
		return "Turn 0, start"
	}
	turn := tasks.TurnsFor(moves)
	within := moves - (turn-1)*tasks.MovesPerTurn
	return fmt.Sprintf("Turn %d, move %d/%d", turn, within, tasks.MovesPerTurn)
}
