package planner

import (
	"errors"

	"github.com/talgya/oracle-route/internal/tasks"
)

var (
	// ErrConfig marks configuration problems found before solving.
	ErrConfig = tasks.ErrConfig

	// ErrNoRoute marks a mandatory path (repair bridge, detour or return
	// leg) that does not exist on the grid.
	ErrNoRoute = errors.New("no route")
)
