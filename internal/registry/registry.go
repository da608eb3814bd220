// Package registry looks up games by ID. Each game package registers a
// factory from init(); callers only need the ID.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Game is a fixed-tick simulation the terminal platform can drive. It must
// not depend on Bubble Tea.
type Game interface {
	// ID is the short name used on the command line and in stored replays.
	ID() string
	Title() string

	// Reset starts a fresh game sized to cfg and seeded from cfg.Seed.
	Reset(cfg core.RuntimeConfig)

	// Step runs exactly one tick with the actions pressed since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render paints into dst, which the caller has already cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// ErrUnknownGame is returned by Create for an ID nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

// Factory builds a new game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a game available under id. It panics on a duplicate id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := factories[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
}

// Create returns a new instance of the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	return f(), nil
}

// Exists reports whether id has been registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}
