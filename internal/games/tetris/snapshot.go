package tetris

// Snapshot captures the game state for determinism testing and replay
// verification.
type Snapshot struct {
	Tick    uint64
	State   string // "playing", "paused", "game_over" or "paused_small_window"
	Score   int
	Level   int
	Lines   int
	Combo   int
	Board   Board
	Active  PieceType
	Pos     Position
	Hold    PieceType
	Next    PieceType
	CanHold bool
	Height  int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	e := g.engine
	state := e.State().String()
	if g.tooSmall {
		state = "paused_small_window"
	}
	p := e.Progress()
	board := e.Board()
	active, _ := e.Active()

	return Snapshot{
		Tick:    g.tick,
		State:   state,
		Score:   p.Score,
		Level:   p.Level,
		Lines:   p.Lines,
		Combo:   p.Combo,
		Board:   board,
		Active:  active.Type,
		Pos:     active.Pos,
		Hold:    e.HoldSlot(),
		Next:    e.Next(),
		CanHold: e.CanHold(),
		Height:  board.Height(),
	}
}
