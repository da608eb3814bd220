package tetris

import (
	"math/rand"
	"time"
)

// State gates which operations the engine accepts.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Randomizer draws the next piece type. Each call must return one of the
// seven valid types.
type Randomizer func() PieceType

// UniformRandomizer draws independently and uniformly from the seven pieces.
func UniformRandomizer(rng *rand.Rand) Randomizer {
	return func() PieceType {
		return Pieces[rng.Intn(len(Pieces))]
	}
}

// SequenceRandomizer cycles through a fixed list of pieces. Useful for
// scripted games and tests. It panics if seq is empty.
func SequenceRandomizer(seq ...PieceType) Randomizer {
	if len(seq) == 0 {
		panic("tetris: SequenceRandomizer needs at least one piece")
	}
	i := 0
	return func() PieceType {
		p := seq[i%len(seq)]
		i++
		return p
	}
}

// ActivePiece is the piece under player control.
type ActivePiece struct {
	Type   PieceType
	Matrix Matrix
	Pos    Position
}

// Engine owns one game's board, active piece, hold/next slots, progress and
// effects. It is not safe for concurrent use; callers serialize ticks and
// input.
type Engine struct {
	board     Board
	active    ActivePiece
	hasActive bool
	hold      PieceType
	canHold   bool
	next      PieceType
	progress  Progress
	state     State
	dropTimer time.Duration
	effects   []Effect
	cues      []Cue
	draw      Randomizer
}

// NewEngine creates an engine that draws pieces from r. It starts in the
// game-over state; call NewGame to begin.
func NewEngine(r Randomizer) *Engine {
	return &Engine{
		draw:     r,
		state:    StateGameOver,
		progress: newProgress(),
	}
}

// NewGame clears all state and spawns the first piece. It is accepted in
// any state.
func (e *Engine) NewGame() {
	e.board = Board{}
	e.hasActive = false
	e.hold = PieceNone
	e.progress = newProgress()
	e.state = StatePlaying
	e.dropTimer = 0
	e.effects = nil
	e.cues = nil

	e.next = e.draw()
	e.advance()
}

// Tick advances game time by elapsed. Gravity moves the piece down once
// when the accumulated time exceeds the drop interval. Time does not
// accumulate while paused or after game over.
func (e *Engine) Tick(elapsed time.Duration) {
	if e.state != StatePlaying {
		return
	}
	e.effects = ageEffects(e.effects, elapsed)

	e.dropTimer += elapsed
	if e.dropTimer > e.progress.DropInterval {
		e.gravityDrop()
	}
}

// MovePiece shifts the piece one column left (dir < 0) or right (dir > 0).
// Returns false when the move is blocked or not allowed.
func (e *Engine) MovePiece(dir int) bool {
	if !e.playing() || dir == 0 {
		return false
	}
	step := 1
	if dir < 0 {
		step = -1
	}
	pos := e.active.Pos
	pos.Col += step
	if e.board.Collides(e.active.Matrix, pos) {
		return false
	}
	e.active.Pos = pos
	e.cue(CueMove)
	return true
}

// SoftDrop moves the piece down one row. A blocked soft drop never locks
// the piece; only gravity and hard drop lock.
func (e *Engine) SoftDrop() bool {
	if !e.playing() {
		return false
	}
	pos := e.active.Pos
	pos.Row++
	if e.board.Collides(e.active.Matrix, pos) {
		return false
	}
	e.active.Pos = pos
	e.dropTimer = 0
	e.cue(CueSoftDrop)
	return true
}

// gravityDrop is the timed fall: move down one row, or lock if blocked.
func (e *Engine) gravityDrop() {
	pos := e.active.Pos
	pos.Row++
	if e.board.Collides(e.active.Matrix, pos) {
		e.lock()
	} else {
		e.active.Pos = pos
	}
	e.dropTimer = 0
}

// Rotate turns the piece clockwise in place. There is no wall kick: a
// rotation that would collide is discarded.
func (e *Engine) Rotate() bool {
	if !e.playing() {
		return false
	}
	rotated := e.active.Matrix.RotateClockwise()
	if e.board.Collides(rotated, e.active.Pos) {
		return false
	}
	e.active.Matrix = rotated
	e.cue(CueRotate)
	return true
}

// HardDrop drops the piece as far as it goes and locks it.
func (e *Engine) HardDrop() {
	if !e.playing() {
		return
	}
	e.cue(CueHardDrop)
	e.active.Pos = e.board.Project(e.active.Matrix, e.active.Pos)
	e.lock()
	e.dropTimer = 0
}

// Hold sets the active piece aside. With an empty slot the next piece
// spawns; otherwise the held piece swaps in. Hold is allowed once per
// spawned piece. Returns false when not allowed.
func (e *Engine) Hold() bool {
	if !e.playing() || !e.canHold {
		return false
	}
	e.cue(CueHold)
	current := e.active.Type
	if e.hold == PieceNone {
		e.hold = current
		e.advance()
	} else {
		held := e.hold
		e.hold = current
		e.spawn(held)
	}
	e.canHold = false
	return true
}

// Pause freezes the game, including the gravity timer.
func (e *Engine) Pause() {
	if e.state == StatePlaying {
		e.state = StatePaused
	}
}

// Resume continues a paused game from exactly where the timer stopped.
func (e *Engine) Resume() {
	if e.state == StatePaused {
		e.state = StatePlaying
	}
}

// TogglePause switches between playing and paused.
func (e *Engine) TogglePause() {
	switch e.state {
	case StatePlaying:
		e.Pause()
	case StatePaused:
		e.Resume()
	}
}

// lock merges the piece, clears rows, scores, fires effects and spawns the
// next piece. A cell above the top ends the game before any of that.
func (e *Engine) lock() {
	if e.board.Merge(e.active.Matrix, e.active.Pos, e.active.Type) {
		e.gameOver()
		return
	}

	sweep := e.board.Sweep()
	switch {
	case sweep.Cleared == 4:
		e.cue(CueTetris)
	case sweep.Cleared > 0:
		e.cue(CueLineClear)
	}
	e.progress.registerLock(sweep.Cleared)

	e.effects = append(e.effects, lineFlashes(sweep.Rows)...)
	e.effects = append(e.effects, Trigger(sweep.Cleared, e.progress.Combo)...)

	e.advance()
}

// advance re-enables hold, spawns the queued piece and queues a new one.
func (e *Engine) advance() {
	e.canHold = true
	e.spawn(e.next)
	if e.state == StateGameOver {
		return
	}
	e.next = e.draw()
}

// spawn places a fresh piece of type p at the top center. Leading empty
// matrix rows start above the board so the first filled row is at row 0.
// Spawning onto occupied cells ends the game.
func (e *Engine) spawn(p PieceType) {
	m := ShapeOf(p).Matrix
	e.active = ActivePiece{Type: p, Matrix: m, Pos: SpawnPosition(m)}
	e.hasActive = true
	if e.board.Collides(m, e.active.Pos) {
		e.gameOver()
	}
}

// SpawnPosition returns where a matrix enters the board.
func SpawnPosition(m Matrix) Position {
	pos := Position{Col: Cols/2 - m.Size()/2}
	for r := 0; r < m.Size() && m.RowEmpty(r); r++ {
		pos.Row--
	}
	return pos
}

func (e *Engine) gameOver() {
	e.state = StateGameOver
	e.cue(CueGameOver)
}

func (e *Engine) playing() bool {
	return e.state == StatePlaying && e.hasActive
}

func (e *Engine) cue(c Cue) {
	if len(e.cues) >= maxQueuedCues {
		e.cues = e.cues[1:]
	}
	e.cues = append(e.cues, c)
}

// Board returns a copy of the locked cells.
func (e *Engine) Board() Board {
	return e.board
}

// Active returns a copy of the active piece, if one has been spawned.
func (e *Engine) Active() (ActivePiece, bool) {
	a := e.active
	a.Matrix = a.Matrix.Clone()
	return a, e.hasActive
}

// Ghost returns where the active piece would land.
func (e *Engine) Ghost() (Position, bool) {
	if !e.hasActive || e.board.Collides(e.active.Matrix, e.active.Pos) {
		return Position{}, false
	}
	return e.board.Project(e.active.Matrix, e.active.Pos), true
}

// HoldSlot returns the held piece type, or PieceNone.
func (e *Engine) HoldSlot() PieceType {
	return e.hold
}

// CanHold reports whether Hold is currently allowed for this piece.
func (e *Engine) CanHold() bool {
	return e.canHold
}

// Next returns the queued piece type.
func (e *Engine) Next() PieceType {
	return e.next
}

// Progress returns score, level, lines, combo and the drop interval.
func (e *Engine) Progress() Progress {
	return e.progress
}

// State returns the current game state.
func (e *Engine) State() State {
	return e.state
}

// DropTimer returns the gravity time accumulated since the last drop.
func (e *Engine) DropTimer() time.Duration {
	return e.dropTimer
}

// Effects returns a copy of the running cosmetic effects.
func (e *Engine) Effects() []Effect {
	out := make([]Effect, len(e.effects))
	copy(out, e.effects)
	return out
}

// DrainCues returns the queued feedback cues and empties the queue.
func (e *Engine) DrainCues() []Cue {
	out := e.cues
	e.cues = nil
	return out
}
