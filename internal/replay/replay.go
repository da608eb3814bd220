// Package replay records tetris games as seed plus per-tick input and
// re-simulates them for playback and verification.
package replay

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// Outcomes stored with a replay.
const (
	OutcomeGameOver = "game_over"
	OutcomeQuit     = "quit"
	OutcomeRestart  = "restart"
)

// ErrMismatch is returned when a re-simulated game does not end the way
// the recording says it did.
var ErrMismatch = errors.New("replay: simulation does not match recording")

// Saver persists finished recordings.
type Saver interface {
	SaveReplay(r storage.Replay) error
}

// Recorder collects the input of one game. Only ticks with input are kept.
type Recorder struct {
	rec storage.Replay
}

// NewRecorder starts a recording with a fresh random id.
func NewRecorder(seed int64, tickRate int) *Recorder {
	return &Recorder{rec: storage.Replay{
		ID:       uuid.NewString(),
		GameID:   tetris.ID,
		Seed:     seed,
		TickRate: tickRate,
	}}
}

// ID returns the replay id.
func (r *Recorder) ID() string {
	return r.rec.ID
}

// Record stores the input applied on tick. Empty frames are dropped.
func (r *Recorder) Record(tick uint64, in core.InputFrame) {
	if in.Empty() {
		return
	}
	r.rec.Frames = append(r.rec.Frames, storage.Frame{Tick: tick, Input: in.Clone()})
}

// Frames returns the number of recorded input frames.
func (r *Recorder) Frames() int {
	return len(r.rec.Frames)
}

// Finish stamps the final state onto the recording and returns it.
func (r *Recorder) Finish(snap tetris.Snapshot, outcome string) storage.Replay {
	r.rec.Ticks = snap.Tick
	r.rec.Score = snap.Score
	r.rec.Level = snap.Level
	r.rec.Lines = snap.Lines
	r.rec.Outcome = outcome
	return r.rec
}

// Player re-simulates a recording tick by tick.
type Player struct {
	rec   storage.Replay
	game  *tetris.Game
	frame int
}

// NewPlayer prepares a recording for playback at the given screen size.
func NewPlayer(rec storage.Replay, cfg config.TetrisConfig, screenW, screenH int) *Player {
	g := tetris.NewWithConfig(cfg)
	g.Reset(core.RuntimeConfig{
		ScreenW:  screenW,
		ScreenH:  screenH,
		TickRate: rec.TickRate,
		Seed:     rec.Seed,
	})
	return &Player{rec: rec, game: g}
}

// Step simulates the next tick with its recorded input. It does nothing
// once the recording is exhausted.
func (p *Player) Step() {
	if p.Done() {
		return
	}
	before := p.game.Tick()

	in := core.NewInputFrame()
	matched := p.frame < len(p.rec.Frames) && p.rec.Frames[p.frame].Tick == before+1
	if matched {
		in = p.rec.Frames[p.frame].Input
	}
	p.game.Step(in)

	// A frozen tick (window too small) keeps the frame for the next call.
	if matched && p.game.Tick() > before {
		p.frame++
	}
}

// Done reports whether every recorded tick has been simulated.
func (p *Player) Done() bool {
	return p.game.Tick() >= p.rec.Ticks
}

// Game returns the simulated game.
func (p *Player) Game() *tetris.Game {
	return p.game
}

// Replay returns the recording being played.
func (p *Player) Replay() storage.Replay {
	return p.rec
}

// Result is the end state reached by a re-simulation.
type Result struct {
	Snapshot tetris.Snapshot
	GameOver bool
}

// Verify re-simulates a recording headlessly and checks it reaches the
// recorded score, level, lines and outcome.
func Verify(rec storage.Replay) (Result, error) {
	if rec.TickRate <= 0 {
		return Result{}, fmt.Errorf("replay: invalid tick rate %d", rec.TickRate)
	}

	def := core.DefaultConfig()
	p := NewPlayer(rec, config.DefaultTetrisConfig(), def.ScreenW, def.ScreenH)
	for !p.Done() {
		p.Step()
	}

	snap := p.game.Snapshot()
	res := Result{Snapshot: snap, GameOver: p.game.State().GameOver}

	switch {
	case snap.Score != rec.Score:
		return res, fmt.Errorf("%w: score %d, recorded %d", ErrMismatch, snap.Score, rec.Score)
	case snap.Level != rec.Level:
		return res, fmt.Errorf("%w: level %d, recorded %d", ErrMismatch, snap.Level, rec.Level)
	case snap.Lines != rec.Lines:
		return res, fmt.Errorf("%w: lines %d, recorded %d", ErrMismatch, snap.Lines, rec.Lines)
	case res.GameOver != (rec.Outcome == OutcomeGameOver):
		return res, fmt.Errorf("%w: game over %v, recorded outcome %q", ErrMismatch, res.GameOver, rec.Outcome)
	}
	return res, nil
}
