package replay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// playScripted drives a game with a fixed input pattern and records it.
func playScripted(t *testing.T, seed int64, ticks int) (storage.Replay, *tetris.Game) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = seed

	g := tetris.NewWithConfig(config.DefaultTetrisConfig())
	g.Reset(cfg)
	rec := NewRecorder(seed, cfg.TickRate)

	pattern := []core.Action{core.ActionLeft, core.ActionRotate, core.ActionRight, core.ActionRight, core.ActionHardDrop, core.ActionHold, core.ActionDown}
	for i := range ticks {
		var in core.InputFrame
		if i%5 == 0 {
			in.Set(pattern[(i/5)%len(pattern)])
		}
		g.Step(in)
		rec.Record(g.Tick(), in)
		if g.State().GameOver {
			return rec.Finish(g.Snapshot(), OutcomeGameOver), g
		}
	}
	return rec.Finish(g.Snapshot(), OutcomeQuit), g
}

func TestRecorderDropsEmptyFrames(t *testing.T) {
	rec := NewRecorder(1, 60)
	rec.Record(1, core.InputFrame{})
	in := core.InputFrame{}
	in.Set(core.ActionLeft)
	rec.Record(2, in)
	in.Clear()
	in.Set(core.ActionRight)

	assert.Equal(t, 1, rec.Frames())
	r := rec.Finish(tetris.Snapshot{Tick: 2}, OutcomeQuit)
	require.Len(t, r.Frames, 1)
	assert.Equal(t, []core.Action{core.ActionLeft}, r.Frames[0].Input.Actions, "recorded frames must not alias caller buffers")
	assert.Equal(t, tetris.ID, r.GameID)
	assert.NotEmpty(t, r.ID)
}

func TestRecorderUniqueIDs(t *testing.T) {
	assert.NotEqual(t, NewRecorder(1, 60).ID(), NewRecorder(1, 60).ID())
}

func TestVerifyScriptedGame(t *testing.T) {
	rec, g := playScripted(t, 99, 5000)

	res, err := Verify(rec)
	require.NoError(t, err)
	assert.Equal(t, g.Snapshot(), res.Snapshot)
	assert.Equal(t, rec.Outcome == OutcomeGameOver, res.GameOver)
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, _ := playScripted(t, 7, 2000)

	tampered := rec
	tampered.Score += 100
	_, err := Verify(tampered)
	assert.ErrorIs(t, err, ErrMismatch)

	gameOver := rec
	gameOver.Outcome = OutcomeGameOver
	if rec.Outcome != OutcomeGameOver {
		_, err = Verify(gameOver)
		assert.ErrorIs(t, err, ErrMismatch)
	}

	_, err = Verify(storage.Replay{TickRate: 0})
	assert.Error(t, err)
}

func TestVerifyThroughStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	require.NoError(t, err)
	defer store.Close()

	rec, _ := playScripted(t, 2024, 3000)
	var saver Saver = store
	require.NoError(t, saver.SaveReplay(rec))

	loaded, err := store.GetReplay(rec.ID)
	require.NoError(t, err)
	_, err = Verify(loaded)
	assert.NoError(t, err)
}

func TestPlayerStopsAtEnd(t *testing.T) {
	rec, _ := playScripted(t, 5, 300)
	p := NewPlayer(rec, config.DefaultTetrisConfig(), 80, 24)

	steps := 0
	for !p.Done() {
		p.Step()
		steps++
	}
	assert.Equal(t, int(rec.Ticks), steps)

	p.Step()
	assert.Equal(t, rec.Ticks, p.Game().Tick())
}

func TestPlayerHoldsFramesWhileWindowTooSmall(t *testing.T) {
	rec, played := playScripted(t, 42, 600)
	p := NewPlayer(rec, config.DefaultTetrisConfig(), 80, 24)

	for range 50 {
		p.Step()
	}
	p.Game().Resize(10, 5)
	for range 20 {
		p.Step()
	}
	assert.Equal(t, uint64(50), p.Game().Tick())

	p.Game().Resize(80, 24)
	for !p.Done() {
		p.Step()
	}

	want, got := played.Snapshot(), p.Game().Snapshot()
	assert.Equal(t, want.Board, got.Board)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Lines, got.Lines)
	assert.Equal(t, want.Tick, got.Tick)
}
