package tetris

import (
	"math/rand"
	"slices"
	"testing"
	"time"
)

func newTestEngine(seq ...PieceType) *Engine {
	e := NewEngine(SequenceRandomizer(seq...))
	e.NewGame()
	return e
}

func mustActive(t *testing.T, e *Engine) ActivePiece {
	t.Helper()
	a, ok := e.Active()
	if !ok {
		t.Fatal("no active piece")
	}
	return a
}

func TestNewEngineStartsOver(t *testing.T) {
	e := NewEngine(SequenceRandomizer(PieceT))
	if e.State() != StateGameOver {
		t.Errorf("State = %s, want game_over", e.State())
	}
	if _, ok := e.Active(); ok {
		t.Error("no piece before NewGame")
	}
	if e.MovePiece(1) || e.Rotate() || e.Hold() {
		t.Error("operations must be rejected before NewGame")
	}
}

func TestNewGame(t *testing.T) {
	e := newTestEngine(PieceT, PieceO)

	if e.State() != StatePlaying {
		t.Fatalf("State = %s", e.State())
	}
	a := mustActive(t, e)
	if a.Type != PieceT || e.Next() != PieceO {
		t.Errorf("active=%s next=%s, want T/O", a.Type, e.Next())
	}
	if e.HoldSlot() != PieceNone || !e.CanHold() {
		t.Error("hold should be empty and allowed")
	}
	p := e.Progress()
	if p.Score != 0 || p.Level != 1 || p.Combo != 0 || p.DropInterval != time.Second {
		t.Errorf("progress = %+v", p)
	}
}

func TestSpawnPosition(t *testing.T) {
	tests := []struct {
		piece PieceType
		want  Position
	}{
		{PieceI, Position{Col: 3, Row: -1}},
		{PieceO, Position{Col: 4, Row: 0}},
		{PieceT, Position{Col: 4, Row: 0}},
		{PieceJ, Position{Col: 4, Row: 0}},
		{PieceZ, Position{Col: 4, Row: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.piece.String(), func(t *testing.T) {
			e := newTestEngine(tt.piece)
			if got := mustActive(t, e).Pos; got != tt.want {
				t.Errorf("spawn = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMovePieceToWalls(t *testing.T) {
	e := newTestEngine(PieceT)

	moves := 0
	for e.MovePiece(-1) {
		moves++
	}
	if moves != 4 || mustActive(t, e).Pos.Col != 0 {
		t.Errorf("left moves = %d col = %d, want 4/0", moves, mustActive(t, e).Pos.Col)
	}

	moves = 0
	for e.MovePiece(1) {
		moves++
	}
	if moves != 7 || mustActive(t, e).Pos.Col != 7 {
		t.Errorf("right moves = %d col = %d, want 7/7", moves, mustActive(t, e).Pos.Col)
	}
}

func TestSoftDropNeverLocks(t *testing.T) {
	e := newTestEngine(PieceO)

	steps := 0
	for e.SoftDrop() {
		steps++
	}
	if steps != 18 {
		t.Errorf("soft drops = %d, want 18", steps)
	}
	if e.SoftDrop() {
		t.Error("soft drop at the floor should fail")
	}
	if b := e.Board(); b.Height() != 0 {
		t.Error("soft drop must not lock")
	}
	if mustActive(t, e).Pos.Row != 18 {
		t.Errorf("row = %d, want 18", mustActive(t, e).Pos.Row)
	}
}

func TestSoftDropResetsTimer(t *testing.T) {
	e := newTestEngine(PieceO)
	e.Tick(400 * time.Millisecond)
	e.SoftDrop()
	if e.DropTimer() != 0 {
		t.Errorf("DropTimer = %v, want 0", e.DropTimer())
	}
}

func TestHardDropOnEmptyBoard(t *testing.T) {
	e := newTestEngine(PieceT, PieceO)
	e.HardDrop()

	b := e.Board()
	for _, cell := range [][2]int{{18, 5}, {19, 4}, {19, 5}, {19, 6}} {
		if b[cell[0]][cell[1]] != PieceT {
			t.Errorf("cell %v should hold T", cell)
		}
	}
	if mustActive(t, e).Type != PieceO || e.Next() != PieceT {
		t.Errorf("after lock: active=%s next=%s", mustActive(t, e).Type, e.Next())
	}
	if e.Progress().Score != 0 {
		t.Error("no score without lines")
	}
}

func TestHardDropMatchesGhostAndSoftDrops(t *testing.T) {
	a := newTestEngine(PieceL, PieceS)
	b := newTestEngine(PieceL, PieceS)
	a.MovePiece(-1)
	b.MovePiece(-1)

	ghost, ok := a.Ghost()
	if !ok {
		t.Fatal("ghost should exist")
	}
	for b.SoftDrop() {
	}
	if got := mustActive(t, b).Pos; got != ghost {
		t.Errorf("soft drops landed at %+v, ghost %+v", got, ghost)
	}

	a.HardDrop()
	// Gravity locks b at the same place.
	b.Tick(b.Progress().DropInterval + time.Millisecond)
	if a.Board() != b.Board() {
		t.Error("hard drop and soft drops plus gravity should lock identically")
	}
}

func TestRotate(t *testing.T) {
	e := newTestEngine(PieceT)
	before := mustActive(t, e).Matrix

	if !e.Rotate() {
		t.Fatal("rotate should succeed in open space")
	}
	if !mustActive(t, e).Matrix.Equal(before.RotateClockwise()) {
		t.Error("matrix should be rotated clockwise")
	}
	for range 3 {
		e.Rotate()
	}
	if !mustActive(t, e).Matrix.Equal(before) {
		t.Error("four rotations should return to the spawn orientation")
	}
	if !ShapeOf(PieceT).Matrix.Equal(before) {
		t.Error("catalog shape must not be modified")
	}
}

func TestRotateBlockedNoKick(t *testing.T) {
	e := newTestEngine(PieceI)
	e.board[1][5] = PieceZ
	before := mustActive(t, e)

	if e.Rotate() {
		t.Fatal("rotation into a locked cell must fail")
	}
	after := mustActive(t, e)
	if !after.Matrix.Equal(before.Matrix) || after.Pos != before.Pos {
		t.Error("failed rotation must leave the piece unchanged")
	}
}

func TestHoldEmptyThenSwap(t *testing.T) {
	e := newTestEngine(PieceT, PieceO, PieceI)

	if !e.Hold() {
		t.Fatal("first hold should succeed")
	}
	if e.HoldSlot() != PieceT || mustActive(t, e).Type != PieceO || e.Next() != PieceI {
		t.Errorf("hold=%s active=%s next=%s", e.HoldSlot(), mustActive(t, e).Type, e.Next())
	}
	if e.Hold() {
		t.Error("second hold for the same piece must fail")
	}

	e.HardDrop()
	if !e.CanHold() {
		t.Fatal("hold should be re-enabled after a lock")
	}
	if mustActive(t, e).Type != PieceI {
		t.Fatalf("active = %s, want I", mustActive(t, e).Type)
	}

	e.MovePiece(1)
	if !e.Hold() {
		t.Fatal("swap hold should succeed")
	}
	a := mustActive(t, e)
	if a.Type != PieceT || e.HoldSlot() != PieceI {
		t.Errorf("active=%s hold=%s, want T/I", a.Type, e.HoldSlot())
	}
	if a.Pos != SpawnPosition(ShapeOf(PieceT).Matrix) {
		t.Errorf("swapped piece should respawn at the top, got %+v", a.Pos)
	}
	if e.Next() != PieceT {
		t.Errorf("swap must not consume the queue, next = %s", e.Next())
	}
	if e.CanHold() {
		t.Error("hold should be disabled until the next lock")
	}
}

func TestSingleLineClear(t *testing.T) {
	e := newTestEngine(PieceI, PieceO)
	fillRow(&e.board, 19, 3, 4, 5, 6)

	e.HardDrop()

	p := e.Progress()
	if p.Score != 100 || p.Lines != 1 || p.Combo != 1 {
		t.Errorf("progress = %+v", p)
	}
	if b := e.Board(); b.Height() != 0 {
		t.Errorf("board should be empty, height %d", b.Height())
	}
	effects := e.Effects()
	if len(effects) != 1 || effects[0].Kind != EffectLineFlash || effects[0].Line != 19 {
		t.Errorf("effects = %+v", effects)
	}
	if cues := e.DrainCues(); !slices.Equal(cues, []Cue{CueHardDrop, CueLineClear}) {
		t.Errorf("cues = %v", cues)
	}
}

func TestTetrisClear(t *testing.T) {
	e := newTestEngine(PieceI, PieceO)
	for r := 16; r < Rows; r++ {
		fillRow(&e.board, r, 0)
	}

	if !e.Rotate() {
		t.Fatal("rotate")
	}
	for e.MovePiece(-1) {
	}
	if got := mustActive(t, e).Pos.Col; got != -2 {
		t.Fatalf("vertical I col = %d, want -2", got)
	}
	e.HardDrop()

	p := e.Progress()
	if p.Score != 800 || p.Lines != 4 || p.Level != 1 {
		t.Errorf("progress = %+v", p)
	}

	var flashes []int
	var texts []string
	border := false
	for _, eff := range e.Effects() {
		switch eff.Kind {
		case EffectLineFlash:
			flashes = append(flashes, eff.Line)
		case EffectText:
			texts = append(texts, eff.Text)
		case EffectBorderFlash:
			border = true
		}
	}
	if !slices.Equal(flashes, []int{19, 19, 19, 19}) {
		t.Errorf("flash rows = %v", flashes)
	}
	if !slices.Equal(texts, []string{"TETRIS"}) || !border {
		t.Errorf("texts = %v border = %v", texts, border)
	}

	cues := e.DrainCues()
	if cues[len(cues)-1] != CueTetris {
		t.Errorf("last cue = %s, want tetris", cues[len(cues)-1])
	}
}

func TestComboAcrossLocks(t *testing.T) {
	e := newTestEngine(PieceI)
	fillRow(&e.board, 19, 3, 4, 5, 6)
	fillRow(&e.board, 18, 3, 4, 5, 6)

	// Rows 18 and 19 are identical, so each horizontal I clears one.
	e.HardDrop()
	e.HardDrop()

	p := e.Progress()
	if p.Combo != 2 || p.Score != 200 {
		t.Errorf("progress = %+v", p)
	}
	var combo string
	for _, eff := range e.Effects() {
		if eff.Kind == EffectText {
			combo = eff.Text
		}
	}
	if combo != "2 COMBO!" {
		t.Errorf("combo text = %q", combo)
	}

	e.HardDrop()
	if e.Progress().Combo != 0 {
		t.Error("a lock without lines resets the combo")
	}
}

func TestLevelUpSpeedsGravity(t *testing.T) {
	e := newTestEngine(PieceI, PieceO)
	e.progress.Score = 900
	fillRow(&e.board, 19, 3, 4, 5, 6)

	e.HardDrop()

	p := e.Progress()
	if p.Level != 2 || p.DropInterval != 925*time.Millisecond {
		t.Errorf("progress = %+v", p)
	}
}

func TestGravity(t *testing.T) {
	e := newTestEngine(PieceO)
	row := mustActive(t, e).Pos.Row

	e.Tick(time.Second)
	if mustActive(t, e).Pos.Row != row {
		t.Error("gravity fires only once the interval is exceeded")
	}
	e.Tick(time.Millisecond)
	if mustActive(t, e).Pos.Row != row+1 {
		t.Error("gravity should move the piece down one row")
	}
	if e.DropTimer() != 0 {
		t.Errorf("DropTimer = %v after drop", e.DropTimer())
	}
}

func TestGravityLocksOnFloor(t *testing.T) {
	e := newTestEngine(PieceO, PieceT)
	for e.SoftDrop() {
	}
	e.Tick(1001 * time.Millisecond)

	if mustActive(t, e).Type != PieceT {
		t.Error("gravity at the floor should lock and spawn the next piece")
	}
	if b := e.Board(); b[19][4] != PieceO || b[18][5] != PieceO {
		t.Error("O should be locked at the floor")
	}
}

func TestPauseFreezesTime(t *testing.T) {
	e := newTestEngine(PieceO)
	e.Tick(600 * time.Millisecond)
	e.Pause()
	before := mustActive(t, e)

	e.Tick(10 * time.Second)
	if e.MovePiece(1) || e.SoftDrop() || e.Rotate() || e.Hold() {
		t.Error("operations must be rejected while paused")
	}
	e.HardDrop()
	if mustActive(t, e).Pos != before.Pos {
		t.Error("paused piece must not move")
	}

	e.Resume()
	if e.DropTimer() != 600*time.Millisecond {
		t.Errorf("DropTimer = %v, want 600ms preserved", e.DropTimer())
	}
	e.Tick(401 * time.Millisecond)
	if mustActive(t, e).Pos.Row != before.Pos.Row+1 {
		t.Error("gravity should continue after resume")
	}
}

func TestTogglePause(t *testing.T) {
	e := newTestEngine(PieceO)
	e.TogglePause()
	if e.State() != StatePaused {
		t.Fatalf("State = %s", e.State())
	}
	e.TogglePause()
	if e.State() != StatePlaying {
		t.Fatalf("State = %s", e.State())
	}
}

func TestEffectsFreezeWhilePaused(t *testing.T) {
	e := newTestEngine(PieceI, PieceO)
	fillRow(&e.board, 19, 3, 4, 5, 6)
	e.HardDrop()
	e.Pause()
	e.Tick(time.Minute)
	if len(e.Effects()) != 1 {
		t.Error("effects should not age while paused")
	}
	e.Resume()
	e.Tick(400 * time.Millisecond)
	if len(e.Effects()) != 0 {
		t.Error("line flash should expire once time passes")
	}
}

func TestGameOverOnSpawnCollision(t *testing.T) {
	e := newTestEngine(PieceO)
	for r := 2; r < Rows; r++ {
		e.board[r][4] = PieceZ
		e.board[r][5] = PieceZ
	}

	e.HardDrop()

	if e.State() != StateGameOver {
		t.Fatalf("State = %s, want game_over", e.State())
	}
	cues := e.DrainCues()
	if cues[len(cues)-1] != CueGameOver {
		t.Errorf("cues = %v", cues)
	}
	if e.MovePiece(-1) || e.SoftDrop() || e.Rotate() || e.Hold() {
		t.Error("operations must be rejected after game over")
	}
	e.Pause()
	if e.State() != StateGameOver {
		t.Error("pause must not leave game over")
	}

	e.NewGame()
	if b := e.Board(); e.State() != StatePlaying || b.Height() != 0 {
		t.Error("NewGame should restart from a clean board")
	}
}

func TestGameOverOnLockAboveTop(t *testing.T) {
	e := newTestEngine(PieceI)
	for r := 3; r < Rows; r++ {
		e.board[r][5] = PieceZ
	}
	if !e.Rotate() {
		t.Fatal("rotate")
	}
	before := e.Board()

	e.HardDrop()

	if e.State() != StateGameOver {
		t.Fatalf("State = %s, want game_over", e.State())
	}
	if e.Board() != before {
		t.Error("nothing should be merged when the first cell is above the top")
	}
}

func TestCueQueueBounded(t *testing.T) {
	e := newTestEngine(PieceT)
	for range 200 {
		e.MovePiece(1)
		e.MovePiece(-1)
	}
	if n := len(e.DrainCues()); n != maxQueuedCues {
		t.Errorf("queued cues = %d, want %d", n, maxQueuedCues)
	}
	if len(e.DrainCues()) != 0 {
		t.Error("drain should empty the queue")
	}
}

func TestSequenceDeterminism(t *testing.T) {
	play := func() Board {
		e := NewEngine(UniformRandomizer(rand.New(rand.NewSource(42))))
		e.NewGame()
		for i := range 30 {
			if i%3 == 0 {
				e.Rotate()
			}
			e.MovePiece(i%5 - 2)
			e.HardDrop()
		}
		return e.Board()
	}
	if play() != play() {
		t.Error("same seed and inputs must produce the same board")
	}
}

func TestActiveReturnsCopy(t *testing.T) {
	e := newTestEngine(PieceT)
	a := mustActive(t, e)
	want := ShapeOf(PieceT).Matrix.Clone()

	for r := range a.Matrix {
		for c := range a.Matrix[r] {
			a.Matrix[r][c] = true
		}
	}

	if !ShapeOf(PieceT).Matrix.Equal(want) {
		t.Fatal("writing to Active().Matrix changed the shape catalog")
	}
	if got := mustActive(t, e); !got.Matrix.Equal(want) {
		t.Error("writing to Active().Matrix changed the engine's piece")
	}
}

func TestSequenceRandomizerEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for an empty sequence")
		}
	}()
	SequenceRandomizer()
}
