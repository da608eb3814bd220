package tetris

import (
	"slices"
	"testing"
)

func fillRow(b *Board, row int, except ...int) {
	for c := range Cols {
		if slices.Contains(except, c) {
			continue
		}
		b[row][c] = PieceO
	}
}

func TestCollides(t *testing.T) {
	var b Board
	b[10][4] = PieceZ
	o := ShapeOf(PieceO).Matrix

	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"open space", Position{Col: 0, Row: 0}, false},
		{"left wall", Position{Col: -1, Row: 0}, true},
		{"right wall", Position{Col: Cols - 1, Row: 0}, true},
		{"floor", Position{Col: 0, Row: Rows - 1}, true},
		{"resting on floor", Position{Col: 0, Row: Rows - 2}, false},
		{"locked cell", Position{Col: 3, Row: 9}, true},
		{"above board is free", Position{Col: 4, Row: -2}, false},
		{"above board still hits walls", Position{Col: -1, Row: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Collides(o, tt.pos); got != tt.want {
				t.Errorf("Collides(O, %+v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestMergeWritesCells(t *testing.T) {
	var b Board
	if hitTop := b.Merge(ShapeOf(PieceT).Matrix, Position{Col: 4, Row: 18}, PieceT); hitTop {
		t.Fatal("unexpected hitTop")
	}
	want := map[[2]int]bool{{18, 5}: true, {19, 4}: true, {19, 5}: true, {19, 6}: true}
	for r := range Rows {
		for c := range Cols {
			filled := b[r][c] == PieceT
			if filled != want[[2]int{r, c}] {
				t.Errorf("cell (%d,%d) filled=%v", r, c, filled)
			}
		}
	}
}

func TestMergeAboveTopStopsEarly(t *testing.T) {
	var b Board
	// Vertical I with its first cell at row -1.
	vertical := ShapeOf(PieceI).Matrix.RotateClockwise()
	if hitTop := b.Merge(vertical, Position{Col: 3, Row: -1}, PieceI); !hitTop {
		t.Fatal("expected hitTop")
	}
	if !b.IsEmpty(0, 5) || !b.IsEmpty(1, 5) || !b.IsEmpty(2, 5) {
		t.Error("no cell should be written after the first above-top cell")
	}
}

func TestSweepSingle(t *testing.T) {
	var b Board
	fillRow(&b, 19)
	b[18][2] = PieceT

	res := b.Sweep()
	if res.Cleared != 1 {
		t.Fatalf("Cleared = %d, want 1", res.Cleared)
	}
	if !slices.Equal(res.Rows, []int{19}) {
		t.Errorf("Rows = %v, want [19]", res.Rows)
	}
	if b[19][2] != PieceT {
		t.Error("row above should shift down")
	}
	if b.Height() != 1 {
		t.Errorf("Height = %d, want 1", b.Height())
	}
}

func TestSweepRowIndices(t *testing.T) {
	tests := []struct {
		name string
		full []int
		want []int
	}{
		{"adjacent pair", []int{18, 19}, []int{19, 19}},
		{"gap between", []int{17, 19}, []int{19, 18}},
		{"four rows", []int{16, 17, 18, 19}, []int{19, 19, 19, 19}},
		{"top row", []int{0}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			for _, r := range tt.full {
				fillRow(&b, r)
			}
			res := b.Sweep()
			if res.Cleared != len(tt.full) {
				t.Errorf("Cleared = %d, want %d", res.Cleared, len(tt.full))
			}
			if !slices.Equal(res.Rows, tt.want) {
				t.Errorf("Rows = %v, want %v", res.Rows, tt.want)
			}
			if b.Height() != 0 {
				t.Errorf("board should be empty, height %d", b.Height())
			}
		})
	}
}

func TestSweepPreservesOrder(t *testing.T) {
	var b Board
	b[15][0] = PieceI
	b[16][0] = PieceJ
	fillRow(&b, 17)
	b[18][0] = PieceL
	fillRow(&b, 19)

	b.Sweep()

	want := []PieceType{PieceI, PieceJ, PieceL}
	got := []PieceType{b[17][0], b[18][0], b[19][0]}
	if !slices.Equal(got, want) {
		t.Errorf("column 0 bottom = %v, want %v", got, want)
	}
	for r := range 17 {
		if b[r][0] != PieceNone {
			t.Errorf("row %d should be empty", r)
		}
	}
}

func TestSweepNoFullRows(t *testing.T) {
	var b Board
	fillRow(&b, 19, 3)
	before := b
	res := b.Sweep()
	if res.Cleared != 0 || len(res.Rows) != 0 {
		t.Errorf("unexpected sweep %+v", res)
	}
	if b != before {
		t.Error("board changed without full rows")
	}
}

func TestProject(t *testing.T) {
	var b Board
	b[12][5] = PieceZ
	m := ShapeOf(PieceT).Matrix

	if got := b.Project(m, Position{Col: 0, Row: 0}); got.Row != 18 {
		t.Errorf("empty column: Row = %d, want 18", got.Row)
	}
	// T bottom row spans cols 4..6 and stops above (12,5).
	if got := b.Project(m, Position{Col: 4, Row: 0}); got.Row != 10 {
		t.Errorf("blocked column: Row = %d, want 10", got.Row)
	}
}
