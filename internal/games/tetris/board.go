package tetris

// Board dimensions. They never change during a game.
const (
	Rows = 20
	Cols = 10
)

// Position is the top-left corner of a piece matrix in board coordinates.
// Row may be negative while a piece is entering from above the board.
type Position struct {
	Col int
	Row int
}

// Board is the grid of locked cells, indexed [row][col]. Row 0 is the top.
// A cell holds PieceNone when empty, otherwise the type that filled it.
type Board [Rows][Cols]PieceType

// SweepResult reports the rows removed by one Sweep.
type SweepResult struct {
	Cleared int
	// Rows holds the index of each cleared row at the moment it was
	// detected, scanning bottom-to-top. Rows already removed below it
	// shift it down, so two adjacent full rows at 18 and 19 report [19, 19].
	Rows []int
}

// IsEmpty reports whether (row, col) is inside the board and unoccupied.
func (b *Board) IsEmpty(row, col int) bool {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return false
	}
	return b[row][col] == PieceNone
}

// Collides reports whether placing m at pos would overlap a wall, the floor
// or a locked cell. Cells above the board (negative row) only collide with
// the side walls.
func (b *Board) Collides(m Matrix, pos Position) bool {
	for y, line := range m {
		for x, filled := range line {
			if !filled {
				continue
			}
			row, col := pos.Row+y, pos.Col+x
			if col < 0 || col >= Cols || row >= Rows {
				return true
			}
			if row >= 0 && b[row][col] != PieceNone {
				return true
			}
		}
	}
	return false
}

// Merge writes every occupied cell of m at pos into the board as piece p,
// in row-major order. If a cell would land above row 0, writing stops there
// and hitTop is true; cells already written stay written.
func (b *Board) Merge(m Matrix, pos Position, p PieceType) (hitTop bool) {
	for y, line := range m {
		for x, filled := range line {
			if !filled {
				continue
			}
			row, col := pos.Row+y, pos.Col+x
			if row < 0 {
				return true
			}
			b[row][col] = p
		}
	}
	return false
}

// rowFull reports whether every cell of row r is occupied.
func (b *Board) rowFull(r int) bool {
	for _, cell := range b[r] {
		if cell == PieceNone {
			return false
		}
	}
	return true
}

// Sweep removes every full row, shifts the rows above it down and inserts
// empty rows at the top. Full rows are found in one pass and removed in a
// single compaction pass.
func (b *Board) Sweep() SweepResult {
	var full [Rows]bool
	var res SweepResult
	for r := Rows - 1; r >= 0; r-- {
		if b.rowFull(r) {
			full[r] = true
			res.Rows = append(res.Rows, r+res.Cleared)
			res.Cleared++
		}
	}
	if res.Cleared == 0 {
		return res
	}

	write := Rows - 1
	for read := Rows - 1; read >= 0; read-- {
		if full[read] {
			continue
		}
		b[write] = b[read]
		write--
	}
	for ; write >= 0; write-- {
		b[write] = [Cols]PieceType{}
	}
	return res
}

// Project returns the lowest position m can reach by falling straight down
// from pos without colliding. pos itself must be collision-free.
func (b *Board) Project(m Matrix, pos Position) Position {
	for {
		below := Position{Col: pos.Col, Row: pos.Row + 1}
		if b.Collides(m, below) {
			return pos
		}
		pos = below
	}
}

// Height returns the number of rows from the highest occupied cell down to
// the floor, or 0 for an empty board.
func (b *Board) Height() int {
	for r := range Rows {
		for _, cell := range b[r] {
			if cell != PieceNone {
				return Rows - r
			}
		}
	}
	return 0
}
