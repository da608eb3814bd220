// Package tetris implements the falling-block puzzle engine: board, piece
// catalog, piece control, line clearing, scoring and cosmetic effect triggers.
// The Engine is a pure, single-threaded state machine; Game adapts it to the
// platform's fixed-tick loop.
package tetris

import "github.com/vovakirdan/tui-tetris/internal/core"

// PieceType identifies one of the seven shapes. The zero value means "empty"
// and is what unoccupied board cells hold.
type PieceType uint8

const (
	PieceNone PieceType = iota
	PieceI
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
)

// Pieces lists every playable piece type in catalog order.
var Pieces = [...]PieceType{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}

// String returns the single-letter name of the piece.
func (p PieceType) String() string {
	switch p {
	case PieceI:
		return "I"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	case PieceO:
		return "O"
	case PieceS:
		return "S"
	case PieceT:
		return "T"
	case PieceZ:
		return "Z"
	default:
		return "."
	}
}

// Valid reports whether p is one of the seven defined shapes.
func (p PieceType) Valid() bool {
	return p >= PieceI && p <= PieceZ
}

// Matrix is a square occupancy grid, indexed [row][col].
// Matrices from the catalog are shared and must never be written to.
type Matrix [][]bool

// Size returns the matrix dimension N.
func (m Matrix) Size() int {
	return len(m)
}

// RowEmpty reports whether row r has no occupied cell.
func (m Matrix) RowEmpty(r int) bool {
	for _, v := range m[r] {
		if v {
			return false
		}
	}
	return true
}

// RotateClockwise returns a new matrix turned 90° clockwise:
// transpose, then reverse each row. The receiver is not modified.
func (m Matrix) RotateClockwise() Matrix {
	n := len(m)
	out := make(Matrix, n)
	for r := range n {
		out[r] = make([]bool, n)
		for c := range n {
			out[r][c] = m[n-1-c][r]
		}
	}
	return out
}

// Clone returns a deep copy that is safe to modify.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for r := range m {
		out[r] = append([]bool(nil), m[r]...)
	}
	return out
}

// Equal reports whether two matrices have the same shape and cells.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}
	for r := range m {
		if len(m[r]) != len(o[r]) {
			return false
		}
		for c := range m[r] {
			if m[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// Shape is a catalog entry: the spawn orientation and display color.
type Shape struct {
	Matrix Matrix
	Color  core.RGB
}

// parseMatrix builds a matrix from rows of '#' (occupied) and '.' (empty).
func parseMatrix(rows ...string) Matrix {
	m := make(Matrix, len(rows))
	for r, row := range rows {
		m[r] = make([]bool, len(row))
		for c, ch := range row {
			m[r][c] = ch == '#'
		}
	}
	return m
}

// catalog is indexed by PieceType; index 0 (PieceNone) is unused.
var catalog = [...]Shape{
	PieceI: {
		Matrix: parseMatrix("....", "####", "....", "...."),
		Color:  core.RGB{R: 0, G: 255, B: 255},
	},
	PieceJ: {
		Matrix: parseMatrix("#..", "###", "..."),
		Color:  core.RGB{R: 0, G: 0, B: 255},
	},
	PieceL: {
		Matrix: parseMatrix("..#", "###", "..."),
		Color:  core.RGB{R: 255, G: 165, B: 0},
	},
	PieceO: {
		Matrix: parseMatrix("##", "##"),
		Color:  core.RGB{R: 255, G: 255, B: 0},
	},
	PieceS: {
		Matrix: parseMatrix(".##", "##.", "..."),
		Color:  core.RGB{R: 0, G: 255, B: 0},
	},
	PieceT: {
		Matrix: parseMatrix(".#.", "###", "..."),
		Color:  core.RGB{R: 128, G: 0, B: 128},
	},
	PieceZ: {
		Matrix: parseMatrix("##.", ".##", "..."),
		Color:  core.RGB{R: 255, G: 0, B: 0},
	},
}

// ShapeOf returns the catalog shape for p. It panics for PieceNone or an
// out-of-range value, which can only come from a programming error.
func ShapeOf(p PieceType) Shape {
	if !p.Valid() {
		panic("tetris: no shape for piece " + p.String())
	}
	return catalog[p]
}

// ColorOf returns the display color of p, or black for PieceNone.
func ColorOf(p PieceType) core.RGB {
	if !p.Valid() {
		return core.Black
	}
	return catalog[p].Color
}
