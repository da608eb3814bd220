package tetris

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Layout, in terminal cells. Each board cell is two characters wide so
// blocks look square.
const (
	cellW      = 2
	boardBoxW  = Cols*cellW + 2
	boardBoxH  = Rows + 2
	panelGap   = 2
	panelW     = 12
	previewH   = 6
	layoutW    = boardBoxW + panelGap + panelW
	minScreenW = layoutW + 2
	minScreenH = boardBoxH + 1
)

const (
	emptyRune = '·'
	blockRune = '█'
)

var borderGray = core.RGB{R: 128, G: 128, B: 128}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.engine == nil {
		return
	}

	ox := (g.screenW - layoutW) / 2
	board := core.NewRect(ox, 1, boardBoxW, boardBoxH)

	dst.DrawTextColor(board.X+(board.W-6)/2, 0, "TETRIS", core.ColorBrightWhite)
	dst.DrawBox(board, core.ColorGray)

	g.renderBoard(dst, board)
	px := board.Right() + panelGap
	g.renderPreview(dst, core.NewRect(px, 1, panelW, previewH), "HOLD", g.engine.HoldSlot(), g.engine.CanHold())
	g.renderPreview(dst, core.NewRect(px, 1+previewH+1, panelW, previewH), "NEXT", g.engine.Next(), true)
	g.renderStats(dst, px, 1+2*(previewH+1)+1)

	if g.cfg.Display.Effects {
		g.renderEffects(dst, board)
	}
	g.renderOverlay(dst, board)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// cellOrigin returns the screen position of board cell (row, col).
func cellOrigin(board core.Rect, row, col int) (x, y int) {
	return board.X + 1 + col*cellW, board.Y + 1 + row
}

func drawBlock(dst *core.Screen, x, y int, c core.RGB) {
	for i := range cellW {
		dst.SetRGB(x+i, y, blockRune, c)
	}
}

// renderBoard draws locked cells, the ghost and the active piece.
func (g *Game) renderBoard(dst *core.Screen, board core.Rect) {
	cells := g.engine.Board()
	for r := range Rows {
		for c := range Cols {
			x, y := cellOrigin(board, r, c)
			if p := cells[r][c]; p != PieceNone {
				drawBlock(dst, x, y, ColorOf(p))
				continue
			}
			dst.SetColor(x, y, emptyRune, core.ColorGray)
		}
	}

	active, ok := g.engine.Active()
	if !ok || g.engine.State() == StateGameOver {
		return
	}
	color := ColorOf(active.Type)

	if g.cfg.Display.Ghost {
		if pos, ok := g.engine.Ghost(); ok && pos != active.Pos {
			drawMatrix(dst, board, active.Matrix, pos, color.Blend(core.Black, g.cfg.Display.GhostAlpha))
		}
	}
	drawMatrix(dst, board, active.Matrix, active.Pos, color)
}

// drawMatrix draws the visible cells of m placed at pos.
func drawMatrix(dst *core.Screen, board core.Rect, m Matrix, pos Position, c core.RGB) {
	inner := board.Inner()
	for y, line := range m {
		for x, filled := range line {
			if !filled {
				continue
			}
			// Cells above the top row stay hidden.
			sx, sy := cellOrigin(board, pos.Row+y, pos.Col+x)
			if inner.Contains(sx, sy) {
				drawBlock(dst, sx, sy, c)
			}
		}
	}
}

// renderPreview draws a titled box with a piece centered in a 4x4 area.
// Dimmed pieces are shown at half intensity.
func (g *Game) renderPreview(dst *core.Screen, box core.Rect, title string, p PieceType, bright bool) {
	dst.DrawBox(box, core.ColorGray)
	dst.DrawTextColor(box.X+2, box.Y, " "+title+" ", core.ColorWhite)
	if !p.Valid() {
		return
	}

	m := ShapeOf(p).Matrix
	color := ColorOf(p)
	if !bright {
		color = color.Blend(core.Black, 0.5)
	}
	inner := box.Inner()
	off := 4 - m.Size()
	baseX := inner.X + (inner.W-4*cellW)/2 + off
	baseY := inner.Y + off/2
	for y, line := range m {
		for x, filled := range line {
			if filled {
				drawBlock(dst, baseX+x*cellW, baseY+y, color)
			}
		}
	}
}

// renderStats draws score, level, lines and combo.
func (g *Game) renderStats(dst *core.Screen, x, y int) {
	p := g.engine.Progress()
	dst.DrawTextColor(x, y, "Score", core.ColorGray)
	dst.DrawTextColor(x, y+1, fmt.Sprintf("%d", p.Score), core.ColorBrightWhite)
	dst.DrawTextColor(x, y+3, fmt.Sprintf("Level  %d", p.Level), core.ColorWhite)
	dst.DrawTextColor(x, y+4, fmt.Sprintf("Lines  %d", p.Lines), core.ColorWhite)
	if p.Combo > 1 {
		dst.DrawTextColor(x, y+5, fmt.Sprintf("Combo  %d", p.Combo), core.ColorYellow)
	}
}

// renderEffects draws flashes and banners on top of the board.
func (g *Game) renderEffects(dst *core.Screen, board core.Rect) {
	for _, e := range g.engine.Effects() {
		switch e.Kind {
		case EffectLineFlash:
			if e.Line < 0 || e.Line >= Rows {
				continue
			}
			for c := range Cols {
				x, y := cellOrigin(board, e.Line, c)
				base := dst.GetCell(x, y)
				bg := core.Black
				if base.TrueColor {
					bg = base.RGB
				}
				drawBlock(dst, x, y, e.Color.Blend(bg, e.Alpha()))
			}
		case EffectBorderFlash:
			dst.RecolorBox(board, e.Color.Blend(borderGray, e.Alpha()))
		case EffectText:
			text := e.Text
			// Large banners are letter-spaced to suggest their size.
			if float64(e.Size)*e.Scale() >= 45 {
				text = strings.Join(strings.Split(text, ""), " ")
			}
			_, y := cellOrigin(board, e.Line, 0)
			x := board.X + (board.W-len([]rune(text)))/2
			dst.DrawTextRGB(x, y, text, e.Color.Blend(core.Black, e.Alpha()))
		}
	}
}

// renderOverlay draws the pause and game over messages.
func (g *Game) renderOverlay(dst *core.Screen, board core.Rect) {
	var title, hint string
	switch g.engine.State() {
	case StatePaused:
		title, hint = "PAUSED", "P to resume"
	case StateGameOver:
		title, hint = "GAME OVER", "R to restart"
	default:
		return
	}
	y := board.Y + board.H/2 - 1
	centered := func(y int, s string, c core.Color) {
		dst.DrawTextColor(board.X+(board.W-len(s))/2, y, s, c)
	}
	centered(y, title, core.ColorBrightWhite)
	centered(y+1, hint, core.ColorGray)
}
