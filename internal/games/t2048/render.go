package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/arcade2048/internal/core"
)

// Board geometry in screen cells. Each tile is cellWidth-1 wide and
// cellHeight-1 tall between the grid lines.
const (
	cellWidth  = 5
	cellHeight = 2
	hudHeight  = 3
)

// boardRect returns where the grid is drawn, centered under the HUD.
func (g *Game) boardRect() core.Rect {
	w := BoardSize*cellWidth + 1
	h := BoardSize*cellHeight + 1
	return core.Rect{X: (g.screenW - w) / 2, Y: hudHeight + 1, W: w, H: h}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		mid := g.screenH / 2
		dst.DrawTextCentered(mid, "Window too small")
		dst.DrawTextCentered(mid+1, "Please resize terminal")
		return
	}

	board := g.boardRect()
	g.renderHUD(dst, board)
	renderGrid(dst, board)
	g.renderTiles(dst, board)
	g.renderOverlays(dst, board)
}

// renderHUD draws the title, score, progress and move count above the grid.
func (g *Game) renderHUD(dst *core.Screen, board core.Rect) {
	center := func(y int, text string, c core.Color) {
		dst.DrawTextColor(board.X+(board.W-len(text))/2, y, text, c)
	}

	center(0, "2048", core.ColorBrightYellow)

	dst.DrawTextColor(board.X, 1, fmt.Sprintf("Score: %d", g.score), core.ColorBrightWhite)

	progress := fmt.Sprintf("Max: %d", MaxTile(g.board))
	mode := "Endless"
	if g.mode == ModeCampaign {
		progress = fmt.Sprintf("Level %d/%d  Target: %d", g.levelIndex+1, LevelCount(), g.currentTarget)
		mode = "Campaign"
	}
	dst.DrawText(max(board.Right()-len(progress), board.X), 1, progress)

	center(2, fmt.Sprintf("%s  Moves: %d", mode, g.moves), core.ColorDefault)
}

// gridRune picks the box-drawing character for grid intersection (i, j),
// where i and j run from 0 to BoardSize.
func gridRune(i, j int) rune {
	top, bottom := j == 0, j == BoardSize
	left, right := i == 0, i == BoardSize
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top:
		return '┬'
	case bottom:
		return '┴'
	case left:
		return '├'
	case right:
		return '┤'
	default:
		return '┼'
	}
}

// renderGrid draws the cell borders.
func renderGrid(dst *core.Screen, board core.Rect) {
	for j := range BoardSize + 1 {
		y := board.Y + j*cellHeight
		for x := board.X; x < board.Right(); x++ {
			dst.SetCell(x, y, core.Cell{Rune: '─', Color: core.ColorGray})
		}
	}
	for i := range BoardSize + 1 {
		x := board.X + i*cellWidth
		for y := board.Y; y < board.Bottom(); y++ {
			dst.SetCell(x, y, core.Cell{Rune: '│', Color: core.ColorGray})
		}
	}
	for j := range BoardSize + 1 {
		for i := range BoardSize + 1 {
			r := gridRune(i, j)
			dst.SetCell(board.X+i*cellWidth, board.Y+j*cellHeight, core.Cell{Rune: r, Color: core.ColorGray})
		}
	}
}

// renderTiles writes each tile value centered in its cell.
func (g *Game) renderTiles(dst *core.Screen, board core.Rect) {
	for y, row := range g.board {
		for x, v := range row {
			if v == 0 {
				continue
			}
			text := strconv.Itoa(v)
			pad := max((cellWidth-1-len(text))/2, 0)
			dst.DrawTextColor(board.X+x*cellWidth+1+pad, board.Y+y*cellHeight+1, text, TileColor(v))
		}
	}
}

// TileColor returns the display color for a tile value. Colors warm up as
// tiles grow; everything past 2048 shares one highlight.
func TileColor(value int) core.Color {
	switch {
	case value <= 0:
		return core.ColorDefault
	case value <= 4:
		return core.ColorWhite
	case value <= 16:
		return core.ColorYellow
	case value <= 64:
		return core.ColorOrange
	case value <= 256:
		return core.ColorRed
	case value <= 1024:
		return core.ColorMagenta
	case value == 2048:
		return core.ColorBrightYellow
	default:
		return core.ColorBrightCyan
	}
}

// overlayLines returns the banner for the current phase, if any.
func (g *Game) overlayLines() []string {
	switch g.phase() {
	case PhaseLevelCleared:
		reached := fmt.Sprintf("Target %d reached!", g.currentTarget)
		if g.levelIndex >= LevelCount()-1 {
			return []string{reached, "Final level complete!"}
		}
		return []string{reached, fmt.Sprintf("Next: Level %d", g.levelIndex+2)}
	case PhaseWon:
		return []string{"CAMPAIGN COMPLETE!", "You are the champion!", "Press R to restart"}
	case PhaseGameOver:
		return []string{"GAME OVER", fmt.Sprintf("Max tile: %d", MaxTile(g.board)), "Press R to restart"}
	}
	if g.paused {
		return []string{"PAUSED", "Press P to resume"}
	}
	return nil
}

// renderOverlays draws the banner for pause, level clear or game end.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect) {
	lines := g.overlayLines()
	if len(lines) == 0 {
		return
	}

	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}

	cx, cy := board.X+board.W/2, board.Y+board.H/2
	box := core.Centered(cx, cy, width+4, len(lines)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box)
	for i, l := range lines {
		dst.DrawText(cx-len(l)/2, box.Y+1+i, l)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | H: Hint | Tab: Autopilot | P: Pause | R: Restart | Q: Quit"
}
