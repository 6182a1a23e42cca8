package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/t2048/internal/core"
)

const (
	tileWidth  = 6 // Width of a tile in characters
	tileHeight = 3 // Height of a tile in characters
	hudHeight  = 3
)

// boardSize returns the board's outer dimensions including gutters.
func boardSize(rows, cols int) (w, h int) {
	return cols*(tileWidth+1) + 1, rows*(tileHeight+1) + 1
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.session == nil {
		dst.DrawTextCentered(g.screenH/2, "2048 failed to start")
		if g.fault != nil {
			dst.DrawTextCentered(g.screenH/2+1, g.fault.Error())
		}
		return
	}

	// Check screen size
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	// Calculate board position (centered)
	boardW, boardH := boardSize(g.cfg.Board.Rows, g.cfg.Board.Cols)
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight

	g.renderHUD(dst, boardX, boardW)
	g.renderBoard(dst, boardX, boardY)
	g.renderTiles(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)

	controls := g.Controls()
	if len(controls) <= g.screenW {
		dst.DrawTextCentered(boardY+boardH, controls)
	}
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, board stats and queue state.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := "2048"
	dst.DrawText(boardX+(boardW-len(title))/2, 0, title)

	grid := g.session.Grid()
	dst.DrawText(boardX, 1, fmt.Sprintf("Max: %d", grid.MaxTile()))

	queue := fmt.Sprintf("Queue: %d", g.session.Pending())
	if g.session.Hurry() {
		queue = "HURRY " + queue
	}
	dst.DrawText(boardX+boardW-len(queue), 1, queue)

	mode := "Classic"
	if g.session.AlwaysSpawn() {
		mode = "Always spawn"
	}
	line := mode
	if g.status != "" {
		line = mode + " - " + g.status
	}
	dst.DrawText(boardX+(boardW-len(line))/2, 2, line)
}

// renderBoard draws the board background and the empty cells.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	rows, cols := g.cfg.Board.Rows, g.cfg.Board.Cols
	boardW, boardH := boardSize(rows, cols)
	bg := core.Color(g.cfg.Theme.Board)
	dst.FillRect(core.NewRect(boardX, boardY, boardW, boardH), core.Cell{Rune: ' ', Fg: core.ColorDefault, Bg: bg})

	empty := core.Cell{Rune: ' ', Fg: core.ColorDefault, Bg: core.Color(g.cfg.Theme.Empty)}
	for r := range rows {
		for c := range cols {
			x, y := cellOrigin(boardX, boardY, float64(r), float64(c))
			dst.FillRect(core.NewRect(x, y, tileWidth, tileHeight), empty)
		}
	}
}

// cellOrigin returns the top-left character of a (possibly fractional) cell.
func cellOrigin(boardX, boardY int, row, col float64) (int, int) {
	x := boardX + 1 + int(math.Round(col*(tileWidth+1)))
	y := boardY + 1 + int(math.Round(row*(tileHeight+1)))
	return x, y
}

// renderTiles draws every visible identity at its interpolated position.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	if g.anim == nil {
		return
	}
	for _, s := range g.anim.Sprites() {
		x, y := cellOrigin(boardX, boardY, s.Row, s.Col)
		w := max(1, int(math.Round(tileWidth*s.Scale)))
		h := max(1, int(math.Round(tileHeight*s.Scale)))
		x += (tileWidth - w) / 2
		y += (tileHeight - h) / 2

		bg := core.Color(g.cfg.Palette[s.Palette])
		dst.FillRect(core.NewRect(x, y, w, h), core.Cell{Rune: ' ', Fg: core.ColorDefault, Bg: bg})

		label := strconv.Itoa(s.Value)
		if len(label) > w {
			continue
		}
		fg := core.Color(g.cfg.Theme.TextDark)
		if s.Value > 4 {
			fg = core.Color(g.cfg.Theme.TextLight)
		}
		dst.DrawTextColored(x+(w-len(label))/2, y+h/2, label, fg, bg)
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if g.fault != nil {
		g.drawOverlay(dst, centerX, centerY, "ENGINE FAULT", "Press R to reset")
		return
	}

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.State().GameOver && (g.anim == nil || !g.anim.Busy()) {
		maxStr := fmt.Sprintf("Max tile: %d", g.session.LatestGrid().MaxTile())
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", maxStr, "Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	dst.FillRect(box, core.Cell{Rune: ' ', Fg: core.ColorDefault, Bg: core.ColorDefault})
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows: move  N: spawn  Space: always spawn  Tab: inspect  R: reset  Q: quit"
}
