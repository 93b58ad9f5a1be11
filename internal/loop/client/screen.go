package client

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/loop/game"
	"github.com/tomz197/retrodefender/internal/object"
)

// styles holds the lipgloss styles of one renderer.
type styles struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	accent   lipgloss.Style
	dim      lipgloss.Style
	warn     lipgloss.Style
	labels   map[string]lipgloss.Style // Enemy labels by category color
}

func newStyles(r *lipgloss.Renderer) *styles {
	return &styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#61dbfb")),
		accent:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f7df1e")),
		dim:      r.NewStyle().Faint(true),
		warn:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6b6b")),
		labels:   make(map[string]lipgloss.Style),
	}
}

func (s *styles) label(cat object.Category) lipgloss.Style {
	st, ok := s.labels[cat.Color]
	if !ok {
		st = s.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(cat.Color))
		s.labels[cat.Color] = st
	}
	return st
}

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *game.Snapshot) error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if c.state.Screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Width:  snap.Width,
		Height: snap.Height,
	}

	if c.state.Screen != ScreenShutdown && !c.state.isInactive {
		for _, e := range snap.Enemies {
			e.Draw(ctx)
		}
		for _, p := range snap.Projectiles {
			p.Draw(ctx)
		}
		object.NewPlayer(snap.PlayerX).Draw(ctx)
		c.effects.Draw(ctx)
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// text writes s at the 1-based canvas position and marks the covered cells
// for repaint on the next frame.
func (c *Client) text(col, row int, s string) {
	width := lipgloss.Width(s)
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	col = max(col, 1)
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.Invalidate(col, row, width)
}

// centered writes s centred horizontally on row.
func (c *Client) centered(row int, s string) {
	c.text((c.canvas.TerminalWidth()-lipgloss.Width(s))/2+1, row, s)
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *game.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.Screen {
	case ScreenTitle:
		c.drawTitleScreen(centerY)
	case ScreenPlaying:
		c.drawLabels(snap)
		c.drawPlayingHUD(snap)
	case ScreenGameOver:
		c.drawGameOverScreen(centerY, snap)
	}
}

// drawLabels prints each enemy's category name inside its box.
func (c *Client) drawLabels(snap *game.Snapshot) {
	maxCol := c.canvas.TerminalWidth()
	for _, e := range snap.Enemies {
		col, row := c.canvas.LogicalToTerminal(e.X, e.Y)
		name := e.Category.Name
		start := col - len(name)/2
		if start < 1 || start+len(name)-1 > maxCol {
			continue
		}
		c.text(start, row, c.styles.label(e.Category).Render(name))
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(snap *game.Snapshot) {
	c.text(2, 1, c.styles.accent.Render(fmt.Sprintf("Score: %-8d", snap.Score)))

	speed := fmt.Sprintf("Speed x%-4.1f", snap.Difficulty.SpeedMultiplier)
	c.text(c.canvas.TerminalWidth()-len(speed), 1, c.styles.dim.Render(speed))
}

// drawTitleScreen draws the title screen.
func (c *Client) drawTitleScreen(centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___  ___ ___ ___ _  _ ___  ___ ___  `,
		`|   \| __| __| __| \| |   \| __| _ \ `,
		`| |) | _|| _|| _|| .  | |) | _||   / `,
		`|___/|___|_| |___|_|\_|___/|___|_|_\ `,
	}
	top := centerY - 7
	for i, line := range titleArt {
		c.centered(top+i, c.styles.title.Render(line))
	}

	c.centered(top+len(titleArt)+1, "Ready Player One?")

	controlsY := top + len(titleArt) + 3
	controls := []string{
		"Mouse / A D  . . . .  Move",
		"Click / SPACE  . . . Shoot",
		"Q  . . . . . . . . .  Quit",
	}
	for i, line := range controls {
		c.centered(controlsY+i, c.styles.dim.Render(line))
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(controlsY+len(controls)+1, c.styles.accent.Render(">>  Press SPACE to Start  <<"))
	} else {
		c.centered(controlsY+len(controls)+1, "                            ")
	}
}

// drawGameOverScreen draws the final score and restart prompt.
func (c *Client) drawGameOverScreen(centerY int, snap *game.Snapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	top := centerY - 6
	for i, line := range titleArt {
		c.centered(top+i, c.styles.warn.Render(line))
	}

	c.centered(top+len(titleArt)+1, fmt.Sprintf("Final score: %d", snap.FinalScore))
	if snap.Celebrate {
		c.centered(top+len(titleArt)+3, c.styles.accent.Render("*  Awesome run!  *"))
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(top+len(titleArt)+5, ">>  Press SPACE to Restart  <<")
	} else {
		c.centered(top+len(titleArt)+5, "                              ")
	}
	c.centered(top+len(titleArt)+6, c.styles.dim.Render("ESC for title"))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.centered(centerY-2, c.styles.warn.Render("INACTIVITY WARNING"))
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.centered(centerY, msg)
	c.centered(centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the shutdown notice with its countdown.
func (c *Client) drawShutdownScreen(centerY int) {
	c.centered(centerY-1, c.styles.warn.Render("SERVER SHUTTING DOWN"))
	c.centered(centerY+1, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer+0.999)))
}
