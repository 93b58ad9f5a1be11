// Package client renders a game session to a terminal and turns keyboard
// and mouse input into session commands.
package client

import (
	"bufio"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/retrodefender/internal/draw"
	"github.com/tomz197/retrodefender/internal/input"
	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/loop/game"
	"github.com/tomz197/retrodefender/internal/loop/server"
	"github.com/tomz197/retrodefender/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	ctrl         server.Controller
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	shutdown     <-chan struct{}
	effects      *object.Effects
	styles       *styles
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	// Renderer styles colored output. Defaults to a renderer detecting the
	// color profile of the writer.
	Renderer *lipgloss.Renderer
	// Shutdown, when closed, shows the shutdown notice and ends the client.
	Shutdown <-chan struct{}
	Rand     *rand.Rand
}

// NewClient creates a client driving ctrl.
func NewClient(ctrl server.Controller, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}

	snap := ctrl.GetSnapshot()
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, snap.Width, snap.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		ctrl:         ctrl,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		shutdown:     opts.Shutdown,
		effects:      object.NewEffects(opts.Rand),
		styles:       newStyles(renderer),
	}
}

// Run starts the client loop. Blocks until the user quits, the input closes
// or the session ends.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)
	defer c.effects.Reset()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		snap := c.ctrl.GetSnapshot()

		c.processInput(input.ReadInput(c.inputStream), snap)
		c.processLifecycle()
		c.updateScreen(snap)
		c.updateEffects(snap)

		if err := c.drawFrame(snap); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput turns one frame of input into session commands.
func (c *Client) processInput(in input.Input, snap *game.Snapshot) {
	if in.Closed || in.Quit {
		c.state.Running = false
		return
	}

	active := in.Any
	idle := time.Since(c.lastInput).Seconds()
	switch {
	case active:
		c.lastInput = time.Now()
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.state.Running = false
		return
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if c.state.Screen == ScreenShutdown {
		return
	}

	if in.MouseMoved {
		col := in.MouseCol - c.canvas.OffsetCol()
		c.ctrl.SetPointer(c.canvas.TerminalToLogicalX(col))
	}
	if in.Left != in.Right {
		nudge := config.KeyNudge
		if in.Left {
			nudge = -nudge
		}
		c.ctrl.SetPointer(snap.PlayerX + nudge)
	}

	switch snap.State {
	case game.StateRunning:
		if in.Space || in.Click {
			c.ctrl.Shoot()
		}
	case game.StateIdle:
		if in.Space || in.Enter {
			c.ctrl.Start()
		}
	case game.StateGameOver:
		switch {
		case in.Escape:
			c.ctrl.Dismiss()
		case in.Space || in.Enter:
			c.ctrl.Start()
		}
	}
}

// processLifecycle reacts to the session ending or the host shutting down.
func (c *Client) processLifecycle() {
	select {
	case <-c.ctrl.Done():
		if c.state.Screen != ScreenShutdown {
			c.state.Running = false
		}
	default:
	}

	if c.state.Screen == ScreenShutdown {
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
		return
	}
	if c.shutdown == nil {
		return
	}
	select {
	case <-c.shutdown:
		c.state.Screen = ScreenShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen(snap *game.Snapshot) {
	if c.state.Screen != ScreenShutdown {
		c.state.Screen = screenFor(snap.State)
	}

	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.canvas.SetLogicalSize(snap.Width, snap.Height)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	if renderWidth != c.state.fieldCols || renderHeight != c.state.fieldRows {
		c.state.fieldCols = renderWidth
		c.state.fieldRows = renderHeight
		c.ctrl.Resize(fieldSize(renderWidth, renderHeight))
	}
}

// fieldSize picks a playfield with the default height whose aspect ratio
// matches the render area. A terminal cell is two pixels tall.
func fieldSize(cols, rows int) (width, height float64) {
	height = config.DefaultHeight
	if rows < 1 {
		rows = 1
	}
	width = math.Round(height * float64(cols) / float64(2*rows))
	return width, height
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateEffects spawns explosions for new kills and advances particles.
func (c *Client) updateEffects(snap *game.Snapshot) {
	if snap.Seq != c.state.lastSeq {
		c.state.lastSeq = snap.Seq
		for _, k := range snap.Kills {
			c.effects.Explode(k.X, k.Y, 14, 160, 0.6)
		}
	}
	if snap.State != game.StateRunning && c.state.Screen != ScreenGameOver {
		c.effects.Reset()
	}
	c.effects.Update(c.state.delta)
}
