package client

import (
	"time"

	"github.com/tomz197/retrodefender/internal/loop/game"
)

// Screen is what the client currently shows.
type Screen int

const (
	ScreenTitle    Screen = iota // Waiting for the first run
	ScreenPlaying                // Run in progress
	ScreenGameOver               // Final score and restart prompt
	ScreenShutdown               // Host is shutting down
)

// screenFor maps an engine state to the screen that presents it.
func screenFor(s game.State) Screen {
	switch s {
	case game.StateRunning:
		return ScreenPlaying
	case game.StateGameOver:
		return ScreenGameOver
	default:
		return ScreenTitle
	}
}

// ClientState holds the presentation state of one client.
type ClientState struct {
	Screen        Screen
	prevScreen    Screen
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
	lastSeq       uint64 // Last snapshot whose kills were turned into effects
	fieldCols     int    // Render size the playfield was last sized for
	fieldRows     int
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenTitle,
		prevScreen: -1,
		Running:    true,
	}
}
