// Package web serves the browser client and connects each WebSocket to its
// own game session.
package web

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/retrodefender/internal/loop/game"
	"github.com/tomz197/retrodefender/internal/loop/server"
)

// Inbound message types.
const (
	msgPointer = "pointer"
	msgShoot   = "shoot"
	msgStart   = "start"
	msgDismiss = "dismiss"
	msgResize  = "resize"
)

// inboundMessage is a JSON command from the browser.
type inboundMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	W    float64 `json:"w,omitempty"`
	H    float64 `json:"h,omitempty"`
}

// helloMsg is the first text frame sent on a new socket.
type helloMsg struct {
	Type    string `json:"type"`
	Session string `json:"session"`
}

// dispatch decodes one text frame and forwards it to ctrl.
func dispatch(ctrl server.Controller, data []byte) error {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	switch msg.Type {
	case msgPointer:
		ctrl.SetPointer(msg.X)
	case msgShoot:
		ctrl.Shoot()
	case msgStart:
		ctrl.Start()
	case msgDismiss:
		ctrl.Dismiss()
	case msgResize:
		ctrl.Resize(msg.W, msg.H)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

// Binary frames carry msgpack snapshots with short keys. Positions are
// rounded to one decimal.

type enemyState struct {
	ID    uint64  `msgpack:"id"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Name  string  `msgpack:"n"`
	Color string  `msgpack:"c"`
}

type projectileState struct {
	ID     uint64  `msgpack:"id"`
	X      float64 `msgpack:"x"`
	Offset float64 `msgpack:"o"` // Measured up from the bottom edge
}

type killState struct {
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Color string  `msgpack:"c"`
}

type snapshotFrame struct {
	Seq         uint64            `msgpack:"seq"`
	Tick        int               `msgpack:"tick"`
	State       string            `msgpack:"state"`
	Score       int               `msgpack:"score"`
	FinalScore  int               `msgpack:"final"`
	Celebrate   bool              `msgpack:"celebrate"`
	Width       float64           `msgpack:"w"`
	Height      float64           `msgpack:"h"`
	PlayerX     float64           `msgpack:"px"`
	Speed       float64           `msgpack:"speed"`
	Enemies     []enemyState      `msgpack:"enemies"`
	Projectiles []projectileState `msgpack:"projectiles"`
	Kills       []killState       `msgpack:"kills"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// newFrame converts a snapshot to its wire form.
func newFrame(s *game.Snapshot) snapshotFrame {
	f := snapshotFrame{
		Seq:         s.Seq,
		Tick:        s.Tick,
		State:       s.State.String(),
		Score:       s.Score,
		FinalScore:  s.FinalScore,
		Celebrate:   s.Celebrate,
		Width:       s.Width,
		Height:      s.Height,
		PlayerX:     round1(s.PlayerX),
		Speed:       round1(s.Difficulty.SpeedMultiplier),
		Enemies:     make([]enemyState, 0, len(s.Enemies)),
		Projectiles: make([]projectileState, 0, len(s.Projectiles)),
		Kills:       make([]killState, 0, len(s.Kills)),
	}
	for _, e := range s.Enemies {
		f.Enemies = append(f.Enemies, enemyState{
			ID: e.ID, X: round1(e.X), Y: round1(e.Y),
			Name: e.Category.Name, Color: e.Category.Color,
		})
	}
	for _, p := range s.Projectiles {
		f.Projectiles = append(f.Projectiles, projectileState{
			ID: p.ID, X: round1(p.X), Offset: round1(p.Offset),
		})
	}
	for _, k := range s.Kills {
		f.Kills = append(f.Kills, killState{X: round1(k.X), Y: round1(k.Y), Color: k.Category.Color})
	}
	return f
}

// encodeSnapshot marshals a snapshot frame.
func encodeSnapshot(s *game.Snapshot) ([]byte, error) {
	f := newFrame(s)
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
