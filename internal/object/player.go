package object

import (
	"github.com/tomz197/retrodefender/internal/draw"
)

// Player is the ship at the bottom of the playfield. Only X moves.
type Player struct {
	X            float64
	BottomOffset float64 // Distance of the ship's base from the bottom edge
	Size         float64 // Width of the ship triangle
}

// NewPlayer creates a ship at the given horizontal position.
func NewPlayer(x float64) Player {
	return Player{
		X:            x,
		BottomOffset: 20,
		Size:         40,
	}
}

// Draw renders the ship as a filled triangle pointing up.
func (p Player) Draw(ctx DrawContext) {
	base := ctx.Height - p.BottomOffset
	half := p.Size / 2
	triangle := [3]draw.Point{
		{X: p.X, Y: base - p.Size},
		{X: p.X - half, Y: base},
		{X: p.X + half, Y: base},
	}
	ctx.Canvas.DrawPolygon(triangle[:], true)
}
