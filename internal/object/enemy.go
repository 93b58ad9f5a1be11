package object

import "github.com/tomz197/retrodefender/internal/draw"

// EnemySize is the rendered extent of an enemy box.
const EnemySize = 40.0

// Enemy is a descending target. Y is the distance of its centre from the top edge.
type Enemy struct {
	ID       uint64   `json:"id" msgpack:"id"`
	X        float64  `json:"x" msgpack:"x"`
	Y        float64  `json:"y" msgpack:"y"`
	Category Category `json:"category" msgpack:"category"`
}

// Draw renders the enemy as a hollow box centred on its position.
func (e Enemy) Draw(ctx DrawContext) {
	half := EnemySize / 2
	corners := [4]draw.Point{
		{X: e.X - half, Y: e.Y - half},
		{X: e.X + half, Y: e.Y - half},
		{X: e.X + half, Y: e.Y + half},
		{X: e.X - half, Y: e.Y + half},
	}
	ctx.Canvas.DrawPolygon(corners[:], false)
}
