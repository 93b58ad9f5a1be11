package object

// Projectile is a shot fired by the player. Offset is measured upward from
// the bottom edge; X is fixed at fire time.
type Projectile struct {
	ID     uint64  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Offset float64 `json:"offset" msgpack:"offset"`
}

// projectileLength is the drawn length of a shot.
const projectileLength = 15.0

// Y converts the offset into top-down playfield coordinates.
func (p Projectile) Y(height float64) float64 {
	return height - p.Offset
}

// Draw renders the projectile as a short vertical bar.
func (p Projectile) Draw(ctx DrawContext) {
	y := p.Y(ctx.Height)
	ctx.Canvas.FillRect(p.X-1, y-projectileLength, 2, projectileLength)
}
