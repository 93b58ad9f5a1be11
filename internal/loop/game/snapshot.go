package game

import "github.com/tomz197/retrodefender/internal/object"

// Snapshot is an immutable copy of the engine state for rendering. It never
// shares memory with the engine.
type Snapshot struct {
	Seq        uint64     `json:"seq"`
	Tick       int        `json:"tick"`
	State      State      `json:"state"`
	Score      int        `json:"score"`
	FinalScore int        `json:"finalScore"`
	Celebrate  bool       `json:"celebrate"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	PlayerX    float64    `json:"playerX"`
	Difficulty Difficulty `json:"difficulty"`

	Enemies     []object.Enemy      `json:"enemies"`
	Projectiles []object.Projectile `json:"projectiles"`
	Kills       []Hit               `json:"kills"` // Collisions since the previous snapshot
}

// Snapshot copies the current state. Kills are handed over to the returned
// snapshot, so each collision appears in exactly one snapshot.
func (e *Engine) Snapshot() *Snapshot {
	e.seq++
	s := &Snapshot{
		Seq:         e.seq,
		Tick:        e.tick,
		State:       e.state,
		Score:       e.score,
		Width:       e.width,
		Height:      e.height,
		PlayerX:     e.player.X,
		Difficulty:  Curve(e.score, e.tuning),
		Enemies:     e.store.AppendEnemies(make([]object.Enemy, 0, len(e.store.Enemies()))),
		Projectiles: e.store.AppendProjectiles(make([]object.Projectile, 0, len(e.store.Projectiles()))),
	}
	if len(e.kills) > 0 {
		s.Kills = append([]Hit(nil), e.kills...)
		e.kills = e.kills[:0]
	}
	if e.state == StateGameOver {
		s.FinalScore = e.finalScore
		s.Celebrate = e.finalScore > e.tuning.CelebrateScore
	}
	return s
}
