package game

import (
	"math"
	"time"
)

// SetPointerX moves the player to the pointer position, clamped inside the
// side margins. NaN is ignored.
func (e *Engine) SetPointerX(x float64) {
	if math.IsNaN(x) {
		return
	}
	e.player.X = e.clampPointer(x)
}

// PlayerX returns the player's horizontal position.
func (e *Engine) PlayerX() float64 {
	return e.player.X
}

// Shoot fires a projectile from the player's position if the engine is
// Running and the cooldown since the last accepted shot has passed.
func (e *Engine) Shoot(now time.Time) bool {
	if e.state != StateRunning {
		return false
	}
	at := now.UnixNano()
	if e.hasShot && time.Duration(at-e.lastShotAt) < e.tuning.ShotCooldown {
		return false
	}
	e.lastShotAt = at
	e.hasShot = true
	e.store.SpawnProjectile(e.player.X)
	return true
}

// Start begins a fresh run from Idle or GameOver. It is ignored while Running.
func (e *Engine) Start() bool {
	if e.state == StateRunning {
		return false
	}
	e.reset()
	e.state = StateRunning
	return true
}

// Dismiss returns from GameOver to Idle. Ignored in any other state.
func (e *Engine) Dismiss() bool {
	if e.state != StateGameOver {
		return false
	}
	e.reset()
	e.state = StateIdle
	return true
}

func (e *Engine) reset() {
	e.tick = 0
	e.score = 0
	e.finalScore = 0
	e.hasShot = false
	e.lastShotAt = 0
	e.store.Reset()
	e.detector.Reset()
	clear(e.kills)
	e.kills = e.kills[:0]
	e.player.X = e.clampPointer(e.width / 2)
}
