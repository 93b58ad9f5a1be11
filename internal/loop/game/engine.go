// Package game implements the simulation core: difficulty, entities over
// time, collisions, input rules and the run state machine.
package game

import (
	"math"
	"math/rand"

	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/object"
	"github.com/tomz197/retrodefender/internal/physics"
)

// State is the phase of a run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options configures an Engine. Zero values pick sensible defaults.
type Options struct {
	Rand    *rand.Rand        // Drives enemy placement and categories
	Palette []object.Category // Enemy categories, defaults to object.Palette
}

// Engine is one game instance. It advances only when Tick is called and is
// not safe for concurrent use; hosts serialize access (see server.Session).
type Engine struct {
	tuning config.Tuning

	state      State
	tick       int
	score      int
	finalScore int
	seq        uint64

	width  float64
	height float64
	player object.Player

	store    *object.Store
	spawner  *object.EnemySpawner
	detector *Detector

	lastShotAt int64 // Unix nanoseconds of the last accepted shot
	hasShot    bool

	kills   []Hit // Resolved since the last Snapshot
	dropped []uint64
}

// NewEngine creates an idle engine on the default playfield.
func NewEngine(t config.Tuning, opts Options) *Engine {
	t = t.Sanitize()
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	e := &Engine{
		tuning:   t,
		width:    config.DefaultWidth,
		height:   config.DefaultHeight,
		player:   object.NewPlayer(config.DefaultWidth / 2),
		store:    object.NewStore(rng, t.EnemyMargin, t.ProjectileLaunchOffset),
		spawner:  object.NewEnemySpawner(rng, opts.Palette),
		detector: NewDetector(t),
	}
	return e
}

// Tuning returns the sanitized parameters the engine runs with.
func (e *Engine) Tuning() config.Tuning {
	return e.tuning
}

// State returns the current phase.
func (e *Engine) State() State {
	return e.state
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// TickCount returns the ticks elapsed in the current run.
func (e *Engine) TickCount() int {
	return e.tick
}

// SetPlayfield updates the field size. Unusable dimensions fall back to the
// default size and oversized ones are capped at config.MaxPlayfield. The
// player is clamped into the new bounds.
func (e *Engine) SetPlayfield(width, height float64) {
	if !usable(width) {
		width = config.DefaultWidth
	}
	if !usable(height) {
		height = config.DefaultHeight
	}
	width = min(width, config.MaxPlayfield)
	height = min(height, config.MaxPlayfield)
	e.width = width
	e.height = height
	e.player.X = e.clampPointer(e.player.X)
}

// Playfield returns the current field size.
func (e *Engine) Playfield() (width, height float64) {
	return e.width, e.height
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (e *Engine) clampPointer(x float64) float64 {
	return physics.Clamp(x, e.tuning.PlayerMargin, e.width-e.tuning.PlayerMargin)
}

// Tick advances the simulation by one step. It returns false, doing
// nothing, unless the engine is Running.
func (e *Engine) Tick() bool {
	if e.state != StateRunning {
		return false
	}

	e.tick++
	diff := Curve(e.score, e.tuning)

	e.spawner.Update(e.tick, diff.SpawnInterval, e.width, e.store)

	e.dropped = e.store.Advance(diff.EnemySpeed, e.tuning.ProjectileSpeed, e.height, e.dropped[:0])
	e.detector.Forget(nil, e.dropped)

	limit := e.tuning.BreachFraction * e.height
	for _, en := range e.store.Enemies() {
		if en.Y >= limit {
			e.gameOver()
			return true
		}
	}

	res := e.detector.Detect(e.store.Projectiles(), e.store.Enemies(), e.width, e.height)
	if len(res.Hits) > 0 {
		e.store.Remove(res.EnemyIDs, res.ProjectileIDs)
		e.detector.Forget(res.EnemyIDs, res.ProjectileIDs)
		e.score += len(res.Hits) * e.tuning.PerKillScore
		e.kills = append(e.kills, res.Hits...)
	}

	e.detector.Sweep(e.tick, e.store.Enemies(), e.store.Projectiles())
	return true
}

func (e *Engine) gameOver() {
	e.state = StateGameOver
	e.finalScore = e.score
}
