// Package config centralizes all tunable game parameters.
package config

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/retrodefender/internal/config"
)

// Playfield fallback used when the host reports no usable size, and the
// largest size a host may request.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	MaxPlayfield  = 20000.0
)

// Difficulty curve
const (
	BaseSpeed          = 2.0 // Enemy units per tick at score 0
	SpeedStepScore     = 50  // Score per speed step
	SpeedStepIncrement = 0.2 // Multiplier added per speed step
	BaseSpawnInterval  = 60  // Ticks between spawns at score 0
	SpawnStepScore     = 100 // Score per spawn-rate step
	SpawnStepDecrease  = 5   // Ticks removed per spawn-rate step
	MinSpawnInterval   = 20  // Fastest spawn rate
)

// Entities
const (
	ProjectileSpeed        = 8.0  // Offset units per tick
	ProjectileLaunchOffset = 60.0 // Offset from the bottom edge at fire time
	EnemyMargin            = 40.0 // Horizontal spawn margin
	PlayerMargin           = 20.0 // Pointer clamp margin
)

// Scoring and collisions
const (
	PerKillScore         = 10
	HitRadius            = 20.0
	CollisionMemoryTicks = 120
	BreachFraction       = 0.9
	CelebrateScore       = 50 // Final scores above this get a celebration
)

// Input
const (
	ShotCooldown = 150 * time.Millisecond
	KeyNudge     = 24.0 // Pointer units moved per arrow-key press
)

// Tick rate
const (
	TickRate     = 60
	TickInterval = time.Second / TickRate
)

// Terminal client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 160
	MaxTermHeight         = 60
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// MemoryPolicy selects how resolved collision pairs are forgotten.
type MemoryPolicy string

const (
	// MemoryLifetime forgets a pair once either entity leaves the store.
	MemoryLifetime MemoryPolicy = "lifetime"
	// MemoryEpoch forgets every pair each CollisionMemoryTicks ticks.
	MemoryEpoch MemoryPolicy = "epoch"
)

// Tuning is the full parameter set of one engine instance.
type Tuning struct {
	BaseSpeed          float64
	SpeedStepScore     int
	SpeedStepIncrement float64
	BaseSpawnInterval  int
	SpawnStepScore     int
	SpawnStepDecrease  int
	MinSpawnInterval   int

	ProjectileSpeed        float64
	ProjectileLaunchOffset float64
	EnemyMargin            float64
	PlayerMargin           float64

	PerKillScore         int
	HitRadius            float64
	CollisionMemoryTicks int
	MemoryPolicy         MemoryPolicy
	BreachFraction       float64
	CelebrateScore       int

	ShotCooldown time.Duration
	TickInterval time.Duration
}

// DefaultTuning returns the stock parameters.
func DefaultTuning() Tuning {
	return Tuning{
		BaseSpeed:              BaseSpeed,
		SpeedStepScore:         SpeedStepScore,
		SpeedStepIncrement:     SpeedStepIncrement,
		BaseSpawnInterval:      BaseSpawnInterval,
		SpawnStepScore:         SpawnStepScore,
		SpawnStepDecrease:      SpawnStepDecrease,
		MinSpawnInterval:       MinSpawnInterval,
		ProjectileSpeed:        ProjectileSpeed,
		ProjectileLaunchOffset: ProjectileLaunchOffset,
		EnemyMargin:            EnemyMargin,
		PlayerMargin:           PlayerMargin,
		PerKillScore:           PerKillScore,
		HitRadius:              HitRadius,
		CollisionMemoryTicks:   CollisionMemoryTicks,
		MemoryPolicy:           MemoryLifetime,
		BreachFraction:         BreachFraction,
		CelebrateScore:         CelebrateScore,
		ShotCooldown:           ShotCooldown,
		TickInterval:           TickInterval,
	}
}

// Sanitize replaces unusable values with their defaults.
func (t Tuning) Sanitize() Tuning {
	d := DefaultTuning()
	posF := func(v *float64, def float64) {
		if !(*v > 0) || math.IsInf(*v, 0) {
			*v = def
		}
	}
	posI := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}

	posF(&t.BaseSpeed, d.BaseSpeed)
	posI(&t.SpeedStepScore, d.SpeedStepScore)
	if t.SpeedStepIncrement < 0 || math.IsNaN(t.SpeedStepIncrement) {
		t.SpeedStepIncrement = d.SpeedStepIncrement
	}
	posI(&t.BaseSpawnInterval, d.BaseSpawnInterval)
	posI(&t.SpawnStepScore, d.SpawnStepScore)
	if t.SpawnStepDecrease < 0 {
		t.SpawnStepDecrease = d.SpawnStepDecrease
	}
	posI(&t.MinSpawnInterval, d.MinSpawnInterval)
	if t.MinSpawnInterval > t.BaseSpawnInterval {
		t.MinSpawnInterval = t.BaseSpawnInterval
	}

	posF(&t.ProjectileSpeed, d.ProjectileSpeed)
	posF(&t.ProjectileLaunchOffset, d.ProjectileLaunchOffset)
	if t.EnemyMargin < 0 || math.IsNaN(t.EnemyMargin) {
		t.EnemyMargin = d.EnemyMargin
	}
	if t.PlayerMargin < 0 || math.IsNaN(t.PlayerMargin) {
		t.PlayerMargin = d.PlayerMargin
	}

	posI(&t.PerKillScore, d.PerKillScore)
	posF(&t.HitRadius, d.HitRadius)
	posI(&t.CollisionMemoryTicks, d.CollisionMemoryTicks)
	if t.MemoryPolicy != MemoryLifetime && t.MemoryPolicy != MemoryEpoch {
		t.MemoryPolicy = d.MemoryPolicy
	}
	if !(t.BreachFraction > 0 && t.BreachFraction <= 1) {
		t.BreachFraction = d.BreachFraction
	}
	if t.CelebrateScore < 0 {
		t.CelebrateScore = d.CelebrateScore
	}

	if t.ShotCooldown < 0 {
		t.ShotCooldown = d.ShotCooldown
	}
	if t.TickInterval <= 0 {
		t.TickInterval = d.TickInterval
	}
	return t
}

// LoadTuning reads DEFENDER_* overrides on top of the defaults.
// Malformed values are logged and left at their default.
func LoadTuning(logger *log.Logger) Tuning {
	if logger == nil {
		logger = log.Default()
	}
	t := DefaultTuning()

	warn := func(err error) {
		if err != nil {
			logger.Warn("tuning override ignored (using default)", "err", err)
		}
	}
	f := func(key string, dst *float64) {
		v, err := config.GetEnvFloat(key, *dst)
		warn(err)
		*dst = v
	}
	i := func(key string, dst *int) {
		v, err := config.GetEnvInt(key, *dst)
		warn(err)
		*dst = v
	}
	d := func(key string, dst *time.Duration) {
		v, err := config.GetEnvDuration(key, *dst)
		warn(err)
		*dst = v
	}

	f("DEFENDER_BASE_SPEED", &t.BaseSpeed)
	i("DEFENDER_SPEED_STEP_SCORE", &t.SpeedStepScore)
	f("DEFENDER_SPEED_STEP_INCREMENT", &t.SpeedStepIncrement)
	i("DEFENDER_BASE_SPAWN_INTERVAL", &t.BaseSpawnInterval)
	i("DEFENDER_SPAWN_STEP_SCORE", &t.SpawnStepScore)
	i("DEFENDER_SPAWN_STEP_DECREASE", &t.SpawnStepDecrease)
	i("DEFENDER_MIN_SPAWN_INTERVAL", &t.MinSpawnInterval)
	f("DEFENDER_PROJECTILE_SPEED", &t.ProjectileSpeed)
	i("DEFENDER_PER_KILL_SCORE", &t.PerKillScore)
	f("DEFENDER_HIT_RADIUS", &t.HitRadius)
	i("DEFENDER_COLLISION_MEMORY_TICKS", &t.CollisionMemoryTicks)
	f("DEFENDER_BREACH_FRACTION", &t.BreachFraction)
	d("DEFENDER_SHOT_COOLDOWN", &t.ShotCooldown)
	d("DEFENDER_TICK_INTERVAL", &t.TickInterval)
	t.MemoryPolicy = MemoryPolicy(config.GetEnv("DEFENDER_COLLISION_MEMORY", string(t.MemoryPolicy)))

	return t.Sanitize()
}
