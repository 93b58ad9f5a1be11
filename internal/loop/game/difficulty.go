package game

import "github.com/tomz197/retrodefender/internal/loop/config"

// Difficulty is the escalation level derived from the current score.
type Difficulty struct {
	SpeedMultiplier float64 `json:"speedMultiplier"`
	EnemySpeed      float64 `json:"enemySpeed"`    // Units per tick
	SpawnInterval   int     `json:"spawnInterval"` // Ticks between spawns
}

// Curve maps a score to its difficulty. Negative scores count as zero.
func Curve(score int, t config.Tuning) Difficulty {
	if score < 0 {
		score = 0
	}
	mult := 1 + float64(score/t.SpeedStepScore)*t.SpeedStepIncrement
	interval := max(t.MinSpawnInterval, t.BaseSpawnInterval-(score/t.SpawnStepScore)*t.SpawnStepDecrease)
	return Difficulty{
		SpeedMultiplier: mult,
		EnemySpeed:      t.BaseSpeed * mult,
		SpawnInterval:   interval,
	}
}
