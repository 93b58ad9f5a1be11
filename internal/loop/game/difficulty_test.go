package game

import (
	"math"
	"testing"

	"github.com/tomz197/retrodefender/internal/loop/config"
)

func TestCurve(t *testing.T) {
	tests := []struct {
		score    int
		speed    float64
		interval int
	}{
		{score: 0, speed: 2, interval: 60},
		{score: 49, speed: 2, interval: 60},
		{score: 50, speed: 2.4, interval: 60},
		{score: 120, speed: 2.8, interval: 55},
		{score: 800, speed: 8.4, interval: 20},
		{score: 5000, speed: 42, interval: 20},
		{score: -30, speed: 2, interval: 60},
	}
	tuning := config.DefaultTuning()
	for _, tt := range tests {
		got := Curve(tt.score, tuning)
		if math.Abs(got.EnemySpeed-tt.speed) > 1e-9 {
			t.Errorf("Curve(%d).EnemySpeed = %v, want %v", tt.score, got.EnemySpeed, tt.speed)
		}
		if got.SpawnInterval != tt.interval {
			t.Errorf("Curve(%d).SpawnInterval = %d, want %d", tt.score, got.SpawnInterval, tt.interval)
		}
	}
}

func TestCurveMultiplierAtScore120(t *testing.T) {
	got := Curve(120, config.DefaultTuning())
	if math.Abs(got.SpeedMultiplier-1.4) > 1e-9 {
		t.Fatalf("SpeedMultiplier = %v, want 1.4", got.SpeedMultiplier)
	}
}

func TestCurveMonotonic(t *testing.T) {
	tuning := config.DefaultTuning()
	prev := Curve(0, tuning)
	for score := 10; score <= 2000; score += 10 {
		cur := Curve(score, tuning)
		if cur.EnemySpeed < prev.EnemySpeed {
			t.Fatalf("speed decreased at score %d", score)
		}
		if cur.SpawnInterval > prev.SpawnInterval || cur.SpawnInterval < tuning.MinSpawnInterval {
			t.Fatalf("interval %d out of order at score %d", cur.SpawnInterval, score)
		}
		prev = cur
	}
}
