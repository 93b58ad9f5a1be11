package config

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestSanitizeRestoresDefaults(t *testing.T) {
	bad := Tuning{
		BaseSpeed:            -1,
		SpeedStepScore:       0,
		SpeedStepIncrement:   math.NaN(),
		BaseSpawnInterval:    10,
		MinSpawnInterval:     30,
		HitRadius:            0,
		BreachFraction:       1.5,
		MemoryPolicy:         "sometimes",
		TickInterval:         0,
		ShotCooldown:         -time.Second,
		CollisionMemoryTicks: -4,
	}
	got := bad.Sanitize()

	if got.BaseSpeed != BaseSpeed {
		t.Errorf("BaseSpeed = %v, want %v", got.BaseSpeed, BaseSpeed)
	}
	if got.SpeedStepScore != SpeedStepScore {
		t.Errorf("SpeedStepScore = %v, want %v", got.SpeedStepScore, SpeedStepScore)
	}
	if got.SpeedStepIncrement != SpeedStepIncrement {
		t.Errorf("SpeedStepIncrement = %v, want %v", got.SpeedStepIncrement, SpeedStepIncrement)
	}
	if got.MinSpawnInterval != 10 {
		t.Errorf("MinSpawnInterval = %d, want it capped to base interval 10", got.MinSpawnInterval)
	}
	if got.HitRadius != HitRadius {
		t.Errorf("HitRadius = %v, want %v", got.HitRadius, HitRadius)
	}
	if got.BreachFraction != BreachFraction {
		t.Errorf("BreachFraction = %v, want %v", got.BreachFraction, BreachFraction)
	}
	if got.MemoryPolicy != MemoryLifetime {
		t.Errorf("MemoryPolicy = %q, want %q", got.MemoryPolicy, MemoryLifetime)
	}
	if got.TickInterval != TickInterval {
		t.Errorf("TickInterval = %v, want %v", got.TickInterval, TickInterval)
	}
	if got.ShotCooldown != ShotCooldown {
		t.Errorf("ShotCooldown = %v, want %v", got.ShotCooldown, ShotCooldown)
	}
	if got.CollisionMemoryTicks != CollisionMemoryTicks {
		t.Errorf("CollisionMemoryTicks = %v, want %v", got.CollisionMemoryTicks, CollisionMemoryTicks)
	}
}

func TestDefaultTuningIsStable(t *testing.T) {
	d := DefaultTuning()
	if d != d.Sanitize() {
		t.Fatalf("Sanitize changed the default tuning: %+v", d.Sanitize())
	}
}

func TestLoadTuningOverrides(t *testing.T) {
	t.Setenv("DEFENDER_BASE_SPEED", "3")
	t.Setenv("DEFENDER_SHOT_COOLDOWN", "200ms")
	t.Setenv("DEFENDER_COLLISION_MEMORY", "epoch")
	t.Setenv("DEFENDER_PER_KILL_SCORE", "ten")

	logger := log.New(io.Discard)
	got := LoadTuning(logger)

	if got.BaseSpeed != 3 {
		t.Errorf("BaseSpeed = %v, want 3", got.BaseSpeed)
	}
	if got.ShotCooldown != 200*time.Millisecond {
		t.Errorf("ShotCooldown = %v, want 200ms", got.ShotCooldown)
	}
	if got.MemoryPolicy != MemoryEpoch {
		t.Errorf("MemoryPolicy = %q, want %q", got.MemoryPolicy, MemoryEpoch)
	}
	if got.PerKillScore != PerKillScore {
		t.Errorf("PerKillScore = %d, want default %d after malformed override", got.PerKillScore, PerKillScore)
	}
}
