package game

import (
	"testing"

	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/object"
)

const fieldW, fieldH = 800.0, 600.0

// projectileAt builds a projectile whose top-down Y equals y.
func projectileAt(id uint64, x, y float64) object.Projectile {
	return object.Projectile{ID: id, X: x, Offset: fieldH - y}
}

func TestDetectSingleHit(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	projectiles := []object.Projectile{projectileAt(1, 100, 300)}
	enemies := []object.Enemy{{ID: 7, X: 105, Y: 310}}

	res := d.Detect(projectiles, enemies, fieldW, fieldH)
	if len(res.Hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(res.Hits))
	}
	if h := res.Hits[0]; h.ProjectileID != 1 || h.EnemyID != 7 {
		t.Fatalf("hit = %+v, want projectile 1 on enemy 7", h)
	}
}

func TestDetectBoxIsStrict(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	tests := []struct {
		name   string
		ex, ey float64
		hit    bool
	}{
		{"inside", 119, 319, true},
		{"dx on edge", 120, 300, false},
		{"dy on edge", 100, 320, false},
		{"far", 400, 100, false},
		{"diagonal corner inside box", 118, 282, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.Reset()
			res := d.Detect(
				[]object.Projectile{projectileAt(1, 100, 300)},
				[]object.Enemy{{ID: 1, X: tt.ex, Y: tt.ey}},
				fieldW, fieldH,
			)
			if got := len(res.Hits) == 1; got != tt.hit {
				t.Fatalf("hit = %v, want %v", got, tt.hit)
			}
		})
	}
}

func TestDetectFirstFoundWins(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	// Both projectiles overlap both enemies.
	projectiles := []object.Projectile{projectileAt(1, 100, 300), projectileAt(2, 102, 300)}
	enemies := []object.Enemy{{ID: 3, X: 104, Y: 302}, {ID: 4, X: 98, Y: 298}}

	res := d.Detect(projectiles, enemies, fieldW, fieldH)
	if len(res.Hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(res.Hits))
	}
	if res.Hits[0].ProjectileID != 1 || res.Hits[0].EnemyID != 3 {
		t.Fatalf("first hit = %+v, want 1 -> 3", res.Hits[0])
	}
	if res.Hits[1].ProjectileID != 2 || res.Hits[1].EnemyID != 4 {
		t.Fatalf("second hit = %+v, want 2 -> 4", res.Hits[1])
	}
}

func TestDetectEnemyResolvesOnce(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	projectiles := []object.Projectile{projectileAt(1, 100, 300), projectileAt(2, 101, 301)}
	enemies := []object.Enemy{{ID: 9, X: 100, Y: 300}}

	res := d.Detect(projectiles, enemies, fieldW, fieldH)
	if len(res.Hits) != 1 || res.Hits[0].ProjectileID != 1 {
		t.Fatalf("hits = %+v, want only projectile 1", res.Hits)
	}
}

func TestDetectMatchesNestedLoop(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	var projectiles []object.Projectile
	var enemies []object.Enemy
	for i := 0; i < 30; i++ {
		projectiles = append(projectiles, projectileAt(uint64(i+1), float64(37*i%800), float64(53*i%600)))
		enemies = append(enemies, object.Enemy{ID: uint64(i + 1), X: float64(41*i%800) + 3, Y: float64(29*i%600) + 5})
	}

	want := nestedLoop(projectiles, enemies, config.HitRadius)
	res := d.Detect(projectiles, enemies, fieldW, fieldH)
	if len(res.Hits) != len(want) {
		t.Fatalf("hits = %d, want %d", len(res.Hits), len(want))
	}
	for i := range want {
		if res.Hits[i].ProjectileID != want[i].projectile || res.Hits[i].EnemyID != want[i].enemy {
			t.Fatalf("hit %d = %+v, want %+v", i, res.Hits[i], want[i])
		}
	}
}

func nestedLoop(projectiles []object.Projectile, enemies []object.Enemy, r float64) []pair {
	used := make(map[uint64]bool)
	var out []pair
	for _, p := range projectiles {
		py := p.Y(fieldH)
		for _, e := range enemies {
			if used[e.ID] {
				continue
			}
			dx, dy := p.X-e.X, py-e.Y
			if dx > -r && dx < r && dy > -r && dy < r {
				used[e.ID] = true
				out = append(out, pair{p.ID, e.ID})
				break
			}
		}
	}
	return out
}

func TestDetectOutsideFieldStillFound(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	res := d.Detect(
		[]object.Projectile{projectileAt(1, 795, 10)},
		[]object.Enemy{{ID: 1, X: 810, Y: 12}},
		fieldW, fieldH,
	)
	if len(res.Hits) != 1 {
		t.Fatalf("hits = %d, want 1 for enemy past the right edge", len(res.Hits))
	}
}

func TestPairCreditedOnce(t *testing.T) {
	d := NewDetector(config.DefaultTuning())
	projectiles := []object.Projectile{projectileAt(1, 100, 300)}
	enemies := []object.Enemy{{ID: 1, X: 100, Y: 300}}

	if res := d.Detect(projectiles, enemies, fieldW, fieldH); len(res.Hits) != 1 {
		t.Fatalf("first detect hits = %d, want 1", len(res.Hits))
	}
	if res := d.Detect(projectiles, enemies, fieldW, fieldH); len(res.Hits) != 0 {
		t.Fatalf("recorded pair resolved again")
	}
}

func TestMemoryPolicies(t *testing.T) {
	projectiles := []object.Projectile{projectileAt(1, 100, 300)}
	enemies := []object.Enemy{{ID: 1, X: 100, Y: 300}}

	t.Run("lifetime", func(t *testing.T) {
		d := NewDetector(config.DefaultTuning())
		d.Detect(projectiles, enemies, fieldW, fieldH)

		// Both still live: the sweep keeps the record.
		d.Sweep(config.CollisionMemoryTicks, enemies, projectiles)
		if d.Remembered() != 1 {
			t.Fatalf("Remembered = %d after sweep with live pair, want 1", d.Remembered())
		}
		d.Forget([]uint64{1}, nil)
		if d.Remembered() != 0 {
			t.Fatalf("Remembered = %d after enemy left, want 0", d.Remembered())
		}
	})

	t.Run("lifetime sweep drops gone entities", func(t *testing.T) {
		d := NewDetector(config.DefaultTuning())
		d.Detect(projectiles, enemies, fieldW, fieldH)
		d.Sweep(config.CollisionMemoryTicks-1, nil, nil)
		if d.Remembered() != 1 {
			t.Fatalf("sweep ran off schedule")
		}
		d.Sweep(config.CollisionMemoryTicks, nil, nil)
		if d.Remembered() != 0 {
			t.Fatalf("Remembered = %d, want 0", d.Remembered())
		}
	})

	t.Run("epoch", func(t *testing.T) {
		tuning := config.DefaultTuning()
		tuning.MemoryPolicy = config.MemoryEpoch
		d := NewDetector(tuning)
		d.Detect(projectiles, enemies, fieldW, fieldH)

		d.Forget([]uint64{1}, []uint64{1})
		if d.Remembered() != 1 {
			t.Fatalf("epoch policy forgot on removal")
		}
		d.Sweep(2*config.CollisionMemoryTicks, enemies, projectiles)
		if d.Remembered() != 0 {
			t.Fatalf("epoch sweep kept %d records", d.Remembered())
		}
	})
}
