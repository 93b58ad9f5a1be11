package object

import (
	"math/rand"
	"testing"
	"time"
)

func newTestStore() *Store {
	return NewStore(rand.New(rand.NewSource(1)), 40, 60)
}

func TestSpawnEnemyWithinMargins(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 200; i++ {
		e := s.SpawnEnemy(800, Palette[0])
		if e.X < 40 || e.X > 760 {
			t.Fatalf("enemy %d x = %v, want within [40, 760]", e.ID, e.X)
		}
		if e.Y != 0 {
			t.Fatalf("enemy %d y = %v, want 0", e.ID, e.Y)
		}
	}
}

func TestSpawnEnemyNarrowFieldUsesCentre(t *testing.T) {
	s := newTestStore()
	e := s.SpawnEnemy(60, Palette[1])
	if e.X != 30 {
		t.Fatalf("x on narrow field = %v, want 30", e.X)
	}
}

func TestIdentitiesAreMonotonicAndUnique(t *testing.T) {
	s := newTestStore()
	seen := map[uint64]bool{}
	var last uint64
	for i := 0; i < 10; i++ {
		e := s.SpawnEnemy(800, Palette[2])
		if e.ID <= last || seen[e.ID] {
			t.Fatalf("enemy id %d not fresh (last %d)", e.ID, last)
		}
		seen[e.ID] = true
		last = e.ID
	}

	s.Reset()
	e := s.SpawnEnemy(800, Palette[2])
	if e.ID <= last {
		t.Fatalf("id after Reset = %d, want > %d", e.ID, last)
	}

	p1 := s.SpawnProjectile(100)
	p2 := s.SpawnProjectile(100)
	if p2.ID <= p1.ID {
		t.Fatalf("projectile ids not increasing: %d then %d", p1.ID, p2.ID)
	}
	if p1.X != 100 || p1.Offset != 60 {
		t.Fatalf("projectile = %+v, want x=100 offset=60", p1)
	}
}

func TestAdvanceMovesAndDropsProjectiles(t *testing.T) {
	s := newTestStore()
	e := s.SpawnEnemy(800, Palette[0])
	s.SpawnProjectile(100)
	s.projectiles[0].Offset = 595
	keep := s.SpawnProjectile(200)

	dropped := s.Advance(2.8, 8, 600, nil)

	if len(dropped) != 1 {
		t.Fatalf("dropped = %v, want one projectile", dropped)
	}
	if got := s.Enemies()[0].Y; got != e.Y+2.8 {
		t.Fatalf("enemy y = %v, want %v", got, e.Y+2.8)
	}
	ps := s.Projectiles()
	if len(ps) != 1 || ps[0].ID != keep.ID || ps[0].Offset != 68 {
		t.Fatalf("projectiles = %+v, want only %d at offset 68", ps, keep.ID)
	}
}

func TestAdvanceNeverDropsEnemies(t *testing.T) {
	s := newTestStore()
	s.SpawnEnemy(800, Palette[0])
	s.enemies[0].Y = 10_000

	s.Advance(2, 8, 600, nil)
	if len(s.Enemies()) != 1 {
		t.Fatalf("enemy below the field was dropped")
	}
}

func TestProjectileAtExactHeightSurvives(t *testing.T) {
	s := newTestStore()
	s.SpawnProjectile(100)
	s.projectiles[0].Offset = 592

	if dropped := s.Advance(2, 8, 600, nil); len(dropped) != 0 {
		t.Fatalf("projectile at offset == height dropped: %v", dropped)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore()
	a := s.SpawnEnemy(800, Palette[0])
	b := s.SpawnEnemy(800, Palette[1])
	p := s.SpawnProjectile(10)
	q := s.SpawnProjectile(20)

	s.Remove([]uint64{a.ID, 999}, []uint64{q.ID})

	if es := s.Enemies(); len(es) != 1 || es[0].ID != b.ID {
		t.Fatalf("enemies = %+v, want only %d", es, b.ID)
	}
	if ps := s.Projectiles(); len(ps) != 1 || ps[0].ID != p.ID {
		t.Fatalf("projectiles = %+v, want only %d", ps, p.ID)
	}
}

func TestAppendCopiesDoNotAlias(t *testing.T) {
	s := newTestStore()
	s.SpawnEnemy(800, Palette[0])
	snap := s.AppendEnemies(nil)

	s.Advance(5, 8, 600, nil)
	if snap[0].Y != 0 {
		t.Fatalf("copied enemy changed with the store: y = %v", snap[0].Y)
	}
}

func TestSpawnerOnlyOnInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore(rng, 40, 60)
	sp := NewEnemySpawner(rng, nil)

	spawned := 0
	for tick := 1; tick <= 180; tick++ {
		if _, ok := sp.Update(tick, 60, 800, s); ok {
			spawned++
			if tick%60 != 0 {
				t.Fatalf("spawned on tick %d", tick)
			}
		}
	}
	if spawned != 3 || len(s.Enemies()) != 3 {
		t.Fatalf("spawned %d enemies (store has %d), want 3", spawned, len(s.Enemies()))
	}

	if _, ok := sp.Update(60, 0, 800, s); ok {
		t.Fatalf("spawned with a zero interval")
	}
}

func TestSpawnerUsesWholePalette(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewStore(rng, 40, 60)
	sp := NewEnemySpawner(rng, Palette)

	counts := map[string]int{}
	for tick := 1; tick <= 400; tick++ {
		if e, ok := sp.Update(tick, 1, 800, s); ok {
			counts[e.Category.Name]++
		}
	}
	for _, c := range Palette {
		if counts[c.Name] == 0 {
			t.Errorf("category %s never spawned in 400 draws", c.Name)
		}
	}
}

func TestEffectsExpire(t *testing.T) {
	fx := NewEffects(rand.New(rand.NewSource(1)))
	fx.Explode(100, 100, 12, 200, 0.5)
	if fx.Len() != 12 {
		t.Fatalf("live particles = %d, want 12", fx.Len())
	}
	fx.Update(100 * time.Millisecond)
	if fx.Len() != 12 {
		t.Fatalf("particles expired too early: %d left", fx.Len())
	}
	fx.Update(time.Second)
	if fx.Len() != 0 {
		t.Fatalf("particles alive after their lifetime: %d", fx.Len())
	}
}
