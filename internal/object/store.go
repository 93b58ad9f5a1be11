package object

import (
	"math/rand"
	"slices"
)

// Store owns the live enemies and projectiles of one run and assigns their
// identities. Both slices stay in creation order, which is ascending id.
// A Store is not safe for concurrent use.
type Store struct {
	enemies     []Enemy
	projectiles []Projectile

	nextEnemyID      uint64
	nextProjectileID uint64

	rng          *rand.Rand
	enemyMargin  float64
	launchOffset float64
}

// NewStore creates an empty store. rng drives enemy placement.
func NewStore(rng *rand.Rand, enemyMargin, launchOffset float64) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Store{
		rng:          rng,
		enemyMargin:  enemyMargin,
		launchOffset: launchOffset,
	}
}

// Enemies returns the live enemies. The slice is owned by the store and is
// only valid until the next mutating call.
func (s *Store) Enemies() []Enemy {
	return s.enemies
}

// Projectiles returns the live projectiles, see Enemies.
func (s *Store) Projectiles() []Projectile {
	return s.projectiles
}

// SpawnEnemy adds an enemy at the top edge with a random X inside the margins.
func (s *Store) SpawnEnemy(width float64, category Category) Enemy {
	s.nextEnemyID++

	lo, hi := s.enemyMargin, width-s.enemyMargin
	x := width / 2
	if hi > lo {
		x = lo + s.rng.Float64()*(hi-lo)
	}

	e := Enemy{
		ID:       s.nextEnemyID,
		X:        x,
		Y:        0,
		Category: category,
	}
	s.enemies = append(s.enemies, e)
	return e
}

// SpawnProjectile adds a projectile just above the ship at originX.
func (s *Store) SpawnProjectile(originX float64) Projectile {
	s.nextProjectileID++
	p := Projectile{
		ID:     s.nextProjectileID,
		X:      originX,
		Offset: s.launchOffset,
	}
	s.projectiles = append(s.projectiles, p)
	return p
}

// Advance moves every enemy down by enemySpeed and every projectile up by
// projectileSpeed. Projectiles whose offset exceeds height are dropped and
// their ids appended to dropped. Enemies are never dropped here.
func (s *Store) Advance(enemySpeed, projectileSpeed, height float64, dropped []uint64) []uint64 {
	for i := range s.enemies {
		s.enemies[i].Y += enemySpeed
	}

	kept := s.projectiles[:0] // reuse backing array
	for _, p := range s.projectiles {
		p.Offset += projectileSpeed
		if p.Offset > height {
			dropped = append(dropped, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	clear(s.projectiles[len(kept):])
	s.projectiles = kept

	return dropped
}

// Remove deletes the listed entities. Unknown ids are ignored.
func (s *Store) Remove(enemyIDs, projectileIDs []uint64) {
	if len(enemyIDs) > 0 {
		s.enemies = slices.DeleteFunc(s.enemies, func(e Enemy) bool {
			return slices.Contains(enemyIDs, e.ID)
		})
	}
	if len(projectileIDs) > 0 {
		s.projectiles = slices.DeleteFunc(s.projectiles, func(p Projectile) bool {
			return slices.Contains(projectileIDs, p.ID)
		})
	}
}

// Reset removes all entities. Identity counters keep running so ids are
// never reused by the same store.
func (s *Store) Reset() {
	clear(s.enemies)
	s.enemies = s.enemies[:0]
	clear(s.projectiles)
	s.projectiles = s.projectiles[:0]
}

// AppendEnemies appends copies of the live enemies to dst.
func (s *Store) AppendEnemies(dst []Enemy) []Enemy {
	return append(dst, s.enemies...)
}

// AppendProjectiles appends copies of the live projectiles to dst.
func (s *Store) AppendProjectiles(dst []Projectile) []Projectile {
	return append(dst, s.projectiles...)
}
