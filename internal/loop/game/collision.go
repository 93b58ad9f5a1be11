package game

import (
	"slices"

	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/object"
	"github.com/tomz197/retrodefender/internal/physics"
)

// Hit is one resolved projectile/enemy collision.
type Hit struct {
	ProjectileID uint64          `json:"projectileId"`
	EnemyID      uint64          `json:"enemyId"`
	X            float64         `json:"x"` // Enemy position at impact
	Y            float64         `json:"y"`
	Category     object.Category `json:"category"`
}

// Result lists the collisions of one Detect call. The slices are reused by
// the detector and stay valid until the next Detect.
type Result struct {
	Hits          []Hit
	EnemyIDs      []uint64
	ProjectileIDs []uint64
}

type pair struct {
	projectile uint64
	enemy      uint64
}

// Detector resolves projectile/enemy collisions and remembers which pairs
// were already credited.
type Detector struct {
	radius      float64
	policy      config.MemoryPolicy
	memoryTicks int

	resolved map[pair]struct{}

	// Reused between calls
	grid     *physics.SpatialGrid
	enemyHit []bool
	result   Result
}

// NewDetector creates a detector for the given tuning.
func NewDetector(t config.Tuning) *Detector {
	return &Detector{
		radius:      t.HitRadius,
		policy:      t.MemoryPolicy,
		memoryTicks: t.CollisionMemoryTicks,
		resolved:    make(map[pair]struct{}),
		grid:        physics.NewSpatialGrid(config.DefaultWidth, config.DefaultHeight, t.HitRadius),
	}
}

// Detect finds the collisions between projectiles and enemies on a field of
// the given size. Both slices must be in ascending id order. The earliest
// projectile claims the earliest enemy it overlaps; each entity resolves at
// most once per call and recorded pairs never resolve again.
func (d *Detector) Detect(projectiles []object.Projectile, enemies []object.Enemy, width, height float64) Result {
	d.result.Hits = d.result.Hits[:0]
	d.result.EnemyIDs = d.result.EnemyIDs[:0]
	d.result.ProjectileIDs = d.result.ProjectileIDs[:0]
	if len(projectiles) == 0 || len(enemies) == 0 {
		return d.result
	}

	// Cell size equal to the hit radius keeps every overlapping pair within
	// the 3x3 neighborhood.
	d.grid.Reset(width, height, d.radius)
	for i, e := range enemies {
		d.grid.Insert(e.X, e.Y, i)
	}
	d.enemyHit = slices.Grow(d.enemyHit[:0], len(enemies))[:len(enemies)]
	clear(d.enemyHit)

	for _, p := range projectiles {
		py := p.Y(height)
		j := d.grid.LowestAround(p.X, py, func(j int) bool {
			if d.enemyHit[j] {
				return false
			}
			e := enemies[j]
			if !physics.WithinBox(p.X, py, e.X, e.Y, d.radius) {
				return false
			}
			_, seen := d.resolved[pair{p.ID, e.ID}]
			return !seen
		})
		if j < 0 {
			continue
		}

		e := enemies[j]
		d.enemyHit[j] = true
		d.resolved[pair{p.ID, e.ID}] = struct{}{}
		d.result.Hits = append(d.result.Hits, Hit{
			ProjectileID: p.ID,
			EnemyID:      e.ID,
			X:            e.X,
			Y:            e.Y,
			Category:     e.Category,
		})
		d.result.EnemyIDs = append(d.result.EnemyIDs, e.ID)
		d.result.ProjectileIDs = append(d.result.ProjectileIDs, p.ID)
	}
	return d.result
}

// Forget drops the records of entities that left the store. Under the epoch
// policy records are only dropped by Sweep.
func (d *Detector) Forget(enemyIDs, projectileIDs []uint64) {
	if d.policy != config.MemoryLifetime || len(d.resolved) == 0 {
		return
	}
	if len(enemyIDs) == 0 && len(projectileIDs) == 0 {
		return
	}
	for k := range d.resolved {
		if slices.Contains(enemyIDs, k.enemy) || slices.Contains(projectileIDs, k.projectile) {
			delete(d.resolved, k)
		}
	}
}

// Sweep runs the periodic memory maintenance for tick. It is a no-op unless
// tick is a multiple of the memory interval. The epoch policy forgets
// everything; the lifetime policy drops records whose entities are gone.
func (d *Detector) Sweep(tick int, enemies []object.Enemy, projectiles []object.Projectile) {
	if d.memoryTicks <= 0 || tick%d.memoryTicks != 0 {
		return
	}
	if d.policy == config.MemoryEpoch {
		clear(d.resolved)
		return
	}
	for k := range d.resolved {
		live := slices.ContainsFunc(enemies, func(e object.Enemy) bool { return e.ID == k.enemy }) &&
			slices.ContainsFunc(projectiles, func(p object.Projectile) bool { return p.ID == k.projectile })
		if !live {
			delete(d.resolved, k)
		}
	}
}

// Reset forgets every pair.
func (d *Detector) Reset() {
	clear(d.resolved)
}

// Remembered returns the number of recorded pairs.
func (d *Detector) Remembered() int {
	return len(d.resolved)
}
