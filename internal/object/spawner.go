package object

import "math/rand"

// EnemySpawner releases one enemy every interval ticks.
type EnemySpawner struct {
	palette []Category
	rng     *rand.Rand
}

// NewEnemySpawner creates a spawner drawing categories from palette.
// An empty palette falls back to Palette.
func NewEnemySpawner(rng *rand.Rand, palette []Category) *EnemySpawner {
	if len(palette) == 0 {
		palette = Palette
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &EnemySpawner{
		palette: palette,
		rng:     rng,
	}
}

// Update spawns a single enemy into store when tick is a multiple of interval.
func (s *EnemySpawner) Update(tick, interval int, width float64, store *Store) (Enemy, bool) {
	if interval <= 0 || tick%interval != 0 {
		return Enemy{}, false
	}
	category := s.palette[s.rng.Intn(len(s.palette))]
	return store.SpawnEnemy(width, category), true
}
