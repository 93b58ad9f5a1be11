package object

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect. Particles exist only on the
// rendering side; the engine never sees them.
type Particle struct {
	X, Y        float64 // Position in playfield units
	VX, VY      float64 // Velocity in units per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update moves the particle. Returns true once it has expired.
func (p *Particle) Update(delta time.Duration) bool {
	dt := delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Draw renders the particle as a pixel, skipping it once mostly faded.
func (p *Particle) Draw(ctx DrawContext) {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return
	}
	ctx.Canvas.SetFloat(p.X, p.Y)
}

// Effects is a set of live particles.
type Effects struct {
	particles []*Particle
	rng       *rand.Rand
}

// NewEffects creates an empty effect set.
func NewEffects(rng *rand.Rand) *Effects {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Effects{rng: rng}
}

// Explode adds a circular burst of count particles at (x, y).
func (fx *Effects) Explode(x, y float64, count int, speed, lifetime float64) {
	for i := 0; i < count; i++ {
		angle := fx.rng.Float64() * 2 * math.Pi
		// Speed varies 50% to 150%, lifetime 50% to 100%
		spd := speed * (0.5 + fx.rng.Float64())
		life := lifetime * (0.5 + fx.rng.Float64()*0.5)

		fx.particles = append(fx.particles, NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update advances all particles and releases expired ones.
func (fx *Effects) Update(delta time.Duration) {
	kept := fx.particles[:0]
	for _, p := range fx.particles {
		if p.Update(delta) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(fx.particles[len(kept):])
	fx.particles = kept
}

// Draw renders every live particle.
func (fx *Effects) Draw(ctx DrawContext) {
	for _, p := range fx.particles {
		p.Draw(ctx)
	}
}

// Len returns the number of live particles.
func (fx *Effects) Len() int {
	return len(fx.particles)
}

// Reset releases every particle.
func (fx *Effects) Reset() {
	for _, p := range fx.particles {
		p.Release()
	}
	clear(fx.particles)
	fx.particles = fx.particles[:0]
}
