package aqua

import (
	"image/color"
	"math"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/go-gl/mathgl/mgl64"
)

// dustSpread is the scatter radius, in blocks, added per unit of size when a
// coloured particle is drawn larger than a single dust mote.
const dustSpread = 0.05

// ParticleOptions configures how many particles are spawned and how they are
// spread around the target position.
type ParticleOptions struct {
	// Count is the number of particles. Values below 1 spawn one particle.
	// Default: 1.
	Count int

	// Offset scales a normally distributed displacement per axis.
	// A zero offset spawns every particle exactly at the position.
	Offset mgl64.Vec3

	// Size is the visual size of coloured particles. Bedrock dust has a fixed
	// size, so sizes above 1 are drawn as a small cluster per particle.
	// Default: 1.
	Size float64
}

// defaultParticleOptions returns the options used when none are passed.
func defaultParticleOptions() ParticleOptions {
	return ParticleOptions{Count: 1, Size: 1}
}

// ParticleOption configures a particle spawn.
type ParticleOption func(*ParticleOptions)

// WithCount sets the number of particles spawned.
func WithCount(n int) ParticleOption {
	return func(o *ParticleOptions) {
		o.Count = n
	}
}

// WithOffset sets the per axis spread of the particles.
func WithOffset(x, y, z float64) ParticleOption {
	return func(o *ParticleOptions) {
		o.Offset = mgl64.Vec3{x, y, z}
	}
}

// WithSize sets the size of coloured particles.
func WithSize(size float64) ParticleOption {
	return func(o *ParticleOptions) {
		o.Size = size
	}
}

func particleOptions(opts []ParticleOption) ParticleOptions {
	o := defaultParticleOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// particleSink receives spawned particles. *world.Tx implements it.
type particleSink interface {
	AddParticle(pos mgl64.Vec3, p world.Particle)
}

// SpawnParticle shows p at pos to every viewer of the world of tx.
//
// Usage:
//
//	aqua.SpawnParticle(tx, particle.Flame{}, pos, aqua.WithCount(10), aqua.WithOffset(0.3, 0.5, 0.3))
func SpawnParticle(tx *world.Tx, p world.Particle, pos mgl64.Vec3, opts ...ParticleOption) {
	spawnParticles(tx, p, pos, particleOptions(opts))
}

// SpawnColouredParticle shows dust of the given colour at pos.
func SpawnColouredParticle(tx *world.Tx, pos mgl64.Vec3, colour color.RGBA, opts ...ParticleOption) {
	spawnDust(tx, colour, pos, particleOptions(opts))
}

func spawnParticles(sink particleSink, p world.Particle, pos mgl64.Vec3, o ParticleOptions) {
	for _, at := range particlePositions(pos, o.Count, o.Offset) {
		sink.AddParticle(at, p)
	}
}

func spawnDust(sink particleSink, colour color.RGBA, pos mgl64.Vec3, o ParticleOptions) {
	dust := particle.Dust{Colour: colour}
	for _, at := range particlePositions(pos, o.Count, o.Offset) {
		for _, dot := range dustCluster(at, o.Size) {
			sink.AddParticle(dot, dust)
		}
	}
}

// SpawnParticleAt shows p at loc. It does nothing if loc has no world.
// The particles are added in a transaction of the location's world, so this
// may be called from any goroutine.
func SpawnParticleAt(loc Location, p world.Particle, opts ...ParticleOption) {
	if loc.World == nil {
		return
	}
	loc.World.Exec(func(tx *world.Tx) {
		SpawnParticle(tx, p, loc.Pos, opts...)
	})
}

// SpawnColouredParticleAt shows coloured dust at loc. It does nothing if loc
// has no world.
func SpawnColouredParticleAt(loc Location, colour color.RGBA, opts ...ParticleOption) {
	if loc.World == nil {
		return
	}
	loc.World.Exec(func(tx *world.Tx) {
		SpawnColouredParticle(tx, loc.Pos, colour, opts...)
	})
}

// particlePositions returns count positions around pos, each displaced by a
// Gaussian sample scaled by offset on every axis.
func particlePositions(pos mgl64.Vec3, count int, offset mgl64.Vec3) []mgl64.Vec3 {
	if count < 1 {
		count = 1
	}
	positions := make([]mgl64.Vec3, count)
	for i := range positions {
		positions[i] = pos
		if offset == (mgl64.Vec3{}) {
			continue
		}
		positions[i] = pos.Add(mgl64.Vec3{
			Gaussian() * offset[0],
			Gaussian() * offset[1],
			Gaussian() * offset[2],
		})
	}
	return positions
}

// dustCluster returns the dots drawing one dust particle of the given size.
func dustCluster(pos mgl64.Vec3, size float64) []mgl64.Vec3 {
	if size <= 1 {
		return []mgl64.Vec3{pos}
	}
	n := int(math.Ceil(size))
	spread := size * dustSpread

	dots := make([]mgl64.Vec3, n)
	dots[0] = pos
	for i := 1; i < n; i++ {
		dots[i] = pos.Add(mgl64.Vec3{
			FloatRange(-spread, spread),
			FloatRange(-spread, spread),
			FloatRange(-spread, spread),
		})
	}
	return dots
}
