package area

import (
	"math"

	"skillhit/internal/effects"
	"skillhit/internal/timing"
	"skillhit/internal/vecmath"
)

const decalLifetimeEpsilon = 1e-8

func (a *Area) spawnDecal() {
	if !a.ctx.Visual || a.deps.Spawner == nil {
		return
	}
	if math.Abs(a.spec.DecalLifetime) <= decalLifetimeEpsilon {
		return
	}
	placed := a.spec.DecalRelative.Compose(a.spec.Origin)
	transform := vecmath.Transform{
		Location: placed.Location,
		Rotation: vecmath.Rotator{Pitch: 90, Yaw: 180 - a.spec.DecalAngle}.Quat(),
		Scale:    placed.Scale,
	}
	a.decal = a.deps.Spawner.SpawnDecal(effects.DecalSpec{
		Material:  a.spec.DecalMaterial,
		Transform: transform,
		Extent:    vecmath.Splat(a.spec.BaseUnit).Mul(placed.Scale),
		Lifetime:  a.spec.DecalLifetime,
	})
}

func (a *Area) spawnParticles() {
	if !a.ctx.Visual || a.deps.Spawner == nil {
		return
	}
	for _, entry := range a.spec.Particles {
		transform := entry.Relative.Compose(a.spec.Origin)
		if entry.Template != "" {
			a.addParticle(effects.ParticleSpec{
				Template:     entry.Template,
				Transform:    transform,
				Delay:        entry.Delay,
				SortPriority: entry.SortPriority,
			})
		}
		if entry.NeverCullTemplate != "" {
			a.addParticle(effects.ParticleSpec{
				Template:     entry.NeverCullTemplate,
				Transform:    transform,
				Delay:        entry.Delay,
				SortPriority: entry.SortPriority,
				NeverCull:    true,
			})
		}
	}
}

func (a *Area) addParticle(spec effects.ParticleSpec) {
	if particle := a.deps.Spawner.SpawnParticle(spec); particle != nil {
		a.particles = append(a.particles, particle)
	}
}

// spawnSounds creates one stopped cue per entry at the matching region. A
// cue starts at the collision delay and each later cue waits one more
// pattern stagger, unless sounds are synced to the particle of the same
// index.
func (a *Area) spawnSounds() {
	if !a.ctx.Visual || a.deps.Audio == nil {
		return
	}
	delay := a.spec.CollisionDelay
	if a.spec.SyncSoundWithParticle {
		delay = 0
	}
	location := vecmath.Zero
	for index, entry := range a.spec.Sounds {
		if index < len(a.regions) {
			location = a.regions[index].Transform.Location
		}
		if a.spec.SyncSoundWithParticle && index < len(a.spec.Particles) {
			delay = a.spec.Particles[index].Delay
		} else if index != 0 {
			delay += a.spec.PatternDelayOffset
		}

		sound := a.deps.Audio.SpawnSound(effects.SoundSpec{Cue: entry.Cue, Location: location})
		if sound == nil {
			continue
		}
		sound.Stop()
		a.sounds = append(a.sounds, &areaSound{sound: sound, delay: timing.NewCountdown(delay)})
	}
}

// updateDecal reveals the decal after its delay and destroys it at the end
// of its lifetime.
func (a *Area) updateDecal() {
	if a.decal == nil {
		return
	}
	if a.clock.Reached(a.spec.DecalLifetime) {
		a.decal.Destroy()
		a.decal = nil
		return
	}
	if a.clock.Reached(a.spec.DecalDelay) && !a.decal.Visible() {
		a.decal.Show()
	}
}

// prunePresentation drops completed particles and finished sounds, keeping
// the survivors in order, and starts cues whose delay has elapsed.
func (a *Area) prunePresentation(dt float64) {
	particles := a.particles[:0]
	for _, particle := range a.particles {
		if particle.Completed() {
			particle.Destroy()
			continue
		}
		particles = append(particles, particle)
	}
	clear(a.particles[len(particles):])
	a.particles = particles

	sounds := a.sounds[:0]
	for _, entry := range a.sounds {
		if !entry.sound.Valid() || (entry.played && !entry.sound.Playing()) {
			entry.sound.Destroy()
			continue
		}
		if !entry.played {
			entry.delay.Consume(dt)
			if !entry.delay.Pending() {
				entry.sound.Play()
				entry.played = true
			}
		}
		sounds = append(sounds, entry)
	}
	clear(a.sounds[len(sounds):])
	a.sounds = sounds
}

func (a *Area) releaseSounds() {
	for _, entry := range a.sounds {
		entry.sound.Stop()
		entry.sound.Destroy()
	}
	a.sounds = nil
}
