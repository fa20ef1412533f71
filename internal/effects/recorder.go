package effects

import (
	"fmt"
	"sync"
)

// RecordKind names a recorded collaborator.
type RecordKind string

const (
	KindDecal      RecordKind = "decal"
	KindParticle   RecordKind = "particle"
	KindSound      RecordKind = "sound"
	KindAttachment RecordKind = "attachment"
	KindHitEffect  RecordKind = "hit_effect"
)

// RecorderConfig sets how long recorded particles and sounds run once
// started. A non-positive duration never completes on its own.
type RecorderConfig struct {
	ParticleDuration float64
	SoundDuration    float64
}

// Recorder is an in-memory Spawner and Audio. Every collaborator it creates
// is kept, so tests and the headless runner can inspect what the engines
// asked for. Advance drives the recorded lifetimes.
type Recorder struct {
	cfg RecorderConfig

	mu          sync.Mutex
	nextID      int
	decals      []*RecordedDecal
	particles   []*RecordedParticle
	sounds      []*RecordedSound
	attachments []*RecordedAttachment
}

var (
	_ Spawner = (*Recorder)(nil)
	_ Audio   = (*Recorder)(nil)
)

func NewRecorder(cfg RecorderConfig) *Recorder {
	return &Recorder{cfg: cfg}
}

func (r *Recorder) id(kind RecordKind) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", kind, r.nextID)
}

func (r *Recorder) SpawnDecal(spec DecalSpec) Decal {
	r.mu.Lock()
	defer r.mu.Unlock()
	decal := &RecordedDecal{ID: r.id(KindDecal), Spec: spec}
	r.decals = append(r.decals, decal)
	return decal
}

func (r *Recorder) SpawnParticle(spec ParticleSpec) Particle {
	r.mu.Lock()
	defer r.mu.Unlock()
	particle := &RecordedParticle{ID: r.id(KindParticle), Kind: KindParticle, Template: spec.Template, Spec: spec, duration: r.cfg.ParticleDuration}
	r.particles = append(r.particles, particle)
	return particle
}

func (r *Recorder) SpawnHitEffect(spec HitEffectSpec) Particle {
	r.mu.Lock()
	defer r.mu.Unlock()
	particle := &RecordedParticle{ID: r.id(KindHitEffect), Kind: KindHitEffect, Template: spec.Template, HitEffect: spec, duration: r.cfg.ParticleDuration}
	r.particles = append(r.particles, particle)
	return particle
}

func (r *Recorder) SpawnAttachment(spec AttachmentSpec) Attachment {
	r.mu.Lock()
	defer r.mu.Unlock()
	attachment := &RecordedAttachment{ID: r.id(KindAttachment), Spec: spec}
	r.attachments = append(r.attachments, attachment)
	return attachment
}

func (r *Recorder) SpawnSound(spec SoundSpec) Sound {
	r.mu.Lock()
	defer r.mu.Unlock()
	sound := &RecordedSound{ID: r.id(KindSound), Spec: spec, valid: true, duration: r.cfg.SoundDuration}
	r.sounds = append(r.sounds, sound)
	return sound
}

// Advance runs recorded particles and sounds forward by dt seconds.
func (r *Recorder) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	r.mu.Lock()
	particles := append([]*RecordedParticle(nil), r.particles...)
	sounds := append([]*RecordedSound(nil), r.sounds...)
	r.mu.Unlock()
	for _, particle := range particles {
		particle.advance(dt)
	}
	for _, sound := range sounds {
		sound.advance(dt)
	}
}

func (r *Recorder) Decals() []*RecordedDecal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedDecal(nil), r.decals...)
}

// Particles returns particles and hit effects in spawn order.
func (r *Recorder) Particles() []*RecordedParticle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedParticle(nil), r.particles...)
}

// HitEffects returns only the hit effects.
func (r *Recorder) HitEffects() []*RecordedParticle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var hits []*RecordedParticle
	for _, particle := range r.particles {
		if particle.Kind == KindHitEffect {
			hits = append(hits, particle)
		}
	}
	return hits
}

func (r *Recorder) Sounds() []*RecordedSound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedSound(nil), r.sounds...)
}

func (r *Recorder) Attachments() []*RecordedAttachment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedAttachment(nil), r.attachments...)
}

// Live counts collaborators that have not been destroyed.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	live := 0
	for _, decal := range r.decals {
		if !decal.Destroyed() {
			live++
		}
	}
	for _, particle := range r.particles {
		if !particle.Destroyed() {
			live++
		}
	}
	for _, sound := range r.sounds {
		if !sound.Destroyed() {
			live++
		}
	}
	for _, attachment := range r.attachments {
		if !attachment.Destroyed() {
			live++
		}
	}
	return live
}

type RecordedDecal struct {
	ID   string
	Spec DecalSpec

	mu        sync.Mutex
	visible   bool
	destroyed bool
}

func (d *RecordedDecal) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.destroyed {
		d.visible = true
	}
}

func (d *RecordedDecal) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

func (d *RecordedDecal) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed = true
	d.visible = false
}

func (d *RecordedDecal) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

type RecordedParticle struct {
	ID        string
	Kind      RecordKind
	Template  string
	Spec      ParticleSpec
	HitEffect HitEffectSpec

	mu        sync.Mutex
	duration  float64
	elapsed   float64
	completed bool
	destroyed bool
}

// Complete finishes the particle immediately.
func (p *RecordedParticle) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = true
}

func (p *RecordedParticle) Completed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed || p.destroyed
}

func (p *RecordedParticle) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyed = true
}

func (p *RecordedParticle) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyed
}

func (p *RecordedParticle) advance(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.duration <= 0 || p.completed {
		return
	}
	p.elapsed += dt
	if p.elapsed >= p.duration+p.Spec.Delay {
		p.completed = true
	}
}

type RecordedSound struct {
	ID   string
	Spec SoundSpec

	mu        sync.Mutex
	duration  float64
	elapsed   float64
	playing   bool
	plays     int
	valid     bool
	destroyed bool
}

func (s *RecordedSound) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return
	}
	s.playing = true
	s.elapsed = 0
	s.plays++
}

func (s *RecordedSound) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *RecordedSound) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

func (s *RecordedSound) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Invalidate simulates the audio backend reclaiming the voice.
func (s *RecordedSound) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
	s.playing = false
}

func (s *RecordedSound) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	s.valid = false
	s.playing = false
}

func (s *RecordedSound) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Plays counts how often the sound was started.
func (s *RecordedSound) Plays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}

func (s *RecordedSound) advance(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing || s.duration <= 0 {
		return
	}
	s.elapsed += dt
	if s.elapsed >= s.duration {
		s.playing = false
	}
}

type RecordedAttachment struct {
	ID   string
	Spec AttachmentSpec

	mu        sync.Mutex
	active    bool
	faded     bool
	disabled  []string
	destroyed bool
}

func (a *RecordedAttachment) Activate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.destroyed {
		a.active = true
	}
}

func (a *RecordedAttachment) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *RecordedAttachment) FadeOut(disableEmitters []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	a.faded = true
	a.disabled = append(a.disabled, disableEmitters...)
}

func (a *RecordedAttachment) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	a.destroyed = true
}

// Faded reports whether FadeOut was called, and the emitters it disabled.
func (a *RecordedAttachment) Faded() (bool, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.faded, append([]string(nil), a.disabled...)
}

func (a *RecordedAttachment) Destroyed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyed
}
