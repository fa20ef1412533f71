package effects

// Nop spawns nothing. It serves headless authoritative contexts.
type Nop struct{}

var (
	_ Spawner = Nop{}
	_ Audio   = Nop{}
)

func (Nop) SpawnDecal(DecalSpec) Decal { return nil }

func (Nop) SpawnParticle(ParticleSpec) Particle { return nil }

func (Nop) SpawnAttachment(AttachmentSpec) Attachment { return nil }

func (Nop) SpawnHitEffect(HitEffectSpec) Particle { return nil }

func (Nop) SpawnSound(SoundSpec) Sound { return nil }
