package projectile

import (
	"skillhit/internal/effects"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// spawnAttachments creates the trail, light and sounds hidden. They are
// activated when the projectile arms.
func (p *Projectile) spawnAttachments() {
	if !p.ctx.Visual || p.deps.Spawner == nil {
		return
	}
	presentation := p.spec.Presentation
	p.addAttachment(effects.AttachParticle, presentation.Trail)
	p.addAttachment(effects.AttachLight, presentation.Light)
	for _, cue := range presentation.Sounds {
		p.addAttachment(effects.AttachAudio, cue)
	}
}

func (p *Projectile) addAttachment(kind effects.AttachmentKind, template string) {
	if template == "" {
		return
	}
	value := p.deps.Spawner.SpawnAttachment(effects.AttachmentSpec{Kind: kind, Template: template, Owner: p.deps.ID})
	if value == nil {
		return
	}
	p.attachments = append(p.attachments, attachment{kind: kind, value: value})
}

// releaseAttachments hands the attachments back to the effect system. The
// trail fades with its hit emitters disabled, or is destroyed outright when
// the spec asks for it.
func (p *Projectile) releaseAttachments() {
	for _, a := range p.attachments {
		if a.kind == effects.AttachParticle && p.spec.Presentation.DestroyTrailOnHit {
			a.value.Destroy()
			continue
		}
		var emitters []string
		if a.kind == effects.AttachParticle {
			emitters = p.spec.Presentation.DisableEmittersOnHit
		}
		a.value.FadeOut(emitters)
	}
	p.attachments = nil
}

// spawnHitEffect anchors the hit effect on the candidate bone nearest the
// impact point. It does nothing outside visual contexts.
func (p *Projectile) spawnHitEffect(hit world.HitResult) {
	if !p.ctx.Visual || p.deps.Spawner == nil || p.spec.Presentation.HitEffect == "" {
		return
	}
	p.releaseAttachments()

	bone, transform, ok := NearestBone(p.deps.Actors, hit.Actor, p.spec.TargetBones, hit.ImpactPoint)
	if !ok {
		return
	}
	yaw := vecmath.YawRotator(90).Quat()
	transform.Rotation = p.deps.Mover.Velocity().SafeNormal2D().OrientationQuat().Mul(yaw)
	p.deps.Spawner.SpawnHitEffect(effects.HitEffectSpec{
		Template:    p.spec.Presentation.HitEffect,
		Target:      hit.Actor,
		Bone:        bone,
		Transform:   transform,
		LocalPlayer: p.deps.Viewer != "" && p.deps.Viewer == hit.Actor,
	})
}
