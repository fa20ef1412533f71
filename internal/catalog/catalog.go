package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"skillhit/internal/area"
	"skillhit/internal/combat"
	"skillhit/internal/projectile"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Kind says which engine a skill runs on.
type Kind int

const (
	KindUnknown Kind = iota
	KindArea
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindArea:
		return "area"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

var skillIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Catalog is a validated, immutable set of skills. Reloading builds a new
// Catalog rather than mutating one in place.
type Catalog struct {
	path        string
	areas       map[string]AreaDocument
	projectiles map[string]ProjectileDocument
	shapes      map[string]world.ShapeType
	forces      map[string][]combat.HitForce
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Parse decodes and validates catalog YAML. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := decodeStrict(data, &file); err != nil {
		return nil, err
	}
	return FromFile(file)
}

// FromFile validates an already decoded catalog.
func FromFile(file File) (*Catalog, error) {
	c := &Catalog{
		areas:       make(map[string]AreaDocument, len(file.Areas)),
		projectiles: make(map[string]ProjectileDocument, len(file.Projectiles)),
		shapes:      make(map[string]world.ShapeType, len(file.Areas)+len(file.Projectiles)),
		forces:      make(map[string][]combat.HitForce),
	}
	var errs []error
	for i, doc := range file.Areas {
		if err := c.addArea(doc); err != nil {
			errs = append(errs, fmt.Errorf("areas[%d]: %w", i, err))
		}
	}
	for i, doc := range file.Projectiles {
		if err := c.addProjectile(doc); err != nil {
			errs = append(errs, fmt.Errorf("projectiles[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeStrict(data []byte, target any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (c *Catalog) claim(id string) error {
	if !skillIDPattern.MatchString(id) {
		return fmt.Errorf("invalid skill id %q", id)
	}
	if _, taken := c.shapes[id]; taken {
		return fmt.Errorf("duplicate skill id %q", id)
	}
	return nil
}

func (c *Catalog) addArea(doc AreaDocument) error {
	if err := c.claim(doc.ID); err != nil {
		return err
	}
	shape, err := world.ParseShapeType(doc.Shape)
	if err != nil {
		return fmt.Errorf("%s: %w", doc.ID, err)
	}
	if !nonNegative(doc.BaseUnit, doc.Phases.CollisionDelay, doc.Phases.Lifetime, doc.Phases.SectionTime,
		doc.Decal.Delay, doc.Pattern.DelayOffset, doc.Pattern.RingWidth, doc.Random.MaxRadius) {
		return fmt.Errorf("%s: sizes and times must be finite and non-negative", doc.ID)
	}
	if doc.Pattern.Count < 0 || doc.Random.Count < 0 {
		return fmt.Errorf("%s: counts must be non-negative", doc.ID)
	}
	if shape == world.ShapeSector && doc.Pattern.SectorAngle <= 0 {
		return fmt.Errorf("%s: sector areas need a positive sector_angle", doc.ID)
	}
	for i, particle := range doc.Particles {
		if particle.Template == "" {
			return fmt.Errorf("%s: particles[%d]: missing template", doc.ID, i)
		}
	}
	c.areas[doc.ID] = doc
	c.shapes[doc.ID] = shape
	return nil
}

func (c *Catalog) addProjectile(doc ProjectileDocument) error {
	if err := c.claim(doc.ID); err != nil {
		return err
	}
	shape, err := world.ParseShapeType(doc.Shape)
	if err != nil {
		return fmt.Errorf("%s: %w", doc.ID, err)
	}
	switch shape {
	case world.ShapeSphere, world.ShapeBox, world.ShapeCapsule:
	default:
		return fmt.Errorf("%s: projectiles cannot use shape %s", doc.ID, shape)
	}
	if !nonNegative(doc.Speed, doc.MaxDistance, doc.FireDelay) || doc.Speed == 0 {
		return fmt.Errorf("%s: speed must be positive and distances non-negative", doc.ID)
	}
	if doc.MaxDistance == 0 && doc.Lifespan == nil {
		return fmt.Errorf("%s: needs max_distance or lifespan", doc.ID)
	}
	forces := make([]combat.HitForce, 0, len(doc.Forces))
	for _, name := range doc.Forces {
		force, err := combat.ParseHitForce(name)
		if err != nil {
			return fmt.Errorf("%s: %w", doc.ID, err)
		}
		forces = append(forces, force)
	}
	c.projectiles[doc.ID] = doc
	c.shapes[doc.ID] = shape
	if len(forces) > 0 {
		c.forces[doc.ID] = forces
	}
	return nil
}

func nonNegative(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// Path is the file the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	return c.path
}

// Kind reports which engine runs skill id.
func (c *Catalog) Kind(id string) Kind {
	if _, ok := c.areas[id]; ok {
		return KindArea
	}
	if _, ok := c.projectiles[id]; ok {
		return KindProjectile
	}
	return KindUnknown
}

// IDs lists every skill in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.shapes))
	for id := range c.shapes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Catalog) Area(id string) (AreaDocument, bool) {
	doc, ok := c.areas[id]
	return doc, ok
}

func (c *Catalog) Projectile(id string) (ProjectileDocument, bool) {
	doc, ok := c.projectiles[id]
	return doc, ok
}

// Forces returns the per-skill hit forces for a combat policy.
func (c *Catalog) Forces() map[string][]combat.HitForce {
	forces := make(map[string][]combat.HitForce, len(c.forces))
	for id, list := range c.forces {
		forces[id] = append([]combat.HitForce(nil), list...)
	}
	return forces
}

// AreaCast is what a caller supplies when spawning an area.
type AreaCast struct {
	Caster    world.ActorID
	Origin    vecmath.Transform
	Timestamp float64
}

// AreaSpec resolves skill id into an area spec for one cast. Phases are
// composed from the authored relative times when the area initialises.
func (c *Catalog) AreaSpec(id string, cast AreaCast) (area.Spec, bool) {
	doc, ok := c.areas[id]
	if !ok {
		return area.Spec{}, false
	}
	spec := area.Spec{
		Skill:              doc.ID,
		Caster:             cast.Caster,
		Origin:             cast.Origin,
		CollisionRelative:  doc.Collision.Transform(),
		Shape:              c.shapes[id],
		PatternCount:       doc.Pattern.Count,
		PatternOffset:      doc.Pattern.Offset,
		ReversePattern:     doc.Pattern.Reverse,
		PatternDelayOffset: doc.Pattern.DelayOffset,
		SectorAngle:        doc.Pattern.SectorAngle,
		RingWidth:          doc.Pattern.RingWidth,
		BaseUnit:           doc.BaseUnit,

		DecalMaterial: doc.Decal.Material,
		DecalLifetime: doc.Decal.Lifetime,
		DecalDelay:    doc.Decal.Delay,
		DecalRelative: doc.Decal.Relative.Transform(),
		DecalAngle:    doc.Decal.Angle,

		CollisionDelay: doc.Phases.CollisionDelay,
		AreaLifetime:   doc.Phases.Lifetime,
		SectionTime:    doc.Phases.SectionTime,

		AreaCount:       doc.Random.Count,
		ForceRandomArea: doc.Random.Force,
		MaxSpawnRadius:  doc.Random.MaxRadius,
		Timestamp:       cast.Timestamp,

		SyncSoundWithParticle: doc.SyncSoundWithParticle,
		ActionName:            doc.Action,
		RelativePhases:        true,
	}
	for _, particle := range doc.Particles {
		spec.Particles = append(spec.Particles, area.ParticleEntry{
			Template:          particle.Template,
			NeverCullTemplate: particle.NeverCull,
			Relative:          particle.Relative.Transform(),
			Delay:             particle.Delay,
			SortPriority:      particle.SortPriority,
		})
	}
	for _, cue := range doc.Sounds {
		spec.Sounds = append(spec.Sounds, area.SoundEntry{Cue: cue})
	}
	return spec, true
}

// ProjectileCast is what a caller supplies when firing a projectile.
type ProjectileCast struct {
	Caster world.ActorID
	Target world.ActorID
	Origin vecmath.Transform
}

// ProjectileSpec resolves skill id into a projectile spec for one cast.
func (c *Catalog) ProjectileSpec(id string, cast ProjectileCast) (projectile.Spec, bool) {
	doc, ok := c.projectiles[id]
	if !ok {
		return projectile.Spec{}, false
	}
	spec := projectile.Spec{
		Skill:             doc.ID,
		Caster:            cast.Caster,
		Target:            cast.Target,
		Origin:            cast.Origin,
		Speed:             doc.Speed,
		GravityScale:      doc.Gravity,
		Shape:             c.shapes[id],
		CollisionExtent:   doc.Extent,
		CollisionRelative: doc.Collision.Transform(),
		MaxDistance:       doc.MaxDistance,
		FireDelay:         doc.FireDelay,
		PierceCharacters:  doc.PierceCharacters,
		PierceObjects:     doc.PierceObjects,
		TargetBones:       append([]string(nil), doc.TargetBones...),
		AimAtBone:         doc.AimAtBone,
		YawOffset:         doc.YawOffset,
		DamageIndex:       doc.DamageIndex,
		Presentation: projectile.Presentation{
			Trail:                doc.Presentation.Trail,
			Light:                doc.Presentation.Light,
			Sounds:               append([]string(nil), doc.Presentation.Sounds...),
			HitEffect:            doc.Presentation.HitEffect,
			DestroyTrailOnHit:    doc.Presentation.DestroyTrailOnHit,
			DisableEmittersOnHit: append([]string(nil), doc.Presentation.DisableEmitters...),
		},
	}
	if doc.Lifespan != nil {
		spec.UseLifetime = true
		spec.InitialLifespan = *doc.Lifespan
	}
	return spec, true
}
