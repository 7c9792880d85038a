package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
)

// GiftSystem owns the dropped-gift population as ECS entities.
// Gifts fall under gravity, fade near the bottom of the viewport and are
// removed once they leave it or become invisible.
type GiftSystem struct {
	cfg     *config.GiftsConfig
	derived *config.DerivedConfig
	rng     *rand.Rand
	vp      components.Viewport

	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Spin, components.Gift]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Spin, components.Gift]

	count   int
	spawned int
	reaped  int

	toRemove []ecs.Entity
}

// NewGiftSystem creates an empty gift system.
func NewGiftSystem(cfg *config.Config, vp components.Viewport, rng *rand.Rand) *GiftSystem {
	s := &GiftSystem{
		cfg:     &cfg.Gifts,
		derived: &cfg.Derived,
		rng:     rng,
		vp:      vp,
		world:   ecs.NewWorld(),
	}
	s.mapper = ecs.NewMap4[components.Position, components.Velocity, components.Spin, components.Gift](s.world)
	s.filter = ecs.NewFilter4[components.Position, components.Velocity, components.Spin, components.Gift](s.world)
	return s
}

// Resize adopts a new viewport and discards all gifts in flight.
func (s *GiftSystem) Resize(vp components.Viewport) {
	s.vp = vp
	s.Clear()
}

// Spawn adds one gift at (x, y) with randomized size, velocity, spin and colors.
func (s *GiftSystem) Spawn(x, y float32) {
	fills := s.derived.Fills
	ribbons := s.derived.Ribbons

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{
		X: randRange32(s.rng, -s.cfg.MaxVX, s.cfg.MaxVX),
		Y: randRange32(s.rng, 0, s.cfg.MaxVY),
	}
	spin := components.Spin{
		Angle:  randRange32(s.rng, -s.cfg.MaxRotation, s.cfg.MaxRotation),
		AngVel: randRange32(s.rng, -s.cfg.MaxAngularVelocity, s.cfg.MaxAngularVelocity),
	}
	gift := components.Gift{
		Size:  randRange32(s.rng, s.cfg.MinSize, s.cfg.MaxSize),
		Alpha: 1,
	}
	if len(fills) > 0 {
		gift.Fill = fills[s.rng.Intn(len(fills))]
	}
	if len(ribbons) > 0 {
		gift.Ribbon = ribbons[s.rng.Intn(len(ribbons))]
	}

	s.add(pos, vel, spin, gift)
}

// add inserts a fully specified gift.
func (s *GiftSystem) add(pos components.Position, vel components.Velocity, spin components.Spin, gift components.Gift) {
	s.mapper.NewEntity(&pos, &vel, &spin, &gift)
	s.count++
	s.spawned++
}

// Update integrates gravity and spin, applies the bottom fade and removes
// expired gifts. Removal happens after the query completes.
func (s *GiftSystem) Update(dt float32) {
	gravity := float32(s.cfg.Gravity)
	h := s.vp.Height
	fadeStart := h * float32(s.cfg.FadeStart)
	limit := h + float32(s.cfg.RemovalMargin)
	minAlpha := float32(s.cfg.MinAlpha)

	s.toRemove = s.toRemove[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, spin, gift := query.Get()

		vel.Y += gravity * dt
		pos.Y += vel.Y * dt
		pos.X += vel.X * dt
		spin.Angle += spin.AngVel * dt

		gift.Alpha = FadeAlpha(pos.Y, fadeStart, h)

		if pos.Y >= limit || gift.Alpha <= minAlpha {
			s.toRemove = append(s.toRemove, query.Entity())
		}
	}

	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
		s.count--
		s.reaped++
	}
}

// FadeAlpha returns 1 above fadeStart, falling linearly to 0 at bottom.
func FadeAlpha(y, fadeStart, bottom float32) float32 {
	if y <= fadeStart {
		return 1
	}
	span := bottom - fadeStart
	if span <= 0 {
		return 0
	}
	return clamp01f(1 - (y-fadeStart)/span)
}

// Clear removes every gift.
func (s *GiftSystem) Clear() {
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		s.toRemove = append(s.toRemove, query.Entity())
	}
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}

// Count returns the number of active gifts.
func (s *GiftSystem) Count() int {
	return s.count
}

// Totals returns how many gifts were spawned and reaped since creation.
func (s *GiftSystem) Totals() (spawned, reaped int) {
	return s.spawned, s.reaped
}

// Snapshot appends a view of every active gift to dst.
func (s *GiftSystem) Snapshot(dst []components.GiftView) []components.GiftView {
	query := s.filter.Query()
	for query.Next() {
		pos, _, spin, gift := query.Get()
		dst = append(dst, components.GiftView{
			X:      pos.X,
			Y:      pos.Y,
			Angle:  spin.Angle,
			Size:   gift.Size,
			Alpha:  gift.Alpha,
			Fill:   gift.Fill,
			Ribbon: gift.Ribbon,
		})
	}
	return dst
}
