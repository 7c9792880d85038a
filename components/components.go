// Package components defines the value records owned by the animation state.
package components

import "image/color"

// TreeKind identifies which part of the tree a particle belongs to.
type TreeKind uint8

const (
	KindCanopy TreeKind = iota
	KindOrnament
	KindTrunk
)

// String returns the kind name.
func (k TreeKind) String() string {
	switch k {
	case KindCanopy:
		return "canopy"
	case KindOrnament:
		return "ornament"
	case KindTrunk:
		return "trunk"
	default:
		return "unknown"
	}
}

// TreeParticle is a single light of the tree.
// Outline is only ever set for KindCanopy; its drawn X is recomputed
// every frame by the outline sweep and X holds the generated scatter position.
type TreeParticle struct {
	X, Y         float32
	Radius       float32
	BaseAlpha    float32
	TwinkleRate  float32 // radians per second
	TwinklePhase float32 // radians
	Kind         TreeKind
	Outline      bool
}

// Glows reports whether the particle always renders with a halo.
func (p *TreeParticle) Glows() bool {
	return p.Kind != KindCanopy || p.Outline
}

// SnowParticle is a recycled snowflake.
type SnowParticle struct {
	X, Y       float32
	Radius     float32
	FallSpeed  float32 // px/s
	DriftSpeed float32 // px/s, signed
	BaseAlpha  float32
}

// Position represents a gift's position in viewport units.
type Position struct {
	X, Y float32
}

// Velocity represents a gift's velocity in px/s.
type Velocity struct {
	X, Y float32
}

// Spin holds rotation state in radians.
type Spin struct {
	Angle  float32
	AngVel float32
}

// Gift holds per-gift appearance and fade state.
type Gift struct {
	Size   float32
	Alpha  float32
	Fill   color.RGBA
	Ribbon color.RGBA
}

// GiftView is a flat snapshot of one gift handed to the renderer.
type GiftView struct {
	X, Y   float32
	Angle  float32
	Size   float32
	Alpha  float32
	Fill   color.RGBA
	Ribbon color.RGBA
}
