// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package composite

import (
	"honnef.co/go/curve"
	"honnef.co/go/strata/smath"
)

// Screen is the render target's logical size. It defines the NDC
// scaling divisor and is immutable for the duration of a frame.
// Dimensions must be positive; that precondition is the caller's to
// uphold.
type Screen struct {
	Width  float32
	Height float32
}

// Instance places one destination rectangle in world space. Offset is
// the rectangle's center, Size its full width and height.
type Instance struct {
	Offset smath.Vec2
	Size   smath.Vec2
}

// InstanceFromKurbo converts a min/max rectangle to an instance
// placement.
func InstanceFromKurbo(r curve.Rect) Instance {
	return Instance{
		Offset: smath.V(float32(r.X0+r.X1)/2, float32(r.Y0+r.Y1)/2),
		Size:   smath.V(float32(r.X1-r.X0), float32(r.Y1-r.Y0)),
	}
}

// World maps a local unit-quad vertex, v in [(-0.5,-0.5), (0.5,0.5)],
// to world space.
func (inst Instance) World(v smath.Vec2) smath.Vec2 {
	return v.MulVec2(inst.Size).Add(inst.Offset)
}

// NDC maps a world-space point to normalized device coordinates.
func (s Screen) NDC(world smath.Vec2) smath.Vec2 {
	return smath.V(world.X/(s.Width/2), world.Y/(s.Height/2))
}

// ClipPosition is the vertex stage shared by every program: local
// vertex to world space to clip space.
func ClipPosition(v smath.Vec2, inst Instance, s Screen) [4]float32 {
	ndc := s.NDC(inst.World(v))
	return [4]float32{ndc.X, ndc.Y, 0, 1}
}

// QuadUV maps a local unit-quad vertex into [0, 1]² texture
// coordinates, with v flipped for top-left-origin row-major sources.
// The same convention applies wherever a rectangle samples a texture;
// see SampleLayer.
func QuadUV(v smath.Vec2) smath.Vec2 {
	return smath.V(v.X+0.5, 1-(v.Y+0.5))
}
