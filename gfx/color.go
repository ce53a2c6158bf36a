// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"structs"

	"honnef.co/go/color"
)

// Color is a straight-alpha RGBA color with float32 components,
// matching vec4<f32> in the shaders. Components are conventionally in
// [0, 1]; out-of-range values aren't clamped and produce an undefined
// visual result rather than an error.
type Color struct {
	_ structs.HostLayout

	R, G, B, A float32
}

// Transparent is the fully transparent color. It is the identity of
// Over on both sides.
var Transparent = Color{}

func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Premul returns the color with its RGB components multiplied by
// alpha.
func (c Color) Premul() [4]float32 {
	return [4]float32{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

func (c Color) ToArray() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// FromColor converts a managed color to a straight-alpha linear sRGB
// Color.
func FromColor(c *color.Color) Color {
	cc := c.Convert(color.LinearSRGB)
	return Color{
		R: float32(cc.Values[0]),
		G: float32(cc.Values[1]),
		B: float32(cc.Values[2]),
		A: float32(cc.Values[3]),
	}
}

// Premul32 converts a managed color to linear sRGB premultiplied
// float32 components, the form clear colors and solid fills are
// uploaded in.
func Premul32(c *color.Color) [4]float32 {
	cc := c.Convert(color.LinearSRGB)
	r := cc.Values[0]
	g := cc.Values[1]
	b := cc.Values[2]
	a := cc.Values[3]

	return [4]float32{
		float32(r * a),
		float32(g * a),
		float32(b * a),
		float32(a),
	}
}
