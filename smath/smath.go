// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package smath provides the float32 math used by the compositor core
// and the GPU host. All types are plain values; the GPU-facing ones
// carry structs.HostLayout and match the WGSL declarations.
package smath

import (
	"structs"

	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
	"honnef.co/go/curve"
)

const Epsilon = 1e-12

// Vec2 is a two-component float32 vector, matching vec2<f32>.
type Vec2 struct {
	_ structs.HostLayout

	X, Y float32
}

func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Mul(f float32) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// MulVec2 multiplies component-wise, like vec2 * vec2 in WGSL.
func (v Vec2) MulVec2(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

// DivVec2 divides component-wise. Zero components in o produce
// infinities, as they would on the GPU.
func (v Vec2) DivVec2(o Vec2) Vec2 {
	return Vec2{X: v.X / o.X, Y: v.Y / o.Y}
}

func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

func (v Vec2) Mix(o Vec2, t float32) Vec2 {
	return Vec2{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
	}
}

func (v Vec2) NaN() bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y)
}

func (v Vec2) ToArray() [2]float32 {
	return [2]float32{v.X, v.Y}
}

func Vec2FromArray(arr [2]float32) Vec2 {
	return Vec2{X: arr[0], Y: arr[1]}
}

func Vec2FromPoint(p curve.Point) Vec2 {
	return Vec2{X: float32(p.X), Y: float32(p.Y)}
}

func Clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, x))
}

// Fract returns the fractional part of x in [0, 1), matching WGSL's
// fract for the argument ranges the samplers use.
func Fract(x float32) float32 {
	return x - math32.Floor(x)
}

// Transform is a 2x3 affine transform in column-major order, matching
// the layout the shaders consume.
type Transform struct {
	_ structs.HostLayout

	Matrix      [4]float32
	Translation [2]float32
}

var Identity = Transform{
	Matrix: [4]float32{1, 0, 0, 1},
}

func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Matrix: [4]float32{
			t.Matrix[0]*other.Matrix[0] + t.Matrix[2]*other.Matrix[1],
			t.Matrix[1]*other.Matrix[0] + t.Matrix[3]*other.Matrix[1],
			t.Matrix[0]*other.Matrix[2] + t.Matrix[2]*other.Matrix[3],
			t.Matrix[1]*other.Matrix[2] + t.Matrix[3]*other.Matrix[3],
		},
		Translation: [2]float32{
			t.Matrix[0]*other.Translation[0] +
				t.Matrix[2]*other.Translation[1] +
				t.Translation[0],
			t.Matrix[1]*other.Translation[0] +
				t.Matrix[3]*other.Translation[1] +
				t.Translation[1],
		},
	}
}

func (t Transform) Apply(v Vec2) Vec2 {
	return Vec2{
		X: t.Matrix[0]*v.X + t.Matrix[2]*v.Y + t.Translation[0],
		Y: t.Matrix[1]*v.X + t.Matrix[3]*v.Y + t.Translation[1],
	}
}

func TransformFromKurbo(transform curve.Affine) Transform {
	c := transform.Coefficients()
	return Transform{
		Matrix:      [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])},
		Translation: [2]float32{float32(c[4]), float32(c[5])},
	}
}

// AlignUp rounds len up to the next multiple of alignment, which must
// be a power of two.
func AlignUp[T constraints.Integer](len T, alignment T) T {
	return (len + alignment - 1) & -alignment
}
