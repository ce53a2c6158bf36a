// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package composite implements the layer compositing stage: given a
// point on a destination rectangle and up to four independently placed
// source layers, it produces one color by sampling each enabled layer
// at its locally mapped coordinate and folding the results with
// alpha-over blending.
//
// Everything in this package is a pure function of its inputs. One
// invocation per pixel, no shared mutable state; pixels may be
// evaluated in any order or concurrently with no observable
// difference. The GPU expression of the same logic lives in
// engine/wgpu_engine/shaders and must be kept in sync.
package composite

import (
	"honnef.co/go/curve"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/smath"
)

// NumLayers is the number of layer slots per compositor invocation.
// The slots are ordered: slot 0 is composited first and sits beneath
// later slots, slot 3 is topmost.
const NumLayers = 4

// Source provides texture samples. Implementations choose the filter
// and address mode; u and v are in [0, 1]² with v = 0 at the top.
type Source interface {
	Sample(u, v float32) gfx.Color
}

// LayerRect places a source's content in world space, independent of
// the destination rectangle's own placement. Pos is the center, Size
// the full extent.
type LayerRect struct {
	Pos  smath.Vec2
	Size smath.Vec2
}

// LayerRectFromKurbo converts a min/max rectangle to center/size
// form.
func LayerRectFromKurbo(r curve.Rect) LayerRect {
	return LayerRect{
		Pos:  smath.V(float32(r.X0+r.X1)/2, float32(r.Y0+r.Y1)/2),
		Size: smath.V(float32(r.X1-r.X0), float32(r.Y1-r.Y0)),
	}
}

// Layer is one source layer of a compositor invocation. A disabled
// layer, a layer without a source, and a layer whose rectangle is
// degenerate all sample as fully transparent; none of these are
// errors.
type Layer struct {
	Source  Source
	Rect    LayerRect
	Enabled bool
}

// SampleLayer samples one layer at a world-space point.
//
// The layer rectangle's own extent is mapped onto [0, 1]²; points
// outside it, on either axis, sample as transparent regardless of the
// destination rectangle's size. The v coordinate is flipped so that
// increasing world y samples decreasing image rows, the same top-left
// origin convention QuadUV uses.
func SampleLayer(world smath.Vec2, l Layer) gfx.Color {
	if !l.Enabled || l.Source == nil {
		return gfx.Transparent
	}
	if l.Rect.Size.X <= 0 || l.Rect.Size.Y <= 0 {
		return gfx.Transparent
	}
	local := world.Sub(l.Rect.Pos).DivVec2(l.Rect.Size).Add(smath.V(0.5, 0.5))
	if local.X < 0 || local.X > 1 || local.Y < 0 || local.Y > 1 {
		return gfx.Transparent
	}
	return l.Source.Sample(local.X, 1-local.Y)
}

// Composite folds the four layers over a transparent background in
// slot order. The fold direction is fixed; reversing it would change
// output wherever overlapping layers both have partial alpha.
func Composite(world smath.Vec2, layers *[NumLayers]Layer) gfx.Color {
	acc := gfx.Transparent
	for i := range layers {
		acc = gfx.Over(acc, SampleLayer(world, layers[i]))
	}
	return acc
}
