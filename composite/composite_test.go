// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package composite

import (
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/smath"
)

func solidLayer(c gfx.Color, rect LayerRect) Layer {
	return Layer{
		Source:  gfx.Solid(c),
		Rect:    rect,
		Enabled: true,
	}
}

func centered(w, h float32) LayerRect {
	return LayerRect{Size: smath.V(w, h)}
}

func TestSampleLayerDisabled(t *testing.T) {
	l := solidLayer(gfx.RGBA(1, 0, 0, 1), centered(800, 600))
	l.Enabled = false
	assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(0, 0), l))
}

func TestSampleLayerNoSource(t *testing.T) {
	l := Layer{Rect: centered(800, 600), Enabled: true}
	assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(0, 0), l))
}

func TestSampleLayerDegenerateRect(t *testing.T) {
	red := gfx.RGBA(1, 0, 0, 1)
	for _, rect := range []LayerRect{
		centered(0, 600),
		centered(800, 0),
		centered(-1, 600),
	} {
		l := solidLayer(red, rect)
		assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(0, 0), l))
	}
}

func TestSampleLayerClipsToRect(t *testing.T) {
	red := gfx.RGBA(1, 0, 0, 1)
	l := solidLayer(red, centered(400, 300))

	// inside, including the exact boundary
	assert.Equal(t, red, SampleLayer(smath.V(0, 0), l))
	assert.Equal(t, red, SampleLayer(smath.V(200, 0), l))
	assert.Equal(t, red, SampleLayer(smath.V(-200, 150), l))

	// outside on one axis is enough
	assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(201, 0), l))
	assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(0, -151), l))
	assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(300, 200), l))
}

func TestSampleLayerOffsetRect(t *testing.T) {
	red := gfx.RGBA(1, 0, 0, 1)
	l := solidLayer(red, LayerRect{Pos: smath.V(100, -50), Size: smath.V(200, 100)})
	assert.Equal(t, red, SampleLayer(smath.V(100, -50), l))
	assert.Equal(t, red, SampleLayer(smath.V(199, -50), l))
	assert.Equal(t, gfx.Transparent, SampleLayer(smath.V(-100, -50), l))
}

// The v coordinate flips: increasing world y samples earlier image
// rows.
func TestSampleLayerFlipsV(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, stdcolor.NRGBA{R: 255, G: 255, B: 255, A: 255}) // top row
	img.SetNRGBA(0, 1, stdcolor.NRGBA{A: 255})                         // bottom row
	l := Layer{
		Source:  &gfx.Image{Image: img, Filter: gfx.Nearest},
		Rect:    centered(1, 2),
		Enabled: true,
	}

	top := SampleLayer(smath.V(0, 0.4), l)
	bottom := SampleLayer(smath.V(0, -0.4), l)
	assert.InDelta(t, 1.0, top.R, 1e-3)
	assert.InDelta(t, 0.0, bottom.R, 1e-3)
}

func TestCompositeEmpty(t *testing.T) {
	var layers [NumLayers]Layer
	assert.Equal(t, gfx.Transparent, Composite(smath.V(0, 0), &layers))
}

func TestCompositeSingleOpaque(t *testing.T) {
	red := gfx.RGBA(1, 0, 0, 1)
	var layers [NumLayers]Layer
	layers[0] = solidLayer(red, centered(800, 600))
	got := Composite(smath.V(0, 0), &layers)
	assert.Equal(t, red, got)
}

// A half-transparent red over an opaque blue blends to an opaque
// purple.
func TestCompositeHalfOverOpaque(t *testing.T) {
	var layers [NumLayers]Layer
	layers[0] = solidLayer(gfx.RGBA(0, 0, 1, 1), centered(800, 600))
	layers[1] = solidLayer(gfx.RGBA(1, 0, 0, 0.5), centered(800, 600))
	got := Composite(smath.V(0, 0), &layers)
	assert.InDelta(t, 0.5, got.R, 1e-6)
	assert.InDelta(t, 0.0, got.G, 1e-6)
	assert.InDelta(t, 0.5, got.B, 1e-6)
	assert.InDelta(t, 1.0, got.A, 1e-6)
}

// Layers fold in slot order; swapping two partially transparent
// layers changes the result.
func TestCompositeSlotOrder(t *testing.T) {
	red := solidLayer(gfx.RGBA(1, 0, 0, 0.5), centered(100, 100))
	blue := solidLayer(gfx.RGBA(0, 0, 1, 0.5), centered(100, 100))

	var ab, ba [NumLayers]Layer
	ab[0], ab[1] = red, blue
	ba[0], ba[1] = blue, red

	p := smath.V(0, 0)
	got := Composite(p, &ab)
	swapped := Composite(p, &ba)
	assert.Greater(t, got.B, got.R, "topmost layer dominates")
	assert.Greater(t, swapped.R, swapped.B)
	assert.NotEqual(t, got, swapped)

	// and the fold matches a manual application of Over
	want := gfx.Over(gfx.Over(gfx.Transparent, gfx.RGBA(1, 0, 0, 0.5)), gfx.RGBA(0, 0, 1, 0.5))
	assert.InDelta(t, want.R, got.R, 1e-6)
	assert.InDelta(t, want.B, got.B, 1e-6)
	assert.InDelta(t, want.A, got.A, 1e-6)
}

// Folding two layers at a time gives the same result as folding one
// by one, as long as index order is preserved.
func TestCompositeGrouping(t *testing.T) {
	colors := [NumLayers]gfx.Color{
		gfx.RGBA(1, 0, 0, 0.3),
		gfx.RGBA(0, 1, 0, 0.5),
		gfx.RGBA(0, 0, 1, 0.7),
		gfx.RGBA(1, 1, 0, 0.2),
	}
	var layers [NumLayers]Layer
	for i, c := range colors {
		layers[i] = solidLayer(c, centered(800, 600))
	}
	got := Composite(smath.V(0, 0), &layers)

	front := gfx.Over(colors[0], colors[1])
	back := gfx.Over(colors[2], colors[3])
	want := gfx.Over(front, back)

	assert.InDelta(t, want.R, got.R, 1e-5)
	assert.InDelta(t, want.G, got.G, 1e-5)
	assert.InDelta(t, want.B, got.B, 1e-5)
	assert.InDelta(t, want.A, got.A, 1e-5)
}

// An opaque, fully covering top layer saturates alpha; whatever sits
// beneath it contributes nothing.
func TestCompositeOpaqueTopSaturates(t *testing.T) {
	red := gfx.RGBA(1, 0, 0, 1)
	var layers [NumLayers]Layer
	layers[0] = solidLayer(gfx.RGBA(0, 1, 0, 0.8), centered(800, 600))
	layers[1] = solidLayer(gfx.RGBA(0, 0, 1, 0.4), centered(200, 200))
	layers[2] = solidLayer(gfx.RGBA(1, 1, 1, 1), centered(800, 600))
	layers[3] = solidLayer(red, centered(800, 600))

	for _, p := range []smath.Vec2{{X: 0, Y: 0}, {X: -399, Y: -299}, {X: 399, Y: 299}} {
		assert.Equal(t, red, Composite(p, &layers))
	}
}

// Full-cover single layer: every covered point samples exactly the
// layer's color.
func TestCompositeFullCover(t *testing.T) {
	red := gfx.RGBA(1, 0, 0, 1)
	var layers [NumLayers]Layer
	layers[0] = solidLayer(red, centered(800, 600))

	for _, p := range []smath.Vec2{
		{X: 0, Y: 0},
		{X: -400, Y: -300},
		{X: 400, Y: 300},
		{X: 123, Y: -45},
	} {
		assert.Equal(t, red, Composite(p, &layers), "world %v", p)
	}
}

// A disabled slot contributes nothing, even with a source assigned.
func TestCompositeSkipsDisabled(t *testing.T) {
	var layers [NumLayers]Layer
	layers[0] = solidLayer(gfx.RGBA(0, 1, 0, 1), centered(800, 600))
	layers[3] = solidLayer(gfx.RGBA(1, 0, 0, 1), centered(800, 600))
	layers[3].Enabled = false
	got := Composite(smath.V(0, 0), &layers)
	assert.Equal(t, gfx.RGBA(0, 1, 0, 1), got)
}

// Layers only cover their own rects; a point outside a small top layer
// shows the layer beneath.
func TestCompositePartialCover(t *testing.T) {
	var layers [NumLayers]Layer
	layers[0] = solidLayer(gfx.RGBA(0, 0, 1, 1), centered(800, 600))
	layers[1] = solidLayer(gfx.RGBA(1, 0, 0, 1), centered(400, 300))

	assert.Equal(t, gfx.RGBA(1, 0, 0, 1), Composite(smath.V(0, 0), &layers))
	assert.Equal(t, gfx.RGBA(0, 0, 1, 1), Composite(smath.V(300, 0), &layers))
}

func TestClipPosition(t *testing.T) {
	s := Screen{Width: 800, Height: 600}
	inst := Instance{Size: smath.V(800, 600)}

	assert.Equal(t, [4]float32{0, 0, 0, 1}, ClipPosition(smath.V(0, 0), inst, s))
	assert.Equal(t, [4]float32{1, 1, 0, 1}, ClipPosition(smath.V(0.5, 0.5), inst, s))
	assert.Equal(t, [4]float32{-1, -1, 0, 1}, ClipPosition(smath.V(-0.5, -0.5), inst, s))
}

func TestQuadUV(t *testing.T) {
	assert.Equal(t, smath.V(0, 1), QuadUV(smath.V(-0.5, -0.5)))
	assert.Equal(t, smath.V(1, 0), QuadUV(smath.V(0.5, 0.5)))
	assert.Equal(t, smath.V(0.5, 0.5), QuadUV(smath.V(0, 0)))
}
