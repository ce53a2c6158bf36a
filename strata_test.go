// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"honnef.co/go/curve"
	"honnef.co/go/strata/composite"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/profiler"
	"honnef.co/go/strata/smath"
)

func TestSceneReset(t *testing.T) {
	s := NewScene(composite.Screen{Width: 100, Height: 100})
	s.PushRect(curve.Rect{X0: -10, Y0: -10, X1: 10, Y1: 10}, gfx.RGBA(1, 0, 0, 1))
	s.SetSprite(curve.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}, gfx.Solid(gfx.RGBA(1, 1, 1, 1)), smath.V(0, 0))
	s.SetLayerSource(0, gfx.Solid(gfx.RGBA(0, 1, 0, 1)), curve.Rect{X0: -5, Y0: -5, X1: 5, Y1: 5})

	assert.Len(t, s.Rects(), 1)
	_, hasSprite := s.Sprite()
	assert.True(t, hasSprite)

	s.Reset()
	assert.Empty(t, s.Rects())
	_, hasSprite = s.Sprite()
	assert.False(t, hasSprite)
	// layers persist across frames
	assert.True(t, s.Layers()[0].Enabled)
	assert.NotNil(t, s.Layers()[0].Source)
}

func TestPushRectPlacement(t *testing.T) {
	s := NewScene(composite.Screen{Width: 100, Height: 100})
	s.PushRect(curve.Rect{X0: 10, Y0: 20, X1: 30, Y1: 60}, gfx.RGBA(1, 0, 0, 1))

	rd := s.Rects()[0]
	assert.Equal(t, smath.V(20, 40), rd.Instance.Offset)
	assert.Equal(t, smath.V(20, 40), rd.Instance.Size)
}

// The last layer slot stays hidden on assignment; the others show
// immediately.
func TestLayerSlotVisibility(t *testing.T) {
	s := NewScene(composite.Screen{Width: 100, Height: 100})
	src := gfx.Solid(gfx.RGBA(1, 1, 1, 1))
	r := curve.Rect{X0: -5, Y0: -5, X1: 5, Y1: 5}

	for slot := 0; slot < composite.NumLayers-1; slot++ {
		s.SetLayerSource(slot, src, r)
		assert.True(t, s.Layers()[slot].Enabled, "slot %d", slot)
	}
	s.SetLayerSource(composite.NumLayers-1, src, r)
	assert.False(t, s.Layers()[composite.NumLayers-1].Enabled)

	s.SetLayerVisible(composite.NumLayers-1, true)
	assert.True(t, s.Layers()[composite.NumLayers-1].Enabled)
}

func TestRasterizeCPU(t *testing.T) {
	s := NewScene(composite.Screen{Width: 8, Height: 8})
	s.PushRect(curve.Rect{X0: -4, Y0: -4, X1: 0, Y1: 4}, gfx.RGBA(1, 0, 0, 1))
	s.SetLayerSource(0, gfx.Solid(gfx.RGBA(0, 0, 1, 1)), curve.Rect{X0: 0, Y0: -4, X1: 4, Y1: 4})

	dst := s.RasterizeCPU(gfx.RGBA(0, 0, 0, 1), profiler.Nop())
	b := dst.Bounds()
	assert.Equal(t, 8, b.Dx())
	assert.Equal(t, 8, b.Dy())

	// left half rect, right half layer
	assert.EqualValues(t, 255, dst.NRGBAAt(1, 4).R)
	assert.EqualValues(t, 255, dst.NRGBAAt(6, 4).B)
}

func TestRasterizeCPUAcrossResets(t *testing.T) {
	s := NewScene(composite.Screen{Width: 8, Height: 8})
	for frame := 0; frame < 3; frame++ {
		s.Reset()
		s.PushRect(curve.Rect{X0: -4, Y0: -4, X1: 4, Y1: 4}, gfx.RGBA(0, 1, 0, 1))
		dst := s.RasterizeCPU(gfx.RGBA(0, 0, 0, 1), profiler.Nop())
		assert.EqualValues(t, 255, dst.NRGBAAt(4, 4).G, "frame %d", frame)
	}
}
