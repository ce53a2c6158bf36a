// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package strata is a screen-space 2D renderer built from three
// stages: instanced flat-colored rectangles, a single textured sprite,
// and a four-layer compositor with per-layer placement rectangles and
// enable flags.
//
// A Scene collects a frame's draws. The GPU path uploads it through
// engine/wgpu_engine; RasterizeCPU produces the same frame in memory
// using the CPU expressions of the shaders.
package strata

import (
	"honnef.co/go/curve"
	"honnef.co/go/strata/composite"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/mem"
	"honnef.co/go/strata/smath"
)

// RectDraw is one flat-colored rectangle in the frame.
type RectDraw struct {
	Instance composite.Instance
	Color    gfx.Color
}

// SpriteDraw is the frame's textured sprite. UVOffset scrolls the
// texture, for host-driven animation.
type SpriteDraw struct {
	Instance composite.Instance
	Source   composite.Source
	UVOffset smath.Vec2
}

// Scene collects one frame's draws. The rectangle list is rebuilt
// every frame and allocated from an arena; layer slots and the screen
// size persist across Reset.
//
// All rectangle arguments are min/max rectangles in world space, with
// the origin at the screen center and y pointing up.
type Scene struct {
	arena     *mem.Arena
	screen    composite.Screen
	rects     []RectDraw
	sprite    SpriteDraw
	hasSprite bool
	layers    [composite.NumLayers]composite.Layer
}

func NewScene(screen composite.Screen) *Scene {
	return &Scene{
		arena:  mem.NewArena(),
		screen: screen,
	}
}

// Reset clears the per-frame draws and recycles their memory. Layer
// slots, the sprite's source, and the screen size are kept; they
// change by event, not per frame.
func (s *Scene) Reset() {
	s.rects = nil
	s.hasSprite = false
	s.arena.Reset()
}

func (s *Scene) Screen() composite.Screen { return s.screen }

func (s *Scene) SetScreen(screen composite.Screen) { s.screen = screen }

// PushRect appends one flat-colored rectangle. Rectangles draw in push
// order, beneath the sprite and the composite layers.
func (s *Scene) PushRect(r curve.Rect, c gfx.Color) {
	s.rects = mem.Append(s.arena, s.rects, RectDraw{
		Instance: composite.InstanceFromKurbo(r),
		Color:    c,
	})
}

// SetSprite places the sprite for this frame. The sprite draws above
// the rectangles and beneath the composite layers.
func (s *Scene) SetSprite(r curve.Rect, src composite.Source, uvOffset smath.Vec2) {
	s.sprite = SpriteDraw{
		Instance: composite.InstanceFromKurbo(r),
		Source:   src,
		UVOffset: uvOffset,
	}
	s.hasSprite = true
}

// SetLayerSource assigns a source to a composite layer slot and places
// it. Slots other than the last one become visible on assignment; the
// last slot stays hidden until shown explicitly, since it is
// conventionally a flash overlay.
func (s *Scene) SetLayerSource(slot int, src composite.Source, placement curve.Rect) {
	l := &s.layers[slot]
	l.Source = src
	l.Rect = composite.LayerRectFromKurbo(placement)
	if slot != composite.NumLayers-1 {
		l.Enabled = true
	}
}

func (s *Scene) SetLayerRect(slot int, placement curve.Rect) {
	s.layers[slot].Rect = composite.LayerRectFromKurbo(placement)
}

func (s *Scene) SetLayerVisible(slot int, visible bool) {
	s.layers[slot].Enabled = visible
}

// Layers returns the layer slots in compositing order.
func (s *Scene) Layers() *[composite.NumLayers]composite.Layer {
	return &s.layers
}

func (s *Scene) Rects() []RectDraw { return s.rects }

func (s *Scene) Sprite() (SpriteDraw, bool) {
	return s.sprite, s.hasSprite
}
