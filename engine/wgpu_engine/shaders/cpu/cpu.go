// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package cpu reimplements the render shaders on the CPU.
//
// The implementations are a debug and testing tool, not a viable
// software rasterizer. They mirror the WGSL entry points stage by
// stage so that GPU output can be checked against them.
package cpu

import (
	"image"
	stdcolor "image/color"

	"github.com/chewxy/math32"
	"honnef.co/go/strata/composite"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/smath"
)

// RectInstance mirrors the rect pipeline's per-instance input.
type RectInstance struct {
	Instance composite.Instance
	Color    gfx.Color
}

// Sprite mirrors the sprite pipeline's input: one textured quad with a
// UV scroll offset.
type Sprite struct {
	Instance composite.Instance
	Source   composite.Source
	UVOffset smath.Vec2
}

// worldAt returns the world coordinate of the center of pixel
// (px, py). Pixel rows run top to bottom; world y runs bottom to top,
// with the origin at the screen center.
func worldAt(screen composite.Screen, px, py int) smath.Vec2 {
	return smath.V(
		float32(px)+0.5-screen.Width/2,
		screen.Height/2-(float32(py)+0.5),
	)
}

// pixelBounds returns the half-open pixel rectangle covered by inst,
// clipped to dst.
func pixelBounds(dst *image.NRGBA, screen composite.Screen, inst composite.Instance) image.Rectangle {
	x0 := int(math32.Floor(inst.Offset.X - inst.Size.X/2 + screen.Width/2))
	y0 := int(math32.Floor(screen.Height/2 - (inst.Offset.Y + inst.Size.Y/2)))
	x1 := int(math32.Ceil(inst.Offset.X + inst.Size.X/2 + screen.Width/2))
	y1 := int(math32.Ceil(screen.Height/2 - (inst.Offset.Y - inst.Size.Y/2)))
	return image.Rect(x0, y0, x1, y1).Intersect(dst.Bounds())
}

func readPixel(dst *image.NRGBA, x, y int) gfx.Color {
	c := dst.NRGBAAt(x, y)
	return gfx.Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func writePixel(dst *image.NRGBA, x, y int, c gfx.Color) {
	quant := func(v float32) uint8 {
		return uint8(smath.Clamp(v, 0, 1)*255 + 0.5)
	}
	dst.SetNRGBA(x, y, stdcolor.NRGBA{
		R: quant(c.R),
		G: quant(c.G),
		B: quant(c.B),
		A: quant(c.A),
	})
}

// blendPixel applies source-over at one pixel, the CPU counterpart of
// the pipelines' blend state.
func blendPixel(dst *image.NRGBA, x, y int, src gfx.Color) {
	if src.A <= 0 {
		return
	}
	writePixel(dst, x, y, gfx.Over(readPixel(dst, x, y), src))
}

// Fill clears dst to c, the counterpart of the render pass clear.
func Fill(dst *image.NRGBA, c gfx.Color) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			writePixel(dst, x, y, c)
		}
	}
}

// RenderRects draws flat-colored rectangles, mirroring the rect
// shader.
func RenderRects(dst *image.NRGBA, screen composite.Screen, rects []RectInstance) {
	for _, r := range rects {
		b := pixelBounds(dst, screen, r.Instance)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				blendPixel(dst, x, y, r.Color)
			}
		}
	}
}

// RenderSprite draws one textured quad, mirroring the sprite shader.
func RenderSprite(dst *image.NRGBA, screen composite.Screen, sprite Sprite) {
	if sprite.Source == nil {
		return
	}
	b := pixelBounds(dst, screen, sprite.Instance)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			world := worldAt(screen, x, y)
			local := world.Sub(sprite.Instance.Offset).
				DivVec2(sprite.Instance.Size).
				Add(smath.V(0.5, 0.5))
			if local.X < 0 || local.X > 1 || local.Y < 0 || local.Y > 1 {
				continue
			}
			src := sprite.Source.Sample(
				local.X+sprite.UVOffset.X,
				(1-local.Y)+sprite.UVOffset.Y,
			)
			blendPixel(dst, x, y, src)
		}
	}
}

// RenderComposite draws the four-layer composite stage over the pixels
// covered by the union of the enabled layer rects, mirroring the
// composite shader.
func RenderComposite(dst *image.NRGBA, screen composite.Screen, layers *[composite.NumLayers]composite.Layer) {
	inst, ok := coveringInstance(layers)
	if !ok {
		return
	}
	b := pixelBounds(dst, screen, inst)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			blendPixel(dst, x, y, composite.Composite(worldAt(screen, x, y), layers))
		}
	}
}

// coveringInstance computes the quad instance covering the union of
// the enabled layer rects, matching what the GPU host uploads.
func coveringInstance(layers *[composite.NumLayers]composite.Layer) (composite.Instance, bool) {
	var x0, y0, x1, y1 float32
	any := false
	for i := range layers {
		l := &layers[i]
		if !l.Enabled || l.Source == nil {
			continue
		}
		lx0 := l.Rect.Pos.X - l.Rect.Size.X/2
		ly0 := l.Rect.Pos.Y - l.Rect.Size.Y/2
		lx1 := l.Rect.Pos.X + l.Rect.Size.X/2
		ly1 := l.Rect.Pos.Y + l.Rect.Size.Y/2
		if !any {
			x0, y0, x1, y1 = lx0, ly0, lx1, ly1
		} else {
			x0 = min(x0, lx0)
			y0 = min(y0, ly0)
			x1 = max(x1, lx1)
			y1 = max(y1, ly1)
		}
		any = true
	}
	if !any {
		return composite.Instance{}, false
	}
	return composite.Instance{
		Offset: smath.V((x0+x1)/2, (y0+y1)/2),
		Size:   smath.V(x1-x0, y1-y0),
	}, true
}
