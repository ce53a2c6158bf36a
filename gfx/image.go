// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"image"

	"github.com/chewxy/math32"
)

// Extend describes how samples outside a source's pixel grid are
// produced.
type Extend int

const (
	Pad Extend = iota
	Repeat
	Reflect
)

// Filter selects the sampling filter. Filtering is the sampler's
// policy; the compositor only prescribes the UV it requests.
type Filter int

const (
	Nearest Filter = iota
	Bilinear
)

// Image samples an image.Image as a texture. UV coordinates are
// normalized to [0, 1]² with v = 0 at the top row, matching the
// row-major storage origin.
type Image struct {
	Image  image.Image
	Extend Extend
	Filter Filter
}

// Sample returns the straight-alpha color at the given UV coordinate.
// An empty image samples as transparent.
func (img *Image) Sample(u, v float32) Color {
	b := img.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Transparent
	}
	switch img.Filter {
	case Bilinear:
		x := u*float32(w) - 0.5
		y := v*float32(h) - 0.5
		x0 := math32.Floor(x)
		y0 := math32.Floor(y)
		fx := x - x0
		fy := y - y0
		ix := int(x0)
		iy := int(y0)
		c00 := img.texel(ix, iy)
		c10 := img.texel(ix+1, iy)
		c01 := img.texel(ix, iy+1)
		c11 := img.texel(ix+1, iy+1)
		top := lerp(c00, c10, fx)
		bot := lerp(c01, c11, fx)
		return lerp(top, bot, fy)
	default:
		ix := int(math32.Floor(u * float32(w)))
		iy := int(math32.Floor(v * float32(h)))
		return img.texel(ix, iy)
	}
}

// texel fetches the texel at integer coordinates, resolving
// out-of-range coordinates per the Extend mode and converting the
// premultiplied image/color value back to straight alpha.
func (img *Image) texel(x, y int) Color {
	b := img.Image.Bounds()
	x = img.Extend.index(x, b.Dx())
	y = img.Extend.index(y, b.Dy())
	r, g, bb, a := img.Image.At(b.Min.X+x, b.Min.Y+y).RGBA()
	if a == 0 {
		return Transparent
	}
	af := float32(a)
	return Color{
		R: float32(r) / af,
		G: float32(g) / af,
		B: float32(bb) / af,
		A: af / 0xffff,
	}
}

func (e Extend) index(i, n int) int {
	switch e {
	case Repeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	case Reflect:
		i %= 2 * n
		if i < 0 {
			i += 2 * n
		}
		if i >= n {
			i = 2*n - 1 - i
		}
		return i
	default:
		return min(max(i, 0), n-1)
	}
}

func lerp(a, b Color, t float32) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// Solid samples as a single color everywhere.
type Solid Color

func (s Solid) Sample(u, v float32) Color {
	return Color(s)
}
