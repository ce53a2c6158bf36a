// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package strata

import (
	"image"

	"honnef.co/go/strata/engine/wgpu_engine"
	"honnef.co/go/strata/engine/wgpu_engine/shaders/cpu"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/mem"
	"honnef.co/go/strata/profiler"
	"honnef.co/go/wgpu"
)

// UploadFrame uploads the scene's per-frame state to the renderer:
// screen size, rectangle instances, sprite placement, and layer
// placement and visibility. Texture contents are uploaded separately,
// via Renderer.SetSpriteImage and Renderer.UpdateLayerImage, when they
// change.
func UploadFrame(queue *wgpu.Queue, r *wgpu_engine.Renderer, s *Scene) {
	r.SetScreen(queue, s.screen)

	insts := mem.NewSlice[[]wgpu_engine.RectInstance](s.arena, len(s.rects), len(s.rects))
	for i, rd := range s.rects {
		insts[i] = wgpu_engine.Rect(rd.Instance, rd.Color)
	}
	r.UploadRects(queue, insts)

	if sprite, ok := s.Sprite(); ok {
		r.SetSprite(queue, sprite.Instance, sprite.UVOffset)
	} else {
		r.ClearSprite()
	}

	for i := range s.layers {
		r.SetLayerRect(i, s.layers[i].Rect)
		r.SetLayerVisible(i, s.layers[i].Enabled)
	}
	r.Prepare(queue)
}

// RasterizeCPU renders the scene into a new image using the CPU
// expressions of the shaders. base fills the target first, like the
// render pass clear.
func (s *Scene) RasterizeCPU(base gfx.Color, pgroup profiler.ProfilerGroup) *image.NRGBA {
	pgroup = pgroup.Start("RasterizeCPU")
	defer pgroup.End()

	dst := image.NewNRGBA(image.Rect(0, 0, int(s.screen.Width), int(s.screen.Height)))
	cpu.Fill(dst, base)

	rects := make([]cpu.RectInstance, len(s.rects))
	for i, rd := range s.rects {
		rects[i] = cpu.RectInstance{Instance: rd.Instance, Color: rd.Color}
	}
	cpu.RenderRects(dst, s.screen, rects)

	if sprite, ok := s.Sprite(); ok {
		cpu.RenderSprite(dst, s.screen, cpu.Sprite{
			Instance: sprite.Instance,
			Source:   sprite.Source,
			UVOffset: sprite.UVOffset,
		})
	}

	cpu.RenderComposite(dst, s.screen, &s.layers)
	return dst
}
