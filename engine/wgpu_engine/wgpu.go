// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

// OPT reuse layer textures when the incoming image has the same size

import (
	"fmt"
	"image"
	"image/draw"
	"structs"
	"unsafe"

	"honnef.co/go/safeish"
	"honnef.co/go/strata/composite"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/smath"
	"honnef.co/go/wgpu"
)

// GPU-side layouts. These must be kept in sync with the struct
// declarations in the shaders package.

type screenUniform struct {
	_ structs.HostLayout

	Size [2]float32
}

type spriteUniform struct {
	_ structs.HostLayout

	UVOffset [2]float32
	Pad      [2]float32
}

type layerUniform struct {
	_ structs.HostLayout

	Rects [composite.NumLayers][4]float32
	Flags [4]uint32
}

// RectInstance is the per-instance vertex data of the rect pipeline.
type RectInstance struct {
	_ structs.HostLayout

	Offset [2]float32
	Size   [2]float32
	Color  [4]float32
}

// Rect builds the instance data for one flat-colored rectangle.
func Rect(inst composite.Instance, c gfx.Color) RectInstance {
	return RectInstance{
		Offset: inst.Offset.ToArray(),
		Size:   inst.Size.ToArray(),
		Color:  c.ToArray(),
	}
}

// quadInstance is the per-instance vertex data of the sprite and
// composite pipelines.
type quadInstance struct {
	_ structs.HostLayout

	Offset [2]float32
	Size   [2]float32
}

type layerState struct {
	view    *wgpu.TextureView
	rect    composite.LayerRect
	visible bool
}

type spriteState struct {
	view     *wgpu.TextureView
	instance composite.Instance
	uvOffset smath.Vec2
	enabled  bool
}

// Renderer owns the GPU resources of the three render pipelines: the
// instanced rect pipeline, the single-texture sprite pipeline, and the
// four-layer composite pipeline. All pipelines share one screen
// uniform and one unit-quad vertex/index buffer.
type Renderer struct {
	Device *wgpu.Device

	rect      *rectPipeline
	sprite    *spritePipeline
	composite *compositePipeline

	screenBuf *wgpu.Buffer
	quadVB    *wgpu.Buffer
	quadIB    *wgpu.Buffer
	sampler   *wgpu.Sampler
	// bound in place of layers that have no texture yet
	placeholder *wgpu.TextureView

	rectBuf   *wgpu.Buffer
	rectCap   int
	rectCount int

	spriteState     spriteState
	spriteParamsBuf *wgpu.Buffer
	spriteInstBuf   *wgpu.Buffer
	spriteBindGroup *wgpu.BindGroup

	layers         [composite.NumLayers]layerState
	layerParamsBuf *wgpu.Buffer
	layerInstBuf   *wgpu.Buffer
	layerBindGroup *wgpu.BindGroup
	hasLayers      bool
}

// unit quad centered on the origin, two CCW triangles
var quadVertices = [4][2]float32{
	{-0.5, 0.5},
	{0.5, 0.5},
	{-0.5, -0.5},
	{0.5, -0.5},
}

var quadIndices = [6]uint16{
	0, 2, 1,
	1, 2, 3,
}

func New(dev *wgpu.Device, options *RendererOptions) *Renderer {
	r := &Renderer{
		Device:    dev,
		rect:      newRectPipeline(dev, options.SurfaceFormat),
		sprite:    newSpritePipeline(dev, options.SurfaceFormat),
		composite: newCompositePipeline(dev, options.SurfaceFormat),
	}

	r.screenBuf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "screen uniform",
		Size:  uint64(unsafe.Sizeof(screenUniform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	r.quadVB = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "quad vertices",
		Size:  uint64(unsafe.Sizeof(quadVertices)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	r.quadIB = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "quad indices",
		Size:  uint64(unsafe.Sizeof(quadIndices)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	r.spriteParamsBuf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "sprite params",
		Size:  uint64(unsafe.Sizeof(spriteUniform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	r.spriteInstBuf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "sprite instance",
		Size:  uint64(unsafe.Sizeof(quadInstance{})),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	r.layerParamsBuf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "layer params",
		Size:  uint64(unsafe.Sizeof(layerUniform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	r.layerInstBuf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "layer instance",
		Size:  uint64(unsafe.Sizeof(quadInstance{})),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})

	r.sampler = dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "layer sampler",
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	})

	return r
}

// Init uploads the static quad geometry and the placeholder texture.
// It must be called once before the first frame.
func (r *Renderer) Init(queue *wgpu.Queue) {
	queue.WriteBuffer(r.quadVB, 0, safeish.AsBytes(&quadVertices))
	queue.WriteBuffer(r.quadIB, 0, safeish.AsBytes(&quadIndices))

	tex := r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "placeholder",
		Size: wgpu.Extent3D{
			Width:              1,
			Height:             1,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	defer tex.Release()
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		[]byte{0, 0, 0, 0},
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4,
			RowsPerImage: 1,
		},
		&wgpu.Extent3D{
			Width:              1,
			Height:             1,
			DepthOrArrayLayers: 1,
		},
	)
	r.placeholder = tex.CreateView(nil)

	r.spriteBindGroup = r.buildSpriteBindGroup()
	r.layerBindGroup = r.buildLayerBindGroup()
}

// SetScreen uploads the logical screen size. The dimensions must be
// positive.
func (r *Renderer) SetScreen(queue *wgpu.Queue, screen composite.Screen) {
	uni := screenUniform{
		Size: [2]float32{screen.Width, screen.Height},
	}
	queue.WriteBuffer(r.screenBuf, 0, safeish.AsBytes(&uni))
}

// UploadRects uploads the flat-colored rectangle instances for the
// next frame, growing the instance buffer as needed.
func (r *Renderer) UploadRects(queue *wgpu.Queue, rects []RectInstance) {
	if len(rects) > r.rectCap {
		if r.rectBuf != nil {
			r.rectBuf.Release()
		}
		r.rectCap = max(2*len(rects), 64)
		r.rectBuf = r.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "rect instances",
			Size:  uint64(r.rectCap) * uint64(unsafe.Sizeof(RectInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
	}
	if len(rects) > 0 {
		queue.WriteBuffer(r.rectBuf, 0, safeish.SliceCast[[]byte](rects))
	}
	r.rectCount = len(rects)
}

// SetSpriteImage replaces the sprite pipeline's texture.
func (r *Renderer) SetSpriteImage(queue *wgpu.Queue, img image.Image) {
	if r.spriteState.view != nil {
		r.spriteState.view.Release()
	}
	r.spriteState.view = r.uploadTexture(queue, img)
	r.spriteBindGroup = r.buildSpriteBindGroup()
}

// SetSprite places the sprite and sets its UV scroll offset for the
// next frame. The sprite only draws once it has a texture.
func (r *Renderer) SetSprite(queue *wgpu.Queue, inst composite.Instance, uvOffset smath.Vec2) {
	r.spriteState.instance = inst
	r.spriteState.uvOffset = uvOffset
	r.spriteState.enabled = true

	uni := spriteUniform{UVOffset: uvOffset.ToArray()}
	queue.WriteBuffer(r.spriteParamsBuf, 0, safeish.AsBytes(&uni))
	qi := quadInstance{
		Offset: inst.Offset.ToArray(),
		Size:   inst.Size.ToArray(),
	}
	queue.WriteBuffer(r.spriteInstBuf, 0, safeish.AsBytes(&qi))
}

func (r *Renderer) ClearSprite() {
	r.spriteState.enabled = false
}

// UpdateLayerImage replaces the texture of one composite layer slot
// and places it at rect. Slots other than the poor slot become visible
// on upload, matching how layer changes behave during play.
func (r *Renderer) UpdateLayerImage(queue *wgpu.Queue, slot int, img image.Image, rect composite.LayerRect) {
	st := r.layerState(slot)
	if st.view != nil {
		st.view.Release()
	}
	st.view = r.uploadTexture(queue, img)
	st.rect = rect
	if slot != composite.NumLayers-1 {
		st.visible = true
	}
	r.layerBindGroup = r.buildLayerBindGroup()
}

func (r *Renderer) SetLayerRect(slot int, rect composite.LayerRect) {
	r.layerState(slot).rect = rect
}

func (r *Renderer) SetLayerVisible(slot int, visible bool) {
	r.layerState(slot).visible = visible
}

func (r *Renderer) layerState(slot int) *layerState {
	if slot < 0 || slot >= composite.NumLayers {
		panic(fmt.Sprintf("layer slot %d out of range", slot))
	}
	return &r.layers[slot]
}

// Prepare packs the layer params uniform and the covering instance for
// the composite pipeline and uploads them. Disabled layers upload a
// zero rectangle, which samples as transparent regardless of texture
// contents.
func (r *Renderer) Prepare(queue *wgpu.Queue) {
	var uni layerUniform
	var x0, y0, x1, y1 float32
	any := false
	for i := range r.layers {
		st := &r.layers[i]
		if !st.visible || st.view == nil {
			continue
		}
		uni.Rects[i] = [4]float32{st.rect.Pos.X, st.rect.Pos.Y, st.rect.Size.X, st.rect.Size.Y}
		uni.Flags[i] = 1
		lx0 := st.rect.Pos.X - st.rect.Size.X/2
		ly0 := st.rect.Pos.Y - st.rect.Size.Y/2
		lx1 := st.rect.Pos.X + st.rect.Size.X/2
		ly1 := st.rect.Pos.Y + st.rect.Size.Y/2
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
	r.hasLayers = any
	queue.WriteBuffer(r.layerParamsBuf, 0, safeish.AsBytes(&uni))

	// one instance covering the union of the enabled layer rects
	qi := quadInstance{
		Offset: [2]float32{(x0 + x1) / 2, (y0 + y1) / 2},
		Size:   [2]float32{x1 - x0, y1 - y0},
	}
	queue.WriteBuffer(r.layerInstBuf, 0, safeish.AsBytes(&qi))
}

// uploadTexture creates an immutable RGBA8 sRGB texture from img. The
// pixel data is uploaded straight alpha, the form the shaders blend
// in.
func (r *Renderer) uploadTexture(queue *wgpu.Queue, img image.Image) *wgpu.TextureView {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*w || b.Min != (image.Point{}) {
		tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(tmp, tmp.Bounds(), img, b.Min, draw.Src)
		nrgba = tmp
	}

	// pad rows to the copy alignment so the same data can also feed
	// buffer-to-texture copies
	stride := smath.AlignUp(uint32(4*w), 256)
	pix := nrgba.Pix
	if stride != uint32(4*w) {
		pix = make([]byte, int(stride)*h)
		for y := 0; y < h; y++ {
			copy(pix[y*int(stride):], nrgba.Pix[y*4*w:(y+1)*4*w])
		}
	}

	tex := r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "layer texture",
		Size: wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	defer tex.Release()
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stride,
			RowsPerImage: uint32(h),
		},
		&wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	)
	return tex.CreateView(nil)
}

func (r *Renderer) buildSpriteBindGroup() *wgpu.BindGroup {
	view := r.spriteState.view
	if view == nil {
		view = r.placeholder
	}
	return r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "sprite",
		Layout: r.sprite.bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.screenBuf, Size: ^uint64(0)},
			{Binding: 1, Buffer: r.spriteParamsBuf, Size: ^uint64(0)},
			{Binding: 2, TextureView: view, Size: ^uint64(0)},
			{Binding: 3, Sampler: r.sampler, Size: ^uint64(0)},
		},
	})
}

func (r *Renderer) buildLayerBindGroup() *wgpu.BindGroup {
	entries := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: r.screenBuf, Size: ^uint64(0)},
		{Binding: 1, Buffer: r.layerParamsBuf, Size: ^uint64(0)},
	}
	for i := range r.layers {
		view := r.layers[i].view
		if view == nil {
			view = r.placeholder
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(2 + i),
			TextureView: view,
			Size:        ^uint64(0),
		})
	}
	entries = append(entries, wgpu.BindGroupEntry{
		Binding: uint32(2 + composite.NumLayers),
		Sampler: r.sampler,
		Size:    ^uint64(0),
	})
	return r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "composite layers",
		Layout:  r.composite.bindLayout,
		Entries: entries,
	})
}
