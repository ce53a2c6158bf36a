// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package wgpu_engine renders scenes using WebGPU.
package wgpu_engine

import (
	"honnef.co/go/color"
	"honnef.co/go/strata/composite"
	"honnef.co/go/strata/engine/wgpu_engine/shaders"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/profiler"
	"honnef.co/go/wgpu"
)

type RendererOptions struct {
	// SurfaceFormat is the texture format of the render target.
	SurfaceFormat wgpu.TextureFormat
}

// RenderParams are the per-frame parameters of a render.
type RenderParams struct {
	// BaseColor fills the target before any drawing. A nil color
	// clears to opaque black.
	BaseColor *color.Color
}

// Non-premultiplied source-over blending. Shader outputs are straight
// alpha; the composite stage's internal folds happen in premultiplied
// space and divide back out before writing.
var blendAlpha = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

var quadVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 8,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
	},
}

var rectInstanceLayout = wgpu.VertexBufferLayout{
	ArrayStride: 32,
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
	},
}

var quadInstanceLayout = wgpu.VertexBufferLayout{
	ArrayStride: 16,
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
	},
}

type rectPipeline struct {
	bindLayout *wgpu.BindGroupLayout
	pipeline   *wgpu.RenderPipeline
	bindGroup  *wgpu.BindGroup
}

type spritePipeline struct {
	bindLayout *wgpu.BindGroupLayout
	pipeline   *wgpu.RenderPipeline
}

type compositePipeline struct {
	bindLayout *wgpu.BindGroupLayout
	pipeline   *wgpu.RenderPipeline
}

func newRenderPipeline(
	dev *wgpu.Device,
	shader shaders.RenderShader,
	layout *wgpu.BindGroupLayout,
	format wgpu.TextureFormat,
	buffers []wgpu.VertexBufferLayout,
) *wgpu.RenderPipeline {
	module := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  shader.Name,
		Source: wgpu.ShaderSourceWGSL(shader.WGSL),
	})
	defer module.Release()
	pipelineLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            shader.Name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	defer pipelineLayout.Release()
	return dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  shader.Name,
		Layout: pipelineLayout,
		Vertex: &wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     &blendAlpha,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: &wgpu.PrimitiveState{
			Topology:         wgpu.PrimitiveTopologyTriangleList,
			StripIndexFormat: ^wgpu.IndexFormat(0),
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeBack,
		},
		Multisample: &wgpu.MultisampleState{
			Count: 1,
			Mask:  ^uint32(0),
		},
	})
}

func newRectPipeline(dev *wgpu.Device, format wgpu.TextureFormat) *rectPipeline {
	layout := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "rect",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	pipeline := newRenderPipeline(dev, shaders.Collection.Rect, layout, format,
		[]wgpu.VertexBufferLayout{quadVertexLayout, rectInstanceLayout})
	return &rectPipeline{
		bindLayout: layout,
		pipeline:   pipeline,
	}
}

func newSpritePipeline(dev *wgpu.Device, format wgpu.TextureFormat) *spritePipeline {
	layout := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "sprite",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Texture: &wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    &wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	pipeline := newRenderPipeline(dev, shaders.Collection.Sprite, layout, format,
		[]wgpu.VertexBufferLayout{quadVertexLayout, quadInstanceLayout})
	return &spritePipeline{
		bindLayout: layout,
		pipeline:   pipeline,
	}
}

func newCompositePipeline(dev *wgpu.Device, format wgpu.TextureFormat) *compositePipeline {
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer:     &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Buffer:     &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		},
	}
	for i := 0; i < composite.NumLayers; i++ {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(2 + i),
			Visibility: wgpu.ShaderStageFragment,
			Texture: &wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		})
	}
	entries = append(entries, wgpu.BindGroupLayoutEntry{
		Binding:    uint32(2 + composite.NumLayers),
		Visibility: wgpu.ShaderStageFragment,
		Sampler:    &wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
	})
	layout := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "composite",
		Entries: entries,
	})
	pipeline := newRenderPipeline(dev, shaders.Collection.Composite, layout, format,
		[]wgpu.VertexBufferLayout{quadVertexLayout, quadInstanceLayout})
	return &compositePipeline{
		bindLayout: layout,
		pipeline:   pipeline,
	}
}

// RenderToTexture renders the prepared frame into view. The caller
// must have called SetScreen, UploadRects, and Prepare for the frame.
func (r *Renderer) RenderToTexture(
	queue *wgpu.Queue,
	view *wgpu.TextureView,
	params *RenderParams,
	pgroup profiler.ProfilerGroup,
) {
	pgroup = pgroup.Start("RenderToTexture")
	defer pgroup.End()

	encoder := r.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "render",
	})
	defer encoder.Release()

	clear := wgpu.Color{A: 1}
	if params.BaseColor != nil {
		pm := gfx.Premul32(params.BaseColor)
		clear = wgpu.Color{
			R: float64(pm[0]),
			G: float64(pm[1]),
			B: float64(pm[2]),
			A: float64(pm[3]),
		}
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "render",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	defer pass.Release()
	r.draw(pass)
	pass.End()

	cmd := encoder.Finish(nil)
	defer cmd.Release()
	queue.Submit(cmd)
}

// RenderToSurface renders the prepared frame to a surface texture.
func (r *Renderer) RenderToSurface(
	queue *wgpu.Queue,
	surface *wgpu.SurfaceTexture,
	params *RenderParams,
	pgroup profiler.ProfilerGroup,
) {
	pgroup = pgroup.Start("RenderToSurface")
	defer pgroup.End()

	view := surface.Texture.CreateView(nil)
	defer view.Release()
	r.RenderToTexture(queue, view, params, pgroup)
}

// draw records the three stages in paint order: rects below, the
// sprite above them, the composite layers on top.
func (r *Renderer) draw(pass *wgpu.RenderPassEncoder) {
	pass.SetVertexBuffer(0, r.quadVB, 0, ^uint64(0))
	pass.SetIndexBuffer(r.quadIB, wgpu.IndexFormatUint16, 0, ^uint64(0))

	if r.rectCount > 0 {
		pass.SetPipeline(r.rect.pipeline)
		pass.SetBindGroup(0, r.rectBindGroup(), nil)
		pass.SetVertexBuffer(1, r.rectBuf, 0, ^uint64(0))
		pass.DrawIndexed(6, uint32(r.rectCount), 0, 0, 0)
	}

	if r.spriteState.enabled && r.spriteState.view != nil {
		pass.SetPipeline(r.sprite.pipeline)
		pass.SetBindGroup(0, r.spriteBindGroup, nil)
		pass.SetVertexBuffer(1, r.spriteInstBuf, 0, ^uint64(0))
		pass.DrawIndexed(6, 1, 0, 0, 0)
	}

	if r.hasLayers {
		pass.SetPipeline(r.composite.pipeline)
		pass.SetBindGroup(0, r.layerBindGroup, nil)
		pass.SetVertexBuffer(1, r.layerInstBuf, 0, ^uint64(0))
		pass.DrawIndexed(6, 1, 0, 0, 0)
	}
}

func (r *Renderer) rectBindGroup() *wgpu.BindGroup {
	if r.rect.bindGroup == nil {
		r.rect.bindGroup = r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "rect",
			Layout: r.rect.bindLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: r.screenBuf, Size: ^uint64(0)},
			},
		})
	}
	return r.rect.bindGroup
}
