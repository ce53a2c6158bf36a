// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package shaders holds the WGSL sources for the render pipelines.
//
// The fragment logic of the composite shader is the GPU expression of
// the composite package and must be kept in sync with it.
package shaders

type RenderShader struct {
	Name string
	WGSL string
}

var Collection = struct {
	Rect      RenderShader
	Sprite    RenderShader
	Composite RenderShader
}{
	Rect:      RenderShader{Name: "rect", WGSL: rectWGSL},
	Sprite:    RenderShader{Name: "sprite", WGSL: spriteWGSL},
	Composite: RenderShader{Name: "composite", WGSL: compositeWGSL},
}

// Instanced, flat-colored rectangles. The vertex stage is the shared
// placement transform: local unit quad -> world -> NDC.
const rectWGSL = `
struct Screen {
	size: vec2<f32>,
}

@group(0) @binding(0)
var<uniform> screen: Screen;

struct VertexIn {
	@location(0) pos: vec2<f32>,
	@location(1) inst_offset: vec2<f32>,
	@location(2) inst_size: vec2<f32>,
	@location(3) inst_color: vec4<f32>,
}

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
	let world = in.pos * in.inst_size + in.inst_offset;
	let ndc = world / (screen.size * 0.5);
	var out: VertexOut;
	out.position = vec4(ndc, 0.0, 1.0);
	out.color = in.inst_color;
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	return in.color;
}
`

// A single textured rectangle with a UV scroll offset for host-driven
// animation. uv.y is flipped for top-left-origin sources; the same
// convention the composite shader uses.
const spriteWGSL = `
struct Screen {
	size: vec2<f32>,
}

struct SpriteParams {
	uv_offset: vec2<f32>,
	pad: vec2<f32>,
}

@group(0) @binding(0)
var<uniform> screen: Screen;
@group(0) @binding(1)
var<uniform> params: SpriteParams;
@group(0) @binding(2)
var tex: texture_2d<f32>;
@group(0) @binding(3)
var samp: sampler;

struct VertexIn {
	@location(0) pos: vec2<f32>,
	@location(1) inst_offset: vec2<f32>,
	@location(2) inst_size: vec2<f32>,
}

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
	let world = in.pos * in.inst_size + in.inst_offset;
	let ndc = world / (screen.size * 0.5);
	let uv = in.pos + vec2(0.5, 0.5);
	var out: VertexOut;
	out.position = vec4(ndc, 0.0, 1.0);
	out.uv = vec2(uv.x, 1.0 - uv.y) + params.uv_offset;
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	return textureSample(tex, samp, in.uv);
}
`

// Four-layer compositing. Each layer has its own placement rectangle
// (center xy, size zw) and enable flag; layers are folded over a
// transparent background in index order, layer 3 topmost.
//
// textureSampleLevel is used because the samples sit behind
// non-uniform control flow.
const compositeWGSL = `
struct Screen {
	size: vec2<f32>,
}

struct LayerParams {
	rects: array<vec4<f32>, 4>,
	flags: vec4<u32>,
}

@group(0) @binding(0)
var<uniform> screen: Screen;
@group(0) @binding(1)
var<uniform> layers: LayerParams;
@group(0) @binding(2)
var layer0: texture_2d<f32>;
@group(0) @binding(3)
var layer1: texture_2d<f32>;
@group(0) @binding(4)
var layer2: texture_2d<f32>;
@group(0) @binding(5)
var layer3: texture_2d<f32>;
@group(0) @binding(6)
var samp: sampler;

struct VertexIn {
	@location(0) pos: vec2<f32>,
	@location(1) inst_offset: vec2<f32>,
	@location(2) inst_size: vec2<f32>,
}

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) world: vec2<f32>,
}

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
	let world = in.pos * in.inst_size + in.inst_offset;
	let ndc = world / (screen.size * 0.5);
	var out: VertexOut;
	out.position = vec4(ndc, 0.0, 1.0);
	out.world = world;
	return out;
}

fn sample_layer(world: vec2<f32>, rect: vec4<f32>, enabled: u32, tex: texture_2d<f32>) -> vec4<f32> {
	if enabled == 0u {
		return vec4(0.0);
	}
	if rect.z <= 0.0 || rect.w <= 0.0 {
		return vec4(0.0);
	}
	let local = (world - rect.xy) / rect.zw + vec2(0.5, 0.5);
	if local.x < 0.0 || local.x > 1.0 || local.y < 0.0 || local.y > 1.0 {
		return vec4(0.0);
	}
	return textureSampleLevel(tex, samp, vec2(local.x, 1.0 - local.y), 0.0);
}

fn over(below: vec4<f32>, above: vec4<f32>) -> vec4<f32> {
	let below_pm = below.rgb * below.a;
	let above_pm = above.rgb * above.a;
	let out_a = above.a + below.a * (1.0 - above.a);
	if out_a <= 0.0 {
		return vec4(0.0);
	}
	let out_pm = above_pm + below_pm * (1.0 - above.a);
	return vec4(out_pm / out_a, out_a);
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	var acc = vec4(0.0);
	acc = over(acc, sample_layer(in.world, layers.rects[0], layers.flags.x, layer0));
	acc = over(acc, sample_layer(in.world, layers.rects[1], layers.flags.y, layer1));
	acc = over(acc, sample_layer(in.world, layers.rects[2], layers.flags.z, layer2));
	acc = over(acc, sample_layer(in.world, layers.rects[3], layers.flags.w, layer3));
	return acc;
}
`
