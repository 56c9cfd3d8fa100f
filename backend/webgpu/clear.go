// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/scenegraph/resource"
)

const clearShaderBody = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(-1.0, -1.0),
        vec2<f32>(3.0, -1.0),
        vec2<f32>(-1.0, 3.0)
    );
    return vec4<f32>(pos[idx], 1.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return mapperUBO.BackgroundColor;
}
`

// clearQuad fills the viewport of a renderer with its background color.
// It draws a full screen triangle at the far plane, so only pixels no prop
// covered receive the background.
type clearQuad struct {
	ubo *resource.UniformBuffer

	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	bindGroup  hal.BindGroup
	boundTo    resource.Buffer
}

func newClearQuad() *clearQuad {
	ubo := resource.NewUniformBuffer("mapperUBO").MustAddEntries(
		resource.Entry{Name: "BackgroundColor", Type: resource.Vec4F32},
	)
	return &clearQuad{ubo: ubo}
}

func (q *clearQuad) source() string {
	return q.ubo.WGSL(0, 0) + clearShaderBody
}

func (q *clearQuad) draw(d *Device, format gputypes.TextureFormat, enc *RenderEncoder, background [4]float64) error {
	if err := q.ubo.SetVec4("BackgroundColor", background); err != nil {
		return err
	}
	if _, err := q.ubo.SendIfNeeded(d); err != nil {
		return err
	}
	if err := q.ensurePipeline(d, format); err != nil {
		return err
	}
	if err := q.ensureBindGroup(d); err != nil {
		return err
	}
	pass := enc.Handle()
	if pass == nil {
		return ErrNoEncoder
	}
	pass.SetPipeline(q.pipeline)
	pass.SetBindGroup(0, q.bindGroup, nil)
	enc.Draw(3)
	return nil
}

func (q *clearQuad) ensurePipeline(d *Device, format gputypes.TextureFormat) error {
	if q.pipeline != nil {
		return nil
	}
	shader, err := d.ShaderModule("clearfsq", q.source())
	if err != nil {
		return err
	}

	q.layout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "clearfsq_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return fmt.Errorf("webgpu: clear bind group layout: %w", err)
	}

	q.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "clearfsq_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{q.layout},
	})
	if err != nil {
		return fmt.Errorf("webgpu: clear pipeline layout: %w", err)
	}

	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	q.pipeline, err = d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "clearfsq_pipeline",
		Layout: q.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            gputypes.TextureFormatDepth24PlusStencil8,
			DepthWriteEnabled: false,
			DepthCompare:      gputypes.CompareFunctionLessEqual,
			StencilFront:      keep,
			StencilBack:       keep,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
	})
	if err != nil {
		return fmt.Errorf("webgpu: clear pipeline: %w", err)
	}
	return nil
}

func (q *clearQuad) ensureBindGroup(d *Device) error {
	buf, ok := q.ubo.Buffer().(*Buffer)
	if !ok {
		return fmt.Errorf("webgpu: clear uniform buffer not created")
	}
	if q.bindGroup != nil && q.boundTo == q.ubo.Buffer() {
		return nil
	}
	if q.bindGroup != nil {
		d.device.DestroyBindGroup(q.bindGroup)
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "clearfsq_bind",
		Layout: q.layout,
		Entries: []gputypes.BindGroupEntry{{
			Binding:  0,
			Resource: gputypes.BufferBinding{Buffer: buf.raw.NativeHandle(), Offset: 0, Size: buf.size},
		}},
	})
	if err != nil {
		return fmt.Errorf("webgpu: clear bind group: %w", err)
	}
	q.bindGroup = bg
	q.boundTo = q.ubo.Buffer()
	return nil
}

func (q *clearQuad) release(d *Device) {
	q.ubo.Release(d)
	if d == nil || d.device == nil {
		return
	}
	if q.bindGroup != nil {
		d.device.DestroyBindGroup(q.bindGroup)
	}
	if q.pipeline != nil {
		d.device.DestroyRenderPipeline(q.pipeline)
	}
	if q.pipeLayout != nil {
		d.device.DestroyPipelineLayout(q.pipeLayout)
	}
	if q.layout != nil {
		d.device.DestroyBindGroupLayout(q.layout)
	}
	q.bindGroup, q.boundTo, q.pipeline, q.pipeLayout, q.layout = nil, nil, nil, nil, nil
}
