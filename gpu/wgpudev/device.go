// Package wgpudev implements gpu.Device and gpu.RenderPass on top of
// cogentcore/webgpu.
package wgpudev

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/debugdraw/gpu"
)

type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	align  uint64
}

var _ gpu.Device = (*Device)(nil)

func New(device *wgpu.Device) *Device {
	limits := device.GetLimits().Limits
	align := uint64(max(limits.MinUniformBufferOffsetAlignment, limits.MinStorageBufferOffsetAlignment))
	if align == 0 {
		align = 256
	}
	return &Device{
		device: device,
		queue:  device.GetQueue(),
		align:  align,
	}
}

func (d *Device) MinBufferAlignment() uint64 {
	return d.align
}

type Buffer struct {
	label string
	buf   *wgpu.Buffer
	queue *wgpu.Queue
}

func (b *Buffer) Label() string {
	return b.label
}

func (b *Buffer) Size() uint64 {
	return b.buf.GetSize()
}

// Write goes through Queue.WriteBuffer, which is ordered before the next submit.
func (b *Buffer) Write(offset uint64, data []byte) error {
	return b.queue.WriteBuffer(b.buf, offset, data)
}

func (b *Buffer) Release() {
	b.buf.Release()
}

// Raw exposes the wgpu buffer.
func (b *Buffer) Raw() *wgpu.Buffer {
	return b.buf
}

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	var (
		buf *wgpu.Buffer
		err error
	)
	if len(desc.Contents) > 0 {
		contents := desc.Contents
		if uint64(len(contents)) < desc.Size {
			contents = make([]byte, desc.Size)
			copy(contents, desc.Contents)
		}
		buf, err = d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    desc.Label,
			Contents: contents,
			Usage:    bufferUsage(desc.Usage),
		})
	} else {
		buf, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: desc.Label,
			Size:  desc.Size,
			Usage: bufferUsage(desc.Usage),
		})
	}
	if err != nil {
		return nil, err
	}
	return &Buffer{label: desc.Label, buf: buf, queue: d.queue}, nil
}

type ShaderModule struct{ m *wgpu.ShaderModule }

func (s *ShaderModule) Release() { s.m.Release() }

func (d *Device) CreateShaderModule(label, wgsl string) (gpu.ShaderModule, error) {
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		return nil, err
	}
	return &ShaderModule{m: m}, nil
}

type BindGroupLayout struct{ l *wgpu.BindGroupLayout }

func (l *BindGroupLayout) Release() { l.l.Release() }

func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		bt := wgpu.BufferBindingTypeUniform
		if e.Type == gpu.BindingReadOnlyStorage {
			bt = wgpu.BufferBindingTypeReadOnlyStorage
		}
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: shaderStage(e.Visibility),
			Buffer: wgpu.BufferBindingLayout{
				Type:           bt,
				MinBindingSize: e.MinBindingSize,
			},
		}
	}
	l, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &BindGroupLayout{l: l}, nil
}

type BindGroup struct{ g *wgpu.BindGroup }

func (g *BindGroup) Release() { g.g.Release() }

func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("bind group %s: layout %T not created by this device", desc.Label, desc.Layout)
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		buf, ok := e.Buffer.(*Buffer)
		if !ok {
			return nil, fmt.Errorf("bind group %s: buffer %T not created by this device", desc.Label, e.Buffer)
		}
		size := e.Size
		if size == 0 {
			size = wgpu.WholeSize
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  buf.buf,
			Offset:  e.Offset,
			Size:    size,
		}
	}
	g, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout.l,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &BindGroup{g: g}, nil
}

type RenderPipeline struct {
	p      *wgpu.RenderPipeline
	layout *wgpu.PipelineLayout
}

func (p *RenderPipeline) Release() {
	p.p.Release()
	p.layout.Release()
}

func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	module, ok := desc.Module.(*ShaderModule)
	if !ok {
		return nil, fmt.Errorf("pipeline %s: shader module %T not created by this device", desc.Label, desc.Module)
	}
	layouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		bgl, ok := l.(*BindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("pipeline %s: layout %T not created by this device", desc.Label, l)
		}
		layouts[i] = bgl.l
	}

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + "Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}

	attributes := make([]wgpu.VertexAttribute, len(desc.VertexAttributes))
	for i, a := range desc.VertexAttributes {
		format := wgpu.VertexFormatFloat32x3
		if a.Format == gpu.VertexFormatFloat32x4 {
			format = wgpu.VertexFormatFloat32x4
		}
		attributes[i] = wgpu.VertexAttribute{
			Format:         format,
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		}
	}

	var depth *wgpu.DepthStencilState
	if desc.DepthFormat != gpu.TextureFormatUndefined {
		depth = &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormat(desc.DepthFormat),
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      compareFunction(desc.DepthCompare),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	p, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module.m,
			EntryPoint: desc.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: desc.VertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes:  attributes,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module.m,
			EntryPoint: desc.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    wgpu.TextureFormat(desc.ColorFormat),
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology(desc.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode(desc.CullMode),
		},
		DepthStencil: depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pipelineLayout.Release()
		return nil, err
	}
	return &RenderPipeline{p: p, layout: pipelineLayout}, nil
}

// TextureFormat converts a wgpu format for use in gpu descriptors.
func TextureFormat(f wgpu.TextureFormat) gpu.TextureFormat {
	return gpu.TextureFormat(f)
}

func bufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&gpu.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&gpu.BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&gpu.BufferUsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&gpu.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

func shaderStage(s gpu.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&gpu.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&gpu.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func compareFunction(c gpu.CompareFunction) wgpu.CompareFunction {
	switch c {
	case gpu.CompareLess:
		return wgpu.CompareFunctionLess
	case gpu.CompareLessEqual:
		return wgpu.CompareFunctionLessEqual
	default:
		return wgpu.CompareFunctionAlways
	}
}

func topology(t gpu.Topology) wgpu.PrimitiveTopology {
	if t == gpu.TopologyLineList {
		return wgpu.PrimitiveTopologyLineList
	}
	return wgpu.PrimitiveTopologyTriangleList
}

func cullMode(c gpu.CullMode) wgpu.CullMode {
	switch c {
	case gpu.CullFront:
		return wgpu.CullModeFront
	case gpu.CullBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}
