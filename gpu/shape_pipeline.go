package gpu

import (
	"fmt"
	"strings"

	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/shaders"
)

const (
	// CameraBinding and InstanceBinding are the two slots of every shape bind group.
	CameraBinding   = 0
	InstanceBinding = 1
)

// BindingLayout is the two-slot layout shared by the pipeline and every shape resource.
type BindingLayout struct {
	layout BindGroupLayout
}

func NewBindingLayout(dev Device) (*BindingLayout, error) {
	layout, err := dev.CreateBindGroupLayout(&BindGroupLayoutDescriptor{
		Label: "ShapeBGL",
		Entries: []BindGroupLayoutEntry{
			{
				Binding:        CameraBinding,
				Visibility:     ShaderStageVertex,
				Type:           BindingUniform,
				MinBindingSize: CameraBlockSize,
			},
			{
				Binding:        InstanceBinding,
				Visibility:     ShaderStageVertex | ShaderStageFragment,
				Type:           BindingReadOnlyStorage,
				MinBindingSize: core.InstanceStride,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shape bind group layout: %w", err)
	}
	return &BindingLayout{layout: layout}, nil
}

func (l *BindingLayout) Layout() BindGroupLayout {
	return l.layout
}

func (l *BindingLayout) Release() {
	if l.layout != nil {
		l.layout.Release()
		l.layout = nil
	}
}

type ShapePipelineDescriptor struct {
	// Shader is WGSL source. Defaults to shaders.ShapeWGSL.
	Shader        string
	VertexEntry   string
	FragmentEntry string
	ColorFormat   TextureFormat
	// DepthFormat must match the render pass depth attachment.
	DepthFormat TextureFormat
}

// ShapePipeline is the draw configuration shared by every shape kind. It holds
// no per-shape state.
type ShapePipeline struct {
	module   ShaderModule
	layout   *BindingLayout
	pipeline RenderPipeline
}

func NewShapePipeline(dev Device, desc ShapePipelineDescriptor) (_ *ShapePipeline, err error) {
	if desc.Shader == "" {
		desc.Shader = shaders.ShapeWGSL
	}
	if desc.VertexEntry == "" {
		desc.VertexEntry = "vs_main"
	}
	if desc.FragmentEntry == "" {
		desc.FragmentEntry = "fs_main"
	}
	if strings.TrimSpace(desc.Shader) == "" {
		return nil, core.LoadError("shape shader", fmt.Errorf("empty source"))
	}

	p := &ShapePipeline{}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	p.module, err = dev.CreateShaderModule("ShapeShader", desc.Shader)
	if err != nil {
		return nil, core.LoadError("shape shader", err)
	}

	p.layout, err = NewBindingLayout(dev)
	if err != nil {
		return nil, err
	}

	p.pipeline, err = dev.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:            "ShapePipeline",
		BindGroupLayouts: []BindGroupLayout{p.layout.Layout()},
		Module:           p.module,
		VertexEntry:      desc.VertexEntry,
		FragmentEntry:    desc.FragmentEntry,
		VertexStride:     core.VertexStride,
		VertexAttributes: []VertexAttribute{
			{Format: VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
		ColorFormat:  desc.ColorFormat,
		DepthFormat:  desc.DepthFormat,
		DepthWrite:   true,
		DepthCompare: CompareLess,
		Topology:     TopologyTriangleList,
		CullMode:     CullBack,
	})
	if err != nil {
		return nil, core.LoadError("shape pipeline", err)
	}
	return p, nil
}

// Layout is the binding layout shape resources must build their bind groups against.
func (p *ShapePipeline) Layout() *BindingLayout {
	return p.layout
}

// Draw records one instanced draw of res. Nothing is recorded when res has no instances.
func (p *ShapePipeline) Draw(pass RenderPass, res *ShapeResource) {
	params := res.DrawParameters()
	if params.InstanceCount == 0 {
		return
	}

	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, params.BindGroup)
	pass.SetVertexBuffer(0, params.VertexBuffer.Buffer, params.VertexBuffer.Offset, params.VertexBuffer.Size)
	pass.Draw(params.VertexCount, params.InstanceCount, 0, 0)
}

func (p *ShapePipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}
