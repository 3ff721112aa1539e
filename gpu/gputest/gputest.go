// Package gputest provides an in-memory gpu.Device and a recording
// gpu.RenderPass for tests.
package gputest

import (
	"errors"
	"fmt"

	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/gpu"
)

var ErrInjected = errors.New("injected failure")

// Buffer keeps its contents in memory.
type Buffer struct {
	Desc     gpu.BufferDescriptor
	Data     []byte
	Writes   int
	Released bool
	// FailWrites makes every Write return ErrInjected.
	FailWrites bool
}

func (b *Buffer) Label() string { return b.Desc.Label }
func (b *Buffer) Size() uint64  { return b.Desc.Size }
func (b *Buffer) Release()      { b.Released = true }

func (b *Buffer) Write(offset uint64, data []byte) error {
	if b.Released {
		return fmt.Errorf("write to released buffer %s", b.Desc.Label)
	}
	if b.FailWrites {
		return ErrInjected
	}
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		return fmt.Errorf("write of %d bytes at %d overflows %s (%d bytes)", len(data), offset, b.Desc.Label, len(b.Data))
	}
	copy(b.Data[offset:], data)
	b.Writes++
	return nil
}

// Instance decodes the i-th instance record stored in the buffer.
func (b *Buffer) Instance(i int) core.InstanceRecord {
	return core.ReadInstance(b.Data[i*core.InstanceStride:])
}

type Object struct {
	Label    string
	Released bool
}

func (o *Object) Release() { o.Released = true }

type ShaderModule struct {
	Object
	Code string
}

type BindGroupLayout struct {
	Object
	Desc gpu.BindGroupLayoutDescriptor
}

type BindGroup struct {
	Object
	Desc gpu.BindGroupDescriptor
}

type RenderPipeline struct {
	Object
	Desc gpu.RenderPipelineDescriptor
}

// Device records every object it creates. Set the Fail* fields to inject errors.
type Device struct {
	Alignment uint64

	Buffers    []*Buffer
	Shaders    []*ShaderModule
	Layouts    []*BindGroupLayout
	BindGroups []*BindGroup
	Pipelines  []*RenderPipeline

	// FailBufferAfter fails the n-th CreateBuffer call (1-based); 0 disables.
	FailBufferAfter int
	FailShader      bool
	FailBindGroup   bool
	FailPipeline    bool
}

var _ gpu.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{Alignment: 256}
}

func (d *Device) MinBufferAlignment() uint64 {
	return d.Alignment
}

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	if d.FailBufferAfter > 0 && len(d.Buffers)+1 == d.FailBufferAfter {
		return nil, ErrInjected
	}
	if uint64(len(desc.Contents)) > desc.Size {
		return nil, fmt.Errorf("contents exceed size of %s", desc.Label)
	}
	b := &Buffer{Desc: *desc, Data: make([]byte, desc.Size)}
	copy(b.Data, desc.Contents)
	b.Desc.Contents = nil
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateShaderModule(label, wgsl string) (gpu.ShaderModule, error) {
	if d.FailShader {
		return nil, ErrInjected
	}
	m := &ShaderModule{Object: Object{Label: label}, Code: wgsl}
	d.Shaders = append(d.Shaders, m)
	return m, nil
}

func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	l := &BindGroupLayout{Object: Object{Label: desc.Label}, Desc: *desc}
	d.Layouts = append(d.Layouts, l)
	return l, nil
}

func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	if d.FailBindGroup {
		return nil, ErrInjected
	}
	g := &BindGroup{Object: Object{Label: desc.Label}, Desc: *desc}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	if d.FailPipeline {
		return nil, ErrInjected
	}
	p := &RenderPipeline{Object: Object{Label: desc.Label}, Desc: *desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

// Live counts created buffers that have not been released.
func (d *Device) Live() int {
	n := 0
	for _, b := range d.Buffers {
		if !b.Released {
			n++
		}
	}
	for _, g := range d.BindGroups {
		if !g.Released {
			n++
		}
	}
	return n
}

type CommandKind int

const (
	CmdSetPipeline CommandKind = iota
	CmdSetBindGroup
	CmdSetVertexBuffer
	CmdDraw
)

// Command is one recorded RenderPass call.
type Command struct {
	Kind CommandKind

	Pipeline  gpu.RenderPipeline
	Index     uint32
	BindGroup gpu.BindGroup
	Buffer    gpu.Buffer
	Offset    uint64
	Size      uint64

	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// Recorder is a mock command list.
type Recorder struct {
	Commands []Command
}

var _ gpu.RenderPass = (*Recorder)(nil)

func (r *Recorder) SetPipeline(p gpu.RenderPipeline) {
	r.Commands = append(r.Commands, Command{Kind: CmdSetPipeline, Pipeline: p})
}

func (r *Recorder) SetBindGroup(index uint32, group gpu.BindGroup) {
	r.Commands = append(r.Commands, Command{Kind: CmdSetBindGroup, Index: index, BindGroup: group})
}

func (r *Recorder) SetVertexBuffer(slot uint32, buffer gpu.Buffer, offset, size uint64) {
	r.Commands = append(r.Commands, Command{Kind: CmdSetVertexBuffer, Index: slot, Buffer: buffer, Offset: offset, Size: size})
}

func (r *Recorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.Commands = append(r.Commands, Command{
		Kind:          CmdDraw,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
	})
}

// Draws returns only the draw commands.
func (r *Recorder) Draws() []Command {
	var draws []Command
	for _, c := range r.Commands {
		if c.Kind == CmdDraw {
			draws = append(draws, c)
		}
	}
	return draws
}

func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}
