package wgpudev

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/debugdraw/gpu"
)

// Pass records into an open wgpu render pass. Objects not created by
// Device are ignored.
type Pass struct {
	enc *wgpu.RenderPassEncoder
}

var _ gpu.RenderPass = (*Pass)(nil)

func NewPass(enc *wgpu.RenderPassEncoder) *Pass {
	return &Pass{enc: enc}
}

func (p *Pass) SetPipeline(pipeline gpu.RenderPipeline) {
	if rp, ok := pipeline.(*RenderPipeline); ok {
		p.enc.SetPipeline(rp.p)
	}
}

func (p *Pass) SetBindGroup(index uint32, group gpu.BindGroup) {
	if bg, ok := group.(*BindGroup); ok {
		p.enc.SetBindGroup(index, bg.g, nil)
	}
}

func (p *Pass) SetVertexBuffer(slot uint32, buffer gpu.Buffer, offset, size uint64) {
	if b, ok := buffer.(*Buffer); ok {
		p.enc.SetVertexBuffer(slot, b.buf, offset, size)
	}
}

func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.enc.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}
