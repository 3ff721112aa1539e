package gpu_test

import (
	"testing"

	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/gpu"
	"github.com/gekko3d/debugdraw/gpu/gputest"
	"github.com/gekko3d/debugdraw/shaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testColorFormat gpu.TextureFormat = 23

func TestNewShapePipelineState(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{ColorFormat: testColorFormat, DepthFormat: 40})
	require.NoError(t, err)

	require.Len(t, dev.Shaders, 1)
	assert.Equal(t, shaders.ShapeWGSL, dev.Shaders[0].Code)

	require.Len(t, dev.Layouts, 1)
	entries := dev.Layouts[0].Desc.Entries
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(gpu.CameraBinding), entries[0].Binding)
	assert.Equal(t, gpu.BindingUniform, entries[0].Type)
	assert.Equal(t, uint32(gpu.InstanceBinding), entries[1].Binding)
	assert.Equal(t, gpu.BindingReadOnlyStorage, entries[1].Type)
	assert.Same(t, dev.Layouts[0], p.Layout().Layout())

	require.Len(t, dev.Pipelines, 1)
	desc := dev.Pipelines[0].Desc
	assert.Equal(t, gpu.TopologyTriangleList, desc.Topology)
	assert.Equal(t, gpu.CullBack, desc.CullMode)
	assert.True(t, desc.DepthWrite)
	assert.Equal(t, gpu.CompareLess, desc.DepthCompare)
	assert.Equal(t, testColorFormat, desc.ColorFormat)
	assert.Equal(t, gpu.TextureFormat(40), desc.DepthFormat)
	assert.Equal(t, uint64(core.VertexStride), desc.VertexStride)
	assert.Equal(t, "vs_main", desc.VertexEntry)
	assert.Equal(t, "fs_main", desc.FragmentEntry)
	require.Len(t, desc.VertexAttributes, 2)
	assert.Equal(t, uint64(12), desc.VertexAttributes[1].Offset)
	assert.Equal(t, uint32(1), desc.VertexAttributes[1].ShaderLocation)
}

func TestNewShapePipelineShaderErrors(t *testing.T) {
	dev := gputest.NewDevice()
	_, err := gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{Shader: "  \n"})
	assert.ErrorIs(t, err, core.ErrResourceLoad)
	assert.Empty(t, dev.Shaders)

	dev.FailShader = true
	_, err = gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{})
	assert.ErrorIs(t, err, core.ErrResourceLoad)

	dev = gputest.NewDevice()
	dev.FailPipeline = true
	_, err = gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{})
	assert.ErrorIs(t, err, core.ErrResourceLoad)
	// Module and layout created before the failure are released.
	assert.True(t, dev.Shaders[0].Released)
	assert.True(t, dev.Layouts[0].Released)
}

func TestDrawRecordsOneInstancedDraw(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{})
	require.NoError(t, err)
	camera, err := gpu.NewCameraBuffer(dev)
	require.NoError(t, err)

	f := &fixture{dev: dev, camera: camera, layout: p.Layout()}
	res := f.resource(t, 8, gpu.CapacityClamp)
	require.NoError(t, res.SetInstanceData(records(5)))

	rec := &gputest.Recorder{}
	p.Draw(rec, res)

	require.Len(t, rec.Commands, 4)
	assert.Equal(t, gputest.CmdSetPipeline, rec.Commands[0].Kind)
	assert.Same(t, dev.Pipelines[0], rec.Commands[0].Pipeline)

	assert.Equal(t, gputest.CmdSetBindGroup, rec.Commands[1].Kind)
	assert.Equal(t, uint32(0), rec.Commands[1].Index)
	assert.Same(t, res.DrawParameters().BindGroup, rec.Commands[1].BindGroup)

	assert.Equal(t, gputest.CmdSetVertexBuffer, rec.Commands[2].Kind)
	assert.Same(t, res.VertexBuffer().Buffer, rec.Commands[2].Buffer)
	assert.Equal(t, res.VertexBuffer().Size, rec.Commands[2].Size)

	draws := rec.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, uint32(36), draws[0].VertexCount)
	assert.Equal(t, uint32(5), draws[0].InstanceCount)
	assert.Zero(t, draws[0].FirstVertex)
	assert.Zero(t, draws[0].FirstInstance)
}

func TestDrawSkipsEmptyResource(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{})
	require.NoError(t, err)
	camera, err := gpu.NewCameraBuffer(dev)
	require.NoError(t, err)

	f := &fixture{dev: dev, camera: camera, layout: p.Layout()}
	res := f.resource(t, 8, gpu.CapacityClamp)

	rec := &gputest.Recorder{}
	p.Draw(rec, res)
	assert.Empty(t, rec.Commands)
}

func TestPipelineSharedAcrossShapes(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{})
	require.NoError(t, err)
	camera, err := gpu.NewCameraBuffer(dev)
	require.NoError(t, err)
	f := &fixture{dev: dev, camera: camera, layout: p.Layout()}

	a := f.resource(t, 8, gpu.CapacityClamp)
	b := f.resource(t, 8, gpu.CapacityClamp)
	require.NoError(t, a.SetInstanceData(records(2)))
	require.NoError(t, b.SetInstanceData(records(3)))

	rec := &gputest.Recorder{}
	p.Draw(rec, a)
	p.Draw(rec, b)

	assert.Len(t, dev.Pipelines, 1)
	draws := rec.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, uint32(2), draws[0].InstanceCount)
	assert.Equal(t, uint32(3), draws[1].InstanceCount)
	assert.NotSame(t, rec.Commands[1].BindGroup, rec.Commands[5].BindGroup)
}
