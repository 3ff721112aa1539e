package gpu

// BufferUsage mirrors the WebGPU buffer usage flags the shape renderer needs.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageCopyDst
)

type BindingType int

const (
	BindingUniform BindingType = iota
	BindingReadOnlyStorage
)

type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

// TextureFormat carries a backend texture format value unchanged.
type TextureFormat uint32

// TextureFormatUndefined disables the attachment it is used for.
const TextureFormatUndefined TextureFormat = 0

type VertexFormat int

const (
	VertexFormatFloat32x3 VertexFormat = iota
	VertexFormatFloat32x4
)

type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyLineList
)

type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

type CompareFunction int

const (
	CompareAlways CompareFunction = iota
	CompareLess
	CompareLessEqual
)

type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
	// Contents, when set, initialises the buffer and must not exceed Size.
	Contents []byte
}

type BindGroupLayoutEntry struct {
	Binding        uint32
	Visibility     ShaderStage
	Type           BindingType
	MinBindingSize uint64
}

type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	Offset  uint64
	Size    uint64
}

type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

type RenderPipelineDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayout
	Module           ShaderModule
	VertexEntry      string
	FragmentEntry    string
	VertexStride     uint64
	VertexAttributes []VertexAttribute
	ColorFormat      TextureFormat
	DepthFormat      TextureFormat
	DepthWrite       bool
	DepthCompare     CompareFunction
	Topology         Topology
	CullMode         CullMode
}

// Device is the GPU capability provider: allocation, binding and pipeline creation.
type Device interface {
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	CreateShaderModule(label, wgsl string) (ShaderModule, error)
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)
	// MinBufferAlignment is the binding offset/size alignment, commonly 256.
	MinBufferAlignment() uint64
}

type Buffer interface {
	Label() string
	Size() uint64
	// Write copies data into the buffer at offset. The copy is ordered
	// before any later command submission.
	Write(offset uint64, data []byte) error
	Release()
}

type ShaderModule interface {
	Release()
}

type BindGroupLayout interface {
	Release()
}

type BindGroup interface {
	Release()
}

type RenderPipeline interface {
	Release()
}

// RenderPass records draw commands. No method waits on the GPU.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, group BindGroup)
	SetVertexBuffer(slot uint32, buffer Buffer, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// AlignUp rounds n up to a multiple of alignment. Zero alignment leaves n unchanged.
func AlignUp(n, alignment uint64) uint64 {
	if alignment == 0 {
		return n
	}
	if r := n % alignment; r != 0 {
		return n + alignment - r
	}
	return n
}
