package gpu

import (
	"errors"
	"fmt"

	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/mesh"
	"github.com/google/uuid"
)

// CapacityPolicy decides what SetInstanceData does with more records than fit.
type CapacityPolicy int

const (
	// CapacityClamp uploads the first MaxInstances records and reports the overflow.
	CapacityClamp CapacityPolicy = iota
	// CapacityReject uploads nothing, draws no instances this frame and reports the overflow.
	CapacityReject
)

func (p CapacityPolicy) String() string {
	switch p {
	case CapacityClamp:
		return "clamp"
	case CapacityReject:
		return "reject"
	default:
		return fmt.Sprintf("CapacityPolicy(%d)", int(p))
	}
}

// ParseCapacityPolicy accepts "clamp" or "reject".
func ParseCapacityPolicy(s string) (CapacityPolicy, error) {
	switch s {
	case "clamp", "":
		return CapacityClamp, nil
	case "reject":
		return CapacityReject, nil
	}
	return CapacityClamp, fmt.Errorf("unknown capacity policy %q", s)
}

type VertexBufferView struct {
	Buffer Buffer
	Offset uint64
	Size   uint64
	Stride uint64
}

// DrawParameters is everything ShapePipeline.Draw needs from a resource.
type DrawParameters struct {
	VertexCount   uint32
	InstanceCount uint32
	VertexBuffer  VertexBufferView
	BindGroup     BindGroup
}

type ShapeResourceDescriptor struct {
	Kind   core.ShapeKind
	Mesh   mesh.Source
	Camera Buffer
	Layout *BindingLayout
	// MaxInstances defaults to core.DefaultMaxInstances.
	MaxInstances int
	Policy       CapacityPolicy
}

// ShapeResource owns one shape kind's static vertices and its per-frame instances.
type ShapeResource struct {
	id   string
	kind core.ShapeKind

	vertexBuffer Buffer
	vertexView   VertexBufferView
	vertexCount  uint32

	instances     *UploadBuffer
	maxInstances  int
	instanceCount uint32
	policy        CapacityPolicy

	bindGroup BindGroup
}

// NewShapeResource uploads the mesh and allocates the instance buffer and bind
// group. On failure everything created so far is released.
func NewShapeResource(dev Device, desc ShapeResourceDescriptor) (_ *ShapeResource, err error) {
	if !desc.Kind.Valid() {
		return nil, fmt.Errorf("shape resource: invalid kind %d", desc.Kind)
	}
	if desc.Mesh == nil {
		return nil, core.LoadError(desc.Kind.String()+" mesh", errors.New("no mesh source"))
	}
	if desc.Camera == nil || desc.Layout == nil {
		return nil, fmt.Errorf("shape resource %s: camera buffer and binding layout are required", desc.Kind)
	}
	if desc.MaxInstances <= 0 {
		desc.MaxInstances = core.DefaultMaxInstances
	}

	vertices, err := desc.Mesh.Vertices()
	if err != nil {
		return nil, core.LoadError(desc.Kind.String()+" mesh", err)
	}
	if len(vertices) == 0 {
		return nil, core.LoadError(desc.Kind.String()+" mesh", errors.New("no vertices"))
	}

	r := &ShapeResource{
		id:           uuid.NewString(),
		kind:         desc.Kind,
		vertexCount:  uint32(len(vertices)),
		maxInstances: desc.MaxInstances,
		policy:       desc.Policy,
	}
	defer func() {
		if err != nil {
			r.Release()
		}
	}()

	vertexBytes := core.VertexBytes(vertices)
	label := r.label("Vertices")
	r.vertexBuffer, err = dev.CreateBuffer(&BufferDescriptor{
		Label:    label,
		Size:     uint64(len(vertexBytes)),
		Usage:    BufferUsageVertex,
		Contents: vertexBytes,
	})
	if err != nil {
		return nil, allocError(label, err)
	}
	r.vertexView = VertexBufferView{
		Buffer: r.vertexBuffer,
		Size:   uint64(len(vertexBytes)),
		Stride: core.VertexStride,
	}

	r.instances, err = NewUploadBuffer(dev, r.label("Instances"), uint64(desc.MaxInstances)*core.InstanceStride, BufferUsageStorage)
	if err != nil {
		return nil, err
	}

	r.bindGroup, err = dev.CreateBindGroup(&BindGroupDescriptor{
		Label:  r.label("BG"),
		Layout: desc.Layout.Layout(),
		Entries: []BindGroupEntry{
			{Binding: CameraBinding, Buffer: desc.Camera, Size: CameraBlockSize},
			{Binding: InstanceBinding, Buffer: r.instances.Buffer(), Size: r.instances.Size()},
		},
	})
	if err != nil {
		return nil, allocError(r.label("BG"), err)
	}
	return r, nil
}

func (r *ShapeResource) label(what string) string {
	return fmt.Sprintf("Shape%s-%s-%s", what, r.kind, r.id)
}

func (r *ShapeResource) ID() string {
	return r.id
}

func (r *ShapeResource) Kind() core.ShapeKind {
	return r.kind
}

func (r *ShapeResource) MaxInstances() int {
	return r.maxInstances
}

func (r *ShapeResource) Policy() CapacityPolicy {
	return r.policy
}

func (r *ShapeResource) InstanceBuffer() Buffer {
	return r.instances.Buffer()
}

func (r *ShapeResource) InstanceCount() int {
	return int(r.instanceCount)
}

func (r *ShapeResource) VertexBuffer() VertexBufferView {
	return r.vertexView
}

// SetInstanceData replaces this frame's instances with records, in order.
// Overflow follows the resource's CapacityPolicy and always returns a
// *core.CapacityError.
func (r *ShapeResource) SetInstanceData(records []core.InstanceRecord) error {
	var overflow *core.CapacityError
	if len(records) > r.maxInstances {
		overflow = &core.CapacityError{
			Kind:      r.kind,
			Requested: len(records),
			Capacity:  r.maxInstances,
			Clamped:   r.policy == CapacityClamp,
		}
		if r.policy == CapacityReject {
			r.instanceCount = 0
			return overflow
		}
		records = records[:r.maxInstances]
	}

	err := r.instances.Update(func(dst []byte) (int, error) {
		for i, rec := range records {
			core.PutInstance(dst[i*core.InstanceStride:], rec)
		}
		return len(records) * core.InstanceStride, nil
	})
	if err != nil {
		r.instanceCount = 0
		return fmt.Errorf("%s instances: %w", r.kind, err)
	}

	r.instanceCount = uint32(len(records))
	if overflow != nil {
		return overflow
	}
	return nil
}

func (r *ShapeResource) DrawParameters() DrawParameters {
	return DrawParameters{
		VertexCount:   r.vertexCount,
		InstanceCount: r.instanceCount,
		VertexBuffer:  r.vertexView,
		BindGroup:     r.bindGroup,
	}
}

// Release frees what the resource created. The shared camera buffer is left alone.
func (r *ShapeResource) Release() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	if r.instances != nil {
		r.instances.Release()
		r.instances = nil
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
	r.vertexView = VertexBufferView{}
	r.instanceCount = 0
}
