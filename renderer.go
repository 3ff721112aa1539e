package debugdraw

import (
	"fmt"

	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/gpu"
	"github.com/gekko3d/debugdraw/mesh"
)

type RendererConfig struct {
	ColorFormat gpu.TextureFormat
	DepthFormat gpu.TextureFormat
	// MaxInstances is the per-kind capacity. Defaults to core.DefaultMaxInstances.
	MaxInstances int
	Policy       gpu.CapacityPolicy
	// Meshes overrides the unit mesh of a kind. Missing kinds use mesh.Defaults.
	Meshes map[core.ShapeKind]mesh.Source
	// Shader overrides the shape WGSL source.
	Shader string
}

func (c RendererConfig) withDefaults() RendererConfig {
	if c.MaxInstances <= 0 {
		c.MaxInstances = core.DefaultMaxInstances
	}
	defaults := mesh.Defaults()
	meshes := make(map[core.ShapeKind]mesh.Source, len(defaults))
	for _, kind := range core.ShapeKinds {
		if src, ok := c.Meshes[kind]; ok && src != nil {
			meshes[kind] = src
		} else {
			meshes[kind] = defaults[kind]
		}
	}
	c.Meshes = meshes
	return c
}

// Renderer owns the GPU state of the shape renderer: one camera buffer, one
// pipeline and one resource per shape kind.
type Renderer struct {
	logger    core.Logger
	camera    *gpu.CameraBuffer
	pipeline  *gpu.ShapePipeline
	resources [core.ShapeKindCount]*gpu.ShapeResource
}

func NewRenderer(dev gpu.Device, cfg RendererConfig, logger core.Logger) (_ *Renderer, err error) {
	cfg = cfg.withDefaults()
	r := &Renderer{logger: core.LoggerOrNop(logger)}
	defer func() {
		if err != nil {
			r.Release()
		}
	}()

	r.camera, err = gpu.NewCameraBuffer(dev)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r.pipeline, err = gpu.NewShapePipeline(dev, gpu.ShapePipelineDescriptor{
		Shader:      cfg.Shader,
		ColorFormat: cfg.ColorFormat,
		DepthFormat: cfg.DepthFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	for _, kind := range core.ShapeKinds {
		r.resources[kind], err = gpu.NewShapeResource(dev, gpu.ShapeResourceDescriptor{
			Kind:         kind,
			Mesh:         cfg.Meshes[kind],
			Camera:       r.camera.Buffer(),
			Layout:       r.pipeline.Layout(),
			MaxInstances: cfg.MaxInstances,
			Policy:       cfg.Policy,
		})
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.logger.Debugf("shape resource %s: %d vertices, %d instances max (%s)",
			kind, r.resources[kind].DrawParameters().VertexCount, cfg.MaxInstances, cfg.Policy)
	}
	return r, nil
}

func (r *Renderer) Resource(kind core.ShapeKind) *gpu.ShapeResource {
	if !kind.Valid() {
		return nil
	}
	return r.resources[kind]
}

func (r *Renderer) Release() {
	for i, res := range r.resources {
		if res != nil {
			res.Release()
			r.resources[i] = nil
		}
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.camera != nil {
		r.camera.Release()
		r.camera = nil
	}
}
