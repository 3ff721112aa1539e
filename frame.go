package debugdraw

import (
	"errors"
	"fmt"
	"time"

	"github.com/gekko3d/debugdraw/capture"
	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Simulation is the physics world being visualized.
type Simulation interface {
	// StepSimulation advances by dt seconds and returns the steps taken.
	StepSimulation(dt float32) int
	DebugDraw(sink core.PrimitiveSink)
}

type FrameStats struct {
	Frame     uint64
	SubSteps  int
	Instances [core.ShapeKindCount]int
	Draws     int
	// Overflow is set when any kind had more instances than capacity.
	Overflow bool
}

// FrameLoop runs one frame: step, capture, upload and draw.
type FrameLoop struct {
	renderer *Renderer
	capture  *capture.Capture
	sim      Simulation
	logger   core.Logger
	frame    uint64
}

func NewFrameLoop(r *Renderer, sim Simulation, logger core.Logger) *FrameLoop {
	logger = core.LoggerOrNop(logger)
	return &FrameLoop{
		renderer: r,
		capture:  capture.New(logger),
		sim:      sim,
		logger:   logger,
	}
}

// Capture exposes the sink, mainly to change its debug mode.
func (l *FrameLoop) Capture() *capture.Capture {
	return l.capture
}

// Tick renders one frame into pass. Capacity overflows are logged, the frame
// still draws, and they are returned joined. Any other error ends the frame.
func (l *FrameLoop) Tick(dt time.Duration, viewProj mgl32.Mat4, pass gpu.RenderPass) (FrameStats, error) {
	l.frame++
	stats := FrameStats{Frame: l.frame}

	l.capture.BeginFrame()
	stats.SubSteps = l.sim.StepSimulation(float32(dt.Seconds()))
	l.sim.DebugDraw(l.capture)

	var overflows []error
	for _, kind := range core.ShapeKinds {
		res := l.renderer.resources[kind]
		err := res.SetInstanceData(l.capture.Instances(kind))
		var capErr *core.CapacityError
		switch {
		case err == nil:
		case errors.As(err, &capErr):
			l.logger.Warnf("frame %d: %v", l.frame, err)
			overflows = append(overflows, err)
			stats.Overflow = true
		default:
			return stats, fmt.Errorf("frame %d: %w", l.frame, err)
		}
		stats.Instances[kind] = res.InstanceCount()
	}

	if err := l.renderer.camera.Update(viewProj); err != nil {
		return stats, fmt.Errorf("frame %d: camera: %w", l.frame, err)
	}

	for _, kind := range core.ShapeKinds {
		res := l.renderer.resources[kind]
		if res.InstanceCount() == 0 {
			continue
		}
		l.renderer.pipeline.Draw(pass, res)
		stats.Draws++
	}

	return stats, errors.Join(overflows...)
}
