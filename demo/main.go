package main

import (
	"flag"
	"runtime"

	"github.com/gekko3d/debugdraw"
	"github.com/gekko3d/debugdraw/app"
	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/gpu"
	"github.com/gekko3d/debugdraw/physics"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	bodies := flag.Int("bodies", 40, "Number of dynamic bodies")
	maxInstances := flag.Int("max-instances", core.DefaultMaxInstances, "Instance capacity per shape kind")
	policyName := flag.String("capacity-policy", "clamp", "Overflow policy: clamp or reject")
	contacts := flag.Bool("contacts", false, "Also report contact points")
	fixedStep := flag.Float64("fixed-step", float64(physics.DefaultFixedTimeStep), "Physics fixed time step in seconds")
	subSteps := flag.Int("substeps", 1, "Max physics sub steps per frame, 0 for one variable step")
	flag.Parse()

	logger := debugdraw.NewDefaultLogger("debugdraw", *debug)

	policy, err := gpu.ParseCapacityPolicy(*policyName)
	if err != nil {
		panic(err)
	}

	world := physics.NewWorld()
	world.FixedTimeStep = float32(*fixedStep)
	world.MaxSubSteps = *subSteps
	populate(world, *bodies)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(*width, *height, "Debug Draw", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, world, debugdraw.RendererConfig{
		MaxInstances: *maxInstances,
		Policy:       policy,
	}, logger)
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()

	mode := core.DebugDrawShapes
	if *contacts {
		mode |= core.DebugDrawContacts
	}
	application.Loop.Capture().SetDebugMode(mode)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		application.HandleCursor(xpos, ypos)
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			application.Orbiting = action == glfw.Press
		}
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		if yoff > 0 {
			application.Camera.Zoom(0.9)
		} else if yoff < 0 {
			application.Camera.Zoom(1.1)
		}
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			// Kick every body upwards.
			for _, b := range world.Bodies() {
				b.ApplyImpulse(mgl32.Vec3{0, 6, 0})
			}
		case glfw.KeyC:
			capture := application.Loop.Capture()
			capture.SetDebugMode(capture.DebugMode() ^ core.DebugDrawContacts)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		if err := application.Render(); err != nil {
			logger.Errorf("render: %v", err)
			break
		}
	}
}
