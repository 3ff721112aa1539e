// Package app hosts the debug-draw renderer in a glfw window.
package app

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/debugdraw"
	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/gpu/wgpudev"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const DepthFormat = wgpu.TextureFormatDepth24Plus

// ClearColor is the background gray.
var ClearColor = wgpu.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView

	Renderer *debugdraw.Renderer
	Loop     *debugdraw.FrameLoop
	Camera   *core.Camera
	Clock    *debugdraw.Clock
	Logger   debugdraw.Logger

	RendererConfig debugdraw.RendererConfig
	Simulation     debugdraw.Simulation

	MouseX, MouseY float64
	Orbiting       bool

	LastStats      debugdraw.FrameStats
	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window, sim debugdraw.Simulation, cfg debugdraw.RendererConfig, logger debugdraw.Logger) *App {
	if logger == nil {
		logger = debugdraw.NewNopLogger()
	}
	return &App{
		Window:         window,
		Camera:         core.NewCamera(),
		Clock:          debugdraw.NewClock(),
		Logger:         logger,
		RendererConfig: cfg,
		Simulation:     sim,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if err := a.createDepth(uint32(width), uint32(height)); err != nil {
		return err
	}

	cfg := a.RendererConfig
	cfg.ColorFormat = wgpudev.TextureFormat(format)
	cfg.DepthFormat = wgpudev.TextureFormat(DepthFormat)
	a.Renderer, err = debugdraw.NewRenderer(wgpudev.New(a.Device), cfg, a.Logger)
	if err != nil {
		return err
	}
	a.Loop = debugdraw.NewFrameLoop(a.Renderer, a.Simulation, a.Logger)

	a.Logger.Infof("renderer ready: %dx%d, format %v", width, height, format)
	return nil
}

func (a *App) createDepth(w, h uint32) error {
	a.releaseDepth()

	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "ShapeDepth",
		Size: wgpu.Extent3D{
			Width:              max(w, 1),
			Height:             max(h, 1),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("depth view: %w", err)
	}
	a.DepthTexture, a.DepthView = tex, view
	return nil
}

func (a *App) releaseDepth() {
	if a.DepthView != nil {
		a.DepthView.Release()
		a.DepthView = nil
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
		a.DepthTexture = nil
	}
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.createDepth(uint32(w), uint32(h)); err != nil {
		a.Logger.Errorf("resize: %v", err)
	}
}

func (a *App) aspect() float32 {
	if a.Config == nil || a.Config.Height == 0 {
		return 1
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

// Render draws one frame. Capacity overflows are already logged by the frame
// loop and do not fail the frame.
func (a *App) Render() error {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		// Typically an outdated surface mid-resize; skip the frame.
		a.Logger.Warnf("get current texture: %v", err)
		return nil
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: ClearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	stats, tickErr := a.Loop.Tick(a.Clock.Tick(), a.Camera.ViewProj(a.aspect()), wgpudev.NewPass(rPass))
	a.LastStats = stats
	if err := rPass.End(); err != nil {
		return fmt.Errorf("render pass end: %w", err)
	}
	if tickErr != nil && !errors.Is(tickErr, core.ErrCapacityExceeded) {
		return tickErr
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()
	a.Queue.Submit(cmd)
	a.Surface.Present()

	a.updateFPS()
	return nil
}

func (a *App) updateFPS() {
	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.Logger.Debugf("%.1f fps, frame %d: %v instances, %d draws",
				a.FPS, a.LastStats.Frame, a.LastStats.Instances, a.LastStats.Draws)
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

// HandleCursor orbits the camera while the left button is held.
func (a *App) HandleCursor(x, y float64) {
	if a.Orbiting {
		a.Camera.Orbit(float32(x-a.MouseX), float32(y-a.MouseY))
	}
	a.MouseX, a.MouseY = x, y
}

func (a *App) Release() {
	if a.Renderer != nil {
		a.Renderer.Release()
		a.Renderer = nil
	}
	a.releaseDepth()
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
