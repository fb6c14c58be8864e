// Package viewer runs the planet world in an SDL window.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/config"
	"github.com/Faultbox/spacecraft/internal/engine/camera"
	"github.com/Faultbox/spacecraft/internal/engine/input"
	"github.com/Faultbox/spacecraft/internal/engine/renderer"
	"github.com/Faultbox/spacecraft/internal/engine/window"
	"github.com/Faultbox/spacecraft/internal/game"
	"github.com/Faultbox/spacecraft/internal/logger"
)

// Game is the windowed viewer.
type Game struct {
	config   *config.Config
	running  bool
	world    *game.World
	camera   *camera.FlyCamera
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	mouse    bool
	log      *zap.Logger
}

// New creates the window, the renderer and the world.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("viewer"),
	}
	g.log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	g.world, err = game.NewWorld(cfg)
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      "SpaceCraft",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:     cfg.Graphics.Width,
		Height:    cfg.Graphics.Height,
		Wireframe: cfg.Graphics.Wireframe,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()

	g.camera = camera.NewFlyCamera(mgl32.Vec3{0, 0, cfg.Planet.Radius * cfg.Camera.StartDistance})
	g.camera.Speed = cfg.Camera.Speed
	g.camera.FOV = cfg.Camera.FOV
	g.camera.Sensitivity = cfg.Camera.Sensitivity
	g.camera.Near = cfg.Planet.Radius * 0.0001
	g.camera.Far = cfg.Planet.Radius * 20
	g.camera.LookAt(mgl32.Vec3{})
	g.world.AddCamera(g.camera, true)

	g.log.Info("game initialized successfully")
	return g, nil
}

// World returns the headless world the game drives.
func (g *Game) World() *game.World {
	return g.world
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Update world
		g.update(dt)

		// 3. Render
		frame := g.render()

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			stats := g.world.LastStats()
			g.window.SetTitle(fmt.Sprintf("SpaceCraft | %d fps | %d patches | %d triangles | alt %.0f",
				frameCount, frame.DrawCalls, frame.Triangles, stats.Altitude))
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("dt_ms", dt*1000),
				zap.Int("gpu_meshes", frame.GPUMeshes),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_TAB:
				g.mouse = !g.mouse
				g.window.CaptureMouse(g.mouse)
			}
		}
	}
}

func (g *Game) update(dt float32) {
	in := g.input
	// Slow down near the surface so the finest patches stay reachable.
	speedScale := mgl32.Clamp(g.world.Altitude(g.camera.Position)/g.config.Planet.Radius, 0.001, 1)
	g.camera.Move(
		in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		in.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		in.Axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_C),
		dt*speedScale,
	)
	if g.mouse {
		dx, dy := in.MouseDelta()
		g.camera.Look(float32(dx), float32(dy))
	}

	g.world.Tick()
}

func (g *Game) render() renderer.FrameStats {
	g.renderer.Begin()
	viewProj := g.camera.ProjectionMatrix(g.renderer.Aspect()).Mul4(g.camera.ViewMatrix())
	g.renderer.DrawScene(g.world.Scene(), viewProj)
	return g.renderer.End()
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
