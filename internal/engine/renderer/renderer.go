// Package renderer draws the visible planet patches with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/engine/shader"
	"github.com/Faultbox/spacecraft/internal/logger"
	"github.com/Faultbox/spacecraft/internal/scene"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
}

// FrameStats describes the last drawn frame.
type FrameStats struct {
	DrawCalls int
	Triangles int
	GPUMeshes int
}

type gpuMesh struct {
	vao   uint32
	vbo   uint32
	count int32
}

// Renderer uploads scene meshes on first use and draws every visible patch.
type Renderer struct {
	config  Config
	program *shader.Program
	meshes  map[scene.MeshHandle]gpuMesh
	light   mgl32.Vec3
	stats   FrameStats
	log     *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[scene.MeshHandle]gpuMesh),
		light:  mgl32.Vec3{0.4, 0.8, 0.3}.Normalize(),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.02, 0.02, 0.05, 1.0) // Space
	if cfg.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	var err error
	r.program, err = shader.NewProgram(patchVertexShader, patchFragmentShader,
		"uViewProj", "uLightDir", "uColor")
	if err != nil {
		return nil, fmt.Errorf("patch shader: %w", err)
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("gpu_meshes", len(r.meshes)))
	for h := range r.meshes {
		r.release(h)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.stats = FrameStats{}
}

// DrawScene draws every visible patch of g and drops GPU copies of meshes the scene
// has released.
func (r *Renderer) DrawScene(g *scene.Graph, viewProj mgl32.Mat4) {
	assets := g.Assets()

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetVec3("uLightDir", r.light)

	for _, d := range g.Drawables() {
		gm, ok := r.meshes[d.Mesh]
		if !ok {
			m, ok := assets.Mesh(d.Mesh)
			if !ok || len(m.Positions) == 0 {
				continue
			}
			gm = upload(m)
			r.meshes[d.Mesh] = gm
		}

		mat, _ := assets.Material(d.Material)
		r.program.SetVec4("uColor", mat.BaseColor)

		gl.BindVertexArray(gm.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, gm.count)
		r.stats.DrawCalls++
		r.stats.Triangles += int(gm.count) / 3
	}
	gl.BindVertexArray(0)

	for h := range r.meshes {
		if _, ok := assets.Mesh(h); !ok {
			r.release(h)
		}
	}
	r.stats.GPUMeshes = len(r.meshes)
}

// End finishes the current frame.
func (r *Renderer) End() FrameStats {
	return r.stats
}

func (r *Renderer) release(h scene.MeshHandle) {
	gm := r.meshes[h]
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	delete(r.meshes, h)
}

// upload interleaves position and normal into one buffer.
func upload(m *scene.Mesh) gpuMesh {
	data := make([]float32, 0, len(m.Positions)*6)
	for i, p := range m.Positions {
		n := m.Normals[i]
		data = append(data, p[0], p[1], p[2], n[0], n[1], n[2])
	}

	var gm gpuMesh
	gm.count = int32(len(m.Positions))

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	const stride = 6 * 4
	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return gm
}
