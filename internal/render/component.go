package render

import "github.com/go-gl/mathgl/mgl32"

// Shader is a compiled shader program owned by the asset layer. The runtime
// core never compiles or caches programs; it only checks for presence and
// binds through the owning Component.
type Shader interface {
	Program() uint32
}

// Component is the renderable component shared by map layers, map objects,
// sprites and the GUI compositor. The render orchestrator drives it through
// a fixed bind/draw/release protocol: bind shader, bind VBOs, bind textures,
// draw, then release in reverse order.
type Component interface {
	Shader() Shader // nil when no program is attached

	BindShader()
	ReleaseShader()
	BindVBOs()
	ReleaseVBOs()
	BindTextures()
	ReleaseTextures()

	NumVerticesRender() int

	SetProjectionMatrix(mgl32.Mat4)
	SetModelviewMatrix(mgl32.Mat4)
}

// BaseComponent carries the state every renderable has: its shader, vertex
// count and current matrices. Concrete components embed it and add their own
// bind/release behavior; the binds here are deliberately empty so entity
// kinds without GPU resources of their own still satisfy Component.
type BaseComponent struct {
	shader      Shader
	numVertices int
	projection  mgl32.Mat4
	modelview   mgl32.Mat4
}

func (c *BaseComponent) Shader() Shader { return c.shader }
func (c *BaseComponent) SetShader(s Shader) { c.shader = s }
func (c *BaseComponent) NumVerticesRender() int { return c.numVertices }
func (c *BaseComponent) SetNumVerticesRender(n int) {
	c.numVertices = n
}

func (c *BaseComponent) SetProjectionMatrix(m mgl32.Mat4) { c.projection = m }
func (c *BaseComponent) SetModelviewMatrix(m mgl32.Mat4) { c.modelview = m }
func (c *BaseComponent) ProjectionMatrix() mgl32.Mat4 { return c.projection }
func (c *BaseComponent) ModelviewMatrix() mgl32.Mat4 { return c.modelview }

func (c *BaseComponent) BindShader() {}
func (c *BaseComponent) ReleaseShader() {}
func (c *BaseComponent) BindVBOs() {}
func (c *BaseComponent) ReleaseVBOs() {}
func (c *BaseComponent) BindTextures() {}
func (c *BaseComponent) ReleaseTextures() {}
