package render

import (
	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/shader"
)

// Context owns the GPU objects shared by every frame and tracks which
// program is in use, so draws never depend on ambient GL state. It must be
// used only by the goroutine that owns the GL context.
type Context struct {
	dev      gpu.Device
	active   *shader.Program
	quad     uint32
	colorMap uint32
	width    int
	height   int
	closed   bool
}

// NewContext uploads the screen quad and the color map.
func NewContext(dev gpu.Device, colors []uint32, nearest bool) *Context {
	return &Context{
		dev:      dev,
		quad:     dev.NewQuad(),
		colorMap: dev.NewColorMap(colors, nearest),
	}
}

func (c *Context) Device() gpu.Device { return c.dev }

// Bind puts p in use and records it as the active program.
func (c *Context) Bind(p *shader.Program) {
	p.Bind()
	c.active = p
}

func (c *Context) Active() *shader.Program { return c.active }

func (c *Context) Resize(width, height int) {
	c.width, c.height = width, height
	c.dev.Viewport(width, height)
}

func (c *Context) Size() (int, int) { return c.width, c.height }

func (c *Context) Clear() { c.dev.Clear() }

// Draw renders the full screen quad with p, binding p first if another
// program is active.
func (c *Context) Draw(p *shader.Program) {
	if c.active != p {
		c.Bind(p)
	}
	c.dev.BindColorMap(c.colorMap)
	c.dev.DrawQuad(c.quad, p.VertexLocation())
}

// ReadPixels returns the back buffer as RGBA rows, bottom row first.
func (c *Context) ReadPixels() []byte {
	return c.dev.ReadPixels(c.width, c.height)
}

// Close deletes the context's GPU objects. It is safe to call twice.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.active = nil
	c.dev.DeleteBuffer(c.quad)
	c.dev.DeleteTexture(c.colorMap)
	c.dev.Release()
}
