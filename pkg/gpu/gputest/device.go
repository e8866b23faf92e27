// Package gputest provides a recording gpu.Device for tests that have no
// GL context.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

// Call is one recorded device operation.
type Call struct {
	Name string
	Args []any
}

// Device records every call. Uniform values are kept per location name so
// tests can inspect what the shader would see.
type Device struct {
	Prec types.Precision

	// FailStage makes compilation of that stage fail; FailLink fails linking.
	FailStage map[gpu.Stage]bool
	FailLink  bool
	// StageLog is returned as the info log of a stage.
	StageLog map[gpu.Stage]string
	LinkLog  string

	Calls []Call

	// UsedProgram is the program last passed to UseProgram.
	UsedProgram uint32
	Uniforms    map[string]any
	Draws       int
	Clears      int
	ViewportW   int
	ViewportH   int
	Pixels      []byte
	Released    bool

	next      uint32
	locations map[int32]string
	live      map[uint32]string
}

func New(p types.Precision) *Device {
	return &Device{
		Prec:      p,
		FailStage: map[gpu.Stage]bool{},
		StageLog:  map[gpu.Stage]string{},
		Uniforms:  map[string]any{},
		locations: map[int32]string{},
		live:      map[uint32]string{},
	}
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Device) alloc(kind string) uint32 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) free(id uint32) {
	delete(d.live, id)
}

// Live returns the number of objects created and not yet deleted.
func (d *Device) Live() int {
	return len(d.live)
}

// Count returns how many times name was called.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

func (d *Device) Precision() types.Precision { return d.Prec }

func (d *Device) ShadingLanguage() string {
	if d.Prec == types.PrecisionExtended {
		return "#version 400 core"
	}
	return "#version 330 core"
}

func (d *Device) Version() string { return "fake" }

func (d *Device) CompileShader(stage gpu.Stage, source string) (uint32, string, bool) {
	d.record("CompileShader", stage, source)
	return d.alloc("shader"), d.StageLog[stage], !d.FailStage[stage]
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	d.record("LinkProgram", shaders)
	return d.alloc("program"), d.LinkLog, !d.FailLink
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader", shader)
	d.free(shader)
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	d.free(program)
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram", program)
	d.UsedProgram = program
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	loc := int32(len(d.locations))
	d.locations[loc] = name
	return loc
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	return 0
}

func (d *Device) set(location int32, v any) {
	name, ok := d.locations[location]
	if !ok {
		panic(fmt.Sprintf("gputest: uniform location %d was never queried", location))
	}
	if d.UsedProgram == 0 {
		panic("gputest: uniform set with no program in use")
	}
	d.Uniforms[name] = v
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.record("Uniform1i", location, v)
	d.set(location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	d.record("Uniform2f", location, x, y)
	d.set(location, mgl32.Vec2{x, y})
}

func (d *Device) Uniform2fv(location int32, v []float32) {
	d.record("Uniform2fv", location, v)
	d.set(location, append([]float32(nil), v...))
}

func (d *Device) UniformMatrix3f(location int32, m mgl32.Mat3) {
	d.record("UniformMatrix3f", location, m)
	d.set(location, m)
}

func (d *Device) Uniform2d(location int32, x, y float64) {
	if d.Prec != types.PrecisionExtended {
		panic("gputest: double uniform on a standard precision device")
	}
	d.record("Uniform2d", location, x, y)
	d.set(location, mgl64.Vec2{x, y})
}

func (d *Device) UniformMatrix3d(location int32, m mgl64.Mat3) {
	if d.Prec != types.PrecisionExtended {
		panic("gputest: double uniform on a standard precision device")
	}
	d.record("UniformMatrix3d", location, m)
	d.set(location, m)
}

func (d *Device) NewQuad() uint32 {
	d.record("NewQuad")
	return d.alloc("buffer")
}

func (d *Device) DrawQuad(buffer uint32, attrib int32) {
	d.record("DrawQuad", buffer, attrib)
	if d.UsedProgram == 0 {
		panic("gputest: draw with no program in use")
	}
	d.Draws++
}

func (d *Device) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer", buffer)
	d.free(buffer)
}

func (d *Device) NewColorMap(colors []uint32, nearest bool) uint32 {
	d.record("NewColorMap", append([]uint32(nil), colors...), nearest)
	return d.alloc("texture")
}

func (d *Device) BindColorMap(texture uint32) {
	d.record("BindColorMap", texture)
}

func (d *Device) DeleteTexture(texture uint32) {
	d.record("DeleteTexture", texture)
	d.free(texture)
}

func (d *Device) Viewport(width, height int) {
	d.record("Viewport", width, height)
	d.ViewportW, d.ViewportH = width, height
}

func (d *Device) Clear() {
	d.record("Clear")
	d.Clears++
}

func (d *Device) ReadPixels(width, height int) []byte {
	d.record("ReadPixels", width, height)
	pix := make([]byte, width*height*4)
	copy(pix, d.Pixels)
	return pix
}

func (d *Device) Release() {
	d.record("Release")
	d.Released = true
}
