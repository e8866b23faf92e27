// Package gpu is the narrow set of OpenGL operations the viewer issues.
// A Device is bound to the GL context that was current when it was opened
// and must only be used from that context's thread.
package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

type Device interface {
	Precision() types.Precision
	// GLSL version directive matching the context
	ShadingLanguage() string
	Version() string

	// CompileShader always returns the stage's info log, also on success.
	CompileShader(stage Stage, source string) (shader uint32, infoLog string, ok bool)
	LinkProgram(shaders ...uint32) (program uint32, infoLog string, ok bool)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32

	// uniform setters apply to the program in use
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x, y float32)
	Uniform2fv(location int32, v []float32)
	UniformMatrix3f(location int32, m mgl32.Mat3)
	// double variants panic on a standard precision device
	Uniform2d(location int32, x, y float64)
	UniformMatrix3d(location int32, m mgl64.Mat3)

	// NewQuad uploads a triangle strip covering clip space.
	NewQuad() uint32
	DrawQuad(buffer uint32, attrib int32)
	DeleteBuffer(buffer uint32)

	// NewColorMap uploads packed RGBA colors as a 1D texture on unit 0.
	NewColorMap(colors []uint32, nearest bool) uint32
	BindColorMap(texture uint32)
	DeleteTexture(texture uint32)

	Viewport(width, height int)
	Clear()
	// ReadPixels returns RGBA rows of the back buffer, bottom row first.
	ReadPixels(width, height int) []byte

	Release()
}

// Open loads the GL bindings for the current context. Extended precision
// needs a 4.x context and fails on anything older.
func Open(p types.Precision) (Device, error) {
	core, err := openCore()
	if err != nil {
		return nil, err
	}
	switch p {
	case types.PrecisionStandard:
		return core, nil
	case types.PrecisionExtended:
		ext, err := openExtended(core)
		if err != nil {
			core.Release()
			return nil, err
		}
		return ext, nil
	}
	core.Release()
	return nil, fmt.Errorf("gpu: unknown precision %v", p)
}

// ContextVersion is the GL context version to request for p.
func ContextVersion(p types.Precision) (major, minor int) {
	if p == types.PrecisionExtended {
		return 4, 1
	}
	return 3, 3
}

// quad is a triangle strip covering clip space.
var quad = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}
