package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

// coreDevice talks to an OpenGL 3.3 core context.
type coreDevice struct {
	vao uint32
}

func openCore() (*coreDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gpu: init OpenGL 3.3 bindings: %w", err)
	}
	d := &coreDevice{}
	// core profile draws need a bound vertex array object
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.ClearColor(1, 1, 1, 1)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	return d, nil
}

func (d *coreDevice) Precision() types.Precision { return types.PrecisionStandard }

func (d *coreDevice) ShadingLanguage() string { return "#version 330 core" }

func (d *coreDevice) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *coreDevice) CompileShader(stage Stage, source string) (uint32, string, bool) {
	var kind uint32
	switch stage {
	case StageVertex:
		kind = gl.VERTEX_SHADER
	case StageFragment:
		kind = gl.FRAGMENT_SHADER
	default:
		panic(fmt.Sprintf("gpu: unknown shader stage %v", stage))
	}

	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := infoLog(logLength, func(buf *uint8) {
		gl.GetShaderInfoLog(shader, logLength, nil, buf)
	})
	return shader, log, status != gl.FALSE
}

func (d *coreDevice) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := infoLog(logLength, func(buf *uint8) {
		gl.GetProgramInfoLog(program, logLength, nil, buf)
	})
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, log, status != gl.FALSE
}

func infoLog(length int32, read func(buf *uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00 \n")
}

func (d *coreDevice) DeleteShader(shader uint32)   { gl.DeleteShader(shader) }
func (d *coreDevice) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (d *coreDevice) UseProgram(program uint32)    { gl.UseProgram(program) }

func (d *coreDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *coreDevice) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *coreDevice) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (d *coreDevice) Uniform2f(location int32, x, y float32) { gl.Uniform2f(location, x, y) }

func (d *coreDevice) Uniform2fv(location int32, v []float32) {
	if len(v) < 2 {
		return
	}
	gl.Uniform2fv(location, int32(len(v)/2), &v[0])
}

func (d *coreDevice) UniformMatrix3f(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (d *coreDevice) Uniform2d(int32, float64, float64) {
	panic("gpu: double uniform on a standard precision device")
}

func (d *coreDevice) UniformMatrix3d(int32, mgl64.Mat3) {
	panic("gpu: double uniform on a standard precision device")
}

func (d *coreDevice) NewQuad() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	return vbo
}

func (d *coreDevice) DrawQuad(buffer uint32, attrib int32) {
	if attrib < 0 {
		return
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(uint32(attrib))
	gl.VertexAttribPointerWithOffset(uint32(attrib), 2, gl.FLOAT, false, 0, 0)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, int32(len(quad)/2))
}

func (d *coreDevice) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (d *coreDevice) NewColorMap(colors []uint32, nearest bool) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_1D, tex)
	gl.TexImage1D(gl.TEXTURE_1D, 0, gl.RGB, int32(len(colors)), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(colors))
	filter := int32(gl.LINEAR)
	if nearest {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	return tex
}

func (d *coreDevice) BindColorMap(texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_1D, texture)
}

func (d *coreDevice) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (d *coreDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *coreDevice) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (d *coreDevice) ReadPixels(width, height int) []byte {
	pix := make([]byte, width*height*4)
	if len(pix) == 0 {
		return pix
	}
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}

func (d *coreDevice) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}
