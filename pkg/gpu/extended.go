package gpu

import (
	"fmt"

	gl41 "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

// extendedDevice adds the GL 4 double precision uniforms (ARB_gpu_shader_fp64
// in core since 4.0) on top of the 3.3 entry points.
type extendedDevice struct {
	*coreDevice
}

func openExtended(core *coreDevice) (*extendedDevice, error) {
	if err := gl41.Init(); err != nil {
		return nil, fmt.Errorf("gpu: extended precision needs an OpenGL 4.1 context (have %q): %w", core.Version(), err)
	}
	return &extendedDevice{coreDevice: core}, nil
}

func (d *extendedDevice) Precision() types.Precision { return types.PrecisionExtended }

func (d *extendedDevice) ShadingLanguage() string { return "#version 400 core" }

func (d *extendedDevice) Uniform2d(location int32, x, y float64) {
	gl41.Uniform2d(location, x, y)
}

func (d *extendedDevice) UniformMatrix3d(location int32, m mgl64.Mat3) {
	gl41.UniformMatrix3dv(location, 1, false, &m[0])
}
