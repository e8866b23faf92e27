package viewport

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

// ComputeTransform returns the column-major view matrix mapping normalized
// screen coordinates in [-1,1]² to the fractal plane. The longer window
// axis gets the larger scale so the plane is never stretched.
func ComputeTransform(windowW, windowH int, zoom float64, position types.Pointf64) mgl64.Mat3 {
	xScale, yScale := zoom, zoom
	if windowW > windowH {
		xScale = zoom * float64(windowW) / float64(windowH)
	} else {
		yScale = zoom * float64(windowH) / float64(windowW)
	}
	return mgl64.Mat3{
		xScale, 0, 0,
		0, yScale, 0,
		position.X, position.Y, 1,
	}
}

// ScreenToWorld maps a window pixel (origin top left, y down) to the
// fractal plane. It mirrors the expression the fragment shader evaluates
// for gl_FragCoord, whose y axis already points up.
func ScreenToWorld(px, py float64, windowW, windowH int, transform mgl64.Mat3) types.Pointf64 {
	n := mgl64.Vec3{
		2*px/float64(windowW) - 1,
		1 - 2*py/float64(windowH),
		1,
	}
	w := transform.Mul3x1(n)
	return types.Pointf64{X: w[0], Y: w[1]}
}
