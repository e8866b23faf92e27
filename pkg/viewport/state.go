package viewport

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

const (
	DefaultZoom          = 1.2
	DefaultZoomSpeed     = 1.1
	DefaultMaxIterations = 128
)

type Mode int

const (
	ModeMandelbrot Mode = iota
	ModeJulia
)

func (m Mode) String() string {
	switch m {
	case ModeMandelbrot:
		return "mandelbrot"
	case ModeJulia:
		return "julia"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Default is the view restored by Reset for one mode.
type Default struct {
	Position types.Pointf64
	Zoom     float64
}

// Defaults holds one entry for every Mode. Reset panics on a mode
// without an entry.
var Defaults = map[Mode]Default{
	ModeMandelbrot: {Position: types.Pointf64{X: -0.5, Y: 0}, Zoom: DefaultZoom},
	ModeJulia:      {Position: types.Pointf64{X: 0, Y: 0}, Zoom: DefaultZoom},
}

// State is the navigation state of the viewer. The render loop is its only
// writer. The view transform is derived on demand from State and the window
// size and is never stored.
type State struct {
	Position      types.Pointf64
	Zoom          float64
	ZoomSpeed     float64
	JuliaC        types.Pointf64
	JuliaEnabled  bool
	MaxIterations int
	Precision     types.Precision
	SampleCount   int
}

// NewState returns the startup view for mode.
func NewState(mode Mode) State {
	s := State{
		ZoomSpeed:     DefaultZoomSpeed,
		JuliaEnabled:  mode == ModeJulia,
		MaxIterations: DefaultMaxIterations,
		SampleCount:   1,
	}
	s.Reset()
	return s
}

func (s *State) Mode() Mode {
	if s.JuliaEnabled {
		return ModeJulia
	}
	return ModeMandelbrot
}

// Reset restores position and zoom from the current mode's defaults.
func (s *State) Reset() {
	d, ok := Defaults[s.Mode()]
	if !ok {
		panic(fmt.Sprintf("viewport: no defaults for %v", s.Mode()))
	}
	s.Position = d.Position
	s.Zoom = d.Zoom
}

func (s *State) SetZoom(z float64) error {
	if !(z > 0) || math.IsInf(z, 0) {
		return fmt.Errorf("zoom must be positive and finite, got %v", z)
	}
	s.Zoom = z
	return nil
}

func (s *State) SetMaxIterations(n int) {
	if n < 1 {
		n = 1
	}
	s.MaxIterations = n
}

func (s *State) DoubleIterations() {
	s.SetMaxIterations(s.MaxIterations * 2)
}

func (s *State) HalveIterations() {
	s.SetMaxIterations(s.MaxIterations / 2)
}

func (s *State) Transform(windowW, windowH int) mgl64.Mat3 {
	return ComputeTransform(windowW, windowH, s.Zoom, s.Position)
}

// WorldAt is the plane coordinate under window pixel (px, py).
func (s *State) WorldAt(px, py float64, windowW, windowH int) types.Pointf64 {
	return ScreenToWorld(px, py, windowW, windowH, s.Transform(windowW, windowH))
}

// ZoomAt applies wheel notches around the cursor: positive notches zoom in
// (zoom divided by ZoomSpeed each), negative zoom out. The plane point under
// the cursor stays under the cursor.
func (s *State) ZoomAt(notches int, cursor types.Pointf64, windowW, windowH int) {
	if notches == 0 {
		return
	}
	anchor := s.WorldAt(cursor.X, cursor.Y, windowW, windowH)

	z0 := s.Zoom
	z1 := z0
	for ; notches > 0; notches-- {
		z1 /= s.ZoomSpeed
	}
	for ; notches < 0; notches++ {
		z1 *= s.ZoomSpeed
	}
	if !(z1 > 0) || math.IsInf(z1, 0) {
		return
	}

	// world = L·n + pos with L proportional to zoom, so keeping the anchor
	// fixed under n means pos' = anchor + (pos - anchor)·z1/z0.
	pos := anchor.Add(s.Position.Sub(anchor).Scale(z1 / z0))
	if !finite(pos) {
		return
	}
	s.Zoom = z1
	s.Position = pos
}

func finite(p types.Pointf64) bool {
	return !math.IsInf(p.X, 0) && !math.IsNaN(p.X) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.Y)
}

// Pan moves the view by a drag of (dx, dy) pixels. The step per pixel
// follows the current scale.
func (s *State) Pan(dx, dy float64, windowW, windowH int) {
	m := s.Transform(windowW, windowH)
	s.Position.X -= 2 * m[0] * dx / float64(windowW)
	s.Position.Y += 2 * m[4] * dy / float64(windowH)
}
