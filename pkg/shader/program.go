// Package shader compiles the fractal program and exposes typed setters for
// its uniforms.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/sampling"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

//go:embed shaders/mandel.vert
var vertexSource string

//go:embed shaders/mandel.frag
var fragmentSource string

var ErrCompile = errors.New("shader compilation failed")

type State int

const (
	StateUncompiled State = iota
	StateCompiling
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUncompiled:
		return "uncompiled"
	case StateCompiling:
		return "compiling"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Program is the vertex/fragment pair rendering the fractal. Its precision
// is the device's and cannot change once compiled. Setters require
// StateReady and act on the program currently in use.
type Program struct {
	dev   gpu.Device
	table *sampling.Table
	log   *slog.Logger
	state State
	id    uint32
	// set by Release, State stays Ready
	released bool

	vertex        int32
	windowSize    int32
	transform     int32
	maxIterations int32
	juliaC        int32
	julia         int32
	numSamples    int32
	sampleOffsets int32
}

func New(dev gpu.Device, table *sampling.Table, log *slog.Logger) *Program {
	if table == nil {
		table = sampling.Default
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Program{dev: dev, table: table, log: log}
}

// Compile is New followed by Program.Compile.
func Compile(dev gpu.Device, table *sampling.Table, log *slog.Logger) (*Program, error) {
	p := New(dev, table, log)
	if err := p.Compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) State() State               { return p.state }
func (p *Program) Precision() types.Precision { return p.dev.Precision() }
func (p *Program) VertexLocation() int32      { return p.vertex }

// Source returns the full GLSL text for stage on this program's device.
func (p *Program) Source(stage gpu.Stage) string {
	var sb strings.Builder
	sb.WriteString(p.dev.ShadingLanguage())
	sb.WriteString("\n")
	if p.Precision() == types.PrecisionExtended {
		sb.WriteString("#define EXTENDED\n")
	}
	fmt.Fprintf(&sb, "#define MAX_SAMPLES %d\n", p.table.Max())
	switch stage {
	case gpu.StageVertex:
		sb.WriteString(vertexSource)
	case gpu.StageFragment:
		sb.WriteString(fragmentSource)
	}
	return sb.String()
}

// Compile builds and links both stages. Every stage is attempted and
// logged, so a failure reports all broken stages at once.
func (p *Program) Compile() error {
	if p.state != StateUncompiled {
		return fmt.Errorf("shader: compile in state %v", p.state)
	}
	p.state = StateCompiling

	var errs []error
	stages := []gpu.Stage{gpu.StageVertex, gpu.StageFragment}
	shaders := make([]uint32, 0, len(stages))
	for _, stage := range stages {
		s, log, ok := p.dev.CompileShader(stage, p.Source(stage))
		p.report(stage.String(), log, ok)
		if !ok {
			errs = append(errs, fmt.Errorf("%v stage: %s", stage, firstLine(log)))
		}
		shaders = append(shaders, s)
	}

	prog, log, ok := p.dev.LinkProgram(shaders...)
	p.report("link", log, ok)
	if !ok {
		errs = append(errs, fmt.Errorf("link: %s", firstLine(log)))
	}
	for _, s := range shaders {
		p.dev.DeleteShader(s)
	}

	if len(errs) > 0 {
		p.dev.DeleteProgram(prog)
		p.state = StateFailed
		return fmt.Errorf("%w (%v precision): %w", ErrCompile, p.Precision(), errors.Join(errs...))
	}

	p.id = prog
	p.vertex = p.dev.AttribLocation(prog, "vertex")
	p.windowSize = p.dev.UniformLocation(prog, "window_size")
	p.transform = p.dev.UniformLocation(prog, "transform")
	p.maxIterations = p.dev.UniformLocation(prog, "max_iterations")
	p.juliaC = p.dev.UniformLocation(prog, "julia_c")
	p.julia = p.dev.UniformLocation(prog, "julia")
	p.numSamples = p.dev.UniformLocation(prog, "num_samples")
	p.sampleOffsets = p.dev.UniformLocation(prog, "sample_offsets")
	// color_map stays on texture unit 0, the default sampler value
	p.state = StateReady
	p.log.Info("shader program ready", "precision", p.Precision(), "gl", p.dev.Version())
	return nil
}

func (p *Program) report(stage, log string, ok bool) {
	switch {
	case !ok:
		p.log.Error("shader stage failed", "stage", stage, "log", log)
	case log != "":
		p.log.Debug("shader stage log", "stage", stage, "log", log)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "no diagnostics"
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (p *Program) mustReady(op string) {
	if p.state != StateReady {
		panic(fmt.Sprintf("shader: %s on program in state %v", op, p.state))
	}
	if p.released {
		panic(fmt.Sprintf("shader: %s on released program", op))
	}
}

// Bind makes p the program in use on its device.
func (p *Program) Bind() {
	p.mustReady("Bind")
	p.dev.UseProgram(p.id)
}

func (p *Program) SetWindowSize(w, h int) {
	p.mustReady("SetWindowSize")
	p.dev.Uniform2f(p.windowSize, float32(w), float32(h))
}

// SetTransform32 panics unless p was compiled with standard precision.
func (p *Program) SetTransform32(m mgl32.Mat3) {
	p.mustReady("SetTransform32")
	if p.Precision() != types.PrecisionStandard {
		panic("shader: 32 bit transform for an extended precision program")
	}
	p.dev.UniformMatrix3f(p.transform, m)
}

// SetTransform64 panics unless p was compiled with extended precision.
func (p *Program) SetTransform64(m mgl64.Mat3) {
	p.mustReady("SetTransform64")
	if p.Precision() != types.PrecisionExtended {
		panic("shader: 64 bit transform for a standard precision program")
	}
	p.dev.UniformMatrix3d(p.transform, m)
}

// SetTransform narrows m when the program runs in standard precision.
func (p *Program) SetTransform(m mgl64.Mat3) {
	if p.Precision() == types.PrecisionExtended {
		p.SetTransform64(m)
		return
	}
	p.SetTransform32(mat3f(m))
}

func mat3f(m mgl64.Mat3) mgl32.Mat3 {
	var f mgl32.Mat3
	for i, v := range m {
		f[i] = float32(v)
	}
	return f
}

func (p *Program) SetMaxIterations(n int) {
	p.mustReady("SetMaxIterations")
	if n < 1 {
		panic(fmt.Sprintf("shader: max iterations %d < 1", n))
	}
	p.dev.Uniform1i(p.maxIterations, int32(n))
}

func (p *Program) SetJuliaC(x, y float64) {
	p.mustReady("SetJuliaC")
	if p.Precision() == types.PrecisionExtended {
		p.dev.Uniform2d(p.juliaC, x, y)
		return
	}
	p.dev.Uniform2f(p.juliaC, float32(x), float32(y))
}

func (p *Program) SetJuliaEnabled(enabled bool) {
	p.mustReady("SetJuliaEnabled")
	var v int32
	if enabled {
		v = 1
	}
	p.dev.Uniform1i(p.julia, v)
}

// SetSampleCount uploads the jitter pattern for n samples per pixel. A
// count without a pattern is lowered to the nearest defined tier with a
// warning. It returns the tier in effect.
func (p *Program) SetSampleCount(n int) int {
	p.mustReady("SetSampleCount")
	tier, exact := p.table.Floor(n)
	if !exact {
		p.log.Warn("unsupported sample count, using nearest lower tier",
			"requested", n, "using", tier, "tiers", p.table.Tiers())
	}
	pattern, _ := p.table.Pattern(tier)
	p.dev.Uniform2fv(p.sampleOffsets, pattern.Flatten(p.table.Max()))
	p.dev.Uniform1i(p.numSamples, int32(tier))
	return tier
}

// Release deletes the GPU program. The Program is unusable afterwards.
func (p *Program) Release() {
	if p.state == StateReady && !p.released {
		p.dev.DeleteProgram(p.id)
		p.released = true
	}
}
