package shader

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu/gputest"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/sampling"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func readyProgram(t *testing.T, prec types.Precision) (*Program, *gputest.Device, *bytes.Buffer) {
	t.Helper()
	dev := gputest.New(prec)
	var buf bytes.Buffer
	p, err := Compile(dev, sampling.Default, newLogger(&buf))
	if err != nil {
		t.Fatalf("Compile() = %v", err)
	}
	p.Bind()
	return p, dev, &buf
}

func TestCompileReady(t *testing.T) {
	for _, prec := range []types.Precision{types.PrecisionStandard, types.PrecisionExtended} {
		t.Run(prec.String(), func(t *testing.T) {
			p, dev, _ := readyProgram(t, prec)
			if p.State() != StateReady {
				t.Fatalf("State() = %v, want ready", p.State())
			}
			if got := dev.Count("DeleteShader"); got != 2 {
				t.Errorf("DeleteShader called %d times, want 2", got)
			}
			if dev.Live() != 1 {
				t.Errorf("%d live GPU objects after compile, want only the program", dev.Live())
			}
			p.Release()
			if dev.Live() != 0 {
				t.Errorf("%d live GPU objects after Release", dev.Live())
			}
		})
	}
}

func TestSourceHeader(t *testing.T) {
	std := New(gputest.New(types.PrecisionStandard), nil, nil)
	ext := New(gputest.New(types.PrecisionExtended), nil, nil)

	src := std.Source(gpu.StageFragment)
	if !strings.HasPrefix(src, "#version 330 core\n") {
		t.Errorf("standard fragment source starts with %q", firstLine(src))
	}
	if strings.Contains(src, "#define EXTENDED") {
		t.Error("standard source defines EXTENDED")
	}
	if !strings.Contains(src, "#define MAX_SAMPLES 16") {
		t.Error("MAX_SAMPLES does not follow the sampling table")
	}

	src = ext.Source(gpu.StageFragment)
	if !strings.HasPrefix(src, "#version 400 core\n#define EXTENDED\n") {
		t.Errorf("extended fragment source header = %q", src[:40])
	}
	if !strings.Contains(ext.Source(gpu.StageVertex), "in vec2 vertex;") {
		t.Error("vertex source missing the vertex attribute")
	}
}

func TestCompileFailureReportsEveryStage(t *testing.T) {
	dev := gputest.New(types.PrecisionExtended)
	dev.FailStage[gpu.StageFragment] = true
	dev.FailLink = true
	dev.StageLog[gpu.StageVertex] = "vertex warning: unused variable"
	dev.StageLog[gpu.StageFragment] = "0:12: 'dmat3' : requires GL_ARB_gpu_shader_fp64"
	dev.LinkLog = "fragment shader not compiled"

	var buf bytes.Buffer
	p := New(dev, nil, newLogger(&buf))
	err := p.Compile()
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Compile() = %v, want ErrCompile", err)
	}
	if p.State() != StateFailed {
		t.Errorf("State() = %v, want failed", p.State())
	}
	for _, want := range []string{"fragment stage", "dmat3", "link"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
	logs := buf.String()
	for _, want := range []string{"stage=vertex", "stage=fragment", "stage=link"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %s:\n%s", want, logs)
		}
	}
	if dev.Live() != 0 {
		t.Errorf("%d GPU objects leaked by failed compile", dev.Live())
	}
	if err := p.Compile(); err == nil {
		t.Error("second Compile on failed program succeeded")
	}
}

func TestSettersRequireReady(t *testing.T) {
	p := New(gputest.New(types.PrecisionStandard), nil, nil)
	defer func() {
		if recover() == nil {
			t.Error("SetMaxIterations on uncompiled program did not panic")
		}
	}()
	p.SetMaxIterations(10)
}

func TestTransformPrecisionMismatchPanics(t *testing.T) {
	std, _, _ := readyProgram(t, types.PrecisionStandard)
	ext, _, _ := readyProgram(t, types.PrecisionExtended)

	mustPanic(t, "SetTransform64 on standard", func() { std.SetTransform64(mgl64.Ident3()) })
	mustPanic(t, "SetTransform32 on extended", func() { ext.SetTransform32(mgl32.Ident3()) })
}

func TestSetTransformNarrowsForStandard(t *testing.T) {
	p, dev, _ := readyProgram(t, types.PrecisionStandard)
	m := mgl64.Mat3{1.6, 0, 0, 0, 1.2, 0, -0.5, 0.25, 1}
	p.SetTransform(m)
	want := mgl32.Mat3{1.6, 0, 0, 0, 1.2, 0, -0.5, 0.25, 1}
	if diff := cmp.Diff(want, dev.Uniforms["transform"]); diff != "" {
		t.Errorf("transform uniform mismatch (-want +got):\n%s", diff)
	}

	e, edev, _ := readyProgram(t, types.PrecisionExtended)
	e.SetTransform(m)
	if diff := cmp.Diff(m, edev.Uniforms["transform"]); diff != "" {
		t.Errorf("extended transform uniform mismatch (-want +got):\n%s", diff)
	}
}

func TestJuliaCPrecision(t *testing.T) {
	p, dev, _ := readyProgram(t, types.PrecisionExtended)
	p.SetJuliaC(-0.8, 0.156)
	if diff := cmp.Diff(mgl64.Vec2{-0.8, 0.156}, dev.Uniforms["julia_c"]); diff != "" {
		t.Errorf("julia_c mismatch (-want +got):\n%s", diff)
	}
	p.SetJuliaEnabled(true)
	if dev.Uniforms["julia"] != int32(1) {
		t.Errorf("julia = %v, want 1", dev.Uniforms["julia"])
	}
}

func TestSetSampleCountFallsBack(t *testing.T) {
	p, dev, buf := readyProgram(t, types.PrecisionStandard)

	got := p.SetSampleCount(3)
	if got != 2 {
		t.Errorf("SetSampleCount(3) = %d, want 2", got)
	}
	if dev.Uniforms["num_samples"] != int32(2) {
		t.Errorf("num_samples = %v, want 2", dev.Uniforms["num_samples"])
	}
	offsets := dev.Uniforms["sample_offsets"].([]float32)
	if len(offsets) != 2*16 || offsets[0] != 0.25 || offsets[2] != -0.25 {
		t.Errorf("sample_offsets = %v", offsets)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "requested=3") {
		t.Errorf("no warning logged for sample count 3:\n%s", buf.String())
	}

	buf.Reset()
	if got := p.SetSampleCount(8); got != 8 {
		t.Errorf("SetSampleCount(8) = %d, want 8", got)
	}
	if strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("warning logged for a defined tier:\n%s", buf.String())
	}
}

func TestReleasedProgramPanics(t *testing.T) {
	p, _, _ := readyProgram(t, types.PrecisionStandard)
	p.Release()
	p.Release()
	mustPanic(t, "Bind after Release", p.Bind)
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}
