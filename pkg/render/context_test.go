package render

import (
	"testing"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu/gputest"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/palette"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/shader"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

func TestDrawBindsProgram(t *testing.T) {
	dev := gputest.New(types.PrecisionStandard)
	ctx := NewContext(dev, palette.Default, true)
	a, err := shader.Compile(dev, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := shader.Compile(dev, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx.Draw(a)
	ctx.Draw(a)
	ctx.Draw(b)
	if got := dev.Count("UseProgram"); got != 2 {
		t.Errorf("UseProgram called %d times, want 2", got)
	}
	if ctx.Active() != b {
		t.Error("last drawn program is not active")
	}
	if dev.Draws != 3 {
		t.Errorf("draws = %d, want 3", dev.Draws)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	dev := gputest.New(types.PrecisionStandard)
	ctx := NewContext(dev, palette.Default, false)
	p, err := shader.Compile(dev, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx.Resize(4, 3)
	if got := len(ctx.ReadPixels()); got != 4*3*4 {
		t.Errorf("ReadPixels() returned %d bytes", got)
	}

	p.Release()
	ctx.Close()
	ctx.Close()
	if n := dev.Live(); n != 0 {
		t.Errorf("%d GPU objects leaked", n)
	}
	if got := dev.Count("Release"); got != 1 {
		t.Errorf("device released %d times, want 1", got)
	}
}
