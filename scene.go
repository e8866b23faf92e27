package main

import (
	"fmt"
	"log/slog"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/render"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/settings"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/shader"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/snapshot"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/viewport"
)

// scene owns everything created on top of the GL context.
type scene struct {
	ctx   *render.Context
	prog  *shader.Program
	snaps *snapshot.Writer
	loop  *render.Loop
}

func newScene(p *sdlPlatform, view viewport.State, s settings.Settings, colors []uint32, log *slog.Logger) (*scene, error) {
	dev, err := gpu.Open(view.Precision)
	if err != nil {
		return nil, err
	}
	log.Info("opened GL device", "version", dev.Version(), "precision", dev.Precision())

	ctx := render.NewContext(dev, colors, s.Nearest)
	prog, err := shader.Compile(dev, nil, log)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("building fractal shader: %w", err)
	}

	snaps := snapshot.NewWriter(snapshot.DefaultPath, log)
	w, h := p.size()
	loop := render.NewLoop(render.Config{
		Context:    ctx,
		Program:    prog,
		Platform:   p,
		Snapshots:  snaps,
		View:       view,
		Width:      w,
		Height:     h,
		FPS:        s.FPS,
		SampleTier: s.Multisamples,
		Log:        log,
	})
	return &scene{ctx: ctx, prog: prog, snaps: snaps, loop: loop}, nil
}

// close waits for pending snapshots, then frees GPU objects. The GL
// context must still be current.
func (s *scene) close() {
	s.snaps.Close()
	s.prog.Release()
	s.ctx.Close()
}
