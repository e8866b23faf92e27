package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/location"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/palette"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/settings"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/viewport"
)

func init() {
	// SDL and GL calls must stay on the thread that did INIT_VIDEO
	runtime.LockOSThread()
}

func main() {
	s, err := settings.Load(settings.DefaultFile, os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, settings.ErrHelp):
		return
	case errors.Is(err, settings.ErrUsage):
		os.Exit(1)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := newLogger(s.Verbose)
	if err := run(s, log); err != nil {
		log.Error("mandelbrot failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(s settings.Settings, log *slog.Logger) error {
	log.Debug("starting", "settings", s)

	view, err := initialView(s, log)
	if err != nil {
		return err
	}
	colors := palette.Default
	if s.ColorsPath != "" {
		if colors, err = loadColors(s.ColorsPath); err != nil {
			return err
		}
		log.Debug("loaded colors", "path", s.ColorsPath, "count", len(colors))
	}

	p, err := sdlInit("Mandelbrot", s.Fullscreen, view.Precision, log)
	if err != nil {
		return err
	}
	defer p.close()

	sc, err := newScene(p, view, s, colors, log)
	if err != nil {
		return err
	}
	defer sc.close()

	sc.loop.Run()
	return nil
}

func initialView(s settings.Settings, log *slog.Logger) (viewport.State, error) {
	mode := viewport.ModeMandelbrot
	if s.Julia {
		mode = viewport.ModeJulia
	}
	view := viewport.NewState(mode)
	view.SetMaxIterations(s.MaxIterations)
	view.Precision = s.Precision

	if s.LocationPath != "" {
		loc, err := location.Load(s.LocationPath, log)
		switch {
		case errors.Is(err, location.ErrValueCount), errors.Is(err, location.ErrValue):
			// keep the attributes read before the bad line
			log.Error("loading location", "err", err)
		case err != nil:
			return view, fmt.Errorf("loading location: %w", err)
		}
		loc.Apply(&view)
	}
	return view, nil
}
