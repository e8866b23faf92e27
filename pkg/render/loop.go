package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/shader"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/snapshot"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/viewport"
)

// Platform is the window the loop draws into.
type Platform interface {
	// PollEvent returns the next pending event or nil, without blocking.
	PollEvent() Event
	Present()
	Now() time.Duration
	Sleep(d time.Duration)
}

type Snapshotter interface {
	Snapshot(f snapshot.Frame) error
}

type State int

const (
	StateIdle State = iota
	StateDirty
	StateRendering
	StateExited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StateRendering:
		return "rendering"
	case StateExited:
		return "exited"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Config struct {
	Context   *Context
	Program   *shader.Program
	Platform  Platform
	Snapshots Snapshotter // nil disables snapshots
	View      viewport.State
	Width     int
	Height    int
	FPS       int
	// SampleTier is the sample count ActionToggleSupersampling switches
	// to. Zero disables supersampling and the toggle.
	SampleTier int
	Log        *slog.Logger
}

// Loop owns the view state and every GPU call made while running. It
// redraws only when an event changed what is on screen.
type Loop struct {
	ctx      *Context
	prog     *shader.Program
	platform Platform
	snaps    Snapshotter
	log      *slog.Logger

	view          viewport.State
	state         State
	budget        time.Duration
	tier          int
	supersampling bool
	leftDown      bool
	rightDown     bool

	frames        int
	invalidations int
}

func NewLoop(cfg Config) *Loop {
	fps := cfg.FPS
	if fps < 1 {
		fps = 1
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	l := &Loop{
		ctx:      cfg.Context,
		prog:     cfg.Program,
		platform: cfg.Platform,
		snaps:    cfg.Snapshots,
		log:      log,
		view:     cfg.View,
		state:    StateDirty,
		budget:   time.Second / time.Duration(fps),
	}

	l.ctx.Bind(l.prog)
	l.ctx.Resize(cfg.Width, cfg.Height)
	l.view.SampleCount = 1
	if cfg.SampleTier > 0 {
		l.tier = l.prog.SetSampleCount(cfg.SampleTier)
		l.supersampling = true
		l.view.SampleCount = l.tier
	}
	return l
}

func (l *Loop) State() State         { return l.state }
func (l *Loop) View() viewport.State { return l.view }

// FrameBudget is the minimum time between two iterations of Run.
func (l *Loop) FrameBudget() time.Duration { return l.budget }

// Frames is the number of frames presented.
func (l *Loop) Frames() int { return l.frames }

// Invalidations counts Idle to Dirty transitions.
func (l *Loop) Invalidations() int { return l.invalidations }

// Run steps until the user quits.
func (l *Loop) Run() {
	for l.Step() {
	}
	l.log.Info("render loop exited", "frames", l.frames)
}

// Step runs one iteration: drain input, redraw if needed, then sleep out
// the rest of the frame budget. It returns false once the loop exited.
func (l *Loop) Step() bool {
	start := l.platform.Now()
	l.drain()
	if l.state == StateExited {
		return false
	}
	if l.state == StateDirty {
		l.render()
	}
	if elapsed := l.platform.Now() - start; elapsed < l.budget {
		l.platform.Sleep(l.budget - elapsed)
	}
	return true
}

func (l *Loop) drain() {
	for l.state != StateExited {
		e := l.platform.PollEvent()
		if e == nil {
			return
		}
		l.handle(e)
	}
}

func (l *Loop) invalidate() {
	if l.state == StateIdle {
		l.state = StateDirty
		l.invalidations++
	}
}

func (l *Loop) size() (int, int) {
	return l.ctx.Size()
}

func (l *Loop) handle(e Event) {
	w, h := l.size()
	switch e := e.(type) {
	case QuitEvent:
		l.state = StateExited
	case KeyEvent:
		l.handleKey(e)
	case WheelEvent:
		if e.Notches == 0 {
			return
		}
		l.view.ZoomAt(e.Notches, e.Cursor, w, h)
		l.invalidate()
	case ButtonEvent:
		switch e.Button {
		case ButtonLeft:
			l.leftDown = e.Pressed
		case ButtonRight:
			l.rightDown = e.Pressed
			if e.Pressed {
				l.pickJuliaC(e.Pos)
			}
		}
	case MotionEvent:
		if l.leftDown {
			l.view.Pan(e.Rel.X, e.Rel.Y, w, h)
			l.invalidate()
		}
		if l.rightDown {
			l.pickJuliaC(e.Pos)
		}
	case ResizeEvent:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		l.ctx.Resize(e.Width, e.Height)
		l.invalidate()
	}
}

func (l *Loop) handleKey(e KeyEvent) {
	if e.Action == ActionQuit {
		l.state = StateExited
		return
	}
	if e.Repeat {
		return
	}
	l.log.Debug("key action", "action", e.Action)
	switch e.Action {
	case ActionToggleJulia:
		l.view.JuliaEnabled = !l.view.JuliaEnabled
		l.invalidate()
	case ActionDoubleIterations:
		l.view.DoubleIterations()
		l.invalidate()
	case ActionHalveIterations:
		l.view.HalveIterations()
		l.invalidate()
	case ActionToggleSupersampling:
		if l.tier == 0 {
			return
		}
		l.supersampling = !l.supersampling
		l.view.SampleCount = 1
		if l.supersampling {
			l.view.SampleCount = l.tier
		}
		l.invalidate()
	case ActionReset:
		l.view.Reset()
		l.invalidate()
	case ActionSnapshot:
		l.snapshot()
	}
}

// pickJuliaC records c even in Mandelbrot mode, where it is not visible
// until Julia mode is toggled on.
func (l *Loop) pickJuliaC(pos types.Pointf64) {
	w, h := l.size()
	l.view.JuliaC = l.view.WorldAt(pos.X, pos.Y, w, h)
	if l.view.JuliaEnabled {
		l.invalidate()
	}
}

// syncParams pushes the whole view to the program. It runs before every
// draw, after all mutations of the iteration.
func (l *Loop) syncParams() {
	if l.ctx.Active() != l.prog {
		l.ctx.Bind(l.prog)
	}
	w, h := l.size()
	p := l.prog
	p.SetWindowSize(w, h)
	p.SetTransform(l.view.Transform(w, h))
	p.SetMaxIterations(l.view.MaxIterations)
	p.SetJuliaEnabled(l.view.JuliaEnabled)
	p.SetJuliaC(l.view.JuliaC.X, l.view.JuliaC.Y)
	l.view.SampleCount = p.SetSampleCount(l.view.SampleCount)
}

func (l *Loop) drawFrame() {
	l.ctx.Clear()
	l.syncParams()
	l.ctx.Draw(l.prog)
}

func (l *Loop) render() {
	l.state = StateRendering
	l.drawFrame()
	l.platform.Present()
	l.frames++
	l.state = StateIdle
}

// snapshot draws the current view into the back buffer without presenting
// it and hands the pixels to the snapshotter. The on-screen frame is
// unaffected, so the loop state does not change.
func (l *Loop) snapshot() {
	if l.snaps == nil {
		l.log.Warn("snapshots are disabled")
		return
	}
	l.drawFrame()
	w, h := l.size()
	f := snapshot.Frame{
		Pixels: l.ctx.ReadPixels(),
		Width:  w,
		Height: h,
		View:   l.view,
	}
	if err := l.snaps.Snapshot(f); err != nil {
		l.log.Error("snapshot failed", "err", err)
	}
}
