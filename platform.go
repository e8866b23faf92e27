package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/render"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

const (
	windowWidth  = 800
	windowHeight = 600
)

var keymap = map[sdl.Keycode]render.Action{
	sdl.K_ESCAPE: render.ActionQuit,
	sdl.K_j:      render.ActionToggleJulia,
	sdl.K_d:      render.ActionDoubleIterations,
	sdl.K_h:      render.ActionHalveIterations,
	sdl.K_m:      render.ActionToggleSupersampling,
	sdl.K_r:      render.ActionReset,
	sdl.K_s:      render.ActionSnapshot,
}

// sdlPlatform is the window and GL context. All of its methods must be
// called from the main thread.
type sdlPlatform struct {
	window  *sdl.Window
	context sdl.GLContext
	log     *slog.Logger
}

func sdlInit(title string, fullscreen bool, p types.Precision, log *slog.Logger) (*sdlPlatform, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_TIMER); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	sdl.StopTextInput()

	major, minor := gpu.ContextVersion(p)
	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, major},
		{sdl.GL_CONTEXT_MINOR_VERSION, minor},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_DOUBLEBUFFER, 1},
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("setting GL attribute %d: %w", a.attr, err)
		}
	}

	var w, h int32 = windowWidth, windowHeight
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if fullscreen {
		mode, err := sdl.GetCurrentDisplayMode(0)
		if err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("querying display mode: %w", err)
		}
		w, h = mode.W, mode.H
		flags |= sdl.WINDOW_FULLSCREEN
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	ctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("creating GL %d.%d context: %w", major, minor, err)
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		log.Warn("vsync unavailable", "err", err)
	}
	log.Debug("window created", "width", w, "height", h, "fullscreen", fullscreen, "gl", fmt.Sprintf("%d.%d", major, minor))

	return &sdlPlatform{window: window, context: ctx, log: log}, nil
}

func (p *sdlPlatform) close() {
	sdl.GLDeleteContext(p.context)
	p.window.Destroy()
	sdl.Quit()
}

func (p *sdlPlatform) size() (int, int) {
	w, h := p.window.GetSize()
	return int(w), int(h)
}

// PollEvent translates pending SDL events until one matters to the
// render loop.
func (p *sdlPlatform) PollEvent() render.Event {
	for {
		e := sdl.PollEvent()
		if e == nil {
			return nil
		}
		if re := p.translate(e); re != nil {
			return re
		}
	}
}

func (p *sdlPlatform) translate(e sdl.Event) render.Event {
	switch t := e.(type) {
	case *sdl.QuitEvent:
		return render.QuitEvent{}
	case *sdl.WindowEvent:
		if t.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return render.ResizeEvent{Width: int(t.Data1), Height: int(t.Data2)}
		}
	case *sdl.KeyboardEvent:
		if t.Type != sdl.KEYDOWN {
			return nil
		}
		if a, ok := keymap[t.Keysym.Sym]; ok {
			return render.KeyEvent{Action: a, Repeat: t.Repeat != 0}
		}
	case *sdl.MouseWheelEvent:
		notches := int(t.Y)
		if t.Direction == sdl.MOUSEWHEEL_FLIPPED {
			notches = -notches
		}
		x, y, _ := sdl.GetMouseState()
		return render.WheelEvent{Notches: notches, Cursor: pointOf(x, y)}
	case *sdl.MouseButtonEvent:
		var b render.Button
		switch t.Button {
		case sdl.BUTTON_LEFT:
			b = render.ButtonLeft
		case sdl.BUTTON_RIGHT:
			b = render.ButtonRight
		default:
			return nil
		}
		return render.ButtonEvent{Button: b, Pressed: t.State == sdl.PRESSED, Pos: pointOf(t.X, t.Y)}
	case *sdl.MouseMotionEvent:
		return render.MotionEvent{Pos: pointOf(t.X, t.Y), Rel: pointOf(t.XRel, t.YRel)}
	}
	return nil
}

func pointOf(x, y int32) types.Pointf64 {
	return types.Pointf64{X: float64(x), Y: float64(y)}
}

func (p *sdlPlatform) Present() { p.window.GLSwap() }

func (p *sdlPlatform) Now() time.Duration {
	return time.Duration(sdl.GetTicks()) * time.Millisecond
}

func (p *sdlPlatform) Sleep(d time.Duration) {
	if ms := d.Milliseconds(); ms > 0 {
		sdl.Delay(uint32(ms))
	}
}
