package render

import (
	"fmt"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

// Event is an input event already translated from the window system.
type Event interface {
	isEvent()
}

type QuitEvent struct{}

// KeyEvent is a key press mapped to the action it triggers. Repeat is set
// for the auto-repeat presses sent while a key is held.
type KeyEvent struct {
	Action Action
	Repeat bool
}

// WheelEvent carries the wheel notches (positive away from the user) and
// the cursor position in window pixels.
type WheelEvent struct {
	Notches int
	Cursor  types.Pointf64
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

type ButtonEvent struct {
	Button  Button
	Pressed bool
	Pos     types.Pointf64
}

type MotionEvent struct {
	Pos types.Pointf64
	Rel types.Pointf64
}

type ResizeEvent struct {
	Width  int
	Height int
}

func (QuitEvent) isEvent()   {}
func (KeyEvent) isEvent()    {}
func (WheelEvent) isEvent()  {}
func (ButtonEvent) isEvent() {}
func (MotionEvent) isEvent() {}
func (ResizeEvent) isEvent() {}

type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleJulia
	ActionDoubleIterations
	ActionHalveIterations
	ActionToggleSupersampling
	ActionReset
	ActionSnapshot
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionQuit:
		return "quit"
	case ActionToggleJulia:
		return "toggle-julia"
	case ActionDoubleIterations:
		return "double-iterations"
	case ActionHalveIterations:
		return "halve-iterations"
	case ActionToggleSupersampling:
		return "toggle-supersampling"
	case ActionReset:
		return "reset"
	case ActionSnapshot:
		return "snapshot"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
