// Package settings parses the command line. A settings file, if present,
// holds more arguments in the same syntax and is read first, so the
// command line overrides it.
package settings

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

// DefaultFile is looked up in the working directory.
const DefaultFile = "args.txt"

var (
	ErrUsage = errors.New("invalid arguments")
	// ErrHelp is returned after printing the help text.
	ErrHelp = flag.ErrHelp
)

type Settings struct {
	Fullscreen    bool
	FPS           int
	Multisamples  int
	MaxIterations int
	Precision     types.Precision
	ColorsPath    string
	Julia         bool
	Nearest       bool
	LocationPath  string
	Verbose       bool
}

func Defaults() Settings {
	return Settings{
		FPS:           60,
		MaxIterations: 128,
	}
}

func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("fullscreen", s.Fullscreen),
		slog.Int("fps", s.FPS),
		slog.Int("multisamples", s.Multisamples),
		slog.Int("max_iterations", s.MaxIterations),
		slog.String("precision", s.Precision.String()),
		slog.Bool("julia", s.Julia),
		slog.Bool("nearest", s.Nearest),
		slog.String("colors", s.ColorsPath),
		slog.String("location", s.LocationPath),
	)
}

const controls = `
Controls:
Move the mouse while pressing down the left mouse button to pan.
Use the mouse wheel to zoom in/out.
Press <j> to toggle full julia set.
When julia set is activated, press the right mouse button to select an offset c in the function f(z) = z^2 + c.
Press <r> to reset the view.
Press <d>/<h> to double/halve the current max_iterations.
Press <s> to save a screen shot (mandelbrot.bmp and mandelbrot.bmp.txt).
Press <m> to toggle supersampling (only available if --multisamples is set).
Press <Esc> to quit.
`

// Parse parses args without the program name. Errors have already been
// reported to out together with the usage text.
func Parse(args []string, out io.Writer) (Settings, error) {
	s := Defaults()
	var double bool

	fs := flag.NewFlagSet("mandelbrot", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: mandelbrot [options]\n\noptions:\n")
		fs.PrintDefaults()
		fmt.Fprint(out, controls)
	}
	fs.BoolVar(&s.Fullscreen, "fullscreen", s.Fullscreen, "sets window to fullscreen mode")
	fs.IntVar(&s.FPS, "framerate", s.FPS, "target frames per second")
	fs.IntVar(&s.Multisamples, "multisamples", s.Multisamples, "samples per pixel for supersampling (`n` = 2, 4, 8 or 16)")
	fs.IntVar(&s.MaxIterations, "max_iterations", s.MaxIterations, "iterations before a point is considered inside the set")
	fs.BoolVar(&double, "double_precision", false, "use 64 bit floats instead of 32 bit floats (requires OpenGL 4.1)")
	fs.StringVar(&s.ColorsPath, "colors", s.ColorsPath, "BMP `file` whose first row is the color map")
	fs.BoolVar(&s.Julia, "julia", s.Julia, "start with the full julia set instead of the mandelbrot set")
	fs.BoolVar(&s.Nearest, "nearest", s.Nearest, "use nearest texture filtering for the color map instead of linear")
	fs.StringVar(&s.LocationPath, "location", s.LocationPath, "`file` from which a location on the fractal is loaded")
	fs.BoolVar(&s.Verbose, "verbose", s.Verbose, "log debug diagnostics")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Settings{}, ErrHelp
		}
		return Settings{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(out, "unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return Settings{}, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	if double {
		s.Precision = types.PrecisionExtended
	}
	s.FPS = max(s.FPS, 1)
	s.MaxIterations = max(s.MaxIterations, 1)
	s.Multisamples = max(s.Multisamples, 0)
	return s, nil
}

// Load parses the whitespace separated arguments in the settings file at
// path followed by args. A missing file is not an error.
func Load(path string, args []string, out io.Writer) (Settings, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Parse(args, out)
	case err != nil:
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	fileArgs := strings.Fields(string(data))
	return Parse(append(fileArgs, args...), out)
}
