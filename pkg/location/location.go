// Package location reads and writes view files, one attribute per line:
//
//	position <x> <y>
//	zoom <z>
//	julia_c <x> <y>
//	iterations <n>
package location

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/viewport"
)

var (
	ErrValueCount = errors.New("wrong number of values")
	ErrValue      = errors.New("invalid value")
)

// Location holds the attributes found in a file; nil fields were absent.
type Location struct {
	Position   *types.Pointf64
	Zoom       *float64
	JuliaC     *types.Pointf64
	Iterations *int
}

// Apply copies the present attributes into s. A julia_c attribute switches
// s to Julia mode.
func (loc Location) Apply(s *viewport.State) {
	if loc.Position != nil {
		s.Position = *loc.Position
	}
	if loc.Zoom != nil {
		s.Zoom = *loc.Zoom
	}
	if loc.JuliaC != nil {
		s.JuliaC = *loc.JuliaC
		s.JuliaEnabled = true
	}
	if loc.Iterations != nil {
		s.SetMaxIterations(*loc.Iterations)
	}
}

func Load(path string, log *slog.Logger) (Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return Location{}, err
	}
	defer f.Close()
	loc, err := Parse(f, log)
	if err != nil {
		return loc, fmt.Errorf("%s: %w", path, err)
	}
	return loc, nil
}

// Parse reads attributes until the end of r. Unknown attributes are skipped
// with a warning. A malformed known attribute stops parsing; the attributes
// read before it are returned along with the error.
func Parse(r io.Reader, log *slog.Logger) (Location, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var loc Location
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		key, values := fields[0], fields[1:]
		switch key {
		case "position":
			p, err := point(key, values)
			if err != nil {
				return loc, fmt.Errorf("line %d: %w", lineNo, err)
			}
			loc.Position = &p
		case "julia_c":
			p, err := point(key, values)
			if err != nil {
				return loc, fmt.Errorf("line %d: %w", lineNo, err)
			}
			loc.JuliaC = &p
		case "zoom":
			z, err := floats(key, values, 1)
			if err != nil {
				return loc, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !(z[0] > 0) || math.IsInf(z[0], 0) {
				return loc, fmt.Errorf("line %d: %w: zoom %v is not positive and finite", lineNo, ErrValue, z[0])
			}
			loc.Zoom = &z[0]
		case "iterations":
			if len(values) != 1 {
				return loc, fmt.Errorf("line %d: %w: %s expects 1, got %d", lineNo, ErrValueCount, key, len(values))
			}
			n, err := strconv.Atoi(values[0])
			if err != nil {
				return loc, fmt.Errorf("line %d: %w: %s %q", lineNo, ErrValue, key, values[0])
			}
			loc.Iterations = &n
		default:
			log.Warn("unknown location attribute", "attribute", key, "line", lineNo)
		}
	}
	return loc, sc.Err()
}

func floats(key string, values []string, n int) ([]float64, error) {
	if len(values) != n {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrValueCount, key, n, len(values))
	}
	out := make([]float64, n)
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", ErrValue, key, v)
		}
		out[i] = f
	}
	return out, nil
}

func point(key string, values []string) (types.Pointf64, error) {
	f, err := floats(key, values, 2)
	if err != nil {
		return types.Pointf64{}, err
	}
	return types.Pointf64{X: f[0], Y: f[1]}, nil
}

// Write stores the view of s so that Parse gives back the same numbers.
// julia_c is written only in Julia mode.
func Write(w io.Writer, s viewport.State) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "position %s %s\n", format(s.Position.X), format(s.Position.Y))
	fmt.Fprintf(bw, "zoom %s\n", format(s.Zoom))
	fmt.Fprintf(bw, "iterations %d\n", s.MaxIterations)
	if s.JuliaEnabled {
		fmt.Fprintf(bw, "julia_c %s %s\n", format(s.JuliaC.X), format(s.JuliaC.Y))
	}
	return bw.Flush()
}

// shortest decimal that parses back to exactly v
func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
