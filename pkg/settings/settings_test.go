package settings

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Settings
	}{
		{"defaults", nil, Defaults()},
		{
			"everything",
			[]string{
				"--fullscreen", "--framerate", "30", "--multisamples", "4",
				"--max_iterations", "512", "--double_precision", "--colors", "pal.bmp",
				"--julia", "--nearest", "--location", "loc.txt",
			},
			Settings{
				Fullscreen: true, FPS: 30, Multisamples: 4, MaxIterations: 512,
				Precision: types.PrecisionExtended, ColorsPath: "pal.bmp",
				Julia: true, Nearest: true, LocationPath: "loc.txt",
			},
		},
		{
			"clamped",
			[]string{"--framerate", "0", "--max_iterations", "-5", "--multisamples", "-2"},
			Settings{FPS: 1, MaxIterations: 1},
		},
		{"later wins", []string{"--framerate", "10", "--framerate", "20"}, Settings{FPS: 20, MaxIterations: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Parse(tt.args, &out)
			if err != nil {
				t.Fatalf("Parse() = %v\n%s", err, out.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown flag", []string{"--bogus"}, "flag provided but not defined"},
		{"missing value", []string{"--julia", "--framerate"}, "flag needs an argument"},
		{"not a number", []string{"--max_iterations", "lots"}, "invalid value"},
		{"positional", []string{"--julia", "extra"}, "unexpected argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Parse(tt.args, &out)
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("Parse() error = %v, want ErrUsage", err)
			}
			if got != (Settings{}) {
				t.Errorf("Parse() returned partial settings %+v", got)
			}
			if !strings.Contains(out.String(), tt.msg) || !strings.Contains(out.String(), "Usage:") {
				t.Errorf("output does not report %q with usage:\n%s", tt.msg, out.String())
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		var out bytes.Buffer
		_, err := Parse([]string{arg}, &out)
		if !errors.Is(err, ErrHelp) {
			t.Errorf("Parse(%s) = %v, want ErrHelp", arg, err)
		}
		if !strings.Contains(out.String(), "Controls:") {
			t.Errorf("help text for %s lacks the controls section", arg)
		}
	}
}

func TestLoadPrependsSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("--framerate 30\n--julia\n  --max_iterations 64"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	got, err := Load(path, []string{"--max_iterations", "256"}, &out)
	if err != nil {
		t.Fatalf("Load() = %v\n%s", err, out.String())
	}
	want := Settings{FPS: 30, Julia: true, MaxIterations: 256}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var out bytes.Buffer
	got, err := Load(filepath.Join(t.TempDir(), "nope.txt"), []string{"--nearest"}, &out)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !got.Nearest {
		t.Error("command line ignored when the settings file is missing")
	}
}

func TestLoadBadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("--unknown"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := Load(path, nil, &out); !errors.Is(err, ErrUsage) {
		t.Errorf("Load() = %v, want ErrUsage", err)
	}
}
