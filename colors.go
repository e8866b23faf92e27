package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/palette"
)

// loadColors reads the color map from the first row of a BMP file.
func loadColors(path string) ([]uint32, error) {
	surface, err := sdl.LoadBMP(path)
	if err != nil {
		return nil, fmt.Errorf("loading colors: %w", err)
	}
	defer surface.Free()

	if err := surface.Lock(); err != nil {
		return nil, fmt.Errorf("loading colors: %w", err)
	}
	defer surface.Unlock()

	f := surface.Format
	colors, err := palette.Decode(palette.Surface{
		Width:         int(surface.W),
		BytesPerPixel: int(f.BytesPerPixel),
		Pixels:        surface.Pixels(),
		Rmask:         f.Rmask,
		Gmask:         f.Gmask,
		Bmask:         f.Bmask,
		Amask:         f.Amask,
	})
	if err != nil {
		return nil, fmt.Errorf("loading colors from %s: %w", path, err)
	}
	return colors, nil
}
