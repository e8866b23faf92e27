// Package palette turns the first row of an image into the color map the
// fractal shader indexes by escape time.
package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxColors is the longest palette uploaded to the GPU.
const MaxColors = 1024

var ErrFormat = errors.New("unrecognized pixel format")

// Default fades from black to white.
var Default = []uint32{0xFF000000, 0xFFFFFFFF}

// Surface is a decoded image as the window system hands it over. Only
// the first row is read. Multi-byte pixels are little endian; the masks
// locate the channels inside the pixel value for 3 and 4 byte formats.
type Surface struct {
	Width         int
	BytesPerPixel int
	Pixels        []byte

	Rmask uint32
	Gmask uint32
	Bmask uint32
	Amask uint32
}

// Decode returns up to MaxColors colors packed as R | G<<8 | B<<16 | A<<24,
// the byte order of an RGBA texture upload.
func Decode(s Surface) ([]uint32, error) {
	n := min(s.Width, MaxColors)
	if n <= 0 {
		return nil, fmt.Errorf("palette: image has no pixels")
	}
	if len(s.Pixels) < n*s.BytesPerPixel {
		return nil, fmt.Errorf("palette: %d bytes for %d pixels of %d bytes", len(s.Pixels), n, s.BytesPerPixel)
	}

	colors := make([]uint32, n)
	switch s.BytesPerPixel {
	case 1:
		for i := range colors {
			v := uint32(s.Pixels[i])
			colors[i] = 0xFF000000 | v<<16 | v<<8 | v
		}
	case 2:
		for i := range colors {
			colors[i] = 0xFF000000 | uint32(binary.LittleEndian.Uint16(s.Pixels[2*i:]))
		}
	case 3, 4:
		l, err := s.layout()
		if err != nil {
			return nil, err
		}
		bpp := s.BytesPerPixel
		for i := range colors {
			var buf [4]byte
			copy(buf[:], s.Pixels[i*bpp:i*bpp+bpp])
			colors[i] = l.pack(binary.LittleEndian.Uint32(buf[:]))
		}
	default:
		return nil, fmt.Errorf("palette: %w: %d bytes per pixel", ErrFormat, s.BytesPerPixel)
	}
	return colors, nil
}

type layout struct {
	r, g, b, a             uint32
	rPos, gPos, bPos, aPos uint
}

// layout accepts the three channel orders image loaders produce: RGBA
// (R in the low byte), ARGB/BGR (R at bit 16) and the byte swapped
// big endian RGBA (R in the high byte).
func (s Surface) layout() (layout, error) {
	l := layout{r: s.Rmask, g: s.Gmask, b: s.Bmask, a: s.Amask}
	switch {
	case s.Rmask == 0x000000FF && s.Gmask == 0x0000FF00:
		l.rPos, l.gPos, l.bPos, l.aPos = 0, 8, 16, 24
	case s.Rmask == 0x00FF0000 && s.Gmask == 0x0000FF00:
		l.rPos, l.gPos, l.bPos, l.aPos = 16, 8, 0, 24
	case s.Rmask == 0xFF000000 && s.Gmask == 0x00FF0000:
		l.rPos, l.gPos, l.bPos, l.aPos = 24, 16, 8, 0
	default:
		return l, fmt.Errorf("palette: %w: masks R=%#08x G=%#08x B=%#08x",
			ErrFormat, s.Rmask, s.Gmask, s.Bmask)
	}
	return l, nil
}

func (l layout) pack(px uint32) uint32 {
	c := (px&l.r)>>l.rPos |
		((px&l.g)>>l.gPos)<<8 |
		((px&l.b)>>l.bPos)<<16
	if l.a == 0 {
		return c | 0xFF000000
	}
	return c | ((px&l.a)>>l.aPos)<<24
}
