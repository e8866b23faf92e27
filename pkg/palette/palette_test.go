package palette

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		s    Surface
		want []uint32
	}{
		{
			name: "grey 1 byte",
			s:    Surface{Width: 2, BytesPerPixel: 1, Pixels: []byte{0, 255}},
			want: []uint32{0xFF000000, 0xFFFFFFFF},
		},
		{
			name: "16 bit raw",
			s:    Surface{Width: 2, BytesPerPixel: 2, Pixels: []byte{0x34, 0x12, 0xff, 0x7f}},
			want: []uint32{0xFF001234, 0xFF007FFF},
		},
		{
			name: "24 bit BGR",
			s: Surface{
				Width: 2, BytesPerPixel: 3,
				Pixels: []byte{0x30, 0x20, 0x10, 0xff, 0x00, 0x00},
				Rmask:  0x00FF0000, Gmask: 0x0000FF00, Bmask: 0x000000FF,
			},
			want: []uint32{0xFF302010, 0xFFFF0000},
		},
		{
			name: "32 bit RGBA low byte red",
			s: Surface{
				Width: 1, BytesPerPixel: 4,
				Pixels: []byte{0x11, 0x22, 0x33, 0x80},
				Rmask:  0x000000FF, Gmask: 0x0000FF00, Bmask: 0x00FF0000, Amask: 0xFF000000,
			},
			want: []uint32{0x80332211},
		},
		{
			name: "32 bit ARGB",
			s: Surface{
				Width: 1, BytesPerPixel: 4,
				Pixels: []byte{0x33, 0x22, 0x11, 0x80},
				Rmask:  0x00FF0000, Gmask: 0x0000FF00, Bmask: 0x000000FF, Amask: 0xFF000000,
			},
			want: []uint32{0x80332211},
		},
		{
			name: "32 bit big endian RGBA",
			s: Surface{
				Width: 1, BytesPerPixel: 4,
				Pixels: []byte{0x80, 0x33, 0x22, 0x11},
				Rmask:  0xFF000000, Gmask: 0x00FF0000, Bmask: 0x0000FF00, Amask: 0x000000FF,
			},
			want: []uint32{0x80332211},
		},
		{
			name: "32 bit without alpha is opaque",
			s: Surface{
				Width: 1, BytesPerPixel: 4,
				Pixels: []byte{0x33, 0x22, 0x11, 0x00},
				Rmask:  0x00FF0000, Gmask: 0x0000FF00, Bmask: 0x000000FF,
			},
			want: []uint32{0xFF332211},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.s)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.Transformer("hex", hex)); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func hex(c []uint32) []string {
	s := make([]string, len(c))
	for i, v := range c {
		s[i] = fmt.Sprintf("%#08x", v)
	}
	return s
}

func TestDecodeTruncatesToMaxColors(t *testing.T) {
	s := Surface{Width: 2000, BytesPerPixel: 1, Pixels: make([]byte, 2000)}
	got, err := Decode(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != MaxColors {
		t.Errorf("len = %d, want %d", len(got), MaxColors)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		s      Surface
		format bool
	}{
		{"unknown masks", Surface{Width: 1, BytesPerPixel: 4, Pixels: make([]byte, 4), Rmask: 0x0000FF00, Gmask: 0x000000FF}, true},
		{"mismatched green", Surface{Width: 1, BytesPerPixel: 3, Pixels: make([]byte, 3), Rmask: 0x000000FF, Gmask: 0x00FF0000}, true},
		{"5 bytes per pixel", Surface{Width: 1, BytesPerPixel: 5, Pixels: make([]byte, 5)}, true},
		{"empty", Surface{Width: 0, BytesPerPixel: 1}, false},
		{"short pixel buffer", Surface{Width: 4, BytesPerPixel: 2, Pixels: make([]byte, 6)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.s)
			if err == nil {
				t.Fatal("Decode() succeeded")
			}
			if got := errors.Is(err, ErrFormat); got != tt.format {
				t.Errorf("errors.Is(%v, ErrFormat) = %v, want %v", err, got, tt.format)
			}
		})
	}
}
