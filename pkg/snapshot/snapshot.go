// Package snapshot saves rendered frames as BMP images next to a location
// file describing the view they show.
package snapshot

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/bmp"

	"github.com/joshvictor1024/gl-mandelbrot/pkg/location"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/types"
	"github.com/joshvictor1024/gl-mandelbrot/pkg/viewport"
)

const DefaultPath = "mandelbrot.bmp"

// Frame is a copy of the framebuffer and the view it was rendered from.
// Pixels are RGBA rows, bottom row first, as the GPU reads them.
type Frame struct {
	Pixels []byte
	Width  int
	Height int
	View   viewport.State
}

// Image returns the frame with rows flipped to top-down order.
func (f Frame) Image() (*image.RGBA, error) {
	stride := f.Width * 4
	if f.Width <= 0 || f.Height <= 0 || len(f.Pixels) < stride*f.Height {
		return nil, fmt.Errorf("snapshot: %d bytes for a %dx%d frame", len(f.Pixels), f.Width, f.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.Pixels[(f.Height-1-y)*stride : (f.Height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// LocationPath is the file holding the view of the image at path.
func LocationPath(path string) string {
	return path + ".txt"
}

// Save writes the image to path and the view to LocationPath(path).
func Save(path string, f Frame) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := writeFile(path, func(file *os.File) error { return bmp.Encode(file, img) }); err != nil {
		return err
	}
	return writeFile(LocationPath(path), func(file *os.File) error { return location.Write(file, f.View) })
}

func writeFile(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// Writer saves frames on a background goroutine so the render loop never
// waits on the disk. Frames are written in the order they were queued.
type Writer struct {
	path string
	log  *slog.Logger
	q    *types.ControlledQueue[Frame]
	wg   sync.WaitGroup
}

func NewWriter(path string, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := &Writer{
		path: path,
		log:  log,
		q:    types.NewControlledQueue[Frame](),
	}
	w.wg.Add(1)
	go w.work()
	return w
}

func (w *Writer) work() {
	defer w.wg.Done()
	for {
		f, ok := w.q.Recv()
		if !ok {
			return
		}
		if err := Save(w.path, f); err != nil {
			w.log.Error("saving snapshot", "path", w.path, "err", err)
			continue
		}
		w.log.Info("saved snapshot", "path", w.path, "location", LocationPath(w.path),
			"width", f.Width, "height", f.Height)
	}
}

// Snapshot queues f. The frame must not be modified afterwards.
func (w *Writer) Snapshot(f Frame) error {
	if !w.q.Send(f) {
		return fmt.Errorf("snapshot: writer closed")
	}
	return nil
}

// Close waits for queued frames to be written.
func (w *Writer) Close() {
	w.q.Close()
	w.wg.Wait()
}
