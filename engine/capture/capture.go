// Package capture renders one frame into an off-screen target larger than
// the window, reads it back and saves it as an image.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hubastard/scrawl/engine/core"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	ErrNoTarget      = errors.New("capture: no capture in progress")
	ErrBusy          = errors.New("capture: a capture is already in progress")
	ErrUnknownFormat = errors.New("capture: unknown image format")
)

// Encoder writes img to w in one image format.
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	"png":  png.Encode,
	"bmp":  bmp.Encode,
	"tiff": encodeTIFF,
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// timestamp matches name.yyyyMMdd.HHmmss.ffff.ext
const timestamp = "20060102.150405.0000"

// Pipeline owns at most one capture target at a time. Requests made while a
// capture is pending or running are coalesced into it.
type Pipeline struct {
	dev core.Device
	cfg core.CaptureConfig
	enc Encoder

	// Now is the clock used for file names.
	Now func() time.Time

	pending bool
	active  bool
	target  core.TargetID
	w, h    int
	winW    int
	winH    int
}

func New(dev core.Device, cfg core.CaptureConfig) (*Pipeline, error) {
	format := strings.ToLower(cfg.Format)
	enc, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, cfg.Format)
	}
	cfg.Format = format
	return &Pipeline{dev: dev, cfg: cfg, enc: enc, Now: time.Now}, nil
}

func (p *Pipeline) Config() core.CaptureConfig { return p.cfg }

// Request asks for the next frame to be captured.
func (p *Pipeline) Request() {
	if p.pending || p.active {
		core.Logger().Debug("capture: request coalesced")
		return
	}
	p.pending = true
}

func (p *Pipeline) Pending() bool { return p.pending }
func (p *Pipeline) Active() bool  { return p.active }

// Size is the size of the current capture target, or 0x0.
func (p *Pipeline) Size() (w, h int) { return p.w, p.h }

// Begin creates the capture target for a window of winW x winH, binds it and
// sets the viewport. Render the frame between Begin and End.
func (p *Pipeline) Begin(winW, winH int) error {
	if p.active {
		return ErrBusy
	}
	w, h := TargetSize(winW, winH, p.cfg.Scale, p.dev.MaxTextureSize(), p.cfg.MaxWidth, p.cfg.MaxHeight)
	target, err := p.dev.CreateRenderTarget(w, h)
	if err != nil {
		p.pending = false
		return fmt.Errorf("capture: create %dx%d target: %w", w, h, err)
	}
	p.target, p.w, p.h = target, w, h
	p.winW, p.winH = winW, winH
	p.active = true

	p.dev.BindRenderTarget(target)
	p.dev.Viewport(0, 0, w, h)
	core.Logger().Debug("capture: begin", "window", fmt.Sprintf("%dx%d", winW, winH), "target", fmt.Sprintf("%dx%d", w, h))
	return nil
}

// End reads the rendered frame back, restores the window target and saves
// the image. It returns the saved file path.
func (p *Pipeline) End() (string, error) {
	img, err := p.finish()
	if err != nil {
		return "", err
	}
	return p.save(img)
}

// Capture runs one capture synchronously around render.
func (p *Pipeline) Capture(winW, winH int, render func()) (*image.RGBA, string, error) {
	if err := p.Begin(winW, winH); err != nil {
		return nil, "", err
	}
	render()
	img, err := p.finish()
	if err != nil {
		return nil, "", err
	}
	path, err := p.save(img)
	return img, path, err
}

// Abort drops the capture target without reading it back.
func (p *Pipeline) Abort() {
	p.pending = false
	if p.active {
		p.teardown()
	}
}

func (p *Pipeline) finish() (*image.RGBA, error) {
	if !p.active {
		return nil, ErrNoTarget
	}
	defer p.teardown()

	p.dev.Flush()
	img := image.NewRGBA(image.Rect(0, 0, p.w, p.h))
	if err := p.dev.ReadPixels(p.w, p.h, img.Stride, img.Pix); err != nil {
		return nil, fmt.Errorf("capture: read %dx%d pixels: %w", p.w, p.h, err)
	}
	flipRows(img.Pix, img.Stride, p.h)
	return img, nil
}

func (p *Pipeline) teardown() {
	p.dev.BindRenderTarget(core.DefaultTarget)
	p.dev.Viewport(0, 0, p.winW, p.winH)
	p.dev.DeleteRenderTarget(p.target)
	p.pending, p.active = false, false
	p.target, p.w, p.h = 0, 0, 0
}

// flipRows turns bottom-up read-back rows into top-down image rows.
func flipRows(pix []byte, stride, h int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// FileName is the name a capture taken at t is saved under.
func (p *Pipeline) FileName(t time.Time) string {
	return p.cfg.Name + "." + t.Format(timestamp) + "." + p.cfg.Format
}

func (p *Pipeline) save(img image.Image) (string, error) {
	if err := os.MkdirAll(p.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("capture: create %q: %w", p.cfg.Dir, err)
	}
	path := filepath.Join(p.cfg.Dir, p.FileName(p.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	if err := p.enc(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("capture: encode %s: %w", p.cfg.Format, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	b := img.Bounds()
	core.Logger().Info("capture: saved", "path", path, "width", b.Dx(), "height", b.Dy())
	return path, nil
}
