// Package assets loads textures, shader overrides and config files from disk.
package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	"github.com/hubastard/scrawl/engine/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// LoadImage decodes a PNG, JPEG, BMP or TIFF file and returns tightly packed
// RGBA8 pixels, flipped so the bottom row comes first as GL expects.
func LoadImage(fsys fs.FS, name string) (w, h int, rgba []byte, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", name, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode %q: %w", name, err)
	}

	rgbaImg := imageToRGBA(img)
	w, h = rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	// Repack in tight rows (stride == 4*w), last image row first.
	out := make([]byte, w*h*4)
	src := rgbaImg.Pix
	srcStride := rgbaImg.Stride
	for y := 0; y < h; y++ {
		dst := (h - 1 - y) * w * 4
		copy(out[dst:dst+w*4], src[y*srcStride:y*srcStride+w*4])
	}

	core.Logger().Debug("assets: image loaded", "name", name, "format", format, "width", w, "height", h)
	return w, h, out, nil
}

// LoadTexture loads name and uploads it with linear filtering and
// repeat wrapping.
func LoadTexture(dev core.Device, fsys fs.FS, name string) (core.Texture, error) {
	w, h, pix, err := LoadImage(fsys, name)
	if err != nil {
		return nil, err
	}
	t, err := dev.CreateTexture(core.TextureDesc{
		Width: w, Height: h,
		Format:    core.TextureRGBA8,
		Pixels:    pix,
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "repeat", WrapV: "repeat",
	})
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", name, err)
	}
	return t, nil
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
