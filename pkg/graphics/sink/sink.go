package sink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// Format is an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
	FormatEPS  Format = "eps"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatSVG, FormatPNG, FormatJPEG, FormatPDF, FormatEPS}
}

// ParseFormat parses a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	case "eps", "ps":
		return FormatEPS, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("no extension in %q", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	case FormatEPS:
		return "application/postscript"
	}
	return "application/octet-stream"
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale float64
}

// WithScale multiplies the output size (default 1).
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r renderer) size(c *graphics.Canvas) (vg.Length, vg.Length) {
	return vg.Length(float64(c.WW) * r.scale), vg.Length(float64(c.WH) * r.scale)
}

type writerCanvas interface {
	vg.CanvasSizer
	io.WriterTo
}

func paintTo(vc vg.CanvasSizer, c *graphics.Canvas, scale float64) error {
	p := newPainter(draw.New(vc), scale)
	p.paintPad(c.Pad)
	return errors.Join(p.errs...)
}

func write(wc writerCanvas, c *graphics.Canvas, scale float64) ([]byte, error) {
	paintErr := paintTo(wc, c, scale)
	var buf bytes.Buffer
	if _, err := wc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), paintErr
}

// RenderSVG renders the canvas as SVG.
func RenderSVG(c *graphics.Canvas, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	w, h := r.size(c)
	return write(vgsvg.New(w, h), c, r.scale)
}

// RenderPDF renders the canvas as PDF.
func RenderPDF(c *graphics.Canvas, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	w, h := r.size(c)
	return write(vgpdf.New(w, h), c, r.scale)
}

// RenderEPS renders the canvas as encapsulated PostScript.
func RenderEPS(c *graphics.Canvas, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	w, h := r.size(c)
	return write(vgeps.New(w, h), c, r.scale)
}

// RenderPNG renders the canvas as PNG.
func RenderPNG(c *graphics.Canvas, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	img := r.raster(c)
	return write(vgimg.PngCanvas{Canvas: img}, c, r.scale)
}

// RenderJPEG renders the canvas as JPEG.
func RenderJPEG(c *graphics.Canvas, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	img := r.raster(c)
	return write(vgimg.JpegCanvas{Canvas: img}, c, r.scale)
}

func (r renderer) raster(c *graphics.Canvas) *vgimg.Canvas {
	w, h := r.size(c)
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(72))
}

// Render renders the canvas in format f.
func Render(c *graphics.Canvas, f Format, opts ...Option) ([]byte, error) {
	switch f {
	case FormatSVG:
		return RenderSVG(c, opts...)
	case FormatPNG:
		return RenderPNG(c, opts...)
	case FormatJPEG:
		return RenderJPEG(c, opts...)
	case FormatPDF:
		return RenderPDF(c, opts...)
	case FormatEPS:
		return RenderEPS(c, opts...)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// SaveAs renders the canvas in the format implied by path and writes it.
// Paint problems are returned after the file has been written.
func SaveAs(c *graphics.Canvas, path string, opts ...Option) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, paintErr := Render(c, f, opts...)
	if data == nil {
		return paintErr
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return paintErr
}
