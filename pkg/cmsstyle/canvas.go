package cmsstyle

import (
	"github.com/google/uuid"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
)

// Range is an axis interval.
type Range struct {
	Min, Max float64
}

type canvasConfig struct {
	square       bool
	iPos         int
	extraSpace   float64
	zAxis        bool
	scaleLumi    float64
	yTitleOffset float64
	hasYOffset   bool
}

// CanvasOption configures MakeCanvas and MakeDiCanvas.
type CanvasOption func(*canvasConfig)

// Square selects a square (default) or a wide canvas.
func Square(square bool) CanvasOption { return func(c *canvasConfig) { c.square = square } }

// IPos sets the branding alignment code. The default is 11.
func IPos(code int) CanvasOption { return func(c *canvasConfig) { c.iPos = code } }

// ExtraSpace widens the left margin by v.
func ExtraSpace(v float64) CanvasOption { return func(c *canvasConfig) { c.extraSpace = v } }

// WithZAxis leaves room on the right for a color axis.
func WithZAxis() CanvasOption { return func(c *canvasConfig) { c.zAxis = true } }

// ScaleLumi scales the luminosity caption.
func ScaleLumi(v float64) CanvasOption { return func(c *canvasConfig) { c.scaleLumi = v } }

// YTitleOffset overrides the y title offset. Offsets above 1.3 also widen
// the left margin so the title stays on the canvas.
func YTitleOffset(v float64) CanvasOption {
	return func(c *canvasConfig) { c.yTitleOffset, c.hasYOffset = v, true }
}

func newCanvasConfig(opts []CanvasOption) canvasConfig {
	cfg := canvasConfig{square: true, iPos: 11, scaleLumi: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// titleOffsetMargin is the extra left margin needed by a y title offset.
func titleOffsetMargin(off float64) float64 {
	switch {
	case off <= 1.3:
		return 0
	case off <= 2.0:
		return 0.05 * (off - 1.3)
	default:
		return 0.035 + 0.08*(off-2.0)
	}
}

func canvasName(name string) string {
	if name == "" {
		return "canvas_" + uuid.NewString()
	}
	return name
}

// MakeCanvas creates a canvas with the CMS margins, an axis frame spanning
// x and y, axis titles and the branding block. The CMS style is applied
// first when none is set. The canvas is returned even when the branding
// reports an error.
func (s *Session) MakeCanvas(name string, x, y Range, xTitle, yTitle string, opts ...CanvasOption) (*graphics.Canvas, error) {
	cfg := newCanvasConfig(opts)
	st := s.styleOrApply()

	wRef, hRef := 600.0, 600.0
	if !cfg.square {
		wRef = 800
	}
	top := 0.07 * hRef
	bottom := 0.125 * hRef
	left := 0.14 * hRef
	right := 0.04 * hRef

	name = canvasName(name)
	c := graphics.NewCanvas(name, name, int(wRef), int(hRef), st)
	c.WX, c.WY = 50, 50
	c.FillColor = 0
	c.BorderMode = 0
	c.FrameBorderMode = 0
	c.FrameFill.FillStyle = 0

	lm := left/wRef + cfg.extraSpace
	rm := right / wRef
	if cfg.zAxis {
		rm = bottom/wRef + 0.03
	}
	yOff := 1.15
	if !cfg.square {
		yOff = 0.78
	}
	if cfg.hasYOffset {
		yOff = cfg.yTitleOffset
		lm += titleOffsetMargin(yOff)
	}
	c.SetMargins(lm, rm, bottom/hRef+0.02, top/hRef)

	f := c.DrawFrame(x.Min, y.Min, x.Max, y.Max)
	f.Y.TitleOffset = yOff
	f.X.TitleOffset = 1.05
	f.X.Title = xTitle
	f.Y.Title = yTitle

	err := s.DrawBranding(c.Pad, cfg.iPos, cfg.scaleLumi)
	UpdatePad(c.Pad)
	c.RedrawAxis()
	s.logger.Debug("created canvas", "name", name, "width", c.WW, "height", c.WH)
	return c, err
}

// CanvasFrame returns the axis frame of a pad created by MakeCanvas, or nil.
func CanvasFrame(pad *graphics.Pad) *graphics.Frame {
	if pad == nil {
		return nil
	}
	f, _ := pad.Primitive("hframe").(*graphics.Frame)
	return f
}

// ResetAxes changes the axis ranges of the frame of pad.
func ResetAxes(pad *graphics.Pad, x, y Range) error {
	f := CanvasFrame(pad)
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "pad has no axis frame")
	}
	f.X.SetRange(x.Min, x.Max)
	f.Y.SetRange(y.Min, y.Max)
	pad.Modified()
	return nil
}

// UpdatePad redraws the axes of pad and refreshes it.
func UpdatePad(pad *graphics.Pad) {
	if pad == nil {
		return
	}
	pad.RedrawAxis()
	pad.Modified()
	pad.Update()
}

// SaveCanvas updates c, writes it to path in the format given by the file
// extension and, if close is set, closes it.
func (s *Session) SaveCanvas(c *graphics.Canvas, path string, close bool, opts ...sink.Option) error {
	if c == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil canvas")
	}
	UpdatePad(c.Pad)
	err := sink.SaveAs(c, path, opts...)
	if err != nil {
		s.logger.Error("cannot save canvas", "canvas", c.Name(), "path", path, "err", err)
	} else {
		s.logger.Info("saved canvas", "canvas", c.Name(), "path", path)
	}
	if close {
		c.Close()
	}
	return err
}
