package cmsstyle

import (
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// Reference layout of a canvas with a ratio pad.
const (
	diRatioFraction = 1.0 / 3.0
	diMiddleMargin  = 0.03
	diTopMargin     = 0.07
	diBottomMargin  = 0.13
	diUpperBottom   = 0.022
)

// MakeDiCanvas creates a canvas split into an upper pad for the main plot
// and a lower pad for a ratio. The pads are named name+"_1" and name+"_2"
// and share the x range. The branding is drawn on the upper pad; a logo
// cannot be used there because the upper pad is not a canvas.
func (s *Session) MakeDiCanvas(name string, x, y, ratio Range, xTitle, yTitle, ratioTitle string, opts ...CanvasOption) (*graphics.Canvas, error) {
	cfg := newCanvasConfig(opts)
	st := s.styleOrApply()

	wRef, hRef := 700.0, 600.0
	left := 0.15
	if !cfg.square {
		wRef, hRef = 800, 500
		left = 0.12
	}
	const right = 0.05

	h := float64(int(hRef * (1 + (1-diTopMargin-diBottomMargin)*diRatioFraction + diMiddleMargin)))
	hUp := hRef * (1 - diBottomMargin)
	hDw := h - hUp
	tUp := diTopMargin * hRef / hUp
	tDw := diMiddleMargin * hRef / hDw
	bDw := diBottomMargin * hRef / hDw

	name = canvasName(name)
	c := graphics.NewCanvas(name, name, int(wRef), int(h), st)
	c.WX, c.WY = 50, 50
	c.FillColor = 0
	c.BorderMode = 0
	c.FrameBorderMode = 0
	c.FrameFill.FillStyle = 0
	c.FrameLine.LineColor = 0
	c.FrameLine.LineWidth = 0

	up := c.NewSubPad(name+"_1", 0, hDw/h, 1, 1)
	up.SetMargins(left, right, diUpperBottom, tUp)

	fUp := up.DrawFrame(x.Min, y.Min, x.Max, y.Max)
	yUp := 1.1
	if !cfg.square {
		yUp = 0.9
	}
	fUp.Y.TitleOffset = cfg.extraSpace + yUp*hUp/hRef
	fUp.X.TitleOffset = 999
	fUp.X.LabelOffset = 999
	fUp.Y.TitleSize *= hRef / hUp
	fUp.Y.LabelSize *= hRef / hUp
	fUp.Y.Title = yTitle

	err := s.DrawBranding(up, cfg.iPos, cfg.scaleLumi)

	dw := c.NewSubPad(name+"_2", 0, 0, 1, hDw/h)
	dw.SetMargins(left, right, bDw, tDw)

	fDw := dw.DrawFrame(x.Min, ratio.Min, x.Max, ratio.Max)
	yDw := 1.0
	if !cfg.square {
		yDw = 0.8
	}
	fDw.Y.TitleOffset = cfg.extraSpace + yDw*hDw/hRef
	fDw.X.TitleOffset = 0.9
	fDw.Y.TitleSize *= hRef / hDw
	fDw.Y.LabelSize *= hRef / hDw
	fDw.X.TitleSize *= hRef / hDw
	fDw.X.LabelSize *= hRef / hDw
	fDw.X.LabelOffset *= hRef / hDw
	fDw.X.Title = xTitle
	fDw.Y.Title = ratioTitle
	fDw.Y.TickLength *= hRef / hUp
	fDw.X.TickLength *= hRef / hDw
	fDw.Y.NDivisions = 505

	UpdatePad(up)
	up.RedrawAxis()
	return c, err
}

// DiPads returns the upper and lower pads of a canvas made by MakeDiCanvas.
func DiPads(c *graphics.Canvas) (upper, lower *graphics.Pad, err error) {
	if c == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "nil canvas")
	}
	for _, p := range c.SubPads() {
		switch p.Name() {
		case c.Name() + "_1":
			upper = p
		case c.Name() + "_2":
			lower = p
		}
	}
	if upper == nil || lower == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "canvas %q has no ratio pads", c.Name())
	}
	return upper, lower, nil
}
