package graphics

import (
	"strings"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
)

// Primitive is an object drawn on a pad together with its draw option.
type Primitive struct {
	Object Object
	Option string
}

// Pad is a drawable area with margins and a list of primitives.
type Pad struct {
	name string

	parent *Pad
	canvas *Canvas
	style  *Style

	// Extent in NDC of the parent pad.
	XLow, YLow, XUp, YUp float64

	LeftMargin, RightMargin, TopMargin, BottomMargin float64

	FillAttr
	BorderMode      int
	FrameBorderMode int
	FrameLine       LineAttr
	FrameFill       FillAttr

	GridX, GridY bool
	TickX, TickY int
	LogX, LogY   bool

	prims      []Primitive
	modified   bool
	updates    int
	axisRedraw int
}

func newPad(name string, parent *Pad, canvas *Canvas, style *Style) *Pad {
	p := &Pad{
		name:   name,
		parent: parent,
		canvas: canvas,
		style:  style,
		XUp:    1,
		YUp:    1,
	}
	p.applyStyle(style)
	return p
}

func (p *Pad) applyStyle(s *Style) {
	if s == nil {
		p.LeftMargin, p.RightMargin, p.TopMargin, p.BottomMargin = 0.1, 0.1, 0.1, 0.1
		p.FillAttr = FillAttr{FillColor: colors.White, FillStyle: 1001, FillAlpha: -1}
		p.FrameBorderMode = 1
		p.FrameLine = defaultLine()
		p.FrameFill = defaultFill()
		return
	}
	p.LeftMargin = s.PadLeftMargin
	p.RightMargin = s.PadRightMargin
	p.TopMargin = s.PadTopMargin
	p.BottomMargin = s.PadBottomMargin
	p.FillAttr = FillAttr{FillColor: s.PadColor, FillStyle: 1001, FillAlpha: -1}
	p.BorderMode = s.PadBorderMode
	p.FrameBorderMode = s.FrameBorderMode
	p.FrameLine = LineAttr{LineColor: s.FrameLineColor, LineStyle: s.FrameLineStyle, LineWidth: s.FrameLineWidth}
	p.FrameFill = FillAttr{FillColor: s.FrameFillColor, FillStyle: s.FrameFillStyle, FillAlpha: -1}
	p.GridX, p.GridY = s.PadGridX, s.PadGridY
	p.TickX, p.TickY = s.PadTickX, s.PadTickY
	p.LogX, p.LogY = s.OptLogX, s.OptLogY
}

// Name returns the pad name.
func (p *Pad) Name() string { return p.name }

// Parent returns the enclosing pad, or nil for a canvas.
func (p *Pad) Parent() *Pad { return p.parent }

// Canvas returns the canvas the pad belongs to.
func (p *Pad) Canvas() *Canvas { return p.canvas }

// IsCanvas reports whether p is the root pad of a canvas.
func (p *Pad) IsCanvas() bool { return p.parent == nil && p.canvas != nil }

// Style returns the style the pad was created with. It may be nil.
func (p *Pad) Style() *Style { return p.style }

// SetMargins sets all four margins.
func (p *Pad) SetMargins(left, right, bottom, top float64) {
	p.LeftMargin, p.RightMargin, p.BottomMargin, p.TopMargin = left, right, bottom, top
}

// SetPad sets the pad extent in NDC of its parent.
func (p *Pad) SetPad(xlow, ylow, xup, yup float64) {
	p.XLow, p.YLow, p.XUp, p.YUp = xlow, ylow, xup, yup
}

// WNDC returns the pad width as a fraction of the canvas width.
func (p *Pad) WNDC() float64 {
	w := p.XUp - p.XLow
	if p.parent != nil {
		w *= p.parent.WNDC()
	}
	return w
}

// HNDC returns the pad height as a fraction of the canvas height.
func (p *Pad) HNDC() float64 {
	h := p.YUp - p.YLow
	if p.parent != nil {
		h *= p.parent.HNDC()
	}
	return h
}

// AbsXLowNDC returns the left edge of the pad in canvas NDC.
func (p *Pad) AbsXLowNDC() float64 {
	if p.parent == nil {
		return p.XLow
	}
	return p.parent.AbsXLowNDC() + p.XLow*p.parent.WNDC()
}

// AbsYLowNDC returns the bottom edge of the pad in canvas NDC.
func (p *Pad) AbsYLowNDC() float64 {
	if p.parent == nil {
		return p.YLow
	}
	return p.parent.AbsYLowNDC() + p.YLow*p.parent.HNDC()
}

// WindowWidth returns the canvas window width in pixels.
func (p *Pad) WindowWidth() int {
	if p.canvas == nil {
		return 0
	}
	return p.canvas.WW
}

// WindowHeight returns the canvas window height in pixels.
func (p *Pad) WindowHeight() int {
	if p.canvas == nil {
		return 0
	}
	return p.canvas.WH
}

// PixelWidth returns the pad width in pixels.
func (p *Pad) PixelWidth() float64 { return float64(p.WindowWidth()) * p.WNDC() }

// PixelHeight returns the pad height in pixels.
func (p *Pad) PixelHeight() float64 { return float64(p.WindowHeight()) * p.HNDC() }

// Draw appends obj to the pad's primitives.
func (p *Pad) Draw(obj Object, option string) {
	if obj == nil {
		return
	}
	if f, ok := obj.(*Frame); ok && p.style != nil && p.style.Force {
		f.UseStyle(p.style)
	}
	p.prims = append(p.prims, Primitive{Object: obj, Option: option})
	p.modified = true
}

// DrawFrame draws an axis frame spanning the given world coordinates and
// returns it. The frame is named "hframe".
func (p *Pad) DrawFrame(xmin, ymin, xmax, ymax float64) *Frame {
	f := NewFrame("hframe", xmin, xmax, ymin, ymax, p.style)
	f.LineAttr = p.FrameLine
	f.FillAttr = p.FrameFill
	p.Draw(f, "AXIS")
	return f
}

// Frame returns the last frame drawn on the pad, or nil.
func (p *Pad) Frame() *Frame {
	for i := len(p.prims) - 1; i >= 0; i-- {
		if f, ok := p.prims[i].Object.(*Frame); ok {
			return f
		}
	}
	return nil
}

// Primitives returns the pad's primitives in drawing order.
func (p *Pad) Primitives() []Primitive {
	return append([]Primitive(nil), p.prims...)
}

// Primitive returns the first primitive with the given name, or nil.
func (p *Pad) Primitive(name string) Object {
	for _, pr := range p.prims {
		if pr.Object.Name() == name {
			return pr.Object
		}
	}
	return nil
}

// Remove drops every primitive that is obj.
func (p *Pad) Remove(obj Object) {
	out := p.prims[:0]
	for _, pr := range p.prims {
		if pr.Object != obj {
			out = append(out, pr)
		}
	}
	p.prims = out
	p.modified = true
}

// Clear removes all primitives.
func (p *Pad) Clear() {
	p.prims = nil
	p.modified = true
}

// NewSubPad creates a pad inside p spanning the given NDC extent and draws it.
func (p *Pad) NewSubPad(name string, xlow, ylow, xup, yup float64) *Pad {
	sub := newPad(name, p, p.canvas, p.style)
	sub.SetPad(xlow, ylow, xup, yup)
	p.Draw(sub, "")
	return sub
}

// SubPads returns the pads drawn directly on p.
func (p *Pad) SubPads() []*Pad {
	var out []*Pad
	for _, pr := range p.prims {
		if sp, ok := pr.Object.(*Pad); ok {
			out = append(out, sp)
		}
	}
	return out
}

// Modified marks the pad as needing a repaint.
func (p *Pad) Modified() { p.modified = true }

// IsModified reports whether the pad changed since the last update.
func (p *Pad) IsModified() bool { return p.modified }

// Updates returns how many times the pad has been updated.
func (p *Pad) Updates() int { return p.updates }

// RedrawAxis requests the frame axes to be painted above the primitives.
func (p *Pad) RedrawAxis() {
	p.axisRedraw++
	p.modified = true
}

// AxisRedrawn reports whether RedrawAxis was called.
func (p *Pad) AxisRedrawn() bool { return p.axisRedraw > 0 }

// Update refreshes the pad and its sub-pads. When the pad style asks for
// statistics, a stats box named "stats" is attached to the first histogram
// drawn without "SAME", or with "SAMES".
func (p *Pad) Update() {
	for _, sp := range p.SubPads() {
		sp.Update()
	}
	p.attachStats()
	p.modified = false
	p.updates++
}

func (p *Pad) attachStats() {
	if p.style == nil || p.style.OptStat == 0 || p.Primitive("stats") != nil {
		return
	}
	for _, pr := range p.prims {
		h, ok := pr.Object.(*H1)
		opt := strings.ToUpper(pr.Option)
		if !ok || (strings.Contains(opt, "SAME") && !strings.Contains(opt, "SAMES")) {
			continue
		}
		p.prims = append(p.prims, Primitive{Object: NewStats(h, p.style), Option: ""})
		return
	}
}

// Canvas is a root pad with a window size in pixels.
type Canvas struct {
	*Pad
	Title  string
	WW, WH int
	WX, WY int

	closed bool
}

// NewCanvas creates a canvas of w×h pixels using style s, which may be nil.
func NewCanvas(name, title string, w, h int, s *Style) *Canvas {
	c := &Canvas{Title: title, WW: w, WH: h}
	c.Pad = newPad(name, nil, c, s)
	if s != nil {
		c.BorderMode = s.CanvasBorderMode
		c.FillColor = s.CanvasColor
		c.WX, c.WY = s.CanvasDefX, s.CanvasDefY
	}
	return c
}

// Close releases the canvas. Closed canvases keep their primitives.
func (c *Canvas) Close() { c.closed = true }

// Closed reports whether Close was called.
func (c *Canvas) Closed() bool { return c.closed }
