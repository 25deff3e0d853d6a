package cmsstyle

import (
	"fmt"
	"math"
	"strings"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
)

// Margins of the pads of a subplot grid.
const (
	gridHorizontalMargin = 0.2
	gridVerticalMargin   = 0.4
	gridEpsilonHeight    = 0.07
	gridEpsilonWidth     = 0.01
)

// PadRect is the NDC extent of a pad.
type PadRect struct {
	XLow, YLow, XUp, YUp float64
}

// SubplotLayout is the result of SubplotCoordinates.
type SubplotLayout struct {
	// Pads are ordered left to right, top to bottom.
	Pads        []PadRect
	Top, Bottom *PadRect
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

func round5(v float64) float64 { return math.Abs(math.Round(v*1e5) / 1e5) }

// SubplotCoordinates splits the canvas into a grid of ncols×nrows pads.
// heights and widths weigh the rows and columns (nil means equal). A
// non-zero topMargin or bottomMargin reserves a full-width band at the top
// or bottom of the canvas, returned as Top and Bottom.
func SubplotCoordinates(ncols, nrows int, heights, widths []float64, topMargin, bottomMargin float64) (SubplotLayout, error) {
	if ncols < 1 || nrows < 1 {
		return SubplotLayout{}, errors.New(errors.ErrCodeInvalidInput, "grid must have at least one row and one column")
	}
	if heights == nil {
		heights = uniform(nrows)
	}
	if widths == nil {
		widths = uniform(ncols)
	}
	if len(heights) != nrows {
		return SubplotLayout{}, errors.New(errors.ErrCodeInvalidInput,
			"height ratios (%d) must match the number of rows (%d)", len(heights), nrows)
	}
	if len(widths) != ncols {
		return SubplotLayout{}, errors.New(errors.ErrCodeInvalidInput,
			"width ratios (%d) must match the number of columns (%d)", len(widths), ncols)
	}

	var out SubplotLayout
	if topMargin != 0 {
		out.Top = &PadRect{0, 1 - topMargin, 1, 1}
	}
	if bottomMargin != 0 {
		out.Bottom = &PadRect{0, 0, 1, bottomMargin}
	}

	sh, sw := sum(heights), sum(widths)
	avail := 1 - topMargin - bottomMargin
	yup := 1 - topMargin
	for _, hr := range heights {
		h := hr / sh * avail
		xlow := 0.0
		for _, wr := range widths {
			w := wr / sw
			out.Pads = append(out.Pads, PadRect{
				XLow: round5(xlow),
				YLow: round5(yup - h),
				XUp:  round5(xlow + w),
				YUp:  round5(yup),
			})
			xlow += w
		}
		yup -= h
	}
	return out, nil
}

// SubplotOptions configures Subplots.
type SubplotOptions struct {
	Columns, Rows int
	HeightRatios  []float64
	WidthRatios   []float64
	TopMargin     float64
	BottomMargin  float64
	// SharedX labels the x axis of the bottom row only, SharedY the y axis
	// of the first column only. Unshared axes are labelled on every pad.
	SharedX, SharedY bool
	Width, Height    int
	// Absolute sizes in pixels of axis titles and labels.
	AxisTitleSize float64
	AxisLabelSize float64
	// XRange is the x range of every frame; YRanges gives the y range per
	// row and is cycled when shorter.
	XRange  Range
	YRanges []Range
}

func (o SubplotOptions) withDefaults() SubplotOptions {
	if o.Width == 0 {
		o.Width = 2000
	}
	if o.Height == 0 {
		o.Height = 2000
	}
	if o.AxisTitleSize == 0 {
		o.AxisTitleSize = 50
	}
	if o.AxisLabelSize == 0 {
		o.AxisLabelSize = 50 * 0.8
	}
	if o.XRange == (Range{}) {
		o.XRange = Range{0, 1}
	}
	if len(o.YRanges) == 0 {
		o.YRanges = []Range{{0, 1}}
	}
	if o.HeightRatios == nil && o.Rows > 0 {
		o.HeightRatios = uniform(o.Rows)
	}
	return o
}

// GridMetadata describes the grid of a CanvasManager.
type GridMetadata struct {
	Columns, Rows    int
	HorizontalMargin float64
	VerticalMargin   float64
}

// ManagedPad is a pad of a CanvasManager. Objects plotted on a pad with a
// frame are drawn on top of it.
type ManagedPad struct {
	*graphics.Pad
	hasFrame  bool
	drawables []graphics.Object
}

// Plot applies props to obj and draws it on the pad.
func (p *ManagedPad) Plot(obj graphics.Object, opt string, props Properties) Result {
	if p.hasFrame && !strings.Contains(strings.ToLower(opt), "same") {
		opt += " SAME"
	}
	r := ApplyProperties(obj, props)
	p.Draw(obj, opt)
	p.drawables = append(p.drawables, obj)
	return r
}

// Drawables returns the objects plotted through Plot.
func (p *ManagedPad) Drawables() []graphics.Object {
	return append([]graphics.Object(nil), p.drawables...)
}

// CanvasManager manages a canvas split into subplots.
type CanvasManager struct {
	session *Session
	canvas  *graphics.Canvas
	pads    []*ManagedPad
	frames  []*graphics.Frame
	top     *ManagedPad
	bottom  *ManagedPad
	grid    GridMetadata
}

// Subplots creates a canvas holding a grid of pads with one axis frame
// each, plus the optional top and bottom bands.
func (s *Session) Subplots(o SubplotOptions) (*CanvasManager, error) {
	o = o.withDefaults()
	layout, err := SubplotCoordinates(o.Columns, o.Rows, o.HeightRatios, o.WidthRatios, o.TopMargin, o.BottomMargin)
	if err != nil {
		s.logger.Error("invalid subplot grid", "err", err)
		return nil, err
	}
	st := s.styleOrApply()
	c := graphics.NewCanvas("CMS_canvas", "CMS_canvas", o.Width, o.Height, st)

	m := &CanvasManager{
		session: s,
		canvas:  c,
		grid: GridMetadata{
			Columns:          o.Columns,
			Rows:             o.Rows,
			HorizontalMargin: gridHorizontalMargin,
			VerticalMargin:   gridVerticalMargin,
		},
	}

	ncols := o.Columns
	sh := sum(o.HeightRatios)
	for i, r := range layout.Pads {
		row, col := i/ncols, i%ncols
		p := c.NewSubPad(fmt.Sprintf("pad_%d", i+1), r.XLow, r.YLow, r.XUp, r.YUp)

		switch col {
		case 0:
			p.LeftMargin, p.RightMargin = gridHorizontalMargin, gridEpsilonWidth
		case ncols - 1:
			p.LeftMargin, p.RightMargin = gridEpsilonWidth, gridHorizontalMargin
		default:
			p.LeftMargin, p.RightMargin = gridHorizontalMargin/2, gridHorizontalMargin/2
		}
		inv := 1 / o.HeightRatios[row]
		switch row {
		case 0:
			p.TopMargin = gridVerticalMargin*inv - gridEpsilonHeight
			p.BottomMargin = gridEpsilonHeight
		case o.Rows - 1:
			p.TopMargin = gridVerticalMargin * inv / 2
			p.BottomMargin = gridVerticalMargin * inv / 2
		default:
			p.TopMargin = gridVerticalMargin / 2 * inv
			p.BottomMargin = gridVerticalMargin / 2 * inv
		}

		yr := o.YRanges[row%len(o.YRanges)]
		f := p.DrawFrame(o.XRange.Min, yr.Min, o.XRange.Max, yr.Max)
		f.Y.NDivisions = 503
		f.X.LabelSize, f.Y.LabelSize = 0, 0
		f.X.TitleSize, f.Y.TitleSize = 0, 0

		px := p.PixelHeight()
		if !o.SharedX || row == o.Rows-1 {
			f.X.LabelSize = o.AxisLabelSize / px
			f.X.NDivisions = 505
		}
		if !o.SharedY || col == 0 {
			f.Y.LabelSize = o.AxisLabelSize / px
			f.Y.TitleSize = o.AxisTitleSize / px
			f.Y.TitleOffset = 3 * (o.HeightRatios[row] / sh)
		}

		m.pads = append(m.pads, &ManagedPad{Pad: p, hasFrame: true})
		m.frames = append(m.frames, f)
	}

	if r := layout.Top; r != nil {
		m.top = &ManagedPad{Pad: c.NewSubPad("top_pad", r.XLow, r.YLow, r.XUp, r.YUp)}
	}
	if r := layout.Bottom; r != nil {
		m.bottom = &ManagedPad{Pad: c.NewSubPad("bottom_pad", r.XLow, r.YLow, r.XUp, r.YUp)}
	}
	c.Modified()
	return m, nil
}

// Canvas returns the managed canvas.
func (m *CanvasManager) Canvas() *graphics.Canvas { return m.canvas }

// Grid returns the grid metadata.
func (m *CanvasManager) Grid() GridMetadata { return m.grid }

// Pads returns the subplot pads, left to right and top to bottom.
func (m *CanvasManager) Pads() []*ManagedPad { return append([]*ManagedPad(nil), m.pads...) }

// Frames returns the axis frames of the subplot pads.
func (m *CanvasManager) Frames() []*graphics.Frame { return append([]*graphics.Frame(nil), m.frames...) }

// TopPad returns the band above the grid.
func (m *CanvasManager) TopPad() (*ManagedPad, error) {
	if m.top == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas has no top pad")
	}
	return m.top, nil
}

// BottomPad returns the band below the grid.
func (m *CanvasManager) BottomPad() (*ManagedPad, error) {
	if m.bottom == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas has no bottom pad")
	}
	return m.bottom, nil
}

// TextOptions configures PlotText. Size is in pixels; zero fields take
// the defaults (size 50, font 42, align 33, top-right corner of the grid).
type TextOptions struct {
	Size  float64
	Font  int
	Align int
	X, Y  float64
}

// PlotText draws text on p.
func (m *CanvasManager) PlotText(p *ManagedPad, text string, o TextOptions) *graphics.Text {
	if o.Size == 0 {
		o.Size = 50
	}
	if o.Font == 0 {
		o.Font = 42
	}
	if o.Align == 0 {
		o.Align = 33
	}
	if o.X == 0 {
		o.X = 1 - m.grid.HorizontalMargin/float64(m.grid.Columns)
	}
	if o.Y == 0 {
		o.Y = 1
	}
	t := DrawText(p.Pad, TextPlacement{
		Text: text, X: o.X, Y: o.Y, Font: o.Font, Align: o.Align,
		Size: o.Size / p.PixelHeight(),
	})
	p.drawables = append(p.drawables, t)
	return t
}

// CommonLegendOptions configures PlotCommonLegend. Zero fields take the
// defaults.
type CommonLegendOptions struct {
	XLeft, XRight, YDown, YUp float64

	Title        string
	TitleFont    int
	TitleSize    float64
	Subtitle     string
	SubtitleFont int
	TextAlign    int
	// IPos non-zero indents each legend row and moves the titles to the
	// left of the legend.
	IPos int
}

func (o CommonLegendOptions) withDefaults(hm float64) CommonLegendOptions {
	if o.XLeft == 0 {
		o.XLeft = hm
	}
	if o.XRight == 0 {
		o.XRight = 1 - hm
	}
	if o.YUp == 0 {
		o.YUp = 0.7
	}
	if o.Title == "" {
		o.Title = "CMS"
	}
	if o.TitleFont == 0 {
		o.TitleFont = 62
	}
	if o.TitleSize == 0 {
		o.TitleSize = 50 * 0.75 / 0.6
	}
	if o.Subtitle == "" {
		o.Subtitle = "Preliminary"
	}
	if o.SubtitleFont == 0 {
		o.SubtitleFont = 52
	}
	if o.TextAlign == 0 {
		o.TextAlign = 13
	}
	return o
}

// PlotCommonLegend draws one legend for all subplots on p, typically the
// top pad, together with the experiment title and subtitle.
func (m *CanvasManager) PlotCommonLegend(p *ManagedPad, items []LegendItem, o CommonLegendOptions) *graphics.Legend {
	o = o.withDefaults(m.grid.HorizontalMargin / float64(m.grid.Columns))

	leg := graphics.NewLegend(o.XLeft, o.YDown, o.XRight, o.YUp)
	leg.TextAlign = o.TextAlign
	leg.BorderSize = 1
	leg.NColumns = min(len(items)+1, 5)
	if o.IPos != 0 {
		n := 0
		for _, it := range items {
			if n%leg.NColumns == 0 {
				leg.AddEntry(nil, "      ", "  ")
				n++
			}
			leg.AddEntry(it.Object, it.Label, it.Option)
			n++
		}
	} else {
		AddToLegend(leg, items...)
	}
	p.Plot(leg, "", nil)

	px := p.PixelHeight()
	titleSize := o.TitleSize / px
	title := TextPlacement{Text: o.Title, X: 0.10, Y: 0.97, Font: o.TitleFont, Align: 13, Size: titleSize}
	sub := TextPlacement{Text: o.Subtitle, X: 0.17, Y: 0.94, Font: o.SubtitleFont, Align: 13, Size: titleSize * 0.76}
	if o.IPos != 0 {
		title.X, title.Y = 0.11, 0.60
		sub.X, sub.Y = 0.11, 0.30
	}
	p.drawables = append(p.drawables, DrawText(p.Pad, title), DrawText(p.Pad, sub))
	return leg
}

func (m *CanvasManager) frame(i int) (*graphics.Frame, error) {
	if i < 0 || i >= len(m.frames) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no subplot %d", i)
	}
	return m.frames[i], nil
}

// YLabel sets the same y title on every subplot.
func (m *CanvasManager) YLabel(label string) {
	for _, f := range m.frames {
		f.Y.Title = label
	}
}

// YLabels sets y titles per subplot index.
func (m *CanvasManager) YLabels(labels map[int]string) error {
	for i, l := range labels {
		f, err := m.frame(i)
		if err != nil {
			return err
		}
		f.Y.Title = l
	}
	return nil
}

// YLimits sets y ranges per subplot index.
func (m *CanvasManager) YLimits(limits map[int]Range) error {
	for i, r := range limits {
		f, err := m.frame(i)
		if err != nil {
			return err
		}
		f.Y.SetRange(r.Min, r.Max)
	}
	return nil
}

// XLimits sets x ranges per subplot index.
func (m *CanvasManager) XLimits(limits map[int]Range) error {
	for i, r := range limits {
		f, err := m.frame(i)
		if err != nil {
			return err
		}
		f.X.SetRange(r.Min, r.Max)
	}
	return nil
}

// Save writes the canvas to path.
func (m *CanvasManager) Save(path string, opts ...sink.Option) error {
	return m.session.SaveCanvas(m.canvas, path, false, opts...)
}
