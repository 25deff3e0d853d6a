package sink

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"

	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

type painter struct {
	dc    draw.Canvas
	scale vg.Length
	errs  []error
}

func newPainter(dc draw.Canvas, scale float64) *painter {
	return &painter{dc: dc, scale: vg.Length(scale)}
}

// padArea is the device rectangle of a pad plus the frame mapping in use.
type padArea struct {
	pad   *graphics.Pad
	rect  vg.Rectangle
	frame vg.Rectangle
	world *graphics.Frame
}

func (a padArea) w() vg.Length { return a.rect.Max.X - a.rect.Min.X }
func (a padArea) h() vg.Length { return a.rect.Max.Y - a.rect.Min.Y }

func (a padArea) minDim() vg.Length {
	if a.w() < a.h() {
		return a.w()
	}
	return a.h()
}

func (a padArea) ndc(x, y float64) vg.Point {
	return vg.Point{
		X: a.rect.Min.X + vg.Length(x)*a.w(),
		Y: a.rect.Min.Y + vg.Length(y)*a.h(),
	}
}

func (a padArea) mapX(x float64) vg.Length {
	return a.frame.Min.X + vg.Length(norm(x, a.world.X.Min, a.world.X.Max, a.pad.LogX))*(a.frame.Max.X-a.frame.Min.X)
}

func (a padArea) mapY(y float64) vg.Length {
	return a.frame.Min.Y + vg.Length(norm(y, a.world.Y.Min, a.world.Y.Max, a.pad.LogY))*(a.frame.Max.Y-a.frame.Min.Y)
}

func (a padArea) world2dev(x, y float64) vg.Point {
	return vg.Point{X: a.mapX(x), Y: a.mapY(y)}
}

func norm(v, lo, hi float64, log bool) float64 {
	if log && lo > 0 && hi > 0 {
		if v <= 0 {
			return -1
		}
		return (math.Log10(v) - math.Log10(lo)) / (math.Log10(hi) - math.Log10(lo))
	}
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func (p *painter) area(pad *graphics.Pad) padArea {
	size := p.dc.Rectangle.Size()
	x0 := vg.Length(pad.AbsXLowNDC()) * size.X
	y0 := vg.Length(pad.AbsYLowNDC()) * size.Y
	w := vg.Length(pad.WNDC()) * size.X
	h := vg.Length(pad.HNDC()) * size.Y
	a := padArea{pad: pad, rect: vg.Rectangle{Min: vg.Point{X: x0, Y: y0}, Max: vg.Point{X: x0 + w, Y: y0 + h}}}
	a.frame = vg.Rectangle{
		Min: vg.Point{X: x0 + vg.Length(pad.LeftMargin)*w, Y: y0 + vg.Length(pad.BottomMargin)*h},
		Max: vg.Point{X: x0 + vg.Length(1-pad.RightMargin)*w, Y: y0 + vg.Length(1-pad.TopMargin)*h},
	}
	a.world = pad.Frame()
	if a.world == nil {
		a.world = implicitFrame(pad)
	}
	return a
}

// implicitFrame spans the first histogram or graph when no frame was drawn.
func implicitFrame(pad *graphics.Pad) *graphics.Frame {
	for _, pr := range pad.Primitives() {
		switch o := pr.Object.(type) {
		case *graphics.H1:
			return graphics.NewFrame("implicit", o.XMin, o.XMax, 0, 1.1*o.MaxExtent(), pad.Style())
		case *graphics.Stack:
			hs := o.Hists()
			if len(hs) > 0 {
				return graphics.NewFrame("implicit", hs[0].XMin, hs[0].XMax, 0, 1.1*o.Maximum(), pad.Style())
			}
		case *graphics.Graph:
			if o.Len() > 0 {
				lo, hi := o.X[0], o.X[0]
				for _, x := range o.X {
					lo, hi = math.Min(lo, x), math.Max(hi, x)
				}
				return graphics.NewFrame("implicit", lo, hi, 0, 1.1*o.MaxExtent(), pad.Style())
			}
		}
	}
	return graphics.NewFrame("implicit", 0, 1, 0, 1, pad.Style())
}

func rectPolygon(r vg.Rectangle) []vg.Point {
	return []vg.Point{r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y}}
}

func (p *painter) fillRect(r vg.Rectangle, fa graphics.FillAttr) {
	if c, ok := fillColor(fa); ok {
		p.dc.FillPolygon(c, rectPolygon(r))
	}
}

func (p *painter) strokeRect(r vg.Rectangle, la graphics.LineAttr) {
	if sty, ok := lineStyle(la, p.scale); ok {
		pts := append(rectPolygon(r), r.Min)
		p.dc.StrokeLines(sty, pts)
	}
}

// clipped returns a canvas restricted to the frame of a.
func (p *painter) clipped(a padArea) draw.Canvas {
	return draw.Canvas{Canvas: p.dc.Canvas, Rectangle: a.frame}
}

func (p *painter) paintPad(pad *graphics.Pad) {
	a := p.area(pad)
	p.fillRect(a.rect, pad.FillAttr)

	var frame *graphics.Frame
	for _, pr := range pad.Primitives() {
		opt := strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(pr.Option), "SAME", ""))
		switch o := pr.Object.(type) {
		case *graphics.Frame:
			frame = o
			a.world = o
			p.fillRect(a.frame, o.FillAttr)
			p.paintAxes(a, o)
		case *graphics.H1:
			p.paintH1(a, o, opt)
		case *graphics.Graph:
			p.paintGraph(a, o, opt)
		case *graphics.Stack:
			p.paintStack(a, o, opt)
		case *graphics.Legend:
			p.paintLegend(a, o)
		case *graphics.Stats:
			p.paintStats(a, o)
		case *graphics.Text:
			p.paintText(a, o)
		case *graphics.Line:
			p.paintLine(a, o)
		case *graphics.Image:
			p.paintImage(a, o)
		case *graphics.Pad:
			p.paintPad(o)
		}
	}
	if frame != nil && pad.AxisRedrawn() {
		p.paintAxes(a, frame)
	}
}

func (p *painter) paintText(a padArea, t *graphics.Text) {
	if t.Value == "" {
		return
	}
	sty := textStyle(t.TextAttr, a.minDim(), p.scale)
	sty.Rotation = t.Angle * math.Pi / 180
	pt := a.ndc(t.X, t.Y)
	if !t.NDC {
		pt = a.world2dev(t.X, t.Y)
	}
	p.dc.FillText(sty, pt, plainText(t.Value))
}

func (p *painter) paintLine(a padArea, l *graphics.Line) {
	sty, ok := lineStyle(l.LineAttr, p.scale)
	if !ok {
		return
	}
	if l.NDC {
		p.dc.StrokeLines(sty, []vg.Point{a.ndc(l.X1, l.Y1), a.ndc(l.X2, l.Y2)})
		return
	}
	fc := p.clipped(a)
	fc.StrokeLines(sty, fc.ClipLinesXY([]vg.Point{a.world2dev(l.X1, l.Y1), a.world2dev(l.X2, l.Y2)})...)
}

func (p *painter) paintImage(a padArea, img *graphics.Image) {
	f, err := os.Open(img.Path)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("image %s: %w", img.Path, err))
		return
	}
	defer f.Close()
	m, _, err := image.Decode(f)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("decode %s: %w", img.Path, err))
		return
	}
	p.dc.DrawImage(a.rect, m)
}

func (p *painter) paintH1(a padArea, h *graphics.H1, opt string) {
	fc := p.clipped(a)
	errorMode := strings.Contains(opt, "E") || strings.Contains(opt, "P")
	if strings.Contains(opt, "HIST") || !errorMode {
		p.paintSteps(a, fc, h)
		return
	}
	if strings.Contains(opt, "E2") {
		p.paintErrorBand(a, fc, h)
		return
	}
	lsty, lok := lineStyle(h.LineAttr, p.scale)
	if h.LineColor < 0 {
		lsty, lok = lineStyle(graphics.LineAttr{LineColor: h.MarkerColor, LineStyle: 1, LineWidth: h.LineWidth}, p.scale)
	}
	caps := strings.Contains(opt, "E1")
	noX := strings.Contains(opt, "X0")
	for i := 1; i <= h.NBins(); i++ {
		x, y, e := h.BinCenter(i), h.BinContent(i), h.BinError(i)
		if y == 0 && e == 0 {
			continue
		}
		if lok {
			var lines [][]vg.Point
			lines = append(lines, []vg.Point{a.world2dev(x, y-e), a.world2dev(x, y+e)})
			if !noX {
				lines = append(lines, []vg.Point{a.world2dev(h.BinLowEdge(i), y), a.world2dev(h.BinLowEdge(i)+h.BinWidth(), y)})
			}
			if caps {
				half := 2 * p.scale
				top, bot := a.world2dev(x, y+e), a.world2dev(x, y-e)
				lines = append(lines,
					[]vg.Point{{X: top.X - half, Y: top.Y}, {X: top.X + half, Y: top.Y}},
					[]vg.Point{{X: bot.X - half, Y: bot.Y}, {X: bot.X + half, Y: bot.Y}})
			}
			for _, l := range lines {
				fc.StrokeLines(lsty, fc.ClipLinesXY(l)...)
			}
		}
		if gs, ok := glyphStyle(h.MarkerAttr, p.scale); ok {
			pt := a.world2dev(x, y)
			if fc.Contains(pt) {
				fc.DrawGlyph(gs, pt)
			}
		}
	}
}

func stepPoints(a padArea, h *graphics.H1, base float64) []vg.Point {
	pts := []vg.Point{a.world2dev(h.XMin, base)}
	for i := 1; i <= h.NBins(); i++ {
		lo := h.BinLowEdge(i)
		y := h.BinContent(i)
		pts = append(pts, a.world2dev(lo, y), a.world2dev(lo+h.BinWidth(), y))
	}
	return append(pts, a.world2dev(h.XMax, base))
}

func baseline(a padArea) float64 {
	if a.pad.LogY {
		return a.world.Y.Min
	}
	return math.Max(a.world.Y.Min, 0)
}

func (p *painter) paintSteps(a padArea, fc draw.Canvas, h *graphics.H1) {
	pts := stepPoints(a, h, baseline(a))
	if c, ok := fillColor(h.FillAttr); ok {
		fc.FillPolygon(c, fc.ClipPolygonXY(pts))
	}
	if sty, ok := lineStyle(h.LineAttr, p.scale); ok {
		fc.StrokeLines(sty, fc.ClipLinesXY(pts)...)
	}
}

func (p *painter) paintErrorBand(a padArea, fc draw.Canvas, h *graphics.H1) {
	c, ok := fillColor(h.FillAttr)
	if !ok {
		return
	}
	for i := 1; i <= h.NBins(); i++ {
		lo, y, e := h.BinLowEdge(i), h.BinContent(i), h.BinError(i)
		r := vg.Rectangle{Min: a.world2dev(lo, y-e), Max: a.world2dev(lo+h.BinWidth(), y+e)}
		fc.FillPolygon(c, fc.ClipPolygonXY(rectPolygon(r)))
	}
}

func (p *painter) paintStack(a padArea, s *graphics.Stack, opt string) {
	hs := s.Cumulative()
	if strings.Contains(opt, "NOSTACK") {
		hs = s.Hists()
	}
	fc := p.clipped(a)
	for i := len(hs) - 1; i >= 0; i-- {
		p.paintSteps(a, fc, hs[i])
	}
}

func (p *painter) paintGraph(a padArea, g *graphics.Graph, opt string) {
	fc := p.clipped(a)
	if g.Len() == 0 {
		return
	}
	if strings.Contains(opt, "2") || strings.Contains(opt, "3") || strings.Contains(opt, "F") {
		if c, ok := fillColor(g.FillAttr); ok {
			var upper, lower []vg.Point
			for i := range g.X {
				hi := math.Max(g.ErrorYHigh(i), g.ErrorY(i))
				lo := math.Max(g.ErrorYLow(i), g.ErrorY(i))
				upper = append(upper, a.world2dev(g.X[i], g.Y[i]+hi))
				lower = append(lower, a.world2dev(g.X[i], g.Y[i]-lo))
			}
			for i := len(lower) - 1; i >= 0; i-- {
				upper = append(upper, lower[i])
			}
			fc.FillPolygon(c, fc.ClipPolygonXY(upper))
		}
	}
	if sty, ok := lineStyle(g.LineAttr, p.scale); ok {
		if strings.Contains(opt, "L") || strings.Contains(opt, "C") {
			pts := make([]vg.Point, g.Len())
			for i := range g.X {
				pts[i] = a.world2dev(g.X[i], g.Y[i])
			}
			fc.StrokeLines(sty, fc.ClipLinesXY(pts)...)
		}
		if !strings.Contains(opt, "X") {
			for i := range g.X {
				hi := math.Max(g.ErrorYHigh(i), g.ErrorY(i))
				lo := math.Max(g.ErrorYLow(i), g.ErrorY(i))
				if hi == 0 && lo == 0 {
					continue
				}
				seg := []vg.Point{a.world2dev(g.X[i], g.Y[i]-lo), a.world2dev(g.X[i], g.Y[i]+hi)}
				fc.StrokeLines(sty, fc.ClipLinesXY(seg)...)
			}
		}
	}
	if strings.Contains(opt, "P") || opt == "" {
		if gs, ok := glyphStyle(g.MarkerAttr, p.scale); ok {
			for i := range g.X {
				pt := a.world2dev(g.X[i], g.Y[i])
				if fc.Contains(pt) {
					fc.DrawGlyph(gs, pt)
				}
			}
		}
	}
}

func (p *painter) paintLegend(a padArea, l *graphics.Legend) {
	box := vg.Rectangle{Min: a.ndc(l.X1, l.Y1), Max: a.ndc(l.X2, l.Y2)}
	p.fillRect(box, l.FillAttr)
	if l.BorderSize > 0 {
		p.strokeRect(box, l.LineAttr)
	}
	entries := l.Entries()
	if len(entries) == 0 {
		return
	}
	cols := l.NColumns
	if cols < 1 {
		cols = 1
	}
	// Headers take a full row; other entries fill the columns row by row.
	rows, inRow := 0, 0
	for _, e := range entries {
		if e.IsHeader() {
			if inRow > 0 {
				rows++
			}
			rows++
			inRow = 0
			continue
		}
		inRow++
		if inRow == cols {
			rows++
			inRow = 0
		}
	}
	if inRow > 0 {
		rows++
	}

	rowH := (box.Max.Y - box.Min.Y) / vg.Length(rows)
	colW := (box.Max.X - box.Min.X) / vg.Length(cols)
	row, col := 0, 0
	for _, e := range entries {
		ta := l.TextAttr
		if e.TextSize > 0 {
			ta = e.TextAttr
		}
		if ta.TextSize == 0 {
			ta.TextSize = float64(0.75 * rowH / a.minDim())
		}
		top := box.Max.Y - vg.Length(row)*rowH
		mid := top - rowH/2
		if e.IsHeader() {
			if col > 0 {
				row++
				top = box.Max.Y - vg.Length(row)*rowH
				mid = top - rowH/2
			}
			sty := textStyle(ta, a.minDim(), p.scale)
			sty.YAlign = text.YCenter
			x := box.Min.X + 0.05*colW
			switch ta.TextAlign / 10 {
			case 2:
				x = (box.Min.X + box.Max.X) / 2
			case 3:
				x = box.Max.X - 0.05*colW
			}
			p.dc.FillText(sty, vg.Point{X: x, Y: mid}, plainText(e.Label))
			row++
			col = 0
			continue
		}
		left := box.Min.X + vg.Length(col)*colW
		symW := 0.25 * colW
		p.paintLegendSymbol(e, vg.Rectangle{
			Min: vg.Point{X: left + 0.1*symW, Y: mid - rowH/4},
			Max: vg.Point{X: left + 0.9*symW, Y: mid + rowH/4},
		})
		ta.TextAlign = 12
		sty := textStyle(ta, a.minDim(), p.scale)
		p.dc.FillText(sty, vg.Point{X: left + symW + 0.03*colW, Y: mid}, plainText(e.Label))
		col++
		if col == cols {
			col = 0
			row++
		}
	}
}

func (p *painter) paintLegendSymbol(e graphics.LegendEntry, r vg.Rectangle) {
	opt := strings.ToLower(e.Option)
	if strings.Contains(opt, "f") {
		if fc, ok := e.Object.(graphics.FillCarrier); ok {
			p.fillRect(r, *fc.FillAttributes())
		}
		if lc, ok := e.Object.(graphics.LineCarrier); ok {
			p.strokeRect(r, *lc.LineAttributes())
		}
	}
	mid := (r.Min.Y + r.Max.Y) / 2
	if strings.Contains(opt, "l") {
		if lc, ok := e.Object.(graphics.LineCarrier); ok {
			if sty, ok := lineStyle(*lc.LineAttributes(), p.scale); ok {
				p.dc.StrokeLines(sty, []vg.Point{{X: r.Min.X, Y: mid}, {X: r.Max.X, Y: mid}})
			}
		}
	}
	if strings.Contains(opt, "e") {
		if lc, ok := e.Object.(graphics.LineCarrier); ok {
			if sty, ok := lineStyle(*lc.LineAttributes(), p.scale); ok {
				x := (r.Min.X + r.Max.X) / 2
				p.dc.StrokeLines(sty, []vg.Point{{X: x, Y: r.Min.Y}, {X: x, Y: r.Max.Y}})
			}
		}
	}
	if strings.Contains(opt, "p") {
		if mc, ok := e.Object.(graphics.MarkerCarrier); ok {
			if gs, ok := glyphStyle(*mc.MarkerAttributes(), p.scale); ok {
				p.dc.DrawGlyph(gs, vg.Point{X: (r.Min.X + r.Max.X) / 2, Y: mid})
			}
		}
	}
}

func (p *painter) paintStats(a padArea, s *graphics.Stats) {
	box := vg.Rectangle{Min: a.ndc(s.X1NDC, s.Y1NDC), Max: a.ndc(s.X2NDC, s.Y2NDC)}
	p.fillRect(box, s.FillAttr)
	if s.BorderSize > 0 {
		p.strokeRect(box, s.LineAttr)
	}
	lines := s.Lines()
	if len(lines) == 0 {
		return
	}
	rowH := (box.Max.Y - box.Min.Y) / vg.Length(len(lines))
	ta := s.TextAttr
	if ta.TextSize == 0 {
		ta.TextSize = float64(0.7 * rowH / a.minDim())
	}
	pad := 0.04 * (box.Max.X - box.Min.X)
	for i, line := range lines {
		y := box.Max.Y - (vg.Length(i)+0.5)*rowH
		name, value, found := strings.Cut(line, " = ")
		if !found {
			ta.TextAlign = 22
			p.dc.FillText(textStyle(ta, a.minDim(), p.scale), vg.Point{X: (box.Min.X + box.Max.X) / 2, Y: y}, line)
			continue
		}
		ta.TextAlign = 12
		p.dc.FillText(textStyle(ta, a.minDim(), p.scale), vg.Point{X: box.Min.X + pad, Y: y}, name)
		ta.TextAlign = 32
		p.dc.FillText(textStyle(ta, a.minDim(), p.scale), vg.Point{X: box.Max.X - pad, Y: y}, value)
	}
}
