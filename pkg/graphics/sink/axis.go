package sink

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// titleScale converts a title offset into a distance in units of the title
// size, matching the spacing of the reference toolkit.
const titleScale = 1.6

func ticksFor(ax graphics.Axis, log bool) []plot.Tick {
	if ax.Max <= ax.Min {
		return nil
	}
	if log && ax.Min > 0 {
		return plot.LogTicks{Prec: -1}.Ticks(ax.Min, ax.Max)
	}
	return plot.DefaultTicks{}.Ticks(ax.Min, ax.Max)
}

// tickLabel reformats a tick label, dropping trailing zeros the way the
// decimal stripping of the style does.
func tickLabel(t plot.Tick) string {
	if t.Label == "" {
		return ""
	}
	if v, err := strconv.ParseFloat(t.Label, 64); err == nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return t.Label
}

func (p *painter) paintAxes(a padArea, f *graphics.Frame) {
	fr := a.frame
	if sty, ok := lineStyle(f.LineAttr, p.scale); ok {
		p.dc.StrokeLines(sty, append(rectPolygon(fr), fr.Min))
	}
	p.paintXAxis(a, f)
	p.paintYAxis(a, f)
}

func (p *painter) gridStyle(a padArea) graphics.LineAttr {
	la := graphics.LineAttr{LineColor: colors.Gray, LineStyle: 3, LineWidth: 1}
	if s := a.pad.Style(); s != nil {
		la = graphics.LineAttr{LineColor: s.GridColor, LineStyle: s.GridStyle, LineWidth: s.GridWidth}
		if la.LineColor == colors.White {
			la.LineColor = colors.Gray
		}
	}
	return la
}

func (p *painter) paintXAxis(a padArea, f *graphics.Frame) {
	fr := a.frame
	ax := f.X
	fh := fr.Max.Y - fr.Min.Y
	major := vg.Length(ax.TickLength) * fh
	minor := major / 2

	axisLine, _ := lineStyle(graphics.LineAttr{LineColor: ax.AxisColor, LineStyle: 1, LineWidth: 1}, p.scale)
	grid, gridOK := lineStyle(p.gridStyle(a), p.scale)

	label := textStyle(graphics.TextAttr{
		TextColor: ax.LabelColor, TextFont: ax.LabelFont, TextSize: ax.LabelSize, TextAlign: 23,
	}, a.minDim(), p.scale)
	labelY := fr.Min.Y - vg.Length(ax.LabelOffset)*a.h()

	for _, t := range ticksFor(ax, a.pad.LogX) {
		x := a.mapX(t.Value)
		if x < fr.Min.X-0.5 || x > fr.Max.X+0.5 {
			continue
		}
		l := minor
		if !t.IsMinor() {
			l = major
			if a.pad.GridX && gridOK {
				p.dc.StrokeLines(grid, []vg.Point{{X: x, Y: fr.Min.Y}, {X: x, Y: fr.Max.Y}})
			}
			if s := tickLabel(t); s != "" {
				p.dc.FillText(label, vg.Point{X: x, Y: labelY}, s)
			}
		}
		p.dc.StrokeLines(axisLine, []vg.Point{{X: x, Y: fr.Min.Y}, {X: x, Y: fr.Min.Y + l}})
		if a.pad.TickX != 0 {
			p.dc.StrokeLines(axisLine, []vg.Point{{X: x, Y: fr.Max.Y}, {X: x, Y: fr.Max.Y - l}})
		}
	}

	if ax.Title != "" {
		title := textStyle(graphics.TextAttr{
			TextColor: ax.TitleColor, TextFont: ax.TitleFont, TextSize: ax.TitleSize, TextAlign: 33,
		}, a.minDim(), p.scale)
		y := fr.Min.Y - vg.Length(ax.TitleOffset*ax.TitleSize*titleScale)*a.minDim()
		p.dc.FillText(title, vg.Point{X: fr.Max.X, Y: y}, plainText(ax.Title))
	}
}

func (p *painter) paintYAxis(a padArea, f *graphics.Frame) {
	fr := a.frame
	ax := f.Y
	fw := fr.Max.X - fr.Min.X
	major := vg.Length(ax.TickLength) * fw
	minor := major / 2

	axisLine, _ := lineStyle(graphics.LineAttr{LineColor: ax.AxisColor, LineStyle: 1, LineWidth: 1}, p.scale)
	grid, gridOK := lineStyle(p.gridStyle(a), p.scale)

	label := textStyle(graphics.TextAttr{
		TextColor: ax.LabelColor, TextFont: ax.LabelFont, TextSize: ax.LabelSize, TextAlign: 32,
	}, a.minDim(), p.scale)
	labelX := fr.Min.X - vg.Length(ax.LabelOffset)*a.w()

	for _, t := range ticksFor(ax, a.pad.LogY) {
		y := a.mapY(t.Value)
		if y < fr.Min.Y-0.5 || y > fr.Max.Y+0.5 {
			continue
		}
		l := minor
		if !t.IsMinor() {
			l = major
			if a.pad.GridY && gridOK {
				p.dc.StrokeLines(grid, []vg.Point{{X: fr.Min.X, Y: y}, {X: fr.Max.X, Y: y}})
			}
			if s := tickLabel(t); s != "" {
				p.dc.FillText(label, vg.Point{X: labelX, Y: y}, s)
			}
		}
		p.dc.StrokeLines(axisLine, []vg.Point{{X: fr.Min.X, Y: y}, {X: fr.Min.X + l, Y: y}})
		if a.pad.TickY != 0 {
			p.dc.StrokeLines(axisLine, []vg.Point{{X: fr.Max.X, Y: y}, {X: fr.Max.X - l, Y: y}})
		}
	}

	if ax.Title != "" {
		title := textStyle(graphics.TextAttr{
			TextColor: ax.TitleColor, TextFont: ax.TitleFont, TextSize: ax.TitleSize, TextAlign: 31,
		}, a.minDim(), p.scale)
		title.Rotation = math.Pi / 2
		// Rotated text aligns along its own baseline.
		title.XAlign, title.YAlign = text.XRight, text.YBottom
		x := fr.Min.X - vg.Length(ax.TitleOffset*ax.TitleSize*titleScale)*a.minDim()
		p.dc.FillText(title, vg.Point{X: x, Y: fr.Max.Y}, plainText(ax.Title))
	}
}
