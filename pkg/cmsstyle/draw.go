package cmsstyle

import (
	"strings"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// DrawStyle is the set of attributes applied by Draw.
type DrawStyle struct {
	Marker      int
	MarkerSize  float64
	MarkerColor colors.Index

	LineStyle int
	LineWidth float64
	// LineColor -1 uses MarkerColor.
	LineColor colors.Index

	FillStyle int
	FillColor colors.Index
	// Alpha in (0,1] makes the fill translucent.
	Alpha float64
}

// DefaultDrawStyle returns black full-circle markers with a solid
// Yellow+1 fill.
func DefaultDrawStyle() DrawStyle {
	return DrawStyle{
		Marker:      20,
		MarkerSize:  1,
		MarkerColor: colors.Black,
		LineStyle:   1,
		LineWidth:   1,
		LineColor:   -1,
		FillStyle:   1001,
		FillColor:   colors.Yellow + 1,
		Alpha:       -1,
	}
}

func (d DrawStyle) properties() Properties {
	lc := d.LineColor
	if lc == -1 {
		lc = d.MarkerColor
	}
	return Properties{
		MarkerStyle: float64(d.Marker),
		MarkerSize:  d.MarkerSize,
		MarkerColor: float64(d.MarkerColor),
		LineStyle:   float64(d.LineStyle),
		LineWidth:   d.LineWidth,
		LineColor:   float64(lc),
		FillStyle:   float64(d.FillStyle),
		FillColor:   float64(d.FillColor),
	}
}

// sameOption prefixes "SAME" to opt unless it already draws on top. An
// option starting with "S" thus becomes "SAMES".
func sameOption(opt string) string {
	if strings.Contains(opt, "SAME") {
		return opt
	}
	return "SAME" + opt
}

// Draw styles obj with d and draws it on pad on top of what is there.
func Draw(pad *graphics.Pad, obj graphics.Object, opt string, d DrawStyle) Result {
	r := ApplyProperties(obj, d.properties())
	if d.Alpha > 0 {
		if fc, ok := obj.(graphics.FillCarrier); ok {
			fc.FillAttributes().FillAlpha = d.Alpha
		}
	}
	pad.Draw(obj, sameOption(opt))
	return r
}

// DrawLine draws line on pad with the given color, style and width.
func DrawLine(pad *graphics.Pad, line *graphics.Line, color colors.Index, style int, width float64) {
	line.LineColor = color
	line.LineStyle = style
	line.LineWidth = width
	pad.Draw(line, "SAME")
}

// ObjectDraw applies props to obj and draws it on pad on top of what is
// there.
func ObjectDraw(pad *graphics.Pad, obj graphics.Object, opt string, props Properties) Result {
	r := ApplyProperties(obj, props)
	pad.Draw(obj, sameOption(opt))
	return r
}
