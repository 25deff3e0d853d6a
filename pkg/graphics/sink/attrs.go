package sink

import (
	"image/color"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

var fontCache = font.NewCache(liberation.Collection())

// fontFor maps a font code (10*family + precision) onto a Liberation face.
// Families 1-3 are serif, 4-7 sans, 8-11 mono; 12 is symbol and falls back
// to serif.
func fontFor(code int, size vg.Length) font.Font {
	f := font.Font{Typeface: "Liberation", Variant: "Sans", Size: size}
	switch code / 10 {
	case 1:
		f.Variant, f.Style = "Serif", xfont.StyleItalic
	case 2:
		f.Variant, f.Weight = "Serif", xfont.WeightBold
	case 3:
		f.Variant, f.Style, f.Weight = "Serif", xfont.StyleItalic, xfont.WeightBold
	case 5:
		f.Style = xfont.StyleItalic
	case 6:
		f.Weight = xfont.WeightBold
	case 7:
		f.Style, f.Weight = xfont.StyleItalic, xfont.WeightBold
	case 8:
		f.Variant = "Mono"
	case 9:
		f.Variant, f.Style = "Mono", xfont.StyleItalic
	case 10:
		f.Variant, f.Weight = "Mono", xfont.WeightBold
	case 11:
		f.Variant, f.Style, f.Weight = "Mono", xfont.StyleItalic, xfont.WeightBold
	case 12, 13:
		f.Variant = "Serif"
	}
	return f
}

// textStyle builds the gonum text style for attributes a. padPx is the
// smaller pad dimension in device units; precision-3 fonts take their size
// in pixels instead.
func textStyle(a graphics.TextAttr, padPx, scale vg.Length) text.Style {
	size := vg.Length(a.TextSize) * padPx
	if a.TextFont%10 == 3 {
		size = vg.Length(a.TextSize) * scale
	}
	c, _ := colors.RGBA(a.TextColor)
	sty := text.Style{
		Color:   c,
		Font:    fontFor(a.TextFont, size),
		Handler: text.Plain{Fonts: fontCache},
	}
	switch a.TextAlign / 10 {
	case 2:
		sty.XAlign = text.XCenter
	case 3:
		sty.XAlign = text.XRight
	default:
		sty.XAlign = text.XLeft
	}
	switch a.TextAlign % 10 {
	case 2:
		sty.YAlign = text.YCenter
	case 3:
		sty.YAlign = text.YTop
	default:
		sty.YAlign = text.YBottom
	}
	return sty
}

// lineStyle maps line attributes; ok is false for invisible lines.
func lineStyle(a graphics.LineAttr, scale vg.Length) (draw.LineStyle, bool) {
	if a.LineWidth <= 0 || a.LineColor < 0 {
		return draw.LineStyle{}, false
	}
	c, _ := colors.RGBA(a.LineColor)
	w := vg.Length(a.LineWidth) * scale
	sty := draw.LineStyle{Color: c, Width: w}
	switch a.LineStyle {
	case 2:
		sty.Dashes = []vg.Length{12 * scale, 12 * scale}
	case 3:
		sty.Dashes = []vg.Length{3 * scale, 5 * scale}
	case 4:
		sty.Dashes = []vg.Length{12 * scale, 8 * scale, 3 * scale, 8 * scale}
	case 5:
		sty.Dashes = []vg.Length{20 * scale, 12 * scale, 4 * scale, 12 * scale}
	case 7:
		sty.Dashes = []vg.Length{20 * scale, 10 * scale}
	case 9:
		sty.Dashes = []vg.Length{40 * scale, 20 * scale}
	}
	return sty, true
}

// fillColor maps fill attributes; ok is false for hollow and transparent
// fills. Hatched styles are painted as a translucent fill.
func fillColor(a graphics.FillAttr) (color.Color, bool) {
	if a.FillStyle == 0 || a.FillStyle == 4000 || a.FillColor < 0 {
		return nil, false
	}
	c := colors.WithAlpha(a.FillColor, a.FillAlpha)
	if a.FillStyle >= 3000 && a.FillStyle < 4000 {
		c.A = uint8(float64(c.A) * 0.35)
	}
	return c, true
}

// glyphStyle maps marker attributes. Marker size 1 is 8 pixels across.
func glyphStyle(a graphics.MarkerAttr, scale vg.Length) (draw.GlyphStyle, bool) {
	if a.MarkerSize <= 0 || a.MarkerColor < 0 {
		return draw.GlyphStyle{}, false
	}
	c, _ := colors.RGBA(a.MarkerColor)
	sty := draw.GlyphStyle{Color: c, Radius: vg.Length(4*a.MarkerSize) * scale}
	switch a.MarkerStyle {
	case 1, 6, 7:
		sty.Shape = draw.CircleGlyph{}
		sty.Radius = scale
		if a.MarkerStyle == 7 {
			sty.Radius = 1.5 * scale
		}
	case 2:
		sty.Shape = draw.PlusGlyph{}
	case 3, 5:
		sty.Shape = draw.CrossGlyph{}
	case 20, 8:
		sty.Shape = draw.CircleGlyph{}
	case 21:
		sty.Shape = draw.SquareGlyph{}
	case 22, 23:
		sty.Shape = draw.PyramidGlyph{}
	case 24, 4:
		sty.Shape = draw.RingGlyph{}
	case 25:
		sty.Shape = draw.BoxGlyph{}
	case 26, 32:
		sty.Shape = draw.TriangleGlyph{}
	default:
		sty.Shape = draw.CircleGlyph{}
	}
	return sty, true
}
