package graphics

import "github.com/cms-cat/cmsstyle-go/pkg/colors"

// Object is anything that can be drawn on a pad.
type Object interface {
	Name() string
}

// LineAttr holds line attributes.
type LineAttr struct {
	LineColor colors.Index
	LineStyle int
	LineWidth float64
}

// FillAttr holds fill attributes. FillStyle 0 is hollow, 1001 solid, and
// 3000-3999 hatched. FillAlpha outside (0,1] means opaque.
type FillAttr struct {
	FillColor colors.Index
	FillStyle int
	FillAlpha float64
}

// MarkerAttr holds marker attributes.
type MarkerAttr struct {
	MarkerColor colors.Index
	MarkerStyle int
	MarkerSize  float64
}

// TextAttr holds text attributes. TextSize is a fraction of the smaller
// pad dimension; TextAlign is 10*horizontal + vertical.
type TextAttr struct {
	TextColor colors.Index
	TextFont  int
	TextSize  float64
	TextAlign int
}

func (a *LineAttr) LineAttributes() *LineAttr       { return a }
func (a *FillAttr) FillAttributes() *FillAttr       { return a }
func (a *MarkerAttr) MarkerAttributes() *MarkerAttr { return a }
func (a *TextAttr) TextAttributes() *TextAttr       { return a }

// LineCarrier is implemented by objects with line attributes.
type LineCarrier interface{ LineAttributes() *LineAttr }

// FillCarrier is implemented by objects with fill attributes.
type FillCarrier interface{ FillAttributes() *FillAttr }

// MarkerCarrier is implemented by objects with marker attributes.
type MarkerCarrier interface{ MarkerAttributes() *MarkerAttr }

// TextCarrier is implemented by objects with text attributes.
type TextCarrier interface{ TextAttributes() *TextAttr }

func defaultLine() LineAttr     { return LineAttr{LineColor: colors.Black, LineStyle: 1, LineWidth: 1} }
func defaultFill() FillAttr     { return FillAttr{FillColor: colors.White, FillStyle: 0, FillAlpha: -1} }
func defaultMarker() MarkerAttr { return MarkerAttr{MarkerColor: colors.Black, MarkerStyle: 1, MarkerSize: 1} }
