package graphics

import "github.com/cms-cat/cmsstyle-go/pkg/colors"

// AxisStyle holds the per-axis attributes of a style or an axis.
type AxisStyle struct {
	AxisColor   colors.Index
	NDivisions  int
	TickLength  float64
	LabelColor  colors.Index
	LabelFont   int
	LabelOffset float64
	LabelSize   float64
	TitleColor  colors.Index
	TitleFont   int
	TitleOffset float64
	TitleSize   float64
}

// Style is the set of defaults in effect for new canvases and the objects
// drawn on them.
type Style struct {
	Name  string
	Title string

	// Force resets the axis attributes of every frame drawn with this style.
	Force bool

	CanvasBorderMode int
	CanvasColor      colors.Index
	CanvasDefH       int
	CanvasDefW       int
	CanvasDefX       int
	CanvasDefY       int

	PadBorderMode int
	PadColor      colors.Index
	PadGridX      bool
	PadGridY      bool
	GridColor     colors.Index
	GridStyle     int
	GridWidth     float64

	FrameBorderMode int
	FrameBorderSize int
	FrameFillColor  colors.Index
	FrameFillStyle  int
	FrameLineColor  colors.Index
	FrameLineStyle  int
	FrameLineWidth  float64

	HistLineColor colors.Index
	HistLineStyle int
	HistLineWidth float64
	EndErrorSize  float64
	MarkerStyle   int
	MarkerSize    float64

	OptFit    int
	FitFormat string
	FuncColor colors.Index
	FuncStyle int
	FuncWidth float64
	OptDate   int

	LegendTextSize   float64
	LegendFont       int
	LegendBorderSize int
	LegendFillColor  colors.Index

	OptFile        int
	OptStat        int
	StatColor      colors.Index
	StatFont       int
	StatFontSize   float64
	StatTextColor  colors.Index
	StatFormat     string
	StatBorderSize int
	StatH          float64
	StatW          float64
	StatX          float64
	StatY          float64

	PadTopMargin    float64
	PadBottomMargin float64
	PadLeftMargin   float64
	PadRightMargin  float64

	OptTitle       int
	TitleFont      int
	TitleColor     colors.Index
	TitleTextColor colors.Index
	TitleFillColor colors.Index
	TitleFontSize  float64

	X, Y, Z AxisStyle

	StripDecimals bool
	PadTickX      int
	PadTickY      int

	OptLogX bool
	OptLogY bool
	OptLogZ bool

	PaperSizeW float64
	PaperSizeH float64

	HatchesLineWidth float64
	HatchesSpacing   float64

	Palette        []colors.Index
	PaletteName    string
	NumberContours int
}

// NewStyle returns a style carrying the toolkit defaults.
func NewStyle(name, title string) *Style {
	axis := AxisStyle{
		AxisColor:   colors.Black,
		NDivisions:  510,
		TickLength:  0.03,
		LabelColor:  colors.Black,
		LabelFont:   42,
		LabelOffset: 0.005,
		LabelSize:   0.035,
		TitleColor:  colors.Black,
		TitleFont:   42,
		TitleOffset: 1,
		TitleSize:   0.035,
	}
	return &Style{
		Name:             name,
		Title:            title,
		CanvasColor:      colors.White,
		CanvasDefH:       500,
		CanvasDefW:       700,
		CanvasDefX:       10,
		CanvasDefY:       10,
		PadColor:         colors.White,
		GridColor:        colors.Gray,
		GridStyle:        3,
		GridWidth:        1,
		FrameBorderMode:  1,
		FrameBorderSize:  1,
		FrameFillColor:   colors.White,
		FrameLineColor:   colors.Black,
		FrameLineStyle:   1,
		FrameLineWidth:   1,
		HistLineColor:    colors.Blue + 2,
		HistLineStyle:    1,
		HistLineWidth:    1,
		EndErrorSize:     2,
		MarkerStyle:      1,
		MarkerSize:       1,
		FitFormat:        "5.4g",
		FuncColor:        colors.Red,
		FuncStyle:        1,
		FuncWidth:        2,
		LegendTextSize:   0,
		LegendFont:       42,
		LegendBorderSize: 1,
		LegendFillColor:  colors.White,
		OptStat:          1111,
		StatColor:        colors.White,
		StatFont:         42,
		StatTextColor:    colors.Black,
		StatFormat:       "6.4g",
		StatBorderSize:   1,
		StatH:            0.16,
		StatW:            0.2,
		StatX:            0.98,
		StatY:            0.935,
		PadTopMargin:     0.1,
		PadBottomMargin:  0.1,
		PadLeftMargin:    0.1,
		PadRightMargin:   0.1,
		OptTitle:         1,
		TitleFont:        42,
		TitleColor:       colors.Black,
		TitleTextColor:   colors.Black,
		TitleFillColor:   colors.White,
		X:                axis,
		Y:                axis,
		Z:                axis,
		PaperSizeW:       20,
		PaperSizeH:       26,
		HatchesLineWidth: 1,
		HatchesSpacing:   1,
		PaletteName:      colors.Viridis,
		NumberContours:   20,
	}
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	c := *s
	c.Palette = append([]colors.Index(nil), s.Palette...)
	return &c
}

// Axis returns the style of axis "x", "y" or "z".
func (s *Style) Axis(which byte) *AxisStyle {
	switch which {
	case 'x', 'X':
		return &s.X
	case 'y', 'Y':
		return &s.Y
	default:
		return &s.Z
	}
}
