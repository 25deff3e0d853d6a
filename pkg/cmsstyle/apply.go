package cmsstyle

import (
	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// StyleName is the name of the style installed by ApplyStyle.
const StyleName = "cmsStyle"

// palette2DSize is the number of colors in the alternative 2-D palette.
const palette2DSize = 200

// ApplyStyle discards the current style and installs a fresh CMS style.
// With force set, every frame drawn afterwards has its axis attributes
// reset to the style values. Canvases created before the call keep the
// style they were created with.
func (s *Session) ApplyStyle(force bool) *graphics.Style {
	st := graphics.NewStyle(StyleName, "Style for P-CMS")
	st.Force = force

	st.CanvasBorderMode = 0
	st.CanvasColor = colors.White
	st.CanvasDefH, st.CanvasDefW = 600, 600
	st.CanvasDefX, st.CanvasDefY = 0, 0

	st.PadBorderMode = 0
	st.PadColor = colors.White
	st.PadGridX, st.PadGridY = false, false
	st.GridColor = 0
	st.GridStyle = 3
	st.GridWidth = 1

	st.FrameBorderMode = 0
	st.FrameBorderSize = 1
	st.FrameFillColor = 0
	st.FrameFillStyle = 0
	st.FrameLineColor = 1
	st.FrameLineStyle = 1
	st.FrameLineWidth = 1

	st.HistLineColor = 1
	st.HistLineStyle = 0
	st.HistLineWidth = 1
	st.EndErrorSize = 2
	st.MarkerStyle = 20
	st.MarkerSize = 1

	st.OptFit = 1
	st.FitFormat = "5.4g"
	st.FuncColor = 2
	st.FuncStyle = 1
	st.FuncWidth = 1
	st.OptDate = 0

	st.LegendTextSize = 0.04
	st.LegendFont = 42
	st.LegendBorderSize = 0
	st.LegendFillColor = 0

	st.OptFile = 0
	st.OptStat = 0
	st.StatColor = colors.White
	st.StatFont = 42
	st.StatFontSize = 0.025
	st.StatTextColor = 1
	st.StatFormat = "6.4g"
	st.StatBorderSize = 1
	st.StatH = 0.1
	st.StatW = 0.15

	st.PadTopMargin = 0.05
	st.PadBottomMargin = 0.13
	st.PadLeftMargin = 0.16
	st.PadRightMargin = 0.02

	st.OptTitle = 0
	st.TitleFont = 42
	st.TitleColor = 1
	st.TitleTextColor = 1
	st.TitleFillColor = 10
	st.TitleFontSize = 0.05

	for _, ax := range []*graphics.AxisStyle{&st.X, &st.Y, &st.Z} {
		ax.TitleColor = 1
		ax.TitleFont = 42
		ax.TitleSize = 0.06
		ax.LabelColor = 1
		ax.LabelFont = 42
		ax.LabelOffset = 0.012
		ax.LabelSize = 0.05
		ax.AxisColor = 1
		ax.TickLength = 0.03
		ax.NDivisions = 510
	}
	st.X.TitleOffset = 1.1
	st.Y.TitleOffset = 1.35

	st.StripDecimals = true
	st.PadTickX, st.PadTickY = 1, 1

	st.OptLogX, st.OptLogY, st.OptLogZ = false, false, false

	st.PaperSizeW, st.PaperSizeH = 20, 20
	st.HatchesLineWidth = 2
	st.HatchesSpacing = 1.3

	s.style = st
	s.logger.Debug("applied style", "name", st.Name, "force", force)
	return st
}

// Style returns the style installed by ApplyStyle, or nil.
func (s *Session) Style() *graphics.Style { return s.style }

// styleOrApply returns the current style, installing a forced CMS style
// first when none is set.
func (s *Session) styleOrApply() *graphics.Style {
	if s.style == nil {
		return s.ApplyStyle(true)
	}
	return s.style
}

// Grid turns the pad grid of the current style on or off.
func (s *Session) Grid(on bool) error {
	if s.style == nil {
		s.logger.Error("the CMS style must be set before changing the grid")
		return errors.New(errors.ErrCodeStyleNotSet, "style must be applied before calling Grid")
	}
	s.style.PadGridX, s.style.PadGridY = on, on
	return nil
}

// SetAlternative2DColor installs the alternative 2-D palette on the
// current style, applying the CMS style first if needed. The palette
// colors are registered once per session; alpha only affects that first
// registration.
func (s *Session) SetAlternative2DColor(alpha float64) ([]colors.Index, error) {
	if s.palette2D == nil {
		idx, err := colors.RegisterGradient(colors.Alternative2D, palette2DSize, alpha)
		if err != nil {
			s.logger.Error("cannot build alternative palette", "err", err)
			return nil, err
		}
		s.palette2D = idx
	}
	st := s.styleOrApply()
	st.Palette = append([]colors.Index(nil), s.palette2D...)
	st.PaletteName = "alternative"
	st.NumberContours = len(s.palette2D)
	return st.Palette, nil
}

// SetCMSPalette selects the Viridis palette on the current style.
func (s *Session) SetCMSPalette() error {
	if s.style == nil {
		s.logger.Error("the CMS style must be set before selecting the palette")
		return errors.New(errors.ErrCodeStyleNotSet, "style must be applied before calling SetCMSPalette")
	}
	s.style.Palette = nil
	s.style.PaletteName = colors.Viridis
	return nil
}
