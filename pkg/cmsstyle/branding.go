package cmsstyle

import (
	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// Relative offsets of the branding block inside the frame.
const (
	relPosX    = 0.035
	relPosY    = 0.035
	relExtraDY = 1.2
)

// Alignment is a decoded branding position code.
type Alignment struct {
	// OutOfFrame places the experiment text above the frame.
	OutOfFrame bool
	// HorizontalZone is 1 (left), 2 (center) or 3 (right).
	HorizontalZone int
	// VerticalZone is 1 (bottom) for code 0 and 3 (top) otherwise.
	VerticalZone int
	// Flag is the text alignment 10*HorizontalZone + VerticalZone.
	Flag int
}

// DecodeAlignment decodes a position code of the form 10*h + v.
func DecodeAlignment(code int) Alignment {
	a := Alignment{
		OutOfFrame:     code/10 == 0,
		HorizontalZone: max(code/10, 1),
		VerticalZone:   3,
	}
	if code == 0 {
		a.VerticalZone = 1
	}
	a.Flag = 10*a.HorizontalZone + a.VerticalZone
	return a
}

// PadGeometry holds the margins of a pad and its size in pixels.
type PadGeometry struct {
	L, R, T, B float64
	W, H       float64
}

// GeometryOf reads the geometry of p.
func GeometryOf(p *graphics.Pad) PadGeometry {
	return PadGeometry{
		L: p.LeftMargin,
		R: p.RightMargin,
		T: p.TopMargin,
		B: p.BottomMargin,
		W: p.PixelWidth(),
		H: p.PixelHeight(),
	}
}

// TextPlacement is one text of the branding block, in pad NDC.
type TextPlacement struct {
	Text  string
	X, Y  float64
	Font  int
	Align int
	Size  float64
}

// LogoPlacement is the NDC rectangle of the logo image.
type LogoPlacement struct {
	X0, Y0, X1, Y1 float64
	Path           string
}

// Branding is the computed branding block of a pad.
type Branding struct {
	Texts    []TextPlacement
	Logo     *LogoPlacement
	Warnings []string
}

// BrandingLayout computes the branding block for a pad with geometry g.
// code is the alignment code and lumiScale scales the luminosity caption.
// It has no side effects.
func (s *Session) BrandingLayout(g PadGeometry, code int, lumiScale float64) Branding {
	st := s.state
	al := DecodeAlignment(code)
	var out Branding

	l, r, t, b := g.L, g.R, g.T, g.B
	outY := 1 - t + st.LumiTextOffset*t

	lumi := st.LumiText
	if st.EnergyText != "" {
		lumi += " (" + st.EnergyText + ")"
	}
	out.Texts = append(out.Texts, TextPlacement{
		Text: lumi, X: 1 - r, Y: outY, Font: 42, Align: 31,
		Size: st.LumiTextSize * t * lumiScale,
	})

	var posX float64
	switch code % 10 {
	case 0, 1:
		posX = l + relPosX*(1-l-r)
	case 2:
		posX = l + 0.5*(1-l-r)
	case 3:
		posX = 1 - r - relPosX*(1-l-r)
	}
	posY := 1 - t - relPosY*(1-t-b)

	cmsSize := st.CmsTextSize * t
	extraSize := st.ExtraOverCmsTextSize * cmsSize

	if al.OutOfFrame {
		if st.LogoPath != "" {
			out.Warnings = append(out.Warnings, "logo outside the frame is not supported")
		}
		if st.CmsText != "" {
			out.Texts = append(out.Texts, TextPlacement{
				Text: st.CmsText, X: l, Y: outY, Font: st.CmsTextFont, Align: 11, Size: cmsSize,
			})
			scale := 1.0
			if g.W > g.H {
				scale = g.H / g.W
			}
			l += 0.043 * (float64(st.ExtraTextFont) * t * st.CmsTextSize) * scale
		}
		if st.ExtraText != "" {
			out.Texts = append(out.Texts, TextPlacement{
				Text: st.ExtraText, X: l, Y: outY, Font: st.ExtraTextFont, Align: al.Flag, Size: extraSize,
			})
		}
		if len(st.AdditionalInfo) > 0 {
			out.Warnings = append(out.Warnings, "additional info outside the frame is not supported")
		}
		return out
	}

	if st.LogoPath != "" {
		px := l + 0.045*(1-l-r)*g.W/g.H
		py := 1 - t - 0.045*(1-t-b)
		out.Logo = &LogoPlacement{X0: px, Y0: py - 0.15, X1: px + 0.15*g.H/g.W, Y1: py, Path: st.LogoPath}
		return out
	}

	if st.CmsText != "" {
		out.Texts = append(out.Texts, TextPlacement{
			Text: st.CmsText, X: posX, Y: posY, Font: st.CmsTextFont, Align: al.Flag, Size: cmsSize,
		})
		posY -= relExtraDY * cmsSize
	}
	if st.ExtraText != "" {
		out.Texts = append(out.Texts, TextPlacement{
			Text: st.ExtraText, X: posX, Y: posY, Font: st.ExtraTextFont, Align: al.Flag, Size: extraSize,
		})
	} else {
		posY += relExtraDY * cmsSize
	}
	for i, info := range st.AdditionalInfo {
		y := posY - 0.004 - (relExtraDY*extraSize/2+0.02)*float64(i+1)
		out.Texts = append(out.Texts, TextPlacement{
			Text: info, X: posX, Y: y, Font: st.AdditionalInfoFont, Align: al.Flag, Size: extraSize,
		})
	}
	return out
}

// DrawBranding draws the branding block on pad and updates it. Placement
// warnings are logged; logo failures are logged and returned.
func (s *Session) DrawBranding(pad *graphics.Pad, code int, lumiScale float64) error {
	if pad == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil pad")
	}
	layout := s.BrandingLayout(GeometryOf(pad), code, lumiScale)
	for _, w := range layout.Warnings {
		s.logger.Warn(w, "pad", pad.Name(), "pos", code)
	}
	for _, tp := range layout.Texts {
		DrawText(pad, tp)
	}
	var err error
	if lg := layout.Logo; lg != nil {
		err = s.AddLogo(pad, lg.X0, lg.Y0, lg.X1, lg.Y1, "")
	}
	UpdatePad(pad)
	return err
}

// DrawText draws tp on pad as a black NDC text.
func DrawText(pad *graphics.Pad, tp TextPlacement) *graphics.Text {
	t := graphics.NewText(tp.X, tp.Y, tp.Text, graphics.TextAttr{
		TextColor: colors.Black,
		TextFont:  tp.Font,
		TextSize:  tp.Size,
		TextAlign: tp.Align,
	})
	pad.Draw(t, "")
	return t
}

// AddLogo draws the configured logo in a sub-pad of pad spanning the given
// NDC rectangle. A non-empty file replaces the configured logo first. The
// pad must be a canvas.
func (s *Session) AddLogo(pad *graphics.Pad, x0, y0, x1, y1 float64, file string) error {
	if file != "" {
		if err := s.SetCmsLogoFilename(file); err != nil {
			return err
		}
	}
	if s.state.LogoPath == "" {
		s.logger.Error("cannot add the logo: no logo file is set")
		return errors.New(errors.ErrCodeLogoNotFound, "no logo file is set")
	}
	if pad == nil || !pad.IsCanvas() {
		s.logger.Error("the logo picture can only be drawn on a canvas")
		return errors.New(errors.ErrCodeNotACanvas, "logo requires a canvas")
	}

	sub := pad.NewSubPad("logo", x0, y0, x1, y1)
	sub.SetMargins(0, 0, 0, 0)
	sub.FillStyle = 0
	sub.Draw(graphics.NewImage(s.state.LogoPath), "X")
	sub.Modified()
	UpdatePad(pad)
	return nil
}
