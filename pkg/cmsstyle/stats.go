package cmsstyle

import (
	"strings"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// StatsPosition places a stats box. A non-empty Corner ("tr", "tl", "br"
// or "bl") puts the box inside the corresponding corner of the frame, with
// WidthScale and HeightScale scaling the frame size used for it (0 means
// 1). Otherwise the non-nil NDC coordinates are set and the rest kept.
type StatsPosition struct {
	Corner      string
	WidthScale  float64
	HeightScale float64

	X1, Y1, X2, Y2 *float64
}

// At returns a position setting all four NDC coordinates.
func At(x1, y1, x2, y2 float64) StatsPosition {
	return StatsPosition{X1: &x1, Y1: &y1, X2: &x2, Y2: &y2}
}

// Corner returns a corner position with unit scales.
func Corner(code string) StatsPosition { return StatsPosition{Corner: code} }

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// cornerBox computes the NDC box of a stats box with the given text size
// and number of lines. ok is false for an unknown corner.
func cornerBox(g PadGeometry, pos StatsPosition, textSize float64, lines int) (x1, y1, x2, y2 float64, ok bool) {
	ts := 0.0
	if textSize != 0 {
		ts = 6 * (textSize - 0.025)
	}
	xsize := (1 - g.R - g.L) * orOne(pos.WidthScale)
	ysize := (1 - g.B - g.T) * orOne(pos.HeightScale)
	yfactor := 0.05 + 0.05*float64(lines)

	right1, right2 := 1-g.R-xsize*0.33-ts, 1-g.R-xsize*0.03
	left1, left2 := g.L+xsize*0.03, g.L+xsize*0.33+ts
	top1, top2 := 1-g.T-ysize*yfactor-ts, 1-g.T-ysize*0.03
	bottom1, bottom2 := g.B+ysize*0.03, g.B+ysize*yfactor+ts

	switch strings.ToLower(pos.Corner) {
	case "tr":
		return right1, top1, right2, top2, true
	case "tl":
		return left1, top1, left2, top2, true
	case "bl":
		return left1, bottom1, left2, bottom2, true
	case "br":
		return right1, bottom1, right2, bottom2, true
	}
	return 0, 0, 0, 0, false
}

// ChangeStatsBox updates pad so that its stats box exists, applies props
// to the box and moves it to pos. It returns STATS_MISSING when the pad has
// no stats box and INVALID_POSITION for an unknown corner; in the latter
// case the properties are still applied.
func (s *Session) ChangeStatsBox(pad *graphics.Pad, pos StatsPosition, props Properties) (*graphics.Stats, error) {
	if pad == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil pad")
	}
	pad.Update()
	st, ok := pad.Primitive("stats").(*graphics.Stats)
	if !ok {
		s.logger.Error("no stats box on pad: enable it with OptStat and draw with SAMES", "pad", pad.Name())
		return nil, errors.New(errors.ErrCodeStatsMissing, "pad %q has no stats box", pad.Name())
	}

	ApplyProperties(st, props)

	var err error
	if pos.Corner != "" {
		x1, y1, x2, y2, ok := cornerBox(GeometryOf(pad), pos, st.TextSize, len(st.Lines()))
		if ok {
			st.X1NDC, st.Y1NDC, st.X2NDC, st.Y2NDC = x1, y1, x2, y2
		} else {
			s.logger.Error("invalid code to position the stats box", "code", pos.Corner)
			err = errors.New(errors.ErrCodeInvalidPosition, "invalid stats box position %q", pos.Corner)
		}
	} else {
		for _, c := range []struct {
			v   *float64
			dst *float64
		}{
			{pos.X1, &st.X1NDC}, {pos.Y1, &st.Y1NDC}, {pos.X2, &st.X2NDC}, {pos.Y2, &st.Y2NDC},
		} {
			if c.v != nil {
				*c.dst = *c.v
			}
		}
	}

	UpdatePad(pad)
	return st, err
}
