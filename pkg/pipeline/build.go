package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-hep.org/x/hep/hbook"

	"github.com/cms-cat/cmsstyle-go/pkg/cmsstyle"
	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

const (
	defaultHeadroom = 1.3
	stackRef        = "stack"
)

// Default legend box, in NDC of the main pad.
var defaultLegend = LegendSpec{X1: 0.6, Y1: 0.6, X2: 0.9, Y2: 0.88}

// Plot is a document drawn on a canvas.
type Plot struct {
	Canvas *graphics.Canvas
	// Main carries the frame, the branding and the histograms. Ratio is
	// nil unless the canvas kind is "ratio".
	Main, Ratio *graphics.Pad
	Legend      *graphics.Legend
	Stack       *graphics.Stack
	Objects     map[string]graphics.Object
	// Warnings are problems that did not stop the plot from being drawn.
	Warnings []string
}

func (p *Plot) warn(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			p.warn(e)
		}
		return
	}
	p.Warnings = append(p.Warnings, err.Error())
}

// ParseColor resolves a color name. It accepts the names known to
// colors.Lookup, a wheel name with an offset ("kAzure+2", "kRed-4") and a
// plain color index.
func ParseColor(s string) (colors.Index, error) {
	s = strings.TrimSpace(s)
	if i, ok := colors.Lookup(s); ok {
		return i, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if !colors.Valid(colors.Index(n)) {
			return 0, errors.New(errors.ErrCodeInvalidColor, "unknown color index %d", n)
		}
		return colors.Index(n), nil
	}
	if k := strings.LastIndexAny(s, "+-"); k > 0 {
		base, ok := colors.Lookup(s[:k])
		off, err := strconv.Atoi(s[k:])
		if ok && err == nil {
			return base + colors.Index(off), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidColor, "unknown color %q", s)
}

// Build configures s from the document branding and style, then draws the
// document on a new canvas. Errors that leave the canvas usable, such as a
// missing logo or an unknown property, are returned as warnings.
func Build(s *cmsstyle.Session, doc *Document) (*Plot, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil document")
	}
	p := &Plot{Objects: map[string]graphics.Object{}}

	p.warn(configureBranding(s, doc.Branding))
	if err := configureStyle(s, doc); err != nil {
		return nil, err
	}

	hists, err := buildHistograms(doc)
	if err != nil {
		return nil, err
	}
	graphs := buildGraphs(doc)

	var stacked []cmsstyle.LegendItem
	for _, hs := range doc.Histograms {
		if hs.Stack {
			stacked = append(stacked, cmsstyle.LegendItem{Object: hists[hs.Name], Label: label(hs.Name, hs.Label), Option: legendOption(hs.LegendOption, "f")})
		}
	}
	if len(stacked) > 0 {
		so, err := stackOptions(doc.Stack)
		if err != nil {
			return nil, err
		}
		p.Stack, err = s.BuildStack(itemHists(stacked), so)
		p.warn(err)
		p.Objects[stackRef] = p.Stack
	}

	y, err := yRange(s, doc, p.Stack, hists, graphs)
	if err != nil {
		return nil, err
	}
	if err := p.makeCanvas(s, doc, y); err != nil {
		return nil, err
	}
	if doc.Canvas.LogY {
		p.Main.LogY = true
	}

	if doc.Legend != nil || len(doc.Histograms)+len(doc.Graphs) > 0 {
		p.makeLegend(doc.Legend)
	}
	if p.Stack != nil {
		reverse := doc.Stack != nil && doc.Stack.Reverse
		leg := p.Legend
		inStack := make(map[graphics.Object]bool)
		for _, h := range p.Stack.Hists() {
			inStack[h] = true
		}
		var items []cmsstyle.LegendItem
		for _, it := range stacked {
			if it.Option != "" && inStack[it.Object] {
				items = append(items, it)
			}
		}
		if reverse {
			for i := len(items) - 1; i >= 0; i-- {
				cmsstyle.AddToLegend(leg, items[i])
			}
		} else {
			cmsstyle.AddToLegend(leg, items...)
		}
		cmsstyle.ObjectDraw(p.Main, p.Stack, "", nil)
	}

	statsHist := ""
	if doc.Stats != nil {
		statsHist = doc.Stats.Histogram
	}
	for _, hs := range doc.Histograms {
		h := hists[hs.Name]
		p.Objects[hs.Name] = h
		if hs.Stack {
			continue
		}
		if err := p.style(h, hs.Attrs); err != nil {
			return nil, err
		}
		opt := orDefault(hs.Option, "HIST")
		if hs.Name == statsHist {
			// drawn with SAMES so the pad keeps its stats box
			opt = "SAMES " + opt
		}
		cmsstyle.ObjectDraw(p.Main, h, opt, nil)
		if lo := legendOption(hs.LegendOption, "f"); lo != "" {
			cmsstyle.AddToLegend(p.Legend, cmsstyle.LegendItem{Object: h, Label: label(hs.Name, hs.Label), Option: lo})
		}
	}
	for i, gs := range doc.Graphs {
		g := graphs[i]
		p.Objects[gs.Name] = g
		if err := p.style(g, gs.Attrs); err != nil {
			return nil, err
		}
		cmsstyle.ObjectDraw(p.Main, g, orDefault(gs.Option, "P"), nil)
		if lo := legendOption(gs.LegendOption, "p"); lo != "" {
			cmsstyle.AddToLegend(p.Legend, cmsstyle.LegendItem{Object: g, Label: label(gs.Name, gs.Label), Option: lo})
		}
	}

	if err := p.drawRatios(doc.Ratios, hists); err != nil {
		return nil, err
	}
	if err := p.drawLines(doc.Lines); err != nil {
		return nil, err
	}
	for _, ts := range doc.Texts {
		cmsstyle.DrawText(p.Main, cmsstyle.TextPlacement{
			Text:  ts.Text,
			X:     ts.X,
			Y:     ts.Y,
			Font:  orDefaultInt(ts.Font, 42),
			Size:  orDefaultFloat(ts.Size, 0.04),
			Align: orDefaultInt(ts.Align, 12),
		})
	}

	cmsstyle.UpdatePad(p.Main)
	if doc.Stats != nil {
		p.placeStats(s, doc.Stats)
	}
	if p.Ratio != nil {
		cmsstyle.UpdatePad(p.Ratio)
	}
	cmsstyle.UpdatePad(p.Canvas.Pad)
	return p, nil
}

func configureBranding(s *cmsstyle.Session, b Branding) error {
	var errs []error
	if b.Energy != nil || b.EnergyUnit != "" {
		e := 13.0
		if b.Energy != nil {
			e = *b.Energy
		}
		errs = append(errs, s.SetEnergy(e, b.EnergyUnit))
	}
	if b.Lumi != nil || b.LumiUnit != "" || b.Run != "" {
		lumi := -1.0
		if b.Lumi != nil {
			lumi = *b.Lumi
		}
		round := -1
		if b.Round != nil {
			round = *b.Round
		}
		s.SetLumi(lumi, b.LumiUnit, b.Run, round)
	}
	if b.CmsText != nil || b.CmsTextFont != 0 || b.CmsTextSize != 0 {
		text := s.State().CmsText
		if b.CmsText != nil {
			text = *b.CmsText
		}
		s.SetCmsText(text, b.CmsTextFont, b.CmsTextSize)
	}
	if b.ExtraText != nil || b.ExtraTextFont != 0 {
		text := s.State().ExtraText
		if b.ExtraText != nil {
			text = *b.ExtraText
		}
		s.SetExtraText(text, b.ExtraTextFont)
	}
	for _, info := range b.AdditionalInfo {
		s.AppendAdditionalInfo(info)
	}
	if b.Logo != "" {
		errs = append(errs, s.SetCmsLogoFilename(b.Logo))
	}
	return errors.Join(errs...)
}

func configureStyle(s *cmsstyle.Session, doc *Document) error {
	st := s.ApplyStyle(true)
	if doc.Stats != nil {
		st.OptStat = doc.Stats.OptStat
		if st.OptStat == 0 {
			st.OptStat = 1111
		}
	}
	if err := s.Grid(doc.Style.Grid); err != nil {
		return err
	}
	switch doc.Style.Palette {
	case "cms":
		return s.SetCMSPalette()
	case "alternative":
		_, err := s.SetAlternative2DColor(1)
		return err
	}
	return nil
}

func buildHistograms(doc *Document) (map[string]*graphics.H1, error) {
	out := make(map[string]*graphics.H1, len(doc.Histograms))
	for _, hs := range doc.Histograms {
		lo, hi := doc.Canvas.X[0], doc.Canvas.X[1]
		if len(hs.Range) == 2 {
			lo, hi = hs.Range[0], hs.Range[1]
		}
		if hi <= lo {
			return nil, errors.New(errors.ErrCodeInvalidInput, "histogram %q: empty range [%g, %g]", hs.Name, lo, hi)
		}
		title := label(hs.Name, hs.Label)
		if len(hs.Samples) > 0 {
			hb := hbook.NewH1D(hs.Bins, lo, hi)
			for i, x := range hs.Samples {
				w := 1.0
				if hs.Weights != nil {
					w = hs.Weights[i]
				}
				hb.Fill(x, w)
			}
			out[hs.Name] = graphics.H1FromHBook(hs.Name, title, hb)
			continue
		}
		h := graphics.NewH1(hs.Name, title, len(hs.Contents), lo, hi)
		for i, v := range hs.Contents {
			if hs.Errors != nil {
				h.SetBinError(i+1, hs.Errors[i])
			}
			h.SetBinContent(i+1, v)
		}
		out[hs.Name] = h
	}
	return out, nil
}

func buildGraphs(doc *Document) []*graphics.Graph {
	out := make([]*graphics.Graph, 0, len(doc.Graphs))
	for _, gs := range doc.Graphs {
		var g *graphics.Graph
		if gs.EYLow != nil || gs.EYHigh != nil {
			g = graphics.NewAsymmGraph(gs.Name, gs.X, gs.Y, gs.EYLow, gs.EYHigh)
		} else {
			g = graphics.NewGraph(gs.Name, gs.X, gs.Y, gs.EY)
		}
		g.Title = label(gs.Name, gs.Label)
		out = append(out, g)
	}
	return out
}

func stackOptions(spec *StackSpec) (cmsstyle.StackOptions, error) {
	var so cmsstyle.StackOptions
	if spec == nil {
		return so, nil
	}
	so.Option = spec.Option
	for _, name := range spec.Colors {
		c, err := ParseColor(name)
		if err != nil {
			return so, err
		}
		so.Colors = append(so.Colors, c)
	}
	return so, nil
}

func itemHists(items []cmsstyle.LegendItem) []*graphics.H1 {
	out := make([]*graphics.H1, len(items))
	for i, it := range items {
		out[i] = it.Object.(*graphics.H1)
	}
	return out
}

// yRange returns the configured y range, or one derived from the largest
// extent of what is drawn on the main pad.
func yRange(s *cmsstyle.Session, doc *Document, stack *graphics.Stack, hists map[string]*graphics.H1, graphs []*graphics.Graph) (cmsstyle.Range, error) {
	if len(doc.Canvas.Y) == 2 {
		return cmsstyle.Range{Min: doc.Canvas.Y[0], Max: doc.Canvas.Y[1]}, nil
	}
	var objs []graphics.Object
	if stack != nil {
		objs = append(objs, stack)
	}
	for _, hs := range doc.Histograms {
		if !hs.Stack {
			objs = append(objs, hists[hs.Name])
		}
	}
	for _, g := range graphs {
		objs = append(objs, g)
	}
	top, err := s.MaxY(objs...)
	if err != nil {
		return cmsstyle.Range{}, err
	}
	if top == 0 {
		top = 1
	}
	headroom := orDefaultFloat(doc.Canvas.YHeadroom, defaultHeadroom)
	if doc.Canvas.LogY {
		return cmsstyle.Range{Min: 0.1, Max: top * math.Pow(10, headroom)}, nil
	}
	return cmsstyle.Range{Min: 0, Max: top * headroom}, nil
}

func (p *Plot) makeCanvas(s *cmsstyle.Session, doc *Document, y cmsstyle.Range) error {
	cs := doc.Canvas
	opts := []cmsstyle.CanvasOption{cmsstyle.Square(!cs.Wide)}
	if cs.IPos != nil {
		opts = append(opts, cmsstyle.IPos(*cs.IPos))
	}
	if cs.ExtraSpace != 0 {
		opts = append(opts, cmsstyle.ExtraSpace(cs.ExtraSpace))
	}
	if cs.ZAxis {
		opts = append(opts, cmsstyle.WithZAxis())
	}
	if cs.ScaleLumi != 0 {
		opts = append(opts, cmsstyle.ScaleLumi(cs.ScaleLumi))
	}
	if cs.YTitleOffset != 0 {
		opts = append(opts, cmsstyle.YTitleOffset(cs.YTitleOffset))
	}
	x := cmsstyle.Range{Min: cs.X[0], Max: cs.X[1]}

	var (
		c   *graphics.Canvas
		err error
	)
	if cs.Kind == "ratio" {
		r := cmsstyle.Range{Min: cs.Ratio[0], Max: cs.Ratio[1]}
		c, err = s.MakeDiCanvas(doc.Name, x, y, r, cs.XTitle, cs.YTitle, orDefault(cs.RatioTitle, "Ratio"), opts...)
	} else {
		c, err = s.MakeCanvas(doc.Name, x, y, cs.XTitle, cs.YTitle, opts...)
	}
	if c == nil {
		return err
	}
	p.warn(err)
	p.Canvas, p.Main = c, c.Pad
	if cs.Kind == "ratio" {
		up, dw, err := cmsstyle.DiPads(c)
		if err != nil {
			return err
		}
		p.Main, p.Ratio = up, dw
	}
	return nil
}

func (p *Plot) makeLegend(spec *LegendSpec) {
	ls := defaultLegend
	var opts []cmsstyle.TextOption
	if spec != nil {
		if spec.X2 > spec.X1 && spec.Y2 > spec.Y1 {
			ls.X1, ls.Y1, ls.X2, ls.Y2 = spec.X1, spec.Y1, spec.X2, spec.Y2
		}
		if spec.Columns > 0 {
			opts = append(opts, cmsstyle.Columns(spec.Columns))
		}
		if spec.TextSize > 0 {
			opts = append(opts, cmsstyle.WithTextSize(spec.TextSize))
		}
	}
	p.Legend = cmsstyle.MakeLegend(p.Main, ls.X1, ls.Y1, ls.X2, ls.Y2, opts...)
	if spec != nil && spec.Header != "" {
		cmsstyle.LegendHeader(p.Legend, spec.Header)
	}
}

// style applies the colors and named properties of a to obj.
func (p *Plot) style(obj graphics.Object, a Attrs) error {
	props := cmsstyle.Properties{}
	for _, c := range []struct {
		name string
		prop cmsstyle.Property
	}{
		{a.LineColor, cmsstyle.LineColor},
		{a.FillColor, cmsstyle.FillColor},
		{a.MarkerColor, cmsstyle.MarkerColor},
	} {
		if c.name == "" {
			continue
		}
		idx, err := ParseColor(c.name)
		if err != nil {
			return fmt.Errorf("%s: %w", obj.Name(), err)
		}
		props[c.prop] = float64(idx)
	}
	if a.FillColor != "" && a.Properties["FillStyle"] == 0 {
		props[cmsstyle.FillStyle] = 1001
	}
	cmsstyle.ApplyProperties(obj, props)
	if a.Alpha > 0 {
		if fc, ok := obj.(graphics.FillCarrier); ok {
			fc.FillAttributes().FillAlpha = a.Alpha
		}
	}
	if len(a.Properties) > 0 {
		r := cmsstyle.ApplyNamed(obj, a.Properties)
		for _, name := range r.Ignored {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s: property %s ignored", obj.Name(), name))
		}
	}
	return nil
}

// Ratio divides num by den bin by bin. Relative errors add in quadrature;
// bins with an empty denominator are left empty.
func Ratio(name string, num, den *graphics.H1) (*graphics.H1, error) {
	if num.NBins() != den.NBins() || num.XMin != den.XMin || num.XMax != den.XMax {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot divide %q by %q: different binning", num.Name(), den.Name())
	}
	r := num.Clone(name)
	for i := 1; i <= num.NBins(); i++ {
		n, d := num.BinContent(i), den.BinContent(i)
		if d == 0 {
			r.SetBinError(i, 0)
			r.SetBinContent(i, 0)
			continue
		}
		v := n / d
		var e float64
		if n != 0 {
			e = math.Abs(v) * math.Hypot(num.BinError(i)/n, den.BinError(i)/d)
		}
		r.SetBinError(i, e)
		r.SetBinContent(i, v)
	}
	return r, nil
}

func (p *Plot) ratioOperand(name string, hists map[string]*graphics.H1) (*graphics.H1, error) {
	if name != stackRef {
		return hists[name], nil
	}
	if p.Stack == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "ratio refers to the stack but no histogram is stacked")
	}
	cum := p.Stack.Cumulative()
	return cum[len(cum)-1], nil
}

func (p *Plot) drawRatios(specs []RatioSpec, hists map[string]*graphics.H1) error {
	for _, rs := range specs {
		num, err := p.ratioOperand(rs.Numerator, hists)
		if err != nil {
			return err
		}
		den, err := p.ratioOperand(rs.Denominator, hists)
		if err != nil {
			return err
		}
		r, err := Ratio(rs.Numerator+"_over_"+rs.Denominator, num, den)
		if err != nil {
			return err
		}
		r.FillStyle = 0
		r.LineColor, r.MarkerColor, r.MarkerStyle = colors.Black, colors.Black, 20
		if err := p.style(r, rs.Attrs); err != nil {
			return err
		}
		p.Objects[r.Name()] = r
		cmsstyle.ObjectDraw(p.Ratio, r, orDefault(rs.Option, "E1 P"), nil)
	}
	return nil
}

func (p *Plot) drawLines(specs []LineSpec) error {
	for _, ls := range specs {
		pad := p.Main
		switch ls.Pad {
		case "", "main":
		case "ratio":
			if p.Ratio == nil {
				return errors.New(errors.ErrCodeInvalidInput, "line on the ratio pad of a single canvas")
			}
			pad = p.Ratio
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown pad %q", ls.Pad)
		}
		c := colors.Black
		if ls.Color != "" {
			var err error
			if c, err = ParseColor(ls.Color); err != nil {
				return err
			}
		}
		cmsstyle.DrawLine(pad, graphics.NewLine(ls.X1, ls.Y1, ls.X2, ls.Y2), c, orDefaultInt(ls.Style, 1), orDefaultFloat(ls.Width, 1))
	}
	return nil
}

func (p *Plot) placeStats(s *cmsstyle.Session, spec *StatsSpec) {
	props := cmsstyle.Properties{}
	for name, v := range spec.Properties {
		prop, ok := cmsstyle.ParseProperty(name)
		if !ok {
			p.Warnings = append(p.Warnings, fmt.Sprintf("stats: property %s ignored", name))
			continue
		}
		props[prop] = v
	}
	_, err := s.ChangeStatsBox(p.Main, cmsstyle.Corner(orDefault(spec.Corner, "tr")), props)
	p.warn(err)
}

func label(name, l string) string { return orDefault(l, name) }

func legendOption(opt, def string) string {
	if opt == "-" {
		return ""
	}
	return orDefault(opt, def)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
