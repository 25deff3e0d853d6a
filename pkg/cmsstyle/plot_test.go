package cmsstyle

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

func hist(name string, contents ...float64) *graphics.H1 {
	h := graphics.NewH1(name, name, len(contents), 0, float64(len(contents)))
	for i, v := range contents {
		h.SetBinContent(i+1, v)
	}
	return h
}

func TestMakeLegend(t *testing.T) {
	pad := graphics.NewCanvas("c", "", 600, 600, nil).Pad
	leg := MakeLegend(pad, 0.5, 0.6, 0.9, 0.9, Columns(2), WithTextSize(0.03))
	if pad.Primitive(leg.Name()) != leg {
		t.Error("legend not drawn on the pad")
	}
	if leg.BorderSize != 0 || leg.FillStyle != 0 || leg.FillColor != 0 {
		t.Errorf("legend box: border %d fill %d/%d", leg.BorderSize, leg.FillStyle, leg.FillColor)
	}
	if leg.TextSize != 0.03 || leg.TextFont != 42 || leg.NColumns != 2 {
		t.Errorf("legend text: %+v columns %d", leg.TextAttr, leg.NColumns)
	}

	h1, h2 := hist("a", 1), hist("b", 2)
	AddToLegend(leg, LegendItem{h1, "A", "f"}, LegendItem{h2, "B", "l"})
	LegendHeader(leg, "Header")
	LegendHeader(leg, "Replaced", WithTextFont(62))
	LegendHeader(leg, "Footer", AppendHeader())

	var labels []string
	for _, e := range leg.Entries() {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"Replaced", "A", "B", "Footer"}, labels); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
	head := leg.Entries()[0]
	if !head.IsHeader() || head.TextFont != 62 || head.TextAlign != 12 || head.TextSize != 0.04 {
		t.Errorf("header = %+v", head)
	}
}

func TestMakeLegendNilPad(t *testing.T) {
	if leg := MakeLegend(nil, 0, 0, 1, 1); leg == nil {
		t.Fatal("legend should be created without a pad")
	}
}

func TestSameOption(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "SAME"},
		{"HIST", "SAMEHIST"},
		{"SAME E", "SAME E"},
		{"HIST SAME", "HIST SAME"},
		{"S", "SAMES"},
	}
	for _, tt := range tests {
		if got := sameOption(tt.in); got != tt.want {
			t.Errorf("sameOption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDraw(t *testing.T) {
	pad := graphics.NewCanvas("c", "", 600, 600, nil).Pad
	h := hist("h", 1, 2)
	d := DefaultDrawStyle()
	d.MarkerColor = colors.Red
	d.Alpha = 0.5

	r := Draw(pad, h, "HIST", d)
	if h.LineColor != colors.Red {
		t.Errorf("line color should follow the marker color, got %d", h.LineColor)
	}
	if h.FillColor != colors.Yellow+1 || h.FillStyle != 1001 || h.MarkerStyle != 20 {
		t.Errorf("attributes = %+v %+v", h.FillAttr, h.MarkerAttr)
	}
	if h.FillAlpha != 0.5 {
		t.Errorf("FillAlpha = %v", h.FillAlpha)
	}
	if len(r.Applied) != 8 || len(r.Ignored) != 0 {
		t.Errorf("result = %+v", r)
	}
	prims := pad.Primitives()
	if got := prims[len(prims)-1].Option; got != "SAMEHIST" {
		t.Errorf("draw option = %q", got)
	}
}

func TestDrawLine(t *testing.T) {
	pad := graphics.NewCanvas("c", "", 600, 600, nil).Pad
	l := graphics.NewLine(0, 1, 10, 1)
	DrawLine(pad, l, colors.Gray, 2, 3)
	if l.LineColor != colors.Gray || l.LineStyle != 2 || l.LineWidth != 3 {
		t.Errorf("line = %+v", l.LineAttr)
	}
	if pad.Primitive("TLine") != l {
		t.Error("line not drawn")
	}
}

func TestObjectDraw(t *testing.T) {
	pad := graphics.NewCanvas("c", "", 600, 600, nil).Pad
	g := graphics.NewGraph("g", []float64{1}, []float64{1}, nil)
	r := ObjectDraw(pad, g, "P", Properties{MarkerStyle: 21, TextFont: 42})
	if g.MarkerStyle != 21 {
		t.Errorf("MarkerStyle = %d", g.MarkerStyle)
	}
	if diff := cmp.Diff([]string{"TextFont"}, r.Ignored); diff != "" {
		t.Errorf("ignored (-want +got):\n%s", diff)
	}
}

func TestBuildStack(t *testing.T) {
	s := newTestSession(t)
	hs := []*graphics.H1{hist("a", 1), hist("b", 2), hist("c", 3)}
	st, err := s.BuildStack(hs, StackOptions{})
	if err != nil {
		t.Fatalf("BuildStack: %v", err)
	}

	if st.Title != "STACK" || len(st.Hists()) != 3 {
		t.Errorf("stack %q with %d hists", st.Title, len(st.Hists()))
	}
	want := colors.PetroffSet(3)
	for i, h := range hs {
		if h.FillColor != want[i] || h.FillStyle != 1001 {
			t.Errorf("hist %d: fill %d/%d, want %d/1001", i, h.FillColor, h.FillStyle, want[i])
		}
	}
}

func TestBuildStackColorsAndProperties(t *testing.T) {
	s := newTestSession(t)
	hs := []*graphics.H1{hist("a", 1), hist("b", 2), hist("c", 3)}
	pal := []colors.Index{colors.Red, colors.Blue}
	_, _ = s.BuildStack(hs, StackOptions{
		Colors:     pal,
		Option:     "NOSTACK",
		Properties: Properties{LineColor: -1, LineWidth: 2},
	})
	if hs[0].LineColor != colors.Red || hs[1].LineColor != colors.Blue || hs[2].LineColor != colors.Red {
		t.Errorf("line colors = %d %d %d", hs[0].LineColor, hs[1].LineColor, hs[2].LineColor)
	}
	if hs[2].LineWidth != 2 {
		t.Errorf("LineWidth = %v", hs[2].LineWidth)
	}
	if hs[0].FillStyle != 0 {
		t.Error("explicit properties replace the default fill")
	}

	h := hist("d", 1)
	before := h.FillAttr
	_, _ = s.BuildStack([]*graphics.H1{h}, StackOptions{NoDefault: true})
	if h.FillAttr != before {
		t.Error("NoDefault should leave the histogram untouched")
	}
}

func TestBuildStackSkipsMismatchedBinning(t *testing.T) {
	s := newTestSession(t)
	a := hist("a", 1, 1, 1, 1)
	b := hist("b", 10, 10)
	c := hist("c", 2, 2, 2, 2)

	st, err := s.BuildStack([]*graphics.H1{a, b, nil, c}, StackOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, stackNames(st)); diff != "" {
		t.Errorf("stacked (-want +got):\n%s", diff)
	}
	if got := st.Maximum(); got != 3 {
		t.Errorf("Maximum = %v, want 3", got)
	}
	if b.FillStyle == 1001 {
		t.Error("a skipped histogram should not be styled")
	}
}

func TestBuildAndDrawStackMismatchedLegend(t *testing.T) {
	s := newTestSession(t)
	leg := MakeLegend(nil, 0, 0, 1, 1)
	var nilHist *graphics.H1
	items := []LegendItem{
		{hist("a", 1, 1), "A", "f"},
		{hist("b", 5), "B", "f"},
		{nilHist, "N", "f"},
	}

	st, err := s.BuildAndDrawStack(nil, items, leg, false, StackOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !errors.Is(err, errors.ErrCodeUnsupportedObject) {
		t.Errorf("err = %v, want INVALID_INPUT and UNSUPPORTED_OBJECT", err)
	}
	if len(st.Hists()) != 1 {
		t.Errorf("stacked %d hists, want 1", len(st.Hists()))
	}
	var labels []string
	for _, e := range leg.Entries() {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"A"}, labels); diff != "" {
		t.Errorf("legend (-want +got):\n%s", diff)
	}
}

func stackNames(st *graphics.Stack) []string {
	var names []string
	for _, h := range st.Hists() {
		names = append(names, h.Name())
	}
	return names
}

func TestBuildAndDrawStack(t *testing.T) {
	s := newTestSession(t)
	pad := graphics.NewCanvas("c", "", 600, 600, nil).Pad
	leg := MakeLegend(nil, 0, 0, 1, 1)
	g := graphics.NewGraph("g", nil, nil, nil)
	items := []LegendItem{
		{hist("a", 1), "A", "f"},
		{g, "G", "p"},
		{hist("b", 2), "B", "f"},
	}

	st, err := s.BuildAndDrawStack(pad, items, leg, true, StackOptions{})
	if !errors.Is(err, errors.ErrCodeUnsupportedObject) {
		t.Errorf("err = %v, want UNSUPPORTED_OBJECT", err)
	}
	if len(st.Hists()) != 2 {
		t.Errorf("stacked %d hists", len(st.Hists()))
	}
	var labels []string
	for _, e := range leg.Entries() {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"B", "A"}, labels); diff != "" {
		t.Errorf("legend order (-want +got):\n%s", diff)
	}
	if pad.Primitive("hstack") != st {
		t.Error("stack not drawn")
	}
}

func TestMaxY(t *testing.T) {
	s := newTestSession(t)
	h := hist("h", 10, 20, 5)
	g := graphics.NewGraph("g", []float64{1, 2}, []float64{1, 30}, []float64{0.5, 2})
	a, b := hist("a", 10, 1), hist("b", 15, 1)
	st := graphics.NewStack("s", "")
	st.Add(a)
	st.Add(b)

	tests := []struct {
		name string
		objs []graphics.Object
		want float64
	}{
		{"empty", nil, 0},
		{"histogram", []graphics.Object{h}, 20 + math.Sqrt(20)},
		{"graph", []graphics.Object{h, g}, 32},
		{"stack", []graphics.Object{st}, 25},
		{"negative", []graphics.Object{hist("n", -3)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.MaxY(tt.objs...)
			if err != nil {
				t.Fatalf("MaxY: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("MaxY (-want +got):\n%s", diff)
			}
		})
	}

	got, err := s.MaxY(h, graphics.NewLine(0, 0, 1, 100))
	if !errors.Is(err, errors.ErrCodeUnsupportedObject) {
		t.Errorf("err = %v, want UNSUPPORTED_OBJECT", err)
	}
	if diff := cmp.Diff(20+math.Sqrt(20), got, approx); diff != "" {
		t.Errorf("unsupported objects contribute nothing (-want +got):\n%s", diff)
	}

	var nilHist *graphics.H1
	var nilGraph *graphics.Graph
	got, err = s.MaxY(nilHist, h, nilGraph, nil)
	if !errors.Is(err, errors.ErrCodeUnsupportedObject) {
		t.Errorf("nil objects: err = %v, want UNSUPPORTED_OBJECT", err)
	}
	if diff := cmp.Diff(20+math.Sqrt(20), got, approx); diff != "" {
		t.Errorf("nil objects contribute nothing (-want +got):\n%s", diff)
	}
}

func statsCanvas(t *testing.T, s *Session) *graphics.Canvas {
	t.Helper()
	s.ApplyStyle(true).OptStat = 1111
	c, err := s.MakeCanvas("c", Range{0, 3}, Range{0, 30}, "x", "y")
	if err != nil {
		t.Fatal(err)
	}
	c.Draw(hist("h", 10, 20, 5), "HIST")
	return c
}

func TestChangeStatsBoxCorner(t *testing.T) {
	s := newTestSession(t)
	c := statsCanvas(t, s)

	st, err := s.ChangeStatsBox(c.Pad, Corner("tr"), Properties{TextColor: float64(colors.Red)})
	if err != nil {
		t.Fatalf("ChangeStatsBox: %v", err)
	}
	if len(st.Lines()) != 4 {
		t.Fatalf("stats lines = %q", st.Lines())
	}
	if st.TextColor != colors.Red {
		t.Errorf("TextColor = %d", st.TextColor)
	}
	xsize, ysize := 1-0.04-0.14, 1-0.145-0.07
	want := []float64{0.96 - 0.33*xsize, 0.93 - 0.25*ysize, 0.96 - 0.03*xsize, 0.93 - 0.03*ysize}
	got := []float64{st.X1NDC, st.Y1NDC, st.X2NDC, st.Y2NDC}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("box (-want +got):\n%s", diff)
	}
}

func TestChangeStatsBoxTextSize(t *testing.T) {
	s := newTestSession(t)
	c := statsCanvas(t, s)

	st, err := s.ChangeStatsBox(c.Pad, StatsPosition{Corner: "BL", WidthScale: 0.5}, Properties{TextSize: 0.04})
	if err != nil {
		t.Fatalf("ChangeStatsBox: %v", err)
	}
	ts := 6 * (0.04 - 0.025)
	xsize, ysize := 0.5*(1-0.04-0.14), 1-0.145-0.07
	want := []float64{0.14 + 0.03*xsize, 0.145 + 0.03*ysize, 0.14 + 0.33*xsize + ts, 0.145 + 0.25*ysize + ts}
	got := []float64{st.X1NDC, st.Y1NDC, st.X2NDC, st.Y2NDC}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("box (-want +got):\n%s", diff)
	}
}

func TestChangeStatsBoxExplicit(t *testing.T) {
	s := newTestSession(t)
	c := statsCanvas(t, s)

	pos := At(0.1, 0.2, 0.3, 0.4)
	pos.Y2 = nil
	st, err := s.ChangeStatsBox(c.Pad, pos, nil)
	if err != nil {
		t.Fatalf("ChangeStatsBox: %v", err)
	}
	y2 := s.Style().StatY
	got := []float64{st.X1NDC, st.Y1NDC, st.X2NDC, st.Y2NDC}
	if diff := cmp.Diff([]float64{0.1, 0.2, 0.3, y2}, got, approx); diff != "" {
		t.Errorf("box (-want +got):\n%s", diff)
	}
}

func TestChangeStatsBoxErrors(t *testing.T) {
	s := newTestSession(t)
	c, _ := s.MakeCanvas("c", Range{0, 1}, Range{0, 1}, "x", "y")
	c.Draw(hist("h", 1), "HIST")
	if _, err := s.ChangeStatsBox(c.Pad, Corner("tr"), nil); !errors.Is(err, errors.ErrCodeStatsMissing) {
		t.Errorf("OptStat 0: err = %v, want STATS_MISSING", err)
	}

	c = statsCanvas(t, s)
	st, err := s.ChangeStatsBox(c.Pad, Corner("middle"), Properties{TextFont: 62})
	if !errors.Is(err, errors.ErrCodeInvalidPosition) {
		t.Errorf("err = %v, want INVALID_POSITION", err)
	}
	if st == nil || st.TextFont != 62 {
		t.Error("properties should be applied despite the invalid corner")
	}
}
