package cmsstyle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

func TestSubplotCoordinates(t *testing.T) {
	tests := []struct {
		name         string
		ncols, nrows int
		heights      []float64
		widths       []float64
		top, bottom  float64
		want         SubplotLayout
	}{
		{
			name: "2x2", ncols: 2, nrows: 2,
			want: SubplotLayout{Pads: []PadRect{
				{0, 0.5, 0.5, 1}, {0.5, 0.5, 1, 1},
				{0, 0, 0.5, 0.5}, {0.5, 0, 1, 0.5},
			}},
		},
		{
			name: "weighted rows", ncols: 1, nrows: 2, heights: []float64{3, 1},
			want: SubplotLayout{Pads: []PadRect{{0, 0.25, 1, 1}, {0, 0, 1, 0.25}}},
		},
		{
			name: "bands", ncols: 1, nrows: 1, top: 0.2, bottom: 0.1,
			want: SubplotLayout{
				Pads:   []PadRect{{0, 0.1, 1, 0.8}},
				Top:    &PadRect{0, 0.8, 1, 1},
				Bottom: &PadRect{0, 0, 1, 0.1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubplotCoordinates(tt.ncols, tt.nrows, tt.heights, tt.widths, tt.top, tt.bottom)
			if err != nil {
				t.Fatalf("SubplotCoordinates: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("layout (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubplotCoordinatesInvalid(t *testing.T) {
	cases := []struct {
		name    string
		c, r    int
		heights []float64
		widths  []float64
	}{
		{"no columns", 0, 1, nil, nil},
		{"heights mismatch", 1, 2, []float64{1}, nil},
		{"widths mismatch", 2, 1, nil, []float64{1, 1, 1}},
	}
	for _, tc := range cases {
		if _, err := SubplotCoordinates(tc.c, tc.r, tc.heights, tc.widths, 0, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}
}

func TestSubplots(t *testing.T) {
	s := newTestSession(t)
	m, err := s.Subplots(SubplotOptions{
		Columns: 2, Rows: 2, TopMargin: 0.1,
		SharedX: true, SharedY: true,
		XRange:  Range{-2, 2},
		YRanges: []Range{{0, 400}, {0, 2}},
	})
	if err != nil {
		t.Fatalf("Subplots: %v", err)
	}
	c := m.Canvas()
	if c.Name() != "CMS_canvas" || c.WW != 2000 || c.WH != 2000 {
		t.Errorf("canvas %q %dx%d", c.Name(), c.WW, c.WH)
	}
	pads := m.Pads()
	if len(pads) != 4 || len(m.Frames()) != 4 {
		t.Fatalf("%d pads, %d frames", len(pads), len(m.Frames()))
	}
	if pads[0].Name() != "pad_1" || pads[3].Name() != "pad_4" {
		t.Errorf("pad names %q..%q", pads[0].Name(), pads[3].Name())
	}
	if pads[0].LeftMargin != gridHorizontalMargin || pads[1].RightMargin != gridHorizontalMargin {
		t.Errorf("column margins %v %v", pads[0].LeftMargin, pads[1].RightMargin)
	}

	f := m.Frames()
	if f[0].X.LabelSize != 0 || f[2].X.LabelSize == 0 {
		t.Error("shared x: only the bottom row carries labels")
	}
	if f[1].Y.LabelSize != 0 || f[0].Y.LabelSize == 0 {
		t.Error("shared y: only the first column carries labels")
	}
	if f[2].Y.Max != 2 || f[0].Y.Max != 400 || f[3].X.Min != -2 {
		t.Errorf("ranges: %+v", f[2].Y)
	}

	top, err := m.TopPad()
	if err != nil {
		t.Fatalf("TopPad: %v", err)
	}
	if top.Name() != "top_pad" {
		t.Errorf("top pad %q", top.Name())
	}
	if _, err := m.BottomPad(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("BottomPad: err = %v", err)
	}
	if g := m.Grid(); g.Columns != 2 || g.Rows != 2 {
		t.Errorf("grid %+v", g)
	}
}

func TestSubplotsUnshared(t *testing.T) {
	s := newTestSession(t)
	m, err := s.Subplots(SubplotOptions{Columns: 2, Rows: 1})
	if err != nil {
		t.Fatalf("Subplots: %v", err)
	}
	for i, f := range m.Frames() {
		if f.X.LabelSize == 0 || f.Y.LabelSize == 0 {
			t.Errorf("frame %d should be labelled on both axes", i)
		}
	}
}

func TestSubplotsInvalid(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Subplots(SubplotOptions{Columns: 2, Rows: 2, HeightRatios: []float64{1}}); err == nil {
		t.Error("mismatched height ratios should fail")
	}
}

func TestManagedPadPlot(t *testing.T) {
	s := newTestSession(t)
	m, _ := s.Subplots(SubplotOptions{Columns: 1, Rows: 1, TopMargin: 0.1})
	p := m.Pads()[0]
	h := hist("h", 1, 2)
	p.Plot(h, "HIST", Properties{LineColor: 2})

	prims := p.Primitives()
	if got := prims[len(prims)-1].Option; got != "HIST SAME" {
		t.Errorf("option = %q", got)
	}
	if h.LineColor != 2 {
		t.Errorf("LineColor = %d", h.LineColor)
	}

	top, _ := m.TopPad()
	top.Plot(h, "HIST", nil)
	prims = top.Primitives()
	if got := prims[len(prims)-1].Option; got != "HIST" {
		t.Errorf("pad without frame: option = %q", got)
	}

	txt := m.PlotText(p, "label", TextOptions{})
	if diff := cmp.Diff([]float64{33, 1 - gridHorizontalMargin, 1}, []float64{float64(txt.TextAlign), txt.X, txt.Y}, approx); diff != "" {
		t.Errorf("text placement (-want +got):\n%s", diff)
	}
	if len(p.Drawables()) != 2 {
		t.Errorf("drawables = %d", len(p.Drawables()))
	}
}

func TestPlotCommonLegend(t *testing.T) {
	s := newTestSession(t)
	m, _ := s.Subplots(SubplotOptions{Columns: 2, Rows: 1, TopMargin: 0.1})
	top, _ := m.TopPad()
	items := []LegendItem{{hist("a", 1), "A", "f"}, {hist("b", 1), "B", "f"}}

	leg := m.PlotCommonLegend(top, items, CommonLegendOptions{})
	if leg.NColumns != 3 || len(leg.Entries()) != 2 {
		t.Errorf("columns %d entries %d", leg.NColumns, len(leg.Entries()))
	}
	if diff := cmp.Diff([]float64{0.1, 0.9}, []float64{leg.X1, leg.X2}, approx); diff != "" {
		t.Errorf("legend x (-want +got):\n%s", diff)
	}
	if n := countTexts(top.Pad); n != 2 {
		t.Errorf("title texts = %d", n)
	}

	top2 := &ManagedPad{Pad: m.Canvas().NewSubPad("extra", 0, 0, 1, 0.1)}
	leg = m.PlotCommonLegend(top2, items, CommonLegendOptions{IPos: 11})
	var labels []string
	for _, e := range leg.Entries() {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"      ", "A", "B"}, labels); diff != "" {
		t.Errorf("indented entries (-want +got):\n%s", diff)
	}
}

func TestCanvasManagerLimits(t *testing.T) {
	s := newTestSession(t)
	m, _ := s.Subplots(SubplotOptions{Columns: 2, Rows: 1})

	m.YLabel("Events")
	if err := m.YLabels(map[int]string{1: "Ratio"}); err != nil {
		t.Fatal(err)
	}
	if err := m.YLimits(map[int]Range{0: {0, 50}}); err != nil {
		t.Fatal(err)
	}
	if err := m.XLimits(map[int]Range{1: {10, 20}}); err != nil {
		t.Fatal(err)
	}
	f := m.Frames()
	if f[0].Y.Title != "Events" || f[1].Y.Title != "Ratio" {
		t.Errorf("titles %q %q", f[0].Y.Title, f[1].Y.Title)
	}
	if f[0].Y.Max != 50 || f[1].X.Min != 10 {
		t.Error("limits not applied")
	}
	if err := m.YLimits(map[int]Range{5: {}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out of range index: err = %v", err)
	}
}

func TestCanvasManagerSave(t *testing.T) {
	s := newTestSession(t)
	m, _ := s.Subplots(SubplotOptions{Columns: 1, Rows: 1, Width: 400, Height: 400})
	m.Pads()[0].Plot(graphics.NewGraph("g", []float64{0.5}, []float64{0.5}, nil), "P", nil)

	path := filepath.Join(t.TempDir(), "grid.png")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
	if m.Canvas().Closed() {
		t.Error("Save keeps the canvas open")
	}
}
