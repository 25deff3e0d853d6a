package graphics

import (
	"math"
	"testing"

	"go-hep.org/x/hep/hbook"
)

func TestPadGeometry(t *testing.T) {
	c := NewCanvas("c", "", 800, 600, nil)
	if !c.IsCanvas() {
		t.Fatal("canvas root should report IsCanvas")
	}

	sub := c.NewSubPad("sub", 0, 0.5, 0.5, 1)
	if sub.IsCanvas() {
		t.Error("sub-pad reported IsCanvas")
	}
	if got := sub.PixelWidth(); got != 400 {
		t.Errorf("PixelWidth = %v, want 400", got)
	}
	if got := sub.PixelHeight(); got != 300 {
		t.Errorf("PixelHeight = %v, want 300", got)
	}

	inner := sub.NewSubPad("inner", 0.5, 0, 1, 0.5)
	if got := inner.WNDC(); got != 0.25 {
		t.Errorf("inner WNDC = %v, want 0.25", got)
	}
	if got := inner.AbsXLowNDC(); got != 0.25 {
		t.Errorf("inner AbsXLowNDC = %v, want 0.25", got)
	}
	if got := inner.AbsYLowNDC(); got != 0.5 {
		t.Errorf("inner AbsYLowNDC = %v, want 0.5", got)
	}
	if inner.Canvas() != c {
		t.Error("inner pad lost its canvas")
	}
}

func TestPadPrimitives(t *testing.T) {
	c := NewCanvas("c", "", 600, 600, nil)
	f := c.DrawFrame(0, 0, 10, 5)
	h := NewH1("h", "", 10, 0, 10)
	c.Draw(h, "SAME")
	c.Draw(nil, "")

	if got := c.Primitive("hframe"); got != f {
		t.Errorf("Primitive(hframe) = %v", got)
	}
	if got := c.Primitive("h"); got != h {
		t.Errorf("Primitive(h) = %v", got)
	}
	if len(c.Primitives()) != 2 {
		t.Errorf("len(Primitives) = %d, want 2", len(c.Primitives()))
	}
	if c.Frame() != f {
		t.Error("Frame() did not return the drawn frame")
	}

	c.Remove(h)
	if c.Primitive("h") != nil {
		t.Error("h still present after Remove")
	}

	c.Update()
	if c.IsModified() || c.Updates() != 1 {
		t.Errorf("after Update: modified=%v updates=%d", c.IsModified(), c.Updates())
	}
}

func TestForcedStyleResetsFrames(t *testing.T) {
	s := NewStyle("s", "")
	s.Force = true
	s.X.TitleSize = 0.06

	c := NewCanvas("c", "", 600, 600, s)
	f := NewFrame("f", 0, 1, 0, 1, nil)
	f.X.TitleSize = 0.01
	f.X.Title = "x"
	c.Draw(f, "")

	if f.X.TitleSize != 0.06 {
		t.Errorf("TitleSize = %v, want 0.06", f.X.TitleSize)
	}
	if f.X.Title != "x" {
		t.Errorf("Title = %q, want x", f.X.Title)
	}
}

func TestUpdateAttachesStats(t *testing.T) {
	s := NewStyle("s", "")
	s.OptStat = 1110

	c := NewCanvas("c", "", 600, 600, s)
	h := NewH1("h", "", 4, 0, 4)
	h.Fill(0.5, 1)
	h.Fill(1.5, 1)
	c.Draw(h, "HIST")
	c.Update()

	st, ok := c.Primitive("stats").(*Stats)
	if !ok {
		t.Fatal("stats box not attached")
	}
	lines := st.Lines()
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "Entries = 2" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != "Mean = 1" {
		t.Errorf("lines[1] = %q", lines[1])
	}

	s2 := NewStyle("s2", "")
	s2.OptStat = 0
	c2 := NewCanvas("c2", "", 600, 600, s2)
	c2.Draw(h, "")
	c2.Update()
	if c2.Primitive("stats") != nil {
		t.Error("stats attached with OptStat 0")
	}
}

func TestH1(t *testing.T) {
	h := NewH1("h", "", 3, 0, 3)
	h.SetBinContent(1, 1)
	h.SetBinContent(2, 5)
	h.SetBinContent(3, 2)
	h.SetBinError(1, 10)
	h.SetBinError(2, 0.5)
	h.SetBinError(3, 0.1)

	if got := h.MaxExtent(); got != 11 {
		t.Errorf("MaxExtent = %v, want 11", got)
	}
	if got := h.Maximum(); got != 5 {
		t.Errorf("Maximum = %v, want 5", got)
	}
	if got := h.FindBin(-1); got != 0 {
		t.Errorf("FindBin(-1) = %d", got)
	}
	if got := h.FindBin(3); got != 4 {
		t.Errorf("FindBin(3) = %d", got)
	}
	if got := h.BinCenter(2); got != 1.5 {
		t.Errorf("BinCenter(2) = %v", got)
	}

	h.Fill(0.2, 2)
	if got := h.BinContent(1); got != 3 {
		t.Errorf("BinContent(1) after Fill = %v, want 3", got)
	}

	c := h.Clone("copy")
	c.SetBinContent(2, 0)
	if h.BinContent(2) != 5 {
		t.Error("Clone shares storage with the original")
	}
	if c.Name() != "copy" {
		t.Errorf("clone name = %q", c.Name())
	}

	other := NewH1("o", "", 4, 0, 3)
	if h.Add(other, 1) {
		t.Error("Add accepted a histogram with a different binning")
	}
}

func TestH1FromHBook(t *testing.T) {
	src := hbook.NewH1D(4, 0, 4)
	src.Fill(0.5, 1)
	src.Fill(0.5, 2)
	src.Fill(3.5, 1)

	h := H1FromHBook("h", "title", src)
	if h.NBins() != 4 || h.XMin != 0 || h.XMax != 4 {
		t.Fatalf("binning = %d [%v,%v]", h.NBins(), h.XMin, h.XMax)
	}
	if got := h.BinContent(1); got != 3 {
		t.Errorf("BinContent(1) = %v, want 3", got)
	}
	if got := h.BinError(1); math.Abs(got-math.Sqrt(5)) > 1e-12 {
		t.Errorf("BinError(1) = %v, want sqrt(5)", got)
	}
	if got := h.Entries(); got != 3 {
		t.Errorf("Entries = %v, want 3", got)
	}
}

func TestGraphMaxExtent(t *testing.T) {
	g := NewAsymmGraph("g", []float64{0, 1, 2}, []float64{1, 4, 2}, []float64{0, 0, 0}, []float64{0.5, 0.5, 3})
	g.EY = []float64{2, 0, 0}
	if got := g.MaxExtent(); got != 5 {
		t.Errorf("MaxExtent = %v, want 5", got)
	}

	s := hbook.NewS2D(
		hbook.Point2D{X: 1, Y: 2, ErrY: hbook.Range{Min: 0.5, Max: 1.5}},
		hbook.Point2D{X: 2, Y: 3, ErrY: hbook.Range{Min: 0.1, Max: 0.2}},
	)
	gs := GraphFromS2D("s", s)
	if gs.Len() != 2 {
		t.Fatalf("Len = %d", gs.Len())
	}
	if got := gs.MaxExtent(); got != 3.5 {
		t.Errorf("MaxExtent = %v, want 3.5", got)
	}
	if gs.ErrorYLow(0) != 0.5 {
		t.Errorf("ErrorYLow(0) = %v", gs.ErrorYLow(0))
	}
}

func TestStack(t *testing.T) {
	a := NewH1("a", "", 2, 0, 2)
	a.SetBinContent(1, 1)
	a.SetBinContent(2, 3)
	b := NewH1("b", "", 2, 0, 2)
	b.SetBinContent(1, 4)
	b.SetBinContent(2, 1)

	s := NewStack("s", "")
	if s.Maximum() != 0 {
		t.Error("empty stack maximum should be 0")
	}
	if !s.Add(a) || !s.Add(b) {
		t.Fatal("Add rejected histograms with the same binning")
	}

	if got := s.Maximum(); got != 5 {
		t.Errorf("Maximum = %v, want 5", got)
	}
	cum := s.Cumulative()
	if len(cum) != 2 || cum[0].BinContent(2) != 3 || cum[1].BinContent(2) != 4 {
		t.Errorf("Cumulative contents wrong")
	}
	if a.BinContent(1) != 1 {
		t.Error("Cumulative modified an input histogram")
	}
}

func TestStackRejectsOtherBinning(t *testing.T) {
	a := NewH1("a", "", 4, 0, 4)
	for i := 1; i <= 4; i++ {
		a.SetBinContent(i, 1)
	}
	tests := []struct {
		name string
		h    *H1
	}{
		{"fewer bins", NewH1("b", "", 2, 0, 4)},
		{"other range", NewH1("c", "", 4, 0, 8)},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack("s", "")
			s.Add(a)
			if s.Add(tt.h) {
				t.Error("Add accepted a histogram with another binning")
			}
			if len(s.Hists()) != 1 || s.Maximum() != 1 {
				t.Errorf("stack has %d hists, maximum %v", len(s.Hists()), s.Maximum())
			}
		})
	}

	if a.Add(NewH1("d", "", 2, 0, 4), 1) {
		t.Error("H1.Add accepted another binning")
	}
}

func TestLegendHeader(t *testing.T) {
	l := NewLegend(0, 0, 1, 1)
	h := NewH1("h", "", 1, 0, 1)
	l.AddEntry(h, "data", "lp")

	l.SetHeader(LegendEntry{Label: "first"})
	l.SetHeader(LegendEntry{Label: "second"})
	l.AppendHeader(LegendEntry{Label: "tail"})

	e := l.Entries()
	if len(e) != 3 {
		t.Fatalf("entries = %d, want 3", len(e))
	}
	if !e[0].IsHeader() || e[0].Label != "second" {
		t.Errorf("entry 0 = %+v", e[0])
	}
	if e[1].Label != "data" || e[1].IsHeader() {
		t.Errorf("entry 1 = %+v", e[1])
	}
	if !e[2].IsHeader() || e[2].Label != "tail" {
		t.Errorf("entry 2 = %+v", e[2])
	}
}

func TestAttributeCarriers(t *testing.T) {
	objs := []Object{
		NewH1("h", "", 1, 0, 1),
		NewGraph("g", nil, nil, nil),
		NewLegend(0, 0, 1, 1),
	}
	for _, o := range objs {
		lc, ok := o.(LineCarrier)
		if !ok {
			t.Errorf("%T is not a LineCarrier", o)
			continue
		}
		lc.LineAttributes().LineColor = 7
	}
	if objs[0].(*H1).LineColor != 7 {
		t.Error("LineAttributes did not return a pointer into the histogram")
	}
	if _, ok := Object(NewLine(0, 0, 1, 1)).(FillCarrier); ok {
		t.Error("Line should not carry fill attributes")
	}
}
