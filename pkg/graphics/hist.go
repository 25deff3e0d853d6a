package graphics

import (
	"math"

	"go-hep.org/x/hep/hbook"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
)

// H1 is a one-dimensional histogram with fixed-width bins. Bin 0 is the
// underflow and bin NBins()+1 the overflow.
type H1 struct {
	name  string
	Title string
	LineAttr
	FillAttr
	MarkerAttr

	XMin, XMax float64
	sumw       []float64
	sumw2      []float64
	entries    float64
	errSet     []bool
}

// NewH1 creates an empty histogram with n bins over [xmin,xmax).
func NewH1(name, title string, n int, xmin, xmax float64) *H1 {
	if n < 1 {
		n = 1
	}
	return &H1{
		name:       name,
		Title:      title,
		LineAttr:   LineAttr{LineColor: colors.Blue + 2, LineStyle: 1, LineWidth: 1},
		FillAttr:   defaultFill(),
		MarkerAttr: defaultMarker(),
		XMin:       xmin,
		XMax:       xmax,
		sumw:       make([]float64, n+2),
		sumw2:      make([]float64, n+2),
		errSet:     make([]bool, n+2),
	}
}

// H1FromHBook converts an hbook histogram, keeping its bin contents and
// sum of squared weights.
func H1FromHBook(name, title string, h *hbook.H1D) *H1 {
	bins := h.Binning.Bins
	if len(bins) == 0 {
		return NewH1(name, title, 1, 0, 1)
	}
	out := NewH1(name, title, len(bins), bins[0].XMin(), bins[len(bins)-1].XMax())
	for i, b := range bins {
		out.sumw[i+1] = b.SumW()
		out.sumw2[i+1] = b.SumW2()
	}
	out.entries = float64(h.Entries())
	return out
}

func (h *H1) Name() string { return h.name }

// SetName renames the histogram.
func (h *H1) SetName(name string) { h.name = name }

// NBins returns the number of in-range bins.
func (h *H1) NBins() int { return len(h.sumw) - 2 }

// BinWidth returns the width of every bin.
func (h *H1) BinWidth() float64 { return (h.XMax - h.XMin) / float64(h.NBins()) }

// BinLowEdge returns the lower edge of bin i.
func (h *H1) BinLowEdge(i int) float64 { return h.XMin + float64(i-1)*h.BinWidth() }

// BinCenter returns the center of bin i.
func (h *H1) BinCenter(i int) float64 { return h.BinLowEdge(i) + h.BinWidth()/2 }

// FindBin returns the bin containing x, including under- and overflow.
func (h *H1) FindBin(x float64) int {
	switch {
	case x < h.XMin:
		return 0
	case x >= h.XMax:
		return h.NBins() + 1
	}
	i := int((x-h.XMin)/h.BinWidth()) + 1
	if i > h.NBins() {
		i = h.NBins()
	}
	return i
}

// Fill adds weight w at x.
func (h *H1) Fill(x, w float64) {
	i := h.FindBin(x)
	h.sumw[i] += w
	h.sumw2[i] += w * w
	h.entries++
}

// BinContent returns the content of bin i.
func (h *H1) BinContent(i int) float64 {
	if i < 0 || i >= len(h.sumw) {
		return 0
	}
	return h.sumw[i]
}

// BinError returns the error of bin i, the square root of the sum of
// squared weights.
func (h *H1) BinError(i int) float64 {
	if i < 0 || i >= len(h.sumw) {
		return 0
	}
	return math.Sqrt(h.sumw2[i])
}

// SetBinContent sets the content of bin i. Unless an error was set
// explicitly, the bin error follows Poisson statistics.
func (h *H1) SetBinContent(i int, v float64) {
	if i < 0 || i >= len(h.sumw) {
		return
	}
	h.sumw[i] = v
	if !h.errSet[i] {
		h.sumw2[i] = math.Abs(v)
	}
	h.entries++
}

// SetBinError sets the error of bin i.
func (h *H1) SetBinError(i int, e float64) {
	if i < 0 || i >= len(h.sumw) {
		return
	}
	h.sumw2[i] = e * e
	h.errSet[i] = true
}

// Entries returns the number of fills.
func (h *H1) Entries() float64 { return h.entries }

// Integral returns the sum of in-range bin contents.
func (h *H1) Integral() float64 {
	var s float64
	for i := 1; i <= h.NBins(); i++ {
		s += h.sumw[i]
	}
	return s
}

// Mean returns the content-weighted mean of the bin centers.
func (h *H1) Mean() float64 {
	var sw, swx float64
	for i := 1; i <= h.NBins(); i++ {
		sw += h.sumw[i]
		swx += h.sumw[i] * h.BinCenter(i)
	}
	if sw == 0 {
		return 0
	}
	return swx / sw
}

// StdDev returns the content-weighted standard deviation of the bin centers.
func (h *H1) StdDev() float64 {
	var sw, swx, swx2 float64
	for i := 1; i <= h.NBins(); i++ {
		x := h.BinCenter(i)
		sw += h.sumw[i]
		swx += h.sumw[i] * x
		swx2 += h.sumw[i] * x * x
	}
	if sw == 0 {
		return 0
	}
	m := swx / sw
	v := swx2/sw - m*m
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

// Maximum returns the largest in-range bin content.
func (h *H1) Maximum() float64 {
	m := math.Inf(-1)
	for i := 1; i <= h.NBins(); i++ {
		m = math.Max(m, h.sumw[i])
	}
	return m
}

// MaxExtent returns the largest in-range bin content plus its error.
func (h *H1) MaxExtent() float64 {
	m := math.Inf(-1)
	for i := 1; i <= h.NBins(); i++ {
		m = math.Max(m, h.sumw[i]+h.BinError(i))
	}
	return m
}

// Clone returns a copy of h with a new name.
func (h *H1) Clone(name string) *H1 {
	c := *h
	c.name = name
	c.sumw = append([]float64(nil), h.sumw...)
	c.sumw2 = append([]float64(nil), h.sumw2...)
	c.errSet = append([]bool(nil), h.errSet...)
	return &c
}

// SameBinning reports whether h and o have the same number of bins over the
// same range.
func (h *H1) SameBinning(o *H1) bool {
	return o != nil && o.NBins() == h.NBins() && o.XMin == h.XMin && o.XMax == h.XMax
}

// Add adds c times o bin by bin. Histograms with a different binning are
// ignored and Add reports false.
func (h *H1) Add(o *H1, c float64) bool {
	if !h.SameBinning(o) {
		return false
	}
	for i := range h.sumw {
		h.sumw[i] += c * o.sumw[i]
		h.sumw2[i] += c * c * o.sumw2[i]
	}
	h.entries += o.entries
	return true
}

// Graph is a set of points with y errors. EY holds symmetric errors; EYLow
// and EYHigh, when non-nil, hold asymmetric ones.
type Graph struct {
	name  string
	Title string
	LineAttr
	FillAttr
	MarkerAttr

	X, Y          []float64
	EX, EY        []float64
	EYLow, EYHigh []float64
}

// NewGraph creates a graph from points and optional symmetric errors.
func NewGraph(name string, x, y, ey []float64) *Graph {
	return &Graph{
		name:       name,
		LineAttr:   defaultLine(),
		FillAttr:   defaultFill(),
		MarkerAttr: defaultMarker(),
		X:          x,
		Y:          y,
		EY:         ey,
	}
}

// NewAsymmGraph creates a graph with asymmetric y errors.
func NewAsymmGraph(name string, x, y, eyl, eyh []float64) *Graph {
	g := NewGraph(name, x, y, nil)
	g.EYLow, g.EYHigh = eyl, eyh
	return g
}

// GraphFromS2D converts an hbook scatter. Its y error range becomes the
// asymmetric error pair.
func GraphFromS2D(name string, s *hbook.S2D) *Graph {
	n := s.Len()
	x := make([]float64, n)
	y := make([]float64, n)
	ex := make([]float64, n)
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := 0; i < n; i++ {
		pt := s.Point(i)
		x[i], y[i] = pt.X, pt.Y
		ex[i] = math.Max(pt.ErrX.Min, pt.ErrX.Max)
		lo[i], hi[i] = pt.ErrY.Min, pt.ErrY.Max
	}
	g := NewAsymmGraph(name, x, y, lo, hi)
	g.EX = ex
	return g
}

func (g *Graph) Name() string { return g.name }

// Len returns the number of points.
func (g *Graph) Len() int { return len(g.X) }

// ErrorYHigh returns the upper error of point i.
func (g *Graph) ErrorYHigh(i int) float64 { return at(g.EYHigh, i) }

// ErrorYLow returns the lower error of point i.
func (g *Graph) ErrorYLow(i int) float64 { return at(g.EYLow, i) }

// ErrorY returns the symmetric error of point i.
func (g *Graph) ErrorY(i int) float64 { return at(g.EY, i) }

// MaxExtent returns the largest y plus the larger of its upper and
// symmetric errors.
func (g *Graph) MaxExtent() float64 {
	m := math.Inf(-1)
	for i := range g.Y {
		m = math.Max(m, g.Y[i]+math.Max(g.ErrorYHigh(i), g.ErrorY(i)))
	}
	return m
}

func at(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// Stack draws histograms cumulatively, in the order they were added.
type Stack struct {
	name  string
	Title string
	hists []*H1
}

// NewStack creates an empty stack.
func NewStack(name, title string) *Stack {
	return &Stack{name: name, Title: title}
}

func (s *Stack) Name() string { return s.name }

// Add appends h to the stack. A nil histogram, or one whose binning differs
// from the histograms already stacked, is rejected and Add reports false.
func (s *Stack) Add(h *H1) bool {
	if h == nil || (len(s.hists) > 0 && !s.hists[0].SameBinning(h)) {
		return false
	}
	s.hists = append(s.hists, h)
	return true
}

// Hists returns the stacked histograms in insertion order.
func (s *Stack) Hists() []*H1 { return append([]*H1(nil), s.hists...) }

// Cumulative returns the running sums: entry i is the sum of the first i+1
// histograms.
func (s *Stack) Cumulative() []*H1 {
	out := make([]*H1, 0, len(s.hists))
	var sum *H1
	for _, h := range s.hists {
		if sum == nil {
			sum = h.Clone(h.Name() + "_stack")
		} else {
			sum = sum.Clone(h.Name() + "_stack")
			sum.Add(h, 1)
		}
		sum.LineAttr, sum.FillAttr, sum.MarkerAttr = h.LineAttr, h.FillAttr, h.MarkerAttr
		out = append(out, sum)
	}
	return out
}

// Maximum returns the largest bin content of the summed histograms.
func (s *Stack) Maximum() float64 {
	cum := s.Cumulative()
	if len(cum) == 0 {
		return 0
	}
	return cum[len(cum)-1].Maximum()
}

// MaxExtent returns the stack maximum.
func (s *Stack) MaxExtent() float64 { return s.Maximum() }
