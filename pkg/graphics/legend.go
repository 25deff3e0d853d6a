package graphics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
)

// LegendEntry is one row of a legend. Header rows have a nil Object and
// Option "h" and may carry their own text attributes.
type LegendEntry struct {
	Object Object
	Label  string
	Option string
	TextAttr
}

// IsHeader reports whether e is a header row.
func (e LegendEntry) IsHeader() bool { return e.Object == nil && e.Option == "h" }

// Legend is a box of labelled entries placed in NDC coordinates.
type Legend struct {
	name string
	LineAttr
	FillAttr
	TextAttr

	X1, Y1, X2, Y2 float64
	BorderSize     int
	NColumns       int

	entries []LegendEntry
}

// NewLegend creates an empty legend.
func NewLegend(x1, y1, x2, y2 float64) *Legend {
	return &Legend{
		name:       "TPave",
		LineAttr:   defaultLine(),
		FillAttr:   FillAttr{FillColor: colors.White, FillStyle: 1001, FillAlpha: -1},
		TextAttr:   TextAttr{TextColor: colors.Black, TextFont: 42, TextAlign: 12},
		X1:         x1,
		Y1:         y1,
		X2:         x2,
		Y2:         y2,
		BorderSize: 4,
		NColumns:   1,
	}
}

func (l *Legend) Name() string { return l.name }

// AddEntry appends an entry.
func (l *Legend) AddEntry(obj Object, label, option string) {
	l.entries = append(l.entries, LegendEntry{Object: obj, Label: label, Option: option})
}

// Entries returns the legend rows in order.
func (l *Legend) Entries() []LegendEntry { return append([]LegendEntry(nil), l.entries...) }

// SetHeader installs e as the first row, replacing an existing header there.
func (l *Legend) SetHeader(e LegendEntry) {
	e.Object, e.Option = nil, "h"
	if len(l.entries) > 0 && l.entries[0].IsHeader() {
		l.entries[0] = e
		return
	}
	l.entries = append([]LegendEntry{e}, l.entries...)
}

// AppendHeader adds e as a header row after the existing entries.
func (l *Legend) AppendHeader(e LegendEntry) {
	e.Object, e.Option = nil, "h"
	l.entries = append(l.entries, e)
}

// Stats is the statistics box attached to a histogram.
type Stats struct {
	name string
	LineAttr
	FillAttr
	TextAttr

	X1NDC, Y1NDC, X2NDC, Y2NDC float64
	BorderSize                 int
	Format                     string

	lines []string
}

// NewStats builds the box for h using the stat options of s.
func NewStats(h *H1, s *Style) *Stats {
	st := &Stats{
		name:     "stats",
		LineAttr: defaultLine(),
		FillAttr: FillAttr{FillColor: s.StatColor, FillStyle: 1001, FillAlpha: -1},
		TextAttr: TextAttr{
			TextColor: s.StatTextColor,
			TextFont:  s.StatFont,
			TextSize:  s.StatFontSize,
			TextAlign: 12,
		},
		X1NDC:      s.StatX - s.StatW,
		Y1NDC:      s.StatY - s.StatH,
		X2NDC:      s.StatX,
		Y2NDC:      s.StatY,
		BorderSize: s.StatBorderSize,
		Format:     s.StatFormat,
	}
	st.lines = statLines(h, s.OptStat, st.Format)
	return st
}

func (s *Stats) Name() string { return s.name }

// Lines returns the text lines of the box.
func (s *Stats) Lines() []string { return append([]string(nil), s.lines...) }

// statLines follows the digit convention of the stat option: from the
// right, name, entries, mean, std dev, underflow, overflow.
func statLines(h *H1, opt int, format string) []string {
	digit := func(k int) bool {
		v := opt
		for ; k > 0; k-- {
			v /= 10
		}
		return v%10 != 0
	}
	f := "%" + strings.TrimSuffix(format, "g") + "g"
	if _, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSuffix(format, "g"), ".", "")); err != nil {
		f = "%g"
	}
	var lines []string
	if digit(0) {
		lines = append(lines, h.Name())
	}
	if digit(1) {
		lines = append(lines, fmt.Sprintf("Entries = %.0f", h.Entries()))
	}
	if digit(2) {
		lines = append(lines, "Mean = "+strings.TrimSpace(fmt.Sprintf(f, h.Mean())))
	}
	if digit(3) {
		lines = append(lines, "Std Dev = "+strings.TrimSpace(fmt.Sprintf(f, h.StdDev())))
	}
	if digit(4) {
		lines = append(lines, "Underflow = "+strings.TrimSpace(fmt.Sprintf(f, h.BinContent(0))))
	}
	if digit(5) {
		lines = append(lines, "Overflow = "+strings.TrimSpace(fmt.Sprintf(f, h.BinContent(h.NBins()+1))))
	}
	return lines
}
