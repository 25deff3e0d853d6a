package cmsstyle

import (
	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// LegendItem is an object with its legend label and option ("f", "l",
// "p", "e" or a combination).
type LegendItem struct {
	Object graphics.Object
	Label  string
	Option string
}

type textConfig struct {
	attr    graphics.TextAttr
	columns int
	append  bool
}

// TextOption configures the text of legends and legend headers.
type TextOption func(*textConfig)

// WithTextSize sets the text size.
func WithTextSize(v float64) TextOption { return func(c *textConfig) { c.attr.TextSize = v } }

// WithTextFont sets the font code.
func WithTextFont(f int) TextOption { return func(c *textConfig) { c.attr.TextFont = f } }

// WithTextColor sets the text color.
func WithTextColor(i colors.Index) TextOption { return func(c *textConfig) { c.attr.TextColor = i } }

// WithTextAlign sets the text alignment.
func WithTextAlign(a int) TextOption { return func(c *textConfig) { c.attr.TextAlign = a } }

// Columns sets the number of legend columns.
func Columns(n int) TextOption { return func(c *textConfig) { c.columns = n } }

// AppendHeader makes LegendHeader add a row after the existing entries
// instead of replacing the first header.
func AppendHeader() TextOption { return func(c *textConfig) { c.append = true } }

func newTextConfig(opts []TextOption) textConfig {
	cfg := textConfig{attr: graphics.TextAttr{
		TextColor: colors.Black,
		TextFont:  42,
		TextSize:  0.04,
		TextAlign: 12,
	}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// MakeLegend draws a borderless, transparent legend on pad spanning the
// given NDC rectangle. Text defaults to size 0.04, font 42, black.
func MakeLegend(pad *graphics.Pad, x1, y1, x2, y2 float64, opts ...TextOption) *graphics.Legend {
	cfg := newTextConfig(opts)
	leg := graphics.NewLegend(x1, y1, x2, y2)
	leg.TextSize = cfg.attr.TextSize
	leg.TextFont = cfg.attr.TextFont
	leg.TextColor = cfg.attr.TextColor
	leg.BorderSize = 0
	leg.FillStyle = 0
	leg.FillColor = 0
	if cfg.columns > 0 {
		leg.NColumns = cfg.columns
	}
	if pad != nil {
		pad.Draw(leg, "")
	}
	return leg
}

// AddToLegend appends items to leg in order.
func AddToLegend(leg *graphics.Legend, items ...LegendItem) {
	for _, it := range items {
		leg.AddEntry(it.Object, it.Label, it.Option)
	}
}

// LegendHeader sets the header row of leg, replacing a header already in
// the first row. With AppendHeader the header is added as the last row.
// Text defaults to align 12, size 0.04, font 42, black.
func LegendHeader(leg *graphics.Legend, title string, opts ...TextOption) {
	cfg := newTextConfig(opts)
	e := graphics.LegendEntry{Label: title, TextAttr: cfg.attr}
	if cfg.append {
		leg.AppendHeader(e)
		return
	}
	leg.SetHeader(e)
}
