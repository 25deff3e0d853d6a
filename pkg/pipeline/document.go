package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
)

// Source formats of a plot document.
const (
	SourceTOML = "toml"
	SourceYAML = "yaml"
	SourceJSON = "json"
)

// Document is a declarative plot description.
type Document struct {
	Name       string          `toml:"name" yaml:"name" json:"name,omitempty"`
	Branding   Branding        `toml:"branding" yaml:"branding" json:"branding"`
	Style      StyleSpec       `toml:"style" yaml:"style" json:"style"`
	Canvas     CanvasSpec      `toml:"canvas" yaml:"canvas" json:"canvas"`
	Histograms []HistogramSpec `toml:"histograms" yaml:"histograms" json:"histograms,omitempty"`
	Graphs     []GraphSpec     `toml:"graphs" yaml:"graphs" json:"graphs,omitempty"`
	Stack      *StackSpec      `toml:"stack" yaml:"stack" json:"stack,omitempty"`
	Ratios     []RatioSpec     `toml:"ratios" yaml:"ratios" json:"ratios,omitempty"`
	Lines      []LineSpec      `toml:"lines" yaml:"lines" json:"lines,omitempty"`
	Texts      []TextSpec      `toml:"texts" yaml:"texts" json:"texts,omitempty"`
	Legend     *LegendSpec     `toml:"legend" yaml:"legend" json:"legend,omitempty"`
	Stats      *StatsSpec      `toml:"stats" yaml:"stats" json:"stats,omitempty"`
	Output     OutputSpec      `toml:"output" yaml:"output" json:"output"`
}

// Branding configures the experiment, luminosity and energy captions.
// Nil fields keep the session defaults.
type Branding struct {
	Energy         *float64 `toml:"energy" yaml:"energy" json:"energy,omitempty"`
	EnergyUnit     string   `toml:"energy_unit" yaml:"energy_unit" json:"energy_unit,omitempty"`
	Lumi           *float64 `toml:"lumi" yaml:"lumi" json:"lumi,omitempty"`
	LumiUnit       string   `toml:"lumi_unit" yaml:"lumi_unit" json:"lumi_unit,omitempty"`
	Run            string   `toml:"run" yaml:"run" json:"run,omitempty"`
	Round          *int     `toml:"round" yaml:"round" json:"round,omitempty"`
	CmsText        *string  `toml:"cms_text" yaml:"cms_text" json:"cms_text,omitempty"`
	CmsTextFont    int      `toml:"cms_text_font" yaml:"cms_text_font" json:"cms_text_font,omitempty"`
	CmsTextSize    float64  `toml:"cms_text_size" yaml:"cms_text_size" json:"cms_text_size,omitempty"`
	ExtraText      *string  `toml:"extra_text" yaml:"extra_text" json:"extra_text,omitempty"`
	ExtraTextFont  int      `toml:"extra_text_font" yaml:"extra_text_font" json:"extra_text_font,omitempty"`
	AdditionalInfo []string `toml:"additional_info" yaml:"additional_info" json:"additional_info,omitempty"`
	Logo           string   `toml:"logo" yaml:"logo" json:"logo,omitempty"`
}

// StyleSpec tweaks the global CMS style.
type StyleSpec struct {
	Grid bool `toml:"grid" yaml:"grid" json:"grid,omitempty"`
	// Palette is "" (unchanged), "cms" or "alternative".
	Palette string `toml:"palette" yaml:"palette" json:"palette,omitempty"`
}

// CanvasSpec describes the canvas. Kind "ratio" adds a lower ratio pad.
// A missing Y range is derived from the drawn objects.
type CanvasSpec struct {
	Kind         string    `toml:"kind" yaml:"kind" json:"kind,omitempty"`
	X            []float64 `toml:"x" yaml:"x" json:"x"`
	Y            []float64 `toml:"y" yaml:"y" json:"y,omitempty"`
	Ratio        []float64 `toml:"ratio" yaml:"ratio" json:"ratio,omitempty"`
	XTitle       string    `toml:"x_title" yaml:"x_title" json:"x_title,omitempty"`
	YTitle       string    `toml:"y_title" yaml:"y_title" json:"y_title,omitempty"`
	RatioTitle   string    `toml:"ratio_title" yaml:"ratio_title" json:"ratio_title,omitempty"`
	Wide         bool      `toml:"wide" yaml:"wide" json:"wide,omitempty"`
	IPos         *int      `toml:"ipos" yaml:"ipos" json:"ipos,omitempty"`
	ExtraSpace   float64   `toml:"extra_space" yaml:"extra_space" json:"extra_space,omitempty"`
	ZAxis        bool      `toml:"z_axis" yaml:"z_axis" json:"z_axis,omitempty"`
	ScaleLumi    float64   `toml:"scale_lumi" yaml:"scale_lumi" json:"scale_lumi,omitempty"`
	YTitleOffset float64   `toml:"y_title_offset" yaml:"y_title_offset" json:"y_title_offset,omitempty"`
	LogY         bool      `toml:"log_y" yaml:"log_y" json:"log_y,omitempty"`
	// YHeadroom multiplies the derived y maximum; 0 means 1.3.
	YHeadroom float64 `toml:"y_headroom" yaml:"y_headroom" json:"y_headroom,omitempty"`
}

// Attrs are drawing attributes shared by histograms and graphs. Colors
// accept ROOT-like names ("kRed", "kAzure+2"), Petroff names
// ("p8.kBlue"), hex strings or plain indices.
type Attrs struct {
	LineColor   string             `toml:"line_color" yaml:"line_color" json:"line_color,omitempty"`
	FillColor   string             `toml:"fill_color" yaml:"fill_color" json:"fill_color,omitempty"`
	MarkerColor string             `toml:"marker_color" yaml:"marker_color" json:"marker_color,omitempty"`
	Alpha       float64            `toml:"alpha" yaml:"alpha" json:"alpha,omitempty"`
	Properties  map[string]float64 `toml:"properties" yaml:"properties" json:"properties,omitempty"`
}

// HistogramSpec is a 1-D histogram given either by bin contents or by raw
// samples.
type HistogramSpec struct {
	Name     string    `toml:"name" yaml:"name" json:"name"`
	Label    string    `toml:"label" yaml:"label" json:"label,omitempty"`
	Bins     int       `toml:"bins" yaml:"bins" json:"bins,omitempty"`
	Range    []float64 `toml:"range" yaml:"range" json:"range,omitempty"`
	Contents []float64 `toml:"contents" yaml:"contents" json:"contents,omitempty"`
	Errors   []float64 `toml:"errors" yaml:"errors" json:"errors,omitempty"`
	Samples  []float64 `toml:"samples" yaml:"samples" json:"samples,omitempty"`
	Weights  []float64 `toml:"weights" yaml:"weights" json:"weights,omitempty"`
	// Option is the draw option, "HIST" by default.
	Option string `toml:"option" yaml:"option" json:"option,omitempty"`
	// LegendOption defaults to "f"; "-" leaves the histogram out.
	LegendOption string `toml:"legend" yaml:"legend" json:"legend,omitempty"`
	// Stack puts the histogram in the stack instead of drawing it alone.
	Stack bool `toml:"stack" yaml:"stack" json:"stack,omitempty"`
	Attrs `toml:",inline" yaml:",inline"`
}

// GraphSpec is a set of points with optional y errors.
type GraphSpec struct {
	Name         string    `toml:"name" yaml:"name" json:"name"`
	Label        string    `toml:"label" yaml:"label" json:"label,omitempty"`
	X            []float64 `toml:"x" yaml:"x" json:"x"`
	Y            []float64 `toml:"y" yaml:"y" json:"y"`
	EY           []float64 `toml:"ey" yaml:"ey" json:"ey,omitempty"`
	EYLow        []float64 `toml:"ey_low" yaml:"ey_low" json:"ey_low,omitempty"`
	EYHigh       []float64 `toml:"ey_high" yaml:"ey_high" json:"ey_high,omitempty"`
	Option       string    `toml:"option" yaml:"option" json:"option,omitempty"`
	LegendOption string    `toml:"legend" yaml:"legend" json:"legend,omitempty"`
	Attrs        `toml:",inline" yaml:",inline"`
}

// StackSpec configures the stack of histograms marked Stack.
type StackSpec struct {
	Option  string   `toml:"option" yaml:"option" json:"option,omitempty"`
	Colors  []string `toml:"colors" yaml:"colors" json:"colors,omitempty"`
	Reverse bool     `toml:"reverse" yaml:"reverse" json:"reverse,omitempty"`
}

// RatioSpec draws numerator/denominator on the ratio pad. Either side may
// name a histogram or "stack" for the stack sum.
type RatioSpec struct {
	Numerator   string `toml:"numerator" yaml:"numerator" json:"numerator"`
	Denominator string `toml:"denominator" yaml:"denominator" json:"denominator"`
	Option      string `toml:"option" yaml:"option" json:"option,omitempty"`
	Attrs       `toml:",inline" yaml:",inline"`
}

// LineSpec is a line in world coordinates of the main or ratio pad.
type LineSpec struct {
	X1    float64 `toml:"x1" yaml:"x1" json:"x1"`
	Y1    float64 `toml:"y1" yaml:"y1" json:"y1"`
	X2    float64 `toml:"x2" yaml:"x2" json:"x2"`
	Y2    float64 `toml:"y2" yaml:"y2" json:"y2"`
	Color string  `toml:"color" yaml:"color" json:"color,omitempty"`
	Style int     `toml:"style" yaml:"style" json:"style,omitempty"`
	Width float64 `toml:"width" yaml:"width" json:"width,omitempty"`
	Pad   string  `toml:"pad" yaml:"pad" json:"pad,omitempty"`
}

// TextSpec is a free text in NDC of the main pad.
type TextSpec struct {
	Text  string  `toml:"text" yaml:"text" json:"text"`
	X     float64 `toml:"x" yaml:"x" json:"x"`
	Y     float64 `toml:"y" yaml:"y" json:"y"`
	Size  float64 `toml:"size" yaml:"size" json:"size,omitempty"`
	Font  int     `toml:"font" yaml:"font" json:"font,omitempty"`
	Align int     `toml:"align" yaml:"align" json:"align,omitempty"`
}

// LegendSpec places the legend; zero coordinates take the defaults.
type LegendSpec struct {
	X1       float64 `toml:"x1" yaml:"x1" json:"x1,omitempty"`
	Y1       float64 `toml:"y1" yaml:"y1" json:"y1,omitempty"`
	X2       float64 `toml:"x2" yaml:"x2" json:"x2,omitempty"`
	Y2       float64 `toml:"y2" yaml:"y2" json:"y2,omitempty"`
	Columns  int     `toml:"columns" yaml:"columns" json:"columns,omitempty"`
	TextSize float64 `toml:"text_size" yaml:"text_size" json:"text_size,omitempty"`
	Header   string  `toml:"header" yaml:"header" json:"header,omitempty"`
}

// StatsSpec shows the statistics box of one histogram.
type StatsSpec struct {
	Histogram  string             `toml:"histogram" yaml:"histogram" json:"histogram"`
	OptStat    int                `toml:"opt_stat" yaml:"opt_stat" json:"opt_stat,omitempty"`
	Corner     string             `toml:"corner" yaml:"corner" json:"corner,omitempty"`
	Properties map[string]float64 `toml:"properties" yaml:"properties" json:"properties,omitempty"`
}

// OutputSpec lists the formats rendered when the caller asks for none.
type OutputSpec struct {
	Formats []string `toml:"formats" yaml:"formats" json:"formats,omitempty"`
	Scale   float64  `toml:"scale" yaml:"scale" json:"scale,omitempty"`
}

// SourceFormat infers the document format from a file name.
func SourceFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return SourceTOML, nil
	case ".yaml", ".yml":
		return SourceYAML, nil
	case ".json":
		return SourceJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer document format from %q", path)
}

// Decode parses a document in the given source format and validates it.
func Decode(data []byte, format string) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case SourceTOML:
		_, err = toml.Decode(string(data), &doc)
	case SourceYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case SourceJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s document", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the document for structural errors.
func (d *Document) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, errors.New(errors.ErrCodeInvalidInput, format, args...))
	}

	if len(d.Canvas.X) != 2 {
		bad("canvas.x must be [min, max]")
	}
	if d.Canvas.Y != nil && len(d.Canvas.Y) != 2 {
		bad("canvas.y must be [min, max]")
	}
	switch d.Canvas.Kind {
	case "", "single":
	case "ratio":
		if len(d.Canvas.Ratio) != 2 {
			bad("canvas.ratio must be [min, max] for a ratio canvas")
		}
	default:
		bad("unknown canvas kind %q", d.Canvas.Kind)
	}
	switch d.Style.Palette {
	case "", "cms", "alternative":
	default:
		bad("unknown palette %q", d.Style.Palette)
	}

	names := map[string]bool{}
	for i, h := range d.Histograms {
		switch {
		case h.Name == "":
			bad("histograms[%d]: name is required", i)
		case names[h.Name]:
			bad("histograms[%d]: duplicate name %q", i, h.Name)
		}
		names[h.Name] = true
		if len(h.Contents) == 0 && len(h.Samples) == 0 {
			bad("histogram %q: contents or samples are required", h.Name)
		}
		if len(h.Contents) == 0 && (h.Bins < 1 || len(h.Range) != 2) {
			bad("histogram %q: bins and range are required with samples", h.Name)
		}
		if h.Bins > MaxBins || len(h.Contents) > MaxBins {
			bad("histogram %q: more than %d bins", h.Name, MaxBins)
		}
		if h.Range != nil && len(h.Range) != 2 {
			bad("histogram %q: range must be [min, max]", h.Name)
		}
		if h.Errors != nil && len(h.Errors) != len(h.Contents) {
			bad("histogram %q: %d errors for %d bins", h.Name, len(h.Errors), len(h.Contents))
		}
		if h.Weights != nil && len(h.Weights) != len(h.Samples) {
			bad("histogram %q: %d weights for %d samples", h.Name, len(h.Weights), len(h.Samples))
		}
	}
	d.validateStackBinning(bad)
	for i, g := range d.Graphs {
		if g.Name == "" {
			bad("graphs[%d]: name is required", i)
		}
		if len(g.X) != len(g.Y) {
			bad("graph %q: %d x values for %d y values", g.Name, len(g.X), len(g.Y))
		}
		for _, e := range [][]float64{g.EY, g.EYLow, g.EYHigh} {
			if e != nil && len(e) != len(g.Y) {
				bad("graph %q: error arrays must match the points", g.Name)
				break
			}
		}
	}
	for _, r := range d.Ratios {
		if d.Canvas.Kind != "ratio" {
			bad("ratios need a ratio canvas")
			break
		}
		for _, n := range []string{r.Numerator, r.Denominator} {
			if n != "stack" && !names[n] {
				bad("ratio refers to unknown histogram %q", n)
			}
		}
	}
	if d.Stats != nil && !names[d.Stats.Histogram] {
		bad("stats refers to unknown histogram %q", d.Stats.Histogram)
	}
	return errors.Join(errs...)
}

// binning returns the bin count and range h is built with.
func (d *Document) binning(h HistogramSpec) (n int, lo, hi float64, ok bool) {
	n = h.Bins
	if len(h.Contents) > 0 {
		n = len(h.Contents)
	}
	switch {
	case len(h.Range) == 2:
		lo, hi = h.Range[0], h.Range[1]
	case len(d.Canvas.X) == 2:
		lo, hi = d.Canvas.X[0], d.Canvas.X[1]
	default:
		return 0, 0, 0, false
	}
	return n, lo, hi, n > 0
}

// validateStackBinning reports stacked histograms binned differently from
// the first stacked one.
func (d *Document) validateStackBinning(bad func(string, ...any)) {
	var (
		ref       string
		n         int
		lo, hi    float64
		haveFirst bool
	)
	for _, h := range d.Histograms {
		if !h.Stack {
			continue
		}
		hn, hlo, hhi, ok := d.binning(h)
		if !ok {
			continue
		}
		if !haveFirst {
			ref, n, lo, hi, haveFirst = h.Name, hn, hlo, hhi, true
			continue
		}
		if hn != n || hlo != lo || hhi != hi {
			bad("stacked histogram %q: %d bins in [%g, %g], %q has %d bins in [%g, %g]",
				h.Name, hn, hlo, hhi, ref, n, lo, hi)
		}
	}
}

// Encode writes the canonical JSON form of the document.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
