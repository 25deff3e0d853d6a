package cmsstyle

import (
	"math"
	"sort"
	"strings"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// Property is a settable drawable attribute.
type Property int

// Settable attributes. The text attributes apply to legends, stats boxes
// and texts.
const (
	LineColor Property = iota + 1
	LineStyle
	LineWidth
	FillColor
	FillStyle
	MarkerColor
	MarkerSize
	MarkerStyle
	TextColor
	TextFont
	TextSize
	TextAlign
)

// Properties maps attributes to values. Integer attributes are rounded to
// the nearest integer when applied.
type Properties map[Property]float64

type accessor struct {
	name string
	get  func(graphics.Object) (float64, bool)
	set  func(graphics.Object, float64) bool
}

func lineOf(o graphics.Object) (*graphics.LineAttr, bool) {
	c, ok := o.(graphics.LineCarrier)
	if !ok {
		return nil, false
	}
	return c.LineAttributes(), true
}

func fillOf(o graphics.Object) (*graphics.FillAttr, bool) {
	c, ok := o.(graphics.FillCarrier)
	if !ok {
		return nil, false
	}
	return c.FillAttributes(), true
}

func markerOf(o graphics.Object) (*graphics.MarkerAttr, bool) {
	c, ok := o.(graphics.MarkerCarrier)
	if !ok {
		return nil, false
	}
	return c.MarkerAttributes(), true
}

func textOf(o graphics.Object) (*graphics.TextAttr, bool) {
	c, ok := o.(graphics.TextCarrier)
	if !ok {
		return nil, false
	}
	return c.TextAttributes(), true
}

// field builds an accessor for one field of the attribute struct A.
func field[A any](name string, of func(graphics.Object) (*A, bool), get func(*A) float64, set func(*A, float64)) accessor {
	return accessor{
		name: name,
		get: func(o graphics.Object) (float64, bool) {
			a, ok := of(o)
			if !ok {
				return 0, false
			}
			return get(a), true
		},
		set: func(o graphics.Object, v float64) bool {
			a, ok := of(o)
			if !ok {
				return false
			}
			set(a, v)
			return true
		},
	}
}

func round(v float64) int { return int(math.Floor(v + 0.5)) }

var accessors = map[Property]accessor{
	LineColor: field("LineColor", lineOf,
		func(a *graphics.LineAttr) float64 { return float64(a.LineColor) },
		func(a *graphics.LineAttr, v float64) { a.LineColor = colors.Index(round(v)) }),
	LineStyle: field("LineStyle", lineOf,
		func(a *graphics.LineAttr) float64 { return float64(a.LineStyle) },
		func(a *graphics.LineAttr, v float64) { a.LineStyle = round(v) }),
	LineWidth: field("LineWidth", lineOf,
		func(a *graphics.LineAttr) float64 { return a.LineWidth },
		func(a *graphics.LineAttr, v float64) { a.LineWidth = v }),
	FillColor: field("FillColor", fillOf,
		func(a *graphics.FillAttr) float64 { return float64(a.FillColor) },
		func(a *graphics.FillAttr, v float64) { a.FillColor = colors.Index(round(v)) }),
	FillStyle: field("FillStyle", fillOf,
		func(a *graphics.FillAttr) float64 { return float64(a.FillStyle) },
		func(a *graphics.FillAttr, v float64) { a.FillStyle = round(v) }),
	MarkerColor: field("MarkerColor", markerOf,
		func(a *graphics.MarkerAttr) float64 { return float64(a.MarkerColor) },
		func(a *graphics.MarkerAttr, v float64) { a.MarkerColor = colors.Index(round(v)) }),
	MarkerSize: field("MarkerSize", markerOf,
		func(a *graphics.MarkerAttr) float64 { return a.MarkerSize },
		func(a *graphics.MarkerAttr, v float64) { a.MarkerSize = v }),
	MarkerStyle: field("MarkerStyle", markerOf,
		func(a *graphics.MarkerAttr) float64 { return float64(a.MarkerStyle) },
		func(a *graphics.MarkerAttr, v float64) { a.MarkerStyle = round(v) }),
	TextColor: field("TextColor", textOf,
		func(a *graphics.TextAttr) float64 { return float64(a.TextColor) },
		func(a *graphics.TextAttr, v float64) { a.TextColor = colors.Index(round(v)) }),
	TextFont: field("TextFont", textOf,
		func(a *graphics.TextAttr) float64 { return float64(a.TextFont) },
		func(a *graphics.TextAttr, v float64) { a.TextFont = round(v) }),
	TextSize: field("TextSize", textOf,
		func(a *graphics.TextAttr) float64 { return a.TextSize },
		func(a *graphics.TextAttr, v float64) { a.TextSize = v }),
	TextAlign: field("TextAlign", textOf,
		func(a *graphics.TextAttr) float64 { return float64(a.TextAlign) },
		func(a *graphics.TextAttr, v float64) { a.TextAlign = round(v) }),
}

var byName = func() map[string]Property {
	m := make(map[string]Property, len(accessors))
	for p, a := range accessors {
		m[a.name] = p
	}
	return m
}()

// AllProperties returns every property in declaration order.
func AllProperties() []Property {
	out := make([]Property, 0, len(accessors))
	for p := LineColor; p <= TextAlign; p++ {
		out = append(out, p)
	}
	return out
}

func (p Property) String() string {
	if a, ok := accessors[p]; ok {
		return a.name
	}
	return "Property(?)"
}

// ParseProperty resolves a property name. Both the bare name and the
// "Set"-prefixed form are accepted; matching is case-sensitive.
func ParseProperty(name string) (Property, bool) {
	if p, ok := byName[name]; ok {
		return p, true
	}
	if rest, ok := strings.CutPrefix(name, "Set"); ok {
		p, ok := byName[rest]
		return p, ok
	}
	return 0, false
}

// Get reads property p off obj. ok is false when obj does not carry it.
func Get(obj graphics.Object, p Property) (v float64, ok bool) {
	a, found := accessors[p]
	if !found || obj == nil {
		return 0, false
	}
	return a.get(obj)
}

// Result reports what a property update did.
type Result struct {
	Applied []Property
	// Ignored holds names that are unknown or not carried by the object.
	Ignored []string
}

func (r *Result) merge(o Result) {
	r.Applied = append(r.Applied, o.Applied...)
	r.Ignored = append(r.Ignored, o.Ignored...)
}

func apply(obj graphics.Object, p Property, v float64, r *Result) {
	a, ok := accessors[p]
	if !ok {
		r.Ignored = append(r.Ignored, p.String())
		return
	}
	if obj == nil || !a.set(obj, v) {
		r.Ignored = append(r.Ignored, a.name)
		return
	}
	r.Applied = append(r.Applied, p)
}

// ApplyProperties sets props on obj in declaration order.
func ApplyProperties(obj graphics.Object, props Properties) Result {
	var r Result
	for _, p := range sortedProps(props) {
		apply(obj, p, props[p], &r)
	}
	return r
}

// ApplyNamed sets string-keyed properties on obj. Unknown names are
// skipped and reported in Result.Ignored. Keys are applied in sorted order,
// so of "LineColor" and "SetLineColor" the latter wins.
func ApplyNamed(obj graphics.Object, props map[string]float64) Result {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var r Result
	for _, k := range keys {
		p, ok := ParseProperty(k)
		if !ok {
			r.Ignored = append(r.Ignored, k)
			continue
		}
		apply(obj, p, props[k], &r)
	}
	return r
}

// CopyProperties copies the named attributes from src to dst, then applies
// extra on top so that its values win.
func CopyProperties(dst, src graphics.Object, names []Property, extra Properties) Result {
	var r Result
	for _, p := range names {
		v, ok := Get(src, p)
		if !ok {
			r.Ignored = append(r.Ignored, p.String())
			continue
		}
		apply(dst, p, v, &r)
	}
	r.merge(ApplyProperties(dst, extra))
	return r
}

func sortedProps(props Properties) []Property {
	out := make([]Property, 0, len(props))
	for p := range props {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
