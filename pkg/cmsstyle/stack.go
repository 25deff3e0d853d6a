package cmsstyle

import (
	"reflect"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// StackOptions configures BuildStack.
type StackOptions struct {
	// Colors assigned to the histograms in order. Empty selects a Petroff
	// set sized to the number of histograms.
	Colors []colors.Index
	// Option is the stack title; "" means "STACK".
	Option string
	// Properties applied to every histogram. The color properties take the
	// histogram's entry of Colors instead of their value. Nil means
	// FillColor and FillStyle 1001 unless NoDefault is set.
	Properties Properties
	NoDefault  bool
}

func (o StackOptions) properties() Properties {
	if o.NoDefault {
		return nil
	}
	if len(o.Properties) == 0 {
		return Properties{FillColor: -1, FillStyle: 1001}
	}
	return o.Properties
}

func isColor(p Property) bool {
	return p == LineColor || p == FillColor || p == MarkerColor
}

// BuildStack styles hists and stacks them in order. Nil histograms and
// histograms binned differently from the first one are skipped and reported
// in the returned error; the stack holds the rest.
func (s *Session) BuildStack(hists []*graphics.H1, o StackOptions) (*graphics.Stack, error) {
	opt := o.Option
	if opt == "" {
		opt = "STACK"
	}
	hs := graphics.NewStack("hstack", opt)

	palette := o.Colors
	if len(palette) == 0 && len(hists) > 0 {
		palette = colors.PetroffSet(len(hists))
	}
	if len(palette) > 0 && len(palette) < len(hists) {
		s.logger.Warn("fewer colors than histograms, reusing colors",
			"colors", len(palette), "histograms", len(hists))
	}

	var errs []error
	props := o.properties()
	for i, h := range hists {
		if h == nil {
			s.logger.Error("nil histogram in stack", "index", i)
			errs = append(errs, errors.New(errors.ErrCodeInvalidInput, "stack entry %d is nil", i))
			continue
		}
		if !hs.Add(h) {
			first := hs.Hists()[0]
			s.logger.Error("histogram binning differs from the stack",
				"histogram", h.Name(), "bins", h.NBins(), "want", first.NBins())
			errs = append(errs, errors.New(errors.ErrCodeInvalidInput,
				"cannot stack %s: %d bins in [%g, %g], stack has %d bins in [%g, %g]",
				h.Name(), h.NBins(), h.XMin, h.XMax, first.NBins(), first.XMin, first.XMax))
			continue
		}
		for _, p := range sortedProps(props) {
			v := props[p]
			if isColor(p) && len(palette) > 0 {
				v = float64(palette[i%len(palette)])
			}
			var r Result
			apply(h, p, v, &r)
		}
	}
	return hs, errors.Join(errs...)
}

// BuildAndDrawStack builds a stack from the histograms of items, adds the
// items to leg (in reverse order if reverse is set) and draws the stack on
// pad. Items that are not histograms are skipped and reported.
func (s *Session) BuildAndDrawStack(pad *graphics.Pad, items []LegendItem, leg *graphics.Legend, reverse bool, o StackOptions) (*graphics.Stack, error) {
	var (
		hists []*graphics.H1
		kept  []LegendItem
		errs  []error
	)
	for _, it := range items {
		h, ok := it.Object.(*graphics.H1)
		if !ok || h == nil {
			s.logger.Error("only histograms can be stacked", "object", objectName(it.Object))
			errs = append(errs, errors.New(errors.ErrCodeUnsupportedObject, "cannot stack %s", objectName(it.Object)))
			continue
		}
		hists = append(hists, h)
		kept = append(kept, it)
	}

	hs, err := s.BuildStack(hists, o)
	if err != nil {
		errs = append(errs, err)
		stacked := make(map[*graphics.H1]bool)
		for _, h := range hs.Hists() {
			stacked[h] = true
		}
		var inStack []LegendItem
		for _, it := range kept {
			if stacked[it.Object.(*graphics.H1)] {
				inStack = append(inStack, it)
			}
		}
		kept = inStack
	}

	if leg != nil {
		if reverse {
			for i := len(kept) - 1; i >= 0; i-- {
				AddToLegend(leg, kept[i])
			}
		} else {
			AddToLegend(leg, kept...)
		}
	}
	if pad != nil {
		ObjectDraw(pad, hs, "", nil)
	}
	return hs, errors.Join(errs...)
}

func objectName(o graphics.Object) string {
	if isNil(o) {
		return "<nil>"
	}
	return o.Name()
}

// isNil reports whether o is nil or a nil pointer in an interface.
func isNil(o graphics.Object) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
