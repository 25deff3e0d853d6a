package cmsstyle

import (
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// Extenter reports the highest point an object reaches on the y axis,
// errors included.
type Extenter interface {
	MaxExtent() float64
}

// MaxY returns the recommended maximum of the y axis for objs: the largest
// of their extents, and never below 0. Objects without an extent are
// logged, contribute 0 and are reported in the returned error.
func (s *Session) MaxY(objs ...graphics.Object) (float64, error) {
	var (
		maxval float64
		errs   []error
	)
	for _, o := range objs {
		e, ok := o.(Extenter)
		if !ok || isNil(o) {
			s.logger.Warn("object ignored for the y maximum", "object", objectName(o))
			errs = append(errs, errors.New(errors.ErrCodeUnsupportedObject, "no y extent for %s", objectName(o)))
			continue
		}
		maxval = max(maxval, e.MaxExtent())
	}
	return maxval, errors.Join(errs...)
}
