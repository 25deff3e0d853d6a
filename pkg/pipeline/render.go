package pipeline

import (
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
)

func parseFormat(s string) (sink.Format, error) {
	f, err := sink.ParseFormat(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "render")
	}
	return f, nil
}

// Render paints the plot canvas in format f.
func Render(p *Plot, f sink.Format, scale float64) ([]byte, error) {
	if p == nil || p.Canvas == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}
	data, err := sink.Render(p.Canvas, f, sink.WithScale(scale))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", f)
	}
	return data, nil
}
