package graphics

// Axis is one axis of a frame.
type Axis struct {
	AxisStyle
	Title         string
	Min, Max      float64
	MoreLogLabels bool
	NoExponent    bool
	MaxDigits     int
}

// SetRange sets the axis limits.
func (a *Axis) SetRange(lo, hi float64) { a.Min, a.Max = lo, hi }

// Frame is the axis frame drawn by [Pad.DrawFrame].
type Frame struct {
	name string
	LineAttr
	FillAttr
	X, Y Axis
}

// NewFrame creates a frame spanning [xmin,xmax]×[ymin,ymax].
func NewFrame(name string, xmin, xmax, ymin, ymax float64, s *Style) *Frame {
	f := &Frame{
		name:     name,
		LineAttr: defaultLine(),
		FillAttr: defaultFill(),
	}
	f.X.Min, f.X.Max = xmin, xmax
	f.Y.Min, f.Y.Max = ymin, ymax
	if s == nil {
		s = NewStyle("default", "")
	}
	f.X.AxisStyle = s.X
	f.Y.AxisStyle = s.Y
	return f
}

func (f *Frame) Name() string { return f.name }

// UseStyle resets both axes to the attributes of s, keeping titles and ranges.
func (f *Frame) UseStyle(s *Style) {
	if s == nil {
		return
	}
	f.X.AxisStyle = s.X
	f.Y.AxisStyle = s.Y
}
