package graphics

// Text is a label with markup in the "#bf{...}", "^{...}" dialect. NDC
// texts are placed in pad NDC, others in world coordinates of the frame.
type Text struct {
	name string
	TextAttr
	X, Y  float64
	Value string
	NDC   bool
	Angle float64
}

// NewText creates a text positioned in NDC.
func NewText(x, y float64, value string, attr TextAttr) *Text {
	return &Text{name: "TLatex", TextAttr: attr, X: x, Y: y, Value: value, NDC: true}
}

func (t *Text) Name() string { return t.name }

// Line is a segment in world coordinates of the frame, or pad NDC when NDC
// is set.
type Line struct {
	name string
	LineAttr
	X1, Y1, X2, Y2 float64
	NDC            bool
}

// NewLine creates a line in world coordinates.
func NewLine(x1, y1, x2, y2 float64) *Line {
	return &Line{name: "TLine", LineAttr: defaultLine(), X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (l *Line) Name() string { return l.name }

// Image is a raster file painted over the whole pad it is drawn on.
type Image struct {
	name string
	Path string
}

// NewImage creates an image primitive for the file at path.
func NewImage(path string) *Image { return &Image{name: "TASImage", Path: path} }

func (i *Image) Name() string { return i.name }
