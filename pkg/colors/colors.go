// Package colors implements the indexed color table used by the drawing toolkit.
//
// Drawable attributes refer to colors by integer [Index], the same way the
// plotting toolkits used in high-energy physics do. Indices 0-9 are the basic
// colors, the "wheel" colors (Red, Azure, ...) accept small offsets such as
// Yellow+1 for darker shades, the Petroff qualitative sets live at fixed
// indices, and further colors can be registered at run time from hex strings.
//
// The table is shared by every canvas in the process and is safe for
// concurrent use.
package colors

import (
	"fmt"
	"image/color"
	"regexp"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Index identifies a color in the table.
type Index int

// Basic colors.
const (
	White Index = 0
	Black Index = 1
)

// Wheel colors. Offsets in [-10, 4] around each value give lighter (negative)
// or darker (positive) shades.
const (
	Gray    Index = 920
	Red     Index = 632
	Green   Index = 416
	Blue    Index = 600
	Yellow  Index = 400
	Magenta Index = 616
	Cyan    Index = 432
	Orange  Index = 800
	Spring  Index = 820
	Teal    Index = 840
	Azure   Index = 860
	Violet  Index = 880
	Pink    Index = 900
)

// Bands used for limit plots.
const (
	Limit68    Index = 1040 // inner band, default set
	Limit95    Index = 1041 // outer band, default set
	Limit68CMS Index = 1042 // inner band, CMS-logo set
	Limit95CMS Index = 1043 // outer band, CMS-logo set
)

// dynamicBase is the first index handed out by Register.
const dynamicBase Index = 2000

var basic = [...]string{
	"#ffffff", "#000000", "#ff0000", "#00ff00", "#0000ff",
	"#ffff00", "#ff00ff", "#00ffff", "#59d454", "#5954d8",
}

var wheel = map[Index]string{
	Gray:    "#999999",
	Red:     "#ff0000",
	Green:   "#00ff00",
	Blue:    "#0000ff",
	Yellow:  "#ffff00",
	Magenta: "#ff00ff",
	Cyan:    "#00ffff",
	Orange:  "#ffcc00",
	Spring:  "#ccff00",
	Teal:    "#00ffcc",
	Azure:   "#0066ff",
	Violet:  "#cc00ff",
	Pink:    "#ff0066",
}

var wheelNames = map[string]Index{
	"kWhite": White, "kBlack": Black,
	"kGray": Gray, "kRed": Red, "kGreen": Green, "kBlue": Blue,
	"kYellow": Yellow, "kMagenta": Magenta, "kCyan": Cyan, "kOrange": Orange,
	"kSpring": Spring, "kTeal": Teal, "kAzure": Azure, "kViolet": Violet, "kPink": Pink,
}

var fixed = map[Index]string{
	Limit68:    "#607641",
	Limit95:    "#f5bb54",
	Limit68CMS: "#85d1fb",
	Limit95CMS: "#ffdf7f",
}

type registry struct {
	mu    sync.RWMutex
	dyn   map[Index]color.NRGBA
	byKey map[color.NRGBA]Index
	next  Index
}

var reg = &registry{
	dyn:   make(map[Index]color.NRGBA),
	byKey: make(map[color.NRGBA]Index),
	next:  dynamicBase,
}

var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// IsValidHex reports whether s is a "#rgb" or "#rrggbb" color string.
func IsValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// Valid reports whether i resolves to a color.
func Valid(i Index) bool {
	_, ok := lookupRGBA(i)
	return ok
}

// RGBA returns the color for i. Unknown indices resolve to black with ok=false.
func RGBA(i Index) (color.NRGBA, bool) {
	c, ok := lookupRGBA(i)
	if !ok {
		return color.NRGBA{A: 255}, false
	}
	return c, true
}

// WithAlpha returns the color for i with its alpha replaced; alpha outside
// (0,1] keeps the table value.
func WithAlpha(i Index, alpha float64) color.NRGBA {
	c, _ := RGBA(i)
	if alpha > 0 && alpha <= 1 {
		c.A = uint8(alpha*255 + 0.5)
	}
	return c
}

// Hex returns the "#rrggbb" form of i.
func Hex(i Index) string {
	c, _ := RGBA(i)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromHex returns the index for a hex color, registering it when needed.
func FromHex(hex string) (Index, error) {
	if len(hex) == 9 && hex[0] == '#' {
		// "#rrggbbaa" as accepted by the original color helpers: alpha dropped
		hex = hex[:7]
	}
	if !IsValidHex(hex) {
		return 0, fmt.Errorf("invalid hex color %q", hex)
	}
	if len(hex) == 4 {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, err
	}
	r, g, b := c.RGB255()
	return Register(color.NRGBA{R: r, G: g, B: b, A: 255}), nil
}

// Register adds c to the table and returns its index. Registering the same
// color twice returns the same index.
func Register(c color.NRGBA) Index {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if i, ok := reg.byKey[c]; ok {
		return i
	}
	i := reg.next
	reg.next++
	reg.dyn[i] = c
	reg.byKey[c] = i
	return i
}

// Lookup resolves a color by name: "p8.kBlue" style names pick a Petroff
// color, "kRed" style names pick a wheel color, and hex strings are registered.
func Lookup(name string) (Index, bool) {
	if i, ok := petroffNames[name]; ok {
		return i, true
	}
	if i, ok := wheelNames[name]; ok {
		return i, true
	}
	if IsValidHex(name) {
		i, err := FromHex(name)
		return i, err == nil
	}
	return 0, false
}

func lookupRGBA(i Index) (color.NRGBA, bool) {
	switch {
	case i >= 0 && int(i) < len(basic):
		return mustHex(basic[i]), true
	case i >= dynamicBase:
		reg.mu.RLock()
		c, ok := reg.dyn[i]
		reg.mu.RUnlock()
		return c, ok
	}
	if h, ok := petroffHex[i]; ok {
		return mustHex(h), true
	}
	if h, ok := fixed[i]; ok {
		return mustHex(h), true
	}
	for base, h := range wheel {
		off := int(i - base)
		if off >= -10 && off <= 4 {
			return shade(mustHex(h), off), true
		}
	}
	return color.NRGBA{}, false
}

// shade darkens a wheel color for positive offsets and lightens it for
// negative ones.
func shade(c color.NRGBA, off int) color.NRGBA {
	if off == 0 {
		return c
	}
	base := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	target := colorful.Color{R: 0, G: 0, B: 0}
	t := float64(off) * 0.15
	if off < 0 {
		target = colorful.Color{R: 1, G: 1, B: 1}
		t = float64(-off) * 0.08
	}
	r, g, b := base.BlendRgb(target, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func mustHex(h string) color.NRGBA {
	c, err := colorful.Hex(h)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
