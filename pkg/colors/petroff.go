package colors

// Petroff 6-color set.
const (
	P6Blue   Index = 1000 + iota // #5790fc
	P6Yellow                     // #f89c20
	P6Red                        // #e42536
	P6Grape                      // #964a8b
	P6Gray                       // #9c9ca1
	P6Violet                     // #7a21dd
)

// Petroff 8-color set.
const (
	P8Blue   Index = 1010 + iota // #1845fb
	P8Orange                     // #ff5e02
	P8Red                        // #c91f16
	P8Pink                       // #c849a9
	P8Green                      // #adad7d
	P8Cyan                       // #86c8dd
	P8Azure                      // #578dff
	P8Gray                       // #656364
)

// Petroff 10-color set.
const (
	P10Blue   Index = 1020 + iota // #3f90da
	P10Yellow                     // #ffa90e
	P10Red                        // #bd1f01
	P10Gray                       // #94a4a2
	P10Violet                     // #832db6
	P10Brown                      // #a96b59
	P10Orange                     // #e76300
	P10Green                      // #b9ac70
	P10Ash                        // #717581
	P10Cyan                       // #92dadd
)

var petroffHex = map[Index]string{
	P6Blue: "#5790fc", P6Yellow: "#f89c20", P6Red: "#e42536",
	P6Grape: "#964a8b", P6Gray: "#9c9ca1", P6Violet: "#7a21dd",

	P8Blue: "#1845fb", P8Orange: "#ff5e02", P8Red: "#c91f16", P8Pink: "#c849a9",
	P8Green: "#adad7d", P8Cyan: "#86c8dd", P8Azure: "#578dff", P8Gray: "#656364",

	P10Blue: "#3f90da", P10Yellow: "#ffa90e", P10Red: "#bd1f01", P10Gray: "#94a4a2",
	P10Violet: "#832db6", P10Brown: "#a96b59", P10Orange: "#e76300", P10Green: "#b9ac70",
	P10Ash: "#717581", P10Cyan: "#92dadd",
}

var petroffNames = map[string]Index{
	"p6.kBlue": P6Blue, "p6.kYellow": P6Yellow, "p6.kRed": P6Red,
	"p6.kGrape": P6Grape, "p6.kGray": P6Gray, "p6.kViolet": P6Violet,

	"p8.kBlue": P8Blue, "p8.kOrange": P8Orange, "p8.kRed": P8Red, "p8.kPink": P8Pink,
	"p8.kGreen": P8Green, "p8.kCyan": P8Cyan, "p8.kAzure": P8Azure, "p8.kGray": P8Gray,

	"p10.kBlue": P10Blue, "p10.kYellow": P10Yellow, "p10.kRed": P10Red, "p10.kGray": P10Gray,
	"p10.kViolet": P10Violet, "p10.kBrown": P10Brown, "p10.kOrange": P10Orange,
	"p10.kGreen": P10Green, "p10.kAsh": P10Ash, "p10.kCyan": P10Cyan,
}

// Petroff6 returns the 6-color set in its reference order.
func Petroff6() []Index {
	return []Index{P6Blue, P6Yellow, P6Red, P6Grape, P6Gray, P6Violet}
}

// Petroff8 returns the 8-color set in its reference order.
func Petroff8() []Index {
	return []Index{P8Blue, P8Orange, P8Red, P8Pink, P8Green, P8Cyan, P8Azure, P8Gray}
}

// Petroff10 returns the 10-color set in its reference order.
func Petroff10() []Index {
	return []Index{
		P10Blue, P10Yellow, P10Red, P10Gray, P10Violet,
		P10Brown, P10Orange, P10Green, P10Ash, P10Cyan,
	}
}

// PetroffSet returns n colors for n stacked or overlaid entries. Up to six
// entries use the 6-color set, up to eight the 8-color set; larger requests
// cycle through the 10-color set.
func PetroffSet(n int) []Index {
	if n <= 0 {
		return nil
	}
	var set []Index
	switch {
	case n < 7:
		set = Petroff6()
	case n < 9:
		set = Petroff8()
	default:
		set = Petroff10()
	}
	out := make([]Index, n)
	for i := range out {
		out[i] = set[i%len(set)]
	}
	return out
}

// PaletteNames lists the named qualitative sets accepted by Set.
func PaletteNames() []string {
	return []string{"p6", "p8", "p10"}
}

// Set returns a named qualitative set ("p6", "p8" or "p10").
func Set(name string) ([]Index, bool) {
	switch name {
	case "p6":
		return Petroff6(), true
	case "p8":
		return Petroff8(), true
	case "p10":
		return Petroff10(), true
	}
	return nil, false
}

// Name returns the "pN.kColor" name of a Petroff index, or its hex form.
func Name(i Index) string {
	for n, idx := range petroffNames {
		if idx == i {
			return n
		}
	}
	for n, idx := range wheelNames {
		if idx == i {
			return n
		}
	}
	return Hex(i)
}
