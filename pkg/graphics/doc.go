// Package graphics is the drawing model decorated by the cmsstyle layer.
//
// # Overview
//
// A [Canvas] is a root [Pad] with a window size in pixels. Pads hold margins,
// an extent in normalized device coordinates (NDC) of their parent, and an
// ordered list of primitives: anything implementing [Object] can be drawn
// onto a pad with an option string, the same way the analysis toolkits used
// in high-energy physics do it.
//
// # Drawables
//
//   - [H1]: binned one-dimensional histogram, filled directly or converted
//     from a go-hep hbook.H1D
//   - [Graph]: points with symmetric or asymmetric y errors, convertible from
//     hbook.S2D
//   - [Stack]: histograms drawn cumulatively
//   - [Frame]: axis frame with two [Axis] values, created by [Pad.DrawFrame]
//   - [Legend], [Stats], [Text], [Line], [Image]
//
// Attributes live in the embeddable [LineAttr], [FillAttr], [MarkerAttr] and
// [TextAttr] structs. Objects expose them through the [LineCarrier],
// [FillCarrier], [MarkerCarrier] and [TextCarrier] interfaces so that callers
// can set attributes without knowing the concrete type.
//
// # Style
//
// A [Style] collects the defaults applied to new frames, stats boxes and
// histograms. Canvases are created with the style in effect; a forced style
// resets axis attributes of every frame drawn on them.
//
// Rendering to files lives in the sink subpackage.
package graphics
