// Package sink renders a [graphics.Canvas] into image and document formats.
//
// # Overview
//
// A "sink" walks the canvas pads and paints every primitive through the
// gonum/plot vector graphics backends:
//
//   - SVG: [RenderSVG] via vgsvg
//   - PNG and JPEG: [RenderPNG], [RenderJPEG] via vgimg
//   - PDF: [RenderPDF] via vgpdf
//   - EPS: [RenderEPS] via vgeps
//
// [Render] picks the backend from a [Format] and [SaveAs] from a file
// extension:
//
//	data, err := sink.Render(canvas, sink.FormatPNG, sink.WithScale(2))
//	err = sink.SaveAs(canvas, "plot.pdf")
//
// # Painting Model
//
// One canvas pixel maps to one point of the backend, so a 600×600 canvas
// gives a 600×600 PNG at scale 1. Pads are painted in drawing order. Frames
// establish world coordinates for histograms, graphs and lines drawn after
// them on the same pad; texts, legends and stats boxes are placed in pad NDC.
//
// Text markup in the "#bf{...}", "^{-1}", "#sqrt{s}" dialect is converted to
// plain Unicode before painting. Fonts map onto the Liberation families
// shipped with gonum/plot.
//
// Image primitives that cannot be decoded are skipped; the render still
// produces output and reports the failures as a joined error.
//
// [graphics.Canvas]: github.com/cms-cat/cmsstyle-go/pkg/graphics.Canvas
package sink
