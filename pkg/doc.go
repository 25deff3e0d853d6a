// Package pkg provides the libraries behind cmsstyle, a plotting layer that
// applies the CMS publication style.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. [graphics] - The retained scene model (canvases, pads, frames,
//     histograms, graphs, legends, texts) and its renderer in
//     [graphics/sink]
//  2. [cmsstyle] - The CMS style session: branding, canvas factories,
//     legends, stacks, statistics boxes and subplot grids
//  3. [pipeline] - Declarative plot documents turned into rendered
//     artifacts (decode, build, render)
//  4. Support - [colors], [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	plot document (TOML, YAML, JSON)
//	         ↓
//	    [pipeline] decode + validate
//	         ↓
//	    [cmsstyle] session draws on a [graphics] canvas
//	         ↓
//	    [graphics/sink] SVG, PNG, JPEG, PDF, EPS
//
// # Quick Start
//
// Draw a histogram on a CMS canvas:
//
//	s := cmsstyle.NewSession()
//	s.SetEnergy(13.6, "")
//	s.SetLumi(34.3, "", "Run 3", 1)
//
//	c, _ := s.MakeCanvas("mass", cmsstyle.Range{0, 200}, cmsstyle.Range{0, 1000},
//	    "m_{ll} [GeV]", "Events")
//	h := graphics.NewH1("data", "", 20, 0, 200)
//	cmsstyle.ObjectDraw(c.Pad, h, "E1 P", nil)
//	_ = s.SaveCanvas(c, "mass.pdf", true)
//
// Or render a document:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{Source: data, Path: "mass.toml"})
//
// # Testing
//
//	go test ./pkg/...
//
// [graphics]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/graphics
// [graphics/sink]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/graphics/sink
// [cmsstyle]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/cmsstyle
// [pipeline]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/pipeline
// [colors]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/colors
// [cache]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/cache
// [errors]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/cms-cat/cmsstyle-go/pkg/buildinfo
package pkg
