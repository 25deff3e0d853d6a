// Package cmsstyle applies the CMS plotting conventions on top of the
// graphics toolkit.
//
// # Overview
//
// Everything hangs off a [Session]. A session owns the branding [State]
// (experiment text, extra text, luminosity and energy captions, logo path)
// and the global [graphics.Style] installed by [Session.ApplyStyle]. There
// are no package-level globals: two sessions never see each other's
// settings.
//
//	s := cmsstyle.NewSession()
//	_ = s.SetEnergy(13.6, "TeV")
//	s.SetLumi(45, "fb", "Run 3", 1)
//	s.SetExtraText("p", 0)
//
//	c, err := s.MakeCanvas("c", cmsstyle.Range{Max: 200}, cmsstyle.Range{Max: 1e3},
//	    "m_{#mu#mu} [GeV]", "Events")
//	d := cmsstyle.DefaultDrawStyle()
//	d.FillColor = colors.P6Blue
//	cmsstyle.Draw(c.Pad, h, "HIST", d)
//	err = s.SaveCanvas(c, "plot.pdf", true)
//
// # Branding
//
// The branding block is laid out by [Session.BrandingLayout], a pure
// function of the pad geometry, the alignment code and the session state.
// [Session.DrawBranding] draws the result. Alignment codes follow the
// 10*horizontal+vertical convention; a tens digit of 0 places the
// experiment text above the frame.
//
// # Properties
//
// Drawable attributes are changed through the closed [Property]
// enumeration. [ApplyProperties] and [CopyProperties] take typed values;
// [ApplyNamed] accepts string keys with or without the "Set" prefix.
// Properties an object does not carry are reported in [Result.Ignored],
// never as an error.
//
// # Diagnostics
//
// Operations never panic. Configuration problems are logged through the
// session logger and also returned as coded errors from pkg/errors, so
// callers may ignore them or handle them strictly.
package cmsstyle
