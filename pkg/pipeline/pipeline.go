// Package pipeline turns declarative plot documents into rendered CMS
// figures.
//
// A document (TOML, YAML or JSON) describes the branding, the canvas and
// the histograms, graphs, stacks and ratios to draw. The pipeline has three
// stages:
//
//  1. Decode: parse and validate the document
//  2. Build: configure a cmsstyle session and draw the document on a canvas
//  3. Render: paint the canvas in each requested format
//
// The decoded document and every rendered artifact are cached by content
// hash, so rendering the same document twice only builds the canvas once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  data,
//	    Path:    "mass.toml",
//	    Formats: []string{"svg", "pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cms-cat/cmsstyle-go/pkg/cache"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is rendered when neither the options nor the document
	// name a format.
	DefaultFormat = string(sink.FormatSVG)

	// DefaultScale is the raster scale factor.
	DefaultScale = 1.0

	// MaxScale bounds the raster scale factor.
	MaxScale = 8.0

	// MaxBins bounds the number of bins of a document histogram.
	MaxBins = 100_000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration of one pipeline run. It supports JSON
// serialization for API requests.
type Options struct {
	// Source is the raw document.
	Source []byte `json:"source"`
	// SourceFormat is "toml", "yaml" or "json". Empty infers it from Path.
	SourceFormat string `json:"source_format,omitempty"`
	Path         string `json:"path,omitempty"`

	// Formats overrides the formats listed in the document.
	Formats []string `json:"formats,omitempty"`
	// Scale overrides the document scale; 0 keeps it.
	Scale   float64 `json:"scale,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger `json:"-"`
	LogoDir string      `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document *Document

	// DocumentHash is the content hash of the canonical document.
	DocumentHash string

	// Plot is nil when every artifact came from the cache.
	Plot *Plot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings collects non-fatal problems reported while building.
	Warnings []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Objects    int
	DecodeTime time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHit bool // decoded document came from cache
	RenderHit   bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that every format can be rendered.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := sink.ParseFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "output format %q", f)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the source and applies defaults that do not
// depend on the document. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if o.SourceFormat == "" {
		if o.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "source_format or path is required")
		}
		f, err := SourceFormat(o.Path)
		if err != nil {
			return err
		}
		o.SourceFormat = f
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale %g out of range (0, %g]", o.Scale, MaxScale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RenderSettings resolves the formats and scale of a run: the options win
// over the document, which wins over the defaults.
func (o *Options) RenderSettings(doc *Document) ([]string, float64, error) {
	formats := o.Formats
	if len(formats) == 0 {
		formats = doc.Output.Formats
	}
	if len(formats) == 0 {
		formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, 0, err
	}
	scale := o.Scale
	if scale == 0 {
		scale = doc.Output.Scale
	}
	if scale == 0 {
		scale = DefaultScale
	}
	if scale < 0 || scale > MaxScale {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "scale %g out of range (0, %g]", scale, MaxScale)
	}
	return formats, scale, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func ArtifactKeyOpts(format string, scale float64, version string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Scale: scale, Version: version}
}
