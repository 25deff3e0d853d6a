package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
	"github.com/cms-cat/cmsstyle-go/pkg/pipeline"
)

// defaultDebounce groups the burst of events an editor save produces.
const defaultDebounce = 200 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single input) or base path
	formats []string // overrides the document's formats
	scale   float64  // raster scale; 0 keeps the document's
	noCache bool
	refresh bool
	logoDir string
	watch   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render plot documents to SVG, PNG, JPEG, PDF or EPS",
		Long: `Render decodes each plot document (TOML, YAML or JSON), draws it on a
CMS-styled canvas and writes one file per output format next to the input.

With --watch the documents are re-rendered whenever they change on disk.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if len(opts.formats) == 0 && opts.output != "" {
				if f, err := sink.FormatFromPath(opts.output); err == nil {
					opts.formats = []string{string(f)}
				}
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output != "" && len(args) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--output needs a single input file, got %d", len(args))
			}

			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := withLogger(cmd.Context(), c.Logger)
			r := &renderer{runner: runner, opts: opts, cmd: cmd}

			for _, path := range args {
				if err := r.renderFile(ctx, path); err != nil && !opts.watch {
					return err
				}
			}
			if !opts.watch {
				if len(args) == 1 {
					printNextStep("Re-render on change", appName+" render --watch "+args[0])
				}
				return nil
			}
			return r.watch(ctx, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, jpeg, pdf, eps (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "raster scale factor for png and jpeg")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and render again")
	cmd.Flags().StringVar(&opts.logoDir, "logo-dir", "", "directory searched for the CMS logo image")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when an input changes")
	_ = cmd.RegisterFlagCompletionFunc("format", completeOutputFormats)

	return cmd
}

// renderer renders documents for one invocation of the render command.
type renderer struct {
	runner *pipeline.Runner
	opts   renderOpts
	cmd    *cobra.Command
}

// renderFile runs the pipeline for path and writes every artifact.
func (r *renderer) renderFile(ctx context.Context, path string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		printError("%s: %v", path, err)
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	spin := newSpinnerWithContext(ctx, r.cmd.ErrOrStderr(), "Rendering "+filepath.Base(path))
	spin.Start()
	result, err := r.runner.Execute(ctx, pipeline.Options{
		Source:  data,
		Path:    path,
		Formats: r.opts.formats,
		Scale:   r.opts.scale,
		Refresh: r.opts.refresh,
		Logger:  logger,
		LogoDir: r.opts.logoDir,
	})
	if err != nil {
		spin.StopWithError(fmt.Sprintf("%s: %s", path, errors.UserMessage(err)))
		return err
	}
	spin.Stop()

	written, err := writeArtifacts(result.Artifacts, r.opts.output, path)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", path)
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	for _, f := range written {
		printFile(f)
	}
	printStats(result.Stats.Objects, len(result.Warnings), result.CacheInfo.RenderHit)
	prog.done("Rendered " + filepath.Base(path))
	return nil
}

// outputPaths maps each format to its output file. An output naming a file
// of the only format is used as is; otherwise files are base.<format>.
func outputPaths(formats []string, output, input string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		if f, err := sink.FormatFromPath(output); err == nil && string(f) == formats[0] {
			paths[formats[0]] = output
			return paths
		}
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact to its path in format order.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	paths := outputPaths(formats, output, input)

	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, err
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// basePath derives the output path without extension. An empty output
// strips the extension from input; a known format extension is stripped
// from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if _, err := sink.FormatFromPath(output); err == nil {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// watch re-renders paths until ctx ends.
func (r *renderer) watch(ctx context.Context, paths []string) error {
	w, err := newFileWatcher(paths, defaultDebounce, loggerFromContext(ctx))
	if err != nil {
		return err
	}
	defer w.Close()

	printInfo("Watching %d file(s), press Ctrl+C to stop", len(paths))
	return w.Run(ctx, func(path string) {
		// Failures are already reported; keep watching.
		_ = r.renderFile(ctx, path)
	})
}
