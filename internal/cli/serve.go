package cli

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cms-cat/cmsstyle-go/pkg/buildinfo"
	"github.com/cms-cat/cmsstyle-go/pkg/cache"
	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
	"github.com/cms-cat/cmsstyle-go/pkg/observability"
	"github.com/cms-cat/cmsstyle-go/pkg/pipeline"
)

const (
	// maxDocumentBytes bounds the size of a posted document.
	maxDocumentBytes = 4 << 20

	shutdownTimeout = 5 * time.Second
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	redisAddr   string
	redisPrefix string
	noCache     bool
	logoDir     string
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr, redisPrefix: appName + ":"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long: `Serve renders posted plot documents over HTTP.

  POST /render?format=png&scale=2   body: TOML, YAML or JSON document
  GET  /palettes                    the CMS colour sets
  GET  /healthz                     liveness and request counters

Rendered artifacts are cached on disk, or in Redis with --redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for a shared artifact cache")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", opts.redisPrefix, "key prefix in Redis")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.logoDir, "logo-dir", "", "directory searched for the CMS logo image")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	ch, backend, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "serve:"), c.Logger)
	defer runner.Close()

	counters := &observability.Counters{}
	observability.SetPipelineHooks(counters)
	observability.SetCacheHooks(counters)
	observability.SetHTTPHooks(counters)
	defer observability.Reset()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServer(runner, c.Logger, counters, opts.logoDir).routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	printSuccess("Preview server listening")
	printKeyValue("Address", "http://"+opts.addr)
	printKeyValue("Cache", backend)
	printKeyValue("Version", buildinfo.String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// serveCache picks the artifact cache backend and describes it.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, string, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), "disabled", nil
	case opts.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr, Prefix: opts.redisPrefix})
		if err != nil {
			return nil, "", err
		}
		return rc, "redis://" + opts.redisAddr, nil
	}
	ch, err := newCache(false)
	if err != nil {
		return nil, "", err
	}
	if fc, ok := ch.(*cache.FileCache); ok {
		return ch, fc.Dir(), nil
	}
	return ch, "disabled", nil
}

// =============================================================================
// HTTP Handlers
// =============================================================================

// server renders posted documents with a shared runner.
type server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	counters *observability.Counters
	logoDir  string
}

func newServer(runner *pipeline.Runner, logger *log.Logger, counters *observability.Counters, logoDir string) *server {
	return &server{runner: runner, logger: logger, counters: counters, logoDir: logoDir}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)

	r.Get("/healthz", s.handleHealth)
	r.Get("/palettes", s.handlePalettes)
	r.Post("/render", s.handleRender)
	return r
}

// statusWriter records the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestContext tags each request with an ID and a logger, and reports it
// to the HTTP hooks.
func (s *server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		w.Header().Set("Server", buildinfo.Server())

		logger := s.logger.With("request", id)
		ctx := withLogger(r.Context(), logger)
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, sw.status, elapsed)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", sw.status, "elapsed", elapsed)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"counters": s.counters.Snapshot(),
	})
}

func (s *server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]string)
	for _, name := range colors.PaletteNames() {
		cs, _ := colors.Set(name)
		hex := make([]string, len(cs))
		for i, c := range cs {
			hex[i] = colors.Hex(c)
		}
		out[name] = hex
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)
	q := r.URL.Query()

	format := sink.FormatSVG
	if v := q.Get("format"); v != "" {
		f, err := sink.ParseFormat(v)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "format %q", v))
			return
		}
		format = f
	}

	var scale float64
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %q", v))
			return
		}
		scale = f
	}

	sourceFormat := q.Get("source")
	if sourceFormat == "" {
		sourceFormat = sourceFromContentType(r.Header.Get("Content-Type"))
	}
	if sourceFormat == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "document format unknown: set ?source= or a toml, yaml or json Content-Type"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document"))
		return
	}

	result, err := s.runner.Execute(ctx, pipeline.Options{
		Source:       body,
		SourceFormat: sourceFormat,
		Formats:      []string{string(format)},
		Scale:        scale,
		Refresh:      q.Get("refresh") == "true",
		Logger:       logger,
		LogoDir:      s.logoDir,
	})
	if err != nil {
		logger.Warn("render failed", "err", err)
		writeError(w, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Document-Hash", result.DocumentHash)
	w.Header().Set("X-Plot-Warnings", strconv.Itoa(len(result.Warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[string(format)])
}

// sourceFromContentType maps a request Content-Type to a document format.
func sourceFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch mt {
	case "application/toml", "text/toml", "text/x-toml":
		return pipeline.SourceTOML
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return pipeline.SourceYAML
	case "application/json", "text/json":
		return pipeline.SourceJSON
	}
	return ""
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColor,
		errors.ErrCodeUnsupportedObject, errors.ErrCodeInvalidPosition:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound, errors.ErrCodeLogoNotFound:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
