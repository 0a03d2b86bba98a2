// Package server exposes the projection engine over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/rental-cashflow/internal/cache"
	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/forecast"
	"github.com/iwvelando/rental-cashflow/internal/store"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/output"
	"go.uber.org/zap"
)

// RunStore archives projection runs.
type RunStore interface {
	Save(ctx context.Context, run store.Run) (store.Run, error)
	Get(ctx context.Context, id string) (store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
}

// Options configures the handler. A nil Cache selects an in-process cache;
// a nil Store disables run archiving.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	Cache          cache.Cache
	CacheTTL       time.Duration
	Store          RunStore
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	cacheTTL      time.Duration
	store         RunStore
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		store:         opts.Store,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/projection", h.handleProjection)
		r.Post("/projection/report", h.handleReport)
		r.Get("/runs", h.handleListRuns)
		r.Get("/runs/{id}", h.handleGetRun)
		r.Get("/version", h.handleVersion)
	})

	return r
}

type projectionResponse struct {
	Scenarios   json.RawMessage `json:"scenarios"`
	Warnings    []string        `json:"warnings,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	Cached      bool            `json:"cached"`
	RunIDs      []string        `json:"runIds,omitempty"`
	Duration    string          `json:"duration"`
}

// cacheKeyInput is the part of a configuration that determines the result.
type cacheKeyInput struct {
	StartDate string            `json:"startDate"`
	Currency  string            `json:"currency"`
	Common    config.Parameters `json:"common"`
	Scenarios []config.Scenario `json:"scenarios"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	start := time.Now()

	cfg, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}
	warnings := cfg.ValidateConfiguration()

	outputFormat := strings.TrimSpace(r.URL.Query().Get("format"))
	if outputFormat != "" && outputFormat != constants.OutputFormatJSON {
		h.writeFormatted(w, r, cfg, outputFormat, op)
		return
	}

	key, err := cache.Fingerprint(cacheKeyInput{
		StartDate: cfg.StartDate,
		Currency:  cfg.Currency,
		Common:    cfg.Common,
		Scenarios: cfg.Scenarios,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	response := projectionResponse{Warnings: warnings, Fingerprint: key}
	if cached, hit := h.cache.Get(r.Context(), key); hit {
		response.Scenarios = json.RawMessage(cached)
		response.Cached = true
	} else {
		results, err := forecast.GetForecast(h.logger, *cfg)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to compute projection: %v", err), op)
			return
		}

		encoded, err := json.Marshal(results)
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode projection: %v", err), op)
			return
		}
		response.Scenarios = encoded

		if err := h.cache.Set(r.Context(), key, string(encoded), h.cacheTTL); err != nil {
			h.logger.Warn("failed to cache projection",
				zap.String("op", op),
				zap.Error(err),
			)
		}
		response.RunIDs = h.archive(r.Context(), key, results)
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.String("fingerprint", key),
		zap.Bool("cached", response.Cached),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	cfg, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}

	results, err := forecast.GetForecast(h.logger, *cfg)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to compute projection: %v", err), op)
		return
	}

	html, err := output.HTML(results, cfg.Currency)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListRuns"
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "run archive is disabled", op)
		return
	}

	limit := constants.DefaultRunListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), op)
			return
		}
		limit = parsed
	}

	runs, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list runs: %v", err), op)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (h *handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetRun"
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "run archive is disabled", op)
		return
	}

	run, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, err.Error(), op)
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load run: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// readConfiguration decodes a YAML or JSON configuration from the request
// body. It writes the error response itself and reports whether decoding
// succeeded.
func (h *handler) readConfiguration(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read configuration: %v", err), op)
		return nil, false
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		h.respondError(w, http.StatusBadRequest, "missing configuration", op)
		return nil, false
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return cfg, true
}

func (h *handler) writeFormatted(w http.ResponseWriter, r *http.Request, cfg *config.Configuration, outputFormat, op string) {
	contentTypes := map[string]string{
		constants.OutputFormatCSV:      "text/csv; charset=utf-8",
		constants.OutputFormatMarkdown: "text/markdown; charset=utf-8",
		constants.OutputFormatPretty:   "text/plain; charset=utf-8",
	}
	contentType, ok := contentTypes[outputFormat]
	if !ok {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported output format %q", outputFormat), op)
		return
	}

	results, err := forecast.GetForecast(h.logger, *cfg)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to compute projection: %v", err), op)
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, outputFormat, results, cfg.Currency); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.archive(r.Context(), "", results)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// archive saves each scenario result when a store is configured. Failures
// are logged and do not fail the request.
func (h *handler) archive(ctx context.Context, fingerprint string, results []forecast.Forecast) []string {
	if h.store == nil {
		return nil
	}
	var ids []string
	for _, result := range results {
		run, err := store.NewRun(fingerprint, result)
		if err == nil {
			run, err = h.store.Save(ctx, run)
		}
		if err != nil {
			h.logger.Warn("failed to archive run",
				zap.String("op", "server.archive"),
				zap.String("scenario", result.Name),
				zap.Error(err),
			)
			continue
		}
		ids = append(ids, run.ID)
	}
	return ids
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.logRequests"),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
