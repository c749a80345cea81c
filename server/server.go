// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"auto_article_pipeline/config"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/pipeline"
	"auto_article_pipeline/publisher"
	"auto_article_pipeline/store"
)

const runTimeout = 15 * time.Minute

// JobStore is the job persistence the server needs. *store.JobStore satisfies it.
type JobStore interface {
	pipeline.StatusSink
	CreateJob(ctx context.Context, id, topic string) error
	Finish(ctx context.Context, id, status, logs, result, publishedURL string) error
	Get(ctx context.Context, id string) (store.Job, error)
	Recent(ctx context.Context, limit int) ([]store.Job, error)
}

// BuildFunc assembles the pipeline for one run.
type BuildFunc func(cfg config.Config, run *pipeline.RunContext, logger *slog.Logger) (*pipeline.Orchestrator, error)

type Server struct {
	cfg    config.Config
	jobs   JobStore
	build  BuildFunc
	logger *slog.Logger
}

// New creates a server over the base config. build defaults to pipeline.Build.
func New(cfg config.Config, jobs JobStore, build BuildFunc, logger *slog.Logger) (*Server, error) {
	if jobs == nil {
		return nil, errors.New("job store required")
	}
	if build == nil {
		build = pipeline.Build
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, jobs: jobs, build: build, logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("GET /api/jobs", s.handleJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type siteReq struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type runReq struct {
	Topic          string    `json:"topic"`
	JobID          string    `json:"job_id"`
	GoogleAPIKey   string    `json:"google_api_key"`
	ModelName      string    `json:"model_name"`
	FallbackModels string    `json:"fallback_models"`
	Simulate       *bool     `json:"simulate"`
	WPConfig       []siteReq `json:"wp_config"`
}

type runResp struct {
	JobID        string   `json:"job_id"`
	Status       string   `json:"status"`
	PublishedURL string   `json:"published_url,omitempty"`
	Result       string   `json:"result"`
	Logs         []string `json:"logs"`
	Error        string   `json:"error,omitempty"`
}

// apply layers the request overrides on the base config.
func (req runReq) apply(cfg config.Config) config.Config {
	if req.GoogleAPIKey != "" {
		cfg.LLM.APIKey = req.GoogleAPIKey
	}
	if req.ModelName != "" {
		cfg.LLM.Model = req.ModelName
	}
	if req.FallbackModels != "" {
		cfg.LLM.Fallbacks = generator.SplitModelList(req.FallbackModels)
	}
	if req.Simulate != nil {
		cfg.Simulate = *req.Simulate
	}
	if len(req.WPConfig) > 0 {
		sites := make([]publisher.Site, 0, len(req.WPConfig))
		for _, w := range req.WPConfig {
			if w.URL == "" || w.Username == "" || w.Password == "" {
				continue
			}
			sites = append(sites, publisher.Site{URL: w.URL, Username: w.Username, AppPassword: w.Password})
		}
		cfg.Sites = sites
	}
	return cfg
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, errors.New("topic is required"))
		return
	}
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	cfg := req.apply(s.cfg)
	logger := s.logger.With(slog.String("job_id", req.JobID))

	// The job row outlives a dropped client connection.
	bg := context.WithoutCancel(r.Context())
	if err := s.jobs.CreateJob(bg, req.JobID, req.Topic); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	rc := pipeline.NewRunContext(req.JobID, pipeline.CredentialsFrom(cfg), s.jobs, logger)
	resp, code := s.execute(bg, cfg, rc, req.Topic, logger)
	if err := s.jobs.Finish(bg, req.JobID, resp.Status, rc.LogText(), resp.Result, resp.PublishedURL); err != nil {
		logger.Error("finish job failed", slog.Any("error", err))
	}
	writeJSON(w, code, resp)
}

func (s *Server) execute(ctx context.Context, cfg config.Config, rc *pipeline.RunContext, topic string, logger *slog.Logger) (runResp, int) {
	resp := runResp{JobID: rc.JobID()}
	fail := func(err error) (runResp, int) {
		resp.Status, resp.Error, resp.Logs = store.StatusFailed, err.Error(), rc.Logs()
		resp.Result = err.Error()
		if generator.IsConfigurationError(err) {
			return resp, http.StatusBadRequest
		}
		return resp, http.StatusInternalServerError
	}

	orch, err := s.build(cfg, rc, logger)
	if err != nil {
		return fail(err)
	}
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	out, err := orch.Run(ctx, topic)
	if err != nil {
		logger.Error("pipeline failed", slog.Any("error", err))
		return fail(err)
	}

	resp.Status = pipeline.JobStatus(out, nil)
	resp.Result = out.Output.Text
	resp.PublishedURL = pipeline.PublishedURL(out.Output.Text)
	resp.Logs = out.Log
	return resp, http.StatusOK
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	jobs, err := s.jobs.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if jobs == nil {
		jobs = []store.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
