package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_article_pipeline/config"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/pipeline"
	"auto_article_pipeline/store"
)

type stepFunc struct {
	name string
	fn   func(pipeline.Payload) (pipeline.Payload, error)
}

func (s stepFunc) Name() string    { return s.name }
func (s stepFunc) Persona() string { return "test" }
func (s stepFunc) Run(_ context.Context, in pipeline.Payload) (pipeline.Payload, error) {
	return s.fn(in)
}

func newTestServer(t *testing.T, build BuildFunc) (*Server, *store.JobStore) {
	t.Helper()
	jobs, err := store.NewJobStore(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = jobs.Close() })

	var base config.Config
	base.Normalize()
	srv, err := New(base, jobs, build, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return srv, jobs
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func publishingBuild(captured *config.Config) BuildFunc {
	return func(cfg config.Config, run *pipeline.RunContext, _ *slog.Logger) (*pipeline.Orchestrator, error) {
		*captured = cfg
		return pipeline.NewOrchestrator(run, stepFunc{name: "PublisherAgent", fn: func(pipeline.Payload) (pipeline.Payload, error) {
			res := pipeline.PublishResult{SiteURL: "https://a.example", Status: pipeline.Published, PublishedURL: "https://a.example/post/"}
			run.Log("PublisherAgent", res.Line())
			return pipeline.Payload{Text: "### Content Processing Complete\n\n" + res.Line(), Results: []pipeline.PublishResult{res}}, nil
		}}), nil
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRunRequiresTopic(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := post(t, srv.Routes(), `{"topic": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, srv.Routes(), `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunPublishesAndRecordsJob(t *testing.T) {
	var cfg config.Config
	srv, jobs := newTestServer(t, publishingBuild(&cfg))

	rec := post(t, srv.Routes(), `{
		"topic": "edge computing",
		"job_id": "job-42",
		"google_api_key": "k",
		"model_name": "gemini-pro",
		"fallback_models": "a, b",
		"simulate": false,
		"wp_config": [{"url": "https://a.example", "username": "u", "password": "p"}, {"url": "https://broken.example"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp runResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job-42", resp.JobID)
	assert.Equal(t, store.StatusPublished, resp.Status)
	assert.Equal(t, "https://a.example/post/", resp.PublishedURL)

	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-pro", cfg.LLM.Model)
	assert.Equal(t, []string{"a", "b"}, cfg.LLM.Fallbacks)
	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, "p", cfg.Sites[0].AppPassword)

	job, err := jobs.Get(context.Background(), "job-42")
	require.NoError(t, err)
	assert.Equal(t, store.StatusPublished, job.Status)
	assert.Equal(t, "https://a.example/post/", job.PublishedURL)
	assert.Contains(t, job.Logs, "[PublisherAgent]")

	get := httptest.NewRecorder()
	srv.Routes().ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/jobs/job-42", nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), `"status":"PUBLISHED"`)
}

func TestRunGeneratesJobID(t *testing.T) {
	var cfg config.Config
	srv, _ := newTestServer(t, publishingBuild(&cfg))

	rec := post(t, srv.Routes(), `{"topic": "edge computing"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp runResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.JobID, 36)
}

func TestRunConfigurationErrorIsBadRequest(t *testing.T) {
	build := func(_ config.Config, run *pipeline.RunContext, _ *slog.Logger) (*pipeline.Orchestrator, error) {
		inv := generator.NewInvoker(nil, "m1", nil, false)
		return pipeline.NewOrchestrator(run, pipeline.NewWriting(run, inv)), nil
	}
	srv, jobs := newTestServer(t, build)

	rec := post(t, srv.Routes(), `{"topic": "edge computing", "job_id": "job-cfg"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration error")

	job, err := jobs.Get(context.Background(), "job-cfg")
	require.NoError(t, err)
	assert.Equal(t, store.StatusFailed, job.Status)
}

func TestRunOtherErrorsAreServerErrors(t *testing.T) {
	build := func(_ config.Config, run *pipeline.RunContext, _ *slog.Logger) (*pipeline.Orchestrator, error) {
		return nil, assert.AnError
	}
	srv, _ := newTestServer(t, build)

	rec := post(t, srv.Routes(), `{"topic": "edge computing"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListJobs(t *testing.T) {
	var cfg config.Config
	srv, _ := newTestServer(t, publishingBuild(&cfg))

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.Equal(t, http.StatusOK, post(t, srv.Routes(), `{"topic": "first", "job_id": "j1"}`).Code)

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs?limit=5", nil))
	var jobs []store.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, store.StatusPublished, jobs[0].Status)
}
