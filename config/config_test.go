package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
llm:
  provider: openai
  model: gpt-4o
  fallbacks: [gpt-4o-mini]
sites:
  - url: https://blog.dev
    username: editor
    app_password: "abcd efgh"
simulate: true
`), 0o644))
	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, []string{"gpt-4o-mini"}, cfg.LLM.Fallbacks)
	assert.Equal(t, []publisher.Site{{URL: "https://blog.dev", Username: "editor", AppPassword: "abcd efgh"}}, cfg.Sites)
	assert.True(t, cfg.Simulate)

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"llm":{"model":"gemini-2.0-flash"},"server_addr":":9090"}`), 0o644))
	cfg, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, ":9090", cfg.ServerAddr)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Config{LLM: LLMConfig{Model: "from-file"}}
	cfg.ApplyEnv(envMap(map[string]string{
		"GOOGLE_API_KEY":         "g-key",
		"GOOGLE_MODEL_NAME":      "gemini-pro",
		"GOOGLE_FALLBACK_MODELS": "a|b, c",
		"WP_URLS":                "https://one.dev, https://two.dev,https://three.dev",
		"WP_USERNAMES":           "u1,u2,",
		"WP_APP_PASSWORDS":       "p1,p2,p3",
		"SIMULATION_MODE":        "true",
		"PORT":                   "3000",
	}))
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-pro", cfg.LLM.Model)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.LLM.Fallbacks)
	assert.Equal(t, []publisher.Site{
		{URL: "https://one.dev", Username: "u1", AppPassword: "p1"},
		{URL: "https://two.dev", Username: "u2", AppPassword: "p2"},
	}, cfg.Sites)
	assert.True(t, cfg.Simulate)
	assert.Equal(t, ":3000", cfg.ServerAddr)
}

type nopRun struct{}

func (nopRun) Log(string, string) {}
func (nopRun) Topic() string      { return "topic" }
func (nopRun) MarkSimulated()     {}

func TestApplyEnvImageKeyIsNotGeminiKey(t *testing.T) {
	var cfg Config
	cfg.ApplyEnv(envMap(map[string]string{"OPENAI_API_KEY": "sk-image-only"}))
	cfg.Normalize()

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, "sk-image-only", cfg.Image.APIKey)

	llm, err := generator.NewLLMFromConfig(generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	})
	require.NoError(t, err)
	assert.Nil(t, llm)

	_, err = generator.NewInvoker(llm, cfg.LLM.Model, cfg.LLM.Fallbacks, cfg.Simulate).
		Invoke(context.Background(), nopRun{}, generator.Request{Agent: "TrendAgent", Role: generator.RoleIdeation, Input: "x"})
	assert.True(t, generator.IsConfigurationError(err))
}

func TestApplyEnvKeyFollowsProvider(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"gemini google key", map[string]string{"GOOGLE_API_KEY": "g", "OPENAI_API_KEY": "o"}, "g"},
		{"gemini generic key", map[string]string{"LLM_API_KEY": "l", "OPENAI_API_KEY": "o"}, "l"},
		{"openai key", map[string]string{"LLM_PROVIDER": "openai", "GOOGLE_API_KEY": "g", "OPENAI_API_KEY": "o"}, "o"},
		{"deepseek generic key", map[string]string{"LLM_PROVIDER": "deepseek", "LLM_API_KEY": "l", "OPENAI_API_KEY": "o"}, "l"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyEnv(envMap(tt.env))
			assert.Equal(t, tt.want, cfg.LLM.APIKey)
		})
	}
}

func TestApplyEnvSingleSite(t *testing.T) {
	var cfg Config
	cfg.ApplyEnv(envMap(map[string]string{
		"WP_URL":          "https://blog.dev",
		"WP_USERNAME":     "editor",
		"WP_APP_PASSWORD": "xxxx yyyy",
	}))
	assert.Equal(t, []publisher.Site{{URL: "https://blog.dev", Username: "editor", AppPassword: "xxxx yyyy"}}, cfg.Sites)
}

func TestNormalizeAndValidate(t *testing.T) {
	var cfg Config
	cfg.Normalize()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.LLM.Model)
	assert.NoError(t, cfg.Validate())

	cfg = Config{LLM: LLMConfig{Provider: "deepseek", Model: "deepseek-chat"}}
	assert.Error(t, cfg.Validate())

	cfg = Config{LLM: LLMConfig{Provider: "claude"}}
	assert.Error(t, cfg.Validate())

	cfg = Config{Sites: []publisher.Site{{URL: "https://blog.dev"}}}
	assert.Error(t, cfg.Validate())
}

func TestZipSitesUnevenLists(t *testing.T) {
	assert.Len(t, ZipSites("a,b,c", "u1,u2", "p1,p2,p3"), 2)
	assert.Empty(t, ZipSites("", "", ""))
}
