// Package config loads the explicit pipeline configuration from a JSON or YAML
// file and layers environment variables on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
)

// Default model names per provider.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type Config struct {
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Image      ImageConfig      `json:"image" yaml:"image"`
	Search     SearchConfig     `json:"search" yaml:"search"`
	Sites      []publisher.Site `json:"sites" yaml:"sites"`
	Simulate   bool             `json:"simulate,omitempty" yaml:"simulate,omitempty"`
	ServerAddr string           `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	Database   string           `json:"database,omitempty" yaml:"database,omitempty"`
}

// LLMConfig selects the text provider and the model preference list.
type LLMConfig struct {
	Provider  string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string   `json:"model,omitempty" yaml:"model,omitempty"`
	Fallbacks []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	APIKey    string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL   string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// ImageConfig configures featured image generation. Without an API key no image is made.
type ImageConfig struct {
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// SearchConfig uses Google Custom Search when both key and cx are set, DuckDuckGo otherwise.
type SearchConfig struct {
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleCX     string `json:"google_cx,omitempty" yaml:"google_cx,omitempty"`
	MaxResults   int    `json:"max_results,omitempty" yaml:"max_results,omitempty"`
}

// Load reads path as YAML (.yaml/.yml) or JSON. An empty path yields a zero Config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.LLM.Provider, "LLM_PROVIDER")
	// OPENAI_API_KEY doubles as the image key, so Gemini never falls back to it.
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "deepseek":
		set(&c.LLM.APIKey, "LLM_API_KEY", "OPENAI_API_KEY")
	default:
		set(&c.LLM.APIKey, "GOOGLE_API_KEY", "LLM_API_KEY")
	}
	set(&c.LLM.BaseURL, "LLM_BASE_URL")
	set(&c.LLM.Model, "GOOGLE_MODEL_NAME", "LLM_MODEL")
	if v := getenv("GOOGLE_FALLBACK_MODELS"); v != "" {
		c.LLM.Fallbacks = generator.SplitModelList(v)
	}

	set(&c.Image.APIKey, "IMAGE_API_KEY", "OPENAI_API_KEY")
	set(&c.Image.Model, "IMAGE_MODEL")
	set(&c.Image.OutputDir, "IMAGE_OUTPUT_DIR")

	set(&c.Search.GoogleAPIKey, "GOOGLE_SEARCH_API_KEY")
	set(&c.Search.GoogleCX, "GOOGLE_SEARCH_CX")

	urls := firstNonEmpty(getenv("WP_URLS"), getenv("WP_URL"))
	if urls != "" {
		c.Sites = ZipSites(urls,
			firstNonEmpty(getenv("WP_USERNAMES"), getenv("WP_USERNAME")),
			firstNonEmpty(getenv("WP_APP_PASSWORDS"), getenv("WP_APP_PASSWORD")))
	}

	if v, err := strconv.ParseBool(getenv("SIMULATION_MODE")); err == nil {
		c.Simulate = v
	}
	set(&c.Database, "DATABASE_PATH")
	set(&c.ServerAddr, "SERVER_ADDR")
	if c.ServerAddr == "" {
		if port := getenv("PORT"); port != "" {
			c.ServerAddr = ":" + port
		}
	}
}

// Normalize fills defaults.
func (c *Config) Normalize() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.Model = DefaultOpenAIModel
		case "gemini", "google":
			c.LLM.Model = DefaultGeminiModel
		}
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 5
	}
	if c.Image.OutputDir == "" {
		c.Image.OutputDir = "output/images"
	}
	if c.Database == "" {
		c.Database = "jobs.db"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
}

// Validate reports malformed settings. A missing API key is not one: it
// surfaces per run as a configuration error from the first generation call.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "", "gemini", "google", "openai":
	case "deepseek":
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("llm provider deepseek requires base_url")
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("llm provider deepseek requires model")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	for i, s := range c.Sites {
		if s.URL == "" || s.Username == "" || s.AppPassword == "" {
			return fmt.Errorf("sites[%d]: url, username and app_password are required", i)
		}
	}
	return nil
}

// ZipSites pairs parallel comma separated lists by position. Positions missing
// any of the three values are dropped.
func ZipSites(urls, usernames, passwords string) []publisher.Site {
	u := strings.Split(urls, ",")
	n := strings.Split(usernames, ",")
	p := strings.Split(passwords, ",")
	var sites []publisher.Site
	for i := range u {
		if i >= len(n) || i >= len(p) {
			break
		}
		site := publisher.Site{
			URL:         strings.TrimSpace(u[i]),
			Username:    strings.TrimSpace(n[i]),
			AppPassword: strings.TrimSpace(p[i]),
		}
		if site.URL == "" || site.Username == "" || site.AppPassword == "" {
			continue
		}
		sites = append(sites, site)
	}
	return sites
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
