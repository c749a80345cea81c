package pipeline

import (
	"log/slog"

	"auto_article_pipeline/config"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/linkcheck"
	"auto_article_pipeline/publisher"
	"auto_article_pipeline/search"
)

// CredentialsFrom extracts the run credentials from cfg.
func CredentialsFrom(cfg config.Config) Credentials {
	return Credentials{LLMAPIKey: cfg.LLM.APIKey, Sites: cfg.Sites}
}

// Build wires the six default steps from cfg. A missing LLM key is not an
// error here; the first step reports it as a ConfigurationError.
func Build(cfg config.Config, run *RunContext, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	llm, err := generator.NewLLMFromConfig(generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	invoker := generator.NewInvoker(llm, cfg.LLM.Model, cfg.LLM.Fallbacks, cfg.Simulate)

	validator := linkcheck.New(linkcheck.WithLogger(logger))
	searcher := newSearcher(cfg.Search, validator, logger)

	var images generator.ImageGenerator
	if cfg.Image.APIKey != "" {
		img, err := generator.NewOpenAIImageFromConfig(&generator.ImageSettings{
			Model:     cfg.Image.Model,
			APIKey:    cfg.Image.APIKey,
			BaseURL:   cfg.Image.BaseURL,
			OutputDir: cfg.Image.OutputDir,
		})
		if err != nil {
			return nil, err
		}
		images = img
	}

	newTarget := func(site publisher.Site) (Target, error) {
		wp, err := publisher.New(site, nil, logger)
		if err != nil {
			return nil, err
		}
		return wp, nil
	}

	return NewOrchestrator(run,
		NewIdeation(run, invoker, searcher),
		NewResearch(run, invoker, searcher, validator),
		NewWriting(run, invoker),
		NewOptimization(run, invoker, validator, newTarget),
		NewMedia(run, invoker, images),
		NewPublishing(run, invoker, newTarget),
	), nil
}

func newSearcher(cfg config.SearchConfig, links search.LinkChecker, logger *slog.Logger) search.Searcher {
	var inner search.Searcher
	if cfg.GoogleAPIKey != "" && cfg.GoogleCX != "" {
		inner = search.NewGoogleCSE(cfg.GoogleAPIKey, cfg.GoogleCX, cfg.MaxResults, nil)
	} else {
		ddg, err := search.NewDuckDuckGo(cfg.MaxResults)
		if err != nil {
			logger.Warn("duckduckgo search unavailable", slog.Any("error", err))
			return nil
		}
		inner = ddg
	}
	return search.Validated{Inner: inner, Links: links, Logger: logger}
}
