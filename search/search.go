// Package search provides the web search capability used for ideation and research.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher runs a web query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// LinkChecker is satisfied by *linkcheck.Validator.
type LinkChecker interface {
	IsValid(ctx context.Context, url string) bool
}

// Validated drops results whose URL fails the checker.
type Validated struct {
	Inner  Searcher
	Links  LinkChecker
	Logger *slog.Logger
}

func (v Validated) Search(ctx context.Context, query string) ([]Result, error) {
	results, err := v.Inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	logger := v.Logger
	if logger == nil {
		logger = slog.Default()
	}
	kept := results[:0]
	for _, r := range results {
		if r.URL != "" && !v.Links.IsValid(ctx, r.URL) {
			logger.Debug("search result dropped", slog.String("url", r.URL))
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// Format renders results as prompt context.
func Format(results []Result) string {
	if len(results) == 0 {
		return "No search results available."
	}
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", r.Title, r.URL, r.Snippet)
	}
	return strings.TrimRight(sb.String(), "\n")
}
