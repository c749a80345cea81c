package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

// DuckDuckGo searches without an API key through langchaingo's tool.
type DuckDuckGo struct {
	tool *duckduckgo.Tool
}

func NewDuckDuckGo(maxResults int) (*DuckDuckGo, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	tool, err := duckduckgo.New(maxResults, duckduckgo.DefaultUserAgent)
	if err != nil {
		return nil, err
	}
	return &DuckDuckGo{tool: tool}, nil
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	out, err := d.tool.Call(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	return parseToolOutput(out), nil
}

// parseToolOutput reads the tool's "Title:/Description:/URL:" blocks.
func parseToolOutput(out string) []Result {
	var results []Result
	var cur Result
	flush := func() {
		if cur.Title != "" || cur.URL != "" {
			results = append(results, cur)
		}
		cur = Result{}
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "Title:"):
			if cur.Title != "" {
				flush()
			}
			cur.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "Description:"):
			cur.Snippet = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		case strings.HasPrefix(line, "URL:"):
			cur.URL = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
		}
	}
	flush()
	return results
}
