package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"auto_article_pipeline/generator"
	"auto_article_pipeline/search"
)

// Ideation turns the topic into a list of trending angles and keywords.
type Ideation struct {
	agent
	searcher search.Searcher
}

func NewIdeation(run *RunContext, invoker *generator.Invoker, searcher search.Searcher) *Ideation {
	return &Ideation{
		agent: agent{
			name:    "TrendAgent",
			persona: ideationPersona,
			role:    generator.RoleIdeation,
			run:     run,
			invoker: invoker,
		},
		searcher: searcher,
	}
}

func (s *Ideation) Run(ctx context.Context, in Payload) (Payload, error) {
	topic := in.Text
	if unwrapped, ok := unwrapJSONTopic(topic); ok {
		s.log("Safeguard: cleaned JSON from input: " + unwrapped)
		topic = unwrapped
	}
	s.log("Scanning for trends related to: " + topic)

	results := runSearch(ctx, &s.agent, s.searcher, "trending topics and keywords for "+topic)
	prompt := fmt.Sprintf("Identify the top 3-5 trending topics or keywords for: %s\n\nSearch Context:\n%s", topic, search.Format(results))
	text, err := s.generate(ctx, s.persona, prompt)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Text: text}, nil
}

// unwrapJSONTopic accepts callers that post {"topic": "..."} as the raw topic.
func unwrapJSONTopic(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.Contains(s, `"topic"`) {
		return "", false
	}
	var body struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(s), &body); err != nil || body.Topic == "" {
		return "", false
	}
	return body.Topic, true
}

// runSearch never fails the step; errors and a missing searcher mean no results.
func runSearch(ctx context.Context, a *agent, searcher search.Searcher, query string) []search.Result {
	if searcher == nil {
		a.log("No search provider configured.")
		return nil
	}
	results, err := searcher.Search(ctx, query)
	if err != nil {
		a.log("Search failed: " + err.Error())
		return nil
	}
	a.log(fmt.Sprintf("Search returned %d results for: %s", len(results), query))
	return results
}
