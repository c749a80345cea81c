package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"auto_article_pipeline/store"
)

func TestPublishedURL(t *testing.T) {
	summary := summaryHeader +
		"**Failed (https://a.example):** boom\n\n" +
		"**Published (https://b.example):** [View Post](https://b.example/post/)\n\n" +
		"**Published (https://c.example):** [View Post](https://c.example/other/)"
	assert.Equal(t, "https://b.example/post/", PublishedURL(summary))
	assert.Empty(t, PublishedURL(NoSitesMessage))
}

func TestJobStatus(t *testing.T) {
	published := PublishResult{SiteURL: "https://b.example", Status: Published, PublishedURL: "https://b.example/p/"}
	fallback := PublishResult{SiteURL: "https://b.example", Status: DraftFallback, PublishedURL: "https://b.example/d/"}

	outcome := func(simulated bool, results ...PublishResult) Outcome {
		text := summaryHeader
		for _, r := range results {
			text += r.Line() + "\n\n"
		}
		return Outcome{Output: Payload{Text: text, Results: results}, Simulated: simulated}
	}

	tests := []struct {
		name string
		out  Outcome
		err  error
		want string
	}{
		{"run error", Outcome{}, errors.New("boom"), store.StatusFailed},
		{"no sites", Outcome{Output: Payload{Text: NoSitesMessage}}, nil, store.StatusFailed},
		{"published", outcome(false, published), nil, store.StatusPublished},
		{"draft fallback", outcome(false, fallback), nil, store.StatusDraft},
		{"simulated", outcome(true, published), nil, store.StatusDraft},
		{"mixed sites", outcome(false, published, PublishResult{SiteURL: "https://c.example", Status: DraftFallback, PublishedURL: "https://c.example/d/"}), nil, store.StatusDraft},
		{"published then failed", outcome(false, published, PublishResult{SiteURL: "x", Status: Failed, Error: "nope"}), nil, store.StatusPublished},
		{"summary only", Outcome{Output: Payload{Text: fallback.Line()}}, nil, store.StatusDraft},
		{"all failed", outcome(false, PublishResult{SiteURL: "x", Status: Failed, Error: "nope"}), nil, store.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JobStatus(tt.out, tt.err))
		})
	}
}

func TestPublishResultLine(t *testing.T) {
	ok := PublishResult{SiteURL: "https://b.example", Status: DraftFallback, PublishedURL: "https://b.example/?p=3"}
	assert.Equal(t, "**Saved as Draft (Fallback) (https://b.example):** [View Post](https://b.example/?p=3)", ok.Line())

	bad := PublishResult{SiteURL: "https://b.example", Status: Failed, Error: "401 Unauthorized"}
	assert.Equal(t, "**Failed (https://b.example):** 401 Unauthorized", bad.Line())
}
