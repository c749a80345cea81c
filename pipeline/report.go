package pipeline

import (
	"errors"
	"regexp"
	"strings"

	"auto_article_pipeline/store"
)

var errNoTargetFactory = errors.New("no publishing target factory configured")

var viewPostRe = regexp.MustCompile(`\[View Post\]\((https?://[^\s)]+)\)`)

// PublishedURL returns the first [View Post](url) link of a summary.
func PublishedURL(summary string) string {
	if m := viewPostRe.FindStringSubmatch(summary); m != nil {
		return m[1]
	}
	return ""
}

// JobStatus maps a finished run to the stored job status: FAILED without a
// published URL, DRAFT when the run was simulated or any site holds a draft.
func JobStatus(out Outcome, runErr error) string {
	if runErr != nil {
		return store.StatusFailed
	}
	url := PublishedURL(out.Output.Text)
	if url == "" {
		return store.StatusFailed
	}
	if out.Simulated {
		return store.StatusDraft
	}
	// One draft site makes the whole job a draft.
	for _, r := range out.Output.Results {
		if r.Status == SavedAsDraft || r.Status == DraftFallback {
			return store.StatusDraft
		}
	}
	if len(out.Output.Results) == 0 && strings.Contains(out.Output.Text, string(SavedAsDraft)) {
		return store.StatusDraft
	}
	return store.StatusPublished
}
