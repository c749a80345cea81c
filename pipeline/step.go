// Package pipeline runs a topic through the six content steps: ideation,
// research, writing, optimization, media and publishing.
package pipeline

import (
	"context"

	"auto_article_pipeline/article"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
)

// Payload is what one step hands to the next.
type Payload struct {
	Text    string
	Media   *MediaAsset
	Results []PublishResult
}

// MediaAsset is the featured image produced by the media step.
type MediaAsset struct {
	Path    string
	AltText string
}

// Step is one stage of the pipeline.
type Step interface {
	Name() string
	Persona() string
	Run(ctx context.Context, in Payload) (Payload, error)
}

// LinkChecker is satisfied by *linkcheck.Validator.
type LinkChecker interface {
	IsValid(ctx context.Context, url string) bool
}

// Target is one publishing destination. *publisher.WordPress satisfies it.
type Target interface {
	SiteURL() string
	UploadMedia(ctx context.Context, path string) (publisher.Media, error)
	SetMediaAltText(ctx context.Context, id int64, alt string) error
	UploadInlineImages(ctx context.Context, md, baseDir string) (string, error)
	ResolveTerm(ctx context.Context, tax publisher.Taxonomy, name string) (int64, error)
	CreatePost(ctx context.Context, post publisher.Post) (string, error)
	RecentPosts(ctx context.Context, count int) ([]article.Link, error)
}

// TargetFactory opens a Target for a configured site.
type TargetFactory func(site publisher.Site) (Target, error)

// agent carries what every step shares: identity, persona and the invoker.
type agent struct {
	name    string
	persona string
	role    generator.Role
	run     *RunContext
	invoker *generator.Invoker
}

func (a *agent) Name() string    { return a.name }
func (a *agent) Persona() string { return a.persona }

func (a *agent) log(msg string) {
	a.run.Log(a.name, msg)
}

// generate asks the invoker for text using persona, which may differ from the
// step's base persona when a step rewrites its instructions.
func (a *agent) generate(ctx context.Context, persona, input string) (string, error) {
	a.log("Received input: " + truncateRunes(input, 200))
	res, err := a.invoker.Invoke(ctx, a.run, generator.Request{
		Agent:   a.name,
		Role:    a.role,
		Persona: persona,
		Input:   input,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
