package pipeline

import (
	"context"
	"strings"

	"auto_article_pipeline/article"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
)

// PublishStatus is the per-site outcome.
type PublishStatus string

const (
	Published     PublishStatus = "Published"
	SavedAsDraft  PublishStatus = "Saved as Draft"
	DraftFallback PublishStatus = "Saved as Draft (Fallback)"
	Failed        PublishStatus = "Failed"
)

// NoSitesMessage is returned when no publishing credentials exist.
const NoSitesMessage = "FAILED: No WordPress credentials provided."

const summaryHeader = "### Content Processing Complete\n\n"

// PublishResult is the outcome for one site.
type PublishResult struct {
	SiteURL      string        `json:"site_url"`
	Status       PublishStatus `json:"status"`
	PublishedURL string        `json:"published_url,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Line renders the summary line; successful lines carry the [View Post](url) marker.
func (r PublishResult) Line() string {
	if r.Status == Failed {
		return "**Failed (" + r.SiteURL + "):** " + r.Error
	}
	return "**" + string(r.Status) + " (" + r.SiteURL + "):** [View Post](" + r.PublishedURL + ")"
}

// Publishing pushes the article to every configured site.
type Publishing struct {
	agent
	newTarget TargetFactory
}

func NewPublishing(run *RunContext, invoker *generator.Invoker, newTarget TargetFactory) *Publishing {
	return &Publishing{
		agent: agent{
			name:    "PublisherAgent",
			persona: publishingPersona,
			role:    generator.RolePublishing,
			run:     run,
			invoker: invoker,
		},
		newTarget: newTarget,
	}
}

// draft holds what is resolved once and reused by every attempt on a site.
type draft struct {
	doc     article.Structured
	title   string
	excerpt string
	status  string
	media   *MediaAsset
}

func (s *Publishing) Run(ctx context.Context, in Payload) (Payload, error) {
	// Input without markers is a plain body.
	doc := article.Parse(in.Text)

	sites := s.run.Credentials().Sites
	if len(sites) == 0 {
		s.log("No WordPress credentials provided.")
		return Payload{Text: NoSitesMessage, Media: in.Media}, nil
	}

	d := draft{
		doc:     doc,
		title:   doc.Title(),
		excerpt: doc.Description(),
		status:  publisher.StatusPublish,
		media:   in.Media,
	}
	if d.title == "" {
		d.title = "Mastering " + s.run.Topic()
	}
	if d.excerpt == "" {
		d.excerpt = publisher.DefaultDigest(doc.Body, 160)
	}
	if s.run.IsSimulated() {
		s.log("Run used simulated content; publishing as draft.")
		d.status = publisher.StatusDraft
	}

	results := make([]PublishResult, 0, len(sites))
	lines := make([]string, 0, len(sites))
	for _, site := range sites {
		res := s.publishSite(ctx, site, d)
		s.log(res.Line())
		results = append(results, res)
		lines = append(lines, res.Line())
	}
	return Payload{
		Text:    summaryHeader + strings.Join(lines, "\n\n"),
		Media:   in.Media,
		Results: results,
	}, nil
}

func (s *Publishing) publishSite(ctx context.Context, site publisher.Site, d draft) PublishResult {
	res := PublishResult{SiteURL: site.URL}
	fail := func(err error) PublishResult {
		res.Status, res.Error = Failed, err.Error()
		return res
	}

	if s.newTarget == nil {
		return fail(errNoTargetFactory)
	}
	target, err := s.newTarget(site)
	if err != nil {
		return fail(err)
	}
	res.SiteURL = target.SiteURL()

	body, err := target.UploadInlineImages(ctx, d.doc.Body, "")
	if err != nil {
		s.log("Inline image upload failed for " + res.SiteURL + ": " + err.Error())
		body = d.doc.Body
	}
	html, err := publisher.RenderHTML(body)
	if err != nil {
		return fail(err)
	}
	if s.run.IsSimulated() {
		html = publisher.SimulationNotice + html
	}

	post := publisher.Post{
		Title:   d.title,
		Content: html,
		Status:  d.status,
		Slug:    d.doc.Slug(),
		Excerpt: d.excerpt,
	}
	if d.media != nil && d.media.Path != "" {
		m, err := target.UploadMedia(ctx, d.media.Path)
		if err != nil {
			s.log("Featured image upload failed for " + res.SiteURL + ": " + err.Error())
		} else {
			post.FeaturedMedia = m.ID
			if d.media.AltText != "" {
				if err := target.SetMediaAltText(ctx, m.ID, d.media.AltText); err != nil {
					s.log("Setting alt text failed: " + err.Error())
				}
			}
		}
	}
	post.Categories = s.resolveTerms(ctx, target, publisher.Categories, d.doc.Categories())
	post.Tags = s.resolveTerms(ctx, target, publisher.Tags, d.doc.Tags())

	link, err := target.CreatePost(ctx, post)
	if err == nil {
		res.Status, res.PublishedURL = Published, link
		if post.Status == publisher.StatusDraft {
			res.Status = SavedAsDraft
		}
		return res
	}
	if post.Status != publisher.StatusPublish {
		return fail(err)
	}

	s.log("Publishing failed (" + err.Error() + "), retrying as draft...")
	post.Status = publisher.StatusDraft
	link, err = target.CreatePost(ctx, post)
	if err != nil {
		return fail(err)
	}
	res.Status, res.PublishedURL = DraftFallback, link
	return res
}

// resolveTerms maps names to ids; a term that cannot be resolved is skipped.
func (s *Publishing) resolveTerms(ctx context.Context, target Target, tax publisher.Taxonomy, names []string) []int64 {
	var ids []int64
	for _, name := range names {
		id, err := target.ResolveTerm(ctx, tax, name)
		if err != nil {
			s.log("Could not resolve " + string(tax) + " " + name + ": " + err.Error())
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
