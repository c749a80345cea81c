package pipeline

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"auto_article_pipeline/article"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
)

const (
	recentPostCount = 5

	linkingRuleWithLinks = "4. Linking: Use a mix of the validated Internal and External links provided below. YOU MUST EMBED THESE LINKS NATURALLY WITHIN THE ARTICLE TEXT. Do NOT list them at the end. Use descriptive anchor text for each link. You are strictly forbidden from inventing or guessing any URLs not listed below."
	linkingRuleNoLinks   = "4. Linking: No validated links provided. Focus on content quality and metadata. Do NOT add any links."
)

var linkingRuleRe = regexp.MustCompile(`(?m)^4\. Linking:.*$`)

// Optimization rewrites the draft for SEO and emits the structured format.
type Optimization struct {
	agent
	links     LinkChecker
	newTarget TargetFactory
}

func NewOptimization(run *RunContext, invoker *generator.Invoker, links LinkChecker, newTarget TargetFactory) *Optimization {
	return &Optimization{
		agent: agent{
			name:    "SEOAgent",
			persona: optimizationPersona,
			role:    generator.RoleOptimization,
			run:     run,
			invoker: invoker,
		},
		links:     links,
		newTarget: newTarget,
	}
}

func (s *Optimization) Run(ctx context.Context, in Payload) (Payload, error) {
	s.log("Starting link optimization and verification...")

	refs := article.References{
		Internal: s.internalLinks(ctx),
		External: s.externalLinks(ctx, in.Text),
	}
	persona := linkingRuleRe.ReplaceAllLiteralString(s.persona, linkingRule(refs))
	persona += "\n\n--- VALIDATED LINKS TO USE ---\n" + linksContext(refs)

	text, err := s.generate(ctx, persona, in.Text)
	if err != nil {
		return Payload{}, err
	}
	if trailer := refs.String(); trailer != "" {
		text = strings.TrimRight(text, "\n") + "\n\n" + trailer
	}
	return Payload{Text: text}, nil
}

// internalLinks lists recent posts of the primary site that still resolve.
func (s *Optimization) internalLinks(ctx context.Context) []article.Link {
	site, ok := s.primarySite()
	if !ok || s.newTarget == nil {
		return nil
	}
	target, err := s.newTarget(site)
	if err != nil {
		s.log("Warning: Could not open site for internal linking: " + err.Error())
		return nil
	}
	s.log("Fetching recent posts for internal linking...")
	posts, err := target.RecentPosts(ctx, recentPostCount)
	if err != nil {
		s.log("Warning: Could not fetch recent posts: " + err.Error())
		return nil
	}
	var valid []article.Link
	for _, p := range posts {
		if s.links.IsValid(ctx, p.URL) {
			valid = append(valid, p)
		} else {
			s.log("LinkValidator: Filtering dead internal link: " + p.URL)
		}
	}
	return valid
}

// externalLinks keeps the draft's off-site links that still resolve.
func (s *Optimization) externalLinks(ctx context.Context, draft string) []article.Link {
	siteHost := ""
	if site, ok := s.primarySite(); ok {
		siteHost = hostOf(site.URL)
	}
	var valid []article.Link
	for _, l := range article.UniqueByURL(article.ExtractLinks(draft)) {
		if siteHost != "" && hostOf(l.URL) == siteHost {
			continue
		}
		s.log("Validating external link: " + l.URL)
		if s.links.IsValid(ctx, l.URL) {
			valid = append(valid, l)
		} else {
			s.log("LinkValidator: Filtering dead external link: " + l.URL)
		}
	}
	return valid
}

func (s *Optimization) primarySite() (site publisher.Site, ok bool) {
	sites := s.run.Credentials().Sites
	if len(sites) == 0 {
		return publisher.Site{}, false
	}
	return sites[0], true
}

func linkingRule(refs article.References) string {
	if refs.Empty() {
		return linkingRuleNoLinks
	}
	return linkingRuleWithLinks
}

func linksContext(refs article.References) string {
	if refs.Empty() {
		return "No validated internal or external links found."
	}
	var sb strings.Builder
	if len(refs.Internal) > 0 {
		sb.WriteString("VALID INTERNAL LINKS (Use 1-2):\n")
		for _, l := range refs.Internal {
			sb.WriteString("- " + l.Markdown() + "\n")
		}
		sb.WriteString("\n")
	}
	if len(refs.External) > 0 {
		sb.WriteString("VALID EXTERNAL LINKS (Keep these if relevant):\n")
		for _, l := range refs.External {
			sb.WriteString("- " + l.Markdown() + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
