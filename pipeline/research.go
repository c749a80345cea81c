package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"auto_article_pipeline/article"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/search"
)

// LinksHeading opens the link section of a research briefing.
const LinksHeading = "### AUTHORITATIVE EXTERNAL LINKS"

var linksHeadingRe = regexp.MustCompile(`(?im)^#{1,6}\s*authoritative external links\s*:?\s*$`)

// Research builds a fact briefing whose links have all been validated.
type Research struct {
	agent
	searcher search.Searcher
	links    LinkChecker
}

func NewResearch(run *RunContext, invoker *generator.Invoker, searcher search.Searcher, links LinkChecker) *Research {
	return &Research{
		agent: agent{
			name:    "ResearcherAgent",
			persona: researchPersona,
			role:    generator.RoleResearch,
			run:     run,
			invoker: invoker,
		},
		searcher: searcher,
		links:    links,
	}
}

func (s *Research) Run(ctx context.Context, in Payload) (Payload, error) {
	queryPrompt := fmt.Sprintf("Extract a concise Google search query to find facts/stats about: '%s'. Return ONLY the query.", in.Text)
	query, err := s.generate(ctx, s.persona, queryPrompt)
	if err != nil {
		return Payload{}, err
	}
	query = strings.Trim(strings.TrimSpace(query), `"'`)
	s.log("Generated Search Query: " + query)

	results := runSearch(ctx, &s.agent, s.searcher, query)

	synthesis := fmt.Sprintf(`Synthesize a research briefing for: %s

Search Findings:
%s

INSTRUCTIONS:
1. Summarize the key facts and statistics found.
2. Identify the top 3-5 most authoritative external sources from the findings.
3. At the end of your report, create a section "%s" and list them as [Title](URL).`, in.Text, search.Format(results), LinksHeading)
	briefing, err := s.generate(ctx, s.persona, synthesis)
	if err != nil {
		return Payload{}, err
	}

	s.log("Validating links in research briefing...")
	return Payload{Text: s.validateBriefing(ctx, briefing)}, nil
}

// validateBriefing unlinks dead links in the prose and rebuilds the link
// section from the survivors. No survivors means no section.
func (s *Research) validateBriefing(ctx context.Context, briefing string) string {
	verdicts := make(map[string]bool)
	var valid []article.Link
	for _, l := range article.ExtractLinks(briefing) {
		ok, seen := verdicts[l.URL]
		if !seen {
			s.log("Researcher validation: " + l.URL)
			ok = s.links.IsValid(ctx, l.URL)
			verdicts[l.URL] = ok
			if ok {
				valid = append(valid, l)
			} else {
				s.log("Researcher filtering dead link: " + l.URL)
			}
		}
		if !ok {
			briefing = strings.ReplaceAll(briefing, l.Markdown(), l.Title)
		}
	}

	main := briefing
	if loc := linksHeadingRe.FindStringIndex(briefing); loc != nil {
		main = briefing[:loc[0]]
	}
	main = strings.TrimSpace(main)
	if len(valid) == 0 {
		return main
	}

	var sb strings.Builder
	sb.WriteString(main)
	sb.WriteString("\n\n")
	sb.WriteString(LinksHeading)
	sb.WriteString("\n")
	for _, l := range valid {
		sb.WriteString("- ")
		sb.WriteString(l.Markdown())
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
