package generator

import (
	"fmt"
	"strings"
)

// Role identifies which step asked for text; it selects the simulated template.
type Role string

const (
	RoleIdeation     Role = "ideation"
	RoleResearch     Role = "research"
	RoleWriting      Role = "writing"
	RoleOptimization Role = "optimization"
	RoleMedia        Role = "media"
	RolePublishing   Role = "publishing"
)

// Simulate returns the deterministic placeholder used when every model failed.
func Simulate(role Role, topic, input string) string {
	topic = simulationTopic(topic, input)
	slug := strings.ReplaceAll(strings.ToLower(topic), " ", "-")

	switch role {
	case RoleIdeation:
		return fmt.Sprintf("Key Trends:\n"+
			"- Rising interest in %[1]s applications\n"+
			"- Shift towards automated %[1]s solutions\n"+
			"- Emerging niche: %[1]s innovation and strategy\n"+
			"- Increased adoption of %[1]s across diverse industries\n"+
			"- Integration of %[1]s with existing cloud frameworks", topic)
	case RoleResearch:
		return fmt.Sprintf("Key Findings for %[1]s:\n"+
			"1. Industry standards for %[1]s are evolving rapidly to meet new market demands.\n"+
			"2. 75%% of surveyed professionals prefer integrated %[1]s workflows over legacy systems.\n"+
			"3. Market leaders are doubling down on scalability and security in their %[1]s implementations.\n"+
			"4. Recent statistics indicate a 30%% growth in %[1]s-related adoption in the last year.\n"+
			"5. Expert consensus points towards %[1]s being the next major shift in technical innovation.\n\n"+
			"### AUTHORITATIVE EXTERNAL LINKS\n"+
			"- [%[1]s Industry Report](https://example.com/%[2]s-report)\n"+
			"- [Future of %[1]s Research](https://example.com/future-of-%[2]s)\n"+
			"- [Global %[1]s Standards](https://example.com/%[2]s-standards)", topic, slug)
	case RoleWriting:
		return simulatedGuide(topic, slug)
	case RoleOptimization:
		return fmt.Sprintf("---SEO_DATA---\n"+
			"Meta Title: Master %[1]s | Professional Guide\n"+
			"Meta Description: Learn everything about %[1]s in our comprehensive, SEO-optimized article. Explore best practices, future trends, and implementation strategies.\n"+
			"Slug: mastering-%[2]s\n"+
			"OG Title: Mastering %[1]s: The Future of Innovation\n"+
			"OG Description: Your one-stop resource for insights into %[1]s. Expert strategies and implementation guides.\n"+
			"Canonical: \n"+
			"Category: Technology\n"+
			"Tags: %[1]s, AI, Automation, Strategy\n"+
			"JSON-LD: {}\n"+
			"---ARTICLE---\n%[3]s\n", topic, slug, simulatedOptimizedArticle(topic, slug))
	case RoleMedia:
		return fmt.Sprintf("A vibrant conceptual illustration representing %s in a modern workspace.", topic)
	case RolePublishing:
		return "Published successfully."
	default:
		return fmt.Sprintf("Finalized %s as %s.", input, role)
	}
}

// simulationTopic prefers the run topic; oversized or markdown-looking topics
// fall back to the first heading of the input.
func simulationTopic(topic, input string) string {
	if topic == "" {
		topic = strings.TrimSpace(input)
	}
	if len(topic) <= 100 && !strings.Contains(topic, "# ") {
		return topic
	}
	if _, after, ok := strings.Cut(input, "# "); ok {
		heading, _, _ := strings.Cut(after, "\n")
		return strings.TrimSpace(heading)
	}
	runes := []rune(topic)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes) + "..."
}

func simulatedGuide(topic, slug string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# The Ultimate Guide to %s\n\n", topic)
	fmt.Fprintf(&sb, "In today's rapidly evolving landscape, **%[1]s** has emerged as a cornerstone of innovation and strategic growth. Understanding the fundamental principles of %[1]s is essential for success. According to the latest [industry benchmarks](https://example.com/%[2]s-report), organizations that embrace this shift are seeing unprecedented gains.\n\n", topic, slug)
	fmt.Fprintf(&sb, "## The Core Principles of %s\n\n", topic)
	fmt.Fprintf(&sb, "At its heart, %[1]s is built on accessibility, scalability and efficiency. Recent data from the [Global %[1]s Standards](https://example.com/%[2]s-standards) initiative suggest that early adopters see as much as a 40%% improvement in productivity within the first quarter of implementation.\n\n", topic, slug)
	fmt.Fprintf(&sb, "## Implementation Strategies\n\n")
	fmt.Fprintf(&sb, "Successfully implementing %[1]s requires a structured approach. Start by auditing your current processes to identify bottlenecks where %[1]s can provide the most immediate value, then invest in training and keep a continuous feedback loop.\n\n", topic)
	fmt.Fprintf(&sb, "### Conclusion\n\n")
	fmt.Fprintf(&sb, "As we look towards the future, %[1]s will continue to shape how we work and interact with technology. For more insights, follow the [future of %[1]s research](https://example.com/future-of-%[2]s).", topic, slug)
	return sb.String()
}

func simulatedOptimizedArticle(topic, slug string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Mastering %s: A Comprehensive Guide\n\n", topic)
	fmt.Fprintf(&sb, "Mastering **%[1]s** is no longer just an advantage; it's a necessity in the modern digital era. As noted in the [latest industry report](https://example.com/%[2]s-report), the demand for these skills is at an all-time high.\n\n", topic, slug)
	fmt.Fprintf(&sb, "## Why %s Matters Now\n\n", topic)
	fmt.Fprintf(&sb, "The rise of autonomous systems and the increasing complexity of data have made %[1]s more relevant than ever. Experts at the [Future of %[1]s Research](https://example.com/future-of-%[2]s) project agree that the next decade will be defined by how effectively we integrate it into daily workflows.\n\n", topic, slug)
	fmt.Fprintf(&sb, "## Best Practices for %s\n\n", topic)
	fmt.Fprintf(&sb, "Keep SEO and user experience in mind. Cite reliable sources like the [Global %[1]s Standards](https://example.com/%[2]s-standards) and use descriptive anchor text for links.\n\n", topic, slug)
	fmt.Fprintf(&sb, "### Impact and Future Outlook\n\n")
	fmt.Fprintf(&sb, "The future of %s looks promising. Staying curious and adaptable will be your greatest asset as you navigate this field.", topic)
	return sb.String()
}
