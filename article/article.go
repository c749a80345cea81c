// Package article implements the delimited text format passed between steps:
// a metadata block, the markdown article and an optional reference trailer.
package article

import (
	"regexp"
	"strings"
)

// Literal marker lines of the format.
const (
	MetadataMarker  = "---SEO_DATA---"
	ArticleMarker   = "---ARTICLE---"
	ReferenceMarker = "---VALIDATED_LINKS_FOR_REFERENCE_ONLY---"
)

// Metadata keys, lowercase.
const (
	KeyMetaTitle       = "meta title"
	KeyMetaDescription = "meta description"
	KeySlug            = "slug"
	KeyOGTitle         = "og title"
	KeyOGDescription   = "og description"
	KeyCanonical       = "canonical"
	KeyCategory        = "category"
	KeyTags            = "tags"
	KeyJSONLD          = "json-ld"
)

var recognizedKeys = map[string]bool{
	KeyMetaTitle: true, KeyMetaDescription: true, KeySlug: true,
	KeyOGTitle: true, KeyOGDescription: true, KeyCanonical: true,
	KeyCategory: true, KeyTags: true, KeyJSONLD: true,
}

// metadataOrder is the order String writes recognized keys in.
var metadataOrder = []string{
	KeyMetaTitle, KeyMetaDescription, KeySlug, KeyOGTitle, KeyOGDescription,
	KeyCanonical, KeyCategory, KeyTags, KeyJSONLD,
}

// Link is a markdown link.
type Link struct {
	Title string
	URL   string
}

// Markdown renders the link as [Title](URL).
func (l Link) Markdown() string {
	return "[" + l.Title + "](" + l.URL + ")"
}

// References holds the validated link pools carried in the trailer.
type References struct {
	Internal []Link
	External []Link
}

// Empty reports whether both pools are empty.
func (r References) Empty() bool {
	return len(r.Internal) == 0 && len(r.External) == 0
}

// String renders the trailer, marker included. Empty pools render "".
func (r References) String() string {
	if r.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(ReferenceMarker)
	sb.WriteString("\n")
	writeLinks := func(label string, links []Link) {
		if len(links) == 0 {
			return
		}
		sb.WriteString(label)
		sb.WriteString(":\n")
		for _, l := range links {
			sb.WriteString("- ")
			sb.WriteString(l.Markdown())
			sb.WriteString("\n")
		}
	}
	writeLinks("INTERNAL", r.Internal)
	writeLinks("EXTERNAL", r.External)
	return sb.String()
}

// Structured is a parsed payload.
type Structured struct {
	Metadata   map[string]string
	Body       string
	References References
}

// Get returns a metadata value; key matching ignores case.
func (s Structured) Get(key string) string {
	return s.Metadata[strings.ToLower(strings.TrimSpace(key))]
}

func (s Structured) Title() string       { return s.Get(KeyMetaTitle) }
func (s Structured) Description() string { return s.Get(KeyMetaDescription) }
func (s Structured) Slug() string        { return s.Get(KeySlug) }

// Categories splits the category value on commas.
func (s Structured) Categories() []string { return splitList(s.Get(KeyCategory)) }

// Tags splits the tags value on commas.
func (s Structured) Tags() []string { return splitList(s.Get(KeyTags)) }

// String renders s back into the delimited format.
func (s Structured) String() string {
	var sb strings.Builder
	if len(s.Metadata) > 0 {
		sb.WriteString(MetadataMarker)
		sb.WriteString("\n")
		written := make(map[string]bool)
		for _, k := range metadataOrder {
			if v, ok := s.Metadata[k]; ok {
				sb.WriteString(displayKey(k) + ": " + v + "\n")
				written[k] = true
			}
		}
		for k, v := range s.Metadata {
			if !written[k] {
				sb.WriteString(displayKey(k) + ": " + v + "\n")
			}
		}
		sb.WriteString(ArticleMarker)
		sb.WriteString("\n")
	}
	sb.WriteString(s.Body)
	if trailer := s.References.String(); trailer != "" {
		sb.WriteString("\n\n")
		sb.WriteString(trailer)
	}
	return sb.String()
}

// Parse splits text into metadata, body and trailer. Input without markers
// is a plain body with empty metadata; Parse never fails.
func Parse(text string) Structured {
	out := Structured{Metadata: make(map[string]string)}

	payload, trailer, hasTrailer := cutMarker(text, ReferenceMarker)
	if hasTrailer {
		out.References = parseReferences(trailer)
	}

	head, body, hasArticle := cutMarker(payload, ArticleMarker)
	_, meta, hasMeta := cutMarker(head, MetadataMarker)
	switch {
	case hasArticle && hasMeta:
		parseMetadata(meta, out.Metadata, false)
	case hasArticle:
		// No metadata marker: only trust recognized keys in the preamble.
		parseMetadata(head, out.Metadata, true)
	case hasMeta:
		body = parseLeadingMetadata(meta, out.Metadata)
	default:
		body = payload
	}

	out.Body = strings.TrimSpace(dropMarkerLines(body))
	return out
}

// cutMarker splits around the first line equal to marker.
func cutMarker(text, marker string) (before, after string, found bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == marker {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return text, "", false
}

func parseMetadata(block string, into map[string]string, recognizedOnly bool) {
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := splitKeyValue(line)
		if !ok || (recognizedOnly && !recognizedKeys[key]) {
			continue
		}
		into[key] = value
	}
}

// parseLeadingMetadata consumes recognized Key: Value lines and returns the rest.
func parseLeadingMetadata(block string, into map[string]string) string {
	lines := strings.Split(block, "\n")
	i := 0
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		key, value, ok := splitKeyValue(lines[i])
		if !ok || !recognizedKeys[key] {
			break
		}
		into[key] = value
	}
	return strings.Join(lines[i:], "\n")
}

func splitKeyValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func parseReferences(trailer string) References {
	var refs References
	var pool *[]Link
	for _, line := range strings.Split(trailer, "\n") {
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "INTERNAL:":
			pool = &refs.Internal
			continue
		case "EXTERNAL:":
			pool = &refs.External
			continue
		}
		if pool == nil {
			continue
		}
		*pool = append(*pool, ExtractLinks(line)...)
	}
	return refs
}

func dropMarkerLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case MetadataMarker, ArticleMarker, ReferenceMarker:
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func displayKey(key string) string {
	switch key {
	case KeyMetaTitle:
		return "Meta Title"
	case KeyMetaDescription:
		return "Meta Description"
	case KeyOGTitle:
		return "OG Title"
	case KeyOGDescription:
		return "OG Description"
	case KeyJSONLD:
		return "JSON-LD"
	}
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

var markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)

// ExtractLinks returns every markdown link with an http(s) target, in order.
func ExtractLinks(markdown string) []Link {
	var links []Link
	for _, m := range markdownLinkRe.FindAllStringSubmatch(markdown, -1) {
		links = append(links, Link{Title: m[1], URL: m[2]})
	}
	return links
}

// UniqueByURL keeps the first link for each URL.
func UniqueByURL(links []Link) []Link {
	seen := make(map[string]bool)
	var out []Link
	for _, l := range links {
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	return out
}

// Body returns the article text of a payload with metadata and trailer removed.
func Body(text string) string {
	return Parse(text).Body
}
