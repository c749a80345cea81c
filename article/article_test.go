package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullPayload(t *testing.T) {
	in := "---SEO_DATA---\nMeta Title: T\nSlug: s\n---ARTICLE---\n# H\nbody\n---VALIDATED_LINKS_FOR_REFERENCE_ONLY---\nEXTERNAL:\n- [x](y)\n"

	got := Parse(in)
	assert.Equal(t, "T", got.Metadata["meta title"])
	assert.Equal(t, "s", got.Metadata["slug"])
	assert.Equal(t, "# H\nbody", got.Body)
	assert.NotContains(t, got.Body, ReferenceMarker)
}

func TestParseKeysAreCaseInsensitive(t *testing.T) {
	in := "---SEO_DATA---\nMETA TITLE: Upper\ncategory: Tech, Go\nTAGS: a, b ,, c\nJSON-LD: {\"@type\": \"Article\"}\n---ARTICLE---\nBody"

	got := Parse(in)
	assert.Equal(t, "Upper", got.Title())
	assert.Equal(t, "Upper", got.Get("Meta Title"))
	assert.Equal(t, []string{"Tech", "Go"}, got.Categories())
	assert.Equal(t, []string{"a", "b", "c"}, got.Tags())
	assert.Equal(t, `{"@type": "Article"}`, got.Get(KeyJSONLD))
}

func TestParseWithoutMarkersIsPlainBody(t *testing.T) {
	got := Parse("  # Just an article\n\nSome text: with a colon.\n")
	assert.Empty(t, got.Metadata)
	assert.Equal(t, "# Just an article\n\nSome text: with a colon.", got.Body)
	assert.True(t, got.References.Empty())
}

func TestParseMetadataWithoutArticleMarker(t *testing.T) {
	got := Parse("---SEO_DATA---\nMeta Title: T\nSlug: s\n\n# Heading\nBody: not metadata")
	assert.Equal(t, "T", got.Title())
	assert.Equal(t, "s", got.Slug())
	assert.Equal(t, "# Heading\nBody: not metadata", got.Body)
}

func TestParseArticleMarkerOnly(t *testing.T) {
	got := Parse("Meta Title: T\nRandom: noise\n---ARTICLE---\nBody")
	assert.Equal(t, "T", got.Title())
	assert.Empty(t, got.Get("random"))
	assert.Equal(t, "Body", got.Body)
}

func TestParseDropsRepeatedMarkers(t *testing.T) {
	got := Parse("---SEO_DATA---\nSlug: s\n---ARTICLE---\nOne\n---ARTICLE---\nTwo\n---SEO_DATA---")
	assert.Equal(t, "One\nTwo", got.Body)
}

func TestParseReferences(t *testing.T) {
	in := "---ARTICLE---\nBody\n" + ReferenceMarker + "\nINTERNAL:\n- [Post](https://blog.dev/post)\nEXTERNAL:\n- [Docs](https://go.dev/doc)\n- [Spec](https://go.dev/ref/spec)\n"

	got := Parse(in)
	assert.Equal(t, []Link{{"Post", "https://blog.dev/post"}}, got.References.Internal)
	assert.Equal(t, []Link{{"Docs", "https://go.dev/doc"}, {"Spec", "https://go.dev/ref/spec"}}, got.References.External)
}

func TestStringRoundTrip(t *testing.T) {
	s := Structured{
		Metadata: map[string]string{KeyMetaTitle: "T", KeySlug: "s", KeyTags: "a, b"},
		Body:     "# H\nbody",
		References: References{
			External: []Link{{"Docs", "https://go.dev/doc"}},
		},
	}
	text := s.String()
	assert.Contains(t, text, "Meta Title: T\n")

	back := Parse(text)
	assert.Equal(t, s.Metadata, back.Metadata)
	assert.Equal(t, s.Body, back.Body)
	assert.Equal(t, s.References, back.References)
}

func TestReferencesStringEmpty(t *testing.T) {
	assert.Empty(t, References{}.String())
}

func TestExtractLinksAndUnique(t *testing.T) {
	md := "See [A](https://a.dev/x) and [B](http://b.dev), again [A2](https://a.dev/x), not [C](ftp://c.dev)."
	links := ExtractLinks(md)
	require.Len(t, links, 3)
	assert.Equal(t, Link{"B", "http://b.dev"}, links[1])

	unique := UniqueByURL(links)
	assert.Equal(t, []Link{{"A", "https://a.dev/x"}, {"B", "http://b.dev"}}, unique)
}
