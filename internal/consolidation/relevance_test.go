package consolidation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealradar/audit-engine/internal/catalog"
)

func testFilter(t *testing.T, keywords ...string) *RelevanceFilter {
	t.Helper()
	defs := make([]catalog.KeywordDef, 0, len(keywords))
	for _, k := range keywords {
		defs = append(defs, catalog.KeywordDef{Keyword: k})
	}
	return NewRelevanceFilter(catalog.KeywordCatalog{Version: "test", Keywords: defs})
}

func TestIsRelevant_WholeWordOnly(t *testing.T) {
	t.Parallel()
	f := testFilter(t, "ia")

	assert.True(t, f.IsRelevant("l'IA est clé pour nous"))
	assert.True(t, f.IsRelevant("IA"))
	assert.True(t, f.IsRelevant("miser sur l'ia."))
	assert.False(t, f.IsRelevant("notre stratégie social media"), "substring inside a word must not match")
	assert.False(t, f.IsRelevant("une variable"))
	assert.False(t, f.IsRelevant(""))
}

func TestIsRelevant_CaseInsensitive(t *testing.T) {
	t.Parallel()
	f := testFilter(t, "transformation")

	assert.True(t, f.IsRelevant("Grande TRANSFORMATION en cours"))
	assert.True(t, f.IsRelevant("transformation digitale"))
	assert.False(t, f.IsRelevant("transformations"), "plural is a different word")
}

func TestIsRelevant_AccentedBoundaries(t *testing.T) {
	t.Parallel()
	f := testFilter(t, "dsi")

	// é is a letter: "dsié" must not match, punctuation boundaries must.
	assert.False(t, f.IsRelevant("le dsié"))
	assert.True(t, f.IsRelevant("notre DSI, arrivé en mars"))
}

func TestApply_TruncatesRelevantPosts(t *testing.T) {
	t.Parallel()
	f := testFilter(t, "cloud")

	long := "cloud " + strings.Repeat("é", 800)
	posts := []PostRecord{{Author: "Jean Dupont", Text: long}}

	out := f.Apply(posts)
	require.Len(t, out, 1)
	assert.Equal(t, 500, len([]rune(out[0].Text)), "truncation counts runes, not bytes")
	assert.Equal(t, long, posts[0].Text, "input must not be mutated")
}

func TestApply_ClearsNonRelevantText(t *testing.T) {
	t.Parallel()
	f := testFilter(t, "cloud")

	posts := []PostRecord{
		{Author: "Jean Dupont", Text: "migration cloud réussie", Reactions: 12},
		{Author: "Marie Curie", Text: "joyeux anniversaire à tous", Reactions: 40},
	}

	out := f.Apply(posts)
	require.Len(t, out, 2, "non-relevant posts keep their metadata")
	assert.Equal(t, "migration cloud réussie", out[0].Text)
	assert.Empty(t, out[1].Text)
	assert.Equal(t, 40, out[1].Reactions)
}

func TestApply_ShortTextKeptVerbatim(t *testing.T) {
	t.Parallel()
	f := testFilter(t, "cloud")

	posts := []PostRecord{{Author: "Jean Dupont", Text: "cloud first"}}
	out := f.Apply(posts)
	assert.Equal(t, "cloud first", out[0].Text)
}
