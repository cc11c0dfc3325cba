package consolidation

import (
	"strings"
	"unicode"

	"github.com/dealradar/audit-engine/internal/catalog"
)

// Relevant posts keep at most this many characters of text.
const maxPostTextRunes = 500

// RelevanceFilter classifies posts as relevant or not against a keyword
// catalog. A post is relevant iff its text contains at least one catalog
// keyword as a whole word, case-insensitively. The filter is a pure
// function of (catalog version, post set).
type RelevanceFilter struct {
	catalog  catalog.KeywordCatalog
	keywords []string
}

func NewRelevanceFilter(kc catalog.KeywordCatalog) *RelevanceFilter {
	keywords := make([]string, 0, len(kc.Keywords))
	for _, k := range kc.Keywords {
		keywords = append(keywords, strings.ToLower(k.Keyword))
	}
	return &RelevanceFilter{catalog: kc, keywords: keywords}
}

// Apply returns a new post slice: relevant posts keep their text hard
// truncated to 500 characters, non-relevant posts keep only metadata with
// the text cleared. The input is never mutated.
func (f *RelevanceFilter) Apply(posts []PostRecord) []PostRecord {
	out := make([]PostRecord, 0, len(posts))
	for _, p := range posts {
		if f.IsRelevant(p.Text) {
			p.Text = truncateRunes(p.Text, maxPostTextRunes)
		} else {
			p.Text = ""
		}
		out = append(out, p)
	}
	return out
}

// IsRelevant reports whether the text contains any catalog keyword as a
// whole word. Substring hits inside a larger word do not count: "ia"
// matches "l'IA est clé" but never "social".
func (f *RelevanceFilter) IsRelevant(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range f.keywords {
		if containsWholeWord(lower, kw) {
			return true
		}
	}
	return false
}

// containsWholeWord reports whether needle occurs in haystack bounded on
// both sides by non-word runes (or the string edges). Both arguments must
// already be lower-cased. Boundaries are checked on runes, not bytes:
// regexp's \b is ASCII-only and misfires on accented text.
func containsWholeWord(haystack, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		if boundaryBefore(haystack, idx) && boundaryAfter(haystack, idx+len(needle)) {
			return true
		}
		start = idx + 1
	}
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r := lastRune(s[:idx])
	return !isWordRune(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r := firstRune(s[idx:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
