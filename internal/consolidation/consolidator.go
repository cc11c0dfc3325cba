package consolidation

import (
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
)

// Consolidator merges ordered batch extraction results into one canonical
// roster per audit. The merge is deterministic and idempotent: the same
// batches in the same order always yield an identical Result. The only
// side effect is logging tie resolutions.
type Consolidator struct {
	logger *zap.SugaredLogger
}

func NewConsolidator(logger *zap.SugaredLogger) *Consolidator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Consolidator{logger: logger}
}

var nameFolder = cases.Fold()

// NormalizeName builds the dedup key for an executive: case-folded and
// whitespace-normalized full name.
func NormalizeName(name string) string {
	return nameFolder.String(strings.Join(strings.Fields(name), " "))
}

// Consolidate merges all batches into a deduped roster, dedupes posts,
// and derives org-chart edges and thematic clusters.
func (c *Consolidator) Consolidate(batches []Batch) Result {
	roster := make([]MergedExecutive, 0)
	byKey := make(map[string]int)

	for _, batch := range batches {
		for _, rec := range batch.Executives {
			key := NormalizeName(rec.FullName)
			if key == "" {
				// Cannot be deduped without a name; keep as a flagged singleton.
				roster = append(roster, MergedExecutive{
					ExecutiveRecord: rec,
					SourceBatch:     batch.Number,
					Flagged:         true,
				})
				continue
			}
			pos, seen := byKey[key]
			if !seen {
				byKey[key] = len(roster)
				roster = append(roster, MergedExecutive{
					ExecutiveRecord: rec,
					Key:             key,
					SourceBatch:     batch.Number,
				})
				continue
			}
			existing := roster[pos]
			newCount, oldCount := populatedFields(rec), populatedFields(existing.ExecutiveRecord)
			switch {
			case newCount > oldCount:
				// Keep the whole richer record, at the original roster position.
				roster[pos] = MergedExecutive{
					ExecutiveRecord: rec,
					Key:             key,
					SourceBatch:     batch.Number,
				}
			case newCount == oldCount:
				c.logger.Debugw("consolidation conflict resolved by batch order",
					"name", key,
					"kept_batch", existing.SourceBatch,
					"dropped_batch", batch.Number,
					"populated_fields", newCount,
				)
			}
		}
	}

	return Result{
		Executives: roster,
		Posts:      dedupePosts(batches),
		Edges:      deriveEdges(roster, byKey),
		Themes:     deriveThemes(batches),
		BatchCount: len(batches),
	}
}

// populatedFields counts the non-empty fields of a record. It drives
// merge precedence; booleans are always set and do not count.
func populatedFields(r ExecutiveRecord) int {
	n := 0
	for _, s := range []string{
		r.FullName, r.LinkedInURL, r.Headline, r.CurrentJobTitle,
		r.Employer, r.About, r.ReportsToMention,
	} {
		if s != "" {
			n++
		}
	}
	if r.TenureMonths != nil {
		n++
	}
	for _, l := range [][]string{r.MentionedPeople, r.Skills, r.ConnectedWith} {
		if len(l) > 0 {
			n++
		}
	}
	return n
}

func dedupePosts(batches []Batch) []PostRecord {
	seen := make(map[string]struct{})
	out := make([]PostRecord, 0)
	for _, batch := range batches {
		for _, p := range batch.Posts {
			key := NormalizeName(p.Author) + "|" + p.Date + "|" + truncateRunes(p.Text, 100)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// titleRank orders job titles for the reporting-line heuristic:
// 3 top executive, 2 C-suite, 1 VP/director, 0 unknown.
func titleRank(title string) int {
	t := strings.ToLower(title)
	switch {
	case t == "":
		return 0
	case strings.Contains(t, "adjoint"):
		return 2
	case containsAny(t, "ceo", "pdg", "chief executive", "président", "president", "directeur général", "directrice générale"):
		return 3
	case containsAny(t, "chief", "cfo", "cio", "cto", "cdo", "coo", "cmo", "chro", "dsi", "directeur financier", "directeur de la transformation"):
		return 2
	case containsAny(t, "vp", "vice-pr", "vice pr", "directeur", "directrice"):
		return 1
	default:
		return 0
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func execRank(e MergedExecutive) int {
	if r := titleRank(e.CurrentJobTitle); r > 0 {
		return r
	}
	return titleRank(e.Headline)
}

func deriveEdges(roster []MergedExecutive, byKey map[string]int) []OrgEdge {
	edges := make([]OrgEdge, 0)
	added := make(map[string]struct{})
	add := func(from, to string, rel Relation, conf api.Confidence) {
		if from == to {
			return
		}
		id := from + "|" + to + "|" + string(rel)
		if _, dup := added[id]; dup {
			return
		}
		added[id] = struct{}{}
		edges = append(edges, OrgEdge{From: from, To: to, Relation: rel, Confidence: conf})
	}
	lookup := func(name string) (MergedExecutive, bool) {
		pos, ok := byKey[NormalizeName(name)]
		if !ok {
			return MergedExecutive{}, false
		}
		return roster[pos], true
	}

	// Explicit reporting mentions: reports_to at high confidence, with the
	// inverse supervises edge.
	for _, e := range roster {
		if e.ReportsToMention == "" {
			continue
		}
		boss, ok := lookup(e.ReportsToMention)
		if !ok {
			continue
		}
		add(e.FullName, boss.FullName, RelationReportsTo, api.ConfidenceHigh)
		add(boss.FullName, e.FullName, RelationSupervises, api.ConfidenceHigh)
	}

	// Title-hierarchy heuristic: with a single top executive, C-suite
	// members without an explicit reporting line report to them at medium
	// confidence.
	var top *MergedExecutive
	topCount := 0
	for i := range roster {
		if execRank(roster[i]) == 3 {
			top = &roster[i]
			topCount++
		}
	}
	if topCount == 1 {
		for _, e := range roster {
			if execRank(e) == 2 && e.ReportsToMention == "" {
				add(e.FullName, top.FullName, RelationReportsTo, api.ConfidenceMedium)
			}
		}
	}

	// Co-mentions: same_committee when both are senior, mentioned_as_team
	// otherwise.
	for _, e := range roster {
		for _, name := range e.MentionedPeople {
			other, ok := lookup(name)
			if !ok {
				continue
			}
			if execRank(e) >= 2 && execRank(other) >= 2 {
				add(e.FullName, other.FullName, RelationSameCommittee, api.ConfidenceMedium)
			} else {
				add(e.FullName, other.FullName, RelationMentionedAsTeam, api.ConfidenceLow)
			}
		}
	}

	return edges
}

func deriveThemes(batches []Batch) []ThemeCluster {
	type themeAcc struct {
		display string
		count   int
		authors []string
		seen    map[string]struct{}
	}
	order := make([]string, 0)
	acc := make(map[string]*themeAcc)

	for _, batch := range batches {
		for _, p := range batch.Posts {
			authorKey := NormalizeName(p.Author)
			for _, topic := range p.Topics {
				key := strings.ToLower(strings.TrimSpace(topic))
				if key == "" {
					continue
				}
				a, ok := acc[key]
				if !ok {
					a = &themeAcc{display: strings.TrimSpace(topic), seen: make(map[string]struct{})}
					acc[key] = a
					order = append(order, key)
				}
				a.count++
				if _, dup := a.seen[authorKey]; !dup {
					a.seen[authorKey] = struct{}{}
					a.authors = append(a.authors, p.Author)
				}
			}
		}
	}

	themes := make([]ThemeCluster, 0)
	for _, key := range order {
		a := acc[key]
		if len(a.authors) < 2 {
			continue
		}
		themes = append(themes, ThemeCluster{Theme: a.display, Count: a.count, Authors: a.authors})
	}
	sort.SliceStable(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return themes[i].Theme < themes[j].Theme
	})
	return themes
}
