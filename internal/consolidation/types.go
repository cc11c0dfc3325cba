package consolidation

import api "github.com/dealradar/audit-engine/api/v1alpha1"

// ExecutiveRecord is one extracted executive as produced by a batch
// extraction pass, before consolidation.
type ExecutiveRecord struct {
	FullName          string   `json:"full_name"`
	LinkedInURL       string   `json:"linkedin_url,omitempty"`
	Headline          string   `json:"headline,omitempty"`
	CurrentJobTitle   string   `json:"current_job_title,omitempty"`
	Employer          string   `json:"employer,omitempty"`
	IsCurrentEmployee bool     `json:"is_current_employee"`
	TenureMonths      *int     `json:"tenure_months,omitempty"`
	About             string   `json:"about,omitempty"`
	ReportsToMention  string   `json:"reports_to_mention,omitempty"`
	MentionedPeople   []string `json:"mentioned_people,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	ConnectedWith     []string `json:"connected_with,omitempty"`
}

// PostRecord is one extracted LinkedIn post.
type PostRecord struct {
	Author      string   `json:"author"`
	AuthorTitle string   `json:"author_title,omitempty"`
	AuthorURL   string   `json:"author_url,omitempty"`
	PostURL     string   `json:"post_url,omitempty"`
	Date        string   `json:"date,omitempty"` // YYYY-MM-DD
	Text        string   `json:"text,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Reactions   int      `json:"reactions"`
	Comments    int      `json:"comments"`
	Reshares    int      `json:"reshares"`
	IsReshare   bool     `json:"is_reshare"`
}

// Batch is one extraction batch. Batches are ordered; the order is part
// of the consolidation contract.
type Batch struct {
	Number     int               `json:"number"`
	Executives []ExecutiveRecord `json:"executives,omitempty"`
	Posts      []PostRecord      `json:"posts,omitempty"`
}

// Relation classifies an inferred org-chart edge.
type Relation string

const (
	RelationReportsTo       Relation = "reports_to"
	RelationSameCommittee   Relation = "same_committee"
	RelationMentionedAsTeam Relation = "mentioned_as_team"
	RelationSupervises      Relation = "supervises"
)

// OrgEdge is one inferred relationship between two roster executives.
type OrgEdge struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Relation   Relation       `json:"relation"`
	Confidence api.Confidence `json:"confidence"`
}

// ThemeCluster groups posts sharing a topic tag, reported only when at
// least two distinct authors mention the theme.
type ThemeCluster struct {
	Theme   string   `json:"theme"`
	Count   int      `json:"count"`
	Authors []string `json:"authors"`
}

// MergedExecutive is one roster entry: the winning record plus merge
// provenance.
type MergedExecutive struct {
	ExecutiveRecord
	Key         string `json:"key,omitempty"` // normalized dedup key, empty when unnamed
	SourceBatch int    `json:"source_batch"`
	Flagged     bool   `json:"flagged,omitempty"` // no usable name, kept as singleton
}

// Result is the consolidated output for one audit: the deduped roster,
// deduped posts, and derived structures.
type Result struct {
	Executives []MergedExecutive `json:"executives"`
	Posts      []PostRecord      `json:"posts"`
	Edges      []OrgEdge         `json:"edges,omitempty"`
	Themes     []ThemeCluster    `json:"themes,omitempty"`
	BatchCount int               `json:"batch_count"`
}
