package v1alpha1

// SignalStatus is the verdict of one analysis source for one signal.
type SignalStatus string

const (
	SignalStatusDetected    SignalStatus = "DETECTED"
	SignalStatusNotDetected SignalStatus = "NOT_DETECTED"
	SignalStatusUnknown     SignalStatus = "UNKNOWN"
)

// Confidence qualifies how sure a source is about an emission or fact.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Verdict is the final GO/EXPLORE/PASS classification of an audit.
type Verdict string

const (
	VerdictGo      Verdict = "GO"
	VerdictExplore Verdict = "EXPLORE"
	VerdictPass    Verdict = "PASS"
)

// SourceRef points at a document backing a fact.
type SourceRef struct {
	Url       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Date      string `json:"date,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
}

// Fact is a sourced statement produced by an analysis source. Facts pass
// through to the persisted report unchanged; scoring reads only signals.
type Fact struct {
	Category   string      `json:"category"`
	Statement  string      `json:"statement"`
	Confidence Confidence  `json:"confidence"`
	Sources    []SourceRef `json:"sources,omitempty"`
}

// Signal is one source's emission for one catalog signal.
type Signal struct {
	SignalID   string       `json:"signal_id"`
	Status     SignalStatus `json:"status"`
	Confidence Confidence   `json:"confidence"`
	Value      string       `json:"value,omitempty"`
	Evidence   string       `json:"evidence,omitempty"`
	Sources    []string     `json:"sources,omitempty"`
}

// DataQuality is a source's self-assessment of its input coverage.
type DataQuality struct {
	SourcesCount      int        `json:"sources_count"`
	LinkedInAvailable bool       `json:"linkedin_available"`
	ConfidenceOverall Confidence `json:"confidence_overall"`
}

// SourceReport is the standard output contract of every analysis source.
type SourceReport struct {
	SourceName  string      `json:"source_name"`
	Facts       []Fact      `json:"facts,omitempty"`
	Signals     []Signal    `json:"signals,omitempty"`
	DataQuality DataQuality `json:"data_quality"`
}

// ScoringSignal is one catalog signal after scoring: the emission (or
// synthesized UNKNOWN) plus the points it contributed.
type ScoringSignal struct {
	SignalID       string       `json:"signal_id"`
	Status         SignalStatus `json:"status"`
	Confidence     Confidence   `json:"confidence,omitempty"`
	BasePoints     int          `json:"base_points"`
	WeightedPoints int          `json:"weighted_points"`
	SourceLabel    string       `json:"source_label"`
	Value          string       `json:"value,omitempty"`
	Evidence       string       `json:"evidence,omitempty"`
}

// ScoringResult aggregates all scored signals for one audit.
type ScoringResult struct {
	ScoringSignals     []ScoringSignal `json:"scoring_signals"`
	ScoreTotal         int             `json:"score_total"`
	ScoreMax           int             `json:"score_max"`
	DataQualityScore   int             `json:"data_quality_score"`
	DataMissingSignals []string        `json:"data_missing_signals,omitempty"`
	Verdict            Verdict         `json:"verdict"`
	Warning            *string         `json:"warning,omitempty"`
	Degraded           bool            `json:"degraded,omitempty"`
	MalformedSignals   []string        `json:"malformed_signals,omitempty"`
}

// AuditSummary is the outward representation of one audit.
type AuditSummary struct {
	ID               string   `json:"id"`
	DealID           string   `json:"deal_id"`
	StageID          string   `json:"stage_id"`
	CompanyName      string   `json:"company_name"`
	Domain           string   `json:"domain,omitempty"`
	LinkedInAvail    bool     `json:"linkedin_available"`
	Status           string   `json:"status"`
	ScoreTotal       *int     `json:"score_total,omitempty"`
	DataQualityScore *int     `json:"data_quality_score,omitempty"`
	Verdict          *Verdict `json:"verdict,omitempty"`
	CreatedAt        string   `json:"created_at"`
	CompletedAt      *string  `json:"completed_at,omitempty"`
}

func (s SignalStatus) Valid() bool {
	switch s {
	case SignalStatusDetected, SignalStatusNotDetected, SignalStatusUnknown:
		return true
	default:
		return false
	}
}

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}
