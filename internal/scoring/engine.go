package scoring

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/catalog"
)

// Verdict thresholds over score_total.
const (
	goThreshold      = 150
	exploreThreshold = 80
)

// Data quality below this percentage attaches a reliability warning.
const lowQualityThreshold = 50

// Fixed warning strings surfaced on the result.
const (
	LowDataQualityWarning   = "Score peu fiable — données insuffisantes"
	MalformedSignalsWarning = "Signaux malformés exclus du scoring"
)

// PreDetectionSource is the label under which the consolidation pass
// emits pre-detected signal hypotheses. Pre-detection has the lowest
// authority: its confidence is capped at medium and any dedicated source
// emitting the same signal id supersedes it.
const PreDetectionSource = "pre_detection"

func sourceAuthority(name string) int {
	if name == PreDetectionSource {
		return 0
	}
	return 1
}

// Engine turns a signal catalog plus source emissions into a
// reproducible score and verdict. It performs no I/O; the result is a
// deterministic function of (catalog version, emission set).
type Engine struct {
	catalog catalog.SignalCatalog
	logger  *zap.SugaredLogger
}

func NewEngine(cat catalog.SignalCatalog, logger *zap.SugaredLogger) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, NewErrEmptyCatalog(err)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{catalog: cat, logger: logger}, nil
}

func confidenceWeight(c api.Confidence) float64 {
	switch c {
	case api.ConfidenceHigh:
		return 1.0
	case api.ConfidenceMedium:
		return 0.75
	default:
		return 0.5
	}
}

type emission struct {
	signal    api.Signal
	source    string
	authority int
}

// Score aggregates the signal emissions of all source reports against
// the engine's catalog. Malformed emissions are excluded and flagged,
// degrading the run without aborting it; duplicate same-authority
// emissions for one signal id abort with ErrDuplicateEmission. A catalog
// signal no report emitted scores as UNKNOWN.
func (e *Engine) Score(reports []api.SourceReport) (api.ScoringResult, error) {
	result := api.ScoringResult{
		ScoreMax: e.catalog.ScoreMax(),
	}

	collected := make(map[string]emission)
	for _, report := range reports {
		authority := sourceAuthority(report.SourceName)
		for _, sig := range report.Signals {
			flag, ok := e.validate(report.SourceName, sig)
			if !ok {
				result.MalformedSignals = append(result.MalformedSignals, flag)
				result.Degraded = true
				continue
			}
			if authority == 0 && sig.Confidence == api.ConfidenceHigh {
				sig.Confidence = api.ConfidenceMedium
			}
			prev, seen := collected[sig.SignalID]
			switch {
			case !seen:
				collected[sig.SignalID] = emission{signal: sig, source: report.SourceName, authority: authority}
			case prev.authority == authority:
				return api.ScoringResult{}, NewErrDuplicateEmission(sig.SignalID, prev.source, report.SourceName)
			case prev.authority < authority:
				// Higher-authority source supersedes the pre-detection hint.
				collected[sig.SignalID] = emission{signal: sig, source: report.SourceName, authority: authority}
			}
		}
	}

	resolved := 0
	for _, def := range e.catalog.Signals {
		scored := api.ScoringSignal{
			SignalID:    def.ID,
			Status:      api.SignalStatusUnknown,
			BasePoints:  def.Points,
			SourceLabel: def.Source,
		}
		if em, ok := collected[def.ID]; ok {
			scored.Status = em.signal.Status
			scored.Confidence = em.signal.Confidence
			scored.Value = em.signal.Value
			scored.Evidence = em.signal.Evidence
		}

		switch scored.Status {
		case api.SignalStatusDetected:
			scored.WeightedPoints = e.weightedPoints(def.Points, scored.Confidence)
			result.ScoreTotal += scored.WeightedPoints
			resolved++
		case api.SignalStatusNotDetected:
			resolved++
		default:
			result.DataMissingSignals = append(result.DataMissingSignals, def.ID)
		}
		result.ScoringSignals = append(result.ScoringSignals, scored)
	}

	result.DataQualityScore = int(math.Round(float64(resolved) / float64(e.catalog.Len()) * 100))
	result.Verdict = verdict(result.ScoreTotal)

	switch {
	case result.DataQualityScore < lowQualityThreshold:
		warning := LowDataQualityWarning
		result.Warning = &warning
	case result.Degraded:
		warning := MalformedSignalsWarning
		result.Warning = &warning
	}

	if result.Degraded {
		e.logger.Warnw("scoring degraded by malformed emissions",
			"catalog_version", e.catalog.Version,
			"malformed", result.MalformedSignals,
		)
	}
	return result, nil
}

// weightedPoints applies the catalog's weighting mode, rounding half away
// from zero so a base of -25 at medium confidence yields -19, not -18.
func (e *Engine) weightedPoints(base int, conf api.Confidence) int {
	if e.catalog.Weighting == catalog.WeightingFlat {
		return base
	}
	return int(math.Round(float64(base) * confidenceWeight(conf)))
}

func (e *Engine) validate(source string, sig api.Signal) (flag string, ok bool) {
	if _, known := e.catalog.Lookup(sig.SignalID); !known {
		return fmt.Sprintf("%s: unknown signal id %q", source, sig.SignalID), false
	}
	if !sig.Status.Valid() {
		return fmt.Sprintf("%s/%s: invalid status %q", source, sig.SignalID, sig.Status), false
	}
	if !sig.Confidence.Valid() {
		return fmt.Sprintf("%s/%s: invalid confidence %q", source, sig.SignalID, sig.Confidence), false
	}
	return "", true
}

// VerdictFor classifies a final score against the fixed thresholds.
func VerdictFor(scoreTotal int) api.Verdict {
	return verdict(scoreTotal)
}

func verdict(scoreTotal int) api.Verdict {
	switch {
	case scoreTotal >= goThreshold:
		return api.VerdictGo
	case scoreTotal >= exploreThreshold:
		return api.VerdictExplore
	default:
		return api.VerdictPass
	}
}
