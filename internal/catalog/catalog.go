package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Weighting selects how emission confidence affects points.
type Weighting string

const (
	// WeightingFlat awards full base points on DETECTED regardless of confidence.
	WeightingFlat Weighting = "flat"
	// WeightingConfidence multiplies base points by the confidence weight.
	WeightingConfidence Weighting = "confidence"
)

// SignalDef prices one signal and names the analysis source that owns it.
type SignalDef struct {
	ID     string `json:"id"`
	Points int    `json:"points"`
	Source string `json:"source"`
}

// SignalCatalog is a versioned, immutable pricing grid for opportunity
// signals. Catalogs are configuration: adding or repricing a signal is a
// catalog change, never a code change. Callers pass catalogs explicitly;
// there is no process-wide default.
type SignalCatalog struct {
	Version   string      `json:"version"`
	Weighting Weighting   `json:"weighting"`
	Signals   []SignalDef `json:"signals"`
}

//go:embed signals_v1.yaml
var signalsV1 []byte

//go:embed signals_v2.yaml
var signalsV2 []byte

// DefaultSignalCatalog returns the canonical confidence-weighted catalog.
func DefaultSignalCatalog() (SignalCatalog, error) {
	return parseSignalCatalog(signalsV2)
}

// LegacySignalCatalog returns the original flat-point grid, kept so both
// catalog versions can be run side by side.
func LegacySignalCatalog() (SignalCatalog, error) {
	return parseSignalCatalog(signalsV1)
}

// LoadSignalCatalog reads a catalog from a YAML file.
func LoadSignalCatalog(path string) (SignalCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SignalCatalog{}, errors.Wrap(err, "reading signal catalog")
	}
	return parseSignalCatalog(data)
}

func parseSignalCatalog(data []byte) (SignalCatalog, error) {
	var c SignalCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return SignalCatalog{}, errors.Wrap(err, "parsing signal catalog")
	}
	if err := c.Validate(); err != nil {
		return SignalCatalog{}, err
	}
	return c, nil
}

// Validate rejects structurally unusable catalogs. A missing or empty
// catalog is fatal for the audit that depends on it.
func (c SignalCatalog) Validate() error {
	if c.Version == "" {
		return errors.New("signal catalog: missing version")
	}
	if len(c.Signals) == 0 {
		return errors.New("signal catalog: no signals defined")
	}
	switch c.Weighting {
	case WeightingFlat, WeightingConfidence:
	default:
		return fmt.Errorf("signal catalog: unknown weighting %q", c.Weighting)
	}
	seen := make(map[string]struct{}, len(c.Signals))
	for _, s := range c.Signals {
		if s.ID == "" {
			return errors.New("signal catalog: signal with empty id")
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("signal catalog: duplicate signal id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Points == 0 {
			return fmt.Errorf("signal catalog: signal %q has zero points", s.ID)
		}
	}
	return nil
}

// Lookup returns the definition for a signal id.
func (c SignalCatalog) Lookup(id string) (SignalDef, bool) {
	for _, s := range c.Signals {
		if s.ID == id {
			return s, true
		}
	}
	return SignalDef{}, false
}

// ScoreMax is the sum of all positive base points. It is always recomputed
// from the catalog so repricing never desynchronizes the ceiling.
func (c SignalCatalog) ScoreMax() int {
	max := 0
	for _, s := range c.Signals {
		if s.Points > 0 {
			max += s.Points
		}
	}
	return max
}

// Len returns the number of signals in the catalog.
func (c SignalCatalog) Len() int {
	return len(c.Signals)
}
