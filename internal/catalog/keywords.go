package catalog

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// KeywordDef is one relevance keyword. Tags classify the keyword for
// reporting; the relevance decision depends only on the keyword itself.
type KeywordDef struct {
	Keyword string   `json:"keyword"`
	Tags    []string `json:"tags,omitempty"`
}

// KeywordCatalog is the versioned keyword list driving post relevance.
type KeywordCatalog struct {
	Version  string       `json:"version"`
	Keywords []KeywordDef `json:"keywords"`
}

//go:embed keywords.yaml
var keywordsDefault []byte

// DefaultKeywordCatalog returns the embedded keyword catalog.
func DefaultKeywordCatalog() (KeywordCatalog, error) {
	return parseKeywordCatalog(keywordsDefault)
}

// LoadKeywordCatalog reads a keyword catalog from a YAML file.
func LoadKeywordCatalog(path string) (KeywordCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordCatalog{}, errors.Wrap(err, "reading keyword catalog")
	}
	return parseKeywordCatalog(data)
}

func parseKeywordCatalog(data []byte) (KeywordCatalog, error) {
	var c KeywordCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return KeywordCatalog{}, errors.Wrap(err, "parsing keyword catalog")
	}
	if err := c.Validate(); err != nil {
		return KeywordCatalog{}, err
	}
	return c, nil
}

func (c KeywordCatalog) Validate() error {
	if c.Version == "" {
		return errors.New("keyword catalog: missing version")
	}
	if len(c.Keywords) == 0 {
		return errors.New("keyword catalog: no keywords defined")
	}
	for _, k := range c.Keywords {
		if k.Keyword == "" {
			return errors.New("keyword catalog: empty keyword")
		}
	}
	return nil
}
