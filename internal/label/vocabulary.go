package label

import (
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"
)

// vocabularyFile is the YAML shape accepted by Extend:
//
//	rules:
//	  - pattern: '^apis?\s*docs$'
//	    canonical: API Docs
//	    facet: product
type vocabularyFile struct {
	Rules []struct {
		Pattern   string `yaml:"pattern"`
		Canonical string `yaml:"canonical"`
		Facet     string `yaml:"facet"`
	} `yaml:"rules"`
}

func parseFacet(s string) (Facet, error) {
	switch Facet(s) {
	case FacetNature, FacetPhase, FacetPlatform, FacetWorkingGroup, FacetStatus, FacetProduct:
		return Facet(s), nil
	}
	return "", fmt.Errorf("unknown facet %q", s)
}

// Extend appends rules parsed from YAML after the built-in table, so the
// built-in taxonomy keeps first-match priority. Patterns are compiled
// case-insensitively like the built-ins.
func (v *Vocabulary) Extend(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read vocabulary: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	for i, entry := range file.Rules {
		if entry.Pattern == "" || entry.Canonical == "" {
			return fmt.Errorf("vocabulary rule %d: pattern and canonical are required", i)
		}
		facet, err := parseFacet(entry.Facet)
		if err != nil {
			return fmt.Errorf("vocabulary rule %d: %w", i, err)
		}
		re, err := regexp.Compile(`(?i)` + entry.Pattern)
		if err != nil {
			return fmt.Errorf("vocabulary rule %d: invalid pattern: %w", i, err)
		}
		v.rules = append(v.rules, Rule{Pattern: re, Canonical: entry.Canonical, Facet: facet})
	}

	return nil
}
