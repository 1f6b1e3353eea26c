// Package label maps raw GitLab labels to a canonical vocabulary and
// partitions them into facets (Nature, Phase, Platform, Working-Group,
// Status, Product).
package label

import (
	"regexp"
	"strings"
)

// Facet names a classification bucket. Every canonical label belongs to
// exactly one facet; Product is the fallback for anything unmatched.
type Facet string

const (
	FacetNature       Facet = "nature"
	FacetPhase        Facet = "phase"
	FacetPlatform     Facet = "platform"
	FacetWorkingGroup Facet = "wg"
	FacetStatus       Facet = "status"
	FacetProduct      Facet = "product"
)

// Rule maps a case-insensitive pattern over the base label text to a
// canonical label and its facet. Rules are evaluated in order; the first
// match wins.
type Rule struct {
	Pattern   *regexp.Regexp
	Canonical string
	Facet     Facet
}

// phaseRE captures the phase number so the canonical form can be rebuilt
// as "Phase <n>" whatever the spacing or casing of the raw label.
var phaseRE = regexp.MustCompile(`(?i)^phase\s*(1|2|3|4a|4b)$`)

func rule(pattern, canonical string, facet Facet) Rule {
	return Rule{
		Pattern:   regexp.MustCompile(`(?i)` + pattern),
		Canonical: canonical,
		Facet:     facet,
	}
}

// defaultRules is the built-in taxonomy. Status rules come first, then
// Nature, Platform and Working-Group; the evaluation order only matters
// for the Product fallback since the vocabularies are disjoint.
func defaultRules() []Rule {
	return []Rule{
		rule(`^under\s*evaluation$`, "Under Evaluation", FacetStatus),
		rule(`^waiting\s*participant$`, "Waiting Participant", FacetStatus),
		rule(`^under\s*wg/?dto\s*evaluation$`, "Under WG/DTO Evaluation", FacetStatus),
		rule(`^evaluated\s*by\s*wg/?dto$`, "Evaluated by WG/DTO", FacetStatus),
		rule(`^backlog$`, "Backlog", FacetStatus),
		rule(`^in\s*progress$`, "In Progress", FacetStatus),
		rule(`^in\s*pipeline$`, "In Pipeline", FacetStatus),
		rule(`^deprioritized$`, "Deprioritized", FacetStatus),
		rule(`^sandbox\s*testing`, "Sandbox Testing", FacetStatus),
		rule(`^waiting\s*deploy$`, "Waiting Deploy", FacetStatus),
		rule(`^production\s*testing`, "Production Testing", FacetStatus),
		rule(`^bug$`, "Bug", FacetNature),
		rule(`^questions?$`, "Questions", FacetNature),
		rule(`^change\s*request$`, "Change Request", FacetNature),
		rule(`^test\s*improvements?$`, "Test Improvement", FacetNature),
		rule(`^breaking\s*change$`, "Breaking Change", FacetNature),
		rule(`^fvp$`, "FVP", FacetPlatform),
		rule(`^mock\s*bank$`, "Mock Bank", FacetPlatform),
		rule(`^mock\s*tpp$`, "Mock TPP", FacetPlatform),
		rule(`^conformance\s*suite$`, "Conformance Suite", FacetPlatform),
		rule(`^gt\s*serv(i|í)ços$`, "GT Serviços", FacetWorkingGroup),
		rule(`^gt\s*portabilidade\s*de\s*cr(e|é)dito$`, "GT Portabilidade de crédito", FacetWorkingGroup),
		rule(`^squad\s*sandbox`, "Squad Sandbox", FacetWorkingGroup),
		rule(`^squad\s*jsr`, "Squad JSR", FacetWorkingGroup),
	}
}

// Vocabulary is an ordered rule table. The zero value is unusable; build
// one with Default.
type Vocabulary struct {
	rules []Rule
}

// Default returns a vocabulary loaded with the built-in taxonomy.
func Default() *Vocabulary {
	return &Vocabulary{rules: defaultRules()}
}

// Rules returns the vocabulary's rule table in evaluation order.
func (v *Vocabulary) Rules() []Rule {
	return v.rules
}

// Base strips a scoped-label namespace: everything from the first "::"
// onward is discarded, and the remainder trimmed. "status::Backlog" and
// "Backlog " both yield "Backlog".
func Base(tag string) string {
	if i := strings.Index(tag, "::"); i >= 0 {
		tag = tag[:i]
	}
	return strings.TrimSpace(tag)
}

// Normalize maps a raw tag to its canonical label. Unmatched tags fall
// back to their trimmed base string so the classifier can bucket them as
// Product. Total over all inputs, never fails.
func (v *Vocabulary) Normalize(tag string) string {
	canonical, _ := v.lookup(tag)
	return canonical
}

// lookup resolves a raw tag to (canonical, facet). Unmatched tags come
// back as (base, FacetProduct).
func (v *Vocabulary) lookup(tag string) (string, Facet) {
	base := Base(tag)
	for _, r := range v.rules {
		if r.Pattern.MatchString(base) {
			return r.Canonical, r.Facet
		}
	}
	if m := phaseRE.FindStringSubmatch(base); m != nil {
		return "Phase " + strings.ToLower(m[1]), FacetPhase
	}
	return base, FacetProduct
}

// Normalize maps a raw tag to its canonical label using the built-in
// vocabulary.
func Normalize(tag string) string {
	return Default().Normalize(tag)
}
