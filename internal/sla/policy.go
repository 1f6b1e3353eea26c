// Package sla derives service-level-agreement rules from an issue's
// facets and evaluates them against elapsed working time. Every function
// is total: missing facets are empty slices, durations are never
// negative, nothing here returns an error.
package sla

import (
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/label"
)

// Verdict is the computed SLA state of an issue. The integer value
// doubles as the sort rank: NoSLA < Within < Paused < Over.
type Verdict int

const (
	NoSLA Verdict = iota
	Within
	Paused
	Over
)

// Rank returns the numeric ordering used for SLA-column sorting.
func (v Verdict) Rank() int {
	return int(v)
}

// String returns the display form used in table output.
func (v Verdict) String() string {
	switch v {
	case Within:
		return "Within SLA"
	case Paused:
		return "SLA Paused"
	case Over:
		return "Over SLA"
	default:
		return "No SLA"
	}
}

// RuleKind discriminates the declarative rule derived for an issue.
type RuleKind int

const (
	// KindNone means the SLA does not apply to the issue.
	KindNone RuleKind = iota
	// KindPaused means the SLA clock is halted while a pause status is set.
	KindPaused
	// KindTimed means elapsed working time is compared against LimitDays.
	KindTimed
)

// Rule is the policy derived from an issue's Nature and Status facets.
type Rule struct {
	Kind      RuleKind
	LimitDays int
}

// Policy carries the behavioral switches that changed across the
// dashboard's history.
type Policy struct {
	// BugBypassesPause restores the earlier behavior where a Bug-natured
	// issue keeps its timed limit even while a pause status is present.
	// When false, pause always wins.
	BugBypassesPause bool
}

// noSLAStatuses and noSLANatures make the SLA inapplicable outright.
var noSLAStatuses = map[string]bool{
	"Production Testing": true,
}

var noSLANatures = map[string]bool{
	"Change Request":   true,
	"Test Improvement": true,
	"Breaking Change":  true,
}

// pauseStatuses halt the SLA clock while present.
var pauseStatuses = map[string]bool{
	"Under WG/DTO Evaluation": true,
	"Waiting Participant":     true,
	"In Pipeline":             true,
	"In Progress":             true,
	"Backlog":                 true,
	"Sandbox Testing":         true,
	"Waiting Deploy":          true,
}

// Working-day limits for timed rules.
const (
	natureLimitDays             = 10
	waitingParticipantLimitDays = 5
	defaultLimitDays            = 3
)

// IsPauseStatus reports whether a canonical status label halts the SLA
// clock. The timeline refinement uses it to pick pause-eligible events.
func IsPauseStatus(canonical string) bool {
	return pauseStatuses[canonical]
}

func anyIn(labels []string, set map[string]bool) bool {
	for _, l := range labels {
		if set[l] {
			return true
		}
	}
	return false
}

// Derive computes the declarative rule for an issue's facets.
//
// Precedence: No-SLA labels beat everything, then pause statuses, then
// the timed limits. Bug/Questions natures get 10 working days (5 when a
// Waiting Participant status reaches the timed path); Under Evaluation
// or an empty Nature gets 3; any other Nature has no SLA.
func Derive(f label.Facets, p Policy) Rule {
	if anyIn(f.Status, noSLAStatuses) || anyIn(f.Nature, noSLANatures) {
		return Rule{Kind: KindNone}
	}

	bypass := p.BugBypassesPause && f.HasNature("Bug")
	if !bypass && anyIn(f.Status, pauseStatuses) {
		return Rule{Kind: KindPaused}
	}

	if f.HasNature("Bug") || f.HasNature("Questions") {
		if f.HasStatus("Waiting Participant") {
			return Rule{Kind: KindTimed, LimitDays: waitingParticipantLimitDays}
		}
		return Rule{Kind: KindTimed, LimitDays: natureLimitDays}
	}

	if len(f.Nature) == 0 || f.HasStatus("Under Evaluation") {
		return Rule{Kind: KindTimed, LimitDays: defaultLimitDays}
	}

	return Rule{Kind: KindNone}
}

// Evaluate compares elapsed working days against the derived rule.
// Elapsed equal to the limit is still within; only elapsed beyond the
// limit is over.
func Evaluate(f label.Facets, elapsedDays int, p Policy) Verdict {
	rule := Derive(f, p)
	switch rule.Kind {
	case KindPaused:
		return Paused
	case KindTimed:
		if elapsedDays > rule.LimitDays {
			return Over
		}
		return Within
	default:
		return NoSLA
	}
}
