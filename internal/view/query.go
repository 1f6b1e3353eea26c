// Package view turns evaluated issues into render-ready, filtered and
// sorted slices. Query is an immutable value object; SelectAndSort is a
// pure function of its inputs, so no module-level filter or sort state
// exists anywhere.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/label"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/sla"
	"github.com/matheus-raidiam/gitlab-issue-tracker/pkg/models"
)

// Item is the render-ready view model for a single issue.
type Item struct {
	models.Issue

	Facets      label.Facets
	WorkingDays int
	Verdict     sla.Verdict
	Note        string
}

// Mode selects which issue population a view shows.
type Mode string

const (
	// ModeOpen shows currently open issues.
	ModeOpen Mode = "open"
	// ModeClosed7 shows issues closed within the last 7 days.
	ModeClosed7 Mode = "closed7"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortIID         SortKey = "iid"
	SortTitle       SortKey = "title"
	SortDate        SortKey = "date"
	SortWorkingDays SortKey = "days"
	SortSLARank     SortKey = "sla"
)

// Query describes one view: which population, which facet filters, and
// the sort order. The zero value sorts by iid ascending with no filters.
type Query struct {
	View       Mode
	Filters    map[label.Facet][]string
	SortKey    SortKey
	Descending bool
}

func matchesFacet(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func matches(it Item, q Query) bool {
	for facet, want := range q.Filters {
		if !matchesFacet(it.Facets.ByFacet(facet), want) {
			return false
		}
	}
	return true
}

// dateFor picks the date column per view: closed views order by close
// instant, everything else by creation instant.
func dateFor(it Item, mode Mode) time.Time {
	if mode == ModeClosed7 && it.ClosedAt != nil {
		return *it.ClosedAt
	}
	return it.CreatedAt
}

// SelectAndSort applies the query's facet filters and sort order and
// returns a new slice; the input is never mutated.
func SelectAndSort(items []Item, q Query) []Item {
	selected := make([]Item, 0, len(items))
	for _, it := range items {
		if matches(it, q) {
			selected = append(selected, it)
		}
	}

	key := q.SortKey
	if key == "" {
		key = SortIID
	}

	less := func(a, b Item) bool {
		switch key {
		case SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortDate:
			return dateFor(a, q.View).Before(dateFor(b, q.View))
		case SortWorkingDays:
			return a.WorkingDays < b.WorkingDays
		case SortSLARank:
			return a.Verdict.Rank() < b.Verdict.Rank()
		default:
			return a.IID < b.IID
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if q.Descending {
			return less(selected[j], selected[i])
		}
		return less(selected[i], selected[j])
	})

	return selected
}

// Summary is the per-table totals line.
type Summary struct {
	Total      int
	Applicable int
	Over       int
}

// Summarize counts issues whose SLA applies (within, paused or over) and
// issues currently over their limit.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Verdict {
		case sla.Within, sla.Paused:
			s.Applicable++
		case sla.Over:
			s.Applicable++
			s.Over++
		}
	}
	return s
}
