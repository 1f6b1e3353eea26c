// Package stats computes the dashboard aggregates: KPIs, per-day series,
// weekday histograms and top-N breakdowns. Everything is a pure function
// over already-fetched issues.
package stats

import (
	"sort"
	"time"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/label"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/workdays"
	"github.com/matheus-raidiam/gitlab-issue-tracker/pkg/models"
)

const dayFormat = "2006-01-02"

// KPIs is the headline numbers row.
type KPIs struct {
	Open         int
	ClosedLast14 int
	// AvgCloseDays is the mean close time of the last-14-days closures in
	// 24h-block working days; HasAvg is false when nothing closed.
	AvgCloseDays float64
	HasAvg       bool
	OpenedLast7  int
}

// ClosedSince keeps issues with a close instant at or after since.
func ClosedSince(issues []models.Issue, since time.Time) []models.Issue {
	var out []models.Issue
	for _, is := range issues {
		if is.ClosedAt != nil && !is.ClosedAt.Before(since) {
			out = append(out, is)
		}
	}
	return out
}

// CreatedSince keeps issues created at or after since.
func CreatedSince(issues []models.Issue, since time.Time) []models.Issue {
	var out []models.Issue
	for _, is := range issues {
		if !is.CreatedAt.Before(since) {
			out = append(out, is)
		}
	}
	return out
}

// Compute assembles the KPI row from the open population and the
// closed-in-window populations, relative to now.
func Compute(open, closed14 []models.Issue, recent []models.Issue, now time.Time) KPIs {
	k := KPIs{
		Open:         len(open),
		ClosedLast14: len(closed14),
		OpenedLast7:  len(CreatedSince(recent, now.AddDate(0, 0, -7))),
	}
	if avg, ok := AverageCloseDays(closed14); ok {
		k.AvgCloseDays = avg
		k.HasAvg = true
	}
	return k
}

// AverageCloseDays is the mean created-to-closed working time in
// 24h-block days. The second return is false when no issue has a close
// instant.
func AverageCloseDays(issues []models.Issue) (float64, bool) {
	sum, n := 0, 0
	for _, is := range issues {
		if is.ClosedAt == nil {
			continue
		}
		sum += workdays.CountBlockDays(is.CreatedAt, *is.ClosedAt)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// Series is a per-day count over a trailing window, oldest day first.
type Series struct {
	Days   []string
	Counts []int
}

// PerDay buckets issues into the last n calendar days ending at now,
// keyed by the instant pick extracts. Issues outside the window are
// dropped.
func PerDay(issues []models.Issue, n int, now time.Time, pick func(models.Issue) *time.Time) Series {
	s := Series{Days: make([]string, 0, n), Counts: make([]int, n)}
	index := make(map[string]int, n)
	for i := n - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayFormat)
		index[day] = len(s.Days)
		s.Days = append(s.Days, day)
	}
	for _, is := range issues {
		t := pick(is)
		if t == nil {
			continue
		}
		if i, ok := index[t.Format(dayFormat)]; ok {
			s.Counts[i]++
		}
	}
	return s
}

// CreatedAtOf adapts Issue.CreatedAt for PerDay.
func CreatedAtOf(is models.Issue) *time.Time {
	t := is.CreatedAt
	return &t
}

// ClosedAtOf adapts Issue.ClosedAt for PerDay.
func ClosedAtOf(is models.Issue) *time.Time {
	return is.ClosedAt
}

// WeekdayHistogram counts issue creations per weekday, Sunday first.
func WeekdayHistogram(issues []models.Issue) [7]int {
	var counts [7]int
	for _, is := range issues {
		counts[int(is.CreatedAt.Weekday())]++
	}
	return counts
}

// Count is one row of a top-N breakdown.
type Count struct {
	Name string
	N    int
}

func topN(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for name, c := range m {
		out = append(out, Count{Name: name, N: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopFacet counts canonical labels of one facet across the issues and
// returns the n most frequent.
func TopFacet(issues []models.Issue, facet label.Facet, vocab *label.Vocabulary, n int) []Count {
	if vocab == nil {
		vocab = label.Default()
	}
	counts := make(map[string]int)
	for _, is := range issues {
		for _, l := range vocab.Classify(is.Labels).ByFacet(facet) {
			counts[l]++
		}
	}
	return topN(counts, n)
}

// TopAuthors returns the n most frequent issue authors.
func TopAuthors(issues []models.Issue, n int) []Count {
	counts := make(map[string]int)
	for _, is := range issues {
		name := is.Author
		if name == "" {
			name = "—"
		}
		counts[name]++
	}
	return topN(counts, n)
}

// MostCommented returns the n issues with the highest comment count.
func MostCommented(issues []models.Issue, n int) []models.Issue {
	return topIssues(issues, n, func(is models.Issue) int { return is.UserNotesCount })
}

// MostUpvoted returns the n issues with the most upvotes.
func MostUpvoted(issues []models.Issue, n int) []models.Issue {
	return topIssues(issues, n, func(is models.Issue) int { return is.Upvotes })
}

func topIssues(issues []models.Issue, n int, score func(models.Issue) int) []models.Issue {
	out := make([]models.Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
