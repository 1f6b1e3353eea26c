package sla

import (
	"sort"
	"time"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/label"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/workdays"
	"github.com/matheus-raidiam/gitlab-issue-tracker/pkg/models"
)

// PausedDays measures the working time spent under pause-status labels
// within [start, end], from the issue's label history. Add/remove events
// are paired per canonical label; an interval with no remove event yet
// runs to end. Intervals are clipped to the evaluation window before
// being measured with span. An empty history yields 0, so callers
// degrade gracefully to the non-historical computation.
func PausedDays(start, end time.Time, events []models.LabelEvent, span workdays.Counter, vocab *label.Vocabulary) int {
	if len(events) == 0 || !end.After(start) {
		return 0
	}
	if vocab == nil {
		vocab = label.Default()
	}

	ordered := make([]models.LabelEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	open := make(map[string]time.Time)
	total := 0
	for _, ev := range ordered {
		canonical := vocab.Normalize(ev.Label)
		if !IsPauseStatus(canonical) {
			continue
		}
		switch ev.Action {
		case models.LabelAdded:
			if _, ok := open[canonical]; !ok {
				open[canonical] = ev.Timestamp
			}
		case models.LabelRemoved:
			if from, ok := open[canonical]; ok {
				delete(open, canonical)
				total += clippedSpan(from, ev.Timestamp, start, end, span)
			}
		}
	}

	// Pause labels still attached at the end of the window.
	for _, from := range open {
		total += clippedSpan(from, end, start, end, span)
	}

	return total
}

func clippedSpan(from, to, start, end time.Time, span workdays.Counter) int {
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = end
	}
	if !to.After(from) {
		return 0
	}
	return span(from, to)
}

// NetElapsed subtracts the paused working time from the gross elapsed
// working days, floored at 0.
func NetElapsed(gross int, start, end time.Time, events []models.LabelEvent, span workdays.Counter, vocab *label.Vocabulary) int {
	net := gross - PausedDays(start, end, events, span, vocab)
	if net < 0 {
		return 0
	}
	return net
}
