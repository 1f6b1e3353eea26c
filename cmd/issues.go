// Package cmd provides the command-line interface for the issue tracker.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/config"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/gitlab"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/label"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/logging"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/notes"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/sla"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/view"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/workdays"
	"github.com/matheus-raidiam/gitlab-issue-tracker/pkg/models"
)

const closedWindowDays = 7

// issuesCmd fetches, classifies and evaluates issues, then prints a
// filtered and sorted table per project.
var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List issues with facets and SLA verdicts",
	Long: `Fetch issues from the configured GitLab projects, classify their labels
into facets and evaluate each issue's SLA state from elapsed working time.

The --view flag selects the population: 'open' shows currently open issues
evaluated against now; 'closed7' shows issues closed in the last 7 days,
evaluated against their close instant.

Facet filters are repeatable and combine across facets:

  gitlab-issue-tracker issues -p 26426113 --filter nature=Bug --filter status="Under Evaluation"

Sort keys: iid, title, date, days, sla.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := cmd.Flags().GetIntSlice("project")
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			return fmt.Errorf("at least one project must be specified using --project")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		query, err := queryFromFlags(cmd)
		if err != nil {
			return err
		}

		opts, vocab, err := engineFromConfig(cfg)
		if err != nil {
			return err
		}
		opts.mode = query.View

		if cmd.Flags().Changed("history") {
			opts.useHistory, _ = cmd.Flags().GetBool("history")
		}

		client, err := gitlab.NewClient()
		if err != nil {
			return fmt.Errorf("failed to initialize gitlab client: %v", err)
		}

		noteByURL, err := loadNotes(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		now := time.Now()

		for _, projectID := range projects {
			issues, err := fetchIssues(ctx, client, projectID, query.View, now)
			if err != nil {
				return err
			}

			var events map[int][]models.LabelEvent
			if opts.useHistory {
				events = client.FetchLabelEvents(ctx, projectID, issues)
			}

			items := buildItems(issues, events, vocab, opts, now, noteByURL)
			selected := view.SelectAndSort(items, query)

			fmt.Printf("Project %d (%s view)\n", projectID, query.View)
			printItems(os.Stdout, selected, query.View)

			s := view.Summarize(selected)
			fmt.Printf("Total: %d • SLA-applicable: %d • Over SLA: %d\n\n", s.Total, s.Applicable, s.Over)
		}

		return nil
	},
}

func init() {
	issuesCmd.Flags().String("view", string(view.ModeOpen), "issue population: 'open' or 'closed7'")
	issuesCmd.Flags().StringArray("filter", nil, "facet filter 'facet=Canonical Label' (repeatable)")
	issuesCmd.Flags().String("sort", string(view.SortIID), "sort key: iid, title, date, days, sla")
	issuesCmd.Flags().Bool("desc", false, "sort descending")
	issuesCmd.Flags().Bool("history", false, "subtract paused intervals using label history (overrides SLA_LABEL_HISTORY)")
}

// engineOptions bundles the computation knobs derived from configuration.
type engineOptions struct {
	counter    workdays.Counter
	spanner    workdays.Counter
	policy     sla.Policy
	useHistory bool
	mode       view.Mode
}

// engineFromConfig translates configuration into counters, policy and
// vocabulary. No engine package reads configuration on its own.
func engineFromConfig(cfg *config.Config) (engineOptions, *label.Vocabulary, error) {
	opts := engineOptions{
		policy:     sla.Policy{BugBypassesPause: cfg.SLA.BugBypassesPause},
		useHistory: cfg.SLA.LabelHistory,
	}

	if cfg.SLA.CountMode == config.CountModeBlocks {
		opts.counter = workdays.BlockDayCounter()
		opts.spanner = workdays.BlockDayCounter()
	} else {
		var cal *workdays.Calendar
		if cfg.SLA.HolidaysEnabled {
			cal = workdays.NewBrazilCalendar(cfg.SLA.HolidayFirstYear, cfg.SLA.HolidayLastYear)
		}
		opts.counter = workdays.WholeDayCounter(cal)
		opts.spanner = workdays.WholeDaySpanner(cal)
	}

	vocab := label.Default()
	if cfg.SLA.VocabularyFile != "" {
		f, err := os.Open(cfg.SLA.VocabularyFile)
		if err != nil {
			return opts, nil, fmt.Errorf("failed to open vocabulary file: %w", err)
		}
		defer f.Close()
		if err := vocab.Extend(f); err != nil {
			return opts, nil, err
		}
	}

	return opts, vocab, nil
}

// queryFromFlags assembles the immutable view query from command flags.
func queryFromFlags(cmd *cobra.Command) (view.Query, error) {
	var q view.Query

	mode, err := cmd.Flags().GetString("view")
	if err != nil {
		return q, err
	}
	switch view.Mode(mode) {
	case view.ModeOpen, view.ModeClosed7:
		q.View = view.Mode(mode)
	default:
		return q, fmt.Errorf("invalid view %q (expected 'open' or 'closed7')", mode)
	}

	sortKey, err := cmd.Flags().GetString("sort")
	if err != nil {
		return q, err
	}
	switch view.SortKey(sortKey) {
	case view.SortIID, view.SortTitle, view.SortDate, view.SortWorkingDays, view.SortSLARank:
		q.SortKey = view.SortKey(sortKey)
	default:
		return q, fmt.Errorf("invalid sort key %q", sortKey)
	}

	q.Descending, err = cmd.Flags().GetBool("desc")
	if err != nil {
		return q, err
	}

	raw, err := cmd.Flags().GetStringArray("filter")
	if err != nil {
		return q, err
	}
	q.Filters, err = parseFilters(raw)
	return q, err
}

// parseFilters turns repeatable 'facet=value' flags into the query's
// filter map.
func parseFilters(raw []string) (map[label.Facet][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make(map[label.Facet][]string)
	for _, entry := range raw {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid filter %q, expected 'facet=value'", entry)
		}
		facet := label.Facet(strings.ToLower(strings.TrimSpace(parts[0])))
		switch facet {
		case label.FacetNature, label.FacetPhase, label.FacetPlatform,
			label.FacetWorkingGroup, label.FacetStatus, label.FacetProduct:
		default:
			return nil, fmt.Errorf("unknown facet %q in filter %q", parts[0], entry)
		}
		filters[facet] = append(filters[facet], strings.TrimSpace(parts[1]))
	}
	return filters, nil
}

// fetchIssues picks the population for the view mode.
func fetchIssues(ctx context.Context, client *gitlab.Client, projectID int, mode view.Mode, now time.Time) ([]models.Issue, error) {
	if mode == view.ModeClosed7 {
		return client.ListClosedIssues(ctx, projectID, now.AddDate(0, 0, -closedWindowDays))
	}
	return client.ListOpenIssues(ctx, projectID)
}

// loadNotes reads every stored note when a notes database is configured.
func loadNotes(cfg *config.Config) (map[string]string, error) {
	if cfg.Notes.Path == "" {
		return nil, nil
	}

	store, err := notes.Open(cfg.Notes.Path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	all, err := store.All()
	if err != nil {
		return nil, err
	}
	logging.Debug("loaded notes", "count", len(all))
	return all, nil
}

// buildItems runs the engine pipeline over fetched issues: classify,
// measure elapsed working time, optionally subtract paused intervals,
// evaluate the SLA policy. Pure apart from reading the inputs.
func buildItems(issues []models.Issue, events map[int][]models.LabelEvent, vocab *label.Vocabulary, opts engineOptions, now time.Time, noteByURL map[string]string) []view.Item {
	items := make([]view.Item, 0, len(issues))
	for _, issue := range issues {
		facets := vocab.Classify(issue.Labels)

		end := now
		if opts.mode == view.ModeClosed7 && issue.ClosedAt != nil {
			end = *issue.ClosedAt
		}

		elapsed := opts.counter(issue.CreatedAt, end)
		if opts.useHistory {
			elapsed = sla.NetElapsed(elapsed, issue.CreatedAt, end, events[issue.IID], opts.spanner, vocab)
		}

		items = append(items, view.Item{
			Issue:       issue,
			Facets:      facets,
			WorkingDays: elapsed,
			Verdict:     sla.Evaluate(facets, elapsed, opts.policy),
			Note:        noteByURL[issue.WebURL],
		})
	}
	return items
}

func cell(labels []string) string {
	if len(labels) == 0 {
		return "—"
	}
	return strings.Join(labels, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// printItems renders the issue table. The date column shows the close
// instant in the closed view and the creation instant otherwise.
func printItems(out *os.File, items []view.Item, mode view.Mode) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	dateHeader := "Created"
	if mode == view.ModeClosed7 {
		dateHeader = "Closed"
	}
	fmt.Fprintf(w, "IID\tTitle\t%s\tDays\tSLA\tNature\tPhase\tPlatform\tProduct\tStatus\tWG\tNote\n", dateHeader)

	for _, it := range items {
		date := it.CreatedAt
		if mode == view.ModeClosed7 && it.ClosedAt != nil {
			date = *it.ClosedAt
		}
		fmt.Fprintf(w, "#%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.IID,
			truncate(it.Title, 60),
			date.Format("2006-01-02"),
			it.WorkingDays,
			it.Verdict,
			cell(it.Facets.Nature),
			cell(it.Facets.Phase),
			cell(it.Facets.Platform),
			cell(it.Facets.Product),
			cell(it.Facets.Status),
			cell(it.Facets.WorkingGroup),
			truncate(it.Note, 40))
	}

	w.Flush()
}
