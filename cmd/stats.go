package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/config"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/gitlab"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/label"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/stats"
	"github.com/matheus-raidiam/gitlab-issue-tracker/pkg/models"
)

// statsCmd prints the dashboard aggregates for each project.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard KPIs and breakdowns",
	Long: `Print per-project dashboard statistics: open issue count, issues closed in
the last 14 days, average close time in 24h-block working days, issues
opened in the last 7 days, creation and closure trends, weekday
distribution, and top working groups, products, authors, most commented
and most upvoted issues.`,
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

		_, vocab, err := engineFromConfig(cfg)
		if err != nil {
			return err
		}

		client, err := gitlab.NewClient()
		if err != nil {
			return fmt.Errorf("failed to initialize gitlab client: %v", err)
		}

		ctx := context.Background()
		now := time.Now()

		for _, projectID := range projects {
			if err := printProjectStats(ctx, client, projectID, vocab, now); err != nil {
				return err
			}
		}

		return nil
	},
}

func printProjectStats(ctx context.Context, client *gitlab.Client, projectID int, vocab *label.Vocabulary, now time.Time) error {
	since30 := now.AddDate(0, 0, -30)
	since14 := now.AddDate(0, 0, -14)

	open, err := client.ListOpenIssues(ctx, projectID)
	if err != nil {
		return err
	}
	closed30, err := client.ListClosedIssues(ctx, projectID, since30)
	if err != nil {
		return err
	}
	closed14 := stats.ClosedSince(closed30, since14)

	// Everything created in the trailing 30 days, open or closed.
	recent := stats.CreatedSince(append(append([]models.Issue(nil), open...), closed30...), since30)

	kpis := stats.Compute(open, closed14, recent, now)

	fmt.Printf("Project %d\n", projectID)
	fmt.Printf("  Open issues:            %d\n", kpis.Open)
	fmt.Printf("  Closed (last 14 days):  %d\n", kpis.ClosedLast14)
	if kpis.HasAvg {
		fmt.Printf("  Avg close time (days):  %.1f\n", kpis.AvgCloseDays)
	} else {
		fmt.Printf("  Avg close time (days):  —\n")
	}
	fmt.Printf("  Opened (last 7 days):   %d\n\n", kpis.OpenedLast7)

	created := stats.PerDay(recent, 30, now, stats.CreatedAtOf)
	closed := stats.PerDay(closed14, 14, now, stats.ClosedAtOf)
	printSeries("Created per day (30d)", created)
	printSeries("Closed per day (14d)", closed)

	weekdays := stats.WeekdayHistogram(recent)
	fmt.Println("  Creations by weekday:")
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		fmt.Printf("    %-9s %d\n", wd, weekdays[wd])
	}
	fmt.Println()

	printCounts("Top working groups", stats.TopFacet(recent, label.FacetWorkingGroup, vocab, 5))
	printCounts("Top products", stats.TopFacet(recent, label.FacetProduct, vocab, 5))
	printCounts("Top authors", stats.TopAuthors(recent, 10))

	printIssueList("Most commented", stats.MostCommented(recent, 5), func(is models.Issue) int { return is.UserNotesCount })
	printIssueList("Most upvoted", stats.MostUpvoted(recent, 5), func(is models.Issue) int { return is.Upvotes })

	return nil
}

// printSeries lists only the busy days; a row per empty day would drown
// the terminal.
func printSeries(title string, s stats.Series) {
	fmt.Printf("  %s:\n", title)
	any := false
	for i, day := range s.Days {
		if s.Counts[i] == 0 {
			continue
		}
		fmt.Printf("    %s  %d\n", day, s.Counts[i])
		any = true
	}
	if !any {
		fmt.Println("    —")
	}
	fmt.Println()
}

func printCounts(title string, counts []stats.Count) {
	fmt.Printf("  %s:\n", title)
	if len(counts) == 0 {
		fmt.Println("    —")
		fmt.Println()
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(w, "    %s\t%d\n", c.Name, c.N)
	}
	w.Flush()
	fmt.Println()
}

func printIssueList(title string, issues []models.Issue, score func(models.Issue) int) {
	fmt.Printf("  %s:\n", title)
	if len(issues) == 0 {
		fmt.Println("    —")
		fmt.Println()
		return
	}
	for _, is := range issues {
		fmt.Printf("    #%d %s — %d\n", is.IID, truncate(is.Title, 50), score(is))
	}
	fmt.Println()
}
