package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitlab-issue-tracker",
	Short: "SLA tracking over GitLab issues",
	Long: `gitlab-issue-tracker fetches issues from GitLab projects, classifies their
labels into facets (Nature, Phase, Platform, Working-Group, Status, Product)
and evaluates each issue's SLA state from elapsed working time, excluding
weekends and optionally Brazilian public holidays.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().IntSliceP("project", "p", nil, "GitLab project id (repeatable)")

	// Add the issues command
	rootCmd.AddCommand(issuesCmd)

	// Add the stats command
	rootCmd.AddCommand(statsCmd)

	// Add the serve command
	rootCmd.AddCommand(serveCmd)
}
